// Package logo imports 2D line art for the clip's emblem.
//
// Load reads an SVG file and returns its filled regions as closed contours
// with y pointing up, in the document's own user units. Curves are flattened
// through the same tolerance as glyph outlines. Only geometry is read:
// fills, strokes, styles and clip paths are ignored, and every shape counts
// as filled with the even-odd rule.
//
// DXF and other formats are not parsed here; the scad backend hands them to
// OpenSCAD's import() untouched.
package logo
