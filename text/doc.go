// Package text turns strings into glyph outlines for engraving.
//
// It plays the part of the text-to-path helper: a FontSource parses a
// TrueType or OpenType file, a Shaper positions glyphs (with kerning when the
// go-text shaper is used), and Layout flattens each glyph into closed
// contours in millimeters, ready to be extruded.
//
// # Example usage
//
//	source, err := text.Open("fonts/orbitron.ttf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	run, err := text.Layout(source, "Ada", 16)
//
// Fonts may also be referenced as "builtin:goregular", which resolves to
// the Go Regular face bundled with golang.org/x/image.
package text
