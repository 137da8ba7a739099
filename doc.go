// Package bottleclip builds parametric clip-on name tags for bottles.
//
// # Overview
//
// A clip is a conical tube that snaps around a bottle neck. Its outer face
// carries a name, and optionally a logo, raised a fraction of a millimeter
// above the wall. A wedge cut out of the tube lets it flex open.
//
// The package only describes the shape. Build returns an immutable
// [csg.Node] tree; evaluating it is left to a backend:
//
//   - scad writes OpenSCAD source for preview and STL export
//   - solid samples the tree natively (volume, cross-section images)
//   - openscad drives the OpenSCAD binary, one pass per material
//
// # Quick Start
//
//	p := bottleclip.DefaultParams()
//	p.Name = "Ada"
//	tree := bottleclip.Longneck(p)
//
//	lowered, err := resolve.Lower(ctx, tree, resolve.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = scad.Write(os.Stdout, lowered)
//
// # Multi-material prints
//
// Every part of a clip carries a color. Passing WithActiveColor keeps only
// the parts of that color, so building once per entry of Passes and
// exporting each tree separately yields one mesh per filament.
//
// # Coordinate System
//
// Millimeters, Z up. The bottle axis is the Z axis and the tag stands on
// the XY plane. Angles in the public API are in degrees.
package bottleclip
