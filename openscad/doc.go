// Package openscad drives the OpenSCAD command line renderer.
//
// A Runner turns one .scad file into an STL mesh. An Exporter builds a clip
// once per color pass, writes the OpenSCAD source of every pass and renders
// the passes concurrently, so a multi-material print gets one mesh per
// filament:
//
//	e := &openscad.Exporter{Dir: ".", Segments: 96}
//	files, err := e.ExportPasses(ctx, params, "out")
//	// out/ada-white.scad, out/ada-white.stl, out/ada-black.scad, ...
package openscad
