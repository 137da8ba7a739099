// Package scad writes shape trees as OpenSCAD source.
//
// The output is self-contained apart from Import nodes, which become
// import() statements that OpenSCAD resolves against the file's directory
// (or the directory passed to WithImportRoot). CylinderText must be lowered
// with the resolve package first; Write reports ErrUnresolved otherwise.
//
// # Example usage
//
//	tree, err := resolve.Lower(ctx, bottleclip.Build(p), resolve.Options{KeepImports: true})
//	if err != nil {
//	    return err
//	}
//	err = scad.Write(f, tree, scad.WithSegments(128))
package scad
