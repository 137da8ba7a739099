package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/resolve"
	"github.com/gogpu/bottleclip/scad"
)

func newSCADCmd(a *app) *cobra.Command {
	var (
		out         string
		color       string
		segments    int
		keepImports bool
	)
	cmd := &cobra.Command{
		Use:   "scad",
		Short: "Write the OpenSCAD source of one clip",
		Long: `Writes a self-contained OpenSCAD file for the clip described by the flags.
The name is converted to outlines; the logo is inlined unless --keep-imports is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.clipParams()
			if err != nil {
				return err
			}
			root, err := filepath.Abs(a.dir)
			if err != nil {
				return err
			}

			tree, err := resolve.Lower(cmd.Context(), bottleclip.Build(p, bottleclip.WithActiveColor(color)), resolve.Options{
				Dir:         root,
				KeepImports: keepImports,
				Fonts:       a.fonts,
			})
			if err != nil {
				return err
			}

			opts := []scad.Option{
				scad.WithHeader(fmt.Sprintf("bottle clip %q", p.Name)),
				scad.WithSegments(segments),
				scad.WithImportRoot(root),
			}
			if out == "" || out == "-" {
				return scad.Write(cmd.OutOrStdout(), tree, opts...)
			}
			return writeFile(out, func(w io.Writer) error {
				return scad.Write(w, tree, opts...)
			})
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVar(&color, "color", "", "only emit the parts of this color")
	cmd.Flags().IntVar(&segments, "segments", 0, "circle resolution ($fn); 0 keeps the OpenSCAD default")
	cmd.Flags().BoolVar(&keepImports, "keep-imports", false, "leave the logo as an import() statement")
	return cmd
}

// writeFile creates name and fills it with write.
func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
