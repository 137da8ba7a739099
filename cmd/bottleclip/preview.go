package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/openscad"
	"github.com/gogpu/bottleclip/resolve"
	"github.com/gogpu/bottleclip/solid"
)

func newPreviewCmd(a *app) *cobra.Command {
	var (
		out   string
		color string
		z     float64
		px    float64
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a cross-section of one clip as PNG",
		Long: `Samples the clip in a horizontal plane and paints the material colors.
No external renderer is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.clipParams()
			if err != nil {
				return err
			}
			if math.IsNaN(z) {
				z = p.HT / 2
			}
			if out == "" {
				out = openscad.FileName(p.Name, "preview") + ".png"
			}

			tree, err := resolve.Lower(cmd.Context(), bottleclip.Build(p, bottleclip.WithActiveColor(color)), resolve.Options{
				Dir:   a.dir,
				Fonts: a.fonts,
			})
			if err != nil {
				return err
			}
			s, err := solid.Compile(tree)
			if err != nil {
				return err
			}
			img, err := solid.Slice(s, z, px)
			if err != nil {
				return err
			}

			if err := writeFile(out, func(w io.Writer) error {
				return solid.WritePNG(w, img)
			}); err != nil {
				return err
			}
			bottleclip.Logger().Info("preview written", "path", out, "z", z, "size", img.Bounds().Size().String())
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "PNG file (default <name>-preview.png)")
	cmd.Flags().StringVar(&color, "color", "", "only show the parts of this color")
	cmd.Flags().Float64Var(&z, "z", math.NaN(), "slice height in mm (default half the tag height)")
	cmd.Flags().Float64Var(&px, "px", 0.1, "pixel size in mm")
	return cmd
}
