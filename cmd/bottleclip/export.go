package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/config"
	"github.com/gogpu/bottleclip/openscad"
)

// exportFlags are shared by export and watch.
type exportFlags struct {
	out      string
	binary   string
	jobs     int
	segments int
	noRender bool
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.out, "out", "", "output directory (default: the job's, or \""+config.DefaultOutput+"\")")
	cmd.Flags().StringVar(&f.binary, "openscad", openscad.DefaultBinary, "OpenSCAD executable")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "concurrent renders; 0 renders every pass at once")
	cmd.Flags().IntVar(&f.segments, "segments", 0, "circle resolution ($fn)")
	cmd.Flags().BoolVar(&f.noRender, "no-render", false, "write OpenSCAD files only")
}

func (f *exportFlags) exporter(a *app) *openscad.Exporter {
	return &openscad.Exporter{
		Runner:   openscad.Runner{Binary: f.binary},
		Dir:      a.dir,
		Segments: f.segments,
		Jobs:     f.jobs,
		Fonts:    a.fonts,
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		flags exportFlags
		job   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one mesh per color",
		Long: `Builds the clip once per color, writes an OpenSCAD file per pass and renders
each to STL with OpenSCAD. With --job, every clip of a YAML or TOML job file is
exported instead of the one described by the flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := flags.exporter(a)
			if job != "" {
				return runJob(cmd.Context(), cmd.OutOrStdout(), e, job, flags.out, !flags.noRender)
			}

			p, err := a.clipParams()
			if err != nil {
				return err
			}
			out := flags.out
			if out == "" {
				out = config.DefaultOutput
			}
			return exportClip(cmd.Context(), cmd.OutOrStdout(), e, p, out, !flags.noRender)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&job, "job", "", "YAML or TOML job file")
	return cmd
}

// runJob exports every clip of a job file. A non-empty out replaces the
// job's output directory; the exporter's segments and jobs replace the
// job's when set.
func runJob(ctx context.Context, w io.Writer, e *openscad.Exporter, path, out string, render bool) error {
	job, err := config.Load(path)
	if err != nil {
		return err
	}
	params, err := job.Params()
	if err != nil {
		return err
	}

	if out == "" {
		out = job.Output
	}
	if e.Segments == 0 {
		e.Segments = job.Segments
	}
	if e.Jobs == 0 {
		e.Jobs = job.Jobs
	}
	for _, p := range params {
		if err := exportClip(ctx, w, e, p, out, render); err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	bottleclip.Logger().Info("job exported", "path", path, "clips", len(params), "out", out)
	return nil
}

func exportClip(ctx context.Context, w io.Writer, e *openscad.Exporter, p bottleclip.Params, out string, render bool) error {
	export := e.ExportPasses
	if !render {
		export = e.WritePasses
	}
	files, err := export(ctx, p, out)
	if err != nil {
		return err
	}
	for _, f := range files {
		path := f.STL
		if path == "" {
			path = f.SCAD
		}
		fmt.Fprintf(w, "%s\t%s\n", f.Color, path)
	}
	return nil
}
