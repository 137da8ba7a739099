package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/text"
)

// app holds the state shared by all subcommands.
type app struct {
	logLevel string
	dir      string
	preset   string
	params   bottleclip.Params

	fonts *text.Sources
}

func newRootCmd() *cobra.Command {
	a := &app{params: bottleclip.DefaultParams(), fonts: text.NewSources(0)}

	root := &cobra.Command{
		Use:          "bottleclip",
		Short:        "Generate clip-on bottle name tags",
		Long:         `bottleclip builds parametric name tags that clip onto bottle necks and exports them for 3D printing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), a.logLevel)
			if err != nil {
				return err
			}
			bottleclip.SetLogger(l)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.StringVar(&a.dir, "dir", ".", "base directory for relative font and logo paths")
	pf.StringVar(&a.preset, "preset", "", "bottle preset (see 'bottleclip presets')")
	pf.StringVar(&a.params.Name, "name", a.params.Name, "name set on the tag")
	pf.StringVar(&a.params.Font, "font", a.params.Font, "font file, or builtin:goregular, builtin:gobold, builtin:gomono")
	pf.StringVar(&a.params.Logo, "logo", a.params.Logo, "logo outline file; empty for none")
	pf.Float64Var(&a.params.RU, "ru", a.params.RU, "upper bore radius in mm")
	pf.Float64Var(&a.params.RL, "rl", a.params.RL, "lower bore radius in mm")
	pf.Float64Var(&a.params.HT, "ht", a.params.HT, "tag height in mm")
	pf.Float64Var(&a.params.Width, "width", a.params.Width, "wall thickness in mm")
	pf.Float64Var(&a.params.Gap, "gap", a.params.Gap, "opening angle in degrees")
	pf.StringVar(&a.params.BgColor, "bg-color", a.params.BgColor, "body color")
	pf.StringVar(&a.params.TextColor, "text-color", a.params.TextColor, "name color")
	pf.StringVar(&a.params.LogoColor, "logo-color", a.params.LogoColor, "logo color")

	root.AddCommand(
		newSCADCmd(a),
		newExportCmd(a),
		newPreviewCmd(a),
		newPresetsCmd(),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// clipParams returns the parameters given by the flags with the selected
// preset applied.
func (a *app) clipParams() (bottleclip.Params, error) {
	if a.preset == "" {
		return a.params, nil
	}
	preset, err := bottleclip.LookupPreset(a.preset)
	if err != nil {
		return bottleclip.Params{}, err
	}
	return preset.Apply(a.params), nil
}

// newLogger returns a text logger on w that writes "err" for the "error"
// key.
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: l,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	})), nil
}
