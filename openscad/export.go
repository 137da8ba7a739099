package openscad

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/resolve"
	"github.com/gogpu/bottleclip/scad"
	"github.com/gogpu/bottleclip/text"
)

// BuildFunc builds the shape tree of one clip. bottleclip.Build and the
// Build method of a Preset both satisfy it.
type BuildFunc func(p bottleclip.Params, opts ...bottleclip.Option) csg.Node

// File is the output of one color pass.
type File struct {
	Color string
	SCAD  string
	// STL is empty when the pass was only written, not rendered.
	STL string
}

// Exporter writes and renders per-color passes of a clip.
type Exporter struct {
	Runner Runner

	// Build builds the clip tree. Nil means bottleclip.Build.
	Build BuildFunc

	// Dir is the base for relative font and logo paths.
	Dir string

	// Segments is the circle resolution written as $fn. Zero keeps the
	// OpenSCAD default.
	Segments int

	// Jobs bounds concurrent renderer runs. Zero or less means one per pass.
	Jobs int

	// Fonts caches opened fonts across exports. Nil opens fonts per export.
	Fonts *text.Sources
}

// WritePasses writes one OpenSCAD file per color pass of p into outDir and
// returns them in pass order. Passes without geometry are skipped: a preset
// may drop the logo, and an empty name leaves the text pass blank.
func (e *Exporter) WritePasses(ctx context.Context, p bottleclip.Params, outDir string) ([]File, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("openscad: %w", err)
	}
	build := e.Build
	if build == nil {
		build = bottleclip.Build
	}
	root, err := filepath.Abs(e.Dir)
	if err != nil {
		return nil, fmt.Errorf("openscad: %w", err)
	}
	fonts := e.Fonts
	if fonts == nil {
		fonts = text.NewSources(0)
	}

	passes := bottleclip.Passes(p)
	files := make([]File, 0, len(passes))
	for _, color := range passes {
		tree := build(p, bottleclip.WithActiveColor(color))
		lowered, err := resolve.Lower(ctx, tree, resolve.Options{Dir: root, Fonts: fonts})
		if err != nil {
			return nil, fmt.Errorf("openscad: pass %s: %w", color, err)
		}
		if csg.IsEmpty(lowered) {
			bottleclip.Logger().Debug("pass has no geometry", "name", p.Name, "color", color)
			continue
		}

		name := filepath.Join(outDir, FileName(p.Name, color)+".scad")
		if err := writeSource(name, lowered,
			scad.WithHeader(fmt.Sprintf("bottle clip %q, color %s", p.Name, color)),
			scad.WithSegments(e.Segments),
			scad.WithImportRoot(root),
		); err != nil {
			return nil, fmt.Errorf("openscad: pass %s: %w", color, err)
		}
		files = append(files, File{Color: color, SCAD: name})
	}
	return files, nil
}

// ExportPasses writes every color pass of p into outDir and renders each to
// an STL next to its source. Renders run concurrently; the first failure
// cancels the rest.
func (e *Exporter) ExportPasses(ctx context.Context, p bottleclip.Params, outDir string) ([]File, error) {
	files, err := e.WritePasses(ctx, p, outDir)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	if e.Jobs > 0 {
		g.SetLimit(e.Jobs)
	}
	for i := range files {
		f := &files[i]
		f.STL = strings.TrimSuffix(f.SCAD, ".scad") + ".stl"
		g.Go(func() error {
			return e.Runner.Render(gctx, f.SCAD, f.STL)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range files {
		bottleclip.Logger().Info("pass exported", "name", p.Name, "color", f.Color, "stl", f.STL)
	}
	return files, nil
}

func writeSource(name string, n csg.Node, opts ...scad.Option) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := scad.Write(f, n, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FileName returns the base name of a pass file: the clip name and the color,
// lowercased with anything but letters and digits replaced by underscores.
// An empty name becomes "clip".
func FileName(name, color string) string {
	if name == "" {
		name = "clip"
	}
	return sanitize(name) + "-" + sanitize(strings.TrimPrefix(color, "#"))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '_'
	}, s)
}
