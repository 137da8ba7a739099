// Package resolve lowers the opaque primitives of a shape tree into plain
// geometry.
//
// CylinderText becomes one extruded slab per glyph, bent around the
// cylinder glyph by glyph. Import becomes a Polygon when its file format
// can be read. The result can be evaluated by backends that only know
// primitive solids, such as solid.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/logo"
	"github.com/gogpu/bottleclip/text"
)

// LogoLoader reads a 2D outline file.
type LogoLoader func(path string) ([][]csg.Vec2, error)

// Options configures Lower.
type Options struct {
	// Dir is the base for relative font and logo paths. Empty means the
	// working directory.
	Dir string

	// KeepImports leaves Import nodes for the evaluator to read.
	KeepImports bool

	// Fonts caches opened fonts across calls. Nil opens fonts per call.
	Fonts *text.Sources

	// LoadLogo reads Import files. Nil means logo.Load.
	LoadLogo LogoLoader
}

// Lower returns n with every CylinderText replaced by glyph slabs and,
// unless KeepImports is set, every readable Import replaced by a Polygon.
// Imports in a format the loader does not support are kept as they are.
func Lower(ctx context.Context, n csg.Node, opts Options) (csg.Node, error) {
	if opts.Fonts == nil {
		opts.Fonts = text.NewSources(0)
	}
	if opts.LoadLogo == nil {
		opts.LoadLogo = logo.Load
	}
	l := &lowerer{ctx: ctx, opts: opts}
	return l.lower(n)
}

type lowerer struct {
	ctx  context.Context
	opts Options
}

func (l *lowerer) lower(n csg.Node) (csg.Node, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}

	switch v := n.(type) {
	case csg.CylinderText:
		return l.cylinderText(v)

	case csg.Import:
		if l.opts.KeepImports {
			return v, nil
		}
		paths, err := l.opts.LoadLogo(l.path(v.Path))
		if errors.Is(err, logo.ErrUnsupportedFormat) {
			bottleclip.Logger().Debug("import left for the evaluator", "path", v.Path)
			return v, nil
		}
		if err != nil {
			return nil, fmt.Errorf("resolve: import %s: %w", v.Path, err)
		}
		return csg.Polygon{Paths: paths}, nil

	case csg.Extrude:
		shape, err := l.lower(v.Shape)
		if err != nil {
			return nil, err
		}
		v.Shape = shape
		return v, nil

	case csg.Transform:
		child, err := l.lower(v.Child)
		if err != nil {
			return nil, err
		}
		return csg.Apply(v.M, child), nil

	case csg.Color:
		child, err := l.lower(v.Child)
		if err != nil {
			return nil, err
		}
		if csg.IsEmpty(child) {
			return csg.Empty{}, nil
		}
		v.Child = child
		return v, nil

	case csg.Union:
		children := make([]csg.Node, len(v.Children))
		for i, c := range v.Children {
			lc, err := l.lower(c)
			if err != nil {
				return nil, err
			}
			children[i] = lc
		}
		return csg.NewUnion(children...), nil

	case csg.Difference:
		base, err := l.lower(v.Base)
		if err != nil {
			return nil, err
		}
		cut := make([]csg.Node, len(v.Cut))
		for i, c := range v.Cut {
			lc, err := l.lower(c)
			if err != nil {
				return nil, err
			}
			cut[i] = lc
		}
		return csg.NewDifference(base, cut...), nil

	default:
		return n, nil
	}
}

func (l *lowerer) path(p string) string {
	if l.opts.Dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.opts.Dir, p)
}

func (l *lowerer) font(ref string) (*text.FontSource, error) {
	if ref == "" {
		ref = bottleclip.DefaultFont
	}
	if !strings.HasPrefix(ref, text.BuiltinPrefix) {
		ref = l.path(ref)
	}
	return l.opts.Fonts.Open(ref)
}

// cylinderText sets the run flat, then stands every glyph up as a slab
// tangent to the cylinder and turns it to its arc position. The run is
// centered on -Y and its ink is centered vertically on t.Center.
func (l *lowerer) cylinderText(t csg.CylinderText) (csg.Node, error) {
	if t.Text == "" {
		return csg.Empty{}, nil
	}
	if t.Radius <= 0 {
		return nil, fmt.Errorf("resolve: text %q: radius must be positive", t.Text)
	}

	src, err := l.font(t.Font)
	if err != nil {
		return nil, fmt.Errorf("resolve: text %q: %w", t.Text, err)
	}
	run, err := text.Layout(src, t.Text, t.Size)
	if err != nil {
		return nil, fmt.Errorf("resolve: text %q: %w", t.Text, err)
	}
	if run.Empty() {
		return csg.Empty{}, nil
	}

	mid := run.Center()
	slabs := make([]csg.Node, 0, len(run.Glyphs))
	for _, g := range run.Glyphs {
		if len(g.Contours) == 0 {
			continue
		}
		// Glyph ink center, relative to the run center along the arc.
		gx := glyphCenterX(g)
		paths := make([][]csg.Vec2, len(g.Contours))
		for i, c := range g.Contours {
			pts := make([]csg.Vec2, len(c))
			for j, p := range c {
				pts[j] = csg.V2(p.X-gx, p.Y+g.Y)
			}
			paths[i] = pts
		}

		var slab csg.Node = csg.Extrude{Height: t.Depth, Shape: csg.Polygon{Paths: paths}}
		slab = csg.Translate(slab, 0, 0, -t.Depth/2)
		slab = csg.RotateX(slab, 90)
		slab = csg.Translate(slab, 0, -t.Radius, t.Center-mid.Y)
		arc := g.X + gx - mid.X
		slabs = append(slabs, csg.RotateZ(slab, arc/t.Radius*180/math.Pi))
	}

	bottleclip.Logger().Debug("text lowered", "text", t.Text, "font", src.Name(),
		"glyphs", len(slabs), "arc", run.Max.X-run.Min.X)
	return csg.NewUnion(slabs...), nil
}

func glyphCenterX(g text.Glyph) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, c := range g.Contours {
		for _, p := range c {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
	}
	return (lo + hi) / 2
}
