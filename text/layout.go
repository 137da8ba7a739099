package text

import (
	"math"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/bottleclip/csg"
)

// Glyph is one positioned glyph of a Run. Contours are relative to the pen
// position X on the baseline.
type Glyph struct {
	GID      uint16
	X, Y     float64
	Advance  float64
	Contours [][]csg.Vec2
}

// Run is a laid out line of text, in millimeters, baseline at y=0.
type Run struct {
	Glyphs  []Glyph
	Advance float64

	// Min and Max bound the ink of all glyphs. Both are zero when the run
	// has no visible glyph.
	Min, Max csg.Vec2
}

// Empty reports whether the run has nothing to engrave.
func (r Run) Empty() bool {
	for _, g := range r.Glyphs {
		if len(g.Contours) > 0 {
			return false
		}
	}
	return true
}

// Center returns the middle of the ink bounds.
func (r Run) Center() csg.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// Layout shapes s with the global shaper and extracts every glyph outline.
// The text is NFC-normalized first so that decomposed input maps onto the
// precomposed glyphs most fonts carry.
func Layout(src *FontSource, s string, size float64) (Run, error) {
	if size <= 0 {
		return Run{}, ErrInvalidSize
	}
	if src == nil || s == "" {
		return Run{}, nil
	}

	shaped := GetShaper().Shape(norm.NFC.String(s), src, size)

	run := Run{Glyphs: make([]Glyph, 0, len(shaped))}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, sg := range shaped {
		contours, err := src.Outline(sg.GID, size)
		if err != nil {
			return Run{}, err
		}
		for _, c := range contours {
			for _, p := range c {
				minX = math.Min(minX, p.X+sg.X)
				minY = math.Min(minY, p.Y+sg.Y)
				maxX = math.Max(maxX, p.X+sg.X)
				maxY = math.Max(maxY, p.Y+sg.Y)
			}
		}
		run.Glyphs = append(run.Glyphs, Glyph{
			GID:      sg.GID,
			X:        sg.X,
			Y:        sg.Y,
			Advance:  sg.XAdvance,
			Contours: contours,
		})
		run.Advance = math.Max(run.Advance, sg.X+sg.XAdvance)
	}

	if !math.IsInf(minX, 1) {
		run.Min = csg.V2(minX, minY)
		run.Max = csg.V2(maxX, maxY)
	}

	Logger().Debug("text laid out", "text", s, "font", src.Name(),
		"size", size, "glyphs", len(run.Glyphs), "advance", run.Advance)
	return run, nil
}
