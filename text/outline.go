package text

import (
	"errors"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/path"
)

// Outline returns the flattened contours of one glyph at the given em size,
// in millimeters with y up and the pen position at the origin. Glyphs
// without an outline (space) and color glyphs yield no contours.
func (s *FontSource) Outline(gid uint16, size float64) ([][]csg.Vec2, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	upem := float64(s.font.UnitsPerEm())
	elements, err := s.loadElements(gid, upem)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}

	// Flatten in font units, so convert the tolerance from millimeters.
	scale := size / upem
	contours := path.Contours(elements, path.Tolerance/scale)

	out := make([][]csg.Vec2, len(contours))
	for i, c := range contours {
		pts := make([]csg.Vec2, len(c))
		for j, p := range c {
			pts[j] = csg.V2(p.X*scale, -p.Y*scale)
		}
		out[i] = pts
	}
	return out, nil
}

// loadElements reads the glyph at ppem == unitsPerEm so that coordinates
// come back in font units. sfnt reports y down.
func (s *FontSource) loadElements(gid uint16, upem float64) ([]path.PathElement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	segments, err := s.font.LoadGlyph(&s.buf, sfnt.GlyphIndex(gid), fixed.Int26_6(upem*64), nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrColoredGlyph) {
			Logger().Debug("skipping colored glyph", "gid", gid, "font", s.name)
			return nil, nil
		}
		return nil, &FontError{Path: s.path, Reason: "failed to load glyph", Err: err}
	}

	elements := make([]path.PathElement, 0, len(segments))
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			elements = append(elements, path.MoveTo{Point: toPoint(seg.Args[0])})
		case sfnt.SegmentOpLineTo:
			elements = append(elements, path.LineTo{Point: toPoint(seg.Args[0])})
		case sfnt.SegmentOpQuadTo:
			elements = append(elements, path.QuadTo{
				Control: toPoint(seg.Args[0]),
				Point:   toPoint(seg.Args[1]),
			})
		case sfnt.SegmentOpCubeTo:
			elements = append(elements, path.CubicTo{
				Control1: toPoint(seg.Args[0]),
				Control2: toPoint(seg.Args[1]),
				Point:    toPoint(seg.Args[2]),
			})
		}
	}
	return elements, nil
}

func toPoint(p fixed.Point26_6) path.Point {
	return path.Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}
