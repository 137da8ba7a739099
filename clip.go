package bottleclip

import (
	"math"

	"github.com/gogpu/bottleclip/csg"
)

// Build returns the shape tree of one clip.
//
// The tag is a conical tube: a body cone carrying the name (and optionally
// a logo) minus the bore the bottle neck slides into, minus a trimming shell
// that caps the inscription a little outside the wall, minus a wedge that
// lets the tube flex open. The wedge spans Gap degrees.
//
// Build performs no validation. Parameters outside the documented ranges
// produce malformed geometry, and a gap of 180 degrees or more splits the
// tube; see Params.Validate.
func Build(p Params, opts ...Option) csg.Node {
	o := applyOptions(opts)
	if err := p.Validate(); err != nil {
		Logger().Warn("clip parameters out of range", "name", p.Name, "err", err)
	}

	decorated := csg.RotateZ(csg.NewUnion(
		Select(p.BgColor, o.activeColor, body(p)),
		inscription(p, o),
	), bodyTwist)

	tree := csg.NewDifference(decorated, bore(p), trim(p), gap(p))
	Logger().Debug("clip built", "name", p.Name, "active", o.activeColor, "logo", p.Logo != "")
	return tree
}

// body is the outer cone of the tag.
func body(p Params) csg.Node {
	return csg.Cylinder{R1: p.RL + p.Width, R2: p.RU + p.Width, H: p.HT}
}

// inscription sets the name, and the logo when one is configured.
func inscription(p Params, o buildOptions) csg.Node {
	text := csg.CylinderText{
		Text:   p.Name,
		Font:   p.Font,
		Radius: p.RL + inscriptionPad,
		Depth:  math.Max(p.RL, p.RU),
	}
	if p.Logo == "" {
		text.Size = p.HT * nameHeight
		text.Center = p.HT * (textOffset + textBand/2)
		return Select(p.TextColor, o.activeColor, text)
	}

	text.Size = p.HT * logoNameHeight
	text.Center = p.HT * textBand / 2
	return csg.NewUnion(
		Select(p.TextColor, o.activeColor, text),
		Select(p.LogoColor, o.activeColor, logo(p)),
	)
}

// logo extrudes the logo outline through the wall and stands it up on the
// -Y face, in the upper half of the tag.
func logo(p Params) csg.Node {
	var n csg.Node = csg.Extrude{
		Height: math.Max(p.RU, p.RL) * 2,
		Shape:  csg.Import{Path: p.Logo},
	}
	n = csg.Translate(n, -logoDesignCenter, -logoDesignCenter, 0)
	n = csg.Scale(n, p.HT*logoScale, p.HT*logoScale, 1)
	n = csg.RotateX(n, 90)
	return csg.Translate(n, 0, 0, p.HT*3/4-logoLift)
}

// bore is the hollow the bottle neck slides into. It overshoots both ends
// by 1mm.
func bore(p Params) csg.Node {
	return csg.Translate(csg.Cylinder{R1: p.RL, R2: p.RU, H: p.HT + 2}, 0, 0, -1)
}

// trim is the shell outside the wall plus clearance. Subtracting it caps
// the text and logo so they never project beyond the clearance.
func trim(p Params) csg.Node {
	return csg.NewDifference(
		csg.Cylinder{R1: p.RL + trimMargin, R2: p.RU + trimMargin, H: p.HT},
		csg.Cylinder{R1: p.RL + p.Width + clearance, R2: p.RU + p.Width + clearance, H: p.HT},
	)
}

// gap is the wedge carved out of the tube, gap degrees wide and centered on
// the +45 degree direction.
func gap(p Params) csg.Node {
	cut := csg.Extrude{
		Height: p.HT + 2,
		Shape:  csg.Polygon{Paths: [][]csg.Vec2{wedge(p.Gap)}},
	}
	return csg.Translate(cut, 0, 0, -1)
}

// wedge returns the sector whose apex sits on the axis and whose legs are
// gapDeg degrees apart, symmetric about the +45 degree direction. The far
// side follows the wedgeRadius arc in steps of at most wedgeStep degrees, so
// the cut spans gapDeg at every radius the wall can reach, even past 90
// degrees where a single chord would pass inside the wall.
func wedge(gapDeg float64) []csg.Vec2 {
	n := max(1, int(math.Ceil(gapDeg/wedgeStep)))
	pts := make([]csg.Vec2, 0, n+2)
	pts = append(pts, csg.Vec2{})
	for i := 0; i <= n; i++ {
		deg := 45 + gapDeg/2 - gapDeg*float64(i)/float64(n)
		sin, cos := math.Sincos(deg * math.Pi / 180)
		pts = append(pts, csg.Vec2{X: wedgeRadius * cos, Y: wedgeRadius * sin})
	}
	return pts
}
