package logo

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/bottleclip/internal/path"
)

// affine is a 2D affine transform in SVG order:
//
//	| a c e |
//	| b d f |
type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

// then returns the transform applying m first, then n.
func (m affine) then(n affine) affine {
	return affine{
		a: n.a*m.a + n.c*m.b,
		b: n.b*m.a + n.d*m.b,
		c: n.a*m.c + n.c*m.d,
		d: n.b*m.c + n.d*m.d,
		e: n.a*m.e + n.c*m.f + n.e,
		f: n.b*m.e + n.d*m.f + n.f,
	}
}

func (m affine) apply(p path.Point) path.Point {
	return path.Point{
		X: m.a*p.X + m.c*p.Y + m.e,
		Y: m.b*p.X + m.d*p.Y + m.f,
	}
}

// parseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45) scale(2)".
func parseTransform(s string) (affine, error) {
	result := identity
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		closing := strings.IndexByte(s, ')')
		if open < 0 || closing < open {
			return identity, fmt.Errorf("logo: bad transform %q", s)
		}
		name := strings.TrimSpace(s[:open])
		args, err := parseNumbers(s[open+1 : closing])
		if err != nil {
			return identity, err
		}

		var m affine
		switch {
		case name == "matrix" && len(args) == 6:
			m = affine{args[0], args[1], args[2], args[3], args[4], args[5]}
		case name == "translate" && len(args) == 1:
			m = affine{a: 1, d: 1, e: args[0]}
		case name == "translate" && len(args) == 2:
			m = affine{a: 1, d: 1, e: args[0], f: args[1]}
		case name == "scale" && len(args) == 1:
			m = affine{a: args[0], d: args[0]}
		case name == "scale" && len(args) == 2:
			m = affine{a: args[0], d: args[1]}
		case name == "rotate" && (len(args) == 1 || len(args) == 3):
			sin, cos := math.Sincos(args[0] * math.Pi / 180)
			m = affine{a: cos, b: sin, c: -sin, d: cos}
			if len(args) == 3 {
				cx, cy := args[1], args[2]
				m = affine{a: 1, d: 1, e: -cx, f: -cy}.then(m).then(affine{a: 1, d: 1, e: cx, f: cy})
			}
		case name == "skewX" && len(args) == 1:
			m = affine{a: 1, c: math.Tan(args[0] * math.Pi / 180), d: 1}
		case name == "skewY" && len(args) == 1:
			m = affine{a: 1, b: math.Tan(args[0] * math.Pi / 180), d: 1}
		default:
			return identity, fmt.Errorf("logo: bad transform %s with %d arguments", name, len(args))
		}
		// Later entries in the list apply first.
		result = m.then(result)

		s = strings.TrimLeft(s[closing+1:], " \t\r\n,")
	}
	return result, nil
}
