package logo

import (
	"fmt"
	"math"

	"github.com/tdewolff/parse/v2/strconv"

	"github.com/gogpu/bottleclip/internal/path"
)

// argCount is the number of values each path command consumes per set.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// parsePathData converts SVG path data into path elements in user units.
// Arcs are approximated by cubic Béziers.
func parsePathData(d string) ([]path.PathElement, error) {
	b := []byte(d)
	i := skipCommaWhitespace(b, 0)
	if i == len(b) {
		return nil, nil
	}
	if !isCommand(b[i]) {
		return nil, &PathError{Msg: "path should start with command", Pos: i}
	}

	var (
		elems      []path.PathElement
		cur, start path.Point
		lastCtrl   path.Point
		prevCmd    byte
		cmd        byte
		vals       [7]float64
	)

	for i < len(b) {
		if isCommand(b[i]) {
			cmd = b[i]
			i = skipCommaWhitespace(b, i+1)
		} else if cmd == 0 {
			return nil, &PathError{Msg: fmt.Sprintf("unknown command '%c'", b[i]), Pos: i}
		}

		upper := cmd &^ 0x20
		n, ok := argCount[upper]
		if !ok {
			return nil, &PathError{Msg: fmt.Sprintf("unknown command '%c'", cmd), Pos: i}
		}
		rel := cmd != upper

		if upper == 'Z' {
			elems = append(elems, path.Close{})
			cur = start
			prevCmd = 'Z'
			cmd = 0
			continue
		}

		pos := i
		for j := 0; j < n; j++ {
			if upper == 'A' && (j == 3 || j == 4) {
				if i >= len(b) || (b[i] != '0' && b[i] != '1') {
					return nil, &PathError{Msg: fmt.Sprintf("largeArc and sweep flags should be 0 or 1 in command '%c'", cmd), Pos: i}
				}
				vals[j] = float64(b[i] - '0')
				i = skipCommaWhitespace(b, i+1)
				continue
			}
			f, m := strconv.ParseFloat(b[i:])
			if m == 0 {
				return nil, &PathError{Msg: fmt.Sprintf("sets of %d numbers should follow command '%c'", n, cmd), Pos: pos}
			}
			vals[j] = f
			i = skipCommaWhitespace(b, i+m)
		}

		var off path.Point
		if rel {
			off = cur
		}
		pt := func(k int) path.Point {
			return path.Point{X: vals[k] + off.X, Y: vals[k+1] + off.Y}
		}

		switch upper {
		case 'M':
			cur = pt(0)
			start = cur
			elems = append(elems, path.MoveTo{Point: cur})
			// Further coordinate pairs are implicit lineto commands.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
			prevCmd = 'M'
			continue
		case 'L':
			cur = pt(0)
			elems = append(elems, path.LineTo{Point: cur})
		case 'H':
			cur = path.Point{X: vals[0] + off.X, Y: cur.Y}
			elems = append(elems, path.LineTo{Point: cur})
		case 'V':
			cur = path.Point{X: cur.X, Y: vals[0] + off.Y}
			elems = append(elems, path.LineTo{Point: cur})
		case 'C':
			c1, c2, p := pt(0), pt(2), pt(4)
			elems = append(elems, path.CubicTo{Control1: c1, Control2: c2, Point: p})
			lastCtrl, cur = c2, p
		case 'S':
			c1 := cur
			if prevCmd == 'C' || prevCmd == 'S' {
				c1 = reflect(lastCtrl, cur)
			}
			c2, p := pt(0), pt(2)
			elems = append(elems, path.CubicTo{Control1: c1, Control2: c2, Point: p})
			lastCtrl, cur = c2, p
		case 'Q':
			c, p := pt(0), pt(2)
			elems = append(elems, path.QuadTo{Control: c, Point: p})
			lastCtrl, cur = c, p
		case 'T':
			c := cur
			if prevCmd == 'Q' || prevCmd == 'T' {
				c = reflect(lastCtrl, cur)
			}
			p := pt(0)
			elems = append(elems, path.QuadTo{Control: c, Point: p})
			lastCtrl, cur = c, p
		case 'A':
			p := pt(5)
			elems = append(elems, arcToCubics(cur, vals[0], vals[1], vals[2], vals[3] != 0, vals[4] != 0, p)...)
			cur = p
		}
		prevCmd = upper
	}
	return elems, nil
}

func isCommand(c byte) bool {
	_, ok := argCount[c&^0x20]
	return ok && c >= 'A'
}

func skipCommaWhitespace(b []byte, i int) int {
	for i < len(b) && (b[i] == ' ' || b[i] == ',' || b[i] == '\n' || b[i] == '\r' || b[i] == '\t') {
		i++
	}
	return i
}

func reflect(ctrl, about path.Point) path.Point {
	return path.Point{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

// parseNumbers reads a comma or whitespace separated list of numbers.
func parseNumbers(s string) ([]float64, error) {
	b := []byte(s)
	var out []float64
	for i := skipCommaWhitespace(b, 0); i < len(b); {
		f, n := strconv.ParseFloat(b[i:])
		if n == 0 {
			return nil, fmt.Errorf("logo: bad number list %q at position %d", s, i)
		}
		out = append(out, f)
		i = skipCommaWhitespace(b, i+n)
	}
	return out, nil
}

// arcToCubics converts an SVG elliptical arc to cubic Béziers following the
// endpoint-to-center conversion of SVG 1.1 appendix F.6.
func arcToCubics(p0 path.Point, rx, ry, phiDeg float64, large, sweep bool, p1 path.Point) []path.PathElement {
	if p0 == p1 {
		return nil
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		return []path.PathElement{path.LineTo{Point: p1}}
	}

	sinPhi, cosPhi := math.Sincos(phiDeg * math.Pi / 180)
	dx, dy := (p0.X-p1.X)/2, (p0.Y-p1.Y)/2
	x1 := cosPhi*dx + sinPhi*dy
	y1 := -sinPhi*dx + cosPhi*dy

	// Scale up radii that cannot span the endpoints.
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cosPhi*cx1 - sinPhi*cy1 + (p0.X+p1.X)/2
	cy := sinPhi*cx1 + cosPhi*cy1 + (p0.Y+p1.Y)/2

	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	dtheta := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx) - theta1
	if sweep && dtheta < 0 {
		dtheta += 2 * math.Pi
	} else if !sweep && dtheta > 0 {
		dtheta -= 2 * math.Pi
	}

	segs := int(math.Ceil(math.Abs(dtheta) / (math.Pi / 2)))
	delta := dtheta / float64(segs)
	k := 4.0 / 3.0 * math.Tan(delta/4)

	point := func(t float64) (path.Point, path.Point) {
		sin, cos := math.Sincos(t)
		p := path.Point{
			X: cx + rx*cos*cosPhi - ry*sin*sinPhi,
			Y: cy + rx*cos*sinPhi + ry*sin*cosPhi,
		}
		d := path.Point{
			X: -rx*sin*cosPhi - ry*cos*sinPhi,
			Y: -rx*sin*sinPhi + ry*cos*cosPhi,
		}
		return p, d
	}

	out := make([]path.PathElement, 0, segs)
	t := theta1
	from, dFrom := point(t)
	for range segs {
		t += delta
		to, dTo := point(t)
		out = append(out, path.CubicTo{
			Control1: from.Add(dFrom.Mul(k)),
			Control2: to.Sub(dTo.Mul(k)),
			Point:    to,
		})
		from, dFrom = to, dTo
	}
	// Land exactly on the endpoint.
	last := out[len(out)-1].(path.CubicTo)
	last.Point = p1
	out[len(out)-1] = last
	return out
}
