// Package path provides internal outline processing shared by the text and
// logo importers: curve flattening and point-in-outline tests.
package path

import "math"

// Point represents a 2D point (internal copy to avoid import cycle).
type Point struct {
	X, Y float64
}

// Tolerance is the default maximum distance from the curve for flattening,
// in millimeters. It is well below a 0.4mm nozzle.
const Tolerance = 0.02

// PathElement represents an element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new contour.
type MoveTo struct{ Point Point }

func (MoveTo) isPathElement() {}

// LineTo draws a line.
type LineTo struct{ Point Point }

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic curve.
type QuadTo struct{ Control, Point Point }

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic curve.
type CubicTo struct{ Control1, Control2, Point Point }

func (CubicTo) isPathElement() {}

// Close closes the current contour.
type Close struct{}

func (Close) isPathElement() {}

// Contours flattens a path into closed polylines, one per subpath.
// Contours are implicitly closed: the last point is not repeated. Subpaths
// with fewer than three distinct points enclose nothing and are dropped.
func Contours(elements []PathElement, tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = Tolerance
	}

	var (
		out     [][]Point
		cur     []Point
		current Point
	)
	flush := func() {
		cur = dedupe(cur)
		if len(cur) >= 3 {
			out = append(out, cur)
		}
		cur = nil
	}

	for _, elem := range elements {
		switch e := elem.(type) {
		case MoveTo:
			flush()
			current = e.Point
			cur = append(cur, current)

		case LineTo:
			if cur == nil {
				cur = append(cur, current)
			}
			current = e.Point
			cur = append(cur, current)

		case QuadTo:
			if cur == nil {
				cur = append(cur, current)
			}
			cur = append(cur, flattenQuadratic(current, e.Control, e.Point, tolerance)...)
			current = e.Point

		case CubicTo:
			if cur == nil {
				cur = append(cur, current)
			}
			cur = append(cur, flattenCubic(current, e.Control1, e.Control2, e.Point, tolerance)...)
			current = e.Point

		case Close:
			if len(cur) > 0 {
				current = cur[0]
			}
			flush()
		}
	}
	flush()
	return out
}

// dedupe removes consecutive duplicates and a trailing copy of the first
// point.
func dedupe(pts []Point) []Point {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Distance(out[len(out)-1]) > 1e-9 {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[len(out)-1].Distance(out[0]) <= 1e-9 {
		out = out[:len(out)-1]
	}
	return out
}

// Helper methods for Point
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

func (p Point) Distance(q Point) float64 {
	return p.Sub(q).Length()
}

// flattenQuadratic flattens a quadratic Bezier curve into line segments.
// The start point is not included.
func flattenQuadratic(p0, p1, p2 Point, tolerance float64) []Point {
	var points []Point
	flattenQuadraticRec(p0, p1, p2, tolerance, &points, 0)
	return points
}

// maxDepth bounds recursion for degenerate control polygons.
const maxDepth = 16

// flattenQuadraticRec recursively subdivides a quadratic Bezier curve.
func flattenQuadraticRec(p0, p1, p2 Point, tolerance float64, points *[]Point, depth int) {
	if depth >= maxDepth || distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	flattenQuadraticRec(p0, q0, q2, tolerance, points, depth+1)
	flattenQuadraticRec(q2, q1, p2, tolerance, points, depth+1)
}

// flattenCubic flattens a cubic Bezier curve into line segments.
// The start point is not included.
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64) []Point {
	var points []Point
	flattenCubicRec(p0, p1, p2, p3, tolerance, &points, 0)
	return points
}

// flattenCubicRec recursively subdivides a cubic Bezier curve using
// de Casteljau's algorithm.
func flattenCubicRec(p0, p1, p2, p3 Point, tolerance float64, points *[]Point, depth int) {
	dist := math.Max(distanceToLine(p1, p0, p3), distanceToLine(p2, p0, p3))
	if depth >= maxDepth || dist < tolerance {
		*points = append(*points, p3)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubicRec(p0, q0, r0, s, tolerance, points, depth+1)
	flattenCubicRec(s, r1, q2, p3, tolerance, points, depth+1)
}

// distanceToLine calculates the perpendicular distance from point p to line segment (a, b).
func distanceToLine(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLen := ab.Length()

	if abLen < 1e-10 {
		return p.Distance(a)
	}

	ap := p.Sub(a)
	t := ap.Dot(ab) / (abLen * abLen)

	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}

	closest := a.Add(ab.Mul(t))
	return p.Distance(closest)
}
