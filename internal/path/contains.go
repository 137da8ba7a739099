package path

// ContainsEvenOdd reports whether p lies inside the region bounded by the
// contours under the even-odd rule: a point is inside when a ray from it
// crosses an odd number of edges.
func ContainsEvenOdd(contours [][]Point, p Point) bool {
	inside := false
	for _, c := range contours {
		n := len(c)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			a, b := c[i], c[j]
			if (a.Y > p.Y) == (b.Y > p.Y) {
				continue
			}
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Bounds returns the bounding rectangle of the contours. ok is false when
// there are no points.
func Bounds(contours [][]Point) (lo, hi Point, ok bool) {
	for _, c := range contours {
		for _, p := range c {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
			hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
		}
	}
	return lo, hi, ok
}

// SignedArea returns the shoelace area of a closed contour: positive for
// counter-clockwise winding.
func SignedArea(c []Point) float64 {
	var a float64
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}
