package path

import (
	"math"
	"testing"
)

func square(x0, y0, size float64) []PathElement {
	return []PathElement{
		MoveTo{Point{x0, y0}},
		LineTo{Point{x0 + size, y0}},
		LineTo{Point{x0 + size, y0 + size}},
		LineTo{Point{x0, y0 + size}},
		Close{},
	}
}

func TestContoursSplitsSubpaths(t *testing.T) {
	elems := append(square(0, 0, 10), square(2, 2, 6)...)
	got := Contours(elems, 0)
	if len(got) != 2 {
		t.Fatalf("got %d contours, want 2", len(got))
	}
	for i, c := range got {
		if len(c) != 4 {
			t.Errorf("contour %d has %d points, want 4", i, len(c))
		}
	}
}

func TestContoursDropsClosingDuplicate(t *testing.T) {
	elems := []PathElement{
		MoveTo{Point{0, 0}},
		LineTo{Point{1, 0}},
		LineTo{Point{1, 1}},
		LineTo{Point{0, 0}},
		Close{},
	}
	got := Contours(elems, 0)
	if len(got) != 1 || len(got[0]) != 3 {
		t.Fatalf("Contours() = %v, want one triangle", got)
	}
}

func TestContoursDropsDegenerate(t *testing.T) {
	elems := []PathElement{
		MoveTo{Point{0, 0}},
		LineTo{Point{1, 0}},
		Close{},
		MoveTo{Point{5, 5}},
	}
	if got := Contours(elems, 0); len(got) != 0 {
		t.Errorf("Contours() = %v, want none", got)
	}
}

func TestContoursFlattensCurves(t *testing.T) {
	// Quarter circle approximated by a cubic, closed through the origin.
	const k = 0.5522847498
	elems := []PathElement{
		MoveTo{Point{0, 0}},
		LineTo{Point{10, 0}},
		CubicTo{Point{10, 10 * k}, Point{10 * k, 10}, Point{0, 10}},
		Close{},
	}
	got := Contours(elems, 0.01)
	if len(got) != 1 {
		t.Fatalf("got %d contours, want 1", len(got))
	}
	if len(got[0]) < 8 {
		t.Errorf("curve flattened to only %d points", len(got[0]))
	}
	area := SignedArea(got[0])
	if want := math.Pi * 100 / 4; math.Abs(area-want) > 0.5 {
		t.Errorf("area = %v, want about %v", area, want)
	}
}

func TestContoursQuadratic(t *testing.T) {
	elems := []PathElement{
		MoveTo{Point{0, 0}},
		QuadTo{Point{5, 10}, Point{10, 0}},
		Close{},
	}
	got := Contours(elems, 0.01)
	if len(got) != 1 {
		t.Fatalf("got %d contours, want 1", len(got))
	}
	// Area under a parabola with apex height 5 over width 10 is 2/3*10*5.
	if area := math.Abs(SignedArea(got[0])); math.Abs(area-100.0/3) > 0.5 {
		t.Errorf("area = %v, want about %v", area, 100.0/3)
	}
}

func TestDistanceToLine(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b Point
		want    float64
	}{
		{"perpendicular", Point{5, 3}, Point{0, 0}, Point{10, 0}, 3},
		{"before start", Point{-4, 3}, Point{0, 0}, Point{10, 0}, 5},
		{"after end", Point{13, 4}, Point{0, 0}, Point{10, 0}, 5},
		{"degenerate", Point{3, 4}, Point{0, 0}, Point{0, 0}, 5},
	}
	for _, tt := range tests {
		if got := distanceToLine(tt.p, tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s: distanceToLine() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
