package scad

import (
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/csg"
)

func TestWriteSmallTree(t *testing.T) {
	tree := csg.NewDifference(
		csg.Color{Name: "white", Child: csg.Cylinder{R1: 17.5, R2: 15.5, H: 26}},
		csg.Translate(csg.Cylinder{R1: 15, R2: 13, H: 28}, 0, 0, -1),
	)
	got, err := Marshal(tree, WithSegments(64), WithHeader("clip: Ada"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `// clip: Ada
$fn = 64;

difference() {
  color("white") {
    cylinder(h = 26, r1 = 17.5, r2 = 15.5);
  }
  translate([0, 0, -1]) {
    cylinder(h = 28, r1 = 15, r2 = 13);
  }
}
`
	if string(got) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteTransforms(t *testing.T) {
	box := csg.Cylinder{R1: 1, R2: 1, H: 1}
	tests := []struct {
		name string
		node csg.Node
		want string
	}{
		{"translate", csg.Translate(box, 1, 2, 3), "translate([1, 2, 3]) {"},
		{"scale", csg.Scale(box, 0.26, 0.26, 1), "scale([0.26, 0.26, 1]) {"},
		{"rotate", csg.RotateZ(box, 90), "multmatrix([[0, -1, 0, 0], [1, 0, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]]) {"},
		{"rotate x", csg.RotateX(box, 90), "multmatrix([[1, 0, 0, 0], [0, 0, -1, 0], [0, 1, 0, 0], [0, 0, 0, 1]]) {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.node)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if first := strings.SplitN(string(got), "\n", 2)[0]; first != tt.want {
				t.Errorf("first line = %q, want %q", first, tt.want)
			}
		})
	}
}

func TestWritePolygon(t *testing.T) {
	square := []csg.Vec2{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	hole := []csg.Vec2{{X: 0.5, Y: 0.5}, {X: 1.5, Y: 0.5}, {X: 1.5, Y: 1.5}}

	got, err := Marshal(csg.Polygon{Paths: [][]csg.Vec2{square}})
	if err != nil {
		t.Fatal(err)
	}
	if want := "polygon(points = [[0, 0], [2, 0], [2, 2], [0, 2]]);\n"; string(got) != want {
		t.Errorf("single path = %q, want %q", got, want)
	}

	got, err = Marshal(csg.Polygon{Paths: [][]csg.Vec2{square, hole}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "paths = [[0, 1, 2, 3], [4, 5, 6]]") {
		t.Errorf("multi path output missing paths: %s", got)
	}
}

func TestWriteImport(t *testing.T) {
	n := csg.Extrude{Height: 30, Shape: csg.Import{Path: "logos/stann.svg"}}
	got, err := Marshal(n, WithImportRoot("/srv/clips"))
	if err != nil {
		t.Fatal(err)
	}
	want := "linear_extrude(height = 30) {\n  import(\"/srv/clips/logos/stann.svg\");\n}\n"
	if string(got) != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestWriteUnresolvedText(t *testing.T) {
	p := bottleclip.DefaultParams()
	p.Name = "Ada"
	_, err := Marshal(bottleclip.Build(p))
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("Marshal(unlowered) error = %v, want ErrUnresolved", err)
	}
}

func TestWriteEmpty(t *testing.T) {
	got, err := Marshal(csg.Empty{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Marshal(Empty) = %q, want nothing", got)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-1e-17, "0"},
		{26, "26"},
		{6.123233995736766e-17, "0"},
		{0.30000000000000004, "0.3"},
		{-2.5, "-2.5"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
