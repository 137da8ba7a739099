package bottleclip

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/path"
)

func named(name string) Params {
	p := DefaultParams()
	p.Name = name
	return p
}

func TestSelect(t *testing.T) {
	child := csg.Cylinder{R1: 1, R2: 1, H: 1}

	tests := []struct {
		name   string
		color  string
		active string
		want   csg.Node
	}{
		{"unset shows all", "white", "", csg.Color{Name: "white", Child: child}},
		{"ALL shows all", "white", AllColors, csg.Color{Name: "white", Child: child}},
		{"matching color", "white", "white", csg.Color{Name: "white", Child: child}},
		{"other color", "white", "black", csg.Empty{}},
		{"default untagged", DefaultColor, AllColors, child},
		{"default selected by name", DefaultColor, DefaultColor, child},
		{"default filtered", DefaultColor, "black", csg.Empty{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Select(tt.color, tt.active, child)); diff != "" {
				t.Errorf("Select(%q, %q) mismatch (-want +got):\n%s", tt.color, tt.active, diff)
			}
		})
	}
}

func TestPasses(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want []string
	}{
		{"default", DefaultParams(), []string{"white", "black"}},
		{"three colors", Params{BgColor: "white", TextColor: "red", LogoColor: "blue", Logo: "l.svg"}, []string{"white", "red", "blue"}},
		{"logo color ignored without logo", Params{BgColor: "white", TextColor: "red", LogoColor: "blue"}, []string{"white", "red"}},
		{"single color", Params{BgColor: DefaultColor, TextColor: DefaultColor}, []string{DefaultColor}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Passes(tt.p)); diff != "" {
				t.Errorf("Passes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPresetEquivalence(t *testing.T) {
	want := Build(Params{
		RU: 13, RL: 15, HT: 26, Width: 2.5, Name: "X", Gap: 90,
		Logo: DefaultLogo, Font: DefaultFont,
		BgColor: "white", TextColor: "black", LogoColor: "black",
	})
	if diff := cmp.Diff(want, Longneck(named("X"))); diff != "" {
		t.Errorf("Longneck() differs from explicit Build (-want +got):\n%s", diff)
	}
}

func TestPresetDimensions(t *testing.T) {
	tests := []struct {
		preset     string
		ru, rl, ht float64
		logo       bool
	}{
		{"longneck", 13, 15, 26, true},
		{"steinie", 13, 17.5, 13, false},
		{"euro2", 13, 22.5, 26, true},
	}
	for _, tt := range tests {
		t.Run(tt.preset, func(t *testing.T) {
			s, err := LookupPreset(tt.preset)
			if err != nil {
				t.Fatal(err)
			}
			p := s.Apply(named("X"))
			if p.RU != tt.ru || p.RL != tt.rl || p.HT != tt.ht {
				t.Errorf("Apply() = (%v, %v, %v), want (%v, %v, %v)", p.RU, p.RL, p.HT, tt.ru, tt.rl, tt.ht)
			}
			if got := p.Logo != ""; got != tt.logo {
				t.Errorf("logo kept = %v, want %v", got, tt.logo)
			}
			if p.Name != "X" || p.Width != 2.5 || p.Gap != 90 {
				t.Errorf("Apply() changed non-dimension fields: %+v", p)
			}
		})
	}
	if _, err := LookupPreset("magnum"); err == nil {
		t.Error("LookupPreset(magnum) should fail")
	}
}

func TestPresetsSorted(t *testing.T) {
	var names []string
	for _, p := range Presets() {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"euro2", "longneck", "steinie"}, names); diff != "" {
		t.Errorf("Presets() mismatch (-want +got):\n%s", diff)
	}
}

func imports(n csg.Node) []csg.Node {
	return csg.Find(n, func(n csg.Node) bool {
		_, ok := n.(csg.Import)
		return ok
	})
}

func TestSteinieOmitsLogo(t *testing.T) {
	p := named("X")
	p.Logo = "logos/custom.svg"

	if got := imports(Steinie(p)); len(got) != 0 {
		t.Errorf("Steinie() contains logo geometry: %v", got)
	}
	// The same parameters honor the logo elsewhere.
	if got := imports(Euro2(p)); len(got) != 1 {
		t.Errorf("Euro2() has %d logo imports, want 1", len(got))
	}
}

func TestColorsDoNotChangeGeometry(t *testing.T) {
	a := named("X")
	b := a
	b.BgColor, b.TextColor, b.LogoColor = "red", "#00ff00", DefaultColor

	if diff := cmp.Diff(csg.Strip(Build(a)), csg.Strip(Build(b))); diff != "" {
		t.Errorf("color change altered geometry (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"red", "#00ff00"}, csg.Colors(Build(b))); diff != "" {
		t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
	}
}

func TestActiveColorFiltersBranches(t *testing.T) {
	p := named("X")
	p.LogoColor = "blue"

	tests := []struct {
		active string
		want   []string
	}{
		{AllColors, []string{"white", "black", "blue"}},
		{"", []string{"white", "black", "blue"}},
		{"white", []string{"white"}},
		{"black", []string{"black"}},
		{"blue", []string{"blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.active, func(t *testing.T) {
			got := csg.Colors(Build(p, WithActiveColor(tt.active)))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Colors() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := Build(p, WithActiveColor("green")); !csg.IsEmpty(got) {
		t.Errorf("Build() for an unused color = %#v, want Empty", got)
	}
}

func TestInscriptionLayout(t *testing.T) {
	texts := func(n csg.Node) []csg.CylinderText {
		var out []csg.CylinderText
		csg.Walk(n, func(n csg.Node) bool {
			if t, ok := n.(csg.CylinderText); ok {
				out = append(out, t)
			}
			return true
		})
		return out
	}

	p := named("X")
	p.Logo = ""
	got := texts(Build(p))
	want := []csg.CylinderText{{
		Text: "X", Font: DefaultFont, Radius: 15.5,
		Size: 26 * 8.0 / 13, Depth: 15, Center: 13,
	}}
	if diff := cmp.Diff(want, got, cmpApprox()); diff != "" {
		t.Errorf("text without logo (-want +got):\n%s", diff)
	}

	got = texts(Build(named("X")))
	want[0].Size = 26 * 4.0 / 13
	want[0].Center = 26 * 3.5 / 13
	if diff := cmp.Diff(want, got, cmpApprox()); diff != "" {
		t.Errorf("text with logo (-want +got):\n%s", diff)
	}
}

func cmpApprox() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })
}

func TestWedge(t *testing.T) {
	for _, g := range []float64{0, 30, 90, 120, 145, 170, 179} {
		w := wedge(g)
		if w[0] != (csg.Vec2{}) {
			t.Errorf("gap %v: apex = %v, want origin", g, w[0])
		}
		first, last := w[1], w[len(w)-1]
		a1 := math.Atan2(first.Y, first.X) * 180 / math.Pi
		a2 := math.Atan2(last.Y, last.X) * 180 / math.Pi
		if got := a1 - a2; math.Abs(got-g) > 1e-9 {
			t.Errorf("gap %v: wedge spans %v degrees", g, got)
		}
		if mid := (a1 + a2) / 2; math.Abs(mid-45) > 1e-9 {
			t.Errorf("gap %v: wedge centered on %v degrees, want 45", g, mid)
		}
		for i, v := range w[1:] {
			if math.Abs(v.Length()-wedgeRadius) > 1e-9 {
				t.Errorf("gap %v: vertex %d at radius %v, want %v", g, i+1, v.Length(), wedgeRadius)
			}
		}
	}
}

// TestWedgeCutsWholeWall checks that the wedge covers its full angle at
// wall radii, including gaps wide enough that a single chord between the
// legs would pass inside the wall.
func TestWedgeCutsWholeWall(t *testing.T) {
	for _, g := range []float64{10, 90, 140, 150, 170, 179} {
		contour := make([]path.Point, 0)
		for _, v := range wedge(g) {
			contour = append(contour, path.Point{X: v.X, Y: v.Y})
		}
		contours := [][]path.Point{contour}

		for _, r := range []float64{13, 15.25, 25, 45} {
			for _, off := range []float64{0, -g/2 + 0.5, g/2 - 0.5} {
				sin, cos := math.Sincos((45 + off) * math.Pi / 180)
				pt := path.Point{X: r * cos, Y: r * sin}
				if !path.ContainsEvenOdd(contours, pt) {
					t.Errorf("gap %v: %v degrees off center at r=%v is not cut", g, off, r)
				}
			}
			sin, cos := math.Sincos((45 + g/2 + 1) * math.Pi / 180)
			if path.ContainsEvenOdd(contours, path.Point{X: r * cos, Y: r * sin}) {
				t.Errorf("gap %v: cut reaches past its leg at r=%v", g, r)
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		want   []error
	}{
		{"default is valid", func(*Params) {}, nil},
		{"negative radius", func(p *Params) { p.RU = -1 }, []error{ErrNonPositive, ErrWallWidth}},
		{"zero height", func(p *Params) { p.HT = 0 }, []error{ErrNonPositive}},
		{"gap out of range", func(p *Params) { p.Gap = 360 }, []error{ErrGapRange}},
		{"negative gap", func(p *Params) { p.Gap = -1 }, []error{ErrGapRange}},
		{"wide gap", func(p *Params) { p.Gap = 200 }, []error{ErrWideGap}},
		{"width too large", func(p *Params) { p.Width = 13 }, []error{ErrWallWidth}},
		{"unknown color", func(p *Params) { p.TextColor = "sparkly" }, []error{ErrUnknownColor}},
		{"logo color ignored without logo", func(p *Params) { p.Logo, p.LogoColor = "", "sparkly" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if len(tt.want) == 0 {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			for _, w := range tt.want {
				if !errors.Is(err, w) {
					t.Errorf("Validate() = %v, want %v", err, w)
				}
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"white", 255, 255, 255, true},
		{"Black", 0, 0, 0, true},
		{"#f00", 255, 0, 0, true},
		{"#00ff0080", 0, 255, 0, true},
		{"#12345", 0, 0, 0, false},
		{"#zzz", 0, 0, 0, false},
		{"sparkly", 0, 0, 0, false},
	}
	for _, tt := range tests {
		c, ok := ParseColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (c.R != tt.r || c.G != tt.g || c.B != tt.b) {
			t.Errorf("ParseColor(%q) = %v", tt.in, c)
		}
	}
	if _, ok := ParseColor(DefaultColor); !ok {
		t.Error("DefaultColor should resolve")
	}
}
