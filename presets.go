package bottleclip

import (
	"fmt"
	"sort"

	"github.com/gogpu/bottleclip/csg"
)

// Preset fixes the bottle dimensions of a clip for one bottle form factor.
type Preset struct {
	Name string
	RU   float64
	RL   float64
	HT   float64

	// NoLogo forces the logo off: the tag is too short to carry one.
	NoLogo bool
}

// Apply returns p with the preset's dimensions. Every other field is kept.
func (s Preset) Apply(p Params) Params {
	p.RU, p.RL, p.HT = s.RU, s.RL, s.HT
	if s.NoLogo {
		p.Logo = ""
	}
	return p
}

// Build builds a clip from p with the preset's dimensions.
func (s Preset) Build(p Params, opts ...Option) csg.Node {
	return Build(s.Apply(p), opts...)
}

var presets = map[string]Preset{
	"longneck": {Name: "longneck", RU: 13, RL: 15, HT: 26},
	"steinie":  {Name: "steinie", RU: 13, RL: 17.5, HT: 13, NoLogo: true},
	"euro2":    {Name: "euro2", RU: 13, RL: 22.5, HT: 26},
}

// Presets returns all presets ordered by name.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("bottleclip: unknown preset %q", name)
	}
	return p, nil
}

// Longneck builds a clip for long-neck beer bottles.
func Longneck(p Params, opts ...Option) csg.Node {
	return presets["longneck"].Build(p, opts...)
}

// Steinie builds a clip for short stubby bottles. The logo is always
// omitted, whatever p.Logo says.
func Steinie(p Params, opts ...Option) csg.Node {
	return presets["steinie"].Build(p, opts...)
}

// Euro2 builds a clip for Euro2 bottles.
func Euro2(p Params, opts ...Option) csg.Node {
	return presets["euro2"].Build(p, opts...)
}
