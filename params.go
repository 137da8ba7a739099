package bottleclip

import (
	"errors"
	"fmt"
	"math"
)

// Default inputs. The logo and font are path references resolved by the
// evaluator, never by the builder.
const (
	DefaultLogo = "logos/stann.svg"
	DefaultFont = "builtin:goregular"
)

// Params is the full input set of one clip.
//
// Lengths are in millimeters and Gap is in degrees. Logo is a path to a 2D
// outline drawn in a 50x50 design space centered on (25,25); an empty Logo
// leaves the upper half of the tag to the name. Colors are SVG color
// keywords, hex strings, or DefaultColor.
type Params struct {
	RU    float64 `yaml:"ru" toml:"ru" json:"ru"`
	RL    float64 `yaml:"rl" toml:"rl" json:"rl"`
	HT    float64 `yaml:"ht" toml:"ht" json:"ht"`
	Width float64 `yaml:"width" toml:"width" json:"width"`
	Name  string  `yaml:"name" toml:"name" json:"name"`
	Gap   float64 `yaml:"gap" toml:"gap" json:"gap"`
	Logo  string  `yaml:"logo" toml:"logo" json:"logo"`
	Font  string  `yaml:"font" toml:"font" json:"font"`

	BgColor   string `yaml:"bg_color" toml:"bg_color" json:"bg_color"`
	TextColor string `yaml:"text_color" toml:"text_color" json:"text_color"`
	LogoColor string `yaml:"logo_color" toml:"logo_color" json:"logo_color"`
}

// DefaultParams returns the parameters of the reference clip: a long-neck
// bottle with a 90 degree gap.
func DefaultParams() Params {
	return Params{
		RU:        13,
		RL:        15,
		HT:        26,
		Width:     2.5,
		Gap:       90,
		Logo:      DefaultLogo,
		Font:      DefaultFont,
		BgColor:   "white",
		TextColor: "black",
		LogoColor: "black",
	}
}

// Validation errors reported by Params.Validate.
var (
	ErrNonPositive  = errors.New("bottleclip: dimension must be positive")
	ErrGapRange     = errors.New("bottleclip: gap must be in [0, 360)")
	ErrWallWidth    = errors.New("bottleclip: width leaves no wall")
	ErrWideGap      = errors.New("bottleclip: gap of 180 degrees or more splits the tube")
	ErrUnknownColor = errors.New("bottleclip: unknown color")
)

// Validate reports every documented precondition p violates, joined into
// one error. It never changes p: Build accepts any input and leaves
// malformed geometry for the evaluator to surface.
//
// A wide gap is reported too even though it is a legitimate choice for
// clips printed in rigid material.
func (p Params) Validate() error {
	var errs []error
	for _, d := range []struct {
		name string
		v    float64
	}{{"ru", p.RU}, {"rl", p.RL}, {"ht", p.HT}, {"width", p.Width}} {
		if !(d.v > 0) {
			errs = append(errs, fmt.Errorf("%w: %s=%g", ErrNonPositive, d.name, d.v))
		}
	}
	switch {
	case p.Gap < 0 || p.Gap >= 360 || math.IsNaN(p.Gap):
		errs = append(errs, fmt.Errorf("%w: gap=%g", ErrGapRange, p.Gap))
	case p.Gap >= 180:
		errs = append(errs, fmt.Errorf("%w: gap=%g", ErrWideGap, p.Gap))
	}
	if p.Width > 0 && p.Width >= math.Min(p.RU, p.RL) {
		errs = append(errs, fmt.Errorf("%w: width=%g, min(ru, rl)=%g", ErrWallWidth, p.Width, math.Min(p.RU, p.RL)))
	}
	colors := []struct{ name, v string }{{"bg_color", p.BgColor}, {"text_color", p.TextColor}}
	if p.Logo != "" {
		colors = append(colors, struct{ name, v string }{"logo_color", p.LogoColor})
	}
	for _, c := range colors {
		if _, ok := ParseColor(c.v); !ok {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrUnknownColor, c.name, c.v))
		}
	}
	return errors.Join(errs...)
}
