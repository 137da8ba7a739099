package bottleclip

import (
	"image/color"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/gogpu/bottleclip/csg"
)

// Special color values.
const (
	// AllColors selects every colored branch in a render pass.
	AllColors = "ALL"

	// DefaultColor marks a branch that carries no material tag, so preview
	// tools fall back to their default material color.
	DefaultColor = "DEFAULT"
)

// Select emits child when the active color selects color and nothing
// otherwise.
//
// An empty active color or AllColors selects everything. A selected child is
// tagged with color unless color is DefaultColor, in which case it is
// returned untagged. Running a build once per color value and exporting each
// result separately yields one mesh per material for multi-filament prints.
func Select(color, active string, child csg.Node) csg.Node {
	if active != "" && active != AllColors && active != color {
		return csg.Empty{}
	}
	if color == DefaultColor || csg.IsEmpty(child) {
		return child
	}
	return csg.Color{Name: color, Child: child}
}

// Passes returns the distinct color values used by p in build order:
// background, text, then logo when a logo is set. Each entry is one render
// pass for multi-material export.
func Passes(p Params) []string {
	colors := []string{p.BgColor, p.TextColor}
	if p.Logo != "" {
		colors = append(colors, p.LogoColor)
	}
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		dup := false
		for _, o := range out {
			if o == c {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

// ParseColor resolves an SVG color keyword (as understood by OpenSCAD's
// color()) or a hex string of the form "#RGB", "#RGBA", "#RRGGBB" or
// "#RRGGBBAA". DefaultColor resolves to the preview yellow OpenSCAD uses for
// untagged geometry.
func ParseColor(name string) (color.NRGBA, bool) {
	if name == DefaultColor {
		return color.NRGBA{R: 0xf9, G: 0xd7, B: 0x2c, A: 0xff}, true
	}
	if strings.HasPrefix(name, "#") {
		return parseHexColor(name[1:])
	}
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
}

// parseHexColor parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA".
func parseHexColor(hex string) (color.NRGBA, bool) {
	var r, g, b, a uint32
	a = 255

	var ok bool
	switch len(hex) {
	case 3:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b)
		r, g, b = r*17, g*17, b*17
	case 4:
		ok = parseHex(hex[0:1], &r) && parseHex(hex[1:2], &g) && parseHex(hex[2:3], &b) && parseHex(hex[3:4], &a)
		r, g, b, a = r*17, g*17, b*17, a*17
	case 6:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b)
	case 8:
		ok = parseHex(hex[0:2], &r) && parseHex(hex[2:4], &g) && parseHex(hex[4:6], &b) && parseHex(hex[6:8], &a)
	}
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}, true //nolint:gosec // each component is at most 255
}

// parseHex parses a hex string into a uint32.
func parseHex(s string, v *uint32) bool {
	*v = 0
	for _, c := range s {
		*v *= 16
		switch {
		case c >= '0' && c <= '9':
			*v += uint32(c - '0')
		case c >= 'a' && c <= 'f':
			*v += uint32(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			*v += uint32(c - 'A' + 10)
		default:
			return false
		}
	}
	return true
}
