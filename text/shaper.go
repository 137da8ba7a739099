package text

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ShapedGlyph is a glyph positioned on the baseline, in the units of the
// requested size.
type ShapedGlyph struct {
	GID      uint16
	Cluster  int
	X, Y     float64
	XAdvance float64
}

// Shaper converts text to positioned glyphs.
type Shaper interface {
	// Shape converts text into positioned glyphs at the given em size.
	Shape(text string, src *FontSource, size float64) []ShapedGlyph
}

var (
	shaperMu     sync.RWMutex
	globalShaper Shaper = NewGoTextShaper()
)

// SetShaper sets the global shaper used by Layout.
// Pass nil to reset to the default GoTextShaper.
func SetShaper(s Shaper) {
	shaperMu.Lock()
	defer shaperMu.Unlock()
	if s == nil {
		s = NewGoTextShaper()
	}
	globalShaper = s
}

// GetShaper returns the current global shaper.
func GetShaper() Shaper {
	shaperMu.RLock()
	defer shaperMu.RUnlock()
	return globalShaper
}

// GoTextShaper shapes with the HarfBuzz port in go-text/typesetting, which
// applies the font's kerning and ligature tables.
//
// GoTextShaper is safe for concurrent use. Parsed font.Font values are cached
// per FontSource; font.Face and HarfbuzzShaper are not concurrent-safe, so a
// face is created per call and shapers are pooled.
type GoTextShaper struct {
	shaperPool sync.Pool

	mu        sync.RWMutex
	fontCache map[*FontSource]*font.Font
}

// NewGoTextShaper creates a GoTextShaper.
func NewGoTextShaper() *GoTextShaper {
	return &GoTextShaper{
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		fontCache: make(map[*FontSource]*font.Font),
	}
}

// Shape implements the Shaper interface.
func (s *GoTextShaper) Shape(text string, src *FontSource, size float64) []ShapedGlyph {
	if text == "" || src == nil {
		return nil
	}

	goTextFont, err := s.getOrCreateFont(src)
	if err != nil {
		Logger().Debug("go-text could not parse font, using builtin shaper",
			"font", src.Name(), "error", err)
		return (&BuiltinShaper{}).Shape(text, src, size)
	}

	runes := []rune(text)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(goTextFont),
		Size:      floatToFixed(size),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := s.shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	s.shaperPool.Put(hb)

	return convertGlyphs(output.Glyphs)
}

func (s *GoTextShaper) getOrCreateFont(src *FontSource) (*font.Font, error) {
	s.mu.RLock()
	if f, ok := s.fontCache[src]; ok {
		s.mu.RUnlock()
		return f, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.fontCache[src]; ok {
		return f, nil
	}

	face, err := font.ParseTTF(bytes.NewReader(src.data))
	if err != nil {
		return nil, err
	}
	s.fontCache[src] = face.Font
	return face.Font, nil
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func convertGlyphs(glyphs []shaping.Glyph) []ShapedGlyph {
	if len(glyphs) == 0 {
		return nil
	}

	result := make([]ShapedGlyph, len(glyphs))
	var x float64
	for i, g := range glyphs {
		adv := fixedToFloat(g.Advance)
		result[i] = ShapedGlyph{
			GID:      uint16(g.GlyphID), //nolint:gosec // sfnt glyph ids are 16 bit
			Cluster:  g.TextIndex(),
			X:        x + fixedToFloat(g.XOffset),
			Y:        fixedToFloat(g.YOffset),
			XAdvance: adv,
		}
		x += adv
	}
	return result
}

// BuiltinShaper positions glyphs with golang.org/x/image/font/sfnt: one glyph
// per rune, advances plus legacy kern-table pairs. No ligatures.
//
// BuiltinShaper is stateless and safe for concurrent use.
type BuiltinShaper struct{}

// Shape implements the Shaper interface.
func (BuiltinShaper) Shape(text string, src *FontSource, size float64) []ShapedGlyph {
	if text == "" || src == nil {
		return nil
	}

	src.mu.Lock()
	defer src.mu.Unlock()

	ppem := floatToFixed(size)
	runes := []rune(text)
	result := make([]ShapedGlyph, 0, len(runes))

	var (
		x    float64
		prev sfnt.GlyphIndex
	)
	for cluster, r := range runes {
		gid, err := src.font.GlyphIndex(&src.buf, r)
		if err != nil {
			gid = 0
		}
		if cluster > 0 {
			if k, err := src.font.Kern(&src.buf, prev, gid, ppem, xfont.HintingNone); err == nil {
				x += fixedToFloat(k)
			}
		}
		adv, err := src.font.GlyphAdvance(&src.buf, gid, ppem, xfont.HintingNone)
		if err != nil {
			adv = 0
		}
		result = append(result, ShapedGlyph{
			GID:      uint16(gid),
			Cluster:  cluster,
			X:        x,
			XAdvance: fixedToFloat(adv),
		})
		x += fixedToFloat(adv)
		prev = gid
	}
	return result
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64.0
}
