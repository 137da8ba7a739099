package text

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// BuiltinPrefix marks a font reference that names a bundled Go font
// instead of a file path.
const BuiltinPrefix = "builtin:"

var builtins = map[string][]byte{
	"goregular": goregular.TTF,
	"gobold":    gobold.TTF,
	"gomono":    gomono.TTF,
}

// FontSource represents a parsed font file.
// FontSource is heavyweight and should be shared; see Cache.
//
// FontSource is safe for concurrent use.
type FontSource struct {
	data []byte
	font *sfnt.Font
	name string
	path string

	// mu guards buf. sfnt.Buffer is scratch space and must not be shared
	// between concurrent LoadGlyph calls.
	mu  sync.Mutex
	buf sfnt.Buffer
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	f, err := opentype.Parse(dataCopy)
	if err != nil {
		return nil, &FontError{Reason: "failed to parse font", Err: err}
	}

	s := &FontSource{
		data: dataCopy,
		font: f,
	}
	s.name = extractFontName(f)
	return s, nil
}

// NewFontSourceFromFile loads a FontSource from a font file path.
func NewFontSourceFromFile(path string) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}

	s, err := NewFontSource(data)
	if err != nil {
		var fe *FontError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	s.path = path
	return s, nil
}

// Open resolves a font reference: either "builtin:<name>" or a file path.
func Open(ref string) (*FontSource, error) {
	if name, ok := strings.CutPrefix(ref, BuiltinPrefix); ok {
		data, ok := builtins[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
		}
		s, err := NewFontSource(data)
		if err != nil {
			return nil, err
		}
		s.path = ref
		return s, nil
	}
	return NewFontSourceFromFile(ref)
}

// Name returns the font family name.
func (s *FontSource) Name() string {
	return s.name
}

// Path returns the reference the source was opened from, if any.
func (s *FontSource) Path() string {
	return s.path
}

// UnitsPerEm returns the design grid of the font.
func (s *FontSource) UnitsPerEm() int {
	return int(s.font.UnitsPerEm())
}

func extractFontName(f *sfnt.Font) string {
	if name, err := f.Name(nil, sfnt.NameIDFamily); err == nil && name != "" {
		return name
	}
	if name, err := f.Name(nil, sfnt.NameIDFull); err == nil && name != "" {
		return name
	}
	return "Unknown Font"
}
