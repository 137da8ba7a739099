package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrUnknownBuiltin is returned for a builtin font reference that does
	// not name a bundled face.
	ErrUnknownBuiltin = errors.New("text: unknown builtin font")

	// ErrInvalidSize is returned when a layout is requested at a size that
	// is not positive.
	ErrInvalidSize = errors.New("text: size must be positive")
)

// FontError reports a failure attached to one font file.
type FontError struct {
	Path   string
	Reason string
	Err    error
}

func (e *FontError) Error() string {
	msg := "text: " + e.Reason
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FontError) Unwrap() error { return e.Err }
