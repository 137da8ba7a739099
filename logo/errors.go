package logo

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned by Load for files that are not SVG.
	ErrUnsupportedFormat = errors.New("logo: unsupported format")

	// ErrNoGeometry is returned when a document contains no closed shape.
	ErrNoGeometry = errors.New("logo: no geometry")
)

// PathError reports malformed path data.
type PathError struct {
	Msg string
	Pos int
}

func (e *PathError) Error() string {
	return fmt.Sprintf("logo: bad path: %s at position %d", e.Msg, e.Pos)
}
