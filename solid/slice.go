package solid

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/parallel"
)

// Untagged is the preview color of material without a tag.
var Untagged = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}

// Slice renders the cross-section of s at height z, one pixel per px
// millimeters, with +Y up. Material is painted in its tag color; unknown
// tags and untagged material use Untagged. Empty space is transparent.
func Slice(s *Solid, z, px float64) (*image.RGBA, error) {
	if px <= 0 {
		return nil, fmt.Errorf("solid: pixel size must be positive, got %v", px)
	}
	b := s.Bounds()
	if !b.Valid {
		return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
	}

	w := max(1, int(math.Ceil((b.Max.X-b.Min.X)/px)))
	h := max(1, int(math.Ceil((b.Max.Y-b.Min.Y)/px)))
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	// Filled before sampling; workers only read it.
	palette := map[string]color.NRGBA{"": Untagged}
	for _, name := range s.Colors() {
		c, ok := bottleclip.ParseColor(name)
		if !ok {
			c = Untagged
		}
		palette[name] = c
	}

	pool := parallel.NewWorkerPool(0)
	defer pool.Close()
	pool.Range(h, func(row int) {
		y := b.Max.Y - (float64(row)+0.5)*px
		for col := range w {
			x := b.Min.X + (float64(col)+0.5)*px
			name, in := s.ColorAt(csg.V3(x, y, z))
			if !in {
				continue
			}
			c, ok := palette[name]
			if !ok {
				c = Untagged
			}
			img.Set(col, row, c)
		}
	})
	return img, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("solid: encode png: %w", err)
	}
	return nil
}
