package logo

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"github.com/tdewolff/parse/v2/xml"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/path"
)

// hidden lists containers whose children are never rendered directly.
var hidden = map[string]bool{
	"defs":     true,
	"clipPath": true,
	"mask":     true,
	"marker":   true,
	"pattern":  true,
	"symbol":   true,
	"title":    true,
	"desc":     true,
	"metadata": true,
}

// Load reads an SVG file and returns its shapes as contours with y up.
func Load(name string) ([][]csg.Vec2, error) {
	if ext := strings.ToLower(filepath.Ext(name)); ext != ".svg" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	// #nosec G304 -- logo path is provided by the user
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("logo: %w", err)
	}
	contours, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return contours, nil
}

type element struct {
	name string
	ctm  affine
	skip bool
}

type document struct {
	stack    []element
	viewBox  []float64
	sawRoot  bool
	contours [][]path.Point
}

// Parse reads SVG markup and returns its shapes as contours with y up.
func Parse(r io.Reader) ([][]csg.Vec2, error) {
	doc := &document{}
	l := xml.NewLexer(parse.NewInput(r))

	var (
		name  string
		attrs = make(map[string]string)
	)
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, fmt.Errorf("logo: %w", l.Err())
			}
			return doc.finish()
		case xml.StartTagToken:
			name = localName(string(l.Text()))
			attrs = make(map[string]string)
		case xml.StartTagPIToken:
			name, attrs = "", make(map[string]string)
		case xml.AttributeToken:
			attrs[localName(string(l.Text()))] = unquote(l.AttrVal())
		case xml.StartTagCloseToken:
			if err := doc.open(name, attrs, true); err != nil {
				return nil, err
			}
		case xml.StartTagCloseVoidToken:
			if err := doc.open(name, attrs, false); err != nil {
				return nil, err
			}
		case xml.EndTagToken:
			if n := len(doc.stack); n > 0 {
				doc.stack = doc.stack[:n-1]
			}
		}
	}
}

func (doc *document) open(name string, attrs map[string]string, push bool) error {
	parent := element{ctm: identity}
	if n := len(doc.stack); n > 0 {
		parent = doc.stack[n-1]
	}

	el := element{name: name, ctm: parent.ctm, skip: parent.skip || hidden[name]}
	if t, ok := attrs["transform"]; ok {
		m, err := parseTransform(t)
		if err != nil {
			return err
		}
		el.ctm = m.then(parent.ctm)
	}
	if attrs["display"] == "none" {
		el.skip = true
	}
	if push {
		doc.stack = append(doc.stack, el)
	}
	if el.skip {
		return nil
	}

	if name == "svg" && !doc.sawRoot {
		doc.sawRoot = true
		return doc.readViewport(attrs)
	}

	elems, err := shapeElements(name, attrs)
	if err != nil {
		return err
	}
	if len(elems) == 0 {
		return nil
	}
	doc.contours = append(doc.contours, path.Contours(transformElements(elems, el.ctm), path.Tolerance)...)
	return nil
}

func (doc *document) readViewport(attrs map[string]string) error {
	if vb, ok := attrs["viewBox"]; ok {
		nums, err := parseNumbers(vb)
		if err != nil {
			return err
		}
		if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
			return fmt.Errorf("logo: bad viewBox %q", vb)
		}
		doc.viewBox = nums
		return nil
	}
	w, okW := parseLength(attrs["width"])
	h, okH := parseLength(attrs["height"])
	if okW && okH && w > 0 && h > 0 {
		doc.viewBox = []float64{0, 0, w, h}
	}
	return nil
}

// finish flips y so that the top of the viewport becomes the top of the
// outline. Without a viewport the content's own bounds are mirrored.
func (doc *document) finish() ([][]csg.Vec2, error) {
	if len(doc.contours) == 0 {
		return nil, ErrNoGeometry
	}

	var flipAbout float64
	if doc.viewBox != nil {
		flipAbout = 2*doc.viewBox[1] + doc.viewBox[3]
	} else {
		lo, hi, _ := path.Bounds(doc.contours)
		flipAbout = lo.Y + hi.Y
	}

	out := make([][]csg.Vec2, len(doc.contours))
	for i, c := range doc.contours {
		pts := make([]csg.Vec2, len(c))
		for j, p := range c {
			pts[j] = csg.V2(p.X, flipAbout-p.Y)
		}
		out[i] = pts
	}
	return out, nil
}

// shapeElements returns the outline of a basic shape element in its own
// user units.
func shapeElements(name string, attrs map[string]string) ([]path.PathElement, error) {
	num := func(key string) float64 {
		v, _ := parseLength(attrs[key])
		return v
	}

	switch name {
	case "path":
		return parsePathData(attrs["d"])

	case "polygon", "polyline":
		nums, err := parseNumbers(attrs["points"])
		if err != nil {
			return nil, err
		}
		if len(nums) < 6 {
			return nil, nil
		}
		elems := []path.PathElement{path.MoveTo{Point: path.Point{X: nums[0], Y: nums[1]}}}
		for i := 2; i+1 < len(nums); i += 2 {
			elems = append(elems, path.LineTo{Point: path.Point{X: nums[i], Y: nums[i+1]}})
		}
		return append(elems, path.Close{}), nil

	case "rect":
		x, y, w, h := num("x"), num("y"), num("width"), num("height")
		if w <= 0 || h <= 0 {
			return nil, nil
		}
		return []path.PathElement{
			path.MoveTo{Point: path.Point{X: x, Y: y}},
			path.LineTo{Point: path.Point{X: x + w, Y: y}},
			path.LineTo{Point: path.Point{X: x + w, Y: y + h}},
			path.LineTo{Point: path.Point{X: x, Y: y + h}},
			path.Close{},
		}, nil

	case "circle", "ellipse":
		cx, cy := num("cx"), num("cy")
		rx, ry := num("rx"), num("ry")
		if name == "circle" {
			rx, ry = num("r"), num("r")
		}
		if rx <= 0 || ry <= 0 {
			return nil, nil
		}
		right := path.Point{X: cx + rx, Y: cy}
		left := path.Point{X: cx - rx, Y: cy}
		elems := []path.PathElement{path.MoveTo{Point: right}}
		elems = append(elems, arcToCubics(right, rx, ry, 0, false, true, left)...)
		elems = append(elems, arcToCubics(left, rx, ry, 0, false, true, right)...)
		return append(elems, path.Close{}), nil
	}
	return nil, nil
}

func transformElements(elems []path.PathElement, m affine) []path.PathElement {
	if m == identity {
		return elems
	}
	out := make([]path.PathElement, len(elems))
	for i, e := range elems {
		switch e := e.(type) {
		case path.MoveTo:
			out[i] = path.MoveTo{Point: m.apply(e.Point)}
		case path.LineTo:
			out[i] = path.LineTo{Point: m.apply(e.Point)}
		case path.QuadTo:
			out[i] = path.QuadTo{Control: m.apply(e.Control), Point: m.apply(e.Point)}
		case path.CubicTo:
			out[i] = path.CubicTo{
				Control1: m.apply(e.Control1),
				Control2: m.apply(e.Control2),
				Point:    m.apply(e.Point),
			}
		default:
			out[i] = e
		}
	}
	return out
}

// parseLength reads a number with an optional unit suffix, which is ignored.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "%") {
		return 0, false
	}
	f, n := strconv.ParseFloat([]byte(s))
	if n == 0 || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func localName(s string) string {
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return string(b)
}
