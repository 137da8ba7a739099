package scad

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/bottleclip/csg"
)

// ErrUnresolved is returned for CylinderText nodes, which OpenSCAD cannot
// evaluate.
var ErrUnresolved = errors.New("scad: unresolved cylinder text")

// Write emits n as OpenSCAD source to w.
func Write(w io.Writer, n csg.Node, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &emitter{w: bufio.NewWriter(w), cfg: cfg}
	for _, h := range cfg.header {
		for _, line := range strings.Split(h, "\n") {
			e.printf("// %s\n", line)
		}
	}
	if cfg.segments > 0 {
		e.printf("$fn = %d;\n", cfg.segments)
	}
	if len(cfg.header) > 0 || cfg.segments > 0 {
		e.printf("\n")
	}

	e.node(n, 0)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// Marshal returns the OpenSCAD source of n.
func Marshal(n csg.Node, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, n, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// emitter keeps the first error and turns later writes into no-ops.
type emitter struct {
	w   *bufio.Writer
	cfg config
	err error
}

func (e *emitter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) line(depth int, format string, args ...any) {
	e.printf("%s", strings.Repeat(e.cfg.indent, depth))
	e.printf(format, args...)
	e.printf("\n")
}

func (e *emitter) block(depth int, head string, children ...csg.Node) {
	e.line(depth, "%s {", head)
	for _, c := range children {
		e.node(c, depth+1)
	}
	e.line(depth, "}")
}

func (e *emitter) node(n csg.Node, depth int) {
	if e.err != nil {
		return
	}
	switch v := n.(type) {
	case nil, csg.Empty:
		// Nothing to draw.

	case csg.Cylinder:
		e.line(depth, "cylinder(h = %s, r1 = %s, r2 = %s);", num(v.H), num(v.R1), num(v.R2))

	case csg.Polygon:
		e.polygon(v, depth)

	case csg.Import:
		e.line(depth, "import(%s);", strconv.Quote(e.importPath(v.Path)))

	case csg.Extrude:
		e.block(depth, fmt.Sprintf("linear_extrude(height = %s)", num(v.Height)), v.Shape)

	case csg.Transform:
		e.block(depth, transform(v.M), v.Child)

	case csg.Union:
		e.block(depth, "union()", v.Children...)

	case csg.Difference:
		e.block(depth, "difference()", append([]csg.Node{v.Base}, v.Cut...)...)

	case csg.Color:
		e.block(depth, fmt.Sprintf("color(%s)", strconv.Quote(v.Name)), v.Child)

	case csg.CylinderText:
		e.err = fmt.Errorf("%w: %q", ErrUnresolved, v.Text)

	default:
		e.err = fmt.Errorf("scad: unsupported node %T", n)
	}
}

func (e *emitter) polygon(p csg.Polygon, depth int) {
	var points, paths []string
	for _, c := range p.Paths {
		idx := make([]string, len(c))
		for i, v := range c {
			idx[i] = strconv.Itoa(len(points))
			points = append(points, "["+num(v.X)+", "+num(v.Y)+"]")
		}
		paths = append(paths, "["+strings.Join(idx, ", ")+"]")
	}
	if len(points) == 0 {
		return
	}
	if len(p.Paths) == 1 {
		e.line(depth, "polygon(points = [%s]);", strings.Join(points, ", "))
		return
	}
	e.line(depth, "polygon(points = [%s], paths = [%s]);",
		strings.Join(points, ", "), strings.Join(paths, ", "))
}

func (e *emitter) importPath(p string) string {
	if e.cfg.importRoot == "" || filepath.IsAbs(p) {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(filepath.Join(e.cfg.importRoot, p))
}

// transform returns the narrowest OpenSCAD module for m.
func transform(m csg.Matrix) string {
	if m.IsTranslation() {
		return fmt.Sprintf("translate([%s, %s, %s])", num(m.X0), num(m.Y0), num(m.Z0))
	}
	if m.XY == 0 && m.XZ == 0 && m.YX == 0 && m.YZ == 0 && m.ZX == 0 && m.ZY == 0 &&
		m.X0 == 0 && m.Y0 == 0 && m.Z0 == 0 {
		return fmt.Sprintf("scale([%s, %s, %s])", num(m.XX), num(m.YY), num(m.ZZ))
	}
	rows := m.Rows()
	var sb strings.Builder
	sb.WriteString("multmatrix([")
	for _, r := range rows {
		fmt.Fprintf(&sb, "[%s, %s, %s, %s], ", num(r[0]), num(r[1]), num(r[2]), num(r[3]))
	}
	sb.WriteString("[0, 0, 0, 1]])")
	return sb.String()
}

// num formats v compactly. Rounding noise below 1e-9 is dropped so that
// rotations by right angles print as whole numbers.
func num(v float64) string {
	r := math.Round(v*1e9) / 1e9
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
