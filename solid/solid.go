package solid

import (
	"errors"
	"fmt"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/path"
)

// ErrUnresolved is returned by Compile for Import and CylinderText nodes.
var ErrUnresolved = errors.New("solid: unresolved node")

// Solid is a compiled shape tree.
//
// Solid is immutable and safe for concurrent use.
type Solid struct {
	root   shape
	colors []string
}

// Compile prepares n for sampling. n must not contain opaque primitives.
func Compile(n csg.Node) (*Solid, error) {
	root, err := compile(n)
	if err != nil {
		return nil, err
	}
	return &Solid{root: root, colors: csg.Colors(n)}, nil
}

// Colors returns the material tags of the solid in first-seen order.
func (s *Solid) Colors() []string {
	return s.colors
}

// Contains reports whether p lies inside the solid.
func (s *Solid) Contains(p csg.Vec3) bool {
	return s.root.contains(p)
}

// ColorAt returns the material tag at p. inside is false outside the
// solid; name is empty for untagged material.
func (s *Solid) ColorAt(p csg.Vec3) (name string, inside bool) {
	return s.root.colorAt(p)
}

// Bounds returns a box enclosing the solid. It may be loose.
func (s *Solid) Bounds() csg.Box3 {
	return s.root.bounds()
}

// shape is a compiled 3D node.
type shape interface {
	contains(p csg.Vec3) bool
	colorAt(p csg.Vec3) (string, bool)
	bounds() csg.Box3
}

// region is a compiled 2D node.
type region interface {
	inside(x, y float64) bool
	bounds() (lo, hi csg.Vec2, ok bool)
}

func compile(n csg.Node) (shape, error) {
	switch v := n.(type) {
	case nil, csg.Empty:
		return empty{}, nil

	case csg.Cylinder:
		return cylinder(v), nil

	case csg.Extrude:
		r, err := compile2D(v.Shape)
		if err != nil {
			return nil, err
		}
		return extrusion{height: v.Height, region: r}, nil

	case csg.Transform:
		child, err := compile(v.Child)
		if err != nil {
			return nil, err
		}
		return transformed{inv: v.M.Invert(), child: child, box: child.bounds().Transform(v.M)}, nil

	case csg.Union:
		u := union{}
		for _, c := range v.Children {
			sc, err := compile(c)
			if err != nil {
				return nil, err
			}
			u.children = append(u.children, sc)
			u.box = u.box.Union(sc.bounds())
		}
		return u, nil

	case csg.Difference:
		base, err := compile(v.Base)
		if err != nil {
			return nil, err
		}
		d := difference{base: base}
		for _, c := range v.Cut {
			sc, err := compile(c)
			if err != nil {
				return nil, err
			}
			d.cut = append(d.cut, sc)
		}
		return d, nil

	case csg.Color:
		child, err := compile(v.Child)
		if err != nil {
			return nil, err
		}
		return tagged{name: v.Name, child: child}, nil

	case csg.Polygon:
		return nil, fmt.Errorf("solid: 2D polygon used as a solid")

	case csg.Import:
		return nil, fmt.Errorf("%w: import %q", ErrUnresolved, v.Path)

	case csg.CylinderText:
		return nil, fmt.Errorf("%w: text %q", ErrUnresolved, v.Text)
	}
	return nil, fmt.Errorf("solid: unsupported node %T", n)
}

func compile2D(n csg.Node) (region, error) {
	switch v := n.(type) {
	case nil, csg.Empty:
		return polygon{}, nil

	case csg.Polygon:
		p := polygon{contours: make([][]path.Point, len(v.Paths))}
		for i, c := range v.Paths {
			pts := make([]path.Point, len(c))
			for j, q := range c {
				pts[j] = path.Point{X: q.X, Y: q.Y}
			}
			p.contours[i] = pts
		}
		lo, hi, ok := path.Bounds(p.contours)
		p.lo, p.hi, p.ok = csg.V2(lo.X, lo.Y), csg.V2(hi.X, hi.Y), ok
		return p, nil

	case csg.Transform:
		child, err := compile2D(v.Child)
		if err != nil {
			return nil, err
		}
		return transformed2D{m: v.M, inv: v.M.Invert(), child: child}, nil

	case csg.Union:
		var u union2D
		for _, c := range v.Children {
			r, err := compile2D(c)
			if err != nil {
				return nil, err
			}
			u = append(u, r)
		}
		return u, nil

	case csg.Difference:
		base, err := compile2D(v.Base)
		if err != nil {
			return nil, err
		}
		d := difference2D{base: base}
		for _, c := range v.Cut {
			r, err := compile2D(c)
			if err != nil {
				return nil, err
			}
			d.cut = append(d.cut, r)
		}
		return d, nil

	case csg.Color:
		// Tags have no meaning inside an outline.
		return compile2D(v.Child)

	case csg.Import:
		return nil, fmt.Errorf("%w: import %q", ErrUnresolved, v.Path)
	}
	return nil, fmt.Errorf("solid: %T is not a 2D node", n)
}
