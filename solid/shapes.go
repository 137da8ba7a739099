package solid

import (
	"math"

	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/internal/path"
)

type empty struct{}

func (empty) contains(csg.Vec3) bool          { return false }
func (empty) colorAt(csg.Vec3) (string, bool) { return "", false }
func (empty) bounds() csg.Box3                { return csg.Box3{} }

// cylinder is a truncated cone on the XY plane.
type cylinder csg.Cylinder

func (c cylinder) contains(p csg.Vec3) bool {
	if p.Z < 0 || p.Z > c.H || c.H <= 0 {
		return false
	}
	r := c.R1 + (c.R2-c.R1)*p.Z/c.H
	return p.X*p.X+p.Y*p.Y <= r*r
}

func (c cylinder) colorAt(p csg.Vec3) (string, bool) { return "", c.contains(p) }

func (c cylinder) bounds() csg.Box3 {
	r := math.Max(c.R1, c.R2)
	return csg.NewBox3(csg.V3(-r, -r, 0), csg.V3(r, r, c.H))
}

type extrusion struct {
	height float64
	region region
}

func (e extrusion) contains(p csg.Vec3) bool {
	lo, hi := math.Min(0, e.height), math.Max(0, e.height)
	return p.Z >= lo && p.Z <= hi && e.region.inside(p.X, p.Y)
}

func (e extrusion) colorAt(p csg.Vec3) (string, bool) { return "", e.contains(p) }

func (e extrusion) bounds() csg.Box3 {
	lo, hi, ok := e.region.bounds()
	if !ok {
		return csg.Box3{}
	}
	return csg.NewBox3(csg.V3(lo.X, lo.Y, 0), csg.V3(hi.X, hi.Y, e.height))
}

type transformed struct {
	inv   csg.Matrix
	child shape
	box   csg.Box3
}

func (t transformed) contains(p csg.Vec3) bool {
	return t.box.Contains(p) && t.child.contains(t.inv.TransformPoint(p))
}

func (t transformed) colorAt(p csg.Vec3) (string, bool) {
	if !t.box.Contains(p) {
		return "", false
	}
	return t.child.colorAt(t.inv.TransformPoint(p))
}

func (t transformed) bounds() csg.Box3 { return t.box }

type union struct {
	children []shape
	box      csg.Box3
}

func (u union) contains(p csg.Vec3) bool {
	if !u.box.Contains(p) {
		return false
	}
	for _, c := range u.children {
		if c.contains(p) {
			return true
		}
	}
	return false
}

// colorAt reports the tag of the first child containing p.
func (u union) colorAt(p csg.Vec3) (string, bool) {
	if !u.box.Contains(p) {
		return "", false
	}
	for _, c := range u.children {
		if name, in := c.colorAt(p); in {
			return name, true
		}
	}
	return "", false
}

func (u union) bounds() csg.Box3 { return u.box }

type difference struct {
	base shape
	cut  []shape
}

func (d difference) contains(p csg.Vec3) bool {
	if !d.base.contains(p) {
		return false
	}
	for _, c := range d.cut {
		if c.contains(p) {
			return false
		}
	}
	return true
}

func (d difference) colorAt(p csg.Vec3) (string, bool) {
	name, in := d.base.colorAt(p)
	if !in {
		return "", false
	}
	for _, c := range d.cut {
		if c.contains(p) {
			return "", false
		}
	}
	return name, true
}

func (d difference) bounds() csg.Box3 { return d.base.bounds() }

// tagged applies a material name unless a nested tag already did.
type tagged struct {
	name  string
	child shape
}

func (t tagged) contains(p csg.Vec3) bool { return t.child.contains(p) }

func (t tagged) colorAt(p csg.Vec3) (string, bool) {
	name, in := t.child.colorAt(p)
	if !in {
		return "", false
	}
	if name == "" {
		name = t.name
	}
	return name, true
}

func (t tagged) bounds() csg.Box3 { return t.child.bounds() }

type polygon struct {
	contours [][]path.Point
	lo, hi   csg.Vec2
	ok       bool
}

func (p polygon) inside(x, y float64) bool {
	if !p.ok || x < p.lo.X || x > p.hi.X || y < p.lo.Y || y > p.hi.Y {
		return false
	}
	return path.ContainsEvenOdd(p.contours, path.Point{X: x, Y: y})
}

func (p polygon) bounds() (lo, hi csg.Vec2, ok bool) { return p.lo, p.hi, p.ok }

type transformed2D struct {
	m, inv csg.Matrix
	child  region
}

func (t transformed2D) inside(x, y float64) bool {
	q := t.inv.TransformPoint(csg.V3(x, y, 0))
	return t.child.inside(q.X, q.Y)
}

func (t transformed2D) bounds() (lo, hi csg.Vec2, ok bool) {
	clo, chi, ok := t.child.bounds()
	if !ok {
		return lo, hi, false
	}
	b := csg.NewBox3(csg.V3(clo.X, clo.Y, 0), csg.V3(chi.X, chi.Y, 0)).Transform(t.m)
	return b.Min.XY(), b.Max.XY(), true
}

type union2D []region

func (u union2D) inside(x, y float64) bool {
	for _, r := range u {
		if r.inside(x, y) {
			return true
		}
	}
	return false
}

func (u union2D) bounds() (lo, hi csg.Vec2, ok bool) {
	for _, r := range u {
		rlo, rhi, rok := r.bounds()
		if !rok {
			continue
		}
		if !ok {
			lo, hi, ok = rlo, rhi, true
			continue
		}
		lo = csg.V2(math.Min(lo.X, rlo.X), math.Min(lo.Y, rlo.Y))
		hi = csg.V2(math.Max(hi.X, rhi.X), math.Max(hi.Y, rhi.Y))
	}
	return lo, hi, ok
}

type difference2D struct {
	base region
	cut  []region
}

func (d difference2D) inside(x, y float64) bool {
	if !d.base.inside(x, y) {
		return false
	}
	for _, c := range d.cut {
		if c.inside(x, y) {
			return false
		}
	}
	return true
}

func (d difference2D) bounds() (lo, hi csg.Vec2, ok bool) { return d.base.bounds() }
