// Package csg defines the immutable shape tree produced by the clip builder.
//
// A tree is built from primitive solids and outlines, affine transforms and
// boolean operators. Nodes are plain values: composing never mutates a child,
// so the same subtree may appear in several trees. Evaluating a tree (meshing,
// sampling, or emitting it for another program) is the job of a backend
// package such as scad or solid.
//
// Two primitives are opaque: Import refers to an outline file and
// CylinderText to text set with an external font. Backends either pass them
// through to a host that understands them or lower them first (see the
// resolve package).
package csg

// Node is an element of a shape tree.
type Node interface {
	isNode()
}

// Cylinder is a truncated cone standing on the XY plane.
// R1 is the radius at z=0 and R2 the radius at z=H.
type Cylinder struct {
	R1, R2, H float64
}

func (Cylinder) isNode() {}

// Polygon is a 2D region in the XY plane. Multiple paths combine with the
// even-odd rule, so an inner path punches a hole into an outer one.
type Polygon struct {
	Paths [][]Vec2
}

func (Polygon) isNode() {}

// Import is a 2D outline loaded from an external file.
type Import struct {
	Path string
}

func (Import) isNode() {}

// Extrude linearly extrudes a 2D shape from z=0 to z=Height.
type Extrude struct {
	Height float64
	Shape  Node
}

func (Extrude) isNode() {}

// CylinderText is text wrapped around the Z axis.
//
// Each glyph is an upright slab of thickness Depth centered on the cylinder
// of the given Radius. The run is centered on the -Y direction and reads
// left to right when seen from outside. Size is the font size (the em height)
// and Center the height of the middle of the run's ink.
type CylinderText struct {
	Text   string
	Font   string
	Radius float64
	Size   float64
	Depth  float64
	Center float64
}

func (CylinderText) isNode() {}

// Transform applies an affine transformation to its child.
type Transform struct {
	M     Matrix
	Child Node
}

func (Transform) isNode() {}

// Union is the boolean union of its children.
type Union struct {
	Children []Node
}

func (Union) isNode() {}

// Difference subtracts every node in Cut from Base.
type Difference struct {
	Base Node
	Cut  []Node
}

func (Difference) isNode() {}

// Color tags its child with a material name.
type Color struct {
	Name  string
	Child Node
}

func (Color) isNode() {}

// Empty is the absence of geometry.
type Empty struct{}

func (Empty) isNode() {}

// NewUnion returns the union of the non-empty nodes. A single survivor is
// returned as-is and no survivors yield Empty.
func NewUnion(children ...Node) Node {
	kept := make([]Node, 0, len(children))
	for _, c := range children {
		if IsEmpty(c) {
			continue
		}
		kept = append(kept, c)
	}
	switch len(kept) {
	case 0:
		return Empty{}
	case 1:
		return kept[0]
	}
	return Union{Children: kept}
}

// NewDifference returns base minus the non-empty cut nodes.
func NewDifference(base Node, cut ...Node) Node {
	if IsEmpty(base) {
		return Empty{}
	}
	kept := make([]Node, 0, len(cut))
	for _, c := range cut {
		if IsEmpty(c) {
			continue
		}
		kept = append(kept, c)
	}
	if len(kept) == 0 {
		return base
	}
	return Difference{Base: base, Cut: kept}
}

// IsEmpty reports whether n is nil or Empty.
func IsEmpty(n Node) bool {
	if n == nil {
		return true
	}
	_, ok := n.(Empty)
	return ok
}

// Apply wraps n in a transform. Consecutive transforms are folded into one.
func Apply(m Matrix, n Node) Node {
	if IsEmpty(n) {
		return Empty{}
	}
	if m.IsIdentity() {
		return n
	}
	if t, ok := n.(Transform); ok {
		return Transform{M: m.Multiply(t.M), Child: t.Child}
	}
	return Transform{M: m, Child: n}
}

// Translate moves n by (x, y, z).
func Translate(n Node, x, y, z float64) Node {
	return Apply(Translation(x, y, z), n)
}

// Scale scales n along each axis.
func Scale(n Node, x, y, z float64) Node {
	return Apply(Scaling(x, y, z), n)
}

// RotateX rotates n about the X axis by deg degrees.
func RotateX(n Node, deg float64) Node {
	return Apply(RotationX(deg), n)
}

// RotateY rotates n about the Y axis by deg degrees.
func RotateY(n Node, deg float64) Node {
	return Apply(RotationY(deg), n)
}

// RotateZ rotates n about the Z axis by deg degrees.
func RotateZ(n Node, deg float64) Node {
	return Apply(RotationZ(deg), n)
}

// Is2D reports whether n describes a planar outline rather than a solid.
func Is2D(n Node) bool {
	switch v := n.(type) {
	case Polygon, Import:
		return true
	case Transform:
		return Is2D(v.Child)
	case Color:
		return Is2D(v.Child)
	case Difference:
		return Is2D(v.Base)
	case Union:
		return len(v.Children) > 0 && Is2D(v.Children[0])
	default:
		return false
	}
}
