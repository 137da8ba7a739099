package csg

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch v := n.(type) {
	case Extrude:
		Walk(v.Shape, fn)
	case Transform:
		Walk(v.Child, fn)
	case Union:
		for _, c := range v.Children {
			Walk(c, fn)
		}
	case Difference:
		Walk(v.Base, fn)
		for _, c := range v.Cut {
			Walk(c, fn)
		}
	case Color:
		Walk(v.Child, fn)
	}
}

// Colors returns the material tags used in n, in first-seen order.
func Colors(n Node) []string {
	var out []string
	seen := make(map[string]bool)
	Walk(n, func(n Node) bool {
		if c, ok := n.(Color); ok && !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c.Name)
		}
		return true
	})
	return out
}

// Strip returns n without color tags. Geometry is left untouched.
func Strip(n Node) Node {
	return Map(n, func(n Node) Node {
		if c, ok := n.(Color); ok {
			return c.Child
		}
		return n
	})
}

// Map rebuilds the tree bottom-up, replacing every node with fn(node) after
// its children have been mapped.
func Map(n Node, fn func(Node) Node) Node {
	switch v := n.(type) {
	case Extrude:
		v.Shape = Map(v.Shape, fn)
		return fn(v)
	case Transform:
		v.Child = Map(v.Child, fn)
		return fn(v)
	case Union:
		children := make([]Node, len(v.Children))
		for i, c := range v.Children {
			children[i] = Map(c, fn)
		}
		return fn(Union{Children: children})
	case Difference:
		cut := make([]Node, len(v.Cut))
		for i, c := range v.Cut {
			cut[i] = Map(c, fn)
		}
		return fn(Difference{Base: Map(v.Base, fn), Cut: cut})
	case Color:
		v.Child = Map(v.Child, fn)
		return fn(v)
	case nil:
		return nil
	default:
		return fn(n)
	}
}

// Find returns every node in n for which match returns true.
func Find(n Node, match func(Node) bool) []Node {
	var out []Node
	Walk(n, func(n Node) bool {
		if match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
