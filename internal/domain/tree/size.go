package tree

// Size returns the number of leaves under n: 1 for a leaf, the sum over the
// children for an internal node, and 0 for an internal node with no children.
func Size(n Node) int {
	switch v := n.(type) {
	case *Leaf:
		return 1
	case *Internal:
		return v.leaves
	default:
		return 0
	}
}

// CountLeaves recomputes the leaf count of n by walking the whole subtree.
// Size should be preferred; this exists to check the memoized value.
func CountLeaves(n Node) int {
	switch v := n.(type) {
	case *Leaf:
		return 1
	case *Internal:
		total := 0
		for _, c := range v.children {
			total += CountLeaves(c)
		}
		return total
	default:
		return 0
	}
}

// Depth returns the number of edges on the longest root-to-leaf path.
func Depth(n Node) int {
	in, ok := n.(*Internal)
	if !ok {
		return 0
	}
	deepest := 0
	for _, c := range in.children {
		if d := Depth(c) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}
