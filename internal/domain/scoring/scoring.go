// Package scoring computes fair-proportion scores for the leaves of a tree.
//
// Every edge's length is split evenly among all leaves below it, and a leaf's
// score is the sum of those shares along its path from the root, plus the
// length of its own edge.
package scoring

import (
	"iter"

	"github.com/okian/fairshare/internal/domain/tree"
)

// Result is the raw score for one leaf. Score may be NaN or infinite; the
// ranking package decides what is acceptable.
type Result struct {
	Name  string
	Score float64
}

// Walk lazily yields one Result per leaf reachable from n, in depth-first
// input order. curr is the value accumulated above n and is 0 at the root.
//
// An internal node with no children divides its length by zero. That value
// only reaches its (nonexistent) descendants, so it never shows up in the
// output and is not treated specially.
func Walk(n tree.Node, curr float64) iter.Seq[Result] {
	return func(yield func(Result) bool) {
		walk(n, curr, yield)
	}
}

func walk(n tree.Node, curr float64, yield func(Result) bool) bool {
	switch v := n.(type) {
	case *tree.Leaf:
		return yield(Result{Name: v.Name(), Score: curr + v.Length()})
	case *tree.Internal:
		next := curr + share(v)
		for _, c := range v.Children() {
			if !walk(c, next, yield) {
				return false
			}
		}
	}
	return true
}

// share is the part of n's edge length inherited by each leaf below it.
func share(n *tree.Internal) float64 {
	return n.Length() / float64(tree.Size(n))
}
