// Package tree contains the weighted tree model that scores are computed over.
//
// A tree is built once, either by Load from a JSON document or by the
// NewLeaf/NewInternal constructors, and is never mutated afterwards.
package tree

import (
	"encoding/json"
	"fmt"
)

// Node is one of *Internal or *Leaf.
type Node interface {
	// Length is the branch length of the edge above this node.
	Length() float64

	node()
}

// Leaf is a named terminal node.
type Leaf struct {
	name   string
	length float64
}

// Internal is a node with an ordered list of children.
type Internal struct {
	length   float64
	children []Node
	leaves   int // memoized leaf count
}

// NewLeaf returns a leaf with the given name and branch length.
func NewLeaf(name string, length float64) *Leaf {
	return &Leaf{name: name, length: length}
}

// NewInternal returns an internal node. The leaf count is computed here from
// the already-built children so later lookups are O(1).
func NewInternal(length float64, children ...Node) *Internal {
	n := &Internal{
		length:   length,
		children: append([]Node(nil), children...),
	}
	for _, c := range n.children {
		n.leaves += Size(c)
	}
	return n
}

func (l *Leaf) node()           {}
func (l *Leaf) Length() float64 { return l.length }

// Name returns the leaf label. Labels are not required to be unique.
func (l *Leaf) Name() string { return l.name }

func (n *Internal) node()           {}
func (n *Internal) Length() float64 { return n.length }

// Children returns the node's children in input order. The returned slice
// must not be modified.
func (n *Internal) Children() []Node { return n.children }

// MarshalJSON encodes the leaf in the input document shape.
func (l *Leaf) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Length float64 `json:"length"`
		Name   string  `json:"name"`
	}{l.length, l.name})
}

// MarshalJSON encodes the node and its subtree in the input document shape.
func (n *Internal) MarshalJSON() ([]byte, error) {
	children := n.children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(struct {
		Length   float64 `json:"length"`
		Children []Node  `json:"children"`
	}{n.length, children})
}

// Encode writes root as a {"root": ...} document accepted by Load.
func Encode(root Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("encode tree: %w", ErrNilNode)
	}
	b, err := json.Marshal(document{Root: root})
	if err != nil {
		return nil, fmt.Errorf("encode tree: %w", err)
	}
	return b, nil
}

type document struct {
	Root Node `json:"root"`
}
