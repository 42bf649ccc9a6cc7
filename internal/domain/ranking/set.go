package ranking

import (
	"math/rand/v2"
	"sync"
)

// Treap-based ordered score set.
//
// Ordering: score DESC, then name DESC. The BST comparator treats "less" as
// "ranks earlier", so in-order traversal yields the ranking from best to
// worst and the maximum is always the leftmost node. Priorities are random,
// which keeps the expected depth logarithmic regardless of insertion order.

// Ranked is an entry with its position in the ranking. Entries with equal
// scores share a rank.
type Ranked struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Score Score  `json:"score"`
}

// treap node
type node struct {
	entry Entry
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if a should be extracted before b.
func less(a, b Entry) bool {
	return a.Compare(b) > 0
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, e Entry, prio uint64) *node {
	if n == nil {
		return &node{entry: e, prio: prio, size: 1}
	}
	if less(e, n.entry) {
		n.left = insert(n.left, e, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, e, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// popFirst detaches the leftmost node of the subtree rooted at n.
func popFirst(n *node) (*node, Entry) {
	if n.left == nil {
		return n.right, n.entry
	}
	var e Entry
	n.left, e = popFirst(n.left)
	fix(n)
	return n, e
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.entry)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// Set is a priority structure over entries that always extracts the highest
// ranked remaining entry first. The zero value is an empty set.
type Set struct {
	mu   sync.RWMutex
	root *node
}

// NewSet returns a set holding entries.
func NewSet(entries ...Entry) *Set {
	s := &Set{}
	for _, e := range entries {
		s.Push(e)
	}
	return s
}

// Push adds e in O(log n) expected time. Duplicate entries are kept.
func (s *Set) Push(e Entry) {
	s.mu.Lock()
	s.root = insert(s.root, e, rand.Uint64())
	s.mu.Unlock()
}

// Pop removes and returns the highest ranked entry in O(log n) expected time.
// It returns false if the set is empty.
func (s *Set) Pop() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.root == nil {
		return Entry{}, false
	}
	var e Entry
	s.root, e = popFirst(s.root)
	return e, true
}

// Peek returns the highest ranked entry without removing it.
func (s *Set) Peek() (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := s.root
	if n == nil {
		return Entry{}, false
	}
	for n.left != nil {
		n = n.left
	}
	return n.entry, true
}

// Len returns the number of entries in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nsize(s.root)
}

// TopN returns the n highest ranked entries without removing them.
func (s *Set) TopN(n int) ([]Ranked, error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	out := make([]Entry, 0, min(n, nsize(s.root)))
	collectTopN(s.root, n, &out)
	s.mu.RUnlock()
	return assignRanksWithTies(out), nil
}

// Drain empties the set and returns every entry in rank order.
func (s *Set) Drain() []Ranked {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, nsize(s.root))
	for s.root != nil {
		var e Entry
		s.root, e = popFirst(s.root)
		out = append(out, e)
	}
	return assignRanksWithTies(out)
}

// assignRanksWithTies assigns dense ranks to entries already in rank order.
// Entries with the same score get the same rank and the next distinct score
// gets the following rank.
func assignRanksWithTies(entries []Entry) []Ranked {
	out := make([]Ranked, len(entries))
	rank := 0
	for i, e := range entries {
		if i == 0 || e.Score.Compare(entries[i-1].Score) != 0 {
			rank++
		}
		out[i] = Ranked{Rank: rank, Name: e.Name, Score: e.Score}
	}
	return out
}
