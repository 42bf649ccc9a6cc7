// Package treegen builds random weighted trees for benchmarks, load tests and
// the "generate" CLI command. The same options and seed always produce the
// same tree.
package treegen

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/fairshare/internal/domain/tree"
)

// Default generation parameters.
const (
	defaultLeaves      = 1000
	defaultMaxChildren = 4
	defaultMaxLength   = 10.0
	pcgStream          = 0x9e3779b97f4a7c15
)

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithLeaves sets the exact number of leaves in the generated tree.
func WithLeaves(n int) Option {
	return func(g *generator) {
		if n > 0 {
			g.leaves = n
		}
	}
}

// WithMaxChildren bounds the fan-out of internal nodes. Values below 2 are ignored.
func WithMaxChildren(n int) Option {
	return func(g *generator) {
		if n >= 2 {
			g.maxChildren = n
		}
	}
}

// WithMaxLength sets the upper bound for branch lengths, drawn uniformly from [0, max).
func WithMaxLength(limit float64) Option {
	return func(g *generator) {
		if limit > 0 {
			g.maxLength = limit
		}
	}
}

// WithSeed makes the generated tree reproducible.
func WithSeed(seed uint64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

type generator struct {
	leaves      int
	maxChildren int
	maxLength   float64
	seed        uint64

	rng   *rand.Rand
	names *rand.ChaCha8
}

// Generate returns a random tree with exactly the configured number of leaves.
// Leaf names are UUIDs drawn from the seeded source.
func Generate(opts ...Option) tree.Node {
	g := &generator{
		leaves:      defaultLeaves,
		maxChildren: defaultMaxChildren,
		maxLength:   defaultMaxLength,
	}
	for _, opt := range opts {
		opt(g)
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], g.seed)
	g.rng = rand.New(rand.NewPCG(g.seed, pcgStream))
	g.names = rand.NewChaCha8(key)

	return g.subtree(g.leaves)
}

// subtree builds a node holding exactly n leaves.
func (g *generator) subtree(n int) tree.Node {
	if n == 1 {
		return tree.NewLeaf(g.name(), g.length())
	}
	parts := g.split(n)
	children := make([]tree.Node, len(parts))
	for i, p := range parts {
		children[i] = g.subtree(p)
	}
	return tree.NewInternal(g.length(), children...)
}

// split divides n >= 2 leaves into between 2 and maxChildren non-empty parts.
func (g *generator) split(n int) []int {
	k := 2 + g.rng.IntN(min(g.maxChildren, n)-1)
	parts := make([]int, k)
	for i := range parts {
		parts[i] = 1
	}
	for rest := n - k; rest > 0; rest-- {
		parts[g.rng.IntN(k)]++
	}
	return parts
}

func (g *generator) length() float64 {
	return g.rng.Float64() * g.maxLength
}

func (g *generator) name() string {
	id, err := uuid.NewRandomFromReader(g.names)
	if err != nil {
		// ChaCha8 reads never fail.
		panic(err)
	}
	return id.String()
}
