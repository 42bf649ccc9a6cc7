package ranking

import (
	"iter"
	"slices"

	"github.com/okian/fairshare/internal/domain/scoring"
)

// Collect validates every raw result from seq and gathers them into a Set.
// The first NaN score aborts the whole collection with a *DomainError; no
// partial set is returned.
func Collect(seq iter.Seq[scoring.Result]) (*Set, error) {
	s := &Set{}
	for r := range seq {
		score, err := NewScore(r.Score)
		if err != nil {
			return nil, &DomainError{Name: r.Name, Value: r.Score}
		}
		s.Push(Entry{Score: score, Name: r.Name})
	}
	return s, nil
}

// CollectSlice is Collect over an already materialized slice of results.
func CollectSlice(results []scoring.Result) (*Set, error) {
	return Collect(slices.Values(results))
}
