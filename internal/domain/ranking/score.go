// Package ranking orders scored leaves and rejects scores that cannot be
// ordered.
package ranking

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
)

// Score is a float64 that is never NaN, so it has a total order.
// Infinite values are allowed.
type Score struct {
	v float64
}

// NewScore wraps f, failing with ErrNaN if f is NaN.
func NewScore(f float64) (Score, error) {
	if math.IsNaN(f) {
		return Score{}, ErrNaN
	}
	return Score{v: f}, nil
}

// MustScore is like NewScore but panics on NaN. Intended for tests and constants.
func MustScore(f float64) Score {
	s, err := NewScore(f)
	if err != nil {
		panic(err)
	}
	return s
}

// Float returns the wrapped value.
func (s Score) Float() float64 { return s.v }

// Compare returns -1, 0 or +1 as s is less than, equal to or greater than o.
func (s Score) Compare(o Score) int { return cmp.Compare(s.v, o.v) }

func (s Score) String() string { return strconv.FormatFloat(s.v, 'g', -1, 64) }

// MarshalJSON encodes finite scores as numbers and infinities as the strings
// "Infinity" and "-Infinity", which encoding/json cannot otherwise represent.
func (s Score) MarshalJSON() ([]byte, error) {
	switch {
	case math.IsInf(s.v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(s.v, -1):
		return []byte(`"-Infinity"`), nil
	default:
		return json.Marshal(s.v)
	}
}

// Entry is one leaf's validated score.
type Entry struct {
	Score Score  `json:"score"`
	Name  string `json:"name"`
}

// Compare orders entries by score and then by name, both ascending. The set
// extracts the maximum first, so ties come out in descending name order.
func (e Entry) Compare(o Entry) int {
	if c := e.Score.Compare(o.Score); c != 0 {
		return c
	}
	return cmp.Compare(e.Name, o.Name)
}
