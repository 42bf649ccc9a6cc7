package ranking

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ranking errors.
var (
	ErrNaN          = errors.New("score is not a number")
	ErrDomain       = errors.New("domain error")
	ErrInvalidLimit = errors.New("invalid limit")
)

// DomainError reports a leaf whose computed score is NaN.
type DomainError struct {
	Name  string
	Value float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error: score %v for leaf %q is not a representable number", e.Value, e.Name)
}

func (e *DomainError) Unwrap() error { return ErrNaN }

// Is makes errors.Is(err, ErrDomain) hold for every DomainError.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }
