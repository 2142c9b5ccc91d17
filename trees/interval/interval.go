package interval

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// Bound is any numeric type usable as an interval endpoint.
type Bound interface {
	constraints.Integer | constraints.Float
}

// Set is an immutable union of closed intervals [lower[i], upper[i]],
// listed by strictly ascending lower bound.
type Set[T Bound] struct {
	// lower bounds, strictly ascending
	lower []T
	// upper bounds, same length as lower
	upper []T
}

// New builds a set from two bound sequences. The inputs are copied.
func New[T Bound](lower, upper []T) (*Set[T], error) {
	if err := validate(lower, upper); err != nil {
		return nil, err
	}

	return &Set[T]{
		lower: slices.Clone(lower),
		upper: slices.Clone(upper),
	}, nil
}

// Single builds a set holding the one interval [lower, upper].
func Single[T Bound](lower, upper T) (*Set[T], error) {
	return New([]T{lower}, []T{upper})
}

// FromSegments builds a set from (lower, upper) pairs.
func FromSegments[T Bound](segments [][2]T) (*Set[T], error) {
	lower := make([]T, len(segments))
	upper := make([]T, len(segments))
	for i, seg := range segments {
		lower[i], upper[i] = seg[0], seg[1]
	}

	return New(lower, upper)
}

// MustNew is like New but panics on invalid input.
func MustNew[T Bound](lower, upper []T) *Set[T] {
	s, err := New(lower, upper)
	if err != nil {
		panic(err)
	}
	return s
}

func validate[T Bound](lower, upper []T) error {
	if len(lower) != len(upper) {
		return errors.Wrapf(ErrInvalidInterval, "shape mismatch: %d lower bounds, %d upper bounds", len(lower), len(upper))
	}

	for i := range lower {
		// written as a negation so NaN bounds are rejected too
		if !(lower[i] < upper[i]) {
			return errors.Wrapf(ErrInvalidInterval, "inverted or degenerate interval at %d: [%v, %v]", i, lower[i], upper[i])
		}
	}

	for i := 1; i < len(lower); i++ {
		if !(lower[i-1] < lower[i]) {
			return errors.Wrapf(ErrInvalidInterval, "intervals not in ascending order at %d: %v >= %v", i, lower[i-1], lower[i])
		}
	}

	return nil
}

// Len returns the number of intervals.
func (s *Set[T]) Len() int {
	return len(s.lower)
}

// Lower returns a copy of the lower bounds.
func (s *Set[T]) Lower() []T {
	return slices.Clone(s.lower)
}

// Upper returns a copy of the upper bounds.
func (s *Set[T]) Upper() []T {
	return slices.Clone(s.upper)
}

// Segments returns the intervals as (lower, upper) pairs.
func (s *Set[T]) Segments() [][2]T {
	segments := make([][2]T, len(s.lower))
	for i := range s.lower {
		segments[i] = [2]T{s.lower[i], s.upper[i]}
	}
	return segments
}

// Extent returns the smallest lower bound and the largest upper bound.
// ok is false for an empty set.
func (s *Set[T]) Extent() (lo, hi T, ok bool) {
	if len(s.lower) == 0 {
		return lo, hi, false
	}

	hi = s.upper[0]
	for _, u := range s.upper[1:] {
		if u > hi {
			hi = u
		}
	}
	return s.lower[0], hi, true
}

// IsDisjoint reports whether every interval ends no later than the next one
// starts. Construction does not enforce this.
func (s *Set[T]) IsDisjoint() bool {
	for i := 1; i < len(s.lower); i++ {
		if s.upper[i-1] > s.lower[i] {
			return false
		}
	}
	return true
}

// Equal compares both bound sequences element by element. Two sets covering
// the same region with a different segmentation are not equal.
func (s *Set[T]) Equal(other *Set[T]) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.Equal(s.lower, other.lower) && slices.Equal(s.upper, other.upper)
}

func (s *Set[T]) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i := range s.lower {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "[%v, %v]", s.lower[i], s.upper[i])
	}
	b.WriteByte('}')
	return b.String()
}

// slice returns the sub-set [start, end). Sub-ranges of a valid set are
// valid, so no validation pass is needed.
func (s *Set[T]) slice(start, end int) *Set[T] {
	return &Set[T]{
		lower: s.lower[start:end:end],
		upper: s.upper[start:end:end],
	}
}
