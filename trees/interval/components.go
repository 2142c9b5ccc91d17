package interval

import "golang.org/x/exp/slices"

// ConnectedComponents splits the set into maximal runs of touching
// intervals, where an interval touches its predecessor when its lower bound
// equals the predecessor's upper bound. Components are returned in order and
// concatenate back to the original set.
func (s *Set[T]) ConnectedComponents() []*Set[T] {
	n := len(s.lower)
	if n == 0 {
		return nil
	}

	var components []*Set[T]
	start := 0
	for i := 1; i < n; i++ {
		if s.lower[i] != s.upper[i-1] {
			components = append(components, s.slice(start, i))
			start = i
		}
	}
	return append(components, s.slice(start, n))
}

// ConnectedComponentsAsArray returns, per component, its sorted distinct
// bound values.
func (s *Set[T]) ConnectedComponentsAsArray() [][]T {
	components := s.ConnectedComponents()
	arrays := make([][]T, len(components))
	for i, c := range components {
		bounds := make([]T, 0, 2*c.Len())
		bounds = append(bounds, c.lower...)
		bounds = append(bounds, c.upper...)
		slices.Sort(bounds)
		arrays[i] = slices.Compact(bounds)
	}
	return arrays
}

// IsAtomic reports whether the set is a single unbroken chain of touching
// intervals.
func (s *Set[T]) IsAtomic() bool {
	return len(s.ConnectedComponents()) == 1
}
