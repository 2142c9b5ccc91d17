package interval

import "sort"

// NoInterval is the Lookup index of a value no interval contains.
const NoInterval = -1

// Lookup is the result of a membership query for one value.
type Lookup struct {
	// index of the containing interval, NoInterval when Found is false
	Index int
	Found bool
}

// Contains returns, for each value, the interval holding it.
func (s *Set[T]) Contains(values ...T) []Lookup {
	lookups := make([]Lookup, len(values))
	for i, v := range values {
		if idx, ok := s.Index(v); ok {
			lookups[i] = Lookup{Index: idx, Found: true}
		} else {
			lookups[i] = Lookup{Index: NoInterval}
		}
	}
	return lookups
}

// Index returns the index of the interval holding v.
//
// a is the number of lower bounds <= v and b is one more than the number of
// upper bounds < v. v lies in interval a-1 iff b <= a. On a disjoint set a-b
// is 0 inside an interval and 1 on a point where two intervals touch, in which
// case the later interval wins. Both ends of every interval are closed.
func (s *Set[T]) Index(v T) (int, bool) {
	n := len(s.lower)
	a := sort.Search(n, func(i int) bool { return s.lower[i] > v })
	b := sort.Search(n, func(i int) bool { return s.upper[i] >= v }) + 1
	if b <= a {
		return a - 1, true
	}
	return NoInterval, false
}
