package links

import "sort"

// Set is an unordered collection of issue numbers.
type Set map[int]struct{}

// NewSet builds a Set from the given issue numbers.
func NewSet(numbers ...int) Set {
	s := make(Set, len(numbers))
	for _, n := range numbers {
		s.Add(n)
	}
	return s
}

// Add inserts n into the set.
func (s Set) Add(n int) {
	s[n] = struct{}{}
}

// Has reports whether n is in the set.
func (s Set) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
