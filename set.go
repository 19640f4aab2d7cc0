package tsplot

import "sort"

// StringSet is a set of column or dataset names.
type StringSet map[string]struct{}

func NewStringSet(init ...string) StringSet {
	s := make(StringSet, len(init))
	for _, v := range init {
		s.Add(v)
	}
	return s
}

// Add adds x to s and reports whether x was new.
func (s StringSet) Add(x string) bool {
	if _, ok := s[x]; ok {
		return false
	}
	s[x] = struct{}{}
	return true
}

// Contains reports membership of x in s.
func (s StringSet) Contains(x string) bool {
	_, ok := s[x]
	return ok
}

// Missing returns the elements of names not in s, keeping their order.
func (s StringSet) Missing(names []string) []string {
	var missing []string
	for _, n := range names {
		if !s.Contains(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Elements returns the sorted elements of s.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for x := range s {
		elems = append(elems, x)
	}
	sort.Strings(elems)
	return elems
}
