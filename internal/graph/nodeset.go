package graph

import "sort"

// NodeSet is an unordered set of handles.
type NodeSet map[string]struct{}

// NewNodeSet returns a set containing the given handles.
func NewNodeSet(handles ...string) NodeSet {
	s := make(NodeSet, len(handles))
	for _, h := range handles {
		s.Add(h)
	}
	return s
}

// Add inserts a handle.
func (s NodeSet) Add(handle string) {
	s[handle] = struct{}{}
}

// Contains reports whether the handle is in the set.
func (s NodeSet) Contains(handle string) bool {
	_, ok := s[handle]
	return ok
}

// Len returns the number of handles in the set.
func (s NodeSet) Len() int {
	return len(s)
}

// Union adds every handle of other to s.
func (s NodeSet) Union(other NodeSet) {
	for h := range other {
		s.Add(h)
	}
}

// Without returns a new set holding the handles of s that are in none of the
// excluded sets.
func (s NodeSet) Without(excluded ...NodeSet) NodeSet {
	out := make(NodeSet, len(s))
	for h := range s {
		skip := false
		for _, ex := range excluded {
			if ex.Contains(h) {
				skip = true
				break
			}
		}
		if !skip {
			out.Add(h)
		}
	}
	return out
}

// Sorted returns the handles in ascending order.
func (s NodeSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}
