// Package topic holds the curriculum topics and their declared dependency
// edges, and answers transitive dependency queries over them.
package topic

import (
	"slices"
	"strings"
)

// Topic is a unit of curricular knowledge with prerequisite topics.
type Topic struct {
	// Name is the unique key of the topic.
	Name string
	// Description is the free-text description from the topics table.
	Description string

	deps Set
}

func (t *Topic) String() string {
	return t.Name
}

// Dependencies returns the topic's dependency set. The set is shared, not
// copied; it is mutated only by Registry.Link and set simplification.
func (t *Topic) Dependencies() Set {
	return t.deps
}

// Set is a collection of unique topics keyed by name.
type Set map[string]*Topic

// NewSet builds a Set from the given topics.
func NewSet(topics ...*Topic) Set {
	s := make(Set, len(topics))
	for _, t := range topics {
		s.Add(t)
	}
	return s
}

// Add inserts t and reports whether it was not already present.
func (s Set) Add(t *Topic) bool {
	if _, ok := s[t.Name]; ok {
		return false
	}
	s[t.Name] = t
	return true
}

// Has reports whether t is a member.
func (s Set) Has(t *Topic) bool {
	_, ok := s[t.Name]
	return ok
}

// Remove deletes t from the set.
func (s Set) Remove(t *Topic) {
	delete(s, t.Name)
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the members in name order. All iteration over sets goes
// through this so results stay deterministic.
func (s Set) Sorted() []*Topic {
	out := make([]*Topic, 0, len(s))
	for _, t := range s {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Topic) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
