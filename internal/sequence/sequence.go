// Package sequence maintains the chronological total order over events and
// answers temporal queries relative to it.
package sequence

import (
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// ConflictingEventError indicates two events claim the same
// (unit, group, type) slot.
type ConflictingEventError struct {
	Event    *event.Event
	Existing *event.Event
}

func (e *ConflictingEventError) Error() string {
	return fmt.Sprintf("conflicting events '%s' and '%s' have the same type, unit, and group",
		e.Event.Name, e.Existing.Name)
}

// DuplicateProjectError indicates a unit with more than one project.
type DuplicateProjectError struct {
	Unit int
}

func (e *DuplicateProjectError) Error() string {
	return fmt.Sprintf("unit %d has multiple projects", e.Unit)
}

// Sequencer stores events sorted chronologically and keyed by
// unit, group id, and type. The order does not depend on insertion order.
type Sequencer struct {
	events []*event.Event
	groups map[int]map[string]map[event.Type]*event.Event
}

// New creates an empty sequencer.
func New() *Sequencer {
	return &Sequencer{
		groups: make(map[int]map[string]map[event.Type]*event.Event),
	}
}

// Add inserts an event at its chronological position. The
// (unit, group, type) slot must be free.
func (s *Sequencer) Add(ev *event.Event) error {
	unit, ok := s.groups[ev.Unit]
	if !ok {
		unit = make(map[string]map[event.Type]*event.Event)
		s.groups[ev.Unit] = unit
	}
	group, ok := unit[ev.GroupID]
	if !ok {
		group = make(map[event.Type]*event.Event)
		unit[ev.GroupID] = group
	}
	if existing, ok := group[ev.Type]; ok {
		return &ConflictingEventError{Event: ev, Existing: existing}
	}
	group[ev.Type] = ev

	i := sort.Search(len(s.events), func(i int) bool {
		return ev.Compare(s.events[i]) < 0
	})
	s.events = slices.Insert(s.events, i, ev)
	return nil
}

// Finalize validates structural invariants and links the chronological next
// chain. Events must not be added afterwards.
func (s *Sequencer) Finalize() error {
	unitsWithProjects := make(map[int]bool)
	for _, ev := range s.events {
		if ev.Type != event.Project {
			continue
		}
		if unitsWithProjects[ev.Unit] {
			return &DuplicateProjectError{Unit: ev.Unit}
		}
		unitsWithProjects[ev.Unit] = true
	}
	for i, ev := range s.events {
		if i+1 < len(s.events) {
			ev.SetNext(s.events[i+1])
		} else {
			ev.SetNext(nil)
		}
	}
	return nil
}

// Events returns all events in chronological order.
func (s *Sequencer) Events() []*event.Event {
	return s.events
}

// Len returns the number of events.
func (s *Sequencer) Len() int {
	return len(s.events)
}

// Units returns the unit numbers in ascending order.
func (s *Sequencer) Units() []int {
	units := make([]int, 0, len(s.groups))
	for unit := range s.groups {
		units = append(units, unit)
	}
	slices.Sort(units)
	return units
}

// Groups returns the group ids of a unit in chronological order, the
// ungrouped slot last.
func (s *Sequencer) Groups(unit int) []string {
	groups := make([]string, 0, len(s.groups[unit]))
	for group := range s.groups[unit] {
		groups = append(groups, group)
	}
	slices.SortFunc(groups, func(a, b string) int {
		if a == b {
			return 0
		}
		if a == "" {
			return 1
		}
		if b == "" {
			return -1
		}
		return strings.Compare(a, b)
	})
	return groups
}

// EventsIn returns the events of a (unit, group) slot in type order.
func (s *Sequencer) EventsIn(unit int, group string) []*event.Event {
	slot := s.groups[unit][group]
	out := make([]*event.Event, 0, len(slot))
	for _, ev := range slot {
		out = append(out, ev)
	}
	slices.SortFunc(out, func(a, b *event.Event) int {
		return a.Compare(b)
	})
	return out
}

// index locates an event that was previously added.
func (s *Sequencer) index(ev *event.Event) (int, error) {
	i := sort.Search(len(s.events), func(i int) bool {
		return ev.Compare(s.events[i]) <= 0
	})
	if i < len(s.events) && s.events[i] == ev {
		return i, nil
	}
	return 0, fmt.Errorf("event '%s' is not part of the sequence", ev.Name)
}

// From returns the lazy sequence of events starting at start, exclusive
// unless includeStart, going forward or backward in chronological order. A
// nil start means the corresponding end of the sequence, inclusive.
func (s *Sequencer) From(start *event.Event, includeStart, forward bool) (iter.Seq[*event.Event], error) {
	var i int
	switch {
	case start == nil && forward:
		i = 0
	case start == nil:
		i = len(s.events) - 1
	default:
		idx, err := s.index(start)
		if err != nil {
			return nil, err
		}
		i = idx
		if !includeStart {
			if forward {
				i++
			} else {
				i--
			}
		}
	}
	return func(yield func(*event.Event) bool) {
		if forward {
			for j := i; j < len(s.events); j++ {
				if !yield(s.events[j]) {
					return
				}
			}
			return
		}
		for j := i; j >= 0; j-- {
			if !yield(s.events[j]) {
				return
			}
		}
	}, nil
}

// MostRecentTaught walks backward from start (exclusive unless
// includeStart) and returns the first event teaching the topic, or nil if
// it was never taught before then.
func (s *Sequencer) MostRecentTaught(start *event.Event, t *topic.Topic, includeStart bool) (*event.Event, error) {
	seq, err := s.From(start, includeStart, false)
	if err != nil {
		return nil, err
	}
	for ev := range seq {
		if ev.Taught.Has(t) {
			return ev, nil
		}
	}
	return nil, nil
}
