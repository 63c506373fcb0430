// Package event models scheduled teaching events: lectures, labs, homework,
// and projects, each teaching and/or requiring topics, arranged in a strict
// chronological total order.
package event

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/vk/courseflow/internal/topic"
)

// Type is the kind of a teaching event. The numeric value is the
// chronological rank within a unit/group slot.
type Type int

const (
	Lecture Type = iota + 1
	Lab
	Homework
	Project
)

func (t Type) String() string {
	switch t {
	case Lecture:
		return "lecture"
	case Lab:
		return "lab"
	case Homework:
		return "homework"
	case Project:
		return "project"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Side distinguishes the two relations a topic can have to an event.
type Side int

const (
	Taught Side = iota
	Required
)

func (s Side) String() string {
	if s == Taught {
		return "taught"
	}
	return "required"
}

// Event is a scheduled teaching activity. Its identity is the composite
// (unit, group id, type), all derived from the display name at creation.
type Event struct {
	// Name is the display name from the events table.
	Name string
	// Type is parsed from the name.
	Type Type
	// Unit is the chronological unit number parsed from the name.
	Unit int
	// GroupID is the optional sub-slot letter; empty means ungrouped.
	GroupID string
	// Taught holds the topics taught by this event.
	Taught topic.Set
	// Required holds the topics required by this event, simplified once
	// during finalize.
	Required topic.Set

	next *Event
}

// New parses the display name and builds an event over the given topic sets.
func New(name string, taught, required topic.Set) (*Event, error) {
	typ, unit, group, err := parseName(name)
	if err != nil {
		return nil, err
	}
	if taught == nil {
		taught = make(topic.Set)
	}
	if required == nil {
		required = make(topic.Set)
	}
	return &Event{
		Name:     name,
		Type:     typ,
		Unit:     unit,
		GroupID:  group,
		Taught:   taught,
		Required: required,
	}, nil
}

func (e *Event) String() string {
	return e.Name
}

// Next returns the chronologically following event, once the sequence has
// been finalized, or nil at the end of the course.
func (e *Event) Next() *Event {
	return e.next
}

// SetNext links the chronological chain. Owned by the sequencer.
func (e *Event) SetNext(next *Event) {
	e.next = next
}

// SideOf reports the relation of a topic to this event. Taught wins when a
// topic appears on both sides.
func (e *Event) SideOf(t *topic.Topic) Side {
	if e.Taught.Has(t) {
		return Taught
	}
	return Required
}

// AllTopics returns the event's topics with taught topics first, then
// required topics, without duplicates, each side in name order.
func (e *Event) AllTopics() []*topic.Topic {
	out := make([]*topic.Topic, 0, e.Taught.Len()+e.Required.Len())
	out = append(out, e.Taught.Sorted()...)
	for _, t := range e.Required.Sorted() {
		if !e.Taught.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Compare orders events chronologically: by unit, then by group id with an
// absent group sorting after any present one within the unit, then by type
// rank. It returns a negative number, zero, or a positive number as e sorts
// before, equal to, or after other.
func (e *Event) Compare(other *Event) int {
	if e.Unit != other.Unit {
		return cmp.Compare(e.Unit, other.Unit)
	}
	if e.GroupID != other.GroupID {
		if e.GroupID == "" {
			return 1
		}
		if other.GroupID == "" {
			return -1
		}
		return strings.Compare(e.GroupID, other.GroupID)
	}
	return cmp.Compare(int(e.Type), int(other.Type))
}

// Less reports whether e is chronologically before other.
func (e *Event) Less(other *Event) bool {
	return e.Compare(other) < 0
}
