package resolver

import (
	"strings"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// findMatch resolves a user query against names: an exact match wins, then
// a unique case-insensitive match, then a unique case-insensitive substring
// match. Anything else is ambiguous.
func findMatch(query string, names []string) (string, bool) {
	for _, name := range names {
		if name == query {
			return name, true
		}
	}
	lower := strings.ToLower(query)
	var found string
	count := 0
	for _, name := range names {
		if strings.ToLower(name) == lower {
			found = name
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	count = 0
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			found = name
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return "", false
}

// FindEvent resolves a query string to a single event, or reports that the
// query was ambiguous or unmatched.
func (r *Resolver) FindEvent(query string) (*event.Event, bool) {
	events := r.events.Events()
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Name
	}
	name, ok := findMatch(query, names)
	if !ok {
		return nil, false
	}
	for _, ev := range events {
		if ev.Name == name {
			return ev, true
		}
	}
	return nil, false
}

// FindTopic resolves a query string to a single topic, or reports that the
// query was ambiguous or unmatched.
func (r *Resolver) FindTopic(query string) (*topic.Topic, bool) {
	topics := r.topics.Topics()
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = t.Name
	}
	name, ok := findMatch(query, names)
	if !ok {
		return nil, false
	}
	t, ok := r.topics.Get(name)
	return t, ok
}
