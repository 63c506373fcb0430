// Package resolver owns the full topic registry and the chronological event
// sequence, runs the finalize passes over them, and exposes the read-only
// query surface consumed by chart assembly.
package resolver

import (
	"fmt"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/report"
	"github.com/vk/courseflow/internal/sequence"
	"github.com/vk/courseflow/internal/topic"
)

// Resolver is the aggregate other components query. After Finalize it is
// immutable and every query is a pure read.
type Resolver struct {
	topics    *topic.Registry
	events    *sequence.Sequencer
	reporter  *report.Reporter
	finalized bool
}

// New creates an empty resolver reporting data findings to reporter.
func New(reporter *report.Reporter) *Resolver {
	return &Resolver{
		topics:   topic.NewRegistry(reporter),
		events:   sequence.New(),
		reporter: reporter,
	}
}

// Topics returns the topic registry.
func (r *Resolver) Topics() *topic.Registry {
	return r.topics
}

// Events returns the event sequencer.
func (r *Resolver) Events() *sequence.Sequencer {
	return r.events
}

// Finalize runs, in order: structural validation, cycle rejection, topic
// dependency-set simplification, event required-set simplification, and
// unused-topic detection. Ingestion must be complete before the call, and
// nothing may be mutated after it.
func (r *Resolver) Finalize() error {
	if r.finalized {
		return fmt.Errorf("resolver is already finalized")
	}
	if err := r.events.Finalize(); err != nil {
		return err
	}
	if err := r.topics.CheckCycles(); err != nil {
		return err
	}
	for _, t := range r.topics.Topics() {
		r.topics.Simplify(t.Dependencies(), t.Name)
	}
	for _, ev := range r.events.Events() {
		r.topics.Simplify(ev.Required, ev.Name)
	}
	r.reportUnusedTopics()
	r.finalized = true
	return nil
}

// reportUnusedTopics warns about topics never taught, never required, and
// never referenced as a dependency.
func (r *Resolver) reportUnusedTopics() {
	used := make(topic.Set)
	for _, ev := range r.events.Events() {
		for _, t := range ev.Taught.Sorted() {
			used.Add(t)
		}
		for _, t := range ev.Required.Sorted() {
			used.Add(t)
		}
	}
	for _, t := range r.topics.Topics() {
		for _, dep := range t.Dependencies().Sorted() {
			used.Add(dep)
		}
	}
	for _, t := range r.topics.Topics() {
		if !used.Has(t) {
			r.reporter.Warningf("topic '%s' is not used in any event", t.Name)
		}
	}
}

// MostRecentTaught returns the nearest event at or before start teaching
// the topic (exclusive of start unless includeStart), or nil.
func (r *Resolver) MostRecentTaught(start *event.Event, t *topic.Topic, includeStart bool) (*event.Event, error) {
	return r.events.MostRecentTaught(start, t, includeStart)
}

// DependencyDepth returns the shortest dependency chain length from t down
// to candidate; ok is false when the topics are unrelated.
func (r *Resolver) DependencyDepth(t, candidate *topic.Topic) (int, bool) {
	return r.topics.DependencyDepth(t, candidate)
}

// IsDependentOn reports whether candidate is a transitive dependency of t.
func (r *Resolver) IsDependentOn(t, candidate *topic.Topic) bool {
	return r.topics.IsDependentOn(t, candidate)
}

// TopicTaughtDepth returns the maximum dependency depth of a topic relative
// to the other topics taught by the same event, or 0 when no sibling is an
// ancestor. The topic must be taught by the event.
func (r *Resolver) TopicTaughtDepth(t *topic.Topic, ev *event.Event) (int, error) {
	if !ev.Taught.Has(t) {
		return 0, fmt.Errorf("topic '%s' is not taught in '%s'", t.Name, ev.Name)
	}
	maxDepth := 0
	for _, sibling := range ev.Taught.Sorted() {
		if sibling.Name == t.Name {
			continue
		}
		if depth, ok := r.topics.DependencyDepth(t, sibling); ok && depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth, nil
}

// TopicsTaughtDepth returns the number of dependency layers within the
// topics taught by an event: at least 1 whenever anything is taught.
func (r *Resolver) TopicsTaughtDepth(ev *event.Event) (int, error) {
	if ev.Taught.Len() == 0 {
		return 0, fmt.Errorf("event '%s' has no topics taught", ev.Name)
	}
	maxDepth := 0
	for _, t := range ev.Taught.Sorted() {
		depth, err := r.TopicTaughtDepth(t, ev)
		if err != nil {
			return 0, err
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth + 1, nil
}
