package chart

import (
	"fmt"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// FocusEvent draws one event in full, the taught ancestors leading up to
// it, and everything after it that builds on what it teaches.
type FocusEvent struct {
	*eventFrame
	focus *event.Event
}

// NewFocusEvent creates the single-event chart builder.
func NewFocusEvent(ctx Context) *FocusEvent {
	f := newEventFrame(ctx, ctx.FocusEvent.Name)
	f.label(fmt.Sprintf("%s Relations", ctx.FocusEvent.Name))
	return &FocusEvent{eventFrame: f, focus: ctx.FocusEvent}
}

// Build produces the declaration graph.
func (fe *FocusEvent) Build() (*Graph, error) {
	if err := fe.drawAll(fe.drawEvent); err != nil {
		return nil, err
	}
	return fe.finish(), nil
}

func (fe *FocusEvent) drawEvent(ev *event.Event, startRank int) (int, bool, error) {
	switch {
	case ev == fe.focus:
		return fe.drawEventFull(ev, startRank)
	case ev.Less(fe.focus):
		return fe.drawPreFocus(ev, startRank)
	case fe.focus.Taught.Len() == 0:
		// Nothing taught means nothing downstream can build on the focus.
		return 0, false, nil
	default:
		return fe.drawPostFocus(ev, startRank)
	}
}

// feedsFocus reports whether t is a dependency of anything the focus event
// touches.
func (fe *FocusEvent) feedsFocus(t *topic.Topic) bool {
	for _, f := range fe.focus.AllTopics() {
		if fe.ctx.Resolver.IsDependentOn(f, t) {
			return true
		}
	}
	return false
}

// buildsOnFocus reports whether t is, or depends on, a topic the focus
// event teaches.
func (fe *FocusEvent) buildsOnFocus(t *topic.Topic) bool {
	if fe.focus.Taught.Has(t) {
		return true
	}
	for _, f := range fe.focus.Taught.Sorted() {
		if fe.ctx.Resolver.IsDependentOn(t, f) {
			return true
		}
	}
	return false
}

// drawPreFocus draws only the taught topics the focus event ultimately
// depends on.
func (fe *FocusEvent) drawPreFocus(ev *event.Event, startRank int) (int, bool, error) {
	maxRank := 0
	drew := false
	for _, t := range ev.Taught.Sorted() {
		if !fe.feedsFocus(t) {
			continue
		}
		rank, err := fe.drawTopicAndDependencies(t, ev, startRank, nil)
		if err != nil {
			return 0, false, err
		}
		if !drew || rank > maxRank {
			maxRank = rank
			drew = true
		}
	}
	return maxRank, drew, nil
}

// drawPostFocus draws an event the way drawEventFull does, restricted to
// topics that build on what the focus event teaches.
func (fe *FocusEvent) drawPostFocus(ev *event.Event, startRank int) (int, bool, error) {
	maxRank := 0
	drew := false
	for _, t := range ev.AllTopics() {
		if !fe.buildsOnFocus(t) {
			continue
		}
		var rank int
		var err error
		if ev.Taught.Has(t) {
			rank, err = fe.drawTopicAndDependencies(t, ev, startRank, fe.buildsOnFocus)
		} else {
			rank, err = fe.drawRequiredTopic(t, ev, startRank)
		}
		if err != nil {
			return 0, false, err
		}
		if !drew || rank > maxRank {
			maxRank = rank
			drew = true
		}
	}
	return maxRank, drew, nil
}
