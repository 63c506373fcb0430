package chart

import (
	"fmt"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// FocusTopic draws every place one topic is taught or required, chaining
// the taught occurrences chronologically and hanging each requirement off
// the topic's most recent appearance.
type FocusTopic struct {
	*eventFrame
	focus *topic.Topic
}

// NewFocusTopic creates the single-topic chart builder.
func NewFocusTopic(ctx Context) *FocusTopic {
	f := newEventFrame(ctx, ctx.FocusTopic.Name)
	f.label(fmt.Sprintf("%s Relations", ctx.FocusTopic.Name))
	return &FocusTopic{eventFrame: f, focus: ctx.FocusTopic}
}

// Build produces the declaration graph.
func (ft *FocusTopic) Build() (*Graph, error) {
	if err := ft.drawAll(ft.drawEvent); err != nil {
		return nil, err
	}
	return ft.finish(), nil
}

func (ft *FocusTopic) drawEvent(ev *event.Event, startRank int) (int, bool, error) {
	maxRank := 0
	drew := false
	if ev.Taught.Has(ft.focus) {
		head := ft.drawTopic(ft.focus, ev)
		rank, err := ft.drawRankEdge(head, startRank, false, nil, nil)
		if err != nil {
			return 0, false, err
		}
		previous, err := ft.ctx.Resolver.MostRecentTaught(ev, ft.focus, false)
		if err != nil {
			return 0, false, err
		}
		if previous != nil {
			ft.declareEdge(Qualify(ft.focus, previous), head, Attrs{"constraint": "false"})
		}
		maxRank = rank
		drew = true
	}
	if ev.Required.Has(ft.focus) && !ev.Taught.Has(ft.focus) {
		rank, err := ft.drawRequiredTopic(ft.focus, ev, startRank)
		if err != nil {
			return 0, false, err
		}
		if !drew || rank > maxRank {
			maxRank = rank
		}
		drew = true
	}
	return maxRank, drew, nil
}
