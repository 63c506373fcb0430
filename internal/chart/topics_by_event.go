package chart

import (
	"fmt"

	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/topic"
)

// TopicsByEvent draws one cluster per event holding the topics it teaches,
// with edges from each topic's previous taught occurrence and from the most
// recent taught time of each dependency.
type TopicsByEvent struct {
	*builder
	eventGraphs map[string]*Graph
	eventOrder  []*event.Event
}

// NewTopicsByEvent creates the topics-by-event chart builder.
func NewTopicsByEvent(ctx Context) *TopicsByEvent {
	b := newBuilder(ctx, "topics_by_event")
	b.label("Topic Dependencies By Event")
	return &TopicsByEvent{
		builder:     b,
		eventGraphs: make(map[string]*Graph),
	}
}

// Build produces the declaration graph.
func (tb *TopicsByEvent) Build() (*Graph, error) {
	for _, ev := range tb.ctx.Resolver.Events().Events() {
		if err := tb.drawEvent(ev); err != nil {
			return nil, err
		}
	}
	for _, ev := range tb.eventOrder {
		tb.graph.AddSub(tb.eventGraphs[ev.Name])
	}
	return tb.graph, nil
}

func (tb *TopicsByEvent) drawEvent(ev *event.Event) error {
	res := tb.ctx.Resolver
	for _, t := range ev.Taught.Sorted() {
		qualified := tb.drawTopic(t, ev)
		lastTaught, err := res.MostRecentTaught(ev, t, false)
		if err != nil {
			return err
		}
		if lastTaught != nil {
			tb.declareEdge(Qualify(t, lastTaught), qualified, nil)
		}
		for _, dep := range t.Dependencies().Sorted() {
			depTaught, err := res.MostRecentTaught(ev, dep, true)
			if err != nil {
				return err
			}
			if depTaught == nil {
				tb.ctx.Reporter.Warningf("topic '%s' is not taught before it is required in '%s'", dep.Name, ev.Name)
				continue
			}
			tb.declareEdge(Qualify(dep, depTaught), qualified, nil)
		}
	}
	return nil
}

func (tb *TopicsByEvent) drawTopic(t *topic.Topic, ev *event.Event) string {
	g, ok := tb.eventGraphs[ev.Name]
	if !ok {
		g = NewGraph(fmt.Sprintf("Unit %d$%s", ev.Unit, ev.Name))
		g.Cluster = true
		g.SetAttr("label", ev.Name)
		tb.eventGraphs[ev.Name] = g
		tb.eventOrder = append(tb.eventOrder, ev)
	}
	return tb.declareNode(g, Qualify(t, ev), t.Name, nil)
}
