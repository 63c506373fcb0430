package chart

import (
	"github.com/vk/courseflow/internal/config"
	"github.com/vk/courseflow/internal/event"
	"github.com/vk/courseflow/internal/report"
	"github.com/vk/courseflow/internal/resolver"
	"github.com/vk/courseflow/internal/topic"
)

// Context carries everything a builder needs to draw one chart.
type Context struct {
	// Resolver is the finalized curriculum.
	Resolver *resolver.Resolver
	// Style is the resolved rendering style for this chart variant.
	Style config.Style
	// Reporter receives data findings surfaced while drawing, such as a
	// topic required before it is ever taught.
	Reporter *report.Reporter
	// DebugRank draws the normally invisible rank skeleton in red.
	DebugRank bool
	// FocusEvent is the subject of the event chart.
	FocusEvent *event.Event
	// FocusTopic is the subject of the topic chart.
	FocusTopic *topic.Topic
}

// Qualify names a topic node under an event, so the same topic can appear
// once per event cluster.
func Qualify(t *topic.Topic, ev *event.Event) string {
	return ev.Name + "$" + t.Name
}

// builder is the shared drawing state: the graph under construction plus
// the visited node and edge sets that make declareNode and declareEdge
// idempotent.
type builder struct {
	ctx   Context
	graph *Graph
	nodes map[string]bool
	edges map[[2]string]bool
}

func newBuilder(ctx Context, name string) *builder {
	g := NewGraph(name)
	for k, v := range ctx.Style.GraphAttrs {
		g.SetAttr(k, v)
	}
	return &builder{
		ctx:   ctx,
		graph: g,
		nodes: make(map[string]bool),
		edges: make(map[[2]string]bool),
	}
}

// label sets the chart's title.
func (b *builder) label(label string) {
	b.graph.SetAttr("label", label)
}

// declareNode draws a node inside parent (the main graph when nil), unless
// a node with that id exists anywhere in the chart already.
func (b *builder) declareNode(parent *Graph, id, label string, attrs Attrs) string {
	if parent == nil {
		parent = b.graph
	}
	if b.nodes[id] {
		return id
	}
	b.nodes[id] = true
	if label == "" {
		label = id
	}
	parent.Nodes = append(parent.Nodes, &Node{ID: id, Label: label, Attrs: attrs})
	return id
}

// declareEdge draws a directed edge once; repeat declarations are dropped.
func (b *builder) declareEdge(tail, head string, attrs Attrs) {
	key := [2]string{tail, head}
	if b.edges[key] {
		return
	}
	b.edges[key] = true
	b.graph.Edges = append(b.graph.Edges, &Edge{Tail: tail, Head: head, Attrs: attrs})
}
