package chart

// Topics draws every topic and the edges from its dependencies: the raw
// prerequisite graph with no event structure.
type Topics struct {
	*builder
}

// NewTopics creates the all-topics chart builder.
func NewTopics(ctx Context) *Topics {
	b := newBuilder(ctx, "topics")
	b.label("Topic Dependencies")
	return &Topics{builder: b}
}

// Build produces the declaration graph.
func (t *Topics) Build() (*Graph, error) {
	for _, tp := range t.ctx.Resolver.Topics().Topics() {
		t.declareNode(nil, tp.Name, tp.Name, nil)
		for _, dep := range tp.Dependencies().Sorted() {
			t.declareEdge(dep.Name, tp.Name, nil)
		}
	}
	return t.graph, nil
}
