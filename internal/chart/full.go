package chart

// Full draws the entire course: every event as a cluster, every taught and
// required topic, and every temporal and dependency relation between them.
type Full struct {
	*eventFrame
}

// NewFull creates the full-course chart builder.
func NewFull(ctx Context) *Full {
	f := newEventFrame(ctx, "full")
	f.label("Full Course Dependencies")
	return &Full{eventFrame: f}
}

// Build produces the declaration graph.
func (f *Full) Build() (*Graph, error) {
	if err := f.drawAll(f.drawEventFull); err != nil {
		return nil, err
	}
	return f.finish(), nil
}
