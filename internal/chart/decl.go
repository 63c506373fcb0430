// Package chart assembles dependency charts as abstract node, edge, and
// subgraph declarations. Builders consume the resolver's query surface;
// turning declarations into a viewable file is the renderer's job.
package chart

// Attrs is a set of presentation attributes handed through to the renderer
// untouched.
type Attrs map[string]string

// Node is a single drawn node.
type Node struct {
	// ID is the qualified, chart-wide unique name.
	ID string
	// Label is the display text; defaults to ID when empty.
	Label string
	Attrs Attrs
}

// Edge is a directed edge between two node IDs.
type Edge struct {
	Tail  string
	Head  string
	Attrs Attrs
}

// Graph is a graph or nested subgraph declaration.
type Graph struct {
	// Name identifies the graph; cluster subgraph names must be unique.
	Name string
	// Cluster marks the subgraph as a drawn cluster.
	Cluster bool
	Attrs   Attrs
	Nodes   []*Node
	Edges   []*Edge
	Subs    []*Graph
}

// NewGraph creates an empty graph declaration.
func NewGraph(name string) *Graph {
	return &Graph{Name: name, Attrs: make(Attrs)}
}

// SetAttr sets a graph-level attribute.
func (g *Graph) SetAttr(key, value string) {
	g.Attrs[key] = value
}

// AddSub nests a subgraph.
func (g *Graph) AddSub(sub *Graph) {
	g.Subs = append(g.Subs, sub)
}

// Builder is a chart variant that can produce its declaration graph.
type Builder interface {
	Build() (*Graph, error)
}
