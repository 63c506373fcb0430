// Package render turns chart declarations into Graphviz DOT files. It is a
// thin adapter over the emicklei/dot library and contains no chart logic.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emicklei/dot"

	"github.com/vk/courseflow/internal/chart"
)

// DOT renders a declaration graph as Graphviz DOT source.
func DOT(g *chart.Graph) string {
	root := dot.NewGraph(dot.Directed)
	nodes := make(map[string]dot.Node)
	fill(root, g, nodes)
	connect(root, g, nodes)
	return root.String()
}

// fill declares subgraphs and nodes, depth first, remembering every node so
// edges can cross cluster boundaries.
func fill(target *dot.Graph, g *chart.Graph, nodes map[string]dot.Node) {
	for k, v := range g.Attrs {
		target.Attr(k, v)
	}
	for _, n := range g.Nodes {
		node := target.Node(n.ID)
		node.Attr("label", n.Label)
		for k, v := range n.Attrs {
			node.Attr(k, v)
		}
		nodes[n.ID] = node
	}
	for _, sub := range g.Subs {
		var opts []dot.GraphOption
		if sub.Cluster {
			opts = append(opts, dot.ClusterOption{})
		}
		fill(target.Subgraph(sub.Name, opts...), sub, nodes)
	}
}

// connect declares edges after every node exists.
func connect(target *dot.Graph, g *chart.Graph, nodes map[string]dot.Node) {
	for _, e := range g.Edges {
		tail, ok := nodes[e.Tail]
		if !ok {
			tail = target.Node(e.Tail)
			nodes[e.Tail] = tail
		}
		head, ok := nodes[e.Head]
		if !ok {
			head = target.Node(e.Head)
			nodes[e.Head] = head
		}
		edge := target.Edge(tail, head)
		for k, v := range e.Attrs {
			edge.Attr(k, v)
		}
	}
	for _, sub := range g.Subs {
		connect(target, sub, nodes)
	}
}

// Save writes the rendered chart to <dir>/<prefix><name>.gv, creating the
// directory if needed, and returns the written path.
func Save(g *chart.Graph, dir, prefix string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, prefix+g.Name+".gv")
	if err := os.WriteFile(path, []byte(DOT(g)), 0o644); err != nil {
		return "", fmt.Errorf("writing chart: %w", err)
	}
	return path, nil
}
