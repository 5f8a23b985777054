package formatter

import (
	"fmt"

	"github.com/awalterschulze/gographviz"

	"rollup-graphx/internal/graph"
)

// ToDOT renders a unified graph in Graphviz DOT format. Merged groups (more
// than one member) are drawn as boxes with the member count so they stand
// out from singleton nodes.
func ToDOT(g *graph.UnifiedGraph) (string, error) {
	dot := gographviz.NewGraph()
	if err := dot.SetName("rollup"); err != nil {
		return "", fmt.Errorf("failed to initialize dot graph: %w", err)
	}
	if err := dot.SetDir(true); err != nil {
		return "", fmt.Errorf("failed to mark dot graph directed: %w", err)
	}

	for _, node := range g.Nodes {
		label := node.Name
		if label == "" {
			label = node.ID
		}
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", fmt.Sprintf("%s\\n(%s)", label, node.Type)),
		}
		if len(node.Members) > 1 {
			attrs["shape"] = "box"
			attrs["label"] = fmt.Sprintf("%q", fmt.Sprintf("%s\\n(%s, %d members)", label, node.Type, len(node.Members)))
		}
		if err := dot.AddNode("rollup", fmt.Sprintf("%q", node.ID), attrs); err != nil {
			return "", fmt.Errorf("failed to add node %s: %w", node.ID, err)
		}
	}

	for _, edge := range g.Edges {
		attrs := map[string]string{"label": fmt.Sprintf("%q", edge.Relation)}
		if err := dot.AddEdge(fmt.Sprintf("%q", edge.From), fmt.Sprintf("%q", edge.To), true, attrs); err != nil {
			return "", fmt.Errorf("failed to add edge %s -> %s: %w", edge.From, edge.To, err)
		}
	}

	return dot.String(), nil
}
