// Package blast answers change-impact queries over a unified graph: what is
// affected if these nodes change (forward impact), and what could affect
// them (reverse impact).
package blast

import (
	"fmt"
	"sort"

	"rollup-graphx/internal/algorithms"
	"rollup-graphx/internal/graph"
)

// Query describes one blast-radius request.
type Query struct {
	// Seeds are merged-node ids to analyze.
	Seeds []string

	// MaxDepth bounds the impact radius in hops; zero means unbounded.
	MaxDepth int

	// Relations restricts traversal to edges with these relation labels;
	// empty means all edges.
	Relations []string
}

// ReachedNode is one node inside the blast radius, with the shortest path
// that connects it to the seed for traceability.
type ReachedNode struct {
	ID       string   `json:"id"`
	Distance int      `json:"distance"`
	Path     []string `json:"path"`
}

// Impact is the blast radius of a single seed in one direction.
type Impact struct {
	Seed    string        `json:"seed"`
	Reached []ReachedNode `json:"reached"`
}

// Report holds both directions for every seed. Forward lists everything
// affected if the seed changes; Reverse lists everything that could affect
// the seed.
type Report struct {
	Forward []Impact `json:"forward"`
	Reverse []Impact `json:"reverse"`
}

// Analyze runs a blast-radius query against a unified graph.
func Analyze(unified *graph.UnifiedGraph, q Query) (*Report, error) {
	if len(q.Seeds) == 0 {
		return nil, fmt.Errorf("blast radius query needs at least one seed node")
	}

	g := snapshot(unified, q.Relations)
	for _, seed := range q.Seeds {
		if !g.HasNode(seed) {
			return nil, fmt.Errorf("seed node %q is not in the unified graph", seed)
		}
	}

	report := &Report{}
	for _, seed := range q.Seeds {
		report.Forward = append(report.Forward, impact(g, seed, q.MaxDepth, false))
		report.Reverse = append(report.Reverse, impact(g, seed, q.MaxDepth, true))
	}
	return report, nil
}

// snapshot builds the algorithm-layer graph from the unified graph,
// optionally keeping only edges with the requested relation labels.
func snapshot(unified *graph.UnifiedGraph, relations []string) *algorithms.Graph {
	wanted := make(map[string]bool, len(relations))
	for _, r := range relations {
		wanted[r] = true
	}

	ids := make([]string, 0, len(unified.Nodes))
	for _, n := range unified.Nodes {
		ids = append(ids, n.ID)
	}

	var edges []algorithms.Edge
	for _, e := range unified.Edges {
		if len(wanted) > 0 && !wanted[e.Relation] {
			continue
		}
		edges = append(edges, algorithms.Edge{From: e.From, To: e.To})
	}

	return algorithms.New(ids, edges)
}

// impact computes one direction of a seed's blast radius. The reverse
// direction walks the transposed graph; paths are still reported seed-first.
func impact(g *algorithms.Graph, seed string, maxDepth int, reverse bool) Impact {
	var ids []string
	if reverse {
		ids = algorithms.FindNodesThatReach(g, seed)
	} else {
		ids = algorithms.FindReachableNodes(g, seed)
	}

	result := Impact{Seed: seed}
	for _, id := range ids {
		var path []string
		var ok bool
		if reverse {
			path, ok = algorithms.BFSShortestPath(g, id, seed)
		} else {
			path, ok = algorithms.BFSShortestPath(g, seed, id)
		}
		if !ok {
			continue
		}
		distance := len(path) - 1
		if maxDepth > 0 && distance > maxDepth {
			continue
		}
		result.Reached = append(result.Reached, ReachedNode{
			ID:       id,
			Distance: distance,
			Path:     path,
		})
	}

	sort.Slice(result.Reached, func(i, j int) bool {
		if result.Reached[i].Distance != result.Reached[j].Distance {
			return result.Reached[i].Distance < result.Reached[j].Distance
		}
		return result.Reached[i].ID < result.Reached[j].ID
	})
	return result
}
