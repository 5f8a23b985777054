// Package algorithms implements generic directed-graph primitives over an
// abstract node-id/edge-list representation. It knows nothing about matching
// or IaC semantics; callers build a snapshot and query it.
package algorithms

import "sort"

// Edge is a directed edge between two node identifiers.
type Edge struct {
	From string
	To   string
}

// Graph is an immutable snapshot of a directed graph. All query functions in
// this package are pure: they never mutate the snapshot and are deterministic
// because node ids and adjacency lists are kept sorted.
type Graph struct {
	nodes    []string
	adjacent map[string][]string
	reverse  map[string][]string
	edges    []Edge
}

// New builds a snapshot from a node-id list and an edge list. Edges whose
// endpoints are not in the node list are dropped. The input slices are copied.
func New(nodeIDs []string, edges []Edge) *Graph {
	g := &Graph{
		adjacent: make(map[string][]string, len(nodeIDs)),
		reverse:  make(map[string][]string, len(nodeIDs)),
	}

	seen := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		g.nodes = append(g.nodes, id)
		g.adjacent[id] = nil
		g.reverse[id] = nil
	}
	sort.Strings(g.nodes)

	for _, e := range edges {
		if !seen[e.From] || !seen[e.To] {
			continue
		}
		g.adjacent[e.From] = append(g.adjacent[e.From], e.To)
		g.reverse[e.To] = append(g.reverse[e.To], e.From)
		g.edges = append(g.edges, e)
	}

	for id := range g.adjacent {
		sort.Strings(g.adjacent[id])
	}
	for id := range g.reverse {
		sort.Strings(g.reverse[id])
	}
	sort.Slice(g.edges, func(i, j int) bool {
		if g.edges[i].From != g.edges[j].From {
			return g.edges[i].From < g.edges[j].From
		}
		return g.edges[i].To < g.edges[j].To
	})

	return g
}

// Nodes returns the node ids in sorted order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edge list in sorted order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Successors returns the direct successors of a node in sorted order.
func (g *Graph) Successors(id string) []string {
	return g.adjacent[id]
}

// Predecessors returns the direct predecessors of a node in sorted order.
func (g *Graph) Predecessors(id string) []string {
	return g.reverse[id]
}

// HasNode reports whether the node id exists in the snapshot.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.adjacent[id]
	return ok
}

// HasEdge reports whether a directed edge exists between two nodes.
func (g *Graph) HasEdge(from, to string) bool {
	for _, succ := range g.adjacent[from] {
		if succ == to {
			return true
		}
	}
	return false
}
