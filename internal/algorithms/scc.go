package algorithms

import "sort"

// CycleInfo describes one cycle in the graph: the nodes that form it and the
// edges between them that close it.
type CycleInfo struct {
	Nodes []string
	Edges []Edge
}

// StronglyConnectedComponents runs Tarjan's algorithm in a single pass over
// the snapshot. Each returned group is a set of mutually reachable node ids,
// sorted internally; groups are ordered by their smallest member. A group of
// size one with no self-loop is not a cycle.
func StronglyConnectedComponents(g *Graph) [][]string {
	index := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	var components [][]string
	next := 0

	// Iterative Tarjan: an explicit frame stack avoids blowing the goroutine
	// stack on deep dependency chains.
	type frame struct {
		node string
		succ int
	}

	var visit func(root string)
	visit = func(root string) {
		frames := []frame{{node: root}}
		index[root] = next
		lowlink[root] = next
		next++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			succs := g.adjacent[f.node]

			if f.succ < len(succs) {
				w := succs[f.succ]
				f.succ++
				if _, visited := index[w]; !visited {
					index[w] = next
					lowlink[w] = next
					next++
					stack = append(stack, w)
					onStack[w] = true
					frames = append(frames, frame{node: w})
				} else if onStack[w] {
					if index[w] < lowlink[f.node] {
						lowlink[f.node] = index[w]
					}
				}
				continue
			}

			// All successors explored: maybe pop a component, then propagate
			// the lowlink to the parent frame.
			if lowlink[f.node] == index[f.node] {
				var component []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					component = append(component, w)
					if w == f.node {
						break
					}
				}
				sort.Strings(component)
				components = append(components, component)
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := &frames[len(frames)-1]
				if lowlink[f.node] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[f.node]
				}
			}
		}
	}

	for _, id := range g.nodes {
		if _, visited := index[id]; !visited {
			visit(id)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

// FindCycles reports every cycle in the graph, derived from its strongly
// connected components: an SCC of size two or more, or of size one with a
// self-edge, is a cycle.
func FindCycles(g *Graph) []CycleInfo {
	var cycles []CycleInfo

	for _, component := range StronglyConnectedComponents(g) {
		if len(component) == 1 && !g.HasEdge(component[0], component[0]) {
			continue
		}

		members := make(map[string]bool, len(component))
		for _, id := range component {
			members[id] = true
		}

		var closing []Edge
		for _, id := range component {
			for _, succ := range g.adjacent[id] {
				if members[succ] {
					closing = append(closing, Edge{From: id, To: succ})
				}
			}
		}

		cycles = append(cycles, CycleInfo{Nodes: component, Edges: closing})
	}

	return cycles
}
