package algorithms

import "sort"

// FindArticulationPoints identifies cut vertices using the classic DFS
// low-link algorithm. The graph is treated as undirected for this purpose:
// an articulation point is a node whose removal disconnects the underlying
// undirected graph. Results are sorted.
func FindArticulationPoints(g *Graph) []string {
	// Undirected neighbor view: successors plus predecessors, deduplicated.
	neighbors := make(map[string][]string, len(g.nodes))
	for _, id := range g.nodes {
		seen := make(map[string]bool)
		for _, n := range g.adjacent[id] {
			if n != id && !seen[n] {
				seen[n] = true
				neighbors[id] = append(neighbors[id], n)
			}
		}
		for _, n := range g.reverse[id] {
			if n != id && !seen[n] {
				seen[n] = true
				neighbors[id] = append(neighbors[id], n)
			}
		}
		sort.Strings(neighbors[id])
	}

	disc := make(map[string]int, len(g.nodes))
	low := make(map[string]int, len(g.nodes))
	cut := make(map[string]bool)
	timer := 0

	type frame struct {
		node     string
		parent   string
		next     int
		children int
	}

	for _, root := range g.nodes {
		if _, visited := disc[root]; visited {
			continue
		}

		frames := []frame{{node: root, parent: ""}}
		disc[root] = timer
		low[root] = timer
		timer++

		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			ns := neighbors[f.node]

			if f.next < len(ns) {
				w := ns[f.next]
				f.next++
				if w == f.parent {
					continue
				}
				if d, visited := disc[w]; visited {
					if d < low[f.node] {
						low[f.node] = d
					}
					continue
				}
				disc[w] = timer
				low[w] = timer
				timer++
				f.children++
				frames = append(frames, frame{node: w, parent: f.node})
				continue
			}

			done := *f
			frames = frames[:len(frames)-1]
			if len(frames) == 0 {
				// Root of the DFS tree: articulation point iff it has more
				// than one DFS child.
				if done.children > 1 {
					cut[done.node] = true
				}
				continue
			}

			parent := &frames[len(frames)-1]
			if low[done.node] < low[parent.node] {
				low[parent.node] = low[done.node]
			}
			// The root is handled by the child count above; the low-link
			// condition only applies to non-root nodes.
			if parent.parent != "" && low[done.node] >= disc[parent.node] {
				cut[parent.node] = true
			}
		}
	}

	points := make([]string, 0, len(cut))
	for id := range cut {
		points = append(points, id)
	}
	sort.Strings(points)
	return points
}
