package algorithms

import "sort"

// BFSShortestPath returns the unweighted shortest path from source to target
// as a full node sequence, including both endpoints. Ties are broken by
// traversal order, which is stable because adjacency lists are sorted. The
// second return value is false when target is unreachable.
func BFSShortestPath(g *Graph, source, target string) ([]string, bool) {
	if !g.HasNode(source) || !g.HasNode(target) {
		return nil, false
	}
	if source == target {
		return []string{source}, true
	}

	parent := map[string]string{source: ""}
	queue := []string{source}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, succ := range g.adjacent[id] {
			if _, visited := parent[succ]; visited {
				continue
			}
			parent[succ] = id
			if succ == target {
				var path []string
				for at := target; at != ""; at = parent[at] {
					path = append(path, at)
				}
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path, true
			}
			queue = append(queue, succ)
		}
	}

	return nil, false
}

// FindReachableNodes returns every node reachable from source by following
// edges forward, excluding source itself, in sorted order.
func FindReachableNodes(g *Graph, source string) []string {
	return traverse(g, source, g.adjacent)
}

// FindNodesThatReach returns every node from which target can be reached,
// excluding target itself, in sorted order. This is a traversal of the
// transposed graph.
func FindNodesThatReach(g *Graph, target string) []string {
	return traverse(g, target, g.reverse)
}

func traverse(g *Graph, start string, neighbors map[string][]string) []string {
	if !g.HasNode(start) {
		return nil
	}

	visited := map[string]bool{start: true}
	queue := []string{start}
	var reached []string

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, next := range neighbors[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			reached = append(reached, next)
			queue = append(queue, next)
		}
	}

	sort.Strings(reached)
	return reached
}
