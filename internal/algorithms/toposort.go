package algorithms

import (
	"fmt"
	"sort"
)

// CycleError is returned by TopologicalSort when the graph cannot be fully
// ordered. Remaining holds the node ids that participate in (or depend on)
// a cycle. Cyclic graphs are valid input for the SCC and cycle-reporting
// functions, so this is a structured failure, not a panic.
type CycleError struct {
	Remaining []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph has a cycle: %d nodes cannot be ordered", len(e.Remaining))
}

// TopologicalSort orders the graph with Kahn's algorithm so that every edge's
// source appears before its target. Among nodes whose in-degree reaches zero
// at the same time, the lexicographically smallest id is emitted first, which
// keeps the ordering deterministic. Returns a *CycleError when not all nodes
// can be ordered.
func TopologicalSort(g *Graph) ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		inDegree[id] = len(g.reverse[id])
	}

	var ready []string
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for _, succ := range g.adjacent[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				unlocked = append(unlocked, succ)
			}
		}
		if len(unlocked) > 0 {
			ready = append(ready, unlocked...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.nodes) {
		ordered := make(map[string]bool, len(order))
		for _, id := range order {
			ordered[id] = true
		}
		var remaining []string
		for _, id := range g.nodes {
			if !ordered[id] {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleError{Remaining: remaining}
	}

	return order, nil
}
