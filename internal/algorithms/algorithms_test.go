package algorithms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph(nodes []string, pairs [][2]string) *Graph {
	edges := make([]Edge, 0, len(pairs))
	for _, p := range pairs {
		edges = append(edges, Edge{From: p[0], To: p[1]})
	}
	return New(nodes, edges)
}

func TestNewDropsDanglingEdges(t *testing.T) {
	g := newTestGraph([]string{"a", "b"}, [][2]string{{"a", "b"}, {"a", "ghost"}})

	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	assert.Len(t, g.Edges(), 1)
	assert.True(t, g.HasEdge("a", "b"))
	assert.False(t, g.HasEdge("a", "ghost"))
}

func TestStronglyConnectedComponents(t *testing.T) {
	// a -> b -> c -> a forms one SCC; d hangs off it.
	g := newTestGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}},
	)

	components := StronglyConnectedComponents(g)
	require.Len(t, components, 2)
	assert.Equal(t, []string{"a", "b", "c"}, components[0])
	assert.Equal(t, []string{"d"}, components[1])
}

func TestFindCyclesIgnoresTrivialComponents(t *testing.T) {
	g := newTestGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "a"}, {"b", "c"}},
	)

	cycles := FindCycles(g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a", "b"}, cycles[0].Nodes)
	assert.Contains(t, cycles[0].Edges, Edge{From: "a", To: "b"})
	assert.Contains(t, cycles[0].Edges, Edge{From: "b", To: "a"})
}

func TestFindCyclesSelfLoop(t *testing.T) {
	g := newTestGraph([]string{"a", "b"}, [][2]string{{"a", "a"}, {"a", "b"}})

	cycles := FindCycles(g)
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a"}, cycles[0].Nodes)
	assert.Equal(t, []Edge{{From: "a", To: "a"}}, cycles[0].Edges)
}

func TestTopologicalSortOrdersEveryEdge(t *testing.T) {
	g := newTestGraph(
		[]string{"build", "test", "lint", "release", "tag"},
		[][2]string{
			{"build", "test"}, {"build", "lint"},
			{"test", "release"}, {"lint", "release"}, {"release", "tag"},
		},
	)

	order, err := TopologicalSort(g)
	require.NoError(t, err)
	require.Len(t, order, 5)

	position := make(map[string]int, len(order))
	for i, id := range order {
		position[id] = i
	}
	for _, e := range g.Edges() {
		assert.Less(t, position[e.From], position[e.To], "edge %s -> %s out of order", e.From, e.To)
	}
}

func TestTopologicalSortReportsCycleResidue(t *testing.T) {
	g := newTestGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)

	_, err := TopologicalSort(g)
	require.Error(t, err)

	var cycleErr *CycleError
	require.True(t, errors.As(err, &cycleErr))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Remaining)

	// The same graph is valid input for the SCC consumer.
	components := StronglyConnectedComponents(g)
	require.Len(t, components, 1)
	assert.Len(t, components[0], 3)
}

func TestBFSShortestPath(t *testing.T) {
	// Two routes from a to d; the shorter one must win.
	g := newTestGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}},
	)

	path, ok := BFSShortestPath(g, "a", "d")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "d"}, path)

	path, ok = BFSShortestPath(g, "a", "c")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "c"}, path)

	_, ok = BFSShortestPath(g, "d", "a")
	assert.False(t, ok)

	path, ok = BFSShortestPath(g, "b", "b")
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, path)
}

func TestReachability(t *testing.T) {
	// a -> b -> c and d -> c, per the blast-radius scenario.
	g := newTestGraph(
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"d", "c"}},
	)

	assert.Equal(t, []string{"b", "c"}, FindReachableNodes(g, "a"))
	assert.Equal(t, []string{"a", "b", "d"}, FindNodesThatReach(g, "c"))
	assert.Empty(t, FindReachableNodes(g, "c"))
	assert.Nil(t, FindReachableNodes(g, "missing"))
}

func TestFindArticulationPoints(t *testing.T) {
	// a - b - c in a line: b is the cut vertex.
	g := newTestGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}},
	)
	assert.Equal(t, []string{"b"}, FindArticulationPoints(g))

	// A triangle has no articulation points.
	g = newTestGraph(
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}},
	)
	assert.Empty(t, FindArticulationPoints(g))

	// Two triangles joined at x.
	g = newTestGraph(
		[]string{"a", "b", "x", "c", "d"},
		[][2]string{
			{"a", "b"}, {"b", "x"}, {"x", "a"},
			{"x", "c"}, {"c", "d"}, {"d", "x"},
		},
	)
	assert.Equal(t, []string{"x"}, FindArticulationPoints(g))
}

func TestDeterministicAcrossRuns(t *testing.T) {
	nodes := []string{"n3", "n1", "n4", "n2", "n5"}
	pairs := [][2]string{{"n1", "n2"}, {"n2", "n3"}, {"n3", "n1"}, {"n4", "n5"}, {"n2", "n4"}}

	first := newTestGraph(nodes, pairs)
	second := newTestGraph([]string{"n5", "n4", "n3", "n2", "n1"}, pairs)

	assert.Equal(t, StronglyConnectedComponents(first), StronglyConnectedComponents(second))
	assert.Equal(t, FindReachableNodes(first, "n1"), FindReachableNodes(second, "n1"))
}
