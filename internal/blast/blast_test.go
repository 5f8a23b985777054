package blast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup-graphx/internal/graph"
)

// diamond builds a shared-dependency scenario: A -> B -> C and D -> C.
func diamond() *graph.UnifiedGraph {
	nodes := make([]graph.MergedNode, 0, 4)
	for _, id := range []string{"A", "B", "C", "D"} {
		nodes = append(nodes, graph.MergedNode{
			ID:      id,
			Members: []graph.NodeRef{{RepositoryID: "repo-" + id, ScanID: "s", NodeID: id}},
		})
	}
	return &graph.UnifiedGraph{
		Nodes: nodes,
		Edges: []graph.Edge{
			{From: "A", To: "B", Relation: "DEPENDS_ON"},
			{From: "B", To: "C", Relation: "DEPENDS_ON"},
			{From: "D", To: "C", Relation: "DEPENDS_ON"},
		},
	}
}

func reachedIDs(impact Impact) []string {
	ids := make([]string, 0, len(impact.Reached))
	for _, r := range impact.Reached {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestAnalyzeForwardAndReverse(t *testing.T) {
	report, err := Analyze(diamond(), Query{Seeds: []string{"C", "A"}})
	require.NoError(t, err)
	require.Len(t, report.Forward, 2)
	require.Len(t, report.Reverse, 2)

	// Reverse from C: everything that can affect C.
	assert.Equal(t, "C", report.Reverse[0].Seed)
	assert.ElementsMatch(t, []string{"A", "B", "D"}, reachedIDs(report.Reverse[0]))

	// Forward from A: everything A affects.
	assert.Equal(t, "A", report.Forward[1].Seed)
	assert.ElementsMatch(t, []string{"B", "C"}, reachedIDs(report.Forward[1]))

	// Forward from C: nothing depends on C's downstream.
	assert.Empty(t, report.Forward[0].Reached)
}

func TestAnalyzePathsAndDistances(t *testing.T) {
	report, err := Analyze(diamond(), Query{Seeds: []string{"A"}})
	require.NoError(t, err)

	forward := report.Forward[0]
	require.Len(t, forward.Reached, 2)
	assert.Equal(t, ReachedNode{ID: "B", Distance: 1, Path: []string{"A", "B"}}, forward.Reached[0])
	assert.Equal(t, ReachedNode{ID: "C", Distance: 2, Path: []string{"A", "B", "C"}}, forward.Reached[1])

	// Reverse paths run from the affecting node to the seed.
	report, err = Analyze(diamond(), Query{Seeds: []string{"C"}})
	require.NoError(t, err)
	for _, r := range report.Reverse[0].Reached {
		assert.Equal(t, "C", r.Path[len(r.Path)-1])
		assert.Equal(t, r.ID, r.Path[0])
	}
}

func TestAnalyzeMaxDepth(t *testing.T) {
	report, err := Analyze(diamond(), Query{Seeds: []string{"A"}, MaxDepth: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, reachedIDs(report.Forward[0]))
}

func TestAnalyzeRelationFilter(t *testing.T) {
	g := diamond()
	g.Edges[2].Relation = "implicit" // D -> C

	report, err := Analyze(g, Query{Seeds: []string{"C"}, Relations: []string{"DEPENDS_ON"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, reachedIDs(report.Reverse[0]))
}

func TestAnalyzeErrors(t *testing.T) {
	_, err := Analyze(diamond(), Query{})
	assert.Error(t, err)

	_, err = Analyze(diamond(), Query{Seeds: []string{"missing"}})
	assert.Error(t, err)
}
