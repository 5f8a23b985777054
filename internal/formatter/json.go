package formatter

import (
	"encoding/json"

	"rollup-graphx/internal/graph"
)

// ToJSON converts a unified graph to its indented JSON representation.
func ToJSON(g *graph.UnifiedGraph) (string, error) {
	jsonData, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

// FromJSON parses a unified graph previously emitted by ToJSON, so blast
// radius queries can run against a stored aggregation result.
func FromJSON(data []byte) (*graph.UnifiedGraph, error) {
	var g graph.UnifiedGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, err
	}
	return &g, nil
}
