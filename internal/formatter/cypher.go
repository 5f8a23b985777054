package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"rollup-graphx/internal/graph"
)

// ToCypher converts a unified graph to a series of idempotent Cypher MERGE
// statements, suitable for piping into cypher-shell.
func ToCypher(g *graph.UnifiedGraph) (string, error) {
	var sb strings.Builder

	for _, node := range g.Nodes {
		// MERGE keeps re-runs idempotent: existing merged nodes are matched
		// on 'id', new ones created.
		sb.WriteString(fmt.Sprintf("MERGE (n:MergedResource {id: '%s'})\n", node.ID))
		sb.WriteString(fmt.Sprintf("SET n.type = '%s', n.name = '%s', n.members = %d;\n",
			node.Type, node.Name, len(node.Members)))
	}

	sb.WriteString("\n")

	for _, edge := range g.Edges {
		cypher := fmt.Sprintf(
			"MATCH (from:MergedResource {id: '%s'}), (to:MergedResource {id: '%s'})\nMERGE (from)-[:%s]->(to);\n",
			edge.From,
			edge.To,
			relationLabel(edge.Relation),
		)
		sb.WriteString(cypher)
	}

	return sb.String(), nil
}

// ToCypherTransaction converts a unified graph into a single parameterized
// transaction. This is the form the Neo4j driver executes: parameters
// prevent Cypher injection, enable query-plan caching, and handle special
// characters in ids and names.
func ToCypherTransaction(g *graph.UnifiedGraph) (string, map[string]interface{}) {
	var query bytes.Buffer
	params := make(map[string]interface{})

	nodesData := make([]map[string]interface{}, len(g.Nodes))
	for i, node := range g.Nodes {
		members := make([]string, len(node.Members))
		repositories := make([]string, 0, len(node.Members))
		seenRepos := make(map[string]bool)
		for j, m := range node.Members {
			members[j] = m.Key()
			if !seenRepos[m.RepositoryID] {
				seenRepos[m.RepositoryID] = true
				repositories = append(repositories, m.RepositoryID)
			}
		}

		strategies := make([]string, 0, len(node.Provenance))
		seenStrategies := make(map[string]bool)
		for _, p := range node.Provenance {
			if !seenStrategies[p.Strategy] {
				seenStrategies[p.Strategy] = true
				strategies = append(strategies, p.Strategy)
			}
		}

		nodesData[i] = map[string]interface{}{
			"id":           node.ID,
			"type":         string(node.Type),
			"name":         node.Name,
			"members":      members,
			"repositories": repositories,
			"strategies":   strategies,
		}
	}
	params["nodes"] = nodesData

	query.WriteString("UNWIND $nodes AS node_data\n")
	query.WriteString("MERGE (n:MergedResource {id: node_data.id})\n")
	query.WriteString("SET n.type = node_data.type, n.name = node_data.name, " +
		"n.members = node_data.members, n.repositories = node_data.repositories, " +
		"n.strategies = node_data.strategies\n")

	if len(g.Edges) > 0 {
		edgesData := make([]map[string]string, len(g.Edges))
		for i, edge := range g.Edges {
			edgesData[i] = map[string]string{
				"from": edge.From,
				"to":   edge.To,
			}
		}
		params["edges"] = edgesData

		query.WriteString("WITH *\n")
		query.WriteString("UNWIND $edges AS edge_data\n")
		query.WriteString("MATCH (from:MergedResource {id: edge_data.from})\n")
		query.WriteString("MATCH (to:MergedResource {id: edge_data.to})\n")
		query.WriteString("MERGE (from)-[:DEPENDS_ON]->(to)\n")
	}

	return query.String(), params
}

// relationLabel sanitizes an edge relation into a Cypher relationship type.
func relationLabel(relation string) string {
	if relation == "" {
		return "DEPENDS_ON"
	}
	var sb strings.Builder
	for _, r := range strings.ToUpper(relation) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
