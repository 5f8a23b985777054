package graph

// NodeType identifies the kind of infrastructure object a node represents.
// Values mirror the scanners that produce them.
type NodeType string

const (
	NodeTypeTerraformResource NodeType = "terraform_resource"
	NodeTypeTerraformModule   NodeType = "terraform_module"
	NodeTypeKubernetesObject  NodeType = "k8s_resource"
	NodeTypeHelmRelease       NodeType = "helm_release"
	NodeTypeArgoApplication   NodeType = "argocd_application"
)

// Node is a single resource discovered by one repository scan. Nodes are
// produced by the external parsing layer and are read-only to this engine.
type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Name       string         `json:"name"`
	SourceFile string         `json:"source_file,omitempty"`
	SourceLine int            `json:"source_line,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Edge represents a dependency between two nodes of the same scan.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// RepositoryScan is the node/edge collection produced by scanning one
// repository. Node IDs are unique within a scan, not across scans.
type RepositoryScan struct {
	RepositoryID string `json:"repository_id"`
	ScanID       string `json:"scan_id"`
	Nodes        []Node `json:"nodes"`
	Edges        []Edge `json:"edges"`
}

// NodeRef points at an original node inside a specific repository scan.
type NodeRef struct {
	RepositoryID string `json:"repository_id"`
	ScanID       string `json:"scan_id"`
	NodeID       string `json:"node_id"`
}

// Key returns the globally unique identity of the referenced node.
func (r NodeRef) Key() string {
	return r.RepositoryID + "/" + r.NodeID
}

// MergeSource records which match produced (part of) a merged node.
type MergeSource struct {
	Strategy    string  `json:"strategy"`
	Confidence  int     `json:"confidence"`
	Attribute   string  `json:"attribute,omitempty"`
	SourceNode  NodeRef `json:"source_node"`
	TargetNode  NodeRef `json:"target_node"`
	SourceValue string  `json:"source_value,omitempty"`
	TargetValue string  `json:"target_value,omitempty"`
}

// MergedNode is one identity in the unified graph. It subsumes one or more
// original nodes; unmatched nodes become single-member merged nodes.
type MergedNode struct {
	ID         string        `json:"id"`
	Type       NodeType      `json:"type"`
	Name       string        `json:"name"`
	Members    []NodeRef     `json:"members"`
	Provenance []MergeSource `json:"provenance,omitempty"`
}

// Stats summarizes a unified graph for execution reports.
type Stats struct {
	TotalNodes         int            `json:"total_nodes"`
	TotalEdges         int            `json:"total_edges"`
	MergedGroups       int            `json:"merged_groups"`
	NodesByRepository  map[string]int `json:"nodes_by_repository,omitempty"`
	LargestMergedGroup int            `json:"largest_merged_group,omitempty"`
}

// UnifiedGraph is the cross-repository graph produced by one aggregation run.
// It is rebuilt from scratch on every run and never mutated incrementally.
type UnifiedGraph struct {
	Nodes    []MergedNode `json:"nodes"`
	Edges    []Edge       `json:"edges"`
	Stats    *Stats       `json:"stats,omitempty"`
	Warnings []string     `json:"warnings,omitempty"`
}

// Node returns the merged node with the given id, if present.
func (g *UnifiedGraph) Node(id string) (MergedNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return MergedNode{}, false
}

// MemberIndex maps every original node reference back to the merged node
// that subsumes it.
func (g *UnifiedGraph) MemberIndex() map[string]string {
	index := make(map[string]string)
	for _, n := range g.Nodes {
		for _, m := range n.Members {
			index[m.Key()] = n.ID
		}
	}
	return index
}
