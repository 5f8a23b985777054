// Package matcher implements the cross-repository matching strategies: each
// strategy turns raw scan nodes into comparable candidates, scores candidate
// pairs from different repositories, and validates its own configuration.
package matcher

import (
	"rollup-graphx/internal/graph"
)

// Candidate is an ephemeral view of a node prepared by one matcher for a
// matching pass: the originating node, its scan coordinates, the extracted
// match key, and a small attribute bag used during scoring. Candidates are
// rebuilt on every pass and never persisted.
type Candidate struct {
	Node         graph.Node
	RepositoryID string
	ScanID       string
	Key          string
	Attributes   map[string]string
}

// Ref returns the scan coordinates of the candidate's node.
func (c Candidate) Ref() graph.NodeRef {
	return graph.NodeRef{
		RepositoryID: c.RepositoryID,
		ScanID:       c.ScanID,
		NodeID:       c.Node.ID,
	}
}

// Details carries the evidence behind a match result.
type Details struct {
	Attribute   string            `json:"attribute,omitempty"`
	SourceValue string            `json:"source_value,omitempty"`
	TargetValue string            `json:"target_value,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
}

// Result is the outcome of comparing two candidates from different
// repositories. Confidence is always within [0,100] and at least the
// producing matcher's minimum threshold. Results are immutable once produced.
type Result struct {
	SourceNodeID     string        `json:"source_node_id"`
	TargetNodeID     string        `json:"target_node_id"`
	SourceRepository string        `json:"source_repository"`
	TargetRepository string        `json:"target_repository"`
	SourceRef        graph.NodeRef `json:"-"`
	TargetRef        graph.NodeRef `json:"-"`
	Strategy         string        `json:"strategy"`
	Confidence       int           `json:"confidence"`
	Details          Details       `json:"details"`
}

// ValidationResult reports the outcome of validating a matcher configuration.
// Errors make the configuration unusable; warnings do not.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Matcher is the contract every matching strategy implements. Implementations
// must be safe for concurrent Compare calls: comparison runs on parallel
// workers during aggregation.
type Matcher interface {
	// Name returns the strategy type identifier (e.g. "resource_id").
	Name() string

	// IsEnabled reports whether the matcher takes part in aggregation runs.
	IsEnabled() bool

	// Priority returns the configured priority in [0,100]; higher-priority
	// matchers run first and win conflict resolution.
	Priority() int

	// ExtractCandidates filters the nodes this matcher can handle and
	// derives a match key per eligible node. Nodes without a usable key
	// (computed values, placeholders) are dropped.
	ExtractCandidates(nodes []graph.Node, repositoryID, scanID string) []Candidate

	// Compare scores a candidate pair. It returns false when the pair is
	// from the same repository, is incompatible, or scores below the
	// configured minimum confidence.
	Compare(a, b Candidate) (Result, bool)

	// ValidateConfig checks the matcher's configuration.
	ValidateConfig() ValidationResult
}

// core carries the behavior shared by every strategy: threshold enforcement,
// the absolute same-repository exclusion, and default node-type compatibility.
// Strategies embed it instead of subclassing.
type core struct {
	cfg Config
}

func (c core) IsEnabled() bool { return c.cfg.Enabled }
func (c core) Priority() int   { return c.cfg.Priority }

// crossRepository enforces the same-repository exclusion. A node never
// matches another node from its own repository.
func (c core) crossRepository(a, b Candidate) bool {
	return a.RepositoryID != b.RepositoryID
}

// compatible is the default compatibility check: both nodes must be of the
// same type. Strategies may narrow this further.
func (c core) compatible(a, b Candidate) bool {
	return a.Node.Type == b.Node.Type
}

// accept applies the configured threshold as a hard cutoff.
func (c core) accept(confidence int) bool {
	return confidence > 0 && confidence >= c.cfg.MinConfidence
}

// result assembles a Result for an accepted pair.
func (c core) result(strategy string, a, b Candidate, confidence int, details Details) Result {
	return Result{
		SourceNodeID:     a.Node.ID,
		TargetNodeID:     b.Node.ID,
		SourceRepository: a.RepositoryID,
		TargetRepository: b.RepositoryID,
		SourceRef:        a.Ref(),
		TargetRef:        b.Ref(),
		Strategy:         strategy,
		Confidence:       confidence,
		Details:          details,
	}
}
