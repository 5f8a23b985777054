package matcher

import (
	"strings"

	"rollup-graphx/internal/graph"
)

// nameMatcher matches nodes of the same type by their declared name. Names
// are the weakest signal of the built-in strategies, so configurations
// usually give it a low priority.
type nameMatcher struct {
	core
}

func newNameMatcher(cfg Config) *nameMatcher {
	return &nameMatcher{core: core{cfg: cfg}}
}

func (m *nameMatcher) Name() string { return TypeName }

func (m *nameMatcher) ExtractCandidates(nodes []graph.Node, repositoryID, scanID string) []Candidate {
	var candidates []Candidate

	for _, node := range nodes {
		name := node.Name
		if m.cfg.NameAttribute != "" {
			if v, ok := lookupAttribute(node.Metadata, m.cfg.NameAttribute); ok {
				name = v
			}
		}
		key, ok := deriveKey(name, nil, m.cfg.Normalize)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{
			Node:         node,
			RepositoryID: repositoryID,
			ScanID:       scanID,
			Key:          key,
			Attributes: map[string]string{
				"node_type":   string(node.Type),
				"name":        node.Name,
				"source_file": node.SourceFile,
			},
		})
	}

	return candidates
}

func (m *nameMatcher) Compare(a, b Candidate) (Result, bool) {
	if !m.crossRepository(a, b) || !m.compatible(a, b) {
		return Result{}, false
	}

	confidence := 0
	switch {
	case a.Key == b.Key:
		confidence = 100
	case !m.cfg.Normalize && strings.EqualFold(a.Key, b.Key):
		confidence = confidenceCaseFold
	}

	if !m.accept(confidence) {
		return Result{}, false
	}

	attribute := "name"
	if m.cfg.NameAttribute != "" {
		attribute = m.cfg.NameAttribute
	}
	return m.result(TypeName, a, b, confidence, Details{
		Attribute:   attribute,
		SourceValue: a.Key,
		TargetValue: b.Key,
	}), true
}

func (m *nameMatcher) ValidateConfig() ValidationResult {
	return validateBase(m.cfg)
}
