package matcher

import (
	"strings"

	"rollup-graphx/internal/graph"
	"rollup-graphx/internal/lookup"
)

// arnMatcher matches nodes by their cloud ARN. ARNs are globally unique, so
// an exact ARN equality is the strongest evidence available. When an external
// object index is configured, two distinct ARNs that resolve to the same
// indexed object are also accepted at reduced confidence (e.g. an alias ARN
// and the canonical one); an unresolvable reference is not an error.
type arnMatcher struct {
	core
	resolver lookup.Resolver
}

func newARNMatcher(cfg Config, resolver lookup.Resolver) *arnMatcher {
	return &arnMatcher{core: core{cfg: cfg}, resolver: resolver}
}

func (m *arnMatcher) Name() string { return TypeARN }

func (m *arnMatcher) ExtractCandidates(nodes []graph.Node, repositoryID, scanID string) []Candidate {
	attribute := m.cfg.IDAttribute
	if attribute == "" {
		attribute = "arn"
	}

	var candidates []Candidate
	for _, node := range nodes {
		arn, ok := lookupAttribute(node.Metadata, attribute)
		if !ok || !usableKey(arn) || !strings.HasPrefix(arn, "arn:") {
			continue
		}

		attrs := map[string]string{
			"node_type":   string(node.Type),
			"name":        node.Name,
			"source_file": node.SourceFile,
		}
		// arn:partition:service:region:account:resource
		if parts := strings.SplitN(arn, ":", 6); len(parts) == 6 {
			attrs["partition"] = parts[1]
			attrs["service"] = parts[2]
			attrs["region"] = parts[3]
			attrs["account"] = parts[4]
			attrs["resource"] = parts[5]
		}

		candidates = append(candidates, Candidate{
			Node:         node,
			RepositoryID: repositoryID,
			ScanID:       scanID,
			Key:          strings.TrimSpace(arn),
			Attributes:   attrs,
		})
	}

	return candidates
}

func (m *arnMatcher) Compare(a, b Candidate) (Result, bool) {
	if !m.crossRepository(a, b) || !m.compatible(a, b) {
		return Result{}, false
	}
	if a.Attributes["service"] != b.Attributes["service"] {
		return Result{}, false
	}

	confidence := 0
	switch {
	case a.Key == b.Key:
		confidence = 100
	case m.resolvesToSameObject(a.Key, b.Key):
		confidence = 95
	}

	if !m.accept(confidence) {
		return Result{}, false
	}

	return m.result(TypeARN, a, b, confidence, Details{
		Attribute:   "arn",
		SourceValue: a.Key,
		TargetValue: b.Key,
		Context: map[string]string{
			"service": a.Attributes["service"],
		},
	}), true
}

// resolvesToSameObject consults the external object index for both ARNs.
// "not found" on either side simply means no extra evidence.
func (m *arnMatcher) resolvesToSameObject(a, b string) bool {
	if m.resolver == nil {
		return false
	}
	objA, okA := m.resolver.Resolve(a)
	objB, okB := m.resolver.Resolve(b)
	return okA && okB && objA == objB
}

func (m *arnMatcher) ValidateConfig() ValidationResult {
	res := validateBase(m.cfg)
	if m.cfg.ExtractionPattern != "" {
		res.Warnings = append(res.Warnings, "extraction_pattern is ignored by the arn strategy")
	}
	return res
}
