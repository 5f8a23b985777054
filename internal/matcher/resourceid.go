package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"rollup-graphx/internal/graph"
)

// Confidence tiers for the resource-identifier strategy.
const (
	confidenceExactSameType = 100
	confidenceExact         = 95
	confidenceCaseFold      = 90
)

// resourceIDMatcher matches terraform resources across repositories by a
// configured identifier attribute (e.g. an S3 bucket name). It is the
// reference implementation of the value-extraction pattern the other
// strategies follow.
type resourceIDMatcher struct {
	core
	typeFilter *regexp.Regexp
	extraction *regexp.Regexp
}

func newResourceIDMatcher(cfg Config) *resourceIDMatcher {
	m := &resourceIDMatcher{core: core{cfg: cfg}}
	// Compile errors surface through ValidateConfig; an invalid pattern
	// leaves the field nil and the factory refuses the config.
	if cfg.ResourceType != "" {
		m.typeFilter, _ = compileTypeFilter(cfg.ResourceType)
	}
	if cfg.ExtractionPattern != "" {
		m.extraction, _ = regexp.Compile(cfg.ExtractionPattern)
	}
	return m
}

func (m *resourceIDMatcher) Name() string { return TypeResourceID }

func (m *resourceIDMatcher) ExtractCandidates(nodes []graph.Node, repositoryID, scanID string) []Candidate {
	var candidates []Candidate

	for _, node := range nodes {
		if node.Type != graph.NodeTypeTerraformResource {
			continue
		}
		// A node without a recorded resource type is still a candidate: an
		// unknown type is absence of evidence, not a mismatch. Compare caps
		// such pairs below the same-type confidence tier.
		resourceType := stringAttribute(node.Metadata, "resource_type")
		if resourceType != "" && m.typeFilter != nil && !m.typeFilter.MatchString(resourceType) {
			continue
		}

		raw, ok := extractValue(node.Metadata, m.cfg.IDAttribute)
		if !ok {
			continue
		}
		key, ok := deriveKey(raw, m.extraction, m.cfg.Normalize)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{
			Node:         node,
			RepositoryID: repositoryID,
			ScanID:       scanID,
			Key:          key,
			Attributes: map[string]string{
				"node_type":     string(node.Type),
				"name":          node.Name,
				"source_file":   node.SourceFile,
				"resource_type": resourceType,
				"provider":      stringAttribute(node.Metadata, "provider"),
				"raw_value":     raw,
			},
		})
	}

	return candidates
}

func (m *resourceIDMatcher) Compare(a, b Candidate) (Result, bool) {
	if !m.crossRepository(a, b) || !m.compatible(a, b) {
		return Result{}, false
	}

	// Even under a wildcard type filter, only nodes of the same concrete
	// resource type are comparable.
	typeA, typeB := a.Attributes["resource_type"], b.Attributes["resource_type"]
	if typeA != "" && typeB != "" && typeA != typeB {
		return Result{}, false
	}

	confidence := 0
	switch {
	case a.Key == b.Key && typeA != "" && typeA == typeB:
		confidence = confidenceExactSameType
	case a.Key == b.Key:
		confidence = confidenceExact
	case !m.cfg.Normalize && strings.EqualFold(a.Key, b.Key):
		confidence = confidenceCaseFold
	}

	if !m.accept(confidence) {
		return Result{}, false
	}

	attribute := m.cfg.IDAttribute
	if attribute == "" {
		attribute = "id"
	}
	return m.result(TypeResourceID, a, b, confidence, Details{
		Attribute:   attribute,
		SourceValue: a.Attributes["raw_value"],
		TargetValue: b.Attributes["raw_value"],
		Context: map[string]string{
			"resource_type": typeA,
		},
	}), true
}

func (m *resourceIDMatcher) ValidateConfig() ValidationResult {
	res := validateBase(m.cfg)

	if m.cfg.ResourceType == "" {
		res.Valid = false
		res.Errors = append(res.Errors, "resource_type is required for the resource_id strategy")
	} else if strings.Contains(m.cfg.ResourceType, "*") {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("resource_type %q contains a wildcard; candidates of different concrete types will never match each other", m.cfg.ResourceType))
	}

	if m.cfg.ExtractionPattern != "" {
		if _, err := regexp.Compile(m.cfg.ExtractionPattern); err != nil {
			res.Valid = false
			res.Errors = append(res.Errors, fmt.Sprintf("extraction_pattern does not compile: %v", err))
		}
	}

	return res
}
