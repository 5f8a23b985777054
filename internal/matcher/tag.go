package matcher

import (
	"sort"
	"strings"

	"rollup-graphx/internal/graph"
)

// tagMatcher matches nodes by a configured set of tag keys. A node is only a
// candidate when every configured tag is present and usable; the match key is
// the canonical key=value serialization, so equality means all configured
// tags agree.
type tagMatcher struct {
	core
}

func newTagMatcher(cfg Config) *tagMatcher {
	return &tagMatcher{core: core{cfg: cfg}}
}

func (m *tagMatcher) Name() string { return TypeTag }

func (m *tagMatcher) ExtractCandidates(nodes []graph.Node, repositoryID, scanID string) []Candidate {
	keys := make([]string, len(m.cfg.TagKeys))
	copy(keys, m.cfg.TagKeys)
	sort.Strings(keys)

	var candidates []Candidate
	for _, node := range nodes {
		tags, ok := node.Metadata["tags"].(map[string]any)
		if !ok {
			continue
		}

		attrs := map[string]string{
			"node_type":   string(node.Type),
			"name":        node.Name,
			"source_file": node.SourceFile,
		}
		var parts []string
		complete := true
		for _, key := range keys {
			value, _ := tags[key].(string)
			if !usableKey(value) {
				complete = false
				break
			}
			if m.cfg.Normalize {
				value = strings.ToLower(strings.TrimSpace(value))
			}
			parts = append(parts, key+"="+value)
			attrs["tag:"+key] = value
		}
		if !complete {
			continue
		}

		candidates = append(candidates, Candidate{
			Node:         node,
			RepositoryID: repositoryID,
			ScanID:       scanID,
			Key:          strings.Join(parts, ";"),
			Attributes:   attrs,
		})
	}

	return candidates
}

func (m *tagMatcher) Compare(a, b Candidate) (Result, bool) {
	if !m.crossRepository(a, b) || !m.compatible(a, b) {
		return Result{}, false
	}

	confidence := 0
	if a.Key == b.Key {
		confidence = 100
	}
	if !m.accept(confidence) {
		return Result{}, false
	}

	return m.result(TypeTag, a, b, confidence, Details{
		Attribute:   "tags",
		SourceValue: a.Key,
		TargetValue: b.Key,
		Context: map[string]string{
			"tag_keys": strings.Join(m.cfg.TagKeys, ","),
		},
	}), true
}

func (m *tagMatcher) ValidateConfig() ValidationResult {
	res := validateBase(m.cfg)
	if len(m.cfg.TagKeys) == 0 {
		res.Valid = false
		res.Errors = append(res.Errors, "tag_keys must list at least one tag for the tag strategy")
	}
	return res
}
