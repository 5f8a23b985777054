package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup-graphx/internal/graph"
)

func tfNode(id, resourceType string, metadata map[string]any) graph.Node {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if resourceType != "" {
		metadata["resource_type"] = resourceType
	}
	return graph.Node{
		ID:       id,
		Type:     graph.NodeTypeTerraformResource,
		Name:     id,
		Metadata: metadata,
	}
}

func resourceIDConfig() Config {
	return Config{
		Type:          TypeResourceID,
		Enabled:       true,
		Priority:      80,
		MinConfidence: 80,
		ResourceType:  "aws_s3_bucket",
		IDAttribute:   "bucket",
		Normalize:     true,
	}
}

func extractOne(t *testing.T, m Matcher, node graph.Node, repo string) Candidate {
	t.Helper()
	candidates := m.ExtractCandidates([]graph.Node{node}, repo, repo+"-scan")
	require.Len(t, candidates, 1)
	return candidates[0]
}

func TestResourceIDMatchWithNormalization(t *testing.T) {
	m := newResourceIDMatcher(resourceIDConfig())

	a := extractOne(t, m, tfNode("aws_s3_bucket.assets", "aws_s3_bucket",
		map[string]any{"bucket": "My-Bucket"}), "repo1")
	b := extractOne(t, m, tfNode("aws_s3_bucket.assets_mirror", "aws_s3_bucket",
		map[string]any{"bucket": "my-bucket"}), "repo2")

	assert.Equal(t, "my-bucket", a.Key)

	result, ok := m.Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, 100, result.Confidence)
	assert.Equal(t, TypeResourceID, result.Strategy)
	assert.Equal(t, "bucket", result.Details.Attribute)
	assert.Equal(t, "My-Bucket", result.Details.SourceValue)
}

func TestResourceIDSameRepositoryNeverMatches(t *testing.T) {
	m := newResourceIDMatcher(resourceIDConfig())

	a := extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "shared"}), "repo1")
	b := extractOne(t, m, tfNode("aws_s3_bucket.b", "aws_s3_bucket",
		map[string]any{"bucket": "shared"}), "repo1")

	_, ok := m.Compare(a, b)
	assert.False(t, ok)
}

func TestResourceIDPlaceholderRejection(t *testing.T) {
	m := newResourceIDMatcher(resourceIDConfig())

	for _, value := range []string{"(known after apply)", "<computed>", "unknown", "null", "n/a", ""} {
		node := tfNode("aws_s3_bucket.pending", "aws_s3_bucket", map[string]any{"bucket": value})
		assert.Empty(t, m.ExtractCandidates([]graph.Node{node}, "repo1", "scan1"),
			"value %q must not yield a candidate", value)
	}
}

func TestResourceIDConfidenceLadder(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.Normalize = false
	cfg.MinConfidence = 50
	m := newResourceIDMatcher(cfg)

	// Case-insensitive match when normalization is disabled.
	a := extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "My-Bucket"}), "repo1")
	b := extractOne(t, m, tfNode("aws_s3_bucket.b", "aws_s3_bucket",
		map[string]any{"bucket": "my-bucket"}), "repo2")
	result, ok := m.Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, 90, result.Confidence)

	// Exact match without the resource-type bonus.
	cfg = resourceIDConfig()
	cfg.ResourceType = "aws_*"
	m = newResourceIDMatcher(cfg)
	a = extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "shared"}), "repo1")
	// The second node has no recorded resource type, so the same-type bonus
	// does not apply.
	b = extractOne(t, m, tfNode("aws_s3_bucket.b", "",
		map[string]any{"bucket": "shared"}), "repo2")
	result, ok = m.Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, 95, result.Confidence)
}

func TestResourceIDWildcardFilter(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.ResourceType = "aws_*"
	m := newResourceIDMatcher(cfg)

	bucket := extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "shared"}), "repo1")
	role := extractOne(t, m, tfNode("aws_iam_role.b", "aws_iam_role",
		map[string]any{"name": "shared"}), "repo2")

	// Both are candidates under the wildcard, but different concrete
	// resource types are never comparable.
	_, ok := m.Compare(bucket, role)
	assert.False(t, ok)

	gcp := tfNode("google_storage_bucket.c", "google_storage_bucket",
		map[string]any{"name": "shared"})
	assert.Empty(t, m.ExtractCandidates([]graph.Node{gcp}, "repo3", "scan3"))
}

func TestResourceIDThresholdIsHardCutoff(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.Normalize = false
	cfg.MinConfidence = 95
	m := newResourceIDMatcher(cfg)

	a := extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "My-Bucket"}), "repo1")
	b := extractOne(t, m, tfNode("aws_s3_bucket.b", "aws_s3_bucket",
		map[string]any{"bucket": "my-bucket"}), "repo2")

	// Case-fold would score 90, below the 95 threshold.
	_, ok := m.Compare(a, b)
	assert.False(t, ok)
}

func TestResourceIDExtractionPattern(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.IDAttribute = "id"
	cfg.ExtractionPattern = `^bucket/(.+)$`
	cfg.Normalize = false
	m := newResourceIDMatcher(cfg)

	node := tfNode("aws_s3_bucket.a", "aws_s3_bucket", map[string]any{"id": "bucket/assets-prod"})
	c := extractOne(t, m, node, "repo1")
	assert.Equal(t, "assets-prod", c.Key)

	// A value the pattern cannot match yields no candidate.
	miss := tfNode("aws_s3_bucket.b", "aws_s3_bucket", map[string]any{"id": "volume/other"})
	assert.Empty(t, m.ExtractCandidates([]graph.Node{miss}, "repo1", "scan1"))
}

func TestResourceIDFallbackAttributes(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.IDAttribute = "does.not.exist"
	cfg.Normalize = false
	m := newResourceIDMatcher(cfg)

	node := tfNode("aws_s3_bucket.a", "aws_s3_bucket", map[string]any{"unique_id": "u-123"})
	c := extractOne(t, m, node, "repo1")
	assert.Equal(t, "u-123", c.Key)
}

func TestNormalizeKeyAffixes(t *testing.T) {
	assert.Equal(t, "web", normalizeKey("  ID-Web  "))
	assert.Equal(t, "web", normalizeKey("resource-web"))
	assert.Equal(t, "web", normalizeKey("Web-id"))
}

func TestLookupAttributeDotPath(t *testing.T) {
	metadata := map[string]any{
		"attributes": map[string]any{
			"spec": map[string]any{"external_id": "abc"},
			"port": float64(8080),
		},
	}

	v, ok := lookupAttribute(metadata, "attributes.spec.external_id")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	v, ok = lookupAttribute(metadata, "attributes.port")
	require.True(t, ok)
	assert.Equal(t, "8080", v)

	_, ok = lookupAttribute(metadata, "attributes.spec.missing")
	assert.False(t, ok)
	_, ok = lookupAttribute(metadata, "attributes.spec.external_id.too_deep")
	assert.False(t, ok)
}

func TestValidationBounds(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.Priority = 101
	res := newResourceIDMatcher(cfg).ValidateConfig()
	assert.False(t, res.Valid)

	cfg = resourceIDConfig()
	cfg.MinConfidence = -1
	res = newResourceIDMatcher(cfg).ValidateConfig()
	assert.False(t, res.Valid)

	cfg = resourceIDConfig()
	cfg.MinConfidence = 40
	res = newResourceIDMatcher(cfg).ValidateConfig()
	assert.True(t, res.Valid)
	assert.NotEmpty(t, res.Warnings)
}

func TestResourceIDValidation(t *testing.T) {
	cfg := resourceIDConfig()
	cfg.ResourceType = ""
	res := newResourceIDMatcher(cfg).ValidateConfig()
	assert.False(t, res.Valid)

	cfg = resourceIDConfig()
	cfg.ExtractionPattern = "("
	res = newResourceIDMatcher(cfg).ValidateConfig()
	assert.False(t, res.Valid)

	cfg = resourceIDConfig()
	cfg.ResourceType = "aws_*"
	res = newResourceIDMatcher(cfg).ValidateConfig()
	assert.True(t, res.Valid)
	assert.NotEmpty(t, res.Warnings)
}

func TestNameMatcher(t *testing.T) {
	cfg := Config{Type: TypeName, Enabled: true, Priority: 20, MinConfidence: 90}
	m := newNameMatcher(cfg)

	a := extractOne(t, m, graph.Node{ID: "n1", Type: graph.NodeTypeHelmRelease, Name: "ingress"}, "repo1")
	b := extractOne(t, m, graph.Node{ID: "n2", Type: graph.NodeTypeHelmRelease, Name: "Ingress"}, "repo2")

	result, ok := m.Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, 90, result.Confidence)

	// Different node types are incompatible even with equal names.
	c := extractOne(t, m, graph.Node{ID: "n3", Type: graph.NodeTypeKubernetesObject, Name: "ingress"}, "repo3")
	_, ok = m.Compare(a, c)
	assert.False(t, ok)
}

func TestTagMatcher(t *testing.T) {
	cfg := Config{
		Type: TypeTag, Enabled: true, Priority: 30, MinConfidence: 100,
		TagKeys: []string{"Environment", "App"},
	}
	m := newTagMatcher(cfg)

	a := extractOne(t, m, tfNode("aws_instance.a", "aws_instance", map[string]any{
		"tags": map[string]any{"Environment": "prod", "App": "billing", "Extra": "x"},
	}), "repo1")
	b := extractOne(t, m, tfNode("aws_instance.b", "aws_instance", map[string]any{
		"tags": map[string]any{"Environment": "prod", "App": "billing"},
	}), "repo2")

	assert.Equal(t, "App=billing;Environment=prod", a.Key)
	result, ok := m.Compare(a, b)
	require.True(t, ok)
	assert.Equal(t, 100, result.Confidence)

	// A node missing one configured tag is not a candidate.
	partial := tfNode("aws_instance.c", "aws_instance", map[string]any{
		"tags": map[string]any{"Environment": "prod"},
	})
	assert.Empty(t, m.ExtractCandidates([]graph.Node{partial}, "repo3", "scan3"))

	res := newTagMatcher(Config{Type: TypeTag, MinConfidence: 100}).ValidateConfig()
	assert.False(t, res.Valid)
}

func TestConfidenceWithinBounds(t *testing.T) {
	m := newResourceIDMatcher(resourceIDConfig())
	a := extractOne(t, m, tfNode("aws_s3_bucket.a", "aws_s3_bucket",
		map[string]any{"bucket": "one"}), "repo1")
	b := extractOne(t, m, tfNode("aws_s3_bucket.b", "aws_s3_bucket",
		map[string]any{"bucket": "one"}), "repo2")

	result, ok := m.Compare(a, b)
	require.True(t, ok)
	assert.GreaterOrEqual(t, result.Confidence, m.cfg.MinConfidence)
	assert.LessOrEqual(t, result.Confidence, 100)
}
