package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// Built-in strategy type identifiers. Custom strategies registered on a
// factory use their own string tag and may shadow these names.
const (
	TypeResourceID = "resource_id"
	TypeARN        = "arn"
	TypeName       = "name"
	TypeTag        = "tag"
)

// Bounds shared by every strategy.
const (
	MinPriority      = 0
	MaxPriority      = 100
	MinConfidenceMin = 0
	MinConfidenceMax = 100

	// lowConfidenceWarning is the threshold below which a configuration
	// draws a warning: low cutoffs risk false-positive merges.
	lowConfidenceWarning = 50
)

// Config describes one matching strategy instance. The Type field
// discriminates which strategy-specific fields apply; unknown fields for a
// given type are ignored by that strategy but still part of cache identity.
// Configs are owned by the rollup configuration and read-only to matchers.
type Config struct {
	Type          string `mapstructure:"type" json:"type"`
	Enabled       bool   `mapstructure:"enabled" json:"enabled"`
	Priority      int    `mapstructure:"priority" json:"priority"`
	MinConfidence int    `mapstructure:"min_confidence" json:"min_confidence"`

	// resource_id strategy.
	ResourceType      string `mapstructure:"resource_type" json:"resource_type,omitempty"`
	IDAttribute       string `mapstructure:"id_attribute" json:"id_attribute,omitempty"`
	ExtractionPattern string `mapstructure:"extraction_pattern" json:"extraction_pattern,omitempty"`
	Normalize         bool   `mapstructure:"normalize" json:"normalize"`

	// name strategy.
	NameAttribute string `mapstructure:"name_attribute" json:"name_attribute,omitempty"`

	// tag strategy.
	TagKeys []string `mapstructure:"tag_keys" json:"tag_keys,omitempty"`

	// Free-form settings for custom strategies.
	Options map[string]string `mapstructure:"options" json:"options,omitempty"`
}

// validateBase performs the checks shared by all strategies. Strategy
// validation extends the returned result with its own errors and warnings.
func validateBase(cfg Config) ValidationResult {
	res := ValidationResult{Valid: true}

	if cfg.Priority < MinPriority || cfg.Priority > MaxPriority {
		res.Valid = false
		res.Errors = append(res.Errors,
			fmt.Sprintf("priority %d is out of range [%d,%d]", cfg.Priority, MinPriority, MaxPriority))
	}
	if cfg.MinConfidence < MinConfidenceMin || cfg.MinConfidence > MinConfidenceMax {
		res.Valid = false
		res.Errors = append(res.Errors,
			fmt.Sprintf("min_confidence %d is out of range [%d,%d]", cfg.MinConfidence, MinConfidenceMin, MinConfidenceMax))
	}
	if res.Valid && cfg.MinConfidence < lowConfidenceWarning {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("min_confidence %d is below %d; low thresholds risk false-positive matches", cfg.MinConfidence, lowConfidenceWarning))
	}

	return res
}

// compileTypeFilter turns a resource-type filter with glob-style wildcards
// into an anchored regular expression with all other characters escaped.
func compileTypeFilter(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i, part := range strings.Split(pattern, "*") {
		if i > 0 {
			sb.WriteString(".*")
		}
		sb.WriteString(regexp.QuoteMeta(part))
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}
