package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// maxKeyLength is the ceiling above which an extracted value is rejected as a
// match key. Oversized values are almost always serialized blobs, not ids.
const maxKeyLength = 256

// placeholders are values emitted by planners for not-yet-resolved
// attributes. They must never become match keys: two unresolved values being
// equal says nothing about the underlying resources.
var placeholders = map[string]bool{
	"<computed>":          true,
	"(known after apply)": true,
	"unknown":             true,
	"null":                true,
	"undefined":           true,
	"n/a":                 true,
}

// fallbackIDAttributes are tried in order when the configured attribute path
// yields nothing.
var fallbackIDAttributes = []string{"id", "name", "unique_id", "resource_id"}

// lookupAttribute resolves a dot-notation path into a nested metadata map and
// renders the leaf as a string. Only scalar leaves are usable as keys.
func lookupAttribute(metadata map[string]any, path string) (string, bool) {
	if path == "" || metadata == nil {
		return "", false
	}

	var current any = metadata
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return "", false
		}
		current, ok = m[segment]
		if !ok {
			return "", false
		}
	}

	switch v := current.(type) {
	case string:
		return v, true
	case float64, int, int64, bool:
		return fmt.Sprintf("%v", v), true
	default:
		return "", false
	}
}

// extractValue reads the raw key value for a node: the configured path first,
// then the common id field names.
func extractValue(metadata map[string]any, path string) (string, bool) {
	if path != "" {
		if v, ok := lookupAttribute(metadata, path); ok {
			return v, true
		}
	}
	for _, fallback := range fallbackIDAttributes {
		if fallback == path {
			continue
		}
		if v, ok := lookupAttribute(metadata, fallback); ok {
			return v, true
		}
	}
	return "", false
}

// applyExtraction pulls a sub-value out of a composite identifier: the first
// capture group when the pattern has one, otherwise the whole match. Returns
// false when the pattern does not match at all.
func applyExtraction(value string, pattern *regexp.Regexp) (string, bool) {
	if pattern == nil {
		return value, true
	}
	groups := pattern.FindStringSubmatch(value)
	if groups == nil {
		return "", false
	}
	if len(groups) > 1 && groups[1] != "" {
		return groups[1], true
	}
	return groups[0], true
}

// normalizeKey canonicalizes a key value: trim, lowercase, and strip the
// conventional id affixes.
func normalizeKey(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.TrimPrefix(v, "id-")
	v = strings.TrimPrefix(v, "resource-")
	v = strings.TrimSuffix(v, "-id")
	return v
}

// usableKey rejects values that cannot serve as match keys: empty strings,
// oversized values, and planner placeholders.
func usableKey(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || len(trimmed) > maxKeyLength {
		return false
	}
	return !placeholders[strings.ToLower(trimmed)]
}

// deriveKey runs the full key pipeline: extraction pattern, placeholder and
// size checks, then optional normalization. The same input always produces
// the same key.
func deriveKey(value string, pattern *regexp.Regexp, normalize bool) (string, bool) {
	v, ok := applyExtraction(value, pattern)
	if !ok || !usableKey(v) {
		return "", false
	}
	if normalize {
		v = normalizeKey(v)
		if v == "" {
			return "", false
		}
	} else {
		v = strings.TrimSpace(v)
	}
	return v, true
}

// stringAttribute is a convenience for reading a flat metadata string.
func stringAttribute(metadata map[string]any, key string) string {
	v, _ := lookupAttribute(metadata, key)
	return v
}
