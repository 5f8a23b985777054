// Package lookup defines the external object index consumed by matchers that
// need to resolve identifiers pointing outside the scanned graphs. The real
// index (a tiered cache over cloud inventories) lives in the surrounding
// system; this package only owns the contract and a map-backed implementation
// for tests and offline runs.
package lookup

import "sync"

// Resolver resolves an external reference (e.g. an ARN) to an object
// identity. The second return value is false when the reference is unknown;
// callers must treat "not found" as absence of evidence, never as a failure.
// Resolved identities are compared with ==, so implementations should return
// comparable values such as strings.
type Resolver interface {
	Resolve(reference string) (any, bool)
}

// Static is an in-memory Resolver backed by a fixed reference table.
type Static struct {
	mu      sync.RWMutex
	objects map[string]any
}

// NewStatic builds a Static resolver from a reference-to-object table.
func NewStatic(objects map[string]any) *Static {
	table := make(map[string]any, len(objects))
	for k, v := range objects {
		table[k] = v
	}
	return &Static{objects: table}
}

// Resolve implements Resolver.
func (s *Static) Resolve(reference string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.objects[reference]
	return v, ok
}

// Add registers an object under a reference.
func (s *Static) Add(reference string, object any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[reference] = object
}
