package matcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"rollup-graphx/internal/lookup"
)

// ErrUnknownStrategy is returned when a configuration names a matcher type
// that is neither built in nor registered on the factory.
var ErrUnknownStrategy = errors.New("unknown matcher strategy")

// ConfigError reports a configuration that failed validation. It carries the
// per-field messages so callers can surface them without re-validating.
type ConfigError struct {
	Type   string
	Errors []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s matcher configuration: %s", e.Type, strings.Join(e.Errors, "; "))
}

// Builder constructs a matcher from a configuration. Third-party strategies
// register a Builder on the factory; registrations are checked before the
// built-in types, so a custom builder can shadow a reserved name.
type Builder func(cfg Config, deps Deps) (Matcher, error)

// Deps carries the collaborators a strategy may use.
type Deps struct {
	Resolver lookup.Resolver
}

// Factory builds matcher instances from configurations. Instances are cached
// by the canonical serialization of their configuration, so structurally
// identical configs share one instance; strategies needing private mutable
// state per instance must be created on a factory with caching disabled.
//
// The cache is read-mostly shared state: creation and clearing are serialized
// behind the mutex, warm lookups are cheap.
type Factory struct {
	mu       sync.Mutex
	cache    map[string]Matcher
	custom   map[string]Builder
	deps     Deps
	noCache  bool
}

// Option configures a Factory.
type Option func(*Factory)

// WithResolver wires the external object index into strategies that use it.
func WithResolver(r lookup.Resolver) Option {
	return func(f *Factory) { f.deps.Resolver = r }
}

// WithoutCache disables instance caching: every Create returns a fresh
// matcher.
func WithoutCache() Option {
	return func(f *Factory) { f.noCache = true }
}

// NewFactory builds a matcher factory. Factories are explicit, passed-in
// values; there is no process-wide default.
func NewFactory(opts ...Option) *Factory {
	f := &Factory{
		cache:  make(map[string]Matcher),
		custom: make(map[string]Builder),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register installs a custom strategy builder under a type name, replacing
// any previous registration with that name.
func (f *Factory) Register(typeName string, b Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.custom[typeName] = b
}

// Unregister removes a custom strategy registration.
func (f *Factory) Unregister(typeName string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.custom, typeName)
}

// ClearCache drops all cached instances.
func (f *Factory) ClearCache() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]Matcher)
}

// Create builds (or returns the cached) matcher for a configuration. It
// returns ErrUnknownStrategy for unrecognized types and a *ConfigError when
// the constructed matcher rejects its configuration.
func (f *Factory) Create(cfg Config) (Matcher, error) {
	key := ""
	if !f.noCache {
		key = cacheKey(cfg)
		f.mu.Lock()
		if m, ok := f.cache[key]; ok {
			f.mu.Unlock()
			return m, nil
		}
		f.mu.Unlock()
	}

	m, err := f.build(cfg)
	if err != nil {
		return nil, err
	}

	if v := m.ValidateConfig(); !v.Valid {
		return nil, &ConfigError{Type: cfg.Type, Errors: v.Errors}
	}

	if !f.noCache {
		f.mu.Lock()
		// Another goroutine may have built the same config concurrently;
		// keep the first instance so identity stays stable.
		if existing, ok := f.cache[key]; ok {
			m = existing
		} else {
			f.cache[key] = m
		}
		f.mu.Unlock()
	}

	return m, nil
}

// CreateMatchers filters out disabled configurations, constructs the rest,
// and returns them ordered by priority descending; equal priorities keep
// their input order so downstream consumers apply higher-priority strategies
// first. Any invalid configuration fails the whole call.
func (f *Factory) CreateMatchers(cfgs []Config) ([]Matcher, error) {
	var matchers []Matcher
	for _, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		m, err := f.Create(cfg)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	sort.SliceStable(matchers, func(i, j int) bool {
		return matchers[i].Priority() > matchers[j].Priority()
	})
	return matchers, nil
}

func (f *Factory) build(cfg Config) (Matcher, error) {
	f.mu.Lock()
	builder, custom := f.custom[cfg.Type]
	f.mu.Unlock()
	if custom {
		return builder(cfg, f.deps)
	}

	switch cfg.Type {
	case TypeResourceID:
		return newResourceIDMatcher(cfg), nil
	case TypeARN:
		return newARNMatcher(cfg, f.deps.Resolver), nil
	case TypeName:
		return newNameMatcher(cfg), nil
	case TypeTag:
		return newTagMatcher(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.Type)
	}
}

// cacheKey canonicalizes a configuration: marshalling through a generic map
// yields key-sorted JSON, so field layout changes never split the cache.
func cacheKey(cfg Config) string {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("%+v", cfg)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return string(raw)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return string(raw)
	}
	return string(canonical)
}
