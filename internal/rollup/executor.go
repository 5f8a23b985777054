// Package rollup orchestrates a cross-repository aggregation run: it builds
// the configured matchers, extracts and compares candidates across all
// repository scans, resolves the resulting matches, and assembles the
// unified graph.
package rollup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"rollup-graphx/internal/graph"
	"rollup-graphx/internal/matcher"
)

// ErrNoMatchers is returned when no enabled, valid matcher remains after
// configuration validation.
var ErrNoMatchers = errors.New("no enabled matchers configured")

const defaultConcurrency = 4

// mergedNodeNamespace seeds the deterministic merged-node ids: the same
// member set always yields the same id, which keeps repeated runs over
// identical inputs byte-for-byte reproducible.
var mergedNodeNamespace = uuid.MustParse("5f2b7c1e-9a64-4c2d-8a11-3d8f0f6f7a42")

// Options tune an aggregation run.
type Options struct {
	// Concurrency bounds the number of parallel comparison workers.
	// Zero or negative means the default.
	Concurrency int
}

// ExcludedMatcher reports a configuration that was dropped from the run.
type ExcludedMatcher struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Result is the outcome of one aggregation run. A run is atomic: callers get
// either a fully assembled result or an error, never a partial graph.
type Result struct {
	ExecutionID string              `json:"execution_id"`
	Graph       *graph.UnifiedGraph `json:"graph"`
	Matches     []matcher.Result    `json:"matches,omitempty"`
	Excluded    []ExcludedMatcher   `json:"excluded_matchers,omitempty"`
}

// Executor runs aggregations. It holds no per-run state and is safe to reuse.
type Executor struct {
	factory     *matcher.Factory
	concurrency int
}

// NewExecutor builds an executor around a matcher factory.
func NewExecutor(factory *matcher.Factory, opts Options) *Executor {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Executor{factory: factory, concurrency: concurrency}
}

// scored pairs a match result with the priority of the matcher that produced
// it, for central conflict resolution.
type scored struct {
	result   matcher.Result
	priority int
}

// Execute aggregates the given repository scans into a unified graph using
// the enabled matcher configurations. Matchers with invalid configurations
// are excluded and reported, not fatal; an unknown strategy type likewise
// only excludes that matcher.
func (e *Executor) Execute(ctx context.Context, scans []graph.RepositoryScan, configs []matcher.Config) (*Result, error) {
	matchers, excluded := e.buildMatchers(configs)
	if len(matchers) == 0 {
		return nil, fmt.Errorf("%w (%d excluded)", ErrNoMatchers, len(excluded))
	}

	var all []scored
	for _, m := range matchers {
		results, err := e.runMatcher(ctx, m, scans)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
	}

	accepted := resolveResults(all)

	unified := assemble(scans, accepted)

	matches := make([]matcher.Result, len(accepted))
	copy(matches, accepted)

	return &Result{
		ExecutionID: uuid.NewString(),
		Graph:       unified,
		Matches:     matches,
		Excluded:    excluded,
	}, nil
}

// buildMatchers constructs every enabled configuration, collecting failures
// as exclusions. The returned matchers are ordered by priority descending,
// ties keeping input order.
func (e *Executor) buildMatchers(configs []matcher.Config) ([]matcher.Matcher, []ExcludedMatcher) {
	var matchers []matcher.Matcher
	var excluded []ExcludedMatcher

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}
		m, err := e.factory.Create(cfg)
		if err != nil {
			log.Printf("Excluding %s matcher: %v", cfg.Type, err)
			excluded = append(excluded, ExcludedMatcher{Type: cfg.Type, Reason: err.Error()})
			continue
		}
		matchers = append(matchers, m)
	}

	sort.SliceStable(matchers, func(i, j int) bool {
		return matchers[i].Priority() > matchers[j].Priority()
	})
	return matchers, excluded
}

// runMatcher extracts candidates for one matcher across all scans, buckets
// them by blocking key, and compares cross-repository pairs bucket by bucket
// on bounded parallel workers. Workers return partial result lists that are
// concatenated here; ordering is established later by resolveResults, so the
// outcome does not depend on worker completion order.
func (e *Executor) runMatcher(ctx context.Context, m matcher.Matcher, scans []graph.RepositoryScan) ([]scored, error) {
	var candidates []matcher.Candidate
	for _, scan := range scans {
		candidates = append(candidates, m.ExtractCandidates(scan.Nodes, scan.RepositoryID, scan.ScanID)...)
	}

	buckets := buildBuckets(candidates)
	if len(buckets) == 0 {
		return nil, nil
	}

	workers := e.concurrency
	if workers > len(buckets) {
		workers = len(buckets)
	}

	partial := make([][]scored, len(buckets))
	var next atomic.Int64
	next.Store(-1)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1))
				if i >= len(buckets) {
					return
				}
				// Cancellation is honored at bucket boundaries; partial
				// results are discarded by the caller on error.
				if ctx.Err() != nil {
					return
				}
				partial[i] = compareBucket(m, buckets[i])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregation aborted: %w", err)
	}

	var results []scored
	for _, p := range partial {
		results = append(results, p...)
	}
	return results, nil
}

// buildBuckets groups candidates by a case-folded match key. Bucketing keeps
// pairwise comparison away from O(n²) over whole scans; folding the case
// keeps case-insensitive tiers reachable within one bucket.
func buildBuckets(candidates []matcher.Candidate) [][]matcher.Candidate {
	byKey := make(map[string][]matcher.Candidate)
	for _, c := range candidates {
		k := strings.ToLower(c.Key)
		byKey[k] = append(byKey[k], c)
	}

	keys := make([]string, 0, len(byKey))
	for k, group := range byKey {
		if len(group) < 2 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([][]matcher.Candidate, 0, len(keys))
	for _, k := range keys {
		group := byKey[k]
		sort.Slice(group, func(i, j int) bool {
			if group[i].RepositoryID != group[j].RepositoryID {
				return group[i].RepositoryID < group[j].RepositoryID
			}
			return group[i].Node.ID < group[j].Node.ID
		})
		buckets = append(buckets, group)
	}
	return buckets
}

// compareBucket scores every cross-repository pair in one bucket.
func compareBucket(m matcher.Matcher, bucket []matcher.Candidate) []scored {
	var results []scored
	for i := 0; i < len(bucket); i++ {
		for j := i + 1; j < len(bucket); j++ {
			if bucket[i].RepositoryID == bucket[j].RepositoryID {
				continue
			}
			if r, ok := m.Compare(bucket[i], bucket[j]); ok {
				results = append(results, scored{result: r, priority: m.Priority()})
			}
		}
	}
	return results
}

// resolveResults orders all collected matches deterministically and resolves
// conflicts where several matchers claim the same node pair: highest matcher
// priority wins, then highest confidence, then lexicographic
// (sourceNodeID, targetNodeID) order.
func resolveResults(all []scored) []matcher.Result {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.result.Confidence != b.result.Confidence {
			return a.result.Confidence > b.result.Confidence
		}
		if a.result.SourceNodeID != b.result.SourceNodeID {
			return a.result.SourceNodeID < b.result.SourceNodeID
		}
		if a.result.TargetNodeID != b.result.TargetNodeID {
			return a.result.TargetNodeID < b.result.TargetNodeID
		}
		return a.result.Strategy < b.result.Strategy
	})

	seen := make(map[string]bool)
	var accepted []matcher.Result
	for _, s := range all {
		key := pairKey(s.result.SourceRef.Key(), s.result.TargetRef.Key())
		if seen[key] {
			continue
		}
		seen[key] = true
		accepted = append(accepted, s.result)
	}
	return accepted
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// assemble unions matched pairs into merged identities and emits the unified
// graph: one merged node per union-find class (unmatched nodes become
// single-member classes), cross-repository edges re-pointed to merged
// identities, and provenance per merge.
func assemble(scans []graph.RepositoryScan, accepted []matcher.Result) *graph.UnifiedGraph {
	nodesByRef := make(map[string]graph.Node)
	refsByKey := make(map[string]graph.NodeRef)
	uf := newUnionFind()

	for _, scan := range scans {
		for _, node := range scan.Nodes {
			ref := graph.NodeRef{RepositoryID: scan.RepositoryID, ScanID: scan.ScanID, NodeID: node.ID}
			nodesByRef[ref.Key()] = node
			refsByKey[ref.Key()] = ref
			uf.add(ref.Key())
		}
	}

	for _, r := range accepted {
		src, dst := r.SourceRef.Key(), r.TargetRef.Key()
		if _, ok := nodesByRef[src]; !ok {
			continue
		}
		if _, ok := nodesByRef[dst]; !ok {
			continue
		}
		uf.union(src, dst)
	}

	// Provenance is grouped after all unions so every source lands on its
	// final class representative.
	classProvenance := make(map[string][]graph.MergeSource)
	for _, r := range accepted {
		root := uf.find(r.SourceRef.Key())
		classProvenance[root] = append(classProvenance[root], graph.MergeSource{
			Strategy:    r.Strategy,
			Confidence:  r.Confidence,
			Attribute:   r.Details.Attribute,
			SourceNode:  r.SourceRef,
			TargetNode:  r.TargetRef,
			SourceValue: r.Details.SourceValue,
			TargetValue: r.Details.TargetValue,
		})
	}

	unified := &graph.UnifiedGraph{}
	mergedIDByRef := make(map[string]string)
	nodesByRepository := make(map[string]int)
	largest := 0

	roots := make([]string, 0)
	groups := uf.groups()
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Strings(roots)

	for _, root := range roots {
		members := groups[root]
		sort.Strings(members)

		merged := graph.MergedNode{
			ID:         uuid.NewSHA1(mergedNodeNamespace, []byte(strings.Join(members, "\n"))).String(),
			Provenance: classProvenance[root],
		}

		types := make(map[graph.NodeType]bool)
		resourceTypes := make(map[string]bool)
		for _, memberKey := range members {
			node := nodesByRef[memberKey]
			ref := refsByKey[memberKey]
			merged.Members = append(merged.Members, ref)
			mergedIDByRef[memberKey] = merged.ID
			nodesByRepository[ref.RepositoryID]++
			types[node.Type] = true
			if rt, ok := node.Metadata["resource_type"].(string); ok && rt != "" {
				resourceTypes[rt] = true
			}
			if merged.Name == "" {
				merged.Name = node.Name
			}
			if merged.Type == "" {
				merged.Type = node.Type
			}
		}

		// A transitive chain that merges structurally different resources is
		// contradictory; surface it as a warning, not a failure.
		if len(members) > 1 {
			if len(types) > 1 {
				unified.Warnings = append(unified.Warnings, fmt.Sprintf(
					"contradictory merge: group %s spans node types %s", merged.ID, setString(typeSet(types))))
			}
			if len(resourceTypes) > 1 {
				unified.Warnings = append(unified.Warnings, fmt.Sprintf(
					"contradictory merge: group %s spans resource types %s", merged.ID, setString(resourceTypes)))
			}
		}

		if len(members) > largest {
			largest = len(members)
		}
		unified.Nodes = append(unified.Nodes, merged)
	}

	unified.Edges = repointEdges(scans, mergedIDByRef)
	sort.Strings(unified.Warnings)

	mergedGroups := 0
	for _, n := range unified.Nodes {
		if len(n.Members) > 1 {
			mergedGroups++
		}
	}
	unified.Stats = &graph.Stats{
		TotalNodes:         len(unified.Nodes),
		TotalEdges:         len(unified.Edges),
		MergedGroups:       mergedGroups,
		NodesByRepository:  nodesByRepository,
		LargestMergedGroup: largest,
	}

	return unified
}

// repointEdges rewrites every scan edge onto merged identities, deduplicated.
// Edges collapsing into a merged node (both endpoints in one class) are
// dropped: a resource does not depend on itself.
func repointEdges(scans []graph.RepositoryScan, mergedIDByRef map[string]string) []graph.Edge {
	unique := make(map[string]graph.Edge)
	for _, scan := range scans {
		for _, e := range scan.Edges {
			from := mergedIDByRef[graph.NodeRef{RepositoryID: scan.RepositoryID, ScanID: scan.ScanID, NodeID: e.From}.Key()]
			to := mergedIDByRef[graph.NodeRef{RepositoryID: scan.RepositoryID, ScanID: scan.ScanID, NodeID: e.To}.Key()]
			if from == "" || to == "" || from == to {
				continue
			}
			key := from + " -> " + to + " | " + e.Relation
			unique[key] = graph.Edge{From: from, To: to, Relation: e.Relation}
		}
	}

	edges := make([]graph.Edge, 0, len(unique))
	for _, e := range unique {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		if edges[i].To != edges[j].To {
			return edges[i].To < edges[j].To
		}
		return edges[i].Relation < edges[j].Relation
	})
	return edges
}

func typeSet(types map[graph.NodeType]bool) map[string]bool {
	out := make(map[string]bool, len(types))
	for t := range types {
		out[string(t)] = true
	}
	return out
}

func setString(set map[string]bool) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
