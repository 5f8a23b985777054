package rollup

// unionFind is a disjoint-set forest with path compression and union by
// rank. Matched node pairs are unioned so chains of pairwise matches
// transitively collapse into one merged identity. Union order still matters
// for nothing but internal representatives, so the executor feeds it the
// centrally resolved, deterministically ordered match list.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

// add registers a key as its own singleton set. Adding an existing key is a
// no-op.
func (u *unionFind) add(key string) {
	if _, ok := u.parent[key]; !ok {
		u.parent[key] = key
	}
}

// find returns the representative of the set containing key, compressing the
// path along the way.
func (u *unionFind) find(key string) string {
	root := key
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[key] != root {
		key, u.parent[key] = u.parent[key], root
	}
	return root
}

// union merges the sets containing a and b.
func (u *unionFind) union(a, b string) {
	rootA, rootB := u.find(a), u.find(b)
	if rootA == rootB {
		return
	}
	if u.rank[rootA] < u.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	u.parent[rootB] = rootA
	if u.rank[rootA] == u.rank[rootB] {
		u.rank[rootA]++
	}
}

// groups returns every set as a slice of member keys. Member order within a
// group is not defined; callers sort.
func (u *unionFind) groups() map[string][]string {
	out := make(map[string][]string)
	for key := range u.parent {
		root := u.find(key)
		out[root] = append(out[root], key)
	}
	return out
}
