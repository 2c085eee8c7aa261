package partialeq

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// bipartite pairs each expected element with a distinct actual element.
// Edges are computed lazily and memoized, and the matching is maximum, so an
// expected element is reported unmatched only when no assignment exists.
type bipartite struct {
	m, n  int
	try   func(i, j int) bool
	dense []int8       // m*n; 0 unknown, 1 edge, -1 none
	memo  map[int]int8 // used instead of dense when m*n exceeds the budget
	owner []int        // actual index -> expected index, -1 when free
}

// newBipartite memoizes edges in a dense table when m*n fits within budget,
// the number of comparisons still allowed. Larger problems memoize only the
// edges actually tried, which the node bound keeps small.
func newBipartite(m, n, budget int, try func(i, j int) bool) *bipartite {
	b := &bipartite{
		m:     m,
		n:     n,
		try:   try,
		owner: make([]int, n),
	}
	if n == 0 || m <= budget/n {
		b.dense = make([]int8, m*n)
	} else {
		b.memo = make(map[int]int8)
	}
	for j := range b.owner {
		b.owner[j] = -1
	}
	return b
}

func (b *bipartite) edge(i, j int) bool {
	k := i*b.n + j
	if b.dense != nil {
		if b.dense[k] == 0 {
			b.dense[k] = b.tryEdge(i, j)
		}
		return b.dense[k] == 1
	}
	r, ok := b.memo[k]
	if !ok {
		r = b.tryEdge(i, j)
		b.memo[k] = r
	}
	return r == 1
}

func (b *bipartite) tryEdge(i, j int) int8 {
	if b.try(i, j) {
		return 1
	}
	return -1
}

func (b *bipartite) augment(i int, seen []bool) bool {
	for j := 0; j < b.n; j++ {
		if seen[j] || !b.edge(i, j) {
			continue
		}
		seen[j] = true
		if b.owner[j] < 0 || b.augment(b.owner[j], seen) {
			b.owner[j] = i
			return true
		}
	}
	return false
}

// solve returns the first expected index that cannot be paired, or -1.
func (b *bipartite) solve() int {
	seen := make([]bool, b.n)
	for i := 0; i < b.m; i++ {
		for j := range seen {
			seen[j] = false
		}
		if !b.augment(i, seen) {
			return i
		}
	}
	return -1
}

// candidates counts the actual elements expected element i matches.
func (b *bipartite) candidates(i int) int {
	count := 0
	for j := 0; j < b.n; j++ {
		if b.edge(i, j) {
			count++
		}
	}
	return count
}

func consumedDetail(candidates int, noun string) string {
	if candidates == 0 {
		return "no " + noun + " of actual matches"
	}
	return fmt.Sprintf("all %d matching %ss of actual are paired with other expected %ss", candidates, noun, noun)
}

func (c *comparator) compareSequence(a, e reflect.Value, path Path, depth int) *Mismatch {
	n, m := a.Len(), e.Len()
	if m > n {
		return c.mismatch(path, CountMismatch, a, e, fmt.Sprintf("expected %d elements, actual has %d", m, n))
	}
	if elem := e.Type().Elem(); elem == a.Type().Elem() && directLookup(elem, elem) && !elem.Implements(errorType) {
		return c.compareScalars(a, e, path, depth)
	}
	if n == m && c.aligned(a, e, path, depth) {
		return nil
	}

	b := newBipartite(m, n, c.budget(), func(i, j int) bool {
		return c.compare(a.Index(j), e.Index(i), path.index(i), depth+1) == nil
	})
	i := b.solve()
	if i < 0 {
		return nil
	}
	candidates := b.candidates(i)
	detail := consumedDetail(candidates, "element")
	if candidates == 0 && i < n {
		if near := c.compare(a.Index(i), e.Index(i), path.index(i), depth+1); near != nil {
			detail += "; at the same index: " + near.Error()
		}
	}
	return &Mismatch{Path: path.index(i), Reason: CountMismatch, Expected: describe(e.Index(i)), Detail: detail}
}

// compareScalars matches sequences of exact scalars by counting values,
// since any element pairs with any other element holding the same value.
func (c *comparator) compareScalars(a, e reflect.Value, path Path, depth int) *Mismatch {
	have := make(map[scalar]int, a.Len())
	for j := 0; j < a.Len(); j++ {
		have[scalarOf(a.Index(j))]++
	}
	need := make(map[scalar]int)
	for i := 0; i < e.Len(); i++ {
		k := scalarOf(e.Index(i))
		need[k]++
		if need[k] <= have[k] {
			continue
		}
		detail := consumedDetail(have[k], "element")
		if have[k] == 0 && i < a.Len() {
			if near := c.compare(a.Index(i), e.Index(i), path.index(i), depth+1); near != nil {
				detail += "; at the same index: " + near.Error()
			}
		}
		return &Mismatch{Path: path.index(i), Reason: CountMismatch, Expected: describe(e.Index(i)), Detail: detail}
	}
	return nil
}

// scalar is a counting key for values of one bool, string or integer type.
type scalar struct {
	s string
	n uint64
}

func scalarOf(v reflect.Value) scalar {
	switch v.Kind() {
	case reflect.String:
		return scalar{s: v.String()}
	case reflect.Bool:
		if v.Bool() {
			return scalar{n: 1}
		}
		return scalar{}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar{n: uint64(v.Int())}
	}
	return scalar{n: v.Uint()}
}

// aligned reports whether every element matches the actual element at the
// same index. It succeeds exactly when the positional pairing is a valid
// assignment, so it never changes the outcome of the general matching.
func (c *comparator) aligned(a, e reflect.Value, path Path, depth int) bool {
	for i := 0; i < e.Len(); i++ {
		if c.compare(a.Index(i), e.Index(i), path.index(i), depth+1) != nil {
			return false
		}
	}
	return true
}

func (c *comparator) compareMembership(a, e reflect.Value, path Path, depth int) *Mismatch {
	if e.Len() > a.Len() {
		return c.mismatch(path, CountMismatch, a, e, fmt.Sprintf("expected %d members, actual has %d", e.Len(), a.Len()))
	}
	members := sortedKeys(e)
	if directLookup(a.Type().Key(), e.Type().Key()) {
		for _, k := range members {
			if !a.MapIndex(k).IsValid() {
				return &Mismatch{Path: path.member(formatKey(k)), Reason: CountMismatch, Expected: describe(k),
					Detail: "member absent from actual"}
			}
		}
		return nil
	}

	actual := sortedKeys(a)
	b := newBipartite(len(members), len(actual), c.budget(), func(i, j int) bool {
		return c.compare(actual[j], members[i], path.member(formatKey(members[i])), depth+1) == nil
	})
	i := b.solve()
	if i < 0 {
		return nil
	}
	return &Mismatch{Path: path.member(formatKey(members[i])), Reason: CountMismatch, Expected: describe(members[i]),
		Detail: consumedDetail(b.candidates(i), "member")}
}

type entry struct {
	key, val reflect.Value
}

func (c *comparator) compareKeyValue(a, e reflect.Value, path Path, depth int) *Mismatch {
	expected := entries(e)
	if a.Kind() == reflect.Map && e.Kind() == reflect.Map && directLookup(a.Type().Key(), e.Type().Key()) {
		for _, en := range expected {
			kp := path.key(formatKey(en.key))
			av := a.MapIndex(en.key)
			if !av.IsValid() {
				return &Mismatch{Path: kp, Reason: MissingKey, Expected: describe(en.val), Detail: "key absent from actual"}
			}
			if m := c.compare(av, en.val, kp, depth+1); m != nil {
				return m
			}
		}
		return nil
	}

	actual := entries(a)
	b := newBipartite(len(expected), len(actual), c.budget(), func(i, j int) bool {
		return c.sameKey(actual[j].key, expected[i].key, depth) &&
			c.compare(actual[j].val, expected[i].val, path.key(formatKey(expected[i].key)), depth+1) == nil
	})
	i := b.solve()
	if i < 0 {
		return nil
	}

	en := expected[i]
	kp := path.key(formatKey(en.key))
	var keyed []int
	for j := range actual {
		if c.sameKey(actual[j].key, en.key, depth) {
			keyed = append(keyed, j)
		}
	}
	switch len(keyed) {
	case 0:
		return &Mismatch{Path: kp, Reason: MissingKey, Expected: describe(en.val), Detail: "no key of actual equals the expected key"}
	case 1:
		if m := c.compare(actual[keyed[0]].val, en.val, kp, depth+1); m != nil {
			return m
		}
	}
	return &Mismatch{Path: kp, Reason: CountMismatch, Expected: describe(en.val),
		Detail: fmt.Sprintf("all %d entries with an equal key are paired with other expected entries", len(keyed))}
}

// sameKey reports whether two keys are structurally equal, which for
// partial containment means containment in both directions.
func (c *comparator) sameKey(a, e reflect.Value, depth int) bool {
	return c.compare(a, e, nil, depth+1) == nil && c.compare(e, a, nil, depth+1) == nil
}

// directLookup reports whether keys of expected can be looked up in actual
// with MapIndex. That holds when both maps share a key type whose equality
// is exact scalar equality.
func directLookup(at, et reflect.Type) bool {
	if at != et {
		return false
	}
	switch at.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// sortedKeys returns the keys of map v ordered by their rendering.
func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = formatKey(k)
	}
	sort.Sort(byName{keys, names})
	return keys
}

type byName struct {
	keys  []reflect.Value
	names []string
}

func (s byName) Len() int           { return len(s.keys) }
func (s byName) Less(i, j int) bool { return s.names[i] < s.names[j] }
func (s byName) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.names[i], s.names[j] = s.names[j], s.names[i]
}

// entries lists the entries of a map or *sync.Map ordered by key rendering.
func entries(v reflect.Value) []entry {
	if v.Kind() == reflect.Map {
		keys := sortedKeys(v)
		out := make([]entry, len(keys))
		for i, k := range keys {
			out[i] = entry{key: k, val: v.MapIndex(k)}
		}
		return out
	}

	var out []entry
	var names []string
	v.Interface().(*sync.Map).Range(func(k, val any) bool {
		kv := reflect.ValueOf(k)
		out = append(out, entry{key: kv, val: reflect.ValueOf(val)})
		names = append(names, formatKey(kv))
		return true
	})
	sort.Sort(byEntryName{out, names})
	return out
}

type byEntryName struct {
	entries []entry
	names   []string
}

func (s byEntryName) Len() int           { return len(s.entries) }
func (s byEntryName) Less(i, j int) bool { return s.names[i] < s.names[j] }
func (s byEntryName) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.names[i], s.names[j] = s.names[j], s.names[i]
}
