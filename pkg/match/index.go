package match

import (
	"log/slog"
	"sort"
)

// Pair identifies one catalog entry. The locator stays outside the core.
type Pair struct {
	Scholar string `json:"scholar"`
	Title   string `json:"title"`
}

type indexEntry struct {
	pair  Pair
	title string // normalized title alone, used for similarity scoring
}

// Index is the flattened search space for one catalog snapshot: the
// normalized "scholar title" key of every entry, mapped back to its pair.
// When two entries normalize to the same key the later one wins; the
// collision is counted and logged, never an error. Callers needing the
// colliding originals must go back to the catalog itself.
type Index struct {
	keys    []string
	entries map[string]indexEntry
}

// BuildIndex flattens the snapshot. Keys() is sorted so that every tie in
// the resolver breaks the same way on every call.
func BuildIndex(n *Normalizer, pairs []Pair) *Index {
	ix := &Index{entries: make(map[string]indexEntry, len(pairs))}

	var collisions int
	for _, p := range pairs {
		key := n.Normalize(p.Scholar + " " + p.Title)
		if key == "" {
			continue
		}
		if _, exists := ix.entries[key]; exists {
			collisions++
		}
		ix.entries[key] = indexEntry{pair: p, title: n.Normalize(p.Title)}
	}

	ix.keys = make([]string, 0, len(ix.entries))
	for key := range ix.entries {
		ix.keys = append(ix.keys, key)
	}
	sort.Strings(ix.keys)

	if collisions > 0 {
		slog.Warn("key collisions after normalization", "collisions", collisions)
	}
	return ix
}

// Lookup returns the pair stored under an already-normalized key.
func (ix *Index) Lookup(key string) (Pair, bool) {
	e, ok := ix.entries[key]
	return e.pair, ok
}

// Keys returns the index keys in sorted order.
func (ix *Index) Keys() []string {
	return ix.keys
}

// Len returns the number of distinct keys.
func (ix *Index) Len() int {
	return len(ix.entries)
}
