package match

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Default thresholds. A match must clear MatchThreshold; Suggest keeps
// anything at or above SuggestThreshold.
const (
	DefaultMatchThreshold   = 0.6
	DefaultSuggestThreshold = 0.5
)

// Resolver runs the tiered matching strategy against an Index:
// exact key hit, then substring, then best similarity ratio at or above
// the match threshold. The first tier that produces a result wins.
type Resolver struct {
	norm             *Normalizer
	matchThreshold   float64
	suggestThreshold float64
	params           *levenshtein.Params
}

// NewResolver builds a Resolver. Thresholds at or below zero fall back to
// the defaults.
func NewResolver(n *Normalizer, matchThreshold, suggestThreshold float64) *Resolver {
	if matchThreshold <= 0 {
		matchThreshold = DefaultMatchThreshold
	}
	if suggestThreshold <= 0 {
		suggestThreshold = DefaultSuggestThreshold
	}
	return &Resolver{
		norm:             n,
		matchThreshold:   matchThreshold,
		suggestThreshold: suggestThreshold,
		params:           levenshtein.NewParams(),
	}
}

// Resolve returns the single best pair for a raw query, or false when no
// tier produces one. A query that normalizes to the empty string never
// matches. Ties at any tier go to the first key in sorted order.
func (r *Resolver) Resolve(query string, ix *Index) (Pair, bool) {
	q := r.norm.Normalize(query)
	if q == "" || ix.Len() == 0 {
		return Pair{}, false
	}

	// Tier 1: exact.
	if p, ok := ix.Lookup(q); ok {
		return p, true
	}

	// Tier 2: query contained in a key.
	for _, key := range ix.Keys() {
		if strings.Contains(key, q) {
			p, _ := ix.Lookup(key)
			return p, true
		}
	}

	// Tier 3: best similarity ratio at or above the threshold.
	var (
		best      Pair
		bestScore float64
	)
	for _, key := range ix.Keys() {
		if score := r.score(q, key, ix.entries[key].title); score > bestScore {
			best, bestScore = ix.entries[key].pair, score
		}
	}
	if bestScore >= r.matchThreshold {
		return best, true
	}
	return Pair{}, false
}

// Suggest ranks the whole index by similarity to the query and returns up
// to limit pairs scoring at or above the suggestion threshold, best first.
// Ties rank in key order.
func (r *Resolver) Suggest(query string, ix *Index, limit int) []Pair {
	q := r.norm.Normalize(query)
	if q == "" || ix.Len() == 0 || limit <= 0 {
		return nil
	}

	type scored struct {
		pair  Pair
		score float64
	}
	ranked := make([]scored, 0, ix.Len())
	for _, key := range ix.Keys() {
		if score := r.score(q, key, ix.entries[key].title); score >= r.suggestThreshold {
			ranked = append(ranked, scored{pair: ix.entries[key].pair, score: score})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	pairs := make([]Pair, len(ranked))
	for i, s := range ranked {
		pairs[i] = s.pair
	}
	return pairs
}

// score compares the normalized query against both the full key and the
// title alone, keeping the better ratio. Scoring the title separately
// stops the scholar-name prefix from drowning title-only queries.
func (r *Resolver) score(q, key, title string) float64 {
	score := levenshtein.Similarity(q, key, r.params)
	if title != "" && title != key {
		if s := levenshtein.Similarity(q, title, r.params); s > score {
			score = s
		}
	}
	return score
}
