// Package match implements the book lookup core: query normalization,
// the flattened catalog index, and the tiered resolver.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes compatibility forms and removes combining marks,
// so hamza carriers, madda and the harakat vanish before folding.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes free text for comparison. The fold table maps
// letter variants to a canonical representative; a zero target drops the
// rune entirely.
type Normalizer struct {
	folds map[rune]rune
}

// DefaultFolds returns the Arabic letter-variant table. The hamza-carrier
// alefs need no entry: NFKD splits them into bare alef plus a combining
// mark, which stripMarks already removes.
func DefaultFolds() map[rune]rune {
	return map[rune]rune{
		'ة': 'ه', // ta marbuta -> ha
		'ى': 'ي', // alef maksura -> ya
		'ٱ': 'ا', // alef wasla -> alef
		'ؤ': 'و', // waw with hamza -> waw
		'ئ': 'ي', // ya with hamza -> ya
		'ء': 0,        // lone hamza dropped
		'ـ': 0,        // tatweel dropped
	}
}

// NewNormalizer builds a Normalizer with the given fold table.
// A nil table means no folding beyond decomposition and mark removal.
func NewNormalizer(folds map[rune]rune) *Normalizer {
	n := &Normalizer{folds: make(map[rune]rune, len(folds))}
	for from, to := range folds {
		n.folds[from] = to
	}
	return n
}

// Normalize canonicalizes s. The pipeline order is fixed: decompose,
// strip combining marks, fold letter variants, collapse underscores,
// punctuation and whitespace runs to single spaces, lowercase, trim.
// Pure and idempotent.
func (n *Normalizer) Normalize(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	space := true // swallow leading spaces
	for _, r := range stripped {
		if to, ok := n.folds[r]; ok {
			if to == 0 {
				continue
			}
			r = to
		}
		if r == '_' || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		b.WriteRune(unicode.ToLower(r))
		space = false
	}
	return strings.TrimRight(b.String(), " ")
}
