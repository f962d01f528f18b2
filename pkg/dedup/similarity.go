// Package dedup implements the contact deduplication engine: name similarity
// scoring, the pairwise duplicate scanner, and the merge executor.
package dedup

import (
	"math"
	"strings"
	"unicode"
)

// fillerWords are organizational terms stripped during name normalization so
// that "Acme Company" and "Acme" compare as the same organization. Persian
// forms are included alongside English because contact data mixes both.
var fillerWords = map[string]bool{
	"company":      true,
	"co":           true,
	"corp":         true,
	"corporation":  true,
	"organization": true,
	"org":          true,
	"institute":    true,
	"group":        true,
	"ltd":          true,
	"inc":          true,
	"شرکت":         true, // company
	"سازمان":       true, // organization
	"موسسه":        true, // institute
	"مؤسسه":        true, // institute (variant spelling)
	"گروه":         true, // group
}

// NormalizeName lower-cases a name, strips organizational filler words and
// punctuation, and collapses whitespace. Idempotent:
// NormalizeName(NormalizeName(s)) == NormalizeName(s).
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	// Punctuation becomes a word boundary so "acme.co" splits cleanly.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !fillerWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Similarity scores how alike two short strings are on a 0-100 scale.
// Both sides are normalized first: equal strings score 100, containment
// scores 80, and anything else falls back to word-set overlap scaled to a
// 70-point ceiling. Symmetric by construction. Filler-only names normalize
// to the empty string, so they compare equal to each other and are contained
// in everything else.
func Similarity(a, b string) int {
	na := NormalizeName(a)
	nb := NormalizeName(b)

	if na == nb {
		return 100
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 80
	}

	wordsA := strings.Fields(na)
	wordsB := strings.Fields(nb)

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}

	denom := len(setA)
	if len(setB) > denom {
		denom = len(setB)
	}
	return int(math.Round(float64(shared) / float64(denom) * 70))
}
