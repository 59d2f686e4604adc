// Package normalize provides utilities for normalizing text before
// comparison. The catalog is Portuguese, so matching has to survive
// both case and accent differences between what is stored and what the
// operator types.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchText lowercases s, trims surrounding whitespace, and strips
// combining marks, so "José" matches "jose" and "Memórias" matches
// "memorias".
func SearchText(s string) string {
	// Transformers carry state; build the chain per call so concurrent
	// searches never share one.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// Contains reports whether haystack contains needle after both are
// normalized.
func Contains(haystack, needle string) bool {
	return strings.Contains(SearchText(haystack), SearchText(needle))
}
