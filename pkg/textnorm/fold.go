// Package textnorm provides the Unicode normalization used for
// case-insensitive text comparison.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the NFC-normalized full case folding of s.
func Fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(norm.NFC.String(s))
}

// EqualFold reports whether a and b are equal under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsFold reports whether needle occurs in haystack under Fold.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Runes returns the folded runes of s. Full folding may expand a rune
// into several.
func Runes(s string) []rune {
	return []rune(Fold(s))
}
