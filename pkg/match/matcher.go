package match

import (
	"strings"

	"github.com/pyhub-apps/docpolish-golang/pkg/textnorm"
)

// Matches applies the matching rule selected by matchCase and wholeWord:
//
//	matchCase  wholeWord  rule
//	true       true       token equals keyword
//	true       false      token contains keyword
//	false      true       folded token equals folded keyword
//	false      false      folded token contains folded keyword
//
// An empty keyword never matches.
func Matches(token, keyword string, matchCase, wholeWord bool) bool {
	if keyword == "" {
		return false
	}
	switch {
	case matchCase && wholeWord:
		return token == keyword
	case matchCase:
		return strings.Contains(token, keyword)
	case wholeWord:
		return textnorm.EqualFold(token, keyword)
	default:
		return textnorm.ContainsFold(token, keyword)
	}
}

// Matches reports whether token matches any configured keyword
func (c Configuration) Matches(token string) bool {
	for _, k := range c.keywords {
		if c.MatchesKeyword(token, k) {
			return true
		}
	}
	return false
}

// MatchesKeyword applies the configured rule to a single keyword
func (c Configuration) MatchesKeyword(token, keyword string) bool {
	return Matches(token, keyword, c.matchCase, c.wholeWord)
}
