// Package redact removes keyword text from pages.
package redact

import (
	"fmt"
	"strings"

	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

// Redact removes every confirmed keyword occurrence from the page and
// returns the number of glyphs removed. Candidates come from a literal,
// case-insensitive search and are confirmed with the configured matching
// rule before being marked. Marks are committed once, after all keywords.
func Redact(page pdf.Page, cfg match.Configuration) (int, error) {
	keywords := cfg.Keywords()
	if len(keywords) == 0 {
		return 0, nil
	}

	marked := 0
	for _, keyword := range keywords {
		for _, quad := range page.Search(keyword) {
			var text string
			if cfg.WholeWord() {
				text = tokensText(page, quad, cfg.Granularity())
			} else {
				text = page.TextInRect(quad)
			}
			if !cfg.MatchesKeyword(text, keyword) {
				continue
			}
			page.AddRedaction(quad)
			marked++
		}
	}
	if marked == 0 {
		return 0, nil
	}

	removed, err := page.ApplyRedactions()
	if err != nil {
		return 0, fmt.Errorf("failed to apply redactions on page %d: %w", page.GetPageNumber(), err)
	}
	return removed, nil
}

// tokensText joins the text of the tokens that have a glyph centred in quad
func tokensText(page pdf.Page, quad pdf.BoundingBox, g pdf.Granularity) string {
	var parts []string
	for _, tok := range page.TokensInRect(quad, g) {
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}
