package pdf

import (
	"strings"

	"github.com/pyhub-apps/docpolish-golang/pkg/textnorm"
)

// searchChars finds every case-insensitive occurrence of needle within the
// lines formed by chars. Runs of whitespace in needle match the single gap
// between two words. Matches never span lines but may overlap, so a
// caller that rejects one candidate still sees the next.
func searchChars(chars []CharObject, needle string, org *TextOrganizer) []BoundingBox {
	pattern := textnorm.Runes(strings.Join(strings.Fields(needle), " "))
	if len(pattern) == 0 {
		return nil
	}

	var quads []BoundingBox
	for _, line := range org.lines(chars) {
		text, owners := foldedLine(chars, line)
		for start := 0; start+len(pattern) <= len(text); {
			if !runesEqual(text[start:start+len(pattern)], pattern) {
				start++
				continue
			}
			if box, ok := ownersBox(chars, owners[start:start+len(pattern)]); ok {
				quads = append(quads, box)
			}
			start++
		}
	}
	return quads
}

// foldedLine returns the folded text of a line and, for every rune, the
// index of the char it came from (-1 for the gap between words)
func foldedLine(chars []CharObject, line textLine) ([]rune, []int) {
	var text []rune
	var owners []int
	for wi, w := range line.words {
		if wi > 0 {
			text = append(text, ' ')
			owners = append(owners, -1)
		}
		for _, i := range w.chars {
			for _, r := range textnorm.Runes(chars[i].Text) {
				text = append(text, r)
				owners = append(owners, i)
			}
		}
	}
	return text, owners
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func ownersBox(chars []CharObject, owners []int) (BoundingBox, bool) {
	var box BoundingBox
	found := false
	for _, i := range owners {
		if i < 0 {
			continue
		}
		if !found {
			box = chars[i].GetBBox()
			found = true
			continue
		}
		box = box.Union(chars[i].GetBBox())
	}
	return box, found
}

// charsInRect returns the chars whose centre lies inside r
func charsInRect(chars []CharObject, r BoundingBox) []CharObject {
	var inside []CharObject
	for _, ch := range chars {
		if r.Contains(ch.GetBBox().Center()) {
			inside = append(inside, ch)
		}
	}
	return inside
}

// textInRect returns the text of the chars centred inside r, lines joined
// by single spaces
func textInRect(chars []CharObject, r BoundingBox, org *TextOrganizer) string {
	lines := org.lines(charsInRect(chars, r))
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.text())
	}
	return strings.Join(parts, " ")
}

// tokensInRect keeps the tokens owning a char centred inside r
func tokensInRect(chars []CharObject, tokens []Token, r BoundingBox) []Token {
	var inside []Token
	for _, tok := range tokens {
		for _, i := range tok.chars {
			if r.Contains(chars[i].GetBBox().Center()) {
				inside = append(inside, tok)
				break
			}
		}
	}
	return inside
}
