package pdf

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// layoutChars places one 5pt wide char per rune on a baseline
func layoutChars(s string, x, y float64) []CharObject {
	var chars []CharObject
	for _, r := range s {
		chars = append(chars, CharObject{
			Text:     string(r),
			FontSize: 10,
			X0:       x,
			Y0:       y - 8,
			X1:       x + 5,
			Y1:       y + 2,
			Width:    5,
			Height:   10,
			OriginX:  x,
			OriginY:  y,
		})
		x += 5
	}
	return chars
}

func sampleChars() []CharObject {
	var chars []CharObject
	chars = append(chars, layoutChars("Far", 10, 300)...)
	chars = append(chars, layoutChars("Next", 10, 112)...)
	chars = append(chars, layoutChars("Hello World", 10, 100)...)
	return chars
}

func tokenTexts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}

func TestTokens(t *testing.T) {
	org := NewTextOrganizer()
	tests := []struct {
		g    Granularity
		want []string
	}{
		{GranularityWord, []string{"Hello", "World", "Next", "Far"}},
		{GranularityLine, []string{"Hello World", "Next", "Far"}},
		{GranularityBlock, []string{"Hello World\nNext", "Far"}},
	}

	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			got := tokenTexts(org.Tokens(sampleChars(), tt.g))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokens(%s) mismatch (-want +got):\n%s", tt.g, diff)
			}
		})
	}
}

func TestTokenBBox(t *testing.T) {
	words := NewTextOrganizer().Tokens(layoutChars("Hello World", 10, 100), GranularityWord)
	if len(words) != 2 {
		t.Fatalf("words = %d, want 2", len(words))
	}
	want := BoundingBox{X0: 40, Y0: 92, X1: 65, Y1: 102}
	if diff := cmp.Diff(want, words[1].BBox); diff != "" {
		t.Errorf("bbox mismatch (-want +got):\n%s", diff)
	}
}

func TestWordGapSplits(t *testing.T) {
	chars := append(layoutChars("AB", 10, 100), layoutChars("CD", 30, 100)...)

	got := tokenTexts(NewTextOrganizer().Tokens(chars, GranularityWord))
	if diff := cmp.Diff([]string{"AB", "CD"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	got = tokenTexts(NewTextOrganizer(WithXTolerance(15)).Tokens(chars, GranularityWord))
	if diff := cmp.Diff([]string{"ABCD"}, got); diff != "" {
		t.Errorf("wide tolerance mismatch (-want +got):\n%s", diff)
	}
}

func TestRotatedTextFormsOwnLine(t *testing.T) {
	chars := layoutChars("Body", 10, 100)

	step := 7 / math.Sqrt2
	for i, r := range "DRAFT" {
		x, y := 100+float64(i)*step, 400-float64(i)*step
		chars = append(chars, CharObject{
			Text:     string(r),
			FontSize: 10,
			X0:       x,
			Y0:       y - 8,
			X1:       x + 5,
			Y1:       y,
			Width:    7,
			Height:   10,
			OriginX:  x,
			OriginY:  y,
			Angle:    -45,
		})
	}

	got := tokenTexts(NewTextOrganizer().Tokens(chars, GranularityLine))
	if diff := cmp.Diff([]string{"Body", "DRAFT"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrganizeText(t *testing.T) {
	got := NewTextOrganizer().OrganizeText(sampleChars())
	want := "Hello World\nNext\nFar"
	if got != want {
		t.Errorf("OrganizeText() = %q, want %q", got, want)
	}

	if got := NewTextOrganizer().OrganizeText(nil); got != "" {
		t.Errorf("OrganizeText(nil) = %q, want empty", got)
	}
}

func TestParseGranularity(t *testing.T) {
	for _, s := range []string{"word", "line", "block"} {
		g, err := ParseGranularity(s)
		if err != nil {
			t.Fatalf("ParseGranularity(%q): %v", s, err)
		}
		if g.String() != s {
			t.Errorf("round trip %q -> %q", s, g.String())
		}
	}
	if _, err := ParseGranularity("page"); err == nil {
		t.Error("expected error for unknown granularity")
	}
}
