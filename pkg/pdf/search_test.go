package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearchChars(t *testing.T) {
	chars := sampleChars()
	org := NewTextOrganizer()

	tests := []struct {
		name   string
		needle string
		want   []BoundingBox
	}{
		{"case insensitive phrase", "hello  WORLD", []BoundingBox{{X0: 10, Y0: 92, X1: 65, Y1: 102}}},
		{"every occurrence", "o", []BoundingBox{{X0: 30, Y0: 92, X1: 35, Y1: 102}, {X0: 45, Y0: 92, X1: 50, Y1: 102}}},
		{"across the word gap", "lo w", []BoundingBox{{X0: 25, Y0: 92, X1: 45, Y1: 102}}},
		{"other line", "next", []BoundingBox{{X0: 10, Y0: 104, X1: 30, Y1: 114}}},
		{"no match", "xyz", nil},
		{"empty needle", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchChars(chars, tt.needle, org)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("searchChars(%q) mismatch (-want +got):\n%s", tt.needle, diff)
			}
		})
	}
}

func TestSearchDoesNotSpanLines(t *testing.T) {
	if got := searchChars(sampleChars(), "world next", NewTextOrganizer()); len(got) != 0 {
		t.Errorf("match spanning lines: %v", got)
	}
}

func TestSearchReturnsOverlappingCandidates(t *testing.T) {
	got := searchChars(layoutChars("ABaba", 10, 100), "aba", NewTextOrganizer())
	if len(got) != 2 {
		t.Fatalf("searchChars() = %v, want 2 candidates", got)
	}
	if got[0].X0 >= got[1].X0 || got[1].X0 >= got[0].X1 {
		t.Errorf("candidates %v and %v do not overlap", got[0], got[1])
	}
}

func TestTextInRect(t *testing.T) {
	chars := sampleChars()
	org := NewTextOrganizer()

	if got := textInRect(chars, BoundingBox{X0: 0, Y0: 90, X1: 36, Y1: 105}, org); got != "Hello" {
		t.Errorf("textInRect() = %q, want %q", got, "Hello")
	}
	if got := textInRect(chars, BoundingBox{X0: 0, Y0: 90, X1: 100, Y1: 120}, org); got != "Hello World Next" {
		t.Errorf("textInRect() = %q, want %q", got, "Hello World Next")
	}
	if got := textInRect(chars, BoundingBox{X0: 500, Y0: 500, X1: 600, Y1: 600}, org); got != "" {
		t.Errorf("textInRect() = %q, want empty", got)
	}
}

func TestTokensInRect(t *testing.T) {
	chars := layoutChars("CONFIDENTIAL DRAFTS", 10, 100)
	tokens := NewTextOrganizer().Tokens(chars, GranularityWord)

	// box over "DRAFT" inside "DRAFTS"
	quad := searchChars(chars, "draft", NewTextOrganizer())[0]
	got := tokenTexts(tokensInRect(chars, tokens, quad))
	if diff := cmp.Diff([]string{"DRAFTS"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	quad = searchChars(chars, "confidential drafts", NewTextOrganizer())[0]
	got = tokenTexts(tokensInRect(chars, tokens, quad))
	if diff := cmp.Diff([]string{"CONFIDENTIAL", "DRAFTS"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
