package pdf

import (
	"math"
	"strings"
	"testing"
)

func parseTestContent(content string) *parsedContent {
	return NewContentStreamParser(nil, nil, 0, 792).parse([]byte(content))
}

// removeChars removes the glyphs of the chars at the given indices
func removeChars(pc *parsedContent, idx ...int) []byte {
	remove := make(map[int]map[int]bool)
	for _, i := range idx {
		ch := pc.objects.Chars[i]
		if remove[ch.op] == nil {
			remove[ch.op] = make(map[int]bool)
		}
		remove[ch.op][ch.glyph] = true
	}
	return removeGlyphs(pc, remove)
}

func TestRemoveGlyphs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		remove  []int
		want    string
	}{
		{
			name:    "Tj suffix",
			content: "BT /F1 10 Tf 100 700 Td (Hello World) Tj ET",
			remove:  []int{6, 7, 8, 9, 10},
			want:    "BT\n/F1 10 Tf\n100 700 Td\n[<48656C6C6F20> -2600] TJ\nET\n",
		},
		{
			name:    "character spacing",
			content: "BT /F1 10 Tf 2 Tc 100 700 Td (ab) Tj ET",
			remove:  []int{1},
			want:    "BT\n/F1 10 Tf\n2 Tc\n100 700 Td\n[<61> -700] TJ\nET\n",
		},
		{
			name:    "TJ keeps adjustments",
			content: "BT /F1 10 Tf [(ab) -100 (c)] TJ ET",
			remove:  []int{1},
			want:    "BT\n/F1 10 Tf\n[<61> -600 <63>] TJ\nET\n",
		},
		{
			name:    "quote operator",
			content: "BT /F1 10 Tf 12 TL 100 700 Td (ab) ' ET",
			remove:  []int{0},
			want:    "BT\n/F1 10 Tf\n12 TL\n100 700 Td\nT*\n[-500 <62>] TJ\nET\n",
		},
		{
			name:    "nothing removed",
			content: "BT /F1 10 Tf (ab) Tj ET",
			remove:  nil,
			want:    "BT\n/F1 10 Tf\n(ab) Tj\nET\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(removeChars(parseTestContent(tt.content), tt.remove...))
			if got != tt.want {
				t.Errorf("removeGlyphs() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRemoveGlyphsKeepsPositions(t *testing.T) {
	content := "BT /F1 10 Tf 100 700 Td (Hello World) Tj ET"
	before := parseTestContent(content).objects.Chars

	// remove "Hello"
	after := parseTestContent(string(removeChars(parseTestContent(content), 0, 1, 2, 3, 4))).objects.Chars
	if len(after) != len(before)-5 {
		t.Fatalf("chars after removal = %d, want %d", len(after), len(before)-5)
	}

	for i, ch := range after {
		orig := before[i+5]
		if ch.Text != orig.Text {
			t.Errorf("char %d = %q, want %q", i, ch.Text, orig.Text)
		}
		if math.Abs(ch.X0-orig.X0) > 0.001 {
			t.Errorf("char %q moved from %.3f to %.3f", ch.Text, orig.X0, ch.X0)
		}
	}
}

func TestRectangleOps(t *testing.T) {
	got := string(rectangleOps(0, 0, 100, 30, White, White, 0))
	want := "q\n0 w\n1 1 1 RG\n1 1 1 rg\n0 0 100 30 re\nB\nQ\n"
	if got != want {
		t.Errorf("rectangleOps() = %q, want %q", got, want)
	}
}

func TestIsolate(t *testing.T) {
	got := string(isolate([]byte("1 0 0 rg")))
	if !strings.HasPrefix(got, "q\n") || !strings.HasSuffix(got, "1 0 0 rg\nQ\n") {
		t.Errorf("isolate() = %q", got)
	}
}
