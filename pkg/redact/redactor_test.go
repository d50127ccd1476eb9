package redact

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/docpolish-golang/internal/testpdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

func openPage(t *testing.T, texts ...string) pdf.Page {
	t.Helper()
	page := testpdf.Page{Width: 612, Height: 792}
	for i, s := range texts {
		page.Texts = append(page.Texts, testpdf.Text{X: 72, Y: 700 - float64(i)*20, Size: 12, S: s})
	}

	doc, err := pdf.OpenBytes(testpdf.Build(testpdf.Doc{Pages: []testpdf.Page{page}}))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	t.Cleanup(func() { doc.Close() })

	p, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	return p
}

func lines(p pdf.Page) []string {
	var texts []string
	for _, tok := range p.ExtractTokens(pdf.GranularityLine) {
		texts = append(texts, tok.Text)
	}
	return texts
}

func TestRedact(t *testing.T) {
	tests := []struct {
		name     string
		texts    []string
		keywords string
		opts     []match.Option
		removed  int
		want     []string
	}{
		{
			name:     "case insensitive substring",
			texts:    []string{"Quarterly report", "CONFIDENTIAL DRAFT"},
			keywords: "confidential",
			removed:  12,
			want:     []string{"Quarterly report", "DRAFT"},
		},
		{
			name:     "several keywords commit together",
			texts:    []string{"Quarterly report", "CONFIDENTIAL DRAFT"},
			keywords: "confidential, draft",
			removed:  17,
			want:     []string{"Quarterly report"},
		},
		{
			name:     "match case skips other case",
			texts:    []string{"Draft notes", "DRAFT"},
			keywords: "Draft",
			opts:     []match.Option{match.WithMatchCase(true)},
			removed:  5,
			want:     []string{"notes", "DRAFT"},
		},
		{
			name:     "match case finds an occurrence overlapping a rejected one",
			texts:    []string{"ABaba tail"},
			keywords: "aba",
			opts:     []match.Option{match.WithMatchCase(true)},
			removed:  3,
			want:     []string{"AB tail"},
		},
		{
			name:     "whole word skips longer words",
			texts:    []string{"DRAFTS are kept", "DRAFT"},
			keywords: "draft",
			opts:     []match.Option{match.WithWholeWord(true)},
			removed:  5,
			want:     []string{"DRAFTS are kept"},
		},
		{
			name:     "whole word phrase",
			texts:    []string{"CONFIDENTIAL DRAFT"},
			keywords: "confidential draft",
			opts:     []match.Option{match.WithWholeWord(true)},
			// the space between the words is inside the match
			removed: 18,
			want:     nil,
		},
		{
			name:     "whole line granularity",
			texts:    []string{"CONFIDENTIAL DRAFT", "DRAFT"},
			keywords: "draft",
			opts:     []match.Option{match.WithWholeWord(true), match.WithGranularity(pdf.GranularityLine)},
			removed:  5,
			want:     []string{"CONFIDENTIAL DRAFT"},
		},
		{
			name:     "no match",
			texts:    []string{"Quarterly report"},
			keywords: "secret",
			removed:  0,
			want:     []string{"Quarterly report"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := openPage(t, tt.texts...)
			cfg, err := match.NewConfiguration(tt.keywords, tt.opts...)
			if err != nil {
				t.Fatalf("NewConfiguration: %v", err)
			}

			n, err := Redact(page, cfg)
			if err != nil {
				t.Fatalf("Redact: %v", err)
			}
			if n != tt.removed {
				t.Errorf("removed %d glyphs, want %d", n, tt.removed)
			}
			if diff := cmp.Diff(tt.want, lines(page)); diff != "" {
				t.Errorf("remaining lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRedactWithoutKeywords(t *testing.T) {
	page := openPage(t, "CONFIDENTIAL")
	cfg, err := match.NewConfiguration("", match.WithFooterHeight(30))
	if err != nil {
		t.Fatalf("NewConfiguration: %v", err)
	}

	n, err := Redact(page, cfg)
	if err != nil || n != 0 {
		t.Fatalf("Redact() = %d, %v; want 0, nil", n, err)
	}
	if diff := cmp.Diff([]string{"CONFIDENTIAL"}, lines(page)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestRedactIsIdempotent(t *testing.T) {
	page := openPage(t, "CONFIDENTIAL DRAFT")
	cfg, _ := match.NewConfiguration("confidential")

	if n, err := Redact(page, cfg); err != nil || n != 12 {
		t.Fatalf("first Redact() = %d, %v", n, err)
	}
	if n, err := Redact(page, cfg); err != nil || n != 0 {
		t.Fatalf("second Redact() = %d, %v; want 0, nil", n, err)
	}
}
