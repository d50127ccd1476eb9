package detect

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/pyhub-apps/docpolish-golang/internal/testpdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// buildDoc creates n pages with a unique body line; footer is added to
// the pages for which withFooter returns true
func buildDoc(n int, footer string, withFooter func(page int) bool) []byte {
	doc := testpdf.Doc{}
	for i := 0; i < n; i++ {
		p := testpdf.Page{
			Width:  612,
			Height: 792,
			Texts:  []testpdf.Text{{X: 72, Y: 700, Size: 12, S: fmt.Sprintf("Report section %d", i+1)}},
		}
		if withFooter(i) {
			p.Texts = append(p.Texts, testpdf.Text{X: 72, Y: 30, Size: 10, S: footer})
		}
		doc.Pages = append(doc.Pages, p)
	}
	return testpdf.Build(doc)
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want int
	}{
		{"defaults", nil, 3},
		{"small fraction", []Option{WithFraction(0.1)}, 2},
		{"more pages", []Option{WithPageLimit(10)}, 6},
		{"explicit", []Option{WithThreshold(4)}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.opts...).Threshold(); got != tt.want {
				t.Errorf("Threshold() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDetectRepeatedFooter(t *testing.T) {
	// footer on all but one of the first five pages
	data := buildDoc(5, "Company Confidential", func(p int) bool { return p != 2 })

	d := New(WithBackends(pdf.BackendPDFCPU), WithLogger(quietLogger()))
	if got := d.Detect(data); got != "Company Confidential" {
		t.Errorf("Detect() = %q, want %q", got, "Company Confidential")
	}
}

func TestDetectBelowThreshold(t *testing.T) {
	data := buildDoc(5, "Company Confidential", func(p int) bool { return p < 2 })

	d := New(WithBackends(pdf.BackendPDFCPU), WithLogger(quietLogger()))
	if got := d.Detect(data); got != "" {
		t.Errorf("Detect() = %q, want empty", got)
	}
}

func TestDetectOnlyFirstPages(t *testing.T) {
	// the footer only appears after the page limit
	data := buildDoc(8, "Late Footer", func(p int) bool { return p >= 5 })

	d := New(WithBackends(pdf.BackendPDFCPU), WithLogger(quietLogger()))
	if got := d.Detect(data); got != "" {
		t.Errorf("Detect() = %q, want empty", got)
	}
}

func TestDetectMinLengthAndOrder(t *testing.T) {
	doc := testpdf.Doc{}
	for i := 0; i < 3; i++ {
		doc.Pages = append(doc.Pages, testpdf.Page{
			Width:  612,
			Height: 792,
			Texts: []testpdf.Text{
				{X: 72, Y: 760, Size: 10, S: "ACME Corp"},
				{X: 300, Y: 400, Size: 10, S: "ab"},
				{X: 72, Y: 30, Size: 10, S: "DRAFT"},
				// repeated on the same page counts once
				{X: 72, Y: 200, Size: 10, S: "DRAFT"},
			},
		})
	}

	d := New(WithBackends(pdf.BackendPDFCPU), WithLogger(quietLogger()))
	if got := d.Detect(testpdf.Build(doc)); got != "ACME Corp, DRAFT" {
		t.Errorf("Detect() = %q, want %q", got, "ACME Corp, DRAFT")
	}

	d = New(WithBackends(pdf.BackendPDFCPU), WithLogger(quietLogger()), WithThreshold(4))
	if got := d.Detect(testpdf.Build(doc)); got != "" {
		t.Errorf("Detect() with threshold 4 = %q, want empty", got)
	}
}

func TestDetectDefaultBackends(t *testing.T) {
	data := buildDoc(3, "Internal Use", func(int) bool { return true })

	if got := New(WithLogger(quietLogger())).Detect(data); got != "Internal Use" {
		t.Errorf("Detect() = %q, want %q", got, "Internal Use")
	}
}

func TestDetectUnreadableInput(t *testing.T) {
	d := New(WithLogger(quietLogger()))
	for _, data := range [][]byte{nil, []byte("not a pdf"), []byte("%PDF-1.7\n1 0 obj <<")} {
		if got := d.Detect(data); got != "" {
			t.Errorf("Detect(%q) = %q, want empty", data, got)
		}
	}
}
