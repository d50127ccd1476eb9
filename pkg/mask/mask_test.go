package mask

import (
	"testing"

	"github.com/pyhub-apps/docpolish-golang/internal/testpdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

var cream = testpdf.RGB{R: 1, G: 0.9412, B: 0.8627}

func openPage(t *testing.T, p testpdf.Page) pdf.Page {
	t.Helper()
	doc, err := pdf.OpenBytes(testpdf.Build(testpdf.Doc{Pages: []testpdf.Page{p}}))
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	t.Cleanup(func() { doc.Close() })

	page, err := doc.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	return page
}

// pixel renders one point of the page at 1 px/pt
func pixel(t *testing.T, page pdf.Page, x, y float64) pdf.Color {
	t.Helper()
	img, err := page.Rasterize(pdf.WithClip(pdf.BoundingBox{X0: x, Y0: y, X1: x + 1, Y1: y + 1}))
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	return pdf.ColorFromRGBA(img.RGBAAt(0, 0))
}

func TestSampleBackground(t *testing.T) {
	tests := []struct {
		name string
		page testpdf.Page
		want pdf.Color
	}{
		{"plain page", testpdf.Page{Width: 612, Height: 792}, pdf.White},
		{"tinted page", testpdf.Page{Width: 612, Height: 792, Background: &cream}, pdf.Color{R: 1, G: 240.0 / 255, B: 220.0 / 255}},
		{"page shorter than the offset", testpdf.Page{Width: 100, Height: 5, Background: &cream}, pdf.Color{R: 1, G: 240.0 / 255, B: 220.0 / 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleBackground(openPage(t, tt.page)); got != tt.want {
				t.Errorf("SampleBackground() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaskFooterAndHeader(t *testing.T) {
	page := openPage(t, testpdf.Page{
		Width:  612,
		Height: 792,
		Texts: []testpdf.Text{
			{X: 72, Y: 770, Size: 12, S: "HEADER"},
			{X: 72, Y: 400, Size: 12, S: "Body"},
			{X: 0, Y: 10, Size: 40, S: "FOOTER"},
		},
	})
	red := pdf.Color{R: 1}

	if err := Mask(page, 40, 30, red); err != nil {
		t.Fatalf("Mask: %v", err)
	}

	tests := []struct {
		name string
		x, y float64
		want pdf.Color
	}{
		{"footer band", 5, 780, red},
		{"header band", 5, 10, red},
		{"body", 300, 600, pdf.White},
	}
	for _, tt := range tests {
		if got := pixel(t, page, tt.x, tt.y); got != tt.want {
			t.Errorf("%s pixel = %v, want %v", tt.name, got, tt.want)
		}
	}

	// masking paints over text; it is still extractable
	if got := page.ExtractText(); got == "" {
		t.Error("masking removed text")
	}
}

func TestMaskOversizeBands(t *testing.T) {
	page := openPage(t, testpdf.Page{Width: 200, Height: 100})
	red := pdf.Color{R: 1}

	if err := Mask(page, 500, 500, red); err != nil {
		t.Fatalf("Mask: %v", err)
	}
	for _, y := range []float64{0, 50, 99} {
		if got := pixel(t, page, 100, y); got != red {
			t.Errorf("pixel at y=%v = %v, want whole page masked", y, got)
		}
	}
	if page.GetHeight() != 100 || page.GetWidth() != 200 {
		t.Error("masking changed the page bounds")
	}
}

func TestMaskZeroHeights(t *testing.T) {
	page := openPage(t, testpdf.Page{Width: 200, Height: 100})
	before := page.GetObjects()

	if err := Mask(page, 0, 0, pdf.Color{R: 1}); err != nil {
		t.Fatalf("Mask: %v", err)
	}
	after := page.GetObjects()
	if len(after.Rects) != len(before.Rects) || len(after.Lines) != len(before.Lines) {
		t.Error("zero heights painted something")
	}
}
