// Package mask paints header and footer bands in the page's own
// background colour.
package mask

import (
	"math"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

// sampleOffset is the distance of the sampled pixel from the page bottom
const sampleOffset = 10

// SampleBackground returns the colour of the 1x1 point area ten points above
// the bottom left corner of the page, or white when it cannot be rendered
func SampleBackground(page pdf.Page) pdf.Color {
	h := page.GetHeight()
	if h <= 0 || page.GetWidth() <= 0 {
		return pdf.White
	}

	top := math.Max(0, h-sampleOffset)
	clip := pdf.BoundingBox{X0: 0, Y0: top, X1: 1, Y1: top + 1}
	img, err := page.Rasterize(pdf.WithScale(1), pdf.WithClip(clip))
	if err != nil || img.Bounds().Empty() {
		return pdf.White
	}
	return pdf.ColorFromRGBA(img.RGBAAt(img.Bounds().Min.X, img.Bounds().Min.Y))
}
