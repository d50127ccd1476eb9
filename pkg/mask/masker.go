package mask

import (
	"fmt"
	"math"

	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

// Mask paints the footer band [h-footer, h] and the header band [0, header]
// across the page in color. Heights larger than the page are clamped and a
// zero height paints nothing.
func Mask(page pdf.Page, header, footer float64, color pdf.Color) error {
	w, h := page.GetWidth(), page.GetHeight()
	if w <= 0 || h <= 0 {
		return nil
	}

	if footer > 0 {
		band := pdf.BoundingBox{X0: 0, Y0: h - math.Min(footer, h), X1: w, Y1: h}
		if err := page.DrawRect(band, color, color, 0); err != nil {
			return fmt.Errorf("failed to mask footer of page %d: %w", page.GetPageNumber(), err)
		}
	}
	if header > 0 {
		band := pdf.BoundingBox{X0: 0, Y0: 0, X1: w, Y1: math.Min(header, h)}
		if err := page.DrawRect(band, color, color, 0); err != nil {
			return fmt.Errorf("failed to mask header of page %d: %w", page.GetPageNumber(), err)
		}
	}
	return nil
}
