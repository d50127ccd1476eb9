package pdf

import (
	"bytes"
	"fmt"

	gopdf "github.com/dslipak/pdf"
)

// DslipakDocument implements the TextDocument interface using the
// dslipak/pdf library
type DslipakDocument struct {
	reader *gopdf.Reader
	pages  map[int]*textOnlyPage
}

// OpenWithDslipak opens a PDF held in memory using the dslipak/pdf library
func OpenWithDslipak(data []byte) (*DslipakDocument, error) {
	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}
	return &DslipakDocument{reader: r, pages: make(map[int]*textOnlyPage)}, nil
}

// PageCount returns the total number of pages
func (d *DslipakDocument) PageCount() int {
	if d.reader == nil {
		return 0
	}
	return d.reader.NumPage()
}

// GetTextPage returns a page by index (0-based). Text is read on first access.
func (d *DslipakDocument) GetTextPage(index int) (tp TextPage, err error) {
	if index < 0 || index >= d.PageCount() {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, d.PageCount())
	}
	if p, ok := d.pages[index]; ok {
		return p, nil
	}

	defer func() {
		if r := recover(); r != nil {
			tp, err = nil, fmt.Errorf("failed to read page %d: %v", index+1, r)
		}
	}()

	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found", index+1)
	}

	var vals []float64
	if mb := page.V.Key("MediaBox"); mb.Kind() == gopdf.Array {
		for i := 0; i < mb.Len(); i++ {
			vals = append(vals, mb.Index(i).Float64())
		}
	}
	box := mediaBoxOrLetter(vals)

	var runs []textRun
	for _, t := range page.Content().Text {
		runs = append(runs, textRun{font: t.Font, size: t.FontSize, x: t.X, y: t.Y, w: t.W, s: t.S})
	}

	p := &textOnlyPage{
		pageNumber: index + 1,
		width:      box.Width(),
		height:     box.Height(),
		chars:      runsToChars(runs, box),
	}
	d.pages[index] = p
	return p, nil
}

// Close releases resources associated with the document
func (d *DslipakDocument) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}
