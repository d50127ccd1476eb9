package pdf

import (
	"bytes"
	"fmt"

	lpdf "github.com/ledongthuc/pdf"
)

// LedongthucDocument implements the TextDocument interface using the
// ledongthuc/pdf library
type LedongthucDocument struct {
	reader *lpdf.Reader
	pages  map[int]*textOnlyPage
}

// OpenWithLedongthuc opens a PDF held in memory using the ledongthuc/pdf library
func OpenWithLedongthuc(data []byte) (*LedongthucDocument, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}
	return &LedongthucDocument{reader: r, pages: make(map[int]*textOnlyPage)}, nil
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	if d.reader == nil {
		return 0
	}
	return d.reader.NumPage()
}

// GetTextPage returns a page by index (0-based). Text is read on first access.
func (d *LedongthucDocument) GetTextPage(index int) (tp TextPage, err error) {
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
	if mb := page.V.Key("MediaBox"); mb.Kind() == lpdf.Array {
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
func (d *LedongthucDocument) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}
