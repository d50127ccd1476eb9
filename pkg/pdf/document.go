package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrInvalidDocument is returned when bytes cannot be opened as a PDF
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDegenerateGeometry is returned for a region with no area inside the page
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

func init() {
	// keep pdfcpu from creating a configuration directory for the user
	model.ConfigPath = "disable"
}

// PDFDocument implements the Document interface using pdfcpu
type PDFDocument struct {
	ctx      *model.Context
	pages    []*PDFCPUPage
	metadata Metadata
}

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a PDF held in memory. data is not modified.
func OpenBytes(data []byte) (Document, error) {
	doc, err := openBytes(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func openBytes(data []byte) (doc *PDFDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrInvalidDocument, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidDocument)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	// Parse PDF with pdfcpu
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PDF context: %v", ErrInvalidDocument, err)
	}

	// Validate the PDF
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	doc = &PDFDocument{ctx: ctx}
	doc.extractMetadata()

	if err := doc.initializePages(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize pages: %v", ErrInvalidDocument, err)
	}

	return doc, nil
}

// infoDict resolves the document information dictionary
func (d *PDFDocument) infoDict() (types.Dict, error) {
	if d.ctx.Info == nil {
		return nil, nil
	}
	return d.ctx.DereferenceDict(*d.ctx.Info)
}

// extractMetadata extracts PDF metadata from the context
func (d *PDFDocument) extractMetadata() {
	info, err := d.infoDict()
	if err != nil || info == nil {
		return
	}

	get := func(key string) string {
		return getStringFromDict(d.ctx, info, key)
	}
	d.metadata = Metadata{
		Title:        get("Title"),
		Author:       get("Author"),
		Subject:      get("Subject"),
		Keywords:     get("Keywords"),
		Creator:      get("Creator"),
		Producer:     get("Producer"),
		CreationDate: parsePDFDate(get("CreationDate")),
		ModDate:      parsePDFDate(get("ModDate")),
		Trapped:      nameValue(d.ctx, info, "Trapped"),
	}
}

// initializePages initializes all pages in the document. A page that
// cannot be read is kept with its error so the others stay usable.
func (d *PDFDocument) initializePages() error {
	pageCount := d.ctx.PageCount
	d.pages = make([]*PDFCPUPage, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := d.newPage(i)
		if err != nil {
			return fmt.Errorf("failed to create page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

func (d *PDFDocument) newPage(n int) (page *PDFCPUPage, err error) {
	defer func() {
		if r := recover(); r != nil {
			page, err = brokenPage(d.ctx, n, fmt.Errorf("failed to read page %d: %v", n, r)), nil
		}
	}()
	return NewPDFCPUPage(d.ctx, n)
}

// GetMetadata returns the PDF metadata
func (d *PDFDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPages returns all pages in the document
func (d *PDFDocument) GetPages() []Page {
	pages := make([]Page, len(d.pages))
	for i, p := range d.pages {
		pages[i] = p
	}
	return pages
}

// GetPage returns a specific page by index (0-based)
func (d *PDFDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// GetTextPage returns a page by index (0-based)
func (d *PDFDocument) GetTextPage(index int) (TextPage, error) {
	return d.GetPage(index)
}

// PageCount returns the total number of pages
func (d *PDFDocument) PageCount() int {
	return len(d.pages)
}

// ClearMetadata empties the information dictionary and removes XMP
// metadata and private application data from the catalog and every page
func (d *PDFDocument) ClearMetadata() error {
	info, err := d.infoDict()
	if err != nil {
		return fmt.Errorf("failed to read info dict: %w", err)
	}
	for key := range info {
		delete(info, key)
	}

	catalog, err := d.ctx.Catalog()
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	catalog.Delete("Metadata")
	catalog.Delete("PieceInfo")

	for _, p := range d.pages {
		if p.pageDict == nil {
			continue
		}
		p.pageDict.Delete("Metadata")
		p.pageDict.Delete("PieceInfo")
	}

	d.metadata = Metadata{}
	return nil
}

// Bytes stores pending page edits and serializes the document.
// pdfcpu stamps its own Producer and ModDate into the information dictionary.
func (d *PDFDocument) Bytes() (out []byte, err error) {
	if d.ctx == nil {
		return nil, fmt.Errorf("document is closed")
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("failed to write PDF: %v", r)
		}
	}()

	for _, p := range d.pages {
		if err := p.flush(); err != nil {
			return nil, err
		}
	}

	d.ctx.Write = model.NewWriteContext(d.ctx.Configuration.Eol)
	var buf bytes.Buffer
	if err := api.WriteContext(d.ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases resources associated with the document
func (d *PDFDocument) Close() error {
	d.ctx = nil
	d.pages = nil
	return nil
}

// Helper functions

// getStringFromDict decodes a text string, which is either PDFDocEncoded
// or UTF-16BE with a byte order mark
func getStringFromDict(ctx *model.Context, dict types.Dict, key string) string {
	if dict == nil {
		return ""
	}

	obj, found := dict.Find(key)
	if !found || obj == nil {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}

	var raw []byte
	switch v := obj.(type) {
	case types.StringLiteral:
		raw = unescapeLiteral(string(v))
	case types.HexLiteral:
		raw = decodeHex(string(v))
	default:
		return ""
	}
	return decodeTextString(raw)
}

func decodeTextString(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, len(raw)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var sb strings.Builder
	for _, b := range raw {
		sb.WriteString(decodeWinAnsi(b))
	}
	return sb.String()
}

func parsePDFDate(dateStr string) time.Time {
	// PDF date format: D:YYYYMMDDHHmmSSOHH'mm
	dateStr = strings.TrimPrefix(dateStr, "D:")
	if len(dateStr) < 14 {
		return time.Time{}
	}

	layout := "20060102150405"
	t, err := time.Parse(layout, dateStr[:14])
	if err != nil {
		return time.Time{}
	}
	return t
}
