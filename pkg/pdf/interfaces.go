package pdf

import (
	"image"
)

// TextDocument is a read-only document that can produce text tokens.
// It is implemented by every backend.
type TextDocument interface {
	// PageCount returns the total number of pages
	PageCount() int

	// GetTextPage returns a page by index (0-based)
	GetTextPage(index int) (TextPage, error)

	// Close releases resources associated with the document
	Close() error
}

// TextPage is the read-only view of a page
type TextPage interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractText extracts text from the page, one line per row
	ExtractText(opts ...TextExtractionOption) string

	// ExtractTokens groups the page text into tokens of the given granularity
	ExtractTokens(g Granularity, opts ...TextExtractionOption) []Token
}

// Document is an editable PDF document
type Document interface {
	TextDocument

	// GetMetadata returns the PDF metadata
	GetMetadata() Metadata

	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// ClearMetadata removes the document information dictionary entries and XMP metadata
	ClearMetadata() error

	// Bytes serializes the document with all pending page edits
	Bytes() ([]byte, error)
}

// Page is an editable page
type Page interface {
	TextPage

	// Err reports why the page could not be read. Such a page has no
	// content, refuses edits and is written back unchanged.
	Err() error

	// GetRotation returns the page rotation in degrees
	GetRotation() int

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// TextInRect returns the text of the glyphs centred inside r
	TextInRect(r BoundingBox) string

	// TokensInRect returns the tokens with at least one glyph centred inside r
	TokensInRect(r BoundingBox, g Granularity) []Token

	// Search returns the boxes of every case-insensitive occurrence of needle
	Search(needle string) []BoundingBox

	// AddRedaction marks a region for removal
	AddRedaction(r BoundingBox)

	// ApplyRedactions removes every glyph centred in a marked region and
	// returns the number of glyphs removed
	ApplyRedactions() (int, error)

	// DrawRect paints a rectangle on top of the page content
	DrawRect(r BoundingBox, stroke, fill Color, lineWidth float64) error

	// Rasterize renders the page, or a clip of it, to an RGBA image
	Rasterize(opts ...RasterOption) (*image.RGBA, error)
}
