package pdf

import (
	"fmt"
	"strings"
)

// Backend names a library used to read text
type Backend string

const (
	BackendLedongthuc Backend = "ledongthuc"
	BackendDslipak    Backend = "dslipak"
	BackendPDFCPU     Backend = "pdfcpu"
)

// DefaultBackends is the order text backends are tried in. ledongthuc
// positions text most accurately; pdfcpu reads the most files.
var DefaultBackends = []Backend{BackendLedongthuc, BackendDslipak, BackendPDFCPU}

// ParseBackend parses a backend name
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BackendLedongthuc, BackendDslipak, BackendPDFCPU:
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// OpenText opens data with the first backend that accepts it and reports
// which one did. A backend that fails or panics is skipped.
func OpenText(data []byte, backends ...Backend) (TextDocument, Backend, error) {
	if len(backends) == 0 {
		backends = DefaultBackends
	}

	var errs []string
	for _, b := range backends {
		doc, err := openTextWith(data, b)
		if err == nil {
			return doc, b, nil
		}
		errs = append(errs, fmt.Sprintf("%s: %v", b, err))
	}
	return nil, "", fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(errs, "; "))
}

func openTextWith(data []byte, b Backend) (doc TextDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	switch b {
	case BackendLedongthuc:
		d, err := OpenWithLedongthuc(data)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendDslipak:
		d, err := OpenWithDslipak(data)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendPDFCPU:
		return OpenBytes(data)
	}
	return nil, fmt.Errorf("unknown backend %q", b)
}

// textRun is a string shown at one position, as reported by the
// ledongthuc and dslipak readers in PDF user space
type textRun struct {
	font string
	size float64
	x, y float64
	w    float64
	s    string
}

// mediaBoxOrLetter returns the MediaBox corners, defaulting to US Letter
func mediaBoxOrLetter(vals []float64) BoundingBox {
	if len(vals) == 4 {
		box := BoundingBox{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}.Normalize()
		if !box.IsEmpty() {
			return box
		}
	}
	return BoundingBox{X1: 612, Y1: 792}
}

// runsToChars splits text runs into chars in page space. Each rune of a
// run gets an equal share of the run's width.
func runsToChars(runs []textRun, mediaBox BoundingBox) []CharObject {
	var chars []CharObject
	for _, run := range runs {
		runes := []rune(run.s)
		if len(runes) == 0 {
			continue
		}
		charWidth := run.w / float64(len(runes))
		x := run.x - mediaBox.X0
		baseline := mediaBox.Y1 - run.y

		for _, r := range runes {
			chars = append(chars, CharObject{
				Text:     string(r),
				Font:     run.font,
				FontSize: run.size,
				X0:       x,
				Y0:       baseline - run.size*glyphAscent,
				X1:       x + charWidth,
				Y1:       baseline - run.size*glyphDescent,
				Width:    charWidth,
				Height:   run.size,
				Color:    Black,
				OriginX:  x,
				OriginY:  baseline,
				Seq:      len(chars) + 1,
			})
			x += charWidth
		}
	}
	return chars
}

// textOnlyPage is a page of a read-only backend
type textOnlyPage struct {
	pageNumber int
	width      float64
	height     float64
	chars      []CharObject
}

// GetPageNumber returns the page number (1-based)
func (p *textOnlyPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *textOnlyPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *textOnlyPage) GetHeight() float64 {
	return p.height
}

// GetObjects returns the chars of the page; these backends report no graphics
func (p *textOnlyPage) GetObjects() Objects {
	return Objects{Chars: p.chars}
}

// ExtractText extracts text from the page
func (p *textOnlyPage) ExtractText(opts ...TextExtractionOption) string {
	return NewTextOrganizer(opts...).OrganizeText(p.chars)
}

// ExtractTokens groups the page text into tokens of the given granularity
func (p *textOnlyPage) ExtractTokens(g Granularity, opts ...TextExtractionOption) []Token {
	return NewTextOrganizer(opts...).Tokens(p.chars, g)
}
