package pdf

import (
	"bytes"
	"fmt"
	"image"

	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// PDFCPUPage implements the Page interface using pdfcpu.
// Edits are kept as a rewritten content stream and stored in the
// document when it is serialized.
type PDFCPUPage struct {
	ctx        *model.Context
	pageNumber int
	pageDict   types.Dict
	resources  types.Dict

	// MediaBox in default user space
	mediaBox BoundingBox
	width    float64
	height   float64
	rotation int

	content    []byte
	parsed     *parsedContent
	redactions []BoundingBox

	dirty    bool // content differs from the stored stream
	isolated bool // original content already wrapped in q/Q

	// err is set when the page could not be read
	err error
}

// NewPDFCPUPage creates a new page using pdfcpu context.
// A page whose dictionary or content cannot be read is still returned;
// Err reports the failure and the page is written back unchanged.
func NewPDFCPUPage(ctx *model.Context, pageNumber int) (*PDFCPUPage, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context is nil")
	}

	if pageNumber < 1 || pageNumber > ctx.PageCount {
		return nil, fmt.Errorf("page number %d out of range [1, %d]", pageNumber, ctx.PageCount)
	}

	// Default US Letter size
	box := BoundingBox{X1: 612, Y1: 792}
	page := &PDFCPUPage{
		ctx:        ctx,
		pageNumber: pageNumber,
		mediaBox:   box,
		width:      box.Width(),
		height:     box.Height(),
	}

	// Get page dictionary and inherited attributes
	pageDict, _, attrs, err := ctx.PageDict(pageNumber, false)
	if err != nil {
		page.err = fmt.Errorf("failed to get page dict: %w", err)
		return page, nil
	}
	if pageDict == nil {
		page.err = fmt.Errorf("page %d not found", pageNumber)
		return page, nil
	}
	page.pageDict = pageDict

	if attrs != nil {
		if attrs.MediaBox != nil {
			box = BoundingBox{
				X0: attrs.MediaBox.LL.X,
				Y0: attrs.MediaBox.LL.Y,
				X1: attrs.MediaBox.UR.X,
				Y1: attrs.MediaBox.UR.Y,
			}.Normalize()
		}
		page.rotation = attrs.Rotate
		page.resources = attrs.Resources
	}
	page.mediaBox = box
	page.width = box.Width()
	page.height = box.Height()

	content, err := page.readContent()
	if err != nil {
		page.err = fmt.Errorf("failed to extract content: %w", err)
		return page, nil
	}
	page.content = content

	return page, nil
}

// brokenPage stands in for a page that could not be constructed at all
func brokenPage(ctx *model.Context, pageNumber int, err error) *PDFCPUPage {
	box := BoundingBox{X1: 612, Y1: 792}
	return &PDFCPUPage{
		ctx:        ctx,
		pageNumber: pageNumber,
		mediaBox:   box,
		width:      box.Width(),
		height:     box.Height(),
		err:        err,
	}
}

// readContent returns the decoded page content, concatenating the streams
// of a Contents array
func (p *PDFCPUPage) readContent() ([]byte, error) {
	contents, found := p.pageDict.Find("Contents")
	if !found || contents == nil {
		return nil, nil
	}

	obj, err := p.ctx.Dereference(contents)
	if err != nil {
		return nil, fmt.Errorf("failed to dereference content: %w", err)
	}

	var refs []types.Object
	switch v := obj.(type) {
	case types.Array:
		refs = v
	case types.StreamDict:
		refs = []types.Object{contents}
	default:
		return nil, nil
	}

	var buf bytes.Buffer
	for _, ref := range refs {
		sd, _, err := p.ctx.DereferenceStreamDict(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to dereference stream: %w", err)
		}
		if sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("failed to decode stream: %w", err)
		}
		buf.Write(sd.Content)
		// streams of an array may split tokens only at whitespace
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// parse returns the parsed content, reusing the result until the next edit
func (p *PDFCPUPage) parse() *parsedContent {
	if p.parsed == nil {
		parser := NewContentStreamParser(p.ctx, p.resources, p.mediaBox.X0, p.mediaBox.Y1)
		p.parsed = parser.parse(p.content)
	}
	return p.parsed
}

// Err reports why the page could not be read, or nil
func (p *PDFCPUPage) Err() error {
	return p.err
}

// GetPageNumber returns the page number (1-based)
func (p *PDFCPUPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *PDFCPUPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *PDFCPUPage) GetHeight() float64 {
	return p.height
}

// GetRotation returns the page rotation in degrees
func (p *PDFCPUPage) GetRotation() int {
	return p.rotation
}

// GetBBox returns the page bounding box
func (p *PDFCPUPage) GetBBox() BoundingBox {
	return BoundingBox{X0: 0, Y0: 0, X1: p.width, Y1: p.height}
}

// GetObjects returns all objects on the page
func (p *PDFCPUPage) GetObjects() Objects {
	return p.parse().objects
}

// ExtractText extracts text from the page
func (p *PDFCPUPage) ExtractText(opts ...TextExtractionOption) string {
	return NewTextOrganizer(opts...).OrganizeText(p.parse().objects.Chars)
}

// ExtractTokens groups the page text into tokens of the given granularity
func (p *PDFCPUPage) ExtractTokens(g Granularity, opts ...TextExtractionOption) []Token {
	return NewTextOrganizer(opts...).Tokens(p.parse().objects.Chars, g)
}

// TextInRect returns the text of the glyphs centred inside r
func (p *PDFCPUPage) TextInRect(r BoundingBox) string {
	return textInRect(p.parse().objects.Chars, r.Normalize(), NewTextOrganizer())
}

// TokensInRect returns the tokens with at least one glyph centred inside r
func (p *PDFCPUPage) TokensInRect(r BoundingBox, g Granularity) []Token {
	chars := p.parse().objects.Chars
	return tokensInRect(chars, NewTextOrganizer().Tokens(chars, g), r.Normalize())
}

// Search returns the boxes of every case-insensitive occurrence of needle
func (p *PDFCPUPage) Search(needle string) []BoundingBox {
	return searchChars(p.parse().objects.Chars, needle, NewTextOrganizer())
}

// AddRedaction marks a region for removal
func (p *PDFCPUPage) AddRedaction(r BoundingBox) {
	p.redactions = append(p.redactions, r.Normalize())
}

// ApplyRedactions removes every glyph centred in a marked region
func (p *PDFCPUPage) ApplyRedactions() (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	if len(p.redactions) == 0 {
		return 0, nil
	}
	marks := p.redactions
	p.redactions = nil

	pc := p.parse()
	remove := make(map[int]map[int]bool)
	count := 0
	for _, ch := range pc.objects.Chars {
		cx, cy := ch.GetBBox().Center()
		for _, r := range marks {
			if !r.Contains(cx, cy) {
				continue
			}
			if remove[ch.op] == nil {
				remove[ch.op] = make(map[int]bool)
			}
			remove[ch.op][ch.glyph] = true
			count++
			break
		}
	}
	if count == 0 {
		return 0, nil
	}

	p.setContent(removeGlyphs(pc, remove))
	return count, nil
}

// DrawRect paints a rectangle on top of the page content.
// The rectangle is clipped to the page.
func (p *PDFCPUPage) DrawRect(r BoundingBox, stroke, fill Color, lineWidth float64) error {
	if p.err != nil {
		return p.err
	}
	r = r.Normalize().Intersect(p.GetBBox())
	if r.IsEmpty() {
		return fmt.Errorf("rectangle outside page %d: %w", p.pageNumber, ErrDegenerateGeometry)
	}

	content := p.content
	if !p.isolated {
		content = isolate(content)
		p.isolated = true
	}
	x := p.mediaBox.X0 + r.X0
	y := p.mediaBox.Y1 - r.Y1
	content = append(content, rectangleOps(x, y, r.Width(), r.Height(), stroke, fill, lineWidth)...)
	p.setContent(content)
	return nil
}

// Rasterize renders the page, or a clip of it, to an RGBA image
func (p *PDFCPUPage) Rasterize(opts ...RasterOption) (*image.RGBA, error) {
	if p.err != nil {
		return nil, p.err
	}
	return rasterize(p.parse().objects, p.width, p.height, opts)
}

func (p *PDFCPUPage) setContent(content []byte) {
	p.content = content
	p.parsed = nil
	p.dirty = true
}

// flush stores edited content as a new Flate encoded stream
func (p *PDFCPUPage) flush() error {
	if !p.dirty || p.err != nil {
		return nil
	}

	sd := types.StreamDict{
		Dict:           types.NewDict(),
		Content:        p.content,
		FilterPipeline: []types.PDFFilter{{Name: filter.Flate, DecodeParms: nil}},
	}
	sd.InsertName("Filter", filter.Flate)
	if err := sd.Encode(); err != nil {
		return fmt.Errorf("failed to encode content of page %d: %w", p.pageNumber, err)
	}

	ref, err := p.ctx.IndRefForNewObject(sd)
	if err != nil {
		return fmt.Errorf("failed to store content of page %d: %w", p.pageNumber, err)
	}
	p.pageDict.Update("Contents", *ref)
	p.dirty = false
	return nil
}
