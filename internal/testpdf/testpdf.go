// Package testpdf builds small PDF documents for tests.
package testpdf

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// helveticaWidths are the standard Helvetica advances for codes 32-126
var helveticaWidths = []int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
	556, 556, 556, 556, 556, 556, 556, 556, 556, 556,
	278, 278, 584, 584, 584, 556, 1015,
	667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778, 667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611,
	278, 278, 278, 469, 556, 333,
	556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556, 556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500,
	334, 260, 334, 584,
}

// Width returns the advance of s in Helvetica at the given size
func Width(s string, size float64) float64 {
	total := 0
	for i := 0; i < len(s); i++ {
		c := int(s[i])
		if c >= 32 && c <= 126 {
			total += helveticaWidths[c-32]
		}
	}
	return float64(total) / 1000 * size
}

// RGB is a colour with channels in [0, 1]
type RGB struct {
	R, G, B float64
}

// Text is a string shown with Helvetica. X and Y are the baseline origin in
// PDF user space; Angle rotates the baseline counter-clockwise in degrees.
type Text struct {
	X, Y      float64
	Size      float64
	S         string
	Angle     float64
	Color     *RGB
	Invisible bool
}

// Page describes one page
type Page struct {
	Width, Height float64
	Background    *RGB
	Texts         []Text
	// Extra is appended to the content stream as is
	Extra string
	// XMP adds a page level Metadata stream
	XMP bool
	// BrokenContent declares Flate compression for the plain content
	// stream so it cannot be decoded
	BrokenContent bool
}

// Doc describes a document
type Doc struct {
	Pages  []Page
	Title  string
	Author string
	// XMP adds a catalog level Metadata stream
	XMP bool
}

const xmpPacket = `<?xpacket begin="" id="W5M0MpCehiHzreSzNTczkc9d"?><x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:creator>Jane Roe</dc:creator></rdf:Description></rdf:RDF></x:xmpmeta><?xpacket end="w"?>`

// Content returns the content stream of a page
func (p Page) Content() string {
	var b strings.Builder
	if bg := p.Background; bg != nil {
		fmt.Fprintf(&b, "%s %s %s rg\n0 0 %s %s re\nf\n", num(bg.R), num(bg.G), num(bg.B), num(p.Width), num(p.Height))
	}
	for _, t := range p.Texts {
		b.WriteString("BT\n")
		c := RGB{}
		if t.Color != nil {
			c = *t.Color
		}
		fmt.Fprintf(&b, "%s %s %s rg\n", num(c.R), num(c.G), num(c.B))
		if t.Invisible {
			b.WriteString("3 Tr\n")
		}
		size := t.Size
		if size == 0 {
			size = 12
		}
		rad := t.Angle * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		fmt.Fprintf(&b, "/F1 %s Tf\n%s %s %s %s %s %s Tm\n(%s) Tj\nET\n",
			num(size), num(cos), num(sin), num(-sin), num(cos), num(t.X), num(t.Y), escape(t.S))
	}
	b.WriteString(p.Extra)
	return b.String()
}

// Build serializes the document
func Build(d Doc) []byte {
	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}
	stream := func(dict, data string) string {
		return fmt.Sprintf("<< %s /Length %d >>\nstream\n%s\nendstream", dict, len(data), data)
	}

	catalog := add("")
	pages := add("")
	widths := make([]string, len(helveticaWidths))
	for i, w := range helveticaWidths {
		widths[i] = strconv.Itoa(w)
	}
	font := add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>",
		strings.Join(widths, " ")))

	info := 0
	if d.Title != "" || d.Author != "" {
		info = add(fmt.Sprintf("<< /Title (%s) /Author (%s) /Creator (testpdf) >>", escape(d.Title), escape(d.Author)))
	}

	var kids []string
	for _, p := range d.Pages {
		filter := ""
		if p.BrokenContent {
			filter = "/Filter /FlateDecode"
		}
		content := add(stream(filter, p.Content()))
		meta := ""
		if p.XMP {
			meta = fmt.Sprintf(" /Metadata %d 0 R", add(stream("/Type /Metadata /Subtype /XML", xmpPacket)))
		}
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R%s >>",
			pages, num(p.Width), num(p.Height), font, content, meta))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}

	catalogMeta := ""
	if d.XMP {
		catalogMeta = fmt.Sprintf(" /Metadata %d 0 R", add(stream("/Type /Metadata /Subtype /XML", xmpPacket)))
	}
	objects[catalog-1] = fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R%s >>", pages, catalogMeta)
	objects[pages-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xE2\xE3\xCF\xD3\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	trailerInfo := ""
	if info != 0 {
		trailerInfo = fmt.Sprintf(" /Info %d 0 R", info)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R%s >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, trailerInfo, xref)
	return buf.Bytes()
}

func num(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
