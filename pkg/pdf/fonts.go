package pdf

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Glyph box in text space relative to the baseline, as a fraction of the font size
const (
	glyphAscent  = 0.8
	glyphDescent = -0.2
)

// FontInfo represents font information
type FontInfo struct {
	Name          string
	BaseFont      string
	Subtype       string
	Encoding      string
	ToUnicodeCMap *ToUnicodeCMap

	// twoByte is set for composite (Type0) fonts
	twoByte bool

	firstChar    int
	widths       []float64
	missingWidth float64

	// CIDFont metrics
	defaultWidth float64
	cidWidths    map[int]float64

	// widthScale converts font widths into thousandths of text space
	widthScale float64
}

// fallbackFont is used when Tf names a font missing from the resources
func fallbackFont(name string) *FontInfo {
	return &FontInfo{Name: name, widthScale: 1}
}

// loadFonts reads the font dictionaries of a resource dictionary
func loadFonts(ctx *model.Context, resources types.Dict) map[string]*FontInfo {
	fonts := make(map[string]*FontInfo)
	if ctx == nil || resources == nil {
		return fonts
	}

	fontRes, found := resources.Find("Font")
	if !found {
		return fonts
	}
	fontDicts, err := ctx.DereferenceDict(fontRes)
	if err != nil || fontDicts == nil {
		return fonts
	}

	for name, ref := range fontDicts {
		dict, err := ctx.DereferenceDict(ref)
		if err != nil || dict == nil {
			continue
		}
		fonts[name] = loadFont(ctx, name, dict)
	}
	return fonts
}

func loadFont(ctx *model.Context, name string, dict types.Dict) *FontInfo {
	font := &FontInfo{
		Name:       name,
		BaseFont:   nameValue(ctx, dict, "BaseFont"),
		Subtype:    nameValue(ctx, dict, "Subtype"),
		Encoding:   nameValue(ctx, dict, "Encoding"),
		widthScale: 1,
	}

	if toUnicode, found := dict.Find("ToUnicode"); found {
		if sd, _, err := ctx.DereferenceStreamDict(toUnicode); err == nil && sd != nil {
			if err := sd.Decode(); err == nil && len(sd.Content) > 0 {
				cmap := NewToUnicodeCMap()
				if err := cmap.Parse(sd.Content); err == nil {
					font.ToUnicodeCMap = cmap
				}
			}
		}
	}

	if font.Subtype == "Type0" {
		font.twoByte = true
		font.defaultWidth = 1000
		if arr := arrayValue(ctx, dict, "DescendantFonts"); len(arr) > 0 {
			if cid, err := ctx.DereferenceDict(arr[0]); err == nil && cid != nil {
				if dw, ok := numberValue(ctx, cid["DW"]); ok {
					font.defaultWidth = dw
				}
				font.cidWidths = parseCIDWidths(ctx, arrayValue(ctx, cid, "W"))
			}
		}
		return font
	}

	if fc, ok := numberValue(ctx, dict["FirstChar"]); ok {
		font.firstChar = int(fc)
	}
	for _, w := range arrayValue(ctx, dict, "Widths") {
		v, _ := numberValue(ctx, w)
		font.widths = append(font.widths, v)
	}
	if fd, found := dict.Find("FontDescriptor"); found {
		if desc, err := ctx.DereferenceDict(fd); err == nil && desc != nil {
			font.missingWidth, _ = numberValue(ctx, desc["MissingWidth"])
		}
	}

	// Type3 widths are in glyph space
	if font.Subtype == "Type3" {
		if fm := arrayValue(ctx, dict, "FontMatrix"); len(fm) == 6 {
			if a, ok := numberValue(ctx, fm[0]); ok && a != 0 {
				font.widthScale = a * 1000
			}
		}
	}
	return font
}

// parseCIDWidths reads a W array: c [w1 w2 ...] or cFirst cLast w
func parseCIDWidths(ctx *model.Context, w types.Array) map[int]float64 {
	widths := make(map[int]float64)
	for i := 0; i < len(w); {
		first, ok := numberValue(ctx, w[i])
		if !ok || i+1 >= len(w) {
			break
		}
		obj, _ := ctx.Dereference(w[i+1])
		if arr, ok := obj.(types.Array); ok {
			for j, v := range arr {
				if n, ok := numberValue(ctx, v); ok {
					widths[int(first)+j] = n
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			break
		}
		last, _ := numberValue(ctx, w[i+1])
		width, _ := numberValue(ctx, w[i+2])
		for c := int(first); c <= int(last); c++ {
			widths[c] = width
		}
		i += 3
	}
	return widths
}

// codes splits a shown string into character codes
func (f *FontInfo) codes(data []byte) [][]byte {
	n := 1
	if f.twoByte {
		n = 2
	}
	codes := make([][]byte, 0, len(data)/n+1)
	for i := 0; i < len(data); i += n {
		end := i + n
		if end > len(data) {
			end = len(data)
		}
		codes = append(codes, data[i:end])
	}
	return codes
}

// width returns the horizontal advance of a code in thousandths of text space
func (f *FontInfo) width(code []byte, text string) float64 {
	c := int(codeValue(code))
	if f.twoByte {
		if w, ok := f.cidWidths[c]; ok {
			return w
		}
		return f.defaultWidth
	}
	if i := c - f.firstChar; i >= 0 && i < len(f.widths) {
		return f.widths[i] * f.widthScale
	}
	if f.missingWidth > 0 {
		return f.missingWidth * f.widthScale
	}
	return approximateWidth(text) * 1000
}

// decode returns the Unicode text of a single code
func (f *FontInfo) decode(code []byte) string {
	if f.ToUnicodeCMap != nil {
		if s, ok := f.ToUnicodeCMap.MapCIDToUnicode(codeValue(code)); ok {
			return s
		}
	}
	if f.twoByte {
		return string(rune(codeValue(code)))
	}
	return decodeWinAnsi(code[0])
}

// isSpace reports whether word spacing applies to the code
func (f *FontInfo) isSpace(code []byte) bool {
	return len(code) == 1 && code[0] == ' '
}

// approximateWidth returns an approximate width factor for a character when
// the font carries no metrics
func approximateWidth(char string) float64 {
	switch char {
	case " ":
		return 0.25
	case "i", "l", "I", "!", ".", ",", ";", ":", "'", "\"":
		return 0.3
	case "m", "M", "W", "w":
		return 0.8
	default:
		return 0.5
	}
}

// winAnsiHigh maps 0x80-0x9F, where WinAnsiEncoding departs from Latin-1
var winAnsiHigh = [32]rune{
	'€', 0, '‚', 'ƒ', '„', '…', '†', '‡', 'ˆ', '‰', 'Š', '‹', 'Œ', 0, 'Ž', 0,
	0, '‘', '’', '“', '”', '•', '–', '—', '˜', '™', 'š', '›', 'œ', 0, 'ž', 'Ÿ',
}

func decodeWinAnsi(b byte) string {
	if b >= 0x80 && b <= 0x9F {
		if r := winAnsiHigh[b-0x80]; r != 0 {
			return string(r)
		}
	}
	return string(rune(b))
}

func nameValue(ctx *model.Context, dict types.Dict, key string) string {
	obj, found := dict.Find(key)
	if !found {
		return ""
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	if n, ok := obj.(types.Name); ok {
		return strings.TrimPrefix(string(n), "/")
	}
	return ""
}

func arrayValue(ctx *model.Context, dict types.Dict, key string) types.Array {
	obj, found := dict.Find(key)
	if !found {
		return nil
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return nil
	}
	arr, _ := obj.(types.Array)
	return arr
}

func numberValue(ctx *model.Context, obj types.Object) (float64, bool) {
	if obj == nil {
		return 0, false
	}
	obj, err := ctx.Dereference(obj)
	if err != nil {
		return 0, false
	}
	switch v := obj.(type) {
	case types.Integer:
		return float64(v), true
	case types.Float:
		return float64(v), true
	}
	return 0, false
}
