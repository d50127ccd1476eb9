package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
)

// parsedContent is a page content stream split into operations, together
// with the objects they paint
type parsedContent struct {
	ops     []operation
	objects Objects
	shows   map[int]*textShow
}

// textShow describes the glyphs painted by one text showing operation and
// the text state they were painted with
type textShow struct {
	glyphs    []shownGlyph
	fontSize  float64
	charSpace float64
	wordSpace float64
}

type shownGlyph struct {
	element int    // index of the string in the operation's show elements
	code    []byte // character code as found in the string
	width   float64
	space   bool
}

// removeGlyphs rewrites the content stream without the glyphs selected by
// remove (operation index -> glyph indices). Each removed glyph is replaced by
// a TJ displacement of the same advance so the remaining text does not move.
func removeGlyphs(pc *parsedContent, remove map[int]map[int]bool) []byte {
	var buf bytes.Buffer
	for i, op := range pc.ops {
		glyphs, ok := remove[i]
		show := pc.shows[i]
		if !ok || show == nil {
			op.writeTo(&buf)
			continue
		}
		writeShowWithout(&buf, op, show, glyphs)
	}
	return buf.Bytes()
}

func writeShowWithout(buf *bytes.Buffer, op operation, show *textShow, removed map[int]bool) {
	switch op.Operator {
	case "'":
		buf.WriteString("T*\n")
	case "\"":
		nums := numbers(op.Operands)
		if len(nums) >= 2 {
			fmt.Fprintf(buf, "%s Tw\n%s Tc\n", formatNumber(nums[0]), formatNumber(nums[1]))
		}
		buf.WriteString("T*\n")
	}

	var items []string
	var run []byte
	var adjust float64

	flushRun := func() {
		if len(run) > 0 {
			items = append(items, "<"+strings.ToUpper(hex.EncodeToString(run))+">")
			run = nil
		}
	}
	flushAdjust := func() {
		if adjust != 0 {
			items = append(items, formatNumber(adjust))
			adjust = 0
		}
	}

	g := 0
	for ei, elem := range showElements(op) {
		if elem.kind == tokNumber {
			flushRun()
			adjust += parseFloat(elem.raw)
			continue
		}
		for g < len(show.glyphs) && show.glyphs[g].element == ei {
			glyph := show.glyphs[g]
			if removed[g] {
				flushRun()
				adjust += glyphAdjustment(glyph, show)
			} else {
				flushAdjust()
				run = append(run, glyph.code...)
			}
			g++
		}
	}
	flushRun()
	flushAdjust()

	buf.WriteString("[")
	buf.WriteString(strings.Join(items, " "))
	buf.WriteString("] TJ\n")
}

// glyphAdjustment is the TJ number that moves the pen as far as the glyph did
func glyphAdjustment(g shownGlyph, show *textShow) float64 {
	n := -g.width
	if show.fontSize != 0 {
		spacing := show.charSpace
		if g.space {
			spacing += show.wordSpace
		}
		n -= spacing * 1000 / show.fontSize
	}
	return n
}

// rectangleOps returns the operators that paint r, given in user space
func rectangleOps(x, y, w, h float64, stroke, fill Color, lineWidth float64) []byte {
	var buf bytes.Buffer
	buf.WriteString("q\n")
	fmt.Fprintf(&buf, "%s w\n", formatNumber(lineWidth))
	fmt.Fprintf(&buf, "%s %s %s RG\n", formatNumber(stroke.R), formatNumber(stroke.G), formatNumber(stroke.B))
	fmt.Fprintf(&buf, "%s %s %s rg\n", formatNumber(fill.R), formatNumber(fill.G), formatNumber(fill.B))
	fmt.Fprintf(&buf, "%s %s %s %s re\n", formatNumber(x), formatNumber(y), formatNumber(w), formatNumber(h))
	buf.WriteString("B\nQ\n")
	return buf.Bytes()
}

// isolate wraps content in q/Q so its graphics state cannot leak into
// operators appended after it
func isolate(content []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(content) + 6)
	buf.WriteString("q\n")
	buf.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString("Q\n")
	return buf.Bytes()
}
