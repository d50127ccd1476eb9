package pdf

import (
	"math"
	"sort"
	"strings"
)

// TextOrganizer organizes character objects into words, lines and blocks.
// Characters are grouped by baseline direction first, so rotated text such as
// diagonal stamps forms lines of its own.
type TextOrganizer struct {
	xTolerance float64 // Horizontal tolerance for grouping characters into words
	yTolerance float64 // Vertical tolerance for grouping characters into lines
	blockGap   float64 // Largest line gap inside a block, relative to the font size
}

// NewTextOrganizer creates a new text organizer with default tolerances
func NewTextOrganizer(opts ...TextExtractionOption) *TextOrganizer {
	c := defaultTextExtractionConfig(opts)
	return &TextOrganizer{
		xTolerance: c.XTolerance,
		yTolerance: c.YTolerance,
		blockGap:   c.BlockGapFactor,
	}
}

type textWord struct {
	text  string
	bbox  BoundingBox
	chars []int
}

type textLine struct {
	words []textWord
	bbox  BoundingBox
	angle int
	// position of the baseline across and along its direction
	v      float64
	u0, u1 float64
	size   float64
}

func (l textLine) text() string {
	parts := make([]string, len(l.words))
	for i, w := range l.words {
		parts[i] = w.text
	}
	return strings.Join(parts, " ")
}

func (l textLine) chars() []int {
	var idx []int
	for _, w := range l.words {
		idx = append(idx, w.chars...)
	}
	return idx
}

// OrganizeText returns the text of chars, one line per row
func (to *TextOrganizer) OrganizeText(chars []CharObject) string {
	lines := to.lines(chars)
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.text())
	}
	return strings.Join(parts, "\n")
}

// Tokens groups chars into tokens of the given granularity
func (to *TextOrganizer) Tokens(chars []CharObject, g Granularity) []Token {
	lines := to.lines(chars)

	var tokens []Token
	switch g {
	case GranularityWord:
		for _, l := range lines {
			for _, w := range l.words {
				tokens = append(tokens, Token{Text: w.text, BBox: w.bbox, chars: w.chars})
			}
		}
	case GranularityBlock:
		for _, block := range to.blocks(lines) {
			texts := make([]string, len(block))
			t := Token{BBox: block[0].bbox}
			for i, l := range block {
				texts[i] = l.text()
				t.BBox = t.BBox.Union(l.bbox)
				t.chars = append(t.chars, l.chars()...)
			}
			t.Text = strings.Join(texts, "\n")
			tokens = append(tokens, t)
		}
	default:
		for _, l := range lines {
			tokens = append(tokens, Token{Text: l.text(), BBox: l.bbox, chars: l.chars()})
		}
	}
	return tokens
}

// lines groups chars into lines ordered top to bottom, left to right
func (to *TextOrganizer) lines(chars []CharObject) []textLine {
	if len(chars) == 0 {
		return nil
	}

	// Group by baseline direction, keeping first-seen order
	var angles []int
	groups := make(map[int][]int)
	for i, ch := range chars {
		a := normalizeAngle(ch.Angle)
		if _, ok := groups[a]; !ok {
			angles = append(angles, a)
		}
		groups[a] = append(groups[a], i)
	}

	var lines []textLine
	for _, a := range angles {
		lines = append(lines, to.groupIntoLines(chars, groups[a], a)...)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if math.Abs(lines[i].bbox.Y0-lines[j].bbox.Y0) > to.yTolerance {
			return lines[i].bbox.Y0 < lines[j].bbox.Y0
		}
		return lines[i].bbox.X0 < lines[j].bbox.X0
	})
	return lines
}

func normalizeAngle(deg float64) int {
	a := int(math.Round(deg))
	for a <= -180 {
		a += 360
	}
	for a > 180 {
		a -= 360
	}
	return a
}

// groupIntoLines groups characters sharing a baseline direction into lines
func (to *TextOrganizer) groupIntoLines(chars []CharObject, idx []int, angle int) []textLine {
	rad := float64(angle) * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	along := func(i int) float64 { return chars[i].OriginX*cos + chars[i].OriginY*sin }
	across := func(i int) float64 { return -chars[i].OriginX*sin + chars[i].OriginY*cos }

	sorted := append([]int(nil), idx...)
	sort.SliceStable(sorted, func(a, b int) bool {
		return across(sorted[a]) < across(sorted[b])
	})

	var lines []textLine
	var current []int
	var lineV float64

	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(a, b int) bool {
			return along(current[a]) < along(current[b])
		})
		if line, ok := to.buildLine(chars, current, along); ok {
			line.angle = angle
			line.v = lineV
			lines = append(lines, line)
		}
		current = nil
	}

	for _, i := range sorted {
		if len(current) > 0 && across(i)-lineV > to.yTolerance {
			flush()
		}
		if len(current) == 0 {
			lineV = across(i)
		}
		current = append(current, i)
	}
	flush()

	return lines
}

// buildLine splits a line of characters into words
func (to *TextOrganizer) buildLine(chars []CharObject, idx []int, along func(int) float64) (textLine, bool) {
	var line textLine
	var word []int
	prevEnd := math.Inf(-1)

	flushWord := func() {
		if len(word) == 0 {
			return
		}
		line.words = append(line.words, createWord(chars, word))
		word = nil
	}

	for _, i := range idx {
		ch := chars[i]
		u := along(i)
		if strings.TrimSpace(ch.Text) == "" {
			flushWord()
			prevEnd = u + ch.Width
			continue
		}
		if len(word) > 0 && u-prevEnd > to.xTolerance {
			flushWord()
		}
		word = append(word, i)
		prevEnd = math.Max(prevEnd, u+ch.Width)
		line.size = math.Max(line.size, ch.FontSize)
	}
	flushWord()

	if len(line.words) == 0 {
		return line, false
	}

	line.bbox = line.words[0].bbox
	line.u0 = along(line.words[0].chars[0])
	line.u1 = line.u0
	for _, w := range line.words {
		line.bbox = line.bbox.Union(w.bbox)
		for _, i := range w.chars {
			line.u0 = math.Min(line.u0, along(i))
			line.u1 = math.Max(line.u1, along(i)+chars[i].Width)
		}
	}
	return line, true
}

// createWord creates a word from a group of characters
func createWord(chars []CharObject, idx []int) textWord {
	var text strings.Builder
	w := textWord{bbox: chars[idx[0]].GetBBox(), chars: idx}
	for _, i := range idx {
		text.WriteString(chars[i].Text)
		w.bbox = w.bbox.Union(chars[i].GetBBox())
	}
	w.text = text.String()
	return w
}

// blocks groups consecutive lines that share a direction, are close
// vertically and overlap horizontally
func (to *TextOrganizer) blocks(lines []textLine) [][]textLine {
	byAngle := make(map[int][]textLine)
	var angles []int
	for _, l := range lines {
		if _, ok := byAngle[l.angle]; !ok {
			angles = append(angles, l.angle)
		}
		byAngle[l.angle] = append(byAngle[l.angle], l)
	}

	var blocks [][]textLine
	for _, a := range angles {
		group := byAngle[a]
		sort.SliceStable(group, func(i, j int) bool { return group[i].v < group[j].v })

		var current []textLine
		for _, l := range group {
			if len(current) > 0 {
				prev := current[len(current)-1]
				near := l.v-prev.v <= prev.size*(1+to.blockGap)
				overlap := l.u0 <= prev.u1 && l.u1 >= prev.u0
				if !near || !overlap {
					blocks = append(blocks, current)
					current = nil
				}
			}
			current = append(current, l)
		}
		if len(current) > 0 {
			blocks = append(blocks, current)
		}
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		bi, bj := blocks[i][0].bbox, blocks[j][0].bbox
		if math.Abs(bi.Y0-bj.Y0) > to.yTolerance {
			return bi.Y0 < bj.Y0
		}
		return bi.X0 < bj.X0
	})
	return blocks
}
