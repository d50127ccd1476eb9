package pdf

import (
	"math"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Number of line segments used to flatten a Bézier curve
const curveSegments = 8

// ContentStreamParser parses PDF content streams and extracts objects.
// Coordinates of the extracted objects are in page space.
type ContentStreamParser struct {
	ctx     *model.Context
	objects Objects

	// Graphics state
	graphicsState *GraphicsState
	stateStack    []savedState

	// Text state
	textState  *TextState
	textMatrix Matrix
	lineMatrix Matrix

	// Current path
	currentPath  []PathElement
	currentPoint PDFPoint
	subpathStart PDFPoint

	// Resources
	resources types.Dict
	fonts     map[string]*FontInfo

	// Page space origin: the top-left corner of the MediaBox in user space
	originX float64
	originY float64

	seq     int
	opIndex int
	shows   map[int]*textShow
}

// GraphicsState represents the PDF graphics state
type GraphicsState struct {
	CTM         Matrix // Current transformation matrix
	StrokeColor PDFColor
	FillColor   PDFColor
	LineWidth   float64
	LineCap     int
	LineJoin    int
	MiterLimit  float64
	DashPattern []float64
	DashPhase   float64
}

// TextState represents the PDF text state
type TextState struct {
	Font       *FontInfo
	FontSize   float64
	CharSpace  float64
	WordSpace  float64
	Scale      float64
	Leading    float64
	Rise       float64
	RenderMode int
}

type savedState struct {
	graphics GraphicsState
	text     TextState
}

// Matrix represents a 2D transformation matrix
type Matrix struct {
	A, B, C, D, E, F float64
}

// Transform applies the matrix to a point
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// PDFColor represents a color in a PDF color space
type PDFColor struct {
	R, G, B    float64
	ColorSpace string
}

// PathElement represents an element in a path
type PathElement struct {
	Type   string // moveto, lineto, curveto, close
	Points []PDFPoint
}

// PDFPoint represents a point in user space
type PDFPoint struct {
	X, Y float64
}

type subpath struct {
	points []Point
	closed bool
}

// NewContentStreamParser creates a new content stream parser for a page
// whose MediaBox has its top-left corner at (originX, originY) in user space
func NewContentStreamParser(ctx *model.Context, resources types.Dict, originX, originY float64) *ContentStreamParser {
	return &ContentStreamParser{
		ctx:     ctx,
		objects: Objects{},
		graphicsState: &GraphicsState{
			CTM:         IdentityMatrix(),
			LineWidth:   1.0,
			MiterLimit:  10.0,
			StrokeColor: PDFColor{ColorSpace: "DeviceGray"},
			FillColor:   PDFColor{ColorSpace: "DeviceGray"},
		},
		textState: &TextState{
			Scale: 100,
		},
		textMatrix: IdentityMatrix(),
		lineMatrix: IdentityMatrix(),
		resources:  resources,
		fonts:      loadFonts(ctx, resources),
		originX:    originX,
		originY:    originY,
		shows:      make(map[int]*textShow),
	}
}

// Parse parses a content stream and returns extracted objects
func (p *ContentStreamParser) Parse(content []byte) Objects {
	return p.parse(content).objects
}

func (p *ContentStreamParser) parse(content []byte) *parsedContent {
	ops := lexOperations(content)
	for i, op := range ops {
		p.opIndex = i
		p.processOperator(op)
	}
	return &parsedContent{ops: ops, objects: p.objects, shows: p.shows}
}

// processOperator processes a PDF operator with its operands
func (p *ContentStreamParser) processOperator(op operation) {
	operands := op.Operands

	switch op.Operator {
	// Text object operators
	case "BT":
		p.beginText()
	case "ET":

	// Text positioning
	case "Td":
		p.textMoveBy(operands)
	case "TD":
		p.textMoveByWithLeading(operands)
	case "Tm":
		p.setTextMatrix(operands)
	case "T*":
		p.textNextLine()

	// Text showing
	case "Tj", "TJ":
		p.showText(showElements(op))
	case "'":
		p.textNextLine()
		p.showText(showElements(op))
	case "\"":
		nums := numbers(operands)
		if len(nums) >= 2 {
			p.textState.WordSpace = nums[0]
			p.textState.CharSpace = nums[1]
		}
		p.textNextLine()
		p.showText(showElements(op))

	// Text state
	case "Tc":
		p.textState.CharSpace = firstNumber(operands, p.textState.CharSpace)
	case "Tw":
		p.textState.WordSpace = firstNumber(operands, p.textState.WordSpace)
	case "Tz":
		p.textState.Scale = firstNumber(operands, p.textState.Scale)
	case "TL":
		p.textState.Leading = firstNumber(operands, p.textState.Leading)
	case "Tf":
		p.setFont(operands)
	case "Tr":
		p.textState.RenderMode = int(firstNumber(operands, float64(p.textState.RenderMode)))
	case "Ts":
		p.textState.Rise = firstNumber(operands, p.textState.Rise)

	// Graphics state
	case "q":
		p.saveGraphicsState()
	case "Q":
		p.restoreGraphicsState()
	case "cm":
		p.concatenateMatrix(operands)

	// Path construction
	case "m":
		p.moveTo(operands)
	case "l":
		p.lineTo(operands)
	case "c":
		p.curveTo(operands)
	case "v":
		p.curveToV(operands)
	case "y":
		p.curveToY(operands)
	case "h":
		p.closePath()
	case "re":
		p.rectangle(operands)

	// Path painting
	case "S":
		p.stroke()
	case "s":
		p.closePath()
		p.stroke()
	case "f", "F":
		p.fill(false)
	case "f*":
		p.fill(true)
	case "B":
		p.fillAndStroke(false)
	case "B*":
		p.fillAndStroke(true)
	case "b":
		p.closePath()
		p.fillAndStroke(false)
	case "b*":
		p.closePath()
		p.fillAndStroke(true)
	case "n":
		p.currentPath = nil

	// Line width and style
	case "w":
		p.graphicsState.LineWidth = firstNumber(operands, p.graphicsState.LineWidth)
	case "J":
		p.graphicsState.LineCap = int(firstNumber(operands, 0))
	case "j":
		p.graphicsState.LineJoin = int(firstNumber(operands, 0))
	case "M":
		p.graphicsState.MiterLimit = firstNumber(operands, p.graphicsState.MiterLimit)
	case "d":
		p.setDashPattern(operands)

	// Color operators
	case "RG":
		p.graphicsState.StrokeColor = deviceColor(numbers(operands))
	case "rg":
		p.graphicsState.FillColor = deviceColor(numbers(operands))
	case "G":
		p.graphicsState.StrokeColor = deviceColor(numbers(operands))
	case "g":
		p.graphicsState.FillColor = deviceColor(numbers(operands))
	case "K":
		p.graphicsState.StrokeColor = deviceColor(numbers(operands))
	case "k":
		p.graphicsState.FillColor = deviceColor(numbers(operands))
	case "CS":
		p.graphicsState.StrokeColor = PDFColor{ColorSpace: nameOperand(operands)}
	case "cs":
		p.graphicsState.FillColor = PDFColor{ColorSpace: nameOperand(operands)}
	case "SC", "SCN":
		p.graphicsState.StrokeColor = spaceColor(p.graphicsState.StrokeColor.ColorSpace, numbers(operands))
	case "sc", "scn":
		p.graphicsState.FillColor = spaceColor(p.graphicsState.FillColor.ColorSpace, numbers(operands))
	}
}

// showElements returns the strings and TJ adjustments shown by a text operator
func showElements(op operation) []token {
	switch op.Operator {
	case "TJ":
		return arrayElements(op.Operands)
	case "Tj", "'", "\"":
		for i := len(op.Operands) - 1; i >= 0; i-- {
			if op.Operands[i].isString() {
				return []token{op.Operands[i]}
			}
		}
	}
	return nil
}

// Text object operators

func (p *ContentStreamParser) beginText() {
	p.textMatrix = IdentityMatrix()
	p.lineMatrix = IdentityMatrix()
}

// Text positioning operators

func (p *ContentStreamParser) textMoveBy(operands []token) {
	nums := numbers(operands)
	if len(nums) < 2 {
		return
	}
	p.moveText(nums[0], nums[1])
}

func (p *ContentStreamParser) moveText(tx, ty float64) {
	p.lineMatrix = MultiplyMatrix(TranslationMatrix(tx, ty), p.lineMatrix)
	p.textMatrix = p.lineMatrix
}

func (p *ContentStreamParser) textMoveByWithLeading(operands []token) {
	nums := numbers(operands)
	if len(nums) < 2 {
		return
	}
	p.textState.Leading = -nums[1]
	p.moveText(nums[0], nums[1])
}

func (p *ContentStreamParser) setTextMatrix(operands []token) {
	nums := numbers(operands)
	if len(nums) < 6 {
		return
	}

	p.textMatrix = Matrix{A: nums[0], B: nums[1], C: nums[2], D: nums[3], E: nums[4], F: nums[5]}
	p.lineMatrix = p.textMatrix
}

func (p *ContentStreamParser) textNextLine() {
	p.moveText(0, -p.textState.Leading)
}

func (p *ContentStreamParser) setFont(operands []token) {
	if len(operands) < 2 {
		return
	}

	fontName := strings.TrimPrefix(nameOperand(operands), "/")
	if font, ok := p.fonts[fontName]; ok {
		p.textState.Font = font
	} else {
		p.textState.Font = fallbackFont(fontName)
	}
	p.textState.FontSize = firstNumber(operands, p.textState.FontSize)
}

// Text showing

func (p *ContentStreamParser) showText(elems []token) {
	ts := p.textState
	show := &textShow{fontSize: ts.FontSize, charSpace: ts.CharSpace, wordSpace: ts.WordSpace}
	p.shows[p.opIndex] = show

	font := ts.Font
	if font == nil {
		font = fallbackFont("")
	}
	th := ts.Scale / 100

	for ei, elem := range elems {
		if elem.kind == tokNumber {
			p.advance(-parseFloat(elem.raw) / 1000 * ts.FontSize * th)
			continue
		}
		if !elem.isString() {
			continue
		}

		for _, code := range font.codes(stringBytes(elem)) {
			text := font.decode(code)
			w := font.width(code, text)
			space := font.isSpace(code)

			glyph := len(show.glyphs)
			show.glyphs = append(show.glyphs, shownGlyph{element: ei, code: code, width: w, space: space})
			if text != "" {
				p.addChar(text, font.Name, w, glyph)
			}

			tx := w/1000*ts.FontSize + ts.CharSpace
			if space {
				tx += ts.WordSpace
			}
			p.advance(tx * th)
		}
	}
}

func (p *ContentStreamParser) advance(tx float64) {
	p.textMatrix = MultiplyMatrix(TranslationMatrix(tx, 0), p.textMatrix)
}

// addChar records the glyph box of one shown code
func (p *ContentStreamParser) addChar(text, fontName string, w float64, glyph int) {
	ts := p.textState
	m := MultiplyMatrix(p.textMatrix, p.graphicsState.CTM)
	trm := MultiplyMatrix(Matrix{A: ts.FontSize * ts.Scale / 100, D: ts.FontSize, F: ts.Rise}, m)

	adv := w / 1000
	box := BoundingBox{}
	for i, c := range [4]PDFPoint{{0, glyphDescent}, {adv, glyphDescent}, {adv, glyphAscent}, {0, glyphAscent}} {
		x, y := p.toPage(trm.Transform(c.X, c.Y))
		pt := BoundingBox{X0: x, Y0: y, X1: x, Y1: y}
		if i == 0 {
			box = pt
		} else {
			box = box.Union(pt)
		}
	}

	ox, oy := p.toPage(trm.Transform(0, 0))
	ex, ey := p.toPage(trm.Transform(adv, 0))
	dx, dy := ex-ox, ey-oy
	if adv == 0 {
		dx, dy = trm.A, -trm.B
	}

	color := p.graphicsState.FillColor
	if ts.RenderMode == 1 || ts.RenderMode == 5 {
		color = p.graphicsState.StrokeColor
	}

	size := ts.FontSize * math.Hypot(m.C, m.D)
	p.objects.Chars = append(p.objects.Chars, CharObject{
		Text:      text,
		Font:      fontName,
		FontSize:  size,
		X0:        box.X0,
		Y0:        box.Y0,
		X1:        box.X1,
		Y1:        box.Y1,
		Width:     math.Hypot(ex-ox, ey-oy),
		Height:    size,
		Color:     p.toColor(color),
		OriginX:   ox,
		OriginY:   oy,
		Angle:     math.Atan2(dy, dx) * 180 / math.Pi,
		Invisible: ts.RenderMode == 3 || ts.RenderMode == 7,
		Seq:       p.nextSeq(),
		op:        p.opIndex,
		glyph:     glyph,
	})
}

// Graphics state operators

func (p *ContentStreamParser) saveGraphicsState() {
	p.stateStack = append(p.stateStack, savedState{graphics: *p.graphicsState, text: *p.textState})
}

func (p *ContentStreamParser) restoreGraphicsState() {
	if len(p.stateStack) == 0 {
		return
	}
	s := p.stateStack[len(p.stateStack)-1]
	p.stateStack = p.stateStack[:len(p.stateStack)-1]
	gs, ts := s.graphics, s.text
	p.graphicsState = &gs
	p.textState = &ts
}

func (p *ContentStreamParser) concatenateMatrix(operands []token) {
	nums := numbers(operands)
	if len(nums) < 6 {
		return
	}

	m := Matrix{A: nums[0], B: nums[1], C: nums[2], D: nums[3], E: nums[4], F: nums[5]}
	p.graphicsState.CTM = MultiplyMatrix(m, p.graphicsState.CTM)
}

func (p *ContentStreamParser) setDashPattern(operands []token) {
	p.graphicsState.DashPattern = numbers(arrayElements(operands))
	if n := len(operands); n > 0 && operands[n-1].kind == tokNumber {
		p.graphicsState.DashPhase = parseFloat(operands[n-1].raw)
	}
}

// Path construction operators

func (p *ContentStreamParser) moveTo(operands []token) {
	nums := numbers(operands)
	if len(nums) < 2 {
		return
	}

	pt := PDFPoint{X: nums[0], Y: nums[1]}
	p.currentPath = append(p.currentPath, PathElement{Type: "moveto", Points: []PDFPoint{pt}})
	p.currentPoint = pt
	p.subpathStart = pt
}

func (p *ContentStreamParser) lineTo(operands []token) {
	nums := numbers(operands)
	if len(nums) < 2 {
		return
	}

	pt := PDFPoint{X: nums[0], Y: nums[1]}
	p.currentPath = append(p.currentPath, PathElement{Type: "lineto", Points: []PDFPoint{pt}})
	p.currentPoint = pt
}

func (p *ContentStreamParser) curveTo(operands []token) {
	nums := numbers(operands)
	if len(nums) < 6 {
		return
	}

	p.appendCurve(PDFPoint{nums[0], nums[1]}, PDFPoint{nums[2], nums[3]}, PDFPoint{nums[4], nums[5]})
}

func (p *ContentStreamParser) curveToV(operands []token) {
	nums := numbers(operands)
	if len(nums) < 4 {
		return
	}

	// the current point is the first control point
	p.appendCurve(p.currentPoint, PDFPoint{nums[0], nums[1]}, PDFPoint{nums[2], nums[3]})
}

func (p *ContentStreamParser) curveToY(operands []token) {
	nums := numbers(operands)
	if len(nums) < 4 {
		return
	}

	// the end point is the second control point
	end := PDFPoint{nums[2], nums[3]}
	p.appendCurve(PDFPoint{nums[0], nums[1]}, end, end)
}

func (p *ContentStreamParser) appendCurve(c1, c2, end PDFPoint) {
	p.currentPath = append(p.currentPath, PathElement{Type: "curveto", Points: []PDFPoint{c1, c2, end}})
	p.currentPoint = end
}

func (p *ContentStreamParser) closePath() {
	p.currentPath = append(p.currentPath, PathElement{Type: "close"})
	p.currentPoint = p.subpathStart
}

func (p *ContentStreamParser) rectangle(operands []token) {
	nums := numbers(operands)
	if len(nums) < 4 {
		return
	}

	x, y, width, height := nums[0], nums[1], nums[2], nums[3]
	p.currentPath = append(p.currentPath,
		PathElement{Type: "moveto", Points: []PDFPoint{{X: x, Y: y}}},
		PathElement{Type: "lineto", Points: []PDFPoint{{X: x + width, Y: y}}},
		PathElement{Type: "lineto", Points: []PDFPoint{{X: x + width, Y: y + height}}},
		PathElement{Type: "lineto", Points: []PDFPoint{{X: x, Y: y + height}}},
		PathElement{Type: "close"},
	)
	p.currentPoint = PDFPoint{X: x, Y: y}
	p.subpathStart = p.currentPoint
}

// Path painting operators

func (p *ContentStreamParser) stroke() {
	p.createLinesFromPath()
	p.currentPath = nil
}

func (p *ContentStreamParser) fill(evenOdd bool) {
	p.createFilledPath(evenOdd)
	p.currentPath = nil
}

func (p *ContentStreamParser) fillAndStroke(evenOdd bool) {
	p.createFilledPath(evenOdd)
	p.createLinesFromPath()
	p.currentPath = nil
}

// flattenPath converts the current path into page space polygons
func (p *ContentStreamParser) flattenPath() []subpath {
	var subpaths []subpath
	var cur *subpath
	var last PDFPoint

	add := func(pt PDFPoint) {
		x, y := p.transformPoint(pt.X, pt.Y)
		cur.points = append(cur.points, Point{X: x, Y: y})
	}

	for _, elem := range p.currentPath {
		switch elem.Type {
		case "moveto":
			subpaths = append(subpaths, subpath{})
			cur = &subpaths[len(subpaths)-1]
			last = elem.Points[0]
			add(last)
		case "lineto":
			if cur == nil {
				continue
			}
			last = elem.Points[0]
			add(last)
		case "curveto":
			if cur == nil {
				continue
			}
			c1, c2, end := elem.Points[0], elem.Points[1], elem.Points[2]
			for i := 1; i <= curveSegments; i++ {
				t := float64(i) / curveSegments
				add(bezierPoint(last, c1, c2, end, t))
			}
			last = end
		case "close":
			if cur != nil {
				cur.closed = true
				// drawing resumes from the start of the closed subpath
				if len(cur.points) > 0 {
					subpaths = append(subpaths, subpath{points: []Point{cur.points[0]}})
					cur = &subpaths[len(subpaths)-1]
				}
			}
		}
	}

	result := subpaths[:0]
	for _, sp := range subpaths {
		if len(sp.points) > 1 {
			result = append(result, sp)
		}
	}
	return result
}

func bezierPoint(p0, p1, p2, p3 PDFPoint, t float64) PDFPoint {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return PDFPoint{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// createFilledPath creates filled rectangles or shapes from the current path
func (p *ContentStreamParser) createFilledPath(evenOdd bool) {
	subpaths := p.flattenPath()
	if len(subpaths) == 0 {
		return
	}

	fillColor := p.toColor(p.graphicsState.FillColor)

	if len(subpaths) == 1 {
		if box, ok := rectangleBounds(subpaths[0].points); ok {
			p.objects.Rects = append(p.objects.Rects, RectObject{
				X0:        box.X0,
				Y0:        box.Y0,
				X1:        box.X1,
				Y1:        box.Y1,
				FillColor: fillColor,
				Seq:       p.nextSeq(),
			})
			return
		}
	}

	path := PathObject{FillColor: fillColor, EvenOdd: evenOdd, Seq: p.nextSeq()}
	for _, sp := range subpaths {
		path.Subpaths = append(path.Subpaths, sp.points)
	}
	p.objects.Paths = append(p.objects.Paths, path)
}

// rectangleBounds reports whether a polygon is an axis aligned rectangle
func rectangleBounds(pts []Point) (BoundingBox, bool) {
	if n := len(pts); n == 5 && pointsEqual(pts[0], pts[4]) {
		pts = pts[:4]
	}
	if len(pts) != 4 {
		return BoundingBox{}, false
	}

	for i := range pts {
		a, b := pts[i], pts[(i+1)%4]
		if math.Abs(a.X-b.X) > FloatTolerance && math.Abs(a.Y-b.Y) > FloatTolerance {
			return BoundingBox{}, false
		}
	}

	box := BoundingBox{X0: pts[0].X, Y0: pts[0].Y, X1: pts[0].X, Y1: pts[0].Y}
	for _, pt := range pts[1:] {
		box = box.Union(BoundingBox{X0: pt.X, Y0: pt.Y, X1: pt.X, Y1: pt.Y})
	}
	return box, true
}

func pointsEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < FloatTolerance && math.Abs(a.Y-b.Y) < FloatTolerance
}

// createLinesFromPath turns every stroked segment into a line object
func (p *ContentStreamParser) createLinesFromPath() {
	strokeColor := p.toColor(p.graphicsState.StrokeColor)
	ctm := p.graphicsState.CTM
	width := p.graphicsState.LineWidth * math.Sqrt(math.Abs(ctm.A*ctm.D-ctm.B*ctm.C))

	for _, sp := range p.flattenPath() {
		pts := sp.points
		if sp.closed && !pointsEqual(pts[0], pts[len(pts)-1]) {
			pts = append(pts, pts[0])
		}
		for i := 1; i < len(pts); i++ {
			p.objects.Lines = append(p.objects.Lines, LineObject{
				X0:          pts[i-1].X,
				Y0:          pts[i-1].Y,
				X1:          pts[i].X,
				Y1:          pts[i].Y,
				Width:       width,
				StrokeColor: strokeColor,
				Seq:         p.nextSeq(),
			})
		}
	}
}

// transformPoint maps a user space point through the CTM into page space
func (p *ContentStreamParser) transformPoint(x, y float64) (float64, float64) {
	return p.toPage(p.graphicsState.CTM.Transform(x, y))
}

// toPage converts default user space into page space
func (p *ContentStreamParser) toPage(x, y float64) (float64, float64) {
	return x - p.originX, p.originY - y
}

func (p *ContentStreamParser) nextSeq() int {
	p.seq++
	return p.seq
}

// toColor converts a PDFColor to a normalized RGB colour
func (p *ContentStreamParser) toColor(c PDFColor) Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// deviceColor interprets operands of the g, rg and k families
func deviceColor(nums []float64) PDFColor {
	switch len(nums) {
	case 1:
		return PDFColor{R: nums[0], G: nums[0], B: nums[0], ColorSpace: "DeviceGray"}
	case 3:
		return PDFColor{R: nums[0], G: nums[1], B: nums[2], ColorSpace: "DeviceRGB"}
	case 4:
		c, m, y, k := nums[0], nums[1], nums[2], nums[3]
		return PDFColor{
			R:          (1 - c) * (1 - k),
			G:          (1 - m) * (1 - k),
			B:          (1 - y) * (1 - k),
			ColorSpace: "DeviceCMYK",
		}
	}
	return PDFColor{ColorSpace: "DeviceGray"}
}

// spaceColor interprets sc/scn operands, falling back on the operand count
// for colour spaces defined in the resources
func spaceColor(space string, nums []float64) PDFColor {
	c := deviceColor(nums)
	if space != "" {
		c.ColorSpace = space
	}
	return c
}

func firstNumber(operands []token, fallback float64) float64 {
	for _, t := range operands {
		if t.kind == tokNumber {
			return parseFloat(t.raw)
		}
	}
	return fallback
}

func nameOperand(operands []token) string {
	for _, t := range operands {
		if t.kind == tokName {
			return strings.TrimPrefix(t.raw, "/")
		}
	}
	return ""
}

// Matrix operations

func IdentityMatrix() Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: 0, F: 0}
}

func TranslationMatrix(tx, ty float64) Matrix {
	return Matrix{A: 1, B: 0, C: 0, D: 1, E: tx, F: ty}
}

func MultiplyMatrix(m1, m2 Matrix) Matrix {
	return Matrix{
		A: m1.A*m2.A + m1.B*m2.C,
		B: m1.A*m2.B + m1.B*m2.D,
		C: m1.C*m2.A + m1.D*m2.C,
		D: m1.C*m2.B + m1.D*m2.D,
		E: m1.E*m2.A + m1.F*m2.C + m2.E,
		F: m1.E*m2.B + m1.F*m2.D + m2.F,
	}
}
