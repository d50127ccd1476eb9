package pdf

import (
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"
)

// ObjectType represents the type of PDF object
type ObjectType string

const (
	ObjectTypeChar ObjectType = "char"
	ObjectTypeLine ObjectType = "line"
	ObjectTypeRect ObjectType = "rect"
	ObjectTypePath ObjectType = "path"
)

// BoundingBox represents a rectangular area in page space.
// The origin is the top-left corner of the page and Y grows downward.
type BoundingBox struct {
	X0 float64 // Left
	Y0 float64 // Top
	X1 float64 // Right
	Y1 float64 // Bottom
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// IsEmpty reports whether the box encloses no area
func (b BoundingBox) IsEmpty() bool {
	return b.X1 <= b.X0 || b.Y1 <= b.Y0
}

// Center returns the center point of the bounding box
func (b BoundingBox) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Contains checks if a point is within the bounding box
func (b BoundingBox) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Intersects checks if two bounding boxes intersect
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X1 < other.X0 || b.X0 > other.X1 || b.Y1 < other.Y0 || b.Y0 > other.Y1)
}

// Intersect returns the overlapping area of two boxes.
// The result is empty when they do not overlap.
func (b BoundingBox) Intersect(other BoundingBox) BoundingBox {
	r := BoundingBox{
		X0: math.Max(b.X0, other.X0),
		Y0: math.Max(b.Y0, other.Y0),
		X1: math.Min(b.X1, other.X1),
		Y1: math.Min(b.Y1, other.Y1),
	}
	if r.IsEmpty() {
		return BoundingBox{}
	}
	return r
}

// Union returns the smallest box enclosing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Normalize swaps coordinates so that X0 <= X1 and Y0 <= Y1
func (b BoundingBox) Normalize() BoundingBox {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%.2f %.2f %.2f %.2f]", b.X0, b.Y0, b.X1, b.Y1)
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
	Trapped      string
}

// Objects represents a collection of PDF objects
type Objects struct {
	Chars []CharObject
	Lines []LineObject
	Rects []RectObject
	Paths []PathObject
}

// CharObject represents a single glyph shown on the page
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
	Color    Color

	// Baseline origin of the glyph in page space
	OriginX float64
	OriginY float64

	// Angle is the baseline direction in degrees, measured in page space
	Angle float64

	// Invisible is set for render modes 3 and 7 (text used for search layers)
	Invisible bool

	// Seq is the paint order of the object on the page
	Seq int

	op    int // index of the showing operation in the content stream
	glyph int // glyph index within that operation
}

// GetType returns the object type
func (c CharObject) GetType() ObjectType {
	return ObjectTypeChar
}

// GetBBox returns the character's bounding box
func (c CharObject) GetBBox() BoundingBox {
	return BoundingBox{X0: c.X0, Y0: c.Y0, X1: c.X1, Y1: c.Y1}
}

// LineObject represents a stroked line segment
type LineObject struct {
	X0          float64
	Y0          float64
	X1          float64
	Y1          float64
	Width       float64
	StrokeColor Color
	Seq         int
}

// GetType returns the object type
func (l LineObject) GetType() ObjectType {
	return ObjectTypeLine
}

// GetBBox returns the line's bounding box
func (l LineObject) GetBBox() BoundingBox {
	return BoundingBox{X0: l.X0, Y0: l.Y0, X1: l.X1, Y1: l.Y1}.Normalize()
}

// RectObject represents an axis aligned filled rectangle
type RectObject struct {
	X0        float64
	Y0        float64
	X1        float64
	Y1        float64
	FillColor Color
	Seq       int
}

// GetType returns the object type
func (r RectObject) GetType() ObjectType {
	return ObjectTypeRect
}

// GetBBox returns the rectangle's bounding box
func (r RectObject) GetBBox() BoundingBox {
	return BoundingBox{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y1}
}

// PathObject represents any other filled path.
// Subpaths hold flattened points in page space.
type PathObject struct {
	Subpaths  [][]Point
	FillColor Color
	EvenOdd   bool
	Seq       int
}

// GetType returns the object type
func (p PathObject) GetType() ObjectType {
	return ObjectTypePath
}

// GetBBox returns the path's bounding box
func (p PathObject) GetBBox() BoundingBox {
	first := true
	var b BoundingBox
	for _, sp := range p.Subpaths {
		for _, pt := range sp {
			if first {
				b = BoundingBox{X0: pt.X, Y0: pt.Y, X1: pt.X, Y1: pt.Y}
				first = false
				continue
			}
			b = b.Union(BoundingBox{X0: pt.X, Y0: pt.Y, X1: pt.X, Y1: pt.Y})
		}
	}
	return b
}

// Color is an RGB colour with channels normalized to [0, 1]
type Color struct {
	R, G, B float64
}

var (
	White = Color{R: 1, G: 1, B: 1}
	Black = Color{}
)

// ToRGBA converts the colour to 8-bit channels
func (c Color) ToRGBA() color.RGBA {
	return color.RGBA{R: channel8(c.R), G: channel8(c.G), B: channel8(c.B), A: 255}
}

// ColorFromRGBA normalizes an 8-bit pixel
func ColorFromRGBA(px color.RGBA) Color {
	return Color{R: float64(px.R) / 255, G: float64(px.G) / 255, B: float64(px.B) / 255}
}

func (c Color) String() string {
	return fmt.Sprintf("rgb(%.3f, %.3f, %.3f)", c.R, c.G, c.B)
}

func channel8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Granularity selects the unit text is grouped into
type Granularity int

const (
	GranularityWord Granularity = iota
	GranularityLine
	GranularityBlock
)

func (g Granularity) String() string {
	switch g {
	case GranularityWord:
		return "word"
	case GranularityLine:
		return "line"
	case GranularityBlock:
		return "block"
	default:
		return fmt.Sprintf("granularity(%d)", int(g))
	}
}

// ParseGranularity parses "word", "line" or "block"
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word", "words":
		return GranularityWord, nil
	case "line", "lines":
		return GranularityLine, nil
	case "block", "blocks":
		return GranularityBlock, nil
	}
	return 0, fmt.Errorf("unknown granularity %q", s)
}

// Token is a unit of extracted text with its bounding box
type Token struct {
	Text string
	BBox BoundingBox

	chars []int
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	XTolerance     float64
	YTolerance     float64
	BlockGapFactor float64
}

func defaultTextExtractionConfig(opts []TextExtractionOption) *textExtractionConfig {
	c := &textExtractionConfig{
		XTolerance:     3,
		YTolerance:     3,
		BlockGapFactor: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithXTolerance sets the horizontal tolerance for text grouping
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for text grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// WithBlockGap sets the largest vertical gap, as a multiple of the line
// height, that still joins two lines into one block
func WithBlockGap(factor float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.BlockGapFactor = factor
	}
}

// RasterOption is a function that modifies page rasterization
type RasterOption func(*rasterConfig)

type rasterConfig struct {
	Scale float64
	Clip  *BoundingBox
}

// WithScale sets the number of pixels per PDF point
func WithScale(scale float64) RasterOption {
	return func(c *rasterConfig) {
		c.Scale = scale
	}
}

// WithResolution sets the output resolution in dots per inch
func WithResolution(dpi int) RasterOption {
	return func(c *rasterConfig) {
		c.Scale = float64(dpi) / 72
	}
}

// WithClip restricts rendering to a region of the page
func WithClip(clip BoundingBox) RasterOption {
	return func(c *rasterConfig) {
		c.Clip = &clip
	}
}
