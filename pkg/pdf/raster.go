package pdf

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// The rasterizer draws text with a single substitute face. Embedded fonts,
// images, clipping paths and even-odd fills are not rendered.
var (
	substituteOnce sync.Once
	substituteFont *sfnt.Font
	substituteErr  error
)

func loadSubstituteFont() (*sfnt.Font, error) {
	substituteOnce.Do(func() {
		substituteFont, substituteErr = sfnt.Parse(goregular.TTF)
	})
	return substituteFont, substituteErr
}

type paintItem struct {
	seq  int
	kind ObjectType
	idx  int
}

type rasterizer struct {
	objs  Objects
	clip  BoundingBox
	scale float64
	dst   *image.RGBA
	z     *vector.Rasterizer

	face *sfnt.Font
	buf  sfnt.Buffer
}

// rasterize renders objects of a page of the given size. The image covers
// the clip region, one pixel per 1/scale points.
func rasterize(objs Objects, width, height float64, opts []RasterOption) (*image.RGBA, error) {
	cfg := rasterConfig{Scale: 1}
	for _, opt := range opts {
		opt(&cfg)
	}

	clip := BoundingBox{X1: width, Y1: height}
	if cfg.Clip != nil {
		clip = clip.Intersect(cfg.Clip.Normalize())
	}
	if clip.IsEmpty() || cfg.Scale <= 0 || math.IsNaN(cfg.Scale) || math.IsInf(cfg.Scale, 0) {
		return nil, fmt.Errorf("clip %v at scale %g: %w", clip, cfg.Scale, ErrDegenerateGeometry)
	}

	w := int(math.Ceil(clip.Width()*cfg.Scale - FloatTolerance))
	h := int(math.Ceil(clip.Height()*cfg.Scale - FloatTolerance))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(White.ToRGBA()), image.Point{}, draw.Src)

	r := &rasterizer{
		objs:  objs,
		clip:  clip,
		scale: cfg.Scale,
		dst:   dst,
		z:     vector.NewRasterizer(w, h),
	}
	if face, err := loadSubstituteFont(); err == nil {
		r.face = face
	}

	for _, item := range paintOrder(objs) {
		switch item.kind {
		case ObjectTypeRect:
			r.fillRect(objs.Rects[item.idx])
		case ObjectTypePath:
			r.fillPath(objs.Paths[item.idx])
		case ObjectTypeLine:
			r.strokeLine(objs.Lines[item.idx])
		case ObjectTypeChar:
			r.drawChar(objs.Chars[item.idx])
		}
	}
	return dst, nil
}

// paintOrder lists every object in the order it was painted
func paintOrder(objs Objects) []paintItem {
	items := make([]paintItem, 0, len(objs.Chars)+len(objs.Lines)+len(objs.Rects)+len(objs.Paths))
	for i, o := range objs.Rects {
		items = append(items, paintItem{o.Seq, ObjectTypeRect, i})
	}
	for i, o := range objs.Paths {
		items = append(items, paintItem{o.Seq, ObjectTypePath, i})
	}
	for i, o := range objs.Lines {
		items = append(items, paintItem{o.Seq, ObjectTypeLine, i})
	}
	for i, o := range objs.Chars {
		items = append(items, paintItem{o.Seq, ObjectTypeChar, i})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	return items
}

// device maps page space to pixel coordinates
func (r *rasterizer) device(x, y float64) (float32, float32) {
	return float32((x - r.clip.X0) * r.scale), float32((y - r.clip.Y0) * r.scale)
}

func (r *rasterizer) paint(c Color) {
	r.z.Draw(r.dst, r.dst.Bounds(), image.NewUniform(c.ToRGBA()), image.Point{})
	r.z.Reset(r.dst.Bounds().Dx(), r.dst.Bounds().Dy())
}

func (r *rasterizer) polygon(pts []Point) {
	if len(pts) < 2 {
		return
	}
	r.z.MoveTo(r.device(pts[0].X, pts[0].Y))
	for _, pt := range pts[1:] {
		r.z.LineTo(r.device(pt.X, pt.Y))
	}
	r.z.ClosePath()
}

func (r *rasterizer) fillRect(o RectObject) {
	r.polygon([]Point{{o.X0, o.Y0}, {o.X1, o.Y0}, {o.X1, o.Y1}, {o.X0, o.Y1}})
	r.paint(o.FillColor)
}

func (r *rasterizer) fillPath(o PathObject) {
	for _, sp := range o.Subpaths {
		r.polygon(sp)
	}
	r.paint(o.FillColor)
}

// strokeLine draws a segment as a quad at least one pixel wide
func (r *rasterizer) strokeLine(o LineObject) {
	dx, dy := o.X1-o.X0, o.Y1-o.Y0
	length := math.Hypot(dx, dy)
	if length < FloatTolerance {
		return
	}
	half := math.Max(o.Width*r.scale, 1) / 2 / r.scale
	nx, ny := -dy/length*half, dx/length*half
	r.polygon([]Point{
		{o.X0 + nx, o.Y0 + ny},
		{o.X1 + nx, o.Y1 + ny},
		{o.X1 - nx, o.Y1 - ny},
		{o.X0 - nx, o.Y0 - ny},
	})
	r.paint(o.StrokeColor)
}

// drawChar draws the substitute glyph for a char, stretched to its advance
// and rotated along its baseline
func (r *rasterizer) drawChar(ch CharObject) {
	if r.face == nil || ch.Invisible || strings.TrimSpace(ch.Text) == "" || ch.FontSize <= 0 {
		return
	}
	cp, _ := utf8.DecodeRuneInString(ch.Text)
	gi, err := r.face.GlyphIndex(&r.buf, cp)
	if err != nil || gi == 0 {
		return
	}

	ppem := fixed.Int26_6(math.Round(ch.FontSize * r.scale * 64))
	if ppem <= 0 {
		return
	}
	segments, err := r.face.LoadGlyph(&r.buf, gi, ppem, nil)
	if err != nil {
		return
	}

	sx := 1.0
	if adv, err := r.face.GlyphAdvance(&r.buf, gi, ppem, font.HintingNone); err == nil && adv > 0 && ch.Width > 0 {
		sx = ch.Width * r.scale / (float64(adv) / 64)
	}

	rad := ch.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	ox, oy := r.device(ch.OriginX, ch.OriginY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		gx := float64(p.X) / 64 * sx
		gy := float64(p.Y) / 64
		return ox + float32(gx*cos-gy*sin), oy + float32(gx*sin+gy*cos)
	}

	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.z.ClosePath()
			}
			r.z.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		r.z.ClosePath()
	}
	r.paint(ch.Color)
}
