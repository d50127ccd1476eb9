package pdf

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseTextPosition(t *testing.T) {
	objs := NewContentStreamParser(nil, nil, 0, 792).Parse([]byte("BT /F1 10 Tf 100 700 Td (H) Tj ET"))
	if len(objs.Chars) != 1 {
		t.Fatalf("chars = %d, want 1", len(objs.Chars))
	}

	ch := objs.Chars[0]
	want := BoundingBox{X0: 100, Y0: 84, X1: 105, Y1: 94}
	if diff := cmp.Diff(want, ch.GetBBox(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("bbox mismatch (-want +got):\n%s", diff)
	}
	if ch.OriginY != 92 || ch.Angle != 0 || ch.FontSize != 10 {
		t.Errorf("origin y %.2f angle %.2f size %.2f, want 92 0 10", ch.OriginY, ch.Angle, ch.FontSize)
	}
}

func TestParseRotatedText(t *testing.T) {
	objs := NewContentStreamParser(nil, nil, 0, 792).Parse([]byte("BT /F1 10 Tf 0.7071 0.7071 -0.7071 0.7071 100 100 Tm (A) Tj ET"))
	if len(objs.Chars) != 1 {
		t.Fatalf("chars = %d, want 1", len(objs.Chars))
	}
	if got := objs.Chars[0].Angle; math.Abs(got+45) > 0.01 {
		t.Errorf("angle = %.3f, want -45", got)
	}
}

func TestParseInvisibleText(t *testing.T) {
	objs := NewContentStreamParser(nil, nil, 0, 792).Parse([]byte("BT 3 Tr /F1 10 Tf (A) Tj ET BT 0 Tr /F1 10 Tf (B) Tj ET"))
	if len(objs.Chars) != 2 {
		t.Fatalf("chars = %d, want 2", len(objs.Chars))
	}
	if !objs.Chars[0].Invisible || objs.Chars[1].Invisible {
		t.Errorf("invisible flags = %v %v, want true false", objs.Chars[0].Invisible, objs.Chars[1].Invisible)
	}
}

func TestParseGraphics(t *testing.T) {
	content := "0.5 g 10 20 30 40 re f 1 0 0 RG 2 w 0 0 m 100 0 l S 0 0 1 rg 0 0 m 10 0 l 5 10 l h f"
	objs := NewContentStreamParser(nil, nil, 0, 792).Parse([]byte(content))

	wantRects := []RectObject{{X0: 10, Y0: 732, X1: 40, Y1: 772, FillColor: Color{R: 0.5, G: 0.5, B: 0.5}, Seq: 1}}
	if diff := cmp.Diff(wantRects, objs.Rects); diff != "" {
		t.Errorf("rects mismatch (-want +got):\n%s", diff)
	}

	wantLines := []LineObject{{X0: 0, Y0: 792, X1: 100, Y1: 792, Width: 2, StrokeColor: Color{R: 1}, Seq: 2}}
	if diff := cmp.Diff(wantLines, objs.Lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if len(objs.Paths) != 1 {
		t.Fatalf("paths = %d, want 1", len(objs.Paths))
	}
	if got := objs.Paths[0].FillColor; got != (Color{B: 1}) {
		t.Errorf("path colour = %v, want blue", got)
	}
	if got := objs.Paths[0].Seq; got != 3 {
		t.Errorf("path seq = %d, want 3", got)
	}
}

func TestSaveRestoreState(t *testing.T) {
	content := "q 1 0 0 rg Q 0 0 10 10 re f"
	objs := NewContentStreamParser(nil, nil, 0, 100).Parse([]byte(content))
	if len(objs.Rects) != 1 {
		t.Fatalf("rects = %d, want 1", len(objs.Rects))
	}
	if got := objs.Rects[0].FillColor; got != Black {
		t.Errorf("fill after Q = %v, want black", got)
	}
}
