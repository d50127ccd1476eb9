package pdf

import "math"

// Tolerance for floating point comparisons
const FloatTolerance = 0.1

// clampRange clamps v into [lo, hi]
func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampToPage returns r normalized and clamped into a page of the given size
func ClampToPage(r BoundingBox, width, height float64) BoundingBox {
	r = r.Normalize()
	return BoundingBox{
		X0: clampRange(r.X0, 0, width),
		Y0: clampRange(r.Y0, 0, height),
		X1: clampRange(r.X1, 0, width),
		Y1: clampRange(r.Y1, 0, height),
	}
}
