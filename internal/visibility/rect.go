package visibility

import "math"

// Rect is an axis-aligned box in page coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Area() float64 {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

func (r Rect) contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1 := math.Max(r.X, o.X)
	y1 := math.Max(r.Y, o.Y)
	x2 := math.Min(r.X+r.Width, o.X+o.Width)
	y2 := math.Min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// IntersectionRatio returns the fraction of target's area inside the
// viewport grown by m. A zero-area target counts as fully visible when its
// origin lies inside the grown viewport.
func IntersectionRatio(target, viewport Rect, m Margin) float64 {
	root := m.Expand(viewport)
	area := target.Area()
	if area == 0 {
		if root.contains(target.X, target.Y) {
			return 1
		}
		return 0
	}
	return clampRatio(target.Intersect(root).Area() / area)
}

func clampRatio(r float64) float64 {
	switch {
	case math.IsNaN(r) || r < 0:
		return 0
	case r > 1:
		return 1
	}
	return r
}
