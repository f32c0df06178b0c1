package model

import "math"

// Rect is an axis-aligned rectangle in page coordinates. The origin is the
// top-left corner of the page; Top and Bottom increase downward, matching the
// coordinate space of extracted word boxes.
type Rect struct {
	X0     float64 // left edge
	X1     float64 // right edge
	Top    float64 // upper edge (smaller value is higher on the page)
	Bottom float64 // lower edge
}

// NewRect creates a rectangle from its four edges.
func NewRect(x0, x1, top, bottom float64) Rect {
	return Rect{X0: x0, X1: x1, Top: top, Bottom: bottom}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// CenterX returns the horizontal center.
func (r Rect) CenterX() float64 {
	return (r.X0 + r.X1) / 2
}

// CenterY returns the vertical center.
func (r Rect) CenterY() float64 {
	return (r.Top + r.Bottom) / 2
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Top && y <= r.Bottom
}

// Intersects reports whether the two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !(r.X1 < other.X0 ||
		r.X0 > other.X1 ||
		r.Bottom < other.Top ||
		r.Top > other.Bottom)
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(other Rect) Rect {
	return Rect{
		X0:     math.Min(r.X0, other.X0),
		X1:     math.Max(r.X1, other.X1),
		Top:    math.Min(r.Top, other.Top),
		Bottom: math.Max(r.Bottom, other.Bottom),
	}
}

// Expand grows the rectangle by margin on all sides.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X0:     r.X0 - margin,
		X1:     r.X1 + margin,
		Top:    r.Top - margin,
		Bottom: r.Bottom + margin,
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Bottom <= r.Top
}
