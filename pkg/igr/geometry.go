package igr

import "math"

// Point is a position in the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is a top-left origin box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Expand returns r grown by p on every side.
func (r Rect) Expand(p float64) Rect {
	return Rect{X: r.X - p, Y: r.Y - p, Width: r.Width + 2*p, Height: r.Height + 2*p}
}

// Union returns the smallest box enclosing r and o.
func (r Rect) Union(o Rect) Rect {
	x0 := math.Min(r.X, o.X)
	y0 := math.Min(r.Y, o.Y)
	x1 := math.Max(r.Right(), o.Right())
	y1 := math.Max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Contains reports whether o lies inside r, allowing eps of rounding slack.
func (r Rect) Contains(o Rect, eps float64) bool {
	return o.X >= r.X-eps && o.Y >= r.Y-eps &&
		o.Right() <= r.Right()+eps && o.Bottom() <= r.Bottom()+eps
}

// Overlaps reports whether r and o share interior area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// IsFinite reports whether every field is finite and the size non-negative.
func (r Rect) IsFinite() bool {
	return finite(r.X) && finite(r.Y) && finite(r.Width) && finite(r.Height) &&
		r.Width >= 0 && r.Height >= 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ClipToBoundary returns the point where the segment from r's center toward
// p crosses r's boundary. If p is the center, the center is returned.
func ClipToBoundary(r Rect, p Point) Point {
	c := r.Center()
	dx, dy := p.X-c.X, p.Y-c.Y
	if dx == 0 && dy == 0 {
		return c
	}
	hw, hh := r.Width/2, r.Height/2
	t := math.Inf(1)
	if dx != 0 {
		t = math.Min(t, hw/math.Abs(dx))
	}
	if dy != 0 {
		t = math.Min(t, hh/math.Abs(dy))
	}
	if t > 1 {
		// p lies inside r.
		t = 1
	}
	return Point{X: c.X + dx*t, Y: c.Y + dy*t}
}
