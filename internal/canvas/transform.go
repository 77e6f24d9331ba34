package canvas

import "math"

// Point is a location or displacement in one of the three frames: screen,
// content (the pannable plane) or note-local.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }
func (p Point) Mid(q Point) Point { return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2} }
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Size is a width and height in whole pixels.
type Size struct {
	Width, Height int
}

// Half returns the center offset of a box of this size.
func (s Size) Half() Point {
	return Point{float64(s.Width) / 2, float64(s.Height) / 2}
}

// Transform maps between the screen and the content frame. Content is drawn
// scaled about its own origin and then translated.
type Transform struct {
	Scale       float64
	Translation Point
}

// ToContent converts a screen point into content-frame coordinates.
func (t Transform) ToContent(screen Point) Point {
	return screen.Sub(t.Translation).Div(t.Scale)
}

// ToScreen converts a content-frame point into screen coordinates.
func (t Transform) ToScreen(content Point) Point {
	return content.Mul(t.Scale).Add(t.Translation)
}

// DeltaToContent converts a screen displacement into a content displacement.
// Translation does not apply to deltas.
func (t Transform) DeltaToContent(d Point) Point {
	return d.Div(t.Scale)
}
