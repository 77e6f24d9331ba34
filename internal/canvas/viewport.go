package canvas

import (
	"math"
	"time"
)

// Viewport owns the scale and translation of the content frame relative to
// the screen, and the momentum animation that moves it after a fling.
type Viewport struct {
	scale       float64
	translation Point

	width, height int
	multiplier    int

	fling fling
}

// NewViewport returns a viewport at scale 1 whose dimensions are not yet known.
func NewViewport(multiplier int, friction float64) *Viewport {
	if multiplier <= 0 {
		multiplier = ContentMultiplier
	}
	return &Viewport{
		scale:      1,
		multiplier: multiplier,
		fling:      fling{friction: friction},
	}
}

func (v *Viewport) Scale() float64 { return v.scale }

func (v *Viewport) Translation() Point { return v.translation }

// Transform returns the current screen/content mapping.
func (v *Viewport) Transform() Transform {
	return Transform{Scale: v.scale, Translation: v.translation}
}

// Size returns the viewport dimensions in pixels.
func (v *Viewport) Size() Size { return Size{v.width, v.height} }

// Ready reports whether the viewport dimensions are known.
func (v *Viewport) Ready() bool { return v.width > 0 && v.height > 0 }

// ContentSize is the side of the square content frame.
func (v *Viewport) ContentSize() float64 {
	return float64(max(v.width, v.height) * v.multiplier)
}

// Resize records the viewport dimensions and reports whether this call made
// the viewport ready. The first time dimensions become known the content
// frame is centered; later resizes keep the transform.
func (v *Viewport) Resize(width, height int) bool {
	wasReady := v.Ready()
	v.width, v.height = width, height
	if !wasReady && v.Ready() {
		v.center()
		return true
	}
	return false
}

// Zoom multiplies the scale by m, clamped to [MinScale, MaxScale], keeping the
// content point under focal fixed on screen.
func (v *Viewport) Zoom(focal Point, m float64) {
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return
	}
	prev := v.scale
	v.scale = clampScale(prev * m)

	content := focal.Sub(v.translation).Div(prev)
	v.translation = focal.Sub(content.Mul(v.scale))
}

// Pan moves the content frame by a screen-space delta.
func (v *Viewport) Pan(d Point) {
	v.translation = v.translation.Add(d)
}

// Fling starts momentum scrolling with the given velocity in px/s. The
// reachable translation is unbounded.
func (v *Viewport) Fling(velocity Point) {
	v.fling.start(velocity)
}

// Flinging reports whether a fling is in progress.
func (v *Viewport) Flinging() bool { return v.fling.active }

// StopFling interrupts momentum scrolling and reports whether one was running.
func (v *Viewport) StopFling() bool { return v.fling.stop() }

// Step advances a running fling by dt and reports whether it should keep
// being ticked.
func (v *Viewport) Step(dt time.Duration) bool {
	d, running := v.fling.step(dt)
	v.translation = v.translation.Add(d)
	return running
}

// Reset returns to scale 1 with the content frame centered on the viewport.
func (v *Viewport) Reset() {
	v.fling.stop()
	v.scale = 1
	v.center()
}

// Set adopts a stored transform. The scale is clamped.
func (v *Viewport) Set(scale float64, translation Point) {
	v.fling.stop()
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	v.scale = clampScale(scale)
	v.translation = translation
}

func (v *Viewport) center() {
	side := v.ContentSize()
	v.translation = Point{
		X: (float64(v.width) - side) / 2,
		Y: (float64(v.height) - side) / 2,
	}
}

func clampScale(s float64) float64 {
	return math.Max(MinScale, math.Min(s, MaxScale))
}
