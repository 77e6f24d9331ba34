package canvas

import "time"

const (
	// MinScale and MaxScale bound the viewport zoom.
	MinScale = 0.1
	MaxScale = 10.0

	// ContentMultiplier sizes the content frame relative to the viewport's
	// larger side, so panning rarely reaches an edge.
	ContentMultiplier = 50

	// DoubleTapTimeout is the longest gap between two taps of a double tap.
	DoubleTapTimeout = 300 * time.Millisecond

	// DefaultFlingFriction is the exponential decay rate of fling velocity, per second.
	DefaultFlingFriction = 4.0

	// WheelZoomStep is the zoom factor of one wheel notch.
	WheelZoomStep = 1.1

	resizeHandleDP  = 20
	minNoteDP       = 50
	noteWidthDP     = 200
	noteHeightDP    = 100
	touchSlopDP     = 8
	doubleTapSlopDP = 100
	minFlingDP      = 50
	maxFlingDP      = 8000
	wheelStepDP     = 40
)

// Metrics holds every distance threshold in pixels for one display density.
type Metrics struct {
	Density float64

	ResizeSlop    float64 // distance from an edge that starts a resize
	MinNoteSize   int     // floor for note width and height
	NoteSize      Size    // size of a freshly created note
	TouchSlop     float64 // largest displacement still treated as a tap
	DoubleTapSlop float64 // largest distance between the taps of a double tap

	DoubleTapTimeout time.Duration

	MinFlingVelocity float64 // px/s
	MaxFlingVelocity float64 // px/s
	FlingFriction    float64

	WheelStep float64 // pan distance of one wheel notch

	ContentMultiplier int
}

// NewMetrics converts the density-independent defaults to pixels.
// A non-positive density is treated as 1.
func NewMetrics(density float64) Metrics {
	if density <= 0 {
		density = 1
	}
	return Metrics{
		Density:           density,
		ResizeSlop:        float64(dpToPx(resizeHandleDP, density)),
		MinNoteSize:       dpToPx(minNoteDP, density),
		NoteSize:          Size{dpToPx(noteWidthDP, density), dpToPx(noteHeightDP, density)},
		TouchSlop:         float64(dpToPx(touchSlopDP, density)),
		DoubleTapSlop:     float64(dpToPx(doubleTapSlopDP, density)),
		DoubleTapTimeout:  DoubleTapTimeout,
		MinFlingVelocity:  float64(dpToPx(minFlingDP, density)),
		MaxFlingVelocity:  float64(dpToPx(maxFlingDP, density)),
		FlingFriction:     DefaultFlingFriction,
		WheelStep:         float64(dpToPx(wheelStepDP, density)),
		ContentMultiplier: ContentMultiplier,
	}
}

func dpToPx(dp int, density float64) int {
	return int(float64(dp) * density)
}
