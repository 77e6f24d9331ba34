package canvas

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportCentersOnFirstResize(t *testing.T) {
	v := NewViewport(ContentMultiplier, DefaultFlingFriction)
	assert.False(t, v.Ready())
	assert.False(t, v.Resize(0, 600), "a zero dimension is not ready")

	require.True(t, v.Resize(800, 600))
	assert.Equal(t, Pt(-19600, -19700), v.Translation())
	assert.Equal(t, 40000.0, v.ContentSize())

	v.Pan(Pt(10, 10))
	assert.False(t, v.Resize(1024, 768), "later resizes keep the transform")
	assert.Equal(t, Pt(-19590, -19690), v.Translation())
}

func TestViewportZoomKeepsFocalPoint(t *testing.T) {
	v := NewViewport(ContentMultiplier, DefaultFlingFriction)
	v.Resize(800, 600)
	v.Set(1.3, Pt(-250, 75))

	focal := Pt(320, 210)
	before := v.Transform().ToContent(focal)
	v.Zoom(focal, 1.7)

	after := v.Transform().ToContent(focal)
	assert.InDelta(t, 1.3*1.7, v.Scale(), 1e-9)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestViewportZoomInverse(t *testing.T) {
	for _, m := range []float64{0.5, 0.9, 1.1, 2, 3.3} {
		v := NewViewport(ContentMultiplier, DefaultFlingFriction)
		v.Set(1, Pt(12, -40))

		v.Zoom(Pt(100, 200), m)
		v.Zoom(Pt(100, 200), 1/m)

		assert.InDelta(t, 1.0, v.Scale(), 1e-9, "m=%v", m)
		assert.InDelta(t, 12.0, v.Translation().X, 1e-9, "m=%v", m)
		assert.InDelta(t, -40.0, v.Translation().Y, 1e-9, "m=%v", m)
	}
}

func TestViewportZoomClamps(t *testing.T) {
	v := NewViewport(ContentMultiplier, DefaultFlingFriction)
	v.Zoom(Pt(0, 0), 1000)
	assert.Equal(t, MaxScale, v.Scale())

	v.Zoom(Pt(0, 0), 1e-6)
	assert.Equal(t, MinScale, v.Scale())

	for _, m := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		v.Zoom(Pt(5, 5), m)
		assert.Equal(t, MinScale, v.Scale(), "m=%v is ignored", m)
	}
}

func TestViewportReset(t *testing.T) {
	v := NewViewport(ContentMultiplier, DefaultFlingFriction)
	v.Resize(800, 600)
	v.Zoom(Pt(1, 2), 4)
	v.Pan(Pt(300, 300))
	v.Fling(Pt(1000, 0))

	v.Reset()
	assert.Equal(t, 1.0, v.Scale())
	assert.Equal(t, Pt(-19600, -19700), v.Translation())
	assert.False(t, v.Flinging())
}

func TestViewportSetClampsScale(t *testing.T) {
	v := NewViewport(ContentMultiplier, DefaultFlingFriction)
	v.Set(25, Pt(1, 2))
	assert.Equal(t, MaxScale, v.Scale())
	assert.Equal(t, Pt(1, 2), v.Translation())

	v.Set(math.NaN(), Pt(0, 0))
	assert.Equal(t, 1.0, v.Scale())
}

func runFling(v *Viewport, dt time.Duration) int {
	ticks := 0
	for v.Step(dt) {
		ticks++
		if ticks > 100000 {
			break
		}
	}
	return ticks
}

func TestFlingDecaysToRest(t *testing.T) {
	v := NewViewport(ContentMultiplier, 4)
	v.Fling(Pt(1000, 0))
	require.True(t, v.Flinging())

	ticks := runFling(v, 16*time.Millisecond)
	assert.Greater(t, ticks, 10)
	assert.False(t, v.Flinging())

	// v0/k minus what is left below the stop velocity.
	assert.InDelta(t, 248.8, v.Translation().X, 0.1)
	assert.Equal(t, 0.0, v.Translation().Y)
}

func TestFlingIndependentOfTickRate(t *testing.T) {
	fine := NewViewport(ContentMultiplier, 4)
	coarse := NewViewport(ContentMultiplier, 4)
	fine.Fling(Pt(-600, 800))
	coarse.Fling(Pt(-600, 800))

	for i := 0; i < 100; i++ {
		fine.Step(10 * time.Millisecond)
	}
	for i := 0; i < 20; i++ {
		coarse.Step(50 * time.Millisecond)
	}
	assert.InDelta(t, fine.Translation().X, coarse.Translation().X, 1e-6)
	assert.InDelta(t, fine.Translation().Y, coarse.Translation().Y, 1e-6)
}

func TestFlingInterrupted(t *testing.T) {
	v := NewViewport(ContentMultiplier, 4)
	v.Fling(Pt(0, 3000))
	v.Step(16 * time.Millisecond)
	moved := v.Translation()

	assert.True(t, v.StopFling())
	assert.False(t, v.StopFling())
	assert.False(t, v.Step(16*time.Millisecond))
	assert.Equal(t, moved, v.Translation())
}

func TestFlingTooSlowNeverStarts(t *testing.T) {
	v := NewViewport(ContentMultiplier, 4)
	v.Fling(Pt(1, 1))
	assert.False(t, v.Flinging())
}
