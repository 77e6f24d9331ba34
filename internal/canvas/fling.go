package canvas

import (
	"math"
	"time"
)

// flingStopVelocity is the speed, in px/s, below which a fling is finished.
const flingStopVelocity = 5.0

// fling integrates momentum scrolling. Velocity decays exponentially and the
// displacement of each step is the exact integral over the step, so the
// travelled distance does not depend on the tick rate.
type fling struct {
	velocity Point
	friction float64
	active   bool
}

func (f *fling) start(v Point) {
	f.velocity = v
	f.active = v.Len() >= flingStopVelocity
}

func (f *fling) stop() bool {
	was := f.active
	f.active = false
	f.velocity = Point{}
	return was
}

// step advances the fling by dt and returns the displacement to apply and
// whether the fling is still running afterwards.
func (f *fling) step(dt time.Duration) (Point, bool) {
	if !f.active {
		return Point{}, false
	}
	secs := dt.Seconds()
	if secs <= 0 {
		return Point{}, true
	}

	k := f.friction
	if k <= 0 {
		k = DefaultFlingFriction
	}
	decay := math.Exp(-k * secs)
	d := f.velocity.Mul((1 - decay) / k)
	f.velocity = f.velocity.Mul(decay)

	if f.velocity.Len() < flingStopVelocity {
		f.stop()
		return d, false
	}
	return d, true
}
