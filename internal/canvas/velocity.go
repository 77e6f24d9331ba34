package canvas

import "time"

const (
	velocityWindow     = 100 * time.Millisecond
	velocityMaxSamples = 20
)

type velocitySample struct {
	pos Point
	at  time.Time
}

// velocityTracker estimates pointer velocity from the samples of the last
// velocityWindow. A pointer that rested before release reports no velocity.
type velocityTracker struct {
	samples []velocitySample
}

func (vt *velocityTracker) reset() {
	vt.samples = vt.samples[:0]
}

func (vt *velocityTracker) add(p Point, at time.Time) {
	vt.samples = append(vt.samples, velocitySample{pos: p, at: at})

	cutoff := at.Add(-velocityWindow)
	drop := 0
	for drop < len(vt.samples)-1 && vt.samples[drop].at.Before(cutoff) {
		drop++
	}
	if len(vt.samples)-drop > velocityMaxSamples {
		drop = len(vt.samples) - velocityMaxSamples
	}
	if drop > 0 {
		vt.samples = append(vt.samples[:0], vt.samples[drop:]...)
	}
}

// velocity returns px/s between the oldest and newest retained sample.
func (vt *velocityTracker) velocity() Point {
	if len(vt.samples) < 2 {
		return Point{}
	}
	first, last := vt.samples[0], vt.samples[len(vt.samples)-1]
	secs := last.at.Sub(first.at).Seconds()
	if secs <= 0 {
		return Point{}
	}
	return last.pos.Sub(first.pos).Div(secs)
}
