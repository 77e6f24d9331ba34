package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransformRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		p    Point
	}{
		{"identity", Transform{Scale: 1}, Pt(400, 300)},
		{"translated", Transform{Scale: 1, Translation: Pt(-19600, -19700)}, Pt(12, 34)},
		{"zoomed in", Transform{Scale: 2.5, Translation: Pt(100, -50)}, Pt(-7, 1e4)},
		{"zoomed out", Transform{Scale: 0.1, Translation: Pt(3, 4)}, Pt(0.5, 0.25)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := tt.tr.ToScreen(tt.tr.ToContent(tt.p))
			assert.InDelta(t, tt.p.X, back.X, 1e-9)
			assert.InDelta(t, tt.p.Y, back.Y, 1e-9)
		})
	}
}

func TestToContent(t *testing.T) {
	tr := Transform{Scale: 2, Translation: Pt(100, 50)}
	assert.Equal(t, Pt(150, 125), tr.ToContent(Pt(400, 300)))
	assert.Equal(t, Pt(400, 300), tr.ToScreen(Pt(150, 125)))
	assert.Equal(t, Pt(5, -10), tr.DeltaToContent(Pt(10, -20)), "translation does not apply to deltas")
}

func TestSizeHalf(t *testing.T) {
	assert.Equal(t, Pt(100, 50), Size{200, 100}.Half())
}
