package canvas

import (
	"maps"
	"math"
	"slices"
	"time"
)

// PointerAction is the kind of a raw pointer event.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
	PointerCancel
	// PointerScroll is a wheel event; it is not part of a pointer sequence.
	PointerScroll
)

// Modifiers are held keys that change how an event is classified.
type Modifiers uint8

const (
	// ModZoom turns wheel scrolling into zooming.
	ModZoom Modifiers = 1 << iota
)

// PointerEvent is one input sample from any backend: touch, mouse or wheel.
type PointerEvent struct {
	ID       int
	Action   PointerAction
	Position Point // screen frame

	// Scroll is the wheel movement in notches. Positive Y scrolls the content
	// down and, with ModZoom, zooms in.
	Scroll Point

	Modifiers Modifiers
	Time      time.Time
}

// ResultKind says what a pointer event did.
type ResultKind int

const (
	None ResultKind = iota
	Pan
	Zoom
	Fling
	DragNote
	ResizeNote
	FocusNote
	ClearFocus
	CreateNote
	Tap
	DragEnd
	ResizeEnd
)

var resultKindNames = [...]string{
	None:       "none",
	Pan:        "pan",
	Zoom:       "zoom",
	Fling:      "fling",
	DragNote:   "drag-note",
	ResizeNote: "resize-note",
	FocusNote:  "focus-note",
	ClearFocus: "clear-focus",
	CreateNote: "create-note",
	Tap:        "tap",
	DragEnd:    "drag-end",
	ResizeEnd:  "resize-end",
}

func (k ResultKind) String() string {
	if k >= 0 && int(k) < len(resultKindNames) {
		return resultKindNames[k]
	}
	return "unknown"
}

// Result is the action taken for a pointer event. NoteID is set when a note
// was involved.
type Result struct {
	Kind   ResultKind
	NoteID int
}

type gestureMode int

const (
	modeIdle gestureMode = iota
	modeCanvas
	modeDrag
	modeResize
)

// gesture is the state of the pointer sequence in progress. A sequence starts
// when the first pointer goes down and ends when the last one is up.
type gesture struct {
	mode     gestureMode
	pointers map[int]Point

	primary     int
	down        Point
	downTime    time.Time
	last        Point
	inTapRegion bool

	pinching bool    // two or more pointers are down on the canvas
	pinched  bool    // the sequence included a pinch
	span     float64 // pointer distance at the previous pinch sample

	note      int
	edges     Edge
	notePos0  Point
	noteSize0 Size

	tracker velocityTracker
}

func (g *gesture) reset() {
	*g = gesture{pointers: make(map[int]Point)}
}

// pair returns the two lowest-numbered pointers.
func (g *gesture) pair() (Point, Point) {
	ids := slices.Sorted(maps.Keys(g.pointers))
	return g.pointers[ids[0]], g.pointers[ids[1]]
}

func (g *gesture) track(p Point, slop float64) {
	if g.inTapRegion && p.Dist(g.down) > slop {
		g.inTapRegion = false
	}
}

// HandlePointerEvent classifies one pointer event and applies its effect to
// the viewport or the notes. Events that arrive before the viewport is ready
// are ignored.
func (c *Canvas) HandlePointerEvent(ev PointerEvent) Result {
	if !c.Ready() {
		return Result{}
	}
	switch ev.Action {
	case PointerDown:
		return c.pointerDown(ev)
	case PointerMove:
		return c.pointerMove(ev)
	case PointerUp:
		return c.pointerUp(ev)
	case PointerCancel:
		c.g.reset()
		c.tapArmed = false
		return Result{}
	case PointerScroll:
		return c.scroll(ev)
	}
	return Result{}
}

func (c *Canvas) pointerDown(ev PointerEvent) Result {
	g := &c.g
	g.pointers[ev.ID] = ev.Position

	if len(g.pointers) > 1 {
		if g.mode == modeCanvas {
			a, b := g.pair()
			g.pinching, g.pinched = true, true
			g.inTapRegion = false
			g.span = a.Dist(b)
		}
		return Result{}
	}

	c.viewport.StopFling()
	g.primary = ev.ID
	g.down, g.last, g.downTime = ev.Position, ev.Position, ev.Time
	g.inTapRegion = true
	g.pinching, g.pinched = false, false
	g.tracker.reset()
	g.tracker.add(ev.Position, ev.Time)

	p := c.viewport.Transform().ToContent(ev.Position)
	n := c.notes.HitTest(p)
	if n == nil {
		g.mode = modeCanvas
		return Result{}
	}

	g.note = n.ID
	g.notePos0 = n.Position
	g.noteSize0 = n.Measured()
	g.edges = n.EdgesAt(p.Sub(n.Position), c.metrics.ResizeSlop)
	if g.edges != EdgeNone {
		g.mode = modeResize
	} else {
		g.mode = modeDrag
	}
	return Result{NoteID: n.ID}
}

func (c *Canvas) pointerMove(ev PointerEvent) Result {
	g := &c.g
	if _, ok := g.pointers[ev.ID]; !ok {
		return Result{}
	}
	g.pointers[ev.ID] = ev.Position

	switch g.mode {
	case modeDrag, modeResize:
		if ev.ID != g.primary {
			return Result{}
		}
		g.track(ev.Position, c.metrics.TouchSlop)
		n := c.notes.Get(g.note)
		if n == nil {
			return Result{}
		}
		d := c.viewport.Transform().DeltaToContent(ev.Position.Sub(g.down))
		if g.mode == modeDrag {
			c.notes.MutatePosition(n, g.notePos0.Add(d))
			return Result{Kind: DragNote, NoteID: n.ID}
		}
		c.resizeNote(n, d)
		return Result{Kind: ResizeNote, NoteID: n.ID}

	case modeCanvas:
		if g.pinching {
			a, b := g.pair()
			span := a.Dist(b)
			if g.span > 0 && span > 0 {
				c.viewport.Zoom(a.Mid(b), span/g.span)
			}
			g.span = span
			return Result{Kind: Zoom}
		}
		if g.pinched || ev.ID != g.primary {
			return Result{}
		}
		g.tracker.add(ev.Position, ev.Time)
		g.track(ev.Position, c.metrics.TouchSlop)
		if g.inTapRegion {
			return Result{}
		}
		c.viewport.Pan(ev.Position.Sub(g.last))
		g.last = ev.Position
		return Result{Kind: Pan}
	}
	return Result{}
}

func (c *Canvas) pointerUp(ev PointerEvent) Result {
	g := &c.g
	if _, ok := g.pointers[ev.ID]; !ok {
		return Result{}
	}
	delete(g.pointers, ev.ID)

	if g.pinching {
		if len(g.pointers) < 2 {
			g.pinching = false
			// Back to the primary pointer alone: panning picks up from
			// where it rests now.
			if p, ok := g.pointers[g.primary]; ok {
				g.pinched = false
				g.last = p
				g.tracker.reset()
				g.tracker.add(p, ev.Time)
			}
		} else {
			a, b := g.pair()
			g.span = a.Dist(b)
		}
	}
	if ev.ID != g.primary || g.mode == modeIdle {
		return Result{}
	}

	// The sequence is over once the primary pointer lifts. Pointers still
	// down are ignored until they are all up.
	mode := g.mode
	g.mode = modeIdle
	g.track(ev.Position, c.metrics.TouchSlop)

	switch mode {
	case modeDrag, modeResize:
		c.tapArmed = false
		if g.inTapRegion && c.notes.Get(g.note) != nil {
			c.focused = g.note
			return Result{Kind: FocusNote, NoteID: g.note}
		}
		if mode == modeDrag {
			return Result{Kind: DragEnd, NoteID: g.note}
		}
		return Result{Kind: ResizeEnd, NoteID: g.note}

	case modeCanvas:
		if g.pinched {
			c.tapArmed = false
			return Result{}
		}
		if g.inTapRegion {
			return c.canvasTap(ev)
		}
		c.tapArmed = false
		g.tracker.add(ev.Position, ev.Time)
		v := g.tracker.velocity()
		speed := v.Len()
		if speed < c.metrics.MinFlingVelocity {
			return Result{}
		}
		if speed > c.metrics.MaxFlingVelocity {
			v = v.Mul(c.metrics.MaxFlingVelocity / speed)
		}
		c.viewport.Fling(v)
		return Result{Kind: Fling}
	}
	return Result{}
}

func (c *Canvas) canvasTap(ev PointerEvent) Result {
	if c.focused != 0 {
		c.focused = 0
		c.tapArmed = false
		return Result{Kind: ClearFocus}
	}
	if c.tapArmed &&
		ev.Time.Sub(c.lastTapTime) <= c.metrics.DoubleTapTimeout &&
		ev.Position.Dist(c.lastTapPos) <= c.metrics.DoubleTapSlop {
		c.tapArmed = false
		n := c.AddNoteAt(ev.Position)
		return Result{Kind: CreateNote, NoteID: n.ID}
	}
	c.tapArmed = true
	c.lastTapPos = ev.Position
	c.lastTapTime = ev.Time
	return Result{Kind: Tap}
}

// resizeNote applies a content-frame displacement measured from the start of
// the gesture. Left and top edges move the position by however much the size
// changed, so a floored box stays anchored at its opposite edge.
func (c *Canvas) resizeNote(n *Note, d Point) {
	g := &c.g
	minSize := c.metrics.MinNoteSize
	w, h := g.noteSize0.Width, g.noteSize0.Height
	pos := g.notePos0

	switch {
	case g.edges&EdgeLeft != 0:
		w = max(int(float64(g.noteSize0.Width)-d.X), minSize)
		pos.X = g.notePos0.X + float64(g.noteSize0.Width-w)
	case g.edges&EdgeRight != 0:
		w = max(int(float64(g.noteSize0.Width)+d.X), minSize)
	}
	switch {
	case g.edges&EdgeTop != 0:
		h = max(int(float64(g.noteSize0.Height)-d.Y), minSize)
		pos.Y = g.notePos0.Y + float64(g.noteSize0.Height-h)
	case g.edges&EdgeBottom != 0:
		h = max(int(float64(g.noteSize0.Height)+d.Y), minSize)
	}

	c.notes.MutatePosition(n, pos)
	c.notes.MutateSize(n, Size{w, h})
}

func (c *Canvas) scroll(ev PointerEvent) Result {
	c.viewport.StopFling()
	if ev.Modifiers&ModZoom != 0 {
		if ev.Scroll.Y == 0 {
			return Result{}
		}
		c.viewport.Zoom(ev.Position, math.Pow(WheelZoomStep, ev.Scroll.Y))
		return Result{Kind: Zoom}
	}
	d := ev.Scroll.Mul(c.metrics.WheelStep)
	if d == (Point{}) {
		return Result{}
	}
	c.viewport.Pan(d)
	return Result{Kind: Pan}
}
