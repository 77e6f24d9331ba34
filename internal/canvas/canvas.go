// Package canvas is the interaction engine of the note canvas: coordinate
// transforms, gesture classification, the viewport and its fling physics, and
// the live note collection.
//
// The engine is driven from a single event loop and is not safe for
// concurrent use.
package canvas

import (
	"log/slog"
	"time"

	"canvasnotes/internal/document"
)

// Canvas ties the viewport, the notes and the gesture state machine together.
type Canvas struct {
	metrics  Metrics
	viewport *Viewport
	notes    *Notes
	logger   *slog.Logger

	g       gesture
	focused int

	tapArmed    bool
	lastTapPos  Point
	lastTapTime time.Time

	// pending holds state applied before the viewport had dimensions.
	pending *document.State
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithMetrics sets the pixel thresholds.
func WithMetrics(m Metrics) Option {
	return func(c *Canvas) { c.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) { c.logger = l }
}

// New creates an empty canvas. It becomes ready once Resize reports
// dimensions.
func New(opts ...Option) *Canvas {
	c := &Canvas{metrics: NewMetrics(1)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.viewport = NewViewport(c.metrics.ContentMultiplier, c.metrics.FlingFriction)
	c.notes = newNotes(c.metrics)
	c.g.pointers = make(map[int]Point)
	return c
}

func (c *Canvas) Metrics() Metrics    { return c.metrics }
func (c *Canvas) Viewport() *Viewport { return c.viewport }
func (c *Canvas) Notes() *Notes       { return c.notes }

// Ready reports whether the viewport dimensions are known.
func (c *Canvas) Ready() bool { return c.viewport.Ready() }

// Resize reports new viewport dimensions. State buffered by ApplyState is
// applied exactly once, when the dimensions first become known.
func (c *Canvas) Resize(width, height int) {
	if !c.viewport.Resize(width, height) {
		return
	}
	if c.pending != nil {
		s := *c.pending
		c.pending = nil
		c.logger.Debug("applying deferred canvas state", "notes", len(s.Notes))
		c.apply(s)
	}
}

// ApplyState replaces the canvas content with a stored state. Before the
// viewport is ready the state is buffered; a later call replaces the buffer.
func (c *Canvas) ApplyState(s document.State) {
	if !c.viewport.Ready() {
		c.pending = &s
		return
	}
	c.pending = nil
	c.apply(s)
}

func (c *Canvas) apply(s document.State) {
	c.resetInteraction()
	c.notes.Restore(s.Notes)
	c.viewport.Set(s.ScaleFactor, Pt(s.TranslationX, s.TranslationY))
}

// State captures the current canvas. State that is still waiting for the
// viewport is returned as is, since it is what the canvas will show.
func (c *Canvas) State() document.State {
	if c.pending != nil {
		s := *c.pending
		s.Notes = append([]document.Note{}, c.pending.Notes...)
		return s
	}
	t := c.viewport.Translation()
	return document.State{
		Notes:        c.notes.Snapshot(),
		ScaleFactor:  c.viewport.Scale(),
		TranslationX: t.X,
		TranslationY: t.Y,
	}
}

// Reset empties the canvas and recenters the viewport at scale 1.
func (c *Canvas) Reset() {
	c.pending = nil
	c.resetInteraction()
	c.notes.Clear()
	c.viewport.Reset()
}

func (c *Canvas) resetInteraction() {
	c.g.reset()
	c.focused = 0
	c.tapArmed = false
}

// Tick advances momentum scrolling and reports whether another tick is needed.
func (c *Canvas) Tick(dt time.Duration) bool {
	return c.viewport.Step(dt)
}

// Focused returns the note being edited, or nil.
func (c *Canvas) Focused() *Note {
	if c.focused == 0 {
		return nil
	}
	return c.notes.Get(c.focused)
}

// Focus gives text-edit focus to a note.
func (c *Canvas) Focus(id int) bool {
	if c.notes.Get(id) == nil {
		return false
	}
	c.focused = id
	return true
}

// ClearFocus ends text editing.
func (c *Canvas) ClearFocus() {
	c.focused = 0
}

// SetText replaces the text of a note.
func (c *Canvas) SetText(id int, text string) bool {
	n := c.notes.Get(id)
	if n == nil {
		return false
	}
	c.notes.MutateText(n, text)
	return true
}

// AddNoteAt creates an empty note centered on a screen point.
func (c *Canvas) AddNoteAt(screen Point) *Note {
	t := c.viewport.Transform()
	half := t.DeltaToContent(c.metrics.NoteSize.Half())
	return c.notes.Create("", t.ToContent(screen).Sub(half))
}
