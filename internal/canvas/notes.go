package canvas

import "canvasnotes/internal/document"

// Edge is a bitmask of note edges grabbed by a resize gesture. Corners set
// two bits.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeTop
	EdgeRight
	EdgeBottom

	EdgeNone Edge = 0
)

// Note is a live text box on the canvas. ID is stable for the lifetime of the
// note in memory and is never persisted.
type Note struct {
	ID       int
	Text     string
	Position Point // content frame, top-left corner
	Size     Size  // requested size

	measured Size
}

// Measured returns the size reported by the last layout pass, or the
// requested size when no layout has measured the note since it changed.
func (n *Note) Measured() Size {
	if n.measured.Width > 0 && n.measured.Height > 0 {
		return n.measured
	}
	return n.Size
}

// Contains reports whether a content-frame point lies within the note as
// drawn, edges included.
func (n *Note) Contains(p Point) bool {
	s := n.Measured()
	return p.X >= n.Position.X && p.X <= n.Position.X+float64(s.Width) &&
		p.Y >= n.Position.Y && p.Y <= n.Position.Y+float64(s.Height)
}

// EdgesAt returns the edges within slop of a note-local point. Left wins over
// right and top over bottom when a note is small enough for both.
func (n *Note) EdgesAt(local Point, slop float64) Edge {
	s := n.Measured()
	var e Edge
	if local.X < slop {
		e |= EdgeLeft
	} else if local.X > float64(s.Width)-slop {
		e |= EdgeRight
	}
	if local.Y < slop {
		e |= EdgeTop
	} else if local.Y > float64(s.Height)-slop {
		e |= EdgeBottom
	}
	return e
}

// Notes is the ordered collection of live notes. Later notes are drawn on top
// and win hit tests.
type Notes struct {
	items       []*Note
	nextID      int
	minSize     int
	defaultSize Size
}

func newNotes(m Metrics) *Notes {
	return &Notes{
		nextID:      1,
		minSize:     m.MinNoteSize,
		defaultSize: m.NoteSize,
	}
}

// Create adds a note of the default size at a content-frame position.
func (c *Notes) Create(text string, pos Point) *Note {
	n := &Note{
		ID:       c.nextID,
		Text:     text,
		Position: pos,
		Size:     c.floor(c.defaultSize),
	}
	c.nextID++
	c.items = append(c.items, n)
	return n
}

// Get returns the note with the given ID, or nil.
func (c *Notes) Get(id int) *Note {
	for _, n := range c.items {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// All returns the notes in drawing order.
func (c *Notes) All() []*Note {
	out := make([]*Note, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Notes) Len() int { return len(c.items) }

func (c *Notes) MutatePosition(n *Note, pos Point) {
	n.Position = pos
}

// MutateSize sets the requested size, floored at the minimum. Any earlier
// measurement is stale afterwards.
func (c *Notes) MutateSize(n *Note, s Size) {
	n.Size = c.floor(s)
	n.measured = Size{}
}

func (c *Notes) MutateText(n *Note, text string) {
	n.Text = text
}

// Clear removes every note.
func (c *Notes) Clear() {
	c.items = nil
}

// HitTest returns the top-most note containing a content-frame point.
func (c *Notes) HitTest(p Point) *Note {
	for i := len(c.items) - 1; i >= 0; i-- {
		if c.items[i].Contains(p) {
			return c.items[i]
		}
	}
	return nil
}

// Measure records the rendered size of every note as reported by a layout
// pass. Sizes that are not positive are ignored.
func (c *Notes) Measure(layout func(*Note) Size) {
	for _, n := range c.items {
		s := layout(n)
		if s.Width > 0 && s.Height > 0 {
			n.measured = s
		}
	}
}

// Snapshot captures each note with its measured size floored at the minimum.
func (c *Notes) Snapshot() []document.Note {
	out := make([]document.Note, 0, len(c.items))
	for _, n := range c.items {
		s := c.floor(n.Measured())
		out = append(out, document.Note{
			Text:   n.Text,
			X:      n.Position.X,
			Y:      n.Position.Y,
			Width:  s.Width,
			Height: s.Height,
		})
	}
	return out
}

// Restore replaces the collection with persisted notes.
func (c *Notes) Restore(notes []document.Note) {
	c.Clear()
	for _, dn := range notes {
		n := c.Create(dn.Text, Pt(dn.X, dn.Y))
		c.MutateSize(n, Size{dn.Width, dn.Height})
	}
}

func (c *Notes) floor(s Size) Size {
	return Size{max(s.Width, c.minSize), max(s.Height, c.minSize)}
}
