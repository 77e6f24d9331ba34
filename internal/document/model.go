// Package document holds the persisted shape of a canvas: notes, viewport
// transform and the metadata entry that makes every record self-describing.
package document

import "time"

// Note is the persisted state of a single text box.
// X and Y are content-frame coordinates, Width and Height are pixels.
type Note struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
}

// State is the persisted state of the whole canvas: every note plus the
// viewport transform. It is also the complete legacy record shape.
type State struct {
	Notes        []Note  `json:"notes"`
	ScaleFactor  float64 `json:"scaleFactor"`
	TranslationX float64 `json:"translationX"`
	TranslationY float64 `json:"translationY"`
}

// Entry is the metadata of a saved canvas, as shown in document listings.
type Entry struct {
	Title        string `json:"title"`
	FileName     string `json:"fileName"`
	LastModified int64  `json:"lastModified"` // unix milliseconds
}

// Record is the unit written to and read from storage.
type Record struct {
	Entry Entry `json:"entry"`
	State State `json:"state"`
}

// NewEntry builds an entry stamped with t.
func NewEntry(title, fileName string, t time.Time) Entry {
	return Entry{
		Title:        title,
		FileName:     fileName,
		LastModified: t.UnixMilli(),
	}
}

// ModTime returns LastModified as a time.Time.
func (e Entry) ModTime() time.Time {
	return time.UnixMilli(e.LastModified)
}

// WithModTime returns a copy of e whose timestamp is t. Storage timestamps
// override whatever the record carries.
func (e Entry) WithModTime(t time.Time) Entry {
	e.LastModified = t.UnixMilli()
	return e
}

// EmptyState is the state of a fresh canvas before any layout happened.
func EmptyState() State {
	return State{
		Notes:       []Note{},
		ScaleFactor: 1.0,
	}
}
