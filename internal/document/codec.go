package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tailscale/hujson"
)

// ErrMalformedRecord is returned when bytes are not a valid record.
var ErrMalformedRecord = errors.New("malformed record")

// wire types mirror the persisted shape with pointer fields so that missing
// required keys can be told apart from zero values.
type wireNote struct {
	Text   *string  `json:"text"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *int     `json:"width"`
	Height *int     `json:"height"`
}

type wireState struct {
	Notes        *[]wireNote `json:"notes"`
	ScaleFactor  *float64    `json:"scaleFactor"`
	TranslationX *float64    `json:"translationX"`
	TranslationY *float64    `json:"translationY"`
}

type wireEntry struct {
	Title        *string `json:"title"`
	FileName     *string `json:"fileName"`
	LastModified *int64  `json:"lastModified"`
}

type wireRecord struct {
	Entry *wireEntry `json:"entry"`
	State *wireState `json:"state"`
}

// Encode serializes a record as indented JSON.
func Encode(rec Record) ([]byte, error) {
	if rec.State.Notes == nil {
		rec.State.Notes = []Note{}
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a record in the current schema. Unknown fields are ignored,
// comments and trailing commas are tolerated. Anything else, including the
// legacy entry-less shape, fails with ErrMalformedRecord.
func Decode(data []byte) (Record, error) {
	var w wireRecord
	if err := unmarshal(data, &w); err != nil {
		return Record{}, err
	}
	if w.Entry == nil {
		return Record{}, missing("entry")
	}
	if w.State == nil {
		return Record{}, missing("state")
	}

	entry, err := w.Entry.entry()
	if err != nil {
		return Record{}, err
	}
	state, err := w.State.state()
	if err != nil {
		return Record{}, err
	}
	return Record{Entry: entry, State: state}, nil
}

// DecodeLegacy parses the older record shape that stored only the canvas
// state at the top level, without an entry wrapper.
func DecodeLegacy(data []byte) (State, error) {
	var w wireState
	if err := unmarshal(data, &w); err != nil {
		return State{}, err
	}
	return w.state()
}

func unmarshal(data []byte, v any) error {
	std, err := hujson.Standardize(bytes.Clone(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if bytes.Equal(bytes.TrimSpace(std), []byte("null")) {
		return fmt.Errorf("%w: null record", ErrMalformedRecord)
	}
	if err := json.Unmarshal(std, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing field %q", ErrMalformedRecord, field)
}

func (w *wireEntry) entry() (Entry, error) {
	if w.Title == nil {
		return Entry{}, missing("entry.title")
	}
	if w.FileName == nil {
		return Entry{}, missing("entry.fileName")
	}
	e := Entry{Title: *w.Title, FileName: *w.FileName}
	if w.LastModified != nil {
		e.LastModified = *w.LastModified
	}
	return e, nil
}

func (w *wireState) state() (State, error) {
	switch {
	case w.Notes == nil:
		return State{}, missing("notes")
	case w.ScaleFactor == nil:
		return State{}, missing("scaleFactor")
	case w.TranslationX == nil:
		return State{}, missing("translationX")
	case w.TranslationY == nil:
		return State{}, missing("translationY")
	}

	s := State{
		Notes:        make([]Note, 0, len(*w.Notes)),
		ScaleFactor:  *w.ScaleFactor,
		TranslationX: *w.TranslationX,
		TranslationY: *w.TranslationY,
	}
	for i, wn := range *w.Notes {
		if wn.Text == nil || wn.X == nil || wn.Y == nil || wn.Width == nil || wn.Height == nil {
			return State{}, fmt.Errorf("%w: note %d is incomplete", ErrMalformedRecord, i)
		}
		s.Notes = append(s.Notes, Note{
			Text:   *wn.Text,
			X:      *wn.X,
			Y:      *wn.Y,
			Width:  *wn.Width,
			Height: *wn.Height,
		})
	}
	return s, nil
}
