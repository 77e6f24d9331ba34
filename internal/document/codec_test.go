package document

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		Entry: Entry{Title: "Trip Notes", FileName: "canvas_20251024_184730_123.json", LastModified: 1761331650000},
		State: State{
			Notes: []Note{
				{Text: "passport", X: 300, Y: 250, Width: 200, Height: 100},
				{Text: "line one\nline two", X: -12.5, Y: 4096.25, Width: 50, Height: 75},
			},
			ScaleFactor:  1.75,
			TranslationX: -9800,
			TranslationY: -10200.5,
		},
	}
}

func TestEncodeDecode(t *testing.T) {
	rec := sampleRecord()

	data, err := Encode(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"entry\": {", "records are indented")

	got, err := Decode(data)
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmptyNotesAsArray(t *testing.T) {
	data, err := Encode(Record{Entry: Entry{Title: "t", FileName: "f.json"}, State: State{ScaleFactor: 1}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"notes": []`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, got.State.Notes)
}

func TestDecodeIgnoresUnknownFields(t *testing.T) {
	data := []byte(`{
  "entry": {"title": "Trip Notes", "fileName": "a.json", "lastModified": 42, "color": "teal"},
  "state": {
    "notes": [{"text": "hi", "x": 1.5, "y": 2.5, "width": 200, "height": 100, "pinned": true}],
    "scaleFactor": 2,
    "translationX": 10,
    "translationY": 20,
    "gridSize": 16
  },
  "schemaVersion": 3,
  "extra": {"nested": [1, 2, 3]}
}`)

	got, err := Decode(data)
	require.NoError(t, err)

	want := Record{
		Entry: Entry{Title: "Trip Notes", FileName: "a.json", LastModified: 42},
		State: State{
			Notes:        []Note{{Text: "hi", X: 1.5, Y: 2.5, Width: 200, Height: 100}},
			ScaleFactor:  2,
			TranslationX: 10,
			TranslationY: 20,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeToleratesCommentsAndTrailingCommas(t *testing.T) {
	data := []byte(`{
  // edited by hand
  "entry": {"title": "x", "fileName": "x.json",},
  "state": {"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0,},
}`)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Entry.Title)
	assert.Zero(t, got.Entry.LastModified, "lastModified is optional")
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"garbage", `not json at all`},
		{"null", `null`},
		{"array", `[]`},
		{"truncated", `{"entry": {"title": "x"`},
		{"missing entry", `{"state": {"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`},
		{"missing state", `{"entry": {"title": "x", "fileName": "x.json"}}`},
		{"missing title", `{"entry": {"fileName": "x.json"}, "state": {"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`},
		{"missing scale", `{"entry": {"title": "x", "fileName": "x.json"}, "state": {"notes": [], "translationX": 0, "translationY": 0}}`},
		{"incomplete note", `{"entry": {"title": "x", "fileName": "x.json"}, "state": {"notes": [{"text": "a", "x": 1}], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`},
		{"wrong type", `{"entry": {"title": 7, "fileName": "x.json"}, "state": {"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`},
		{"fractional width", `{"entry": {"title": "x", "fileName": "x.json"}, "state": {"notes": [{"text": "a", "x": 1, "y": 1, "width": 1.5, "height": 1}], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`},
		{"legacy shape", `{"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			require.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestDecodeLegacy(t *testing.T) {
	data := []byte(`{
  "notes": [{"text": "old", "x": 10, "y": 20, "width": 300, "height": 150}],
  "scaleFactor": 0.5,
  "translationX": -100,
  "translationY": -200
}`)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrMalformedRecord, "Decode never falls back to the legacy shape")

	state, err := DecodeLegacy(data)
	require.NoError(t, err)
	want := State{
		Notes:        []Note{{Text: "old", X: 10, Y: 20, Width: 300, Height: 150}},
		ScaleFactor:  0.5,
		TranslationX: -100,
		TranslationY: -200,
	}
	if diff := cmp.Diff(want, state); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}

	_, err = DecodeLegacy([]byte(`{"title": "nope"}`))
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	data := []byte(`{/* c */ "entry": {"title": "x", "fileName": "x.json"}, "state": {"notes": [], "scaleFactor": 1, "translationX": 0, "translationY": 0}}`)
	orig := string(data)

	_, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, orig, string(data))
}

func TestNaming(t *testing.T) {
	ts := time.Date(2025, 10, 24, 18, 47, 30, 0, time.UTC)

	assert.Equal(t, "canvas_20251024_184730_123.json", NewFileName(ts, 123))
	assert.Equal(t, "canvas_20251024_184730_0.json", NewFileName(ts, 0))
	assert.Equal(t, "New Canvas 20251024_184730", NewTitle(ts))

	e := NewEntry("t", "f.json", ts)
	assert.Equal(t, ts.UnixMilli(), e.LastModified)
	assert.True(t, e.ModTime().Equal(ts))

	later := ts.Add(time.Hour)
	assert.Equal(t, later.UnixMilli(), e.WithModTime(later).LastModified)
	assert.Equal(t, ts.UnixMilli(), e.LastModified, "WithModTime returns a copy")
}
