package export

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasnotes/internal/document"
	"canvasnotes/internal/ui"
)

func oneNote() document.State {
	return document.State{
		Notes:       []document.Note{{Text: "passport", X: 100, Y: 100, Width: 200, Height: 100}},
		ScaleFactor: 1,
	}
}

func TestPNGEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PNG(&buf, document.EmptyState(), PNGOptions{}), ErrNothingToExport)
	assert.Zero(t, buf.Len())
}

func TestPNGSizeAndTheme(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, oneNote(), PNGOptions{}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 280, img.Bounds().Dx())
	assert.Equal(t, 180, img.Bounds().Dy())

	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b}, "black background")

	// left border of the note, halfway down
	r, _, _, _ = img.At(40, 90).RGBA()
	assert.Greater(t, r, uint32(0x8000), "white border")
}

func TestPNGFitsRequestedWidth(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, oneNote(), PNGOptions{Width: 140}))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 140, cfg.Width)
	assert.Equal(t, 90, cfg.Height)
}

func TestPNGCapsDimensions(t *testing.T) {
	s := oneNote()
	s.Notes = append(s.Notes, document.Note{Text: "far away", X: 200000, Y: 0, Width: 200, Height: 100})

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, s, PNGOptions{}))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, maxDimension)
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, WritePNG(path, oneNote(), PNGOptions{}))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	bad := filepath.Join(t.TempDir(), "empty.png")
	assert.ErrorIs(t, WritePNG(bad, document.EmptyState(), PNGOptions{}), ErrNothingToExport)
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err), "no partial file is left behind")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, oneNote(), TextOptions{Cols: 40, Rows: 12, Cell: ui.Cell{Width: 10, Height: 20}}))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 10, "trailing blank rows are dropped")
	indent := strings.Repeat(" ", 10)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, indent+"+"+strings.Repeat("-", 18)+"+", lines[5])
	assert.Equal(t, indent+"|passport"+strings.Repeat(" ", 10)+"|", lines[6])
	assert.Equal(t, lines[5], lines[9])
}

func TestTextOffscreen(t *testing.T) {
	s := oneNote()
	s.TranslationX = -5000

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, s, TextOptions{}))
	assert.Empty(t, buf.String())
}
