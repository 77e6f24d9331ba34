// Package export renders saved canvases to image and text files.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"canvasnotes/internal/document"
)

// ErrNothingToExport is returned for a canvas without notes.
var ErrNothingToExport = errors.New("nothing to export")

const (
	defaultFontSize = 12.0
	pagePadding     = 40.0
	notePadding     = 8.0
	noteRadius      = 6.0
	lineSpacing     = 1.4
	// maxDimension keeps exports of far-apart notes to a sane image size.
	maxDimension = 8192
)

// PNGOptions controls image output. A positive Width or Height scales the
// image down (or up) to fit; zero keeps one pixel per canvas pixel.
type PNGOptions struct {
	Width    int
	Height   int
	FontSize float64
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func noteBounds(notes []document.Note) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, n := range notes {
		b.minX = math.Min(b.minX, n.X)
		b.minY = math.Min(b.minY, n.Y)
		b.maxX = math.Max(b.maxX, n.X+float64(n.Width))
		b.maxY = math.Max(b.maxY, n.Y+float64(n.Height))
	}
	b.minX -= pagePadding
	b.minY -= pagePadding
	b.maxX += pagePadding
	b.maxY += pagePadding
	return b
}

func (b bounds) width() float64  { return b.maxX - b.minX }
func (b bounds) height() float64 { return b.maxY - b.minY }

// fit returns the drawing scale for the requested output size.
func (o PNGOptions) fit(b bounds) float64 {
	s := 1.0
	switch {
	case o.Width > 0 && o.Height > 0:
		s = math.Min(float64(o.Width)/b.width(), float64(o.Height)/b.height())
	case o.Width > 0:
		s = float64(o.Width) / b.width()
	case o.Height > 0:
		s = float64(o.Height) / b.height()
	}
	if over := math.Max(b.width(), b.height()) * s; over > maxDimension {
		s *= maxDimension / over
	}
	return s
}

func newFace(size float64) (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func draw(s document.State, opts PNGOptions) (*gg.Context, error) {
	if len(s.Notes) == 0 {
		return nil, ErrNothingToExport
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}

	b := noteBounds(s.Notes)
	scale := opts.fit(b)
	w := max(int(math.Ceil(b.width()*scale)), 1)
	h := max(int(math.Ceil(b.height()*scale)), 1)

	dc := gg.NewContext(w, h)
	dc.SetColor(color.Black)
	dc.Clear()

	face, err := newFace(opts.FontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.Scale(scale, scale)
	dc.Translate(-b.minX, -b.minY)

	for _, n := range s.Notes {
		drawNote(dc, n)
	}
	return dc, nil
}

func drawNote(dc *gg.Context, n document.Note) {
	x, y := n.X, n.Y
	w, h := float64(n.Width), float64(n.Height)

	dc.SetColor(color.Black)
	dc.DrawRoundedRectangle(x, y, w, h, noteRadius)
	dc.Fill()

	dc.SetLineWidth(1.5)
	dc.SetColor(color.White)
	dc.DrawRoundedRectangle(x, y, w, h, noteRadius)
	dc.Stroke()

	if n.Text == "" {
		return
	}
	dc.Push()
	dc.DrawRectangle(x, y, w, h)
	dc.Clip()
	dc.DrawStringWrapped(n.Text, x+notePadding, y+notePadding, 0, 0, w-2*notePadding, lineSpacing, gg.AlignLeft)
	dc.ResetClip()
	dc.Pop()
}

// PNG writes every note of s as a PNG image.
func PNG(w io.Writer, s document.State, opts PNGOptions) error {
	dc, err := draw(s, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// WritePNG saves every note of s as a PNG file.
func WritePNG(path string, s document.State, opts PNGOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := PNG(f, s, opts); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
