package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"canvasnotes/internal/canvas"
	"canvasnotes/internal/document"
	"canvasnotes/internal/ui"
)

// TextOptions sizes a text snapshot in terminal cells.
type TextOptions struct {
	Cols int
	Rows int
	Cell ui.Cell
}

func (o TextOptions) withDefaults() TextOptions {
	if o.Cols <= 0 {
		o.Cols = 80
	}
	if o.Rows <= 0 {
		o.Rows = 24
	}
	if o.Cell.Width <= 0 || o.Cell.Height <= 0 {
		o.Cell = ui.Cell{Width: 10, Height: 20}
	}
	return o
}

// Text writes the notes visible through the saved viewport as they appear on
// a terminal of the given size. Trailing blanks are trimmed.
func Text(w io.Writer, s document.State, opts TextOptions) error {
	opts = opts.withDefaults()

	c := canvas.New()
	c.Resize(opts.Cols*opts.Cell.Width, opts.Rows*opts.Cell.Height)
	c.ApplyState(s)
	c.Notes().Measure(ui.Measure(opts.Cell))

	lines := ui.Render(ui.Layout(c, opts.Cell), opts.Cols, opts.Rows)
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := fmt.Fprintln(bw, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteText saves a text snapshot to path.
func WriteText(path string, s document.State, opts TextOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Text(f, s, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
