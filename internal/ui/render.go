// Package ui draws the canvas into terminal character cells.
package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"canvasnotes/internal/canvas"
)

// Cell is the pixel size of one terminal character cell. The canvas engine
// works in pixels; the terminal only has cells.
type Cell struct {
	Width, Height int
}

// ToPixels returns the pixel at the center of a cell.
func (c Cell) ToPixels(col, row int) canvas.Point {
	return canvas.Pt(
		float64(col*c.Width)+float64(c.Width)/2,
		float64(row*c.Height)+float64(c.Height)/2,
	)
}

// ToCell returns the cell containing a pixel.
func (c Cell) ToCell(p canvas.Point) (col, row int) {
	return floorDiv(p.X, c.Width), floorDiv(p.Y, c.Height)
}

func floorDiv(v float64, d int) int {
	return int(math.Floor(v / float64(d)))
}

// Box is a note placed on the character grid.
type Box struct {
	NoteID  int
	Col     int
	Row     int
	Cols    int
	Rows    int
	Lines   []string
	Focused bool
}

// WrapText breaks text into lines of at most cols cells, on word boundaries
// where possible.
func WrapText(text string, cols int) []string {
	if text == "" || cols <= 0 {
		return nil
	}
	wrapped := lipgloss.NewStyle().Width(cols).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// Measure returns the layout pass for a cell size: notes grow taller, never
// narrower, until their wrapped text fits inside the border.
func Measure(cell Cell) func(*canvas.Note) canvas.Size {
	return func(n *canvas.Note) canvas.Size {
		inner := n.Size.Width/cell.Width - 2
		if inner <= 0 {
			return n.Size
		}
		need := (len(WrapText(n.Text, inner)) + 2) * cell.Height
		return canvas.Size{Width: n.Size.Width, Height: max(n.Size.Height, need)}
	}
}

// Layout places every note of c on the character grid, bottom-most first.
func Layout(c *canvas.Canvas, cell Cell) []Box {
	t := c.Viewport().Transform()
	focused := 0
	if f := c.Focused(); f != nil {
		focused = f.ID
	}

	notes := c.Notes().All()
	boxes := make([]Box, 0, len(notes))
	for _, n := range notes {
		s := n.Measured()
		tl := t.ToScreen(n.Position)
		br := t.ToScreen(n.Position.Add(canvas.Pt(float64(s.Width), float64(s.Height))))

		col, row := cell.ToCell(tl)
		endCol, endRow := cell.ToCell(br)
		b := Box{
			NoteID:  n.ID,
			Col:     col,
			Row:     row,
			Cols:    max(endCol-col, 2),
			Rows:    max(endRow-row, 2),
			Focused: n.ID == focused,
		}
		b.Lines = WrapText(n.Text, b.Cols-2)
		boxes = append(boxes, b)
	}
	return boxes
}

// Render draws boxes onto a width by height grid. Later boxes cover earlier
// ones.
func Render(boxes []Box, width, height int) []string {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}
	for _, b := range boxes {
		drawBox(grid, b)
	}

	out := make([]string, height)
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}

func drawBox(grid [][]rune, b Box) {
	corner, horizontal, vertical := '+', '-', '|'
	if b.Focused {
		corner, horizontal, vertical = '#', '#', '#'
	}

	lastCol, lastRow := b.Col+b.Cols-1, b.Row+b.Rows-1
	for y := max(b.Row, 0); y <= lastRow && y < len(grid); y++ {
		for x := max(b.Col, 0); x <= lastCol && x < len(grid[y]); x++ {
			switch {
			case (y == b.Row || y == lastRow) && (x == b.Col || x == lastCol):
				grid[y][x] = corner
			case y == b.Row || y == lastRow:
				grid[y][x] = horizontal
			case x == b.Col || x == lastCol:
				grid[y][x] = vertical
			default:
				grid[y][x] = ' '
			}
		}
	}

	for i, line := range b.Lines {
		y := b.Row + 1 + i
		if y >= lastRow || y >= len(grid) {
			break
		}
		if y < 0 {
			continue
		}
		for j, r := range []rune(line) {
			x := b.Col + 1 + j
			if x >= lastCol || x >= len(grid[y]) {
				break
			}
			if x >= 0 {
				grid[y][x] = r
			}
		}
	}
}
