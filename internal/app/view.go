package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"canvasnotes/internal/ui"
)

const maxDrawerWidth = 48

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "loading..."
	}

	lines := ui.Render(ui.Layout(m.canvas, m.cell), m.width, m.canvasRows())
	switch m.mode {
	case ModeEditing:
		lines = overlayBottom(lines, m.renderEditor())
	case ModeDrawer:
		lines = overlayLeft(lines, m.renderDrawer(len(lines)))
	case ModePrompt:
		if m.promptReturn == ModeDrawer {
			lines = overlayLeft(lines, m.renderDrawer(len(lines)))
		}
		lines = overlayBottom(lines, m.renderPrompt())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	info := fmt.Sprintf(" %s  %d notes  %.0f%%",
		m.mode, m.canvas.Notes().Len(), m.canvas.Viewport().Scale()*100)
	title := truncate(m.session.Title(), max(m.width-lipgloss.Width(info)-1, 1))
	return ui.TitleStyle.Render(title) + ui.DimStyle.Render(info)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		if m.statusErr {
			return ui.ErrorStyle.Render(truncate(m.status, m.width))
		}
		return ui.StatusStyle.Render(truncate(m.status, m.width))
	}

	var bindings []key.Binding
	switch m.mode {
	case ModeEditing:
		bindings = m.keys.editingHelp()
	case ModeDrawer, ModePrompt:
		bindings = m.keys.drawerHelp()
	default:
		bindings = m.keys.canvasHelp()
	}
	var parts []string
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, ui.FooterKeyStyle.Render(h.Key)+" "+ui.FooterDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderEditor() string {
	return ui.PromptStyle.
		BorderForeground(ui.ColorYellow).
		Width(max(m.width-2, 1)).
		Render(m.editor.View())
}

func (m Model) renderPrompt() string {
	return ui.PromptStyle.Width(max(m.width-2, 1)).Render(m.prompt.View())
}

func (m Model) renderDrawer(rows int) string {
	width := min(maxDrawerWidth, m.width-2)
	inner := max(width-4, 1)
	visible := max(rows-3, 1)

	current := ""
	if cur, ok := m.session.Current(); ok {
		current = cur.FileName
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("Documents"))
	if len(m.drawer) == 0 {
		b.WriteString("\n" + ui.DimStyle.Render("no saved documents"))
	}

	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	for i := start; i < len(m.drawer) && i < start+visible; i++ {
		e := m.drawer[i]
		marker := "  "
		if e.FileName == current {
			marker = "* "
		}
		line := truncate(marker+e.Title+"  "+e.ModTime().Format("2006-01-02 15:04"), inner)
		if i == m.selected {
			line = ui.SelectedStyle.Render(line)
		}
		b.WriteString("\n" + line)
	}
	return ui.DrawerStyle.Width(width).Render(b.String())
}

// overlayLeft draws block over the left edge of the grid.
func overlayLeft(grid []string, block string) []string {
	out := append([]string(nil), grid...)
	for i, line := range strings.Split(block, "\n") {
		if i >= len(out) {
			break
		}
		rest := []rune(out[i])
		w := lipgloss.Width(line)
		if w >= len(rest) {
			out[i] = line
			continue
		}
		out[i] = line + string(rest[w:])
	}
	return out
}

// overlayBottom replaces the last rows of the grid with block.
func overlayBottom(grid []string, block string) []string {
	blockLines := strings.Split(block, "\n")
	keep := max(len(grid)-len(blockLines), 0)
	out := append([]string(nil), grid[:keep]...)
	return append(out, blockLines...)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
