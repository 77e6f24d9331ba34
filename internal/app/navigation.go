package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"canvasnotes/internal/canvas"
)

// handleNavigation pans or zooms the viewport from the keyboard. It reports
// whether the key was a navigation key.
func (m *Model) handleNavigation(msg tea.KeyMsg) bool {
	v := m.canvas.Viewport()
	center := v.Size().Half()
	switch {
	case key.Matches(msg, m.keys.ZoomIn):
		v.Zoom(center, canvas.WheelZoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		v.Zoom(center, 1/canvas.WheelZoomStep)
	case key.Matches(msg, m.keys.Reset):
		v.Reset()
	default:
		return m.handlePan(msg)
	}
	return true
}

func (m *Model) handlePan(msg tea.KeyMsg) bool {
	step := m.canvas.Metrics().WheelStep * m.getMoveSpeed(msg.String())
	var d canvas.Point
	switch {
	case key.Matches(msg, m.keys.Left):
		d.X = step
	case key.Matches(msg, m.keys.Right):
		d.X = -step
	case key.Matches(msg, m.keys.Up):
		d.Y = step
	case key.Matches(msg, m.keys.Down):
		d.Y = -step
	default:
		return false
	}
	m.canvas.Viewport().StopFling()
	m.canvas.Viewport().Pan(d)
	return true
}

func (m *Model) getMoveSpeed(k string) float64 {
	switch k {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}
