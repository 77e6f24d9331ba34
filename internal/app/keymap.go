package app

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Reset   key.Binding
	AddNote key.Binding
	Drawer  key.Binding
	New     key.Binding
	Rename  key.Binding
	Save    key.Binding
	Export  key.Binding
	Quit    key.Binding

	// ForceQuit works in every mode.
	ForceQuit key.Binding

	// editing
	Commit key.Binding
	Copy   key.Binding
	Paste  key.Binding

	// drawer and prompt
	Select key.Binding
	Close  key.Binding
	Prev   key.Binding
	Next   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:    key.NewBinding(key.WithKeys("left", "h", "shift+left", "H"), key.WithHelp("←/h", "pan")),
		Right:   key.NewBinding(key.WithKeys("right", "l", "shift+right", "L")),
		Up:      key.NewBinding(key.WithKeys("up", "k", "shift+up", "K")),
		Down:    key.NewBinding(key.WithKeys("down", "j", "shift+down", "J")),
		ZoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut: key.NewBinding(key.WithKeys("-", "_")),
		Reset:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		AddNote: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "note")),
		Drawer:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "docs")),
		New:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Rename:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "png")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),

		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),

		Commit: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		Copy:   key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy")),
		Paste:  key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste")),

		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Close:  key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "close")),
		Prev:   key.NewBinding(key.WithKeys("up", "k")),
		Next:   key.NewBinding(key.WithKeys("down", "j")),
	}
}

func (k keyMap) canvasHelp() []key.Binding {
	return []key.Binding{k.Left, k.ZoomIn, k.Reset, k.AddNote, k.Drawer, k.Save, k.Export, k.Quit}
}

func (k keyMap) editingHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Copy, k.Paste}
}

func (k keyMap) drawerHelp() []key.Binding {
	return []key.Binding{k.Select, k.New, k.Rename, k.Close}
}
