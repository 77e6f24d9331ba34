package app

// Mode is what keyboard input currently drives.
type Mode int

const (
	ModeCanvas Mode = iota
	ModeEditing
	ModeDrawer
	ModePrompt
)

func (m Mode) String() string {
	switch m {
	case ModeCanvas:
		return "CANVAS"
	case ModeEditing:
		return "EDIT"
	case ModeDrawer:
		return "DOCUMENTS"
	case ModePrompt:
		return "TITLE"
	default:
		return "UNKNOWN"
	}
}

// promptKind says what a submitted title is for.
type promptKind int

const (
	promptNew promptKind = iota
	promptRename
)
