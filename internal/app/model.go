// Package app is the terminal front end: a bubbletea model that feeds mouse
// and keyboard input to the canvas engine and draws it in character cells.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"canvasnotes/internal/canvas"
	"canvasnotes/internal/config"
	"canvasnotes/internal/document"
	"canvasnotes/internal/export"
	"canvasnotes/internal/session"
	"canvasnotes/internal/store"
	"canvasnotes/internal/ui"
)

const (
	headerRows  = 1
	footerRows  = 1
	editorRows  = 5
	frame       = 16 * time.Millisecond
	maxFrame    = 100 * time.Millisecond
	statusDelay = 4 * time.Second
)

// Model is the bubbletea model of the note canvas.
type Model struct {
	canvas  *canvas.Canvas
	session *session.Manager
	cfg     config.Config
	logger  *slog.Logger
	keys    keyMap
	cell    ui.Cell
	now     func() time.Time
	events  <-chan store.Event

	mode Mode

	editor  textarea.Model
	editing int

	prompt       textinput.Model
	promptKind   promptKind
	promptReturn Mode

	drawer   []document.Entry
	selected int

	width, height int

	pressed   bool
	flinging  bool
	lastFling time.Time

	status    string
	statusErr bool
	statusSeq int

	quitting bool
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithClock replaces time.Now for pointer timestamps and document names.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithEvents subscribes the drawer to storage changes.
func WithEvents(events <-chan store.Event) Option {
	return func(m *Model) { m.events = events }
}

// New creates the model and resumes the most recently modified document.
func New(cfg config.Config, storage session.Storage, opts ...Option) Model {
	m := Model{
		cfg:  cfg,
		keys: defaultKeyMap(),
		cell: ui.Cell{Width: cfg.CellWidth, Height: cfg.CellHeight},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.cell.Width <= 0 || m.cell.Height <= 0 {
		m.cell = ui.Cell{Width: 10, Height: 20}
	}

	metrics := canvas.NewMetrics(cfg.Density)
	if cfg.FlingFriction > 0 {
		metrics.FlingFriction = cfg.FlingFriction
	}
	m.canvas = canvas.New(canvas.WithMetrics(metrics), canvas.WithLogger(m.logger))
	m.session = session.New(storage, m.canvas,
		session.WithLogger(m.logger),
		session.WithClock(m.now),
	)
	m.editor = newEditor()
	m.prompt = newPrompt()

	if err := m.session.Resume(); err != nil {
		m.setError(err)
	}
	if cfg.StartDrawer {
		m.openDrawer()
	}
	return m
}

func newEditor() textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.Placeholder = "note text"
	ta.CharLimit = 0
	ta.SetHeight(editorRows - 2)
	// pasting goes through cleanPaste
	ta.KeyMap.Paste = key.NewBinding(key.WithDisabled())
	return ta
}

func newPrompt() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "Title: "
	ti.CharLimit = 120
	return ti
}

// Canvas returns the engine behind the model.
func (m Model) Canvas() *canvas.Canvas { return m.canvas }

// Session returns the document session manager.
func (m Model) Session() *session.Manager { return m.session }

// Mode returns what keyboard input currently drives.
func (m Model) Mode() Mode { return m.mode }

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForStoreEvent(m.events), m.autosaveCmd())
}

func waitForStoreEvent(events <-chan store.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return storeClosedMsg{}
		}
		return StoreEventMsg{Event: ev}
	}
}

func (m Model) autosaveCmd() tea.Cmd {
	if m.cfg.AutosaveSeconds <= 0 {
		return nil
	}
	return tea.Tick(time.Duration(m.cfg.AutosaveSeconds)*time.Second, func(time.Time) tea.Msg {
		return autosaveTickMsg{}
	})
}

func flingTick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg {
		return flingTickMsg{At: t}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.canvas.Resize(m.width*m.cell.Width, m.canvasRows()*m.cell.Height)
		m.editor.SetWidth(max(m.width-4, 10))
		m.prompt.Width = max(m.width-12, 10)
		m.relayout()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case flingTickMsg:
		dt := min(max(msg.At.Sub(m.lastFling), 0), maxFrame)
		m.lastFling = msg.At
		if m.canvas.Tick(dt) {
			return m, flingTick()
		}
		m.flinging = false
		return m, nil

	case autosaveTickMsg:
		var cmd tea.Cmd
		if err := m.save(); err != nil {
			cmd = m.setError(err)
		}
		return m, tea.Batch(cmd, m.autosaveCmd())

	case StoreEventMsg:
		m.logger.Debug("record changed on disk", "id", msg.Event.ID, "op", msg.Event.Op)
		if m.mode == ModeDrawer {
			m.refreshDrawer()
		}
		return m, waitForStoreEvent(m.events)

	case storeClosedMsg:
		m.events = nil
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			return m, m.setError(fmt.Errorf("export failed: %w", msg.Err))
		}
		return m, m.setStatus("exported " + msg.Path)

	case clipboardMsg:
		if msg.Err != nil {
			return m, m.setError(fmt.Errorf("clipboard: %w", msg.Err))
		}
		return m, m.setStatus("copied to clipboard")

	case clearStatusMsg:
		if msg.Seq == m.statusSeq {
			m.status, m.statusErr = "", false
		}
		return m, nil
	}

	// cursor blink and friends
	var cmd tea.Cmd
	switch m.mode {
	case ModeEditing:
		m.editor, cmd = m.editor.Update(msg)
	case ModePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// canvasRows is the number of terminal rows showing the canvas.
func (m Model) canvasRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

// relayout grows notes to fit their wrapped text. Saved sizes include it.
func (m *Model) relayout() {
	m.canvas.Notes().Measure(ui.Measure(m.cell))
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeDrawer || m.mode == ModePrompt {
		return m, nil
	}
	ev, ok := m.pointerEvent(msg)
	if !ok {
		return m, nil
	}
	return m.applyResult(m.canvas.HandlePointerEvent(ev))
}

// pointerEvent maps a terminal mouse event to the canvas. Only the left
// button drives pointer sequences; the wheel pans, or zooms with ctrl.
func (m *Model) pointerEvent(msg tea.MouseMsg) (canvas.PointerEvent, bool) {
	ev := canvas.PointerEvent{
		Position: m.cell.ToPixels(msg.X, msg.Y-headerRows),
		Time:     m.now(),
	}
	if msg.Ctrl {
		ev.Modifiers |= canvas.ModZoom
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Action, ev.Scroll = canvas.PointerScroll, canvas.Pt(0, 1)
		return ev, true
	case tea.MouseButtonWheelDown:
		ev.Action, ev.Scroll = canvas.PointerScroll, canvas.Pt(0, -1)
		return ev, true
	case tea.MouseButtonWheelLeft:
		ev.Action, ev.Scroll = canvas.PointerScroll, canvas.Pt(1, 0)
		return ev, true
	case tea.MouseButtonWheelRight:
		ev.Action, ev.Scroll = canvas.PointerScroll, canvas.Pt(-1, 0)
		return ev, true
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ev, false
		}
		m.pressed = true
		ev.Action = canvas.PointerDown
	case tea.MouseActionMotion:
		if !m.pressed {
			return ev, false
		}
		ev.Action = canvas.PointerMove
	case tea.MouseActionRelease:
		if !m.pressed {
			return ev, false
		}
		m.pressed = false
		ev.Action = canvas.PointerUp
	default:
		return ev, false
	}
	return ev, true
}

func (m Model) applyResult(res canvas.Result) (tea.Model, tea.Cmd) {
	switch res.Kind {
	case canvas.CreateNote, canvas.FocusNote:
		return m, m.startEditing(res.NoteID)
	case canvas.ClearFocus:
		m.stopEditing()
	case canvas.Fling:
		return m, m.startFling()
	case canvas.ResizeNote, canvas.ResizeEnd:
		m.relayout()
	}
	return m, nil
}

func (m *Model) startFling() tea.Cmd {
	if m.flinging {
		return nil
	}
	m.flinging = true
	m.lastFling = m.now()
	return flingTick()
}

func (m *Model) startEditing(id int) tea.Cmd {
	n := m.canvas.Notes().Get(id)
	if n == nil {
		return nil
	}
	m.canvas.Focus(id)
	m.editing = id
	m.mode = ModeEditing
	m.editor.SetValue(n.Text)
	return m.editor.Focus()
}

func (m *Model) stopEditing() {
	m.syncEditor()
	m.editing = 0
	m.canvas.ClearFocus()
	m.editor.Blur()
	m.editor.Reset()
	m.mode = ModeCanvas
	m.relayout()
}

func (m *Model) syncEditor() {
	if m.editing == 0 {
		return
	}
	m.canvas.SetText(m.editing, m.editor.Value())
	m.relayout()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	switch m.mode {
	case ModeEditing:
		return m.handleEditingKey(msg)
	case ModeDrawer:
		return m.handleDrawerKey(msg)
	case ModePrompt:
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.AddNote):
		if !m.canvas.Ready() {
			return m, nil
		}
		n := m.canvas.AddNoteAt(m.canvas.Viewport().Size().Half())
		return m, m.startEditing(n.ID)
	case key.Matches(msg, m.keys.Drawer):
		m.openDrawer()
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m, m.openPrompt(promptNew, document.NewTitle(m.now()))
	case key.Matches(msg, m.keys.Rename):
		return m, m.openPrompt(promptRename, m.session.Title())
	case key.Matches(msg, m.keys.Save):
		if err := m.save(); err != nil {
			return m, m.setError(err)
		}
		return m, m.setStatus("saved " + m.session.Title())
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}
	m.handleNavigation(msg)
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Commit):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, copyCmd(m.editor.Value())
	case key.Matches(msg, m.keys.Paste):
		text, err := readClipboard()
		if err != nil {
			return m, m.setError(fmt.Errorf("clipboard: %w", err))
		}
		m.editor.InsertString(cleanPaste(text))
		m.syncEditor()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.syncEditor()
	return m, cmd
}

func (m *Model) openDrawer() {
	m.refreshDrawer()
	m.selected = 0
	if cur, ok := m.session.Current(); ok {
		for i, e := range m.drawer {
			if e.FileName == cur.FileName {
				m.selected = i
				break
			}
		}
	}
	m.mode = ModeDrawer
}

func (m *Model) refreshDrawer() {
	entries, err := m.session.ListDocuments()
	if err != nil {
		m.setError(err)
		return
	}
	m.drawer = entries
	m.selected = min(m.selected, max(len(entries)-1, 0))
}

func (m Model) handleDrawerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Close):
		m.mode = ModeCanvas
	case key.Matches(msg, m.keys.Prev):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Next):
		m.selected = min(m.selected+1, max(len(m.drawer)-1, 0))
	case key.Matches(msg, m.keys.New):
		return m, m.openPrompt(promptNew, document.NewTitle(m.now()))
	case key.Matches(msg, m.keys.Rename):
		return m, m.openPrompt(promptRename, m.session.Title())
	case key.Matches(msg, m.keys.Select):
		if len(m.drawer) == 0 {
			return m, nil
		}
		e := m.drawer[m.selected]
		if err := m.session.StartSession(e.FileName, e.Title); err != nil {
			return m, m.setError(err)
		}
		m.mode = ModeCanvas
		m.relayout()
		return m, m.setStatus("opened " + m.session.Title())
	}
	return m, nil
}

func (m *Model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.promptKind = kind
	m.promptReturn = m.mode
	m.mode = ModePrompt
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	return m.prompt.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closePrompt()
		return m, nil
	case key.Matches(msg, m.keys.Select):
		return m.submitPrompt()
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt.Blur()
	m.prompt.Reset()
	m.mode = m.promptReturn
	if m.mode == ModeDrawer {
		m.refreshDrawer()
	}
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	title := m.prompt.Value()
	var err error
	switch m.promptKind {
	case promptNew:
		_, err = m.session.CreateNew(title)
	case promptRename:
		err = m.session.Rename(title)
	}
	if err != nil {
		// ErrEmptyTitle keeps the prompt open; anything else is reported too
		return m, m.setError(err)
	}
	m.closePrompt()
	if m.promptKind == promptNew {
		m.mode = ModeCanvas
		m.relayout()
	}
	return m, m.setStatus(m.session.Title())
}

func (m *Model) save() error {
	m.syncEditor()
	m.relayout()
	return m.session.Save()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if err := m.save(); err != nil {
		m.logger.Error("failed to save before quitting", "error", err)
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) exportCmd() tea.Cmd {
	state := m.canvas.State()
	name := "canvas"
	if cur, ok := m.session.Current(); ok {
		name = strings.TrimSuffix(cur.FileName, store.Extension)
	}
	path := m.cfg.SavePath(name + ".png")
	return func() tea.Msg {
		return ExportDoneMsg{Path: path, Err: export.WritePNG(path, state, export.PNGOptions{})}
	}
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusSeq++
	m.status, m.statusErr = s, false
	seq := m.statusSeq
	return tea.Tick(statusDelay, func(time.Time) tea.Msg {
		return clearStatusMsg{Seq: seq}
	})
}

func (m *Model) setError(err error) tea.Cmd {
	m.logger.Error("canvas error", "error", err)
	cmd := m.setStatus(errorText(err))
	m.statusErr = true
	return cmd
}

func errorText(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyTitle):
		return "title must not be empty"
	case errors.Is(err, session.ErrStorageWrite):
		return "could not save: " + err.Error()
	case errors.Is(err, session.ErrStorageRead):
		return "could not load: " + err.Error()
	default:
		return err.Error()
	}
}
