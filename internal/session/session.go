// Package session tracks which canvas document is open and moves it between
// the canvas view and storage.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"canvasnotes/internal/document"
	"canvasnotes/internal/store"
)

var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
	ErrEmptyTitle   = errors.New("title must not be empty")
)

// idAttempts bounds the search for an unused file name within one second.
const idAttempts = 50

// Storage holds encoded records by file name.
type Storage interface {
	Read(id string) ([]byte, time.Time, error)
	Write(id string, data []byte) error
	Delete(id string) error
	Exists(id string) (bool, error)
	List() ([]store.Info, error)
}

// View is the canvas a session loads into and saves from.
type View interface {
	ApplyState(document.State)
	State() document.State
	Reset()
}

// Manager owns the identity of the open document. It is driven from the UI
// event loop and is not safe for concurrent use.
type Manager struct {
	storage Storage
	view    View
	logger  *slog.Logger
	now     func() time.Time
	suffix  func() int
	onTitle func(string)

	current *document.Entry
	// unloaded is set when the first document could not be read. Saving
	// then would overwrite a record the view never held.
	unloaded bool
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSuffix replaces the random 0-999 suffix of new file names.
func WithSuffix(fn func() int) Option {
	return func(m *Manager) { m.suffix = fn }
}

// WithTitleObserver registers a callback for every change of the open
// document's title.
func WithTitleObserver(fn func(title string)) Option {
	return func(m *Manager) { m.onTitle = fn }
}

// New returns a manager with no open session.
func New(storage Storage, view View, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		view:    view,
		now:     time.Now,
		suffix:  func() int { return rand.IntN(1000) },
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Current returns the entry of the open document.
func (m *Manager) Current() (document.Entry, bool) {
	if m.current == nil {
		return document.Entry{}, false
	}
	return *m.current, true
}

// Title returns the title of the open document, or the default title when no
// session has started.
func (m *Manager) Title() string {
	if m.current == nil {
		return document.DefaultTitle
	}
	return m.current.Title
}

func (m *Manager) setCurrent(e document.Entry) {
	m.current = &e
	m.unloaded = false
	if m.onTitle != nil {
		m.onTitle(e.Title)
	}
}

// restore puts back the identity held before a switch that could not read
// its target.
func (m *Manager) restore(prev *document.Entry) {
	if prev != nil {
		m.setCurrent(*prev)
		return
	}
	m.current = nil
	m.unloaded = true
	if m.onTitle != nil {
		m.onTitle(document.DefaultTitle)
	}
}

// StartSession makes id the open document. A different document that was
// open is saved first; a failed save is logged and the switch goes ahead.
// When id cannot be read the previous document stays open.
func (m *Manager) StartSession(id, title string) error {
	if m.current != nil && m.current.FileName != id {
		if err := m.Save(); err != nil {
			m.logger.Error("failed to save before switching", "from", m.current.FileName, "to", id, "error", err)
		}
	}

	prev := m.current
	m.setCurrent(document.NewEntry(title, id, m.now()))
	legacy, err := m.EnsureModernFormat()
	switch {
	case errors.Is(err, ErrStorageRead):
		m.restore(prev)
		return err
	case legacy && err != nil:
		// The legacy notes are in the view and the record keeps its old
		// shape until the next successful save.
		m.logger.Warn("legacy upgrade not saved", "file", id, "error", err)
		return err
	case err != nil:
		m.logger.Warn("format check failed", "file", id, "error", err)
	}
	if err := m.Load(id); err != nil {
		m.restore(prev)
		return err
	}
	return nil
}

// Resume starts a session on the most recently modified document, or on the
// default document when storage holds none.
func (m *Manager) Resume() error {
	entries, err := m.ListDocuments()
	if err != nil {
		m.logger.Warn("failed to list documents", "error", err)
	}
	if len(entries) > 0 {
		return m.StartSession(entries[0].FileName, entries[0].Title)
	}
	return m.StartSession(document.DefaultFileName, document.DefaultTitle)
}

// Load reads a record into the view. A missing record leaves an empty canvas;
// a corrupt one is deleted. A read error leaves the view untouched. A record
// still in the legacy shape is loaded as is.
func (m *Manager) Load(id string) error {
	data, mtime, err := m.storage.Read(id)
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Info("document not found, starting empty", "file", id)
		m.view.Reset()
		return nil
	}
	if err != nil {
		m.logger.Error("failed to read document", "file", id, "error", err)
		return fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	rec, err := document.Decode(data)
	if err != nil {
		if state, lerr := document.DecodeLegacy(data); lerr == nil {
			if m.current == nil || m.current.FileName != id {
				m.setCurrent(document.NewEntry(document.DefaultTitle, id, mtime))
			}
			m.view.ApplyState(state)
			m.logger.Warn("legacy document loaded without upgrade", "file", id)
			return nil
		}
		m.logger.Error("corrupt document deleted", "file", id, "error", err)
		if delErr := m.storage.Delete(id); delErr != nil {
			m.logger.Error("failed to delete corrupt document", "file", id, "error", delErr)
		}
		m.view.Reset()
		return nil
	}

	entry := rec.Entry.WithModTime(mtime)
	entry.FileName = id
	if strings.TrimSpace(entry.Title) == "" && m.current != nil {
		entry.Title = m.current.Title
	}
	m.setCurrent(entry)
	m.view.ApplyState(rec.State)
	m.logger.Info("document loaded", "file", id, "title", entry.Title, "notes", len(rec.State.Notes))
	return nil
}

// Save writes the view under the open document. Without a session the view
// goes to the default file. Failures are returned, never retried.
func (m *Manager) Save() error {
	if m.unloaded {
		return fmt.Errorf("%w: no document loaded", ErrStorageWrite)
	}
	entry := document.Entry{Title: document.FallbackTitle, FileName: document.DefaultFileName}
	if m.current != nil {
		m.current.LastModified = m.now().UnixMilli()
		entry = *m.current
	}

	data, err := document.Encode(document.Record{Entry: entry, State: m.view.State()})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	if err := m.storage.Write(entry.FileName, data); err != nil {
		m.logger.Error("failed to save document", "file", entry.FileName, "error", err)
		return fmt.Errorf("%w: %w", ErrStorageWrite, err)
	}
	m.logger.Debug("document saved", "file", entry.FileName)
	return nil
}

// CreateNew starts a session on a fresh, empty document and saves it
// immediately. The document that was open is saved before the switch.
func (m *Manager) CreateNew(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	id, err := m.newID()
	if err != nil {
		return "", err
	}
	if err := m.StartSession(id, title); err != nil {
		return id, err
	}
	return id, m.Save()
}

func (m *Manager) newID() (string, error) {
	t := m.now()
	for {
		for range idAttempts {
			id := document.NewFileName(t, m.suffix())
			taken, err := m.storage.Exists(id)
			if err != nil {
				return "", fmt.Errorf("%w: %w", ErrStorageRead, err)
			}
			if !taken {
				return id, nil
			}
		}
		t = t.Add(time.Second)
	}
}

// Rename retitles the open document and saves it.
func (m *Manager) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if m.unloaded {
		return fmt.Errorf("%w: no document loaded", ErrStorageWrite)
	}
	entry := document.NewEntry(title, document.DefaultFileName, m.now())
	if m.current != nil {
		entry.FileName = m.current.FileName
	}
	m.setCurrent(entry)
	return m.Save()
}

// EnsureModernFormat upgrades the open document in place when it is stored in
// the legacy shape and reports whether it did. The legacy state is applied to
// the view even when writing the upgrade fails. Records that decode as
// neither shape are left for Load.
func (m *Manager) EnsureModernFormat() (bool, error) {
	if m.current == nil {
		return false, nil
	}
	id := m.current.FileName
	data, _, err := m.storage.Read(id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	if _, err := document.Decode(data); err == nil {
		return false, nil
	}
	state, err := document.DecodeLegacy(data)
	if err != nil {
		return false, nil
	}

	m.logger.Warn("upgrading legacy document", "file", id)
	m.view.ApplyState(state)
	return true, m.Save()
}

// ListDocuments returns every readable document, newest first. Files that
// cannot be read or decoded are skipped.
func (m *Manager) ListDocuments() ([]document.Entry, error) {
	infos, err := m.storage.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}

	entries := make([]document.Entry, 0, len(infos))
	for _, info := range infos {
		data, _, err := m.storage.Read(info.ID)
		if err != nil {
			m.logger.Debug("skipping unreadable document", "file", info.ID, "error", err)
			continue
		}
		rec, err := document.Decode(data)
		if err != nil {
			m.logger.Debug("skipping undecodable document", "file", info.ID, "error", err)
			continue
		}
		e := rec.Entry.WithModTime(info.ModTime)
		e.FileName = info.ID
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].LastModified != entries[j].LastModified {
			return entries[i].LastModified > entries[j].LastModified
		}
		return entries[i].Title < entries[j].Title
	})
	return entries, nil
}
