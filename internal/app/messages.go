package app

import (
	"time"

	"canvasnotes/internal/store"
)

// flingTickMsg advances momentum scrolling.
type flingTickMsg struct {
	At time.Time
}

// autosaveTickMsg saves the current document.
type autosaveTickMsg struct{}

// StoreEventMsg reports a record changed on disk by anyone.
type StoreEventMsg struct {
	Event store.Event
}

// storeClosedMsg is sent once the watch channel is closed.
type storeClosedMsg struct{}

// ExportDoneMsg reports a finished PNG export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// clipboardMsg reports a finished clipboard copy.
type clipboardMsg struct {
	Err error
}

// clearStatusMsg clears the status line if nothing newer replaced it.
type clearStatusMsg struct {
	Seq int
}
