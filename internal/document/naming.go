package document

import (
	"fmt"
	"time"
)

const (
	// FileExtension is the extension every record is stored under.
	FileExtension = ".json"
	// FilePrefix starts every generated file name.
	FilePrefix = "canvas_"

	// DefaultFileName identifies the document opened when nothing else is.
	DefaultFileName = "default_canvas.json"
	// DefaultTitle is the title of the default document.
	DefaultTitle = "Current Canvas"
	// FallbackTitle is written when saving without an open session.
	FallbackTitle = "Default"

	stampLayout = "20060102_150405"
)

// NewFileName returns a generated identifier such as
// "canvas_20251024_184730_123.json". n should be in [0, 999].
func NewFileName(t time.Time, n int) string {
	return fmt.Sprintf("%s%s_%d%s", FilePrefix, t.Format(stampLayout), n, FileExtension)
}

// NewTitle returns the placeholder title of a canvas created at t.
func NewTitle(t time.Time) string {
	return "New Canvas " + t.Format(stampLayout)
}
