// Package store keeps canvas records as JSON files in a single directory,
// keyed by file name.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/natefinch/atomic"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid record id")
)

const (
	// Extension is the suffix every record id carries.
	Extension = ".json"

	filePerms = 0o644
	dirPerms  = 0o755
)

// Info describes one stored record.
type Info struct {
	ID      string
	ModTime time.Time
}

// Dir is a directory of records.
type Dir struct {
	path   string
	logger *slog.Logger
}

// Option configures a Dir.
type Option func(*Dir)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dir) { d.logger = l }
}

// Open returns the record directory at path, creating it if needed.
func Open(path string, opts ...Option) (*Dir, error) {
	if path == "" {
		return nil, errors.New("store: empty directory path")
	}
	if err := os.MkdirAll(path, dirPerms); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}
	d := &Dir{path: path}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d, nil
}

// Path returns the directory the records live in.
func (d *Dir) Path() string { return d.path }

// ValidID reports whether id names a record file directly inside the
// directory.
func ValidID(id string) bool {
	if id == "" || id != filepath.Base(id) || strings.ContainsAny(id, `/\`) {
		return false
	}
	if strings.HasPrefix(id, ".") {
		return false
	}
	return strings.HasSuffix(id, Extension) && len(id) > len(Extension)
}

func (d *Dir) file(id string) (string, error) {
	if !ValidID(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(d.path, id), nil
}

// Read returns the contents and modification time of a record.
func (d *Dir) Read(id string) ([]byte, time.Time, error) {
	path, err := d.file(id)
	if err != nil {
		return nil, time.Time{}, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, time.Time{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read %s: %w", id, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to stat %s: %w", id, err)
	}
	return data, info.ModTime(), nil
}

// Exists reports whether a record is stored under id.
func (d *Dir) Exists(id string) (bool, error) {
	path, err := d.file(id)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", id, err)
	}
	return true, nil
}

// Write replaces a record atomically. Readers see the old or the new
// contents, never a partial file.
func (d *Dir) Write(id string, data []byte) error {
	path, err := d.file(id)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", id, err)
	}
	// atomic.WriteFile doesn't set permissions for new files
	if err := os.Chmod(path, filePerms); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", id, err)
	}
	d.logger.Debug("record written", "id", id, "bytes", len(data))
	return nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (d *Dir) Delete(id string) error {
	path, err := d.file(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", id, err)
	}
	d.logger.Debug("record deleted", "id", id)
	return nil
}

// List returns every record, newest first. Hidden and temporary files are
// skipped.
func (d *Dir) List() ([]Info, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.path, err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ValidID(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		out = append(out, Info{ID: e.Name(), ModTime: info.ModTime()})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ModTime.Equal(out[j].ModTime) {
			return out[i].ModTime.After(out[j].ModTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
