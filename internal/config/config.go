// Package config loads canvasnotes settings from JSONC files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config")
)

// Config holds all configuration options.
type Config struct {
	SaveDirectory   string  `json:"save_directory"`
	Density         float64 `json:"density"`
	CellWidth       int     `json:"cell_width"`
	CellHeight      int     `json:"cell_height"`
	FlingFriction   float64 `json:"fling_friction"`
	AutosaveSeconds int     `json:"autosave_seconds"`
	LogFile         string  `json:"log_file,omitempty"`
	StartDrawer     bool    `json:"start_drawer"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global   string
	Explicit string
}

// fileConfig is one config file. Pointer fields tell an absent key from a
// zero value.
type fileConfig struct {
	SaveDirectory   *string  `json:"save_directory"`
	Density         *float64 `json:"density"`
	CellWidth       *int     `json:"cell_width"`
	CellHeight      *int     `json:"cell_height"`
	FlingFriction   *float64 `json:"fling_friction"`
	AutosaveSeconds *int     `json:"autosave_seconds"`
	LogFile         *string  `json:"log_file"`
	StartDrawer     *bool    `json:"start_drawer"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Density:         1,
		CellWidth:       10,
		CellHeight:      20,
		FlingFriction:   4,
		AutosaveSeconds: 30,
	}
}

// GlobalPath returns $XDG_CONFIG_HOME/canvasnotes/config.json, falling back
// to ~/.config. It returns "" when no home directory is known.
func GlobalPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, "canvasnotes", "config.json")
		}
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "canvasnotes", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "canvasnotes", "config.json")
}

// Load builds the configuration, later sources winning:
//  1. defaults
//  2. the global config file, if it exists
//  3. the explicit file at path, which must exist when given
func Load(path string, env []string) (Config, Sources, error) {
	cfg := Default()
	var sources Sources

	if global := GlobalPath(env); global != "" {
		fc, loaded, err := loadFile(global, false)
		if err != nil {
			return Config{}, Sources{}, err
		}
		if loaded {
			cfg = merge(cfg, fc)
			sources.Global = global
		}
	}

	if path != "" {
		fc, _, err := loadFile(path, true)
		if err != nil {
			return Config{}, Sources{}, err
		}
		cfg = merge(cfg, fc)
		sources.Explicit = path
	}

	cfg.SaveDirectory = ExpandHome(cfg.SaveDirectory)
	cfg.LogFile = ExpandHome(cfg.LogFile)
	if err := cfg.Validate(); err != nil {
		return Config{}, Sources{}, err
	}
	return cfg, sources, nil
}

func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return fileConfig{}, false, nil
		}
		if os.IsNotExist(err) {
			return fileConfig{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return fileConfig{}, false, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	fc, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return fc, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(standardized, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return fc, nil
}

func merge(base Config, overlay fileConfig) Config {
	if overlay.SaveDirectory != nil {
		base.SaveDirectory = *overlay.SaveDirectory
	}
	if overlay.Density != nil {
		base.Density = *overlay.Density
	}
	if overlay.CellWidth != nil {
		base.CellWidth = *overlay.CellWidth
	}
	if overlay.CellHeight != nil {
		base.CellHeight = *overlay.CellHeight
	}
	if overlay.FlingFriction != nil {
		base.FlingFriction = *overlay.FlingFriction
	}
	if overlay.AutosaveSeconds != nil {
		base.AutosaveSeconds = *overlay.AutosaveSeconds
	}
	if overlay.LogFile != nil {
		base.LogFile = *overlay.LogFile
	}
	if overlay.StartDrawer != nil {
		base.StartDrawer = *overlay.StartDrawer
	}
	return base
}

// Validate rejects settings the canvas cannot work with.
func (c Config) Validate() error {
	switch {
	case c.Density <= 0:
		return fmt.Errorf("%w: density must be positive", errConfigInvalid)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return fmt.Errorf("%w: cell size must be positive", errConfigInvalid)
	case c.FlingFriction <= 0:
		return fmt.Errorf("%w: fling_friction must be positive", errConfigInvalid)
	case c.AutosaveSeconds < 0:
		return fmt.Errorf("%w: autosave_seconds must not be negative", errConfigInvalid)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the home directory and makes the path
// absolute.
func ExpandHome(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return path
}

// SaveDir returns the directory records are kept in. An unset directory
// falls back to $XDG_DATA_HOME/canvasnotes or ~/.local/share/canvasnotes.
func (c Config) SaveDir() string {
	if c.SaveDirectory != "" {
		return c.SaveDirectory
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "canvasnotes")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "canvasnotes")
	}
	return "canvasnotes"
}

// SavePath returns where a record file lives.
func (c Config) SavePath(filename string) string {
	return filepath.Join(c.SaveDir(), filename)
}

// Format returns the config as indented JSON.
func Format(c Config) (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}
