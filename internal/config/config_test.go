package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	xdg := t.TempDir()
	cfg, sources, err := Load("", []string{"XDG_CONFIG_HOME=" + xdg})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Empty(t, sources.Global)
	assert.Empty(t, sources.Explicit)
}

func TestLoadLayers(t *testing.T) {
	xdg := t.TempDir()
	global := filepath.Join(xdg, "canvasnotes", "config.json")
	writeFile(t, global, `{
  // tuned for a hi-dpi terminal
  "density": 2,
  "cell_width": 8,
  "start_drawer": true,
  "autosave_seconds": 10,
}`)

	explicit := filepath.Join(t.TempDir(), "override.json")
	writeFile(t, explicit, `{"cell_width": 12, "start_drawer": false, "save_directory": "/srv/canvases"}`)

	cfg, sources, err := Load(explicit, []string{"XDG_CONFIG_HOME=" + xdg})
	require.NoError(t, err)
	assert.Equal(t, global, sources.Global)
	assert.Equal(t, explicit, sources.Explicit)

	assert.Equal(t, 2.0, cfg.Density)
	assert.Equal(t, 12, cfg.CellWidth, "explicit file wins")
	assert.Equal(t, 20, cfg.CellHeight, "default kept")
	assert.False(t, cfg.StartDrawer, "false overrides true")
	assert.Equal(t, 10, cfg.AutosaveSeconds)
	assert.Equal(t, "/srv/canvases", cfg.SaveDirectory)
	assert.Equal(t, "/srv/canvases/a.json", cfg.SavePath("a.json"))
}

func TestLoadExplicitMissing(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.json"), []string{"XDG_CONFIG_HOME=" + t.TempDir()})
	assert.ErrorIs(t, err, errConfigFileNotFound)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"syntax":        `{"density": }`,
		"wrong type":    `{"density": "high"}`,
		"zero density":  `{"density": 0}`,
		"negative cell": `{"cell_height": -1}`,
		"bad friction":  `{"fling_friction": 0}`,
		"bad autosave":  `{"autosave_seconds": -5}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.json")
			writeFile(t, path, content)
			_, _, err := Load(path, []string{"XDG_CONFIG_HOME=" + t.TempDir()})
			assert.ErrorIs(t, err, errConfigInvalid)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "notes"), ExpandHome("~/notes"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.True(t, filepath.IsAbs(ExpandHome("relative/dir")))
	assert.Empty(t, ExpandHome(""))
}

func TestSaveDirFallback(t *testing.T) {
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	assert.Equal(t, filepath.Join(data, "canvasnotes"), Default().SaveDir())
}

func TestGlobalPath(t *testing.T) {
	assert.Equal(t, "/cfg/canvasnotes/config.json", GlobalPath([]string{"XDG_CONFIG_HOME=/cfg"}))
}
