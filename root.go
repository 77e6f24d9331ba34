package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"canvasnotes/internal/app"
	"canvasnotes/internal/canvas"
	"canvasnotes/internal/config"
	"canvasnotes/internal/session"
	"canvasnotes/internal/store"
)

var (
	verbose    bool
	saveDir    string
	configPath string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "canvasnotes",
	Short: "An infinite canvas of notes in your terminal",
	Long: `canvasnotes keeps text notes on a very large plane you can pan and zoom.
Double-click to add a note, drag to move it, drag its border to resize it.
Every canvas is a JSON file in the save directory.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})))

		loaded, sources, err := config.Load(configPath, os.Environ())
		if err != nil {
			return err
		}
		if saveDir != "" {
			loaded.SaveDirectory = config.ExpandHome(saveDir)
		}
		cfg = loaded
		slog.Debug("config loaded", "global", sources.Global, "explicit", sources.Explicit, "dir", cfg.SaveDir())
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

// Execute runs the command line. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&saveDir, "dir", "", "Directory holding the canvases")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (JSONC)")
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func openStore() (*store.Dir, error) {
	return store.Open(cfg.SaveDir(), store.WithLogger(slog.Default()))
}

// Terminal assumed when a canvas is laid out without one.
const headlessCols, headlessRows = 80, 24

// newManager returns a session manager on a canvas that never gets
// dimensions. Loaded state stays pending, which is all a save needs.
func newManager(dir *store.Dir) *session.Manager {
	return session.New(dir, canvas.New(), session.WithLogger(slog.Default()))
}

// newLaidOutManager lays its canvas out for a default terminal, so a fresh
// document is saved centered on the content frame.
func newLaidOutManager(dir *store.Dir) *session.Manager {
	c := canvas.New()
	c.Resize(headlessCols*max(cfg.CellWidth, 1), headlessRows*max(cfg.CellHeight, 1))
	return session.New(dir, c, session.WithLogger(slog.Default()))
}

func runTUI(ctx context.Context) error {
	logPath := cfg.LogFile
	if logPath == "" {
		logPath = filepath.Join(cfg.SaveDir(), "canvasnotes.log")
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	// the terminal belongs to the renderer, so logs go to a file
	f, err := tea.LogToFile(config.ExpandHome(logPath), "canvasnotes")
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel()}))
	slog.SetDefault(logger)

	dir, err := store.Open(cfg.SaveDir(), store.WithLogger(logger))
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := []app.Option{app.WithLogger(logger)}
	if events, err := dir.Watch(ctx); err != nil {
		logger.Warn("watching the save directory failed; the document list will not refresh", "error", err)
	} else {
		opts = append(opts, app.WithEvents(events))
	}

	p := tea.NewProgram(
		app.New(cfg, dir, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
