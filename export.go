package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"canvasnotes/internal/document"
	"canvasnotes/internal/export"
	"canvasnotes/internal/store"
	"canvasnotes/internal/ui"
)

var (
	exportWidth  int
	exportHeight int
	exportCols   int
	exportRows   int
)

var exportCmd = &cobra.Command{
	Use:   "export <id> <out.png|out.txt>",
	Short: "Export a canvas as an image or as text",
	Long: `Export writes every note of a canvas to a PNG image, or the part of the
canvas visible in its saved view to a text file, depending on the extension.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := openStore()
		if err != nil {
			return err
		}
		state, err := readState(dir, args[0])
		if err != nil {
			return err
		}

		out := args[1]
		switch strings.ToLower(filepath.Ext(out)) {
		case ".png":
			err = export.WritePNG(out, state, export.PNGOptions{Width: exportWidth, Height: exportHeight})
		case ".txt":
			err = export.WriteText(out, state, export.TextOptions{
				Cols: exportCols,
				Rows: exportRows,
				Cell: ui.Cell{Width: cfg.CellWidth, Height: cfg.CellHeight},
			})
		default:
			return fmt.Errorf("unsupported export format %q (use .png or .txt)", filepath.Ext(out))
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "exported", out)
		return nil
	},
}

// readState loads the canvas of a record without touching the file. Legacy
// records are read as well.
func readState(dir *store.Dir, id string) (document.State, error) {
	data, _, err := dir.Read(id)
	if errors.Is(err, store.ErrNotFound) {
		return document.State{}, fmt.Errorf("canvas %q not found in %s", id, dir.Path())
	}
	if err != nil {
		return document.State{}, err
	}
	rec, err := document.Decode(data)
	if err == nil {
		return rec.State, nil
	}
	if s, lerr := document.DecodeLegacy(data); lerr == nil {
		return s, nil
	}
	return document.State{}, fmt.Errorf("canvas %q: %w", id, err)
}

func init() {
	exportCmd.Flags().IntVar(&exportWidth, "width", 0, "PNG width in pixels (default: natural size)")
	exportCmd.Flags().IntVar(&exportHeight, "height", 0, "PNG height in pixels (default: natural size)")
	exportCmd.Flags().IntVar(&exportCols, "cols", 80, "Text export width in columns")
	exportCmd.Flags().IntVar(&exportRows, "rows", 24, "Text export height in rows")
	rootCmd.AddCommand(exportCmd)
}
