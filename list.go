package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listJSON bool

type listItem struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Modified time.Time `json:"modified"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved canvases, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := openStore()
		if err != nil {
			return err
		}
		entries, err := newManager(dir).ListDocuments()
		if err != nil {
			return err
		}

		items := make([]listItem, 0, len(entries))
		for _, e := range entries {
			items = append(items, listItem{ID: e.FileName, Title: e.Title, Modified: e.ModTime()})
		}

		out := cmd.OutOrStdout()
		if listJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No canvases found.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tMODIFIED")
		for _, it := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.Title, it.Modified.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
