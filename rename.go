package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Change the title of a canvas",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := openStore()
		if err != nil {
			return err
		}
		id := args[0]
		ok, err := dir.Exists(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("canvas %q not found in %s", id, dir.Path())
		}

		m := newManager(dir)
		if err := m.StartSession(id, ""); err != nil {
			return err
		}
		if err := m.Rename(strings.Join(args[1:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %q\n", id, m.Title())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
