package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/session"
)

var deleteCmd = &cobra.Command{
	Use:   "delete DATE",
	Short: "Remove a day's logged hours",
	Example: `
  ojt delete 2026-03-04
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		date, _, err := resolveDate(args, cfg)
		if err != nil {
			return err
		}

		coord, _, cleanup, err := startSession(cmd.Context(), cfg, newLogger())
		if err != nil {
			return err
		}
		defer cleanup()

		err = coord.RemoveEntry(cmd.Context(), date)
		if errors.Is(err, session.ErrRemoteWrite) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: server unreachable; the deletion was applied locally and syncs later.")
		} else if err != nil {
			return err
		}

		fmt.Printf("Removed entry for %s.\n", date)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
