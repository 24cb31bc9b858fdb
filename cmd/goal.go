package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/session"
)

var goalCmd = &cobra.Command{
	Use:   "goal [HOURS]",
	Short: "Show or set the total hour goal",
	Long: `Without an argument, print the current goal. With one, set it. Values
that are not a positive number fall back to the default of 486 hours.`,
	Example: `
  # Show the current goal
  ojt goal

  # Set a new goal
  ojt goal 520
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		coord, _, cleanup, err := startSession(cmd.Context(), cfg, newLogger())
		if err != nil {
			return err
		}
		defer cleanup()

		if len(args) == 0 {
			fmt.Printf("Goal: %s\n", metrics.FormatHours(coord.Goal()))
			return nil
		}

		goal, parseErr := strconv.ParseFloat(args[0], 64)
		if parseErr != nil {
			goal = 0
		}
		err = coord.SaveGoal(cmd.Context(), goal)
		if errors.Is(err, session.ErrRemoteWrite) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: server unreachable; the goal was saved locally and syncs later.")
		} else if err != nil {
			return err
		}

		fmt.Printf("Goal set to %s.\n", metrics.FormatHours(coord.Goal()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
}
