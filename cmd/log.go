package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/session"
)

var (
	logHours  float64
	logNeeded float64
	logFrom   string
	logTo     string
)

var logCmd = &cobra.Command{
	Use:   "log [DATE]",
	Short: "Log hours for a day (today when DATE is omitted)",
	Long: `Log hours for one day. Re-logging a day overwrites its hours; a day's
needed-hours requirement is kept unless --needed is given again.

Hours come from --hours, or from a --from/--to clock range. Ranges accept
12-hour ("8:00 AM") and 24-hour ("08:00") forms and may wrap past midnight
for night shifts.`,
	Example: `
  # Log 8 hours today
  ojt log --hours 8

  # Log with a per-day requirement; anything above 6h counts as overtime
  ojt log 2026-03-04 --hours 8 --needed 6

  # Derive hours from a time range
  ojt log --from "8:00 AM" --to "5:30 PM"

  # Night shift wrapping past midnight
  ojt log --from 22:00 --to 06:00
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		date, _, err := resolveDate(args, cfg)
		if err != nil {
			return err
		}

		hours := logHours
		if !cmd.Flags().Changed("hours") {
			if strings.TrimSpace(logFrom) == "" || strings.TrimSpace(logTo) == "" {
				return fmt.Errorf("provide --hours or both --from and --to")
			}
			formatted := timeutil.DurationHours(logFrom, logTo)
			if formatted == "" {
				return fmt.Errorf("invalid time range %q to %q", logFrom, logTo)
			}
			hours, err = strconv.ParseFloat(formatted, 64)
			if err != nil {
				return fmt.Errorf("parse derived hours: %w", err)
			}
		}

		var needed *float64
		if cmd.Flags().Changed("needed") {
			needed = &logNeeded
		}

		logger := newLogger()
		coord, _, cleanup, err := startSession(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		entry, err := coord.LogHours(cmd.Context(), date, hours, needed)
		if errors.Is(err, session.ErrRemoteWrite) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: server unreachable; the entry was saved locally and syncs later.")
		} else if err != nil {
			return err
		}

		fmt.Printf("Logged %s on %s", metrics.FormatHours(entry.Hours), entry.Date)
		if entry.HasRequirement() {
			fmt.Printf(" (needed %s, %s)", metrics.FormatHours(entry.NeededHours), metrics.FormatOvertime(entry))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().Float64Var(&logHours, "hours", 0, "Hours worked (decimal)")
	logCmd.Flags().Float64Var(&logNeeded, "needed", 0, "Required hours for the day; logging more counts as overtime")
	logCmd.Flags().StringVar(&logFrom, "from", "", "Shift start time, e.g. \"8:00 AM\" or 08:00")
	logCmd.Flags().StringVar(&logTo, "to", "", "Shift end time; before --from means the shift wraps past midnight")
}
