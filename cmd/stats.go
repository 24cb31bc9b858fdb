package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/timelog"
)

var statsAll bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and overtime statistics",
	Long: `Show total logged hours, remaining hours, progress percentage, and the
overtime breakdown. Progress is not capped at 100%; finishing early reads
as more than 100%.`,
	Example: `
  # Progress summary
  ojt stats

  # Include the per-day table
  ojt stats --all
`,
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

		summary := coord.Summary()
		fmt.Printf("Goal:           %s\n", metrics.FormatHours(summary.Goal))
		fmt.Printf("Total logged:   %s\n", metrics.FormatHours(summary.TotalLogged))
		fmt.Printf("Remaining:      %s\n", metrics.FormatHours(summary.Remaining))
		fmt.Printf("Progress:       %.1f%%\n", summary.ProgressPercent)
		fmt.Printf("Total overtime: %s over %d of %d working days (avg %s/day)\n",
			metrics.FormatHours(summary.TotalOvertime),
			summary.OvertimeDays,
			summary.WorkingDays,
			metrics.FormatHours(summary.AverageOvertime),
		)

		if !statsAll {
			return nil
		}

		entries := coord.Snapshot()
		timelog.SortByDateDesc(entries)
		fmt.Println()
		fmt.Printf("%-12s %8s %8s %10s\n", "Date", "Hours", "Needed", "Overtime")
		for _, entry := range entries {
			needed := "-"
			if entry.HasRequirement() {
				needed = metrics.FormatHours(entry.NeededHours)
			}
			fmt.Printf("%-12s %8s %8s %10s\n",
				entry.Date,
				metrics.FormatHours(entry.Hours),
				needed,
				metrics.FormatOvertime(entry),
			)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().BoolVar(&statsAll, "all", false, "Also print the per-day table")
}
