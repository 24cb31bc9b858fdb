package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/calendar"
	"github.com/ichika06/ojt-tracker/internal/timeutil"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Print the month grid with logged hours",
	Long: `Print the six-week month grid the dashboard uses: Monday-first, 42 cells,
days outside the month dimmed. Each in-month day shows its logged hours.`,
	Example: `
  # Current month
  ojt calendar

  # A specific month
  ojt calendar 2026-03
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loc, err := timeutil.LoadZone(cfg.Timezone)
		if err != nil {
			return err
		}

		anchor := time.Now().In(loc)
		if len(args) == 1 {
			anchor, err = time.ParseInLocation("2006-01", strings.TrimSpace(args[0]), loc)
			if err != nil {
				return fmt.Errorf("invalid month %q (expected YYYY-MM)", args[0])
			}
		}

		coord, _, cleanup, err := startSession(cmd.Context(), cfg, newLogger())
		if err != nil {
			return err
		}
		defer cleanup()

		today := timeutil.Today(loc)
		cells := calendar.MonthGrid(anchor, coord.LedgerCopy(), "", today)

		fmt.Println(anchor.Format("January 2006"))
		fmt.Println(renderCalendar(cells))
		return nil
	},
}

// renderCalendar lays the 42 cells out as six rows of seven. Out-of-month
// days render as dots, today is marked with an asterisk, and logged days
// carry their hours.
func renderCalendar(cells []calendar.DayCell) string {
	var b strings.Builder
	b.WriteString("  Mon     Tue     Wed     Thu     Fri     Sat     Sun\n")
	for week := 0; week < calendar.GridSize/7; week++ {
		for day := 0; day < 7; day++ {
			cell := cells[week*7+day]
			b.WriteString(renderCell(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(cell calendar.DayCell) string {
	if !cell.InMonth {
		return fmt.Sprintf("%-8s", "  .")
	}
	marker := " "
	if cell.Today {
		marker = "*"
	}
	if cell.Hours > 0 {
		return fmt.Sprintf("%2d%s%-5s", cell.Day, marker, timeutil.FormatDecimal(cell.Hours)+"h")
	}
	return fmt.Sprintf("%2d%s%-5s", cell.Day, marker, "")
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}
