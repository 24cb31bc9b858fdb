// Package calendar builds the month view grid and tracks the user's
// selection within it.
package calendar

import (
	"time"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/timelog"
)

// GridSize is the fixed cell count of a month view: six full Monday-first
// weeks regardless of month length.
const GridSize = 42

// DayCell is one cell of the month grid, annotated with that day's ledger
// entry and view flags.
type DayCell struct {
	Date     time.Time
	Key      string
	Day      int
	Hours    float64
	InMonth  bool
	Today    bool
	Selected bool
}

// MonthGrid produces the 42 cells for the month containing anchor. The grid
// starts on the Monday on or before the 1st; a month starting on Sunday is
// offset by six days. Cells outside the anchor month are marked so the view
// can render them inert.
func MonthGrid(anchor time.Time, ledger *timelog.Ledger, selected, today string) []DayCell {
	loc := anchor.Location()
	first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
	// time.Weekday is Sunday=0; shift to a Monday-first offset.
	offset := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -offset)

	cells := make([]DayCell, 0, GridSize)
	for i := 0; i < GridSize; i++ {
		day := start.AddDate(0, 0, i)
		key := day.Format(timeutil.DateKeyLayout)

		hours := 0.0
		if entry, ok := ledger.Lookup(key); ok {
			hours = entry.Hours
		}

		cells = append(cells, DayCell{
			Date:     day,
			Key:      key,
			Day:      day.Day(),
			Hours:    hours,
			InMonth:  day.Month() == anchor.Month(),
			Today:    key == today,
			Selected: key == selected,
		})
	}
	return cells
}
