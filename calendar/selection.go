package calendar

import (
	"time"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/timelog"
)

// Selection is the transient view state: the focused date, the month in
// view, and the pending input buffers for the log form. It is never
// persisted and resets its buffers whenever the selected date changes.
type Selection struct {
	Selected string
	Month    time.Time

	PendingHours  string
	PendingNeeded string
	PendingStart  string
	PendingEnd    string
}

// NewSelection starts with today focused and today's month in view.
func NewSelection(today string, loc *time.Location) *Selection {
	sel := &Selection{Selected: today, Month: time.Now().In(loc)}
	if parsed, err := timeutil.ParseDateKey(today, loc); err == nil {
		sel.Month = parsed
	}
	return sel
}

// Select focuses a grid cell. Cells outside the anchor month are inert and
// the call reports false without touching any state. Selecting an in-month
// cell refills the pending buffers from that date's ledger entry, or clears
// them when the date has none; the time-range buffers always reset.
func (s *Selection) Select(cell DayCell, ledger *timelog.Ledger) bool {
	if !cell.InMonth {
		return false
	}

	s.Selected = cell.Key
	s.PendingStart = ""
	s.PendingEnd = ""

	entry, ok := ledger.Lookup(cell.Key)
	if !ok {
		s.PendingHours = ""
		s.PendingNeeded = ""
		return true
	}

	s.PendingHours = timeutil.FormatDecimal(entry.Hours)
	if entry.HasRequirement() {
		s.PendingNeeded = timeutil.FormatDecimal(entry.NeededHours)
	} else {
		s.PendingNeeded = ""
	}
	return true
}

// NavigateMonth moves the month in view by delta months without changing
// the selection or buffers.
func (s *Selection) NavigateMonth(delta int) {
	s.Month = s.Month.AddDate(0, delta, 0)
}

// ClearBuffers empties the pending inputs, as after a successful save.
func (s *Selection) ClearBuffers() {
	s.PendingHours = ""
	s.PendingNeeded = ""
	s.PendingStart = ""
	s.PendingEnd = ""
}
