package web

import (
	"fmt"
	"time"

	"github.com/ichika06/ojt-tracker/calendar"
	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/timelog"
)

// overviewLimit caps the recent-days table; the full history stays in the
// calendar and exports.
const overviewLimit = 10

type StatCard struct {
	Label string
	Value string
	Hint  string
}

type OverviewRow struct {
	Date     string
	Hours    string
	Needed   string
	Overtime string
}

type DashboardView struct {
	Title    string
	Email    string
	DarkMode bool
	Notice   string

	Goal         string
	Stats        []StatCard
	ProgressPct  float64
	ProgressBar  float64
	Overview     []OverviewRow
	OverviewMore int

	MonthLabel string
	Weekdays   []string
	Cells      []calendar.DayCell

	Selected      string
	PendingHours  string
	PendingNeeded string
	PendingStart  string
	PendingEnd    string
}

// BuildDashboard assembles the whole page model from the session state and
// the view selection.
func BuildDashboard(entries []timelog.Entry, goal float64, sel *calendar.Selection, today string, darkMode bool, email, notice string) DashboardView {
	ledger := timelog.NewLedger()
	ledger.ReplaceAll(entries)
	summary := metrics.Summarize(ledger, goal)

	view := DashboardView{
		Title:    "OJT Tracker",
		Email:    email,
		DarkMode: darkMode,
		Notice:   notice,

		Goal:        metrics.FormatHours(goal),
		Stats:       buildStats(summary),
		ProgressPct: summary.ProgressPercent,
		ProgressBar: clampPercent(summary.ProgressPercent),

		MonthLabel: sel.Month.Format("January 2006"),
		Weekdays:   []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Cells:      calendar.MonthGrid(sel.Month, ledger, sel.Selected, today),

		Selected:      sel.Selected,
		PendingHours:  sel.PendingHours,
		PendingNeeded: sel.PendingNeeded,
		PendingStart:  sel.PendingStart,
		PendingEnd:    sel.PendingEnd,
	}

	view.Overview, view.OverviewMore = buildOverview(ledger)
	return view
}

func buildStats(summary metrics.Summary) []StatCard {
	return []StatCard{
		{
			Label: "Total Logged",
			Value: metrics.FormatHours(summary.TotalLogged),
			Hint:  fmt.Sprintf("of %s goal", metrics.FormatHours(summary.Goal)),
		},
		{
			Label: "Remaining",
			Value: metrics.FormatHours(summary.Remaining),
		},
		{
			Label: "Progress",
			Value: fmt.Sprintf("%.1f%%", summary.ProgressPercent),
		},
		{
			Label: "Total Overtime",
			Value: metrics.FormatHours(summary.TotalOvertime),
			Hint: fmt.Sprintf("%s avg over %d working days",
				metrics.FormatHours(summary.AverageOvertime), summary.WorkingDays),
		},
	}
}

func buildOverview(ledger *timelog.Ledger) ([]OverviewRow, int) {
	entries := ledger.Entries()
	timelog.SortByDateDesc(entries)

	more := 0
	if len(entries) > overviewLimit {
		more = len(entries) - overviewLimit
		entries = entries[:overviewLimit]
	}

	rows := make([]OverviewRow, 0, len(entries))
	for _, entry := range entries {
		needed := "-"
		if entry.HasRequirement() {
			needed = metrics.FormatHours(entry.NeededHours)
		}
		rows = append(rows, OverviewRow{
			Date:     formatOverviewDate(entry.Date),
			Hours:    metrics.FormatHours(entry.Hours),
			Needed:   needed,
			Overtime: metrics.FormatOvertime(entry),
		})
	}
	return rows, more
}

func formatOverviewDate(key string) string {
	parsed, err := time.Parse("2006-01-02", key)
	if err != nil {
		return key
	}
	return parsed.Format("Mon, Jan 2 2006")
}

// clampPercent bounds the progress bar width; the displayed percentage stays
// unclamped so finishing early reads as more than 100%.
func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
