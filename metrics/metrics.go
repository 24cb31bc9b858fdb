// Package metrics derives progress and overtime statistics from a ledger
// snapshot. Every value is recomputed from scratch on each call; nothing in
// here holds state, so all views that display the same figure share one
// implementation and cannot drift.
package metrics

import (
	"fmt"
	"math"

	"github.com/ichika06/ojt-tracker/timelog"
)

// DefaultGoal is the overall target used when the user has not set one.
const DefaultGoal = 486

// TotalLogged sums logged hours over all entries.
func TotalLogged(entries []timelog.Entry) float64 {
	total := 0.0
	for _, entry := range entries {
		total += entry.Hours
	}
	return total
}

// Remaining is the distance left to the goal, floored at zero.
func Remaining(goal, totalLogged float64) float64 {
	return math.Max(0, goal-totalLogged)
}

// ProgressPercent is the unclamped completion percentage; exceeding the goal
// yields values above 100 on purpose.
func ProgressPercent(goal, totalLogged float64) float64 {
	if goal <= 0 {
		return 0
	}
	return 100 * totalLogged / goal
}

// EntryOvertime is the authoritative per-day overtime: max(0, hours-needed)
// when a requirement is set, else 0. Stored overtime values are ignored.
func EntryOvertime(entry timelog.Entry) float64 {
	return timelog.ComputeOvertime(entry.Hours, entry.NeededHours)
}

// TotalOvertime sums per-entry overtime over entries with a requirement.
func TotalOvertime(entries []timelog.Entry) float64 {
	total := 0.0
	for _, entry := range entries {
		if entry.HasRequirement() {
			total += EntryOvertime(entry)
		}
	}
	return total
}

// OvertimeDayCount counts entries with positive overtime.
func OvertimeDayCount(entries []timelog.Entry) int {
	count := 0
	for _, entry := range entries {
		if EntryOvertime(entry) > 0 {
			count++
		}
	}
	return count
}

// WorkingDayCount counts entries with positive logged hours.
func WorkingDayCount(entries []timelog.Entry) int {
	count := 0
	for _, entry := range entries {
		if entry.Hours > 0 {
			count++
		}
	}
	return count
}

// AverageOvertimePerWorkingDay divides total overtime by the working-day
// count, and is 0 when there are no working days.
func AverageOvertimePerWorkingDay(entries []timelog.Entry) float64 {
	workingDays := WorkingDayCount(entries)
	if workingDays == 0 {
		return 0
	}
	return TotalOvertime(entries) / float64(workingDays)
}

// Summary bundles the derived statistics for one ledger snapshot and goal.
type Summary struct {
	Goal            float64
	TotalLogged     float64
	Remaining       float64
	ProgressPercent float64
	TotalOvertime   float64
	AverageOvertime float64
	OvertimeDays    int
	WorkingDays     int
}

// Summarize computes the full statistics set from a ledger and goal.
func Summarize(ledger *timelog.Ledger, goal float64) Summary {
	entries := ledger.Entries()
	total := TotalLogged(entries)
	return Summary{
		Goal:            goal,
		TotalLogged:     total,
		Remaining:       Remaining(goal, total),
		ProgressPercent: ProgressPercent(goal, total),
		TotalOvertime:   TotalOvertime(entries),
		AverageOvertime: AverageOvertimePerWorkingDay(entries),
		OvertimeDays:    OvertimeDayCount(entries),
		WorkingDays:     WorkingDayCount(entries),
	}
}

// FormatHours renders an hour value the way the tables do: whole values
// without a fraction, otherwise one decimal place ("8h", "8.5h").
func FormatHours(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%dh", int64(value))
	}
	return fmt.Sprintf("%.1fh", value)
}

// FormatOvertime renders an entry's overtime cell. Days without a
// requirement show "-" (overtime undefined there, which is distinct from an
// explicit "0h OT").
func FormatOvertime(entry timelog.Entry) string {
	if !entry.HasRequirement() {
		return "-"
	}
	overtime := EntryOvertime(entry)
	if overtime == math.Trunc(overtime) {
		return fmt.Sprintf("%dh OT", int64(overtime))
	}
	return fmt.Sprintf("%.1fh OT", overtime)
}
