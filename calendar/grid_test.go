package calendar

import (
	"testing"
	"time"

	"github.com/ichika06/ojt-tracker/timelog"
)

func TestMonthGrid_AlwaysFortyTwoCells(t *testing.T) {
	ledger := timelog.NewLedger()
	// Months of every length: Feb 2024 (29), Feb 2023 (28), Apr 2024 (30),
	// May 2024 (31).
	for _, anchor := range []time.Time{
		time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.April, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
	} {
		cells := MonthGrid(anchor, ledger, "", "")
		if len(cells) != GridSize {
			t.Fatalf("%s: expected %d cells, got %d", anchor.Month(), GridSize, len(cells))
		}
	}
}

func TestMonthGrid_StartsOnMondayBeforeFirst(t *testing.T) {
	ledger := timelog.NewLedger()

	// May 2024 starts on a Wednesday; the grid starts the Monday two days
	// before. November 2023 starts on a Wednesday as well.
	cells := MonthGrid(time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), ledger, "", "")
	if cells[0].Key != "2024-04-29" {
		t.Fatalf("first cell = %s, want 2024-04-29", cells[0].Key)
	}
	if cells[0].Date.Weekday() != time.Monday {
		t.Fatalf("first cell weekday = %s", cells[0].Date.Weekday())
	}

	// September 2024 starts on a Sunday: offset is six days back.
	cells = MonthGrid(time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), ledger, "", "")
	if cells[0].Key != "2024-08-26" {
		t.Fatalf("first cell = %s, want 2024-08-26", cells[0].Key)
	}

	// July 2024 starts on a Monday: no offset.
	cells = MonthGrid(time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), ledger, "", "")
	if cells[0].Key != "2024-07-01" {
		t.Fatalf("first cell = %s, want 2024-07-01", cells[0].Key)
	}
}

func TestMonthGrid_AnnotatesCells(t *testing.T) {
	ledger := timelog.NewLedger()
	now := time.Now()
	if _, err := ledger.Upsert("2024-05-15", 7.5, nil, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	anchor := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	cells := MonthGrid(anchor, ledger, "2024-05-15", "2024-05-20")

	byKey := make(map[string]DayCell, len(cells))
	for _, cell := range cells {
		byKey[cell.Key] = cell
	}

	logged := byKey["2024-05-15"]
	if logged.Hours != 7.5 || !logged.Selected || !logged.InMonth {
		t.Fatalf("unexpected logged cell: %+v", logged)
	}
	if !byKey["2024-05-20"].Today {
		t.Fatalf("today flag missing: %+v", byKey["2024-05-20"])
	}
	if byKey["2024-04-29"].InMonth {
		t.Fatalf("leading cell marked in-month: %+v", byKey["2024-04-29"])
	}
	if byKey["2024-05-16"].Hours != 0 {
		t.Fatalf("empty day carries hours: %+v", byKey["2024-05-16"])
	}
}

func TestSelection_SelectOutsideMonthIsNoOp(t *testing.T) {
	ledger := timelog.NewLedger()
	sel := NewSelection("2024-05-10", time.UTC)
	sel.PendingHours = "8"

	outside := DayCell{Key: "2024-04-29", InMonth: false}
	if sel.Select(outside, ledger) {
		t.Fatalf("selecting an out-of-month cell should report false")
	}
	if sel.Selected != "2024-05-10" || sel.PendingHours != "8" {
		t.Fatalf("no-op select mutated state: %+v", sel)
	}
}

func TestSelection_SelectRefillsBuffersFromLedger(t *testing.T) {
	ledger := timelog.NewLedger()
	now := time.Now()
	needed := 6.0
	if _, err := ledger.Upsert("2024-05-15", 8.5, &needed, now); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	sel := NewSelection("2024-05-10", time.UTC)
	sel.PendingStart = "9:00 AM"
	sel.PendingEnd = "5:00 PM"

	if !sel.Select(DayCell{Key: "2024-05-15", InMonth: true}, ledger) {
		t.Fatalf("in-month select rejected")
	}
	if sel.Selected != "2024-05-15" {
		t.Fatalf("selected = %s", sel.Selected)
	}
	if sel.PendingHours != "8.5" || sel.PendingNeeded != "6" {
		t.Fatalf("buffers not refilled: %+v", sel)
	}
	if sel.PendingStart != "" || sel.PendingEnd != "" {
		t.Fatalf("time-range buffers not reset: %+v", sel)
	}

	// A date with no entry clears the buffers.
	if !sel.Select(DayCell{Key: "2024-05-16", InMonth: true}, ledger) {
		t.Fatalf("in-month select rejected")
	}
	if sel.PendingHours != "" || sel.PendingNeeded != "" {
		t.Fatalf("buffers not cleared for empty date: %+v", sel)
	}
}

func TestSelection_NavigateMonth(t *testing.T) {
	sel := NewSelection("2024-05-10", time.UTC)
	sel.NavigateMonth(1)
	if sel.Month.Month() != time.June {
		t.Fatalf("month = %s, want June", sel.Month.Month())
	}
	sel.NavigateMonth(-2)
	if sel.Month.Month() != time.April {
		t.Fatalf("month = %s, want April", sel.Month.Month())
	}
	if sel.Selected != "2024-05-10" {
		t.Fatalf("navigation changed selection: %s", sel.Selected)
	}
}
