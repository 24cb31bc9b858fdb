// Package timelog holds the date-bucketed ledger of logged hours.
package timelog

import (
	"errors"
	"math"
	"sort"
	"time"
)

// ErrInvalidHours rejects upserts whose hours value is not a positive finite
// number. The ledger is left unchanged.
var ErrInvalidHours = errors.New("hours must be a positive finite number")

// Entry is one calendar day's record. Date is the canonical YYYY-MM-DD key
// and is unique within a Ledger. Overtime is derived from Hours and
// NeededHours; a stored value is only a cache hint and recomputation wins.
type Entry struct {
	Date        string    `json:"date"`
	Hours       float64   `json:"hours"`
	NeededHours float64   `json:"neededHours,omitempty"`
	Overtime    float64   `json:"overtime"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasRequirement reports whether a required-hours target is set for the day.
// Without one, overtime is undefined rather than zero.
func (e Entry) HasRequirement() bool {
	return e.NeededHours > 0
}

// ComputeOvertime derives the overtime value for an hours/requirement pair:
// max(0, hours-needed) when a requirement is set, otherwise 0.
func ComputeOvertime(hours, neededHours float64) float64 {
	if neededHours <= 0 {
		return 0
	}
	return math.Max(0, hours-neededHours)
}

// Ledger maps canonical dates to entries. Insertion order is irrelevant;
// consumers re-sort by date when order matters.
type Ledger struct {
	entries map[string]Entry
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]Entry)}
}

// Upsert writes the entry for a date, replacing mutable fields while keeping
// the date key. A nil neededHours leaves any existing requirement unchanged;
// a provided but non-positive or non-finite requirement is normalized to
// "absent". Overtime is always recomputed.
func (l *Ledger) Upsert(date string, hours float64, neededHours *float64, now time.Time) (Entry, error) {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return Entry{}, ErrInvalidHours
	}

	entry := Entry{Date: date}
	if existing, ok := l.entries[date]; ok {
		entry = existing
	}

	entry.Hours = hours
	if neededHours != nil {
		needed := *neededHours
		if math.IsNaN(needed) || math.IsInf(needed, 0) || needed <= 0 {
			needed = 0
		}
		entry.NeededHours = needed
	}
	entry.Overtime = ComputeOvertime(entry.Hours, entry.NeededHours)
	entry.UpdatedAt = now

	l.entries[date] = entry
	return entry, nil
}

// Remove deletes the entry for a date. Removing an absent date is a no-op.
func (l *Ledger) Remove(date string) {
	delete(l.entries, date)
}

// Lookup returns the entry for a date.
func (l *Ledger) Lookup(date string) (Entry, bool) {
	entry, ok := l.entries[date]
	return entry, ok
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns all entries sorted by ascending date.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		out = append(out, entry)
	}
	sortByDate(out)
	return out
}

// Logged returns the entries with positive hours, sorted by ascending date.
// Reporting views use this to exclude zero/placeholder rows.
func (l *Ledger) Logged() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, entry := range l.entries {
		if entry.Hours > 0 {
			out = append(out, entry)
		}
	}
	sortByDate(out)
	return out
}

// ReplaceAll swaps the ledger contents for a full snapshot, recomputing each
// entry's overtime from its hours and requirement. When a snapshot carries
// duplicate dates the last one wins.
func (l *Ledger) ReplaceAll(entries []Entry) {
	next := make(map[string]Entry, len(entries))
	for _, entry := range entries {
		entry.Overtime = ComputeOvertime(entry.Hours, entry.NeededHours)
		next[entry.Date] = entry
	}
	l.entries = next
}

// Clear empties the ledger, as on sign-out.
func (l *Ledger) Clear() {
	l.entries = make(map[string]Entry)
}

func sortByDate(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
}

// SortByDateDesc orders a snapshot most recent first, the order the overview
// and overtime tables display.
func SortByDateDesc(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
}
