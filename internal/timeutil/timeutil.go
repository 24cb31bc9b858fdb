// Package timeutil normalizes user-entered clock times and calendar dates.
//
// All date bucketing in the application uses one fixed named time zone so
// "today" never shifts with the device locale.
package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateKeyLayout is the canonical per-day key format used everywhere a date
// identifies a ledger entry.
const DateKeyLayout = "2006-01-02"

// DefaultZone is the fixed zone all date-bucket comparisons default to.
const DefaultZone = "Asia/Manila"

const minutesPerDay = 24 * 60

// ErrParseClock reports clock text that matches neither the 12-hour
// "H:MM AM|PM" shape nor the 24-hour "HH:MM" shape.
var ErrParseClock = errors.New("unrecognized clock time")

// LoadZone resolves an IANA zone name, defaulting to DefaultZone when empty.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// DateKey formats a point in time as a canonical YYYY-MM-DD key in loc.
func DateKey(value time.Time, loc *time.Location) string {
	return value.In(loc).Format(DateKeyLayout)
}

// Today returns the canonical key for the current day in loc.
func Today(loc *time.Location) string {
	return DateKey(time.Now(), loc)
}

// ParseDateKey parses a canonical YYYY-MM-DD key as midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	parsed, err := time.ParseInLocation(DateKeyLayout, strings.TrimSpace(key), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", key, err)
	}
	return parsed, nil
}

// ParseClock converts clock text into minutes since midnight. Two shapes are
// accepted: "H:MM AM|PM" with the hour in 1..12 (meridiem case-insensitive),
// and 24-hour "HH:MM" with the hour clamped to 0..23 and the minute to 0..59.
// Anything else fails with ErrParseClock.
func ParseClock(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty input", ErrParseClock)
	}

	clockPart := trimmed
	meridiem := ""
	fields := strings.Fields(trimmed)
	switch len(fields) {
	case 1:
		clockPart = fields[0]
	case 2:
		clockPart = fields[0]
		meridiem = strings.ToUpper(fields[1])
		if meridiem != "AM" && meridiem != "PM" {
			return 0, fmt.Errorf("%w: %q", ErrParseClock, text)
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrParseClock, text)
	}

	hourText, minuteText, ok := strings.Cut(clockPart, ":")
	if !ok || len(minuteText) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrParseClock, text)
	}
	hour, err := strconv.Atoi(hourText)
	if err != nil || hour < 0 {
		return 0, fmt.Errorf("%w: %q", ErrParseClock, text)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil || minute < 0 {
		return 0, fmt.Errorf("%w: %q", ErrParseClock, text)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return 0, fmt.Errorf("%w: hour %d out of 1..12", ErrParseClock, hour)
		}
		if meridiem == "AM" && hour == 12 {
			hour = 0
		}
		if meridiem == "PM" && hour != 12 {
			hour += 12
		}
	} else {
		hour = clampInt(hour, 0, 23)
	}
	minute = clampInt(minute, 0, 59)

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight in the 12-hour picker form,
// e.g. 845 -> "2:05 PM". Both 0 and 12 display as 12.
func FormatClock(totalMinutes int) string {
	if totalMinutes < 0 {
		totalMinutes = 0
	}
	totalMinutes %= minutesPerDay

	hour := totalMinutes / 60
	minute := totalMinutes % 60
	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, minute, meridiem)
}

// DurationHours converts a (start, end) pair of clock strings into a decimal
// hour count rendered with two places, e.g. "8.00". An end before the start
// is treated as an overnight span. The empty string signals that either
// endpoint failed to parse; callers treat that as "not computable" rather
// than an error.
func DurationHours(startText, endText string) string {
	start, err := ParseClock(startText)
	if err != nil {
		return ""
	}
	end, err := ParseClock(endText)
	if err != nil {
		return ""
	}

	if end < start {
		end += minutesPerDay
	}
	hours := float64(end-start) / 60.0
	if hours < 0 {
		hours = 0
	}
	return strconv.FormatFloat(RoundHours(hours), 'f', 2, 64)
}

// FormatHoursHuman renders a decimal hour count as "Xh Ym", dropping the
// zero component, e.g. 1.5 -> "1h 30m", 0.75 -> "45m", 2 -> "2h". NaN and
// non-positive values render as "0h".
func FormatHoursHuman(hours float64) string {
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return "0h"
	}

	totalMinutes := int(math.Round(hours * 60))
	if totalMinutes <= 0 {
		return "0h"
	}

	wholeHours := totalMinutes / 60
	minutes := totalMinutes % 60
	switch {
	case wholeHours == 0:
		return fmt.Sprintf("%dm", minutes)
	case minutes == 0:
		return fmt.Sprintf("%dh", wholeHours)
	default:
		return fmt.Sprintf("%dh %dm", wholeHours, minutes)
	}
}

// RoundHours rounds an hour value to two decimal places.
func RoundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

// FormatDecimal renders a float without fixed precision or trailing zeros,
// matching how hour values appear in input buffers and tables
// (8 -> "8", 8.5 -> "8.5").
func FormatDecimal(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// MinutesFromMidnight reports how far into its day a point in time is.
func MinutesFromMidnight(value time.Time) int {
	return value.Hour()*60 + value.Minute()
}

// SameDay reports whether two points in time share a calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfDay truncates a point in time to midnight in its own location.
func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func clampInt(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
