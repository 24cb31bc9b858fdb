package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
)

func parseDateKey(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", fmt.Errorf("empty date")
	}

	layouts := []string{
		timeutil.DateKeyLayout,
		"01/02/2006",
		"1/2/2006",
		"02.01.2006",
		"Jan 2, 2006",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed.Format(timeutil.DateKeyLayout), nil
		}
	}

	return "", fmt.Errorf("unsupported date format: %q", raw)
}

func parseHours(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	cleaned = strings.TrimSuffix(strings.ToLower(cleaned), "h")

	hours, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours < 0 {
		return 0, fmt.Errorf("hours %q must be a non-negative number", raw)
	}
	return hours, nil
}

// hoursFromClockRange derives hours from time-in/time-out columns, accepting
// the same 12h and 24h forms the interactive input does.
func hoursFromClockRange(start, end string) (float64, error) {
	formatted := timeutil.DurationHours(start, end)
	if formatted == "" {
		return 0, fmt.Errorf("invalid time range %q to %q", start, end)
	}
	hours, err := strconv.ParseFloat(formatted, 64)
	if err != nil {
		return 0, fmt.Errorf("parse derived hours %q: %w", formatted, err)
	}
	return hours, nil
}
