// Package output exports the ledger and its derived statistics to CSV and
// Excel files, for trainees who hand in their accumulated hours as a
// spreadsheet.
package output

import (
	"fmt"
	"strings"

	"github.com/ichika06/ojt-tracker/timelog"
)

type Writer interface {
	Write(path string, entries []timelog.Entry) error
}

func WriterForFormat(format string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}

func entryHeaders() []string {
	return []string{"Date", "Hours", "NeededHours", "Overtime"}
}

func entryRow(entry timelog.Entry) []string {
	needed := ""
	if entry.HasRequirement() {
		needed = formatHours(entry.NeededHours)
	}
	return []string{
		entry.Date,
		formatHours(entry.Hours),
		needed,
		formatHours(entry.Overtime),
	}
}
