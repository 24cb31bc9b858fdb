// Package importer reads day records from CSV and Excel exports so an
// existing log kept in a spreadsheet can be brought into the tracker in one
// pass. Hours may be given directly or derived from time-in/time-out
// columns.
package importer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Row is one importable day: the canonical date key, the logged hours, and
// the optional per-day requirement.
type Row struct {
	Date        string
	Hours       float64
	NeededHours *float64
}

type Result struct {
	FilesProcessed int
	RowsRead       int
	RowsImported   int
	RowsSkipped    int
	Rows           []Row
}

// Run reads every given file and maps its records to importable rows. An
// empty format infers csv or excel from each file's extension. Blank records
// are skipped; malformed ones fail the run with their row number.
func Run(paths []string, format string) (*Result, error) {
	result := &Result{Rows: make([]Row, 0, 256)}
	for _, path := range paths {
		sourceFormat, err := inferFormat(path, format)
		if err != nil {
			return nil, err
		}
		reader, err := ReaderForFormat(sourceFormat)
		if err != nil {
			return nil, err
		}

		records, err := reader.Read(path)
		if err != nil {
			return nil, err
		}

		result.FilesProcessed++
		result.RowsRead += len(records)
		for _, record := range records {
			row, ok, mapErr := mapRecord(record)
			if mapErr != nil {
				return nil, fmt.Errorf("%s row %d: %w", path, record.RowNumber, mapErr)
			}
			if !ok {
				result.RowsSkipped++
				continue
			}
			result.RowsImported++
			result.Rows = append(result.Rows, row)
		}
	}

	return result, nil
}

// mapRecord turns one record into a Row. The second return value is false
// for blank records, which callers count as skipped rather than failed.
func mapRecord(record Record) (Row, bool, error) {
	rawDate := record.Get("date", "day", "log date")
	rawHours := record.Get("hours", "logged hours", "hrs")
	rawNeeded := record.Get("needed hours", "needed", "required hours")
	rawStart := record.Get("time in", "start", "from")
	rawEnd := record.Get("time out", "end", "to")

	if rawDate == "" && rawHours == "" && rawStart == "" && rawEnd == "" {
		return Row{}, false, nil
	}

	date, err := parseDateKey(rawDate)
	if err != nil {
		return Row{}, false, err
	}

	var hours float64
	switch {
	case rawHours != "":
		hours, err = parseHours(rawHours)
		if err != nil {
			return Row{}, false, err
		}
	case rawStart != "" || rawEnd != "":
		hours, err = hoursFromClockRange(rawStart, rawEnd)
		if err != nil {
			return Row{}, false, err
		}
	default:
		return Row{}, false, fmt.Errorf("no hours or time range")
	}
	if hours <= 0 {
		return Row{}, false, fmt.Errorf("hours must be greater than zero")
	}

	row := Row{Date: date, Hours: hours}
	if rawNeeded != "" {
		needed, err := parseHours(rawNeeded)
		if err != nil {
			return Row{}, false, err
		}
		if needed > 0 {
			row.NeededHours = &needed
		}
	}
	return row, true, nil
}

func inferFormat(path string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return format, nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm", "xls":
		return "excel", nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}
