package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ichika06/ojt-tracker/internal/timeutil"
	"github.com/ichika06/ojt-tracker/metrics"
)

// SummaryRows renders the statistics block as metric/value pairs, the shape
// both report formats share.
func SummaryRows(summary metrics.Summary) [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"Goal", metrics.FormatHours(summary.Goal)},
		{"Total Logged", metrics.FormatHours(summary.TotalLogged)},
		{"Remaining", metrics.FormatHours(summary.Remaining)},
		{"Progress", fmt.Sprintf("%.1f%%", summary.ProgressPercent)},
		{"Total Overtime", metrics.FormatHours(summary.TotalOvertime)},
		{"Overtime Days", strconv.Itoa(summary.OvertimeDays)},
		{"Working Days", strconv.Itoa(summary.WorkingDays)},
		{"Avg Overtime / Working Day", metrics.FormatHours(summary.AverageOvertime)},
	}
}

// WriteSummary exports the statistics block on its own, next to the entry
// export produced by a Writer.
func WriteSummary(path, format string, summary metrics.Summary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeSummaryCSV(path, summary)
	case "excel", "xlsx":
		return writeSummaryExcel(path, summary)
	default:
		return fmt.Errorf("unsupported output format for summary: %s", format)
	}
}

func writeSummaryCSV(path string, summary metrics.Summary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	for _, row := range SummaryRows(summary) {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush summary output: %w", err)
	}
	return nil
}

func writeSummaryExcel(path string, summary metrics.Summary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	for i, row := range SummaryRows(summary) {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set summary value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save summary output %s: %w", path, err)
	}
	return nil
}

func formatHours(value float64) string {
	return strconv.FormatFloat(timeutil.RoundHours(value), 'f', -1, 64)
}
