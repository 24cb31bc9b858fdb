package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ichika06/ojt-tracker/metrics"
	"github.com/ichika06/ojt-tracker/timelog"
)

func sampleEntries() []timelog.Entry {
	return []timelog.Entry{
		{Date: "2024-03-04", Hours: 8, NeededHours: 6, Overtime: 2},
		{Date: "2024-03-05", Hours: 7.5},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	writer, err := WriterForFormat("csv")
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, sampleEntries()); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Date" || rows[0][2] != "NeededHours" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "8" || rows[1][2] != "6" || rows[1][3] != "2" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	// No requirement leaves the needed column blank.
	if rows[2][1] != "7.5" || rows[2][2] != "" {
		t.Fatalf("unexpected second row: %v", rows[2])
	}
}

func TestExcelWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	writer, err := WriterForFormat("xlsx")
	if err != nil {
		t.Fatalf("writer for format: %v", err)
	}
	if err := writer.Write(path, sampleEntries()); err != nil {
		t.Fatalf("write: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 || rows[1][0] != "2024-03-04" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestWriterForFormat_Unsupported(t *testing.T) {
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")

	ledger := timelog.NewLedger()
	ledger.ReplaceAll(sampleEntries())
	summary := metrics.Summarize(ledger, 486)

	if err := WriteSummary(path, "csv", summary); err != nil {
		t.Fatalf("write summary: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open summary: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if rows[1][0] != "Goal" || rows[1][1] != "486h" {
		t.Fatalf("unexpected goal row: %v", rows[1])
	}
	if rows[2][0] != "Total Logged" || rows[2][1] != "15.5h" {
		t.Fatalf("unexpected total row: %v", rows[2])
	}
}
