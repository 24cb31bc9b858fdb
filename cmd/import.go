package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/importer"
	"github.com/ichika06/ojt-tracker/session"
)

var (
	importInputs []string
	importFormat string
	importDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import day records from CSV/Excel files",
	Long: `Import an existing spreadsheet of logged days. Each row needs a date and
either an hours column or time-in/time-out columns; a needed-hours column
is optional. Imported days overwrite existing entries for the same date.`,
	Example: `
  # Import an Excel log
  ojt import -i hours.xlsx

  # Import CSV files, forcing the format
  ojt import -i jan.csv -i feb.csv --format csv

  # Parse and report without writing anything
  ojt import -i hours.xlsx --dry-run
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := importer.Run(importInputs, importFormat)
		if err != nil {
			return err
		}

		fmt.Printf("Parsed %d files: %d rows read, %d importable, %d skipped.\n",
			result.FilesProcessed, result.RowsRead, result.RowsImported, result.RowsSkipped)
		if importDryRun || len(result.Rows) == 0 {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		coord, _, cleanup, err := startSession(cmd.Context(), cfg, newLogger())
		if err != nil {
			return err
		}
		defer cleanup()

		applied := 0
		offline := 0
		for _, row := range result.Rows {
			_, err := coord.LogHours(cmd.Context(), row.Date, row.Hours, row.NeededHours)
			if errors.Is(err, session.ErrRemoteWrite) {
				offline++
			} else if err != nil {
				return fmt.Errorf("apply %s: %w", row.Date, err)
			}
			applied++
		}

		fmt.Printf("Applied %d days.\n", applied)
		if offline > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Warning: %d days were saved locally only; the server was unreachable.\n", offline)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringSliceVarP(&importInputs, "input", "i", nil, "Input file (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (inferred from extension when omitted)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Parse and report without writing")
	_ = importCmd.MarkFlagRequired("input")
}
