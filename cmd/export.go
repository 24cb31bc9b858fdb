package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ichika06/ojt-tracker/output"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged days or the statistics summary to CSV/Excel",
	Long: `Export the ledger for handing in.

Modes:
- entries: one row per logged day (date, hours, needed hours, overtime)
- summary: the statistics block (goal, totals, progress, overtime)

Output format can be selected explicitly via --format or inferred from the
--output extension.`,
	Example: `
  # Export logged days to CSV
  ojt export --output ./hours.csv

  # Export logged days to Excel
  ojt export --output ./hours.xlsx

  # Export the statistics summary
  ojt export --mode summary --output ./summary.csv

  # Force Excel format independent of extension
  ojt export --format excel --output ./hours.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectOutputFormat(exportOutput)
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

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "entries":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			entries := coord.Snapshot()
			if err := writer.Write(exportOutput, entries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: entries, Format: %s, File: %s\n", len(entries), format, exportOutput)
		case "summary":
			if err := output.WriteSummary(exportOutput, format, coord.Summary()); err != nil {
				return err
			}
			fmt.Printf("Export completed. Mode: summary, Format: %s, File: %s\n", format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: entries, summary)", exportMode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "entries", "Export mode: entries|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	_ = exportCmd.MarkFlagRequired("output")
}
