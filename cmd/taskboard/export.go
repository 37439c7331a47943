package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/fsutil"
	"taskboard/internal/history"
	"taskboard/internal/reports"
)

func newExportCmd() *cobra.Command {
	var (
		weekly bool
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [DATE]",
		Short: "Generate productivity reports",
		Long: `Generates a report of the work completed on a day, or in the week
containing it. DATE is YYYY-MM-DD and defaults to today.

Reports can be Markdown (human-readable), JSON (machine-readable) or PDF.
PDF output needs --output.`,
		Example: `  # Today's report in Markdown
  taskboard export

  # Specific date
  taskboard export 2026-10-14

  # Weekly report as JSON
  taskboard export --weekly --format json

  # Weekly PDF to file
  taskboard export --weekly --format pdf --output weekly.pdf`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			switch format {
			case "md":
				format = "markdown"
			case "markdown", "json":
			case "pdf":
				if output == "" {
					return fmt.Errorf("pdf reports need --output")
				}
			default:
				return fmt.Errorf("invalid format %q, use markdown, json or pdf", format)
			}

			date := time.Now()
			if len(args) > 0 {
				d, err := time.ParseInLocation(board.ISODateLayout, args[0], time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
				}
				date = d
			}

			e, err := openEnv()
			if err != nil {
				return err
			}
			defer e.Close()

			sess, err := e.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close(cmd.Context())

			var data []byte
			var formatErr error
			sess.View(func(b *board.Board, h *history.Log) {
				gen := reports.NewGenerator(b, h)
				gen.SetNowFunc(sess.Now)
				if weekly {
					data, formatErr = formatWeekly(gen.GenerateWeekly(date), format)
				} else {
					data, formatErr = formatDaily(gen.GenerateDaily(date), format)
				}
			})
			if formatErr != nil {
				return fmt.Errorf("formatting report: %w", formatErr)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if dir := filepath.Dir(output); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return fmt.Errorf("creating output directory: %w", err)
				}
			}
			if err := fsutil.WriteFileAtomic(output, data, 0o600); err != nil {
				return fmt.Errorf("writing to file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&weekly, "weekly", "w", false, "generate a weekly report")
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown, json or pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func formatDaily(r *reports.DailyReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return reports.FormatDailyJSON(r)
	case "pdf":
		return reports.FormatDailyPDF(r)
	default:
		return []byte(reports.FormatDailyMarkdown(r)), nil
	}
}

func formatWeekly(r *reports.WeeklyReport, format string) ([]byte, error) {
	switch format {
	case "json":
		return reports.FormatWeeklyJSON(r)
	case "pdf":
		return reports.FormatWeeklyPDF(r)
	default:
		return []byte(reports.FormatWeeklyMarkdown(r)), nil
	}
}
