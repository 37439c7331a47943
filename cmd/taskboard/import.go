package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskboard/internal/board"
	"taskboard/internal/history"
	"taskboard/internal/importer"
)

// previewLimit caps how many tasks a dry run lists.
const previewLimit = 20

func newImportCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <format> <file>",
		Short: "Import tasks from other apps",
		Long: `Import tasks from other productivity tools.

FORMATS:
  todoist      Todoist CSV backup (Settings → Backups)
  taskwarrior  Taskwarrior export (task export > tasks.json); both a JSON
               array and newline-delimited JSON are accepted

Open tasks go to the section named after their project, which is created
when missing. Tasks without a project go to the General section. Completed
tasks are recorded in history on the day they were finished. A task whose
name is already in its section is skipped.`,
		Example: `  # Import from Todoist
  taskboard import todoist ~/Downloads/Todoist_backup.csv

  # Preview before importing
  taskboard import --dry-run taskwarrior tasks.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(args[0])
			imp := importer.GetImporter(format)
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					format, strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			tasks, err := imp.Preview(file)
			if err != nil {
				return fmt.Errorf("parsing %s file: %w", imp.Name(), err)
			}

			if dryRun {
				printPreview(cmd.OutOrStdout(), tasks)
				return nil
			}
			return runImport(cmd, imp.Name(), tasks)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview import without making changes")
	return cmd
}

func runImport(cmd *cobra.Command, name string, tasks []importer.PreviewTask) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	sess, err := e.openSession(cmd.Context())
	if err != nil {
		return err
	}

	var result *importer.ImportResult
	err = sess.Batch(cmd.Context(), "import "+name, func(b *board.Board, h *history.Log, now time.Time) error {
		result = importer.Apply(tasks, importer.Target{Board: b, History: h, Now: now})
		return nil
	})
	if err != nil {
		_ = sess.Close(cmd.Context())
		return fmt.Errorf("importing: %w", err)
	}
	if err := sess.Close(cmd.Context()); err != nil {
		return fmt.Errorf("saving imported tasks: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Import complete!")
	fmt.Fprintf(out, "  Imported:  %d tasks\n", result.Imported)
	if result.Completed > 0 {
		fmt.Fprintf(out, "  History:   %d completed tasks\n", result.Completed)
	}
	if result.SectionsCreated > 0 {
		fmt.Fprintf(out, "  Sections:  %d created\n", result.SectionsCreated)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped:   %d already on the board\n", result.Skipped)
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "  Errors:    %d\n", len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Fprintf(out, "    - %s\n", msg)
		}
	}
	return nil
}

func printPreview(out io.Writer, tasks []importer.PreviewTask) {
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found to import.")
		return
	}

	fmt.Fprintf(out, "Preview: %d tasks to import\n", len(tasks))
	fmt.Fprintln(out, "────────────────────────────")

	for i, task := range tasks {
		if i == previewLimit {
			fmt.Fprintf(out, "  ... and %d more\n", len(tasks)-previewLimit)
			break
		}
		fmt.Fprintf(out, "  %s", task.Name)

		var details []string
		if task.Project != "" {
			details = append(details, task.Project)
		}
		details = append(details, task.Priority.OrDefault().String())
		if task.DueDate != nil {
			details = append(details, task.DueDate.Format(board.ISODateLayout))
		}
		if task.Done {
			details = append(details, "done")
		}
		fmt.Fprintf(out, " (%s)\n", strings.Join(details, ", "))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run without --dry-run to import.")
}
