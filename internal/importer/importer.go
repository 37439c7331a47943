// Package importer migrates tasks from other productivity tools like Todoist
// and Taskwarrior onto the board. Completed tasks go to the history log.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported        int      // Number of tasks put on the board
	Completed       int      // Number of tasks recorded in history
	SectionsCreated int      // Sections created for unknown projects
	Skipped         int      // Tasks already present on the board
	Errors          []string // Error messages for failed imports
}

// PreviewTask represents a task preview before import.
type PreviewTask struct {
	Name        string
	Description string
	Project     string // section name; empty means the default section
	Priority    board.Priority
	DueDate     *time.Time
	DueHasTime  bool
	Done        bool
	CompletedAt *time.Time
}

// Target is where imported tasks land. Callers hold whatever lock guards the
// board and the log.
type Target struct {
	Board   *board.Board
	History *history.Log
	Now     time.Time
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Import reads tasks from the reader and adds them to dst.
	Import(reader io.Reader, dst Target) (*ImportResult, error)

	// Preview reads tasks from the reader without importing.
	Preview(reader io.Reader) ([]PreviewTask, error)

	// Name returns the importer name (e.g., "todoist", "taskwarrior").
	Name() string
}

// GetImporter returns the appropriate importer for the given format.
func GetImporter(format string) Importer {
	switch format {
	case "todoist":
		return &TodoistImporter{}
	case "taskwarrior":
		return &TaskwarriorImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// Apply puts parsed tasks onto dst. Open tasks are appended to the section
// named after their project, creating it when needed; done tasks are
// recorded in history on the day they were completed. A task whose name is
// already present in its target section is skipped.
func Apply(tasks []PreviewTask, dst Target) *ImportResult {
	result := &ImportResult{}
	sections := make(map[string]*board.Section)
	for _, s := range dst.Board.Sections() {
		if !s.IsDefault() {
			sections[strings.ToLower(s.Name)] = s
		}
	}

	for _, pt := range tasks {
		task := pt.toTask()

		if pt.Done {
			at := dst.Now
			if pt.CompletedAt != nil {
				at = pt.CompletedAt.In(dst.Now.Location())
			}
			task.Expired = task.IsExpired(at)
			task.SectionID = board.DefaultSectionID
			if s := sections[strings.ToLower(pt.Project)]; s != nil {
				task.SectionID = s.ID
			}
			if _, err := dst.History.RecordAt(task, at); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pt.Name, err))
				continue
			}
			result.Completed++
			continue
		}

		section := dst.Board.Default()
		if pt.Project != "" {
			section = sections[strings.ToLower(pt.Project)]
			if section == nil {
				section = board.NewSection(pt.Project)
				if err := dst.Board.AddSection(section, ""); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pt.Project, err))
					continue
				}
				sections[strings.ToLower(pt.Project)] = section
				result.SectionsCreated++
			}
		}
		if hasTaskNamed(section, pt.Name) {
			result.Skipped++
			continue
		}

		task.Expired = task.IsExpired(dst.Now)
		if err := dst.Board.AddTask(task, section.ID, "", false); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", pt.Name, err))
			continue
		}
		result.Imported++
	}

	return result
}

func (pt PreviewTask) toTask() *board.Task {
	t := board.NewTask(pt.Name)
	t.Description = pt.Description
	t.Priority = pt.Priority.OrDefault()
	if pt.DueDate != nil {
		t.EndDate = board.FormatDate(*pt.DueDate)
		if pt.DueHasTime {
			t.EndTime = pt.DueDate.Format(board.ClockLayout)
		}
	}
	return t
}

func hasTaskNamed(s *board.Section, name string) bool {
	for _, t := range s.Tasks() {
		if strings.EqualFold(t.Name, name) {
			return true
		}
	}
	return false
}
