package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/board"
)

// TodoistImporter reads a Todoist project backup (CSV). Rows whose TYPE is
// not "task" (notes, section markers) are skipped.
type TodoistImporter struct{}

func (t *TodoistImporter) Name() string { return "todoist" }

// Import parses r and applies the result to dst.
func (t *TodoistImporter) Import(r io.Reader, dst Target) (*ImportResult, error) {
	tasks, err := t.Preview(r)
	if err != nil {
		return nil, err
	}
	return Apply(tasks, dst), nil
}

// csvRow looks up cells by upper-cased header name. Missing columns and
// short rows read as "".
type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// Preview parses r without touching any board.
func (t *TodoistImporter) Preview(r io.Reader) ([]PreviewTask, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("todoist: reading header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.ToUpper(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"TYPE", "CONTENT"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("todoist: missing required column %s", required)
		}
	}

	var tasks []PreviewTask
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("todoist: %w", err)
		}

		row := csvRow{cols: cols, record: record}
		if !strings.EqualFold(row.get("TYPE"), "task") || row.get("CONTENT") == "" {
			continue
		}

		pt := PreviewTask{
			Name:        row.get("CONTENT"),
			Description: row.get("DESCRIPTION"),
			Project:     row.get("PROJECT"),
			Priority:    mapTodoistPriority(row.get("PRIORITY")),
		}
		pt.DueDate, pt.DueHasTime = parseTodoistDate(row.get("DATE"))
		tasks = append(tasks, pt)
	}
	return tasks, nil
}

// mapTodoistPriority maps Todoist's 1 (urgent) to 4 (normal) scale, which
// lines up with the board's. Anything else is low.
func mapTodoistPriority(p string) board.Priority {
	switch strings.TrimSpace(p) {
	case "1":
		return board.PriorityUrgent
	case "2":
		return board.PriorityHigh
	case "3":
		return board.PriorityMedium
	default:
		return board.PriorityLow
	}
}

var (
	todoistDateTimeLayouts = []string{"2006-01-02 15:04", "2006-01-02T15:04:05", "Jan 2 2006 15:04"}
	todoistDateLayouts     = []string{
		"2006-01-02",
		"Jan 2 2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"January 2, 2006",
		"01/02/2006",
		"02/01/2006",
	}
)

// parseTodoistDate reads a due date in local time. hasTime reports whether
// the value carried a time of day.
func parseTodoistDate(s string) (due *time.Time, hasTime bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	for _, layout := range todoistDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, true
		}
	}
	for _, layout := range todoistDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, false
		}
	}
	return nil, false
}
