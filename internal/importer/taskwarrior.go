package importer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"taskboard/internal/board"
)

// TaskwarriorImporter reads the output of `task export`, either as one JSON
// array or as one object per line.
type TaskwarriorImporter struct{}

// twTask holds the fields of a Taskwarrior export record that map onto a
// board task. Everything else (uuid, urgency, tags, ...) is ignored.
type twTask struct {
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Project     string         `json:"project"`
	Priority    string         `json:"priority"`
	Due         string         `json:"due"`
	End         string         `json:"end"`
	Annotations []twAnnotation `json:"annotations"`
}

type twAnnotation struct {
	Description string `json:"description"`
}

func (t *TaskwarriorImporter) Name() string { return "taskwarrior" }

// Import parses r and applies the result to dst.
func (t *TaskwarriorImporter) Import(r io.Reader, dst Target) (*ImportResult, error) {
	tasks, err := t.Preview(r)
	if err != nil {
		return nil, err
	}
	return Apply(tasks, dst), nil
}

// Preview parses r without touching any board.
func (t *TaskwarriorImporter) Preview(r io.Reader) ([]PreviewTask, error) {
	br := bufio.NewReader(r)
	array, err := startsWithArray(br)
	if err != nil {
		return nil, err
	}

	// A json.Decoder reads a stream of whitespace separated values, which is
	// exactly the one-object-per-line form.
	dec := json.NewDecoder(br)
	if array {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("taskwarrior: %w", err)
		}
	}

	var tasks []PreviewTask
	for n := 1; ; n++ {
		if array && !dec.More() {
			break
		}
		var rec twTask
		err := dec.Decode(&rec)
		if !array && errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("taskwarrior: record %d: %w", n, err)
		}
		if pt, ok := rec.preview(); ok {
			tasks = append(tasks, pt)
		}
	}
	return tasks, nil
}

// startsWithArray skips leading whitespace and reports whether the input is a
// JSON array. Empty input is an error.
func startsWithArray(br *bufio.Reader) (bool, error) {
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return false, errors.New("taskwarrior: empty input")
		}
		if err != nil {
			return false, fmt.Errorf("taskwarrior: %w", err)
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return false, err
		}
		return b == '[', nil
	}
}

// preview converts a record. Deleted tasks and recurrence templates are
// dropped; the pending instances of a recurring task are exported on their own.
func (rec twTask) preview() (PreviewTask, bool) {
	name := strings.TrimSpace(rec.Description)
	if name == "" || rec.Status == "deleted" || rec.Status == "recurring" {
		return PreviewTask{}, false
	}

	pt := PreviewTask{
		Name:     name,
		Project:  strings.TrimSpace(rec.Project),
		Priority: mapTaskwarriorPriority(rec.Priority),
		Done:     rec.Status == "completed",
	}

	var notes []string
	for _, a := range rec.Annotations {
		if s := strings.TrimSpace(a.Description); s != "" {
			notes = append(notes, s)
		}
	}
	pt.Description = strings.Join(notes, "\n")

	if due := parseTaskwarriorDate(rec.Due); due != nil {
		pt.DueDate = due
		pt.DueHasTime = due.Hour() != 0 || due.Minute() != 0
	}
	if pt.Done {
		pt.CompletedAt = parseTaskwarriorDate(rec.End)
	}
	return pt, true
}

// mapTaskwarriorPriority maps H/M/L. Taskwarrior has no urgent level.
func mapTaskwarriorPriority(p string) board.Priority {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "H":
		return board.PriorityHigh
	case "M":
		return board.PriorityMedium
	default:
		return board.PriorityLow
	}
}

// UTC layouts Taskwarrior has used for dates; the first is the current one.
var twUTCLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// parseTaskwarriorDate returns the instant in local time. A bare date is
// taken as local midnight.
func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range twUTCLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			local := t.Local()
			return &local
		}
	}
	if t, err := time.ParseInLocation(board.ISODateLayout, s, time.Local); err == nil {
		return &t
	}
	return nil
}
