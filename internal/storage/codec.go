package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
)

// PartitionDateLayout is how history partition dates are written.
const PartitionDateLayout = "2006-01-02"

// ErrMalformed is returned when a snapshot parses but does not describe a
// valid board or history.
var ErrMalformed = errors.New("malformed snapshot")

// TaskRecord is the flat, serialized form of a task. The field names match
// snapshots written by earlier versions of the app.
type TaskRecord struct {
	ID             string         `json:"id"`
	SectionID      string         `json:"sectionId"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	EndDate        string         `json:"endDate"`
	EndTime        string         `json:"endTime"`
	Priority       board.Priority `json:"priority"`
	Difficulty     int            `json:"difficulty"`
	Expired        bool           `json:"expired"`
	CompletionTime string         `json:"completionTime"`
}

// SectionRecord is one entry of the board snapshot.
type SectionRecord struct {
	ID    string        `json:"id"`
	Name  string        `json:"name"`
	Todos []*TaskRecord `json:"todos"`
}

// PartitionRecord is one entry of the history snapshot.
type PartitionRecord struct {
	Date  string        `json:"date"`
	Todos []*TaskRecord `json:"todos"`
}

// EncodeTask flattens t.
func EncodeTask(t *board.Task) *TaskRecord {
	return &TaskRecord{
		ID:             t.ID,
		SectionID:      t.SectionID,
		Name:           t.Name,
		Description:    t.Description,
		EndDate:        t.EndDate,
		EndTime:        t.EndTime,
		Priority:       t.Priority,
		Difficulty:     t.Difficulty,
		Expired:        t.Expired,
		CompletionTime: t.CompletionTime,
	}
}

// DecodeTask rebuilds a task. A record without an id is rejected; an out of
// range priority or difficulty falls back to its default.
func DecodeTask(r *TaskRecord) (*board.Task, error) {
	if r == nil {
		return nil, fmt.Errorf("null task: %w", ErrMalformed)
	}
	if strings.TrimSpace(r.ID) == "" {
		return nil, fmt.Errorf("task without id: %w", ErrMalformed)
	}
	difficulty := r.Difficulty
	if difficulty < 0 || difficulty > board.MaxDifficulty {
		difficulty = 0
	}
	return &board.Task{
		ID:             r.ID,
		SectionID:      r.SectionID,
		Name:           r.Name,
		Description:    r.Description,
		EndDate:        r.EndDate,
		EndTime:        r.EndTime,
		Priority:       r.Priority.OrDefault(),
		Difficulty:     difficulty,
		Expired:        r.Expired,
		CompletionTime: r.CompletionTime,
	}, nil
}

// EncodeBoard flattens b in section order.
func EncodeBoard(b *board.Board) []SectionRecord {
	sections := b.Sections()
	out := make([]SectionRecord, 0, len(sections))
	for _, s := range sections {
		rec := SectionRecord{ID: s.ID, Name: s.Name, Todos: []*TaskRecord{}}
		for _, t := range s.Tasks() {
			rec.Todos = append(rec.Todos, EncodeTask(t))
		}
		out = append(out, rec)
	}
	return out
}

// DecodeBoard rebuilds a board from its snapshot. Any broken record fails the
// whole snapshot.
func DecodeBoard(records []SectionRecord) (*board.Board, error) {
	sections := make([]*board.Section, 0, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			return nil, fmt.Errorf("section %d without id: %w", i, ErrMalformed)
		}
		s := &board.Section{ID: rec.ID, Name: rec.Name}
		if s.IsDefault() {
			s.Name = ""
		}
		for _, tr := range rec.Todos {
			t, err := DecodeTask(tr)
			if err != nil {
				return nil, fmt.Errorf("section %s: %w", rec.ID, err)
			}
			s.InsertTask(t, "", false)
		}
		sections = append(sections, s)
	}
	return board.New(sections...), nil
}

// EncodeHistory flattens l, skipping partitions without items.
func EncodeHistory(l *history.Log) []PartitionRecord {
	out := []PartitionRecord{}
	for _, p := range l.Partitions() {
		if p.Len() == 0 {
			continue
		}
		rec := PartitionRecord{Date: p.Date.Format(PartitionDateLayout)}
		for _, it := range p.Items() {
			rec.Todos = append(rec.Todos, EncodeTask(&it.Task))
		}
		out = append(out, rec)
	}
	return out
}

// DecodeHistory rebuilds a log. Dates are read as calendar days in loc;
// timestamps (RFC 3339) are converted to loc first.
func DecodeHistory(records []PartitionRecord, loc *time.Location) (*history.Log, error) {
	if loc == nil {
		loc = time.Local
	}
	l := history.New()
	for i, rec := range records {
		date, err := ParsePartitionDate(rec.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("partition %d: %w", i, err)
		}
		if len(rec.Todos) == 0 {
			continue
		}
		p := l.AddPartition(date)
		for _, tr := range rec.Todos {
			t, err := DecodeTask(tr)
			if err != nil {
				return nil, fmt.Errorf("partition %s: %w", rec.Date, err)
			}
			if l.FindItem(t.ID) != nil {
				continue
			}
			p.Append(*t)
		}
	}
	l.Prune()
	return l, nil
}

// ParsePartitionDate accepts a plain date or a full timestamp.
func ParsePartitionDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseInLocation(PartitionDateLayout, s, loc); err == nil {
		return d, nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return history.Day(ts.In(loc)), nil
	}
	return time.Time{}, fmt.Errorf("partition date %q: %w", s, ErrMalformed)
}

// MarshalBoard renders b as the JSON stored under KeyStructure.
func MarshalBoard(b *board.Board) ([]byte, error) {
	data, err := json.MarshalIndent(EncodeBoard(b), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize board: %w", err)
	}
	return data, nil
}

// UnmarshalBoard parses the JSON stored under KeyStructure.
func UnmarshalBoard(data []byte) (*board.Board, error) {
	var records []SectionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	return DecodeBoard(records)
}

// MarshalHistory renders l as the JSON stored under KeyHistory.
func MarshalHistory(l *history.Log) ([]byte, error) {
	data, err := json.MarshalIndent(EncodeHistory(l), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize history: %w", err)
	}
	return data, nil
}

// UnmarshalHistory parses the JSON stored under KeyHistory.
func UnmarshalHistory(data []byte, loc *time.Location) (*history.Log, error) {
	var records []PartitionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return DecodeHistory(records, loc)
}
