// Package board holds the live working set of the app: tasks, the sections
// that own them, and the board that orders the sections.
package board

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority ranks a task. Lower numbers are more urgent.
type Priority int

const (
	PriorityUrgent Priority = 1
	PriorityHigh   Priority = 2
	PriorityMedium Priority = 3
	PriorityLow    Priority = 4 // Default for new tasks
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	return p >= PriorityUrgent && p <= PriorityLow
}

// OrDefault returns p, or PriorityLow when p is not a known level.
func (p Priority) OrDefault() Priority {
	if !p.Valid() {
		return PriorityLow
	}
	return p
}

func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "urgent"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "p" + strconv.Itoa(int(p))
	}
}

// UnmarshalJSON accepts both numbers and numeric strings. Older snapshots
// stored whatever the priority picker emitted, which was sometimes "4".
func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = Priority(n).OrDefault()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*p = PriorityLow
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("priority %q: %w", s, err)
	}
	*p = Priority(n).OrDefault()
	return nil
}

// MaxDifficulty is the highest difficulty rating. Zero means unset.
const MaxDifficulty = 3

// Date and time layouts used by task deadlines.
const (
	DateLayout    = "Mon, 02 Jan, 2006"
	ISODateLayout = "2006-01-02"
	ClockLayout   = "15:04"
)

// Task is a single to-do item.
type Task struct {
	ID             string
	SectionID      string
	Name           string
	Description    string
	EndDate        string // empty means no deadline
	EndTime        string // empty means "by end of day"
	Priority       Priority
	Difficulty     int
	Expired        bool // cached; see Board.ApplyFieldChange and Board.SweepExpired
	CompletionTime string
}

// Changes is a partial field set. Nil fields are left untouched.
type Changes struct {
	Name        *string
	Description *string
	EndDate     *string
	EndTime     *string
	Priority    *Priority
	Difficulty  *int
}

// IsZero reports whether c carries no field at all.
func (c Changes) IsZero() bool {
	return c.Name == nil && c.Description == nil && c.EndDate == nil &&
		c.EndTime == nil && c.Priority == nil && c.Difficulty == nil
}

// TouchesDeadline reports whether c changes a field the expire instant depends on.
func (c Changes) TouchesDeadline() bool {
	return c.EndDate != nil || c.EndTime != nil
}

// NewTask creates a task with a fresh id and the default priority.
func NewTask(name string) *Task {
	return &Task{
		ID:       NewID(TaskIDPrefix),
		Name:     name,
		Priority: PriorityLow,
	}
}

// HasDeadline reports whether the task has an end date.
func (t *Task) HasDeadline() bool {
	return strings.TrimSpace(t.EndDate) != ""
}

// ExpireInstant returns the moment after which the task is overdue, with the
// date and time interpreted in loc. Without an end time the task is due by
// the end of its end date. ok is false when there is no usable deadline.
func (t *Task) ExpireInstant(loc *time.Location) (instant time.Time, ok bool) {
	if !t.HasDeadline() {
		return time.Time{}, false
	}
	day, ok := ParseDate(t.EndDate, loc)
	if !ok {
		return time.Time{}, false
	}

	if strings.TrimSpace(t.EndTime) == "" {
		return day.AddDate(0, 0, 1), true
	}

	hour, minute, ok := ParseClock(t.EndTime)
	if !ok {
		return day.AddDate(0, 0, 1), true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), true
}

// IsExpired reports whether now is past the task's expire instant.
func (t *Task) IsExpired(now time.Time) bool {
	instant, ok := t.ExpireInstant(now.Location())
	if !ok {
		return false
	}
	return now.After(instant)
}

// ApplyEdit overwrites the fields present in c. It does not touch Expired.
func (t *Task) ApplyEdit(c Changes) {
	if c.Name != nil {
		t.Name = *c.Name
	}
	if c.Description != nil {
		t.Description = *c.Description
	}
	if c.EndDate != nil {
		t.EndDate = *c.EndDate
	}
	if c.EndTime != nil {
		t.EndTime = *c.EndTime
	}
	if c.Priority != nil {
		t.Priority = *c.Priority
	}
	if c.Difficulty != nil {
		t.Difficulty = *c.Difficulty
	}
}

// Clone returns an exact copy, id included.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

// Duplicate returns a copy of the task under a fresh id.
func (t *Task) Duplicate() *Task {
	c := t.Clone()
	c.ID = NewID(TaskIDPrefix)
	return c
}

// ParseDate parses an end date in any of the accepted layouts and returns
// local midnight of that day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{DateLayout, ISODateLayout, "Mon, 2 Jan, 2006", "02 Jan 2006"} {
		if d, err := time.ParseInLocation(layout, s, loc); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}

// ParseClock parses an "HH:MM" time of day.
func ParseClock(s string) (hour, minute int, ok bool) {
	c, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, false
	}
	return c.Hour(), c.Minute(), true
}

// FormatDate renders d in the canonical end date layout.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}
