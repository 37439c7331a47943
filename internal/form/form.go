// Package form turns raw user input into validated task and section values.
// The board itself trusts whatever it is given; this is where text gets checked.
package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"taskboard/internal/board"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("taskdate", func(fl validator.FieldLevel) bool {
		_, ok := ResolveDate(fl.Field().String(), time.Now())
		return ok
	})
	_ = v.RegisterValidation("clocktime", func(fl validator.FieldLevel) bool {
		_, _, ok := board.ParseClock(fl.Field().String())
		return ok
	})
	return v
}

// FieldError describes one rejected field in terms a user can act on.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Error collects every rejected field of a form.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return strings.Join(parts, "; ")
}

// First returns the first problem, for single-line status bars.
func (e *Error) First() string {
	if len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Error()
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind().String() == "string" {
			return "is longer than " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "taskdate":
		return "is not a date (try 2026-10-16, today, tomorrow or +3)"
	case "clocktime":
		return "is not a time of day (HH:MM)"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// ResolveDate accepts the layouts board.ParseDate does plus "today",
// "tomorrow" and "+N" (days from now), and returns the date rendered in
// board.DateLayout.
func ResolveDate(raw string, now time.Time) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case s == "":
		return "", false
	case s == "today":
		return board.FormatDate(today), true
	case s == "tomorrow":
		return board.FormatDate(today.AddDate(0, 0, 1)), true
	case strings.HasPrefix(s, "+"):
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 0 {
			return "", false
		}
		return board.FormatDate(today.AddDate(0, 0, n)), true
	}
	d, ok := board.ParseDate(raw, now.Location())
	if !ok {
		return "", false
	}
	return board.FormatDate(d), true
}

// applyDeadlineRules normalizes a date/time pair: a time without a date is
// due today, and the time is dropped when the date is.
func applyDeadlineRules(date, clock string, now time.Time) (string, string, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock != "" && date == "" {
		return board.FormatDate(now), clock, nil
	}
	if date == "" {
		return "", "", nil
	}
	d, ok := ResolveDate(date, now)
	if !ok {
		return "", "", fmt.Errorf("end date %q is not a date", date)
	}
	return d, clock, nil
}

// TaskForm is the input of the "new task" form.
type TaskForm struct {
	SectionID   string `validate:"required"`
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	EndDate     string `validate:"omitempty,taskdate"`
	EndTime     string `validate:"omitempty,clocktime"`
	Priority    int    `validate:"min=1,max=4"`
	Difficulty  int    `validate:"min=0,max=3"`
}

// NewTaskForm returns a form preset to the default priority.
func NewTaskForm(sectionID string) TaskForm {
	return TaskForm{SectionID: sectionID, Priority: int(board.PriorityLow)}
}

// Validate trims the text fields and checks every field.
func (f *TaskForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.EndTime = strings.TrimSpace(f.EndTime)
	return check(f)
}

// NewTask validates the form and builds the task it describes, with a fresh
// id and its Expired flag derived from now.
func (f *TaskForm) NewTask(now time.Time) (*board.Task, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	date, clock, err := applyDeadlineRules(f.EndDate, f.EndTime, now)
	if err != nil {
		return nil, err
	}

	t := board.NewTask(f.Name)
	t.SectionID = f.SectionID
	t.Description = f.Description
	t.EndDate = date
	t.EndTime = clock
	t.Priority = board.Priority(f.Priority)
	t.Difficulty = f.Difficulty
	t.Expired = t.IsExpired(now)
	return t, nil
}

// EditForm is the input of the "edit task" form, prefilled from the task.
type EditForm struct {
	Name        string `validate:"required,max=200"`
	Description string `validate:"max=2000"`
	EndDate     string `validate:"omitempty,taskdate"`
	EndTime     string `validate:"omitempty,clocktime"`
	Priority    int    `validate:"min=1,max=4"`
	Difficulty  int    `validate:"min=0,max=3"`
}

// EditFormFor prefills an edit form with t's current values.
func EditFormFor(t board.Task) EditForm {
	return EditForm{
		Name:        t.Name,
		Description: t.Description,
		EndDate:     t.EndDate,
		EndTime:     t.EndTime,
		Priority:    int(t.Priority.OrDefault()),
		Difficulty:  t.Difficulty,
	}
}

// Validate trims the text fields and checks every field.
func (f *EditForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.EndTime = strings.TrimSpace(f.EndTime)
	return check(f)
}

// Changes validates the form and returns only the fields that differ from
// orig. Clearing the date of a task that had one clears the time too; a time
// set on a task without a date makes it due today.
func (f *EditForm) Changes(orig board.Task, now time.Time) (board.Changes, error) {
	if err := f.Validate(); err != nil {
		return board.Changes{}, err
	}
	// Removing the date removes the whole deadline, whatever the time field holds.
	dateRemoved := orig.HasDeadline() && f.EndDate == ""
	var date, clock string
	if !dateRemoved {
		var err error
		date, clock, err = applyDeadlineRules(f.EndDate, f.EndTime, now)
		if err != nil {
			return board.Changes{}, err
		}
	}

	var c board.Changes
	if f.Name != orig.Name {
		c.Name = &f.Name
	}
	if f.Description != orig.Description {
		c.Description = &f.Description
	}
	if date != orig.EndDate {
		c.EndDate = &date
	}
	if clock != orig.EndTime {
		c.EndTime = &clock
	}
	if p := board.Priority(f.Priority); p != orig.Priority {
		c.Priority = &p
	}
	if f.Difficulty != orig.Difficulty {
		d := f.Difficulty
		c.Difficulty = &d
	}
	return c, nil
}

// SectionForm is the input of the add and rename section forms.
type SectionForm struct {
	Name string `validate:"required,max=60"`
}

// Validate trims and checks the name.
func (f *SectionForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	return check(f)
}

// NewSection validates the form and builds a section with a fresh id.
func (f *SectionForm) NewSection() (*board.Section, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return board.NewSection(f.Name), nil
}
