package ui

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/form"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type editorKind int

const (
	editorAddTask editorKind = iota
	editorEditTask
	editorAddSection
	editorRenameSection
)

// Field indexes of the task editor.
const (
	fieldName = iota
	fieldDescription
	fieldDate
	fieldTime
	fieldPriority
	fieldDifficulty
)

type editorField struct {
	label string
	input textinput.Model
}

// editor is a small multi-field form shown inside the board pane. It only
// collects text; validation is done by package form on submit.
type editor struct {
	kind   editorKind
	title  string
	fields []editorField
	focus  int
	err    string

	// Context of the form: the section a new task goes to, the anchor it is
	// placed after, and the task or section being edited.
	sectionID string
	anchorID  string
	orig      board.Task

	keys InputKeyMap
}

func newField(label, placeholder, value string, limit int) editorField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.SetValue(value)
	return editorField{label: label, input: ti}
}

func taskFields(name, desc, date, clock string, priority, difficulty int) []editorField {
	diff := ""
	if difficulty > 0 {
		diff = strconv.Itoa(difficulty)
	}
	return []editorField{
		newField("Name", "What needs to be done?", name, 200),
		newField("Description", "optional", desc, 2000),
		newField("Date", "today, tomorrow, +3, 2026-10-20", date, 32),
		newField("Time", "HH:MM", clock, 5),
		newField("Priority", "1 urgent … 4 low", strconv.Itoa(priority), 1),
		newField("Difficulty", "0-3", diff, 1),
	}
}

// newAddTaskEditor opens an empty task form for sectionID. The task will be
// placed after anchorID, or at the end of the section when it is empty.
func newAddTaskEditor(keys InputKeyMap, sectionID, anchorID string) *editor {
	f := form.NewTaskForm(sectionID)
	e := &editor{
		kind:      editorAddTask,
		title:     "New task",
		fields:    taskFields("", "", "", "", f.Priority, f.Difficulty),
		sectionID: sectionID,
		anchorID:  anchorID,
		keys:      keys,
	}
	e.setFocus(fieldName)
	return e
}

// newEditTaskEditor opens a task form prefilled with t.
func newEditTaskEditor(keys InputKeyMap, t board.Task) *editor {
	f := form.EditFormFor(t)
	e := &editor{
		kind:   editorEditTask,
		title:  "Edit task",
		fields: taskFields(f.Name, f.Description, f.EndDate, f.EndTime, f.Priority, f.Difficulty),
		orig:   t,
		keys:   keys,
	}
	e.setFocus(fieldName)
	return e
}

// newSectionEditor opens a one-field form. For a rename, sectionID is the
// section being renamed; for an add, the new section goes after it.
func newSectionEditor(keys InputKeyMap, kind editorKind, sectionID, name string) *editor {
	title := "New section"
	if kind == editorRenameSection {
		title = "Rename section"
	}
	e := &editor{
		kind:      kind,
		title:     title,
		fields:    []editorField{newField("Name", "Section name", name, 60)},
		sectionID: sectionID,
		keys:      keys,
	}
	e.setFocus(0)
	return e
}

func (e *editor) setFocus(i int) {
	if i < 0 {
		i = len(e.fields) - 1
	}
	if i >= len(e.fields) {
		i = 0
	}
	for j := range e.fields {
		if j == i {
			e.fields[j].input.Focus()
		} else {
			e.fields[j].input.Blur()
		}
	}
	e.focus = i
}

func (e *editor) value(i int) string {
	if i >= len(e.fields) {
		return ""
	}
	return e.fields[i].input.Value()
}

// editorResult tells the pane what to do after a key went to the editor.
type editorResult int

const (
	editorContinue editorResult = iota
	editorSubmit
	editorCancel
)

// Update feeds a message to the focused field.
func (e *editor) Update(msg tea.Msg) (editorResult, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, e.keys.Cancel):
			return editorCancel, nil
		case key.Matches(km, e.keys.Confirm):
			return editorSubmit, nil
		case key.Matches(km, e.keys.NextField):
			e.setFocus(e.focus + 1)
			return editorContinue, nil
		case key.Matches(km, e.keys.PrevField):
			e.setFocus(e.focus - 1)
			return editorContinue, nil
		}
	}
	var cmd tea.Cmd
	e.fields[e.focus].input, cmd = e.fields[e.focus].input.Update(msg)
	return editorContinue, cmd
}

// number parses an integer field. Blank yields def; anything else that is
// not a number yields -1 so validation rejects it.
func number(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// taskForm builds a form.TaskForm from the fields.
func (e *editor) taskForm() form.TaskForm {
	f := form.NewTaskForm(e.sectionID)
	f.Name = e.value(fieldName)
	f.Description = e.value(fieldDescription)
	f.EndDate = e.value(fieldDate)
	f.EndTime = e.value(fieldTime)
	f.Priority = number(e.value(fieldPriority), int(board.PriorityLow))
	f.Difficulty = number(e.value(fieldDifficulty), 0)
	return f
}

func (e *editor) editForm() form.EditForm {
	return form.EditForm{
		Name:        e.value(fieldName),
		Description: e.value(fieldDescription),
		EndDate:     e.value(fieldDate),
		EndTime:     e.value(fieldTime),
		Priority:    number(e.value(fieldPriority), int(board.PriorityLow)),
		Difficulty:  number(e.value(fieldDifficulty), 0),
	}
}

func (e *editor) sectionForm() form.SectionForm {
	return form.SectionForm{Name: e.value(0)}
}

// fail records err for display and keeps the editor open.
func (e *editor) fail(err error) {
	var fe *form.Error
	if errors.As(err, &fe) {
		e.err = fe.First()
		return
	}
	e.err = err.Error()
}

// newTask validates the add form and returns the task it describes.
func (e *editor) newTask(now time.Time) (*board.Task, bool) {
	f := e.taskForm()
	t, err := f.NewTask(now)
	if err != nil {
		e.fail(err)
		return nil, false
	}
	return t, true
}

// changes validates the edit form against the original task.
func (e *editor) changes(now time.Time) (board.Changes, bool) {
	f := e.editForm()
	c, err := f.Changes(e.orig, now)
	if err != nil {
		e.fail(err)
		return board.Changes{}, false
	}
	return c, true
}

// View renders the fields, one per line, with the validation error below.
func (e *editor) View(s *Styles) string {
	var b strings.Builder
	b.WriteString(s.InputPromptStyle.Render(e.title))
	b.WriteString("\n")
	for i, f := range e.fields {
		label := f.label
		if i == e.focus {
			label = "› " + label
		} else {
			label = "  " + label
		}
		b.WriteString(s.InputLabelStyle.Render(label))
		b.WriteString(f.input.View())
		b.WriteString("\n")
	}
	if e.err != "" {
		b.WriteString(s.ErrorStyle.Render(e.err))
		b.WriteString("\n")
	}
	return b.String()
}
