package board

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a section or task id is unknown.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when an id is already in use on the board.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDefaultSection is returned when deleting the default section.
	ErrDefaultSection = errors.New("default section cannot be deleted")
)

// Board is the ordered list of sections that make up the live working set.
// It always contains exactly one default section.
type Board struct {
	sections []*Section
}

// New builds a board from sections in order. An empty default section is
// prepended when none is given; extra sections reusing the reserved id, and
// tasks whose id is already on the board, are dropped.
func New(sections ...*Section) *Board {
	b := &Board{}
	seenSections := make(map[string]bool, len(sections))
	seenTasks := make(map[string]bool)
	hasDefault := false

	for _, s := range sections {
		if s == nil || seenSections[s.ID] {
			continue
		}
		seenSections[s.ID] = true
		if s.IsDefault() {
			hasDefault = true
		}

		kept := s.tasks[:0]
		for _, t := range s.tasks {
			if seenTasks[t.ID] {
				continue
			}
			seenTasks[t.ID] = true
			t.SectionID = s.ID
			kept = append(kept, t)
		}
		s.tasks = kept
		b.sections = append(b.sections, s)
	}

	if !hasDefault {
		b.sections = append([]*Section{NewDefaultSection()}, b.sections...)
	}
	return b
}

// Sections returns the sections in display order.
func (b *Board) Sections() []*Section {
	out := make([]*Section, len(b.sections))
	copy(out, b.sections)
	return out
}

// Default returns the default section.
func (b *Board) Default() *Section {
	return b.FindSection(DefaultSectionID)
}

// AllTasks flattens every section's tasks. Sections are visited last to
// first; within a section the display order is kept.
func (b *Board) AllTasks() []*Task {
	var out []*Task
	for i := len(b.sections) - 1; i >= 0; i-- {
		out = append(out, b.sections[i].tasks...)
	}
	return out
}

// TaskCount returns the number of tasks across all sections.
func (b *Board) TaskCount() int {
	n := 0
	for _, s := range b.sections {
		n += s.Count()
	}
	return n
}

// IsEmpty reports whether the board holds only the default section and no tasks.
func (b *Board) IsEmpty() bool {
	return len(b.sections) == 1 && b.TaskCount() == 0
}

func (b *Board) sectionIndex(id string) int {
	for i, s := range b.sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// FindSection returns the section with id, or nil.
func (b *Board) FindSection(id string) *Section {
	if i := b.sectionIndex(id); i >= 0 {
		return b.sections[i]
	}
	return nil
}

// FindTask searches every section for the task with id.
func (b *Board) FindTask(id string) (*Task, *Section) {
	for _, s := range b.sections {
		if t := s.FindTask(id); t != nil {
			return t, s
		}
	}
	return nil, nil
}

// AddSection inserts section immediately after the section with afterID, or
// at the end when afterID is empty or unknown.
func (b *Board) AddSection(section *Section, afterID string) error {
	if b.sectionIndex(section.ID) >= 0 {
		return fmt.Errorf("add section %s: %w", section.ID, ErrDuplicateID)
	}
	for _, t := range section.tasks {
		if existing, _ := b.FindTask(t.ID); existing != nil {
			return fmt.Errorf("add section %s: task %s: %w", section.ID, t.ID, ErrDuplicateID)
		}
	}

	idx := len(b.sections)
	if afterID != "" {
		if i := b.sectionIndex(afterID); i >= 0 {
			idx = i + 1
		}
	}

	b.sections = append(b.sections, nil)
	copy(b.sections[idx+1:], b.sections[idx:])
	b.sections[idx] = section
	return nil
}

// DeleteSection removes the section with id. Its tasks are discarded, not
// archived.
func (b *Board) DeleteSection(id string) (*Section, error) {
	if id == DefaultSectionID {
		return nil, ErrDefaultSection
	}
	i := b.sectionIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("delete section %s: %w", id, ErrNotFound)
	}
	s := b.sections[i]
	b.sections = append(b.sections[:i], b.sections[i+1:]...)
	return s, nil
}

// ClearSection drops every task in the section with id.
func (b *Board) ClearSection(id string) error {
	s := b.FindSection(id)
	if s == nil {
		return fmt.Errorf("clear section %s: %w", id, ErrNotFound)
	}
	s.Clear()
	return nil
}

// RenameSection changes the name of the section with id.
func (b *Board) RenameSection(id, name string) error {
	s := b.FindSection(id)
	if s == nil {
		return fmt.Errorf("rename section %s: %w", id, ErrNotFound)
	}
	s.Name = name
	return nil
}

// DuplicateSection copies the section with id and inserts the copy right
// after it.
func (b *Board) DuplicateSection(id string) (*Section, error) {
	s := b.FindSection(id)
	if s == nil {
		return nil, fmt.Errorf("duplicate section %s: %w", id, ErrNotFound)
	}
	c := s.Duplicate()
	if err := b.AddSection(c, s.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// AddTask inserts task into the section with sectionID, positioned by
// anchorID and before as in Section.InsertTask.
func (b *Board) AddTask(task *Task, sectionID, anchorID string, before bool) error {
	s := b.FindSection(sectionID)
	if s == nil {
		return fmt.Errorf("add task to section %s: %w", sectionID, ErrNotFound)
	}
	if existing, _ := b.FindTask(task.ID); existing != nil {
		return fmt.Errorf("add task %s: %w", task.ID, ErrDuplicateID)
	}
	s.InsertTask(task, anchorID, before)
	return nil
}

// DeleteTask removes the task with id from whichever section holds it.
func (b *Board) DeleteTask(id string) (*Task, error) {
	_, s := b.FindTask(id)
	if s == nil {
		return nil, fmt.Errorf("delete task %s: %w", id, ErrNotFound)
	}
	return s.RemoveTask(id), nil
}

// MoveTask moves the task with id into the section with toSectionID,
// positioned by anchorID and before. The task keeps its id.
func (b *Board) MoveTask(id, toSectionID, anchorID string, before bool) error {
	to := b.FindSection(toSectionID)
	if to == nil {
		return fmt.Errorf("move task %s to section %s: %w", id, toSectionID, ErrNotFound)
	}
	_, from := b.FindTask(id)
	if from == nil {
		return fmt.Errorf("move task %s: %w", id, ErrNotFound)
	}
	if anchorID == id {
		return nil
	}
	t := from.RemoveTask(id)
	to.InsertTask(t, anchorID, before)
	return nil
}

// DuplicateTask copies the task with id under a fresh id and inserts the
// copy right after the original.
func (b *Board) DuplicateTask(id string) (*Task, error) {
	t, s := b.FindTask(id)
	if t == nil {
		return nil, fmt.Errorf("duplicate task %s: %w", id, ErrNotFound)
	}
	c := t.Duplicate()
	s.InsertTask(c, t.ID, false)
	return c, nil
}

// ApplyFieldChange edits the task with id and re-derives its Expired flag
// against now in the same step.
func (b *Board) ApplyFieldChange(id string, c Changes, now time.Time) (*Task, error) {
	t, _ := b.FindTask(id)
	if t == nil {
		return nil, fmt.Errorf("edit task %s: %w", id, ErrNotFound)
	}
	t.ApplyEdit(c)
	t.Expired = t.IsExpired(now)
	return t, nil
}

// SweepExpired flags every task whose deadline passed since the last sweep
// and returns the tasks it flagged.
func (b *Board) SweepExpired(now time.Time) []*Task {
	var flipped []*Task
	for _, t := range b.AllTasks() {
		if !t.HasDeadline() || t.Expired {
			continue
		}
		if t.IsExpired(now) {
			t.Expired = true
			flipped = append(flipped, t)
		}
	}
	return flipped
}
