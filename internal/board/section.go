package board

// Section is a named, ordered group of tasks. The default section has the
// reserved id and no name.
type Section struct {
	ID    string
	Name  string
	tasks []*Task
}

// NewSection creates an empty section with a fresh id.
func NewSection(name string) *Section {
	return &Section{ID: NewID(SectionIDPrefix), Name: name}
}

// NewDefaultSection creates the reserved default section holding tasks.
func NewDefaultSection(tasks ...*Task) *Section {
	s := &Section{ID: DefaultSectionID}
	for _, t := range tasks {
		s.InsertTask(t, "", false)
	}
	return s
}

// IsDefault reports whether s is the reserved default section.
func (s *Section) IsDefault() bool {
	return s.ID == DefaultSectionID
}

// Tasks returns the section's tasks in display order. The slice is a copy;
// the tasks are not.
func (s *Section) Tasks() []*Task {
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Count returns the number of tasks in the section.
func (s *Section) Count() int {
	return len(s.tasks)
}

// IndexOf returns the position of the task with id, or -1.
func (s *Section) IndexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// FindTask returns the task with id, or nil.
func (s *Section) FindTask(id string) *Task {
	if i := s.IndexOf(id); i >= 0 {
		return s.tasks[i]
	}
	return nil
}

// InsertTask places task relative to the task with anchorID: immediately
// before it when before is set, otherwise immediately after. An empty or
// unknown anchor appends at the end. The task is re-parented to s.
func (s *Section) InsertTask(task *Task, anchorID string, before bool) {
	task.SectionID = s.ID

	idx := len(s.tasks)
	if anchorID != "" {
		if a := s.IndexOf(anchorID); a >= 0 {
			idx = a + 1
			if before {
				idx = a
			}
		}
	}

	s.tasks = append(s.tasks, nil)
	copy(s.tasks[idx+1:], s.tasks[idx:])
	s.tasks[idx] = task
}

// RemoveTask removes and returns the task with id. It returns nil when the
// section has no such task.
func (s *Section) RemoveTask(id string) *Task {
	i := s.IndexOf(id)
	if i < 0 {
		return nil
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return t
}

// Clear drops every task in the section.
func (s *Section) Clear() {
	s.tasks = nil
}

// Duplicate deep-copies the section under a fresh id. Each task is copied
// under its own fresh id and re-parented to the copy, in the same order.
func (s *Section) Duplicate() *Section {
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t.Duplicate())
	}

	c := &Section{ID: NewID(SectionIDPrefix), Name: s.Name}
	for _, t := range tasks {
		c.InsertTask(t, "", false)
	}
	return c
}
