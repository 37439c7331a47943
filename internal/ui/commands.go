// Package ui provides the terminal user interface for taskboard.
// This file contains tea.Cmd factories that wrap session operations. The
// session may save to disk after a mutation, so these run asynchronously to
// keep the Bubble Tea event loop responsive. Each command returns a
// corresponding message type defined in messages.go.
package ui

import (
	"context"

	"taskboard/internal/board"
	"taskboard/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Task Commands
// =============================================================================

// addTaskCmd returns a command that places t in its section next to anchorID.
func addTaskCmd(s *session.Session, t *board.Task, anchorID string, before bool) tea.Cmd {
	return func() tea.Msg {
		err := s.AddTask(context.Background(), t, t.SectionID, anchorID, before)
		return taskAddedMsg{task: *t, err: err}
	}
}

// editTaskCmd returns a command that applies changes to the task with id.
func editTaskCmd(s *session.Session, id string, changes board.Changes) tea.Cmd {
	return func() tea.Msg {
		t, err := s.EditTask(context.Background(), id, changes)
		return taskEditedMsg{task: t, err: err}
	}
}

// moveTaskCmd returns a command that repositions a task, possibly into
// another section.
func moveTaskCmd(s *session.Session, id, toSectionID, anchorID string, before bool) tea.Cmd {
	return func() tea.Msg {
		err := s.MoveTask(context.Background(), id, toSectionID, anchorID, before)
		return taskMovedMsg{id: id, err: err}
	}
}

// duplicateTaskCmd returns a command that copies a task right below itself.
func duplicateTaskCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		t, err := s.DuplicateTask(context.Background(), id)
		return taskDuplicatedMsg{task: t, err: err}
	}
}

// deleteTaskCmd returns a command that removes a task. name is only used for
// the status line.
func deleteTaskCmd(s *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), id)
		return taskDeletedMsg{name: name, err: err}
	}
}

// completeTaskCmd returns a command that moves a task to today's history.
func completeTaskCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		t, err := s.CompleteTask(context.Background(), id)
		return taskCompletedMsg{task: t, err: err}
	}
}

// =============================================================================
// Section Commands
// =============================================================================

// addSectionCmd returns a command that inserts sec after the section with afterID.
func addSectionCmd(s *session.Session, sec *board.Section, afterID string) tea.Cmd {
	return func() tea.Msg {
		err := s.AddSection(context.Background(), sec, afterID)
		return sectionAddedMsg{id: sec.ID, name: sec.Name, err: err}
	}
}

func renameSectionCmd(s *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.RenameSection(context.Background(), id, name)
		return sectionRenamedMsg{id: id, name: name, err: err}
	}
}

func duplicateSectionCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		copyID, err := s.DuplicateSection(context.Background(), id)
		return sectionDuplicatedMsg{id: copyID, err: err}
	}
}

func deleteSectionCmd(s *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeleteSection(context.Background(), id)
		return sectionDeletedMsg{name: name, err: err}
	}
}

func clearSectionCmd(s *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.ClearSection(context.Background(), id)
		return sectionClearedMsg{name: name, err: err}
	}
}

// =============================================================================
// History Commands
// =============================================================================

// restoreItemCmd returns a command that puts a history item back on the board.
func restoreItemCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		t, err := s.RestoreItem(context.Background(), id)
		return itemRestoredMsg{task: t, err: err}
	}
}

// deleteItemCmd returns a command that erases a history item for good.
func deleteItemCmd(s *session.Session, id, name string) tea.Cmd {
	return func() tea.Msg {
		err := s.DeleteItem(context.Background(), id)
		return itemDeletedMsg{name: name, err: err}
	}
}

func toggleCheckedCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		checked, err := s.ToggleChecked(context.Background(), id)
		return itemToggledMsg{id: id, checked: checked, err: err}
	}
}

func restoreCheckedCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		n, err := s.RestoreChecked(context.Background())
		return checkedRestoredMsg{count: n, err: err}
	}
}

func deleteCheckedCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		n, err := s.DeleteChecked(context.Background())
		return checkedDeletedMsg{count: n, err: err}
	}
}

func uncheckAllCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		n, err := s.UncheckAll(context.Background())
		return uncheckedAllMsg{count: n, err: err}
	}
}
