// Package ui provides the terminal user interface for taskboard.
// This file defines result messages for session operations using the Bubble
// Tea command pattern. Every mutation runs as a command and reports back with
// one of these messages, keeping the event loop free of storage I/O.
package ui

import (
	"time"

	"taskboard/internal/board"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// confirmRequestMsg asks the app to confirm a destructive action before
// running cmd.
type confirmRequestMsg struct {
	title string
	body  string
	cmd   tea.Cmd
}

// =============================================================================
// Task Messages
// =============================================================================

// taskAddedMsg is sent when a new task is placed on the board.
type taskAddedMsg struct {
	task board.Task
	err  error
}

// taskEditedMsg is sent when a task's fields were changed.
type taskEditedMsg struct {
	task board.Task
	err  error
}

// taskMovedMsg is sent when a task was repositioned.
type taskMovedMsg struct {
	id  string
	err error
}

// taskDuplicatedMsg is sent when a task was copied.
type taskDuplicatedMsg struct {
	task board.Task
	err  error
}

// taskDeletedMsg is sent when a task was removed from the board.
type taskDeletedMsg struct {
	name string
	err  error
}

// taskCompletedMsg is sent when a task moved to today's history.
type taskCompletedMsg struct {
	task board.Task
	err  error
}

// =============================================================================
// Section Messages
// =============================================================================

// sectionAddedMsg is sent when a new section was inserted.
type sectionAddedMsg struct {
	id   string
	name string
	err  error
}

// sectionRenamedMsg is sent when a section got a new name.
type sectionRenamedMsg struct {
	id   string
	name string
	err  error
}

// sectionDuplicatedMsg is sent when a section and its tasks were copied.
type sectionDuplicatedMsg struct {
	id  string
	err error
}

// sectionDeletedMsg is sent when a section and its tasks were removed.
type sectionDeletedMsg struct {
	name string
	err  error
}

// sectionClearedMsg is sent when every task of a section was dropped.
type sectionClearedMsg struct {
	name string
	err  error
}

// =============================================================================
// History Messages
// =============================================================================

// itemRestoredMsg is sent when a history item went back to the board.
type itemRestoredMsg struct {
	task board.Task
	err  error
}

// itemDeletedMsg is sent when a history item was erased.
type itemDeletedMsg struct {
	name string
	err  error
}

// itemToggledMsg is sent when a history item's check mark flipped.
type itemToggledMsg struct {
	id      string
	checked bool
	err     error
}

// checkedRestoredMsg is sent when every checked item went back to the board.
type checkedRestoredMsg struct {
	count int
	err   error
}

// checkedDeletedMsg is sent when every checked item was erased.
type checkedDeletedMsg struct {
	count int
	err   error
}

// uncheckedAllMsg is sent when every check mark was cleared.
type uncheckedAllMsg struct {
	count int
	err   error
}

// statusMsg shows text in the help bar without touching the session.
type statusMsg struct {
	text string
	err  bool
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, err: isErr}
	}
}
