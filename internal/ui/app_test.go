// This file contains tests for the main App model, including layout behavior
// and the flows that go through the session.
package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"

	tea "github.com/charmbracelet/bubbletea"
)

// TestApp_LayoutModeTransitions verifies layout mode changes based on width.
func TestApp_LayoutModeTransitions(t *testing.T) {
	sess, _ := createTestSession(t)
	app := NewApp(sess, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
	})

	tests := []struct {
		name         string
		width        int
		expectedMode LayoutMode
	}{
		{"Very narrow (40)", 40, LayoutNarrow},
		{"Narrow (60)", 60, LayoutNarrow},
		{"At threshold (79)", 79, LayoutNarrow},
		{"At threshold (80)", 80, LayoutWide},
		{"Wide (100)", 100, LayoutWide},
		{"Very wide (200)", 200, LayoutWide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})

			if app.layoutMode != tc.expectedMode {
				t.Errorf("Width %d: expected layout mode %v, got %v",
					tc.width, tc.expectedMode, app.layoutMode)
			}
		})
	}
}

// TestApp_NarrowLayoutShowsOnlyActivePane verifies only the focused pane is shown in narrow mode.
func TestApp_NarrowLayoutShowsOnlyActivePane(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)
	app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})

	if app.activePane != PaneBoard {
		t.Errorf("Expected default active pane to be Board")
	}

	view := app.View()
	if !strings.Contains(view, "[Board]") {
		t.Error("Expected to see [Board] tab highlighted in narrow mode")
	}
	if !strings.Contains(view, "History") {
		t.Error("Expected to see History tab in narrow mode")
	}
	if strings.Contains(view, "HISTORY") {
		t.Error("History pane should not render while Board is active in narrow mode")
	}

	press(app, "2")
	view = app.View()
	if !strings.Contains(view, "[History]") {
		t.Error("Expected [History] tab highlighted after pressing 2")
	}
	if strings.Contains(view, "BOARD") {
		t.Error("Board pane should not render while History is active in narrow mode")
	}
}

func TestApp_WideLayoutShowsBothPanes(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	view := app.View()
	for _, want := range []string{"taskboard", "BOARD", "HISTORY", "Fri Oct 16 · 14:05"} {
		if !strings.Contains(view, want) {
			t.Errorf("wide view missing %q", want)
		}
	}
}

func TestApp_PaneSwitching(t *testing.T) {
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	press(app, "tab")
	if app.activePane != PaneHistory || !app.historyPane.IsFocused() || app.boardPane.IsFocused() {
		t.Fatalf("tab should focus history, got pane %v", app.activePane)
	}
	press(app, "tab")
	if app.activePane != PaneBoard {
		t.Fatalf("tab should cycle back to board, got pane %v", app.activePane)
	}
	press(app, "2")
	press(app, "1")
	if app.activePane != PaneBoard {
		t.Fatalf("1 should focus board, got pane %v", app.activePane)
	}
}

func TestApp_WelcomeOnFirstRun(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	app := NewApp(sess, createTestStyles(), nil)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if !app.showWelcome {
		t.Fatal("welcome should show when board and history are empty")
	}
	if !strings.Contains(app.View(), "Welcome to taskboard") {
		t.Error("welcome overlay not rendered")
	}

	press(app, "a")
	if app.showWelcome {
		t.Error("any key should dismiss the welcome screen")
	}
	if app.boardPane.IsEditing() {
		t.Error("the dismissing key should not reach the board")
	}
}

func TestApp_NoWelcomeWithData(t *testing.T) {
	sess, _ := createTestSession(t)
	addTask(t, sess, "existing", board.DefaultSectionID)

	app := NewApp(sess, createTestStyles(), nil)
	if app.showWelcome {
		t.Error("welcome should not show when there is data")
	}
}

func TestApp_AddTaskFlow(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	press(app, "a")
	if !app.boardPane.IsEditing() {
		t.Fatal("a should open the task form")
	}
	typeText(app, "Buy milk")
	cmd := press(app, "enter")
	if app.boardPane.IsEditing() {
		t.Fatal("a valid form should close on enter")
	}
	run(t, app, cmd)

	names := boardNames(sess)[board.DefaultSectionID]
	if len(names) != 1 || names[0] != "Buy milk" {
		t.Fatalf("default section = %v, want [Buy milk]", names)
	}
	if !strings.Contains(app.status, "Added: Buy milk") {
		t.Errorf("status = %q", app.status)
	}
	if task, ok := app.boardPane.SelectedTask(); !ok || task.Name != "Buy milk" {
		t.Errorf("cursor should land on the new task, got %+v", task)
	}
	if !strings.Contains(app.View(), "Buy milk") {
		t.Error("new task not rendered")
	}
}

func TestApp_FormKeepsGlobalKeys(t *testing.T) {
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	press(app, "a")
	typeText(app, "quit 2 ?")
	if app.quitting || app.activePane != PaneBoard || app.showHelp {
		t.Fatal("global keys must not fire while a form is open")
	}
	if got := app.boardPane.editor.value(fieldName); got != "quit 2 ?" {
		t.Errorf("name field = %q", got)
	}

	press(app, "esc")
	if app.boardPane.IsEditing() {
		t.Error("esc should close the form")
	}
	if n := len(boardNames(sess)[board.DefaultSectionID]); n != 0 {
		t.Errorf("cancelled form added %d tasks", n)
	}
}

func TestApp_CompleteTaskMovesToHistory(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	addTask(t, sess, "Write report", board.DefaultSectionID)
	app := createTestApp(t, sess)

	press(app, "j")
	run(t, app, press(app, "d"))

	if n := len(boardNames(sess)[board.DefaultSectionID]); n != 0 {
		t.Fatalf("board still holds %d tasks", n)
	}
	if app.snap.doneToday != 1 {
		t.Errorf("doneToday = %d, want 1", app.snap.doneToday)
	}
	view := app.View()
	if !strings.Contains(view, "Today, 16 Oct, 2026") {
		t.Error("history heading missing")
	}
	if !strings.Contains(view, "Write report 14:05") {
		t.Error("history item with completion time missing")
	}
}

func TestApp_ConfirmDelete(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	addTask(t, sess, "Throwaway", board.DefaultSectionID)
	app := NewApp(sess, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		NarrowLayoutThreshold: 80,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	press(app, "j")

	run(t, app, press(app, "x"))
	if app.confirmDel == nil {
		t.Fatal("x should ask for confirmation")
	}
	if !strings.Contains(app.View(), "Delete task?") {
		t.Error("confirmation overlay not rendered")
	}

	press(app, "n")
	if app.confirmDel != nil || app.status != "Canceled" {
		t.Fatalf("n should cancel, status %q", app.status)
	}
	if n := len(boardNames(sess)[board.DefaultSectionID]); n != 1 {
		t.Fatalf("cancelled delete removed the task")
	}

	run(t, app, press(app, "x"))
	run(t, app, press(app, "y"))
	if n := len(boardNames(sess)[board.DefaultSectionID]); n != 0 {
		t.Fatalf("confirmed delete left %d tasks", n)
	}
	if !strings.Contains(app.status, "Deleted: Throwaway") {
		t.Errorf("status = %q", app.status)
	}
}

func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	sess, _ := createTestSession(t)
	addTask(t, sess, "Gone", board.DefaultSectionID)
	app := createTestApp(t, sess)

	press(app, "j")
	run(t, app, press(app, "x"))
	if app.confirmDel != nil {
		t.Fatal("confirmation disabled but overlay shown")
	}
	if n := len(boardNames(sess)[board.DefaultSectionID]); n != 0 {
		t.Fatalf("delete left %d tasks", n)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	setupTest(t)
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	press(app, "?")
	if !app.showHelp {
		t.Fatal("? should open help")
	}
	if !strings.Contains(app.View(), "Keyboard Shortcuts") {
		t.Error("help overlay not rendered")
	}
	press(app, "esc")
	if app.showHelp {
		t.Error("esc should close help")
	}
}

func TestApp_QuitShowsGoodbye(t *testing.T) {
	sess, _ := createTestSession(t)
	addTask(t, sess, "pending", board.DefaultSectionID)
	app := createTestApp(t, sess)

	cmd := press(app, "q")
	if cmd == nil {
		t.Fatal("q should return tea.Quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the program")
	}
	view := app.View()
	if !strings.Contains(view, "See you later!") || !strings.Contains(view, "Pending: 1") {
		t.Errorf("goodbye view = %q", view)
	}
}

func TestApp_TickAnnouncesOverdueTasks(t *testing.T) {
	sess, clock := createTestSession(t)
	task := board.NewTask("Pay rent")
	task.EndDate = board.FormatDate(clock.Now())
	task.EndTime = "15:00"
	if err := sess.AddTask(context.Background(), task, board.DefaultSectionID, "", false); err != nil {
		t.Fatal(err)
	}
	app := createTestApp(t, sess)

	app.Update(tickMsg(time.Now()))
	if app.status != "" {
		t.Fatalf("nothing is overdue yet, status %q", app.status)
	}

	clock.Set(time.Date(2026, 10, 16, 15, 30, 0, 0, testLoc))
	app.Update(tickMsg(time.Now()))
	if app.status != "Task overdue: Pay rent" || !app.statusErr {
		t.Fatalf("status = %q", app.status)
	}
	if app.snap.overdue != 1 {
		t.Errorf("overdue = %d, want 1", app.snap.overdue)
	}

	app.status = ""
	app.Update(tickMsg(time.Now()))
	if app.status != "" {
		t.Errorf("an overdue task should be announced once, got %q", app.status)
	}
}

func TestApp_StatusExpires(t *testing.T) {
	sess, _ := createTestSession(t)
	app := createTestApp(t, sess)

	app.SetStatus("hello", false)
	app.statusUntil = time.Now().Add(-time.Second)
	app.Update(tickMsg(time.Now()))
	if app.status != "" {
		t.Errorf("expired status still shown: %q", app.status)
	}
}
