package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/history"
	"taskboard/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// createHistoryApp completes the named tasks and focuses the history pane.
// The check toggle is remapped to "t" so tests do not depend on how the
// space bar is reported.
func createHistoryApp(t *testing.T, confirm bool, names ...string) (*App, *session.Session) {
	t.Helper()
	sess, _ := createTestSession(t)
	for _, name := range names {
		task := addTask(t, sess, name, board.DefaultSectionID)
		if _, err := sess.CompleteTask(context.Background(), task.ID); err != nil {
			t.Fatalf("CompleteTask(%q) error = %v", name, err)
		}
	}
	app := NewApp(sess, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{ToggleCheck: "t"},
		ConfirmDeletions:      confirm,
		NarrowLayoutThreshold: 80,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	press(app, "2")
	return app, sess
}

func historyNames(sess *session.Session) []string {
	var out []string
	sess.View(func(_ *board.Board, h *history.Log) {
		for _, it := range h.Items() {
			out = append(out, it.Task.Name)
		}
	})
	return out
}

func TestHistoryPane_Empty(t *testing.T) {
	setupTest(t)
	app, _ := createHistoryApp(t, false)

	if !strings.Contains(app.historyPane.View(), "Completed tasks show up here.") {
		t.Error("empty history message missing")
	}
}

func TestHistoryPane_GroupsByDay(t *testing.T) {
	setupTest(t)
	sess, clock := createTestSession(t)
	for _, day := range []int{14, 15, 16} {
		clock.Set(time.Date(2026, 10, day, 9, 0, 0, 0, testLoc))
		task := addTask(t, sess, "task"+time.Date(2026, 10, day, 0, 0, 0, 0, testLoc).Format("02"), board.DefaultSectionID)
		if _, err := sess.CompleteTask(context.Background(), task.ID); err != nil {
			t.Fatal(err)
		}
	}
	app := createTestApp(t, sess)

	view := app.historyPane.View()
	headings := []string{"Today, 16 Oct, 2026", "Yesterday, 15 Oct, 2026", "Wednesday, 14 Oct, 2026"}
	last := -1
	for _, h := range headings {
		i := strings.Index(view, h)
		if i < 0 {
			t.Fatalf("heading %q missing:\n%s", h, view)
		}
		if i < last {
			t.Errorf("heading %q out of order", h)
		}
		last = i
	}
	if !strings.Contains(view, "task16 09:00") {
		t.Error("item with completion time missing")
	}
	if !strings.Contains(view, "1 done today") {
		t.Error("done today counter missing")
	}
}

func TestHistoryPane_ToggleAndBulkRestore(t *testing.T) {
	setupTest(t)
	app, sess := createHistoryApp(t, false, "one", "two", "three")

	run(t, app, press(app, "t"))
	press(app, "j")
	press(app, "j")
	run(t, app, press(app, "t"))
	if got := app.historyPane.CheckedCount(); got != 2 {
		t.Fatalf("CheckedCount() = %d, want 2", got)
	}
	if !strings.Contains(app.historyPane.View(), "2 checked") {
		t.Error("checked counter missing from title")
	}
	if !strings.Contains(app.renderHelpBar(), "restore checked") {
		t.Error("help bar should offer bulk actions once items are checked")
	}

	run(t, app, press(app, "U"))
	if got := historyNames(sess); len(got) != 1 || got[0] != "two" {
		t.Fatalf("history after restore = %v, want [two]", got)
	}
	if got := boardNames(sess)[board.DefaultSectionID]; len(got) != 2 {
		t.Errorf("board after restore = %v", got)
	}
	if app.status != "Restored 2 tasks" {
		t.Errorf("status = %q", app.status)
	}
}

func TestHistoryPane_UncheckAll(t *testing.T) {
	app, _ := createHistoryApp(t, false, "one", "two")

	run(t, app, press(app, "t"))
	press(app, "j")
	run(t, app, press(app, "t"))
	run(t, app, press(app, "c"))
	if got := app.historyPane.CheckedCount(); got != 0 {
		t.Errorf("CheckedCount() = %d after uncheck all", got)
	}
}

func TestHistoryPane_DeleteCheckedAsksFirst(t *testing.T) {
	setupTest(t)
	app, sess := createHistoryApp(t, true, "one", "two")

	run(t, app, press(app, "t"))
	run(t, app, press(app, "X"))
	if app.confirmDel == nil || !strings.Contains(app.View(), "1 checked items") {
		t.Fatal("delete checked should ask for confirmation")
	}
	run(t, app, press(app, "y"))
	if got := historyNames(sess); len(got) != 1 {
		t.Errorf("history after delete = %v", got)
	}
	if app.status != "Deleted 1 items" {
		t.Errorf("status = %q", app.status)
	}
}

func TestHistoryPane_BulkActionsNeedChecks(t *testing.T) {
	app, _ := createHistoryApp(t, false, "one")

	for _, k := range []string{"U", "X"} {
		run(t, app, press(app, k))
		if app.status != "Nothing checked" {
			t.Errorf("%s: status = %q", k, app.status)
		}
	}
}

func TestHistoryPane_RestoreAndDeleteItem(t *testing.T) {
	app, sess := createHistoryApp(t, false, "keep", "drop")

	// Items of one day keep completion order, so "keep" comes first.
	run(t, app, press(app, "u"))
	if got := boardNames(sess)[board.DefaultSectionID]; len(got) != 1 || got[0] != "keep" {
		t.Fatalf("board after restore = %v", got)
	}
	if !strings.Contains(app.status, "Restored: keep") {
		t.Errorf("status = %q", app.status)
	}

	run(t, app, press(app, "x"))
	if got := historyNames(sess); len(got) != 0 {
		t.Errorf("history after delete = %v", got)
	}
}
