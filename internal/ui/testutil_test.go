package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/history"
	"taskboard/internal/session"
	"taskboard/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var testLoc = time.FixedZone("test", 2*3600)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors so assertions can match plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testClock is a settable session clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// createTestSession opens a session over an in-memory store with the clock
// at Fri 16 Oct 2026 14:05.
func createTestSession(t *testing.T) (*session.Session, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 10, 16, 14, 5, 0, 0, testLoc)}
	repo := storage.NewRepository(storage.NewMemoryStore(), nil)
	repo.SetLocation(testLoc)

	sess, err := session.Open(context.Background(), repo, session.Options{Now: clock.Now})
	if err != nil {
		t.Fatalf("session.Open() error = %v", err)
	}
	t.Cleanup(func() { sess.Close(context.Background()) })
	return sess, clock
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// createTestApp builds an app without onboarding or confirmations.
func createTestApp(t *testing.T, sess *session.Session) *App {
	t.Helper()
	app := NewApp(sess, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      false,
		ShowOnboarding:        false,
		NarrowLayoutThreshold: 80,
	})
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func addTask(t *testing.T, sess *session.Session, name, sectionID string) *board.Task {
	t.Helper()
	task := board.NewTask(name)
	if err := sess.AddTask(context.Background(), task, sectionID, "", false); err != nil {
		t.Fatalf("AddTask(%q) error = %v", name, err)
	}
	return task
}

func addSection(t *testing.T, sess *session.Session, name string) *board.Section {
	t.Helper()
	sec := board.NewSection(name)
	if err := sess.AddSection(context.Background(), sec, ""); err != nil {
		t.Fatalf("AddSection(%q) error = %v", name, err)
	}
	return sec
}

// keyMsg builds the key message for a binding name such as "a", "enter"
// or "shift+tab".
func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends one key and returns the command the app produced, without
// running it.
func press(app *App, k string) tea.Cmd {
	_, cmd := app.Update(keyMsg(k))
	return cmd
}

// typeText sends s one rune at a time. Commands are dropped: text inputs
// only answer with cursor blink timers.
func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// run executes cmd once and feeds its message back into the app. Commands
// returned by that second update are not run.
func run(t *testing.T, app *App, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	app.Update(cmd())
}

// boardNames lists task names per section id, in display order.
func boardNames(sess *session.Session) map[string][]string {
	out := make(map[string][]string)
	sess.View(func(b *board.Board, _ *history.Log) {
		for _, sec := range b.Sections() {
			names := []string{}
			for _, task := range sec.Tasks() {
				names = append(names, task.Name)
			}
			out[sec.ID] = names
		}
	})
	return out
}
