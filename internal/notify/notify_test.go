package notify

import (
	"errors"
	"os"
	"runtime"
	"testing"

	"taskboard/internal/board"
	"taskboard/internal/config"
)

type recordingNotifier struct {
	titles, messages []string
	sounds           []bool
	err              error
}

func (r *recordingNotifier) Notify(title, message string, sound bool) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	r.sounds = append(r.sounds, sound)
	return r.err
}

func (r *recordingNotifier) IsSupported() bool { return true }

func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" && n.IsSupported() {
		t.Errorf("IsSupported() should be false on %s", runtime.GOOS)
	}
}

func TestOverdueMessage(t *testing.T) {
	tests := []struct {
		names       []string
		wantTitle   string
		wantMessage string
	}{
		{[]string{"pay rent"}, "Task overdue", "pay rent"},
		{[]string{"a", "b"}, "2 tasks overdue", "a, b"},
		{[]string{"a", "b", "c", "d", "e"}, "5 tasks overdue", "a, b, c, and 2 more"},
	}
	for _, tt := range tests {
		var tasks []board.Task
		for _, n := range tt.names {
			tasks = append(tasks, board.Task{Name: n})
		}
		title, message := OverdueMessage(tasks)
		if title != tt.wantTitle || message != tt.wantMessage {
			t.Errorf("OverdueMessage(%v) = %q, %q", tt.names, title, message)
		}
	}
}

func TestOverdueHandler(t *testing.T) {
	tasks := []board.Task{{Name: "pay rent"}}

	t.Run("disabled", func(t *testing.T) {
		rec := &recordingNotifier{}
		OverdueHandler(rec, config.NotificationConfig{}, nil)(tasks)
		if len(rec.titles) != 0 {
			t.Error("notified while disabled")
		}
	})

	t.Run("enabled with sound", func(t *testing.T) {
		rec := &recordingNotifier{}
		OverdueHandler(rec, config.NotificationConfig{Enabled: true, Sound: true}, nil)(tasks)
		if len(rec.titles) != 1 || !rec.sounds[0] || rec.messages[0] != "pay rent" {
			t.Errorf("got titles=%v sounds=%v", rec.titles, rec.sounds)
		}
	})

	t.Run("errors are swallowed", func(t *testing.T) {
		rec := &recordingNotifier{err: errors.New("no daemon")}
		OverdueHandler(rec, config.NotificationConfig{Enabled: true}, nil)(tasks)
		if len(rec.titles) != 1 {
			t.Error("notifier not called")
		}
	})
}

func TestAppleScript(t *testing.T) {
	got := appleScript(`Say "hi"`, `back\slash`, true)
	want := `display notification "back\\slash" with title "Say \"hi\"" sound name "default"`
	if got != want {
		t.Errorf("appleScript() = %s, want %s", got, want)
	}
}

// TestNotify shows a real notification; run it by hand.
func TestNotify(t *testing.T) {
	if testing.Short() || os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("Skipping manual notification test (set RUN_NOTIFY_TESTS=1 to enable)")
	}
	n := New()
	if !n.IsSupported() {
		t.Skip("Notifications not supported on this platform")
	}
	if err := n.Notify("taskboard test", "This is a test notification", false); err != nil {
		t.Errorf("Notify() error: %v", err)
	}
}
