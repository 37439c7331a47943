// Package notify shows desktop notifications when tasks go overdue.
// It shells out to osascript on macOS and notify-send on Linux.
package notify

import (
	"fmt"
	"strings"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/logging"
)

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows a notification, optionally with the platform's alert sound.
	Notify(title, message string, sound bool) error

	// IsSupported reports whether this platform can show notifications.
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, string, bool) error { return nil }
func (noopNotifier) IsSupported() bool                 { return false }

// New returns the platform notifier, or a no-op one when the platform has no
// way to show notifications.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// maxListed caps how many task names go into one notification body.
const maxListed = 3

// OverdueMessage renders the title and body announcing tasks.
func OverdueMessage(tasks []board.Task) (title, message string) {
	if len(tasks) == 1 {
		return "Task overdue", tasks[0].Name
	}
	title = fmt.Sprintf("%d tasks overdue", len(tasks))
	names := make([]string, 0, maxListed)
	for i, t := range tasks {
		if i == maxListed {
			names = append(names, fmt.Sprintf("and %d more", len(tasks)-maxListed))
			break
		}
		names = append(names, t.Name)
	}
	return title, strings.Join(names, ", ")
}

// OverdueHandler returns a callback for session.Options.OnExpired. It does
// nothing when notifications are disabled in cfg.
func OverdueHandler(n Notifier, cfg config.NotificationConfig, log *logging.Logger) func([]board.Task) {
	log = logging.OrNop(log).WithComponent("notify")
	return func(tasks []board.Task) {
		if !cfg.Enabled || len(tasks) == 0 {
			return
		}
		title, message := OverdueMessage(tasks)
		if err := n.Notify(title, message, cfg.Sound); err != nil {
			log.WithError(err).Warnw("notification failed", "tasks", len(tasks))
		}
	}
}
