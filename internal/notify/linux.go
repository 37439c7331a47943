//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier uses notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return linuxNotifier{}
}

func (linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// Notify calls notify-send. Whether sound plays depends on the notification
// daemon; we can only raise the urgency.
func (linuxNotifier) Notify(title, message string, sound bool) error {
	args := []string{"--app-name=taskboard"}
	if sound {
		args = append(args, "--urgency=critical")
	}
	args = append(args, title, message)

	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
