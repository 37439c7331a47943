//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
)

// darwinNotifier uses osascript.
type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return darwinNotifier{}
}

func (darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

func (darwinNotifier) Notify(title, message string, sound bool) error {
	script := appleScript(title, message, sound)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}
