package notify

import (
	"fmt"
	"strings"
)

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// appleScript builds the display notification statement for osascript.
func appleScript(title, message string, sound bool) string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		appleScriptEscaper.Replace(message), appleScriptEscaper.Replace(title))
	if sound {
		script += ` sound name "default"`
	}
	return script
}
