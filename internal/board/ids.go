package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Id prefixes, kept compatible with snapshots written by earlier versions.
const (
	TaskIDPrefix    = "todo"
	SectionIDPrefix = "section"
)

// DefaultSectionID is the reserved id of the always-present section.
const DefaultSectionID = "default-section"

// idClock is swapped in tests that need stable timestamps.
var idClock = time.Now

// NewID returns prefix + unix milliseconds + a random disambiguator, so two
// ids minted in the same millisecond never collide.
func NewID(prefix string) string {
	u := uuid.New()
	suffix := strings.ReplaceAll(u.String(), "-", "")[:8]
	return fmt.Sprintf("%s%d-%s", prefix, idClock().UnixMilli(), suffix)
}
