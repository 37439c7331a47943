package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay renders a help screen from the active key bindings, so user
// remappings show up as configured.
type HelpOverlay struct {
	width   int
	height  int
	styles  *Styles
	global  GlobalKeyMap
	board   BoardKeyMap
	history HistoryKeyMap
	input   InputKeyMap
}

// NewHelpOverlay creates a new help overlay
func NewHelpOverlay(styles *Styles, global GlobalKeyMap, boardKeys BoardKeyMap, historyKeys HistoryKeyMap, input InputKeyMap) *HelpOverlay {
	return &HelpOverlay{
		styles:  styles,
		global:  global,
		board:   boardKeys,
		history: historyKeys,
		input:   input,
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 64
	if h.width > 0 {
		overlayWidth = min(64, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	writeGroup := func(name string, bindings ...key.Binding) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kb := range bindings {
			if !kb.Enabled() {
				continue
			}
			hlp := kb.Help()
			b.WriteString(keyStyle.Render(hlp.Key) + descStyle.Render(hlp.Desc) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("📖 taskboard - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	writeGroup("Global", h.global.NextPane, h.global.Pane1, h.global.Pane2, h.global.Help, h.global.Quit)
	writeGroup("Tasks", h.board.AddTask, h.board.EditTask, h.board.CompleteTask, h.board.DeleteTask,
		h.board.DuplicateTask, h.board.MoveUp, h.board.MoveDown)
	writeGroup("Sections", h.board.AddSection, h.board.RenameSection, h.board.DeleteSection,
		h.board.ClearSection, h.board.DuplicateSection)
	writeGroup("History", h.history.Toggle, h.history.Restore, h.history.Delete,
		h.history.RestoreChecked, h.history.DeleteChecked, h.history.UncheckAll)
	writeGroup("Navigation", h.board.Up, h.board.Down, h.board.Top, h.board.Bottom)
	writeGroup("Forms", h.input.Confirm, h.input.Cancel, h.input.NextField, h.input.PrevField)

	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())
	return RenderCentered(content, h.width, h.height)
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
