package ui

import (
	"fmt"
	"strings"

	"taskboard/internal/config"
	"taskboard/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// itemRef locates an item within the snapshot's partitions.
type itemRef struct {
	partition int
	item      int
}

// HistoryPane lists completed tasks grouped by day, newest first.
type HistoryPane struct {
	session *session.Session
	styles  *Styles
	snap    snapshot
	items   []itemRef
	cursor  int
	focused bool
	width   int
	height  int
	confirm bool

	keys HistoryKeyMap
}

// NewHistoryPane creates a new history pane with custom key bindings.
func NewHistoryPane(sess *session.Session, styles *Styles, keyCfg *config.KeysConfig, confirm bool) *HistoryPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &HistoryPane{
		session: sess,
		styles:  styles,
		confirm: confirm,
		keys:    NewHistoryKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *HistoryPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *HistoryPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *HistoryPane) IsFocused() bool {
	return p.focused
}

// SetSnapshot replaces the rendered state, keeping the cursor on the same
// item when it is still there.
func (p *HistoryPane) SetSnapshot(snap snapshot) {
	keep := ""
	if it, ok := p.SelectedItem(); ok {
		keep = it.ID
	}
	p.snap = snap
	p.items = p.items[:0]
	for pi, part := range snap.partitions {
		for ii := range part.Items {
			p.items = append(p.items, itemRef{partition: pi, item: ii})
		}
	}
	for i, ref := range p.items {
		if p.itemAt(ref).ID == keep {
			p.cursor = i
			return
		}
	}
	if p.cursor >= len(p.items) {
		p.cursor = max(0, len(p.items)-1)
	}
}

func (p *HistoryPane) itemAt(ref itemRef) itemView {
	return p.snap.partitions[ref.partition].Items[ref.item]
}

// SelectedItem returns the item under the cursor.
func (p *HistoryPane) SelectedItem() (itemView, bool) {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return itemView{}, false
	}
	return p.itemAt(p.items[p.cursor]), true
}

// CheckedCount returns how many items are selected for a bulk action.
func (p *HistoryPane) CheckedCount() int {
	return p.snap.checked
}

func (p *HistoryPane) guard(title, body string, cmd tea.Cmd) tea.Cmd {
	if !p.confirm {
		return cmd
	}
	return func() tea.Msg {
		return confirmRequestMsg{title: title, body: truncateText(body, 60), cmd: cmd}
	}
}

// Update handles messages for the history pane.
func (p *HistoryPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			p.cursor = max(p.cursor-1, 0)
		case tea.MouseButtonWheelDown:
			if len(p.items) > 0 {
				p.cursor = min(p.cursor+1, len(p.items)-1)
			}
		}
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *HistoryPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Down):
		if len(p.items) > 0 {
			p.cursor = min(p.cursor+1, len(p.items)-1)
		}

	case key.Matches(msg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(msg, p.keys.Top):
		p.cursor = 0

	case key.Matches(msg, p.keys.Bottom):
		p.cursor = max(0, len(p.items)-1)

	case key.Matches(msg, p.keys.Toggle):
		if it, ok := p.SelectedItem(); ok {
			return toggleCheckedCmd(p.session, it.ID)
		}

	case key.Matches(msg, p.keys.Restore):
		if it, ok := p.SelectedItem(); ok {
			return restoreItemCmd(p.session, it.ID)
		}

	case key.Matches(msg, p.keys.Delete):
		it, ok := p.SelectedItem()
		if !ok {
			return statusCmd("No item selected", true)
		}
		return p.guard("Delete from history?", it.Name, deleteItemCmd(p.session, it.ID, it.Name))

	case key.Matches(msg, p.keys.RestoreChecked):
		if p.snap.checked == 0 {
			return statusCmd("Nothing checked", true)
		}
		return restoreCheckedCmd(p.session)

	case key.Matches(msg, p.keys.DeleteChecked):
		if p.snap.checked == 0 {
			return statusCmd("Nothing checked", true)
		}
		body := fmt.Sprintf("%d checked items", p.snap.checked)
		return p.guard("Delete from history?", body, deleteCheckedCmd(p.session))

	case key.Matches(msg, p.keys.UncheckAll):
		if p.snap.checked > 0 {
			return uncheckAllCmd(p.session)
		}
	}
	return nil
}

// View renders the history pane.
func (p *HistoryPane) View() string {
	var b strings.Builder

	title := "📜 HISTORY"
	if p.snap.checked > 0 {
		title += fmt.Sprintf(" · %d checked", p.snap.checked)
	}
	b.WriteString(p.styles.PaneTitleStyle.Render(title))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if len(p.items) == 0 {
		b.WriteString(p.styles.EmptyStyle.Render("  Completed tasks show up here."))
		b.WriteString("\n")
	} else {
		var lines []string
		cursorLine := 0
		n := 0
		for _, part := range p.snap.partitions {
			if len(part.Items) == 0 {
				continue
			}
			lines = append(lines, p.styles.HistoryHeadingStyle.Render(part.Heading))
			for _, it := range part.Items {
				if n == p.cursor {
					cursorLine = len(lines)
				}
				lines = append(lines, p.renderItem(it, n == p.cursor && p.focused))
				n++
			}
		}

		maxLines := p.height - 6
		if maxLines < 3 {
			maxLines = 5
		}
		start := 0
		if cursorLine >= maxLines {
			start = cursorLine - maxLines + 1
		}
		end := min(start+maxLines, len(lines))
		b.WriteString(strings.Join(lines[start:end], "\n"))
		b.WriteString("\n\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d done today", p.snap.doneToday)))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *HistoryPane) renderItem(it itemView, selected bool) string {
	box := p.styles.CheckboxUnchecked
	plainBox := "[ ]"
	if it.Checked {
		box = p.styles.CheckboxChecked
		plainBox = "[✓]"
	}

	// Layout: [2 indent][box][space][name][space][hh:mm]
	available := max(p.width-4-12, 5)
	name := runewidth.Truncate(it.Name, available, "..")
	at := ""
	if it.Completed != "" {
		at = " " + it.Completed
	}

	if selected {
		return p.styles.TaskSelectedStyle.Render("  " + plainBox + " " + name + at)
	}
	return "  " + box + " " + p.styles.HistoryItemStyle.Render(name) + p.styles.TaskMetaStyle.Render(at)
}
