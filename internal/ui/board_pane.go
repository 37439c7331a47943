package ui

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// boardRow is one line of the board list: a section header when task is -1,
// otherwise a task of that section.
type boardRow struct {
	section int
	task    int
}

// BoardPane shows the sections and their tasks and drives every board
// operation.
type BoardPane struct {
	session *session.Session
	styles  *Styles
	snap    snapshot
	rows    []boardRow
	cursor  int
	focused bool
	width   int
	height  int
	editor  *editor

	// confirm routes destructive actions through the confirmation overlay
	confirm bool

	// Key bindings
	keys      BoardKeyMap
	inputKeys InputKeyMap
}

// NewBoardPane creates a new board pane with custom key bindings.
func NewBoardPane(sess *session.Session, styles *Styles, keyCfg *config.KeysConfig, confirm bool) *BoardPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	return &BoardPane{
		session:   sess,
		styles:    styles,
		focused:   true,
		confirm:   confirm,
		keys:      NewBoardKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the pane dimensions.
func (p *BoardPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *BoardPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *BoardPane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether a form is open.
func (p *BoardPane) IsEditing() bool {
	return p.editor != nil
}

// SetSnapshot replaces the rendered state and keeps the cursor on the same
// task or section when it still exists.
func (p *BoardPane) SetSnapshot(snap snapshot) {
	keep := p.selectedKey()
	p.snap = snap
	p.rows = p.rows[:0]
	for si, sec := range snap.sections {
		p.rows = append(p.rows, boardRow{section: si, task: -1})
		for ti := range sec.Tasks {
			p.rows = append(p.rows, boardRow{section: si, task: ti})
		}
	}
	if keep != "" && p.Focus(keep) {
		return
	}
	if p.cursor >= len(p.rows) {
		p.cursor = max(0, len(p.rows)-1)
	}
}

// Focus moves the cursor to the task or section with id.
func (p *BoardPane) Focus(id string) bool {
	for i, r := range p.rows {
		if p.rowKey(r) == id {
			p.cursor = i
			return true
		}
	}
	return false
}

func (p *BoardPane) rowKey(r boardRow) string {
	sec := p.snap.sections[r.section]
	if r.task < 0 {
		return sec.ID
	}
	return sec.Tasks[r.task].ID
}

func (p *BoardPane) selectedKey() string {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return ""
	}
	return p.rowKey(p.rows[p.cursor])
}

// selectedSection returns the section under the cursor, or the section of
// the task under the cursor.
func (p *BoardPane) selectedSection() (sectionView, int, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return sectionView{}, -1, false
	}
	si := p.rows[p.cursor].section
	return p.snap.sections[si], si, true
}

// SelectedTask returns the task under the cursor.
func (p *BoardPane) SelectedTask() (board.Task, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return board.Task{}, false
	}
	r := p.rows[p.cursor]
	if r.task < 0 {
		return board.Task{}, false
	}
	return p.snap.sections[r.section].Tasks[r.task], true
}

// guard wraps a destructive command in a confirmation request when enabled.
func (p *BoardPane) guard(title, body string, cmd tea.Cmd) tea.Cmd {
	if !p.confirm {
		return cmd
	}
	return func() tea.Msg {
		return confirmRequestMsg{title: title, body: truncateText(body, 60), cmd: cmd}
	}
}

// Update handles messages for the board pane.
func (p *BoardPane) Update(msg tea.Msg) tea.Cmd {
	if p.editor != nil {
		return p.updateEditor(msg)
	}
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)
	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *BoardPane) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keys.Down):
		if len(p.rows) > 0 {
			p.cursor = min(p.cursor+1, len(p.rows)-1)
		}

	case key.Matches(msg, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)

	case key.Matches(msg, p.keys.Top):
		p.cursor = 0

	case key.Matches(msg, p.keys.Bottom):
		p.cursor = max(0, len(p.rows)-1)

	case key.Matches(msg, p.keys.AddTask):
		sectionID := board.DefaultSectionID
		if sec, _, ok := p.selectedSection(); ok {
			sectionID = sec.ID
		}
		anchorID := ""
		if t, ok := p.SelectedTask(); ok {
			anchorID = t.ID
		}
		p.editor = newAddTaskEditor(p.inputKeys, sectionID, anchorID)
		return textinput.Blink

	case key.Matches(msg, p.keys.EditTask):
		t, ok := p.SelectedTask()
		if !ok {
			return statusCmd("No task selected", true)
		}
		p.editor = newEditTaskEditor(p.inputKeys, t)
		return textinput.Blink

	case key.Matches(msg, p.keys.CompleteTask):
		if t, ok := p.SelectedTask(); ok {
			return completeTaskCmd(p.session, t.ID)
		}

	case key.Matches(msg, p.keys.DeleteTask):
		t, ok := p.SelectedTask()
		if !ok {
			return statusCmd("No task selected", true)
		}
		return p.guard("Delete task?", t.Name, deleteTaskCmd(p.session, t.ID, t.Name))

	case key.Matches(msg, p.keys.DuplicateTask):
		if t, ok := p.SelectedTask(); ok {
			return duplicateTaskCmd(p.session, t.ID)
		}

	case key.Matches(msg, p.keys.MoveUp):
		return p.moveSelected(-1)

	case key.Matches(msg, p.keys.MoveDown):
		return p.moveSelected(1)

	case key.Matches(msg, p.keys.AddSection):
		afterID := ""
		if sec, _, ok := p.selectedSection(); ok {
			afterID = sec.ID
		}
		p.editor = newSectionEditor(p.inputKeys, editorAddSection, afterID, "")
		return textinput.Blink

	case key.Matches(msg, p.keys.RenameSection):
		sec, _, ok := p.selectedSection()
		if !ok {
			return nil
		}
		if sec.Default {
			return statusCmd("The General section cannot be renamed", true)
		}
		p.editor = newSectionEditor(p.inputKeys, editorRenameSection, sec.ID, sec.Name)
		return textinput.Blink

	case key.Matches(msg, p.keys.DeleteSection):
		sec, _, ok := p.selectedSection()
		if !ok {
			return nil
		}
		if sec.Default {
			return statusCmd("The General section cannot be deleted", true)
		}
		body := fmt.Sprintf("%s and its %d tasks", sec.label(), len(sec.Tasks))
		return p.guard("Delete section?", body, deleteSectionCmd(p.session, sec.ID, sec.label()))

	case key.Matches(msg, p.keys.ClearSection):
		sec, _, ok := p.selectedSection()
		if !ok {
			return nil
		}
		if len(sec.Tasks) == 0 {
			return statusCmd(sec.label()+" is already empty", false)
		}
		body := fmt.Sprintf("Drop all %d tasks of %s", len(sec.Tasks), sec.label())
		return p.guard("Clear section?", body, clearSectionCmd(p.session, sec.ID, sec.label()))

	case key.Matches(msg, p.keys.DuplicateSection):
		if sec, _, ok := p.selectedSection(); ok {
			return duplicateSectionCmd(p.session, sec.ID)
		}
	}
	return nil
}

// moveSelected shifts the selected task one slot up (dir -1) or down
// (dir 1). At the edge of a section it crosses into the neighbouring one.
func (p *BoardPane) moveSelected(dir int) tea.Cmd {
	t, ok := p.SelectedTask()
	if !ok {
		return nil
	}
	r := p.rows[p.cursor]
	sections := p.snap.sections
	tasks := sections[r.section].Tasks

	switch {
	case dir < 0 && r.task > 0:
		return moveTaskCmd(p.session, t.ID, t.SectionID, tasks[r.task-1].ID, true)
	case dir < 0 && r.section > 0:
		return moveTaskCmd(p.session, t.ID, sections[r.section-1].ID, "", false)
	case dir > 0 && r.task < len(tasks)-1:
		return moveTaskCmd(p.session, t.ID, t.SectionID, tasks[r.task+1].ID, false)
	case dir > 0 && r.section < len(sections)-1:
		next := sections[r.section+1]
		anchorID := ""
		if len(next.Tasks) > 0 {
			anchorID = next.Tasks[0].ID
		}
		return moveTaskCmd(p.session, t.ID, next.ID, anchorID, true)
	}
	return nil
}

func (p *BoardPane) updateEditor(msg tea.Msg) tea.Cmd {
	res, cmd := p.editor.Update(msg)
	switch res {
	case editorCancel:
		p.editor = nil
		return nil
	case editorSubmit:
		return p.submit()
	}
	return cmd
}

// submit validates the open form. On success the form closes and the
// matching session command is returned; otherwise the form stays open with
// the first problem shown.
func (p *BoardPane) submit() tea.Cmd {
	e := p.editor
	now := p.session.Now()

	switch e.kind {
	case editorAddTask:
		t, ok := e.newTask(now)
		if !ok {
			return nil
		}
		p.editor = nil
		return addTaskCmd(p.session, t, e.anchorID, false)

	case editorEditTask:
		c, ok := e.changes(now)
		if !ok {
			return nil
		}
		p.editor = nil
		if c.IsZero() {
			return statusCmd("No changes", false)
		}
		return editTaskCmd(p.session, e.orig.ID, c)

	case editorAddSection:
		f := e.sectionForm()
		sec, err := f.NewSection()
		if err != nil {
			e.fail(err)
			return nil
		}
		p.editor = nil
		return addSectionCmd(p.session, sec, e.sectionID)

	case editorRenameSection:
		f := e.sectionForm()
		if err := f.Validate(); err != nil {
			e.fail(err)
			return nil
		}
		p.editor = nil
		return renameSectionCmd(p.session, e.sectionID, f.Name)
	}
	return nil
}

// visibleRows returns how many list rows fit and the index of the first one.
func (p *BoardPane) visibleRows() (maxRows, startIdx int) {
	maxRows = p.height - 6 // title, separator, stats and borders
	if maxRows < 3 {
		maxRows = 5
	}
	if p.cursor >= maxRows {
		startIdx = p.cursor - maxRows + 1
	}
	return maxRows, startIdx
}

// handleMouse processes mouse events for the board pane.
func (p *BoardPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.rows) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) = row 2
	const headerRows = 2

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.rows)-1)

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress || p.snap.empty {
			return nil
		}
		maxRows, startIdx := p.visibleRows()
		row := msg.Y - headerRows
		if row < 0 || row >= maxRows {
			return nil
		}
		if idx := startIdx + row; idx < len(p.rows) {
			p.cursor = idx
		}
	}
	return nil
}

// View renders the board pane.
func (p *BoardPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📋 BOARD"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	switch {
	case p.editor != nil:
		b.WriteString(p.editor.View(p.styles))

	case p.snap.empty:
		b.WriteString(p.styles.EmptyStyle.Render("  Nothing to do. Press 'a' to add a task."))
		b.WriteString("\n")

	default:
		maxRows, startIdx := p.visibleRows()
		for i := startIdx; i < len(p.rows) && i < startIdx+maxRows; i++ {
			b.WriteString(p.renderRow(p.rows[i], i == p.cursor && p.focused))
			b.WriteString("\n")
		}

		b.WriteString("\n")
		stats := fmt.Sprintf("%d pending", p.snap.pending)
		if p.snap.overdue > 0 {
			stats += fmt.Sprintf(" · %d overdue", p.snap.overdue)
		}
		b.WriteString("  " + p.styles.StatLabelStyle.Render(stats))
		b.WriteString("\n")
	}

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

func (p *BoardPane) renderRow(r boardRow, selected bool) string {
	sec := p.snap.sections[r.section]
	if r.task < 0 {
		count := ""
		if n := len(sec.Tasks); n > 0 {
			count = fmt.Sprintf(" (%d)", n)
		}
		if selected {
			return p.styles.TaskSelectedStyle.Render("▸ " + sec.label() + count)
		}
		return p.styles.SectionTitleStyle.Render("▸ "+sec.label()) + p.styles.SectionCountStyle.Render(count)
	}

	t := sec.Tasks[r.task]
	overdue := isOverdue(t, p.snap.now)
	badge := p.styles.PriorityBadge(t.Priority)
	due := p.formatDueDate(t, p.snap.now)
	dueWidth := lipgloss.Width(due)

	// Layout: [2 indent][badge][space][name][padding][due]
	fixedWidth := 4
	if dueWidth > 0 {
		fixedWidth += dueWidth + 1
	}
	available := max(p.width-4-fixedWidth, 5)
	name := runewidth.Truncate(t.Name, available, "..")

	tail := ""
	if dueWidth > 0 {
		tail = strings.Repeat(" ", max(available-runewidth.StringWidth(name), 1)) + due
	}

	if selected {
		return p.styles.TaskSelectedStyle.Render("  " + badge + " " + name + tail)
	}
	style := p.styles.TaskStyle
	if overdue {
		style = p.styles.TaskOverdueStyle
	}
	return "  " + badge + " " + style.Render(name) + tail
}

// formatDueDate returns a compact, styled deadline indicator.
// Returns empty string without a deadline, otherwise: "!" (overdue), the
// end time or "T" (today), "+1" (tomorrow), "3d" (days), "2w" (weeks),
// ">1m" (over a month).
func (p *BoardPane) formatDueDate(t board.Task, now time.Time) string {
	if !t.HasDeadline() {
		return ""
	}
	if isOverdue(t, now) {
		return p.styles.DueDateOverdueStyle.Render("!")
	}
	due, ok := board.ParseDate(t.EndDate, now.Location())
	if !ok {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days <= 0:
		if t.EndTime != "" {
			return p.styles.DueDateTodayStyle.Render(t.EndTime)
		}
		return p.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return p.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", days/7))
	default:
		return p.styles.DueDateFutureStyle.Render(">1m")
	}
}

// truncateText shortens s to width cells with an ellipsis.
func truncateText(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
