// Package ui provides the terminal user interface for taskboard.
// This file contains the main App model which coordinates the board and
// history panes and routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/config"
	"taskboard/internal/notify"
	"taskboard/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneBoard PaneID = iota
	PaneHistory
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows both panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
}

// AppConfigFrom derives the UI settings from the loaded configuration.
func AppConfigFrom(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        true,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
	}
}

// App is the main application model that coordinates all panes.
type App struct {
	session     *session.Session
	styles      *Styles
	config      *AppConfig
	boardPane   *BoardPane
	historyPane *HistoryPane
	helpOverlay *HelpOverlay
	confirmDel  *confirmRequestMsg
	snap        snapshot
	seenOverdue map[string]bool
	activePane  PaneID
	layoutMode  LayoutMode
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	boardPaneStart   int
	boardPaneEnd     int
	historyPaneStart int
	historyPaneEnd   int
	contentTop       int // Y coordinate where content starts
}

// NewApp creates a new application over an open session.
func NewApp(sess *session.Session, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	boardPane := NewBoardPane(sess, styles, cfg.Keys, cfg.ConfirmDeletions)
	historyPane := NewHistoryPane(sess, styles, cfg.Keys, cfg.ConfirmDeletions)
	keys := NewGlobalKeyMap(cfg.Keys)

	app := &App{
		session:     sess,
		styles:      styles,
		config:      cfg,
		boardPane:   boardPane,
		historyPane: historyPane,
		helpOverlay: NewHelpOverlay(styles, keys, boardPane.keys, historyPane.keys, boardPane.inputKeys),
		seenOverdue: make(map[string]bool),
		activePane:  PaneBoard,
		keys:        keys,
		helpKeys:    DefaultHelpKeyMap(),
	}

	boardPane.SetFocused(true)
	historyPane.SetFocused(false)

	app.refresh()
	app.showWelcome = cfg.ShowOnboarding && app.snap.empty && app.snap.historyLen == 0
	return app
}

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the clock.
func (a *App) Init() tea.Cmd {
	return tickCmd()
}

// refresh re-reads the session and hands the snapshot to both panes. Tasks
// that turned overdue since the last refresh are announced in the status bar.
func (a *App) refresh() {
	first := a.snap.now.IsZero()
	a.snap = takeSnapshot(a.session)
	a.boardPane.SetSnapshot(a.snap)
	a.historyPane.SetSnapshot(a.snap)

	var fresh []board.Task
	current := make(map[string]bool, len(a.snap.overdueSet))
	for _, t := range a.snap.overdueSet {
		current[t.ID] = true
		if !a.seenOverdue[t.ID] {
			fresh = append(fresh, t)
		}
	}
	a.seenOverdue = current
	if len(fresh) > 0 && !first {
		title, body := notify.OverdueMessage(fresh)
		a.SetStatus(title+": "+body, true)
	}
}

// handleResult applies the outcome of a session command.
func (a *App) handleResult(msg tea.Msg) (handled bool, cmd tea.Cmd) {
	fail := func(op string, err error) {
		a.SetStatus(op+": "+err.Error(), true)
	}
	focus := ""

	switch msg := msg.(type) {
	case taskAddedMsg:
		if msg.err != nil {
			fail("Add task", msg.err)
			break
		}
		focus = msg.task.ID
		a.SetStatus("Added: "+msg.task.Name, false)

	case taskEditedMsg:
		if msg.err != nil {
			fail("Edit task", msg.err)
			break
		}
		focus = msg.task.ID
		a.SetStatus("Saved: "+msg.task.Name, false)

	case taskMovedMsg:
		if msg.err != nil {
			fail("Move task", msg.err)
			break
		}
		focus = msg.id

	case taskDuplicatedMsg:
		if msg.err != nil {
			fail("Duplicate task", msg.err)
			break
		}
		focus = msg.task.ID
		a.SetStatus("Duplicated: "+msg.task.Name, false)

	case taskDeletedMsg:
		if msg.err != nil {
			fail("Delete task", msg.err)
			break
		}
		a.SetStatus("Deleted: "+msg.name, false)

	case taskCompletedMsg:
		if msg.err != nil {
			fail("Complete task", msg.err)
			break
		}
		a.SetStatus("Done: "+msg.task.Name, false)

	case sectionAddedMsg:
		if msg.err != nil {
			fail("Add section", msg.err)
			break
		}
		focus = msg.id
		a.SetStatus("Added section: "+msg.name, false)

	case sectionRenamedMsg:
		if msg.err != nil {
			fail("Rename section", msg.err)
			break
		}
		focus = msg.id
		a.SetStatus("Renamed to "+msg.name, false)

	case sectionDuplicatedMsg:
		if msg.err != nil {
			fail("Duplicate section", msg.err)
			break
		}
		focus = msg.id
		a.SetStatus("Section duplicated", false)

	case sectionDeletedMsg:
		if msg.err != nil {
			fail("Delete section", msg.err)
			break
		}
		a.SetStatus("Deleted section: "+msg.name, false)

	case sectionClearedMsg:
		if msg.err != nil {
			fail("Clear section", msg.err)
			break
		}
		a.SetStatus("Cleared: "+msg.name, false)

	case itemRestoredMsg:
		if msg.err != nil {
			fail("Restore", msg.err)
			break
		}
		focus = msg.task.ID
		a.SetStatus("Restored: "+msg.task.Name, false)

	case itemDeletedMsg:
		if msg.err != nil {
			fail("Delete", msg.err)
			break
		}
		a.SetStatus("Deleted: "+msg.name, false)

	case itemToggledMsg:
		if msg.err != nil {
			fail("Check", msg.err)
		}

	case checkedRestoredMsg:
		if msg.err != nil {
			fail("Restore checked", msg.err)
			break
		}
		a.SetStatus(fmt.Sprintf("Restored %d tasks", msg.count), false)

	case checkedDeletedMsg:
		if msg.err != nil {
			fail("Delete checked", msg.err)
			break
		}
		a.SetStatus(fmt.Sprintf("Deleted %d items", msg.count), false)

	case uncheckedAllMsg:
		if msg.err != nil {
			fail("Uncheck all", msg.err)
		}

	default:
		return false, nil
	}

	a.refresh()
	if focus != "" {
		a.boardPane.Focus(focus)
	}
	return true, nil
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, cmd := a.handleResult(msg); handled {
		return a, cmd
	}

	switch msg := msg.(type) {
	case statusMsg:
		a.SetStatus(msg.text, msg.err)
		return a, nil

	case confirmRequestMsg:
		a.confirmDel = &msg
		return a, nil

	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirmDel.cmd
				a.confirmDel = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		// Global keys only when no form is open
		if !a.boardPane.IsEditing() {
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneBoard)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneHistory)
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		a.refresh()
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	if a.showHelp || a.showWelcome {
		return a, nil
	}

	// A form belongs to the board pane and keeps input even when the
	// history pane was clicked.
	if a.boardPane.IsEditing() {
		return a, a.boardPane.Update(msg)
	}
	switch a.activePane {
	case PaneBoard:
		return a, a.boardPane.Update(msg)
	case PaneHistory:
		return a, a.historyPane.Update(msg)
	}
	return a, nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome || a.confirmDel != nil || a.showHelp {
		if msg.Action == tea.MouseActionPress {
			if a.confirmDel != nil {
				a.SetStatus("Canceled", false)
			}
			a.showWelcome = false
			a.confirmDel = nil
			a.showHelp = false
		}
		return nil
	}
	if a.boardPane.IsEditing() {
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		// In narrow mode, check for tab bar clicks
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			if msg.X < a.width/2 {
				a.setActivePane(PaneBoard)
			} else {
				a.setActivePane(PaneHistory)
			}
			return nil
		}

		if clicked := a.paneAtPosition(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	if msg.Y < a.contentTop {
		return nil
	}
	localMsg := msg
	localMsg.Y = msg.Y - a.contentTop
	switch a.activePane {
	case PaneBoard:
		return a.boardPane.Update(localMsg)
	case PaneHistory:
		if a.layoutMode == LayoutWide {
			localMsg.X = msg.X - a.historyPaneStart
		}
		return a.historyPane.Update(localMsg)
	}
	return nil
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	if a.activePane == PaneBoard {
		a.setActivePane(PaneHistory)
		return
	}
	a.setActivePane(PaneBoard)
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.boardPane.SetFocused(pane == PaneBoard)
	a.historyPane.SetFocused(pane == PaneHistory)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}
	if x >= a.boardPaneStart && x < a.boardPaneEnd {
		return PaneBoard
	}
	if x >= a.historyPaneStart && x < a.historyPaneEnd {
		return PaneHistory
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar and help bar
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}
	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		// Leave room for the tab bar
		narrowHeight := max(contentHeight-1, 8)
		paneWidth := max(totalWidth, 20)

		a.boardPane.SetSize(paneWidth, narrowHeight)
		a.historyPane.SetSize(paneWidth, narrowHeight)

		a.boardPaneStart, a.boardPaneEnd = 0, a.width
		a.historyPaneStart, a.historyPaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide

	var boardWidth, historyWidth int
	if totalWidth < 120 {
		boardWidth = (totalWidth * 58) / 100
		historyWidth = totalWidth - boardWidth - 1
	} else {
		boardWidth = min((totalWidth*60)/100, 90)
		historyWidth = min(totalWidth-boardWidth-1, 60)
	}

	a.boardPane.SetSize(boardWidth, contentHeight)
	a.historyPane.SetSize(historyWidth, contentHeight)

	// One space gap between panes
	a.boardPaneStart = 0
	a.boardPaneEnd = boardWidth
	a.historyPaneStart = boardWidth + 1
	a.historyPaneEnd = a.historyPaneStart + historyWidth
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showWelcome {
		return a.renderWelcome()
	}
	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) overlayStyles(accent lipgloss.Color) (overlay, title, body, muted lipgloss.Style) {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}
	overlay = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(overlayWidth)
	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		MarginBottom(1)
	body = lipgloss.NewStyle().
		Foreground(a.styles.ColorText)
	muted = lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)
	return overlay, title, body, muted
}

func (a *App) renderWelcome() string {
	overlayStyle, titleStyle, bodyStyle, mutedStyle := a.overlayStyles(a.styles.ColorPrimary)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to taskboard"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Add your first task with 'a' and a section with 'A'.\n"))
	b.WriteString(bodyStyle.Render("Finished tasks move to the history on the right.\n"))
	b.WriteString(bodyStyle.Render("Tab switches panes. ? opens help.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

func (a *App) renderConfirmDelete() string {
	overlayStyle, titleStyle, bodyStyle, _ := a.overlayStyles(a.styles.ColorDanger)
	hintStyle := lipgloss.NewStyle().Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

// renderWideContent renders both panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top, a.boardPane.View(), " ", a.historyPane.View())
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneBoard:
		b.WriteString(a.boardPane.View())
	case PaneHistory:
		b.WriteString(a.historyPane.View())
	}
	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneBoard, "Board"},
		{PaneHistory, "History"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	if padding := (a.width - lipgloss.Width(tabBar)) / 2; padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

// renderGoodbye shows an exit message with the day's summary.
func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if a.snap.doneToday > 0 || a.snap.pending > 0 {
		b.WriteString("  Today's progress:\n")
		b.WriteString(fmt.Sprintf("     Done:    %d\n", a.snap.doneToday))
		b.WriteString(fmt.Sprintf("     Pending: %d\n", a.snap.pending))
		if a.snap.overdue > 0 {
			b.WriteString(fmt.Sprintf("     Overdue: %d\n", a.snap.overdue))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderTitleBar creates the top title bar with stats and the clock.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" taskboard ")

	statsItems := []string{
		fmt.Sprintf("Pending: %d", a.snap.pending),
		fmt.Sprintf("Done today: %d", a.snap.doneToday),
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))
	if a.snap.overdue > 0 {
		stats += "  " + a.styles.DueDateOverdueStyle.Render(fmt.Sprintf("Overdue: %d", a.snap.overdue))
	}

	now := a.snap.now
	if now.IsZero() {
		now = time.Now()
	}
	date := a.styles.DateStyle.Render(now.Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(date)
	spacerWidth := max(a.width-usedWidth-4, 2)

	return title + "  " + stats + strings.Repeat(" ", spacerWidth) + date
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.boardPane.IsEditing() {
		return a.styles.RenderHelp(
			"enter", "save",
			"tab", "next field",
			"esc", "cancel",
		)
	}

	switch a.activePane {
	case PaneBoard:
		return a.styles.RenderHelp(
			"a", "add",
			"e", "edit",
			"d", "done",
			"x", "del",
			"A", "section",
			"tab", "pane",
			"?", "help",
		)
	case PaneHistory:
		if a.historyPane.CheckedCount() > 0 {
			return a.styles.RenderHelp(
				"space", "check",
				"U", "restore checked",
				"X", "delete checked",
				"c", "uncheck",
				"?", "help",
			)
		}
		return a.styles.RenderHelp(
			"space", "check",
			"u", "restore",
			"x", "del",
			"tab", "pane",
			"?", "help",
		)
	}
	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the Bubble Tea program over sess with the given styles and config.
func Run(sess *session.Session, styles *Styles, cfg *AppConfig) error {
	app := NewApp(sess, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	_, err := p.Run()
	return err
}
