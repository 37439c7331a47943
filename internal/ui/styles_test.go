package ui

import (
	"strings"
	"testing"

	"taskboard/internal/board"
	"taskboard/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary:    "#FF0000",
		Accent:     "#00FF00",
		Muted:      "#0000FF",
		Overdue:    "#FF00FF",
		Background: "#000000",
		Text:       "#FFFFFF",
	}

	styles := NewStylesFromTheme(theme)

	if styles.ColorPrimary != lipgloss.Color("#FF0000") {
		t.Errorf("ColorPrimary = %v, want #FF0000", styles.ColorPrimary)
	}
	if styles.ColorAccent != lipgloss.Color("#00FF00") {
		t.Errorf("ColorAccent = %v, want #00FF00", styles.ColorAccent)
	}
	if styles.ColorMuted != lipgloss.Color("#0000FF") {
		t.Errorf("ColorMuted = %v, want #0000FF", styles.ColorMuted)
	}
	if styles.ColorOverdue != lipgloss.Color("#FF00FF") {
		t.Errorf("ColorOverdue = %v, want #FF00FF", styles.ColorOverdue)
	}
	if styles.ColorBg != lipgloss.Color("#000000") {
		t.Errorf("ColorBg = %v, want #000000", styles.ColorBg)
	}
	if styles.ColorText != lipgloss.Color("#FFFFFF") {
		t.Errorf("ColorText = %v, want #FFFFFF", styles.ColorText)
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{})

	if styles.ColorPrimary != lipgloss.Color("#7C3AED") {
		t.Errorf("ColorPrimary = %v, want default #7C3AED", styles.ColorPrimary)
	}
	if styles.ColorAccent != lipgloss.Color("#3B82F6") {
		t.Errorf("ColorAccent = %v, want default #3B82F6", styles.ColorAccent)
	}
	if styles.ColorMuted != lipgloss.Color("#6B7280") {
		t.Errorf("ColorMuted = %v, want default #6B7280", styles.ColorMuted)
	}
	if styles.ColorOverdue != lipgloss.Color("#EF4444") {
		t.Errorf("ColorOverdue = %v, want default #EF4444", styles.ColorOverdue)
	}
}

func TestNewStyles_ComponentStylesInitialized(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{Primary: "#FF0000", Overdue: "#00FFFF"})

	if styles.TitleStyle.GetBackground() != lipgloss.Color("#FF0000") {
		t.Error("TitleStyle should use Primary color for background")
	}
	if styles.PaneFocusedStyle.GetBorderTopForeground() != lipgloss.Color("#FF0000") {
		t.Error("PaneFocusedStyle should use Primary color for border")
	}
	if styles.TaskOverdueStyle.GetForeground() != lipgloss.Color("#00FFFF") {
		t.Error("TaskOverdueStyle should use Overdue color")
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Primary = "#123456"

	styles := NewStyles(cfg)

	if styles.ColorPrimary != lipgloss.Color("#123456") {
		t.Errorf("ColorPrimary = %v, want #123456", styles.ColorPrimary)
	}
}

func TestPriorityBadge(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	tests := []struct {
		p    board.Priority
		want string
	}{
		{board.PriorityUrgent, "!"},
		{board.PriorityHigh, "^"},
		{board.PriorityMedium, "~"},
		{board.PriorityLow, " "},
	}
	for _, tc := range tests {
		if got := styles.PriorityBadge(tc.p); got != tc.want {
			t.Errorf("PriorityBadge(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestRenderHelp(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	output := styles.RenderHelp(
		"a", "add",
		"d", "done",
	)

	if output != "[a] add  [d] done" {
		t.Errorf("RenderHelp() = %q", output)
	}
	if !strings.Contains(styles.RenderHelp("x", "del", "dangling"), "[x] del") {
		t.Error("an odd trailing key is ignored")
	}
}
