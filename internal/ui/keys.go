// Package ui provides the terminal user interface for taskboard.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation and user customization.
package ui

import (
	"strings"

	"taskboard/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys. "space" is accepted
// as the name of the space bar.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "space" {
			trimmed = " "
		}
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// bind builds a binding from a config value and its defaults. A remapped
// binding shows the configured keys in help instead of helpKey.
func bind(custom, helpKey, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	if custom != "" {
		labels := make([]string, len(keys))
		for i, k := range keys {
			if k == " " {
				k = "space"
			}
			labels[i] = k
		}
		helpKey = strings.Join(labels, "/")
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit:     bind(cfg.Quit, "q", "quit", "q", "ctrl+c"),
		Help:     bind(cfg.Help, "?", "help", "?"),
		NextPane: bind(cfg.NextPane, "tab", "next pane", "tab"),
		Pane1:    bind(cfg.Pane1, "1", "board", "1"),
		Pane2:    bind(cfg.Pane2, "2", "history", "2"),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up:     bind(cfg.Up, "k/↑", "up", "k", "up"),
		Down:   bind(cfg.Down, "j/↓", "down", "j", "down"),
		Top:    bind(cfg.Top, "g", "top", "g"),
		Bottom: bind(cfg.Bottom, "G", "bottom", "G"),
	}
}

// =============================================================================
// Input Keys (shared by forms)
// =============================================================================

// InputKeyMap defines keys for form input mode.
type InputKeyMap struct {
	Confirm   key.Binding
	Cancel    key.Binding
	NextField key.Binding
	PrevField key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: bind(cfg.Confirm, "enter", "save", "enter"),
		Cancel:  bind(cfg.Cancel, "esc", "cancel", "esc"),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
	}
}

// =============================================================================
// Board Pane Keys
// =============================================================================

// BoardKeyMap defines keys for the board pane.
type BoardKeyMap struct {
	AddTask       key.Binding
	EditTask      key.Binding
	CompleteTask  key.Binding
	DeleteTask    key.Binding
	DuplicateTask key.Binding
	MoveUp        key.Binding
	MoveDown      key.Binding

	AddSection       key.Binding
	RenameSection    key.Binding
	DeleteSection    key.Binding
	ClearSection     key.Binding
	DuplicateSection key.Binding

	NavigationKeyMap
}

// DefaultBoardKeyMap returns the default board pane key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return NewBoardKeyMap(&config.KeysConfig{})
}

// NewBoardKeyMap creates board key bindings from config.
func NewBoardKeyMap(cfg *config.KeysConfig) BoardKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return BoardKeyMap{
		AddTask:          bind(cfg.AddTask, "a", "add task", "a"),
		EditTask:         bind(cfg.EditTask, "e", "edit", "e"),
		CompleteTask:     bind(cfg.CompleteTask, "d/space", "complete", "d", "enter", " "),
		DeleteTask:       bind(cfg.DeleteTask, "x", "delete", "x"),
		DuplicateTask:    bind(cfg.DuplicateTask, "y", "duplicate", "y"),
		MoveUp:           bind(cfg.MoveUp, "K", "move up", "K", "shift+up"),
		MoveDown:         bind(cfg.MoveDown, "J", "move down", "J", "shift+down"),
		AddSection:       bind(cfg.AddSection, "A", "add section", "A"),
		RenameSection:    bind(cfg.RenameSection, "r", "rename section", "r"),
		DeleteSection:    bind(cfg.DeleteSection, "X", "delete section", "X"),
		ClearSection:     bind(cfg.ClearSection, "C", "clear section", "C"),
		DuplicateSection: bind(cfg.DuplicateSection, "Y", "duplicate section", "Y"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the board pane (implements help.KeyMap).
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddTask, k.EditTask, k.CompleteTask, k.DeleteTask, k.AddSection}
}

// FullHelp returns the full help for the board pane (implements help.KeyMap).
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddTask, k.EditTask, k.CompleteTask, k.DeleteTask, k.DuplicateTask, k.MoveUp, k.MoveDown},
		{k.AddSection, k.RenameSection, k.DeleteSection, k.ClearSection, k.DuplicateSection},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// History Pane Keys
// =============================================================================

// HistoryKeyMap defines keys for the history pane.
type HistoryKeyMap struct {
	Toggle         key.Binding
	Restore        key.Binding
	Delete         key.Binding
	RestoreChecked key.Binding
	DeleteChecked  key.Binding
	UncheckAll     key.Binding
	NavigationKeyMap
}

// DefaultHistoryKeyMap returns the default history pane key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return NewHistoryKeyMap(&config.KeysConfig{})
}

// NewHistoryKeyMap creates history key bindings from config.
func NewHistoryKeyMap(cfg *config.KeysConfig) HistoryKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return HistoryKeyMap{
		Toggle:           bind(cfg.ToggleCheck, "space", "check", " "),
		Restore:          bind(cfg.RestoreItem, "u", "restore", "u", "enter"),
		Delete:           bind(cfg.DeleteItem, "x", "delete", "x"),
		RestoreChecked:   bind(cfg.RestoreChecked, "U", "restore checked", "U"),
		DeleteChecked:    bind(cfg.DeleteChecked, "X", "delete checked", "X"),
		UncheckAll:       bind(cfg.UncheckAll, "c", "uncheck all", "c"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the history pane (implements help.KeyMap).
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Restore, k.Delete, k.RestoreChecked, k.DeleteChecked}
}

// FullHelp returns the full help for the history pane (implements help.KeyMap).
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Restore, k.Delete},
		{k.RestoreChecked, k.DeleteChecked, k.UncheckAll},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
