package ui

import (
	"reflect"
	"testing"

	"taskboard/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

func TestParseKeys(t *testing.T) {
	tests := []struct {
		name     string
		custom   string
		defaults []string
		want     []string
	}{
		{"empty uses defaults", "", []string{"q", "ctrl+c"}, []string{"q", "ctrl+c"}},
		{"single key", "x", []string{"q"}, []string{"x"}},
		{"trims and drops blanks", " a , ,b ", nil, []string{"a", "b"}},
		{"space by name", "space,enter", nil, []string{" ", "enter"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := parseKeys(tc.custom, tc.defaults...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseKeys(%q) = %q, want %q", tc.custom, got, tc.want)
			}
		})
	}
}

func TestNewBoardKeyMap_Custom(t *testing.T) {
	km := NewBoardKeyMap(&config.KeysConfig{DeleteTask: "backspace", MoveUp: "ctrl+k"})

	if !key.Matches(keyMsg("backspace"), km.DeleteTask) {
		t.Error("DeleteTask should match the custom key")
	}
	if key.Matches(keyMsg("x"), km.DeleteTask) {
		t.Error("DeleteTask should drop its default when remapped")
	}
	if !key.Matches(keyMsg("e"), km.EditTask) {
		t.Error("unmapped bindings keep their defaults")
	}
	if got := km.MoveUp.Keys(); !reflect.DeepEqual(got, []string{"ctrl+k"}) {
		t.Errorf("MoveUp keys = %v", got)
	}
	if got := km.DeleteTask.Help().Key; got != "backspace" {
		t.Errorf("DeleteTask help key = %q, want the remapped key", got)
	}

	hk := NewHistoryKeyMap(&config.KeysConfig{ToggleCheck: "space,t"})
	if got := hk.Toggle.Help().Key; got != "space/t" {
		t.Errorf("Toggle help key = %q, want space/t", got)
	}
}

func TestKeyMaps_HelpText(t *testing.T) {
	bk := DefaultBoardKeyMap()
	if n := len(bk.ShortHelp()); n == 0 {
		t.Error("board short help empty")
	}
	for _, group := range DefaultHistoryKeyMap().FullHelp() {
		for _, b := range group {
			if b.Help().Key == "" || b.Help().Desc == "" {
				t.Errorf("binding %v has no help", b.Keys())
			}
		}
	}
	if !key.Matches(keyMsg("U"), DefaultHistoryKeyMap().RestoreChecked) {
		t.Error("U restores checked items by default")
	}
	if !key.Matches(keyMsg("2"), DefaultGlobalKeyMap().Pane2) {
		t.Error("2 focuses the history pane by default")
	}
}
