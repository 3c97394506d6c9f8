package tui

import (
	"testing"

	"github.com/tessro/chatsurface/internal/presentation"
)

func TestModeOf(t *testing.T) {
	sel := &presentation.SelectionState{Selected: []presentation.MessageID{1}}
	search := &presentation.SearchState{Query: "x"}

	tests := []struct {
		name  string
		state *presentation.State
		want  Mode
	}{
		{"nil state", nil, ModeNormal},
		{"no input", &presentation.State{}, ModeNormal},
		{"text", &presentation.State{InputMode: presentation.InputModeText}, ModeText},
		{"media", &presentation.State{InputMode: presentation.InputModeMedia}, ModeSurface},
		{"bot keyboard", &presentation.State{InputMode: presentation.InputModeButtonKeyboard}, ModeSurface},
		{"search over text", &presentation.State{InputMode: presentation.InputModeText, Search: search}, ModeSearch},
		{
			"selection over search",
			&presentation.State{Search: search, Interface: presentation.InterfaceState{SelectionState: sel}},
			ModeSelection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeOf(tt.state); got != tt.want {
				t.Errorf("ModeOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeNormal, "normal"},
		{ModeText, "text"},
		{ModeSurface, "surface"},
		{ModeSearch, "search"},
		{ModeSelection, "selection"},
		{Mode(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
