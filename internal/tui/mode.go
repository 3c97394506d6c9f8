package tui

import "github.com/tessro/chatsurface/internal/presentation"

// Mode is the interaction mode keys are routed by. It is derived from the
// presentation state; only one mode is active at a time.
type Mode int

const (
	// ModeNormal navigates the message list.
	ModeNormal Mode = iota
	// ModeText means the text panel has focus.
	ModeText
	// ModeSurface means an input surface (media picker, bot keyboard) is up.
	ModeSurface
	// ModeSearch means an in-chat search is active.
	ModeSearch
	// ModeSelection means messages are being multi-selected.
	ModeSelection
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeText:
		return "text"
	case ModeSurface:
		return "surface"
	case ModeSearch:
		return "search"
	case ModeSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// ModeOf derives the interaction mode. Selection wins over search, which
// wins over the input mode.
func ModeOf(state *presentation.State) Mode {
	switch {
	case state == nil:
		return ModeNormal
	case state.Interface.SelectionState != nil:
		return ModeSelection
	case state.Search != nil:
		return ModeSearch
	}
	switch state.InputMode {
	case presentation.InputModeText:
		return ModeText
	case presentation.InputModeMedia, presentation.InputModeButtonKeyboard:
		return ModeSurface
	default:
		return ModeNormal
	}
}
