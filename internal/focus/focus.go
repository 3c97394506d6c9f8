// Package focus decides when the text input panel must hold input focus.
package focus

import (
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

// RequiresFocus reports whether state needs the text panel focused: text
// input mode outside of multi-select.
func RequiresFocus(state *presentation.State) bool {
	if state == nil {
		return false
	}
	return state.InputMode == presentation.InputModeText && state.Interface.SelectionState == nil
}

// Change is the focus consequence of a state update.
type Change struct {
	// Toggled is true when RequiresFocus differs between the states. A
	// toggle always forces a layout pass.
	Toggled bool
	// Acquire is the new requirement; meaningful only when Toggled.
	Acquire bool
}

// Coordinator applies focus changes to the installed text panel.
type Coordinator struct {
	toggles int
}

// Observe compares the focus requirement of prev and next.
func (c *Coordinator) Observe(prev, next *presentation.State) Change {
	was, now := RequiresFocus(prev), RequiresFocus(next)
	if was == now {
		return Change{}
	}
	c.toggles++
	return Change{Toggled: true, Acquire: now}
}

// Toggles returns how many toggles have been observed.
func (c *Coordinator) Toggles() int { return c.toggles }

// Apply asks the input panel to acquire or release focus. Panels that are not
// focusable are left alone.
func (c *Coordinator) Apply(ch Change, input panel.Panel) {
	if !ch.Toggled {
		return
	}
	if ch.Acquire {
		EnsureFocused(input)
		return
	}
	EnsureUnfocused(input)
}

// EnsureFocused focuses p if it is a focusable text panel.
func EnsureFocused(p panel.Panel) {
	if f, ok := textPanel(p); ok {
		f.EnsureFocused()
	}
}

// EnsureUnfocused releases focus from p if it is a focused text panel.
func EnsureUnfocused(p panel.Panel) {
	if f, ok := textPanel(p); ok && f.Focused() {
		f.EnsureUnfocused()
	}
}

func textPanel(p panel.Panel) (panel.Focusable, bool) {
	if p == nil || p.Variant().Kind != panel.KindTextInput {
		return nil, false
	}
	f, ok := p.(panel.Focusable)
	return f, ok
}
