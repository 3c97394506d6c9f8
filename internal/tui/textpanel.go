package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/surface"
)

// maxHistorySize limits the number of entries stored in history.
const maxHistorySize = 100

// maxInputHeight limits how tall the input can grow (in lines of content).
const maxInputHeight = 8

// TextPanel is the text input panel: a growing textarea with send history.
type TextPanel struct {
	width   int
	focused bool
	input   textarea.Model
	styles  *Styles

	handlers surface.TextHandlers

	// Input history for up/down navigation
	history      []string
	historyIndex int    // -1 means not browsing history; 0+ is index into history
	savedInput   string // Saved current input when browsing history
}

// NewTextPanel creates a text panel.
func NewTextPanel(styles *Styles) *TextPanel {
	ta := textarea.New()
	ta.Placeholder = presentation.DefaultStrings().InputPlaceholder
	ta.CharLimit = surface.MaxMessageLength * 4
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	// Enter sends; newlines go through InsertNewline.
	ta.KeyMap.InsertNewline.SetEnabled(false)
	return &TextPanel{
		input:        ta,
		styles:       styles,
		historyIndex: -1,
	}
}

// Variant implements panel.Panel.
func (p *TextPanel) Variant() panel.Variant { return panel.Variant{Kind: panel.KindTextInput} }

// UpdateLayout implements panel.Panel.
func (p *TextPanel) UpdateLayout(width int, _ anim.Transition, state *presentation.State) int {
	p.width = width
	p.input.SetWidth(max(width-4, 1)) // padding (2) and prompt (2)
	if state != nil && state.Strings != nil {
		if state.Interface.EditMessage != nil {
			p.input.Placeholder = state.Strings.EditPlaceholder
		} else {
			p.input.Placeholder = state.Strings.InputPlaceholder
		}
	}
	return p.ContentHeight()
}

// InputState implements surface.TextInput. The cursor is reported at the end
// of the draft.
func (p *TextPanel) InputState() presentation.InputTextState {
	v := p.input.Value()
	n := len([]rune(v))
	return presentation.InputTextState{Text: v, SelectionStart: n, SelectionEnd: n}
}

// SetInputState implements surface.TextInput.
func (p *TextPanel) SetInputState(s presentation.InputTextState) {
	if s.Text == p.input.Value() {
		return
	}
	p.input.SetValue(s.Text)
	p.input.CursorEnd()
	p.updateHeight()
}

// SetHandlers implements surface.TextInput.
func (p *TextPanel) SetHandlers(h surface.TextHandlers) { p.handlers = h }

// EnsureFocused implements panel.Focusable.
func (p *TextPanel) EnsureFocused() {
	p.focused = true
	p.input.Focus()
}

// EnsureUnfocused implements panel.Focusable.
func (p *TextPanel) EnsureUnfocused() {
	p.focused = false
	p.input.Blur()
}

// Focused implements panel.Focusable.
func (p *TextPanel) Focused() bool { return p.focused }

// Update handles input events and reports draft and height changes.
func (p *TextPanel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.edit(func() {
		p.input, cmd = p.input.Update(msg)
	})
	return cmd
}

// edit runs f and reports the resulting changes to the handlers.
func (p *TextPanel) edit(f func()) {
	before, height := p.input.Value(), p.ContentHeight()
	f()
	p.updateHeight()
	if p.input.Value() != before && p.handlers.TextChanged != nil {
		p.handlers.TextChanged(p.InputState())
	}
	if p.ContentHeight() != height && p.handlers.HeightChanged != nil {
		p.handlers.HeightChanged()
	}
}

// Value returns the current input value.
func (p *TextPanel) Value() string {
	return p.input.Value()
}

// Clear resets the input value.
func (p *TextPanel) Clear() {
	p.input.SetValue("")
	p.input.SetHeight(1)
}

// Send asks the coordinator to send the draft.
func (p *TextPanel) Send() {
	if p.handlers.Send != nil {
		p.handlers.Send()
	}
}

// Attach asks for the attachment menu.
func (p *TextPanel) Attach() {
	if p.handlers.Attach != nil {
		p.handlers.Attach()
	}
}

// View renders the panel at its laid out width.
func (p *TextPanel) View() string {
	style := p.styles.Input
	if p.focused {
		style = p.styles.InputFocused
	}
	return style.Width(p.width).Render(p.input.View())
}

// AddToHistory adds the given input to history if non-empty.
func (p *TextPanel) AddToHistory(input string) {
	if input == "" {
		return
	}
	// Avoid duplicates at the end
	if len(p.history) > 0 && p.history[len(p.history)-1] == input {
		return
	}
	p.history = append(p.history, input)
	if len(p.history) > maxHistorySize {
		p.history = p.history[len(p.history)-maxHistorySize:]
	}
	p.historyIndex = -1
	p.savedInput = ""
}

// HistoryUp navigates to the previous (older) history entry.
// Returns true if the input was changed.
func (p *TextPanel) HistoryUp() bool {
	if len(p.history) == 0 {
		return false
	}
	switch {
	case p.historyIndex == -1:
		p.savedInput = p.input.Value()
		p.historyIndex = len(p.history) - 1
	case p.historyIndex > 0:
		p.historyIndex--
	default:
		return false
	}
	p.replace(p.history[p.historyIndex])
	return true
}

// HistoryDown navigates to the next (newer) history entry.
// Returns true if the input was changed.
func (p *TextPanel) HistoryDown() bool {
	if p.historyIndex == -1 {
		return false
	}
	if p.historyIndex < len(p.history)-1 {
		p.historyIndex++
		p.replace(p.history[p.historyIndex])
		return true
	}
	// At newest entry, restore saved input
	p.historyIndex = -1
	p.replace(p.savedInput)
	p.savedInput = ""
	return true
}

// Browsing reports whether history navigation is in progress.
func (p *TextPanel) Browsing() bool { return p.historyIndex != -1 }

// ResetHistoryNavigation resets history browsing state.
func (p *TextPanel) ResetHistoryNavigation() {
	p.historyIndex = -1
	p.savedInput = ""
}

// InsertNewline inserts a newline at the cursor position.
func (p *TextPanel) InsertNewline() {
	p.edit(func() { p.input.InsertString("\n") })
}

// Complete replaces the draft with an autocompletion.
func (p *TextPanel) Complete(text string) {
	p.replace(text)
}

func (p *TextPanel) replace(text string) {
	p.edit(func() {
		p.input.SetValue(text)
		p.input.CursorEnd()
	})
}

// ContentHeight returns the height needed to display the current content.
// Minimum 1, maximum maxInputHeight.
func (p *TextPanel) ContentHeight() int {
	return min(max(p.input.LineCount(), 1), maxInputHeight)
}

// updateHeight adjusts the textarea height based on content.
func (p *TextPanel) updateHeight() {
	p.input.SetHeight(p.ContentHeight())
}
