package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpBar displays context-sensitive keyboard shortcuts at the bottom of the TUI.
type HelpBar struct {
	width int
	keys  KeyBindings
	mode  Mode

	// Error display
	errorMsg string
}

// NewHelpBar creates a new help bar component.
func NewHelpBar(keys KeyBindings) HelpBar {
	return HelpBar{keys: keys}
}

// SetWidth updates the help bar width.
func (h *HelpBar) SetWidth(width int) {
	h.width = width
}

// SetMode updates the mode shortcuts are shown for.
func (h *HelpBar) SetMode(mode Mode) {
	h.mode = mode
}

// SetError sets the error message to display.
func (h *HelpBar) SetError(msg string) {
	h.errorMsg = msg
}

// ClearError clears the error message.
func (h *HelpBar) ClearError() {
	h.errorMsg = ""
}

// Bindings returns the shortcuts shown in the current mode.
func (h HelpBar) Bindings() []key.Binding {
	k := h.keys
	switch h.mode {
	case ModeText:
		return []key.Binding{k.Submit, k.Newline, k.Complete, k.Attach, k.Cancel}
	case ModeSurface:
		return []key.Binding{k.Left, k.Right, k.Submit, k.Attach, k.BotKeyboard, k.Cancel}
	case ModeSearch:
		return []key.Binding{k.Up, k.Down, k.Submit, k.Cancel}
	case ModeSelection:
		return []key.Binding{k.Up, k.Down, k.Delete, k.Forward, k.Cancel}
	default:
		return []key.Binding{k.FocusText, k.Up, k.Reply, k.Edit, k.Select, k.Search, k.Quit}
	}
}

// View renders the help bar with context-sensitive keyboard shortcuts.
func (h HelpBar) View(styles *Styles) string {
	// Error display takes top priority
	if h.errorMsg != "" {
		return styles.ErrorBar.Width(h.width).Render(fit("Error: "+h.errorMsg, h.width-2))
	}
	return styles.Status.Width(h.width).Render(fit(formatHelp(h.Bindings()), h.width-2))
}

// formatHelp formats a list of key bindings as help text.
func formatHelp(bindings []key.Binding) string {
	var parts []string
	for _, b := range bindings {
		help := b.Help()
		parts = append(parts, help.Key+": "+help.Desc)
	}
	return strings.Join(parts, "  ")
}
