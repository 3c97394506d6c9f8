package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Header is the navigation bar. An active search replaces the chat title.
type Header struct {
	width   int
	title   string
	members int
	typing  bool
	search  *presentation.SearchState
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetChat sets the chat title and member count.
func (h *Header) SetChat(title string, members int) {
	h.title = title
	h.members = members
}

// SetTyping toggles the typing indicator.
func (h *Header) SetTyping(typing bool) {
	h.typing = typing
}

// SetOverride sets the search replacing the title, or nil.
func (h *Header) SetOverride(search *presentation.SearchState) {
	h.search = search
}

// View renders the header.
func (h Header) View(styles *Styles) string {
	var left, right string
	if h.search != nil {
		left = styles.HeaderTitle.Render("Search: " + h.search.Query + "▏")
	} else {
		left = styles.HeaderTitle.Render(h.title)
		status := fmt.Sprintf("%d members", h.members)
		if h.typing {
			status = "typing…"
		}
		right = styles.HeaderStatus.Render(status)
	}
	gap := max(h.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	filler := styles.Header.Render(fmt.Sprintf("%*s", gap, ""))
	return fit(left+filler+right, h.width)
}
