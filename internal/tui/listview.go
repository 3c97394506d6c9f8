package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/layout"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/richtext"
)

// ListView displays the conversation. It is laid out flipped: the list
// update's top inset is the input stack below it, the bottom inset the
// chrome above it.
type ListView struct {
	store  *conversation.Store
	rich   *richtext.Renderer
	styles *Styles
	empty  string

	rect     geom.Rect
	viewport viewport.Model
	ready    bool

	cursor    int // index into store messages, -1 for none
	selection map[presentation.MessageID]bool
	match     presentation.MessageID
	offsets   []int // first content line of each message
}

// NewListView creates a list over store.
func NewListView(store *conversation.Store, rich *richtext.Renderer, styles *Styles) *ListView {
	return &ListView{
		store:  store,
		rich:   rich,
		styles: styles,
		empty:  presentation.DefaultStrings().EmptyChat,
		cursor: -1,
	}
}

// Apply takes the geometry of a layout pass.
func (v *ListView) Apply(u layout.ListUpdate) {
	v.rect = geom.Rect{
		X: u.Insets.Right,
		Y: u.Insets.Bottom,
		W: max(u.Size.W-u.Insets.Left-u.Insets.Right, 1),
		H: max(u.Size.H-u.Insets.Top-u.Insets.Bottom, 0),
	}
	atBottom := !v.ready || v.viewport.AtBottom()
	if !v.ready {
		v.viewport = viewport.New(v.rect.W, v.rect.H)
		v.ready = true
	} else {
		v.viewport.Width = v.rect.W
		v.viewport.Height = v.rect.H
	}
	v.Refresh()
	if atBottom {
		v.viewport.GotoBottom()
	}
}

// Rect returns the list's frame.
func (v *ListView) Rect() geom.Rect { return v.rect }

// SetEmptyText sets the placeholder shown for an empty conversation.
func (v *ListView) SetEmptyText(s string) { v.empty = s }

// SetStyles replaces the styles after a theme change.
func (v *ListView) SetStyles(styles *Styles) {
	v.styles = styles
	v.Refresh()
}

// SetSelection marks the selected messages.
func (v *ListView) SetSelection(sel *presentation.SelectionState) {
	v.selection = nil
	if sel == nil {
		return
	}
	v.selection = make(map[presentation.MessageID]bool, len(sel.Selected))
	for _, id := range sel.Selected {
		v.selection[id] = true
	}
}

// SetMatch highlights the current search result and scrolls to it.
func (v *ListView) SetMatch(id presentation.MessageID) {
	v.match = id
	v.Refresh()
	if i := v.index(id); i >= 0 {
		v.scrollTo(i)
	}
}

// MoveCursor moves the message cursor, starting from the newest message.
func (v *ListView) MoveCursor(delta int) {
	n := v.store.Len()
	if n == 0 {
		v.cursor = -1
		return
	}
	if v.cursor < 0 {
		v.cursor = n
	}
	v.cursor = min(max(v.cursor+delta, 0), n-1)
	v.Refresh()
	v.scrollTo(v.cursor)
}

// ClearCursor removes the message cursor.
func (v *ListView) ClearCursor() {
	v.cursor = -1
	v.Refresh()
}

// Cursor returns the message under the cursor.
func (v *ListView) Cursor() (conversation.Message, bool) {
	msgs := v.store.Messages()
	if v.cursor < 0 || v.cursor >= len(msgs) {
		return conversation.Message{}, false
	}
	return msgs[v.cursor], true
}

// ScrollUp scrolls the viewport up.
func (v *ListView) ScrollUp(n int) { v.viewport.LineUp(n) }

// ScrollDown scrolls the viewport down.
func (v *ListView) ScrollDown(n int) { v.viewport.LineDown(n) }

// PageUp scrolls up by one page.
func (v *ListView) PageUp() { v.viewport.ViewUp() }

// PageDown scrolls down by one page.
func (v *ListView) PageDown() { v.viewport.ViewDown() }

// ScrollToBottom scrolls to the newest message.
func (v *ListView) ScrollToBottom() { v.viewport.GotoBottom() }

// AtBottom reports whether the newest message is visible.
func (v *ListView) AtBottom() bool { return !v.ready || v.viewport.AtBottom() }

// Refresh re-renders the messages into the viewport.
func (v *ListView) Refresh() {
	if !v.ready {
		return
	}
	msgs := v.store.Messages()
	v.offsets = v.offsets[:0]
	if v.cursor >= len(msgs) {
		v.cursor = len(msgs) - 1
	}

	var lines []string
	for i, m := range msgs {
		v.offsets = append(v.offsets, len(lines))
		lines = append(lines, v.renderMessage(i, m)...)
		lines = append(lines, "")
	}
	if len(lines) > 0 {
		lines = lines[:len(lines)-1]
	}
	v.viewport.SetContent(strings.Join(lines, "\n"))
}

func (v *ListView) renderMessage(i int, m conversation.Message) []string {
	gutter := "  "
	switch {
	case v.selection[m.ID]:
		gutter = v.styles.Selected.Render("● ")
	case i == v.cursor:
		gutter = v.styles.Selected.Render("▌ ")
	}

	author := v.styles.Incoming.Render(m.Author)
	if m.Outgoing {
		author = v.styles.Outgoing.Render(m.Author)
	}
	header := author
	if !m.Time.IsZero() {
		header += " " + v.styles.Timestamp.Render(m.Time.Format("15:04"))
	}
	if m.Edited {
		header += " " + v.styles.Timestamp.Render("(edited)")
	}

	out := []string{gutter + header}
	if m.ForwardedFrom != "" {
		out = append(out, "  "+v.styles.Timestamp.Render("Forwarded from "+m.ForwardedFrom))
	}
	if m.ReplyTo != nil {
		if orig, ok := v.store.Get(*m.ReplyTo); ok {
			quote := fit("↪ "+orig.Author+": "+v.rich.Plain(orig.Text), v.rect.W-2)
			out = append(out, "  "+v.styles.Timestamp.Render(quote))
		}
	}

	body := v.rich.Render(m.Text, v.rect.W-2)
	if m.ID == v.match {
		body = v.styles.SearchMatch.Render(body)
	}
	for _, line := range strings.Split(body, "\n") {
		out = append(out, "  "+line)
	}
	return out
}

func (v *ListView) index(id presentation.MessageID) int {
	for i, m := range v.store.Messages() {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (v *ListView) scrollTo(i int) {
	if !v.ready || i < 0 || i >= len(v.offsets) {
		return
	}
	line := v.offsets[i]
	if line < v.viewport.YOffset || line >= v.viewport.YOffset+v.viewport.Height {
		v.viewport.SetYOffset(max(line-v.viewport.Height/2, 0))
	}
}

// Lines renders the list as exactly Rect().H rows, newest content at the
// bottom.
func (v *ListView) Lines() []string {
	h := v.rect.H
	if h <= 0 {
		return nil
	}
	if v.store.Len() == 0 {
		msg := v.styles.Empty.Render(v.empty)
		block := lipgloss.Place(v.rect.W, h, lipgloss.Center, lipgloss.Center, msg)
		return strings.Split(block, "\n")
	}
	content := strings.Split(v.viewport.View(), "\n")
	rows := make([]string, h)
	// Short conversations sit at the bottom of the list.
	if total := v.viewport.TotalLineCount(); total < h {
		copy(rows[h-total:], content[:min(total, len(content))])
		return rows
	}
	copy(rows, content)
	return rows
}
