package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/paths"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/surface"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.header.SetWidth(msg.Width)
		m.helpBar.SetWidth(msg.Width)
		m.layout(anim.Immediate)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Save) {
			cmds = append(cmds, m.save())
			break
		}
		cmds = append(cmds, m.handleKey(msg))

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.handleClick(msg.X, msg.Y)
		}

	case frameMsg:
		m.ticking = false
		m.surface.Tick(time.Time(msg))
		for _, p := range m.contextPanels() {
			p.Tick()
		}

	case configReloadMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else if msg.Config != nil {
			m.applyConfig(msg.Config)
		}
		cmds = append(cmds, waitForReload(m.reloads))

	case typingExpiredMsg:
		if !msg.Until.Before(m.typingUntil) {
			m.header.SetTyping(false)
		}

	case clearErrorMsg:
		m.helpBar.ClearError()

	case savedMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
		} else {
			m.transcriptPath = msg.Path
			slog.Info("transcript saved", "path", msg.Path)
		}

	default:
		// Cursor blink and other component messages.
		if text := m.factory.TextPanel(); text.Focused() {
			cmds = append(cmds, text.Update(msg))
		}
	}

	cmds = append(cmds, m.cmds...)
	m.cmds = nil
	cmds = append(cmds, m.ensureTicking())
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch ModeOf(&m.state) {
	case ModeSelection:
		m.selectionKey(msg)
	case ModeSearch:
		m.searchKey(msg)
	case ModeText:
		return m.textKey(msg)
	case ModeSurface:
		m.surfaceKey(msg)
	default:
		m.normalKey(msg)
	}
	return nil
}

func (m *Model) textKey(msg tea.KeyMsg) tea.Cmd {
	text := m.factory.TextPanel()
	// Printable input always goes to the draft.
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text.ResetHistoryNavigation()
		return text.Update(msg)
	}
	ctx := m.installedContext()

	switch {
	case key.Matches(msg, m.keys.Cancel):
		switch {
		case m.state.InputQueryResult != nil:
			m.setState(m.state.WithInputQueryResult(nil), true, true)
		case m.dismissAccessory():
		default:
			m.setState(m.state.WithInputMode(presentation.InputModeNone), true, true)
		}
	case key.Matches(msg, m.keys.Newline):
		text.InsertNewline()
	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Complete):
		if ctx != nil {
			if item, ok := ctx.Selected(); ok {
				m.complete(item)
				return nil
			}
		}
		if key.Matches(msg, m.keys.Submit) {
			text.Send()
		}
	case key.Matches(msg, m.keys.HistoryUp):
		if ctx != nil {
			ctx.Move(-1)
		} else if text.ContentHeight() == 1 || text.Browsing() {
			text.HistoryUp()
		} else {
			return text.Update(msg)
		}
	case key.Matches(msg, m.keys.HistoryDown):
		if ctx != nil {
			ctx.Move(1)
		} else if text.Browsing() {
			text.HistoryDown()
		} else {
			return text.Update(msg)
		}
	case key.Matches(msg, m.keys.Attach):
		text.Attach()
	case key.Matches(msg, m.keys.BotKeyboard):
		m.toggleInputMode(presentation.InputModeButtonKeyboard)
	case key.Matches(msg, m.keys.Search):
		m.activateSearch()
	case key.Matches(msg, m.keys.Reply):
		m.replyToCursor()
	case key.Matches(msg, m.keys.Edit):
		m.editLast()
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	default:
		return text.Update(msg)
	}
	return nil
}

func (m *Model) normalKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.FocusText):
		m.setState(m.state.WithInputMode(presentation.InputModeText), true, true)
	case key.Matches(msg, m.keys.Cancel):
		if !m.dismissAccessory() {
			m.list.ClearCursor()
		}
	case key.Matches(msg, m.keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
	case key.Matches(msg, m.keys.Bottom):
		m.list.ClearCursor()
		m.list.ScrollToBottom()
	case key.Matches(msg, m.keys.Reply):
		m.replyToCursor()
	case key.Matches(msg, m.keys.Edit):
		m.editLast()
	case key.Matches(msg, m.keys.Forward):
		if c, ok := m.list.Cursor(); ok {
			m.forward([]presentation.MessageID{c.ID})
		}
	case key.Matches(msg, m.keys.Pin):
		m.togglePin()
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.list.Cursor(); ok {
			m.deleteMessages(c.ID)
		}
	case key.Matches(msg, m.keys.Select):
		if c, ok := m.list.Cursor(); ok {
			m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
				return s.WithUpdatedSelectionState(&presentation.SelectionState{Selected: []presentation.MessageID{c.ID}})
			}), true, true)
		}
	case key.Matches(msg, m.keys.Search):
		m.activateSearch()
	case key.Matches(msg, m.keys.Attach):
		m.toggleInputMode(presentation.InputModeMedia)
	case key.Matches(msg, m.keys.BotKeyboard):
		m.toggleInputMode(presentation.InputModeButtonKeyboard)
	}
}

func (m *Model) surfaceKey(msg tea.KeyMsg) {
	grid := m.installedGrid()
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.setState(m.state.WithInputMode(presentation.InputModeNone), true, true)
	case key.Matches(msg, m.keys.FocusText):
		m.setState(m.state.WithInputMode(presentation.InputModeText), true, true)
	case key.Matches(msg, m.keys.Attach):
		m.toggleInputMode(presentation.InputModeMedia)
	case key.Matches(msg, m.keys.BotKeyboard):
		m.toggleInputMode(presentation.InputModeButtonKeyboard)
	case grid == nil:
	case key.Matches(msg, m.keys.Left):
		grid.Move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		grid.Move(1, 0)
	case key.Matches(msg, m.keys.Up):
		grid.Move(0, -1)
	case key.Matches(msg, m.keys.Down):
		grid.Move(0, 1)
	case key.Matches(msg, m.keys.Submit):
		m.activateGrid(grid)
	}
}

func (m *Model) searchKey(msg tea.KeyMsg) {
	search := *m.state.Search
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.surface.Tap()
		return
	case msg.Type == tea.KeyUp, key.Matches(msg, m.keys.Submit):
		if search.ResultCount > 0 {
			search.ResultIndex = (search.ResultIndex + 1) % search.ResultCount
		}
	case msg.Type == tea.KeyDown:
		if search.ResultCount > 0 {
			search.ResultIndex = (search.ResultIndex - 1 + search.ResultCount) % search.ResultCount
		}
	case msg.Type == tea.KeyBackspace:
		r := []rune(search.Query)
		if len(r) == 0 {
			return
		}
		search.Query = string(r[:len(r)-1])
		m.runSearch(&search)
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		search.Query += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			search.Query += " "
		}
		m.runSearch(&search)
	default:
		return
	}
	if search.ResultCount > 0 {
		m.list.SetMatch(m.searchResults[search.ResultIndex])
	} else {
		m.list.SetMatch(0)
	}
	m.setState(m.state.WithSearch(&search), false, true)
}

func (m *Model) runSearch(search *presentation.SearchState) {
	m.searchResults = m.store.Search(search.Query)
	search.ResultCount = len(m.searchResults)
	search.ResultIndex = 0
}

func (m *Model) selectionKey(msg tea.KeyMsg) {
	sel := m.state.Interface.SelectionState.Selected
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endSelection()
	case key.Matches(msg, m.keys.Up):
		m.list.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.list.MoveCursor(1)
	case key.Matches(msg, m.keys.Toggle):
		c, ok := m.list.Cursor()
		if !ok {
			return
		}
		next := make([]presentation.MessageID, 0, len(sel)+1)
		found := false
		for _, id := range sel {
			if id == c.ID {
				found = true
				continue
			}
			next = append(next, id)
		}
		if !found {
			next = append(next, c.ID)
		}
		if len(next) == 0 {
			m.endSelection()
			return
		}
		m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
			return s.WithUpdatedSelectionState(&presentation.SelectionState{Selected: next})
		}), true, true)
	case key.Matches(msg, m.keys.Delete):
		m.deleteMessages(sel...)
		m.endSelection()
	case key.Matches(msg, m.keys.Forward):
		ids := append([]presentation.MessageID(nil), sel...)
		m.endSelection()
		m.forward(ids)
	}
}

func (m *Model) endSelection() {
	m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedSelectionState(nil)
	}), true, true)
}

func (m *Model) activateSearch() {
	m.searchResults = nil
	m.setState(m.state.WithSearch(&presentation.SearchState{}).WithInputMode(presentation.InputModeNone), true, true)
}

func (m *Model) replyToCursor() {
	target, ok := m.list.Cursor()
	if !ok {
		target, ok = m.lastMessage(false)
	}
	if !ok {
		return
	}
	msgID := target.ID
	m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedReplyMessageID(&msgID)
	}).WithInputMode(presentation.InputModeText), true, true)
}

// editLast edits the outgoing message under the cursor, or the newest one.
func (m *Model) editLast() {
	target, ok := m.list.Cursor()
	if !ok || !target.Outgoing {
		target, ok = m.lastMessage(true)
	}
	if !ok {
		return
	}
	edit := &presentation.EditMessage{
		MessageID:  target.ID,
		InputState: presentation.InputTextState{Text: target.Text},
	}
	m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedEditMessage(edit)
	}).WithInputMode(presentation.InputModeText), true, true)
}

func (m *Model) forward(ids []presentation.MessageID) {
	m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedForwardMessageIDs(ids)
	}).WithInputMode(presentation.InputModeText), true, true)
}

func (m *Model) togglePin() {
	c, ok := m.list.Cursor()
	if !ok {
		return
	}
	var target *presentation.MessageID
	if p := m.store.Pinned(); p == nil || p.MessageID != c.ID {
		target = &c.ID
	}
	if err := m.store.Pin(target); err != nil {
		m.setError(err)
		return
	}
	m.setState(m.state, true, false)
}

func (m *Model) deleteMessages(ids ...presentation.MessageID) {
	n := m.store.Delete(ids...)
	slog.Debug("messages deleted", "count", n)
	m.list.Refresh()
	m.setState(m.state, true, false)
}

func (m *Model) lastMessage(outgoing bool) (conversation.Message, bool) {
	msgs := m.store.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Outgoing == outgoing {
			return msgs[i], true
		}
	}
	return conversation.Message{}, false
}

// dismissAccessory closes the installed accessory panel, as its close button
// would. It reports whether there was one.
func (m *Model) dismissAccessory() bool {
	h := m.surface.Host(panel.SlotAccessoryPanel)
	if h == nil {
		return false
	}
	a, ok := h.Panel.(*accessoryPanel)
	if !ok {
		return false
	}
	a.Dismiss()
	return true
}

func (m *Model) complete(item string) {
	text := m.factory.TextPanel()
	q := m.state.InputQueryResult
	if q != nil && q.Kind == presentation.QueryContextRequest {
		text.Complete(item)
		return
	}
	text.Complete(conversation.Complete(text.Value(), q, item))
}

func (m *Model) activateGrid(g *gridPanel) {
	item, ok := g.Selected()
	if !ok {
		return
	}
	switch g.kind {
	case panel.KindMediaPicker:
		text := m.factory.TextPanel()
		text.Complete(text.Value() + item)
		m.setState(m.state.WithInputMode(presentation.InputModeText), true, true)
	case panel.KindButtonKeyboard:
		m.sendMessages([]surface.Outgoing{{Kind: surface.OutgoingText, Text: item}})
		m.setState(m.state.WithInputMode(presentation.InputModeText), true, true)
	}
}

func (m *Model) installedContext() *contextPanel {
	if h := m.surface.Host(panel.SlotInputContextPanel); h != nil {
		if p, ok := h.Panel.(*contextPanel); ok {
			return p
		}
	}
	return nil
}

func (m *Model) installedGrid() *gridPanel {
	if h := m.surface.Host(panel.SlotInputSurface); h != nil {
		if p, ok := h.Panel.(*gridPanel); ok {
			return p
		}
	}
	return nil
}

// handleClick routes a left click: the accessory close button, an
// autocomplete row, or a tap on the message list.
func (m *Model) handleClick(x, y int) {
	if h := m.surface.Host(panel.SlotAccessoryPanel); h != nil {
		f := h.Node.Frame
		if y == f.Y && x >= f.MaxX()-3 {
			m.dismissAccessory()
			return
		}
	}
	if ctx := m.installedContext(); ctx != nil {
		if h := m.surface.Host(panel.SlotInputContextPanel); h != nil {
			f := h.Node.Frame
			n := min(len(ctx.items), f.H)
			if row := y - (f.MaxY() - n); row >= 0 && row < n {
				ctx.selected = len(ctx.items) - n + row
				if item, ok := ctx.Selected(); ok {
					m.complete(item)
				}
				return
			}
		}
	}
	r := m.list.Rect()
	if y >= r.Y && y < r.MaxY() {
		m.surface.Tap()
	}
}

func (m *Model) save() tea.Cmd {
	store, path, session := m.store, m.transcriptPath, m.session
	return func() tea.Msg {
		if path == "" {
			p, err := paths.TranscriptPath(session)
			if err != nil {
				return savedMsg{Err: err}
			}
			path = p
		}
		return savedMsg{Path: path, Err: store.Save(path)}
	}
}
