package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := New(Options{Store: conversation.New(conversation.Demo())})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// settle runs frame ticks far enough apart that every animation completes.
func settle(m *Model) {
	now := time.Now()
	for i := 0; i < 8; i++ {
		now = now.Add(time.Second)
		m.Update(frameMsg(now))
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := New(Options{})
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q, want Loading...", got)
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	view := m.View()
	rows := strings.Split(view, "\n")
	if len(rows) != 24 {
		t.Fatalf("view has %d rows, want 24", len(rows))
	}
	for i, row := range rows {
		if w := ansi.StringWidth(row); w != 80 {
			t.Errorf("row %d width = %d, want 80", i, w)
		}
	}
	if !strings.Contains(ansi.Strip(rows[0]), "Release planning") {
		t.Errorf("header row = %q, want chat title", ansi.Strip(rows[0]))
	}
}

func TestModel_TextInputInstalled(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	h := m.Surface().Host(panel.SlotInputPanel)
	if h == nil {
		t.Fatal("no input panel installed")
	}
	text, ok := h.Panel.(*TextPanel)
	if !ok {
		t.Fatalf("input panel is %T, want *TextPanel", h.Panel)
	}
	if !text.Focused() {
		t.Error("text panel should be focused in text mode")
	}
	if f, ok := m.Frame(panel.SlotInputPanel); !ok || f.Empty() {
		t.Errorf("input panel frame = %v, %v", f, ok)
	}
}

func TestModel_TypeAndSend(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	typeText(m, "hello")
	if got := m.State().Interface.ComposeInputState.Text; got != "hello" {
		t.Fatalf("draft = %q, want hello", got)
	}

	before := m.store.Len()
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.store.Len(); got != before+1 {
		t.Fatalf("store has %d messages, want %d", got, before+1)
	}
	msgs := m.store.Messages()
	if last := msgs[len(msgs)-1]; last.Text != "hello" || !last.Outgoing {
		t.Errorf("last message = %+v", last)
	}
	if got := m.State().Interface.ComposeInputState.Text; got != "" {
		t.Errorf("draft after send = %q, want empty", got)
	}
}

func TestModel_CommandCompletion(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	typeText(m, "/")
	q := m.State().InputQueryResult
	if q == nil || q.Kind != presentation.QueryCommands {
		t.Fatalf("query result = %+v, want commands", q)
	}
	settle(m)
	if m.installedContext() == nil {
		t.Fatal("no context panel installed")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := m.State().Interface.ComposeInputState.Text; got != "/help " {
		t.Errorf("draft = %q, want %q", got, "/help ")
	}
	if m.State().InputQueryResult != nil {
		t.Error("query result should clear after completion")
	}
}

func TestModel_ReplyAndDismiss(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	reply := m.State().Interface.ReplyMessageID
	if reply == nil {
		t.Fatal("reply target not set")
	}
	last, _ := m.lastMessage(false)
	if *reply != last.ID {
		t.Errorf("reply target = %d, want %d", *reply, last.ID)
	}
	settle(m)
	if h := m.Surface().Host(panel.SlotAccessoryPanel); h == nil || h.Panel.Variant().Kind != panel.KindReply {
		t.Fatal("reply accessory not installed")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.State().Interface.ReplyMessageID != nil {
		t.Error("esc should dismiss the reply")
	}
	if m.State().InputMode != presentation.InputModeText {
		t.Errorf("input mode = %v, want text", m.State().InputMode)
	}
}

func TestModel_EscLeavesTextMode(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.State().InputMode != presentation.InputModeNone {
		t.Errorf("input mode = %v, want none", m.State().InputMode)
	}
	settle(m)
	if h := m.Surface().Host(panel.SlotInputPanel); h == nil || h.Panel.(*TextPanel).Focused() {
		t.Error("text panel should stay installed without focus")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	if m.State().InputMode != presentation.InputModeText {
		t.Errorf("input mode = %v, want text", m.State().InputMode)
	}
}

func TestModel_Search(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if m.State().Search == nil {
		t.Fatal("search not active")
	}
	typeText(m, "release")
	s := m.State().Search
	if s.Query != "release" || s.ResultCount != 2 {
		t.Errorf("search = %+v, want query release with 2 results", s)
	}
	settle(m)
	if h := m.Surface().Host(panel.SlotInputPanel); h == nil || h.Panel.Variant().Kind != panel.KindSearchNavigation {
		t.Error("search navigation should replace the text panel")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.State().Search != nil {
		t.Error("esc should end the search")
	}
}

func TestModel_SelectionDelete(t *testing.T) {
	m := newTestModel(t)
	settle(m)
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	c, ok := m.list.Cursor()
	if !ok {
		t.Fatal("no cursor after up")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	sel := m.State().Interface.SelectionState
	if sel == nil || len(sel.Selected) != 1 || sel.Selected[0] != c.ID {
		t.Fatalf("selection = %+v, want [%d]", sel, c.ID)
	}

	before := m.store.Len()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if got := m.store.Len(); got != before-1 {
		t.Errorf("store has %d messages, want %d", got, before-1)
	}
	if m.State().Interface.SelectionState != nil {
		t.Error("delete should leave selection mode")
	}
}

func TestModel_MediaPicker(t *testing.T) {
	m := newTestModel(t)
	settle(m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
	if m.State().InputMode != presentation.InputModeMedia {
		t.Fatalf("input mode = %v, want media", m.State().InputMode)
	}
	settle(m)
	if m.installedGrid() == nil {
		t.Fatal("media picker not installed")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.State().Interface.ComposeInputState.Text; got != mediaCells[1] {
		t.Errorf("draft = %q, want %q", got, mediaCells[1])
	}
	if m.State().InputMode != presentation.InputModeText {
		t.Errorf("input mode = %v, want text", m.State().InputMode)
	}
}

func TestCanvas_Put(t *testing.T) {
	c := newCanvas(10, 2)
	c.put(2, 0, "abc")
	c.put(8, 1, "xyz")
	c.put(0, 5, "ignored")

	if got := c.rows[0]; got != "  abc     " {
		t.Errorf("row 0 = %q", got)
	}
	if got := c.rows[1]; got != "        xy" {
		t.Errorf("row 1 = %q", got)
	}

	c.put(3, 0, "")
	if got := c.rows[0]; got != "  abc     " {
		t.Errorf("empty put changed row 0 to %q", got)
	}
}
