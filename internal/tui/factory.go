package tui

import (
	"fmt"
	"strconv"

	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/richtext"
)

// mediaCells are the items of the media picker surface.
var mediaCells = []string{
	"👍", "👎", "❤️", "🔥", "🎉", "😂", "😮", "😢",
	"🙏", "👀", "🚀", "✅", "❌", "⏳", "🤔", "💯",
}

// Factory builds the concrete terminal panels. The text panel is created once
// and reused, so its history survives being replaced by search or selection.
type Factory struct {
	styles *Styles
	store  *conversation.Store
	rich   *richtext.Renderer
	text   *TextPanel
}

// NewFactory returns a factory drawing content from store.
func NewFactory(styles *Styles, store *conversation.Store, rich *richtext.Renderer) *Factory {
	return &Factory{styles: styles, store: store, rich: rich}
}

// TextPanel returns the shared text panel.
func (f *Factory) TextPanel() *TextPanel {
	if f.text == nil {
		f.text = NewTextPanel(f.styles)
	}
	return f.text
}

// NewPanel implements panel.Factory.
func (f *Factory) NewPanel(v panel.Variant, state *presentation.State) panel.Panel {
	strs := presentation.DefaultStrings()
	if state != nil && state.Strings != nil {
		strs = state.Strings
	}

	switch v.Kind {
	case panel.KindTextInput:
		return f.TextPanel()
	case panel.KindSelectionActions:
		return &selectionPanel{strings: strs, styles: f.styles}
	case panel.KindSearchNavigation:
		return &searchPanel{strings: strs, styles: f.styles}

	case panel.KindPinnedMessage:
		text := ""
		if state != nil && state.PinnedMessage != nil {
			text = f.rich.Plain(state.PinnedMessage.Text)
		}
		return &pinnedPanel{v: v, title: strs.PinnedTitle, text: text, styles: f.styles}

	case panel.KindReply:
		title, body := strs.ReplyTitle, ""
		if m, ok := f.message(v.Key); ok {
			title = strs.ReplyTitle + " " + m.Author
			body = f.rich.Plain(m.Text)
		}
		return &accessoryPanel{v: v, title: title, body: body, styles: f.styles}
	case panel.KindEdit:
		body := ""
		if m, ok := f.message(v.Key); ok {
			body = f.rich.Plain(m.Text)
		}
		return &accessoryPanel{v: v, title: strs.EditTitle, body: body, styles: f.styles}
	case panel.KindForward:
		n := 0
		if state != nil {
			n = len(state.Interface.ForwardMessageIDs)
		}
		body := "1 message"
		if n != 1 {
			body = fmt.Sprintf("%d messages", n)
		}
		return &accessoryPanel{v: v, title: strs.ForwardTitle, body: body, styles: f.styles}
	case panel.KindURLPreview:
		title, body := v.Key, ""
		if state != nil && state.Interface.URLPreview != nil {
			title = state.Interface.URLPreview.Title
			body = state.Interface.URLPreview.Description
		}
		return &accessoryPanel{v: v, title: title, body: body, styles: f.styles}

	case panel.KindMentions, panel.KindCommands, panel.KindHashtags, panel.KindInlineResults:
		p := &contextPanel{kind: v.Kind, styles: f.styles}
		p.sync(state)
		return p

	case panel.KindMediaPicker:
		return &gridPanel{
			kind:    v.Kind,
			title:   strs.MediaPickerTitle,
			cells:   mediaCells,
			columns: 8,
			height:  4,
			styles:  f.styles,
		}
	case panel.KindButtonKeyboard:
		var cells []string
		if f.store != nil {
			for _, c := range f.store.Commands() {
				cells = append(cells, "/"+c)
			}
		}
		return &gridPanel{
			kind:    v.Kind,
			title:   strs.ButtonKeyboardTitle,
			cells:   cells,
			columns: 3,
			height:  1 + max((len(cells)+2)/3, 1),
			styles:  f.styles,
		}
	}
	return nil
}

func (f *Factory) message(key string) (conversation.Message, bool) {
	if f.store == nil {
		return conversation.Message{}, false
	}
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil {
		return conversation.Message{}, false
	}
	return f.store.Get(presentation.MessageID(id))
}
