package surface

import (
	"log/slog"
	"strings"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

// MaxMessageLength is the longest text a single outgoing message carries, in
// runes. Longer drafts are split.
const MaxMessageLength = 4096

// TextHandlers are the coordinator's hooks into the text input panel.
type TextHandlers struct {
	// HeightChanged reports that the draft grew or shrank.
	HeightChanged func()
	// TextChanged reports an edit made by the user.
	TextChanged func(presentation.InputTextState)
	Send        func()
	Attach      func()
}

// TextInput is implemented by the text input panel.
type TextInput interface {
	panel.Panel
	InputState() presentation.InputTextState
	// SetInputState replaces the draft without reporting TextChanged.
	SetInputState(presentation.InputTextState)
	SetHandlers(TextHandlers)
}

// OutgoingKind distinguishes new text from forwarded messages.
type OutgoingKind int

const (
	OutgoingText OutgoingKind = iota
	OutgoingForward
)

// Outgoing is one message produced by a send.
type Outgoing struct {
	Kind    OutgoingKind
	Text    string
	ReplyTo *presentation.MessageID
	// Forward is the source message of an OutgoingForward.
	Forward presentation.MessageID
}

// SendMessage commits the draft shown by the text panel. An edit in progress
// is handed to EditMessage; otherwise the draft is split into messages, the
// pending forwards are appended, and the reply and forward targets are
// cleared.
func (c *Coordinator) SendMessage() {
	t := c.textInput()
	if t == nil || c.state == nil {
		return
	}
	iface := c.state.Interface.WithUpdatedEffectiveInputState(t.InputState())

	if iface.EditMessage != nil {
		if c.cb.EditMessage != nil {
			c.cb.EditMessage(*iface.EditMessage)
		}
		return
	}

	var out []Outgoing
	for _, text := range SplitText(strings.TrimSpace(iface.ComposeInputState.Text), MaxMessageLength) {
		out = append(out, Outgoing{Kind: OutgoingText, Text: text, ReplyTo: iface.ReplyMessageID})
	}
	for _, id := range iface.ForwardMessageIDs {
		out = append(out, Outgoing{Kind: OutgoingForward, Forward: id})
	}
	if len(out) == 0 {
		return
	}

	c.ignoreUpdateH = true
	t.SetInputState(presentation.InputTextState{})
	c.requestInterfaceStateUpdate(false, func(s presentation.InterfaceState) presentation.InterfaceState {
		s.ComposeInputState = presentation.InputTextState{}
		return s.WithUpdatedReplyMessageID(nil).
			WithUpdatedForwardMessageIDs(nil).
			WithUpdatedComposeDisableURLPreview(nil)
	})
	c.ignoreUpdateH = false

	slog.Debug("sending messages", "count", len(out))
	if c.cb.SendMessages != nil {
		c.cb.SendMessages(out)
	}
	c.requestLayout(anim.Animated(c.metrics.SpringDuration, anim.CurveSpring))
}

// SplitText breaks text into chunks of at most limit runes, preferring to
// break after a newline or space. Empty input yields no chunks.
func SplitText(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if limit <= 0 {
		return []string{text}
	}
	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' || runes[i-1] == ' ' {
				cut = i
				break
			}
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
	}
	if chunk := strings.TrimSpace(string(runes)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func (c *Coordinator) textInput() TextInput {
	t, _ := c.installed(panel.SlotInputPanel).(TextInput)
	return t
}
