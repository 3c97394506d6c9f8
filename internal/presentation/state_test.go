package presentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_Equal(t *testing.T) {
	theme := DefaultTheme()
	strs := DefaultStrings()
	base := State{InputMode: InputModeText, Theme: theme, Strings: strs}

	assert.True(t, base.Equal(base))

	withReply := base.UpdatedInterfaceState(func(s InterfaceState) InterfaceState {
		return s.WithUpdatedReplyMessageID(Ptr(MessageID(7)))
	})
	assert.False(t, base.Equal(withReply))

	sameReply := base.UpdatedInterfaceState(func(s InterfaceState) InterfaceState {
		return s.WithUpdatedReplyMessageID(Ptr(MessageID(7)))
	})
	assert.True(t, withReply.Equal(sameReply), "pointers to equal values are structurally equal")

	// Theme is compared by identity, not by content.
	otherTheme := *theme
	assert.False(t, base.Equal(base.WithTheme(&otherTheme, base.Wallpaper)))
}

func TestState_EqualAfterClearingForward(t *testing.T) {
	base := State{InputMode: InputModeText}
	forwarding := base.UpdatedInterfaceState(func(s InterfaceState) InterfaceState {
		return s.WithUpdatedForwardMessageIDs([]MessageID{1, 2})
	})
	assert.False(t, base.Equal(forwarding))

	cleared := forwarding.UpdatedInterfaceState(func(s InterfaceState) InterfaceState {
		return s.WithUpdatedForwardMessageIDs([]MessageID{})
	})
	assert.Nil(t, cleared.Interface.ForwardMessageIDs)
	assert.True(t, base.Equal(cleared), "an empty forward list equals none")
}

func TestInterfaceState_EffectiveInputState(t *testing.T) {
	s := InterfaceState{ComposeInputState: InputTextState{Text: "draft"}}
	assert.Equal(t, "draft", s.EffectiveInputState().Text)

	s = s.WithUpdatedEditMessage(&EditMessage{MessageID: 3, InputState: InputTextState{Text: "old"}})
	assert.Equal(t, "old", s.EffectiveInputState().Text)

	updated := s.WithUpdatedEffectiveInputState(InputTextState{Text: "new"})
	assert.Equal(t, "new", updated.EditMessage.InputState.Text)
	assert.Equal(t, "draft", updated.ComposeInputState.Text)
	assert.Equal(t, "old", s.EditMessage.InputState.Text, "original value must not change")
}

func TestStrings_Merge(t *testing.T) {
	custom := Strings{InputPlaceholder: "Say something"}
	merged := custom.Merge(DefaultStrings())
	assert.Equal(t, "Say something", merged.InputPlaceholder)
	assert.Equal(t, DefaultStrings().ReplyTitle, merged.ReplyTitle)
}

func TestParseInputMode(t *testing.T) {
	m, ok := ParseInputMode("button-keyboard")
	assert.True(t, ok)
	assert.Equal(t, InputModeButtonKeyboard, m)

	_, ok = ParseInputMode("voice")
	assert.False(t, ok)
}
