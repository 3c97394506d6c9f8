package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/chatsurface/internal/presentation"
)

func ptr[T any](v T) *T { return &v }

func TestAccessoryVariant_Precedence(t *testing.T) {
	edit := &presentation.EditMessage{MessageID: 1}
	forward := []presentation.MessageID{2, 3}
	reply := ptr(presentation.MessageID(4))
	preview := &presentation.URLPreview{URL: "https://example.com"}

	// Every combination of the four targets.
	for mask := 0; mask < 16; mask++ {
		iface := presentation.InterfaceState{}
		if mask&1 != 0 {
			iface.EditMessage = edit
		}
		if mask&2 != 0 {
			iface.ForwardMessageIDs = forward
		}
		if mask&4 != 0 {
			iface.ReplyMessageID = reply
		}
		if mask&8 != 0 {
			iface.URLPreview = preview
		}

		var want Kind
		switch {
		case mask&1 != 0:
			want = KindEdit
		case mask&2 != 0:
			want = KindForward
		case mask&4 != 0:
			want = KindReply
		case mask&8 != 0:
			want = KindURLPreview
		default:
			want = KindNone
		}

		state := &presentation.State{Interface: iface}
		assert.Equal(t, want, AccessoryVariant(state).Kind, "mask %04b", mask)
	}
}

func TestAccessoryVariant_DismissedPreview(t *testing.T) {
	state := &presentation.State{Interface: presentation.InterfaceState{
		URLPreview:               &presentation.URLPreview{URL: "https://a.example"},
		ComposeDisableURLPreview: ptr("https://a.example"),
	}}
	assert.True(t, AccessoryVariant(state).IsZero())

	state.Interface.URLPreview = &presentation.URLPreview{URL: "https://b.example"}
	assert.Equal(t, KindURLPreview, AccessoryVariant(state).Kind)
}

func TestResolver_ReusesInstanceForSameVariant(t *testing.T) {
	f := &StaticFactory{Heights: map[Kind]int{KindReply: 2}}
	r := NewResolver(f)

	state := &presentation.State{Interface: presentation.InterfaceState{ReplyMessageID: ptr(presentation.MessageID(9))}}
	first := r.Resolve(SlotAccessoryPanel, state, nil)
	require.NotNil(t, first)

	// Unrelated change: same instance.
	changed := *state
	changed.Interface.ComposeInputState.Text = "hello"
	assert.Same(t, first, r.Resolve(SlotAccessoryPanel, &changed, first))

	// Different reply target: new instance.
	other := *state
	other.Interface.ReplyMessageID = ptr(presentation.MessageID(10))
	second := r.Resolve(SlotAccessoryPanel, &other, first)
	assert.NotSame(t, first, second)

	// Nothing set: empty slot.
	assert.Nil(t, r.Resolve(SlotAccessoryPanel, &presentation.State{}, second))
	assert.Len(t, f.Created, 2)
}

func TestVariantFor_Slots(t *testing.T) {
	tests := []struct {
		name  string
		slot  Slot
		state presentation.State
		want  Kind
	}{
		{"text input by default", SlotInputPanel, presentation.State{}, KindTextInput},
		{"selection replaces input", SlotInputPanel, presentation.State{Interface: presentation.InterfaceState{SelectionState: &presentation.SelectionState{}}}, KindSelectionActions},
		{"search replaces input", SlotInputPanel, presentation.State{Search: &presentation.SearchState{}}, KindSearchNavigation},
		{"no surface in text mode", SlotInputSurface, presentation.State{InputMode: presentation.InputModeText}, KindNone},
		{"media picker surface", SlotInputSurface, presentation.State{InputMode: presentation.InputModeMedia}, KindMediaPicker},
		{"button keyboard surface", SlotInputSurface, presentation.State{InputMode: presentation.InputModeButtonKeyboard}, KindButtonKeyboard},
		{"pinned title", SlotTitleAccessory, presentation.State{PinnedMessage: &presentation.PinnedMessage{MessageID: 1}}, KindPinnedMessage},
		{"pinned hidden during search", SlotTitleAccessory, presentation.State{PinnedMessage: &presentation.PinnedMessage{MessageID: 1}, Search: &presentation.SearchState{}}, KindNone},
		{"mentions context", SlotInputContextPanel, presentation.State{InputQueryResult: &presentation.InputQueryResult{Kind: presentation.QueryMentions}}, KindMentions},
		{"inline results context", SlotInputContextPanel, presentation.State{InputQueryResult: &presentation.InputQueryResult{Kind: presentation.QueryContextRequest}}, KindInlineResults},
		{"accessory hidden while selecting", SlotAccessoryPanel, presentation.State{Interface: presentation.InterfaceState{
			ReplyMessageID: ptr(presentation.MessageID(1)),
			SelectionState: &presentation.SelectionState{},
		}}, KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			got := VariantFor(tt.slot, &state)
			assert.Equal(t, tt.want, got.Kind)
			if got.Kind != KindNone {
				assert.Equal(t, tt.slot, got.Kind.Slot())
			}
		})
	}
}

func TestPlacementFor(t *testing.T) {
	assert.Equal(t, PlacementOverInputPanel, PlacementFor(KindInlineResults))
	assert.Equal(t, PlacementOverList, PlacementFor(KindMentions))
}

func TestParseKind(t *testing.T) {
	for k := range kindNames {
		got, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("sticker")
	assert.False(t, ok)
}
