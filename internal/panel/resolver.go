package panel

import (
	"strconv"
	"strings"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Factory builds a panel instance for a resolved variant. It is supplied by
// the UI layer, which owns panel content.
type Factory interface {
	NewPanel(v Variant, state *presentation.State) Panel
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(v Variant, state *presentation.State) Panel

// NewPanel implements Factory.
func (f FactoryFunc) NewPanel(v Variant, state *presentation.State) Panel {
	return f(v, state)
}

// Resolver maps presentation state to the panel occupying each slot.
type Resolver struct {
	factory Factory
}

// NewResolver returns a resolver creating panels through f.
func NewResolver(f Factory) *Resolver {
	return &Resolver{factory: f}
}

// Resolve returns the panel that should occupy slot. It returns previous
// unchanged when the resolved variant is the one previous already shows, a
// new instance when the variant changed, and nil when the slot is empty.
func (r *Resolver) Resolve(slot Slot, state *presentation.State, previous Panel) Panel {
	v := VariantFor(slot, state)
	if v.IsZero() {
		return nil
	}
	if previous != nil && previous.Variant() == v {
		return previous
	}
	if r.factory == nil {
		return nil
	}
	return r.factory.NewPanel(v, state)
}

// ResolveAll resolves every slot against the currently installed set.
func (r *Resolver) ResolveAll(state *presentation.State, current Set) Set {
	var next Set
	for _, slot := range Slots {
		next[slot] = r.Resolve(slot, state, current[slot])
	}
	return next
}

// VariantFor computes the variant for slot. It is a pure function of state.
func VariantFor(slot Slot, state *presentation.State) Variant {
	if state == nil {
		return Variant{}
	}
	switch slot {
	case SlotTitleAccessory:
		return titleAccessoryVariant(state)
	case SlotInputPanel:
		return inputPanelVariant(state)
	case SlotAccessoryPanel:
		return AccessoryVariant(state)
	case SlotInputContextPanel:
		return inputContextVariant(state)
	case SlotInputSurface:
		return inputSurfaceVariant(state)
	default:
		return Variant{}
	}
}

func titleAccessoryVariant(state *presentation.State) Variant {
	if state.PinnedMessage == nil || state.Search != nil {
		return Variant{}
	}
	return Variant{Kind: KindPinnedMessage, Key: messageKey(state.PinnedMessage.MessageID)}
}

func inputPanelVariant(state *presentation.State) Variant {
	switch {
	case state.Interface.SelectionState != nil:
		return Variant{Kind: KindSelectionActions}
	case state.Search != nil:
		return Variant{Kind: KindSearchNavigation}
	default:
		return Variant{Kind: KindTextInput}
	}
}

// AccessoryVariant resolves the accessory slot. The first set field wins in
// the order edit, forward, reply, url preview.
func AccessoryVariant(state *presentation.State) Variant {
	iface := state.Interface
	if iface.SelectionState != nil || state.Search != nil {
		return Variant{}
	}
	switch {
	case iface.EditMessage != nil:
		return Variant{Kind: KindEdit, Key: messageKey(iface.EditMessage.MessageID)}
	case len(iface.ForwardMessageIDs) > 0:
		keys := make([]string, len(iface.ForwardMessageIDs))
		for i, id := range iface.ForwardMessageIDs {
			keys[i] = messageKey(id)
		}
		return Variant{Kind: KindForward, Key: strings.Join(keys, ",")}
	case iface.ReplyMessageID != nil:
		return Variant{Kind: KindReply, Key: messageKey(*iface.ReplyMessageID)}
	case iface.URLPreview != nil:
		if d := iface.ComposeDisableURLPreview; d != nil && *d == iface.URLPreview.URL {
			return Variant{}
		}
		return Variant{Kind: KindURLPreview, Key: iface.URLPreview.URL}
	default:
		return Variant{}
	}
}

func inputContextVariant(state *presentation.State) Variant {
	q := state.InputQueryResult
	if q == nil || state.Interface.SelectionState != nil {
		return Variant{}
	}
	switch q.Kind {
	case presentation.QueryMentions:
		return Variant{Kind: KindMentions}
	case presentation.QueryCommands:
		return Variant{Kind: KindCommands}
	case presentation.QueryHashtags:
		return Variant{Kind: KindHashtags}
	case presentation.QueryContextRequest:
		return Variant{Kind: KindInlineResults}
	default:
		return Variant{}
	}
}

func inputSurfaceVariant(state *presentation.State) Variant {
	switch state.InputMode {
	case presentation.InputModeMedia:
		return Variant{Kind: KindMediaPicker}
	case presentation.InputModeButtonKeyboard:
		return Variant{Kind: KindButtonKeyboard}
	default:
		return Variant{}
	}
}

// PlacementFor returns the placement an input context variant declares.
func PlacementFor(k Kind) Placement {
	if k == KindInlineResults {
		return PlacementOverInputPanel
	}
	return PlacementOverList
}

func messageKey(id presentation.MessageID) string {
	return strconv.FormatInt(int64(id), 10)
}
