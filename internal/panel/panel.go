// Package panel defines the five panel slots of the chat surface, the closed
// set of panel variants that can occupy them, and the capability interfaces
// every panel implementation provides.
package panel

import (
	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/presentation"
)

// Slot is one of the fixed regions of the chat surface.
type Slot int

const (
	SlotTitleAccessory Slot = iota
	SlotInputPanel
	SlotAccessoryPanel
	SlotInputContextPanel
	SlotInputSurface

	// SlotCount is the number of slots.
	SlotCount
)

// Slots lists every slot in resolution order.
var Slots = [SlotCount]Slot{
	SlotTitleAccessory,
	SlotInputPanel,
	SlotAccessoryPanel,
	SlotInputContextPanel,
	SlotInputSurface,
}

func (s Slot) String() string {
	switch s {
	case SlotTitleAccessory:
		return "title-accessory"
	case SlotInputPanel:
		return "input-panel"
	case SlotAccessoryPanel:
		return "accessory-panel"
	case SlotInputContextPanel:
		return "input-context-panel"
	case SlotInputSurface:
		return "input-surface"
	default:
		return "unknown"
	}
}

// Kind enumerates every panel variant across all slots.
type Kind int

const (
	KindNone Kind = iota

	// Title accessory variants.
	KindPinnedMessage

	// Input panel variants.
	KindTextInput
	KindSelectionActions
	KindSearchNavigation

	// Accessory panel variants.
	KindEdit
	KindForward
	KindReply
	KindURLPreview

	// Input context panel variants.
	KindMentions
	KindCommands
	KindHashtags
	KindInlineResults

	// Input surface variants.
	KindMediaPicker
	KindButtonKeyboard
)

var kindNames = map[Kind]string{
	KindNone:             "none",
	KindPinnedMessage:    "pinned-message",
	KindTextInput:        "text-input",
	KindSelectionActions: "selection-actions",
	KindSearchNavigation: "search-navigation",
	KindEdit:             "edit",
	KindForward:          "forward",
	KindReply:            "reply",
	KindURLPreview:       "url-preview",
	KindMentions:         "mentions",
	KindCommands:         "commands",
	KindHashtags:         "hashtags",
	KindInlineResults:    "inline-results",
	KindMediaPicker:      "media-picker",
	KindButtonKeyboard:   "button-keyboard",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindNone, false
}

// Slot returns the slot a kind belongs to.
func (k Kind) Slot() Slot {
	switch k {
	case KindPinnedMessage:
		return SlotTitleAccessory
	case KindTextInput, KindSelectionActions, KindSearchNavigation:
		return SlotInputPanel
	case KindEdit, KindForward, KindReply, KindURLPreview:
		return SlotAccessoryPanel
	case KindMentions, KindCommands, KindHashtags, KindInlineResults:
		return SlotInputContextPanel
	case KindMediaPicker, KindButtonKeyboard:
		return SlotInputSurface
	default:
		return SlotCount
	}
}

// Variant is the resolved identity of a panel. Two resolutions that produce
// equal variants share one panel instance.
type Variant struct {
	Kind Kind
	// Key carries the data that makes two variants of the same kind distinct,
	// such as the reply target's message id.
	Key string
}

// IsZero reports whether v names no panel.
func (v Variant) IsZero() bool { return v.Kind == KindNone }

func (v Variant) String() string {
	if v.Key == "" {
		return v.Kind.String()
	}
	return v.Kind.String() + ":" + v.Key
}

// Panel is the capability every panel variant implements.
type Panel interface {
	Variant() Variant
	// UpdateLayout lays the panel out at width and returns its height.
	UpdateLayout(width int, tr anim.Transition, state *presentation.State) int
}

// Measurer is implemented by accessory panels, which report their height
// without performing a layout.
type Measurer interface {
	Measure(width int) int
}

// Dismissable panels emit a dismiss request, e.g. from a close button.
type Dismissable interface {
	SetDismissHandler(fn func())
}

// Focusable is implemented by the text input panel.
type Focusable interface {
	EnsureFocused()
	EnsureUnfocused()
	Focused() bool
}

// Placement decides which rectangle an input context panel occupies.
type Placement int

const (
	// PlacementOverList covers the area between the title accessory and the
	// top of the input stack.
	PlacementOverList Placement = iota
	// PlacementOverInputPanel extends over the input panel.
	PlacementOverInputPanel
)

func (p Placement) String() string {
	if p == PlacementOverInputPanel {
		return "over-input-panel"
	}
	return "over-list"
}

// ContextPanel is an input context (autocomplete) panel.
type ContextPanel interface {
	Panel
	Placement() Placement
	// LayoutIn lays the panel out inside a rectangle of the given size.
	LayoutIn(size geom.Size, tr anim.Transition, state *presentation.State)
	// AnimateOut runs the panel's own exit animation and calls done after it.
	AnimateOut(done func())
}

// Set holds at most one panel per slot.
type Set [SlotCount]Panel

// Get returns the panel in slot, or nil.
func (s *Set) Get(slot Slot) Panel {
	if slot < 0 || slot >= SlotCount {
		return nil
	}
	return s[slot]
}

// Same reports whether a and b are the same instance. Both nil counts as same.
func Same(a, b Panel) bool {
	return a == b
}
