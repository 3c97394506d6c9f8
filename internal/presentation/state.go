// Package presentation holds the immutable presentation snapshot that drives
// panel resolution and layout of the chat surface.
//
// A State is replaced wholesale on every update. Builders return modified
// copies; nothing in this package mutates a value in place.
package presentation

import (
	"reflect"
	"slices"
)

// InputMode selects what occupies the area below the input panel.
type InputMode int

const (
	// InputModeNone shows no keyboard and no input surface.
	InputModeNone InputMode = iota
	// InputModeText means the text panel holds focus and the platform keyboard is up.
	InputModeText
	// InputModeMedia replaces the keyboard with the media picker surface.
	InputModeMedia
	// InputModeButtonKeyboard replaces the keyboard with a bot reply keyboard.
	InputModeButtonKeyboard
)

func (m InputMode) String() string {
	switch m {
	case InputModeNone:
		return "none"
	case InputModeText:
		return "text"
	case InputModeMedia:
		return "media"
	case InputModeButtonKeyboard:
		return "button-keyboard"
	default:
		return "unknown"
	}
}

// ParseInputMode is the inverse of InputMode.String.
func ParseInputMode(s string) (InputMode, bool) {
	for m := InputModeNone; m <= InputModeButtonKeyboard; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return InputModeNone, false
}

// MessageID identifies a message in the conversation.
type MessageID int64

// InputTextState is the content of a text draft.
type InputTextState struct {
	Text           string
	SelectionStart int
	SelectionEnd   int
}

// EditMessage is an in-progress edit of an existing message.
type EditMessage struct {
	MessageID  MessageID
	InputState InputTextState
}

// URLPreview is a resolved link preview for the current draft.
type URLPreview struct {
	URL         string
	Title       string
	Description string
}

// SelectionState is the multi-select mode of the message list.
type SelectionState struct {
	Selected []MessageID
}

// InterfaceState is the user-owned part of the presentation: drafts and
// targets of pending reply/forward/edit actions.
type InterfaceState struct {
	ComposeInputState InputTextState
	EditMessage       *EditMessage
	ReplyMessageID    *MessageID
	ForwardMessageIDs []MessageID

	// ComposeDisableURLPreview holds the URL whose preview was dismissed.
	ComposeDisableURLPreview *string
	URLPreview               *URLPreview

	SelectionState                *SelectionState
	ClosedButtonKeyboardMessageID *MessageID
}

// EffectiveInputState returns the draft being typed: the edit draft while
// editing, otherwise the compose draft.
func (s InterfaceState) EffectiveInputState() InputTextState {
	if s.EditMessage != nil {
		return s.EditMessage.InputState
	}
	return s.ComposeInputState
}

// WithUpdatedEffectiveInputState stores the draft where EffectiveInputState reads it.
func (s InterfaceState) WithUpdatedEffectiveInputState(in InputTextState) InterfaceState {
	if s.EditMessage != nil {
		edit := *s.EditMessage
		edit.InputState = in
		s.EditMessage = &edit
		return s
	}
	s.ComposeInputState = in
	return s
}

// WithUpdatedReplyMessageID sets or clears the reply target.
func (s InterfaceState) WithUpdatedReplyMessageID(id *MessageID) InterfaceState {
	s.ReplyMessageID = id
	return s
}

// WithUpdatedForwardMessageIDs sets or clears the forward targets. An empty
// list clears them.
func (s InterfaceState) WithUpdatedForwardMessageIDs(ids []MessageID) InterfaceState {
	if len(ids) == 0 {
		s.ForwardMessageIDs = nil
		return s
	}
	s.ForwardMessageIDs = slices.Clone(ids)
	return s
}

// WithUpdatedEditMessage sets or clears the edit target.
func (s InterfaceState) WithUpdatedEditMessage(edit *EditMessage) InterfaceState {
	s.EditMessage = edit
	return s
}

// WithUpdatedComposeDisableURLPreview records a dismissed preview URL.
func (s InterfaceState) WithUpdatedComposeDisableURLPreview(url *string) InterfaceState {
	s.ComposeDisableURLPreview = url
	return s
}

// WithUpdatedURLPreview replaces the cached link preview.
func (s InterfaceState) WithUpdatedURLPreview(p *URLPreview) InterfaceState {
	s.URLPreview = p
	return s
}

// WithUpdatedSelectionState enters, updates or leaves multi-select mode.
func (s InterfaceState) WithUpdatedSelectionState(sel *SelectionState) InterfaceState {
	s.SelectionState = sel
	return s
}

// WithUpdatedClosedButtonKeyboardMessageID records the dismissed bot keyboard.
func (s InterfaceState) WithUpdatedClosedButtonKeyboardMessageID(id *MessageID) InterfaceState {
	s.ClosedButtonKeyboardMessageID = id
	return s
}

// SearchState is an active in-chat search. Its presence overrides the
// navigation bar content.
type SearchState struct {
	Query       string
	ResultIndex int
	ResultCount int
}

// QueryKind tags an InputQueryResult.
type QueryKind int

const (
	QueryMentions QueryKind = iota
	QueryCommands
	QueryHashtags
	// QueryContextRequest is an inline bot query; its results render over the input panel.
	QueryContextRequest
)

func (k QueryKind) String() string {
	switch k {
	case QueryMentions:
		return "mentions"
	case QueryCommands:
		return "commands"
	case QueryHashtags:
		return "hashtags"
	case QueryContextRequest:
		return "context"
	default:
		return "unknown"
	}
}

// InputQueryResult holds autocomplete results for the draft.
type InputQueryResult struct {
	Kind  QueryKind
	Query string
	Items []string
}

// PinnedMessage is shown in the title accessory area.
type PinnedMessage struct {
	MessageID MessageID
	Text      string
}

// WallpaperKind selects how the chat background is rendered.
type WallpaperKind int

const (
	WallpaperBuiltin WallpaperKind = iota
	WallpaperColor
	WallpaperImage
)

// Wallpaper describes the chat background. It is a comparable value and is
// used as the background cache key.
type Wallpaper struct {
	Kind  WallpaperKind
	Color uint32
	Path  string
}

// State is the presentation snapshot consumed by the surface coordinator.
type State struct {
	InputMode        InputMode
	Interface        InterfaceState
	Search           *SearchState
	InputQueryResult *InputQueryResult
	PinnedMessage    *PinnedMessage
	Wallpaper        Wallpaper

	// Theme and Strings are consulted by panels, never mutated.
	Theme   *Theme
	Strings *Strings
}

// UpdatedInterfaceState returns a copy with f applied to the interface state.
func (s State) UpdatedInterfaceState(f func(InterfaceState) InterfaceState) State {
	s.Interface = f(s.Interface)
	return s
}

// WithInputMode returns a copy with a different input mode.
func (s State) WithInputMode(mode InputMode) State {
	s.InputMode = mode
	return s
}

// WithSearch returns a copy with search set or cleared.
func (s State) WithSearch(search *SearchState) State {
	s.Search = search
	return s
}

// WithInputQueryResult returns a copy with the autocomplete result replaced.
func (s State) WithInputQueryResult(r *InputQueryResult) State {
	s.InputQueryResult = r
	return s
}

// WithPinnedMessage returns a copy with the pinned message replaced.
func (s State) WithPinnedMessage(p *PinnedMessage) State {
	s.PinnedMessage = p
	return s
}

// WithTheme returns a copy using a different theme and wallpaper.
func (s State) WithTheme(theme *Theme, wallpaper Wallpaper) State {
	s.Theme = theme
	s.Wallpaper = wallpaper
	return s
}

// Equal reports structural equality. Theme and Strings compare by identity.
func (s State) Equal(o State) bool {
	if s.Theme != o.Theme || s.Strings != o.Strings {
		return false
	}
	if s.InputMode != o.InputMode || s.Wallpaper != o.Wallpaper {
		return false
	}
	return reflect.DeepEqual(s.Interface, o.Interface) &&
		reflect.DeepEqual(s.Search, o.Search) &&
		reflect.DeepEqual(s.InputQueryResult, o.InputQueryResult) &&
		reflect.DeepEqual(s.PinnedMessage, o.PinnedMessage)
}

// Ptr returns a pointer to a copy of v. Handy for optional state fields.
func Ptr[T any](v T) *T {
	return &v
}
