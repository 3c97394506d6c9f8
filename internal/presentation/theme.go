package presentation

// Theme holds the colors panels consult when rendering. Colors are hex
// strings ("#RRGGBB") or ANSI indexes understood by lipgloss.
type Theme struct {
	Name string

	PanelBackground string
	PanelStroke     string
	Accent          string
	Text            string
	SecondaryText   string
	Incoming        string
	Outgoing        string
	Destructive     string
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:            "night",
		PanelBackground: "#2D2D2D",
		PanelStroke:     "#3B3B3B",
		Accent:          "#7C3AED",
		Text:            "#FFFFFF",
		SecondaryText:   "#A0A0A0",
		Incoming:        "12",
		Outgoing:        "10",
		Destructive:     "#EF4444",
	}
}

// Strings holds user-visible text. Loaded from a YAML strings file when one
// is configured.
type Strings struct {
	InputPlaceholder    string `yaml:"input_placeholder"`
	EditPlaceholder     string `yaml:"edit_placeholder"`
	ReplyTitle          string `yaml:"reply_title"`
	ForwardTitle        string `yaml:"forward_title"`
	EditTitle           string `yaml:"edit_title"`
	PinnedTitle         string `yaml:"pinned_title"`
	SearchPlaceholder   string `yaml:"search_placeholder"`
	SearchNoResults     string `yaml:"search_no_results"`
	SelectionDelete     string `yaml:"selection_delete"`
	SelectionForward    string `yaml:"selection_forward"`
	MediaPickerTitle    string `yaml:"media_picker_title"`
	ButtonKeyboardTitle string `yaml:"button_keyboard_title"`
	EmptyChat           string `yaml:"empty_chat"`
}

// DefaultStrings returns the built-in English strings.
func DefaultStrings() *Strings {
	return &Strings{
		InputPlaceholder:    "Message",
		EditPlaceholder:     "Edit message",
		ReplyTitle:          "Reply to",
		ForwardTitle:        "Forward messages",
		EditTitle:           "Edit message",
		PinnedTitle:         "Pinned message",
		SearchPlaceholder:   "Search",
		SearchNoResults:     "No results",
		SelectionDelete:     "Delete",
		SelectionForward:    "Forward",
		MediaPickerTitle:    "Stickers & Emoji",
		ButtonKeyboardTitle: "Bot keyboard",
		EmptyChat:           "No messages here yet",
	}
}

// Merge fills empty fields of s from fallback and returns the result.
func (s Strings) Merge(fallback *Strings) *Strings {
	if fallback == nil {
		return &s
	}
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&s.InputPlaceholder, fallback.InputPlaceholder)
	fill(&s.EditPlaceholder, fallback.EditPlaceholder)
	fill(&s.ReplyTitle, fallback.ReplyTitle)
	fill(&s.ForwardTitle, fallback.ForwardTitle)
	fill(&s.EditTitle, fallback.EditTitle)
	fill(&s.PinnedTitle, fallback.PinnedTitle)
	fill(&s.SearchPlaceholder, fallback.SearchPlaceholder)
	fill(&s.SearchNoResults, fallback.SearchNoResults)
	fill(&s.SelectionDelete, fallback.SelectionDelete)
	fill(&s.SelectionForward, fallback.SelectionForward)
	fill(&s.MediaPickerTitle, fallback.MediaPickerTitle)
	fill(&s.ButtonKeyboardTitle, fallback.ButtonKeyboardTitle)
	fill(&s.EmptyChat, fallback.EmptyChat)
	return &s
}
