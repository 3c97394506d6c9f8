package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/chatsurface/internal/presentation"
)

// Styles are the lipgloss styles of the surface, derived from a theme.
type Styles struct {
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderStatus lipgloss.Style

	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelMuted  lipgloss.Style
	PanelAccent lipgloss.Style
	CloseButton lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	ItemSelected lipgloss.Style
	Destructive  lipgloss.Style

	Incoming     lipgloss.Style
	Outgoing     lipgloss.Style
	Timestamp    lipgloss.Style
	Selected     lipgloss.Style
	SearchMatch  lipgloss.Style
	Empty        lipgloss.Style
	NavButton    lipgloss.Style
	Keyboard     lipgloss.Style
	Status       lipgloss.Style
	ErrorBar     lipgloss.Style
	Separator    lipgloss.Style
}

// NewStyles builds styles for theme.
func NewStyles(theme *presentation.Theme) Styles {
	if theme == nil {
		theme = presentation.DefaultTheme()
	}
	accent := lipgloss.Color(theme.Accent)
	text := lipgloss.Color(theme.Text)
	muted := lipgloss.Color(theme.SecondaryText)
	bg := lipgloss.Color(theme.PanelBackground)
	stroke := lipgloss.Color(theme.PanelStroke)

	return Styles{
		Header: lipgloss.NewStyle().
			Background(accent),
		HeaderTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			Background(accent).
			Padding(0, 1),
		HeaderStatus: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0E0E0")).
			Background(accent).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Background(bg).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		PanelMuted: lipgloss.NewStyle().
			Foreground(muted),
		PanelAccent: lipgloss.NewStyle().
			Foreground(accent),
		CloseButton: lipgloss.NewStyle().
			Foreground(muted).
			Bold(true),

		Input: lipgloss.NewStyle().
			Background(bg).
			Padding(0, 1),
		InputFocused: lipgloss.NewStyle().
			Background(stroke).
			Padding(0, 1),

		ItemSelected: lipgloss.NewStyle().
			Background(stroke).
			Foreground(text),
		Destructive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Destructive)).
			Bold(true),

		Incoming:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Incoming)),
		Outgoing:  lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Outgoing)),
		Timestamp: lipgloss.NewStyle().Foreground(muted),
		Selected: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		SearchMatch: lipgloss.NewStyle().
			Foreground(bg).
			Background(accent),
		Empty: lipgloss.NewStyle().
			Foreground(muted).
			Padding(1, 2),
		NavButton: lipgloss.NewStyle().
			Foreground(text).
			Background(stroke),
		Keyboard: lipgloss.NewStyle().
			Foreground(muted).
			Background(stroke),
		Status: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ErrorBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Destructive)).
			Padding(0, 1),
		Separator: lipgloss.NewStyle().
			Foreground(stroke),
	}
}
