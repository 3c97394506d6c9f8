package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

func TestRequiresFocus(t *testing.T) {
	tests := []struct {
		name  string
		state *presentation.State
		want  bool
	}{
		{"nil", nil, false},
		{"none", &presentation.State{}, false},
		{"text", &presentation.State{InputMode: presentation.InputModeText}, true},
		{"media", &presentation.State{InputMode: presentation.InputModeMedia}, false},
		{"text while selecting", &presentation.State{
			InputMode: presentation.InputModeText,
			Interface: presentation.InterfaceState{SelectionState: &presentation.SelectionState{}},
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequiresFocus(tt.state))
		})
	}
}

func TestCoordinator_ObserveCountsToggles(t *testing.T) {
	var c Coordinator
	text := &presentation.State{InputMode: presentation.InputModeText}
	none := &presentation.State{}
	media := &presentation.State{InputMode: presentation.InputModeMedia}

	seq := []*presentation.State{none, text, text, none, media, text}
	for i := 1; i < len(seq); i++ {
		c.Observe(seq[i-1], seq[i])
	}
	// none->text, text->none, media->text
	assert.Equal(t, 3, c.Toggles())
}

func TestCoordinator_Apply(t *testing.T) {
	var c Coordinator
	text := panel.NewStatic(panel.Variant{Kind: panel.KindTextInput}, 3)

	c.Apply(Change{Toggled: true, Acquire: true}, text)
	assert.True(t, text.Focused())

	c.Apply(Change{}, text)
	assert.True(t, text.Focused(), "no toggle, no change")

	c.Apply(Change{Toggled: true}, text)
	assert.False(t, text.Focused())

	search := panel.NewStatic(panel.Variant{Kind: panel.KindSearchNavigation}, 1)
	c.Apply(Change{Toggled: true, Acquire: true}, search)
	assert.False(t, search.Focused(), "only the text panel takes focus")

	c.Apply(Change{Toggled: true, Acquire: true}, nil)
}
