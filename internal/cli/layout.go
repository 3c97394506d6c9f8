package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/layout"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/surface"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <scenario.yaml>",
	Short: "Print the layout of a scenario",
	Long: `Run one immediate layout pass for a scenario and print the resulting
frames and insets as YAML. Panels are content-less with the heights given in
the scenario.

Example scenario:

  viewport: {w: 80, h: 24}
  nav_bar_height: 1
  keyboard_inset: 8
  heights: {text-input: 1, reply: 2, mentions: 4}
  state:
    input_mode: text
    reply_to: 3
    query: {kind: mentions, items: [ada, grace]}`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

// scenario is the input of the layout command.
type scenario struct {
	Viewport      geom.Size      `yaml:"viewport"`
	NavBarHeight  int            `yaml:"nav_bar_height"`
	SafeBottom    int            `yaml:"safe_bottom"`
	KeyboardInset int            `yaml:"keyboard_inset"`
	NavButtons    geom.Size      `yaml:"nav_buttons"`
	Heights       map[string]int `yaml:"heights"`
	State         scenarioState  `yaml:"state"`
}

type scenarioState struct {
	InputMode  string         `yaml:"input_mode"`
	Draft      string         `yaml:"draft"`
	ReplyTo    *int64         `yaml:"reply_to"`
	Forward    []int64        `yaml:"forward"`
	Edit       *int64         `yaml:"edit"`
	URLPreview string         `yaml:"url_preview"`
	Selected   []int64        `yaml:"selected"`
	Search     *string        `yaml:"search"`
	Query      *scenarioQuery `yaml:"query"`
	Pinned     *int64         `yaml:"pinned"`
}

type scenarioQuery struct {
	Kind  string   `yaml:"kind"`
	Items []string `yaml:"items"`
}

// layoutReport is the output of the layout command.
type layoutReport struct {
	Viewport          geom.Size     `yaml:"viewport"`
	Insets            geom.Insets   `yaml:"insets"`
	InputPanelsHeight int           `yaml:"input_panels_height"`
	Panels            []panelReport `yaml:"panels"`
	List              listReport    `yaml:"list"`
	InputBackground   geom.Rect     `yaml:"input_background"`
	NavigateButtons   geom.Rect     `yaml:"navigate_buttons"`
}

type panelReport struct {
	Slot  string    `yaml:"slot"`
	Kind  string    `yaml:"kind"`
	Frame geom.Rect `yaml:"frame"`
}

type listReport struct {
	Size   geom.Size   `yaml:"size"`
	Insets geom.Insets `yaml:"insets"`
}

func runLayout(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read scenario: %w", err)
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return fmt.Errorf("parse scenario %s: %w", args[0], err)
	}
	report, err := layoutScenario(sc)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(report)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// layoutScenario runs a surface over static panels and reports the frames of
// an immediate layout pass.
func layoutScenario(sc scenario) (*layoutReport, error) {
	if sc.Viewport.W <= 0 || sc.Viewport.H <= 0 {
		return nil, fmt.Errorf("scenario viewport %dx%d is empty", sc.Viewport.W, sc.Viewport.H)
	}
	heights := make(map[panel.Kind]int, len(sc.Heights))
	for name, h := range sc.Heights {
		k, ok := panel.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("unknown panel kind %q", name)
		}
		heights[k] = h
	}
	state, err := sc.State.build()
	if err != nil {
		return nil, err
	}

	c := surface.New(surface.Options{
		Factory: &panel.StaticFactory{Heights: heights, InstantOut: true},
		Metrics: surface.Metrics{
			SafeInsets:      geom.Insets{Bottom: sc.SafeBottom},
			KeyboardHeight:  sc.KeyboardInset,
			NavButtons:      sc.NavButtons,
			NavButtonMargin: layout.DefaultNavButtonMargin,
		},
	})
	c.UpdateState(state, false, false)

	var list layout.ListUpdate
	c.ContainerLayoutUpdated(sc.Viewport, sc.NavBarHeight, anim.Immediate, func(u layout.ListUpdate) {
		list = u
	})

	res := c.Result()
	report := &layoutReport{
		Viewport:          res.Viewport,
		Insets:            res.Insets,
		InputPanelsHeight: res.InputPanelsHeight,
		List:              listReport{Size: list.Size, Insets: list.Insets},
		InputBackground:   res.InputBackground,
		NavigateButtons:   res.NavigateButtons,
	}
	for _, slot := range panel.Slots {
		f := res.Frames[slot]
		h := c.Host(slot)
		if !f.Present || h == nil {
			continue
		}
		report.Panels = append(report.Panels, panelReport{
			Slot:  slot.String(),
			Kind:  h.Panel.Variant().Kind.String(),
			Frame: f.Rect,
		})
	}
	return report, nil
}

func (s scenarioState) build() (presentation.State, error) {
	var state presentation.State
	if s.InputMode != "" {
		mode, ok := presentation.ParseInputMode(s.InputMode)
		if !ok {
			return state, fmt.Errorf("unknown input mode %q", s.InputMode)
		}
		state.InputMode = mode
	}

	iface := presentation.InterfaceState{
		ComposeInputState: presentation.InputTextState{Text: s.Draft},
		ForwardMessageIDs: messageIDs(s.Forward),
	}
	if s.ReplyTo != nil {
		iface.ReplyMessageID = presentation.Ptr(presentation.MessageID(*s.ReplyTo))
	}
	if s.Edit != nil {
		iface.EditMessage = &presentation.EditMessage{MessageID: presentation.MessageID(*s.Edit)}
	}
	if s.URLPreview != "" {
		iface.URLPreview = &presentation.URLPreview{URL: s.URLPreview, Title: s.URLPreview}
	}
	if len(s.Selected) > 0 {
		iface.SelectionState = &presentation.SelectionState{Selected: messageIDs(s.Selected)}
	}
	state.Interface = iface

	if s.Search != nil {
		state.Search = &presentation.SearchState{Query: *s.Search}
	}
	if s.Pinned != nil {
		state.PinnedMessage = &presentation.PinnedMessage{MessageID: presentation.MessageID(*s.Pinned)}
	}
	if s.Query != nil {
		kind, ok := parseQueryKind(s.Query.Kind)
		if !ok {
			return state, fmt.Errorf("unknown query kind %q", s.Query.Kind)
		}
		state.InputQueryResult = &presentation.InputQueryResult{Kind: kind, Items: s.Query.Items}
	}
	return state, nil
}

func parseQueryKind(s string) (presentation.QueryKind, bool) {
	for k := presentation.QueryMentions; k <= presentation.QueryContextRequest; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

func messageIDs(ids []int64) []presentation.MessageID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]presentation.MessageID, len(ids))
	for i, id := range ids {
		out[i] = presentation.MessageID(id)
	}
	return out
}

func init() {
	rootCmd.AddCommand(layoutCmd)
}
