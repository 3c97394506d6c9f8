package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/tessro/chatsurface/internal/geom"
)

func TestLayoutScenario_ReplyAboveTextInput(t *testing.T) {
	reply := int64(3)
	sc := scenario{
		Viewport:     geom.Size{W: 80, H: 24},
		NavBarHeight: 1,
		Heights:      map[string]int{"text-input": 1, "reply": 2},
		State:        scenarioState{ReplyTo: &reply},
	}

	report, err := layoutScenario(sc)
	if err != nil {
		t.Fatalf("layoutScenario() error = %v", err)
	}
	if report.InputPanelsHeight != 3 {
		t.Errorf("InputPanelsHeight = %d, want 3", report.InputPanelsHeight)
	}

	frames := make(map[string]geom.Rect)
	for _, p := range report.Panels {
		frames[p.Kind] = p.Frame
	}
	if got, want := frames["text-input"], (geom.Rect{X: 0, Y: 23, W: 80, H: 1}); got != want {
		t.Errorf("text-input frame = %v, want %v", got, want)
	}
	if got, want := frames["reply"], (geom.Rect{X: 0, Y: 21, W: 80, H: 2}); got != want {
		t.Errorf("reply frame = %v, want %v", got, want)
	}
	if report.List.Insets.Top != 3 || report.List.Insets.Bottom != 1 {
		t.Errorf("list insets = %+v, want top 3 bottom 1", report.List.Insets)
	}
}

func TestLayoutScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		sc   scenario
		want string
	}{
		{
			name: "empty viewport",
			sc:   scenario{},
			want: "viewport",
		},
		{
			name: "unknown kind",
			sc:   scenario{Viewport: geom.Size{W: 10, H: 10}, Heights: map[string]int{"sticker": 1}},
			want: "unknown panel kind",
		},
		{
			name: "unknown input mode",
			sc:   scenario{Viewport: geom.Size{W: 10, H: 10}, State: scenarioState{InputMode: "voice"}},
			want: "unknown input mode",
		},
		{
			name: "unknown query kind",
			sc: scenario{
				Viewport: geom.Size{W: 10, H: 10},
				State:    scenarioState{Query: &scenarioQuery{Kind: "emoji"}},
			},
			want: "unknown query kind",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := layoutScenario(tc.sc)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("layoutScenario() error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestRunLayout_PrintsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	scenarioYAML := `
viewport: {w: 40, h: 12}
nav_bar_height: 1
heights: {text-input: 2, mentions: 3}
state:
  input_mode: none
  query: {kind: mentions, items: [ada, grace]}
`
	if err := os.WriteFile(path, []byte(scenarioYAML), 0600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	layoutCmd.SetOut(&out)
	defer layoutCmd.SetOut(nil)
	if err := runLayout(layoutCmd, []string{path}); err != nil {
		t.Fatalf("runLayout() error = %v", err)
	}

	var report layoutReport
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out.String())
	}
	if report.Viewport != (geom.Size{W: 40, H: 12}) {
		t.Errorf("viewport = %v", report.Viewport)
	}
	var kinds []string
	for _, p := range report.Panels {
		kinds = append(kinds, p.Kind)
	}
	if got := strings.Join(kinds, ","); got != "text-input,mentions" {
		t.Errorf("panels = %s, want text-input,mentions", got)
	}
}
