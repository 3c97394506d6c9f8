package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
)

// drawable panels render themselves into a frame. A returned row that is
// empty leaves whatever is underneath visible.
type drawable interface {
	Draw(size geom.Size) []string
}

// Draw implements drawable.
func (p *TextPanel) Draw(size geom.Size) []string {
	return strings.Split(p.View(), "\n")
}

// pinnedPanel is the title accessory showing the pinned message.
type pinnedPanel struct {
	v      panel.Variant
	title  string
	text   string
	styles *Styles
}

func (p *pinnedPanel) Variant() panel.Variant { return p.v }

func (p *pinnedPanel) UpdateLayout(int, anim.Transition, *presentation.State) int { return 1 }

func (p *pinnedPanel) Draw(size geom.Size) []string {
	line := p.styles.PanelTitle.Render("▍"+p.title+" ") + p.styles.PanelMuted.Render(p.text)
	return []string{p.styles.Panel.Width(size.W).Render(fit(line, size.W-2))}
}

// accessoryPanel shows the reply, forward, edit or link preview target above
// the input panel, with a close button.
type accessoryPanel struct {
	v       panel.Variant
	title   string
	body    string
	styles  *Styles
	dismiss func()
}

func (p *accessoryPanel) Variant() panel.Variant { return p.v }

func (p *accessoryPanel) UpdateLayout(width int, _ anim.Transition, _ *presentation.State) int {
	return p.Measure(width)
}

// Measure implements panel.Measurer.
func (p *accessoryPanel) Measure(int) int { return 2 }

// SetDismissHandler implements panel.Dismissable.
func (p *accessoryPanel) SetDismissHandler(fn func()) { p.dismiss = fn }

// Dismiss is the close button action.
func (p *accessoryPanel) Dismiss() {
	if p.dismiss != nil {
		p.dismiss()
	}
}

func (p *accessoryPanel) Draw(size geom.Size) []string {
	inner := size.W - 2
	closeBtn := p.styles.CloseButton.Render("✕")
	title := fit(p.styles.PanelTitle.Render("▍"+p.title), inner-2)
	gap := max(inner-lipgloss.Width(title)-lipgloss.Width(closeBtn), 1)
	body := fit(p.styles.PanelMuted.Render("▍"+p.body), inner)

	style := p.styles.Panel.Width(size.W)
	return []string{
		style.Render(title + strings.Repeat(" ", gap) + closeBtn),
		style.Render(body),
	}
}

// selectionPanel replaces the text input during multi-select.
type selectionPanel struct {
	count   int
	strings *presentation.Strings
	styles  *Styles
}

func (p *selectionPanel) Variant() panel.Variant {
	return panel.Variant{Kind: panel.KindSelectionActions}
}

func (p *selectionPanel) UpdateLayout(_ int, _ anim.Transition, state *presentation.State) int {
	if state != nil && state.Interface.SelectionState != nil {
		p.count = len(state.Interface.SelectionState.Selected)
	}
	if state != nil && state.Strings != nil {
		p.strings = state.Strings
	}
	return 1
}

func (p *selectionPanel) Draw(size geom.Size) []string {
	s := p.strings
	if s == nil {
		s = presentation.DefaultStrings()
	}
	left := p.styles.Destructive.Render("[d] " + s.SelectionDelete)
	right := p.styles.PanelAccent.Render("[f] " + s.SelectionForward)
	mid := p.styles.PanelMuted.Render(fmt.Sprintf("%d selected", p.count))
	return []string{p.styles.Panel.Width(size.W).Render(spread(size.W-2, left, mid, right))}
}

// searchPanel replaces the text input during search.
type searchPanel struct {
	search  presentation.SearchState
	strings *presentation.Strings
	styles  *Styles
}

func (p *searchPanel) Variant() panel.Variant {
	return panel.Variant{Kind: panel.KindSearchNavigation}
}

func (p *searchPanel) UpdateLayout(_ int, _ anim.Transition, state *presentation.State) int {
	if state != nil && state.Search != nil {
		p.search = *state.Search
	}
	if state != nil && state.Strings != nil {
		p.strings = state.Strings
	}
	return 1
}

func (p *searchPanel) Draw(size geom.Size) []string {
	s := p.strings
	if s == nil {
		s = presentation.DefaultStrings()
	}
	status := s.SearchNoResults
	if p.search.ResultCount > 0 {
		status = fmt.Sprintf("%d of %d", p.search.ResultIndex+1, p.search.ResultCount)
	}
	left := p.styles.PanelAccent.Render("↑ ↓")
	right := p.styles.PanelMuted.Render(status)
	return []string{p.styles.Panel.Width(size.W).Render(spread(size.W-2, left, right))}
}

// contextFadeFrames is how many frames a context panel takes to animate out.
const contextFadeFrames = 4

// contextPanel lists autocomplete results. Rows are aligned to the bottom of
// its rectangle; the rows above them stay transparent.
type contextPanel struct {
	kind     panel.Kind
	items    []string
	selected int
	size     geom.Size
	styles   *Styles

	fading  int
	outDone func()
}

func (p *contextPanel) Variant() panel.Variant { return panel.Variant{Kind: p.kind} }

func (p *contextPanel) UpdateLayout(width int, tr anim.Transition, state *presentation.State) int {
	p.sync(state)
	return len(p.items)
}

// Placement implements panel.ContextPanel.
func (p *contextPanel) Placement() panel.Placement { return panel.PlacementFor(p.kind) }

// LayoutIn implements panel.ContextPanel.
func (p *contextPanel) LayoutIn(size geom.Size, _ anim.Transition, state *presentation.State) {
	p.size = size
	p.sync(state)
}

// AnimateOut implements panel.ContextPanel. The fade advances on frame ticks.
func (p *contextPanel) AnimateOut(done func()) {
	p.fading = contextFadeFrames
	p.outDone = done
}

// Animating reports whether the panel needs frame ticks.
func (p *contextPanel) Animating() bool { return p.fading > 0 }

// Tick advances the exit fade.
func (p *contextPanel) Tick() {
	if p.fading == 0 {
		return
	}
	p.fading--
	if p.fading == 0 && p.outDone != nil {
		done := p.outDone
		p.outDone = nil
		done()
	}
}

func (p *contextPanel) sync(state *presentation.State) {
	if state == nil || state.InputQueryResult == nil {
		return
	}
	p.items = state.InputQueryResult.Items
	p.selected = min(p.selected, max(len(p.items)-1, 0))
}

// Move changes the highlighted item.
func (p *contextPanel) Move(delta int) {
	if len(p.items) == 0 {
		return
	}
	p.selected = (p.selected + delta + len(p.items)) % len(p.items)
}

// Selected returns the highlighted item.
func (p *contextPanel) Selected() (string, bool) {
	if p.selected >= len(p.items) {
		return "", false
	}
	return p.items[p.selected], true
}

func (p *contextPanel) Draw(size geom.Size) []string {
	rows := make([]string, size.H)
	n := min(len(p.items), size.H)
	prefix := map[panel.Kind]string{
		panel.KindMentions: "@",
		panel.KindCommands: "/",
		panel.KindHashtags: "#",
	}[p.kind]
	for i := 0; i < n; i++ {
		item := p.items[len(p.items)-n+i]
		style := p.styles.Panel
		switch {
		case p.fading > 0:
			style = style.Inherit(p.styles.PanelMuted)
		case len(p.items)-n+i == p.selected:
			style = p.styles.ItemSelected.Padding(0, 1)
		}
		rows[size.H-n+i] = style.Width(size.W).Render(fit(prefix+item, size.W-2))
	}
	return rows
}

// gridPanel is an input surface: the media picker or a bot button keyboard.
type gridPanel struct {
	kind     panel.Kind
	title    string
	cells    []string
	columns  int
	height   int
	selected int
	styles   *Styles
}

func (p *gridPanel) Variant() panel.Variant { return panel.Variant{Kind: p.kind} }

func (p *gridPanel) UpdateLayout(int, anim.Transition, *presentation.State) int { return p.height }

// Move changes the highlighted cell by dx columns and dy rows.
func (p *gridPanel) Move(dx, dy int) {
	if len(p.cells) == 0 {
		return
	}
	i := p.selected + dx + dy*p.columns
	p.selected = min(max(i, 0), len(p.cells)-1)
}

// Selected returns the highlighted cell.
func (p *gridPanel) Selected() (string, bool) {
	if p.selected >= len(p.cells) {
		return "", false
	}
	return p.cells[p.selected], true
}

func (p *gridPanel) Draw(size geom.Size) []string {
	rows := make([]string, 0, size.H)
	rows = append(rows, p.styles.Panel.Width(size.W).Render(p.styles.PanelTitle.Render(p.title)))

	cellW := max((size.W-2)/max(p.columns, 1), 1)
	for start := 0; start < len(p.cells) && len(rows) < size.H; start += p.columns {
		var b strings.Builder
		for i := start; i < min(start+p.columns, len(p.cells)); i++ {
			cell := lipgloss.PlaceHorizontal(cellW, lipgloss.Center, fit(p.cells[i], cellW))
			if i == p.selected {
				cell = p.styles.ItemSelected.Render(cell)
			}
			b.WriteString(cell)
		}
		rows = append(rows, p.styles.Panel.Width(size.W).Render(b.String()))
	}
	for len(rows) < size.H {
		rows = append(rows, p.styles.Panel.Width(size.W).Render(""))
	}
	return rows
}

// fit truncates s to width cells, marking the cut with an ellipsis.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}

// spread lays parts out across width with equal gaps.
func spread(width int, parts ...string) string {
	used := 0
	for _, p := range parts {
		used += lipgloss.Width(p)
	}
	if len(parts) < 2 {
		return fit(strings.Join(parts, ""), width)
	}
	gap := max((width-used)/(len(parts)-1), 1)
	return fit(strings.Join(parts, strings.Repeat(" ", gap)), width)
}
