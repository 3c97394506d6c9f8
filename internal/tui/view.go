package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"

	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/transition"
)

// minAlpha is the opacity below which a panel is not drawn at all.
const minAlpha = 0.05

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	c := newCanvas(m.width, m.height)
	m.drawWallpaper(c)

	c.put(0, 0, m.header.View(m.styles))
	c.putLines(m.list.Rect().X, m.list.Rect().Y, m.list.Lines())

	res := m.surface.Result()
	if bg := m.surface.InputBackground().Frame; !bg.Empty() {
		row := m.styles.Panel.Width(bg.W).Render("")
		for y := bg.Y; y < bg.MaxY(); y++ {
			c.put(bg.X, y, row)
		}
	}
	if sep := res.Separator; !sep.Empty() {
		c.put(sep.X, sep.Y, m.styles.Separator.Render(strings.Repeat("─", sep.W)))
	}
	m.drawKeyboard(c)

	for _, slot := range panel.Slots {
		m.drawHost(c, m.surface.Departing(slot))
		m.drawHost(c, m.surface.Host(slot))
	}

	if nav := m.surface.NavigateButtons(); !m.list.AtBottom() && nav.Alpha > minAlpha && !nav.Frame.Empty() {
		c.put(nav.Frame.X, nav.Frame.Y, m.styles.NavButton.Render(truncate.String(" ↓ ", uint(nav.Frame.W))))
	}

	c.put(0, m.height-1, m.helpBar.View(m.styles))
	return c.String()
}

// drawWallpaper paints each row in the background color at that height.
func (m *Model) drawWallpaper(c *canvas) {
	img := m.surface.Wallpaper()
	if img == nil {
		return
	}
	for y := 0; y < c.height; y++ {
		style := lipgloss.NewStyle().Background(lipgloss.Color(img.At(y, c.height).Hex())).Width(c.width)
		c.rows[y] = style.Render("")
	}
}

// drawKeyboard fills the space a software keyboard would take while the
// text panel has focus and no input surface covers it.
func (m *Model) drawKeyboard(c *canvas) {
	if m.surface.Host(panel.SlotInputSurface) != nil {
		return
	}
	res := m.surface.Result()
	safe := m.cfg.GetSafeBottom() + helpBarHeight
	if res.Insets.Bottom <= safe {
		return
	}
	top := m.height - res.Insets.Bottom
	for y := top; y < m.height-safe; y++ {
		label := ""
		if y == top {
			label = "⌨"
		}
		c.put(0, y, m.styles.Keyboard.Width(m.width).Render(label))
	}
}

func (m *Model) drawHost(c *canvas, h *transition.Host) {
	if h == nil || h.Node.Alpha < minAlpha || h.Node.Frame.Empty() {
		return
	}
	d, ok := h.Panel.(drawable)
	if !ok {
		return
	}
	f := h.Node.Frame
	rows := d.Draw(f.Size())
	if len(rows) > f.H {
		rows = rows[:f.H]
	}
	if h.Node.Alpha < 1 {
		rows = m.fade(rows, h.Node.Alpha)
	}
	c.putLines(f.X, f.Y, rows)
}

// fade redraws rows as plain text whose color is blended from the panel
// background toward the text color by alpha.
func (m *Model) fade(rows []string, alpha float64) []string {
	theme := m.state.Theme
	bg, text := colorful.Color{}, colorful.Color{R: 1, G: 1, B: 1}
	if theme != nil {
		if c, err := colorful.Hex(theme.PanelBackground); err == nil {
			bg = c
		}
		if c, err := colorful.Hex(theme.Text); err == nil {
			text = c
		}
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(bg.BlendLab(text, alpha).Clamped().Hex())).
		Background(lipgloss.Color(bg.Hex()))

	out := make([]string, len(rows))
	for i, row := range rows {
		if row == "" {
			continue
		}
		out[i] = style.Render(ansi.Strip(row))
	}
	return out
}

// canvas is a fixed grid of styled rows that panels are stamped onto.
type canvas struct {
	width, height int
	rows          []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, height: height, rows: make([]string, height)}
	blank := strings.Repeat(" ", width)
	for i := range c.rows {
		c.rows[i] = blank
	}
	return c
}

func (c *canvas) putLines(x, y int, lines []string) {
	for i, line := range lines {
		c.put(x, y+i, line)
	}
}

// put overlays s at column x of row y. Empty strings leave the row as is.
func (c *canvas) put(x, y int, s string) {
	if s == "" || y < 0 || y >= c.height || x >= c.width {
		return
	}
	if x < 0 {
		s = ansi.TruncateLeft(s, -x, "")
		x = 0
	}
	s = ansi.Truncate(s, c.width-x, "")
	w := ansi.StringWidth(s)
	if w == 0 {
		return
	}

	bg := c.rows[y]
	var b strings.Builder
	left := ansi.Truncate(bg, x, "")
	b.WriteString(left)
	if lw := ansi.StringWidth(left); lw < x {
		b.WriteString(strings.Repeat(" ", x-lw))
	}
	b.WriteString(s)
	if end := x + w; end < c.width {
		if end < ansi.StringWidth(bg) {
			b.WriteString(ansi.TruncateLeft(bg, end, ""))
		} else {
			b.WriteString(strings.Repeat(" ", c.width-end))
		}
	}
	c.rows[y] = b.String()
}

func (c *canvas) String() string {
	return strings.Join(c.rows, "\n")
}

// Frame returns the frame drawn for slot, for tests and mouse routing.
func (m *Model) Frame(slot panel.Slot) (geom.Rect, bool) {
	h := m.surface.Host(slot)
	if h == nil {
		return geom.Rect{}, false
	}
	return h.Node.Frame, true
}
