// Package surface coordinates the chat surface: it resolves the panel slots
// for each presentation state, lays them out, and hands the differences to
// the transition scheduler.
package surface

import (
	"log/slog"
	"time"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/background"
	"github.com/tessro/chatsurface/internal/focus"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/layout"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/transition"
)

// Default animation timings.
const (
	DefaultSpringDuration     = 400 * time.Millisecond
	DefaultTextResizeDuration = 100 * time.Millisecond
)

// InterfaceMutator derives a new interface state from the current one.
type InterfaceMutator func(presentation.InterfaceState) presentation.InterfaceState

// Callbacks are requests the coordinator makes of the interaction layer that
// owns the presentation state. Nil callbacks are skipped.
type Callbacks struct {
	// RequestInterfaceStateUpdate asks for the interface state to be mutated
	// and pushed back through UpdateState.
	RequestInterfaceStateUpdate func(animated bool, mutate InterfaceMutator)
	// RequestLayout asks for ContainerLayoutUpdated to run with tr. When nil,
	// the coordinator relayouts with the last container geometry.
	RequestLayout         func(tr anim.Transition)
	DisplayAttachmentMenu func()
	UpdateTypingActivity  func()
	DismissURLPreview     func()
	UpdateInputMode       func(func(presentation.InputMode) presentation.InputMode)
	// DeactivateSearch ends search and any autocomplete query.
	DeactivateSearch func()
	SendMessages     func([]Outgoing)
	EditMessage      func(presentation.EditMessage)
}

// Metrics are the tunable dimensions and timings of the surface.
type Metrics struct {
	SafeInsets geom.Insets
	// KeyboardHeight is the inset reserved while the text panel has focus.
	KeyboardHeight     int
	NavButtons         geom.Size
	NavButtonMargin    int
	SpringDuration     time.Duration
	TextResizeDuration time.Duration
}

func (m Metrics) withDefaults() Metrics {
	if m.SpringDuration <= 0 {
		m.SpringDuration = DefaultSpringDuration
	}
	if m.TextResizeDuration <= 0 {
		m.TextResizeDuration = DefaultTextResizeDuration
	}
	if m.NavButtonMargin < 0 {
		m.NavButtonMargin = layout.DefaultNavButtonMargin
	}
	return m
}

// Options configure a Coordinator.
type Options struct {
	Factory   panel.Factory
	Callbacks Callbacks
	Metrics   Metrics
	// Renderer renders wallpapers; nil uses background.DefaultRenderer.
	Renderer background.Renderer
	// ListUpdated receives list updates of layouts the coordinator starts
	// itself.
	ListUpdated func(layout.ListUpdate)
}

// Coordinator is the chat surface. All methods must be called from the UI
// goroutine.
type Coordinator struct {
	cb      Callbacks
	metrics Metrics

	factory   *warmFactory
	resolver  *panel.Resolver
	engine    layout.Engine
	focus     focus.Coordinator
	link      *anim.DisplayLink
	coalescer *transition.Coalescer
	scheduler *transition.Scheduler
	wallpaper *background.Cache

	state *presentation.State

	container     geom.Size
	navBarHeight  int
	laidOut       bool
	prevKeyboard  int
	result        layout.Result
	listUpdated   func(layout.ListUpdate)
	layoutPasses  int
	inputBG       *anim.Node
	navButtons    *anim.Node
	ignoreUpdateH bool
}

// New returns a coordinator with no state. The first UpdateState and
// ContainerLayoutUpdated install the panels.
func New(opts Options) *Coordinator {
	c := &Coordinator{
		cb:          opts.Callbacks,
		metrics:     opts.Metrics.withDefaults(),
		factory:     &warmFactory{inner: opts.Factory},
		link:        anim.NewDisplayLink(),
		wallpaper:   background.NewCache(opts.Renderer),
		listUpdated: opts.ListUpdated,
		inputBG:     anim.NewNode(geom.Rect{}),
		navButtons:  anim.NewNode(geom.Rect{}),
	}
	c.resolver = panel.NewResolver(c.factory)
	c.coalescer = transition.NewCoalescer(c.link, c.requestLayout)
	c.scheduler = transition.NewScheduler(c.link)
	c.scheduler.OnRelease(c.released)
	return c
}

// SetMetrics replaces the surface metrics. They apply from the next layout.
func (c *Coordinator) SetMetrics(m Metrics) {
	c.metrics = m.withDefaults()
}

// State returns the current presentation state, or nil before the first
// update.
func (c *Coordinator) State() *presentation.State { return c.state }

// UpdateState pushes a new presentation state. Focus changes always schedule
// a layout pass; other changes are coalesced or flushed depending on
// interactive, and are skipped entirely while a send is suppressing height
// updates.
func (c *Coordinator) UpdateState(next presentation.State, animated, interactive bool) {
	prev := c.state
	if prev != nil && prev.Equal(next) {
		return
	}
	c.state = &next

	if t := c.textInput(); t != nil {
		if want := next.Interface.EffectiveInputState(); t.InputState() != want {
			t.SetInputState(want)
		}
	}
	if prev == nil || prev.Wallpaper != next.Wallpaper {
		c.renderWallpaper(next.Wallpaper)
	}

	tr := anim.Immediate
	if animated {
		tr = anim.Animated(c.metrics.SpringDuration, anim.CurveSpring)
	}

	if ch := c.focus.Observe(prev, &next); ch.Toggled {
		c.coalescer.Schedule(tr)
		c.focus.Apply(ch, c.installed(panel.SlotInputPanel))
		slog.Debug("focus toggled", "acquire", ch.Acquire, "transition", tr.String())
		return
	}
	if c.ignoreUpdateH {
		return
	}
	c.coalescer.Request(tr, interactive)
}

// ContainerLayoutUpdated runs a layout pass for the given container and
// calls listUpdate once with the message list geometry.
func (c *Coordinator) ContainerLayoutUpdated(container geom.Size, navBarHeight int, tr anim.Transition, listUpdate func(layout.ListUpdate)) {
	c.coalescer.Clear()
	c.container = container
	c.navBarHeight = navBarHeight
	c.laidOut = true
	c.layoutPasses++

	state := c.state
	if state == nil {
		state = &presentation.State{}
	}

	installed := c.scheduler.Installed()
	next := c.resolver.ResolveAll(state, installed)

	keyboard := c.keyboardInset(state)
	in := layout.Input{
		Viewport:              container,
		NavBarHeight:          navBarHeight,
		SafeInsets:            c.metrics.SafeInsets,
		KeyboardInset:         keyboard,
		PreviousKeyboardInset: c.prevKeyboard,
		Transition:            tr,
		NavButtons:            c.metrics.NavButtons,
		NavButtonMargin:       c.metrics.NavButtonMargin,
		State:                 state,
	}
	if h := c.scheduler.Host(panel.SlotInputSurface); h != nil {
		in.SurfaceInstalled = true
		in.InstalledSurfaceHeight = h.Node.Frame.H
	}
	if h := c.scheduler.Host(panel.SlotInputPanel); h != nil {
		in.InputPanelInstalled = true
		in.InstalledInputPanelHeight = h.Node.Frame.H
	}
	// A text panel on its way out must not keep the keyboard.
	if out := installed[panel.SlotInputPanel]; out != nil && !panel.Same(next[panel.SlotInputPanel], out) {
		focus.EnsureUnfocused(out)
	}
	for _, slot := range panel.Slots {
		if next[slot] != nil && !panel.Same(next[slot], installed[slot]) {
			in.Fresh[slot] = true
			c.attach(slot, next[slot])
		}
	}

	res := c.engine.Layout(in, next)
	c.scheduler.Apply(c.scheduler.Plan(next, res), tr)
	c.link.UpdateFrame(c.inputBG, res.InputBackground, tr, nil)
	c.link.UpdateFrame(c.navButtons, res.NavigateButtons, tr, nil)

	c.prevKeyboard = keyboard
	c.result = res
	slog.Debug("layout pass",
		"viewport", container,
		"transition", tr.String(),
		"input_panels_height", res.InputPanelsHeight,
		"bottom_inset", res.BottomInset(),
	)
	if listUpdate != nil {
		listUpdate(res.List)
	}
}

// Tick advances the display link. Callers drive it from their frame clock
// while Active reports true.
func (c *Coordinator) Tick(now time.Time) { c.link.Tick(now) }

// Active reports whether a tick has work to do.
func (c *Coordinator) Active() bool { return c.link.Active() }

// Tap handles a tap on the message list: the input mode is cleared and
// search deactivated.
func (c *Coordinator) Tap() {
	if c.cb.UpdateInputMode != nil {
		c.cb.UpdateInputMode(func(presentation.InputMode) presentation.InputMode {
			return presentation.InputModeNone
		})
	}
	if c.cb.DeactivateSearch != nil {
		c.cb.DeactivateSearch()
	}
}

// LoadInputPanels builds the media picker ahead of its first use.
func (c *Coordinator) LoadInputPanels() {
	state := c.state
	if state == nil {
		state = &presentation.State{}
	}
	c.factory.prewarm(panel.Variant{Kind: panel.KindMediaPicker}, state)
}

// CurrentInputPanelFrame returns the input panel frame of the last layout.
func (c *Coordinator) CurrentInputPanelFrame() (geom.Rect, bool) {
	f := c.result.Frames[panel.SlotInputPanel]
	return f.Rect, f.Present
}

// Result returns the last layout result.
func (c *Coordinator) Result() layout.Result { return c.result }

// LayoutPasses returns how many layout passes have run.
func (c *Coordinator) LayoutPasses() int { return c.layoutPasses }

// Host returns the active host of slot, or nil.
func (c *Coordinator) Host(slot panel.Slot) *transition.Host { return c.scheduler.Host(slot) }

// Departing returns the host leaving slot, or nil.
func (c *Coordinator) Departing(slot panel.Slot) *transition.Host {
	return c.scheduler.Departing(slot)
}

// Released returns how many panel instances have been released.
func (c *Coordinator) Released() int { return c.scheduler.Released() }

// InputBackground is the node behind the input stack.
func (c *Coordinator) InputBackground() *anim.Node { return c.inputBG }

// NavigateButtons is the node of the floating navigation buttons.
func (c *Coordinator) NavigateButtons() *anim.Node { return c.navButtons }

// Wallpaper returns the rendered background, or nil if none rendered.
func (c *Coordinator) Wallpaper() *background.Image { return c.wallpaper.Current() }

// NavigationOverride returns the search replacing the navigation bar title,
// or nil.
func (c *Coordinator) NavigationOverride() *presentation.SearchState {
	if c.state == nil {
		return nil
	}
	return c.state.Search
}

func (c *Coordinator) keyboardInset(state *presentation.State) int {
	if focus.RequiresFocus(state) {
		return c.metrics.KeyboardHeight
	}
	return 0
}

func (c *Coordinator) requestLayout(tr anim.Transition) {
	if c.cb.RequestLayout != nil {
		c.cb.RequestLayout(tr)
		return
	}
	if !c.laidOut {
		return
	}
	c.ContainerLayoutUpdated(c.container, c.navBarHeight, tr, c.listUpdated)
}

func (c *Coordinator) installed(slot panel.Slot) panel.Panel {
	if h := c.scheduler.Host(slot); h != nil {
		return h.Panel
	}
	return nil
}

func (c *Coordinator) renderWallpaper(w presentation.Wallpaper) {
	if _, err := c.wallpaper.Get(w); err != nil {
		slog.Warn("wallpaper render failed, using builtin", "error", err)
		if _, err := c.wallpaper.Get(presentation.Wallpaper{}); err != nil {
			slog.Error("builtin wallpaper render failed", "error", err)
		}
	}
}

// attach wires a newly installed panel's callbacks to the coordinator.
func (c *Coordinator) attach(slot panel.Slot, p panel.Panel) {
	switch slot {
	case panel.SlotAccessoryPanel:
		if d, ok := p.(panel.Dismissable); ok {
			v := p.Variant()
			d.SetDismissHandler(func() { c.dismissAccessory(v) })
		}
	case panel.SlotInputPanel:
		if t, ok := p.(TextInput); ok {
			t.SetHandlers(TextHandlers{
				HeightChanged: c.textHeightChanged,
				TextChanged:   c.textChanged,
				Send:          c.SendMessage,
				Attach:        c.displayAttachmentMenu,
			})
			if c.state != nil {
				t.SetInputState(c.state.Interface.EffectiveInputState())
			}
		}
		if focus.RequiresFocus(c.state) {
			focus.EnsureFocused(p)
		}
	}
}

func (c *Coordinator) released(slot panel.Slot, p panel.Panel) {
	if d, ok := p.(panel.Dismissable); ok {
		d.SetDismissHandler(nil)
	}
}

// dismissAccessory clears exactly the target the dismissed accessory shows.
func (c *Coordinator) dismissAccessory(v panel.Variant) {
	var mutate InterfaceMutator
	switch v.Kind {
	case panel.KindReply:
		mutate = func(s presentation.InterfaceState) presentation.InterfaceState {
			return s.WithUpdatedReplyMessageID(nil)
		}
	case panel.KindForward:
		mutate = func(s presentation.InterfaceState) presentation.InterfaceState {
			return s.WithUpdatedForwardMessageIDs(nil)
		}
	case panel.KindEdit:
		mutate = func(s presentation.InterfaceState) presentation.InterfaceState {
			return s.WithUpdatedEditMessage(nil)
		}
	case panel.KindURLPreview:
		if c.cb.DismissURLPreview != nil {
			c.cb.DismissURLPreview()
		}
		return
	default:
		return
	}
	slog.Debug("accessory dismissed", "variant", v.String())
	c.requestInterfaceStateUpdate(true, mutate)
}

func (c *Coordinator) requestInterfaceStateUpdate(animated bool, mutate InterfaceMutator) {
	if c.cb.RequestInterfaceStateUpdate != nil {
		c.cb.RequestInterfaceStateUpdate(animated, mutate)
	}
}

func (c *Coordinator) displayAttachmentMenu() {
	if c.cb.DisplayAttachmentMenu != nil {
		c.cb.DisplayAttachmentMenu()
	}
}

func (c *Coordinator) textHeightChanged() {
	if c.ignoreUpdateH {
		return
	}
	c.requestLayout(anim.Animated(c.metrics.TextResizeDuration, anim.CurveEaseInOut))
}

func (c *Coordinator) textChanged(in presentation.InputTextState) {
	c.requestInterfaceStateUpdate(true, func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedEffectiveInputState(in)
	})
	if in.Text != "" && c.cb.UpdateTypingActivity != nil {
		c.cb.UpdateTypingActivity()
	}
}

// warmFactory hands out prewarmed panels before falling back to the real
// factory.
type warmFactory struct {
	inner panel.Factory
	warm  map[panel.Variant]panel.Panel
}

func (f *warmFactory) NewPanel(v panel.Variant, state *presentation.State) panel.Panel {
	if p, ok := f.warm[v]; ok {
		delete(f.warm, v)
		return p
	}
	if f.inner == nil {
		return nil
	}
	return f.inner.NewPanel(v, state)
}

func (f *warmFactory) prewarm(v panel.Variant, state *presentation.State) {
	if f.inner == nil {
		return
	}
	if _, ok := f.warm[v]; ok {
		return
	}
	if f.warm == nil {
		f.warm = make(map[panel.Variant]panel.Panel)
	}
	if p := f.inner.NewPanel(v, state); p != nil {
		f.warm[v] = p
	}
}
