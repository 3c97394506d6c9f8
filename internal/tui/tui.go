// Package tui provides the Bubbletea-based terminal chat surface.
package tui

import (
	"log/slog"
	"net/url"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tessro/chatsurface/internal/anim"
	"github.com/tessro/chatsurface/internal/config"
	"github.com/tessro/chatsurface/internal/conversation"
	"github.com/tessro/chatsurface/internal/geom"
	"github.com/tessro/chatsurface/internal/id"
	"github.com/tessro/chatsurface/internal/panel"
	"github.com/tessro/chatsurface/internal/presentation"
	"github.com/tessro/chatsurface/internal/richtext"
	"github.com/tessro/chatsurface/internal/surface"
)

const (
	// navBarHeight is the header row.
	navBarHeight = 1
	// helpBarHeight is reserved below the bottom safe inset for the help bar.
	helpBarHeight = 1
	typingTimeout = 5 * time.Second
	errorTimeout  = 5 * time.Second
)

// navButtonSize is the floating "scroll to latest" button.
var navButtonSize = geom.Size{W: 3, H: 1}

// Options configures the TUI.
type Options struct {
	Store  *conversation.Store
	Config *config.Config
	// ConfigPath is watched for changes when non-empty.
	ConfigPath string
	// TranscriptPath is where ctrl+s saves the conversation. When empty a new
	// transcript is created under the transcripts directory.
	TranscriptPath string
	// Session names the transcript created by a save without TranscriptPath.
	Session string
}

// Model is the main Bubbletea model. It owns the presentation state and
// hands every change to the surface coordinator.
type Model struct {
	// Window dimensions
	width  int
	height int
	ready  bool

	cfg           *config.Config
	keys          KeyBindings
	styles        *Styles
	rich          *richtext.Renderer
	frameInterval time.Duration

	store   *conversation.Store
	factory *Factory
	surface *surface.Coordinator

	header  Header
	list    *ListView
	helpBar HelpBar

	state         presentation.State
	searchResults []presentation.MessageID
	ticking       bool
	typingUntil   time.Time

	// cmds collects commands queued by coordinator callbacks.
	cmds []tea.Cmd

	reloads        chan configReloadMsg
	transcriptPath string
	session        string
}

// New creates a new TUI model.
func New(opts Options) *Model {
	store := opts.Store
	if store == nil {
		store = conversation.New(conversation.Demo())
	}
	cfg := opts.Config
	theme := cfg.BuildTheme()
	strs, err := cfg.LoadStrings()
	if err != nil {
		slog.Warn("strings file unusable, using defaults", "error", err)
		strs = presentation.DefaultStrings()
	}

	styles := NewStyles(theme)
	m := &Model{
		cfg:            cfg,
		keys:           DefaultKeyBindings(),
		styles:         &styles,
		rich:           richtext.New(richtext.ThemeStyles(theme)),
		frameInterval:  cfg.FrameInterval(),
		store:          store,
		reloads:        make(chan configReloadMsg, 1),
		transcriptPath: opts.TranscriptPath,
		session:        opts.Session,
	}
	if m.session == "" {
		m.session = id.Session()
	}
	m.factory = NewFactory(m.styles, store, m.rich)
	m.list = NewListView(store, m.rich, m.styles)
	m.list.SetEmptyText(strs.EmptyChat)
	m.helpBar = NewHelpBar(m.keys)
	m.header.SetChat(store.Title(), len(store.Members()))
	m.surface = surface.New(surface.Options{
		Factory:     m.factory,
		Callbacks:   m.callbacks(),
		Metrics:     metricsFor(cfg),
		ListUpdated: m.list.Apply,
	})

	initial := presentation.State{
		InputMode:     presentation.InputModeText,
		PinnedMessage: store.Pinned(),
		Strings:       strs,
	}.WithTheme(theme, cfg.BuildWallpaper())
	m.setState(initial, false, false)
	m.surface.LoadInputPanels()
	return m
}

func metricsFor(cfg *config.Config) surface.Metrics {
	return surface.Metrics{
		SafeInsets:         geom.Insets{Bottom: cfg.GetSafeBottom() + helpBarHeight},
		KeyboardHeight:     cfg.GetKeyboardInset(),
		NavButtons:         navButtonSize,
		NavButtonMargin:    cfg.GetNavButtonMargin(),
		SpringDuration:     cfg.SpringDuration(),
		TextResizeDuration: cfg.TextResizeDuration(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	slog.Debug("tui.Init: starting", "messages", m.store.Len())
	return tea.Batch(
		m.factory.TextPanel().input.Cursor.BlinkCmd(),
		waitForReload(m.reloads),
	)
}

// State returns the current presentation state.
func (m *Model) State() presentation.State { return m.state }

// Surface returns the coordinator.
func (m *Model) Surface() *surface.Coordinator { return m.surface }

func (m *Model) callbacks() surface.Callbacks {
	return surface.Callbacks{
		RequestInterfaceStateUpdate: func(animated bool, mutate surface.InterfaceMutator) {
			m.setState(m.state.UpdatedInterfaceState(mutate), animated, true)
		},
		RequestLayout: m.layout,
		DisplayAttachmentMenu: func() {
			m.toggleInputMode(presentation.InputModeMedia)
		},
		UpdateTypingActivity: m.typing,
		DismissURLPreview: func() {
			p := m.state.Interface.URLPreview
			if p == nil {
				return
			}
			u := p.URL
			m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
				return s.WithUpdatedComposeDisableURLPreview(&u)
			}), true, true)
		},
		UpdateInputMode: func(f func(presentation.InputMode) presentation.InputMode) {
			m.setState(m.state.WithInputMode(f(m.state.InputMode)), true, true)
		},
		DeactivateSearch: func() {
			m.searchResults = nil
			m.list.SetMatch(0)
			m.setState(m.state.WithSearch(nil).WithInputQueryResult(nil), true, true)
		},
		SendMessages: m.sendMessages,
		EditMessage:  m.editMessage,
	}
}

// setState derives the autocomplete result, link preview and pinned message
// for next and pushes it to the coordinator.
func (m *Model) setState(next presentation.State, animated, interactive bool) {
	prevText := m.state.Interface.EffectiveInputState().Text
	text := next.Interface.EffectiveInputState().Text
	if text != prevText {
		next.InputQueryResult = conversation.Query(text, m.store)
		if next.Interface.EditMessage == nil {
			next.Interface.URLPreview = m.urlPreview(text)
		}
	}
	next.PinnedMessage = m.store.Pinned()

	m.state = next
	m.list.SetSelection(next.Interface.SelectionState)
	m.list.Refresh()
	m.surface.UpdateState(next, animated, interactive)
	m.header.SetOverride(m.surface.NavigationOverride())
	m.helpBar.SetMode(ModeOf(&m.state))
}

func (m *Model) urlPreview(text string) *presentation.URLPreview {
	urls := m.rich.URLs(text)
	if len(urls) == 0 {
		return nil
	}
	p := &presentation.URLPreview{URL: urls[0], Title: urls[0], Description: "Link preview"}
	if u, err := url.Parse(urls[0]); err == nil && u.Host != "" {
		p.Title = u.Host
		p.Description = u.Host + u.Path
	}
	return p
}

// layout runs a layout pass at the current window size.
func (m *Model) layout(tr anim.Transition) {
	if !m.ready {
		return
	}
	m.surface.ContainerLayoutUpdated(geom.Size{W: m.width, H: m.height}, navBarHeight, tr, m.list.Apply)
}

func (m *Model) toggleInputMode(mode presentation.InputMode) {
	next := mode
	if m.state.InputMode == mode {
		next = presentation.InputModeText
	}
	m.setState(m.state.WithInputMode(next), true, true)
}

func (m *Model) typing() {
	m.typingUntil = time.Now().Add(typingTimeout)
	m.header.SetTyping(true)
	until := m.typingUntil
	m.cmds = append(m.cmds, tea.Tick(typingTimeout, func(time.Time) tea.Msg {
		return typingExpiredMsg{Until: until}
	}))
}

func (m *Model) sendMessages(out []surface.Outgoing) {
	text := m.factory.TextPanel()
	for _, o := range out {
		switch o.Kind {
		case surface.OutgoingText:
			m.store.Send(o.Text, o.ReplyTo)
			text.AddToHistory(o.Text)
		case surface.OutgoingForward:
			if _, err := m.store.Forward(o.Forward); err != nil {
				m.setError(err)
			}
		}
	}
	slog.Debug("messages sent", "count", len(out))
	m.list.Refresh()
	m.list.ScrollToBottom()
}

func (m *Model) editMessage(edit presentation.EditMessage) {
	if err := m.store.Edit(edit.MessageID, edit.InputState.Text); err != nil {
		m.setError(err)
	}
	m.setState(m.state.UpdatedInterfaceState(func(s presentation.InterfaceState) presentation.InterfaceState {
		return s.WithUpdatedEditMessage(nil)
	}), true, true)
}

func (m *Model) setError(err error) {
	slog.Warn("tui error", "error", err)
	m.helpBar.SetError(err.Error())
	m.cmds = append(m.cmds, tea.Tick(errorTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	}))
}

// applyConfig rebuilds the theme-dependent parts after a config reload.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	theme := cfg.BuildTheme()
	*m.styles = NewStyles(theme)
	*m.rich = *richtext.New(richtext.ThemeStyles(theme))
	m.frameInterval = cfg.FrameInterval()
	m.surface.SetMetrics(metricsFor(cfg))
	m.list.Refresh()

	next := m.state.WithTheme(theme, cfg.BuildWallpaper())
	if strs, err := cfg.LoadStrings(); err == nil {
		next.Strings = strs
		m.list.SetEmptyText(strs.EmptyChat)
	}
	slog.Info("config reloaded", "theme", theme.Name)
	m.setState(next, true, false)
	m.layout(anim.Animated(cfg.SpringDuration(), anim.CurveSpring))
}

// contextPanels returns the installed and departing context panels.
func (m *Model) contextPanels() []*contextPanel {
	var out []*contextPanel
	if h := m.surface.Host(panel.SlotInputContextPanel); h != nil {
		if p, ok := h.Panel.(*contextPanel); ok {
			out = append(out, p)
		}
	}
	if h := m.surface.Departing(panel.SlotInputContextPanel); h != nil {
		if p, ok := h.Panel.(*contextPanel); ok {
			out = append(out, p)
		}
	}
	return out
}

// ensureTicking starts the frame clock when something is animating.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	active := m.surface.Active()
	for _, p := range m.contextPanels() {
		active = active || p.Animating()
	}
	if !active {
		return nil
	}
	m.ticking = true
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func waitForReload(ch <-chan configReloadMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Run starts the TUI and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	if opts.ConfigPath != "" {
		w, err := config.Watch(opts.ConfigPath, func(cfg *config.Config, err error) {
			select {
			case m.reloads <- configReloadMsg{Config: cfg, Err: err}:
			default:
				slog.Debug("config reload dropped, previous still pending")
			}
		})
		if err != nil {
			slog.Warn("config watch failed", "path", opts.ConfigPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	slog.Debug("tui.Run: running program")
	_, err := p.Run()
	slog.Debug("tui.Run: program exited", "error", err)
	return err
}
