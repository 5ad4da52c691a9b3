// Package sim is a terminal playground for the shell: a Bubble Tea
// model drives the layout orchestrator and chrome controller with real
// frame ticks, mapping key presses to the requests a touch screen and
// renderer would normally send.
package sim

import (
	"context"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/calder/browsershell/internal/chrome"
	"github.com/calder/browsershell/internal/config"
	"github.com/calder/browsershell/internal/geometry"
	"github.com/calder/browsershell/internal/logging"
	"github.com/calder/browsershell/internal/mainloop"
	"github.com/calder/browsershell/internal/session"
	"github.com/calder/browsershell/internal/shell"
)

// Terminal cells stand in for device pixels at a fixed density.
const (
	cellPxW = 8.0
	cellPxH = 16.0

	// statusRows is the footer reserved below the simulated screen.
	statusRows = 2
)

// frameTickMsg is the Bubble Tea message emitted by the frame timer.
type frameTickMsg time.Time

func frameTickCmd() tea.Cmd {
	return tea.Tick(mainloop.DefaultFrameInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// Model is the Bubble Tea state for the simulator. It doubles as the
// orchestrator's Host and Content collaborators: render requests and
// content insets land here instead of on a real window and web view.
type Model struct {
	ctx    context.Context
	logger zerolog.Logger
	cfg    *config.Config
	store  *session.Store

	chrome *chrome.Controller
	orch   *shell.Orchestrator

	keys keyMap
	help help.Model

	width  int
	height int

	// Content collaborator state as last pushed by the orchestrator.
	topInset      float64
	chromeVisible bool

	renderRequests int
	frames         int

	token        chrome.Token
	overlayVideo bool
	scrollPx     float64

	sessionID string
	lastTick  time.Time
	quitting  bool
}

// New builds the simulator around a fresh controller and orchestrator.
// When store is non-nil the last saved shell state picks the starting
// layout; pass nil to always start at the configured default.
func New(ctx context.Context, cfg *config.Config, store *session.Store) (*Model, error) {
	log := logging.FromContext(ctx)

	startKind := shell.LayoutKind(cfg.Shell.DefaultLayout)
	overlayVideo := false
	sessionID := ""

	if store != nil {
		saved, err := store.Latest(ctx)
		if err != nil {
			return nil, err
		}
		if saved != nil {
			if shell.ValidKind(shell.LayoutKind(saved.LayoutKind)) {
				startKind = shell.LayoutKind(saved.LayoutKind)
			}
			overlayVideo = saved.OverlayVideo
			sessionID = saved.SessionID
			log.Debug().Str("session", saved.SessionID).Str("layout", saved.LayoutKind).Msg("restored shell state")
		}
	}
	if sessionID == "" {
		sessionID = session.NewState(string(startKind)).SessionID
	}

	m := &Model{
		ctx:          ctx,
		logger:       log.With().Str("component", "sim").Logger(),
		cfg:          cfg,
		store:        store,
		keys:         defaultKeyMap(),
		help:         help.New(),
		overlayVideo: overlayVideo,
		sessionID:    sessionID,
	}

	m.chrome = chrome.NewController(ctx, chrome.Options{
		HeightPx:             cfg.Chrome.HeightPx,
		MinShowDuration:      cfg.Chrome.MinShowDuration(),
		MaxAnimationDuration: cfg.Chrome.MaxAnimationDuration(),
		StartHidden:          cfg.Chrome.StartHidden,
	})
	m.chrome.SetOverlayVideoMode(overlayVideo)

	m.orch = shell.New(ctx)
	m.orch.Init(ctx, shell.Params{
		Host:        m,
		Content:     m,
		Chrome:      m.chrome,
		Factory:     &shell.DefaultFactory{},
		DefaultKind: shell.LayoutKind(cfg.Shell.DefaultLayout),
		DPScale:     cfg.Display.DPScale,
	})
	m.orch.RequestShow(startKind, false)

	return m, nil
}

// RequestRender implements shell.Host. Bubble Tea redraws after every
// message, so the request only needs counting for the status line.
func (m *Model) RequestRender() { m.renderRequests++ }

// SetTopInset implements shell.Content.
func (m *Model) SetTopInset(px float64) { m.topInset = px }

// SetChromeVisible implements shell.Content.
func (m *Model) SetChromeVisible(visible bool) { m.chromeVisible = visible }

// Init starts the frame timer.
func (m *Model) Init() tea.Cmd {
	return frameTickCmd()
}

// Update is the Bubble Tea update loop.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pushWindowRect()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameTickMsg:
		now := time.Time(msg)
		dt := mainloop.DefaultFrameInterval
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick)
		}
		m.lastTick = now
		m.frames++
		m.orch.Update(now, dt)
		if m.quitting {
			return m, tea.Quit
		}
		return m, frameTickCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		m.saveState()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Browsing):
		m.orch.RequestShow(shell.KindBrowsing, true)
	case key.Matches(msg, keys.TabSwitcher):
		m.orch.RequestShow(shell.KindTabSwitcher, true)
	case key.Matches(msg, keys.Overlay):
		m.orch.RequestShow(shell.KindOverlay, true)
	case key.Matches(msg, keys.Contextual):
		m.orch.RequestShow(shell.KindContextualOverlay, true)

	case key.Matches(msg, keys.Transient):
		m.chrome.ShowTransient()

	case key.Matches(msg, keys.Pin):
		if m.token == 0 {
			m.token = m.chrome.ShowPersistent()
		} else {
			m.chrome.HidePersistent(m.token)
			m.token = 0
		}

	case key.Matches(msg, keys.ScrollDown):
		m.scrollPx += m.chrome.Height() / 2
		m.pushScroll()
	case key.Matches(msg, keys.ScrollUp):
		m.scrollPx = math.Max(0, m.scrollPx-m.chrome.Height()/2)
		m.pushScroll()

	case key.Matches(msg, keys.Hide):
		m.orch.RequestHide(shell.KindBrowsing, 0)

	case key.Matches(msg, keys.Video):
		m.overlayVideo = !m.overlayVideo
		m.chrome.SetOverlayVideoMode(m.overlayVideo)

	case key.Matches(msg, keys.SwipeLeft):
		m.sendSwipe(-120)
	case key.Matches(msg, keys.SwipeRight):
		m.sendSwipe(120)
	}

	return m, nil
}

// pushWindowRect maps the terminal size to a simulated pixel rect,
// reserving the footer rows, and notifies the orchestrator the way a
// host window's resize signal would.
func (m *Model) pushWindowRect() {
	rows := m.height - statusRows
	if rows < 0 {
		rows = 0
	}
	raw := geometry.NewRect(0, 0, float64(m.width)*cellPxW, float64(rows)*cellPxH)
	m.orch.OnViewportChanged(raw, geometry.Rect{}, 0)
}

// pushScroll reports the renderer-side chrome offset implied by the
// fake scroll position. Scrolling down pushes the strip off-screen in
// proportion until a full strip height of travel hides it.
func (m *Model) pushScroll() {
	offset := -math.Min(m.scrollPx, m.chrome.Height())
	m.chrome.OnContentPush(offset, m.scrollPx)
}

// sendSwipe synthesizes the touch sequence a horizontal flick produces.
func (m *Model) sendSwipe(dx float64) {
	vp := m.orch.Viewport()
	x := vp.VisiblePx.Width / 2
	y := vp.VisiblePx.Y + vp.VisiblePx.Height/2
	now := m.lastTick

	m.orch.OnTouch(shell.TouchEvent{Phase: shell.TouchDown, X: x, Y: y, Time: now})
	m.orch.OnTouch(shell.TouchEvent{Phase: shell.TouchMove, X: x + dx/2, Y: y, Time: now.Add(30 * time.Millisecond)})
	m.orch.OnTouch(shell.TouchEvent{Phase: shell.TouchMove, X: x + dx, Y: y, Time: now.Add(60 * time.Millisecond)})
	m.orch.OnTouch(shell.TouchEvent{Phase: shell.TouchUp, X: x + dx, Y: y, Time: now.Add(90 * time.Millisecond)})
}

// saveState snapshots the shell for the next run. Failures are logged,
// not fatal; losing a snapshot only costs the restored layout.
func (m *Model) saveState() {
	if m.store == nil || !m.cfg.Session.Autosave {
		return
	}

	state := &session.ShellState{
		SessionID:         m.sessionID,
		LayoutKind:        string(m.orch.ActiveKind()),
		PermanentlyHidden: m.chrome.PermanentlyHidden(),
		OverlayVideo:      m.overlayVideo,
		Version:           1,
		SavedAt:           time.Now(),
	}
	if err := m.store.Save(m.ctx, state); err != nil {
		m.logger.Warn().Err(err).Msg("failed to save shell state")
	}
}
