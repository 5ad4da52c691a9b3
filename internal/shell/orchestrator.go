package shell

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/calder/browsershell/internal/chrome"
	"github.com/calder/browsershell/internal/geometry"
	"github.com/calder/browsershell/internal/logging"
)

// Host is the capability surface the orchestrator needs from the
// embedding window system. It stays ignorant of the concrete toolkit.
type Host interface {
	// RequestRender asks the host to schedule another composited frame.
	RequestRender()
}

// Content is the page-side collaborator: it receives the inset needed
// to sit below visible chrome and a visibility flag for its own child
// views.
type Content interface {
	SetTopInset(px float64)
	SetChromeVisible(visible bool)
}

// Params carries the orchestrator's dependencies into Init.
type Params struct {
	Host    Host
	Content Content
	Chrome  *chrome.Controller
	Factory LayoutFactory

	// DefaultKind is the fallback layout for unknown or empty requests.
	// Zero value falls back to the browsing layout.
	DefaultKind LayoutKind

	// DPScale is the device pixel per dp factor used for viewport
	// projections.
	DPScale float64
}

// Orchestrator owns exactly one active layout at a time, drives its
// transition lifecycle, routes touch input, and requests or releases
// chrome visibility tokens as the active layout's sizing flags demand.
//
// All methods must run on the UI thread; Init must complete before any
// other call, and breaking that ordering panics rather than limping.
type Orchestrator struct {
	logger zerolog.Logger

	host    Host
	content Content
	chrome  *chrome.Controller

	layouts     map[LayoutKind]Layout
	defaultKind LayoutKind
	dpScale     float64

	active      Layout
	chromeToken chrome.Token

	hidePending bool
	hideNext    LayoutKind
	hideHint    int

	captured EventFilter

	rawRect       geometry.Rect
	viewport      geometry.Viewport
	viewportValid bool

	selectionObservers []func(hint int)

	initialized bool
}

// New creates an uninitialized orchestrator. Init must be called with
// the host and collaborator dependencies before any other method.
func New(ctx context.Context) *Orchestrator {
	log := logging.FromContext(ctx)
	return &Orchestrator{
		logger: log.With().Str("component", "layout-orchestrator").Logger(),
	}
}

// Init wires the orchestrator's dependencies and builds the layout set.
// Nil host, content, chrome, or factory is a programming error.
func (o *Orchestrator) Init(ctx context.Context, p Params) {
	if p.Host == nil || p.Content == nil || p.Chrome == nil || p.Factory == nil {
		panic("shell.Orchestrator.Init: host, content, chrome, and factory are required")
	}

	o.host = p.Host
	o.content = p.Content
	o.chrome = p.Chrome
	o.dpScale = p.DPScale
	if o.dpScale <= 0 {
		o.dpScale = 1
	}
	o.defaultKind = p.DefaultKind
	if !ValidKind(o.defaultKind) {
		o.defaultKind = KindBrowsing
	}

	o.layouts = make(map[LayoutKind]Layout, len(Kinds()))
	for _, kind := range Kinds() {
		l := p.Factory.CreateLayout(ctx, kind)
		if l == nil {
			panic("shell.Orchestrator.Init: factory returned nil layout for " + string(kind))
		}
		o.layouts[kind] = l
	}

	o.chrome.SetOnOffsetChanged(func(_ float64, _ bool) {
		o.invalidateViewport()
		o.pushContentState()
		o.host.RequestRender()
	})

	o.initialized = true
	o.logger.Debug().Str("default", string(o.defaultKind)).Msg("orchestrator initialized")
}

func (o *Orchestrator) mustInit() {
	if !o.initialized {
		panic("shell.Orchestrator: used before Init")
	}
}

// ActiveKind returns the active layout's kind, or empty when none is
// shown yet.
func (o *Orchestrator) ActiveKind() LayoutKind {
	if o.active == nil {
		return ""
	}
	return o.active.Kind()
}

// Layout returns the instance backing kind, for host wiring such as
// gesture callbacks. Nil for kinds outside the closed set.
func (o *Orchestrator) Layout(kind LayoutKind) Layout {
	o.mustInit()
	return o.layouts[kind]
}

// AddSelectionObserver registers a callback for the selection hint
// carried by hide requests, used by preview transitions.
func (o *Orchestrator) AddSelectionObserver(fn func(hint int)) {
	o.selectionObservers = append(o.selectionObservers, fn)
}

// RequestShow makes kind the active layout. An unknown or empty kind
// falls back to the default layout. Showing the already-active kind
// re-runs the attach sequence only.
func (o *Orchestrator) RequestShow(kind LayoutKind, animate bool) {
	o.mustInit()

	if !ValidKind(kind) {
		o.logger.Warn().Str("kind", string(kind)).Str("fallback", string(o.defaultKind)).
			Msg("unknown layout kind requested, falling back to default")
		kind = o.defaultKind
	}
	next := o.layouts[kind]

	if next == o.active {
		// Re-showing cancels any hide still pending against this layout.
		o.hidePending = false
		next.Attach()
		o.pushViewport(next)
		next.Show(animate)
		o.host.RequestRender()
		return
	}

	if o.active != nil {
		o.active.Detach()
	}
	o.hidePending = false
	o.captured = nil

	o.active = next
	next.Attach()
	o.applyChromePolicy(next)
	o.pushContentState()
	o.pushViewport(next)
	next.Show(animate)

	o.logger.Debug().Str("kind", string(kind)).Bool("animate", animate).Msg("layout shown")
	o.host.RequestRender()
}

// applyChromePolicy reconciles chrome token ownership and overrides
// with the incoming layout's sizing flags. A held token is transferred
// atomically so the strip never sees a tokenless window between two
// pinning layouts.
func (o *Orchestrator) applyChromePolicy(next Layout) {
	sizing := next.Sizing()
	needsToken := !sizing.AllowToolbarHide

	switch {
	case needsToken && o.chromeToken != 0:
		o.chromeToken = o.chrome.ShowPersistentAndClearToken(o.chromeToken)
	case needsToken:
		o.chromeToken = o.chrome.ShowPersistent()
	case o.chromeToken != 0:
		o.chrome.HidePersistent(o.chromeToken)
		o.chromeToken = 0
	}

	o.chrome.SetPermanentlyHidden(sizing.HideToolbarImmediately)
}

// RequestHide marks the active layout as hiding and defers the swap to
// next until the layout reports DoneHiding. Only one hide may be
// pending; a second request before the first resolves overwrites the
// pending target (last writer wins).
func (o *Orchestrator) RequestHide(next LayoutKind, hintSelection int) {
	o.mustInit()
	if o.active == nil {
		return
	}

	if o.hidePending {
		o.logger.Debug().
			Str("old_next", string(o.hideNext)).
			Str("new_next", string(next)).
			Msg("pending hide target overwritten")
	}

	o.hidePending = true
	o.hideNext = next
	o.hideHint = hintSelection

	for _, fn := range o.selectionObservers {
		fn(hintSelection)
	}

	o.active.StartHiding(next, hintSelection)
	o.host.RequestRender()
}

// OnTouch routes a touch event. Once a filter claims a gesture it is
// the sole recipient of that gesture's remaining events; the capture
// clears when the gesture ends. Returns whether the event was consumed
// by the shell rather than the content below.
func (o *Orchestrator) OnTouch(ev TouchEvent) bool {
	o.mustInit()

	if o.captured != nil {
		o.captured.HandleTouch(ev)
		if ev.Phase.IsGestureEnd() {
			o.captured = nil
		}
		return true
	}

	if o.active == nil {
		return false
	}

	filter := o.active.EventFilter()
	if filter == nil || !filter.InterceptTouch(ev) {
		return false
	}

	o.captured = filter
	filter.HandleTouch(ev)
	if ev.Phase.IsGestureEnd() {
		o.captured = nil
	}
	return true
}

// OnViewportChanged recomputes every viewport projection from the new
// raw window rect and forwards the dp rect to the active layout.
// visiblePx and heightMinusChrome arrive from the host for reference;
// the projections are recomputed here so all consumers agree.
func (o *Orchestrator) OnViewportChanged(rawPx, _ geometry.Rect, _ float64) {
	o.mustInit()

	o.rawRect = rawPx
	o.invalidateViewport()
	if o.active != nil {
		o.pushViewport(o.active)
	}
	o.pushContentState()
	o.host.RequestRender()
}

// Viewport returns the cached viewport projections, recomputing them if
// the window size or chrome offset changed since the last call.
func (o *Orchestrator) Viewport() geometry.Viewport {
	o.mustInit()
	if !o.viewportValid {
		o.viewport = geometry.ComputeViewport(o.rawRect, o.chrome.ResolvedOffset(), o.chrome.Height(), o.dpScale)
		o.viewportValid = true
	}
	return o.viewport
}

func (o *Orchestrator) invalidateViewport() {
	o.viewportValid = false
}

// pushViewport forwards the appropriate dp rect for the layout's sizing
// flags.
func (o *Orchestrator) pushViewport(l Layout) {
	vp := o.Viewport()
	if l.Sizing().RequiresFullscreen {
		l.SetViewport(vp.FullscreenDP)
		return
	}
	l.SetViewport(vp.VisibleDP)
}

// pushContentState hands the content collaborator its top inset and
// chrome visibility flag.
func (o *Orchestrator) pushContentState() {
	inset := o.chrome.ContentTopInset()
	o.content.SetTopInset(inset)
	o.content.SetChromeVisible(inset > 0)
}

// Update advances the chrome animation and the active layout by one
// frame step. Returns true while another update pass is needed. A
// layout that finished hiding during this step triggers the deferred
// swap from RequestHide.
func (o *Orchestrator) Update(now time.Time, dt time.Duration) bool {
	o.mustInit()

	more := o.chrome.Update(now)

	if o.active != nil {
		if o.active.Update(now, dt) {
			more = true
		}
		if o.hidePending && o.active.DoneHiding() {
			o.hidePending = false
			o.RequestShow(o.hideNext, true)
			more = true
		}
	}

	if more {
		o.host.RequestRender()
	}
	return more
}

// BuildFrame assembles the per-frame handoff for the draw collaborator.
func (o *Orchestrator) BuildFrame() Frame {
	o.mustInit()

	frame := Frame{
		Viewport:     o.Viewport(),
		ChromeOffset: o.chrome.ResolvedOffset(),
	}
	if o.active != nil {
		frame.Root = o.active.Scene(frame.Viewport)
	}
	return frame
}
