package shell

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/calder/browsershell/internal/geometry"
	"github.com/calder/browsershell/internal/logging"
)

// baseLayout carries the lifecycle and transition progress shared by
// the built-in layouts. progress runs 0 (gone) to 1 (presented); speed
// is progress units per second, 0 meaning instant swaps.
type baseLayout struct {
	kind   LayoutKind
	sizing SizingFlags
	logger zerolog.Logger

	viewport geometry.Rect
	attached bool

	progress float64
	target   float64
	speed    float64

	hiding   bool
	hideNext LayoutKind
	hideHint int
}

func newBaseLayout(ctx context.Context, kind LayoutKind, sizing SizingFlags, speed float64) baseLayout {
	log := logging.FromContext(ctx)
	return baseLayout{
		kind:   kind,
		sizing: sizing,
		logger: log.With().Str("component", "layout").Str("kind", string(kind)).Logger(),
		speed:  speed,
	}
}

func (b *baseLayout) Kind() LayoutKind    { return b.kind }
func (b *baseLayout) Sizing() SizingFlags { return b.sizing }

func (b *baseLayout) Attach() {
	b.attached = true
	b.logger.Debug().Msg("layout attached")
}

func (b *baseLayout) Detach() {
	b.attached = false
	b.hiding = false
	b.progress = 0
	b.target = 0
	b.logger.Debug().Msg("layout detached")
}

func (b *baseLayout) Show(animate bool) {
	b.hiding = false
	b.target = 1
	if !animate || b.speed <= 0 {
		b.progress = 1
	}
}

func (b *baseLayout) StartHiding(next LayoutKind, hint int) {
	b.hiding = true
	b.hideNext = next
	b.hideHint = hint
	b.target = 0
	if b.speed <= 0 {
		b.progress = 0
	}
	b.logger.Debug().Str("next", string(next)).Int("hint", hint).Msg("layout hiding")
}

func (b *baseLayout) IsHiding() bool { return b.hiding }

func (b *baseLayout) DoneHiding() bool { return b.hiding && b.progress <= 0 }

func (b *baseLayout) SetViewport(dp geometry.Rect) { b.viewport = dp }

func (b *baseLayout) Update(_ time.Time, dt time.Duration) bool {
	if b.progress == b.target {
		return false
	}
	if b.speed <= 0 {
		b.progress = b.target
		return false
	}
	step := b.speed * dt.Seconds()
	switch {
	case b.progress < b.target:
		b.progress += step
		if b.progress > b.target {
			b.progress = b.target
		}
	default:
		b.progress -= step
		if b.progress < b.target {
			b.progress = b.target
		}
	}
	return b.progress != b.target
}

// --- event filters ---

// passFilter never intercepts; the gesture falls through to content.
type passFilter struct{}

func (passFilter) InterceptTouch(TouchEvent) bool { return false }
func (passFilter) HandleTouch(TouchEvent)         {}

// swipeFilter claims a gesture once horizontal travel from the down
// point exceeds the slop threshold, then reports the final travel when
// the gesture ends.
type swipeFilter struct {
	slop    float64
	downX   float64
	downY   float64
	tracked bool
	onSwipe func(dx float64)
}

func (f *swipeFilter) InterceptTouch(ev TouchEvent) bool {
	switch ev.Phase {
	case TouchDown:
		f.downX, f.downY = ev.X, ev.Y
		f.tracked = true
		return false
	case TouchMove:
		if !f.tracked {
			return false
		}
		dx := ev.X - f.downX
		if dx < 0 {
			dx = -dx
		}
		return dx > f.slop
	default:
		f.tracked = false
		return false
	}
}

func (f *swipeFilter) HandleTouch(ev TouchEvent) {
	if !ev.Phase.IsGestureEnd() {
		return
	}
	if ev.Phase == TouchUp && f.onSwipe != nil {
		f.onSwipe(ev.X - f.downX)
	}
	f.tracked = false
}

// modalFilter claims every gesture; nothing reaches the content below a
// modal surface.
type modalFilter struct {
	onTap func(x, y float64)
	downX float64
	downY float64
}

func (f *modalFilter) InterceptTouch(ev TouchEvent) bool {
	return ev.Phase == TouchDown
}

func (f *modalFilter) HandleTouch(ev TouchEvent) {
	switch ev.Phase {
	case TouchDown:
		f.downX, f.downY = ev.X, ev.Y
	case TouchUp:
		if f.onTap != nil {
			f.onTap(ev.X, ev.Y)
		}
	}
}

// --- browsing ---

// browsingLayout is the normal page-view mode: content owns gestures,
// chrome may auto-hide with the page scroll.
type browsingLayout struct {
	baseLayout
	filter passFilter
}

func newBrowsingLayout(ctx context.Context) *browsingLayout {
	return &browsingLayout{
		baseLayout: newBaseLayout(ctx, KindBrowsing, SizingFlags{
			AllowToolbarHide:    true,
			AllowToolbarAnimate: true,
		}, 0),
	}
}

func (l *browsingLayout) EventFilter() EventFilter { return l.filter }

func (l *browsingLayout) Scene(vp geometry.Viewport) *SceneNode {
	root := &SceneNode{Name: "browsing", Bounds: vp.RawPx, Alpha: 1}
	root.AddChild(&SceneNode{Name: "content", Bounds: vp.VisiblePx, Alpha: 1})
	return root
}

// --- tab switcher ---

// tabSwitcherLayout presents the tab grid. The toolbar stays pinned and
// horizontal swipes dismiss tabs instead of scrolling content.
type tabSwitcherLayout struct {
	baseLayout
	filter *swipeFilter
}

func newTabSwitcherLayout(ctx context.Context) *tabSwitcherLayout {
	return &tabSwitcherLayout{
		baseLayout: newBaseLayout(ctx, KindTabSwitcher, SizingFlags{
			AllowToolbarHide:    false,
			AllowToolbarAnimate: true,
		}, 1000.0/300), // 300ms fade
		filter: &swipeFilter{slop: 48},
	}
}

func (l *tabSwitcherLayout) EventFilter() EventFilter { return l.filter }

// SetOnSwipe sets the callback for a completed dismiss swipe. dx is the
// signed horizontal travel in pixels.
func (l *tabSwitcherLayout) SetOnSwipe(fn func(dx float64)) {
	l.filter.onSwipe = fn
}

func (l *tabSwitcherLayout) Scene(vp geometry.Viewport) *SceneNode {
	root := &SceneNode{Name: "tab-switcher", Bounds: vp.RawPx, Alpha: l.progress}
	root.AddChild(&SceneNode{Name: "tab-grid", Bounds: vp.VisiblePx, Alpha: l.progress})
	return root
}

// --- overlay ---

// overlayLayout slides a panel down from beneath the toolbar; the
// toolbar stays visible and the page remains partially exposed.
type overlayLayout struct {
	baseLayout
	filter *modalFilter
}

func newOverlayLayout(ctx context.Context) *overlayLayout {
	return &overlayLayout{
		baseLayout: newBaseLayout(ctx, KindOverlay, SizingFlags{
			AllowToolbarHide:    false,
			AllowToolbarAnimate: true,
		}, 1000.0/250), // 250ms slide
		filter: &modalFilter{},
	}
}

func (l *overlayLayout) EventFilter() EventFilter { return l.filter }

// SetOnTap sets the callback for a tap landing on the overlay.
func (l *overlayLayout) SetOnTap(fn func(x, y float64)) {
	l.filter.onTap = fn
}

func (l *overlayLayout) Scene(vp geometry.Viewport) *SceneNode {
	panel := vp.VisiblePx
	panel.Height *= 0.5
	// Slide in from above the visible area.
	panel.Y -= (1 - l.progress) * panel.Height

	root := &SceneNode{Name: "overlay", Bounds: vp.RawPx, Alpha: 1}
	root.AddChild(&SceneNode{Name: "panel", Bounds: panel, Alpha: l.progress})
	return root
}

// --- contextual overlay ---

// contextualOverlayLayout is the fullscreen modal surface (context
// menus, immersive prompts). Chrome is concealed immediately and every
// gesture is consumed.
type contextualOverlayLayout struct {
	baseLayout
	filter *modalFilter
}

func newContextualOverlayLayout(ctx context.Context) *contextualOverlayLayout {
	return &contextualOverlayLayout{
		baseLayout: newBaseLayout(ctx, KindContextualOverlay, SizingFlags{
			RequiresFullscreen:     true,
			AllowToolbarHide:       true,
			HideToolbarImmediately: true,
		}, 1000.0/200), // 200ms scrim fade
		filter: &modalFilter{},
	}
}

func (l *contextualOverlayLayout) EventFilter() EventFilter { return l.filter }

// SetOnTap sets the callback for a tap on the modal surface.
func (l *contextualOverlayLayout) SetOnTap(fn func(x, y float64)) {
	l.filter.onTap = fn
}

func (l *contextualOverlayLayout) Scene(vp geometry.Viewport) *SceneNode {
	root := &SceneNode{Name: "contextual-overlay", Bounds: vp.FullscreenPx, Alpha: 1}
	root.AddChild(&SceneNode{Name: "scrim", Bounds: vp.FullscreenPx, Alpha: 0.6 * l.progress})

	sheet := vp.FullscreenPx
	sheet.Y += sheet.Height * 0.4
	sheet.Height *= 0.6
	root.AddChild(&SceneNode{Name: "sheet", Bounds: sheet, Alpha: l.progress})
	return root
}
