// Package shell owns the single active full-screen layout, drives
// show/hide transition lifecycle, routes touch input to the active
// layout's event filter, and arbitrates chrome visibility tokens on the
// layout's behalf.
package shell

import (
	"context"
	"time"

	"github.com/calder/browsershell/internal/geometry"
)

// LayoutKind names one of the closed set of mutually exclusive
// full-screen presentation modes.
type LayoutKind string

const (
	KindBrowsing          LayoutKind = "browsing"
	KindTabSwitcher       LayoutKind = "tab-switcher"
	KindOverlay           LayoutKind = "overlay"
	KindContextualOverlay LayoutKind = "contextual-overlay"
)

// Kinds returns every layout kind, in presentation order.
func Kinds() []LayoutKind {
	return []LayoutKind{KindBrowsing, KindTabSwitcher, KindOverlay, KindContextualOverlay}
}

// ValidKind reports whether kind belongs to the closed set.
func ValidKind(kind LayoutKind) bool {
	switch kind {
	case KindBrowsing, KindTabSwitcher, KindOverlay, KindContextualOverlay:
		return true
	}
	return false
}

// SizingFlags are a layout's declarations of fullscreen and
// toolbar-hiding behavior; the orchestrator translates them into chrome
// token ownership when the layout becomes active.
type SizingFlags struct {
	// RequiresFullscreen makes the orchestrator feed the layout the
	// fullscreen viewport instead of the chrome-inset one.
	RequiresFullscreen bool

	// AllowToolbarHide permits the chrome strip to auto-hide while the
	// layout is active. When false the orchestrator holds a persistent
	// visibility token for the layout's lifetime.
	AllowToolbarHide bool

	// AllowToolbarAnimate permits animated chrome transitions; layouts
	// that swap instantly set this false.
	AllowToolbarAnimate bool

	// HideToolbarImmediately conceals chrome without animation the
	// moment the layout attaches, via the permanent-hide override.
	HideToolbarImmediately bool
}

// Layout is the capability set every presentation mode implements.
// Lifecycle: created once by the factory, Attach when it becomes
// active, Detach when replaced; never two attached at once.
type Layout interface {
	Kind() LayoutKind
	Sizing() SizingFlags

	// EventFilter returns the layout's touch filter. Never nil.
	EventFilter() EventFilter

	// Attach and Detach bracket the layout's time as the active layout.
	Attach()
	Detach()

	// Show starts the layout's own presentation animation. With
	// animate false the layout must arrive in its settled state
	// immediately.
	Show(animate bool)

	// StartHiding begins the transition out. next is the kind that will
	// replace this layout, hint an optional selection index forwarded
	// from the hide request.
	StartHiding(next LayoutKind, hint int)

	// IsHiding reports a transition out is in progress.
	IsHiding() bool

	// DoneHiding reports the transition out has finished and the
	// deferred swap may proceed.
	DoneHiding() bool

	// SetViewport hands the layout its rect in density independent
	// units for re-layout.
	SetViewport(dp geometry.Rect)

	// Update advances the layout's animation step. Returns true while
	// the layout needs more frames.
	Update(now time.Time, dt time.Duration) bool

	// Scene produces the drawable scene graph for the current viewport.
	Scene(vp geometry.Viewport) *SceneNode
}

// LayoutFactory creates layout instances. This decouples the
// orchestrator from the concrete layout implementations.
type LayoutFactory interface {
	CreateLayout(ctx context.Context, kind LayoutKind) Layout
}

// DefaultFactory builds the built-in layout set.
type DefaultFactory struct{}

// CreateLayout returns the built-in implementation for kind, or nil for
// a kind outside the closed set.
func (DefaultFactory) CreateLayout(ctx context.Context, kind LayoutKind) Layout {
	switch kind {
	case KindBrowsing:
		return newBrowsingLayout(ctx)
	case KindTabSwitcher:
		return newTabSwitcherLayout(ctx)
	case KindOverlay:
		return newOverlayLayout(ctx)
	case KindContextualOverlay:
		return newContextualOverlayLayout(ctx)
	}
	return nil
}
