// Package chrome owns the animated offset of the persistent browser
// chrome strip: a token-counted force-visible mechanism, an animated
// show/hide state machine, and the content-offset derivation read by
// whatever draws beneath the strip.
//
// All methods assume single-threaded (UI thread) invocation. There is
// no internal locking; concurrent mutation is disallowed by contract.
package chrome

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/calder/browsershell/internal/logging"
)

// State represents the visibility state of the chrome strip.
type State string

const (
	StateHidden  State = "hidden"
	StateShowing State = "showing"
	StateShown   State = "shown"
	StateHiding  State = "hiding"
)

// Token is an opaque handle representing one caller's standing demand
// that chrome remain visible. The strip is pinned visible iff at least
// one token is outstanding. Zero is never a valid token.
type Token int

const (
	// DefaultMinShowDuration is how long a transient show keeps the
	// strip visible before it auto-hides.
	DefaultMinShowDuration = 3 * time.Second

	// DefaultMaxAnimationDuration is the time a full-height show or
	// hide animation takes. Partial transitions scale down linearly.
	DefaultMaxAnimationDuration = 500 * time.Millisecond

	transitionHistorySize = 32
)

// Options configures a Controller.
type Options struct {
	// HeightPx is the chrome strip height in device pixels. Required.
	HeightPx float64

	// MinShowDuration overrides DefaultMinShowDuration when positive.
	MinShowDuration time.Duration

	// MaxAnimationDuration overrides DefaultMaxAnimationDuration when
	// positive.
	MaxAnimationDuration time.Duration

	// StartHidden starts the strip fully hidden instead of shown, for
	// hosts restoring a fullscreen session.
	StartHidden bool

	// Clock supplies the current time; defaults to time.Now. Tests
	// inject a fake clock here.
	Clock func() time.Time
}

// Controller is the chrome visibility state machine.
type Controller struct {
	logger  zerolog.Logger
	height  float64
	minShow time.Duration
	maxAnim time.Duration
	clock   func() time.Time

	state State

	// browserOffset is the browser-side override; NaN when inactive.
	browserOffset float64
	// rendererOffset is the content-driven push; NaN until the page
	// reports one.
	rendererOffset        float64
	rendererContentOffset float64
	resolved              float64

	tokens    map[Token]struct{}
	nextToken Token

	anim          *offsetAnimation
	pendingHideAt time.Time
	visibleSince  time.Time

	permanentlyHidden bool
	overlayVideo      bool

	history         *ringBuffer[Transition]
	onOffsetChanged func(resolved float64, animating bool)
}

// NewController creates a chrome visibility controller.
// A non-positive height is a programming error and panics.
func NewController(ctx context.Context, opts Options) *Controller {
	if opts.HeightPx <= 0 {
		panic("chrome.NewController: HeightPx must be positive")
	}

	log := logging.FromContext(ctx)

	c := &Controller{
		logger:         log.With().Str("component", "chrome-controller").Logger(),
		height:         opts.HeightPx,
		minShow:        opts.MinShowDuration,
		maxAnim:        opts.MaxAnimationDuration,
		clock:          opts.Clock,
		state:          StateShown,
		browserOffset:  0,
		rendererOffset: math.NaN(),
		tokens:         make(map[Token]struct{}),
		history:        newRingBuffer[Transition](transitionHistorySize),
	}
	if c.minShow <= 0 {
		c.minShow = DefaultMinShowDuration
	}
	if c.maxAnim <= 0 {
		c.maxAnim = DefaultMaxAnimationDuration
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if opts.StartHidden {
		c.state = StateHidden
		c.browserOffset = math.NaN()
	}
	c.visibleSince = c.clock()
	c.recompute()
	return c
}

// SetOnOffsetChanged registers a callback invoked whenever the resolved
// offset changes. Used by the orchestrator to invalidate viewports and
// request frames.
func (c *Controller) SetOnOffsetChanged(fn func(resolved float64, animating bool)) {
	c.onOffsetChanged = fn
}

// State returns the current visibility state.
func (c *Controller) State() State { return c.state }

// Height returns the chrome strip height in device pixels.
func (c *Controller) Height() float64 { return c.height }

// ResolvedOffset returns the effective chrome offset in
// [-height, 0]: 0 fully shown, -height fully hidden.
func (c *Controller) ResolvedOffset() float64 { return c.resolved }

// ContentTopInset returns the pixels of content currently covered by
// chrome, for translating child views below the visible strip.
func (c *Controller) ContentTopInset() float64 { return c.height + c.resolved }

// IsAnimating reports whether an offset animation is in flight.
func (c *Controller) IsAnimating() bool { return c.anim != nil }

// OutstandingTokens returns the number of live persistent tokens.
func (c *Controller) OutstandingTokens() int { return len(c.tokens) }

// PermanentlyHidden reports whether the permanent-hide override is set.
func (c *Controller) PermanentlyHidden() bool { return c.permanentlyHidden }

// Transitions returns the recorded state transition history, oldest
// first.
func (c *Controller) Transitions() []Transition { return c.history.all() }

// ShowTransient begins a show animation that auto-hides after the
// minimum show duration unless re-triggered or pinned. No-op while any
// persistent token is outstanding.
func (c *Controller) ShowTransient() {
	if len(c.tokens) > 0 {
		// Already pinned; the auto-hide deadline does not apply.
		return
	}
	if c.permanentlyHidden || c.overlayVideo {
		c.logger.Debug().Msg("transient show ignored while force-hidden")
		return
	}
	now := c.clock()
	c.beginShow(now, "transient show")
	c.pendingHideAt = now.Add(c.minShow)
	c.recompute()
}

// ShowPersistent allocates a new visibility token. If the outstanding
// set was empty, a show animation begins that will not auto-hide.
// The caller must release the token with HidePersistent; a leaked token
// pins the chrome visible forever.
func (c *Controller) ShowPersistent() Token {
	c.nextToken++
	tok := c.nextToken
	wasEmpty := len(c.tokens) == 0
	c.tokens[tok] = struct{}{}

	if wasEmpty {
		c.pendingHideAt = time.Time{}
		c.beginShow(c.clock(), "persistent show")
	}
	c.recompute()
	c.logger.Debug().Int("token", int(tok)).Int("outstanding", len(c.tokens)).Msg("persistent token issued")
	return tok
}

// ShowPersistentAndClearToken atomically replaces oldToken with a fresh
// one. The outstanding set never passes through an observable empty
// window, so the strip cannot flicker toward hidden during the handoff.
func (c *Controller) ShowPersistentAndClearToken(oldToken Token) Token {
	delete(c.tokens, oldToken)
	return c.ShowPersistent()
}

// HidePersistent releases a token. Unknown or already-released tokens
// are no-ops, tolerating idempotent release during teardown. When the
// last token goes away a hide animation begins, deferred until the
// minimum show duration has elapsed.
func (c *Controller) HidePersistent(token Token) {
	if _, ok := c.tokens[token]; !ok {
		c.logger.Debug().Int("token", int(token)).Msg("release of unknown token ignored")
		return
	}
	delete(c.tokens, token)
	if len(c.tokens) > 0 {
		return
	}

	now := c.clock()
	earliest := c.visibleSince.Add(c.minShow)
	if now.Before(earliest) {
		c.pendingHideAt = earliest
		return
	}
	c.beginHide(now, "last token released")
	c.recompute()
}

// SetOverlayVideoMode forces the strip hidden while fullscreen video
// overlays the page. Clearing it restores token-driven visibility.
func (c *Controller) SetOverlayVideoMode(enabled bool) {
	if c.overlayVideo == enabled {
		return
	}
	c.overlayVideo = enabled
	c.applyForcedHide(enabled, "overlay video")
}

// SetPermanentlyHidden forces resolvedOffset to -height regardless of
// token or animation state. Idempotent.
func (c *Controller) SetPermanentlyHidden(hidden bool) {
	if c.permanentlyHidden == hidden {
		return
	}
	c.permanentlyHidden = hidden
	c.applyForcedHide(hidden, "permanently hidden")
}

func (c *Controller) applyForcedHide(active bool, reason string) {
	if active {
		c.anim = nil
		c.pendingHideAt = time.Time{}
		c.browserOffset = math.NaN()
		c.setState(StateHidden, reason)
	} else if len(c.tokens) > 0 {
		c.beginShow(c.clock(), reason+" cleared")
	}
	c.recompute()
}

// OnContentPush receives the page-driven chrome offsets. The renderer
// side competes with the browser-side override; whichever demands more
// visibility wins on the next resolve.
func (c *Controller) OnContentPush(rendererOffset, rendererContentOffset float64) {
	c.rendererOffset = rendererOffset
	c.rendererContentOffset = rendererContentOffset
	c.recompute()
}

// Update advances the animation and the deferred auto-hide to now.
// Returns true while more frames are needed. The host calls this once
// per display refresh while it returns true.
func (c *Controller) Update(now time.Time) bool {
	if c.anim != nil {
		c.browserOffset = c.anim.value(now)
		if c.anim.done(now) {
			target := c.anim.to
			c.anim = nil
			if target >= 0 {
				c.browserOffset = 0
				c.setState(StateShown, "show animation complete")
			} else {
				// Clear the browser override so later content-driven
				// offsets are not fighting a stale value.
				c.browserOffset = math.NaN()
				c.setState(StateHidden, "hide animation complete")
			}
		}
	}

	if !c.pendingHideAt.IsZero() && !now.Before(c.pendingHideAt) {
		c.pendingHideAt = time.Time{}
		if len(c.tokens) == 0 && !c.permanentlyHidden && !c.overlayVideo {
			c.beginHide(now, "auto-hide deadline")
		}
	}

	c.recompute()
	return c.anim != nil || !c.pendingHideAt.IsZero()
}

// beginShow starts an animation toward fully shown.
func (c *Controller) beginShow(now time.Time, reason string) {
	if c.state == StateHidden || c.state == StateHiding {
		c.visibleSince = now
	}
	c.beginAnimation(0, now, reason)
}

// beginHide starts an animation toward fully hidden.
func (c *Controller) beginHide(now time.Time, reason string) {
	c.beginAnimation(-c.height, now, reason)
}

// beginAnimation starts an offset animation toward dest. An in-flight
// animation toward the same destination is left alone; one toward the
// opposite destination is cancelled first so the offset cannot
// oscillate.
func (c *Controller) beginAnimation(dest float64, now time.Time, reason string) {
	cur := c.currentBrowserOffset(now)

	if c.anim != nil {
		if c.anim.to == dest {
			return
		}
		c.anim = nil
	}

	if cur == dest {
		c.browserOffset = dest
		if dest >= 0 {
			c.setState(StateShown, reason)
		} else {
			c.browserOffset = math.NaN()
			c.setState(StateHidden, reason)
		}
		return
	}

	duration := time.Duration(float64(c.maxAnim) * math.Abs(dest-cur) / c.height)
	c.anim = &offsetAnimation{from: cur, to: dest, start: now, duration: duration}
	c.browserOffset = cur
	if dest >= 0 {
		c.setState(StateShowing, reason)
	} else {
		c.setState(StateHiding, reason)
	}
}

// currentBrowserOffset returns the browser-side offset at now, treating
// "no override" as fully hidden.
func (c *Controller) currentBrowserOffset(now time.Time) float64 {
	if c.anim != nil {
		return c.anim.value(now)
	}
	if math.IsNaN(c.browserOffset) {
		return -c.height
	}
	return c.browserOffset
}

func (c *Controller) setState(next State, reason string) {
	if c.state == next {
		return
	}
	c.history.add(Transition{From: c.state, To: next, At: c.clock(), Reason: reason})
	c.logger.Debug().
		Str("from", string(c.state)).
		Str("to", string(next)).
		Str("reason", reason).
		Msg("chrome state transition")
	c.state = next
}

// recompute resolves the effective offset from the competing browser
// and renderer demands and notifies the offset listener on change.
func (c *Controller) recompute() {
	resolved := c.resolve()
	if resolved == c.resolved {
		return
	}
	c.resolved = resolved
	if c.onOffsetChanged != nil {
		c.onOffsetChanged(resolved, c.anim != nil)
	}
}

func (c *Controller) resolve() float64 {
	if c.permanentlyHidden || c.overlayVideo {
		return -c.height
	}

	browser := c.browserOffset
	if math.IsNaN(browser) {
		browser = -c.height
	}
	renderer := c.rendererOffset
	if math.IsNaN(renderer) {
		renderer = -c.height
	}

	// Whichever side demands more visibility wins.
	resolved := math.Max(browser, renderer)
	if resolved > 0 {
		resolved = 0
	}
	if resolved < -c.height {
		resolved = -c.height
	}
	return resolved
}
