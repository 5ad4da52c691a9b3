package chrome_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/browsershell/internal/chrome"
)

const chromeHeight = 56.0

// fakeClock is a manually advanced clock for driving the controller's
// frame-based animation without real time.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) time.Time {
	f.now = f.now.Add(d)
	return f.now
}

func newController(t *testing.T, clk *fakeClock, startHidden bool) *chrome.Controller {
	t.Helper()
	return chrome.NewController(context.Background(), chrome.Options{
		HeightPx:    chromeHeight,
		StartHidden: startHidden,
		Clock:       clk.Now,
	})
}

// settle runs Update in 16ms steps until the controller reports no more
// work or the deadline passes.
func settle(c *chrome.Controller, clk *fakeClock, limit time.Duration) {
	deadline := clk.now.Add(limit)
	for c.Update(clk.now) && clk.now.Before(deadline) {
		clk.Advance(16 * time.Millisecond)
	}
}

func TestNewController_PanicsOnZeroHeight(t *testing.T) {
	assert.Panics(t, func() {
		chrome.NewController(context.Background(), chrome.Options{})
	})
}

func TestController_StartsShown(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, false)

	assert.Equal(t, chrome.StateShown, c.State())
	assert.Equal(t, 0.0, c.ResolvedOffset())
	assert.Equal(t, chromeHeight, c.ContentTopInset())
}

func TestController_StartsHidden(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	assert.Equal(t, chrome.StateHidden, c.State())
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
	assert.Equal(t, 0.0, c.ContentTopInset())
}

func TestShowPersistent_PinsUntilAllTokensReleased(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	t1 := c.ShowPersistent()
	t2 := c.ShowPersistent()
	settle(c, clk, time.Second)
	require.Equal(t, 0.0, c.ResolvedOffset())
	require.Equal(t, 2, c.OutstandingTokens())

	// One token still outstanding: no hide.
	c.HidePersistent(t1)
	settle(c, clk, 10*time.Second)
	assert.Equal(t, 0.0, c.ResolvedOffset())

	c.HidePersistent(t2)
	settle(c, clk, 10*time.Second)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
	assert.Equal(t, chrome.StateHidden, c.State())
}

func TestHidePersistent_UnknownTokenIsNoOp(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	tok := c.ShowPersistent()
	settle(c, clk, time.Second)

	c.HidePersistent(chrome.Token(9999))
	c.HidePersistent(chrome.Token(0))
	settle(c, clk, 10*time.Second)

	assert.Equal(t, 0.0, c.ResolvedOffset())
	assert.Equal(t, 1, c.OutstandingTokens())

	// Double release of a real token after it is gone changes nothing.
	c.HidePersistent(tok)
	settle(c, clk, 10*time.Second)
	before := c.ResolvedOffset()
	c.HidePersistent(tok)
	assert.Equal(t, before, c.ResolvedOffset())
	assert.Equal(t, 0, c.OutstandingTokens())
}

func TestShowPersistentAndClearToken_NoFlicker(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	old := c.ShowPersistent()
	settle(c, clk, time.Second)
	require.Equal(t, 0.0, c.ResolvedOffset())

	low := c.ResolvedOffset()
	c.SetOnOffsetChanged(func(resolved float64, _ bool) {
		if resolved < low {
			low = resolved
		}
	})

	fresh := c.ShowPersistentAndClearToken(old)
	settle(c, clk, time.Second)

	assert.NotEqual(t, old, fresh)
	assert.Equal(t, 1, c.OutstandingTokens())
	assert.Equal(t, 0.0, c.ResolvedOffset())
	assert.Equal(t, 0.0, low, "offset must never dip during the handoff")
}

func TestShowTransient_TimelineScenario(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)
	start := clk.now

	c.ShowTransient()

	// Must reach fully shown within the max animation duration.
	for clk.now.Sub(start) < 500*time.Millisecond {
		c.Update(clk.now)
		clk.Advance(16 * time.Millisecond)
	}
	c.Update(clk.now)
	require.Equal(t, 0.0, c.ResolvedOffset())

	// Stays shown until the minimum show duration elapses.
	for clk.now.Sub(start) < 3000*time.Millisecond {
		c.Update(clk.now)
		require.Equal(t, 0.0, c.ResolvedOffset(), "must stay shown before the deadline at t=%v", clk.now.Sub(start))
		clk.Advance(16 * time.Millisecond)
	}

	// Then animates out, ending at exactly -height within 500ms.
	for clk.now.Sub(start) < 3600*time.Millisecond {
		c.Update(clk.now)
		clk.Advance(16 * time.Millisecond)
	}
	c.Update(clk.now)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
	assert.Equal(t, chrome.StateHidden, c.State())
}

func TestShowTransient_NoOpWhilePinned(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	c.ShowPersistent()
	settle(c, clk, time.Second)

	c.ShowTransient()
	// A transient show must not install an auto-hide deadline while a
	// persistent token pins the strip.
	settle(c, clk, 10*time.Second)
	assert.Equal(t, 0.0, c.ResolvedOffset())
}

func TestShowTransient_RetriggerExtendsDeadline(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	c.ShowTransient()
	settle(c, clk, time.Second)
	require.Equal(t, 0.0, c.ResolvedOffset())

	clk.Advance(2 * time.Second)
	c.Update(clk.now)
	c.ShowTransient()

	// Old deadline (3s after the first call) passes without a hide.
	clk.Advance(1500 * time.Millisecond)
	c.Update(clk.now)
	assert.Equal(t, 0.0, c.ResolvedOffset())

	settle(c, clk, 10*time.Second)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
}

func TestHidePersistent_DefersUntilMinShowElapsed(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	tok := c.ShowPersistent()
	settle(c, clk, time.Second)

	// Release well before the minimum show duration has elapsed.
	c.HidePersistent(tok)
	c.Update(clk.now)
	assert.Equal(t, 0.0, c.ResolvedOffset(), "hide must be deferred by the min-show floor")

	settle(c, clk, 10*time.Second)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
}

func TestOnContentPush_MoreVisibleSideWins(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	// Content pushes the strip fully visible.
	c.OnContentPush(0, chromeHeight)
	assert.Equal(t, 0.0, c.ResolvedOffset())

	// Content retracts; no browser override active, so hidden wins.
	c.OnContentPush(-chromeHeight, 0)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())

	// Partial content push resolves to the partial value.
	c.OnContentPush(-20, chromeHeight-20)
	assert.Equal(t, -20.0, c.ResolvedOffset())

	// Browser side demands full visibility; it wins over the partial
	// renderer offset.
	c.ShowPersistent()
	settle(c, clk, time.Second)
	assert.Equal(t, 0.0, c.ResolvedOffset())
}

func TestHideCompletion_ClearsBrowserOverride(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	tok := c.ShowPersistent()
	settle(c, clk, time.Second)
	c.HidePersistent(tok)
	settle(c, clk, 10*time.Second)
	require.Equal(t, chrome.StateHidden, c.State())

	// With the override cleared, content offsets take effect directly
	// instead of fighting a stale browser value.
	c.OnContentPush(-10, chromeHeight-10)
	assert.Equal(t, -10.0, c.ResolvedOffset())
}

func TestSetPermanentlyHidden_ForcesOffsetAndIsIdempotent(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, false)

	c.ShowPersistent()
	settle(c, clk, time.Second)

	c.SetPermanentlyHidden(true)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())
	assert.True(t, c.PermanentlyHidden())

	// Idempotent; tokens and content pushes cannot override it.
	c.SetPermanentlyHidden(true)
	c.OnContentPush(0, chromeHeight)
	c.ShowTransient()
	settle(c, clk, 10*time.Second)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())

	// Clearing restores token-driven visibility.
	c.OnContentPush(-chromeHeight, 0)
	c.SetPermanentlyHidden(false)
	settle(c, clk, time.Second)
	assert.Equal(t, 0.0, c.ResolvedOffset())
}

func TestSetOverlayVideoMode_HidesAndRestores(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, false)

	c.ShowPersistent()
	settle(c, clk, time.Second)

	c.SetOverlayVideoMode(true)
	assert.Equal(t, -chromeHeight, c.ResolvedOffset())

	c.SetOverlayVideoMode(false)
	settle(c, clk, time.Second)
	assert.Equal(t, 0.0, c.ResolvedOffset())
}

func TestAnimationDuration_ScalesWithDistance(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	// Bring the strip to a partial offset via a content push, then take
	// over with a browser-side show; the remaining distance is shorter
	// than full height so the animation completes in under the max.
	c.OnContentPush(-chromeHeight/2, chromeHeight/2)
	require.Equal(t, -chromeHeight/2, c.ResolvedOffset())

	c.ShowTransient()
	clk.Advance(260 * time.Millisecond)
	c.Update(clk.now)
	// Browser side animates from hidden; after 260ms of a 500ms full
	// sweep it has passed the halfway point and owns the resolve.
	assert.Greater(t, c.ResolvedOffset(), -chromeHeight/2)
	assert.False(t, c.State() == chrome.StateHidden)
}

func TestOppositeDirectionCancelsInFlightAnimation(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	c.ShowTransient()
	settle(c, clk, time.Second)
	require.Equal(t, 0.0, c.ResolvedOffset())

	// Let the auto-hide fire and advance part-way into the hide sweep.
	clk.Advance(3 * time.Second)
	c.Update(clk.now)
	clk.Advance(200 * time.Millisecond)
	c.Update(clk.now)
	partial := c.ResolvedOffset()
	require.Greater(t, partial, -chromeHeight)
	require.Less(t, partial, 0.0)
	require.Equal(t, chrome.StateHiding, c.State())

	// A show mid-hide cancels the hide and climbs back from the current
	// offset; the offset never keeps moving toward hidden.
	c.ShowTransient()
	prev := c.ResolvedOffset()
	for c.State() != chrome.StateShown {
		clk.Advance(16 * time.Millisecond)
		c.Update(clk.now)
		require.GreaterOrEqual(t, c.ResolvedOffset(), prev)
		prev = c.ResolvedOffset()
	}
	assert.Equal(t, 0.0, c.ResolvedOffset())
}

func TestTransitions_RecordHistory(t *testing.T) {
	clk := newFakeClock()
	c := newController(t, clk, true)

	tok := c.ShowPersistent()
	settle(c, clk, time.Second)
	c.HidePersistent(tok)
	settle(c, clk, 10*time.Second)

	trs := c.Transitions()
	require.NotEmpty(t, trs)
	assert.Equal(t, chrome.StateHidden, trs[len(trs)-1].To)
}
