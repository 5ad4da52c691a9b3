package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/browsershell/internal/geometry"
	"github.com/calder/browsershell/internal/shell"
)

func createLayout(t *testing.T, kind shell.LayoutKind) shell.Layout {
	t.Helper()
	l := shell.DefaultFactory{}.CreateLayout(context.Background(), kind)
	require.NotNil(t, l)
	return l
}

// pump advances a layout's animation in 16ms frames until it settles.
func pump(l shell.Layout, limit int) {
	now := time.Unix(1000, 0)
	for i := 0; i < limit; i++ {
		now = now.Add(16 * time.Millisecond)
		if !l.Update(now, 16*time.Millisecond) {
			return
		}
	}
}

func TestDefaultFactory_CoversClosedKindSet(t *testing.T) {
	for _, kind := range shell.Kinds() {
		l := createLayout(t, kind)
		assert.Equal(t, kind, l.Kind())
		assert.NotNil(t, l.EventFilter())
	}

	assert.Nil(t, shell.DefaultFactory{}.CreateLayout(context.Background(), shell.LayoutKind("bogus")))
}

func TestSizingFlags_PolicySplit(t *testing.T) {
	assert.True(t, createLayout(t, shell.KindBrowsing).Sizing().AllowToolbarHide)
	assert.False(t, createLayout(t, shell.KindTabSwitcher).Sizing().AllowToolbarHide)
	assert.False(t, createLayout(t, shell.KindOverlay).Sizing().AllowToolbarHide)

	ctx := createLayout(t, shell.KindContextualOverlay).Sizing()
	assert.True(t, ctx.RequiresFullscreen)
	assert.True(t, ctx.HideToolbarImmediately)
}

func TestBrowsingLayout_ShowsInstantly(t *testing.T) {
	l := createLayout(t, shell.KindBrowsing)
	l.Attach()
	l.Show(true)

	assert.False(t, l.Update(time.Unix(1000, 0), 16*time.Millisecond), "no animation frames needed")

	vp := geometry.ComputeViewport(geometry.NewRect(0, 0, 1080, 1920), 0, 56, 1)
	root := l.Scene(vp)
	require.NotNil(t, root)
	assert.Equal(t, "browsing", root.Name)
	require.Len(t, root.Children, 1)
	assert.Equal(t, vp.VisiblePx, root.Children[0].Bounds)
}

func TestTabSwitcherLayout_FadesInAndOut(t *testing.T) {
	l := createLayout(t, shell.KindTabSwitcher)
	vp := geometry.ComputeViewport(geometry.NewRect(0, 0, 1080, 1920), 0, 56, 1)

	l.Attach()
	l.Show(true)
	assert.Equal(t, 0.0, l.Scene(vp).Alpha, "fade starts from zero")

	pump(l, 60)
	assert.Equal(t, 1.0, l.Scene(vp).Alpha)
	assert.False(t, l.IsHiding())

	l.StartHiding(shell.KindBrowsing, 2)
	assert.True(t, l.IsHiding())
	assert.False(t, l.DoneHiding(), "still mid-transition")

	pump(l, 60)
	assert.True(t, l.DoneHiding())
	assert.Equal(t, 0.0, l.Scene(vp).Alpha)
}

func TestTabSwitcherLayout_ShowWithoutAnimateSettlesImmediately(t *testing.T) {
	l := createLayout(t, shell.KindTabSwitcher)
	vp := geometry.ComputeViewport(geometry.NewRect(0, 0, 1080, 1920), 0, 56, 1)

	l.Attach()
	l.Show(false)

	assert.Equal(t, 1.0, l.Scene(vp).Alpha)
	assert.False(t, l.Update(time.Unix(1000, 0), 16*time.Millisecond))
}

func TestTabSwitcherFilter_ClaimsHorizontalSwipes(t *testing.T) {
	l := createLayout(t, shell.KindTabSwitcher)
	f := l.EventFilter()

	var swiped float64
	l.(interface{ SetOnSwipe(func(dx float64)) }).SetOnSwipe(func(dx float64) { swiped = dx })

	assert.False(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchDown, X: 100, Y: 200}))
	assert.False(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchMove, X: 120, Y: 200}), "within slop")
	assert.True(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchMove, X: 180, Y: 200}))

	f.HandleTouch(shell.TouchEvent{Phase: shell.TouchMove, X: 220, Y: 200})
	f.HandleTouch(shell.TouchEvent{Phase: shell.TouchUp, X: 260, Y: 200})
	assert.Equal(t, 160.0, swiped)
}

func TestTabSwitcherFilter_IgnoresVerticalScroll(t *testing.T) {
	l := createLayout(t, shell.KindTabSwitcher)
	f := l.EventFilter()

	assert.False(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchDown, X: 100, Y: 200}))
	assert.False(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchMove, X: 110, Y: 600}))
}

func TestContextualOverlay_ConsumesEveryGesture(t *testing.T) {
	l := createLayout(t, shell.KindContextualOverlay)
	f := l.EventFilter()

	var tapX, tapY float64
	l.(interface{ SetOnTap(func(x, y float64)) }).SetOnTap(func(x, y float64) { tapX, tapY = x, y })

	assert.True(t, f.InterceptTouch(shell.TouchEvent{Phase: shell.TouchDown, X: 40, Y: 80}))
	f.HandleTouch(shell.TouchEvent{Phase: shell.TouchDown, X: 40, Y: 80})
	f.HandleTouch(shell.TouchEvent{Phase: shell.TouchUp, X: 42, Y: 81})

	assert.Equal(t, 42.0, tapX)
	assert.Equal(t, 81.0, tapY)
}

func TestOverlayLayout_PanelSlidesWithProgress(t *testing.T) {
	l := createLayout(t, shell.KindOverlay)
	vp := geometry.ComputeViewport(geometry.NewRect(0, 0, 1080, 1920), 0, 56, 1)

	l.Attach()
	l.Show(true)
	start := l.Scene(vp).Children[0].Bounds.Y

	pump(l, 60)
	end := l.Scene(vp).Children[0].Bounds.Y

	assert.Greater(t, end, start, "panel slides down into place")
	assert.Equal(t, vp.VisiblePx.Y, end)
}

func TestDetach_ResetsTransitionState(t *testing.T) {
	l := createLayout(t, shell.KindTabSwitcher)

	l.Attach()
	l.Show(true)
	pump(l, 60)
	l.StartHiding(shell.KindBrowsing, 0)
	l.Detach()

	assert.False(t, l.IsHiding())
	assert.False(t, l.DoneHiding())
}
