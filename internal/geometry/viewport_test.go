package geometry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/browsershell/internal/geometry"
)

func TestComputeViewport_ChromeFullyShown(t *testing.T) {
	raw := geometry.NewRect(0, 0, 1080, 1920)

	vp := geometry.ComputeViewport(raw, 0, 56, 2)

	assert.Equal(t, raw, vp.RawPx)
	assert.Equal(t, raw, vp.FullscreenPx)
	assert.Equal(t, geometry.NewRect(0, 56, 1080, 1864), vp.VisiblePx)

	assert.Equal(t, geometry.NewRect(0, 0, 540, 960), vp.RawDP)
	assert.Equal(t, geometry.NewRect(0, 28, 540, 932), vp.VisibleDP)
	assert.Equal(t, vp.RawDP, vp.FullscreenDP)
}

func TestComputeViewport_ChromeFullyHidden(t *testing.T) {
	raw := geometry.NewRect(0, 0, 1080, 1920)

	vp := geometry.ComputeViewport(raw, -56, 56, 2)

	assert.Equal(t, raw, vp.VisiblePx, "hidden chrome covers nothing")
	assert.Equal(t, raw, vp.FullscreenPx)
}

func TestComputeViewport_PartialOffset(t *testing.T) {
	raw := geometry.NewRect(0, 0, 1080, 1920)

	vp := geometry.ComputeViewport(raw, -20, 56, 1)

	assert.Equal(t, geometry.NewRect(0, 36, 1080, 1884), vp.VisiblePx)
}

func TestComputeViewport_ZeroChromeHeight(t *testing.T) {
	raw := geometry.NewRect(0, 0, 800, 600)

	vp := geometry.ComputeViewport(raw, 0, 0, 1)

	assert.Equal(t, raw, vp.VisiblePx, "visible == raw when chrome height is 0")
	assert.Equal(t, raw, vp.FullscreenPx, "fullscreen == raw always")
}

func TestComputeViewport_MalformedInputClamps(t *testing.T) {
	vp := geometry.ComputeViewport(geometry.Rect{X: 0, Y: 0, Width: -100, Height: -50}, 0, 56, 2)

	require.True(t, vp.RawPx.IsEmpty())
	require.True(t, vp.VisiblePx.IsEmpty())
	assert.Equal(t, 0.0, vp.RawPx.Width)
	assert.Equal(t, 0.0, vp.RawPx.Height)
}

func TestComputeViewport_OffsetClampedToRange(t *testing.T) {
	raw := geometry.NewRect(0, 0, 1080, 1920)

	over := geometry.ComputeViewport(raw, 10, 56, 1)
	assert.Equal(t, geometry.NewRect(0, 56, 1080, 1864), over.VisiblePx)

	under := geometry.ComputeViewport(raw, -500, 56, 1)
	assert.Equal(t, raw, under.VisiblePx)
}

func TestComputeViewport_BadScaleFallsBackToPixels(t *testing.T) {
	raw := geometry.NewRect(0, 0, 1080, 1920)

	vp := geometry.ComputeViewport(raw, 0, 0, 0)

	assert.Equal(t, vp.RawPx, vp.RawDP)
	assert.Equal(t, 1.0, vp.DPScale)
}

func TestRect_InsetTopCollapsesToBottomEdge(t *testing.T) {
	r := geometry.NewRect(0, 0, 100, 40)

	inset := r.InsetTop(60)

	assert.Equal(t, 40.0, inset.Y)
	assert.Equal(t, 0.0, inset.Height)
}

func TestRect_Contains(t *testing.T) {
	r := geometry.NewRect(10, 10, 100, 100)

	assert.True(t, r.Contains(10, 10))
	assert.True(t, r.Contains(50, 50))
	assert.False(t, r.Contains(110, 50))
	assert.False(t, r.Contains(9, 50))
}
