package geometry

// Viewport carries the three per-frame rectangles consumers depend on,
// each in device pixels and in density independent units.
//
//   - Raw: the full host window rect.
//   - Visible: raw minus the strip currently covered by non-hidden
//     chrome at the top.
//   - Fullscreen: always equals raw; layouts that ignore chrome read
//     this one.
type Viewport struct {
	RawPx        Rect
	VisiblePx    Rect
	FullscreenPx Rect

	RawDP        Rect
	VisibleDP    Rect
	FullscreenDP Rect

	// DPScale is the pixel-per-dp factor the projections were computed
	// with.
	DPScale float64
}

// ComputeViewport projects a raw pixel rect into all coordinate spaces.
//
// chromeOffsetPx is the resolved chrome offset in [-chromeHeightPx, 0]:
// 0 means chrome fully shown (full inset), -chromeHeightPx fully hidden
// (no inset). Out-of-range offsets are clamped. A non-positive dpScale
// falls back to 1 so the dp projections degrade to pixel values rather
// than exploding.
//
// Pure and deterministic; callers cache the result until the window
// size or the chrome offset changes.
func ComputeViewport(raw Rect, chromeOffsetPx, chromeHeightPx, dpScale float64) Viewport {
	raw = NewRect(raw.X, raw.Y, raw.Width, raw.Height)

	if chromeHeightPx < 0 {
		chromeHeightPx = 0
	}
	if chromeOffsetPx > 0 {
		chromeOffsetPx = 0
	}
	if chromeOffsetPx < -chromeHeightPx {
		chromeOffsetPx = -chromeHeightPx
	}
	if dpScale <= 0 {
		dpScale = 1
	}

	// Visible chrome strip height: offset 0 covers the full chrome
	// height, offset -chromeHeight covers nothing.
	inset := chromeHeightPx + chromeOffsetPx

	vp := Viewport{
		RawPx:        raw,
		VisiblePx:    raw.InsetTop(inset),
		FullscreenPx: raw,
		DPScale:      dpScale,
	}

	inv := 1 / dpScale
	vp.RawDP = vp.RawPx.Scale(inv)
	vp.VisibleDP = vp.VisiblePx.Scale(inv)
	vp.FullscreenDP = vp.FullscreenPx.Scale(inv)
	return vp
}
