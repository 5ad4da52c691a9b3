// Package geometry provides the coordinate spaces the shell hands to
// layouts and the draw collaborator: raw device pixels, density
// independent units, and the fullscreen variant that ignores chrome.
package geometry

// Rect is an axis-aligned rectangle in a single coordinate space.
// Dimensions are never negative; constructors clamp instead of erroring.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewRect builds a rect, clamping negative dimensions to zero-area.
func NewRect(x, y, w, h float64) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// IsEmpty reports whether the rect has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Scale returns the rect with all coordinates multiplied by s.
func (r Rect) Scale(s float64) Rect {
	return NewRect(r.X*s, r.Y*s, r.Width*s, r.Height*s)
}

// InsetTop returns the rect with the top `inset` units removed.
// Insets larger than the height collapse to a zero-height rect at the
// bottom edge.
func (r Rect) InsetTop(inset float64) Rect {
	if inset < 0 {
		inset = 0
	}
	if inset > r.Height {
		inset = r.Height
	}
	return NewRect(r.X, r.Y+inset, r.Width, r.Height-inset)
}

// Contains reports whether the point (x, y) lies inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}
