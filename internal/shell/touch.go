package shell

import "time"

// TouchPhase identifies where in a gesture a touch event sits.
type TouchPhase int

const (
	TouchDown TouchPhase = iota
	TouchMove
	TouchUp
	TouchCancel
)

func (p TouchPhase) String() string {
	switch p {
	case TouchDown:
		return "down"
	case TouchMove:
		return "move"
	case TouchUp:
		return "up"
	case TouchCancel:
		return "cancel"
	}
	return "unknown"
}

// IsGestureEnd reports whether the phase terminates a gesture and
// releases any touch capture.
func (p TouchPhase) IsGestureEnd() bool {
	return p == TouchUp || p == TouchCancel
}

// TouchEvent is one touch sample in device pixels, host window space.
type TouchEvent struct {
	Phase TouchPhase
	X     float64
	Y     float64
	Time  time.Time
}

// EventFilter is a layout's gesture hook. The orchestrator asks the
// active layout's filter to intercept each un-captured event; once a
// filter intercepts, it becomes the sole recipient of the gesture's
// remaining events until up or cancel.
type EventFilter interface {
	// InterceptTouch reports whether the filter wants to claim the
	// gesture this event belongs to.
	InterceptTouch(ev TouchEvent) bool

	// HandleTouch consumes an event of a claimed gesture.
	HandleTouch(ev TouchEvent)
}
