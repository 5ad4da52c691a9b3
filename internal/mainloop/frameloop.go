package mainloop

import (
	"context"
	"time"
)

// DefaultFrameInterval matches a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// StepFunc advances one frame. It returns true while more frames are
// needed; the loop idles when it returns false and resumes on Kick.
type StepFunc func(now time.Time, dt time.Duration) bool

// FrameLoop invokes a step function once per display refresh, the way
// a host window's frame callback would. It exists for the simulator and
// for headless runs; real hosts drive the orchestrator from their own
// vsync signal instead.
type FrameLoop struct {
	interval time.Duration
	step     StepFunc
	kick     chan struct{}
}

// NewFrameLoop creates a frame loop. A nil step is a programming error.
// A non-positive interval falls back to DefaultFrameInterval.
func NewFrameLoop(interval time.Duration, step StepFunc) *FrameLoop {
	if step == nil {
		panic("mainloop.NewFrameLoop: step function cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameLoop{
		interval: interval,
		step:     step,
		kick:     make(chan struct{}, 1),
	}
}

// Kick wakes an idle loop so the next frame runs promptly. Safe to call
// from any goroutine; extra kicks while one is pending are merged.
func (l *FrameLoop) Kick() {
	select {
	case l.kick <- struct{}{}:
	default:
	}
}

// Run drives the step function until ctx is cancelled. While the step
// reports more work it runs every interval; otherwise the loop sleeps
// until kicked.
func (l *FrameLoop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	last := time.Now()
	active := true

	for {
		if active {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				active = l.step(now, now.Sub(last))
				last = now
			case <-l.kick:
				active = true
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.kick:
			active = true
			last = time.Now()
			ticker.Reset(l.interval)
		}
	}
}
