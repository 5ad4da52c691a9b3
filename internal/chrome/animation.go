package chrome

import "time"

// offsetAnimation linearly interpolates the browser-side chrome offset
// between two endpoints. Duration is pre-scaled by the caller so a
// partially visible strip animates proportionally faster.
type offsetAnimation struct {
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
}

func (a *offsetAnimation) value(now time.Time) float64 {
	if a.duration <= 0 {
		return a.to
	}
	elapsed := now.Sub(a.start)
	if elapsed <= 0 {
		return a.from
	}
	if elapsed >= a.duration {
		return a.to
	}
	t := float64(elapsed) / float64(a.duration)
	return a.from + (a.to-a.from)*t
}

func (a *offsetAnimation) done(now time.Time) bool {
	return now.Sub(a.start) >= a.duration
}
