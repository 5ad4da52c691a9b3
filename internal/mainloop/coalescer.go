// Package mainloop schedules the shell's frame-driven work: a keyed
// coalescer that merges bursts of same-key UI-thread tasks, and a frame
// loop for hosts without their own vsync callback.
package mainloop

import "sync"

// Task keys used by the shell. Callers may define their own.
const (
	KeyRender   = "render"
	KeyViewport = "viewport"
)

// Coalescer merges bursts of same-key main-loop tasks. Layout swaps and
// chrome offset changes can each demand a render in the same frame; the
// host should composite once, not three times.
type Coalescer struct {
	mu        sync.Mutex
	pending   map[string]bool
	callbacks map[string]func()
	post      func(func())
	destroyed bool
}

// NewCoalescer creates a coalescer that hands merged tasks to post,
// which must schedule them onto the UI thread. A nil post is a
// programming error.
func NewCoalescer(post func(func())) *Coalescer {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}

	return &Coalescer{
		pending:   make(map[string]bool),
		callbacks: make(map[string]func()),
		post:      post,
	}
}

// Post schedules fn under key. While a task for key is already pending,
// the stored callback is replaced and no second dispatch is scheduled;
// the latest callback runs once.
func (c *Coalescer) Post(key string, fn func()) {
	if fn == nil || key == "" {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.callbacks[key] = fn
	if c.pending[key] {
		c.mu.Unlock()
		return
	}
	c.pending[key] = true
	post := c.post
	c.mu.Unlock()

	post(func() {
		c.mu.Lock()
		if c.destroyed {
			delete(c.pending, key)
			delete(c.callbacks, key)
			c.mu.Unlock()
			return
		}
		fn := c.callbacks[key]
		delete(c.pending, key)
		delete(c.callbacks, key)
		c.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// Destroy drops all pending work; later Posts are ignored.
func (c *Coalescer) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	c.pending = map[string]bool{}
	c.callbacks = map[string]func(){}
	c.mu.Unlock()
}
