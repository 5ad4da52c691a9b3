package chrome

import "time"

// Transition records one state change for debugging.
type Transition struct {
	From   State
	To     State
	At     time.Time
	Reason string
}

// ringBuffer is a fixed-capacity circular buffer for transition history.
// Access is confined to the UI thread, like everything else here.
type ringBuffer[T any] struct {
	buffer []T
	head   int
	tail   int
	size   int
	cap    int
}

func newRingBuffer[T any](capacity int) *ringBuffer[T] {
	return &ringBuffer[T]{
		buffer: make([]T, capacity),
		cap:    capacity,
	}
}

func (rb *ringBuffer[T]) add(item T) {
	rb.buffer[rb.head] = item
	rb.head = (rb.head + 1) % rb.cap

	if rb.size < rb.cap {
		rb.size++
	} else {
		rb.tail = (rb.tail + 1) % rb.cap
	}
}

func (rb *ringBuffer[T]) all() []T {
	if rb.size == 0 {
		return nil
	}
	result := make([]T, rb.size)
	for i := 0; i < rb.size; i++ {
		idx := (rb.tail + i) % rb.cap
		result[i] = rb.buffer[idx]
	}
	return result
}
