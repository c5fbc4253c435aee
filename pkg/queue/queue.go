package queue

import (
	"errors"
	"sync"
)

// ErrFull is returned by Enqueue when the queue is at capacity. This is a
// hard rejection: callers must back off and retry, the queue never blocks.
var ErrFull = errors.New("queue is full")

const defaultCapacity = 10000

// Queue is a fixed-capacity, in-memory FIFO buffer. Items are dequeued in
// the exact order they were enqueued; there is no priority, reordering or
// deduplication.
type Queue[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
}

// New creates a Queue with the given maximum capacity. A capacity <= 0
// falls back to the default of 10000.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Queue[T]{
		items:    make([]T, 0, min(capacity, 1024)),
		capacity: capacity,
	}
}

// Enqueue appends item at the tail and returns its 1-indexed position.
// Returns ErrFull when the queue is already at capacity; the queue is left
// unchanged in that case.
func (q *Queue[T]) Enqueue(item T) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) >= q.capacity {
		return 0, ErrFull
	}
	q.items = append(q.items, item)
	return len(q.items), nil
}

// Dequeue removes and returns the head item. The second return value is
// false when the queue is empty, which callers must treat as a normal,
// frequent condition rather than an error.
func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	head := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	if len(q.items) == 0 {
		q.items = make([]T, 0, min(q.capacity, 1024))
	}
	return head, true
}

// Peek returns the head item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

// Len returns the current number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue holds no items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}
