// Package queue provides the FIFO that carries tokens and rows between the
// goroutines of a pipeline.
package queue

import "sync"

// Queue is an order-preserving FIFO safe for any number of producers and
// consumers.
//
// Consumers take items with TryPop, which never blocks. Instead of spinning
// on an empty queue a consumer can wait on Ready, which is signalled after
// every Push.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	head  int
	ready chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
	}
}

// Push appends v to the tail of the queue.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// TryPop removes and returns the head of the queue. The boolean is false when
// the queue was empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.head == len(q.items) {
		return zero, false
	}

	v := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		q.items = q.items[:n]
		q.head = 0
	}

	return v, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Ready returns a channel that receives after a Push. A receive does not
// guarantee an item is still present; callers must TryPop again.
func (q *Queue[T]) Ready() <-chan struct{} {
	return q.ready
}
