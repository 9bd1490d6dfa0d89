// Package queue holds work parked until some later event releases it.
package queue

import (
	"sync"
)

// Queue is a thread-safe FIFO that can be sealed. Once sealed it rejects
// further pushes so late arrivals can be failed by the caller instead of
// waiting forever.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	sealed bool
}

// New creates a new empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends item. It returns false if the queue is sealed.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sealed {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Len returns the number of parked items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Drain removes and returns every parked item in arrival order.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Seal drains the queue and rejects every later Push.
func (q *Queue[T]) Seal() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sealed = true
	items := q.items
	q.items = nil
	return items
}

// Sealed reports whether Seal has been called.
func (q *Queue[T]) Sealed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sealed
}
