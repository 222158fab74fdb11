// Package queue provides the FIFO queue and the priority queue adapters.
//
// Both wrap an underlying sequence and expose only the operations of their
// discipline. The FIFO queue defaults to a deque.Deque, the priority queue
// to a vector.Vector kept heap-ordered with package heap.
package queue

import "github.com/Sumatoshi-tech/containers/pkg/deque"

// Sequence is the storage a Queue needs.
type Sequence[T any] interface {
	Len() int
	Front() T
	Back() T
	PushBack(value T)
	PopFront()
}

// Queue is a first-in first-out adapter.
type Queue[T any] struct {
	seq Sequence[T]
}

// Option configures a Queue.
type Option[T any] func(*Queue[T])

// WithSequence makes the queue store its elements in seq, which keeps its
// current contents.
func WithSequence[T any](seq Sequence[T]) Option[T] {
	return func(q *Queue[T]) {
		q.seq = seq
	}
}

// New creates an empty queue over a deque unless WithSequence says otherwise.
func New[T any](opts ...Option[T]) *Queue[T] {
	q := &Queue[T]{}

	for _, opt := range opts {
		opt(q)
	}

	if q.seq == nil {
		q.seq = deque.New[T]()
	}

	return q
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int { return q.seq.Len() }

// Empty reports whether the queue has no element.
func (q *Queue[T]) Empty() bool { return q.seq.Len() == 0 }

// Push appends value at the back.
func (q *Queue[T]) Push(value T) { q.seq.PushBack(value) }

// Pop removes the front element and returns it.
//
// REQUIRES: !q.Empty().
func (q *Queue[T]) Pop() T {
	value := q.seq.Front()
	q.seq.PopFront()

	return value
}

// Front returns the oldest element.
//
// REQUIRES: !q.Empty().
func (q *Queue[T]) Front() T { return q.seq.Front() }

// Back returns the newest element.
//
// REQUIRES: !q.Empty().
func (q *Queue[T]) Back() T { return q.seq.Back() }

// Sequence returns the underlying storage.
func (q *Queue[T]) Sequence() Sequence[T] { return q.seq }

// Swap exchanges the contents of two queues in O(1).
func (q *Queue[T]) Swap(other *Queue[T]) {
	q.seq, other.seq = other.seq, q.seq
}
