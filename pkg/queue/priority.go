package queue

import (
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/heap"
	"github.com/Sumatoshi-tech/containers/pkg/vector"
)

// Container is the storage a PriorityQueue needs: random access plus growth
// and shrinkage at the back. Both vector.Vector and deque.Deque qualify.
type Container[T any] interface {
	heap.RandomAccess[T]
	PushBack(value T)
	PopBack()
}

// PriorityQueue keeps the element ranked highest by less on top.
type PriorityQueue[T any] struct {
	c    Container[T]
	less functional.LessFunc[T]
}

// PriorityOption configures a PriorityQueue.
type PriorityOption[T any] func(*PriorityQueue[T])

// WithContainer makes the priority queue store its elements in c. Existing
// contents are heapified.
func WithContainer[T any](c Container[T]) PriorityOption[T] {
	return func(pq *PriorityQueue[T]) {
		pq.c = c
	}
}

// NewPriority creates a priority queue ordered by less: with functional.Less
// the greatest element is on top.
func NewPriority[T any](less functional.LessFunc[T], opts ...PriorityOption[T]) *PriorityQueue[T] {
	pq := &PriorityQueue[T]{less: less}

	for _, opt := range opts {
		opt(pq)
	}

	if pq.c == nil {
		pq.c = vector.New[T]()
	}

	heap.Make(pq.c, pq.less)

	return pq
}

// FromSlice creates a priority queue holding a copy of values.
func FromSlice[T any](less functional.LessFunc[T], values []T) *PriorityQueue[T] {
	return NewPriority(less, WithContainer[T](vector.From(values)))
}

// Len returns the number of elements.
func (pq *PriorityQueue[T]) Len() int { return pq.c.Len() }

// Empty reports whether the queue has no element.
func (pq *PriorityQueue[T]) Empty() bool { return pq.c.Len() == 0 }

// Top returns the highest ranked element.
//
// REQUIRES: !pq.Empty().
func (pq *PriorityQueue[T]) Top() T { return *pq.c.Index(0) }

// Push adds value.
func (pq *PriorityQueue[T]) Push(value T) {
	pq.c.PushBack(value)
	heap.Push(pq.c, pq.less)
}

// Pop removes the top element and returns it.
//
// REQUIRES: !pq.Empty().
func (pq *PriorityQueue[T]) Pop() T {
	heap.Pop(pq.c, pq.less)

	top := *pq.c.Index(pq.c.Len() - 1)
	pq.c.PopBack()

	return top
}

// Container returns the underlying heap-ordered storage.
func (pq *PriorityQueue[T]) Container() Container[T] { return pq.c }

// Swap exchanges the contents and orderings of two priority queues in O(1).
func (pq *PriorityQueue[T]) Swap(other *PriorityQueue[T]) {
	*pq, *other = *other, *pq
}
