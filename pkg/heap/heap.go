// Package heap implements binary max-heap algorithms over any random access
// sequence. "Max" is relative to less: the element no other element is less
// than sits at index 0. Children of i are 2i+1 and 2i+2.
//
// Unlike container/heap, the algorithms take the ordering as a function and
// work on sequences exposing element pointers, so a deque or a vector can be
// heap-ordered in place.
package heap

import "github.com/Sumatoshi-tech/containers/pkg/functional"

// RandomAccess is a sequence with O(1) element access.
type RandomAccess[T any] interface {
	Len() int
	Index(i int) *T
}

// Slice adapts a plain slice to RandomAccess.
type Slice[T any] []T

// Len implements RandomAccess.
func (s Slice[T]) Len() int { return len(s) }

// Index implements RandomAccess.
func (s Slice[T]) Index(i int) *T { return &s[i] }

// Push restores the heap after a new element was appended to a heap of
// Len()-1 elements.
func Push[T any](c RandomAccess[T], less functional.LessFunc[T]) {
	siftUp(c, c.Len()-1, less)
}

// Pop moves the top element to the back and restores the heap on the first
// Len()-1 elements. The caller removes the back element afterwards.
//
// REQUIRES: c.Len() > 0.
func Pop[T any](c RandomAccess[T], less functional.LessFunc[T]) {
	last := c.Len() - 1
	swap(c, 0, last)
	siftDown(c, 0, last, less)
}

// Make arranges c into a heap bottom-up in O(n).
func Make[T any](c RandomAccess[T], less functional.LessFunc[T]) {
	n := c.Len()
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(c, i, n, less)
	}
}

// IsHeap reports whether c is a heap.
func IsHeap[T any](c RandomAccess[T], less functional.LessFunc[T]) bool {
	return IsHeapUntil(c, less) == c.Len()
}

// IsHeapUntil returns the length of the longest prefix of c that is a heap.
func IsHeapUntil[T any](c RandomAccess[T], less functional.LessFunc[T]) int {
	n := c.Len()
	for child := 1; child < n; child++ {
		if less(*c.Index((child-1)/2), *c.Index(child)) {
			return child
		}
	}

	return n
}

// Sort turns a heap into a range sorted ascending by less.
//
// REQUIRES: IsHeap(c, less).
func Sort[T any](c RandomAccess[T], less functional.LessFunc[T]) {
	for n := c.Len(); n > 1; n-- {
		swap(c, 0, n-1)
		siftDown(c, 0, n-1, less)
	}
}

func siftUp[T any](c RandomAccess[T], i int, less functional.LessFunc[T]) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(*c.Index(parent), *c.Index(i)) {
			return
		}

		swap(c, parent, i)
		i = parent
	}
}

// siftDown moves the element at i down within [0, n) while a child
// outranks it.
func siftDown[T any](c RandomAccess[T], i, n int, less functional.LessFunc[T]) {
	for {
		child := 2*i + 1
		if child >= n {
			return
		}

		if right := child + 1; right < n && less(*c.Index(child), *c.Index(right)) {
			child = right
		}

		if !less(*c.Index(i), *c.Index(child)) {
			return
		}

		swap(c, i, child)
		i = child
	}
}

func swap[T any](c RandomAccess[T], i, j int) {
	a, b := c.Index(i), c.Index(j)
	*a, *b = *b, *a
}
