// Package list implements a doubly linked list with a sentinel node.
//
// Nodes are drawn one at a time from an alloc.Allocator and never move, so an
// iterator stays valid until its own element is erased, even when the
// element is spliced into another list or the lists are swapped. The zero
// value is an empty list ready to use.
package list

import (
	"iter"
	"unsafe"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// Node is the storage unit of a list. Its fields are private.
type Node[T any] struct {
	value      T
	prev, next *Node[T]
	sentinel   bool
}

// List is a doubly linked list of T. A List must not be copied after first
// use; use Clone or Swap.
type List[T any] struct {
	nodes alloc.Allocator[Node[T]]

	// root is the sentinel: root.next is the front, root.prev the back.
	root Node[T]
	size int
}

// Option configures a List.
type Option[T any] func(*List[T])

// WithAllocator makes the list draw its nodes from a. Lists exchanging
// nodes through Splice or Merge must share the allocator.
func WithAllocator[T any](a alloc.Allocator[Node[T]]) Option[T] {
	return func(l *List[T]) {
		l.nodes = a
	}
}

// New creates an empty list.
func New[T any](opts ...Option[T]) *List[T] {
	l := &List[T]{}

	for _, opt := range opts {
		opt(l)
	}

	l.lazyInit()

	return l
}

// From creates a list holding values in order.
func From[T any](values []T, opts ...Option[T]) *List[T] {
	l := New(opts...)
	for _, value := range values {
		l.PushBack(value)
	}

	return l
}

func (l *List[T]) lazyInit() {
	if l.root.next == nil {
		l.root.sentinel = true
		l.root.next = &l.root
		l.root.prev = &l.root
	}
}

// Allocator returns the node allocator.
func (l *List[T]) Allocator() alloc.Allocator[Node[T]] {
	l.nodes = alloc.Or(l.nodes)

	return l.nodes
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list has no element.
func (l *List[T]) Empty() bool { return l.size == 0 }

// Begin points at the front element, or End when empty.
func (l *List[T]) Begin() Iterator[T] {
	l.lazyInit()

	return Iterator[T]{l.root.next}
}

// End points at the sentinel.
func (l *List[T]) End() Iterator[T] {
	l.lazyInit()

	return Iterator[T]{&l.root}
}

// Front returns the first element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) Front() T { return l.root.next.value }

// Back returns the last element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) Back() T { return l.root.prev.value }

// PushFront prepends value.
func (l *List[T]) PushFront(value T) { l.Insert(l.Begin(), value) }

// PushBack appends value.
func (l *List[T]) PushBack(value T) { l.Insert(l.End(), value) }

// PopFront removes the first element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) PopFront() { l.Erase(l.Begin()) }

// PopBack removes the last element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) PopBack() { l.Erase(l.End().Prev()) }

// Insert puts value before pos and returns an iterator to it.
func (l *List[T]) Insert(pos Iterator[T], value T) Iterator[T] {
	l.lazyInit()

	n := l.newNode(value)
	l.link(pos.node, n, n)
	l.size++

	return Iterator[T]{n}
}

// InsertN puts count copies of value before pos and returns an iterator to
// the first of them, or pos when count is zero.
func (l *List[T]) InsertN(pos Iterator[T], count int, value T) Iterator[T] {
	first := pos

	for i := range count {
		it := l.Insert(pos, value)
		if i == 0 {
			first = it
		}
	}

	return first
}

// InsertSeq puts the values of seq before pos and returns an iterator to the
// first of them, or pos when seq is empty.
func (l *List[T]) InsertSeq(pos Iterator[T], seq iter.Seq[T]) Iterator[T] {
	first := pos
	inserted := false

	for value := range seq {
		it := l.Insert(pos, value)
		if !inserted {
			first, inserted = it, true
		}
	}

	return first
}

// Erase removes the element at pos and returns an iterator to its successor.
//
// REQUIRES: !pos.IsEnd().
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	doAssert(pos.node != &l.root)

	next := pos.node.next
	l.unlink(pos.node, next)
	l.size--
	l.freeNode(pos.node)

	return Iterator[T]{next}
}

// EraseRange removes [first, last) and returns last.
func (l *List[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	for first.node != last.node {
		first = l.Erase(first)
	}

	return last
}

// Clear removes every element.
func (l *List[T]) Clear() {
	l.lazyInit()
	l.EraseRange(l.Begin(), l.End())
}

// Resize grows the list with copies of value or truncates it to n elements.
func (l *List[T]) Resize(n int, value T) {
	if n >= l.size {
		l.InsertN(l.End(), n-l.size, value)

		return
	}

	it := l.Begin()
	for range n {
		it = it.Next()
	}

	l.EraseRange(it, l.End())
}

// Assign replaces the contents with n copies of value.
func (l *List[T]) Assign(n int, value T) {
	l.Clear()
	l.InsertN(l.End(), n, value)
}

// Splice moves every element of other before pos in O(1).
func (l *List[T]) Splice(pos Iterator[T], other *List[T]) {
	other.lazyInit()
	l.SpliceRange(pos, other, other.Begin(), other.End())
}

// SpliceOne moves the element at it from other before pos.
func (l *List[T]) SpliceOne(pos Iterator[T], other *List[T], it Iterator[T]) {
	l.SpliceRange(pos, other, it, it.Next())
}

// SpliceRange moves [first, last) from other before pos. Moving within the
// same list is allowed as long as pos is not inside the range. Iterators to
// the moved elements stay valid.
func (l *List[T]) SpliceRange(pos Iterator[T], other *List[T], first, last Iterator[T]) {
	if first.node == last.node || pos.node == last.node {
		return
	}

	if other != l {
		count := other.size
		if first.node != other.root.next || last.node != &other.root {
			count = 0
			for node := first.node; node != last.node; node = node.next {
				count++
			}
		}

		l.size += count
		other.size -= count
	}

	head, tail := first.node, last.node.prev
	other.unlink(head, last.node)
	l.link(pos.node, head, tail)
}

// RemoveIf erases every element matching pred and returns how many there were.
func (l *List[T]) RemoveIf(pred func(T) bool) int {
	removed := 0

	for it := l.Begin(); !it.IsEnd(); {
		if pred(it.Value()) {
			it = l.Erase(it)
			removed++
		} else {
			it = it.Next()
		}
	}

	return removed
}

// Remove erases every element equal to value.
func Remove[T comparable](l *List[T], value T) int {
	return l.RemoveIf(func(v T) bool { return v == value })
}

// Unique erases every element equal to its predecessor under eq and returns
// how many were removed.
func (l *List[T]) Unique(eq functional.EqualFunc[T]) int {
	if l.size < 2 {
		return 0
	}

	removed := 0

	for prev, it := l.Begin(), l.Begin().Next(); !it.IsEnd(); {
		if eq(prev.Value(), it.Value()) {
			it = l.Erase(it)
			removed++
		} else {
			prev, it = it, it.Next()
		}
	}

	return removed
}

// Merge moves every element of other into l. Both must be sorted by less;
// the result is sorted and elements of l come before equal ones of other.
func (l *List[T]) Merge(other *List[T], less functional.LessFunc[T]) {
	if other == l {
		return
	}

	l.lazyInit()
	other.lazyInit()

	it := l.Begin()
	for !other.Empty() {
		moved := other.Begin()
		if it.IsEnd() || less(moved.Value(), it.Value()) {
			l.SpliceOne(it, other, moved)
		} else {
			it = it.Next()
		}
	}
}

// Sort orders the list by less with a stable bottom-up merge sort. Nodes are
// relinked, never copied, so iterators stay valid.
func (l *List[T]) Sort(less functional.LessFunc[T]) {
	for width := 1; width < l.size; width *= 2 {
		left := l.Begin()

		for start := 0; start+width < l.size; start += 2 * width {
			leftCount := width
			rightCount := min(width, l.size-start-width)

			right := left
			for range width {
				right = right.Next()
			}

			for leftCount > 0 && rightCount > 0 {
				if less(right.Value(), left.Value()) {
					next := right.Next()
					l.SpliceOne(left, l, right)
					right = next
					rightCount--
				} else {
					left = left.Next()
					leftCount--
				}
			}

			for ; rightCount > 0; rightCount-- {
				right = right.Next()
			}

			left = right
		}
	}
}

// Reverse reverses the order of the elements in O(n). Iterators stay valid.
func (l *List[T]) Reverse() {
	l.lazyInit()

	node := &l.root
	for {
		node.prev, node.next = node.next, node.prev
		node = node.prev

		if node == &l.root {
			return
		}
	}
}

// Swap exchanges the contents of two lists in O(1). Element iterators follow
// their elements; End iterators stay with their list.
func (l *List[T]) Swap(other *List[T]) {
	l.lazyInit()
	other.lazyInit()

	l.root, other.root = other.root, l.root
	l.size, other.size = other.size, l.size
	l.nodes, other.nodes = other.nodes, l.nodes

	l.relinkRoot()
	other.relinkRoot()
}

func (l *List[T]) relinkRoot() {
	if l.size == 0 {
		l.root.next = &l.root
		l.root.prev = &l.root

		return
	}

	l.root.next.prev = &l.root
	l.root.prev.next = &l.root
}

// Clone returns a deep copy drawing from the same allocator.
func (l *List[T]) Clone() *List[T] {
	clone := New(WithAllocator(l.Allocator()))
	clone.InsertSeq(clone.End(), l.All())

	return clone
}

// All yields the elements front to back.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := l.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Backward yields the elements back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		l.lazyInit()

		for node := l.root.prev; node != &l.root; node = node.prev {
			if !yield(node.value) {
				return
			}
		}
	}
}

// Equal reports whether both lists hold equal elements in the same order.
func (l *List[T]) Equal(other *List[T], eq functional.EqualFunc[T]) bool {
	return l.size == other.size && functional.EqualSeq(l.All(), other.All(), eq)
}

// Less compares two lists lexicographically.
func (l *List[T]) Less(other *List[T], less functional.LessFunc[T]) bool {
	return functional.LexicographicalCompare(l.All(), other.All(), less)
}

// link inserts the chain head..tail before pos.
func (l *List[T]) link(pos, head, tail *Node[T]) {
	prev := pos.prev
	prev.next = head
	head.prev = prev
	tail.next = pos
	pos.prev = tail
}

// unlink detaches the chain starting at head and ending before end.
func (l *List[T]) unlink(head, end *Node[T]) {
	prev := head.prev
	prev.next = end
	end.prev = prev
}

func (l *List[T]) newNode(value T) *Node[T] {
	a := l.Allocator()
	n := &a.Allocate(1)[0]
	a.Construct(n, Node[T]{value: value})

	return n
}

func (l *List[T]) freeNode(n *Node[T]) {
	a := l.Allocator()
	a.Destroy(n)
	a.Deallocate(unsafe.Slice(n, 1))
}

func doAssert(condition bool) {
	if !condition {
		panic("list internal assertion failed")
	}
}
