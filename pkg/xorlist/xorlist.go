// Package xorlist implements a doubly linked list that stores a single link
// per node: the XOR of the arena indices of its two neighbors.
//
// Slot alloc.Nil of the node arena is the sentinel and closes the ring, so
// the first node's predecessor and the last node's successor are both Nil.
// An iterator carries the index of its predecessor alongside its own, which
// is what lets it recover the other neighbor from the XOR link. Reverse is
// therefore O(1): swapping head and tail turns every link around.
//
// Any insertion or erasure next to a position invalidates iterators whose
// cached predecessor changed. Nodes never move between lists; splicing from
// another list moves the values.
package xorlist

import (
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// Node is the storage unit of a list. Its fields are private.
type Node[T any] struct {
	value T
	link  uint32
}

// List is an XOR linked list of T.
type List[T any] struct {
	nodes      *alloc.Arena[Node[T]]
	head, tail uint32
	size       int
}

// Option configures a List.
type Option[T any] func(*List[T])

// WithAllocator makes the node arena draw its storage from a.
func WithAllocator[T any](a alloc.Allocator[Node[T]]) Option[T] {
	return func(l *List[T]) {
		l.nodes = alloc.NewArena(a)
	}
}

// New creates an empty list.
func New[T any](opts ...Option[T]) *List[T] {
	l := &List[T]{}

	for _, opt := range opts {
		opt(l)
	}

	if l.nodes == nil {
		l.nodes = alloc.NewArena[Node[T]](nil)
	}

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

// Arena exposes the node arena, mainly for allocation accounting.
func (l *List[T]) Arena() *alloc.Arena[Node[T]] { return l.nodes }

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.size }

// Empty reports whether the list has no element.
func (l *List[T]) Empty() bool { return l.size == 0 }

// Begin points at the front element, or End when empty.
func (l *List[T]) Begin() Iterator[T] {
	return Iterator[T]{list: l, prev: alloc.Nil, cur: l.head}
}

// End points at the sentinel, one past the back element.
func (l *List[T]) End() Iterator[T] {
	return Iterator[T]{list: l, prev: l.tail, cur: alloc.Nil}
}

// Front returns the first element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) Front() T { return l.slots()[l.head].value }

// Back returns the last element.
//
// REQUIRES: !l.Empty().
func (l *List[T]) Back() T { return l.slots()[l.tail].value }

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

// Insert puts value before pos and returns an iterator to it. The returned
// iterator's successor is pos's element; pos itself is invalidated.
func (l *List[T]) Insert(pos Iterator[T], value T) Iterator[T] {
	idx := l.nodes.Alloc()
	l.slots()[idx] = Node[T]{value: value}
	l.size++
	l.linkChain(pos.prev, pos.cur, idx, idx)

	return Iterator[T]{list: l, prev: pos.prev, cur: idx}
}

// InsertN puts count copies of value before pos and returns an iterator to
// the first of them, or pos when count is zero.
func (l *List[T]) InsertN(pos Iterator[T], count int, value T) Iterator[T] {
	return l.InsertSeq(pos, func(yield func(T) bool) {
		for range count {
			if !yield(value) {
				return
			}
		}
	})
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

		pos = it.Next()
	}

	return first
}

// Erase removes the element at pos and returns an iterator to its successor.
//
// REQUIRES: !pos.IsEnd().
func (l *List[T]) Erase(pos Iterator[T]) Iterator[T] {
	doAssert(pos.cur != alloc.Nil)

	next := l.slots()[pos.cur].link ^ pos.prev
	l.unlinkChain(pos.prev, pos.cur, pos.cur, next)
	l.nodes.Free(pos.cur)
	l.size--

	return Iterator[T]{list: l, prev: pos.prev, cur: next}
}

// EraseRange removes [first, last) and returns an iterator equal to last.
func (l *List[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	for first.cur != last.cur {
		first = l.Erase(first)
	}

	return first
}

// Clear removes every element and returns the node storage to the allocator.
func (l *List[T]) Clear() {
	l.nodes.Reset()
	l.head, l.tail = alloc.Nil, alloc.Nil
	l.size = 0
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

// Reverse reverses the list in O(1). Every iterator is invalidated.
func (l *List[T]) Reverse() {
	l.head, l.tail = l.tail, l.head
}

// Splice moves every element of other before pos.
func (l *List[T]) Splice(pos Iterator[T], other *List[T]) {
	l.SpliceRange(pos, other, other.Begin(), other.End())
}

// SpliceOne moves the element at it from other before pos.
func (l *List[T]) SpliceOne(pos Iterator[T], other *List[T], it Iterator[T]) {
	l.SpliceRange(pos, other, it, it.Next())
}

// SpliceRange moves [first, last) from other before pos. Within one list the
// nodes are relinked in O(1) and pos must not be inside the range. Across
// lists the values are moved and the source nodes freed.
func (l *List[T]) SpliceRange(pos Iterator[T], other *List[T], first, last Iterator[T]) {
	if first.cur == last.cur {
		return
	}

	if other == l {
		if pos.cur == first.cur || pos.cur == last.cur {
			return
		}

		// last.prev is the final node of the range.
		l.unlinkChain(first.prev, first.cur, last.prev, last.cur)
		l.linkChain(pos.prev, pos.cur, first.cur, last.prev)

		return
	}

	for it := first; it.cur != last.cur; it = it.Next() {
		pos = l.Insert(pos, it.Value()).Next()
	}

	other.EraseRange(first, last)
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
	last := l.Front()

	for it := l.Begin().Next(); !it.IsEnd(); {
		if eq(last, it.Value()) {
			it = l.Erase(it)
			removed++
		} else {
			last = it.Value()
			it = it.Next()
		}
	}

	return removed
}

// Merge moves every element of other into l. Both must be sorted by less;
// the result is sorted and elements of l come before equal ones of other.
// The elements of l keep their nodes; those of other are moved into new
// nodes of l, as with any splice across lists.
func (l *List[T]) Merge(other *List[T], less functional.LessFunc[T]) {
	if other == l {
		return
	}

	it := l.Begin()
	for value := range other.All() {
		for !it.IsEnd() && !less(value, it.Value()) {
			it = it.Next()
		}

		it = l.Insert(it, value).Next()
	}

	other.Clear()
}

// Sort orders the list by less with a stable bottom-up merge sort. Nodes are
// relinked, never copied, so every value stays in its node.
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
				if !less(right.Value(), left.Value()) {
					left = left.Next()
					leftCount--

					continue
				}

				// Once right moves out, its successor follows right's predecessor,
				// and left follows right.
				next := Iterator[T]{list: l, prev: right.prev, cur: right.Next().cur}
				l.SpliceOne(left, l, right)
				left.prev = right.cur
				right = next
				rightCount--
			}

			for ; rightCount > 0; rightCount-- {
				right = right.Next()
			}

			left = right
		}
	}
}

// Swap exchanges the contents of two lists in O(1). Iterators follow the
// list handle.
func (l *List[T]) Swap(other *List[T]) {
	*l, *other = *other, *l
}

// Clone returns a deep copy with the same arena layout.
func (l *List[T]) Clone() *List[T] {
	clone := *l
	clone.nodes = l.nodes.Clone()

	return &clone
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
		nodes := l.slots()
		next := alloc.Nil

		for cur := l.tail; cur != alloc.Nil; {
			if !yield(nodes[cur].value) {
				return
			}

			cur, next = nodes[cur].link^next, cur
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

func (l *List[T]) slots() []Node[T] {
	return l.nodes.Slots()
}

// linkChain inserts the detached chain first..last between the adjacent
// nodes prev and next. Either neighbor may be the sentinel.
func (l *List[T]) linkChain(prev, next, first, last uint32) {
	nodes := l.slots()

	nodes[first].link ^= prev
	nodes[last].link ^= next

	if prev == alloc.Nil {
		l.head = first
	} else {
		nodes[prev].link ^= next ^ first
	}

	if next == alloc.Nil {
		l.tail = last
	} else {
		nodes[next].link ^= prev ^ last
	}
}

// unlinkChain detaches first..last, currently between prev and next, and
// leaves the chain with Nil outer links.
func (l *List[T]) unlinkChain(prev, first, last, next uint32) {
	nodes := l.slots()

	if prev == alloc.Nil {
		l.head = next
	} else {
		nodes[prev].link ^= first ^ next
	}

	if next == alloc.Nil {
		l.tail = prev
	} else {
		nodes[next].link ^= last ^ prev
	}

	nodes[first].link ^= prev
	nodes[last].link ^= next
}

func doAssert(condition bool) {
	if !condition {
		panic("xorlist internal assertion failed")
	}
}
