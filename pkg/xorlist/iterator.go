package xorlist

import (
	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

// Iterator is a bidirectional position in a List: the current node and the
// node before it.
type Iterator[T any] struct {
	list      *List[T]
	prev, cur uint32
}

// Category reports a bidirectional iterator.
func (Iterator[T]) Category() iterator.Category {
	return iterator.Bidirectional
}

// Equal reports whether both iterators point at the same node.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.cur == other.cur
}

// IsEnd reports whether the iterator points at the sentinel.
func (it Iterator[T]) IsEnd() bool {
	return it.cur == alloc.Nil
}

// Next returns the successor. Next of End wraps around to Begin.
func (it Iterator[T]) Next() Iterator[T] {
	if it.cur == alloc.Nil {
		return it.list.Begin()
	}

	next := it.list.slots()[it.cur].link ^ it.prev

	return Iterator[T]{list: it.list, prev: it.cur, cur: next}
}

// Prev returns the predecessor. Prev of End is the last element and Prev of
// Begin wraps around to End.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.prev == alloc.Nil {
		return it.list.End()
	}

	before := it.list.slots()[it.prev].link ^ it.cur

	return Iterator[T]{list: it.list, prev: before, cur: it.prev}
}

// Value returns the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[T]) Value() T {
	return it.list.slots()[it.cur].value
}

// Ptr returns a pointer to the current element. It is invalidated by the
// next insertion.
func (it Iterator[T]) Ptr() *T {
	doAssert(it.cur != alloc.Nil)

	return &it.list.slots()[it.cur].value
}

// Set overwrites the current element.
func (it Iterator[T]) Set(value T) {
	*it.Ptr() = value
}

// RBegin returns a reverse iterator at the last element.
func (l *List[T]) RBegin() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](l.End())
}

// REnd returns the reverse end.
func (l *List[T]) REnd() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](l.Begin())
}
