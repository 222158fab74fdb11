package list

import "github.com/Sumatoshi-tech/containers/pkg/iterator"

// Iterator is a bidirectional position in a List.
type Iterator[T any] struct {
	node *Node[T]
}

// Category reports a bidirectional iterator.
func (Iterator[T]) Category() iterator.Category {
	return iterator.Bidirectional
}

// Equal reports whether both iterators point at the same node.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.node == other.node
}

// IsEnd reports whether the iterator points at the sentinel.
func (it Iterator[T]) IsEnd() bool {
	return it.node.sentinel
}

// Next returns the successor. Next of the last element is End.
func (it Iterator[T]) Next() Iterator[T] {
	return Iterator[T]{it.node.next}
}

// Prev returns the predecessor. Prev of End is the last element.
func (it Iterator[T]) Prev() Iterator[T] {
	return Iterator[T]{it.node.prev}
}

// Value returns the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[T]) Value() T {
	return it.node.value
}

// Ptr returns a pointer to the current element.
func (it Iterator[T]) Ptr() *T {
	return &it.node.value
}

// Set overwrites the current element.
func (it Iterator[T]) Set(value T) {
	it.node.value = value
}

// RBegin returns a reverse iterator at the last element.
func (l *List[T]) RBegin() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](l.End())
}

// REnd returns the reverse end.
func (l *List[T]) REnd() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](l.Begin())
}
