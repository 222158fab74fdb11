package rbtree

import (
	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

// Iterator allows scanning tree elements in sort order.
//
// Deleting the element an iterator points to invalidates that iterator.
// Every other operation leaves it valid.
type Iterator[K, V any] struct {
	tree *Tree[K, V]
	node uint32
}

// Equal checks for the underlying nodes equality.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.node == other.node
}

// IsEnd checks if the iterator points beyond the max element in the tree.
func (it Iterator[K, V]) IsEnd() bool {
	return it.node == alloc.Nil
}

// Category reports a bidirectional iterator.
func (Iterator[K, V]) Category() iterator.Category {
	return iterator.Bidirectional
}

// Value returns the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[K, V]) Value() V {
	return it.tree.slots()[it.node].value
}

// Key returns the key of the current element.
func (it Iterator[K, V]) Key() K {
	return it.tree.keyOf(it.Value())
}

// Ptr returns a pointer to the current element. It allows mutating the
// element in place, but the key must not change. The pointer is invalidated
// by the next insertion.
func (it Iterator[K, V]) Ptr() *V {
	doAssert(it.node != alloc.Nil)

	return &it.tree.slots()[it.node].value
}

// Next returns the successor of the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[K, V]) Next() Iterator[K, V] {
	doAssert(it.node != alloc.Nil)

	return Iterator[K, V]{it.tree, it.tree.next(it.node)}
}

// Prev returns the predecessor of the current element. Prev of End is the
// maximum element.
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	if it.node == alloc.Nil {
		return Iterator[K, V]{it.tree, it.tree.last}
	}

	return Iterator[K, V]{it.tree, it.tree.prev(it.node)}
}

// RBegin returns a reverse iterator at the maximum element.
func (tree *Tree[K, V]) RBegin() iterator.Reverse[Iterator[K, V], V] {
	return iterator.MakeReverse[Iterator[K, V], V](tree.End())
}

// REnd returns the reverse end.
func (tree *Tree[K, V]) REnd() iterator.Reverse[Iterator[K, V], V] {
	return iterator.MakeReverse[Iterator[K, V], V](tree.Begin())
}
