package hashtable

import (
	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

// Iterator is a forward position in a Table. It stays valid until the
// element it points to is erased; rehashing does not invalidate it.
type Iterator[K, V any] struct {
	table *Table[K, V]
	node  uint32
}

// Category reports a forward iterator.
func (Iterator[K, V]) Category() iterator.Category {
	return iterator.Forward
}

// Equal checks for the underlying nodes equality.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.node == other.node
}

// IsEnd reports whether the iterator is past the last element.
func (it Iterator[K, V]) IsEnd() bool {
	return it.node == alloc.Nil
}

// Value returns the current element.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[K, V]) Value() V {
	return it.table.slots()[it.node].value
}

// Key returns the key of the current element.
func (it Iterator[K, V]) Key() K {
	return it.table.keyOf(it.Value())
}

// Ptr returns a pointer to the current element. The key must not be changed
// through it.
func (it Iterator[K, V]) Ptr() *V {
	doAssert(it.node != alloc.Nil)

	return &it.table.slots()[it.node].value
}

// Next returns the following element in chain order, moving on to the next
// non-empty bucket at the end of a chain.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[K, V]) Next() Iterator[K, V] {
	nodes := it.table.slots()

	if next := nodes[it.node].next; next != alloc.Nil {
		return Iterator[K, V]{it.table, next}
	}

	buckets := it.table.buckets
	for b := it.table.bucketOf(nodes[it.node].hash) + 1; b < len(buckets); b++ {
		if buckets[b] != alloc.Nil {
			return Iterator[K, V]{it.table, buckets[b]}
		}
	}

	return it.table.End()
}
