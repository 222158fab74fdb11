package ordered

import (
	"cmp"
	"errors"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/rbtree"
)

// ErrOutOfRange is returned by Map.At for a missing key.
var ErrOutOfRange = errors.New("key out of range")

// Entry is the element type of maps.
type Entry[K, V any] = functional.Pair[K, V]

// MapIterator walks a Map or MultiMap in key order.
type MapIterator[K, V any] = rbtree.Iterator[K, Entry[K, V]]

type mapBase[K, V any] struct {
	tree *rbtree.Tree[K, Entry[K, V]]
}

// Map is a sorted dictionary with unique keys.
type Map[K, V any] struct {
	mapBase[K, V]
}

// NewMap creates an empty map ordered by less.
func NewMap[K, V any](less functional.LessFunc[K], opts ...rbtree.Option[K, Entry[K, V]]) *Map[K, V] {
	return &Map[K, V]{mapBase: mapBase[K, V]{tree: rbtree.New(less, functional.Select1st[K, V], opts...)}}
}

// NewOrderedMap creates a map ordered by < on keys.
func NewOrderedMap[K cmp.Ordered, V any]() *Map[K, V] {
	return NewMap[K, V](functional.Less[K])
}

// Tree exposes the underlying tree.
func (m *mapBase[K, V]) Tree() *rbtree.Tree[K, Entry[K, V]] { return m.tree }

// Len returns the number of entries.
func (m *mapBase[K, V]) Len() int { return m.tree.Len() }

// Empty reports whether the map is empty.
func (m *mapBase[K, V]) Empty() bool { return m.tree.Empty() }

// Begin points at the entry with the smallest key.
func (m *mapBase[K, V]) Begin() MapIterator[K, V] { return m.tree.Begin() }

// End points past the last entry.
func (m *mapBase[K, V]) End() MapIterator[K, V] { return m.tree.End() }

// All yields the entries in key order.
func (m *mapBase[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for entry := range m.tree.All() {
			if !yield(entry.First, entry.Second) {
				return
			}
		}
	}
}

// Entries yields the entries as pairs.
func (m *mapBase[K, V]) Entries() iter.Seq[Entry[K, V]] { return m.tree.All() }

// Keys yields the keys in order.
func (m *mapBase[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for entry := range m.tree.All() {
			if !yield(entry.First) {
				return
			}
		}
	}
}

// Values yields the mapped values in key order.
func (m *mapBase[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for entry := range m.tree.All() {
			if !yield(entry.Second) {
				return
			}
		}
	}
}

// Insert adds the entry unless the key exists.
func (m *Map[K, V]) Insert(key K, value V) (MapIterator[K, V], bool) {
	return m.tree.Insert(functional.MakePair(key, value))
}

// InsertHint adds the entry, trying the position right after hint first.
func (m *mapBase[K, V]) InsertHint(hint MapIterator[K, V], key K, value V) MapIterator[K, V] {
	return m.tree.InsertHint(hint, functional.MakePair(key, value))
}

// InsertOrAssign sets the value of key, inserting it when missing. The bool
// reports whether an insertion happened.
func (m *Map[K, V]) InsertOrAssign(key K, value V) (MapIterator[K, V], bool) {
	it, inserted := m.tree.Insert(functional.MakePair(key, value))
	if !inserted {
		it.Ptr().Second = value
	}

	return it, inserted
}

// TryEmplace inserts the entry only when the key is missing; value is not
// touched otherwise.
func (m *Map[K, V]) TryEmplace(key K, value V) (MapIterator[K, V], bool) {
	if it := m.tree.Find(key); !it.IsEnd() {
		return it, false
	}

	return m.tree.Insert(functional.MakePair(key, value))
}

// Index returns a pointer to the value of key, inserting the zero value when
// the key is missing. The pointer is invalidated by the next insertion.
func (m *Map[K, V]) Index(key K) *V {
	var zero V

	it, _ := m.tree.Insert(functional.MakePair(key, zero))

	return &it.Ptr().Second
}

// At returns the value of key or ErrOutOfRange.
func (m *Map[K, V]) At(key K) (V, error) {
	it := m.tree.Find(key)
	if it.IsEnd() {
		var zero V

		return zero, fmt.Errorf("%w: %v", ErrOutOfRange, key)
	}

	return it.Value().Second, nil
}

// Get returns the value of key and whether it exists.
func (m *Map[K, V]) Get(key K) (V, bool) {
	value, err := m.At(key)

	return value, err == nil
}

// Erase removes the entry at it and returns its successor.
func (m *mapBase[K, V]) Erase(it MapIterator[K, V]) MapIterator[K, V] { return m.tree.Erase(it) }

// EraseRange removes [first, last).
func (m *mapBase[K, V]) EraseRange(first, last MapIterator[K, V]) MapIterator[K, V] {
	return m.tree.EraseRange(first, last)
}

// EraseKey removes key and reports how many entries were removed.
func (m *mapBase[K, V]) EraseKey(key K) int { return m.tree.EraseKey(key) }

// Find returns the entry with key, or End.
func (m *mapBase[K, V]) Find(key K) MapIterator[K, V] { return m.tree.Find(key) }

// Contains reports whether key is present.
func (m *mapBase[K, V]) Contains(key K) bool { return m.tree.Contains(key) }

// Count returns the number of entries with key.
func (m *mapBase[K, V]) Count(key K) int { return m.tree.Count(key) }

// LowerBound returns the first entry whose key is not less than key.
func (m *mapBase[K, V]) LowerBound(key K) MapIterator[K, V] { return m.tree.LowerBound(key) }

// UpperBound returns the first entry whose key is greater than key.
func (m *mapBase[K, V]) UpperBound(key K) MapIterator[K, V] { return m.tree.UpperBound(key) }

// EqualRange returns the range of entries with key.
func (m *mapBase[K, V]) EqualRange(key K) (MapIterator[K, V], MapIterator[K, V]) {
	return m.tree.EqualRange(key)
}

// Clear removes every entry.
func (m *mapBase[K, V]) Clear() { m.tree.Clear() }

// Swap exchanges the contents of two maps.
func (m *Map[K, V]) Swap(other *Map[K, V]) { m.tree.Swap(other.tree) }

// Clone returns a deep copy.
func (m *Map[K, V]) Clone() *Map[K, V] { return &Map[K, V]{mapBase: mapBase[K, V]{tree: m.tree.Clone()}} }

// Equal reports whether both maps hold equivalent keys mapped to equal values.
func (m *Map[K, V]) Equal(other *Map[K, V], eq functional.EqualFunc[V]) bool {
	return m.equal(&other.mapBase, eq)
}

// Less compares two maps lexicographically by entries.
func (m *Map[K, V]) Less(other *Map[K, V], less functional.LessFunc[V]) bool {
	return m.less(&other.mapBase, less)
}

func (m *mapBase[K, V]) equal(other *mapBase[K, V], eq functional.EqualFunc[V]) bool {
	sameKey := functional.Equivalent(m.tree.KeyComp())

	return m.Len() == other.Len() &&
		functional.EqualSeq(m.Entries(), other.Entries(), func(a, b Entry[K, V]) bool {
			return sameKey(a.First, b.First) && eq(a.Second, b.Second)
		})
}

func (m *mapBase[K, V]) less(other *mapBase[K, V], less functional.LessFunc[V]) bool {
	keyLess := m.tree.KeyComp()

	return functional.LexicographicalCompare(m.Entries(), other.Entries(), func(a, b Entry[K, V]) bool {
		if keyLess(a.First, b.First) {
			return true
		}

		if keyLess(b.First, a.First) {
			return false
		}

		return less(a.Second, b.Second)
	})
}

// MultiMap is a sorted dictionary that keeps duplicate keys.
type MultiMap[K, V any] struct {
	mapBase[K, V]
}

// NewMultiMap creates an empty multimap ordered by less.
func NewMultiMap[K, V any](less functional.LessFunc[K], opts ...rbtree.Option[K, Entry[K, V]]) *MultiMap[K, V] {
	opts = append([]rbtree.Option[K, Entry[K, V]]{rbtree.WithMulti[K, Entry[K, V]]()}, opts...)

	return &MultiMap[K, V]{mapBase: mapBase[K, V]{tree: rbtree.New(less, functional.Select1st[K, V], opts...)}}
}

// NewOrderedMultiMap creates a multimap ordered by < on keys.
func NewOrderedMultiMap[K cmp.Ordered, V any]() *MultiMap[K, V] {
	return NewMultiMap[K, V](functional.Less[K])
}

// Insert adds the entry after any with an equal key.
func (m *MultiMap[K, V]) Insert(key K, value V) MapIterator[K, V] {
	it, _ := m.tree.Insert(functional.MakePair(key, value))

	return it
}

// Swap exchanges the contents of two multimaps.
func (m *MultiMap[K, V]) Swap(other *MultiMap[K, V]) { m.tree.Swap(other.tree) }

// Clone returns a deep copy.
func (m *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	return &MultiMap[K, V]{mapBase: mapBase[K, V]{tree: m.tree.Clone()}}
}

// Equal reports whether both multimaps hold the same entries in order.
func (m *MultiMap[K, V]) Equal(other *MultiMap[K, V], eq functional.EqualFunc[V]) bool {
	return m.equal(&other.mapBase, eq)
}

// Less compares two multimaps lexicographically by entries.
func (m *MultiMap[K, V]) Less(other *MultiMap[K, V], less functional.LessFunc[V]) bool {
	return m.less(&other.mapBase, less)
}
