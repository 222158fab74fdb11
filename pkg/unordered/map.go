package unordered

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/hashtable"
)

// ErrOutOfRange is returned by Map.At for a missing key.
var ErrOutOfRange = errors.New("key out of range")

// Entry is the element type of maps.
type Entry[K, V any] = functional.Pair[K, V]

// MapIterator walks a Map or MultiMap.
type MapIterator[K, V any] = Iterator[K, Entry[K, V]]

type mapBase[K, V any] struct {
	base[K, Entry[K, V]]
}

func newMapBase[K, V any](
	hash functional.HashFunc[K],
	equal functional.EqualFunc[K],
	opts []Option[K, Entry[K, V]],
) mapBase[K, V] {
	return mapBase[K, V]{base[K, Entry[K, V]]{hashtable.New(hash, equal, functional.Select1st[K, V], opts...)}}
}

// All yields the entries in iteration order.
func (m *mapBase[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for entry := range m.table.All() {
			if !yield(entry.First, entry.Second) {
				return
			}
		}
	}
}

// Entries yields the entries as pairs.
func (m *mapBase[K, V]) Entries() iter.Seq[Entry[K, V]] { return m.table.All() }

// Keys yields the keys.
func (m *mapBase[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for entry := range m.table.All() {
			if !yield(entry.First) {
				return
			}
		}
	}
}

// Values yields the values.
func (m *mapBase[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for entry := range m.table.All() {
			if !yield(entry.Second) {
				return
			}
		}
	}
}

// InsertHint adds the entry. The hint is only a guess.
func (m *mapBase[K, V]) InsertHint(hint MapIterator[K, V], key K, value V) MapIterator[K, V] {
	return m.table.InsertHint(hint, functional.MakePair(key, value))
}

func (m *mapBase[K, V]) equal(other *mapBase[K, V], eq functional.EqualFunc[V]) bool {
	sameKey := m.table.KeyEq()

	return m.table.Equal(other.table, func(a, b Entry[K, V]) bool {
		return sameKey(a.First, b.First) && eq(a.Second, b.Second)
	})
}

// Map is a hashed dictionary with unique keys.
type Map[K, V any] struct {
	mapBase[K, V]
}

// NewMap creates an empty map.
func NewMap[K, V any](hash functional.HashFunc[K], equal functional.EqualFunc[K], opts ...Option[K, Entry[K, V]]) *Map[K, V] {
	return &Map[K, V]{newMapBase[K, V](hash, equal, opts)}
}

// NewComparableMap creates a map with comparable keys using the default hash.
func NewComparableMap[K comparable, V any]() *Map[K, V] {
	return NewMap[K, V](functional.Hash[K](), functional.Equal[K])
}

// Insert adds the entry unless the key exists.
func (m *Map[K, V]) Insert(key K, value V) (MapIterator[K, V], bool) {
	return m.table.Insert(functional.MakePair(key, value))
}

// InsertOrAssign sets the value of key, inserting it when missing. The bool
// reports whether an insertion happened.
func (m *Map[K, V]) InsertOrAssign(key K, value V) (MapIterator[K, V], bool) {
	it, inserted := m.table.Insert(functional.MakePair(key, value))
	if !inserted {
		it.Ptr().Second = value
	}

	return it, inserted
}

// TryEmplace inserts the entry only when the key is missing.
func (m *Map[K, V]) TryEmplace(key K, value V) (MapIterator[K, V], bool) {
	if it := m.table.Find(key); !it.IsEnd() {
		return it, false
	}

	return m.table.Insert(functional.MakePair(key, value))
}

// Index returns a pointer to the value of key, inserting the zero value when
// the key is missing. The pointer is invalidated by the next insertion.
func (m *Map[K, V]) Index(key K) *V {
	var zero V

	it, _ := m.table.Insert(functional.MakePair(key, zero))

	return &it.Ptr().Second
}

// At returns the value of key or ErrOutOfRange.
func (m *Map[K, V]) At(key K) (V, error) {
	it := m.table.Find(key)
	if it.IsEnd() {
		var zero V

		return zero, fmt.Errorf("%w: %v", ErrOutOfRange, key)
	}

	return it.Value().Second, nil
}

// Get returns the value of key and whether it exists.
func (m *Map[K, V]) Get(key K) (V, bool) {
	it := m.table.Find(key)
	if it.IsEnd() {
		var zero V

		return zero, false
	}

	return it.Value().Second, true
}

// Swap exchanges the contents of two maps.
func (m *Map[K, V]) Swap(other *Map[K, V]) { m.table.Swap(other.table) }

// Clone returns a deep copy.
func (m *Map[K, V]) Clone() *Map[K, V] {
	return &Map[K, V]{mapBase[K, V]{base[K, Entry[K, V]]{m.table.Clone()}}}
}

// Equal reports whether both maps hold the same keys mapped to equal values.
func (m *Map[K, V]) Equal(other *Map[K, V], eq functional.EqualFunc[V]) bool {
	return m.equal(&other.mapBase, eq)
}

// MultiMap is a hashed dictionary that keeps duplicate keys together.
type MultiMap[K, V any] struct {
	mapBase[K, V]
}

// NewMultiMap creates an empty multimap.
func NewMultiMap[K, V any](hash functional.HashFunc[K], equal functional.EqualFunc[K], opts ...Option[K, Entry[K, V]]) *MultiMap[K, V] {
	opts = append(opts, hashtable.WithMulti[K, Entry[K, V]]())

	return &MultiMap[K, V]{newMapBase[K, V](hash, equal, opts)}
}

// NewComparableMultiMap creates a multimap with comparable keys.
func NewComparableMultiMap[K comparable, V any]() *MultiMap[K, V] {
	return NewMultiMap[K, V](functional.Hash[K](), functional.Equal[K])
}

// Insert adds the entry in front of any with an equal key.
func (m *MultiMap[K, V]) Insert(key K, value V) MapIterator[K, V] {
	it, _ := m.table.Insert(functional.MakePair(key, value))

	return it
}

// Swap exchanges the contents of two multimaps.
func (m *MultiMap[K, V]) Swap(other *MultiMap[K, V]) { m.table.Swap(other.table) }

// Clone returns a deep copy.
func (m *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	return &MultiMap[K, V]{mapBase[K, V]{base[K, Entry[K, V]]{m.table.Clone()}}}
}

// Equal reports whether every key maps to the same values, in any order.
func (m *MultiMap[K, V]) Equal(other *MultiMap[K, V], eq functional.EqualFunc[V]) bool {
	return m.equal(&other.mapBase, eq)
}
