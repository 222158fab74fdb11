// Package unordered provides the hashed associative containers: Set,
// MultiSet, Map and MultiMap, all views over hashtable.Table.
//
// Iteration order is unspecified and changes on rehash. Comparisons treat the
// containers as multisets: two tables are equal when every key maps to the
// same group of values in any order.
package unordered

import (
	"github.com/Sumatoshi-tech/containers/pkg/hashtable"
)

// Iterator walks a hashed container.
type Iterator[K, V any] = hashtable.Iterator[K, V]

// Option configures the table behind a container.
type Option[K, V any] = hashtable.Option[K, V]

// base holds the operations shared by all four containers. V is the element
// type the table stores.
type base[K, V any] struct {
	table *hashtable.Table[K, V]
}

// Table exposes the underlying hash table.
func (b *base[K, V]) Table() *hashtable.Table[K, V] { return b.table }

// Len returns the number of elements.
func (b *base[K, V]) Len() int { return b.table.Len() }

// Empty reports whether the container is empty.
func (b *base[K, V]) Empty() bool { return b.table.Empty() }

// Begin points at the first element in iteration order.
func (b *base[K, V]) Begin() Iterator[K, V] { return b.table.Begin() }

// End points past the last element.
func (b *base[K, V]) End() Iterator[K, V] { return b.table.End() }

// Erase removes the element at it and returns its successor.
func (b *base[K, V]) Erase(it Iterator[K, V]) Iterator[K, V] { return b.table.Erase(it) }

// EraseRange removes [first, last).
func (b *base[K, V]) EraseRange(first, last Iterator[K, V]) Iterator[K, V] {
	return b.table.EraseRange(first, last)
}

// EraseKey removes every element with the key and returns how many there were.
func (b *base[K, V]) EraseKey(key K) int { return b.table.EraseKey(key) }

// Find returns an element with the key, or End.
func (b *base[K, V]) Find(key K) Iterator[K, V] { return b.table.Find(key) }

// Contains reports whether the key is present.
func (b *base[K, V]) Contains(key K) bool { return b.table.Contains(key) }

// Count returns the number of elements with the key.
func (b *base[K, V]) Count(key K) int { return b.table.Count(key) }

// EqualRange returns the run of elements with the key.
func (b *base[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	return b.table.EqualRange(key)
}

// Clear removes every element.
func (b *base[K, V]) Clear() { b.table.Clear() }

// BucketCount returns the number of buckets.
func (b *base[K, V]) BucketCount() int { return b.table.BucketCount() }

// MaxBucketCount returns the largest possible bucket count.
func (b *base[K, V]) MaxBucketCount() int { return b.table.MaxBucketCount() }

// Bucket returns the bucket index of the key.
func (b *base[K, V]) Bucket(key K) int { return b.table.Bucket(key) }

// BucketSize returns the number of elements in bucket n.
func (b *base[K, V]) BucketSize(n int) int { return b.table.BucketSize(n) }

// LoadFactor returns the average number of elements per bucket.
func (b *base[K, V]) LoadFactor() float64 { return b.table.LoadFactor() }

// MaxLoadFactor returns the growth threshold.
func (b *base[K, V]) MaxLoadFactor() float64 { return b.table.MaxLoadFactor() }

// SetMaxLoadFactor changes the growth threshold.
func (b *base[K, V]) SetMaxLoadFactor(f float64) { b.table.SetMaxLoadFactor(f) }

// Rehash sets the bucket count to at least n.
func (b *base[K, V]) Rehash(n int) { b.table.Rehash(n) }

// Reserve makes room for n elements.
func (b *base[K, V]) Reserve(n int) { b.table.Reserve(n) }
