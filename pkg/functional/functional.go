// Package functional holds the small callables the containers are
// parameterized with: comparators, equality, key projections and hashers.
package functional

import (
	"cmp"
	"hash/maphash"

	"github.com/Sumatoshi-tech/containers/internal/hashutil"
)

// Pair couples two values. Maps store their entries as pairs.
type Pair[K, V any] struct {
	First  K
	Second V
}

// MakePair builds a Pair.
func MakePair[K, V any](first K, second V) Pair[K, V] {
	return Pair[K, V]{First: first, Second: second}
}

// Unpack returns both members.
func (p Pair[K, V]) Unpack() (K, V) {
	return p.First, p.Second
}

// LessFunc is a strict weak ordering.
type LessFunc[T any] func(a, b T) bool

// EqualFunc reports whether two values are equal.
type EqualFunc[T any] func(a, b T) bool

// KeyFunc projects the ordering or hashing key out of a stored value.
type KeyFunc[V, K any] func(value V) K

// HashFunc hashes a key.
type HashFunc[K any] func(key K) uint64

// Less orders values ascending.
func Less[T cmp.Ordered](a, b T) bool {
	return cmp.Less(a, b)
}

// Greater orders values descending.
func Greater[T cmp.Ordered](a, b T) bool {
	return cmp.Less(b, a)
}

// Reverse flips an ordering.
func Reverse[T any](less LessFunc[T]) LessFunc[T] {
	return func(a, b T) bool { return less(b, a) }
}

// Equal compares with ==.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// Equivalent derives equality from an ordering: neither value precedes the other.
func Equivalent[T any](less LessFunc[T]) EqualFunc[T] {
	return func(a, b T) bool { return !less(a, b) && !less(b, a) }
}

// Identity is the key projection of sets.
func Identity[T any](value T) T {
	return value
}

// Select1st is the key projection of maps.
func Select1st[K, V any](entry Pair[K, V]) K {
	return entry.First
}

// Select2nd projects the mapped value.
func Select2nd[K, V any](entry Pair[K, V]) V {
	return entry.Second
}

var processSeed = maphash.MakeSeed()

// Hash returns the default hasher for K.
func Hash[K comparable]() HashFunc[K] {
	return func(key K) uint64 {
		switch typed := any(key).(type) {
		case string:
			return hashutil.DJB2(typed)
		case int:
			return hashutil.Mix64(uint64(typed))
		case int8:
			return hashutil.Mix64(uint64(typed))
		case int16:
			return hashutil.Mix64(uint64(typed))
		case int32:
			return hashutil.Mix64(uint64(typed))
		case int64:
			return hashutil.Mix64(uint64(typed))
		case uint:
			return hashutil.Mix64(uint64(typed))
		case uint8:
			return hashutil.Mix64(uint64(typed))
		case uint16:
			return hashutil.Mix64(uint64(typed))
		case uint32:
			return hashutil.Mix64(uint64(typed))
		case uint64:
			return hashutil.Mix64(typed)
		case uintptr:
			return hashutil.Mix64(uint64(typed))
		default:
			return maphash.Comparable(processSeed, key)
		}
	}
}

// HashBytes hashes byte slices with FNV-1a.
func HashBytes(key []byte) uint64 {
	return hashutil.FNV64a(key)
}
