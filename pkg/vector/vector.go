// Package vector implements a growable array whose storage comes from an
// alloc.Allocator. Capacity doubles when full, so PushBack is O(1)
// amortized. Any reallocation invalidates every iterator and pointer.
//
// The zero value is an empty vector ready to use.
package vector

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// ErrOutOfRange is returned by At for an index outside [0, Len()).
var ErrOutOfRange = errors.New("vector index out of range")

const minCapacity = 4

// Vector is a contiguous sequence of T.
type Vector[T any] struct {
	elems alloc.Allocator[T]
	// block is the whole allocation; elements live in block[:size].
	block []T
	size  int
}

// Option configures a Vector.
type Option[T any] func(*Vector[T])

// WithAllocator makes the vector draw its storage from a.
func WithAllocator[T any](a alloc.Allocator[T]) Option[T] {
	return func(v *Vector[T]) {
		v.elems = a
	}
}

// New creates an empty vector.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// From creates a vector holding values in order.
func From[T any](values []T, opts ...Option[T]) *Vector[T] {
	v := New(opts...)
	v.Reserve(len(values))

	for _, value := range values {
		v.PushBack(value)
	}

	return v
}

// Allocator returns the element allocator.
func (v *Vector[T]) Allocator() alloc.Allocator[T] {
	v.elems = alloc.Or(v.elems)

	return v.elems
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.size }

// Cap returns the number of elements the storage holds without growing.
func (v *Vector[T]) Cap() int { return len(v.block) }

// Empty reports whether the vector has no element.
func (v *Vector[T]) Empty() bool { return v.size == 0 }

// Data returns the elements as a slice sharing the vector storage.
func (v *Vector[T]) Data() []T { return v.block[:v.size:v.size] }

// Begin points at the first element.
func (v *Vector[T]) Begin() Iterator[T] { return Iterator[T]{vector: v} }

// End points one past the last element.
func (v *Vector[T]) End() Iterator[T] { return Iterator[T]{vector: v, index: v.size} }

// Index returns a pointer to the i-th element. The index is not checked
// against Len.
func (v *Vector[T]) Index(i int) *T { return &v.block[i] }

// At returns the i-th element or ErrOutOfRange.
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= v.size {
		var zero T

		return zero, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, v.size)
	}

	return v.block[i], nil
}

// Set overwrites the i-th element.
//
// REQUIRES: 0 <= i < v.Len().
func (v *Vector[T]) Set(i int, value T) { v.block[i] = value }

// Front returns the first element.
//
// REQUIRES: !v.Empty().
func (v *Vector[T]) Front() T { return v.block[0] }

// Back returns the last element.
//
// REQUIRES: !v.Empty().
func (v *Vector[T]) Back() T { return v.block[v.size-1] }

// PushBack appends value.
func (v *Vector[T]) PushBack(value T) {
	v.grow(1)
	v.Allocator().Construct(&v.block[v.size], value)
	v.size++
}

// PopBack removes the last element.
//
// REQUIRES: !v.Empty().
func (v *Vector[T]) PopBack() {
	v.size--
	v.Allocator().Destroy(&v.block[v.size])
}

// Insert puts value before pos and returns an iterator to it.
func (v *Vector[T]) Insert(pos Iterator[T], value T) Iterator[T] {
	return v.InsertN(pos, 1, value)
}

// InsertN puts count copies of value before pos and returns an iterator to
// the first of them.
func (v *Vector[T]) InsertN(pos Iterator[T], count int, value T) Iterator[T] {
	at := pos.index
	v.openGap(at, count)

	a := v.Allocator()
	for i := range count {
		a.Construct(&v.block[at+i], value)
	}

	return Iterator[T]{vector: v, index: at}
}

// InsertSlice copies values before pos and returns an iterator to the first
// of them.
func (v *Vector[T]) InsertSlice(pos Iterator[T], values []T) Iterator[T] {
	at := pos.index
	v.openGap(at, len(values))

	a := v.Allocator()
	for i, value := range values {
		a.Construct(&v.block[at+i], value)
	}

	return Iterator[T]{vector: v, index: at}
}

// Erase removes the element at pos and returns an iterator to its successor.
func (v *Vector[T]) Erase(pos Iterator[T]) Iterator[T] {
	return v.EraseRange(pos, pos.Add(1))
}

// EraseRange removes [first, last) and returns an iterator to the element
// that followed last.
func (v *Vector[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	count := last.index - first.index
	if count <= 0 {
		return first
	}

	copy(v.block[first.index:], v.block[last.index:v.size])

	a := v.Allocator()
	for i := v.size - count; i < v.size; i++ {
		a.Destroy(&v.block[i])
	}

	v.size -= count

	return first
}

// Reserve makes room for at least n elements.
func (v *Vector[T]) Reserve(n int) {
	if n > len(v.block) {
		v.reallocate(n)
	}
}

// Resize grows the vector with copies of value or truncates it to n elements.
func (v *Vector[T]) Resize(n int, value T) {
	if n < v.size {
		v.EraseRange(v.Begin().Add(n), v.End())

		return
	}

	v.InsertN(v.End(), n-v.size, value)
}

// Assign replaces the contents with n copies of value.
func (v *Vector[T]) Assign(n int, value T) {
	v.EraseRange(v.Begin(), v.End())
	v.InsertN(v.End(), n, value)
}

// Clear removes every element and releases the storage.
func (v *Vector[T]) Clear() {
	a := v.Allocator()

	for i := range v.size {
		a.Destroy(&v.block[i])
	}

	if v.block != nil {
		a.Deallocate(v.block)
	}

	v.block = nil
	v.size = 0
}

// ShrinkToFit reallocates the storage to exactly Len elements.
func (v *Vector[T]) ShrinkToFit() {
	if len(v.block) == v.size {
		return
	}

	if v.size == 0 {
		v.Clear()

		return
	}

	v.reallocate(v.size)
}

// Swap exchanges the contents of two vectors in O(1).
func (v *Vector[T]) Swap(other *Vector[T]) {
	*v, *other = *other, *v
}

// Clone returns a deep copy with the same allocator and a tight capacity.
func (v *Vector[T]) Clone() *Vector[T] {
	clone := &Vector[T]{elems: v.elems}
	clone.Reserve(v.size)

	for i := range v.size {
		clone.PushBack(v.block[i])
	}

	return clone
}

// All yields the elements in order.
func (v *Vector[T]) All() iter.Seq[T] {
	return slices.Values(v.Data())
}

// Backward yields the elements in reverse order.
func (v *Vector[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := v.size - 1; i >= 0; i-- {
			if !yield(v.block[i]) {
				return
			}
		}
	}
}

// Equal reports whether both vectors hold equal elements in the same order.
func (v *Vector[T]) Equal(other *Vector[T], eq functional.EqualFunc[T]) bool {
	return slices.EqualFunc(v.Data(), other.Data(), eq)
}

// Less compares two vectors lexicographically.
func (v *Vector[T]) Less(other *Vector[T], less functional.LessFunc[T]) bool {
	return functional.LexicographicalCompare(v.All(), other.All(), less)
}

// openGap shifts [at, size) right by count, growing first. The gap holds
// stale copies the caller overwrites with Construct.
func (v *Vector[T]) openGap(at, count int) {
	if count <= 0 {
		return
	}

	v.grow(count)
	copy(v.block[at+count:], v.block[at:v.size])
	v.size += count
}

// grow guarantees room for count more elements, doubling the capacity.
func (v *Vector[T]) grow(count int) {
	need := v.size + count
	if need <= len(v.block) {
		return
	}

	v.reallocate(max(need, 2*len(v.block), minCapacity))
}

func (v *Vector[T]) reallocate(capacity int) {
	a := v.Allocator()
	block := a.Allocate(capacity)
	copy(block, v.block[:v.size])

	if v.block != nil {
		a.Deallocate(v.block)
	}

	v.block = block
}
