package vector

import "github.com/Sumatoshi-tech/containers/pkg/iterator"

// Iterator is a random access position in a Vector.
type Iterator[T any] struct {
	vector *Vector[T]
	index  int
}

// Category reports a random access iterator.
func (Iterator[T]) Category() iterator.Category {
	return iterator.RandomAccess
}

// Equal reports whether both iterators point at the same position.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.vector == other.vector && it.index == other.index
}

// Less reports whether it comes before other.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	return it.index < other.index
}

// Add returns the iterator n positions away.
func (it Iterator[T]) Add(n int) Iterator[T] {
	return Iterator[T]{vector: it.vector, index: it.index + n}
}

// Diff returns it - other.
func (it Iterator[T]) Diff(other Iterator[T]) int {
	return it.index - other.index
}

// Next returns the successor.
func (it Iterator[T]) Next() Iterator[T] { return it.Add(1) }

// Prev returns the predecessor.
func (it Iterator[T]) Prev() Iterator[T] { return it.Add(-1) }

// Value returns the current element.
func (it Iterator[T]) Value() T { return it.vector.block[it.index] }

// Ptr returns a pointer to the current element.
func (it Iterator[T]) Ptr() *T { return &it.vector.block[it.index] }

// Set overwrites the current element.
func (it Iterator[T]) Set(value T) { it.vector.block[it.index] = value }

// At returns the element n positions away.
func (it Iterator[T]) At(n int) T { return it.vector.block[it.index+n] }

// RBegin returns a reverse iterator at the last element.
func (v *Vector[T]) RBegin() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](v.End())
}

// REnd returns the reverse end.
func (v *Vector[T]) REnd() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](v.Begin())
}
