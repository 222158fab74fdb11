package deque

import "github.com/Sumatoshi-tech/containers/pkg/iterator"

// Iterator is a random access position in a Deque. Any insertion or erasure
// invalidates every iterator of the deque.
type Iterator[T any] struct {
	deque *Deque[T]
	pos   position
}

// Category reports a random access iterator.
func (Iterator[T]) Category() iterator.Category {
	return iterator.RandomAccess
}

// Equal reports whether both iterators point at the same slot.
func (it Iterator[T]) Equal(other Iterator[T]) bool {
	return it.pos == other.pos
}

// Less reports whether it comes before other.
func (it Iterator[T]) Less(other Iterator[T]) bool {
	return it.Diff(other) < 0
}

// Add moves the iterator n elements, backward when n is negative. The block
// index stays within [0, BlockSize).
func (it Iterator[T]) Add(n int) Iterator[T] {
	offset := it.pos.index + n
	if offset >= 0 && offset < BlockSize {
		it.pos.index = offset

		return it
	}

	var slots int
	if offset > 0 {
		slots = offset / BlockSize
	} else {
		slots = -((-offset - 1) / BlockSize) - 1
	}

	it.pos.slot += slots
	it.pos.index = offset - slots*BlockSize

	return it
}

// Diff returns it - other in elements.
func (it Iterator[T]) Diff(other Iterator[T]) int {
	return (it.pos.slot-other.pos.slot)*BlockSize + it.pos.index - other.pos.index
}

// Next returns the following position.
func (it Iterator[T]) Next() Iterator[T] {
	if it.pos.index++; it.pos.index == BlockSize {
		it.pos.slot++
		it.pos.index = 0
	}

	return it
}

// Prev returns the preceding position.
func (it Iterator[T]) Prev() Iterator[T] {
	if it.pos.index == 0 {
		it.pos.slot--
		it.pos.index = BlockSize
	}

	it.pos.index--

	return it
}

// Value returns the element under the iterator.
func (it Iterator[T]) Value() T {
	return *it.Ptr()
}

// Ptr returns a pointer to the element under the iterator.
func (it Iterator[T]) Ptr() *T {
	return &it.deque.blockMap[it.pos.slot][it.pos.index]
}

// Set overwrites the element under the iterator.
func (it Iterator[T]) Set(value T) {
	*it.Ptr() = value
}

// At returns the element n positions away.
func (it Iterator[T]) At(n int) T {
	return it.Add(n).Value()
}

// RBegin returns a reverse iterator at the back element.
func (d *Deque[T]) RBegin() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](d.End())
}

// REnd returns the reverse end.
func (d *Deque[T]) REnd() iterator.Reverse[Iterator[T], T] {
	return iterator.MakeReverse[Iterator[T], T](d.Begin())
}
