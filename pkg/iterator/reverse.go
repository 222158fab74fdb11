package iterator

// Reverse walks a bidirectional range backwards. It wraps the base iterator
// one past the element it refers to, so Reverse(end) is the last element and
// Reverse(begin) is the reverse end.
type Reverse[I Cursor[I, T], T any] struct {
	base I
}

// MakeReverse wraps base.
func MakeReverse[I Cursor[I, T], T any](base I) Reverse[I, T] {
	return Reverse[I, T]{base: base}
}

// Base returns the wrapped iterator.
func (r Reverse[I, T]) Base() I {
	return r.base
}

// Next steps toward the front of the underlying range.
func (r Reverse[I, T]) Next() Reverse[I, T] {
	return Reverse[I, T]{base: r.base.Prev()}
}

// Prev steps toward the back of the underlying range.
func (r Reverse[I, T]) Prev() Reverse[I, T] {
	return Reverse[I, T]{base: r.base.Next()}
}

// Value returns the element before the base position.
func (r Reverse[I, T]) Value() T {
	return r.base.Prev().Value()
}

// Equal compares the base positions.
func (r Reverse[I, T]) Equal(other Reverse[I, T]) bool {
	return r.base.Equal(other.base)
}

// Category reports the category of the base iterator.
func (r Reverse[I, T]) Category() Category {
	return CategoryOf(r.base)
}

// Add moves n elements toward the front. Requires a random access base.
func (r Reverse[I, T]) Add(n int) Reverse[I, T] {
	return Reverse[I, T]{base: Advance(r.base, -n)}
}

// Diff returns r - other in reverse order.
func (r Reverse[I, T]) Diff(other Reverse[I, T]) int {
	return Distance(r.base, other.base)
}
