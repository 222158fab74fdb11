package unordered

import (
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/hashtable"
)

// Set is a hashed collection of unique values.
type Set[T any] struct {
	base[T, T]
}

// NewSet creates an empty set.
func NewSet[T any](hash functional.HashFunc[T], equal functional.EqualFunc[T], opts ...Option[T, T]) *Set[T] {
	return &Set[T]{base[T, T]{hashtable.New(hash, equal, functional.Identity[T], opts...)}}
}

// NewComparableSet creates a set of comparable values using the default hash.
func NewComparableSet[T comparable](values ...T) *Set[T] {
	set := NewSet(functional.Hash[T](), functional.Equal[T])
	set.Reserve(len(values))

	for _, value := range values {
		set.Insert(value)
	}

	return set
}

// All yields the values in iteration order.
func (s *Set[T]) All() iter.Seq[T] { return s.table.All() }

// Insert adds value unless an equal one exists.
func (s *Set[T]) Insert(value T) (Iterator[T, T], bool) { return s.table.Insert(value) }

// InsertHint adds value. The hint is only a guess.
func (s *Set[T]) InsertHint(hint Iterator[T, T], value T) Iterator[T, T] {
	return s.table.InsertHint(hint, value)
}

// InsertRange adds every value of seq.
func (s *Set[T]) InsertRange(seq iter.Seq[T]) { s.table.InsertRange(seq) }

// Swap exchanges the contents of two sets.
func (s *Set[T]) Swap(other *Set[T]) { s.table.Swap(other.table) }

// Clone returns a deep copy.
func (s *Set[T]) Clone() *Set[T] { return &Set[T]{base[T, T]{s.table.Clone()}} }

// Equal reports whether both sets hold the same values.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.table.Equal(other.table, s.table.KeyEq())
}

// MultiSet is a hashed collection that keeps duplicates together.
type MultiSet[T any] struct {
	base[T, T]
}

// NewMultiSet creates an empty multiset.
func NewMultiSet[T any](hash functional.HashFunc[T], equal functional.EqualFunc[T], opts ...Option[T, T]) *MultiSet[T] {
	opts = append(opts, hashtable.WithMulti[T, T]())

	return &MultiSet[T]{base[T, T]{hashtable.New(hash, equal, functional.Identity[T], opts...)}}
}

// NewComparableMultiSet creates a multiset of comparable values.
func NewComparableMultiSet[T comparable](values ...T) *MultiSet[T] {
	set := NewMultiSet(functional.Hash[T](), functional.Equal[T])
	set.InsertRange(slices.Values(values))

	return set
}

// All yields the values in iteration order, equal values next to each other.
func (s *MultiSet[T]) All() iter.Seq[T] { return s.table.All() }

// Insert adds value.
func (s *MultiSet[T]) Insert(value T) Iterator[T, T] {
	it, _ := s.table.Insert(value)

	return it
}

// InsertHint adds value, right after hint when it holds an equal value.
func (s *MultiSet[T]) InsertHint(hint Iterator[T, T], value T) Iterator[T, T] {
	return s.table.InsertHint(hint, value)
}

// InsertRange adds every value of seq.
func (s *MultiSet[T]) InsertRange(seq iter.Seq[T]) { s.table.InsertRange(seq) }

// Swap exchanges the contents of two multisets.
func (s *MultiSet[T]) Swap(other *MultiSet[T]) { s.table.Swap(other.table) }

// Clone returns a deep copy.
func (s *MultiSet[T]) Clone() *MultiSet[T] { return &MultiSet[T]{base[T, T]{s.table.Clone()}} }

// Equal reports whether both multisets hold the same values with the same
// multiplicities.
func (s *MultiSet[T]) Equal(other *MultiSet[T]) bool {
	return s.table.Equal(other.table, s.table.KeyEq())
}
