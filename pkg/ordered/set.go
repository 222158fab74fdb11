// Package ordered provides the sorted associative containers: Set,
// MultiSet, Map and MultiMap. All four are thin views over rbtree.Tree, so
// every operation keeps the tree's complexity and iterator rules.
package ordered

import (
	"cmp"
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/rbtree"
)

// SetIterator walks a Set or MultiSet in order.
type SetIterator[T any] = rbtree.Iterator[T, T]

// Set is a sorted collection of unique values.
type Set[T any] struct {
	tree *rbtree.Tree[T, T]
}

// NewSet creates an empty set ordered by less.
func NewSet[T any](less functional.LessFunc[T], opts ...rbtree.Option[T, T]) *Set[T] {
	return &Set[T]{tree: rbtree.New(less, functional.Identity[T], opts...)}
}

// NewOrderedSet creates a set ordered by <.
func NewOrderedSet[T cmp.Ordered](values ...T) *Set[T] {
	set := NewSet(functional.Less[T])
	for _, value := range values {
		set.Insert(value)
	}

	return set
}

// Tree exposes the underlying tree.
func (s *Set[T]) Tree() *rbtree.Tree[T, T] { return s.tree }

// Len returns the number of values.
func (s *Set[T]) Len() int { return s.tree.Len() }

// Empty reports whether the set is empty.
func (s *Set[T]) Empty() bool { return s.tree.Empty() }

// Begin points at the smallest value.
func (s *Set[T]) Begin() SetIterator[T] { return s.tree.Begin() }

// End points past the largest value.
func (s *Set[T]) End() SetIterator[T] { return s.tree.End() }

// All yields the values in order.
func (s *Set[T]) All() iter.Seq[T] { return s.tree.All() }

// Backward yields the values in reverse order.
func (s *Set[T]) Backward() iter.Seq[T] { return s.tree.Backward() }

// Insert adds value unless an equal one exists.
func (s *Set[T]) Insert(value T) (SetIterator[T], bool) { return s.tree.Insert(value) }

// InsertHint adds value, trying the position right after hint first.
func (s *Set[T]) InsertHint(hint SetIterator[T], value T) SetIterator[T] {
	return s.tree.InsertHint(hint, value)
}

// InsertRange adds every value of seq.
func (s *Set[T]) InsertRange(seq iter.Seq[T]) { s.tree.InsertRange(seq) }

// Erase removes the value at it and returns its successor.
func (s *Set[T]) Erase(it SetIterator[T]) SetIterator[T] { return s.tree.Erase(it) }

// EraseRange removes [first, last).
func (s *Set[T]) EraseRange(first, last SetIterator[T]) SetIterator[T] {
	return s.tree.EraseRange(first, last)
}

// EraseKey removes value and reports how many elements were removed.
func (s *Set[T]) EraseKey(value T) int { return s.tree.EraseKey(value) }

// Find returns the element equal to value, or End.
func (s *Set[T]) Find(value T) SetIterator[T] { return s.tree.Find(value) }

// Contains reports whether value is present.
func (s *Set[T]) Contains(value T) bool { return s.tree.Contains(value) }

// Count returns 0 or 1.
func (s *Set[T]) Count(value T) int { return s.tree.Count(value) }

// LowerBound returns the first element not less than value.
func (s *Set[T]) LowerBound(value T) SetIterator[T] { return s.tree.LowerBound(value) }

// UpperBound returns the first element greater than value.
func (s *Set[T]) UpperBound(value T) SetIterator[T] { return s.tree.UpperBound(value) }

// EqualRange returns the range of elements equal to value.
func (s *Set[T]) EqualRange(value T) (SetIterator[T], SetIterator[T]) {
	return s.tree.EqualRange(value)
}

// Clear removes every value.
func (s *Set[T]) Clear() { s.tree.Clear() }

// Swap exchanges the contents of two sets.
func (s *Set[T]) Swap(other *Set[T]) { s.tree.Swap(other.tree) }

// Clone returns a deep copy.
func (s *Set[T]) Clone() *Set[T] { return &Set[T]{tree: s.tree.Clone()} }

// Equal reports whether both sets hold equivalent values.
func (s *Set[T]) Equal(other *Set[T]) bool {
	return s.Len() == other.Len() &&
		functional.EqualSeq(s.All(), other.All(), functional.Equivalent(s.tree.KeyComp()))
}

// Less compares two sets lexicographically.
func (s *Set[T]) Less(other *Set[T]) bool {
	return functional.LexicographicalCompare(s.All(), other.All(), s.tree.KeyComp())
}

// MultiSet is a sorted collection that keeps duplicates.
type MultiSet[T any] struct {
	Set[T]
}

// NewMultiSet creates an empty multiset ordered by less.
func NewMultiSet[T any](less functional.LessFunc[T], opts ...rbtree.Option[T, T]) *MultiSet[T] {
	opts = append([]rbtree.Option[T, T]{rbtree.WithMulti[T, T]()}, opts...)

	return &MultiSet[T]{Set: Set[T]{tree: rbtree.New(less, functional.Identity[T], opts...)}}
}

// NewOrderedMultiSet creates a multiset ordered by <.
func NewOrderedMultiSet[T cmp.Ordered](values ...T) *MultiSet[T] {
	set := NewMultiSet(functional.Less[T])
	for _, value := range values {
		set.Insert(value)
	}

	return set
}

// Insert adds value after any equal ones.
func (s *MultiSet[T]) Insert(value T) SetIterator[T] {
	it, _ := s.tree.Insert(value)

	return it
}

// Swap exchanges the contents of two multisets.
func (s *MultiSet[T]) Swap(other *MultiSet[T]) { s.tree.Swap(other.tree) }

// Clone returns a deep copy.
func (s *MultiSet[T]) Clone() *MultiSet[T] {
	return &MultiSet[T]{Set: Set[T]{tree: s.tree.Clone()}}
}

// Equal reports whether both multisets hold equivalent values.
func (s *MultiSet[T]) Equal(other *MultiSet[T]) bool { return s.Set.Equal(&other.Set) }

// Less compares two multisets lexicographically.
func (s *MultiSet[T]) Less(other *MultiSet[T]) bool { return s.Set.Less(&other.Set) }
