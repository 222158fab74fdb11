// Package iterator defines the iterator categories the containers expose,
// the reverse adapter, and the generic distance/advance algorithms.
//
// Container iterators are small values: copying one copies the position.
// Each of them reports its Category so the algorithms can pick the O(1)
// random access path when available.
package iterator

import "iter"

// Category is an iterator capability tier.
type Category int

// Iterator categories, weakest first.
const (
	Input Category = iota
	Forward
	Bidirectional
	RandomAccess
)

var categoryNames = [...]string{"input", "forward", "bidirectional", "random_access"}

// String implements fmt.Stringer.
func (c Category) String() string {
	if c < Input || c > RandomAccess {
		return "unknown"
	}

	return categoryNames[c]
}

// Stepper is the forward iterator contract.
type Stepper[I any] interface {
	Next() I
	Equal(other I) bool
}

// Stepper2 is the bidirectional iterator contract.
type Stepper2[I any] interface {
	Stepper[I]
	Prev() I
}

// Jumper is the random access iterator contract. Diff returns it - other.
type Jumper[I any] interface {
	Stepper2[I]
	Add(n int) I
	Diff(other I) int
}

// Cursor is a bidirectional iterator that can be dereferenced.
type Cursor[I, T any] interface {
	Stepper2[I]
	Value() T
}

type categorized interface {
	Category() Category
}

// CategoryOf reports the category an iterator declares, Forward otherwise.
func CategoryOf[I any](it I) Category {
	if tagged, ok := any(it).(categorized); ok {
		return tagged.Category()
	}

	return Forward
}

// Distance returns the number of steps from first to last. last must be
// reachable from first.
func Distance[I Stepper[I]](first, last I) int {
	if CategoryOf(first) == RandomAccess {
		if jumper, ok := any(last).(interface{ Diff(other I) int }); ok {
			return jumper.Diff(first)
		}
	}

	count := 0

	for it := first; !it.Equal(last); it = it.Next() {
		count++
	}

	return count
}

// Advance moves it by n steps. Negative n requires a bidirectional iterator.
func Advance[I Stepper[I]](it I, n int) I {
	if CategoryOf(it) == RandomAccess {
		if jumper, ok := any(it).(interface{ Add(n int) I }); ok {
			return jumper.Add(n)
		}
	}

	for ; n > 0; n-- {
		it = it.Next()
	}

	if n == 0 {
		return it
	}

	for ; n < 0; n++ {
		back, ok := any(it).(interface{ Prev() I })
		if !ok {
			panic("iterator: negative advance of a forward iterator")
		}

		it = back.Prev()
	}

	return it
}

// NextN returns the iterator n steps after it.
func NextN[I Stepper[I]](it I, n int) I {
	return Advance(it, n)
}

// PrevN returns the iterator n steps before it.
func PrevN[I Stepper[I]](it I, n int) I {
	return Advance(it, -n)
}

// Values yields the values of [first, last).
func Values[I Cursor[I, T], T any](first, last I) iter.Seq[T] {
	return func(yield func(T) bool) {
		for it := first; !it.Equal(last); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}
