package functional

import "iter"

// LexicographicalCompare reports whether a precedes b: the first mismatching
// element decides, and a proper prefix precedes the longer sequence.
func LexicographicalCompare[T any](a, b iter.Seq[T], less LessFunc[T]) bool {
	nextA, stopA := iter.Pull(a)
	defer stopA()

	nextB, stopB := iter.Pull(b)
	defer stopB()

	for {
		va, okA := nextA()
		vb, okB := nextB()

		switch {
		case !okB:
			return false
		case !okA:
			return true
		case less(va, vb):
			return true
		case less(vb, va):
			return false
		}
	}
}

// EqualSeq reports whether both sequences have the same length and pairwise
// equal elements.
func EqualSeq[T any](a, b iter.Seq[T], eq EqualFunc[T]) bool {
	nextA, stopA := iter.Pull(a)
	defer stopA()

	nextB, stopB := iter.Pull(b)
	defer stopB()

	for {
		va, okA := nextA()
		vb, okB := nextB()

		if okA != okB {
			return false
		}

		if !okA {
			return true
		}

		if !eq(va, vb) {
			return false
		}
	}
}
