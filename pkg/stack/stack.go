// Package stack provides a last-in first-out adapter over a sequence,
// a deque.Deque by default.
package stack

import "github.com/Sumatoshi-tech/containers/pkg/deque"

// Sequence is the storage a Stack needs.
type Sequence[T any] interface {
	Len() int
	Back() T
	PushBack(value T)
	PopBack()
}

// Stack is a last-in first-out adapter.
type Stack[T any] struct {
	seq Sequence[T]
}

// Option configures a Stack.
type Option[T any] func(*Stack[T])

// WithSequence makes the stack store its elements in seq, whose back is the
// top.
func WithSequence[T any](seq Sequence[T]) Option[T] {
	return func(s *Stack[T]) {
		s.seq = seq
	}
}

// New creates an empty stack.
func New[T any](opts ...Option[T]) *Stack[T] {
	s := &Stack[T]{}

	for _, opt := range opts {
		opt(s)
	}

	if s.seq == nil {
		s.seq = deque.New[T]()
	}

	return s
}

// Len returns the number of elements.
func (s *Stack[T]) Len() int { return s.seq.Len() }

// Empty reports whether the stack has no element.
func (s *Stack[T]) Empty() bool { return s.seq.Len() == 0 }

// Push puts value on top.
func (s *Stack[T]) Push(value T) { s.seq.PushBack(value) }

// Pop removes the top element and returns it.
//
// REQUIRES: !s.Empty().
func (s *Stack[T]) Pop() T {
	value := s.seq.Back()
	s.seq.PopBack()

	return value
}

// Top returns the most recently pushed element.
//
// REQUIRES: !s.Empty().
func (s *Stack[T]) Top() T { return s.seq.Back() }

// Sequence returns the underlying storage.
func (s *Stack[T]) Sequence() Sequence[T] { return s.seq }

// Swap exchanges the contents of two stacks in O(1).
func (s *Stack[T]) Swap(other *Stack[T]) {
	s.seq, other.seq = other.seq, s.seq
}
