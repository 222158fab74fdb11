// Package alloc defines the storage contract every container in this module
// is parameterized with, a call-counting decorator for leak checks, and the
// index arena the node based containers keep their nodes in.
package alloc

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// ErrAllocation is the panic value raised when a request exceeds MaxSize.
// Allocation failure is fatal: containers never recover from it.
var ErrAllocation = errors.New("allocation failed")

// Allocator hands out contiguous element storage.
//
// Allocate returns a slice of exactly n zero-valued elements. Deallocate
// receives a slice previously returned by Allocate. Construct writes a value
// into a slot and Destroy releases it (zeroing drops references for the GC).
type Allocator[T any] interface {
	Allocate(n int) []T
	Deallocate(block []T)
	Construct(slot *T, value T)
	Destroy(slot *T)
	MaxSize() int
}

// Heap is the default, stateless allocator backed by the Go heap.
type Heap[T any] struct{}

// Allocate implements Allocator.
func (h Heap[T]) Allocate(n int) []T {
	if n < 0 || n > h.MaxSize() {
		panic(fmt.Errorf("%w: %d elements requested, max %d", ErrAllocation, n, h.MaxSize()))
	}

	return make([]T, n)
}

// Deallocate implements Allocator. The GC reclaims the block.
func (Heap[T]) Deallocate([]T) {}

// Construct implements Allocator.
func (Heap[T]) Construct(slot *T, value T) {
	*slot = value
}

// Destroy implements Allocator.
func (Heap[T]) Destroy(slot *T) {
	var zero T

	*slot = zero
}

// MaxSize implements Allocator.
func (Heap[T]) MaxSize() int {
	var zero T

	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return math.MaxInt32
	}

	return math.MaxInt / size
}

// Or returns a when it is non-nil and the heap allocator otherwise.
func Or[T any](a Allocator[T]) Allocator[T] {
	if a == nil {
		return Heap[T]{}
	}

	return a
}
