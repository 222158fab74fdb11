// Package deque implements a double-ended queue stored as fixed-size blocks
// referenced from a growable map of block slots.
//
// The map keeps unused slots on both ends so pushing at either side is O(1)
// amortized, and indexing is O(1). Exactly the slots between the front and
// back cursors hold a block; the block under the back cursor always exists,
// so the one-past-the-end position is addressable.
//
// The zero value is an empty deque ready to use.
package deque

import (
	"errors"
	"fmt"
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// BlockSize is the number of elements a block holds.
const BlockSize = 10

var (
	// ErrOutOfRange is returned by At for an index outside [0, Len()).
	ErrOutOfRange = errors.New("deque index out of range")
	// ErrInvariant is wrapped by every error Check reports.
	ErrInvariant = errors.New("deque invariant violated")
)

// position addresses an element slot: a map slot and an index in its block.
type position struct {
	slot, index int
}

func (p position) linear() int {
	return p.slot*BlockSize + p.index
}

func positionOf(linear int) position {
	return position{slot: linear / BlockSize, index: linear % BlockSize}
}

// Deque is a double-ended queue of T.
type Deque[T any] struct {
	blocks   alloc.Allocator[T]
	blockMap [][]T

	// first is the front element, last is one past the back element.
	first, last position
	size        int
}

// Option configures a Deque.
type Option[T any] func(*Deque[T])

// WithAllocator makes the deque draw its blocks from a.
func WithAllocator[T any](a alloc.Allocator[T]) Option[T] {
	return func(d *Deque[T]) {
		d.blocks = a
	}
}

// New creates an empty deque.
func New[T any](opts ...Option[T]) *Deque[T] {
	d := &Deque[T]{}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// From creates a deque holding values in order.
func From[T any](values []T, opts ...Option[T]) *Deque[T] {
	d := New(opts...)
	d.insertSlice(0, values)

	return d
}

// Len returns the number of elements.
func (d *Deque[T]) Len() int {
	return d.size
}

// Empty reports whether the deque has no element.
func (d *Deque[T]) Empty() bool {
	return d.size == 0
}

// MapLen returns the number of block slots in the map, used or not.
func (d *Deque[T]) MapLen() int {
	return len(d.blockMap)
}

// Allocator returns the block allocator.
func (d *Deque[T]) Allocator() alloc.Allocator[T] {
	d.blocks = alloc.Or(d.blocks)

	return d.blocks
}

// Begin points at the front element.
func (d *Deque[T]) Begin() Iterator[T] {
	return Iterator[T]{deque: d, pos: d.first}
}

// End points one past the back element.
func (d *Deque[T]) End() Iterator[T] {
	return Iterator[T]{deque: d, pos: d.last}
}

// Front returns the first element.
//
// REQUIRES: !d.Empty().
func (d *Deque[T]) Front() T {
	return *d.Index(0)
}

// Back returns the last element.
//
// REQUIRES: !d.Empty().
func (d *Deque[T]) Back() T {
	return *d.Index(d.size - 1)
}

// Index returns a pointer to the i-th element. The index is not checked
// against Len.
func (d *Deque[T]) Index(i int) *T {
	return d.slotAt(d.first.linear() + i)
}

// At returns the i-th element or ErrOutOfRange.
func (d *Deque[T]) At(i int) (T, error) {
	if i < 0 || i >= d.size {
		var zero T

		return zero, fmt.Errorf("%w: index %d, size %d", ErrOutOfRange, i, d.size)
	}

	return *d.Index(i), nil
}

// Set overwrites the i-th element.
func (d *Deque[T]) Set(i int, value T) {
	*d.Index(i) = value
}

// PushBack appends value.
func (d *Deque[T]) PushBack(value T) {
	d.growBack(1)
	d.Allocator().Construct(d.slotAt(d.last.linear()), value)
	d.last = positionOf(d.last.linear() + 1)
	d.size++
}

// PushFront prepends value.
func (d *Deque[T]) PushFront(value T) {
	d.growFront(1)
	d.first = positionOf(d.first.linear() - 1)
	d.Allocator().Construct(d.slotAt(d.first.linear()), value)
	d.size++
}

// PopBack removes the last element.
//
// REQUIRES: !d.Empty().
func (d *Deque[T]) PopBack() {
	d.eraseBack(d.size-1, 1)
}

// PopFront removes the first element.
//
// REQUIRES: !d.Empty().
func (d *Deque[T]) PopFront() {
	d.eraseFront(0, 1)
}

// Insert puts value before pos and returns an iterator to it. All iterators
// are invalidated.
func (d *Deque[T]) Insert(pos Iterator[T], value T) Iterator[T] {
	offset := d.offsetOf(pos)

	switch offset {
	case 0:
		d.PushFront(value)
	case d.size:
		d.PushBack(value)
	default:
		d.openGap(offset, 1)
		*d.Index(offset) = value
	}

	return d.Begin().Add(offset)
}

// InsertN puts count copies of value before pos and returns an iterator to
// the first of them.
func (d *Deque[T]) InsertN(pos Iterator[T], count int, value T) Iterator[T] {
	offset := d.offsetOf(pos)
	d.openGap(offset, count)

	for i := range count {
		*d.Index(offset + i) = value
	}

	return d.Begin().Add(offset)
}

// InsertSlice puts values before pos and returns an iterator to the first
// of them.
func (d *Deque[T]) InsertSlice(pos Iterator[T], values []T) Iterator[T] {
	offset := d.offsetOf(pos)
	d.insertSlice(offset, values)

	return d.Begin().Add(offset)
}

// Erase removes the element at pos and returns an iterator to its successor.
//
// REQUIRES: pos is dereferenceable.
func (d *Deque[T]) Erase(pos Iterator[T]) Iterator[T] {
	return d.EraseRange(pos, pos.Add(1))
}

// EraseRange removes [first, last) and returns an iterator to the element
// that followed the range. The side with fewer elements is shifted.
func (d *Deque[T]) EraseRange(first, last Iterator[T]) Iterator[T] {
	offset := d.offsetOf(first)
	count := last.Diff(first)

	if count <= 0 {
		return first
	}

	if d.size-offset-count < offset {
		d.eraseBack(offset, count)
	} else {
		d.eraseFront(offset, count)
	}

	return d.Begin().Add(offset)
}

// Resize grows the deque with copies of value or truncates it to n elements.
func (d *Deque[T]) Resize(n int, value T) {
	if n < d.size {
		d.eraseBack(n, d.size-n)

		return
	}

	d.InsertN(d.End(), n-d.size, value)
}

// Assign replaces the contents with n copies of value.
func (d *Deque[T]) Assign(n int, value T) {
	d.Clear()
	d.InsertN(d.End(), n, value)
}

// Clear removes every element and returns every block to the allocator.
func (d *Deque[T]) Clear() {
	a := d.Allocator()

	for i := range d.size {
		a.Destroy(d.Index(i))
	}

	for slot := range d.blockMap {
		if d.blockMap[slot] != nil {
			a.Deallocate(d.blockMap[slot])
		}
	}

	d.blockMap = nil
	d.first = position{}
	d.last = position{}
	d.size = 0
}

// ShrinkToFit reallocates the map to the slots currently in use plus one
// spare slot on each end.
func (d *Deque[T]) ShrinkToFit() {
	if d.blockMap == nil {
		return
	}

	used := d.last.slot - d.first.slot + 1
	if len(d.blockMap) <= used+2 {
		return
	}

	blockMap := make([][]T, used+2)
	copy(blockMap[1:], d.blockMap[d.first.slot:d.last.slot+1])
	d.translate(1 - d.first.slot)
	d.blockMap = blockMap
}

// Swap exchanges the contents of two deques. Iterators follow the handle.
func (d *Deque[T]) Swap(other *Deque[T]) {
	*d, *other = *other, *d
}

// Clone returns a deep copy drawing from the same allocator.
func (d *Deque[T]) Clone() *Deque[T] {
	clone := New(WithAllocator(d.Allocator()))
	clone.openGap(0, d.size)

	for i := range d.size {
		*clone.Index(i) = *d.Index(i)
	}

	return clone
}

// All yields the elements front to back.
func (d *Deque[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := range d.size {
			if !yield(*d.Index(i)) {
				return
			}
		}
	}
}

// Backward yields the elements back to front.
func (d *Deque[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := d.size - 1; i >= 0; i-- {
			if !yield(*d.Index(i)) {
				return
			}
		}
	}
}

// Slice copies the elements into a new slice.
func (d *Deque[T]) Slice() []T {
	out := make([]T, 0, d.size)
	for value := range d.All() {
		out = append(out, value)
	}

	return out
}

// Equal reports whether both deques hold equal elements in the same order.
func (d *Deque[T]) Equal(other *Deque[T], eq functional.EqualFunc[T]) bool {
	return d.size == other.size && functional.EqualSeq(d.All(), other.All(), eq)
}

// Less compares two deques lexicographically.
func (d *Deque[T]) Less(other *Deque[T], less functional.LessFunc[T]) bool {
	return functional.LexicographicalCompare(d.All(), other.All(), less)
}

// Check verifies the cursor and block bookkeeping.
func (d *Deque[T]) Check() error {
	if d.blockMap == nil {
		if d.size != 0 {
			return fmt.Errorf("%w: no map but size %d", ErrInvariant, d.size)
		}

		return nil
	}

	if d.first.slot < 0 || d.last.slot >= len(d.blockMap) || d.first.slot > d.last.slot {
		return fmt.Errorf("%w: cursor slots %d..%d outside map of %d",
			ErrInvariant, d.first.slot, d.last.slot, len(d.blockMap))
	}

	if got := d.last.linear() - d.first.linear(); got != d.size {
		return fmt.Errorf("%w: cursors span %d elements, size %d", ErrInvariant, got, d.size)
	}

	for slot, block := range d.blockMap {
		inUse := slot >= d.first.slot && slot <= d.last.slot

		switch {
		case inUse && len(block) != BlockSize:
			return fmt.Errorf("%w: slot %d holds a block of %d elements", ErrInvariant, slot, len(block))
		case !inUse && block != nil:
			return fmt.Errorf("%w: unused slot %d holds a block", ErrInvariant, slot)
		}
	}

	return nil
}

func (d *Deque[T]) slotAt(linear int) *T {
	return &d.blockMap[linear/BlockSize][linear%BlockSize]
}

func (d *Deque[T]) offsetOf(pos Iterator[T]) int {
	if d.blockMap == nil {
		return 0
	}

	return pos.pos.linear() - d.first.linear()
}

func (d *Deque[T]) insertSlice(offset int, values []T) {
	d.openGap(offset, len(values))

	for i, value := range values {
		*d.Index(offset + i) = value
	}
}

// openGap makes room for count elements at offset by shifting the side with
// fewer elements. The gap slots are constructed with zero values.
func (d *Deque[T]) openGap(offset, count int) {
	if count <= 0 {
		return
	}

	a := d.Allocator()

	var zero T

	if offset > d.size/2 {
		d.growBack(count)

		end := d.first.linear() + d.size
		for i := end + count - 1; i >= end; i-- {
			a.Construct(d.slotAt(i), zero)
		}

		for i := end - 1; i >= d.first.linear()+offset; i-- {
			*d.slotAt(i + count) = *d.slotAt(i)
		}

		d.last = positionOf(end + count)
	} else {
		d.growFront(count)

		begin := d.first.linear()
		for i := begin - count; i < begin; i++ {
			a.Construct(d.slotAt(i), zero)
		}

		for i := begin; i < begin+offset; i++ {
			*d.slotAt(i - count) = *d.slotAt(i)
		}

		d.first = positionOf(begin - count)
	}

	d.size += count
}

// eraseBack removes count elements at offset by shifting the tail forward.
func (d *Deque[T]) eraseBack(offset, count int) {
	a := d.Allocator()
	begin := d.first.linear()
	end := begin + d.size

	for i := begin + offset + count; i < end; i++ {
		*d.slotAt(i - count) = *d.slotAt(i)
	}

	for i := end - count; i < end; i++ {
		a.Destroy(d.slotAt(i))
	}

	last := positionOf(end - count)
	for slot := last.slot + 1; slot <= d.last.slot; slot++ {
		a.Deallocate(d.blockMap[slot])
		d.blockMap[slot] = nil
	}

	d.last = last
	d.size -= count
}

// eraseFront removes count elements at offset by shifting the head backward.
func (d *Deque[T]) eraseFront(offset, count int) {
	a := d.Allocator()
	begin := d.first.linear()

	for i := begin + offset - 1; i >= begin; i-- {
		*d.slotAt(i + count) = *d.slotAt(i)
	}

	for i := begin; i < begin+count; i++ {
		a.Destroy(d.slotAt(i))
	}

	first := positionOf(begin + count)
	for slot := d.first.slot; slot < first.slot; slot++ {
		a.Deallocate(d.blockMap[slot])
		d.blockMap[slot] = nil
	}

	d.first = first
	d.size -= count
}

// lazyInit sets up a one-slot map with the cursors in the middle of its
// block, so the first pushes at either end need no new block.
func (d *Deque[T]) lazyInit() {
	if d.blockMap != nil {
		return
	}

	d.blockMap = [][]T{d.Allocator().Allocate(BlockSize)}
	d.first = position{index: BlockSize / 2}
	d.last = d.first
}

// growBack makes sure the blocks behind the back cursor can take count more
// elements, the new one-past-the-end slot included.
func (d *Deque[T]) growBack(count int) {
	d.lazyInit()

	need := (d.last.linear()+count)/BlockSize - d.last.slot
	if need == 0 {
		return
	}

	if d.last.slot+need >= len(d.blockMap) {
		d.reserveMap(need, false)
	}

	for slot := d.last.slot + 1; slot <= d.last.slot+need; slot++ {
		d.blockMap[slot] = d.Allocator().Allocate(BlockSize)
	}
}

// growFront makes sure the blocks before the front cursor can take count
// more elements.
func (d *Deque[T]) growFront(count int) {
	d.lazyInit()

	need := d.first.slot - floorDiv(d.first.linear()-count, BlockSize)
	if need == 0 {
		return
	}

	if d.first.slot-need < 0 {
		d.reserveMap(need, true)
	}

	for slot := d.first.slot - need; slot < d.first.slot; slot++ {
		d.blockMap[slot] = d.Allocator().Allocate(BlockSize)
	}
}

// reserveMap leaves at least need free slots on the requested side. The used
// slots are recentered in place when the map is at least twice as large as
// what is needed, otherwise the map is reallocated.
func (d *Deque[T]) reserveMap(need int, atFront bool) {
	used := d.last.slot - d.first.slot + 1
	total := used + need

	blockMap := d.blockMap
	if len(blockMap) < 2*total {
		blockMap = make([][]T, max(2*len(d.blockMap), len(d.blockMap)+need+2))
	}

	start := (len(blockMap) - total) / 2
	if atFront {
		start += need
	}

	copy(blockMap[start:start+used], d.blockMap[d.first.slot:d.last.slot+1])
	clear(blockMap[:start])
	clear(blockMap[start+used:])

	d.blockMap = blockMap
	d.translate(start - d.first.slot)
}

func (d *Deque[T]) translate(shift int) {
	d.first.slot += shift
	d.last.slot += shift
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}

	return q
}
