package alloc

import (
	"maps"
	"math"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/safeconv"
)

// Nil is the reserved slot index. It is never handed out by Alloc, so node
// based containers use it both as "no link" and as their sentinel node.
const Nil uint32 = 0

// MaxSlots is the largest number of slots an arena can address.
const MaxSlots uint64 = math.MaxUint32 - 1

// MaxLen is MaxSlots capped to what an int counts on this platform.
const MaxLen = int(min(MaxSlots, uint64(safeconv.MaxInt)))

// growCapacityNumerator and growCapacityDenominator define the 3/2 growth factor for storage.
const (
	growCapacityNumerator   = 3
	growCapacityDenominator = 2
	minArenaCapacity        = 8
)

// ArenaStats describes the slot traffic of an Arena.
type ArenaStats struct {
	// Allocs is the number of slots handed out by Alloc.
	Allocs int
	// Frees is the number of slots returned by Free.
	Frees int
	// Live is Allocs - Frees.
	Live int
	// Capacity is the number of slots the backing storage can hold.
	Capacity int
}

// Arena is an index-addressed slot allocator. Slots are identified by
// uint32 indices which stay valid across storage growth, unlike pointers.
// Slot Nil is reserved at construction and never freed.
//
// Storage is drawn from the backing allocator on the first Alloc and handed
// back as soon as only slot Nil is left, so an emptied arena holds no block.
// Meanwhile slot Nil lives in the arena itself.
type Arena[T any] struct {
	backing  Allocator[T]
	storage  []T
	reserved [1]T
	owned    bool
	gaps     map[uint32]bool
	order    []uint32
	allocs   int
	frees    int
}

// NewArena creates an arena drawing its storage from backing (nil means the
// heap allocator). Nothing is allocated until the first Alloc.
func NewArena[T any](backing Allocator[T]) *Arena[T] {
	arena := &Arena[T]{
		backing: Or(backing),
		gaps:    map[uint32]bool{},
	}
	arena.storage = arena.reserved[:]

	return arena
}

// Backing returns the allocator the arena draws storage from.
func (arena *Arena[T]) Backing() Allocator[T] {
	return arena.backing
}

// Size returns the number of slots ever handed out, the reserved one included.
func (arena *Arena[T]) Size() int {
	return len(arena.storage)
}

// Used returns the number of occupied slots, the reserved one included.
func (arena *Arena[T]) Used() int {
	return len(arena.storage) - len(arena.gaps)
}

// Stats returns the slot counters.
func (arena *Arena[T]) Stats() ArenaStats {
	capacity := 0
	if arena.owned {
		capacity = cap(arena.storage)
	}

	return ArenaStats{
		Allocs:   arena.allocs,
		Frees:    arena.frees,
		Live:     arena.allocs - arena.frees,
		Capacity: capacity,
	}
}

// At returns a pointer to the slot. The pointer is invalidated by the next
// Alloc, which may move the storage, and by freeing the last live slot.
func (arena *Arena[T]) At(idx uint32) *T {
	return &arena.storage[idx]
}

// Slots exposes the storage directly. Valid until the next Alloc or until
// the last live slot is freed.
func (arena *Arena[T]) Slots() []T {
	return arena.storage
}

// Alloc hands out a zero-valued slot, recycling freed ones first.
func (arena *Arena[T]) Alloc() uint32 {
	arena.allocs++

	if n := len(arena.order); n > 0 {
		idx := arena.order[n-1]
		arena.order = arena.order[:n-1]
		delete(arena.gaps, idx)

		return idx
	}

	slotLen := len(arena.storage)
	if slotLen >= MaxLen {
		panic("alloc: arena exhausted the uint32 slot space")
	}

	if slotLen == cap(arena.storage) {
		arena.grow()
	}

	arena.storage = arena.storage[:slotLen+1]

	return safeconv.MustIntToUint32(slotLen)
}

// Free destroys the slot value and makes the slot reusable. Freeing the last
// live slot returns the storage to the backing allocator.
func (arena *Arena[T]) Free(idx uint32) {
	if idx == Nil {
		panic("alloc: slot #0 is reserved and cannot be freed")
	}

	doAssert(int(idx) < len(arena.storage) && !arena.gaps[idx])

	arena.backing.Destroy(&arena.storage[idx])
	arena.gaps[idx] = true
	arena.order = append(arena.order, idx)
	arena.frees++

	if arena.Used() == 1 {
		arena.release()
	}
}

// Reset frees every slot except the reserved one, which is zeroed too, and
// returns the storage to the backing allocator.
func (arena *Arena[T]) Reset() {
	for idx := range arena.storage {
		if idx == int(Nil) || arena.gaps[uint32(idx)] {
			continue
		}

		arena.backing.Destroy(&arena.storage[idx])
		arena.frees++
	}

	clear(arena.storage)
	arena.release()
}

// release moves slot Nil back into the arena and deallocates the storage.
func (arena *Arena[T]) release() {
	arena.reserved[0] = arena.storage[Nil]

	if arena.owned {
		arena.backing.Deallocate(arena.storage[:cap(arena.storage)])
		arena.owned = false
	}

	arena.storage = arena.reserved[:]
	clear(arena.gaps)
	arena.order = arena.order[:0]
}

// Clone copies the arena. Slot indices are preserved, so structures linked by
// index are cloned together with their shape.
func (arena *Arena[T]) Clone() *Arena[T] {
	clone := &Arena[T]{
		backing: arena.backing,
		gaps:    maps.Clone(arena.gaps),
		order:   slices.Clone(arena.order),
		allocs:  arena.Used() - 1,
	}

	if !arena.owned {
		clone.reserved = arena.reserved
		clone.storage = clone.reserved[:]

		return clone
	}

	block := arena.backing.Allocate(cap(arena.storage))
	copy(block, arena.storage)
	clone.storage = block[:len(arena.storage)]
	clone.owned = true

	return clone
}

func (arena *Arena[T]) grow() {
	capSize := (cap(arena.storage) * growCapacityNumerator) / growCapacityDenominator
	capSize = max(capSize, minArenaCapacity)
	capSize = min(capSize, MaxLen)

	block := arena.backing.Allocate(capSize)
	copy(block, arena.storage)

	if arena.owned {
		arena.backing.Deallocate(arena.storage[:cap(arena.storage)])
	}

	arena.storage = block[:len(arena.storage)]
	arena.owned = true
}

func doAssert(condition bool) {
	if !condition {
		panic("alloc: invalid slot")
	}
}
