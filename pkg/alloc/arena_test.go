package alloc //nolint:testpackage // tests inspect the gap set.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaReservesSlotZero(t *testing.T) {
	t.Parallel()

	arena := NewArena[int](nil)

	assert.Equal(t, 1, arena.Size())
	assert.Equal(t, 1, arena.Used())
	assert.Equal(t, uint32(1), arena.Alloc())
	assert.PanicsWithValue(t, "alloc: slot #0 is reserved and cannot be freed", func() {
		arena.Free(Nil)
	})
}

func TestArenaRecyclesFreedSlots(t *testing.T) {
	t.Parallel()

	arena := NewArena[string](nil)
	first := arena.Alloc()
	second := arena.Alloc()
	*arena.At(first) = "a"
	*arena.At(second) = "b"

	arena.Free(first)
	assert.Empty(t, *arena.At(first), "freed slots are destroyed")
	assert.True(t, arena.gaps[first])
	assert.Equal(t, 2, arena.Used())

	assert.Equal(t, first, arena.Alloc())
	assert.Empty(t, arena.gaps)
	assert.Equal(t, 3, arena.Used())
}

func TestArenaDoubleFreePanics(t *testing.T) {
	t.Parallel()

	arena := NewArena[int](nil)
	idx := arena.Alloc()
	arena.Free(idx)

	assert.Panics(t, func() { arena.Free(idx) })
	assert.Panics(t, func() { arena.Free(42) })
}

func TestArenaGrowthKeepsValues(t *testing.T) {
	t.Parallel()

	counting := NewCounting[int](nil)
	arena := NewArena[int](counting)

	const slots = 1000

	for value := 1; value <= slots; value++ {
		idx := arena.Alloc()
		*arena.At(idx) = value
	}

	for idx := uint32(1); idx <= slots; idx++ {
		require.Equal(t, int(idx), *arena.At(idx))
	}

	stats := counting.Stats()
	assert.Greater(t, stats.Allocs, 1)
	assert.Equal(t, stats.Allocs-1, stats.Deallocs, "every outgrown slab is returned")
	assert.Equal(t, arena.Stats().Capacity, stats.LiveElements)
}

func TestArenaStatsBalanceAfterFreeingEverything(t *testing.T) {
	t.Parallel()

	arena := NewArena[int](nil)
	indices := make([]uint32, 0, 64)

	for range 64 {
		indices = append(indices, arena.Alloc())
	}

	for _, idx := range indices {
		arena.Free(idx)
	}

	stats := arena.Stats()
	assert.Equal(t, stats.Allocs, stats.Frees)
	assert.Zero(t, stats.Live)
	assert.Equal(t, 1, arena.Used())
}

func TestArenaReset(t *testing.T) {
	t.Parallel()

	counting := NewCounting[int](nil)
	arena := NewArena[int](counting)

	for range 10 {
		*arena.At(arena.Alloc()) = 7
	}

	arena.Free(3)
	arena.Reset()

	assert.Equal(t, 1, arena.Size())
	assert.Zero(t, arena.Stats().Live)
	assert.Equal(t, 10, counting.Stats().Destroys)
	assert.Equal(t, uint32(1), arena.Alloc())
	assert.Zero(t, *arena.At(1))
}

func TestArenaClone(t *testing.T) {
	t.Parallel()

	arena := NewArena[int](nil)

	for value := range 5 {
		*arena.At(arena.Alloc()) = value * 10
	}

	arena.Free(2)

	clone := arena.Clone()
	*arena.At(1) = -1

	assert.Equal(t, 0, *clone.At(1))
	assert.Equal(t, 40, *clone.At(5))
	assert.Equal(t, arena.Used(), clone.Used())
	assert.Equal(t, uint32(2), clone.Alloc())
}

func TestArenaReleasesStorageWhenEmpty(t *testing.T) {
	t.Parallel()

	counting := NewCounting[int](nil)
	arena := NewArena[int](counting)
	assert.Equal(t, Stats{}, counting.Stats(), "nothing is drawn before the first Alloc")

	*arena.At(Nil) = 5
	indices := make([]uint32, 0, 20)

	for range 20 {
		indices = append(indices, arena.Alloc())
	}

	assert.Equal(t, 5, *arena.At(Nil))
	assert.Positive(t, counting.Stats().LiveElements)

	for _, idx := range indices[:19] {
		arena.Free(idx)
	}

	assert.False(t, counting.Stats().Balanced(), "one slot is still live")

	arena.Free(indices[19])

	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
	assert.Zero(t, arena.Stats().Capacity)
	assert.Equal(t, 1, arena.Size())
	assert.Empty(t, arena.gaps)
	assert.Equal(t, 5, *arena.At(Nil), "slot Nil survives the release")

	assert.Equal(t, uint32(1), arena.Alloc())
	assert.Equal(t, 5, *arena.At(Nil))

	arena.Reset()
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
	assert.Zero(t, *arena.At(Nil))
}

func TestArenaCloneOfEmpty(t *testing.T) {
	t.Parallel()

	counting := NewCounting[int](nil)
	arena := NewArena[int](counting)
	*arena.At(Nil) = 3

	clone := arena.Clone()
	*clone.At(Nil) = 4

	assert.Equal(t, 3, *arena.At(Nil))
	assert.Equal(t, 4, *clone.At(Nil))
	assert.Equal(t, uint32(1), clone.Alloc())
	assert.Equal(t, 4, *clone.At(Nil))

	clone.Reset()
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
}

func TestMaxLenFitsInt(t *testing.T) {
	t.Parallel()

	assert.Positive(t, MaxLen)
	assert.LessOrEqual(t, uint64(MaxLen), MaxSlots)
}
