package hashtable //nolint:testpackage // tests corrupt private state to exercise Check.

import (
	"iter"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

// Colliding hash so chains get long.
func weakHash(key int) uint64 {
	return uint64(key % 7) //nolint:gosec // keys are non-negative.
}

func testNewIntSet(opts ...Option[int, int]) *Table[int, int] {
	return New(weakHash, functional.Equal[int], functional.Identity[int], opts...)
}

func testNewIntMultiSet(opts ...Option[int, int]) *Table[int, int] {
	return testNewIntSet(append(opts, WithMulti[int, int]())...)
}

func requireValid(tb testing.TB, table *Table[int, int]) {
	tb.Helper()
	require.NoError(tb, table.Check())
	require.Equal(tb, table.Len(), iterator.Distance(table.Begin(), table.End()))
}

func sorted(seq iter.Seq[int]) []int {
	return append([]int{}, slices.Sorted(seq)...)
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	table := testNewIntSet()
	assert.Equal(t, 1, table.BucketCount())
	assert.Equal(t, alloc.MaxLen, table.MaxBucketCount())
	assert.InDelta(t, 1.0, table.MaxLoadFactor(), 1e-9)
	assert.True(t, table.Empty())
	assert.True(t, table.Begin().IsEnd())
	assert.True(t, table.Find(3).IsEnd())
	assert.Zero(t, table.Count(3))
	requireValid(t, table)
}

func TestInsertFindErase(t *testing.T) {
	t.Parallel()

	table := testNewIntSet()

	for i := range 50 {
		_, inserted := table.Insert(i)
		require.True(t, inserted)
		requireValid(t, table)
	}

	it, inserted := table.Insert(7)
	assert.False(t, inserted)
	assert.Equal(t, 7, it.Value())
	assert.Equal(t, 50, table.Len())
	assert.LessOrEqual(t, table.LoadFactor(), table.MaxLoadFactor())

	for i := range 50 {
		assert.True(t, table.Contains(i))
		assert.Equal(t, 1, table.Count(i))
	}

	assert.Equal(t, 1, table.EraseKey(10))
	assert.Zero(t, table.EraseKey(10))
	assert.False(t, table.Contains(10))

	next := table.Erase(table.Find(20))
	assert.False(t, table.Contains(20))
	assert.Equal(t, 48, table.Len())

	if !next.IsEnd() {
		assert.True(t, table.Contains(next.Value()))
	}

	requireValid(t, table)
}

func TestRehashKeepsKeysAndIterators(t *testing.T) {
	t.Parallel()

	table := testNewIntSet(WithMaxLoadFactor[int, int](0.5))
	for i := range 100 {
		table.Insert(i * 3)
	}

	kept := table.Find(42)
	before := sorted(table.All())

	table.Rehash(1000)
	assert.Equal(t, 1000, table.BucketCount())
	assert.Equal(t, before, sorted(table.All()))
	assert.Equal(t, 42, kept.Value())
	requireValid(t, table)

	// Shrinking is capped by the load factor.
	table.Rehash(1)
	assert.Equal(t, 200, table.BucketCount())
	requireValid(t, table)

	table.Reserve(1000)
	assert.GreaterOrEqual(t, table.BucketCount(), 2000)
	assert.Equal(t, before, sorted(table.All()))

	table.SetMaxLoadFactor(0.01)
	assert.GreaterOrEqual(t, table.BucketCount(), 10000)
	requireValid(t, table)
}

func TestFirstBucketCache(t *testing.T) {
	t.Parallel()

	table := testNewIntSet(WithBucketCount[int, int](7))
	table.Insert(5)
	table.Insert(6)
	assert.Equal(t, 5, table.Begin().Value())

	table.Insert(1)
	assert.Equal(t, 1, table.Begin().Value())

	table.EraseKey(1)
	table.EraseKey(5)
	assert.Equal(t, 6, table.Begin().Value())
	requireValid(t, table)

	table.EraseKey(6)
	assert.True(t, table.Begin().IsEnd())
	requireValid(t, table)
}

func TestMultiRunsStayContiguous(t *testing.T) {
	t.Parallel()

	table := testNewIntMultiSet(WithBucketCount[int, int](3))

	for round := range 4 {
		for key := range 10 {
			table.Insert(key)
		}

		requireValid(t, table)
		assert.Equal(t, round+1, table.Count(3))
	}

	first, last := table.EqualRange(3)
	assert.Equal(t, 4, iterator.Distance(first, last))

	for it := first; !it.Equal(last); it = it.Next() {
		assert.Equal(t, 3, it.Value())
	}

	assert.Equal(t, 4, table.EraseKey(3))
	assert.Zero(t, table.Count(3))
	requireValid(t, table)
}

type entry = functional.Pair[int, string]

func TestInsertHintLinksAfterHint(t *testing.T) {
	t.Parallel()

	table := New(weakHash, functional.Equal[int], functional.Select1st[int, string],
		WithMulti[int, entry](), WithBucketCount[int, entry](1))

	first, _ := table.Insert(entry{First: 1, Second: "a"})
	table.Insert(entry{First: 8, Second: "x"})
	second := table.InsertHint(first, entry{First: 1, Second: "b"})
	table.InsertHint(second, entry{First: 1, Second: "c"})

	var run []string
	for begin, end := table.EqualRange(1); !begin.Equal(end); begin = begin.Next() {
		run = append(run, begin.Value().Second)
	}

	assert.Equal(t, []string{"a", "b", "c"}, run)

	// A hint with a different key falls back to a plain insert.
	it := table.InsertHint(table.Find(8), entry{First: 1, Second: "d"})
	assert.Equal(t, "d", it.Value().Second)
	assert.Equal(t, 4, table.Count(1))
	require.NoError(t, table.Check())
}

func TestBucketInterface(t *testing.T) {
	t.Parallel()

	table := testNewIntSet(WithBucketCount[int, int](7))
	for _, key := range []int{0, 7, 14, 3} {
		table.Insert(key)
	}

	assert.Equal(t, 0, table.Bucket(14))
	assert.Equal(t, 3, table.BucketSize(0))
	assert.Equal(t, 1, table.BucketSize(3))
	assert.Zero(t, table.BucketSize(1))
	assert.Equal(t, []int{0, 7, 14}, slices.Collect(table.BucketValues(0)))
}

func TestCloneSwapEqual(t *testing.T) {
	t.Parallel()

	one := testNewIntMultiSet()
	for _, key := range []int{1, 2, 2, 3, 9} {
		one.Insert(key)
	}

	two := one.Clone()
	assert.True(t, one.Equal(two, functional.Equal[int]))
	requireValid(t, two)

	two.EraseKey(9)
	assert.False(t, one.Equal(two, functional.Equal[int]))
	assert.True(t, one.Contains(9))

	// Insertion order does not matter.
	three := testNewIntMultiSet(WithBucketCount[int, int](13))
	for _, key := range []int{9, 2, 3, 2, 1} {
		three.Insert(key)
	}

	assert.True(t, one.Equal(three, functional.Equal[int]))

	one.Swap(two)
	assert.Equal(t, 4, one.Len())
	assert.Equal(t, 5, two.Len())
}

func TestClearBalancesArena(t *testing.T) {
	t.Parallel()

	counting := alloc.NewCounting[Node[int]](nil)
	table := testNewIntMultiSet(WithAllocator[int, int](counting))

	for i := range 300 {
		table.Insert(i % 40)
	}

	table.Clear()

	stats := table.Arena().Stats()
	assert.Equal(t, stats.Allocs, stats.Frees)
	assert.Zero(t, stats.Live)
	assert.Zero(t, stats.Capacity)
	assert.Equal(t, 300, counting.Stats().Destroys)
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
	assert.True(t, table.Begin().IsEnd())
	requireValid(t, table)
}

func TestEraseEverythingBalancesAllocator(t *testing.T) {
	t.Parallel()

	counting := alloc.NewCounting[Node[int]](nil)
	table := testNewIntMultiSet(WithAllocator[int, int](counting))

	for i := range 300 {
		table.Insert(i % 40)
	}

	clone := table.Clone()

	for key := range 40 {
		require.Positive(t, table.EraseKey(key))
	}

	requireValid(t, table)
	assert.False(t, counting.Stats().Balanced(), "the clone still holds its storage")

	for it := clone.Begin(); !it.IsEnd(); {
		it = clone.Erase(it)
	}

	assert.Zero(t, clone.Len())
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())

	table.Insert(7)
	assert.Equal(t, []int{7}, slices.Collect(table.All()))
	table.Clear()
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
}

func TestCheckDetectsCorruption(t *testing.T) {
	t.Parallel()

	table := testNewIntSet(WithBucketCount[int, int](7))
	table.Insert(3)
	table.Insert(10)

	nodes := table.slots()
	idx := table.buckets[3]

	nodes[idx].hash++
	require.ErrorIs(t, table.Check(), ErrInvariant)
	nodes[idx].hash--
	require.NoError(t, table.Check())

	table.firstBucket = 5
	require.ErrorIs(t, table.Check(), ErrInvariant)
}

func TestRandomized(t *testing.T) {
	t.Parallel()

	for _, multi := range []bool{false, true} {
		rng := rand.New(rand.NewSource(0))
		model := map[int]int{}

		var table *Table[int, int]
		if multi {
			table = New(functional.Hash[int](), functional.Equal[int], functional.Identity[int], WithMulti[int, int]())
		} else {
			table = New(functional.Hash[int](), functional.Equal[int], functional.Identity[int])
		}

		for step := range 5000 {
			key := rng.Intn(300)

			switch rng.Intn(4) {
			case 0, 1:
				_, inserted := table.Insert(key)
				require.Equal(t, multi || model[key] == 0, inserted)

				if inserted {
					model[key]++
				}
			case 2:
				require.Equal(t, model[key], table.EraseKey(key))
				delete(model, key)
			default:
				require.Equal(t, model[key], table.Count(key))
			}

			if step%250 == 0 {
				requireValid(t, table)
			}
		}

		counts := map[int]int{}
		for key := range table.All() {
			counts[key]++
		}

		assert.Equal(t, model, counts)
	}
}
