package rbtree //nolint:testpackage // tests require access to unexported fields (first, last, slots).

import (
	"math/rand"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

// Create a tree storing a set of integers.
func testNewIntSet() *Tree[int, int] {
	return New(functional.Less[int], functional.Identity[int])
}

func testNewIntMultiSet() *Tree[int, int] {
	return New(functional.Less[int], functional.Identity[int], WithMulti[int, int]())
}

func boolInsert(tree *Tree[int, int], item int) bool {
	_, inserted := tree.Insert(item)

	return inserted
}

func iterToString(it Iterator[int, int]) string {
	parts := []string{}

	for ; !it.IsEnd(); it = it.Next() {
		parts = append(parts, strconv.Itoa(it.Value()))
	}

	return strings.Join(parts, ",")
}

func requireValid(tb testing.TB, tree *Tree[int, int]) {
	tb.Helper()
	require.NoError(tb, tree.Check())
	require.Equal(tb, tree.Len(), iterator.Distance(tree.Begin(), tree.End()))
}

func TestEmpty(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	assert.Zero(t, tree.Len())
	assert.True(t, tree.Empty())
	assert.True(t, tree.Begin().IsEnd())
	assert.True(t, tree.Begin().Equal(tree.End()))
	assert.True(t, tree.Find(10).IsEnd())
	assert.True(t, tree.LowerBound(10).IsEnd())
	assert.Zero(t, tree.Count(10))
	assert.Zero(t, tree.EraseKey(10))
	assert.Empty(t, slices.Collect(tree.All()))
	requireValid(t, tree)
}

func TestInsertAndEraseScenario(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()

	for _, key := range []int{5, 3, 8, 1, 4} {
		require.True(t, boolInsert(tree, key))
	}

	assert.Equal(t, []int{1, 3, 4, 5, 8}, slices.Collect(tree.All()))

	assert.Equal(t, 1, tree.EraseKey(3))
	assert.Equal(t, []int{1, 4, 5, 8}, slices.Collect(tree.All()))
	assert.Equal(t, 4, tree.Len())
	requireValid(t, tree)
}

func TestInsertDuplicateUnique(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	first, inserted := tree.Insert(10)
	require.True(t, inserted)

	again, inserted := tree.Insert(10)
	assert.False(t, inserted)
	assert.True(t, first.Equal(again))
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 1, tree.Count(10))
}

func TestBounds(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()

	for idx := 0; idx < 10; idx += 2 {
		boolInsert(tree, idx)
	}

	assert.Equal(t, "4,6,8", iterToString(tree.LowerBound(3)))
	assert.Equal(t, "4,6,8", iterToString(tree.LowerBound(4)))
	assert.Equal(t, "6,8", iterToString(tree.UpperBound(4)))
	assert.Equal(t, "8", iterToString(tree.LowerBound(8)))
	assert.Empty(t, iterToString(tree.LowerBound(9)))
	assert.True(t, tree.UpperBound(8).IsEnd())
	assert.Equal(t, 6, tree.Find(6).Value())
	assert.True(t, tree.Find(7).IsEnd())
	assert.True(t, tree.Contains(0))
}

func TestMultiKeepsEqualRunContiguous(t *testing.T) {
	t.Parallel()

	type entry = functional.Pair[int, string]

	tree := New(functional.Less[int], functional.Select1st[int, string], WithMulti[int, entry]())

	for idx, key := range []int{2, 1, 2, 3, 2, 1} {
		_, inserted := tree.Insert(entry{First: key, Second: strconv.Itoa(idx)})
		require.True(t, inserted)
	}

	require.NoError(t, tree.Check())
	assert.Equal(t, 3, tree.Count(2))
	assert.Equal(t, 2, tree.Count(1))

	first, last := tree.EqualRange(2)
	run := []string{}

	for it := first; !it.Equal(last); it = it.Next() {
		run = append(run, it.Value().Second)
	}

	// Equal keys keep insertion order.
	assert.Equal(t, []string{"0", "2", "4"}, run)
	assert.Equal(t, 3, last.Key())

	assert.Equal(t, 3, tree.EraseKey(2))
	assert.Equal(t, 3, tree.Len())
	require.NoError(t, tree.Check())
}

func TestInsertHint(t *testing.T) {
	t.Parallel()

	t.Run("ascending_with_end", func(t *testing.T) {
		t.Parallel()

		tree := testNewIntSet()
		hint := tree.End()

		for key := range 100 {
			hint = tree.InsertHint(hint, key)
			require.Equal(t, key, hint.Value())
			hint = tree.End()
		}

		requireValid(t, tree)
		assert.Equal(t, 100, tree.Len())
	})

	t.Run("hint_before_position", func(t *testing.T) {
		t.Parallel()

		tree := testNewIntSet()
		for _, key := range []int{10, 20, 30} {
			boolInsert(tree, key)
		}

		it := tree.InsertHint(tree.Find(20), 25)
		assert.Equal(t, 25, it.Value())
		assert.Equal(t, "10,20,25,30", iterToString(tree.Begin()))
		requireValid(t, tree)
	})

	t.Run("wrong_hint_falls_back", func(t *testing.T) {
		t.Parallel()

		tree := testNewIntSet()
		for _, key := range []int{10, 20, 30} {
			boolInsert(tree, key)
		}

		it := tree.InsertHint(tree.Find(30), 5)
		assert.Equal(t, 5, it.Value())

		dup := tree.InsertHint(tree.Begin(), 20)
		assert.True(t, dup.Equal(tree.Find(20)))
		assert.Equal(t, 4, tree.Len())
		requireValid(t, tree)
	})

	t.Run("multi_appends_after_hint", func(t *testing.T) {
		t.Parallel()

		tree := testNewIntMultiSet()
		hint := tree.End()

		for _, key := range []int{1, 1, 1, 2, 2} {
			hint = tree.InsertHint(hint, key)
		}

		assert.Equal(t, "1,1,1,2,2", iterToString(tree.Begin()))
		requireValid(t, tree)
	})
}

func TestInsertRange(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	tree.InsertRange(slices.Values([]int{7, 3, 3, 9, 1}))

	assert.Equal(t, "1,3,7,9", iterToString(tree.Begin()))
	requireValid(t, tree)
}

func TestIteratorsAndReverse(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for _, key := range []int{4, 2, 6, 1, 3, 5, 7} {
		boolInsert(tree, key)
	}

	assert.Equal(t, 7, tree.End().Prev().Value())
	assert.Equal(t, 1, tree.Begin().Value())
	assert.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, slices.Collect(tree.Backward()))

	reversed := slices.Collect(iterator.Values[iterator.Reverse[Iterator[int, int], int], int](tree.RBegin(), tree.REnd()))
	assert.Equal(t, []int{7, 6, 5, 4, 3, 2, 1}, reversed)
	assert.Equal(t, iterator.Bidirectional, tree.Begin().Category())
}

func TestEraseReturnsSuccessorAndKeepsOtherIterators(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 50 {
		boolInsert(tree, key)
	}

	keep := map[int]Iterator[int, int]{}
	for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
		keep[it.Value()] = it
	}

	// Erasing inner nodes exercises the predecessor swap.
	for key := 1; key < 50; key += 3 {
		next := tree.Erase(keep[key])
		if key+1 < 50 {
			assert.Equal(t, key+1, next.Value())
		}

		delete(keep, key)
		requireValid(t, tree)
	}

	for key, it := range keep {
		assert.Equal(t, key, it.Value())
	}
}

func TestEraseRange(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 20 {
		boolInsert(tree, key)
	}

	last := tree.EraseRange(tree.Find(5), tree.Find(15))
	assert.Equal(t, 15, last.Value())
	assert.Equal(t, 10, tree.Len())
	requireValid(t, tree)

	assert.True(t, tree.EraseRange(tree.Begin(), tree.End()).IsEnd())
	assert.True(t, tree.Empty())
	requireValid(t, tree)
}

func TestPtrMutatesInPlace(t *testing.T) {
	t.Parallel()

	type entry = functional.Pair[string, int]

	tree := New(functional.Less[string], functional.Select1st[string, int])
	tree.Insert(entry{First: "a", Second: 1})

	tree.Find("a").Ptr().Second = 42
	assert.Equal(t, 42, tree.Find("a").Value().Second)
}

func TestCloneKeepsShapeAndColors(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	rng := rand.New(rand.NewSource(0))

	for range 300 {
		boolInsert(tree, rng.Intn(1000))
	}

	for range 100 {
		tree.EraseKey(rng.Intn(1000))
	}

	clone := tree.Clone()
	requireValid(t, clone)
	assert.Equal(t, slices.Collect(tree.All()), slices.Collect(clone.All()))

	origin, cloned := tree.slots(), clone.slots()
	stack := [][2]uint32{{tree.root(), clone.root()}}

	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if pair[0] == alloc.Nil {
			require.Equal(t, alloc.Nil, pair[1])

			continue
		}

		require.Equal(t, origin[pair[0]].value, cloned[pair[1]].value)
		require.Equal(t, origin[pair[0]].color, cloned[pair[1]].color)

		for dir := range 2 {
			stack = append(stack, [2]uint32{origin[pair[0]].child[dir], cloned[pair[1]].child[dir]})
		}
	}

	// The clone does not share storage.
	clone.EraseKey(clone.Begin().Value())
	assert.Equal(t, tree.Len()-1, clone.Len())
}

func TestSwap(t *testing.T) {
	t.Parallel()

	one, two := testNewIntSet(), testNewIntSet()
	boolInsert(one, 1)
	boolInsert(two, 2)
	boolInsert(two, 3)

	one.Swap(two)

	assert.Equal(t, []int{2, 3}, slices.Collect(one.All()))
	assert.Equal(t, []int{1}, slices.Collect(two.All()))
}

func TestClearBalancesArena(t *testing.T) {
	t.Parallel()

	counting := alloc.NewCounting[Node[int]](nil)
	tree := New(functional.Less[int], functional.Identity[int], WithAllocator[int, int](counting))

	for key := range 500 {
		boolInsert(tree, key)
	}

	for key := range 500 {
		require.Equal(t, 1, tree.EraseKey(key))
	}

	stats := tree.Arena().Stats()
	assert.Equal(t, stats.Allocs, stats.Frees)
	assert.Zero(t, stats.Live)
	assert.Zero(t, stats.Capacity)
	assert.Equal(t, 1, tree.Arena().Used())
	assert.Equal(t, 500, counting.Stats().Destroys)
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
	requireValid(t, tree)

	for key := range 10 {
		boolInsert(tree, key)
	}

	clone := tree.Clone()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, slices.Collect(clone.All()))

	tree.Clear()
	clone.Clear()
	assert.Zero(t, tree.Arena().Stats().Live)
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
	requireValid(t, tree)

	// The released storage is drawn again on demand.
	boolInsert(tree, 42)
	assert.Equal(t, "42", iterToString(tree.Begin()))
	assert.False(t, counting.Stats().Balanced())
	require.Equal(t, 1, tree.EraseKey(42))
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
}

func TestCheckDetectsCorruption(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	for key := range 10 {
		boolInsert(tree, key)
	}

	nodes := tree.slots()
	nodes[tree.root()].color = red
	require.ErrorIs(t, tree.Check(), ErrInvariant)
	nodes[tree.root()].color = black

	nodes[tree.first].value = 100
	require.ErrorIs(t, tree.Check(), ErrInvariant)
}

// Randomized tests.

// oracle stores the data in a sorted slice.
type oracle struct {
	data  []int
	multi bool
}

func (o *oracle) Insert(key int) bool {
	pos, found := slices.BinarySearch(o.data, key)
	if found && !o.multi {
		return false
	}

	for pos < len(o.data) && o.data[pos] == key {
		pos++
	}

	o.data = slices.Insert(o.data, pos, key)

	return true
}

func (o *oracle) Erase(key int) int {
	first, _ := slices.BinarySearch(o.data, key)
	last := first

	for last < len(o.data) && o.data[last] == key {
		last++
	}

	o.data = slices.Delete(o.data, first, last)

	return last - first
}

func (o *oracle) LowerBound(key int) int {
	pos, _ := slices.BinarySearch(o.data, key)

	return pos
}

func compareContents(tb testing.TB, orc *oracle, tree *Tree[int, int]) {
	tb.Helper()

	require.NoError(tb, tree.Check())
	require.Equal(tb, append([]int{}, orc.data...), append([]int{}, slices.Collect(tree.All())...))
}

func testRandomized(t *testing.T, multi bool) {
	t.Helper()

	const (
		numOps   = 10000
		keySpace = 500
	)

	rng := rand.New(rand.NewSource(0))
	orc := &oracle{multi: multi}
	tree := testNewIntSet()

	if multi {
		tree = testNewIntMultiSet()
	}

	for op := range numOps {
		key := rng.Intn(keySpace)

		switch rng.Intn(5) {
		case 0, 1:
			require.Equal(t, orc.Insert(key), boolInsert(tree, key))
		case 2:
			hint := tree.LowerBound(rng.Intn(keySpace))
			orc.Insert(key)
			tree.InsertHint(hint, key)
		case 3:
			require.Equal(t, orc.Erase(key), tree.EraseKey(key))
		default:
			pos := orc.LowerBound(key)
			it := tree.LowerBound(key)

			if pos == len(orc.data) {
				require.True(t, it.IsEnd())
			} else {
				require.Equal(t, orc.data[pos], it.Value())
			}
		}

		if op%97 == 0 {
			compareContents(t, orc, tree)
		}
	}

	compareContents(t, orc, tree)
}

func TestRandomized(t *testing.T) {
	t.Parallel()

	t.Run("unique", func(t *testing.T) {
		t.Parallel()
		testRandomized(t, false)
	})

	t.Run("multi", func(t *testing.T) {
		t.Parallel()
		testRandomized(t, true)
	})
}
