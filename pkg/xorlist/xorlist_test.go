package xorlist //nolint:testpackage // tests check the raw XOR links.

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
)

func contents[T any](l *List[T]) []T {
	return append([]T{}, slices.Collect(l.All())...)
}

// requireLinks walks the list by XOR links in both directions.
func requireLinks[T any](tb testing.TB, l *List[T]) {
	tb.Helper()

	forward := contents(l)
	backward := append([]T{}, slices.Collect(l.Backward())...)
	slices.Reverse(backward)

	require.Len(tb, forward, l.Len())
	require.Equal(tb, forward, backward)
	require.Equal(tb, l.Len(), iterator.Distance(l.Begin(), l.End()))
	require.Equal(tb, l.Len()+1, l.Arena().Used())
}

func TestLinks(t *testing.T) {
	t.Parallel()

	l := From([]int{10, 20, 30})
	nodes := l.slots()
	first, second, third := l.head, l.Begin().Next().cur, l.tail

	assert.Equal(t, alloc.Nil^second, nodes[first].link)
	assert.Equal(t, first^third, nodes[second].link)
	assert.Equal(t, second^alloc.Nil, nodes[third].link)
}

func TestIterators(t *testing.T) {
	t.Parallel()

	l := From([]int{1, 2, 3, 4})

	it := l.End().Prev()
	assert.Equal(t, 4, it.Value())
	assert.Equal(t, 3, it.Prev().Value())
	assert.True(t, it.Next().IsEnd())
	assert.True(t, l.End().Next().Equal(l.Begin()))
	assert.True(t, l.Begin().Prev().IsEnd())

	reversed := slices.Collect(iterator.Values[iterator.Reverse[Iterator[int], int], int](l.RBegin(), l.REnd()))
	assert.Equal(t, []int{4, 3, 2, 1}, reversed)
}

func TestInsertErase(t *testing.T) {
	t.Parallel()

	l := New[int]()
	l.PushBack(2)
	l.PushFront(1)
	l.PushBack(4)

	it := l.Insert(l.End().Prev(), 3)
	assert.Equal(t, 3, it.Value())
	assert.Equal(t, 4, it.Next().Value())
	assert.Equal(t, []int{1, 2, 3, 4}, contents(l))

	next := l.Erase(l.Begin().Next())
	assert.Equal(t, 3, next.Value())
	assert.Equal(t, 1, next.Prev().Value())

	first := l.InsertN(next, 2, 7)
	assert.Equal(t, 7, first.Value())
	assert.Equal(t, []int{1, 7, 7, 3, 4}, contents(l))

	l.PopFront()
	l.PopBack()
	assert.Equal(t, 7, l.Front())
	assert.Equal(t, 3, l.Back())
	requireLinks(t, l)

	l.EraseRange(l.Begin(), l.End())
	assert.True(t, l.Empty())
	requireLinks(t, l)
}

func TestReverseIsConstantTime(t *testing.T) {
	t.Parallel()

	l := From([]int{1, 2, 3, 4, 5})
	l.Reverse()
	assert.Equal(t, []int{5, 4, 3, 2, 1}, contents(l))

	l.PushBack(0)
	l.PushFront(6)
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1, 0}, contents(l))
	requireLinks(t, l)

	l.Reverse()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, contents(l))
}

func TestSplice(t *testing.T) {
	t.Parallel()

	one := From([]int{1, 2, 3, 4, 5})

	// Move [4, 5) to the front within the list.
	from := one.Begin().Next().Next().Next()
	one.SpliceOne(one.Begin(), one, from)
	assert.Equal(t, []int{4, 1, 2, 3, 5}, contents(one))
	requireLinks(t, one)

	// Move [1, 3) to the end.
	first := one.Begin().Next()
	one.SpliceRange(one.End(), one, first, first.Next().Next())
	assert.Equal(t, []int{4, 3, 5, 1, 2}, contents(one))
	requireLinks(t, one)

	two := From([]int{8, 9})
	one.Splice(one.Begin().Next(), two)
	assert.Equal(t, []int{4, 8, 9, 3, 5, 1, 2}, contents(one))
	assert.True(t, two.Empty())
	requireLinks(t, one)
	requireLinks(t, two)
}

func TestRemoveUniqueMergeSort(t *testing.T) {
	t.Parallel()

	l := From([]int{3, 3, 1, 2, 2, 2, 5})
	assert.Equal(t, 3, l.Unique(functional.Equal[int]))
	assert.Equal(t, []int{3, 1, 2, 5}, contents(l))

	assert.Equal(t, 1, Remove(l, 1))
	assert.Equal(t, 1, l.RemoveIf(func(v int) bool { return v > 4 }))

	l.Sort(functional.Less[int])
	assert.Equal(t, []int{2, 3}, contents(l))

	other := From([]int{1, 3, 4})
	l.Merge(other, functional.Less[int])
	assert.Equal(t, []int{1, 2, 3, 3, 4}, contents(l))
	assert.True(t, other.Empty())
	requireLinks(t, l)
}

func TestCloneSwapCompare(t *testing.T) {
	t.Parallel()

	one := From([]string{"a", "b"})
	two := one.Clone()
	assert.True(t, one.Equal(two, functional.Equal[string]))

	two.Begin().Set("c")
	assert.Equal(t, "a", one.Front())
	assert.True(t, one.Less(two, functional.Less[string]))

	one.Swap(two)
	assert.Equal(t, []string{"c", "b"}, contents(one))

	one.Resize(4, "z")
	assert.Equal(t, []string{"c", "b", "z", "z"}, contents(one))

	one.Assign(1, "q")
	assert.Equal(t, []string{"q"}, contents(one))
}

func TestRandomized(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(0))
	counting := alloc.NewCounting[Node[int]](nil)
	l := New(WithAllocator[int](counting))

	var model []int

	for step := range 5000 {
		switch op := rng.Intn(5); {
		case op == 0:
			l.PushFront(step)
			model = slices.Insert(model, 0, step)
		case op == 1:
			l.PushBack(step)
			model = append(model, step)
		case op == 2:
			pos := rng.Intn(len(model) + 1)
			l.Insert(iterator.NextN(l.Begin(), pos), step)
			model = slices.Insert(model, pos, step)
		case op == 3 && len(model) > 0:
			pos := rng.Intn(len(model))
			l.Erase(iterator.NextN(l.Begin(), pos))
			model = slices.Delete(model, pos, pos+1)
		case op == 4 && rng.Intn(10) == 0:
			l.Reverse()
			slices.Reverse(model)
		}

		if step%100 == 0 {
			requireLinks(t, l)
			require.Equal(t, append([]int{}, model...), contents(l))
		}
	}

	l.Clear()

	stats := l.Arena().Stats()
	assert.Equal(t, stats.Allocs, stats.Frees)
	assert.Positive(t, counting.Stats().Destroys)
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
}

func TestSortRelinksNodes(t *testing.T) {
	t.Parallel()

	l := From([]int{3, 1, 2})
	first := l.Begin()

	l.Sort(functional.Less[int])

	assert.Equal(t, []int{1, 2, 3}, contents(l))
	assert.Equal(t, 3, first.Value(), "the node moved with its value")
	assert.Equal(t, first.cur, l.tail)
	requireLinks(t, l)
}

type keyed struct {
	key, seq int
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	byKey := func(a, b keyed) bool { return a.key < b.key }

	for _, n := range []int{0, 1, 2, 3, 7, 8, 9, 64, 100, 257} {
		values := make([]keyed, n)
		for i := range values {
			values[i] = keyed{key: rng.Intn(10), seq: i}
		}

		l := From(values)

		owner := map[uint32]keyed{}
		for it := l.Begin(); !it.IsEnd(); it = it.Next() {
			owner[it.cur] = it.Value()
		}

		l.Sort(byKey)

		want := slices.Clone(values)
		slices.SortStableFunc(want, func(a, b keyed) int { return a.key - b.key })
		require.Equal(t, append([]keyed{}, want...), contents(l), "n=%d", n)
		requireLinks(t, l)

		for it := l.Begin(); !it.IsEnd(); it = it.Next() {
			require.Equal(t, owner[it.cur], it.Value(), "n=%d: values stay in their nodes", n)
		}
	}
}

func TestMergeKeepsOwnNodes(t *testing.T) {
	t.Parallel()

	l := From([]int{2, 4, 6})
	four := l.Begin().Next()

	l.Merge(From([]int{1, 4, 5, 7}), functional.Less[int])

	assert.Equal(t, []int{1, 2, 4, 4, 5, 6, 7}, contents(l))
	assert.Equal(t, 4, four.Value())
	requireLinks(t, l)
}

func TestEraseEverythingBalancesAllocator(t *testing.T) {
	t.Parallel()

	counting := alloc.NewCounting[Node[int]](nil)
	l := From([]int{5, 4, 3, 2, 1}, WithAllocator[int](counting))
	clone := l.Clone()

	for !l.Empty() {
		l.PopFront()
	}

	assert.Zero(t, l.Arena().Stats().Capacity)
	requireLinks(t, l)

	clone.Sort(functional.Less[int])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, contents(clone))
	clone.Clear()
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())

	l.PushBack(9)
	assert.Equal(t, []int{9}, contents(l))
	l.PopBack()
	assert.True(t, counting.Stats().Balanced(), "%+v", counting.Stats())
}
