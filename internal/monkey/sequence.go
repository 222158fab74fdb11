package monkey

import (
	"fmt"
	"iter"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/deque"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
	"github.com/Sumatoshi-tech/containers/pkg/list"
	"github.com/Sumatoshi-tech/containers/pkg/vector"
	"github.com/Sumatoshi-tech/containers/pkg/xorlist"
)

const (
	assignSpan  = 8
	reserveCap  = 64
	atOverreach = 2
)

// sequence is the surface deque, vector and both lists share.
type sequence[S, I any] interface {
	Len() int
	Begin() I
	End() I
	Front() int
	Back() int
	PushBack(value int)
	PopBack()
	Insert(pos I, value int) I
	InsertN(pos I, count, value int) I
	Erase(pos I) I
	EraseRange(first, last I) I
	Resize(n, value int)
	Assign(n, value int)
	Clear()
	All() iter.Seq[int]
	Clone() S
	Swap(other S)
	Equal(other S, eq functional.EqualFunc[int]) bool
	Less(other S, less functional.LessFunc[int]) bool
}

// linked adds the list operations.
type linked[S, I any] interface {
	sequence[S, I]
	PushFront(value int)
	PopFront()
	Reverse()
	Sort(less functional.LessFunc[int])
	Unique(eq functional.EqualFunc[int]) int
	RemoveIf(pred func(int) bool) int
	Merge(other S, less functional.LessFunc[int])
	SpliceOne(pos I, other S, it I)
	SpliceRange(pos I, other S, first, last I)
}

func sequenceOps(extra ...Weighted) []Weighted {
	ops := []Weighted{
		{opPushBack, 20},
		{opPopBack, 10},
		{opInsert, 10},
		{opInsertN, 4},
		{opErase, 8},
		{opEraseRange, 3},
		{opResize, 2},
		{opAssignN, 1},
		{opClone, 2},
		{opSwap, 2},
		{opEqual, 2},
		{opLess, 2},
		{opClear, 1},
	}

	return append(ops, extra...)
}

func sequenceKinds() []Kind {
	model := func(Settings) Subject { return &sliceModel{} }

	return []Kind{
		{
			Name: "deque", Family: FamilySequence, Model: model,
			Ops: sequenceOps(
				Weighted{opPushFront, 20}, Weighted{opPopFront, 10},
				Weighted{opAt, 6}, Weighted{opSet, 4}, Weighted{opShrink, 1},
			),
			Real: func(Settings) Subject { return newDequeSubject() },
		},
		{
			Name: "vector", Family: FamilySequence, Model: model,
			Ops: sequenceOps(
				Weighted{opAt, 6}, Weighted{opSet, 4}, Weighted{opReserve, 1}, Weighted{opShrink, 1},
			),
			Real: func(Settings) Subject { return newVectorSubject() },
		},
		{
			Name: "list", Family: FamilySequence, Model: model,
			Ops:  sequenceOps(linkedWeights()...),
			Real: func(Settings) Subject { return newListSubject() },
		},
		{
			Name: "xorlist", Family: FamilySequence, Model: model,
			Ops:  sequenceOps(linkedWeights()...),
			Real: func(Settings) Subject { return newXORListSubject() },
		},
	}
}

func linkedWeights() []Weighted {
	return []Weighted{
		{opPushFront, 20},
		{opPopFront, 10},
		{opReverse, 2},
		{opSort, 1},
		{opUnique, 2},
		{opRemove, 2},
		{opMerge, 2},
		{opSpliceFront, 3},
		{opSpliceRange, 3},
	}
}

// seqSubject drives a sequence container. extra handles the ops of one
// container type.
type seqSubject[S sequence[S, I], I iterator.Cursor[I, int]] struct {
	kind  string
	c     S
	fresh func(values ...int) S
	check func(S) error
	leak  func(S) error
	extra func(op Op) (string, bool)
}

func (s *seqSubject[S, I]) at(i int) I { return iterator.Advance(s.c.Begin(), i) }

func (s *seqSubject[S, I]) index(it I) string { return itoa(iterator.Distance(s.c.Begin(), it)) }

// value renders the element at it, or end.
func (s *seqSubject[S, I]) value(it I) string {
	if it.Equal(s.c.End()) {
		return resultEnd
	}

	return itoa(iterator.Distance(s.c.Begin(), it)) + ":" + itoa(it.Value())
}

// compare builds a one-element container, runs fn against it and releases it.
func (s *seqSubject[S, I]) compare(value int, fn func(other S) bool) string {
	other := s.fresh(value)
	defer other.Clear()

	return boolString(fn(other))
}

func (s *seqSubject[S, I]) Apply(op Op) (string, error) {
	if s.extra != nil {
		if result, ok := s.extra(op); ok {
			return result, nil
		}
	}

	c := s.c
	n := c.Len()

	switch op.Name {
	case opPushBack:
		c.PushBack(op.Value)

		return "", nil
	case opPopBack:
		if n == 0 {
			return resultEmpty, nil
		}

		v := c.Back()
		c.PopBack()

		return itoa(v), nil
	case opInsert:
		return s.index(c.Insert(s.at(reduce(op.Pos, n+1)), op.Value)), nil
	case opInsertN:
		return s.index(c.InsertN(s.at(reduce(op.Pos, n+1)), op.Key%countSpan, op.Value)), nil
	case opErase:
		if n == 0 {
			return resultEmpty, nil
		}

		return s.value(c.Erase(s.at(reduce(op.Pos, n)))), nil
	case opEraseRange:
		if n == 0 {
			return resultEmpty, nil
		}

		i := reduce(op.Pos, n)
		j := min(n, i+op.Value%rangeSpan)

		return s.value(c.EraseRange(s.at(i), s.at(j))), nil
	case opResize:
		c.Resize(op.Pos%resizeSpan, op.Value)

		return "", nil
	case opAssignN:
		c.Assign(op.Pos%assignSpan, op.Value)

		return "", nil
	case opClear:
		c.Clear()

		return "", nil
	case opClone:
		clone := c.Clone()
		equal := clone.Equal(c, functional.Equal[int])
		c.Clear()
		s.c = clone

		return boolString(equal), nil
	case opSwap:
		other := s.fresh()
		other.Swap(c)
		size := other.Len()
		c.Swap(other)
		other.Clear()

		return itoa(size), nil
	case opEqual:
		return s.compare(op.Value, func(other S) bool { return c.Equal(other, functional.Equal[int]) }), nil
	case opLess:
		return s.compare(op.Value, func(other S) bool { return c.Less(other, functional.Less[int]) }), nil
	}

	return "", unknownOp(s.kind, op)
}

func (s *seqSubject[S, I]) Len() int { return s.c.Len() }

func (s *seqSubject[S, I]) Dump() []string {
	out := make([]string, 0, s.c.Len())
	for v := range s.c.All() {
		out = append(out, itoa(v))
	}

	return out
}

func (s *seqSubject[S, I]) Check() error {
	if s.check == nil {
		return nil
	}

	return s.check(s.c)
}

func (s *seqSubject[S, I]) Close() error {
	s.c.Clear()

	return s.leak(s.c)
}

// checkBalanced reports a counting allocator that still has storage out.
func checkBalanced[T any](kind string, counting *alloc.Counting[T]) error {
	if stats := counting.Stats(); !stats.Balanced() {
		return fmt.Errorf("%w: %s made %d allocations, %d deallocations, %d live elements",
			ErrLeak, kind, stats.Allocs, stats.Deallocs, stats.LiveElements)
	}

	return nil
}

func countingLeak[S, T any](kind string, counting *alloc.Counting[T]) func(S) error {
	return func(S) error { return checkBalanced(kind, counting) }
}

// randomAccessOps handles the indexed ops of deque and vector.
func randomAccessOps[S interface {
	sequence[S, I]
	At(i int) (int, error)
	Set(i, value int)
}, I iterator.Cursor[I, int]](s *seqSubject[S, I], op Op) (string, bool) {
	c := s.c

	switch op.Name {
	case opAt:
		v, err := c.At(reduce(op.Pos, c.Len()+atOverreach))
		if err != nil {
			return resultRange, true
		}

		return itoa(v), true
	case opSet:
		if c.Len() == 0 {
			return resultEmpty, true
		}

		c.Set(reduce(op.Pos, c.Len()), op.Value)

		return "", true
	}

	return "", false
}

func newDequeSubject() *seqSubject[*deque.Deque[int], deque.Iterator[int]] {
	counting := alloc.NewCounting[int](nil)
	fresh := func(values ...int) *deque.Deque[int] {
		return deque.From(values, deque.WithAllocator[int](counting))
	}

	s := &seqSubject[*deque.Deque[int], deque.Iterator[int]]{
		kind:  "deque",
		c:     fresh(),
		fresh: fresh,
		check: (*deque.Deque[int]).Check,
		leak:  countingLeak[*deque.Deque[int]]("deque", counting),
	}

	s.extra = func(op Op) (string, bool) {
		switch op.Name {
		case opPushFront:
			s.c.PushFront(op.Value)

			return "", true
		case opPopFront:
			if s.c.Empty() {
				return resultEmpty, true
			}

			v := s.c.Front()
			s.c.PopFront()

			return itoa(v), true
		case opShrink:
			s.c.ShrinkToFit()

			return "", true
		}

		return randomAccessOps(s, op)
	}

	return s
}

func newVectorSubject() *seqSubject[*vector.Vector[int], vector.Iterator[int]] {
	counting := alloc.NewCounting[int](nil)
	fresh := func(values ...int) *vector.Vector[int] {
		return vector.From(values, vector.WithAllocator[int](counting))
	}

	s := &seqSubject[*vector.Vector[int], vector.Iterator[int]]{
		kind:  "vector",
		c:     fresh(),
		fresh: fresh,
		check: checkVector,
		leak:  countingLeak[*vector.Vector[int]]("vector", counting),
	}

	s.extra = func(op Op) (string, bool) {
		switch op.Name {
		case opReserve:
			s.c.Reserve(op.Pos % reserveCap)

			return "", true
		case opShrink:
			s.c.ShrinkToFit()

			return "", true
		}

		return randomAccessOps(s, op)
	}

	return s
}

func checkVector(v *vector.Vector[int]) error {
	if v.Len() > v.Cap() || len(v.Data()) != v.Len() {
		return fmt.Errorf("%w: vector len %d, cap %d, data %d", ErrCorrupt, v.Len(), v.Cap(), len(v.Data()))
	}

	return nil
}

// checkLinks walks a list both ways.
func checkLinks[S interface {
	Len() int
	All() iter.Seq[int]
	Backward() iter.Seq[int]
}](l S) error {
	forward := slices.Collect(l.All())
	backward := slices.Collect(l.Backward())
	slices.Reverse(backward)

	if len(forward) != l.Len() || !slices.Equal(forward, backward) {
		return fmt.Errorf("%w: %d elements forward, %d backward, len %d",
			ErrCorrupt, len(forward), len(backward), l.Len())
	}

	return nil
}

// mergeRun is the sorted run merged into a list by the merge op.
func mergeRun(op Op) []int {
	run := make([]int, op.Value%countSpan+1)
	for i := range run {
		run[i] = op.Key + i*(op.Value%rangeSpan)
	}

	return run
}

// linkedOps handles the list-only ops of both list kinds.
func linkedOps[S linked[S, I], I iterator.Cursor[I, int]](s *seqSubject[S, I]) func(Op) (string, bool) {
	return func(op Op) (string, bool) {
		c := s.c
		n := c.Len()

		switch op.Name {
		case opPushFront:
			c.PushFront(op.Value)
		case opPopFront:
			if n == 0 {
				return resultEmpty, true
			}

			v := c.Front()
			c.PopFront()

			return itoa(v), true
		case opReverse:
			c.Reverse()
		case opSort:
			c.Sort(functional.Less[int])
		case opUnique:
			return itoa(c.Unique(functional.Equal[int])), true
		case opRemove:
			return itoa(c.RemoveIf(func(v int) bool { return v == op.Key })), true
		case opMerge:
			other := s.fresh(mergeRun(op)...)
			c.Merge(other, functional.Less[int])
			other.Clear()
		case opSpliceFront:
			if i := reduce(op.Pos, max(n, 1)); i > 0 {
				c.SpliceOne(c.Begin(), c, s.at(i))
			}
		case opSpliceRange:
			if n > 0 {
				i := reduce(op.Pos, n)
				c.SpliceRange(c.End(), c, s.at(i), s.at(min(n, i+1+op.Value%rangeSpan)))
			}
		default:
			return "", false
		}

		return "", true
	}
}

func newListSubject() *seqSubject[*list.List[int], list.Iterator[int]] {
	counting := alloc.NewCounting[list.Node[int]](nil)
	fresh := func(values ...int) *list.List[int] {
		return list.From(values, list.WithAllocator[int](counting))
	}

	s := &seqSubject[*list.List[int], list.Iterator[int]]{
		kind:  "list",
		c:     fresh(),
		fresh: fresh,
		check: checkLinks[*list.List[int]],
		leak:  countingLeak[*list.List[int]]("list", counting),
	}
	s.extra = linkedOps(s)

	return s
}

func newXORListSubject() *seqSubject[*xorlist.List[int], xorlist.Iterator[int]] {
	counting := alloc.NewCounting[xorlist.Node[int]](nil)
	fresh := func(values ...int) *xorlist.List[int] {
		return xorlist.From(values, xorlist.WithAllocator[int](counting))
	}

	s := &seqSubject[*xorlist.List[int], xorlist.Iterator[int]]{
		kind:  "xorlist",
		c:     fresh(),
		fresh: fresh,
		check: checkLinks[*xorlist.List[int]],
		leak:  countingLeak[*xorlist.List[int]]("xorlist", counting),
	}
	s.extra = linkedOps(s)

	return s
}

// sliceModel is the oracle of every sequence kind.
type sliceModel struct {
	items []int
}

func (m *sliceModel) value(i int) string {
	if i >= len(m.items) {
		return resultEnd
	}

	return itoa(i) + ":" + itoa(m.items[i])
}

func (m *sliceModel) Apply(op Op) (string, error) {
	n := len(m.items)

	switch op.Name {
	case opPushBack:
		m.items = append(m.items, op.Value)
	case opPushFront:
		m.items = slices.Insert(m.items, 0, op.Value)
	case opPopBack, opPopFront:
		if n == 0 {
			return resultEmpty, nil
		}

		i := 0
		if op.Name == opPopBack {
			i = n - 1
		}

		v := m.items[i]
		m.items = slices.Delete(m.items, i, i+1)

		return itoa(v), nil
	case opInsert:
		i := reduce(op.Pos, n+1)
		m.items = slices.Insert(m.items, i, op.Value)

		return itoa(i), nil
	case opInsertN:
		i := reduce(op.Pos, n+1)
		m.items = slices.Insert(m.items, i, slices.Repeat([]int{op.Value}, op.Key%countSpan)...)

		return itoa(i), nil
	case opErase, opEraseRange:
		if n == 0 {
			return resultEmpty, nil
		}

		i, j := reduce(op.Pos, n), reduce(op.Pos, n)+1
		if op.Name == opEraseRange {
			j = min(n, i+op.Value%rangeSpan)
		}

		m.items = slices.Delete(m.items, i, j)

		return m.value(i), nil
	case opResize:
		m.items = resized(m.items, op.Pos%resizeSpan, op.Value)
	case opAssignN:
		m.items = slices.Repeat([]int{op.Value}, op.Pos%assignSpan)
	case opClear:
		m.items = nil
	case opClone:
		return boolString(true), nil
	case opSwap:
		return itoa(n), nil
	case opEqual:
		return boolString(slices.Equal(m.items, []int{op.Value})), nil
	case opLess:
		return boolString(slices.Compare(m.items, []int{op.Value}) < 0), nil
	case opAt:
		if i := reduce(op.Pos, n+atOverreach); i < n {
			return itoa(m.items[i]), nil
		}

		return resultRange, nil
	case opSet:
		if n == 0 {
			return resultEmpty, nil
		}

		m.items[reduce(op.Pos, n)] = op.Value
	case opShrink, opReserve:
	case opReverse:
		slices.Reverse(m.items)
	case opSort:
		slices.Sort(m.items)
	case opUnique:
		before := len(m.items)
		m.items = slices.Compact(m.items)

		return itoa(before - len(m.items)), nil
	case opRemove:
		before := len(m.items)
		m.items = slices.DeleteFunc(m.items, func(v int) bool { return v == op.Key })

		return itoa(before - len(m.items)), nil
	case opMerge:
		m.items = merged(m.items, mergeRun(op))
	case opSpliceFront:
		if i := reduce(op.Pos, max(n, 1)); i > 0 {
			v := m.items[i]
			m.items = slices.Insert(slices.Delete(m.items, i, i+1), 0, v)
		}
	case opSpliceRange:
		if n > 0 {
			i := reduce(op.Pos, n)
			j := min(n, i+1+op.Value%rangeSpan)
			moved := slices.Clone(m.items[i:j])
			m.items = append(slices.Delete(m.items, i, j), moved...)
		}
	default:
		return "", unknownOp("sequence model", op)
	}

	return "", nil
}

func resized(items []int, n, value int) []int {
	if n <= len(items) {
		return items[:n]
	}

	return append(items, slices.Repeat([]int{value}, n-len(items))...)
}

// merged inserts every element of run before the first element of items it
// is less than, scanning forward only.
func merged(items, run []int) []int {
	out := make([]int, 0, len(items)+len(run))
	i := 0

	for _, v := range run {
		for i < len(items) && v >= items[i] {
			out = append(out, items[i])
			i++
		}

		out = append(out, v)
	}

	return append(out, items[i:]...)
}

func (m *sliceModel) Len() int { return len(m.items) }

func (m *sliceModel) Dump() []string {
	out := make([]string, len(m.items))
	for i, v := range m.items {
		out[i] = itoa(v)
	}

	return out
}

func (m *sliceModel) Check() error { return nil }

func (m *sliceModel) Close() error { return nil }
