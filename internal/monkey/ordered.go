package monkey

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/iterator"
	"github.com/Sumatoshi-tech/containers/pkg/ordered"
	"github.com/Sumatoshi-tech/containers/pkg/rbtree"
)

func orderedOps(mapped bool) []Weighted {
	ops := []Weighted{
		{opInsert, 30},
		{opInsertHint, 10},
		{opInsertEnd, 4},
		{opEraseKey, 12},
		{opErasePos, 8},
		{opEraseRange, 3},
		{opFind, 8},
		{opCount, 4},
		{opLowerBound, 4},
		{opUpperBound, 4},
		{opClone, 2},
		{opSwap, 2},
		{opEqual, 2},
		{opLess, 2},
		{opClear, 1},
	}

	if mapped {
		ops = append(ops, Weighted{opAssign, 8}, Weighted{opIndexAdd, 6}, Weighted{opAt, 4})
	}

	return ops
}

func orderedKinds() []Kind {
	return []Kind{
		{
			Name: "set", Family: FamilyOrdered, Ops: orderedOps(false),
			Real:  func(Settings) Subject { return newSetSubject() },
			Model: func(Settings) Subject { return &sortedModel{} },
		},
		{
			Name: "multiset", Family: FamilyOrdered, Ops: orderedOps(false),
			Real:  func(Settings) Subject { return newMultiSetSubject() },
			Model: func(Settings) Subject { return &sortedModel{multi: true} },
		},
		{
			Name: "map", Family: FamilyOrdered, Ops: orderedOps(true),
			Real:  func(Settings) Subject { return newMapSubject() },
			Model: func(Settings) Subject { return &sortedModel{mapped: true} },
		},
		{
			Name: "multimap", Family: FamilyOrdered, Ops: orderedOps(true),
			Real:  func(Settings) Subject { return newMultiMapSubject() },
			Model: func(Settings) Subject { return &sortedModel{multi: true, mapped: true} },
		},
	}
}

// treeQueries runs the ops every ordered container forwards to its tree.
type treeQueries[V any] struct {
	kind     string
	tree     func() *rbtree.Tree[int, V]
	render   func(V) string
	counting *alloc.Counting[rbtree.Node[V]]
}

func (q treeQueries[V]) index(it rbtree.Iterator[int, V]) string {
	if it.IsEnd() {
		return resultEnd
	}

	return itoa(iterator.Distance(q.tree().Begin(), it))
}

func (q treeQueries[V]) value(it rbtree.Iterator[int, V]) string {
	if it.IsEnd() {
		return resultEnd
	}

	return q.render(it.Value())
}

// hint returns the element an upper-bound insertion of key attaches after,
// or End when it would become the first element.
func (q treeQueries[V]) hint(key int) rbtree.Iterator[int, V] {
	t := q.tree()

	ub := t.UpperBound(key)
	if ub.Equal(t.Begin()) {
		return t.End()
	}

	return ub.Prev()
}

func (q treeQueries[V]) apply(op Op) (string, bool) {
	t := q.tree()

	switch op.Name {
	case opEraseKey:
		return itoa(t.EraseKey(op.Key)), true
	case opErasePos:
		if t.Empty() {
			return resultEmpty, true
		}

		return q.value(t.Erase(iterator.Advance(t.Begin(), reduce(op.Pos, t.Len())))), true
	case opEraseRange:
		before := t.Len()
		t.EraseRange(t.LowerBound(op.Key), t.UpperBound(op.Key+op.Value%rangeSpan))

		return itoa(before - t.Len()), true
	case opFind:
		return q.index(t.Find(op.Key)), true
	case opCount:
		return itoa(t.Count(op.Key)), true
	case opLowerBound:
		return q.index(t.LowerBound(op.Key)), true
	case opUpperBound:
		return q.index(t.UpperBound(op.Key)), true
	case opClear:
		t.Clear()

		return "", true
	}

	return "", false
}

func (q treeQueries[V]) Len() int { return q.tree().Len() }

func (q treeQueries[V]) Dump() []string {
	out := make([]string, 0, q.tree().Len())
	for v := range q.tree().All() {
		out = append(out, q.render(v))
	}

	return out
}

func (q treeQueries[V]) Check() error { return q.tree().Check() }

func (q treeQueries[V]) Close() error {
	t := q.tree()
	t.Clear()

	if stats := t.Arena().Stats(); stats.Live != 0 {
		return fmt.Errorf("%w: %s arena holds %d nodes", ErrLeak, q.kind, stats.Live)
	}

	return checkBalanced(q.kind, q.counting)
}

type treeEntry = ordered.Entry[int, int]

func renderEntry(e treeEntry) string { return pair(e.First, e.Second) }

type setSubject struct {
	treeQueries[int]
	set   *ordered.Set[int]
	fresh func(values ...int) *ordered.Set[int]
}

func newSetSubject() *setSubject {
	counting := alloc.NewCounting[rbtree.Node[int]](nil)
	s := &setSubject{fresh: func(values ...int) *ordered.Set[int] {
		set := ordered.NewSet(functional.Less[int], rbtree.WithAllocator[int, int](counting))
		set.InsertRange(slices.Values(values))

		return set
	}}
	s.set = s.fresh()
	s.treeQueries = treeQueries[int]{
		kind:     "set",
		tree:     func() *rbtree.Tree[int, int] { return s.set.Tree() },
		render:   itoa,
		counting: counting,
	}

	return s
}

func (s *setSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		it, inserted := s.set.Insert(op.Key)

		return s.index(it) + " " + boolString(inserted), nil
	case opInsertHint:
		return s.index(s.set.InsertHint(s.hint(op.Key), op.Key)), nil
	case opInsertEnd:
		return s.index(s.set.InsertHint(s.set.End(), op.Key)), nil
	case opClone:
		clone := s.set.Clone()
		equal := clone.Equal(s.set)
		s.set.Clear()
		s.set = clone

		return boolString(equal), nil
	case opSwap:
		other := s.fresh()
		other.Swap(s.set)
		n := other.Len()
		s.set.Swap(other)

		return itoa(n), nil
	case opEqual, opLess:
		single := s.fresh(op.Key)
		defer single.Clear()

		if op.Name == opEqual {
			return boolString(s.set.Equal(single)), nil
		}

		return boolString(s.set.Less(single)), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("set", op)
}

type multiSetSubject struct {
	treeQueries[int]
	set   *ordered.MultiSet[int]
	fresh func(values ...int) *ordered.MultiSet[int]
}

func newMultiSetSubject() *multiSetSubject {
	counting := alloc.NewCounting[rbtree.Node[int]](nil)
	s := &multiSetSubject{fresh: func(values ...int) *ordered.MultiSet[int] {
		set := ordered.NewMultiSet(functional.Less[int], rbtree.WithAllocator[int, int](counting))
		set.InsertRange(slices.Values(values))

		return set
	}}
	s.set = s.fresh()
	s.treeQueries = treeQueries[int]{
		kind:     "multiset",
		tree:     func() *rbtree.Tree[int, int] { return s.set.Tree() },
		render:   itoa,
		counting: counting,
	}

	return s
}

func (s *multiSetSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		return s.index(s.set.Insert(op.Key)), nil
	case opInsertHint:
		return s.index(s.set.InsertHint(s.hint(op.Key), op.Key)), nil
	case opInsertEnd:
		return s.index(s.set.InsertHint(s.set.End(), op.Key)), nil
	case opClone:
		clone := s.set.Clone()
		equal := clone.Equal(s.set)
		s.set.Clear()
		s.set = clone

		return boolString(equal), nil
	case opSwap:
		other := s.fresh()
		other.Swap(s.set)
		n := other.Len()
		s.set.Swap(other)

		return itoa(n), nil
	case opEqual, opLess:
		single := s.fresh(op.Key)
		defer single.Clear()

		if op.Name == opEqual {
			return boolString(s.set.Equal(single)), nil
		}

		return boolString(s.set.Less(single)), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("multiset", op)
}

type mapSubject struct {
	treeQueries[treeEntry]
	m     *ordered.Map[int, int]
	fresh func() *ordered.Map[int, int]
}

func newMapSubject() *mapSubject {
	counting := alloc.NewCounting[rbtree.Node[treeEntry]](nil)
	s := &mapSubject{fresh: func() *ordered.Map[int, int] {
		return ordered.NewMap[int, int](functional.Less[int], rbtree.WithAllocator[int, treeEntry](counting))
	}}
	s.m = s.fresh()
	s.treeQueries = treeQueries[treeEntry]{
		kind:     "map",
		tree:     func() *rbtree.Tree[int, treeEntry] { return s.m.Tree() },
		render:   renderEntry,
		counting: counting,
	}

	return s
}

func (s *mapSubject) single(key, value int) *ordered.Map[int, int] {
	m := s.fresh()
	m.Insert(key, value)

	return m
}

func (s *mapSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		it, inserted := s.m.Insert(op.Key, op.Value)

		return s.index(it) + " " + boolString(inserted), nil
	case opInsertHint:
		return s.index(s.m.InsertHint(s.hint(op.Key), op.Key, op.Value)), nil
	case opInsertEnd:
		return s.index(s.m.InsertHint(s.m.End(), op.Key, op.Value)), nil
	case opAssign:
		it, inserted := s.m.InsertOrAssign(op.Key, op.Value)

		return s.index(it) + " " + boolString(inserted), nil
	case opIndexAdd:
		slot := s.m.Index(op.Key)
		*slot += op.Value

		return itoa(*slot), nil
	case opAt:
		v, err := s.m.At(op.Key)
		if err != nil {
			return resultRange, nil //nolint:nilerr // a missing key is an observable result.
		}

		return itoa(v), nil
	case opClone:
		clone := s.m.Clone()
		equal := clone.Equal(s.m, functional.Equal[int])
		s.m.Clear()
		s.m = clone

		return boolString(equal), nil
	case opSwap:
		other := s.fresh()
		other.Swap(s.m)
		n := other.Len()
		s.m.Swap(other)

		return itoa(n), nil
	case opEqual, opLess:
		single := s.single(op.Key, op.Value)
		defer single.Clear()

		if op.Name == opEqual {
			return boolString(s.m.Equal(single, functional.Equal[int])), nil
		}

		return boolString(s.m.Less(single, functional.Less[int])), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("map", op)
}

type multiMapSubject struct {
	treeQueries[treeEntry]
	m     *ordered.MultiMap[int, int]
	fresh func() *ordered.MultiMap[int, int]
}

func newMultiMapSubject() *multiMapSubject {
	counting := alloc.NewCounting[rbtree.Node[treeEntry]](nil)
	s := &multiMapSubject{fresh: func() *ordered.MultiMap[int, int] {
		return ordered.NewMultiMap[int, int](functional.Less[int], rbtree.WithAllocator[int, treeEntry](counting))
	}}
	s.m = s.fresh()
	s.treeQueries = treeQueries[treeEntry]{
		kind:     "multimap",
		tree:     func() *rbtree.Tree[int, treeEntry] { return s.m.Tree() },
		render:   renderEntry,
		counting: counting,
	}

	return s
}

func (s *multiMapSubject) single(key, value int) *ordered.MultiMap[int, int] {
	m := s.fresh()
	m.Insert(key, value)

	return m
}

func (s *multiMapSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert, opAssign:
		return s.index(s.m.Insert(op.Key, op.Value)), nil
	case opInsertHint:
		return s.index(s.m.InsertHint(s.hint(op.Key), op.Key, op.Value)), nil
	case opInsertEnd:
		return s.index(s.m.InsertHint(s.m.End(), op.Key, op.Value)), nil
	case opIndexAdd, opAt:
		first, last := s.m.EqualRange(op.Key)
		if first.Equal(last) {
			return resultRange, nil
		}

		return itoa(last.Prev().Value().Second), nil
	case opClone:
		clone := s.m.Clone()
		equal := clone.Equal(s.m, functional.Equal[int])
		s.m.Clear()
		s.m = clone

		return boolString(equal), nil
	case opSwap:
		other := s.fresh()
		other.Swap(s.m)
		n := other.Len()
		s.m.Swap(other)

		return itoa(n), nil
	case opEqual, opLess:
		single := s.single(op.Key, op.Value)
		defer single.Clear()

		if op.Name == opEqual {
			return boolString(s.m.Equal(single, functional.Equal[int])), nil
		}

		return boolString(s.m.Less(single, functional.Less[int])), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("multimap", op)
}

// entry is one model element. Sets keep value equal to key.
type entry struct {
	key, value int
}

func compareEntries(a, b entry) int {
	if a.key != b.key {
		return a.key - b.key
	}

	return a.value - b.value
}

// sortedModel is the ordered container oracle: a slice kept sorted by key
// with equal keys in insertion order.
type sortedModel struct {
	items  []entry
	multi  bool
	mapped bool
}

func (m *sortedModel) lowerBound(key int) int {
	return sort.Search(len(m.items), func(i int) bool { return m.items[i].key >= key })
}

func (m *sortedModel) upperBound(key int) int {
	return sort.Search(len(m.items), func(i int) bool { return m.items[i].key > key })
}

func (m *sortedModel) render(e entry) string {
	if m.mapped {
		return pair(e.key, e.value)
	}

	return itoa(e.key)
}

func (m *sortedModel) index(i int) string {
	if i == len(m.items) {
		return resultEnd
	}

	return itoa(i)
}

func (m *sortedModel) element(op Op) entry {
	if m.mapped {
		return entry{op.Key, op.Value}
	}

	return entry{op.Key, op.Key}
}

// insert returns the position of the element with the key and whether a
// new one was added.
func (m *sortedModel) insert(e entry) (int, bool) {
	if m.multi {
		i := m.upperBound(e.key)
		m.items = slices.Insert(m.items, i, e)

		return i, true
	}

	i := m.lowerBound(e.key)
	if i < len(m.items) && m.items[i].key == e.key {
		return i, false
	}

	m.items = slices.Insert(m.items, i, e)

	return i, true
}

func (m *sortedModel) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		i, inserted := m.insert(m.element(op))
		if m.multi {
			return itoa(i), nil
		}

		return itoa(i) + " " + boolString(inserted), nil
	case opInsertHint, opInsertEnd:
		i, _ := m.insert(m.element(op))

		return itoa(i), nil
	case opAssign:
		i, inserted := m.insert(m.element(op))
		if m.multi {
			return itoa(i), nil
		}

		m.items[i].value = op.Value

		return itoa(i) + " " + boolString(inserted), nil
	case opIndexAdd:
		if m.multi {
			return m.lastValue(op.Key), nil
		}

		i, _ := m.insert(entry{op.Key, 0})
		m.items[i].value += op.Value

		return itoa(m.items[i].value), nil
	case opAt:
		return m.lastValue(op.Key), nil
	case opEraseKey:
		lo, hi := m.lowerBound(op.Key), m.upperBound(op.Key)
		m.items = slices.Delete(m.items, lo, hi)

		return itoa(hi - lo), nil
	case opErasePos:
		if len(m.items) == 0 {
			return resultEmpty, nil
		}

		i := reduce(op.Pos, len(m.items))
		m.items = slices.Delete(m.items, i, i+1)

		if i == len(m.items) {
			return resultEnd, nil
		}

		return m.render(m.items[i]), nil
	case opEraseRange:
		lo, hi := m.lowerBound(op.Key), m.upperBound(op.Key+op.Value%rangeSpan)
		m.items = slices.Delete(m.items, lo, hi)

		return itoa(hi - lo), nil
	case opFind:
		i := m.lowerBound(op.Key)
		if i == len(m.items) || m.items[i].key != op.Key {
			return resultEnd, nil
		}

		return itoa(i), nil
	case opCount:
		return itoa(m.upperBound(op.Key) - m.lowerBound(op.Key)), nil
	case opLowerBound:
		return m.index(m.lowerBound(op.Key)), nil
	case opUpperBound:
		return m.index(m.upperBound(op.Key)), nil
	case opClear:
		m.items = nil

		return "", nil
	case opClone:
		return boolString(true), nil
	case opSwap:
		return itoa(len(m.items)), nil
	case opEqual:
		return boolString(slices.Equal(m.items, []entry{m.element(op)})), nil
	case opLess:
		return boolString(slices.CompareFunc(m.items, []entry{m.element(op)}, compareEntries) < 0), nil
	}

	return "", unknownOp("ordered model", op)
}

// lastValue is what the multimap reports for index_add and at: the value of
// the last entry with the key. Unique maps have a single one.
func (m *sortedModel) lastValue(key int) string {
	lo, hi := m.lowerBound(key), m.upperBound(key)
	if lo == hi {
		return resultRange
	}

	return itoa(m.items[hi-1].value)
}

func (m *sortedModel) Len() int { return len(m.items) }

func (m *sortedModel) Dump() []string {
	out := make([]string, len(m.items))
	for i, e := range m.items {
		out[i] = m.render(e)
	}

	return out
}

func (m *sortedModel) Check() error { return nil }

func (m *sortedModel) Close() error { return nil }
