package monkey

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/hashtable"
	"github.com/Sumatoshi-tech/containers/pkg/unordered"
)

const (
	rehashSpan     = 64
	reserveSpan    = 128
	loadFactorStep = 0.25
	loadFactorMin  = 0.5
	loadFactorLvls = 8
)

type mapEntry = unordered.Entry[int, int]

func unorderedOps(mapped bool) []Weighted {
	ops := []Weighted{
		{opInsert, 30},
		{opInsertHint, 10},
		{opEraseKey, 10},
		{opEraseFind, 8},
		{opFind, 8},
		{opCount, 6},
		{opBucket, 3},
		{opRehash, 2},
		{opReserve, 2},
		{opLoadFactor, 1},
		{opClone, 2},
		{opSwap, 2},
		{opEqual, 2},
		{opClear, 1},
	}

	if mapped {
		ops = append(ops, Weighted{opAssign, 8}, Weighted{opIndexAdd, 6}, Weighted{opAt, 4})
	}

	return ops
}

func unorderedKinds() []Kind {
	return []Kind{
		{
			Name: "unordered_set", Family: FamilyUnordered, Ops: unorderedOps(false),
			Real:  func(s Settings) Subject { return newHashSetSubject(s) },
			Model: func(Settings) Subject { return newHashModel(false, false) },
		},
		{
			Name: "unordered_multiset", Family: FamilyUnordered, Ops: unorderedOps(false),
			Real:  func(s Settings) Subject { return newHashMultiSetSubject(s) },
			Model: func(Settings) Subject { return newHashModel(true, false) },
		},
		{
			Name: "unordered_map", Family: FamilyUnordered, Ops: unorderedOps(true),
			Real:  func(s Settings) Subject { return newHashMapSubject(s) },
			Model: func(Settings) Subject { return newHashModel(false, true) },
		},
		{
			Name: "unordered_multimap", Family: FamilyUnordered, Ops: unorderedOps(true),
			Real:  func(s Settings) Subject { return newHashMultiMapSubject(s) },
			Model: func(Settings) Subject { return newHashModel(true, true) },
		},
	}
}

// tableQueries runs the ops every unordered container forwards to its table.
type tableQueries[V any] struct {
	kind     string
	table    func() *hashtable.Table[int, V]
	keyOf    func(V) int
	entry    func(V) entry
	counting *alloc.Counting[hashtable.Node[V]]
}

func (q tableQueries[V]) render(it hashtable.Iterator[int, V]) string {
	if it.IsEnd() {
		return resultEnd
	}

	e := q.entry(it.Value())

	return pair(e.key, e.value)
}

func (q tableQueries[V]) apply(op Op) (string, bool) {
	t := q.table()

	switch op.Name {
	case opEraseKey:
		return itoa(t.EraseKey(op.Key)), true
	case opEraseFind:
		it := t.Find(op.Key)
		if it.IsEnd() {
			return resultEnd, true
		}

		erased := q.render(it)
		t.Erase(it)

		return erased, true
	case opFind:
		return q.render(t.Find(op.Key)), true
	case opCount:
		return itoa(t.Count(op.Key)), true
	case opBucket:
		b := t.Bucket(op.Key)
		count := 0

		for v := range t.BucketValues(b) {
			if q.keyOf(v) == op.Key {
				count++
			}
		}

		if count > t.BucketSize(b) {
			return fmt.Sprintf("bucket %d holds %d of %d", b, count, t.BucketSize(b)), true
		}

		return itoa(count), true
	case opRehash:
		t.Rehash(op.Pos % rehashSpan)

		return "", true
	case opReserve:
		t.Reserve(op.Pos % reserveSpan)

		return "", true
	case opLoadFactor:
		t.SetMaxLoadFactor(loadFactorMin + float64(op.Pos%loadFactorLvls)*loadFactorStep)

		return "", true
	case opClear:
		t.Clear()

		return "", true
	}

	return "", false
}

func (q tableQueries[V]) Len() int { return q.table().Len() }

// Dump lists the elements sorted by key. Equal-key runs keep their chain
// order, which is deterministic even though bucket order is not.
func (q tableQueries[V]) Dump() []string {
	entries := make([]entry, 0, q.table().Len())
	for v := range q.table().All() {
		entries = append(entries, q.entry(v))
	}

	slices.SortStableFunc(entries, func(a, b entry) int { return a.key - b.key })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = pair(e.key, e.value)
	}

	return out
}

func (q tableQueries[V]) Check() error { return q.table().Check() }

func (q tableQueries[V]) Close() error {
	t := q.table()
	t.Clear()

	if stats := t.Arena().Stats(); stats.Live != 0 {
		return fmt.Errorf("%w: %s arena holds %d nodes", ErrLeak, q.kind, stats.Live)
	}

	return checkBalanced(q.kind, q.counting)
}

// tableOptions configures every table of one subject to share counting.
func tableOptions[V any](settings Settings, counting *alloc.Counting[hashtable.Node[V]]) []unordered.Option[int, V] {
	return []unordered.Option[int, V]{
		hashtable.WithMaxLoadFactor[int, V](settings.MaxLoadFactor),
		hashtable.WithAllocator[int, V](counting),
	}
}

func setQueries(
	kind string, table func() *hashtable.Table[int, int], counting *alloc.Counting[hashtable.Node[int]],
) tableQueries[int] {
	return tableQueries[int]{
		kind:     kind,
		table:    table,
		keyOf:    functional.Identity[int],
		entry:    func(v int) entry { return entry{v, v} },
		counting: counting,
	}
}

func mapQueries(
	kind string, table func() *hashtable.Table[int, mapEntry], counting *alloc.Counting[hashtable.Node[mapEntry]],
) tableQueries[mapEntry] {
	return tableQueries[mapEntry]{
		kind:     kind,
		table:    table,
		keyOf:    functional.Select1st[int, int],
		entry:    func(e mapEntry) entry { return entry{e.First, e.Second} },
		counting: counting,
	}
}

type hashSetSubject struct {
	tableQueries[int]
	set   *unordered.Set[int]
	fresh func() *unordered.Set[int]
}

func newHashSetSubject(settings Settings) *hashSetSubject {
	counting := alloc.NewCounting[hashtable.Node[int]](nil)
	opts := tableOptions(settings, counting)
	s := &hashSetSubject{fresh: func() *unordered.Set[int] {
		return unordered.NewSet(functional.Hash[int](), functional.Equal[int], opts...)
	}}
	s.set = s.fresh()
	s.tableQueries = setQueries("unordered_set", func() *hashtable.Table[int, int] { return s.set.Table() }, counting)

	return s
}

func (s *hashSetSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		it, inserted := s.set.Insert(op.Key)

		return s.render(it) + " " + boolString(inserted), nil
	case opInsertHint:
		return s.render(s.set.InsertHint(s.set.Find(op.Key), op.Key)), nil
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
	case opEqual:
		single := s.fresh()
		defer single.Clear()
		single.Insert(op.Key)

		return boolString(s.set.Equal(single)), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("unordered_set", op)
}

type hashMultiSetSubject struct {
	tableQueries[int]
	set   *unordered.MultiSet[int]
	fresh func() *unordered.MultiSet[int]
}

func newHashMultiSetSubject(settings Settings) *hashMultiSetSubject {
	counting := alloc.NewCounting[hashtable.Node[int]](nil)
	opts := tableOptions(settings, counting)
	s := &hashMultiSetSubject{fresh: func() *unordered.MultiSet[int] {
		return unordered.NewMultiSet(functional.Hash[int](), functional.Equal[int], opts...)
	}}
	s.set = s.fresh()
	s.tableQueries = setQueries("unordered_multiset", func() *hashtable.Table[int, int] { return s.set.Table() }, counting)

	return s
}

func (s *hashMultiSetSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		return s.render(s.set.Insert(op.Key)), nil
	case opInsertHint:
		return s.render(s.set.InsertHint(s.set.Find(op.Key), op.Key)), nil
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
	case opEqual:
		single := s.fresh()
		defer single.Clear()
		single.Insert(op.Key)

		return boolString(s.set.Equal(single)), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("unordered_multiset", op)
}

type hashMapSubject struct {
	tableQueries[mapEntry]
	m     *unordered.Map[int, int]
	fresh func() *unordered.Map[int, int]
}

func newHashMapSubject(settings Settings) *hashMapSubject {
	counting := alloc.NewCounting[hashtable.Node[mapEntry]](nil)
	opts := tableOptions(settings, counting)
	s := &hashMapSubject{fresh: func() *unordered.Map[int, int] {
		return unordered.NewMap[int, int](functional.Hash[int](), functional.Equal[int], opts...)
	}}
	s.m = s.fresh()
	s.tableQueries = mapQueries("unordered_map", func() *hashtable.Table[int, mapEntry] { return s.m.Table() }, counting)

	return s
}

func (s *hashMapSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		it, inserted := s.m.Insert(op.Key, op.Value)

		return s.render(it) + " " + boolString(inserted), nil
	case opInsertHint:
		return s.render(s.m.InsertHint(s.m.Find(op.Key), op.Key, op.Value)), nil
	case opAssign:
		it, inserted := s.m.InsertOrAssign(op.Key, op.Value)

		return s.render(it) + " " + boolString(inserted), nil
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
	case opEqual:
		single := s.fresh()
		defer single.Clear()
		single.Insert(op.Key, op.Value)

		return boolString(s.m.Equal(single, functional.Equal[int])), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("unordered_map", op)
}

type hashMultiMapSubject struct {
	tableQueries[mapEntry]
	m     *unordered.MultiMap[int, int]
	fresh func() *unordered.MultiMap[int, int]
}

func newHashMultiMapSubject(settings Settings) *hashMultiMapSubject {
	counting := alloc.NewCounting[hashtable.Node[mapEntry]](nil)
	opts := tableOptions(settings, counting)
	s := &hashMultiMapSubject{fresh: func() *unordered.MultiMap[int, int] {
		return unordered.NewMultiMap[int, int](functional.Hash[int](), functional.Equal[int], opts...)
	}}
	s.m = s.fresh()
	s.tableQueries = mapQueries(
		"unordered_multimap", func() *hashtable.Table[int, mapEntry] { return s.m.Table() }, counting)

	return s
}

func (s *hashMultiMapSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert, opAssign:
		return s.render(s.m.Insert(op.Key, op.Value)), nil
	case opInsertHint:
		return s.render(s.m.InsertHint(s.m.Find(op.Key), op.Key, op.Value)), nil
	case opIndexAdd, opAt:
		it := s.m.Find(op.Key)
		if it.IsEnd() {
			return resultRange, nil
		}

		return itoa(it.Value().Second), nil
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
	case opEqual:
		single := s.fresh()
		defer single.Clear()
		single.Insert(op.Key, op.Value)

		return boolString(s.m.Equal(single, functional.Equal[int])), nil
	}

	if result, ok := s.apply(op); ok {
		return result, nil
	}

	return "", unknownOp("unordered_multimap", op)
}

// hashModel is the unordered container oracle: every key maps to its run of
// values in chain order. A plain insert goes in front of the run, a hinted
// one right after the run head.
type hashModel struct {
	runs   map[int][]int
	size   int
	multi  bool
	mapped bool
}

func newHashModel(multi, mapped bool) *hashModel {
	return &hashModel{runs: map[int][]int{}, multi: multi, mapped: mapped}
}

func (m *hashModel) value(op Op) int {
	if m.mapped {
		return op.Value
	}

	return op.Key
}

func (m *hashModel) head(key int) string {
	run := m.runs[key]
	if len(run) == 0 {
		return resultEnd
	}

	return pair(key, run[0])
}

// insert adds v at position at of the run, returning false when a unique
// container already holds the key.
func (m *hashModel) insert(key, v, at int) bool {
	run := m.runs[key]
	if len(run) > 0 && !m.multi {
		return false
	}

	m.runs[key] = slices.Insert(run, min(at, len(run)), v)
	m.size++

	return true
}

func (m *hashModel) Apply(op Op) (string, error) {
	switch op.Name {
	case opInsert:
		inserted := m.insert(op.Key, m.value(op), 0)
		if m.multi {
			return pair(op.Key, m.value(op)), nil
		}

		return m.head(op.Key) + " " + boolString(inserted), nil
	case opInsertHint:
		m.insert(op.Key, m.value(op), 1)
		if m.multi {
			return pair(op.Key, m.value(op)), nil
		}

		return m.head(op.Key), nil
	case opAssign:
		if m.multi {
			m.insert(op.Key, op.Value, 0)

			return pair(op.Key, op.Value), nil
		}

		inserted := m.insert(op.Key, op.Value, 0)
		m.runs[op.Key][0] = op.Value

		return pair(op.Key, op.Value) + " " + boolString(inserted), nil
	case opIndexAdd:
		if m.multi {
			return m.first(op.Key), nil
		}

		m.insert(op.Key, 0, 0)
		m.runs[op.Key][0] += op.Value

		return itoa(m.runs[op.Key][0]), nil
	case opAt:
		return m.first(op.Key), nil
	case opEraseKey:
		n := len(m.runs[op.Key])
		delete(m.runs, op.Key)
		m.size -= n

		return itoa(n), nil
	case opEraseFind:
		erased := m.head(op.Key)
		if run := m.runs[op.Key]; len(run) > 0 {
			m.drop(op.Key, run[1:])
		}

		return erased, nil
	case opFind:
		return m.head(op.Key), nil
	case opCount, opBucket:
		return itoa(len(m.runs[op.Key])), nil
	case opRehash, opReserve, opLoadFactor:
		return "", nil
	case opClear:
		clear(m.runs)
		m.size = 0

		return "", nil
	case opClone:
		return boolString(true), nil
	case opSwap:
		return itoa(m.size), nil
	case opEqual:
		run := m.runs[op.Key]

		return boolString(m.size == 1 && len(run) == 1 && run[0] == m.value(op)), nil
	}

	return "", unknownOp("unordered model", op)
}

func (m *hashModel) first(key int) string {
	run := m.runs[key]
	if len(run) == 0 {
		return resultRange
	}

	return itoa(run[0])
}

func (m *hashModel) drop(key int, rest []int) {
	m.size--

	if len(rest) == 0 {
		delete(m.runs, key)

		return
	}

	m.runs[key] = rest
}

func (m *hashModel) Len() int { return m.size }

func (m *hashModel) Dump() []string {
	keys := make([]int, 0, len(m.runs))
	for k := range m.runs {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	out := make([]string, 0, m.size)
	for _, k := range keys {
		for _, v := range m.runs[k] {
			out = append(out, pair(k, v))
		}
	}

	return out
}

func (m *hashModel) Check() error { return nil }

func (m *hashModel) Close() error { return nil }
