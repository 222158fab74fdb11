package monkey

import (
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/deque"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
	"github.com/Sumatoshi-tech/containers/pkg/heap"
	"github.com/Sumatoshi-tech/containers/pkg/queue"
	"github.com/Sumatoshi-tech/containers/pkg/stack"
	"github.com/Sumatoshi-tech/containers/pkg/vector"
)

// adapterOrder is the pop discipline of an adapter.
type adapterOrder int

const (
	orderFIFO adapterOrder = iota
	orderLIFO
	orderMax
)

func adapterKinds() []Kind {
	return []Kind{
		{
			Name: "queue", Family: FamilyAdapter,
			Ops:   []Weighted{{opPush, 40}, {opPop, 30}, {opFront, 10}, {opBack, 10}, {opSwap, 2}},
			Real:  func(Settings) Subject { return newQueueSubject() },
			Model: func(Settings) Subject { return &adapterModel{order: orderFIFO} },
		},
		{
			Name: "stack", Family: FamilyAdapter,
			Ops:   []Weighted{{opPush, 40}, {opPop, 30}, {opTop, 15}, {opSwap, 2}},
			Real:  func(Settings) Subject { return newStackSubject() },
			Model: func(Settings) Subject { return &adapterModel{order: orderLIFO} },
		},
		{
			Name: "priority_queue", Family: FamilyAdapter,
			Ops:   []Weighted{{opPush, 40}, {opPop, 30}, {opTop, 15}, {opSwap, 2}},
			Real:  func(Settings) Subject { return newPrioritySubject() },
			Model: func(Settings) Subject { return &adapterModel{order: orderMax} },
		},
	}
}

type queueSubject struct {
	q        *queue.Queue[int]
	seq      *deque.Deque[int]
	counting *alloc.Counting[int]
}

func newQueueSubject() *queueSubject {
	counting := alloc.NewCounting[int](nil)
	seq := deque.New(deque.WithAllocator[int](counting))

	return &queueSubject{
		q:        queue.New(queue.WithSequence[int](seq)),
		seq:      seq,
		counting: counting,
	}
}

func (s *queueSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opPush:
		s.q.Push(op.Value)

		return "", nil
	case opPop, opFront, opBack:
		if s.q.Empty() {
			return resultEmpty, nil
		}

		switch op.Name {
		case opPop:
			return itoa(s.q.Pop()), nil
		case opFront:
			return itoa(s.q.Front()), nil
		}

		return itoa(s.q.Back()), nil
	case opSwap:
		other := queue.New(queue.WithSequence[int](deque.New(deque.WithAllocator[int](s.counting))))
		other.Swap(s.q)
		n := other.Len()
		s.q.Swap(other)

		return itoa(n), nil
	}

	return "", unknownOp("queue", op)
}

func (s *queueSubject) Len() int { return s.q.Len() }

func (s *queueSubject) Dump() []string { return dumpInts(s.seq.Slice()) }

func (s *queueSubject) Check() error { return s.seq.Check() }

func (s *queueSubject) Close() error {
	s.seq.Clear()

	return checkBalanced("queue", s.counting)
}

type stackSubject struct {
	st       *stack.Stack[int]
	seq      *vector.Vector[int]
	counting *alloc.Counting[int]
}

func newStackSubject() *stackSubject {
	counting := alloc.NewCounting[int](nil)
	seq := vector.New(vector.WithAllocator[int](counting))

	return &stackSubject{
		st:       stack.New(stack.WithSequence[int](seq)),
		seq:      seq,
		counting: counting,
	}
}

func (s *stackSubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opPush:
		s.st.Push(op.Value)

		return "", nil
	case opPop, opTop:
		if s.st.Empty() {
			return resultEmpty, nil
		}

		if op.Name == opTop {
			return itoa(s.st.Top()), nil
		}

		return itoa(s.st.Pop()), nil
	case opSwap:
		other := stack.New(stack.WithSequence[int](vector.New(vector.WithAllocator[int](s.counting))))
		other.Swap(s.st)
		n := other.Len()
		s.st.Swap(other)

		return itoa(n), nil
	}

	return "", unknownOp("stack", op)
}

func (s *stackSubject) Len() int { return s.st.Len() }

func (s *stackSubject) Dump() []string { return dumpInts(s.seq.Data()) }

func (s *stackSubject) Check() error { return checkVector(s.seq) }

func (s *stackSubject) Close() error {
	s.seq.Clear()

	return checkBalanced("stack", s.counting)
}

type prioritySubject struct {
	pq       *queue.PriorityQueue[int]
	seq      *vector.Vector[int]
	counting *alloc.Counting[int]
}

func newPrioritySubject() *prioritySubject {
	counting := alloc.NewCounting[int](nil)
	seq := vector.New(vector.WithAllocator[int](counting))

	return &prioritySubject{
		pq:       queue.NewPriority(functional.Less[int], queue.WithContainer[int](seq)),
		seq:      seq,
		counting: counting,
	}
}

func (s *prioritySubject) Apply(op Op) (string, error) {
	switch op.Name {
	case opPush:
		s.pq.Push(op.Value)

		return "", nil
	case opPop, opTop:
		if s.pq.Empty() {
			return resultEmpty, nil
		}

		if op.Name == opTop {
			return itoa(s.pq.Top()), nil
		}

		return itoa(s.pq.Pop()), nil
	case opSwap:
		other := queue.NewPriority(functional.Less[int],
			queue.WithContainer[int](vector.New(vector.WithAllocator[int](s.counting))))
		other.Swap(s.pq)
		n := other.Len()
		s.pq.Swap(other)

		return itoa(n), nil
	}

	return "", unknownOp("priority_queue", op)
}

func (s *prioritySubject) Len() int { return s.pq.Len() }

// Dump lists the heap sorted; the heap layout itself is not observable.
func (s *prioritySubject) Dump() []string { return dumpInts(slices.Sorted(slices.Values(s.seq.Data()))) }

func (s *prioritySubject) Check() error {
	if i := heap.IsHeapUntil(s.seq, functional.Less[int]); i != s.seq.Len() {
		return fmt.Errorf("%w: heap order broken at %d of %d", ErrCorrupt, i, s.seq.Len())
	}

	return checkVector(s.seq)
}

func (s *prioritySubject) Close() error {
	s.seq.Clear()

	return checkBalanced("priority_queue", s.counting)
}

// adapterModel is the oracle of the three adapters.
type adapterModel struct {
	items []int
	order adapterOrder
}

func (m *adapterModel) top() int {
	switch m.order {
	case orderFIFO:
		return 0
	case orderLIFO:
		return len(m.items) - 1
	}

	best := 0
	for i, v := range m.items {
		if v > m.items[best] {
			best = i
		}
	}

	return best
}

func (m *adapterModel) Apply(op Op) (string, error) {
	switch op.Name {
	case opPush:
		m.items = append(m.items, op.Value)

		return "", nil
	case opPop, opTop, opFront, opBack:
		if len(m.items) == 0 {
			return resultEmpty, nil
		}

		i := m.top()
		if op.Name == opBack {
			i = len(m.items) - 1
		}

		v := m.items[i]
		if op.Name == opPop {
			m.items = slices.Delete(m.items, i, i+1)
		}

		return itoa(v), nil
	case opSwap:
		return itoa(len(m.items)), nil
	}

	return "", unknownOp("adapter model", op)
}

func (m *adapterModel) Len() int { return len(m.items) }

func (m *adapterModel) Dump() []string {
	if m.order == orderMax {
		return dumpInts(slices.Sorted(slices.Values(m.items)))
	}

	return dumpInts(m.items)
}

func (m *adapterModel) Check() error { return nil }

func (m *adapterModel) Close() error { return nil }

func dumpInts(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = itoa(v)
	}

	return out
}
