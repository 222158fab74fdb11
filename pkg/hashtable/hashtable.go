// Package hashtable implements the separately chained hash table behind the
// unordered containers.
//
// Buckets hold the arena index of their chain head; nodes link forward by
// index and cache the full hash of their key, so rehashing never calls the
// hash function again. Nodes never move, which keeps iterators valid across
// a rehash. Iteration order is bucket order, then chain order.
//
// In multi mode elements with equal keys always form one contiguous run of
// a chain. A plain insert puts the new element in front of its run; a hinted
// insert puts it right after the hint.
package hashtable

import (
	"errors"
	"iter"
	"math"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// ErrInvariant is wrapped by every error Check reports.
var ErrInvariant = errors.New("hash table invariant violated")

const (
	defaultBucketCount   = 1
	defaultMaxLoadFactor = 1.0
)

// Node is the storage unit of a table. Its fields are private.
type Node[V any] struct {
	value V
	hash  uint64
	next  uint32
}

// Table is a hash table of values of type V keyed by K.
type Table[K, V any] struct {
	nodes   *alloc.Arena[Node[V]]
	buckets []uint32

	hash  functional.HashFunc[K]
	equal functional.EqualFunc[K]
	keyOf functional.KeyFunc[V, K]

	maxLoadFactor float64
	count         int

	// firstBucket is never past the first non-empty bucket. Erase leaves it
	// behind and Begin moves it forward.
	firstBucket int
	multi       bool
}

// Option configures a Table.
type Option[K, V any] func(*Table[K, V])

// WithMulti allows duplicate keys.
func WithMulti[K, V any]() Option[K, V] {
	return func(t *Table[K, V]) {
		t.multi = true
	}
}

// WithBucketCount sets the initial number of buckets.
func WithBucketCount[K, V any](n int) Option[K, V] {
	return func(t *Table[K, V]) {
		t.buckets = make([]uint32, max(n, 1))
	}
}

// WithMaxLoadFactor sets the maximum average chain length.
func WithMaxLoadFactor[K, V any](f float64) Option[K, V] {
	return func(t *Table[K, V]) {
		if f > 0 {
			t.maxLoadFactor = f
		}
	}
}

// WithAllocator makes the node arena draw its storage from a.
func WithAllocator[K, V any](a alloc.Allocator[Node[V]]) Option[K, V] {
	return func(t *Table[K, V]) {
		t.nodes = alloc.NewArena(a)
	}
}

// New creates an empty table.
func New[K, V any](
	hash functional.HashFunc[K],
	equal functional.EqualFunc[K],
	keyOf functional.KeyFunc[V, K],
	opts ...Option[K, V],
) *Table[K, V] {
	t := &Table[K, V]{
		hash:          hash,
		equal:         equal,
		keyOf:         keyOf,
		maxLoadFactor: defaultMaxLoadFactor,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.nodes == nil {
		t.nodes = alloc.NewArena[Node[V]](nil)
	}

	if t.buckets == nil {
		t.buckets = make([]uint32, defaultBucketCount)
	}

	t.firstBucket = len(t.buckets)

	return t
}

// Len returns the number of elements.
func (t *Table[K, V]) Len() int {
	return t.count
}

// Empty reports whether the table holds no element.
func (t *Table[K, V]) Empty() bool {
	return t.count == 0
}

// Multi reports whether duplicate keys are allowed.
func (t *Table[K, V]) Multi() bool {
	return t.multi
}

// HashFunction returns the key hasher.
func (t *Table[K, V]) HashFunction() functional.HashFunc[K] {
	return t.hash
}

// KeyEq returns the key equality.
func (t *Table[K, V]) KeyEq() functional.EqualFunc[K] {
	return t.equal
}

// Arena exposes the node arena, mainly for allocation accounting.
func (t *Table[K, V]) Arena() *alloc.Arena[Node[V]] {
	return t.nodes
}

// BucketCount returns the number of buckets.
func (t *Table[K, V]) BucketCount() int {
	return len(t.buckets)
}

// MaxBucketCount returns the largest bucket count the table can address.
func (t *Table[K, V]) MaxBucketCount() int {
	return alloc.MaxLen
}

// Bucket returns the bucket the key maps to.
func (t *Table[K, V]) Bucket(key K) int {
	return t.bucketOf(t.hash(key))
}

// BucketSize returns the chain length of bucket b.
func (t *Table[K, V]) BucketSize(b int) int {
	size := 0
	for idx := t.buckets[b]; idx != alloc.Nil; idx = t.slots()[idx].next {
		size++
	}

	return size
}

// BucketValues yields the chain of bucket b.
func (t *Table[K, V]) BucketValues(b int) iter.Seq[V] {
	return func(yield func(V) bool) {
		for idx := t.buckets[b]; idx != alloc.Nil; idx = t.slots()[idx].next {
			if !yield(t.slots()[idx].value) {
				return
			}
		}
	}
}

// LoadFactor returns the average number of elements per bucket.
func (t *Table[K, V]) LoadFactor() float64 {
	return float64(t.count) / float64(len(t.buckets))
}

// MaxLoadFactor returns the load factor that triggers growth.
func (t *Table[K, V]) MaxLoadFactor() float64 {
	return t.maxLoadFactor
}

// SetMaxLoadFactor changes the growth threshold, rehashing right away when
// the current load exceeds it. Non-positive values are ignored.
func (t *Table[K, V]) SetMaxLoadFactor(f float64) {
	if f <= 0 {
		return
	}

	t.maxLoadFactor = f
	if t.LoadFactor() > f {
		t.Rehash(0)
	}
}

// Rehash relinks every node into max(n, ceil(Len/MaxLoadFactor)) buckets.
// Equal-key runs and the relative chain order are kept. Iterators stay
// valid, though the iteration order changes.
func (t *Table[K, V]) Rehash(n int) {
	n = max(n, t.minBuckets(t.count), 1)
	buckets := make([]uint32, n)
	tails := make([]uint32, n)
	nodes := t.slots()
	first := n

	for b := t.firstBucket; b < len(t.buckets); b++ {
		for idx := t.buckets[b]; idx != alloc.Nil; {
			next := nodes[idx].next
			target := int(nodes[idx].hash % uint64(n))
			nodes[idx].next = alloc.Nil

			if tails[target] == alloc.Nil {
				buckets[target] = idx
			} else {
				nodes[tails[target]].next = idx
			}

			tails[target] = idx
			first = min(first, target)
			idx = next
		}
	}

	t.buckets = buckets
	t.firstBucket = first
}

// Reserve makes room for n elements without exceeding the max load factor.
func (t *Table[K, V]) Reserve(n int) {
	if need := t.minBuckets(n); need > len(t.buckets) {
		t.Rehash(need)
	}
}

// Begin points at the first element, or End when empty.
func (t *Table[K, V]) Begin() Iterator[K, V] {
	for t.firstBucket < len(t.buckets) && t.buckets[t.firstBucket] == alloc.Nil {
		t.firstBucket++
	}

	if t.firstBucket == len(t.buckets) {
		return t.End()
	}

	return Iterator[K, V]{t, t.buckets[t.firstBucket]}
}

// End points past the last element.
func (t *Table[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{t, alloc.Nil}
}

// All yields every value in iteration order.
func (t *Table[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for it := t.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Insert adds value. In unique mode an equal key makes it return the
// existing element and false.
func (t *Table[K, V]) Insert(value V) (Iterator[K, V], bool) {
	key := t.keyOf(value)
	hash := t.hash(key)

	if found := t.find(key, hash); found != alloc.Nil {
		if !t.multi {
			return Iterator[K, V]{t, found}, false
		}

		t.growFor(t.count + 1)

		return Iterator[K, V]{t, t.linkBefore(found, value, hash)}, true
	}

	t.growFor(t.count + 1)

	return Iterator[K, V]{t, t.linkTail(value, hash)}, true
}

// InsertHint adds value. In multi mode, when hint holds an equal key the new
// element is linked right after it without a lookup. Otherwise it behaves
// like Insert and returns the element with the key.
func (t *Table[K, V]) InsertHint(hint Iterator[K, V], value V) Iterator[K, V] {
	key := t.keyOf(value)

	if t.multi && !hint.IsEnd() && t.equal(t.keyOf(hint.Value()), key) {
		t.growFor(t.count + 1)

		nodes := t.slots()
		idx := t.newNode(value, nodes[hint.node].hash)
		nodes = t.slots()
		nodes[idx].next = nodes[hint.node].next
		nodes[hint.node].next = idx

		return Iterator[K, V]{t, idx}
	}

	it, _ := t.Insert(value)

	return it
}

// InsertRange inserts every value of seq, hinting with the previous result.
func (t *Table[K, V]) InsertRange(seq iter.Seq[V]) {
	hint := t.End()

	for value := range seq {
		hint = t.InsertHint(hint, value)
	}
}

// Find returns the first element with the key, or End.
func (t *Table[K, V]) Find(key K) Iterator[K, V] {
	return Iterator[K, V]{t, t.find(key, t.hash(key))}
}

// Contains reports whether an element with the key exists.
func (t *Table[K, V]) Contains(key K) bool {
	return !t.Find(key).IsEnd()
}

// Count returns the number of elements with the key.
func (t *Table[K, V]) Count(key K) int {
	count := 0
	nodes := t.slots()

	for idx := t.find(key, t.hash(key)); idx != alloc.Nil && t.equal(t.keyOf(nodes[idx].value), key); idx = nodes[idx].next {
		count++
	}

	return count
}

// EqualRange returns the run of elements with the key. Both iterators are
// End when the key is absent.
func (t *Table[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	first := t.Find(key)
	if first.IsEnd() {
		return first, first
	}

	last := first
	for !last.IsEnd() && t.equal(t.keyOf(last.Value()), key) {
		last = last.Next()
	}

	return first, last
}

// Erase removes the element at it and returns the iterator to its successor.
//
// REQUIRES: !it.IsEnd().
func (t *Table[K, V]) Erase(it Iterator[K, V]) Iterator[K, V] {
	doAssert(!it.IsEnd())

	next := it.Next()
	nodes := t.slots()
	b := t.bucketOf(nodes[it.node].hash)

	if t.buckets[b] == it.node {
		t.buckets[b] = nodes[it.node].next
	} else {
		prev := t.buckets[b]
		for nodes[prev].next != it.node {
			prev = nodes[prev].next
		}

		nodes[prev].next = nodes[it.node].next
	}

	t.nodes.Free(it.node)
	t.count--

	return next
}

// EraseRange removes [first, last) and returns last.
func (t *Table[K, V]) EraseRange(first, last Iterator[K, V]) Iterator[K, V] {
	for !first.Equal(last) {
		first = t.Erase(first)
	}

	return last
}

// EraseKey removes every element with the key and returns how many there were.
func (t *Table[K, V]) EraseKey(key K) int {
	removed := 0

	for first, last := t.EqualRange(key); !first.Equal(last); removed++ {
		first = t.Erase(first)
	}

	return removed
}

// Clear removes every element. The bucket count is kept.
func (t *Table[K, V]) Clear() {
	t.nodes.Reset()
	clear(t.buckets)
	t.count = 0
	t.firstBucket = len(t.buckets)
}

// Swap exchanges the contents of two tables in O(1). Iterators follow the
// table handle.
func (t *Table[K, V]) Swap(other *Table[K, V]) {
	*t, *other = *other, *t
}

// Clone returns a deep copy with the same buckets and chain order.
func (t *Table[K, V]) Clone() *Table[K, V] {
	clone := *t
	clone.nodes = t.nodes.Clone()
	clone.buckets = append([]uint32(nil), t.buckets...)

	return &clone
}

// Equal reports whether both tables hold the same elements, with every run
// of equal keys being a permutation of the other's under eq.
func (t *Table[K, V]) Equal(other *Table[K, V], eq functional.EqualFunc[V]) bool {
	if t.count != other.count {
		return false
	}

	for it := t.Begin(); !it.IsEnd(); {
		key := it.Key()

		run := []V{}
		for ; !it.IsEnd() && t.equal(it.Key(), key); it = it.Next() {
			run = append(run, it.Value())
		}

		otherRun := []V{}
		for first, last := other.EqualRange(key); !first.Equal(last); first = first.Next() {
			otherRun = append(otherRun, first.Value())
		}

		if !isPermutation(run, otherRun, eq) {
			return false
		}
	}

	return true
}

func isPermutation[V any](a, b []V, eq functional.EqualFunc[V]) bool {
	if len(a) != len(b) {
		return false
	}

	used := make([]bool, len(b))

outer:
	for _, value := range a {
		for i, candidate := range b {
			if !used[i] && eq(value, candidate) {
				used[i] = true

				continue outer
			}
		}

		return false
	}

	return true
}

func (t *Table[K, V]) slots() []Node[V] {
	return t.nodes.Slots()
}

func (t *Table[K, V]) bucketOf(hash uint64) int {
	return int(hash % uint64(len(t.buckets)))
}

func (t *Table[K, V]) minBuckets(n int) int {
	return int(math.Ceil(float64(n) / t.maxLoadFactor))
}

// growFor rehashes ahead of an insertion that would push the load factor
// past the maximum.
func (t *Table[K, V]) growFor(n int) {
	if float64(n)/float64(len(t.buckets)) > t.maxLoadFactor {
		t.Rehash(max(t.minBuckets(n), 2*len(t.buckets)))
	}
}

func (t *Table[K, V]) find(key K, hash uint64) uint32 {
	nodes := t.slots()

	for idx := t.buckets[t.bucketOf(hash)]; idx != alloc.Nil; idx = nodes[idx].next {
		if nodes[idx].hash == hash && t.equal(t.keyOf(nodes[idx].value), key) {
			return idx
		}
	}

	return alloc.Nil
}

func (t *Table[K, V]) newNode(value V, hash uint64) uint32 {
	idx := t.nodes.Alloc()
	t.slots()[idx] = Node[V]{value: value, hash: hash}
	t.count++

	return idx
}

// linkBefore puts a new node in front of the equal-key run starting at head.
func (t *Table[K, V]) linkBefore(head uint32, value V, hash uint64) uint32 {
	idx := t.newNode(value, hash)
	nodes := t.slots()
	b := t.bucketOf(hash)

	nodes[idx].next = head

	if t.buckets[b] == head {
		t.buckets[b] = idx
	} else {
		prev := t.buckets[b]
		for nodes[prev].next != head {
			prev = nodes[prev].next
		}

		nodes[prev].next = idx
	}

	return idx
}

// linkTail appends a new node to the end of its chain.
func (t *Table[K, V]) linkTail(value V, hash uint64) uint32 {
	idx := t.newNode(value, hash)
	nodes := t.slots()
	b := t.bucketOf(hash)

	if t.buckets[b] == alloc.Nil {
		t.buckets[b] = idx
		t.firstBucket = min(t.firstBucket, b)

		return idx
	}

	tail := t.buckets[b]
	for nodes[tail].next != alloc.Nil {
		tail = nodes[tail].next
	}

	nodes[tail].next = idx

	return idx
}

func doAssert(condition bool) {
	if !condition {
		panic("hashtable internal assertion failed")
	}
}
