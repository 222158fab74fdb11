// Package rbtree implements the red-black tree behind the ordered containers.
//
// Nodes live in an alloc.Arena and link to each other by slot index. Slot
// alloc.Nil doubles as the sentinel: it is always black, both of its child
// links alias the real root, and the End iterator points at it. The first and
// last nodes are cached so Begin and Prev(End) are O(1).
//
// All algorithms are iterative. Erasing a node with two children swaps it
// with its in-order predecessor by relinking, so iterators to every other
// element stay valid.
package rbtree

import (
	"errors"
	"iter"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
	"github.com/Sumatoshi-tech/containers/pkg/functional"
)

// ErrInvariant is wrapped by every error Check reports.
var ErrInvariant = errors.New("red-black invariant violated")

type color uint8

// The zero value is black so the sentinel and fresh slots start black.
const (
	black color = iota
	red
)

type direction int

const (
	left direction = iota
	right
)

func (d direction) opposite() direction {
	return 1 - d
}

// Node is the storage unit of a tree. It is exported only so callers can
// build allocators for it; its fields are private.
type Node[V any] struct {
	value  V
	child  [2]uint32
	parent uint32
	color  color
}

// Tree is a red-black tree of values of type V ordered by keys of type K.
//
// In unique mode equal keys are rejected. In multi mode they are kept as a
// contiguous in-order run, newest last.
type Tree[K, V any] struct {
	nodes *alloc.Arena[Node[V]]
	less  functional.LessFunc[K]
	keyOf functional.KeyFunc[V, K]

	// The minimum and maximum nodes under the tree.
	first, last uint32

	count int
	multi bool
}

// Option configures a Tree.
type Option[K, V any] func(*Tree[K, V])

// WithMulti allows duplicate keys.
func WithMulti[K, V any]() Option[K, V] {
	return func(tree *Tree[K, V]) {
		tree.multi = true
	}
}

// WithAllocator makes the node arena draw its storage from a.
func WithAllocator[K, V any](a alloc.Allocator[Node[V]]) Option[K, V] {
	return func(tree *Tree[K, V]) {
		tree.nodes = alloc.NewArena(a)
	}
}

// New creates an empty tree ordered by less over the keys keyOf projects.
func New[K, V any](less functional.LessFunc[K], keyOf functional.KeyFunc[V, K], opts ...Option[K, V]) *Tree[K, V] {
	tree := &Tree[K, V]{less: less, keyOf: keyOf}

	for _, opt := range opts {
		opt(tree)
	}

	if tree.nodes == nil {
		tree.nodes = alloc.NewArena[Node[V]](nil)
	}

	return tree
}

// Len returns the number of elements in the tree.
func (tree *Tree[K, V]) Len() int {
	return tree.count
}

// Empty reports whether the tree holds no element.
func (tree *Tree[K, V]) Empty() bool {
	return tree.count == 0
}

// Multi reports whether duplicate keys are allowed.
func (tree *Tree[K, V]) Multi() bool {
	return tree.multi
}

// KeyComp returns the key ordering.
func (tree *Tree[K, V]) KeyComp() functional.LessFunc[K] {
	return tree.less
}

// KeyOf returns the key projection.
func (tree *Tree[K, V]) KeyOf() functional.KeyFunc[V, K] {
	return tree.keyOf
}

// Arena exposes the node arena, mainly for allocation accounting.
func (tree *Tree[K, V]) Arena() *alloc.Arena[Node[V]] {
	return tree.nodes
}

// Begin points at the minimum element, or End when empty.
func (tree *Tree[K, V]) Begin() Iterator[K, V] {
	return Iterator[K, V]{tree, tree.first}
}

// End points one past the maximum element.
func (tree *Tree[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{tree, alloc.Nil}
}

// All yields the values in order.
func (tree *Tree[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Backward yields the values in reverse order.
func (tree *Tree[K, V]) Backward() iter.Seq[V] {
	return func(yield func(V) bool) {
		for idx := tree.last; idx != alloc.Nil; idx = tree.prev(idx) {
			if !yield(tree.slots()[idx].value) {
				return
			}
		}
	}
}

// Clear removes every element and returns the node storage to the allocator.
func (tree *Tree[K, V]) Clear() {
	tree.nodes.Reset()
	tree.first = alloc.Nil
	tree.last = alloc.Nil
	tree.count = 0
}

// Swap exchanges the contents of two trees in O(1). Iterators follow the
// tree handle, not the elements.
func (tree *Tree[K, V]) Swap(other *Tree[K, V]) {
	*tree, *other = *other, *tree
}

// Clone performs a deep copy that preserves the shape and colors of the tree
// into a fresh arena drawing from the same allocator.
func (tree *Tree[K, V]) Clone() *Tree[K, V] {
	clone := &Tree[K, V]{
		nodes: alloc.NewArena(tree.nodes.Backing()),
		less:  tree.less,
		keyOf: tree.keyOf,
		count: tree.count,
		multi: tree.multi,
	}

	mapping := make([]uint32, tree.nodes.Size())

	for idx := tree.first; idx != alloc.Nil; idx = tree.next(idx) {
		mapping[idx] = clone.nodes.Alloc()
	}

	origin := tree.slots()
	cloned := clone.slots()

	for idx := tree.first; idx != alloc.Nil; idx = tree.next(idx) {
		src := &origin[idx]
		dst := &cloned[mapping[idx]]
		dst.value = src.value
		dst.color = src.color
		dst.parent = mapping[src.parent]
		dst.child = [2]uint32{mapping[src.child[left]], mapping[src.child[right]]}
	}

	root := mapping[tree.root()]
	cloned[alloc.Nil].child = [2]uint32{root, root}
	clone.first = mapping[tree.first]
	clone.last = mapping[tree.last]

	return clone
}

// Insert adds value. In unique mode an equal key makes it return the
// existing element and false.
func (tree *Tree[K, V]) Insert(value V) (Iterator[K, V], bool) {
	key := tree.keyOf(value)
	parent, dir := alloc.Nil, left
	cursor := tree.root()
	nodes := tree.slots()

	for cursor != alloc.Nil {
		parent = cursor
		current := tree.keyOf(nodes[cursor].value)

		switch {
		case tree.less(key, current):
			dir = left
		case tree.multi || tree.less(current, key):
			dir = right
		default:
			return Iterator[K, V]{tree, cursor}, false
		}

		cursor = nodes[cursor].child[dir]
	}

	return Iterator[K, V]{tree, tree.attach(parent, dir, value)}, true
}

// InsertHint adds value using hint as a guess. When hint refers to the
// element immediately before the position value belongs to, the insertion
// skips the descent. Hinting End appends after the maximum. Otherwise it
// behaves like Insert and returns the element with the key.
func (tree *Tree[K, V]) InsertHint(hint Iterator[K, V], value V) Iterator[K, V] {
	key := tree.keyOf(value)
	nodes := tree.slots()

	if hint.node == alloc.Nil {
		if tree.count > 0 && tree.after(tree.keyOf(nodes[tree.last].value), key) {
			return Iterator[K, V]{tree, tree.attach(tree.last, right, value)}
		}

		it, _ := tree.Insert(value)

		return it
	}

	current := hint.node
	next := tree.next(current)

	if tree.after(tree.keyOf(nodes[current].value), key) &&
		(next == alloc.Nil || tree.before(key, tree.keyOf(nodes[next].value))) {
		if nodes[current].child[right] == alloc.Nil {
			return Iterator[K, V]{tree, tree.attach(current, right, value)}
		}

		// next is the leftmost node of current's right subtree.
		return Iterator[K, V]{tree, tree.attach(next, left, value)}
	}

	it, _ := tree.Insert(value)

	return it
}

// InsertRange inserts every value of seq, hinting with the previous result.
func (tree *Tree[K, V]) InsertRange(seq iter.Seq[V]) {
	hint := tree.End()

	for value := range seq {
		hint = tree.InsertHint(hint, value)
	}
}

// Erase removes the element at it and returns the iterator to its successor.
//
// REQUIRES: !it.IsEnd().
func (tree *Tree[K, V]) Erase(it Iterator[K, V]) Iterator[K, V] {
	doAssert(it.node != alloc.Nil)

	return Iterator[K, V]{tree, tree.erase(it.node)}
}

// EraseRange removes [first, last) and returns last.
func (tree *Tree[K, V]) EraseRange(first, last Iterator[K, V]) Iterator[K, V] {
	if first.node == tree.first && last.node == alloc.Nil {
		tree.Clear()

		return tree.End()
	}

	for first.node != last.node {
		first = tree.Erase(first)
	}

	return last
}

// EraseKey removes every element with the key and returns how many there were.
func (tree *Tree[K, V]) EraseKey(key K) int {
	first, last := tree.EqualRange(key)
	removed := 0

	for first.node != last.node {
		first = tree.Erase(first)
		removed++
	}

	return removed
}

// Find returns the first element with the key, or End.
func (tree *Tree[K, V]) Find(key K) Iterator[K, V] {
	idx := tree.lowerBound(key)
	if idx != alloc.Nil && !tree.less(key, tree.keyOf(tree.slots()[idx].value)) {
		return Iterator[K, V]{tree, idx}
	}

	return tree.End()
}

// Contains reports whether an element with the key exists.
func (tree *Tree[K, V]) Contains(key K) bool {
	return !tree.Find(key).IsEnd()
}

// Count returns the number of elements with the key.
func (tree *Tree[K, V]) Count(key K) int {
	if !tree.multi {
		if tree.Contains(key) {
			return 1
		}

		return 0
	}

	first, last := tree.EqualRange(key)
	count := 0

	for ; first.node != last.node; first = first.Next() {
		count++
	}

	return count
}

// LowerBound returns the first element whose key is not less than key.
func (tree *Tree[K, V]) LowerBound(key K) Iterator[K, V] {
	return Iterator[K, V]{tree, tree.lowerBound(key)}
}

// UpperBound returns the first element whose key is greater than key.
func (tree *Tree[K, V]) UpperBound(key K) Iterator[K, V] {
	return Iterator[K, V]{tree, tree.upperBound(key)}
}

// EqualRange returns [LowerBound(key), UpperBound(key)).
func (tree *Tree[K, V]) EqualRange(key K) (Iterator[K, V], Iterator[K, V]) {
	return tree.LowerBound(key), tree.UpperBound(key)
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
