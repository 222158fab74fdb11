package rbtree

import "github.com/Sumatoshi-tech/containers/pkg/alloc"

// Internal node accessors.

func (tree *Tree[K, V]) slots() []Node[V] {
	return tree.nodes.Slots()
}

func (tree *Tree[K, V]) root() uint32 {
	return tree.slots()[alloc.Nil].child[left]
}

// after reports whether key may sit immediately after an element with prevKey.
func (tree *Tree[K, V]) after(prevKey, key K) bool {
	if tree.multi {
		return !tree.less(key, prevKey)
	}

	return tree.less(prevKey, key)
}

// before reports whether key may sit immediately before an element with nextKey.
func (tree *Tree[K, V]) before(key, nextKey K) bool {
	if tree.multi {
		return !tree.less(nextKey, key)
	}

	return tree.less(key, nextKey)
}

func directionOf[V any](nodes []Node[V], idx uint32) direction {
	if nodes[nodes[idx].parent].child[left] == idx {
		return left
	}

	return right
}

// Return the minimum node that's larger than idx, or the sentinel.
func (tree *Tree[K, V]) next(idx uint32) uint32 {
	nodes := tree.slots()

	if cursor := nodes[idx].child[right]; cursor != alloc.Nil {
		for nodes[cursor].child[left] != alloc.Nil {
			cursor = nodes[cursor].child[left]
		}

		return cursor
	}

	// The root is the left child of the sentinel, so the climb ends there.
	for {
		parent := nodes[idx].parent
		if nodes[parent].child[left] == idx {
			return parent
		}

		idx = parent
	}
}

// Return the maximum node that's smaller than idx, or the sentinel.
func (tree *Tree[K, V]) prev(idx uint32) uint32 {
	nodes := tree.slots()

	if cursor := nodes[idx].child[left]; cursor != alloc.Nil {
		return maxOf(nodes, cursor)
	}

	for {
		parent := nodes[idx].parent
		if nodes[parent].child[right] == idx {
			return parent
		}

		idx = parent
	}
}

func maxOf[V any](nodes []Node[V], idx uint32) uint32 {
	for nodes[idx].child[right] != alloc.Nil {
		idx = nodes[idx].child[right]
	}

	return idx
}

func (tree *Tree[K, V]) lowerBound(key K) uint32 {
	nodes := tree.slots()
	result := alloc.Nil

	for cursor := tree.root(); cursor != alloc.Nil; {
		if tree.less(tree.keyOf(nodes[cursor].value), key) {
			cursor = nodes[cursor].child[right]
		} else {
			result = cursor
			cursor = nodes[cursor].child[left]
		}
	}

	return result
}

func (tree *Tree[K, V]) upperBound(key K) uint32 {
	nodes := tree.slots()
	result := alloc.Nil

	for cursor := tree.root(); cursor != alloc.Nil; {
		if tree.less(key, tree.keyOf(nodes[cursor].value)) {
			result = cursor
			cursor = nodes[cursor].child[left]
		} else {
			cursor = nodes[cursor].child[right]
		}
	}

	return result
}

// replaceChild makes replacement take old's place under parent. Under the
// sentinel both links are updated so they keep aliasing the root.
func (tree *Tree[K, V]) replaceChild(parent, old, replacement uint32) {
	nodes := tree.slots()

	if parent == alloc.Nil {
		nodes[alloc.Nil].child = [2]uint32{replacement, replacement}

		return
	}

	if nodes[parent].child[left] == old {
		nodes[parent].child[left] = replacement
	} else {
		nodes[parent].child[right] = replacement
	}
}

// rotate performs a tree rotation in the given direction.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[K, V]) rotate(pivot uint32, dir direction) {
	nodes := tree.slots()
	child := nodes[pivot].child[dir.opposite()]

	// Move the inner subtree.
	inner := nodes[child].child[dir]
	nodes[pivot].child[dir.opposite()] = inner

	if inner != alloc.Nil {
		nodes[inner].parent = pivot
	}

	parent := nodes[pivot].parent
	nodes[child].parent = parent
	tree.replaceChild(parent, pivot, child)

	nodes[child].child[dir] = pivot
	nodes[pivot].parent = child
}

// attach links a new red leaf holding value under parent and rebalances.
func (tree *Tree[K, V]) attach(parent uint32, dir direction, value V) uint32 {
	idx := tree.nodes.Alloc()
	nodes := tree.slots()
	doAssert(parent == alloc.Nil || nodes[parent].child[dir] == alloc.Nil)

	nodes[idx] = Node[V]{value: value, parent: parent, color: red}

	switch {
	case parent == alloc.Nil:
		nodes[alloc.Nil].child = [2]uint32{idx, idx}
		tree.first = idx
		tree.last = idx
	default:
		nodes[parent].child[dir] = idx

		if dir == left && parent == tree.first {
			tree.first = idx
		}

		if dir == right && parent == tree.last {
			tree.last = idx
		}
	}

	tree.count++
	tree.insertFixup(idx)

	return idx
}

// insertFixup restores the invariants after a red leaf was linked at idx.
func (tree *Tree[K, V]) insertFixup(idx uint32) {
	nodes := tree.slots()

	// The sentinel is black, so the loop stops below the root.
	for nodes[nodes[idx].parent].color == red {
		parent := nodes[idx].parent
		grandparent := nodes[parent].parent
		side := directionOf(nodes, parent)
		uncle := nodes[grandparent].child[side.opposite()]

		// Red uncle: push the blackness down from the grandparent.
		if nodes[uncle].color == red {
			nodes[parent].color = black
			nodes[uncle].color = black
			nodes[grandparent].color = red
			idx = grandparent

			continue
		}

		// Zig-zag: turn it into a straight line first.
		if directionOf(nodes, idx) != side {
			tree.rotate(parent, side)
			idx = parent
			parent = nodes[idx].parent
		}

		nodes[parent].color = black
		nodes[grandparent].color = red
		tree.rotate(grandparent, side.opposite())

		break
	}

	nodes[tree.root()].color = black
}

// erase unlinks idx, frees it and returns its successor.
func (tree *Tree[K, V]) erase(idx uint32) uint32 {
	successor := tree.next(idx)

	if idx == tree.first {
		tree.first = successor
	}

	if idx == tree.last {
		tree.last = tree.prev(idx)
	}

	nodes := tree.slots()

	if nodes[idx].child[left] != alloc.Nil && nodes[idx].child[right] != alloc.Nil {
		tree.swapWithPredecessor(idx, maxOf(nodes, nodes[idx].child[left]))
	}

	child := nodes[idx].child[left]
	if child == alloc.Nil {
		child = nodes[idx].child[right]
	}

	parent := nodes[idx].parent
	if child != alloc.Nil {
		nodes[child].parent = parent
	}

	tree.replaceChild(parent, idx, child)

	if nodes[idx].color == black {
		tree.eraseFixup(child, parent)
	}

	tree.nodes.Free(idx)
	tree.count--

	return successor
}

// swapWithPredecessor exchanges the tree positions and colors of idx and its
// in-order predecessor pred, leaving both values in their own slots.
func (tree *Tree[K, V]) swapWithPredecessor(idx, pred uint32) {
	nodes := tree.slots()
	doAssert(nodes[pred].child[right] == alloc.Nil)

	parent := nodes[idx].parent
	leftChild, rightChild := nodes[idx].child[left], nodes[idx].child[right]
	predParent, predLeft := nodes[pred].parent, nodes[pred].child[left]

	tree.replaceChild(parent, idx, pred)
	nodes[pred].parent = parent
	nodes[pred].child[right] = rightChild
	nodes[rightChild].parent = pred

	if predParent == idx {
		nodes[pred].child[left] = idx
		nodes[idx].parent = pred
	} else {
		nodes[pred].child[left] = leftChild
		nodes[leftChild].parent = pred
		nodes[predParent].child[right] = idx
		nodes[idx].parent = predParent
	}

	nodes[idx].child = [2]uint32{predLeft, alloc.Nil}
	if predLeft != alloc.Nil {
		nodes[predLeft].parent = idx
	}

	nodes[idx].color, nodes[pred].color = nodes[pred].color, nodes[idx].color
}

// eraseFixup resolves the double black left at idx (possibly the sentinel,
// standing for an empty leaf) under parent after a black node was unlinked.
func (tree *Tree[K, V]) eraseFixup(idx, parent uint32) {
	nodes := tree.slots()

	for idx != tree.root() && nodes[idx].color == black {
		dir := left
		if nodes[parent].child[left] != idx {
			dir = right
		}

		sibling := nodes[parent].child[dir.opposite()]

		// Red sibling: rotate it above the parent so the sibling turns black.
		if nodes[sibling].color == red {
			nodes[sibling].color = black
			nodes[parent].color = red
			tree.rotate(parent, dir)
			sibling = nodes[parent].child[dir.opposite()]
		}

		closeNephew := nodes[sibling].child[dir]
		distantNephew := nodes[sibling].child[dir.opposite()]

		// Black sibling with black nephews: move the defect up.
		if nodes[closeNephew].color == black && nodes[distantNephew].color == black {
			nodes[sibling].color = red
			idx = parent
			parent = nodes[idx].parent

			continue
		}

		// Red close nephew, black distant one: rotate the red outward.
		if nodes[distantNephew].color == black {
			nodes[closeNephew].color = black
			nodes[sibling].color = red
			tree.rotate(sibling, dir.opposite())
			sibling = nodes[parent].child[dir.opposite()]
			distantNephew = nodes[sibling].child[dir.opposite()]
		}

		// Red distant nephew: one rotation at the parent absorbs the defect.
		nodes[sibling].color = nodes[parent].color
		nodes[parent].color = black
		nodes[distantNephew].color = black
		tree.rotate(parent, dir)

		idx = tree.root()

		break
	}

	if idx != alloc.Nil {
		nodes[idx].color = black
	}
}
