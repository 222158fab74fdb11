package rbtree

import (
	"fmt"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
)

type checkFrame struct {
	node   uint32
	blacks int
}

// Check walks the whole tree and verifies the red-black and ordering
// invariants together with the sentinel links and the cached extremes.
func (tree *Tree[K, V]) Check() error {
	nodes := tree.slots()
	sentinel := nodes[alloc.Nil]

	if sentinel.color != black {
		return fmt.Errorf("%w: sentinel is red", ErrInvariant)
	}

	if sentinel.child[left] != sentinel.child[right] {
		return fmt.Errorf("%w: sentinel links %d and %d differ", ErrInvariant, sentinel.child[left], sentinel.child[right])
	}

	root := tree.root()
	if root == alloc.Nil {
		if tree.count != 0 || tree.first != alloc.Nil || tree.last != alloc.Nil {
			return fmt.Errorf("%w: empty tree with count %d", ErrInvariant, tree.count)
		}

		return nil
	}

	if nodes[root].parent != alloc.Nil || nodes[root].color != black {
		return fmt.Errorf("%w: root %d is not a black child of the sentinel", ErrInvariant, root)
	}

	visited, err := tree.checkShape(nodes, root)
	if err != nil {
		return err
	}

	if visited != tree.count {
		return fmt.Errorf("%w: counted %d nodes, expected %d", ErrInvariant, visited, tree.count)
	}

	return tree.checkOrder(nodes, root)
}

func (tree *Tree[K, V]) checkShape(nodes []Node[V], root uint32) (int, error) {
	blackHeight := -1
	visited := 0
	stack := []checkFrame{{node: root, blacks: 1}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		current := nodes[frame.node]

		for _, child := range current.child {
			if child == alloc.Nil {
				if blackHeight < 0 {
					blackHeight = frame.blacks
				} else if blackHeight != frame.blacks {
					return 0, fmt.Errorf("%w: black height %d under node %d, expected %d",
						ErrInvariant, frame.blacks, frame.node, blackHeight)
				}

				continue
			}

			if nodes[child].parent != frame.node {
				return 0, fmt.Errorf("%w: node %d has parent %d, expected %d",
					ErrInvariant, child, nodes[child].parent, frame.node)
			}

			if current.color == red && nodes[child].color == red {
				return 0, fmt.Errorf("%w: red node %d has red child %d", ErrInvariant, frame.node, child)
			}

			blacks := frame.blacks
			if nodes[child].color == black {
				blacks++
			}

			stack = append(stack, checkFrame{node: child, blacks: blacks})
		}
	}

	return visited, nil
}

func (tree *Tree[K, V]) checkOrder(nodes []Node[V], root uint32) error {
	minNode := root
	for nodes[minNode].child[left] != alloc.Nil {
		minNode = nodes[minNode].child[left]
	}

	if minNode != tree.first {
		return fmt.Errorf("%w: cached first %d, actual %d", ErrInvariant, tree.first, minNode)
	}

	if maxNode := maxOf(nodes, root); maxNode != tree.last {
		return fmt.Errorf("%w: cached last %d, actual %d", ErrInvariant, tree.last, maxNode)
	}

	prev := tree.first

	for idx := tree.next(prev); idx != alloc.Nil; idx = tree.next(idx) {
		prevKey, key := tree.keyOf(nodes[prev].value), tree.keyOf(nodes[idx].value)

		if tree.less(key, prevKey) || (!tree.multi && !tree.less(prevKey, key)) {
			return fmt.Errorf("%w: node %d out of order after node %d", ErrInvariant, idx, prev)
		}

		prev = idx
	}

	return nil
}
