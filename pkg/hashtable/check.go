package hashtable

import (
	"fmt"

	"github.com/Sumatoshi-tech/containers/pkg/alloc"
)

// Check verifies bucket placement, cached hashes, the load factor, the
// first-bucket cache and, in multi mode, equal-key run contiguity.
func (t *Table[K, V]) Check() error {
	nodes := t.slots()
	visited := 0

	for b, head := range t.buckets {
		if head != alloc.Nil && b < t.firstBucket {
			return fmt.Errorf("%w: bucket %d is occupied before cached first %d", ErrInvariant, b, t.firstBucket)
		}

		var closed []K

		for idx := head; idx != alloc.Nil; idx = nodes[idx].next {
			visited++
			if visited > t.count {
				return fmt.Errorf("%w: more than %d nodes linked", ErrInvariant, t.count)
			}

			key := t.keyOf(nodes[idx].value)

			if hash := t.hash(key); hash != nodes[idx].hash {
				return fmt.Errorf("%w: node %d caches hash %x, key hashes to %x", ErrInvariant, idx, nodes[idx].hash, hash)
			}

			if got := t.bucketOf(nodes[idx].hash); got != b {
				return fmt.Errorf("%w: node %d sits in bucket %d, belongs to %d", ErrInvariant, idx, b, got)
			}

			for _, done := range closed {
				if t.equal(done, key) {
					return fmt.Errorf("%w: node %d splits an equal-key run in bucket %d", ErrInvariant, idx, b)
				}
			}

			next := nodes[idx].next
			if next == alloc.Nil || !t.equal(t.keyOf(nodes[next].value), key) {
				closed = append(closed, key)
			} else if !t.multi {
				return fmt.Errorf("%w: duplicate key at node %d", ErrInvariant, next)
			}
		}
	}

	if visited != t.count {
		return fmt.Errorf("%w: linked %d nodes, expected %d", ErrInvariant, visited, t.count)
	}

	if t.LoadFactor() > t.maxLoadFactor {
		return fmt.Errorf("%w: load factor %.3f above %.3f", ErrInvariant, t.LoadFactor(), t.maxLoadFactor)
	}

	return nil
}
