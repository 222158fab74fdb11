package monkey //nolint:testpackage // tests drive the generator directly.

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	ops := []Weighted{{Name: opPushBack, Weight: 3}, {Name: opPopBack, Weight: 1}}

	a := newGenerator(5, ops, 10)
	b := newGenerator(5, ops, 10)

	for range 200 {
		assert.Equal(t, a.next(), b.next())
	}
}

func TestGenerator_Bounds(t *testing.T) {
	t.Parallel()

	ops := []Weighted{{Name: opInsert, Weight: 9}, {Name: opClear, Weight: 1}, {Name: opFind, Weight: 0}}
	gen := newGenerator(1, ops, 4)

	seen := map[string]int{}

	for range 5000 {
		op := gen.next()
		seen[op.Name]++

		assert.GreaterOrEqual(t, op.Key, 0)
		assert.Less(t, op.Key, 4)
		assert.Less(t, op.Value, valueSpan)
		assert.Less(t, op.Pos, posSpan)
	}

	assert.Zero(t, seen[opFind], "zero weight is never drawn")
	assert.Greater(t, seen[opInsert], seen[opClear])
}

func TestOp_String(t *testing.T) {
	t.Parallel()

	op := Op{Name: opErasePos, Key: 1, Value: 2, Pos: 3}
	assert.Equal(t, "erase_pos(key=1 value=2 pos=3)", op.String())
	assert.Equal(t, "4=5", pair(4, 5))
	assert.Equal(t, 2, reduce(7, 5))
}
