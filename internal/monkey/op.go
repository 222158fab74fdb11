// Package monkey drives every container kind with weighted random
// operations next to a plain slice or map model, compares the observable
// state after each step and records a reproducer trace when they disagree.
package monkey

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
)

var (
	// ErrUnknownOp is returned when a subject is handed an op it does not support.
	ErrUnknownOp = errors.New("unknown op")
	// ErrUnknownContainer is returned for a container kind that is not registered.
	ErrUnknownContainer = errors.New("unknown container")
	// ErrLeak is returned by Close when a container did not give back its storage.
	ErrLeak = errors.New("allocator not balanced")
	// ErrCorrupt is returned by Check when a container's structure is broken.
	ErrCorrupt = errors.New("container corrupt")
)

// Op names shared by the subjects.
const (
	opInsert       = "insert"
	opInsertHint   = "insert_hint"
	opInsertEnd    = "insert_end_hint"
	opAssign       = "assign"
	opIndexAdd     = "index_add"
	opAt           = "at"
	opEraseKey     = "erase_key"
	opErasePos     = "erase_pos"
	opEraseRange   = "erase_range"
	opEraseFind    = "erase_find"
	opFind         = "find"
	opCount        = "count"
	opLowerBound   = "lower_bound"
	opUpperBound   = "upper_bound"
	opClear        = "clear"
	opClone        = "clone"
	opSwap         = "swap"
	opEqual        = "equal"
	opLess         = "less"
	opRehash       = "rehash"
	opReserve      = "reserve"
	opLoadFactor   = "max_load_factor"
	opBucket       = "bucket"
	opPushBack     = "push_back"
	opPushFront    = "push_front"
	opPopBack      = "pop_back"
	opPopFront     = "pop_front"
	opInsertN      = "insert_n"
	opErase        = "erase"
	opSet          = "set"
	opResize       = "resize"
	opAssignN      = "assign_n"
	opShrink       = "shrink"
	opReverse      = "reverse"
	opSort         = "sort"
	opUnique       = "unique"
	opRemove       = "remove"
	opMerge        = "merge"
	opSpliceFront  = "splice_front"
	opSpliceRange  = "splice_range"
	opPush         = "push"
	opPop          = "pop"
	opTop          = "top"
	opFront        = "front"
	opBack         = "back"
	resultEnd      = "end"
	resultEmpty    = "empty"
	resultNotFound = "not found"
	resultRange    = "out of range"
)

// Small spans keep range ops from wiping the container on every call.
const (
	rangeSpan  = 4
	countSpan  = 3
	resizeSpan = 48
	valueSpan  = 1000
	posSpan    = 1 << 20
)

// Op is one step of a run. Pos is reduced modulo the container length by
// the op that uses it.
type Op struct {
	Name  string `json:"op"    yaml:"op"`
	Key   int    `json:"key"   yaml:"key"`
	Value int    `json:"value" yaml:"value"`
	Pos   int    `json:"pos"   yaml:"pos"`
}

func (op Op) String() string {
	return fmt.Sprintf("%s(key=%d value=%d pos=%d)", op.Name, op.Key, op.Value, op.Pos)
}

// Weighted is an op name and its relative frequency.
type Weighted struct {
	Name   string
	Weight int
}

// generator draws ops for one kind.
type generator struct {
	rng      *rand.Rand
	ops      []Weighted
	total    int
	keySpace int
}

func newGenerator(seed int64, ops []Weighted, keySpace int) *generator {
	total := 0
	for _, w := range ops {
		total += w.Weight
	}

	return &generator{
		rng:      rand.New(rand.NewSource(seed)), //nolint:gosec // reproducible, not secret.
		ops:      ops,
		total:    total,
		keySpace: keySpace,
	}
}

func (g *generator) next() Op {
	pick := g.rng.Intn(g.total)
	name := g.ops[len(g.ops)-1].Name

	for _, w := range g.ops {
		if pick < w.Weight {
			name = w.Name

			break
		}

		pick -= w.Weight
	}

	return Op{
		Name:  name,
		Key:   g.rng.Intn(g.keySpace),
		Value: g.rng.Intn(valueSpan),
		Pos:   g.rng.Intn(posSpan),
	}
}

func unknownOp(kind string, op Op) error {
	return fmt.Errorf("%w: %s on %s", ErrUnknownOp, op.Name, kind)
}

func itoa(v int) string { return strconv.Itoa(v) }

func boolString(b bool) string { return strconv.FormatBool(b) }

func pair(k, v int) string { return itoa(k) + "=" + itoa(v) }

// reduce maps pos into [0, n). n must be positive.
func reduce(pos, n int) int { return pos % n }
