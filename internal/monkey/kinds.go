package monkey

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Sumatoshi-tech/containers/internal/hashutil"
)

// Container families, used to group the summary.
const (
	FamilyOrdered   = "ordered"
	FamilyUnordered = "unordered"
	FamilySequence  = "sequence"
	FamilyAdapter   = "adapter"
)

// Subject is one side of a run: a real container or its model.
type Subject interface {
	// Apply executes op and returns its observable result.
	Apply(op Op) (string, error)
	// Dump lists the elements in their observable order.
	Dump() []string
	Len() int
	// Check verifies the container's structural invariants.
	Check() error
	// Close clears the container and verifies it returned its storage.
	Close() error
}

// Settings configure a run.
type Settings struct {
	Seed          int64   `json:"seed"            yaml:"seed"`
	Ops           int     `json:"ops"             yaml:"ops"`
	KeySpace      int     `json:"key_space"       yaml:"key_space"`
	CheckEvery    int     `json:"check_every"     yaml:"check_every"`
	MaxLoadFactor float64 `json:"max_load_factor" yaml:"max_load_factor"`
}

// DefaultSettings returns the settings of an unconfigured run.
func DefaultSettings() Settings {
	return Settings{Seed: 1, Ops: 10000, KeySpace: 64, CheckEvery: 1, MaxLoadFactor: 1}
}

// Kind describes a container kind under test.
type Kind struct {
	Name   string
	Family string
	Ops    []Weighted
	Real   func(Settings) Subject
	Model  func(Settings) Subject
}

// Seed derives the op stream seed of the kind from the run seed, so every
// kind sees a different stream and adding a kind does not shift the others.
func (k Kind) Seed(runSeed int64) int64 {
	return int64(hashutil.MixHash(hashutil.DJB2(k.Name), uint64(runSeed))) //nolint:gosec // wraparound is fine for a seed.
}

// OpNames lists the ops the kind draws from.
func (k Kind) OpNames() []string {
	names := make([]string, len(k.Ops))
	for i, w := range k.Ops {
		names[i] = w.Name
	}

	return names
}

var registry = sync.OnceValue(func() []Kind {
	var kinds []Kind

	kinds = append(kinds, orderedKinds()...)
	kinds = append(kinds, unorderedKinds()...)
	kinds = append(kinds, sequenceKinds()...)
	kinds = append(kinds, adapterKinds()...)

	return kinds
})

// Kinds returns every registered kind.
func Kinds() []Kind { return slices.Clone(registry()) }

// Names returns the names of every registered kind.
func Names() []string {
	kinds := registry()
	names := make([]string, len(kinds))

	for i, k := range kinds {
		names[i] = k.Name
	}

	return names
}

// Lookup returns the kind called name.
func Lookup(name string) (Kind, error) {
	i := slices.IndexFunc(registry(), func(k Kind) bool { return k.Name == name })
	if i < 0 {
		return Kind{}, fmt.Errorf("%w: %q", ErrUnknownContainer, name)
	}

	return registry()[i], nil
}

// Select resolves names to kinds. No names selects every kind.
func Select(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return Kinds(), nil
	}

	kinds := make([]Kind, 0, len(names))

	for _, name := range names {
		k, err := Lookup(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, k)
	}

	return kinds, nil
}
