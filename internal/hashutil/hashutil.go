// Package hashutil provides the hash functions behind the default hashers of
// the unordered containers and the seed derivation of the monkey harness.
//
// Integer keys go through the splitmix64 finalizer by Vigna (2014), string
// keys through djb2, byte slices through FNV-1a.
package hashutil

import "hash/fnv"

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// BaseSeed is the starting seed for deterministic seed generation.
	BaseSeed = 0x517cc1b727220a95

	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31

	// splitmix64Increment is the golden-ratio-derived increment
	// used in the Splitmix64 state-advance function.
	splitmix64Increment = 0x9e3779b97f4a7c15
)

// djb2 parameters.
const (
	djb2Seed  = 5381
	djb2Shift = 5
)

// Mix64 applies the splitmix64 finalizer for full-avalanche mixing.
// It does not advance any state; Mix64(0) == 0.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}

// Splitmix64 advances the state by the golden-ratio increment and applies
// the mix64 finalizer.
func Splitmix64(state uint64) uint64 {
	return Mix64(state + splitmix64Increment)
}

// MixHash combines a base hash with a seed.
func MixHash(base, seed uint64) uint64 {
	return Mix64(base ^ seed)
}

// DJB2 computes Bernstein's hash = hash*33 + c over the bytes of s.
func DJB2(s string) uint64 {
	var hash uint64 = djb2Seed

	for idx := range len(s) {
		hash = (hash << djb2Shift) + hash + uint64(s[idx])
	}

	return hash
}

// FNV64a computes a 64-bit FNV-1a hash of the given data.
func FNV64a(data []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(data)

	return h.Sum64()
}
