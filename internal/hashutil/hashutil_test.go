package hashutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMix64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Mix64(0x12345678), Mix64(0x12345678))
	assert.NotEqual(t, Mix64(1), Mix64(2))
	// The finalizer is multiplicative, so zero is a fixed point.
	assert.Zero(t, Mix64(0))
}

func TestSplitmix64Sequence(t *testing.T) {
	t.Parallel()

	seen := make(map[uint64]bool)
	state := uint64(BaseSeed)

	for range 1000 {
		state = Splitmix64(state)
		assert.False(t, seen[state], "cycle at %x", state)
		seen[state] = true
	}

	assert.NotEqual(t, Mix64(42), Splitmix64(42))
}

func TestMixHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MixHash(7, 9), MixHash(7, 9))
	assert.NotEqual(t, MixHash(7, 9), MixHash(7, 10))
	assert.Equal(t, Mix64(7^9), MixHash(7, 9))
}

func TestDJB2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  uint64
	}{
		{input: "", want: 5381},
		{input: "a", want: 5381*33 + 'a'},
		{input: "ab", want: (5381*33+'a')*33 + 'b'},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, DJB2(tt.input))
		})
	}
}

func TestFNV64a(t *testing.T) {
	t.Parallel()

	// Offset basis for the empty input.
	assert.Equal(t, uint64(0xcbf29ce484222325), FNV64a(nil))
	assert.NotEqual(t, FNV64a([]byte("a")), FNV64a([]byte("b")))
}
