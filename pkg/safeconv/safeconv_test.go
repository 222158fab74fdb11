package safeconv

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wideUint32 is math.MaxUint32 held in a variable, so converting it to int
// compiles on 32-bit platforms too.
var wideUint32 uint64 = math.MaxUint32

func TestMustIntToUint32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input int
		want  uint32
	}{
		{name: "zero", input: 0, want: 0},
		{name: "slot_index", input: 1024, want: 1024},
	}

	if strconv.IntSize == 64 {
		tests = append(tests, struct {
			name  string
			input int
			want  uint32
		}{name: "max", input: int(wideUint32), want: MaxUint32})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, MustIntToUint32(tt.input))
		})
	}

	t.Run("negative_panics", func(t *testing.T) {
		t.Parallel()

		assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
			MustIntToUint32(-1)
		})
	})

	t.Run("overflow_panics", func(t *testing.T) {
		t.Parallel()

		if strconv.IntSize < 64 {
			t.Skip("no int exceeds MaxUint32 on this platform")
		}

		assert.PanicsWithValue(t, "safeconv: int to uint32 out of bounds", func() {
			MustIntToUint32(int(wideUint32 + 1))
		})
	})
}

func TestMustIntToUint64(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(42), MustIntToUint64(42))
	assert.Equal(t, uint64(MaxInt), MustIntToUint64(MaxInt))
	assert.PanicsWithValue(t, "safeconv: negative int to uint64 conversion", func() {
		MustIntToUint64(-7)
	})
}

func TestMustUint64ToInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, MustUint64ToInt(42))
	assert.Equal(t, MaxInt, MustUint64ToInt(uint64(MaxInt)))
	assert.PanicsWithValue(t, "safeconv: uint64 to int overflow", func() {
		MustUint64ToInt(uint64(MaxInt) + 1)
	})
}
