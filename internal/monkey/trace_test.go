package monkey_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/containers/internal/monkey"
)

func TestTrace_RoundTrip(t *testing.T) {
	t.Parallel()

	want := &monkey.Trace{
		Version:   monkey.TraceVersion,
		Container: "unordered_map",
		Settings:  monkey.DefaultSettings(),
		Ops: []monkey.Op{
			{Name: "insert", Key: 3, Value: 30},
			{Name: "erase_key", Key: 3},
			{Name: "bucket", Key: 1, Pos: 12},
		},
		Divergence: &monkey.Divergence{
			Step:   2,
			Op:     monkey.Op{Name: "bucket", Key: 1, Pos: 12},
			Reason: monkey.ReasonResult,
			Want:   "0:",
			Got:    "0:1=10",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, monkey.WriteTrace(&buf, want))

	got, err := monkey.ReadTrace(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTrace_SaveAndLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	trace := &monkey.Trace{
		Version:   monkey.TraceVersion,
		Container: "list",
		Settings:  monkey.Settings{Seed: 42, Ops: 2, KeySpace: 8, CheckEvery: 1, MaxLoadFactor: 1},
		Ops:       []monkey.Op{{Name: "push_back", Value: 1}, {Name: "reverse"}},
	}

	path, err := monkey.SaveTrace(dir, trace)
	require.NoError(t, err)
	assert.Equal(t, "list-seed42.yaml.lz4", monkey.TraceName(trace))
	assert.FileExists(t, path)

	loaded, err := monkey.LoadTrace(path)
	require.NoError(t, err)
	assert.Equal(t, trace, loaded)
}

func TestDecodeTrace_RejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "wrong version",
			doc:  "version: 2\ncontainer: deque\nsettings: {seed: 1, key_space: 4}\nops: []\n",
		},
		{
			name: "missing container",
			doc:  "version: 1\nsettings: {seed: 1, key_space: 4}\nops: []\n",
		},
		{
			name: "bad op name",
			doc:  "version: 1\ncontainer: deque\nsettings: {seed: 1, key_space: 4}\nops: [{op: PushBack}]\n",
		},
		{
			name: "unknown op field",
			doc:  "version: 1\ncontainer: deque\nsettings: {seed: 1, key_space: 4}\nops: [{op: pop_back, when: 3}]\n",
		},
		{
			name: "zero key space",
			doc:  "version: 1\ncontainer: deque\nsettings: {seed: 1, key_space: 0}\nops: []\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := monkey.DecodeTrace([]byte(tt.doc))
			require.ErrorIs(t, err, monkey.ErrInvalidTrace)
		})
	}
}

func TestReadTrace_NotCompressed(t *testing.T) {
	t.Parallel()

	_, err := monkey.ReadTrace(bytes.NewBufferString("version: 1\n"))
	require.Error(t, err)
}

func TestDumpDiff(t *testing.T) {
	t.Parallel()

	diff := monkey.DumpDiff([]string{"1", "2", "3"}, []string{"1", "3", "4"})

	assert.Contains(t, diff, "  1\n")
	assert.Contains(t, diff, "- 2\n")
	assert.Contains(t, diff, "+ 4\n")
	assert.NotContains(t, diff, "- 3\n")
	assert.Empty(t, monkey.DumpDiff(nil, nil))
}
