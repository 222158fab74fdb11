package monkey

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pierrec/lz4/v4"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// TraceVersion is the trace format version written by SaveTrace.
const TraceVersion = 1

// TraceExt is the file extension of saved traces.
const TraceExt = ".yaml.lz4"

// ErrInvalidTrace is returned for a trace that does not match the schema.
var ErrInvalidTrace = errors.New("invalid trace")

//go:embed trace.schema.json
var traceSchemaJSON string

var traceSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(traceSchemaJSON))
})

// Trace is a reproducer: the settings and every op of a diverging run.
type Trace struct {
	Version    int         `json:"version"              yaml:"version"`
	Container  string      `json:"container"            yaml:"container"`
	Settings   Settings    `json:"settings"             yaml:"settings"`
	Ops        []Op        `json:"ops"                  yaml:"ops"`
	Divergence *Divergence `json:"divergence,omitempty" yaml:"divergence,omitempty"`
}

// WriteTrace encodes t as YAML compressed with an LZ4 frame.
func WriteTrace(w io.Writer, t *Trace) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode trace: %w", err)
	}

	zw := lz4.NewWriter(w)

	if _, err = zw.Write(data); err != nil {
		return fmt.Errorf("compress trace: %w", err)
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("compress trace: %w", err)
	}

	return nil
}

// ReadTrace decodes a trace written by WriteTrace and validates it against
// the trace schema.
func ReadTrace(r io.Reader) (*Trace, error) {
	data, err := io.ReadAll(lz4.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("decompress trace: %w", err)
	}

	return DecodeTrace(data)
}

// DecodeTrace validates and decodes an uncompressed YAML trace.
func DecodeTrace(data []byte) (*Trace, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}

	if err := validateTrace(doc); err != nil {
		return nil, err
	}

	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}

	return &t, nil
}

func validateTrace(doc any) error {
	schema, err := traceSchema()
	if err != nil {
		return fmt.Errorf("load trace schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate trace: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return fmt.Errorf("%w: %s", ErrInvalidTrace, strings.Join(problems, "; "))
}

// TraceName returns the file name SaveTrace uses for t.
func TraceName(t *Trace) string {
	return fmt.Sprintf("%s-seed%d%s", t.Container, t.Settings.Seed, TraceExt)
}

// SaveTrace writes t under dir and returns the file path.
func SaveTrace(dir string, t *Trace) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create trace dir: %w", err)
	}

	path := filepath.Join(dir, TraceName(t))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create trace: %w", err)
	}

	if err = WriteTrace(f, t); err != nil {
		f.Close()

		return "", err
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("close trace: %w", err)
	}

	return path, nil
}

// LoadTrace reads and validates the trace at path.
func LoadTrace(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	defer f.Close()

	return ReadTrace(f)
}
