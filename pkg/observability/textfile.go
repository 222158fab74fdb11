package observability

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoRegistry is returned when metrics are written before Init.
var ErrNoRegistry = errors.New("no metrics registry")

// WriteMetrics dumps every metric gathered by registry to path in the
// Prometheus text exposition format, for the node exporter textfile
// collector or CI artifacts.
func WriteMetrics(registry *prometheus.Registry, path string) error {
	if registry == nil {
		return ErrNoRegistry
	}

	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}

	return nil
}
