package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricOpsTotal         = "containers.monkey.ops.total"
	metricOpDuration       = "containers.monkey.op.duration.seconds"
	metricDivergencesTotal = "containers.monkey.divergences.total"
	metricRunsTotal        = "containers.monkey.runs.total"
	metricLiveElements     = "containers.monkey.live.elements"

	attrContainer = "container"
	attrOp        = "op"
	attrOutcome   = "outcome"

	// OutcomePass marks a run whose container matched its model throughout.
	OutcomePass = "pass"
	// OutcomeFail marks a run that diverged.
	OutcomeFail = "fail"
)

// opBucketBoundaries covers 100ns to 10ms: single container operations.
var opBucketBoundaries = []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3, 1e-2}

// HarnessMetrics holds the instruments recording monkey runs.
type HarnessMetrics struct {
	opsTotal     metric.Int64Counter
	opDuration   metric.Float64Histogram
	divergences  metric.Int64Counter
	runsTotal    metric.Int64Counter
	liveElements metric.Int64UpDownCounter
}

// NewHarnessMetrics creates the harness instruments from mt. Every
// instrument that fails to register is reported in the joined error.
func NewHarnessMetrics(mt metric.Meter) (*HarnessMetrics, error) {
	var (
		hm   HarnessMetrics
		errs []error
	)

	record := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("create %s: %w", name, err))
		}
	}

	var err error

	hm.opsTotal, err = mt.Int64Counter(metricOpsTotal,
		metric.WithDescription("Container operations executed"), metric.WithUnit("{op}"))
	record(metricOpsTotal, err)

	hm.opDuration, err = mt.Float64Histogram(metricOpDuration,
		metric.WithDescription("Container operation duration in seconds"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(opBucketBoundaries...))
	record(metricOpDuration, err)

	hm.divergences, err = mt.Int64Counter(metricDivergencesTotal,
		metric.WithDescription("Runs where a container diverged from its model"), metric.WithUnit("{divergence}"))
	record(metricDivergencesTotal, err)

	hm.runsTotal, err = mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Completed monkey runs"), metric.WithUnit("{run}"))
	record(metricRunsTotal, err)

	hm.liveElements, err = mt.Int64UpDownCounter(metricLiveElements,
		metric.WithDescription("Elements held by containers under test"), metric.WithUnit("{element}"))
	record(metricLiveElements, err)

	if joined := errors.Join(errs...); joined != nil {
		return nil, joined
	}

	return &hm, nil
}

// RecordOp records one executed operation.
func (hm *HarnessMetrics) RecordOp(ctx context.Context, container, op string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrContainer, container),
		attribute.String(attrOp, op),
	)

	hm.opsTotal.Add(ctx, 1, attrs)
	hm.opDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordDivergence records a container disagreeing with its model.
func (hm *HarnessMetrics) RecordDivergence(ctx context.Context, container string) {
	hm.divergences.Add(ctx, 1, metric.WithAttributes(attribute.String(attrContainer, container)))
}

// RecordRun records a finished run and its outcome.
func (hm *HarnessMetrics) RecordRun(ctx context.Context, container string, passed bool) {
	outcome := OutcomePass
	if !passed {
		outcome = OutcomeFail
	}

	hm.runsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrContainer, container),
		attribute.String(attrOutcome, outcome),
	))
}

// AddLive adjusts the live element count of a container by delta.
func (hm *HarnessMetrics) AddLive(ctx context.Context, container string, delta int) {
	if delta == 0 {
		return
	}

	hm.liveElements.Add(ctx, int64(delta), metric.WithAttributes(attribute.String(attrContainer, container)))
}
