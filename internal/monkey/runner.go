package monkey

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/containers/pkg/observability"
)

// Divergence reasons.
const (
	ReasonResult = "result"
	ReasonLen    = "len"
	ReasonDump   = "dump"
	ReasonCheck  = "check"
	ReasonLeak   = "leak"
)

// Divergence is the first point where a container disagreed with its model.
type Divergence struct {
	Step   int    `json:"step"           yaml:"step"`
	Op     Op     `json:"op"             yaml:"op"`
	Reason string `json:"reason"         yaml:"reason"`
	Want   string `json:"want,omitempty" yaml:"want,omitempty"`
	Got    string `json:"got,omitempty"  yaml:"got,omitempty"`
	Diff   string `json:"diff,omitempty" yaml:"diff,omitempty"`
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("step %d %s: %s diverged: want %q, got %q", d.Step, d.Op, d.Reason, d.Want, d.Got)
}

// Report summarizes one container run or replay.
type Report struct {
	Container  string
	Family     string
	Seed       int64
	Ops        int
	MaxLen     int
	Elapsed    time.Duration
	Truncated  bool
	Divergence *Divergence
	Trace      *Trace
	TracePath  string
}

// Passed reports whether the container matched its model throughout.
func (r Report) Passed() bool { return r.Divergence == nil }

// OpsPerSecond returns the run throughput, model time included.
func (r Report) OpsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}

	return float64(r.Ops) / r.Elapsed.Seconds()
}

// Runner executes monkey runs.
type Runner struct {
	settings Settings
	traceDir string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *observability.HarnessMetrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) { r.logger = logger }
}

// WithTracer sets the tracer spans are started on.
func WithTracer(tracer trace.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = tracer }
}

// WithMetrics records ops, runs and divergences in hm.
func WithMetrics(hm *observability.HarnessMetrics) RunnerOption {
	return func(r *Runner) { r.metrics = hm }
}

// WithTraceDir makes diverging runs save their trace under dir.
func WithTraceDir(dir string) RunnerOption {
	return func(r *Runner) { r.traceDir = dir }
}

// NewRunner creates a runner for settings.
func NewRunner(settings Settings, opts ...RunnerOption) *Runner {
	r := &Runner{
		settings: settings,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   noop.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.settings.CheckEvery = max(r.settings.CheckEvery, 1)

	return r
}

// Run drives kind with Settings.Ops random ops. A divergence is reported,
// not returned as an error; errors mean the run could not be carried out.
// A cancelled ctx ends the run early.
func (r *Runner) Run(ctx context.Context, kind Kind) (Report, error) {
	seed := kind.Seed(r.settings.Seed)
	gen := newGenerator(seed, kind.Ops, max(r.settings.KeySpace, 1))

	ctx, span := r.tracer.Start(ctx, "monkey.run", trace.WithAttributes(
		attribute.String("container", kind.Name),
		attribute.Int64("seed", seed),
		attribute.Int("ops", r.settings.Ops),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "run started", "container", kind.Name, "seed", seed, "ops", r.settings.Ops)

	report, ops, err := r.execute(ctx, kind, r.settings, func(step int) (Op, bool) {
		if step >= r.settings.Ops {
			return Op{}, false
		}

		return gen.next(), true
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return report, err
	}

	report.Seed = seed

	if r.metrics != nil {
		r.metrics.RecordRun(ctx, kind.Name, report.Passed())
	}

	if report.Passed() {
		r.logger.InfoContext(ctx, "run passed", "container", kind.Name,
			"ops", report.Ops, "elapsed", report.Elapsed, "truncated", report.Truncated)

		return report, nil
	}

	span.SetStatus(codes.Error, report.Divergence.Reason)

	report.Trace = &Trace{
		Version:    TraceVersion,
		Container:  kind.Name,
		Settings:   r.settings,
		Ops:        ops,
		Divergence: report.Divergence,
	}

	if r.traceDir != "" {
		path, saveErr := SaveTrace(r.traceDir, report.Trace)
		if saveErr != nil {
			return report, saveErr
		}

		report.TracePath = path
		r.logger.DebugContext(ctx, "trace written", "container", kind.Name, "path", path)
	}

	return report, nil
}

// Replay re-executes a recorded trace and reports whether it still diverges.
func (r *Runner) Replay(ctx context.Context, t *Trace) (Report, error) {
	kind, err := Lookup(t.Container)
	if err != nil {
		return Report{}, err
	}

	ctx, span := r.tracer.Start(ctx, "monkey.replay", trace.WithAttributes(
		attribute.String("container", kind.Name),
		attribute.Int("ops", len(t.Ops)),
	))
	defer span.End()

	r.logger.InfoContext(ctx, "replay started", "container", kind.Name, "ops", len(t.Ops))

	settings := t.Settings
	settings.CheckEvery = 1

	report, _, err := r.execute(ctx, kind, settings, func(step int) (Op, bool) {
		if step >= len(t.Ops) {
			return Op{}, false
		}

		return t.Ops[step], true
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return report, err
	}

	report.Seed = t.Settings.Seed
	report.Trace = t

	if !report.Passed() {
		span.SetStatus(codes.Error, report.Divergence.Reason)
	}

	return report, nil
}

func (r *Runner) execute(
	ctx context.Context,
	kind Kind,
	settings Settings,
	next func(step int) (Op, bool),
) (Report, []Op, error) {
	report := Report{Container: kind.Name, Family: kind.Family}
	actual, model := kind.Real(settings), kind.Model(settings)

	var ops []Op

	start := time.Now()

	for step := 0; ; step++ {
		if ctx.Err() != nil {
			report.Truncated = true

			break
		}

		op, ok := next(step)
		if !ok {
			break
		}

		ops = append(ops, op)
		before := actual.Len()

		opStart := time.Now()
		got, err := actual.Apply(op)
		opDuration := time.Since(opStart)

		if err != nil {
			return report, ops, fmt.Errorf("step %d: %w", step, err)
		}

		want, err := model.Apply(op)
		if err != nil {
			return report, ops, fmt.Errorf("step %d: %w", step, err)
		}

		report.Ops++
		report.MaxLen = max(report.MaxLen, actual.Len())
		r.record(ctx, kind.Name, op.Name, opDuration, actual.Len()-before)

		if got != want {
			report.Divergence = &Divergence{Step: step, Op: op, Reason: ReasonResult, Want: want, Got: got}
		} else if (step+1)%settings.CheckEvery == 0 {
			report.Divergence = compareState(step, op, model, actual)
		}

		if report.Divergence != nil {
			break
		}
	}

	if report.Divergence == nil {
		last := Op{Name: "final"}
		if len(ops) > 0 {
			last = ops[len(ops)-1]
		}

		report.Divergence = compareState(len(ops), last, model, actual)
	}

	live := actual.Len()

	if report.Divergence == nil {
		if err := actual.Close(); err != nil {
			report.Divergence = &Divergence{Step: len(ops), Op: Op{Name: "close"}, Reason: ReasonLeak, Got: err.Error()}
		}
	}

	r.record(ctx, kind.Name, "", 0, -live)

	if report.Divergence != nil {
		r.diverged(ctx, kind.Name, report.Divergence)
	}

	report.Elapsed = time.Since(start)

	return report, ops, nil
}

func (r *Runner) record(ctx context.Context, container, op string, d time.Duration, delta int) {
	if r.metrics == nil {
		return
	}

	if op != "" {
		r.metrics.RecordOp(ctx, container, op, d)
	}

	r.metrics.AddLive(ctx, container, delta)
}

func (r *Runner) diverged(ctx context.Context, container string, d *Divergence) {
	if r.metrics != nil {
		r.metrics.RecordDivergence(ctx, container)
	}

	trace.SpanFromContext(ctx).AddEvent("divergence", trace.WithAttributes(
		attribute.Int("step", d.Step),
		attribute.String("op", d.Op.Name),
		attribute.String("reason", d.Reason),
	))

	r.logger.WarnContext(ctx, "container diverged from model",
		"container", container, "step", d.Step, "op", d.Op.String(), "reason", d.Reason,
		"want", d.Want, "got", d.Got)
}

// compareState checks length, dump and structure of actual against model.
func compareState(step int, op Op, model, actual Subject) *Divergence {
	if model.Len() != actual.Len() {
		return &Divergence{Step: step, Op: op, Reason: ReasonLen, Want: itoa(model.Len()), Got: itoa(actual.Len())}
	}

	want, got := model.Dump(), actual.Dump()
	if !slices.Equal(want, got) {
		return &Divergence{
			Step: step, Op: op, Reason: ReasonDump,
			Want: strings.Join(want, " "), Got: strings.Join(got, " "),
			Diff: DumpDiff(want, got),
		}
	}

	if err := actual.Check(); err != nil {
		return &Divergence{Step: step, Op: op, Reason: ReasonCheck, Got: err.Error()}
	}

	return nil
}
