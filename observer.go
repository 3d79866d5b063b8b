package knex

import (
	"context"
	"strconv"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for chain composition.
const (
	// Metrics.
	StepsTotal       = metricz.Key("knex.steps.total")
	StepsFailedTotal = metricz.Key("knex.steps.failed.total")
	StepsRaisedTotal = metricz.Key("knex.steps.raised.total")
	HistoryLength    = metricz.Key("knex.history.length")
	StepDurationMs   = metricz.Key("knex.step.duration.ms")

	// Spans.
	StepSpan = tracez.Key("knex.step")

	// Tags.
	StepTagParser = tracez.Tag("knex.parser")
	StepTagNumber = tracez.Tag("knex.step_number")
	StepTagFailed = tracez.Tag("knex.failed")
	StepTagError  = tracez.Tag("knex.error")

	// Hook event keys.
	StepEventComplete = hookz.Key("knex.step.complete")
	StepEventFailed   = hookz.Key("knex.step.failed")
)

// StepEvent describes one composition. It is emitted via hookz after
// every step, and additionally on the failed key when the step faulted,
// whether the fault was suppressed or raised.
type StepEvent struct {
	Timestamp  time.Time     // When the step finished
	Input      any           // Input handed to the transform
	Output     any           // Result recorded for the step (nil when raised)
	Error      error         // Fault, if any
	Parser     Name          // Transform kind
	StepNumber int           // Position in the chain (1-based)
	Duration   time.Duration // How long the transform ran
	Failed     bool          // Fault suppressed into the result
	Raised     bool          // Fault returned to the caller
}

// Observer collects metrics, spans and step events for every chain it is
// attached to with WithObserver. A nil Observer is valid and records
// nothing, which is the default for chains built without one.
//
// # Observability
//
// Metrics:
//   - knex.steps.total: Counter of compositions
//   - knex.steps.failed.total: Counter of suppressed faults
//   - knex.steps.raised.total: Counter of faults returned to the caller
//   - knex.history.length: Gauge of the latest frontier's history length
//   - knex.step.duration.ms: Gauge of the latest step's duration
//
// Traces:
//   - knex.step: One span per composition
//
// Events (via hooks):
//   - knex.step.complete: Fired after every composition
//   - knex.step.failed: Fired when a step faulted
//
// Example:
//
//	obs := knex.NewObserver()
//	defer obs.Close()
//	obs.OnFailure(func(_ context.Context, e knex.StepEvent) error {
//	    log.Printf("%s failed on %v: %v", e.Parser, e.Input, e.Error)
//	    return nil
//	})
//	seed := knex.New(raw, knex.WithObserver(obs))
type Observer struct {
	clock   clockz.Clock
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[StepEvent]
}

// NewObserver creates an Observer with its metrics registered.
func NewObserver() *Observer {
	metrics := metricz.New()
	metrics.Counter(StepsTotal)
	metrics.Counter(StepsFailedTotal)
	metrics.Counter(StepsRaisedTotal)
	metrics.Gauge(HistoryLength)
	metrics.Gauge(StepDurationMs)

	return &Observer{
		clock:   clockz.RealClock,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[StepEvent](),
	}
}

// WithClock sets a custom clock for testing.
func (o *Observer) WithClock(clock clockz.Clock) *Observer {
	o.clock = clock
	return o
}

// Metrics returns the metrics registry.
func (o *Observer) Metrics() *metricz.Registry {
	return o.metrics
}

// Tracer returns the tracer.
func (o *Observer) Tracer() *tracez.Tracer {
	return o.tracer
}

// OnStep registers a handler called asynchronously after every step.
func (o *Observer) OnStep(handler func(context.Context, StepEvent) error) error {
	_, err := o.hooks.Hook(StepEventComplete, handler)
	return err
}

// OnFailure registers a handler called asynchronously when a step faults.
func (o *Observer) OnFailure(handler func(context.Context, StepEvent) error) error {
	_, err := o.hooks.Hook(StepEventFailed, handler)
	return err
}

// Close gracefully shuts down observability components.
func (o *Observer) Close() error {
	if o == nil {
		return nil
	}
	if o.tracer != nil {
		o.tracer.Close()
	}
	o.hooks.Close()
	return nil
}

// getClock returns the clock to use.
func (o *Observer) getClock() clockz.Clock {
	if o == nil || o.clock == nil {
		return clockz.RealClock
	}
	return o.clock
}

// trace opens a step span and returns a function that closes it.
func (o *Observer) trace(ctx context.Context, parser Name, number int) (context.Context, func(failed bool, err error)) {
	if o == nil {
		return ctx, func(bool, error) {}
	}
	ctx, span := o.tracer.StartSpan(ctx, StepSpan)
	span.SetTag(StepTagParser, parser)
	span.SetTag(StepTagNumber, strconv.Itoa(number))
	return ctx, func(failed bool, err error) {
		span.SetTag(StepTagFailed, strconv.FormatBool(failed))
		if err != nil {
			span.SetTag(StepTagError, err.Error())
		}
		span.Finish()
	}
}

// record updates metrics and emits hook events for a finished step.
func (o *Observer) record(ctx context.Context, event StepEvent) {
	if o == nil {
		return
	}
	o.metrics.Counter(StepsTotal).Inc()
	o.metrics.Gauge(StepDurationMs).Set(float64(event.Duration.Milliseconds()))
	if event.Raised {
		o.metrics.Counter(StepsRaisedTotal).Inc()
	} else {
		if event.Failed {
			o.metrics.Counter(StepsFailedTotal).Inc()
		}
		o.metrics.Gauge(HistoryLength).Set(float64(event.StepNumber))
	}

	_ = o.hooks.Emit(ctx, StepEventComplete, event) //nolint:errcheck
	if event.Failed || event.Raised {
		_ = o.hooks.Emit(ctx, StepEventFailed, event) //nolint:errcheck
	}
}
