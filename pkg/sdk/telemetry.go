package vocabdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/vocabdex/internal/domain"
)

// Outcome label values of vocabdex_sdk_operations_total.
const (
	outcomeOK         = "ok"
	outcomeNotFound   = "not_found"
	outcomeForbidden  = "forbidden"
	outcomeConflict   = "conflict"
	outcomeValidation = "validation"
	outcomeError      = "error"
)

// outcomeOf classifies err by the domain sentinel it wraps.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrPermissionDenied), errors.Is(err, domain.ErrUnauthenticated):
		return outcomeForbidden
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrRevisionConflict):
		return outcomeConflict
	case errors.Is(err, domain.ErrValidation):
		return outcomeValidation
	default:
		return outcomeError
	}
}

// telemetry records SDK calls. Both sinks are optional.
type telemetry struct {
	logger  *slog.Logger
	calls   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newTelemetry(logger *slog.Logger, reg prometheus.Registerer) (*telemetry, error) {
	t := &telemetry{logger: logger}
	if reg == nil {
		return t, nil
	}

	calls, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vocabdex",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "outcome"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vocabdex",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency in seconds.",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 30},
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	t.calls, t.latency = calls, latency
	return t, nil
}

// register adds c to reg. When an equal collector is already registered
// (a second client on the same registry) that one is returned instead.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("vocabdex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("vocabdex: metric registered with type %T", are.ExistingCollector)
	}
	return existing, nil
}

// call is one in-flight SDK operation.
type call struct {
	t     *telemetry
	op    string
	attrs []any
	start time.Time
}

// begin starts timing op. attrs are slog key/value pairs describing the target.
func (t *telemetry) begin(op string, attrs ...any) call {
	return call{t: t, op: op, attrs: attrs, start: time.Now()}
}

// end records the call. Rejections caused by the caller log at info,
// everything else that failed at warn.
func (c call) end(err error) {
	if c.t == nil {
		return
	}
	elapsed := time.Since(c.start)
	outcome := outcomeOf(err)

	if c.t.calls != nil {
		c.t.calls.WithLabelValues(c.op, outcome).Inc()
		c.t.latency.WithLabelValues(c.op).Observe(elapsed.Seconds())
	}
	if c.t.logger == nil {
		return
	}

	args := make([]any, 0, len(c.attrs)+8)
	args = append(args, "op", c.op, "outcome", outcome, "duration", elapsed)
	args = append(args, c.attrs...)
	switch outcome {
	case outcomeOK:
		c.t.logger.Debug("vocabdex call", args...)
	case outcomeError:
		c.t.logger.Warn("vocabdex call failed", append(args, "error", err)...)
	default:
		c.t.logger.Info("vocabdex call rejected", append(args, "error", err)...)
	}
}
