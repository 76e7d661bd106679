package award

import (
	"context"
	"time"

	"go.uber.org/zap"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
	"github.com/kailas-cloud/vocabdex/internal/metrics"
)

// InstrumentedIndex wraps an Index with Prometheus metrics and logging.
type InstrumentedIndex struct {
	inner  Index
	logger *zap.Logger
}

// NewInstrumentedIndex wraps an index with observability.
func NewInstrumentedIndex(inner Index, logger *zap.Logger) *InstrumentedIndex {
	return &InstrumentedIndex{inner: inner, logger: logger}
}

// Ensure creates the index if missing.
func (i *InstrumentedIndex) Ensure(ctx context.Context) error {
	return i.observe("ensure", time.Now(), i.inner.Ensure(ctx))
}

// Reset drops and recreates the index.
func (i *InstrumentedIndex) Reset(ctx context.Context) error {
	start := time.Now()
	err := i.observe("reset", start, i.inner.Reset(ctx))
	if err == nil {
		i.logger.Info("Search index reset", zap.Duration("duration", time.Since(start)))
	}
	return err
}

// Put indexes one award.
func (i *InstrumentedIndex) Put(ctx context.Context, a domaward.Award) error {
	return i.observe("put", time.Now(), i.inner.Put(ctx, a), zap.String("pid", a.PID()))
}

// PutMany indexes a batch of awards.
func (i *InstrumentedIndex) PutMany(ctx context.Context, awards []domaward.Award) error {
	return i.observe("put_many", time.Now(), i.inner.PutMany(ctx, awards), zap.Int("batch_size", len(awards)))
}

// Remove unindexes an award.
func (i *InstrumentedIndex) Remove(ctx context.Context, pid string) error {
	return i.observe("remove", time.Now(), i.inner.Remove(ctx, pid), zap.String("pid", pid))
}

// Search queries the index.
func (i *InstrumentedIndex) Search(ctx context.Context, req request.Request) (result.Page, error) {
	start := time.Now()
	page, err := i.inner.Search(ctx, req)
	if err := i.observe("search", start, err, zap.String("sort", string(req.Sort()))); err != nil {
		return result.Page{}, err
	}
	i.logger.Debug("Search completed",
		zap.String("sort", string(req.Sort())),
		zap.Int("page", req.Page()),
		zap.Int("total", page.Total),
		zap.Duration("duration", time.Since(start)),
	)
	return page, nil
}

// Refresh waits for background indexing.
func (i *InstrumentedIndex) Refresh(ctx context.Context) error {
	return i.observe("refresh", time.Now(), i.inner.Refresh(ctx))
}

// Ping checks index connectivity. Unmeasured.
func (i *InstrumentedIndex) Ping(ctx context.Context) error {
	return i.inner.Ping(ctx) //nolint:wrapcheck // health probe passthrough
}

// observe records the outcome of an operation and passes err through.
func (i *InstrumentedIndex) observe(op string, start time.Time, err error, fields ...zap.Field) error {
	duration := time.Since(start)
	metrics.IndexOperationDuration.WithLabelValues(op).Observe(duration.Seconds())

	if err != nil {
		metrics.IndexOperationsTotal.WithLabelValues(op, "error").Inc()
		i.logger.Error("Index operation failed",
			append(fields,
				zap.String("op", op),
				zap.Duration("duration", duration),
				zap.Error(err),
			)...,
		)
		return err
	}
	metrics.IndexOperationsTotal.WithLabelValues(op, "ok").Inc()
	return nil
}
