package award

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	"github.com/kailas-cloud/vocabdex/internal/logger"
	"github.com/kailas-cloud/vocabdex/internal/metrics"
)

// Reindex rebuilds the search index from the record store. The index is
// dropped and recreated, then every live award is written back in batches
// by a bounded pool of workers. Returns the number of indexed awards.
func (s *Service) Reindex(ctx context.Context, id identity.Identity) (int, error) {
	if err := Authorize(id, ActionAdmin, ""); err != nil {
		return 0, err
	}
	if err := s.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset index: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.reindexWorkers)

	var indexed atomic.Int64
	var afterID int64
	for gctx.Err() == nil {
		batch, err := s.repo.ListLive(gctx, afterID, s.reindexBatch)
		if err != nil {
			_ = g.Wait()
			return int(indexed.Load()), fmt.Errorf("list awards after %d: %w", afterID, err)
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].ID()

		g.Go(func() error {
			return s.indexBatch(gctx, batch, &indexed)
		})
		if len(batch) < s.reindexBatch {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return int(indexed.Load()), fmt.Errorf("reindex: %w", err)
	}
	if err := s.index.Refresh(ctx); err != nil {
		return int(indexed.Load()), fmt.Errorf("refresh index: %w", err)
	}

	n := int(indexed.Load())
	logger.FromContext(ctx).Info("Reindex completed", zap.Int("records", n))
	return n, nil
}

func (s *Service) indexBatch(ctx context.Context, batch []domaward.Award, indexed *atomic.Int64) error {
	if err := s.index.PutMany(ctx, batch); err != nil {
		return fmt.Errorf("index batch ending at id %d: %w", batch[len(batch)-1].ID(), err)
	}
	indexed.Add(int64(len(batch)))
	metrics.ReindexedRecordsTotal.Add(float64(len(batch)))
	return nil
}
