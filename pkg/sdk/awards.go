package vocabdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
)

// AwardService manages award records.
type AwardService struct {
	svc   awardUseCase
	actor identity.Identity
	tel   *telemetry
}

// Create registers a new award. The pid must be unused.
func (s *AwardService) Create(ctx context.Context, in AwardInput) (_ Award, err error) {
	c := s.tel.begin("award.create", "pid", in.PID)
	defer func() { c.end(err) }()

	a, err := s.svc.Create(ctx, s.actor, toDraft(in))
	if err != nil {
		return Award{}, fmt.Errorf("create award %s: %w", in.PID, err)
	}
	return fromAward(a), nil
}

// Get returns the award with the given pid, including deleted ones.
func (s *AwardService) Get(ctx context.Context, pid string) (_ Award, err error) {
	c := s.tel.begin("award.get", "pid", pid)
	defer func() { c.end(err) }()

	a, err := s.svc.Read(ctx, s.actor, pid)
	if err != nil {
		return Award{}, fmt.Errorf("get award %s: %w", pid, err)
	}
	return fromAward(a), nil
}

// Update replaces the metadata of an award. expectedRevision 0 skips the
// optimistic concurrency check.
func (s *AwardService) Update(ctx context.Context, pid string, in AwardInput, expectedRevision int) (_ Award, err error) {
	c := s.tel.begin("award.update", "pid", pid, "expected_revision", expectedRevision)
	defer func() { c.end(err) }()

	a, err := s.svc.Update(ctx, s.actor, pid, toDraft(in), expectedRevision)
	if err != nil {
		return Award{}, fmt.Errorf("update award %s: %w", pid, err)
	}
	return fromAward(a), nil
}

// Delete soft-deletes an award and returns its tombstone.
func (s *AwardService) Delete(ctx context.Context, pid string, expectedRevision int) (_ Award, err error) {
	c := s.tel.begin("award.delete", "pid", pid, "expected_revision", expectedRevision)
	defer func() { c.end(err) }()

	a, err := s.svc.Delete(ctx, s.actor, pid, expectedRevision)
	if err != nil {
		return Award{}, fmt.Errorf("delete award %s: %w", pid, err)
	}
	return fromAward(a), nil
}

// Purge physically removes an award. Requires the system identity.
func (s *AwardService) Purge(ctx context.Context, pid string) (err error) {
	c := s.tel.begin("award.purge", "pid", pid)
	defer func() { c.end(err) }()

	if err = s.svc.ForceDelete(ctx, s.actor, pid); err != nil {
		return fmt.Errorf("purge award %s: %w", pid, err)
	}
	return nil
}

// Search runs a full-text or suggest query over live awards.
func (s *AwardService) Search(ctx context.Context, opts SearchOptions) (_ SearchResult, err error) {
	c := s.tel.begin("award.search", "sort", opts.Sort, "page", opts.Page, "size", opts.Size)
	defer func() { c.end(err) }()

	res, err := s.svc.Search(ctx, s.actor, awarduc.SearchParams{
		Query:   opts.Query,
		Suggest: opts.Suggest,
		Sort:    opts.Sort,
		Page:    opts.Page,
		Size:    opts.Size,
		Funders: opts.Funders,
	})
	if err != nil {
		return SearchResult{}, fmt.Errorf("search awards: %w", err)
	}
	return fromSearch(res), nil
}

// Reindex rebuilds the search index from the record store and returns the
// number of indexed awards. Requires the system identity.
func (s *AwardService) Reindex(ctx context.Context) (_ int, err error) {
	c := s.tel.begin("award.reindex")
	defer func() { c.end(err) }()

	n, err := s.svc.Reindex(ctx, s.actor)
	if err != nil {
		return n, fmt.Errorf("reindex: %w", err)
	}
	return n, nil
}

// Refresh blocks until previous writes are visible to Search.
func (s *AwardService) Refresh(ctx context.Context) error {
	if err := s.svc.RefreshIndex(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}
