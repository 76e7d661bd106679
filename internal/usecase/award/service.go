package award

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/filter"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/sortby"
	"github.com/kailas-cloud/vocabdex/internal/logger"
)

// Service handles award CRUD, search and index mirroring.
type Service struct {
	repo           Repository
	funders        FunderReader
	index          Index
	now            func() time.Time
	maxPageSize    int
	reindexWorkers int
	reindexBatch   int
}

// New creates an award service.
func New(repo Repository, funders FunderReader, index Index) *Service {
	return &Service{
		repo:           repo,
		funders:        funders,
		index:          index,
		now:            time.Now,
		maxPageSize:    request.MaxSize,
		reindexWorkers: 4,
		reindexBatch:   500,
	}
}

// WithPagination configures the maximum search page size.
func (s *Service) WithPagination(maxPageSize int) *Service {
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// WithReindex configures reindex concurrency and batch size.
func (s *Service) WithReindex(workers, batchSize int) *Service {
	if workers > 0 {
		s.reindexWorkers = workers
	}
	if batchSize > 0 {
		s.reindexBatch = batchSize
	}
	return s
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// clock returns the current time at storage precision (microseconds, UTC).
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create validates and stores a new award, then indexes it.
func (s *Service) Create(ctx context.Context, id identity.Identity, d domaward.Draft) (domaward.Award, error) {
	if err := Authorize(id, ActionCreate, d.PID); err != nil {
		return domaward.Award{}, err
	}
	if err := d.Validate(); err != nil {
		return domaward.Award{}, err
	}
	ref, err := s.resolveFunder(ctx, d.FunderID)
	if err != nil {
		return domaward.Award{}, err
	}

	created, err := s.repo.Create(ctx, domaward.New(d, ref, s.clock()))
	if err != nil {
		return domaward.Award{}, fmt.Errorf("create award: %w", err)
	}
	s.mirror(ctx, created)
	return created, nil
}

// Read returns the award with the given pid. Soft-deleted awards are
// returned as tombstones.
func (s *Service) Read(ctx context.Context, id identity.Identity, pid string) (domaward.Award, error) {
	if err := Authorize(id, ActionRead, pid); err != nil {
		return domaward.Award{}, err
	}
	a, err := s.repo.GetByPID(ctx, pid)
	if err != nil {
		return domaward.Award{}, fmt.Errorf("get award: %w", err)
	}
	return a, nil
}

// Update replaces the metadata of a live award. expectedRevision 0 skips the
// optimistic concurrency check. Tombstones are not updatable.
func (s *Service) Update(
	ctx context.Context, id identity.Identity, pid string, d domaward.Draft, expectedRevision int,
) (domaward.Award, error) {
	if err := Authorize(id, ActionUpdate, pid); err != nil {
		return domaward.Award{}, err
	}
	if d.PID == "" {
		d.PID = pid
	}
	if d.PID != pid {
		return domaward.Award{}, fmt.Errorf("pid %q cannot be changed to %q: %w", pid, d.PID, domain.ErrPermissionDenied)
	}
	if err := d.Validate(); err != nil {
		return domaward.Award{}, err
	}

	current, err := s.current(ctx, pid, expectedRevision)
	if err != nil {
		return domaward.Award{}, err
	}
	if current.IsDeleted() {
		return domaward.Award{}, fmt.Errorf("award %s is deleted: %w", pid, domain.ErrNotFound)
	}
	ref, err := s.resolveFunder(ctx, d.FunderID)
	if err != nil {
		return domaward.Award{}, err
	}

	next := current.Replace(d, ref, s.clock())
	if err := s.repo.Update(ctx, next, current.Revision()); err != nil {
		return domaward.Award{}, fmt.Errorf("update award: %w", err)
	}
	s.mirror(ctx, next)
	return next, nil
}

// Delete soft-deletes an award: metadata is purged, the pid stays resolvable
// and the award leaves the search index. Deleting a tombstone is a no-op.
func (s *Service) Delete(
	ctx context.Context, id identity.Identity, pid string, expectedRevision int,
) (domaward.Award, error) {
	if err := Authorize(id, ActionDelete, pid); err != nil {
		return domaward.Award{}, err
	}
	current, err := s.current(ctx, pid, expectedRevision)
	if err != nil {
		return domaward.Award{}, err
	}
	if current.IsDeleted() {
		return current, nil
	}

	tomb := current.Tombstone(s.clock())
	if err := s.repo.Update(ctx, tomb, current.Revision()); err != nil {
		return domaward.Award{}, fmt.Errorf("delete award: %w", err)
	}
	s.unmirror(ctx, pid)
	return tomb, nil
}

// ForceDelete physically removes an award from the store and the index.
func (s *Service) ForceDelete(ctx context.Context, id identity.Identity, pid string) error {
	if err := Authorize(id, ActionAdmin, pid); err != nil {
		return err
	}
	if err := s.repo.ForceDelete(ctx, pid); err != nil {
		return fmt.Errorf("force delete award: %w", err)
	}
	if err := s.index.Remove(ctx, pid); err != nil {
		return fmt.Errorf("unindex award: %w", err)
	}
	return nil
}

// SearchParams are the raw search inputs of a listing request.
type SearchParams struct {
	Query   string
	Suggest string
	Sort    string
	Page    int
	Size    int
	Funders []string
}

// SearchResult is a page of hits together with the normalized request.
type SearchResult struct {
	Request request.Request
	Page    result.Page
}

// Search validates the parameters and queries the index.
func (s *Service) Search(ctx context.Context, id identity.Identity, p SearchParams) (SearchResult, error) {
	if err := Authorize(id, ActionSearch, ""); err != nil {
		return SearchResult{}, err
	}
	var filters filter.Expression
	if len(p.Funders) > 0 {
		f, err := filter.AnyOf("funder", p.Funders)
		if err != nil {
			return SearchResult{}, fmt.Errorf("funders filter: %w: %w", err, domain.ErrValidation)
		}
		filters = f
	}
	req, err := request.New(p.Query, p.Suggest, sortby.Option(p.Sort), p.Page, p.Size, s.maxPageSize, filters)
	if err != nil {
		return SearchResult{}, err
	}

	page, err := s.index.Search(ctx, req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search awards: %w", err)
	}
	return SearchResult{Request: req, Page: page}, nil
}

// RefreshIndex blocks until all mirrored writes are searchable.
func (s *Service) RefreshIndex(ctx context.Context) error {
	if err := s.index.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	return nil
}

// EnsureIndex creates the search index if it is missing.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.index.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// current loads an award and checks the expected revision.
func (s *Service) current(ctx context.Context, pid string, expectedRevision int) (domaward.Award, error) {
	a, err := s.repo.GetByPID(ctx, pid)
	if err != nil {
		return domaward.Award{}, fmt.Errorf("get award: %w", err)
	}
	if expectedRevision > 0 && a.Revision() != expectedRevision {
		return domaward.Award{}, domain.NewRevisionConflict(a.Revision())
	}
	return a, nil
}

// resolveFunder dereferences the funder name. An unknown funder is a
// validation error of the award, not a missing resource.
func (s *Service) resolveFunder(ctx context.Context, funderID string) (*domaward.FunderRef, error) {
	if funderID == "" {
		return nil, nil
	}
	f, err := s.funders.Get(ctx, funderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("unknown funder %q: %w", funderID, domain.ErrValidation)
		}
		return nil, fmt.Errorf("get funder: %w", err)
	}
	return &domaward.FunderRef{ID: f.ID(), Name: f.Name()}, nil
}

// mirror indexes a written award. The record store is authoritative: a
// failed index write is logged and left for reindex to repair.
func (s *Service) mirror(ctx context.Context, a domaward.Award) {
	if err := s.index.Put(ctx, a); err != nil {
		logger.FromContext(ctx).Error("Index write failed",
			logger.PID(a.PID()),
			zap.Int("revision", a.Revision()),
			zap.Error(err),
		)
	}
}

func (s *Service) unmirror(ctx context.Context, pid string) {
	if err := s.index.Remove(ctx, pid); err != nil {
		logger.FromContext(ctx).Error("Index removal failed",
			logger.PID(pid),
			zap.Error(err),
		)
	}
}
