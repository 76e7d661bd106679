package funder

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

// Service manages funder records.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a funder service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Create registers a funder. Requires the vocabulary-manager or system role.
func (s *Service) Create(ctx context.Context, id identity.Identity, fid, name, country string) (domfunder.Funder, error) {
	if !id.IsSystem() && !id.HasRole(identity.RoleManager) {
		return domfunder.Funder{}, fmt.Errorf("creating funders requires the %s role: %w",
			identity.RoleManager, domain.ErrPermissionDenied)
	}
	f, err := domfunder.New(fid, name, country, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return domfunder.Funder{}, err
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return domfunder.Funder{}, fmt.Errorf("create funder: %w", err)
	}
	return f, nil
}

// Get returns a funder by id.
func (s *Service) Get(ctx context.Context, id string) (domfunder.Funder, error) {
	f, err := s.repo.Get(ctx, id)
	if err != nil {
		return domfunder.Funder{}, fmt.Errorf("get funder: %w", err)
	}
	return f, nil
}
