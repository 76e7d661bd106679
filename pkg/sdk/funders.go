package vocabdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
)

// FunderService manages funders referenced by awards.
type FunderService struct {
	svc   funderUseCase
	actor identity.Identity
	tel   *telemetry
}

// Create registers a funder.
func (s *FunderService) Create(ctx context.Context, f Funder) (_ Funder, err error) {
	c := s.tel.begin("funder.create", "funder", f.ID)
	defer func() { c.end(err) }()

	created, err := s.svc.Create(ctx, s.actor, f.ID, f.Name, f.Country)
	if err != nil {
		return Funder{}, fmt.Errorf("create funder %s: %w", f.ID, err)
	}
	return fromFunder(created), nil
}

// Get returns a funder by id.
func (s *FunderService) Get(ctx context.Context, id string) (_ Funder, err error) {
	c := s.tel.begin("funder.get", "funder", id)
	defer func() { c.end(err) }()

	f, err := s.svc.Get(ctx, id)
	if err != nil {
		return Funder{}, fmt.Errorf("get funder %s: %w", id, err)
	}
	return fromFunder(f), nil
}
