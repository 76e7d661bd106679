package funder

import (
	"context"

	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
)

// Repository defines the storage contract for funders.
type Repository interface {
	Create(ctx context.Context, f domfunder.Funder) error
	Get(ctx context.Context, id string) (domfunder.Funder, error)
}
