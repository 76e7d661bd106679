package award

import (
	"context"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/request"
	"github.com/kailas-cloud/vocabdex/internal/domain/search/result"
)

// Repository is the record store, the source of truth for awards.
type Repository interface {
	Create(ctx context.Context, a domaward.Award) (domaward.Award, error)
	GetByPID(ctx context.Context, pid string) (domaward.Award, error)
	Update(ctx context.Context, a domaward.Award, expectedRevision int) error
	ForceDelete(ctx context.Context, pid string) error
	ListLive(ctx context.Context, afterID int64, limit int) ([]domaward.Award, error)
	Ping(ctx context.Context) error
}

// FunderReader resolves funder references.
type FunderReader interface {
	Get(ctx context.Context, id string) (domfunder.Funder, error)
}

// Index is the search mirror of live awards.
type Index interface {
	Ensure(ctx context.Context) error
	Reset(ctx context.Context) error
	Put(ctx context.Context, a domaward.Award) error
	PutMany(ctx context.Context, awards []domaward.Award) error
	Remove(ctx context.Context, pid string) error
	Search(ctx context.Context, req request.Request) (result.Page, error)
	Refresh(ctx context.Context) error
	Ping(ctx context.Context) error
}
