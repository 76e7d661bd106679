package vocabdex

import (
	"context"

	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
	"github.com/kailas-cloud/vocabdex/internal/domain/identity"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
)

// --- awardUseCase mock ---

type mockAwardUC struct {
	createFn      func(ctx context.Context, id identity.Identity, d domaward.Draft) (domaward.Award, error)
	readFn        func(ctx context.Context, id identity.Identity, pid string) (domaward.Award, error)
	updateFn      func(ctx context.Context, id identity.Identity, pid string, d domaward.Draft, rev int) (domaward.Award, error)
	deleteFn      func(ctx context.Context, id identity.Identity, pid string, rev int) (domaward.Award, error)
	forceDeleteFn func(ctx context.Context, id identity.Identity, pid string) error
	searchFn      func(ctx context.Context, id identity.Identity, p awarduc.SearchParams) (awarduc.SearchResult, error)
	reindexFn     func(ctx context.Context, id identity.Identity) (int, error)
}

func (m *mockAwardUC) Create(ctx context.Context, id identity.Identity, d domaward.Draft) (domaward.Award, error) {
	return m.createFn(ctx, id, d)
}

func (m *mockAwardUC) Read(ctx context.Context, id identity.Identity, pid string) (domaward.Award, error) {
	return m.readFn(ctx, id, pid)
}

func (m *mockAwardUC) Update(
	ctx context.Context, id identity.Identity, pid string, d domaward.Draft, rev int,
) (domaward.Award, error) {
	return m.updateFn(ctx, id, pid, d, rev)
}

func (m *mockAwardUC) Delete(ctx context.Context, id identity.Identity, pid string, rev int) (domaward.Award, error) {
	return m.deleteFn(ctx, id, pid, rev)
}

func (m *mockAwardUC) ForceDelete(ctx context.Context, id identity.Identity, pid string) error {
	return m.forceDeleteFn(ctx, id, pid)
}

func (m *mockAwardUC) Search(
	ctx context.Context, id identity.Identity, p awarduc.SearchParams,
) (awarduc.SearchResult, error) {
	return m.searchFn(ctx, id, p)
}

func (m *mockAwardUC) Reindex(ctx context.Context, id identity.Identity) (int, error) {
	return m.reindexFn(ctx, id)
}

func (m *mockAwardUC) RefreshIndex(context.Context) error { return nil }

// --- funderUseCase mock ---

type mockFunderUC struct {
	createFn func(ctx context.Context, id identity.Identity, fid, name, country string) (domfunder.Funder, error)
	getFn    func(ctx context.Context, id string) (domfunder.Funder, error)
}

func (m *mockFunderUC) Create(
	ctx context.Context, id identity.Identity, fid, name, country string,
) (domfunder.Funder, error) {
	return m.createFn(ctx, id, fid, name, country)
}

func (m *mockFunderUC) Get(ctx context.Context, id string) (domfunder.Funder, error) {
	return m.getFn(ctx, id)
}
