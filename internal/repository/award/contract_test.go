package award

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
)

// recordStore is the behavior shared by every award store implementation.
type recordStore interface {
	Create(ctx context.Context, a domaward.Award) (domaward.Award, error)
	GetByPID(ctx context.Context, pid string) (domaward.Award, error)
	Update(ctx context.Context, a domaward.Award, expectedRevision int) error
	ForceDelete(ctx context.Context, pid string) error
	ListLive(ctx context.Context, afterID int64, limit int) ([]domaward.Award, error)
	Ping(ctx context.Context) error
}

const testFunderID = "00k4n6c32"

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testAward(pid, number, title string) domaward.Award {
	return domaward.New(domaward.Draft{
		PID:    pid,
		Number: number,
		Title:  map[string]string{"en": title},
		Identifiers: []domaward.Identifier{
			{Identifier: "https://cordis.europa.eu/project/id/" + number, Scheme: domaward.SchemeURL},
			{Identifier: "10.3030/" + number, Scheme: domaward.SchemeDOI},
		},
	}, &domaward.FunderRef{ID: testFunderID, Name: "European Commission"}, testNow)
}

// runStoreContract exercises an award store against the shared semantics.
func runStoreContract(t *testing.T, newStore func(t *testing.T) recordStore) {
	t.Run("create assigns id and rejects duplicate pid", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, testAward("755021", "755021", "Personalised Treatment For Cystic Fibrosis Patients"))
		require.NoError(t, err)
		assert.Positive(t, created.ID())

		_, err = s.Create(ctx, testAward("755021", "1", "other"))
		require.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("get round-trips all fields", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		want, err := s.Create(ctx, testAward("847507", "847507", "Host directed medicine in invasive fungal infection"))
		require.NoError(t, err)

		got, err := s.GetByPID(ctx, "847507")
		require.NoError(t, err)
		assert.Equal(t, want.Snapshot(), got.Snapshot())
	})

	t.Run("get unknown pid", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByPID(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("update checks revision", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.Create(ctx, testAward("825785", "825785", "Palliative care in Parkinson disease"))
		require.NoError(t, err)

		next := a.Replace(domaward.Draft{
			PID:    "825785",
			Number: "825785",
			Title:  map[string]string{"en": "New title"},
		}, nil, testNow.Add(time.Hour))
		require.NoError(t, s.Update(ctx, next, a.Revision()))

		stale := a.Replace(domaward.Draft{PID: "825785"}, nil, testNow.Add(2*time.Hour))
		err = s.Update(ctx, stale, a.Revision())
		var conflict *domain.RevisionConflictError
		require.True(t, errors.As(err, &conflict), "expected revision conflict, got %v", err)
		assert.Equal(t, 2, conflict.CurrentRevision)

		got, err := s.GetByPID(ctx, "825785")
		require.NoError(t, err)
		assert.Equal(t, "New title", got.Title()["en"])
		assert.Nil(t, got.Funder())
		assert.Equal(t, 2, got.Revision())
	})

	t.Run("tombstone stays resolvable and leaves live listing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.Create(ctx, testAward("755021", "755021", "Cystic fibrosis"))
		require.NoError(t, err)
		b, err := s.Create(ctx, testAward("847507", "847507", "Fungal infection"))
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, a.Tombstone(testNow.Add(time.Minute)), a.Revision()))

		got, err := s.GetByPID(ctx, "755021")
		require.NoError(t, err)
		assert.True(t, got.IsDeleted())
		assert.Empty(t, got.Title())
		assert.Empty(t, got.Identifiers())

		live, err := s.ListLive(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, live, 1)
		assert.Equal(t, b.PID(), live[0].PID())
	})

	t.Run("list live pages by id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		var ids []int64
		for _, pid := range []string{"a1", "a2", "a3"} {
			a, err := s.Create(ctx, testAward(pid, pid, pid))
			require.NoError(t, err)
			ids = append(ids, a.ID())
		}

		page, err := s.ListLive(ctx, 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "a1", page[0].PID())

		rest, err := s.ListLive(ctx, page[1].ID(), 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, ids[2], rest[0].ID())
	})

	t.Run("force delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Create(ctx, testAward("755021", "755021", "x"))
		require.NoError(t, err)
		require.NoError(t, s.ForceDelete(ctx, "755021"))

		_, err = s.GetByPID(ctx, "755021")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.ErrorIs(t, s.ForceDelete(ctx, "755021"), domain.ErrNotFound)

		_, err = s.Create(ctx, testAward("755021", "755021", "x"))
		require.NoError(t, err, "pid is reusable after physical deletion")
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
