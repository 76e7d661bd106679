package award

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	domaward "github.com/kailas-cloud/vocabdex/internal/domain/award"
)

// InMemoryStore is a map-backed award store for tests and the memory driver.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byPID  map[string]domaward.Snapshot
}

// NewInMemory constructs an empty in-memory award store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{byPID: make(map[string]domaward.Snapshot)}
}

func (s *InMemoryStore) Create(_ context.Context, a domaward.Award) (domaward.Award, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPID[a.PID()]; ok {
		return domaward.Award{}, fmt.Errorf("award %q: %w", a.PID(), domain.ErrAlreadyExists)
	}
	s.nextID++
	a = a.WithID(s.nextID)
	s.byPID[a.PID()] = a.Snapshot()
	return a, nil
}

func (s *InMemoryStore) GetByPID(_ context.Context, pid string) (domaward.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.byPID[pid]
	if !ok {
		return domaward.Award{}, fmt.Errorf("award %q: %w", pid, domain.ErrNotFound)
	}
	return cloneAward(snap), nil
}

func (s *InMemoryStore) Update(_ context.Context, a domaward.Award, expectedRevision int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byPID[a.PID()]
	if !ok || cur.ID != a.ID() {
		return fmt.Errorf("award %q: %w", a.PID(), domain.ErrNotFound)
	}
	if cur.Revision != expectedRevision {
		return domain.NewRevisionConflict(cur.Revision)
	}
	s.byPID[a.PID()] = a.Snapshot()
	return nil
}

func (s *InMemoryStore) ForceDelete(_ context.Context, pid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byPID[pid]; !ok {
		return fmt.Errorf("award %q: %w", pid, domain.ErrNotFound)
	}
	delete(s.byPID, pid)
	return nil
}

func (s *InMemoryStore) ListLive(_ context.Context, afterID int64, limit int) ([]domaward.Award, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]domaward.Snapshot, 0, len(s.byPID))
	for _, snap := range s.byPID {
		if !snap.Deleted && snap.ID > afterID {
			live = append(live, snap)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })
	if limit > 0 && len(live) > limit {
		live = live[:limit]
	}

	out := make([]domaward.Award, 0, len(live))
	for _, snap := range live {
		out = append(out, cloneAward(snap))
	}
	return out, nil
}

func (s *InMemoryStore) Ping(_ context.Context) error { return nil }

// cloneAward detaches the returned award from the stored maps and slices.
func cloneAward(snap domaward.Snapshot) domaward.Award {
	return domaward.Reconstruct(domaward.Reconstruct(snap).Snapshot())
}
