package funder

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	domfunder "github.com/kailas-cloud/vocabdex/internal/domain/funder"
)

// InMemoryStore is a map-backed funder store.
type InMemoryStore struct {
	mu      sync.RWMutex
	funders map[string]domfunder.Funder
}

// NewInMemory constructs an empty in-memory funder store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{funders: make(map[string]domfunder.Funder)}
}

func (s *InMemoryStore) Create(_ context.Context, f domfunder.Funder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.funders[f.ID()]; ok {
		return fmt.Errorf("funder %q: %w", f.ID(), domain.ErrAlreadyExists)
	}
	s.funders[f.ID()] = f
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (domfunder.Funder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.funders[id]
	if !ok {
		return domfunder.Funder{}, fmt.Errorf("funder %q: %w", id, domain.ErrNotFound)
	}
	return f, nil
}
