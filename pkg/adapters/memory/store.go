// Package memory provides in-process adapters for errand ports.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/errand/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.State
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.State),
	}
}

// Save persists a deep copy of the state.
func (s *Store) Save(ctx context.Context, episodeID string, state *domain.State) error {
	copied := state.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[episodeID] = copied
	return nil
}

// Load retrieves a copy of the state so callers cannot mutate the stored value.
func (s *Store) Load(ctx context.Context, episodeID string) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[episodeID]
	if !ok {
		return nil, domain.ErrEpisodeNotFound
	}
	return state.Clone(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, episodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, episodeID)
	return nil
}

// List returns stored episode IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	episodes := make([]string, 0, len(s.data))
	for id := range s.data {
		episodes = append(episodes, id)
	}
	sort.Strings(episodes)
	return episodes, nil
}
