package ports

import (
	"context"

	"github.com/aretw0/errand/pkg/domain"
)

// StateStore defines the interface for persisting episode state.
// This allows episodes to be stepped across processes and resumed after restarts.
type StateStore interface {
	// Save persists the state for a given episode ID.
	Save(ctx context.Context, episodeID string, state *domain.State) error

	// Load retrieves the state for a given episode ID.
	// Returns domain.ErrEpisodeNotFound if the episode does not exist.
	Load(ctx context.Context, episodeID string) (*domain.State, error)

	// Delete removes the state for a given episode ID.
	Delete(ctx context.Context, episodeID string) error

	// List returns the IDs of all stored episodes.
	List(ctx context.Context) ([]string, error)
}
