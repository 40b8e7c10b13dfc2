// Package file persists episode state as JSON files on the local filesystem.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/errand/pkg/domain"
)

// Store implements ports.StateStore using the local filesystem.
// It stores episodes as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".errand/episodes".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".errand", "episodes")
	}
	return &Store{BasePath: basePath}
}

// Save persists the episode state to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, episodeID string, state *domain.State) error {
	if episodeID == "" {
		return fmt.Errorf("episodeID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure episode directory: %w", err)
	}

	destPath := s.path(episodeID)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+episodeID+"-*.json.part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing episode file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to episode file: %w", err)
	}
	return nil
}

// Load retrieves the episode state from a JSON file.
func (s *Store) Load(ctx context.Context, episodeID string) (*domain.State, error) {
	if episodeID == "" {
		return nil, fmt.Errorf("episodeID cannot be empty")
	}

	data, err := os.ReadFile(s.path(episodeID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("failed to read episode file: %w", err)
	}

	var state domain.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal episode state: %w", err)
	}
	return &state, nil
}

// Delete removes the episode file.
func (s *Store) Delete(ctx context.Context, episodeID string) error {
	if episodeID == "" {
		return fmt.Errorf("episodeID cannot be empty")
	}

	err := os.Remove(s.path(episodeID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete episode file: %w", err)
	}
	return nil
}

// List returns all stored episode IDs, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}

	episodes := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			name := entry.Name()
			episodes = append(episodes, name[:len(name)-len(".json")])
		}
	}
	sort.Strings(episodes)
	return episodes, nil
}

func (s *Store) path(episodeID string) string {
	return filepath.Join(s.BasePath, episodeID+".json")
}
