package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// DefaultWatchInterval is how often WatchEpisode polls the store.
const DefaultWatchInterval = 500 * time.Millisecond

// WatchEpisode follows an episode in the store and prints every change as one JSON diff
// per line. It waits for episodes that do not exist yet and returns once the episode ends
// or ctx is done.
func WatchEpisode(ctx context.Context, store ports.StateStore, id string, interval time.Duration, w io.Writer, logger *slog.Logger) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var prev *domain.State
	for {
		state, err := store.Load(ctx, id)
		switch {
		case errors.Is(err, domain.ErrEpisodeNotFound):
			if prev != nil {
				printSystemMessage(w, "Episode '%s' was removed.", id)
				return nil
			}
			logger.Debug("Waiting for episode", "episode", id)
		case err != nil:
			return fmt.Errorf("error loading episode '%s': %w", id, err)
		default:
			if diff := domain.Diff(prev, state); diff != nil {
				data, err := json.Marshal(diff)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
			}
			prev = state
			if state.Status.Terminal() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return handleExecutionError(ctx.Err())
		case <-ticker.C:
		}
	}
}
