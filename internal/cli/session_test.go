package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedEpisode(t *testing.T, store *memory.Store, id string) *domain.State {
	t.Helper()
	ctx := context.Background()
	eng := errand.New()
	state, err := eng.Start(ctx, id, appleSpec)
	require.NoError(t, err)
	state, _, err = eng.Step(ctx, state, "Welcome! You see a countertop_1.")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, id, state))
	return state
}

func TestEpisodeCommands(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	ctx := context.Background()
	store := memory.NewStore()

	var out bytes.Buffer
	require.NoError(t, ListEpisodes(ctx, store, &out))
	assert.Equal(t, "No episodes found.\n", out.String())

	startedEpisode(t, store, "ep-1")

	out.Reset()
	require.NoError(t, ListEpisodes(ctx, store, &out))
	assert.Contains(t, out.String(), "- ep-1 [active] pick_and_place_simple, 1 steps")

	out.Reset()
	require.NoError(t, InspectEpisode(ctx, store, "ep-1", FormatJSON, &out))
	var state domain.State
	require.NoError(t, json.Unmarshal(out.Bytes(), &state))
	assert.Equal(t, []string{"look"}, state.History)

	out.Reset()
	require.NoError(t, InspectEpisode(ctx, store, "ep-1", FormatPlan, &out))
	assert.Contains(t, out.String(), "2. `find(apple)` **<- current**")

	out.Reset()
	require.NoError(t, InspectEpisode(ctx, store, "ep-1", FormatGraph, &out))
	assert.Contains(t, out.String(), "class sg0 done;")
	assert.Contains(t, out.String(), "class sg1 current;")

	assert.Error(t, InspectEpisode(ctx, store, "ep-1", "yaml", &out))
	assert.ErrorIs(t, InspectEpisode(ctx, store, "nope", FormatJSON, &out), domain.ErrEpisodeNotFound)

	out.Reset()
	require.NoError(t, RemoveEpisodes(ctx, store, []string{"ep-1"}, &out))
	assert.Equal(t, "Removed episode 'ep-1'\n", out.String())
}

func TestWatchEpisode(t *testing.T) {
	store := memory.NewStore()
	state := startedEpisode(t, store, "ep-w")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		done <- WatchEpisode(ctx, store, "ep-w", 10*time.Millisecond, &out, logging.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	finished := errand.New().MarkSucceeded(context.Background(), state)
	require.NoError(t, store.Save(context.Background(), "ep-w", finished))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("watch did not stop on terminal status")
	}

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"commands":["look"]`)
	assert.Contains(t, string(lines[1]), `"status":"succeeded"`)
}

func TestWatchEpisode_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.NoError(t, WatchEpisode(ctx, memory.NewStore(), "missing", time.Millisecond, &out, logging.NewNop()))
	assert.Empty(t, out.String())
}
