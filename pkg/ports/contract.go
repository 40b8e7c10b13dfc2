package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractState(id string) *domain.State {
	s := domain.NewState(id, domain.TaskSpec{
		Type:         domain.TaskPickAndPlaceSimple,
		ObjectTarget: "apple",
		ParentTarget: "countertop",
	}, domain.Plan{{Verb: domain.VerbLook}, {Verb: domain.VerbFind, Target: "apple"}})
	return s
}

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	episodeID := "contract-test-episode-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState(episodeID)
		state.Memory.AddReceptacle("fridge_1", "fridge")
		state.Memory.ClassLocations["apple"] = "fridge_1"
		state.Memory.DeferredActions = []string{"close fridge_1"}
		state.Memory.SubgoalIndex = 1
		state.History = []string{"look"}

		err := store.Save(ctx, episodeID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, episodeID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.EpisodeID, loaded.EpisodeID)
		assert.Equal(t, state.Task, loaded.Task)
		assert.Equal(t, state.Plan, loaded.Plan)
		assert.Equal(t, []string{"fridge_1"}, loaded.Memory.ReceptacleOrder)
		assert.Equal(t, "fridge_1", loaded.Memory.ClassLocations["apple"])
		assert.Equal(t, []string{"close fridge_1"}, loaded.Memory.DeferredActions)
		assert.Equal(t, 1, loaded.Memory.SubgoalIndex)
		assert.Equal(t, []string{"look"}, loaded.History)
	})

	t.Run("Load Returns Independent Copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, episodeID)
		require.NoError(t, err)
		loaded.History = append(loaded.History, "mutated")
		loaded.Memory.ClassLocations["apple"] = "elsewhere"

		again, err := store.Load(ctx, episodeID)
		require.NoError(t, err)
		assert.NotContains(t, again.History, "mutated")
		assert.Equal(t, "fridge_1", again.Memory.ClassLocations["apple"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+episodeID)
		assert.ErrorIs(t, err, domain.ErrEpisodeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, episodeID, contractState(episodeID))
		require.NoError(t, err)

		err = store.Delete(ctx, episodeID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, episodeID)
		assert.ErrorIs(t, err, domain.ErrEpisodeNotFound, "Load after Delete should return ErrEpisodeNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := episodeID + "-1"
		id2 := episodeID + "-2"
		_ = store.Save(ctx, id1, contractState(id1))
		_ = store.Save(ctx, id2, contractState(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		episodes, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, episodes, id1)
		assert.Contains(t, episodes, id2)
	})
}
