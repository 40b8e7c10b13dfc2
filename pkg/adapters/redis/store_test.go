package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/errand/pkg/adapters/redis"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunStateStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	episodeID := "episode-ttl"
	state := domain.NewState(episodeID, domain.TaskSpec{Type: domain.TaskPickAndPlaceSimple}, nil)

	require.NoError(t, store.Save(ctx, episodeID, state))

	episodes, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, episodes, episodeID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, episodeID)
	assert.ErrorIs(t, err, domain.ErrEpisodeNotFound)

	// Index pruning compares against the wall clock, so real time has to pass.
	time.Sleep(1200 * time.Millisecond)

	episodes, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, episodes)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "my-episode", &domain.State{EpisodeID: "my-episode"})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-episode"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "my-episode")
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), "ep", &domain.State{EpisodeID: "ep"}))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"ep"))
	assert.Same(t, client, store.Client())
}
