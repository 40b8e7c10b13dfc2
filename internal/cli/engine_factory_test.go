package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/internal/testutils"
	"github.com/aretw0/errand/pkg/adapters/file"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEngine(t *testing.T) {
	t.Run("Built-in priors", func(t *testing.T) {
		t.Chdir(t.TempDir())
		eng, err := createEngine(EngineOptions{}, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "microwave", eng.Priors().Appliances().Heat)
	})

	t.Run("Priors file in working directory", func(t *testing.T) {
		dir := t.TempDir()
		testutils.WriteFiles(t, dir, map[string]string{
			DefaultPriorsFile: "receptacle_objects:\n  oven: [egg]\nappliances:\n  heat: oven\n",
		})
		t.Chdir(dir)

		eng, err := createEngine(EngineOptions{}, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "oven", eng.Priors().Appliances().Heat)
	})

	t.Run("Explicit priors file", func(t *testing.T) {
		dir := t.TempDir()
		testutils.WriteFiles(t, dir, map[string]string{
			"kitchen.json": `{"receptacle_objects": {"stove": ["pan"]}, "appliances": {"heat": "stove"}}`,
		})
		eng, err := createEngine(EngineOptions{PriorsPath: filepath.Join(dir, "kitchen.json"), MaxSteps: 3}, logging.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []string{"stove"}, eng.Priors().ContainersFor("pan"))
	})

	t.Run("Missing priors file", func(t *testing.T) {
		_, err := createEngine(EngineOptions{PriorsPath: filepath.Join(t.TempDir(), "nope.yaml")}, logging.NewNop())
		assert.Error(t, err)
	})
}

func TestOpenPersistence(t *testing.T) {
	ctx := context.Background()
	state := domain.NewState("ep-1", domain.TaskSpec{Type: domain.TaskPickAndPlaceSimple}, nil)
	state.LastObservation = "the code is 1234"

	roundTrip := func(t *testing.T, p *Persistence) {
		t.Helper()
		require.NoError(t, p.Store.Save(ctx, "ep-1", state))
		loaded, err := p.Store.Load(ctx, "ep-1")
		require.NoError(t, err)
		assert.Equal(t, "ep-1", loaded.EpisodeID)
		ids, err := p.Store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"ep-1"}, ids)
	}

	t.Run("Memory", func(t *testing.T) {
		p, err := OpenPersistence(StoreOptions{})
		require.NoError(t, err)
		defer p.Close()
		assert.Nil(t, p.Locker)
		roundTrip(t, p)
	})

	t.Run("File", func(t *testing.T) {
		p, err := OpenPersistence(StoreOptions{Kind: "file", Dir: t.TempDir()})
		require.NoError(t, err)
		roundTrip(t, p)
	})

	t.Run("Redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		p, err := OpenPersistence(StoreOptions{Kind: "redis", RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer p.Close()
		assert.NotNil(t, p.Locker)
		assert.Len(t, p.SessionOptions(nil, logging.NewNop()), 3)
		roundTrip(t, p)
	})

	t.Run("Encrypted and redacted", func(t *testing.T) {
		dir := t.TempDir()
		key := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
		p, err := OpenPersistence(StoreOptions{Kind: "file", Dir: dir, StateKey: key, Redact: []string{`\d{4}`}})
		require.NoError(t, err)
		roundTrip(t, p)

		loaded, err := p.Store.Load(ctx, "ep-1")
		require.NoError(t, err)
		assert.Equal(t, "the code is ***", loaded.LastObservation)

		raw, err := file.New(dir).Load(ctx, "ep-1")
		require.NoError(t, err)
		assert.NotEmpty(t, raw.Envelope)
		assert.Empty(t, raw.LastObservation)

		data, err := os.ReadFile(filepath.Join(dir, "ep-1.json"))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "code is")
	})

	t.Run("Unknown kind", func(t *testing.T) {
		_, err := OpenPersistence(StoreOptions{Kind: "etcd"})
		assert.Error(t, err)
	})

	t.Run("Bad key", func(t *testing.T) {
		_, err := OpenPersistence(StoreOptions{StateKey: "not-base64!"})
		assert.Error(t, err)
	})
}
