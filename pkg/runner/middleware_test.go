package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/errand/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestMultiInterceptor(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	var calls []string
	record := func(name string, err error) CommandInterceptor {
		return func(context.Context, string, []string) error {
			calls = append(calls, name)
			return err
		}
	}

	chain := MultiInterceptor(record("a", nil), nil, record("b", boom), record("c", nil))
	assert.ErrorIs(t, chain(ctx, "look", nil), boom)
	assert.Equal(t, []string{"a", "b"}, calls)

	assert.NoError(t, MultiInterceptor(AllowAll())(ctx, "look", []string{"inventory"}))
}

func TestStrictAdmissible(t *testing.T) {
	ctx := context.Background()
	strict := StrictAdmissible()

	assert.NoError(t, strict(ctx, "look", nil), "empty admissible set allows everything")
	assert.NoError(t, strict(ctx, "look", []string{"look", "inventory"}))
	assert.ErrorIs(t, strict(ctx, "fly", []string{"look"}), ErrInadmissible)
}

func TestLogInadmissible(t *testing.T) {
	var buf bytes.Buffer
	check := LogInadmissible(logging.NewWithWriter(&buf, slog.LevelDebug))

	assert.NoError(t, check(context.Background(), "look", []string{"look"}))
	assert.Empty(t, buf.String())

	assert.NoError(t, check(context.Background(), "fly", []string{"look"}))
	assert.Contains(t, buf.String(), "fly")
}
