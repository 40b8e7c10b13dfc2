package observability_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applePlacement = domain.TaskSpec{
	Type:         domain.TaskPickAndPlaceSimple,
	ObjectTarget: "apple",
	ParentTarget: "countertop",
}

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	srv := httptest.NewServer(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	tally := observability.NewTally()

	eng := errand.New(errand.WithLifecycleHooks(metrics.Hooks().Merge(tally.Hooks())))
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	for _, obs := range []string{
		"Welcome! You see a countertop_1 and a cabinet_1.",
		"You are in the middle of a room.",
		"You arrive at countertop_1. On the countertop_1, you see a apple_2.",
		"You pick up the apple_2 from the countertop_1.",
	} {
		state, _, err = eng.Step(ctx, state, obs)
		require.NoError(t, err)
	}
	eng.MarkSucceeded(ctx, state)

	body := scrape(t, reg)
	assert.Contains(t, body, "errand_steps_total 4")
	assert.Contains(t, body, `errand_commands_total{verb="look"} 1`)
	assert.Contains(t, body, `errand_commands_total{verb="go"} 1`)
	assert.Contains(t, body, `errand_commands_total{verb="take"} 1`)
	assert.Contains(t, body, `errand_commands_total{verb="put"} 1`)
	assert.Contains(t, body, `errand_subgoal_advances_total{verb="find"} 2`)
	assert.Contains(t, body, `errand_episodes_total{status="succeeded"} 1`)
	assert.Contains(t, body, "errand_episode_steps_count 1")

	summary := tally.Snapshot()
	assert.Equal(t, 1, summary.Episodes)
	assert.Equal(t, 1.0, summary.SuccessRate())
	assert.Equal(t, 4.0, summary.MeanSteps)
}

func TestTally(t *testing.T) {
	tally := observability.NewTally()
	assert.Equal(t, 0.0, tally.Snapshot().SuccessRate())

	tally.Record(domain.StatusSucceeded, 10)
	tally.Record(domain.StatusTimedOut, 100)
	tally.Record(domain.StatusSucceeded, 4)
	tally.Record(domain.StatusExhausted, 6)

	s := tally.Snapshot()
	assert.Equal(t, 4, s.Episodes)
	assert.Equal(t, 0.5, s.SuccessRate())
	assert.Equal(t, 30.0, s.MeanSteps)
	assert.Equal(t, 1, s.ByStatus[domain.StatusTimedOut])
}
