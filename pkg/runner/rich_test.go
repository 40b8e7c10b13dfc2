package runner_test

import (
	"context"
	"testing"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepAndDiff(t *testing.T) {
	eng := errand.New()
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	resp, err := runner.StepAndDiff(ctx, eng, state, "Welcome! You see a countertop_1.")
	require.NoError(t, err)

	assert.Equal(t, "look", resp.Command)
	assert.False(t, resp.Terminal)
	require.NotNil(t, resp.Diff)
	assert.Equal(t, []string{"look"}, resp.Diff.Commands)
	require.NotNil(t, resp.Diff.SubgoalIndex)
	assert.Equal(t, 1, *resp.Diff.SubgoalIndex)
}

func TestStepAndDiff_TerminalIsNotAnError(t *testing.T) {
	eng := errand.New(errand.WithMaxSteps(1))
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)
	state, _, err = eng.Step(ctx, state, "Welcome! You see a countertop_1.")
	require.NoError(t, err)

	resp, err := runner.StepAndDiff(ctx, eng, state, "Nothing happens.")
	require.NoError(t, err)
	assert.True(t, resp.Terminal)
	assert.Empty(t, resp.Command)
	assert.Equal(t, domain.StatusTimedOut, resp.State.Status)
	assert.NotEmpty(t, resp.Outcome)

	_, err = runner.StepAndDiff(ctx, eng, resp.State, "again")
	assert.ErrorIs(t, err, domain.ErrEpisodeFinished)
}

func TestSucceedAndDiff(t *testing.T) {
	eng := errand.New()
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	resp := runner.SucceedAndDiff(ctx, eng, state)
	assert.True(t, resp.Terminal)
	require.NotNil(t, resp.Diff)
	require.NotNil(t, resp.Diff.Status)
	assert.Equal(t, domain.StatusSucceeded, *resp.Diff.Status)
}
