package errand_test

import (
	"context"
	"testing"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applePlacement = domain.TaskSpec{
	Type:         domain.TaskPickAndPlaceSimple,
	ObjectTarget: "Apple",
	ParentTarget: "CounterTop",
}

func TestEngine_Compile(t *testing.T) {
	eng := errand.New()

	plan, err := eng.Compile(applePlacement)
	require.NoError(t, err)
	assert.Equal(t, "[find(apple), take(apple), find(countertop), put(countertop)]", plan.String())

	_, err = eng.Compile(domain.TaskSpec{Type: "pick_two_obj_and_place"})
	assert.ErrorIs(t, err, domain.ErrUnknownTaskType)
}

func TestEngine_Start(t *testing.T) {
	eng := errand.New()
	ctx := context.Background()

	state, err := eng.Start(ctx, "", applePlacement)
	require.NoError(t, err)

	assert.NotEmpty(t, state.EpisodeID)
	assert.Equal(t, domain.StatusActive, state.Status)
	assert.Equal(t, "apple", state.Task.ObjectTarget)
	assert.Equal(t, domain.VerbLook, state.Plan[0].Verb)
	assert.Len(t, state.Plan, 5)

	state, err = eng.Start(ctx, "ep-1", applePlacement)
	require.NoError(t, err)
	assert.Equal(t, "ep-1", state.EpisodeID)

	_, err = eng.Start(ctx, "", domain.TaskSpec{Type: "juggling"})
	assert.ErrorIs(t, err, domain.ErrUnknownTaskType)
}

func TestEngine_StepDoesNotMutateInput(t *testing.T) {
	eng := errand.New()
	ctx := context.Background()

	s0, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	s1, cmd, err := eng.Step(ctx, s0, "Welcome! countertop_1 fridge_1")
	require.NoError(t, err)
	assert.Equal(t, "look", cmd)

	assert.Equal(t, 0, s0.Memory.StepCount)
	assert.Empty(t, s0.Memory.Receptacles)
	assert.Empty(t, s0.History)

	assert.Equal(t, 1, s1.Memory.StepCount)
	assert.Len(t, s1.Memory.Receptacles, 2)
	assert.Equal(t, []string{"look"}, s1.History)
	assert.Equal(t, "Welcome! countertop_1 fridge_1", s1.LastObservation)
}

func TestEngine_FullEpisodeWithHooks(t *testing.T) {
	var (
		commands  []string
		advances  []domain.Verb
		terminals []domain.ExecutionStatus
	)
	hooks := domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			commands = append(commands, e.Command)
		},
		OnSubgoalAdvance: func(_ context.Context, e *domain.SubgoalEvent) {
			advances = append(advances, e.Subgoal.Verb)
		},
		OnTerminal: func(_ context.Context, e *domain.TerminalEvent) {
			terminals = append(terminals, e.Status)
		},
	}

	eng := errand.New(errand.WithLifecycleHooks(hooks))
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	script := []struct{ obs, want string }{
		{"Welcome! You see a countertop_1 and a cabinet_1.", "look"},
		{"You are in the middle of a room.", "go to countertop_1"},
		{"You arrive at countertop_1. On the countertop_1, you see a apple_2.", "take apple_2 from countertop_1"},
		{"You pick up the apple_2 from the countertop_1.", "put apple_2 in/on countertop_1"},
	}
	for _, s := range script {
		var cmd string
		state, cmd, err = eng.Step(ctx, state, s.obs)
		require.NoError(t, err)
		assert.Equal(t, s.want, cmd)
	}

	assert.Equal(t, []domain.Verb{domain.VerbLook, domain.VerbFind, domain.VerbTake, domain.VerbFind, domain.VerbPut}, advances)
	assert.Len(t, commands, 4)

	done := eng.MarkSucceeded(ctx, state)
	assert.Equal(t, domain.StatusSucceeded, done.Status)
	assert.Equal(t, []domain.ExecutionStatus{domain.StatusSucceeded}, terminals)

	_, _, err = eng.Step(ctx, done, "anything")
	assert.ErrorIs(t, err, domain.ErrEpisodeFinished)
}

func TestEngine_TerminalStatus(t *testing.T) {
	eng := errand.New(errand.WithMaxSteps(2))
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	state, _, err = eng.Step(ctx, state, "Welcome! cabinet_1")
	require.NoError(t, err)
	state, _, err = eng.Step(ctx, state, "Nothing happens.")
	require.NoError(t, err)

	next, cmd, err := eng.Step(ctx, state, "Nothing happens.")
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Empty(t, cmd)
	require.NotNil(t, next)
	assert.Equal(t, domain.StatusTimedOut, next.Status)
	assert.NotEmpty(t, next.Outcome)
	assert.Len(t, next.History, 2)
}

func TestEngine_CancelledContext(t *testing.T) {
	eng := errand.New()
	state, err := eng.Start(context.Background(), "ep", applePlacement)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = eng.Step(ctx, state, "Welcome! cabinet_1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_CustomSeparator(t *testing.T) {
	eng := errand.New(errand.WithSeparator("-"), errand.WithIntroMarker("-- Intro --"))
	ctx := context.Background()

	state, err := eng.Start(ctx, "ep", applePlacement)
	require.NoError(t, err)

	state, _, err = eng.Step(ctx, state, "-- Intro -- countertop-1")
	require.NoError(t, err)
	assert.Equal(t, "countertop", state.Memory.Receptacles["countertop-1"])
}

func TestAgent(t *testing.T) {
	agent := errand.NewAgent(errand.New())
	ctx := context.Background()

	_, err := agent.Act(ctx, "Welcome!")
	assert.ErrorIs(t, err, errand.ErrNotReset)

	require.NoError(t, agent.Reset(ctx, domain.TaskSpec{
		Type:         domain.TaskLookAtObjInLight,
		ObjectTarget: "book",
		ToggleTarget: "desklamp",
	}))

	cmd, err := agent.Act(ctx, "Welcome! You see a desk_1 and a bed_1.")
	require.NoError(t, err)
	assert.Equal(t, "look", cmd)

	cmd, err = agent.Act(ctx, "You are in the middle of a room.")
	require.NoError(t, err)
	assert.Equal(t, "go to bed_1", cmd)

	cmd, err = agent.Act(ctx, "You arrive at bed_1. On the bed_1, you see a book_1.")
	require.NoError(t, err)
	assert.Equal(t, "take book_1 from bed_1", cmd)

	cmd, err = agent.Act(ctx, "You pick up the book_1 from the bed_1.")
	require.NoError(t, err)
	assert.Equal(t, "go to desk_1", cmd)

	cmd, err = agent.Act(ctx, "You arrive at desk_1. On the desk_1, you see a desklamp_1.")
	require.NoError(t, err)
	assert.Equal(t, "use desklamp_1", cmd)

	agent.Succeed(ctx)
	assert.Equal(t, domain.StatusSucceeded, agent.State().Status)
}
