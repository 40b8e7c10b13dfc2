package runner

import (
	"context"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// StepResponse combines the new state, the command and what changed, for remote clients (HTTP, MCP).
type StepResponse struct {
	State    *domain.State     `json:"state"`
	Command  string            `json:"command,omitempty"`
	Diff     *domain.StateDiff `json:"diff,omitempty"`
	Terminal bool              `json:"terminal"`
	Outcome  string            `json:"outcome,omitempty"`
}

// StepAndDiff performs one engine step and reports the result with its diff.
// Terminal engine outcomes are folded into the response rather than returned as errors,
// so clients always see the final state.
func StepAndDiff(ctx context.Context, engine ports.StatelessEngine, current *domain.State, observation string) (*StepResponse, error) {
	obs, err := SanitizeObservation(observation)
	if err != nil {
		return nil, err
	}
	next, cmd, err := engine.Step(ctx, current, obs)
	if err != nil && next == nil {
		return nil, err
	}
	return NewStepResponse(current, next, cmd), nil
}

// SucceedAndDiff records simulator success and reports the result.
func SucceedAndDiff(ctx context.Context, engine ports.StatelessEngine, current *domain.State) *StepResponse {
	return NewStepResponse(current, engine.MarkSucceeded(ctx, current), "")
}

// NewStepResponse builds a response from a state transition.
func NewStepResponse(before, after *domain.State, command string) *StepResponse {
	return &StepResponse{
		State:    after,
		Command:  command,
		Diff:     domain.Diff(before, after),
		Terminal: after.Status.Terminal(),
		Outcome:  after.Outcome,
	}
}
