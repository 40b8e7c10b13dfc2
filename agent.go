package errand

import (
	"context"
	"errors"

	"github.com/aretw0/errand/pkg/domain"
)

// ErrNotReset is returned by Agent.Act before the first Reset.
var ErrNotReset = errors.New("agent has no active episode; call Reset first")

// Agent is a stateful reset/act wrapper around an Engine, for callers that drive one
// episode at a time and do not manage State themselves.
type Agent struct {
	engine *Engine
	state  *domain.State
}

// NewAgent creates an agent backed by engine.
func NewAgent(engine *Engine) *Agent {
	return &Agent{engine: engine}
}

// Reset starts a new episode for task, discarding the previous one.
func (a *Agent) Reset(ctx context.Context, task domain.TaskSpec) error {
	state, err := a.engine.Start(ctx, "", task)
	if err != nil {
		return err
	}
	a.state = state
	return nil
}

// Act returns the command for observation. Terminal errors are returned as-is and leave
// the agent's state terminal.
func (a *Agent) Act(ctx context.Context, observation string) (string, error) {
	if a.state == nil {
		return "", ErrNotReset
	}
	next, cmd, err := a.engine.Step(ctx, a.state, observation)
	if next != nil {
		a.state = next
	}
	return cmd, err
}

// Succeed records simulator success for the current episode.
func (a *Agent) Succeed(ctx context.Context) {
	if a.state != nil {
		a.state = a.engine.MarkSucceeded(ctx, a.state)
	}
}

// State returns the current episode state, or nil before Reset.
func (a *Agent) State() *domain.State {
	return a.state
}
