package ports

import (
	"context"

	"github.com/aretw0/errand/pkg/domain"
)

// StatelessEngine is the engine surface used by adapters that keep episode state outside
// the engine (HTTP, MCP). It is satisfied by *errand.Engine.
type StatelessEngine interface {
	// Compile returns the plan for task without the leading look.
	Compile(task domain.TaskSpec) (domain.Plan, error)

	// Start creates the initial state of a new episode.
	Start(ctx context.Context, episodeID string, task domain.TaskSpec) (*domain.State, error)

	// Step feeds one observation and returns the next state and command.
	Step(ctx context.Context, state *domain.State, observation string) (*domain.State, string, error)

	// MarkSucceeded records simulator success.
	MarkSucceeded(ctx context.Context, state *domain.State) *domain.State
}
