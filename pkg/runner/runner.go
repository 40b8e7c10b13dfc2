package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// Outcome summarises why a run stopped.
type Outcome string

const (
	OutcomeSucceeded     Outcome = "succeeded"
	OutcomeTimedOut      Outcome = "timed_out"
	OutcomeExhausted     Outcome = "exhausted"
	OutcomeFailed        Outcome = "failed"
	OutcomeSimulatorDone Outcome = "simulator_done"
	OutcomeCancelled     Outcome = "cancelled"
)

// Result is the final report of a run.
type Result struct {
	State   *domain.State `json:"state"`
	Outcome Outcome       `json:"outcome"`
	Steps   int           `json:"steps"`
	Score   float64       `json:"score"`
}

// Observer is notified after every simulator turn with the command sent and the feedback received.
type Observer func(ctx context.Context, state *domain.State, command string, fb ports.Feedback)

// Runner drives one episode of the engine against a simulator.
type Runner struct {
	// Engine decides commands. If nil, errand.New() is used.
	Engine *errand.Engine

	// Store is the persistence adapter. If nil, episodes are ephemeral.
	Store ports.StateStore

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// EpisodeID names the episode. If empty, the engine generates one.
	EpisodeID string

	// Interceptor inspects commands before they are sent.
	// If nil, inadmissible commands are logged and sent anyway.
	Interceptor CommandInterceptor

	// Observer, if set, sees every simulator turn.
	Observer Observer
}

// NewRunner creates a Runner with the given options.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.Engine == nil {
		r.Engine = errand.New()
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	if r.Interceptor == nil {
		r.Interceptor = LogInadmissible(r.Logger)
	}
	return r
}

// Run resets the simulator and plays the task until the episode ends.
// The returned Result is non-nil whenever an episode was started, including on
// cancellation and on terminal engine outcomes, which are not errors.
func (r *Runner) Run(ctx context.Context, sim ports.Simulator, task domain.TaskSpec) (*Result, error) {
	state, err := r.Engine.Start(ctx, r.EpisodeID, task)
	if err != nil {
		return nil, err
	}
	logger := r.Logger.With("episode", state.EpisodeID)

	fb, err := sim.Reset(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulator reset: %w", err)
	}
	if err := r.save(ctx, state); err != nil {
		return nil, err
	}

	for {
		if ctx.Err() != nil {
			logger.Info("run cancelled", "steps", state.Memory.StepCount)
			return r.result(state, OutcomeCancelled, fb), ctx.Err()
		}

		obs, err := SanitizeObservation(fb.Observation)
		if err != nil {
			return r.result(state, OutcomeFailed, fb), err
		}

		next, cmd, err := r.Engine.Step(ctx, state, obs)
		if err != nil {
			if next == nil {
				if ctx.Err() != nil {
					return r.result(state, OutcomeCancelled, fb), err
				}
				return r.result(state, OutcomeFailed, fb), err
			}
			// Terminal engine outcome.
			state = next
			if err := r.save(ctx, state); err != nil {
				return nil, err
			}
			logger.Warn("episode ended by engine", "status", state.Status, "outcome", state.Outcome)
			return r.result(state, outcomeFor(state.Status), fb), nil
		}
		state = next

		if err := r.Interceptor(ctx, cmd, fb.Admissible); err != nil {
			if saveErr := r.save(ctx, state); saveErr != nil {
				return nil, saveErr
			}
			return r.result(state, OutcomeFailed, fb), err
		}

		logger.Debug("sending command", "step", state.Memory.StepCount, "command", cmd)
		fb, err = sim.Step(ctx, cmd)
		if err != nil {
			if saveErr := r.save(ctx, state); saveErr != nil {
				return nil, saveErr
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return r.result(state, OutcomeCancelled, fb), err
			}
			return r.result(state, OutcomeFailed, fb), fmt.Errorf("simulator step: %w", err)
		}
		if r.Observer != nil {
			r.Observer(ctx, state, cmd, fb)
		}

		if fb.Won {
			state = r.Engine.MarkSucceeded(ctx, state)
			if err := r.save(ctx, state); err != nil {
				return nil, err
			}
			return r.result(state, OutcomeSucceeded, fb), nil
		}
		if err := r.save(ctx, state); err != nil {
			return nil, err
		}
		if fb.Done {
			logger.Info("simulator ended episode", "steps", state.Memory.StepCount, "score", fb.Score)
			return r.result(state, OutcomeSimulatorDone, fb), nil
		}
	}
}

func (r *Runner) save(ctx context.Context, state *domain.State) error {
	if r.Store == nil {
		return nil
	}
	// Saves outlive cancellation of the run context.
	if err := r.Store.Save(context.WithoutCancel(ctx), state.EpisodeID, state); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	return nil
}

func (r *Runner) result(state *domain.State, outcome Outcome, fb ports.Feedback) *Result {
	return &Result{
		State:   state,
		Outcome: outcome,
		Steps:   len(state.History),
		Score:   fb.Score,
	}
}

func outcomeFor(status domain.ExecutionStatus) Outcome {
	switch status {
	case domain.StatusSucceeded:
		return OutcomeSucceeded
	case domain.StatusTimedOut:
		return OutcomeTimedOut
	case domain.StatusExhausted:
		return OutcomeExhausted
	default:
		return OutcomeFailed
	}
}
