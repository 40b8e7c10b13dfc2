package errand

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/errand/internal/compiler"
	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/internal/perception"
	"github.com/aretw0/errand/internal/runtime"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/priors"
	"github.com/google/uuid"
)

// Engine is the high-level entry point for the errand library.
// It compiles plans and steps episodes without holding per-episode state.
type Engine struct {
	priors      *priors.Priors
	maxSteps    int
	tie         runtime.TieBreaker
	introMarker string
	separator   string
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithPriors sets the affordance priors. The built-in household table is the default.
func WithPriors(p *priors.Priors) Option {
	return func(e *Engine) {
		e.priors = p
	}
}

// WithMaxSteps sets the step budget per episode.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

// WithTieBreaker sets how one object is chosen among several of the same class.
func WithTieBreaker(t runtime.TieBreaker) Option {
	return func(e *Engine) {
		e.tie = t
	}
}

// WithIntroMarker sets the literal that identifies the introductory observation.
func WithIntroMarker(marker string) Option {
	return func(e *Engine) {
		e.introMarker = marker
	}
}

// WithSeparator sets the class/instance separator of object mentions.
func WithSeparator(sep string) Option {
	return func(e *Engine) {
		e.separator = sep
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new errand Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.priors == nil {
		eng.priors = priors.Default()
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	return eng
}

// Priors returns the priors the engine plans and acts with.
func (e *Engine) Priors() *priors.Priors {
	return e.priors
}

// Compile normalises the task and returns its plan, without the leading look.
func (e *Engine) Compile(task domain.TaskSpec) (domain.Plan, error) {
	return compiler.Compile(compiler.Normalize(task), e.priors)
}

// Start compiles the task and creates the initial state of a new episode.
// An empty episodeID is replaced by a random UUID.
func (e *Engine) Start(ctx context.Context, episodeID string, task domain.TaskSpec) (*domain.State, error) {
	task = compiler.Normalize(task)
	plan, err := compiler.Compile(task, e.priors)
	if err != nil {
		return nil, fmt.Errorf("failed to compile plan: %w", err)
	}
	if episodeID == "" {
		episodeID = uuid.NewString()
	}
	state := domain.NewState(episodeID, task, compiler.WithIntro(plan))
	e.logger.Info("episode started", "episode", episodeID, "task", task.Type, "plan", plan.String())
	return state, nil
}

// Step feeds one observation to the episode and returns the next state and command.
// The input state is never modified. On a terminal error the returned state carries the
// terminal status and outcome; other errors return a nil state.
func (e *Engine) Step(ctx context.Context, state *domain.State, observation string) (*domain.State, string, error) {
	if state == nil {
		return nil, "", errors.New("nil state")
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if state.Status.Terminal() {
		return nil, "", fmt.Errorf("%w: %s is %s", domain.ErrEpisodeFinished, state.EpisodeID, state.Status)
	}

	next := state.Clone()
	rt := runtime.Resume(next.Plan, next.Memory, e.priors, e.runtimeOptions(next.EpisodeID)...)
	before := next.Memory.SubgoalIndex

	cmd, err := rt.Step(observation)

	next.LastObservation = observation
	next.UpdatedAt = time.Now().UTC()
	e.emitAdvances(ctx, next, before)

	if err != nil {
		if !domain.IsTerminal(err) {
			return nil, "", err
		}
		next.Status = domain.StatusFor(err)
		next.Outcome = err.Error()
		e.emitTerminal(ctx, next)
		return next, "", err
	}

	next.History = append(next.History, cmd)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(ctx, &domain.StepEvent{
			EventBase:   e.event(domain.EventStep, next.EpisodeID),
			Step:        next.Memory.StepCount,
			Subgoal:     rt.LastSubgoal(),
			Command:     cmd,
			Observation: observation,
		})
	}
	return next, cmd, nil
}

// MarkSucceeded records that the simulator reported success for the episode.
func (e *Engine) MarkSucceeded(ctx context.Context, state *domain.State) *domain.State {
	next := state.Clone()
	if next.Status.Terminal() {
		return next
	}
	next.Status = domain.StatusSucceeded
	next.Outcome = ""
	next.UpdatedAt = time.Now().UTC()
	e.emitTerminal(ctx, next)
	return next
}

func (e *Engine) runtimeOptions(episodeID string) []runtime.Option {
	opts := []runtime.Option{
		runtime.WithMaxSteps(e.maxSteps),
		runtime.WithTieBreaker(e.tie),
		runtime.WithIntroMarker(e.introMarker),
		runtime.WithLogger(e.logger.With("episode", episodeID)),
	}
	if e.separator != "" {
		opts = append(opts, runtime.WithExtractor(perception.Extractor{Separator: e.separator}))
	}
	return opts
}

func (e *Engine) emitAdvances(ctx context.Context, s *domain.State, from int) {
	if e.hooks.OnSubgoalAdvance == nil {
		return
	}
	for i := from; i < s.Memory.SubgoalIndex && i < len(s.Plan); i++ {
		e.hooks.OnSubgoalAdvance(ctx, &domain.SubgoalEvent{
			EventBase: e.event(domain.EventSubgoalAdvance, s.EpisodeID),
			Index:     i,
			Subgoal:   s.Plan[i],
		})
	}
}

func (e *Engine) emitTerminal(ctx context.Context, s *domain.State) {
	e.logger.Info("episode finished", "episode", s.EpisodeID, "status", s.Status, "steps", s.Memory.StepCount)
	if e.hooks.OnTerminal == nil {
		return
	}
	e.hooks.OnTerminal(ctx, &domain.TerminalEvent{
		EventBase: e.event(domain.EventEpisodeTerminal, s.EpisodeID),
		Status:    s.Status,
		Outcome:   s.Outcome,
		Steps:     s.Memory.StepCount,
	})
}

func (e *Engine) event(t domain.EventType, episodeID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, EpisodeID: episodeID}
}
