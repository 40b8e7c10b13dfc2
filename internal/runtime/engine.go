// Package runtime implements the policy state machine: one observation in, one command out.
package runtime

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/internal/perception"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/priors"
)

const (
	// DefaultMaxSteps is the step budget used when none is configured.
	DefaultMaxSteps = 100
	// DefaultIntroMarker identifies the introductory observation.
	DefaultIntroMarker = "Welcome"
)

// Engine is the policy state machine for one episode.
// It is not safe for concurrent use; each episode owns its own Engine.
type Engine struct {
	plan        domain.Plan
	mem         *domain.WorkingMemory
	priors      *priors.Priors
	maxSteps    int
	tie         TieBreaker
	extractor   perception.Extractor
	introMarker string
	logger      *slog.Logger

	last domain.Subgoal
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps sets the step budget. Non-positive values keep the default.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithTieBreaker sets the strategy used when several visible objects match a class.
func WithTieBreaker(t TieBreaker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tie = t
		}
	}
}

// WithExtractor sets the perception extractor.
func WithExtractor(x perception.Extractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithIntroMarker sets the literal that identifies the introductory observation.
func WithIntroMarker(marker string) Option {
	return func(e *Engine) {
		if marker != "" {
			e.introMarker = marker
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with fresh working memory.
// The plan must already include the leading look (see compiler.WithIntro).
func NewEngine(plan domain.Plan, p *priors.Priors, opts ...Option) *Engine {
	return Resume(plan, domain.NewWorkingMemory(), p, opts...)
}

// Resume creates an engine over existing working memory. The engine mutates mem in place.
func Resume(plan domain.Plan, mem *domain.WorkingMemory, p *priors.Priors, opts ...Option) *Engine {
	if mem == nil {
		mem = domain.NewWorkingMemory()
	}
	if mem.Receptacles == nil {
		mem.Receptacles = make(map[string]string)
	}
	if mem.VisibleObjects == nil {
		mem.VisibleObjects = make(map[string]string)
	}
	if mem.ClassLocations == nil {
		mem.ClassLocations = make(map[string]string)
	}
	if p == nil {
		p = priors.Default()
	}
	e := &Engine{
		plan:        plan,
		mem:         mem,
		priors:      p,
		maxSteps:    DefaultMaxSteps,
		tie:         FirstTieBreaker{},
		introMarker: DefaultIntroMarker,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Memory returns the live working memory.
func (e *Engine) Memory() *domain.WorkingMemory { return e.mem }

// Plan returns the plan the engine executes.
func (e *Engine) Plan() domain.Plan { return e.plan }

// MaxSteps returns the configured step budget.
func (e *Engine) MaxSteps() int { return e.maxSteps }

// Current returns the active subgoal, if the plan is not exhausted.
func (e *Engine) Current() (domain.Subgoal, bool) {
	if e.mem.SubgoalIndex >= len(e.plan) {
		return domain.Subgoal{}, false
	}
	return e.plan[e.mem.SubgoalIndex], true
}

// Step consumes one observation and returns the next command.
// Terminal conditions are reported as domain.ErrTimeout, domain.ErrPlanExhausted or
// domain.ErrInvariantViolation.
func (e *Engine) Step(observation string) (string, error) {
	m := e.mem
	m.StepCount++

	if m.StepCount > e.maxSteps {
		e.logger.Info("step budget exceeded", "steps", m.StepCount, "budget", e.maxSteps)
		return "", fmt.Errorf("%w: step %d over budget of %d", domain.ErrTimeout, m.StepCount, e.maxSteps)
	}
	if m.SubgoalIndex >= len(e.plan) {
		return e.drainOrExhaust()
	}

	e.ingest(observation)

	for {
		sg, ok := e.Current()
		if !ok {
			return e.drainOrExhaust()
		}
		cmd, err := e.dispatch(sg)
		if err != nil {
			e.logger.Warn("policy invariant violated", "step", m.StepCount, "subgoal", sg.String(), "error", err)
			return "", err
		}
		if cmd != "" {
			e.last = sg
			e.logger.Debug("step", "step", m.StepCount, "subgoal", sg.String(), "command", cmd)
			return cmd, nil
		}
	}
}

// LastSubgoal returns the subgoal whose branch produced the last command. It is the zero
// Subgoal when the last command was a deferred action drained after the plan ended.
func (e *Engine) LastSubgoal() domain.Subgoal { return e.last }

// drainOrExhaust issues pending deferred actions once the plan is consumed.
func (e *Engine) drainOrExhaust() (string, error) {
	e.last = domain.Subgoal{}
	if cmd, ok := e.mem.PopDeferred(); ok {
		e.logger.Debug("draining deferred action", "command", cmd)
		return cmd, nil
	}
	return "", fmt.Errorf("%w: %d subgoals consumed", domain.ErrPlanExhausted, len(e.plan))
}

// ingest updates memory from the observation.
func (e *Engine) ingest(observation string) {
	m := e.mem
	mentions := e.extractor.Extract(observation)

	if !m.CensusTaken && strings.Contains(observation, e.introMarker) {
		for _, mn := range mentions {
			m.AddReceptacle(mn.ID, mn.Class)
		}
		m.CensusTaken = true
		e.logger.Debug("receptacle census", "receptacles", len(m.Receptacles))
		return
	}

	m.VisibleObjects = mentions.Map()
	m.VisibleOrder = mentions.IDs()
	if !m.IsReceptacle(m.CurrentReceptacle) {
		return
	}
	for _, mn := range mentions {
		m.ClassLocations[mn.Class] = m.CurrentReceptacle
	}
}

func (e *Engine) advance() {
	e.mem.SubgoalIndex++
}

func (e *Engine) isOpenable(recep string) bool {
	class, ok := e.mem.Receptacles[recep]
	return ok && e.priors.IsOpenable(class)
}

// enter makes recep the current receptacle. Receptacles that cannot be opened count as
// already inspected.
func (e *Engine) enter(recep string) {
	e.mem.CurrentReceptacle = recep
	e.mem.CheckedInsideCurrent = !e.isOpenable(recep)
}
