package observability

import (
	"context"
	"sync"

	"github.com/aretw0/errand/pkg/domain"
)

// Summary is a snapshot of finished episodes.
type Summary struct {
	Episodes  int                            `json:"episodes"`
	ByStatus  map[domain.ExecutionStatus]int `json:"by_status"`
	MeanSteps float64                        `json:"mean_steps"`
}

// SuccessRate is the fraction of episodes that succeeded.
func (s Summary) SuccessRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.ByStatus[domain.StatusSucceeded]) / float64(s.Episodes)
}

// Tally aggregates terminal events in memory. It is safe for concurrent use.
type Tally struct {
	mu       sync.Mutex
	episodes int
	steps    int
	byStatus map[domain.ExecutionStatus]int
}

// NewTally creates an empty tally.
func NewTally() *Tally {
	return &Tally{byStatus: make(map[domain.ExecutionStatus]int)}
}

// Hooks returns lifecycle hooks that record into t.
func (t *Tally) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTerminal: func(_ context.Context, e *domain.TerminalEvent) {
			t.Record(e.Status, e.Steps)
		},
	}
}

// Record adds one finished episode.
func (t *Tally) Record(status domain.ExecutionStatus, steps int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.episodes++
	t.steps += steps
	t.byStatus[status]++
}

// Snapshot returns the current summary.
func (t *Tally) Snapshot() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Summary{Episodes: t.episodes, ByStatus: make(map[domain.ExecutionStatus]int, len(t.byStatus))}
	for k, v := range t.byStatus {
		s.ByStatus[k] = v
	}
	if t.episodes > 0 {
		s.MeanSteps = float64(t.steps) / float64(t.episodes)
	}
	return s
}
