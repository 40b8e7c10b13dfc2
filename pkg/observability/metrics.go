package observability

import (
	"context"
	"strings"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by lifecycle hooks.
type Metrics struct {
	steps        prometheus.Counter
	commands     *prometheus.CounterVec
	advances     *prometheus.CounterVec
	episodes     *prometheus.CounterVec
	episodeSteps prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "errand_steps_total",
			Help: "Total number of engine steps that produced a command",
		}),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errand_commands_total",
				Help: "Commands emitted, by leading verb",
			},
			[]string{"verb"},
		),
		advances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errand_subgoal_advances_total",
				Help: "Completed subgoals, by subgoal verb",
			},
			[]string{"verb"},
		),
		episodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errand_episodes_total",
				Help: "Finished episodes, by terminal status",
			},
			[]string{"status"},
		),
		episodeSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "errand_episode_steps",
			Help:    "Steps taken by finished episodes",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
	}
	reg.MustRegister(m.steps, m.commands, m.advances, m.episodes, m.episodeSteps)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.steps.Inc()
			m.commands.WithLabelValues(commandVerb(e.Command)).Inc()
		},
		OnSubgoalAdvance: func(_ context.Context, e *domain.SubgoalEvent) {
			m.advances.WithLabelValues(string(e.Subgoal.Verb)).Inc()
		},
		OnTerminal: func(_ context.Context, e *domain.TerminalEvent) {
			m.episodes.WithLabelValues(string(e.Status)).Inc()
			m.episodeSteps.Observe(float64(e.Steps))
		},
	}
}

// commandVerb returns the first word of a command ("go", "take", "put"...).
func commandVerb(cmd string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(cmd), " ")
	if verb == "" {
		return "none"
	}
	return verb
}
