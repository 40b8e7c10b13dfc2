package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventStep            EventType = "step"
	EventSubgoalAdvance  EventType = "subgoal_advance"
	EventEpisodeTerminal EventType = "episode_terminal"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	EpisodeID string    `json:"episode_id"`
}

// StepEvent is emitted once per successful step.
type StepEvent struct {
	EventBase
	Step        int     `json:"step"`
	Subgoal     Subgoal `json:"subgoal"`
	Command     string  `json:"command"`
	Observation string  `json:"observation,omitempty"`
}

// SubgoalEvent is emitted for every subgoal completed during a step.
type SubgoalEvent struct {
	EventBase
	Index   int     `json:"index"`
	Subgoal Subgoal `json:"subgoal"`
}

// TerminalEvent is emitted when an episode reaches a terminal status.
type TerminalEvent struct {
	EventBase
	Status  ExecutionStatus `json:"status"`
	Outcome string          `json:"outcome,omitempty"`
	Steps   int             `json:"steps"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnStep           func(context.Context, *StepEvent)
	OnSubgoalAdvance func(context.Context, *SubgoalEvent)
	OnTerminal       func(context.Context, *TerminalEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep:           chain(h.OnStep, other.OnStep),
		OnSubgoalAdvance: chain(h.OnSubgoalAdvance, other.OnSubgoalAdvance),
		OnTerminal:       chain(h.OnTerminal, other.OnTerminal),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
