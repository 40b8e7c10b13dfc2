package domain

import "time"

// ExecutionStatus is the lifecycle status of an episode.
type ExecutionStatus string

const (
	StatusActive    ExecutionStatus = "active"    // Still stepping
	StatusSucceeded ExecutionStatus = "succeeded" // Simulator reported success
	StatusTimedOut  ExecutionStatus = "timed_out" // Step budget exceeded
	StatusExhausted ExecutionStatus = "exhausted" // Plan consumed without success
	StatusFailed    ExecutionStatus = "failed"    // Invariant violation
)

// Terminal reports whether the status ends the episode.
func (s ExecutionStatus) Terminal() bool {
	return s != StatusActive && s != ""
}

// State is the durable snapshot of one episode.
type State struct {
	EpisodeID string   `json:"episode_id"`
	Task      TaskSpec `json:"task"`

	// Plan is the internal plan, starting with the implicit look.
	Plan   Plan           `json:"plan"`
	Memory *WorkingMemory `json:"memory"`

	Status ExecutionStatus `json:"status"`
	// Outcome holds the terminal error text, if any.
	Outcome string `json:"outcome,omitempty"`

	// History lists the commands emitted so far.
	History         []string  `json:"history"`
	LastObservation string    `json:"last_observation,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Envelope carries the sealed form of the state when an encrypting store is in use.
	Envelope string `json:"envelope,omitempty"`
}

// NewState creates an active episode state for a compiled plan.
func NewState(episodeID string, task TaskSpec, plan Plan) *State {
	return &State{
		EpisodeID: episodeID,
		Task:      task,
		Plan:      plan.Clone(),
		Memory:    NewWorkingMemory(),
		Status:    StatusActive,
		History:   []string{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Plan = s.Plan.Clone()
	out.Memory = s.Memory.Clone()
	out.History = append([]string(nil), s.History...)
	return &out
}

// CurrentSubgoal returns the subgoal at the memory cursor, if any.
func (s *State) CurrentSubgoal() (Subgoal, bool) {
	if s.Memory == nil || s.Memory.SubgoalIndex >= len(s.Plan) {
		return Subgoal{}, false
	}
	return s.Plan[s.Memory.SubgoalIndex], true
}
