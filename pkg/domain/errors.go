package domain

import "errors"

// ErrUnknownTaskType is returned by the plan compiler for an unrecognized task tag.
var ErrUnknownTaskType = errors.New("unknown task type")

// ErrInvalidTask is returned when a task lacks a target its template needs.
var ErrInvalidTask = errors.New("invalid task")

// ErrTimeout is returned once an episode exceeds its step budget.
var ErrTimeout = errors.New("step budget exceeded")

// ErrPlanExhausted is returned when every subgoal was consumed without a success signal.
var ErrPlanExhausted = errors.New("plan exhausted")

// ErrInvariantViolation is returned when the policy reaches a state its invariants forbid,
// such as placing an item with an empty inventory.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrEpisodeFinished is returned when stepping an episode that already reached a terminal status.
var ErrEpisodeFinished = errors.New("episode finished")

// ErrEpisodeNotFound is returned when an episode ID cannot be found in the store.
var ErrEpisodeNotFound = errors.New("episode not found")

// IsTerminal reports whether err ends an episode.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrPlanExhausted) ||
		errors.Is(err, ErrInvariantViolation)
}

// StatusFor maps a terminal error to the episode status it produces.
// It returns StatusActive for nil or non-terminal errors.
func StatusFor(err error) ExecutionStatus {
	switch {
	case errors.Is(err, ErrTimeout):
		return StatusTimedOut
	case errors.Is(err, ErrPlanExhausted):
		return StatusExhausted
	case errors.Is(err, ErrInvariantViolation):
		return StatusFailed
	}
	return StatusActive
}
