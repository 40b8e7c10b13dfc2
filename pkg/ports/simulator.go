package ports

import "context"

// Feedback is what the simulator reports after a reset or a command.
type Feedback struct {
	Observation string   `json:"observation"`
	Admissible  []string `json:"admissible_commands,omitempty"`
	Won         bool     `json:"won"`
	Done        bool     `json:"done"`
	Score       float64  `json:"score"`
}

// Simulator is the text-adventure environment an episode runs against.
type Simulator interface {
	// Reset starts a new game and returns the introductory observation.
	Reset(ctx context.Context) (Feedback, error)

	// Step executes one command.
	Step(ctx context.Context, command string) (Feedback, error)
}
