package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/errand/pkg/ports"
)

// Markers a text simulator may put at the start of an observation line.
const (
	MarkerWon  = "!won"
	MarkerDone = "!done"
)

// TextSimulator speaks to a simulator in plain text, one line per turn.
// Every command is written to the writer as "> command"; every observation is read as
// one line. A line starting with MarkerWon or MarkerDone ends the episode, and the rest
// of that line is the final observation. End of input also ends the episode.
type TextSimulator struct {
	out    io.Writer
	pump   *linePump
	prompt string
}

// TextOption configures a TextSimulator.
type TextOption func(*TextSimulator)

// WithPrompt sets the prefix written before every command.
func WithPrompt(prompt string) TextOption {
	return func(s *TextSimulator) {
		s.prompt = prompt
	}
}

// NewTextSimulator creates a simulator reading observations from in and writing commands to out.
func NewTextSimulator(in io.Reader, out io.Writer, opts ...TextOption) *TextSimulator {
	s := &TextSimulator{out: out, pump: newLinePump(in), prompt: "> "}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reset reads the introductory observation.
func (s *TextSimulator) Reset(ctx context.Context) (ports.Feedback, error) {
	fb, err := s.read(ctx)
	if errors.Is(err, io.EOF) {
		return ports.Feedback{}, fmt.Errorf("no introductory observation: %w", io.ErrUnexpectedEOF)
	}
	return fb, err
}

// Step writes the command and reads the resulting observation.
func (s *TextSimulator) Step(ctx context.Context, command string) (ports.Feedback, error) {
	if _, err := fmt.Fprintf(s.out, "%s%s\n", s.prompt, command); err != nil {
		return ports.Feedback{}, err
	}
	fb, err := s.read(ctx)
	if errors.Is(err, io.EOF) {
		return ports.Feedback{Done: true}, nil
	}
	return fb, err
}

func (s *TextSimulator) read(ctx context.Context) (ports.Feedback, error) {
	text, err := s.pump.next(ctx)
	if err != nil {
		return ports.Feedback{}, err
	}
	return parseTextFeedback(text), nil
}

func parseTextFeedback(text string) ports.Feedback {
	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, MarkerWon):
		return ports.Feedback{
			Observation: strings.TrimSpace(strings.TrimPrefix(trimmed, MarkerWon)),
			Won:         true,
			Done:        true,
		}
	case strings.HasPrefix(trimmed, MarkerDone):
		return ports.Feedback{
			Observation: strings.TrimSpace(strings.TrimPrefix(trimmed, MarkerDone)),
			Done:        true,
		}
	}
	return ports.Feedback{Observation: text}
}
