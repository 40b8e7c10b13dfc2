package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/adapters/transcript"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/runner"
)

// Simulator modes.
const (
	ModeText       = "text"
	ModeJSON       = "json"
	ModeTranscript = "transcript"
)

// SimulatorOptions selects the environment the runner talks to.
type SimulatorOptions struct {
	// TranscriptPath replays a YAML script instead of reading the environment from stdin.
	TranscriptPath string
	// JSON speaks NDJSON on stdin/stdout instead of plain text.
	JSON bool
	// Prompt precedes every command in text mode.
	Prompt string
}

// createSimulator routes the options to a simulator binding.
//
// Mode options:
//   - "transcript": deterministic replay, stdin is not read
//   - "json": NDJSON feedback in, {"command": ...} out
//   - "text": one observation per line, for a human or a piped process
func createSimulator(opts SimulatorOptions, in io.Reader, out io.Writer) (ports.Simulator, string, error) {
	switch {
	case opts.TranscriptPath != "":
		script, err := transcript.Load(opts.TranscriptPath)
		if err != nil {
			return nil, "", err
		}
		return transcript.NewSimulator(script), ModeTranscript, nil
	case opts.JSON:
		return runner.NewJSONSimulator(in, out), ModeJSON, nil
	}

	var textOpts []runner.TextOption
	if opts.Prompt != "" {
		textOpts = append(textOpts, runner.WithPrompt(opts.Prompt))
	}
	return runner.NewTextSimulator(in, out, textOpts...), ModeText, nil
}

// echoSimulator prints the exchange with a replayed simulator, which has no terminal of its own.
type echoSimulator struct {
	ports.Simulator
	out io.Writer
}

func (s *echoSimulator) Reset(ctx context.Context) (ports.Feedback, error) {
	fb, err := s.Simulator.Reset(ctx)
	if err == nil {
		fmt.Fprintln(s.out, fb.Observation)
	}
	return fb, err
}

func (s *echoSimulator) Step(ctx context.Context, command string) (ports.Feedback, error) {
	fb, err := s.Simulator.Step(ctx, command)
	if err == nil {
		fmt.Fprintf(s.out, "> %s\n%s\n", tui.CommandStyle(command), fb.Observation)
	}
	return fb, err
}
