package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/domain"
	"golang.org/x/term"
)

// CreateLogger configures the application logger from a level name.
// It writes to Stderr to keep Stdout for the episode flow.
func CreateLogger(level string) (*slog.Logger, error) {
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}

// IsTerminal reports whether f is attached to an interactive terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// isTerminalWriter is IsTerminal for writers that may not be files.
func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			logger.DebugContext(ctx, "Step", "episode", e.EpisodeID, "step", e.Step, "command", e.Command)
		},
		OnSubgoalAdvance: func(ctx context.Context, e *domain.SubgoalEvent) {
			logger.DebugContext(ctx, "Subgoal Done", "episode", e.EpisodeID, "subgoal", e.Subgoal.String())
		},
		OnTerminal: func(ctx context.Context, e *domain.TerminalEvent) {
			logger.DebugContext(ctx, "Episode Ended", "episode", e.EpisodeID, "status", e.Status, "steps", e.Steps)
		},
	}
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
