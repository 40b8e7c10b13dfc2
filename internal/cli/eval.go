package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/aretw0/errand/pkg/adapters/trajectory"
	"github.com/aretw0/errand/pkg/adapters/transcript"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/observability"
	"github.com/aretw0/errand/pkg/runner"
)

// TranscriptFile is the replay script expected next to each traj_data.json.
const TranscriptFile = "transcript.yaml"

// EvalOptions configures a batch replay over a trajectory directory.
type EvalOptions struct {
	Root   string
	Engine EngineOptions
}

// EvalReport is the outcome of a batch replay.
type EvalReport struct {
	Outcomes map[string]runner.Outcome `json:"outcomes"`
	Skipped  []string                  `json:"skipped,omitempty"`
	Summary  observability.Summary     `json:"summary"`
}

// Evaluate replays every trajectory under opts.Root that has a transcript.yaml beside it
// and tallies the outcomes.
func Evaluate(ctx context.Context, opts EvalOptions, logger *slog.Logger) (*EvalReport, error) {
	catalog := trajectory.NewCatalog(opts.Root)
	ids, err := catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	tally := observability.NewTally()
	engineOpts := opts.Engine
	engineOpts.Hooks = engineOpts.Hooks.Merge(tally.Hooks())
	engine, err := createEngine(engineOpts, logger)
	if err != nil {
		return nil, err
	}

	report := &EvalReport{Outcomes: make(map[string]runner.Outcome)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scriptPath := filepath.Join(opts.Root, filepath.FromSlash(id), TranscriptFile)
		if _, err := os.Stat(scriptPath); err != nil {
			report.Skipped = append(report.Skipped, id)
			continue
		}

		task, err := catalog.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		script, err := transcript.Load(scriptPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}

		r := runner.NewRunner(
			runner.WithEngine(engine),
			runner.WithLogger(logger),
			runner.WithEpisodeID(id),
		)
		res, err := r.Run(ctx, transcript.NewSimulator(script), task)
		if err != nil && res == nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		if err != nil || res.Outcome == runner.OutcomeSimulatorDone {
			// Outcomes the engine did not end itself never reach its hooks.
			tally.Record(domain.ExecutionStatus(res.Outcome), res.Steps)
		}
		report.Outcomes[id] = res.Outcome
		logger.Info("Episode evaluated", "task", id, "outcome", res.Outcome, "steps", res.Steps)
	}

	report.Summary = tally.Snapshot()
	return report, nil
}

// PrintReport writes a human-readable report.
func PrintReport(w io.Writer, report *EvalReport) {
	ids := make([]string, 0, len(report.Outcomes))
	for id := range report.Outcomes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "%-40s %s\n", id, tui.StatusColor(string(report.Outcomes[id])))
	}
	for _, id := range report.Skipped {
		fmt.Fprintf(w, "%-40s skipped (no %s)\n", id, TranscriptFile)
	}
	s := report.Summary
	printSystemMessage(w, "%d episodes, %.0f%% succeeded, %.1f mean steps.", s.Episodes, s.SuccessRate()*100, s.MeanSteps)
}
