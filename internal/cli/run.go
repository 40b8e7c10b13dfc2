package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/errand/internal/presentation/tui"
	loamadapter "github.com/aretw0/errand/pkg/adapters/loam"
	"github.com/aretw0/errand/pkg/adapters/trajectory"
	"github.com/aretw0/errand/pkg/adapters/transcript"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/runner"
)

// TaskOptions locates the task to play. The first non-empty source wins:
// a trajectory file, a catalog entry, then the inline spec.
type TaskOptions struct {
	// Path is an ALFRED traj_data.json file or its directory.
	Path string
	// CatalogPath is a markdown task catalog; ID selects the entry.
	CatalogPath string
	ID          string
	Spec        domain.TaskSpec
}

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Task       TaskOptions
	Simulator  SimulatorOptions
	Engine     EngineOptions
	Store      StoreOptions
	EpisodeID  string
	RecordPath string
	Strict     bool
	Quiet      bool
}

// ResolveTask loads the task described by opts.
func ResolveTask(ctx context.Context, opts TaskOptions) (domain.TaskSpec, error) {
	switch {
	case opts.Path != "":
		traj, err := trajectory.Load(opts.Path)
		if err != nil {
			return domain.TaskSpec{}, err
		}
		return traj.Spec(), nil
	case opts.CatalogPath != "":
		if opts.ID == "" {
			return domain.TaskSpec{}, fmt.Errorf("%w: a task ID is required with a catalog", domain.ErrInvalidTask)
		}
		catalog, err := loamadapter.Open(opts.CatalogPath)
		if err != nil {
			return domain.TaskSpec{}, err
		}
		return catalog.Get(ctx, opts.ID)
	case opts.Spec.Type != "":
		return opts.Spec, nil
	}
	return domain.TaskSpec{}, fmt.Errorf("%w: no task given (use a trajectory, a catalog entry or --type)", domain.ErrInvalidTask)
}

// Execute plays one episode and reports the result on out.
// In JSON mode out carries the protocol, so the report goes to the logger only.
func Execute(ctx context.Context, opts RunOptions, logger *slog.Logger, in io.Reader, out io.Writer) (*runner.Result, error) {
	task, err := ResolveTask(ctx, opts.Task)
	if err != nil {
		return nil, err
	}

	engine, err := createEngine(opts.Engine, logger)
	if err != nil {
		return nil, err
	}

	persistence, err := OpenPersistence(opts.Store)
	if err != nil {
		return nil, err
	}
	defer persistence.Close()

	sim, mode, err := createSimulator(opts.Simulator, in, out)
	if err != nil {
		return nil, err
	}
	interactive := mode != ModeJSON && !opts.Quiet
	if mode == ModeTranscript && !opts.Quiet {
		sim = &echoSimulator{Simulator: sim, out: out}
	}

	if interactive && isTerminalWriter(out) {
		tui.PrintBanner(out)
	}

	interceptor := runner.LogInadmissible(logger)
	if opts.Strict {
		interceptor = runner.MultiInterceptor(interceptor, runner.StrictAdmissible())
	}

	var recorder *transcript.Recorder
	runOpts := []runner.Option{
		runner.WithEngine(engine),
		runner.WithLogger(logger),
		runner.WithEpisodeID(opts.EpisodeID),
		runner.WithStore(persistence.Store),
		runner.WithInterceptor(interceptor),
	}
	if opts.RecordPath != "" {
		runOpts = append(runOpts, runner.WithObserver(func(_ context.Context, state *domain.State, command string, fb ports.Feedback) {
			if recorder == nil {
				recorder = transcript.NewRecorder(state.LastObservation)
			}
			recorder.Record(command, fb)
		}))
	}

	res, runErr := runner.NewRunner(runOpts...).Run(ctx, sim, task)

	if recorder != nil {
		if err := recorder.Save(opts.RecordPath); err != nil {
			logger.Error("Failed to save recording", "path", opts.RecordPath, "error", err)
		} else if interactive {
			printSystemMessage(out, "Recorded to '%s'.", opts.RecordPath)
		}
	}

	if res != nil {
		logger.Info("Episode finished", "episode", res.State.EpisodeID, "outcome", res.Outcome, "steps", res.Steps)
		if interactive {
			reportResult(out, res)
		}
	}
	return res, handleExecutionError(runErr)
}

func reportResult(out io.Writer, res *runner.Result) {
	printSystemMessage(out, "Episode '%s' %s after %d steps.",
		res.State.EpisodeID, tui.StatusColor(string(res.Outcome)), res.Steps)
	if res.State.Outcome != "" {
		printSystemMessage(out, "%s", res.State.Outcome)
	}
}

// WriteResultJSON writes the result as one JSON document.
func WriteResultJSON(w io.Writer, res *runner.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// ExitCode maps a run outcome to a process exit status.
func ExitCode(res *runner.Result, err error) int {
	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		return 1
	case res == nil:
		return 0
	case res.Outcome == runner.OutcomeSucceeded:
		return 0
	case res.Outcome == runner.OutcomeCancelled:
		return 130
	}
	return 2
}
