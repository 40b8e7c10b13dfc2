package main

import (
	"os"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [traj_data.json]",
	Short: "Play one episode against a simulator",
	Long: `Plays one task. Observations are read from stdin (plain text, or NDJSON with --json)
and commands are written to stdout. With --transcript the episode is replayed from a script.

The task comes from a trajectory file, from a markdown catalog (--catalog with --id), or
from --type/--object/--parent/--toggle.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd, args)
		if err != nil {
			return err
		}

		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()

		res, err := cli.Execute(sm.Context(), opts, logger, os.Stdin, os.Stdout)
		if printJSON, _ := cmd.Flags().GetBool("result-json"); printJSON && res != nil {
			_ = cli.WriteResultJSON(os.Stderr, res)
		}
		if code := cli.ExitCode(res, err); code != 0 {
			if err != nil {
				return err
			}
			os.Exit(code)
		}
		return nil
	},
}

func runOptions(cmd *cobra.Command, args []string) (cli.RunOptions, error) {
	engineOpts, err := engineOptions(cmd)
	if err != nil {
		return cli.RunOptions{}, err
	}

	taskPath, _ := cmd.Flags().GetString("task")
	if taskPath == "" && len(args) > 0 {
		taskPath = args[0]
	}
	catalog, _ := cmd.Flags().GetString("catalog")
	id, _ := cmd.Flags().GetString("id")
	taskType, _ := cmd.Flags().GetString("type")
	object, _ := cmd.Flags().GetString("object")
	parent, _ := cmd.Flags().GetString("parent")
	toggle, _ := cmd.Flags().GetString("toggle")

	jsonMode, _ := cmd.Flags().GetBool("json")
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	episodeID, _ := cmd.Flags().GetString("episode")
	record, _ := cmd.Flags().GetString("record")
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")

	return cli.RunOptions{
		Task: cli.TaskOptions{
			Path:        taskPath,
			CatalogPath: catalog,
			ID:          id,
			Spec: domain.TaskSpec{
				Type:         domain.TaskType(taskType),
				ObjectTarget: object,
				ParentTarget: parent,
				ToggleTarget: toggle,
			},
		},
		Simulator:  cli.SimulatorOptions{TranscriptPath: transcriptPath, JSON: jsonMode},
		Engine:     engineOpts,
		Store:      storeOptions(cmd),
		EpisodeID:  episodeID,
		RecordPath: record,
		Strict:     strict,
		Quiet:      quiet,
	}, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("task", "", "ALFRED traj_data.json file or its directory")
	runCmd.Flags().String("catalog", "", "Markdown task catalog directory")
	runCmd.Flags().String("id", "", "Task ID in the catalog")
	runCmd.Flags().String("type", "", "Task type, e.g. pick_and_place_simple")
	runCmd.Flags().String("object", "", "Object class to manipulate")
	runCmd.Flags().String("parent", "", "Destination receptacle class")
	runCmd.Flags().String("toggle", "", "Light source class (look_at_obj_in_light)")

	runCmd.Flags().Bool("json", false, "Speak NDJSON on stdin/stdout")
	runCmd.Flags().String("transcript", "", "Replay a YAML transcript instead of reading stdin")
	runCmd.Flags().String("record", "", "Save the episode as a replayable transcript")
	runCmd.Flags().String("episode", "", "Episode ID (generated when empty)")
	runCmd.Flags().Bool("strict", false, "Stop when a command is outside the admissible set")
	runCmd.Flags().BoolP("quiet", "q", false, "Print commands only")
	runCmd.Flags().Bool("result-json", false, "Write the final result as JSON to stderr")
}
