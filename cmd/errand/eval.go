package main

import (
	"os"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/spf13/cobra"
)

var evalCmd = &cobra.Command{
	Use:   "eval <dir>",
	Short: "Replay every recorded trajectory under a directory and report the success rate",
	Long: `Walks <dir> for traj_data.json files. Each one with a transcript.yaml beside it is
replayed, and the outcomes are tallied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engineOpts, err := engineOptions(cmd)
		if err != nil {
			return err
		}

		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()

		report, err := cli.Evaluate(sm.Context(), cli.EvalOptions{Root: args[0], Engine: engineOpts}, logger)
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(report)
		}
		cli.PrintReport(os.Stdout, report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("json", false, "Print the report as JSON")
}
