package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/internal/presentation/graph"
	"github.com/aretw0/errand/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [traj_data.json]",
	Short: "Compile a task and print its subgoal plan",
	Long:  `Compiles a task into its subgoal plan. The plan is rendered as markdown, as a Mermaid diagram (--graph) or as JSON (--json).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptions(cmd, args)
		if err != nil {
			return err
		}
		task, err := cli.ResolveTask(cmd.Context(), opts.Task)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(opts.Engine, logger)
		if err != nil {
			return err
		}
		plan, err := engine.Compile(task)
		if err != nil {
			return err
		}

		asGraph, _ := cmd.Flags().GetBool("graph")
		asJSON, _ := cmd.Flags().GetBool("json")
		switch {
		case asJSON:
			return writeJSON(map[string]any{"task": task, "plan": plan})
		case asGraph:
			fmt.Print(graph.GenerateMermaid(plan, nil))
			return nil
		}

		markdown := tui.PlanMarkdown(task, plan, -1)
		if !cli.IsTerminal(os.Stdout) {
			fmt.Print(markdown)
			return nil
		}
		out, err := tui.NewRenderer()(markdown)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().String("task", "", "ALFRED traj_data.json file or its directory")
	planCmd.Flags().String("catalog", "", "Markdown task catalog directory")
	planCmd.Flags().String("id", "", "Task ID in the catalog")
	planCmd.Flags().String("type", "", "Task type, e.g. pick_and_place_simple")
	planCmd.Flags().String("object", "", "Object class to manipulate")
	planCmd.Flags().String("parent", "", "Destination receptacle class")
	planCmd.Flags().String("toggle", "", "Light source class (look_at_obj_in_light)")
	planCmd.Flags().Bool("graph", false, "Print a Mermaid diagram")
	planCmd.Flags().Bool("json", false, "Print JSON")
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
