package main

import (
	"fmt"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the priors and a task catalog for consistency",
	Long: `Checks that the priors declare every appliance and openable class as a receptacle and,
with --catalog or --trajectories, that every task compiles and can be searched for.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engineOpts, err := engineOptions(cmd)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(engineOpts, logger)
		if err != nil {
			return err
		}

		if err := validator.ValidatePriors(engine.Priors()); err != nil {
			return fmt.Errorf("priors validation failed: %w", err)
		}

		catalog, err := taskCatalog(cmd)
		if err != nil {
			return err
		}
		if catalog != nil {
			if err := validator.ValidateCatalog(cmd.Context(), catalog, engine.Priors()); err != nil {
				return fmt.Errorf("catalog validation failed: %w", err)
			}
		}

		fmt.Println("All checks passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("catalog", "", "Markdown task catalog to check")
	validateCmd.Flags().String("trajectories", "", "Directory of traj_data.json files to check")
}
