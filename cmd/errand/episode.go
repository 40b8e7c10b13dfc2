package main

import (
	"os"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/spf13/cobra"
)

var episodeCmd = &cobra.Command{
	Use:     "episode",
	Aliases: []string{"session"},
	Short:   "Manage stored episodes",
	Long:    `List, inspect, follow and remove episodes kept in the configured store.`,
}

var episodeLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored episodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.ListEpisodes(cmd.Context(), p.Store, os.Stdout)
	},
}

var episodeInspectCmd = &cobra.Command{
	Use:   "inspect <episode-id>",
	Short: "Inspect the state of an episode",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		p, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.InspectEpisode(cmd.Context(), p.Store, args[0], format, os.Stdout)
	},
}

var episodeWatchCmd = &cobra.Command{
	Use:   "watch <episode-id>",
	Short: "Follow an episode and print every change as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		p, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer p.Close()

		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()
		return cli.WatchEpisode(sm.Context(), p.Store, args[0], interval, os.Stdout, logger)
	},
}

var episodeRmCmd = &cobra.Command{
	Use:   "rm <episode-id>...",
	Short: "Remove one or more episodes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer p.Close()
		return cli.RemoveEpisodes(cmd.Context(), p.Store, args, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(episodeCmd)
	episodeCmd.AddCommand(episodeLsCmd, episodeInspectCmd, episodeWatchCmd, episodeRmCmd)

	episodeInspectCmd.Flags().String("format", cli.FormatJSON, "Output format: json, plan or graph")
	episodeWatchCmd.Flags().Duration("interval", cli.DefaultWatchInterval, "Polling interval")
}
