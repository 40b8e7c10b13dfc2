package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/errand/internal/cli"
	httpAdapter "github.com/aretw0/errand/pkg/adapters/http"
	loamadapter "github.com/aretw0/errand/pkg/adapters/loam"
	"github.com/aretw0/errand/pkg/adapters/trajectory"
	"github.com/aretw0/errand/pkg/observability"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/aretw0/errand/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP episode server",
	Long:  `Serves episodes over a JSON API: clients start an episode, then post every observation and receive the next command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		engineOpts, err := engineOptions(cmd)
		if err != nil {
			return err
		}
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		engineOpts.Hooks = metrics.Hooks()
		engine, err := cli.NewEngine(engineOpts, logger)
		if err != nil {
			return err
		}

		persistence, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer persistence.Close()
		sessions := session.NewManager(persistence.Store, persistence.SessionOptions(engine, logger)...)

		var opts []httpAdapter.Option
		catalog, err := taskCatalog(cmd)
		if err != nil {
			return err
		}
		if catalog != nil {
			opts = append(opts, httpAdapter.WithCatalog(catalog))
		}

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: httpAdapter.NewHandler(engine, sessions, opts...),
		}

		sm := runner.NewSignalManager(cmd.Context())
		defer sm.Stop()

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting errand server", "addr", srv.Addr)
			fmt.Printf("Starting errand server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)
		case <-sm.Context().Done():
			fmt.Println("\nStart shutdown...")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown did not complete: %w", err)
			}
			fmt.Println("errand server stopped gracefully")
			return nil
		}
	},
}

// taskCatalog opens the catalog named by --catalog (markdown) or --trajectories.
func taskCatalog(cmd *cobra.Command) (ports.TaskCatalog, error) {
	if dir, _ := cmd.Flags().GetString("catalog"); dir != "" {
		return loamadapter.Open(dir)
	}
	if dir, _ := cmd.Flags().GetString("trajectories"); dir != "" {
		return trajectory.NewCatalog(dir), nil
	}
	return nil, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("catalog", "", "Markdown task catalog, enables starting episodes by task_id")
	serveCmd.Flags().String("trajectories", "", "Directory of traj_data.json files, enables starting episodes by task_id")
}
