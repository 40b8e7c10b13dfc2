package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/errand/internal/cli"
	"github.com/aretw0/errand/pkg/adapters/mcp"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/aretw0/errand/pkg/session"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes episodes as MCP tools (compile_plan, start_episode, step_episode,
get_episode, list_episodes) so an agent can drive a simulator through errand.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		engineOpts, err := engineOptions(cmd)
		if err != nil {
			return err
		}
		engine, err := cli.NewEngine(engineOpts, logger)
		if err != nil {
			return err
		}
		persistence, err := cli.OpenPersistence(storeOptions(cmd))
		if err != nil {
			return err
		}
		defer persistence.Close()

		srv := mcp.NewServer(engine, session.NewManager(persistence.Store, persistence.SessionOptions(engine, logger)...))

		switch transport {
		case "stdio":
			// Stdout carries JSON-RPC.
			log.SetOutput(os.Stderr)
			logger.Info("Starting errand MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			sm := runner.NewSignalManager(cmd.Context())
			defer sm.Stop()
			if err := srv.ServeSSE(sm.Context(), port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s (supported: stdio, sse)", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
