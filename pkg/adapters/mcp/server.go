package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/priors"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/aretw0/errand/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PriorsURI is the resource exposing the commonsense priors table.
const PriorsURI = "errand://priors"

// PlanResponse is the structured result of compile_plan.
type PlanResponse struct {
	Task domain.TaskSpec `json:"task" jsonschema_description:"The normalised task"`
	Plan domain.Plan     `json:"plan" jsonschema_description:"Ordered subgoals"`
}

// EpisodeResponse is the structured result of start_episode and get_episode.
type EpisodeResponse struct {
	State    *domain.State `json:"state" jsonschema_description:"The episode state"`
	Terminal bool          `json:"terminal" jsonschema_description:"Indicates if the episode has ended"`
}

// Engine is the engine surface the MCP server needs.
type Engine interface {
	ports.StatelessEngine
	Priors() *priors.Priors
}

// Server exposes episodes as MCP tools.
type Server struct {
	engine    Engine
	sessions  *session.Manager
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, sessions *session.Manager) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("errand-mcp", strings.TrimSpace(errand.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP protocol over SSE on the given port until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func taskParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("task_type", mcp.Required(), mcp.Description("One of the supported task types, e.g. pick_and_place_simple")),
		mcp.WithString("object_target", mcp.Required(), mcp.Description("Class of the object to manipulate")),
		mcp.WithString("parent_target", mcp.Description("Class of the destination receptacle")),
		mcp.WithString("toggle_target", mcp.Description("Class of the light source (look_at_obj_in_light)")),
	}
}

func (s *Server) registerTools() {
	compileTool := mcp.NewTool("compile_plan", append([]mcp.ToolOption{
		mcp.WithDescription("Compile a task into its ordered list of subgoals."),
		mcp.WithOutputSchema[PlanResponse](),
	}, taskParams()...)...)
	s.mcpServer.AddTool(compileTool, mcp.NewStructuredToolHandler(s.handleCompilePlan))

	startTool := mcp.NewTool("start_episode", append([]mcp.ToolOption{
		mcp.WithDescription("Start a new episode for a task. Feed the simulator's intro to step_episode next."),
		mcp.WithString("episode_id", mcp.Description("Episode ID (generated when omitted)")),
		mcp.WithOutputSchema[EpisodeResponse](),
	}, taskParams()...)...)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartEpisode))

	stepTool := mcp.NewTool("step_episode",
		mcp.WithDescription("Feed the latest simulator observation and get the next command."),
		mcp.WithString("episode_id", mcp.Required(), mcp.Description("Episode ID")),
		mcp.WithString("observation", mcp.Description("Latest observation text")),
		mcp.WithBoolean("won", mcp.Description("Set when the simulator reported success")),
		mcp.WithOutputSchema[runner.StepResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStepEpisode))

	getTool := mcp.NewTool("get_episode",
		mcp.WithDescription("Get the current state of an episode."),
		mcp.WithString("episode_id", mcp.Required(), mcp.Description("Episode ID")),
		mcp.WithOutputSchema[EpisodeResponse](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetEpisode))

	s.mcpServer.AddTool(mcp.NewTool("list_episodes",
		mcp.WithDescription("List stored episode IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func taskFromArgs(args map[string]interface{}) domain.TaskSpec {
	str := func(key string) string {
		v, _ := args[key].(string)
		return v
	}
	return domain.TaskSpec{
		Type:         domain.TaskType(str("task_type")),
		ObjectTarget: str("object_target"),
		ParentTarget: str("parent_target"),
		ToggleTarget: str("toggle_target"),
	}
}

func (s *Server) handleCompilePlan(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (PlanResponse, error) {
	task := taskFromArgs(args)
	plan, err := s.engine.Compile(task)
	if err != nil {
		return PlanResponse{}, fmt.Errorf("compile failed: %w", err)
	}
	return PlanResponse{Task: task, Plan: plan}, nil
}

func (s *Server) handleStartEpisode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EpisodeResponse, error) {
	episodeID, _ := args["episode_id"].(string)
	if episodeID != "" {
		if _, err := s.sessions.Load(ctx, episodeID); err == nil {
			return EpisodeResponse{}, fmt.Errorf("episode %s already exists", episodeID)
		}
	}
	state, err := s.sessions.Start(ctx, episodeID, taskFromArgs(args))
	if err != nil {
		return EpisodeResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return EpisodeResponse{State: state}, nil
}

func (s *Server) handleStepEpisode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (runner.StepResponse, error) {
	episodeID, _ := args["episode_id"].(string)
	observation, _ := args["observation"].(string)
	won, _ := args["won"].(bool)

	var resp *runner.StepResponse
	err := s.sessions.WithLock(ctx, episodeID, func(ctx context.Context) error {
		store := s.sessions.Store()
		state, err := store.Load(ctx, episodeID)
		if err != nil {
			return err
		}
		if won {
			resp = runner.SucceedAndDiff(ctx, s.engine, state)
		} else if resp, err = runner.StepAndDiff(ctx, s.engine, state, observation); err != nil {
			return err
		}
		return store.Save(ctx, episodeID, resp.State)
	})
	if err != nil {
		if errors.Is(err, runner.ErrObservationTooLarge) || errors.Is(err, runner.ErrInvalidUTF8) {
			slog.Warn("MCP Step: Observation rejected", "error", err, "size", len(observation))
		}
		return runner.StepResponse{}, fmt.Errorf("step failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) handleGetEpisode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EpisodeResponse, error) {
	episodeID, _ := args["episode_id"].(string)
	state, err := s.sessions.Load(ctx, episodeID)
	if err != nil {
		return EpisodeResponse{}, fmt.Errorf("get failed: %w", err)
	}
	return EpisodeResponse{State: state, Terminal: state.Status.Terminal()}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(PriorsURI, "Commonsense Priors",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.priorsJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PriorsURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) priorsJSON() (string, error) {
	jsonBytes, err := json.Marshal(s.engine.Priors().Table())
	if err != nil {
		return "", fmt.Errorf("failed to encode priors: %w", err)
	}
	return string(jsonBytes), nil
}
