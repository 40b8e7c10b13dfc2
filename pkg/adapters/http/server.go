package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/runner"
	"github.com/aretw0/errand/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var errEpisodeExists = errors.New("episode already exists")

// Server exposes episodes over a REST API.
type Server struct {
	Engine   ports.StatelessEngine
	Sessions *session.Manager
	Catalog  ports.TaskCatalog
	Streams  *StreamManager
	Metrics  http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithCatalog lets clients start episodes by task ID.
func WithCatalog(catalog ports.TaskCatalog) Option {
	return func(s *Server) {
		s.Catalog = catalog
	}
}

// WithMetricsHandler replaces the default Prometheus handler served at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// PlanRequest is the body of POST /plan.
type PlanRequest struct {
	Task   *domain.TaskSpec `json:"task,omitempty"`
	TaskID string           `json:"task_id,omitempty"`
}

// PlanResponse is the answer of POST /plan.
type PlanResponse struct {
	Task domain.TaskSpec `json:"task"`
	Plan domain.Plan     `json:"plan"`
}

// StartRequest is the body of POST /episodes.
type StartRequest struct {
	EpisodeID string           `json:"episode_id,omitempty"`
	Task      *domain.TaskSpec `json:"task,omitempty"`
	TaskID    string           `json:"task_id,omitempty"`
}

// StepRequest is the body of POST /episodes/{id}/step.
// Won reports simulator success instead of a new observation.
type StepRequest struct {
	Observation string `json:"observation"`
	Won         bool   `json:"won,omitempty"`
}

// NewHandler creates the HTTP handler. The session manager holds episode state.
func NewHandler(engine ports.StatelessEngine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		Streams:  NewStreamManager(),
		Metrics:  promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Handle("/metrics", s.Metrics)
	r.Post("/plan", s.Plan)

	r.Route("/episodes", func(r chi.Router) {
		r.Get("/", s.ListEpisodes)
		r.Post("/", s.StartEpisode)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetEpisode)
			r.Delete("/", s.DeleteEpisode)
			r.Post("/step", s.StepEpisode)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "errand-http",
		"version": strings.TrimSpace(errand.Version),
	})
}

// Plan handles POST /plan.
func (s *Server) Plan(w http.ResponseWriter, r *http.Request) {
	var body PlanRequest
	if !decode(w, r, &body) {
		return
	}
	task, err := s.resolveTask(r.Context(), body.Task, body.TaskID)
	if err != nil {
		writeError(w, err)
		return
	}
	plan, err := s.Engine.Compile(task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanResponse{Task: task, Plan: plan})
}

// ListEpisodes handles GET /episodes.
func (s *Server) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"episodes": ids})
}

// StartEpisode handles POST /episodes.
func (s *Server) StartEpisode(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !decode(w, r, &body) {
		return
	}
	ctx := r.Context()

	task, err := s.resolveTask(ctx, body.Task, body.TaskID)
	if err != nil {
		writeError(w, err)
		return
	}
	if body.EpisodeID != "" {
		if _, err := s.Sessions.Load(ctx, body.EpisodeID); err == nil {
			writeError(w, fmt.Errorf("%w: %s", errEpisodeExists, body.EpisodeID))
			return
		}
	}

	state, err := s.Sessions.Start(ctx, body.EpisodeID, task)
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Info("Episode started", "episode_id", state.EpisodeID, "task", task.Type)
	writeJSON(w, http.StatusCreated, state)
}

// GetEpisode handles GET /episodes/{id}.
func (s *Server) GetEpisode(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteEpisode handles DELETE /episodes/{id}.
func (s *Server) DeleteEpisode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepEpisode handles POST /episodes/{id}/step.
// Terminal outcomes are answered with 200 and a terminal response.
func (s *Server) StepEpisode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var body StepRequest
	if !decode(w, r, &body) {
		return
	}

	var resp *runner.StepResponse
	err := s.Sessions.WithLock(r.Context(), id, func(ctx context.Context) error {
		store := s.Sessions.Store()
		state, err := store.Load(ctx, id)
		if err != nil {
			return err
		}
		if body.Won {
			resp = runner.SucceedAndDiff(ctx, s.Engine, state)
		} else {
			resp, err = runner.StepAndDiff(ctx, s.Engine, state, body.Observation)
			if err != nil {
				return err
			}
		}
		return store.Save(ctx, id, resp.State)
	})
	if err != nil {
		slog.Warn("Step rejected", "episode_id", id, "error", err)
		writeError(w, err)
		return
	}

	if resp.Diff != nil {
		if data, err := json.Marshal(resp.Diff); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}
	slog.Debug("Step", "episode_id", id, "command", resp.Command, "terminal", resp.Terminal)
	writeJSON(w, http.StatusOK, resp)
}

// SubscribeEvents handles GET /episodes/{id}/events (SSE). Every step diff of the
// episode is pushed as one event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: Streaming not supported")
		return
	}
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE Client Disconnected", "episode_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) resolveTask(ctx context.Context, task *domain.TaskSpec, taskID string) (domain.TaskSpec, error) {
	switch {
	case task != nil:
		return *task, nil
	case taskID == "":
		return domain.TaskSpec{}, fmt.Errorf("%w: task or task_id is required", domain.ErrInvalidTask)
	case s.Catalog == nil:
		return domain.TaskSpec{}, fmt.Errorf("%w: no task catalog configured", ports.ErrTaskNotFound)
	}
	return s.Catalog.Get(ctx, taskID)
}

// -- Helpers --

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEpisodeNotFound), errors.Is(err, ports.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEpisodeFinished), errors.Is(err, errEpisodeExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownTaskType), errors.Is(err, domain.ErrInvalidTask):
		return http.StatusUnprocessableEntity
	case errors.Is(err, runner.ErrObservationTooLarge), errors.Is(err, runner.ErrInvalidUTF8):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
