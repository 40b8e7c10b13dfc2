package runner

import (
	"log/slog"

	"github.com/aretw0/errand"
	"github.com/aretw0/errand/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the StateStore for persistence.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithEpisodeID sets the episode ID used for persistence.
// If empty, the engine generates one.
func WithEpisodeID(id string) Option {
	return func(r *Runner) {
		r.EpisodeID = id
	}
}

// WithEngine configures the errand engine that decides commands.
func WithEngine(engine *errand.Engine) Option {
	return func(r *Runner) {
		r.Engine = engine
	}
}

// WithInterceptor configures the command middleware.
func WithInterceptor(interceptor CommandInterceptor) Option {
	return func(r *Runner) {
		r.Interceptor = interceptor
	}
}

// WithObserver registers a callback invoked after every simulator turn.
func WithObserver(fn Observer) Option {
	return func(r *Runner) {
		r.Observer = fn
	}
}
