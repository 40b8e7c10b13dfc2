package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// ErrInadmissible is returned by StrictAdmissible for commands the simulator did not offer.
var ErrInadmissible = errors.New("command not admissible")

// CommandInterceptor inspects a command before it is sent to the simulator.
// admissible is the simulator's last list of admissible commands and may be empty.
// Returning an error stops the episode.
type CommandInterceptor func(ctx context.Context, command string, admissible []string) error

// MultiInterceptor chains multiple interceptors. The first error wins.
func MultiInterceptor(interceptors ...CommandInterceptor) CommandInterceptor {
	return func(ctx context.Context, command string, admissible []string) error {
		for _, interceptor := range interceptors {
			if interceptor == nil {
				continue
			}
			if err := interceptor(ctx, command, admissible); err != nil {
				return err
			}
		}
		return nil
	}
}

// AllowAll lets every command through.
func AllowAll() CommandInterceptor {
	return func(context.Context, string, []string) error { return nil }
}

// LogInadmissible logs commands outside the admissible set and lets them through.
func LogInadmissible(logger *slog.Logger) CommandInterceptor {
	return func(ctx context.Context, command string, admissible []string) error {
		if len(admissible) == 0 || slices.Contains(admissible, command) {
			return nil
		}
		logger.WarnContext(ctx, "command not in admissible set", "command", command, "admissible", len(admissible))
		return nil
	}
}

// StrictAdmissible rejects commands outside a non-empty admissible set.
func StrictAdmissible() CommandInterceptor {
	return func(_ context.Context, command string, admissible []string) error {
		if len(admissible) == 0 || slices.Contains(admissible, command) {
			return nil
		}
		return fmt.Errorf("%w: %q", ErrInadmissible, command)
	}
}
