package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks every match of the patterns in
// the stored observation text. The in-memory state is not modified.
func NewRedactionMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, episodeID string, state *domain.State) error {
	cloned := state.Clone()
	for _, p := range m.patterns {
		cloned.LastObservation = p.ReplaceAllString(cloned.LastObservation, Mask)
	}
	return m.next.Save(ctx, episodeID, cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, episodeID string) (*domain.State, error) {
	return m.next.Load(ctx, episodeID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, episodeID string) error {
	return m.next.Delete(ctx, episodeID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
