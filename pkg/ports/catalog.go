package ports

import (
	"context"
	"errors"

	"github.com/aretw0/errand/pkg/domain"
)

// ErrTaskNotFound is returned by a TaskCatalog for an unknown task ID.
var ErrTaskNotFound = errors.New("task not found")

// TaskCatalog is a named collection of task specifications.
type TaskCatalog interface {
	// Get returns the task with the given ID, or ErrTaskNotFound.
	Get(ctx context.Context, id string) (domain.TaskSpec, error)

	// List returns all task IDs in the catalog.
	List(ctx context.Context) ([]string, error)
}
