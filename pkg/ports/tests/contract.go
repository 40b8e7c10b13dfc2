package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
)

// TaskCatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.TaskCatalog.
func TaskCatalogContractTest(t *testing.T, catalog ports.TaskCatalog, setupData map[string]domain.TaskSpec) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for id, expected := range setupData {
			got, err := catalog.Get(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error getting task %s: %v", id, err)
			}
			if got != expected {
				t.Errorf("task mismatch for %s. got %+v, want %+v", id, got, expected)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := catalog.Get(ctx, "non-existent-task")
		if !errors.Is(err, ports.ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		ids, err := catalog.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing tasks: %v", err)
		}
		found := make(map[string]bool, len(ids))
		for _, id := range ids {
			found[id] = true
		}
		for id := range setupData {
			if !found[id] {
				t.Errorf("expected task %s in list %v", id, ids)
			}
		}
	})
}
