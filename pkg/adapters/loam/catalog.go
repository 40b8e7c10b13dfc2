package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/errand/internal/compiler"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/loam"
)

// Catalog adapts a Loam repository of task documents to ports.TaskCatalog.
// Every markdown, JSON or YAML document whose frontmatter carries a task_type is a task.
type Catalog struct {
	Repo *loam.TypedRepository[TaskMetadata]
}

// New creates a catalog over a typed Loam repository.
func New(repo *loam.TypedRepository[TaskMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// Open initialises a read-only Loam repository at path and wraps it in a Catalog.
func Open(path string) (*Catalog, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[TaskMetadata](repo)), nil
}

// Get returns the normalised task with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (domain.TaskSpec, error) {
	index, err := c.index(ctx)
	if err != nil {
		return domain.TaskSpec{}, err
	}
	docID, ok := index[trimExtension(id)]
	if !ok {
		return domain.TaskSpec{}, fmt.Errorf("%w: %s", ports.ErrTaskNotFound, id)
	}

	doc, err := c.Repo.Get(ctx, docID)
	if err != nil {
		return domain.TaskSpec{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	return compiler.Normalize(doc.Data.Spec()), nil
}

// List returns the IDs of all task documents, sorted.
func (c *Catalog) List(ctx context.Context) ([]string, error) {
	index, err := c.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// index maps normalised task IDs to Loam document IDs.
func (c *Catalog) index(ctx context.Context) (map[string]string, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	index := make(map[string]string, len(docs))
	for _, doc := range docs {
		if doc.Data.TaskType == "" {
			continue
		}
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if existing, ok := index[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing, doc.ID)
		}
		index[id] = doc.ID
	}
	return index, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
