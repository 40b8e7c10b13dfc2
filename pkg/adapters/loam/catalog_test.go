package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/errand/internal/testutils"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docs := []core.Document{
		{
			ID: "apple.md",
			Content: `---
id: apple
task_type: pick_and_place_simple
object_target: Apple
parent_target: CounterTop
---
Put an apple on the counter.`,
		},
		{
			ID: "book.md",
			Content: `---
id: book
task_type: look_at_obj_in_light
object_target: book
toggle_target: desklamp
---
Examine a book under the lamp.`,
		},
	}
	for _, doc := range docs {
		require.NoError(t, repo.Save(ctx, doc))
	}

	catalog := New(loam.NewTypedRepository[TaskMetadata](repo))

	tests.TaskCatalogContractTest(t, catalog, map[string]domain.TaskSpec{
		"apple": {Type: domain.TaskPickAndPlaceSimple, ObjectTarget: "apple", ParentTarget: "countertop"},
		"book":  {Type: domain.TaskLookAtObjInLight, ObjectTarget: "book", ToggleTarget: "desklamp"},
	})
}

func TestCatalog_SkipsNonTaskDocuments(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	files := map[string]string{
		"heat.md": `---
task_type: pick_heat_then_place_in_recep
object_target: egg
parent_target: countertop
---`,
		"README.md": `---
title: notes
---
Not a task.`,
	}
	testutils.WriteFiles(t, tmpDir, files)

	catalog := New(loam.NewTypedRepository[TaskMetadata](repo))

	ids, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"heat"}, ids, "ID is implied from filename")

	spec, err := catalog.Get(context.Background(), "heat")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskPickHeatThenPlace, spec.Type)

	_, err = catalog.Get(context.Background(), "README")
	assert.ErrorIs(t, err, ports.ErrTaskNotFound)
}

func TestCatalog_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	files := map[string]string{
		"foo.md": `---
id: foo
task_type: pick_clean_then_place_in_recep
object_target: plate
parent_target: shelf
---`,
		"foo.json": `{
  "id": "foo",
  "task_type": "pick_cool_then_place_in_recep",
  "object_target": "apple",
  "parent_target": "countertop"
}`,
	}
	testutils.WriteFiles(t, tmpDir, files)

	catalog := New(loam.NewTypedRepository[TaskMetadata](repo))

	_, err := catalog.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
}

func TestTaskMetadata_Spec(t *testing.T) {
	meta := TaskMetadata{TaskType: "pick_and_place_simple", ObjectTarget: "mug", ParentTarget: "cabinet"}
	assert.Equal(t, domain.TaskSpec{
		Type:         domain.TaskPickAndPlaceSimple,
		ObjectTarget: "mug",
		ParentTarget: "cabinet",
	}, meta.Spec())
}
