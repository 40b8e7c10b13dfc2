package validator

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/priors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCatalog map[string]domain.TaskSpec

func (c mapCatalog) Get(_ context.Context, id string) (domain.TaskSpec, error) {
	spec, ok := c[id]
	if !ok {
		return domain.TaskSpec{}, ports.ErrTaskNotFound
	}
	return spec, nil
}

func (c mapCatalog) List(context.Context) ([]string, error) {
	var ids []string
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestValidatePriors(t *testing.T) {
	assert.NoError(t, ValidatePriors(priors.Default()))

	p, err := priors.New(priors.Table{
		Openable:          []string{"fridge", "vault"},
		ReceptacleObjects: map[string][]string{"fridge": {"apple"}},
		Appliances:        priors.Appliances{Cool: "fridge", Heat: "oven"},
	})
	require.NoError(t, err)

	err = ValidatePriors(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors")
	assert.Contains(t, err.Error(), "heat appliance 'oven'")
	assert.Contains(t, err.Error(), "openable class 'vault'")
}

func TestValidateCatalog(t *testing.T) {
	ctx := context.Background()
	p := priors.Default()

	valid := mapCatalog{
		"apple": {Type: domain.TaskPickAndPlaceSimple, ObjectTarget: "apple", ParentTarget: "countertop"},
		"lamp":  {Type: domain.TaskLookAtObjInLight, ObjectTarget: "book", ToggleTarget: "desklamp"},
	}
	assert.NoError(t, ValidateCatalog(ctx, valid, p))

	broken := mapCatalog{
		"two":     {Type: domain.TaskType("pick_two_obj_and_place"), ObjectTarget: "apple", ParentTarget: "countertop"},
		"ghost":   {Type: domain.TaskPickAndPlaceSimple, ObjectTarget: "ghost", ParentTarget: "countertop"},
		"nowhere": {Type: domain.TaskPickAndPlaceSimple, ObjectTarget: "apple", ParentTarget: "moon"},
	}
	err := ValidateCatalog(ctx, broken, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 3 errors")
	assert.Contains(t, err.Error(), "Compile error: 'two'")
	assert.Contains(t, err.Error(), "No prior container: 'ghost'")
	assert.Contains(t, err.Error(), "Unknown receptacle: 'nowhere'")
}
