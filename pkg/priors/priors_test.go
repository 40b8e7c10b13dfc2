package priors_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/errand/pkg/priors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := priors.Default()

	for _, c := range []string{"fridge", "cabinet", "microwave", "drawer", "safe", "box"} {
		assert.True(t, p.IsOpenable(c), c)
	}
	assert.False(t, p.IsOpenable("countertop"))

	assert.Contains(t, p.ContainersFor("mug"), "cabinet")
	assert.True(t, p.IsReceptacleClass("countertop"))
	assert.False(t, p.IsReceptacleClass("apple"))

	app := p.Appliances()
	assert.Equal(t, "microwave", app.Heat)
	assert.Equal(t, "fridge", app.Cool)
	assert.Equal(t, "sink", app.Clean)
}

func TestNew_NormalisesAndInverts(t *testing.T) {
	p, err := priors.New(priors.Table{
		Openable: []string{"Fridge", "fridge", " Drawer "},
		ReceptacleObjects: map[string][]string{
			"Shelf":  {"Mug", "mug", "Book"},
			"Fridge": {"Apple"},
			"Table":  {"Mug"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fridge", "drawer"}, p.Table().Openable)
	assert.Equal(t, []string{"shelf", "table"}, p.ContainersFor("mug"))
	assert.Equal(t, []string{"fridge", "shelf", "table"}, p.ReceptacleClasses())
	assert.Equal(t, []string{"mug", "book"}, p.Table().ReceptacleObjects["shelf"])
	assert.Empty(t, p.ContainersFor("unknown"))
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := priors.New(priors.Table{Openable: []string{"fridge"}})
	assert.ErrorIs(t, err, priors.ErrEmptyTable)
}

func TestContainersFor_ReturnsCopy(t *testing.T) {
	p := priors.Default()
	got := p.ContainersFor("mug")
	got[0] = "mutated"
	assert.NotEqual(t, "mutated", p.ContainersFor("mug")[0])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "priors.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
openable: [crate]
appliances: {heat: oven, cool: icebox, clean: basin}
receptacle_objects:
  crate: [widget]
`), 0644))

	p, err := priors.Load(yamlPath)
	require.NoError(t, err)
	assert.True(t, p.IsOpenable("crate"))
	assert.Equal(t, "oven", p.Appliances().Heat)

	jsonPath := filepath.Join(dir, "priors.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"receptacle_objects":{"shelf":["book"]}}`), 0644))
	p, err = priors.Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"shelf"}, p.ContainersFor("book"))

	_, err = priors.Load(filepath.Join(dir, "priors.toml"))
	assert.Error(t, err)
}
