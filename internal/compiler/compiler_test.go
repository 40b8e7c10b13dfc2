package compiler

import (
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/priors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_PickAndPlaceRoundTrip(t *testing.T) {
	plan, err := Compile(domain.TaskSpec{
		Type:         domain.TaskPickAndPlaceSimple,
		ObjectTarget: "apple",
		ParentTarget: "countertop",
	}, priors.Default())
	require.NoError(t, err)

	assert.Equal(t, domain.Plan{
		{Verb: domain.VerbFind, Target: "apple"},
		{Verb: domain.VerbTake, Target: "apple"},
		{Verb: domain.VerbFind, Target: "countertop"},
		{Verb: domain.VerbPut, Target: "countertop"},
	}, plan)
}

func TestCompile_Templates(t *testing.T) {
	tests := []struct {
		name string
		spec domain.TaskSpec
		want string
	}{
		{
			name: "Look At In Light",
			spec: domain.TaskSpec{Type: domain.TaskLookAtObjInLight, ObjectTarget: "book", ToggleTarget: "desklamp"},
			want: "[find(book), take(book), find(desklamp), use(desklamp)]",
		},
		{
			name: "Heat",
			spec: domain.TaskSpec{Type: domain.TaskPickHeatThenPlace, ObjectTarget: "egg", ParentTarget: "countertop"},
			want: "[find(egg), take(egg), goto(microwave), heat(egg), find(countertop), put(countertop)]",
		},
		{
			name: "Cool",
			spec: domain.TaskSpec{Type: domain.TaskPickCoolThenPlace, ObjectTarget: "pan", ParentTarget: "stoveburner"},
			want: "[find(pan), take(pan), goto(fridge), cool(pan), find(stoveburner), put(stoveburner)]",
		},
		{
			name: "Clean",
			spec: domain.TaskSpec{Type: domain.TaskPickCleanThenPlace, ObjectTarget: "mug", ParentTarget: "coffeemachine"},
			want: "[find(mug), take(mug), goto(sink), clean(mug), find(coffeemachine), put(coffeemachine)]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(tt.spec, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, plan.String())
		})
	}
}

func TestCompile_CustomAppliances(t *testing.T) {
	p, err := priors.New(priors.Table{
		ReceptacleObjects: map[string][]string{"oven": {"egg"}},
		Appliances:        priors.Appliances{Heat: "Oven"},
	})
	require.NoError(t, err)

	plan, err := Compile(domain.TaskSpec{Type: domain.TaskPickHeatThenPlace, ObjectTarget: "egg", ParentTarget: "plate"}, p)
	require.NoError(t, err)
	assert.Equal(t, domain.Subgoal{Verb: domain.VerbGoto, Target: "oven"}, plan[2])

	_, err = Compile(domain.TaskSpec{Type: domain.TaskPickCoolThenPlace, ObjectTarget: "egg", ParentTarget: "plate"}, p)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)
}

func TestCompile_Errors(t *testing.T) {
	_, err := Compile(domain.TaskSpec{Type: "pick_two_obj_and_place", ObjectTarget: "a", ParentTarget: "b"}, nil)
	assert.ErrorIs(t, err, domain.ErrUnknownTaskType)
	assert.Contains(t, err.Error(), "pick_two_obj_and_place")

	_, err = Compile(domain.TaskSpec{Type: domain.TaskPickAndPlaceSimple, ObjectTarget: "apple"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)
	assert.Contains(t, err.Error(), "parent_target")

	_, err = Compile(domain.TaskSpec{Type: domain.TaskLookAtObjInLight, ObjectTarget: "book", ParentTarget: "desk"}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTask)
}

func TestWithIntro(t *testing.T) {
	plan := domain.Plan{{Verb: domain.VerbFind, Target: "apple"}}
	full := WithIntro(plan)

	assert.Equal(t, domain.Plan{{Verb: domain.VerbLook}, {Verb: domain.VerbFind, Target: "apple"}}, full)
	assert.Len(t, plan, 1)
}

func TestSupported(t *testing.T) {
	for _, tt := range domain.TaskTypes() {
		assert.True(t, Supported(tt), tt)
	}
	assert.False(t, Supported("pick_two_obj_and_place"))
}
