package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingMemory_CloneIsIndependent(t *testing.T) {
	m := NewWorkingMemory()
	m.AddReceptacle("fridge_1", "fridge")
	m.Inventory = []string{"apple_1"}
	m.PushDeferred("close fridge_1")

	c := m.Clone()
	c.AddReceptacle("sink_1", "sink")
	c.Inventory[0] = "mug_1"
	c.PopDeferred()
	c.ClassLocations["apple"] = "fridge_1"

	assert.Len(t, m.Receptacles, 1)
	assert.Equal(t, []string{"fridge_1"}, m.ReceptacleOrder)
	assert.Equal(t, []string{"apple_1"}, m.Inventory)
	assert.Equal(t, []string{"close fridge_1"}, m.DeferredActions)
	assert.Empty(t, m.ClassLocations)
}

func TestWorkingMemory_CloneNil(t *testing.T) {
	var m *WorkingMemory
	c := m.Clone()
	require.NotNil(t, c)
	assert.NotNil(t, c.Receptacles)
}

func TestWorkingMemory_AddReceptacleIsAppendOnly(t *testing.T) {
	m := NewWorkingMemory()
	m.AddReceptacle("cabinet_2", "cabinet")
	m.AddReceptacle("cabinet_1", "cabinet")
	m.AddReceptacle("cabinet_2", "drawer")

	assert.Equal(t, "cabinet", m.Receptacles["cabinet_2"])
	assert.Equal(t, []string{"cabinet_2", "cabinet_1"}, m.ReceptaclesOfClass("cabinet"))
}

func TestWorkingMemory_StacksPopFromEnd(t *testing.T) {
	m := NewWorkingMemory()
	m.SearchFrontier = []string{"a_1", "b_1"}

	r, ok := m.PopFrontier()
	assert.True(t, ok)
	assert.Equal(t, "b_1", r)

	_, _ = m.PopFrontier()
	_, ok = m.PopFrontier()
	assert.False(t, ok)

	_, ok = m.PopInventory()
	assert.False(t, ok)
}

func TestPlanString(t *testing.T) {
	p := Plan{{Verb: VerbFind, Target: "apple"}, {Verb: VerbOpen}}
	assert.Equal(t, "[find(apple), open()]", p.String())
}

func TestVerbValid(t *testing.T) {
	assert.True(t, VerbSlice.Valid())
	assert.False(t, Verb("juggle").Valid())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusTimedOut, StatusFor(ErrTimeout))
	assert.Equal(t, StatusExhausted, StatusFor(ErrPlanExhausted))
	assert.Equal(t, StatusFailed, StatusFor(ErrInvariantViolation))
	assert.Equal(t, StatusActive, StatusFor(ErrInvalidTask))
	assert.True(t, IsTerminal(ErrTimeout))
	assert.False(t, IsTerminal(nil))
}

func TestCommandGrammar(t *testing.T) {
	assert.Equal(t, "go to fridge_1", GoTo("fridge_1"))
	assert.Equal(t, "take apple_1 from countertop_1", Take("apple_1", "countertop_1"))
	assert.Equal(t, "put apple_1 in/on fridge_1", Put("apple_1", "fridge_1"))
	assert.Equal(t, "heat egg_1 with microwave_1", Apply(VerbHeat, "egg_1", "microwave_1"))
	assert.Equal(t, "slice bread_1 with knife_1", Slice("bread_1", "knife_1"))
	assert.Equal(t, "use desklamp_1", Use("desklamp_1"))
}
