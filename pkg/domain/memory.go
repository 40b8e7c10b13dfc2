package domain

import "slices"

// WorkingMemory is everything the policy remembers during one episode.
// It is owned by exactly one episode and serialised as part of State.
type WorkingMemory struct {
	// Receptacles maps receptacle mention to class. Populated once from the intro.
	Receptacles map[string]string `json:"receptacles"`
	// ReceptacleOrder keeps census order so iteration over receptacles is deterministic.
	ReceptacleOrder []string `json:"receptacle_order"`
	// VisibleObjects is replaced on every non-intro observation.
	VisibleObjects map[string]string `json:"visible_objects"`
	// VisibleOrder keeps the observation order of VisibleObjects.
	VisibleOrder []string `json:"visible_order"`
	// ClassLocations is the sticky last known receptacle per object class.
	ClassLocations map[string]string `json:"class_locations"`
	// Inventory is a stack: the last taken item is the first put.
	Inventory            []string `json:"inventory"`
	CurrentReceptacle    string   `json:"current_receptacle,omitempty"`
	CheckedInsideCurrent bool     `json:"checked_inside_current"`
	// SearchFrontier is consumed from the end.
	SearchFrontier []string `json:"search_frontier"`
	// DeferredActions is drained from the end before the plan moves on.
	DeferredActions []string `json:"deferred_actions"`
	SubgoalIndex    int      `json:"subgoal_index"`
	StepCount       int      `json:"step_count"`
	CensusTaken     bool     `json:"census_taken"`
}

// NewWorkingMemory returns an empty memory with all maps allocated.
func NewWorkingMemory() *WorkingMemory {
	return &WorkingMemory{
		Receptacles:    make(map[string]string),
		VisibleObjects: make(map[string]string),
		ClassLocations: make(map[string]string),
	}
}

// Clone returns a deep copy. Nil maps are allocated so the copy is always usable.
func (m *WorkingMemory) Clone() *WorkingMemory {
	if m == nil {
		return NewWorkingMemory()
	}
	out := *m
	out.Receptacles = cloneMap(m.Receptacles)
	out.VisibleObjects = cloneMap(m.VisibleObjects)
	out.ClassLocations = cloneMap(m.ClassLocations)
	out.ReceptacleOrder = slices.Clone(m.ReceptacleOrder)
	out.VisibleOrder = slices.Clone(m.VisibleOrder)
	out.Inventory = slices.Clone(m.Inventory)
	out.SearchFrontier = slices.Clone(m.SearchFrontier)
	out.DeferredActions = slices.Clone(m.DeferredActions)
	return &out
}

// AddReceptacle records a receptacle in the census. Existing entries are kept.
func (m *WorkingMemory) AddReceptacle(mention, class string) {
	if m.Receptacles == nil {
		m.Receptacles = make(map[string]string)
	}
	if _, ok := m.Receptacles[mention]; ok {
		return
	}
	m.Receptacles[mention] = class
	m.ReceptacleOrder = append(m.ReceptacleOrder, mention)
}

// IsReceptacle reports whether mention is part of the census.
func (m *WorkingMemory) IsReceptacle(mention string) bool {
	_, ok := m.Receptacles[mention]
	return ok
}

// ReceptaclesOfClass returns census receptacles of the given class, in census order.
func (m *WorkingMemory) ReceptaclesOfClass(class string) []string {
	var out []string
	for _, r := range m.ReceptacleOrder {
		if m.Receptacles[r] == class {
			out = append(out, r)
		}
	}
	return out
}

// VisibleOfClass returns visible mentions of the given class, in observation order.
func (m *WorkingMemory) VisibleOfClass(class string) []string {
	var out []string
	for _, o := range m.VisibleOrder {
		if m.VisibleObjects[o] == class {
			out = append(out, o)
		}
	}
	return out
}

// PushDeferred queues a command to be issued before the plan progresses.
func (m *WorkingMemory) PushDeferred(cmd string) {
	m.DeferredActions = append(m.DeferredActions, cmd)
}

// PopDeferred removes and returns the last deferred command.
func (m *WorkingMemory) PopDeferred() (string, bool) {
	return pop(&m.DeferredActions)
}

// PopFrontier removes and returns the last frontier receptacle.
func (m *WorkingMemory) PopFrontier() (string, bool) {
	return pop(&m.SearchFrontier)
}

// PopInventory removes and returns the most recently taken item.
func (m *WorkingMemory) PopInventory() (string, bool) {
	return pop(&m.Inventory)
}

func pop(s *[]string) (string, bool) {
	n := len(*s)
	if n == 0 {
		return "", false
	}
	v := (*s)[n-1]
	*s = (*s)[:n-1]
	return v, true
}

func cloneMap(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
