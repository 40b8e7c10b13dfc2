package domain

// StateDiff represents the changes between two episode states.
// It is serialised to JSON in step responses so clients can update incrementally.
type StateDiff struct {
	// EpisodeID is always present to identify the target.
	EpisodeID string `json:"episode_id"`

	Status       *ExecutionStatus `json:"status,omitempty"`
	SubgoalIndex *int             `json:"subgoal_index,omitempty"`

	// Commands lists commands appended to the history.
	Commands []string `json:"commands,omitempty"`

	// ClassLocations holds only added or changed entries. The map is sticky so entries
	// are never deleted.
	ClassLocations map[string]string `json:"class_locations,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{EpisodeID: newState.EpisodeID}

	if oldState == nil || oldState.Status != newState.Status {
		status := newState.Status
		diff.Status = &status
	}

	oldIdx := -1
	if oldState != nil && oldState.Memory != nil {
		oldIdx = oldState.Memory.SubgoalIndex
	}
	if newState.Memory != nil && newState.Memory.SubgoalIndex != oldIdx {
		idx := newState.Memory.SubgoalIndex
		diff.SubgoalIndex = &idx
	}

	diff.Commands = diffHistory(oldState, newState)
	diff.ClassLocations = diffLocations(oldState, newState)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffHistory assumes append-only history.
func diffHistory(old, new *State) []string {
	if old == nil {
		if len(new.History) == 0 {
			return nil
		}
		return append([]string(nil), new.History...)
	}
	if len(new.History) > len(old.History) {
		return append([]string(nil), new.History[len(old.History):]...)
	}
	return nil
}

func diffLocations(old, new *State) map[string]string {
	if new.Memory == nil {
		return nil
	}
	var prev map[string]string
	if old != nil && old.Memory != nil {
		prev = old.Memory.ClassLocations
	}
	delta := make(map[string]string)
	for class, recep := range new.Memory.ClassLocations {
		if prev[class] != recep {
			delta[class] = recep
		}
	}
	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Status == nil &&
		d.SubgoalIndex == nil &&
		len(d.Commands) == 0 &&
		len(d.ClassLocations) == 0
}
