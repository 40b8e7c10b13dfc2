package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	active := StatusActive
	exhausted := StatusExhausted
	zero, two := 0, 2

	base := func() *State {
		s := NewState("ep-1", TaskSpec{Type: TaskPickAndPlaceSimple}, Plan{{Verb: VerbLook}})
		s.History = []string{"look"}
		return s
	}

	tests := []struct {
		name     string
		old      func() *State
		new      func() *State
		wantDiff *StateDiff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  func() *State { return nil },
			new:  base,
			wantDiff: &StateDiff{
				EpisodeID:    "ep-1",
				Status:       &active,
				SubgoalIndex: &zero,
				Commands:     []string{"look"},
			},
		},
		{
			name:     "No Changes",
			old:      base,
			new:      base,
			wantDiff: nil,
		},
		{
			name: "Advance, Append and Locate",
			old:  base,
			new: func() *State {
				s := base()
				s.Memory.SubgoalIndex = 2
				s.Memory.ClassLocations["apple"] = "countertop_1"
				s.History = append(s.History, "take apple_1 from countertop_1")
				return s
			},
			wantDiff: &StateDiff{
				EpisodeID:      "ep-1",
				SubgoalIndex:   &two,
				Commands:       []string{"take apple_1 from countertop_1"},
				ClassLocations: map[string]string{"apple": "countertop_1"},
			},
		},
		{
			name: "Status Change Only",
			old:  base,
			new: func() *State {
				s := base()
				s.Status = StatusExhausted
				return s
			},
			wantDiff: &StateDiff{EpisodeID: "ep-1", Status: &exhausted},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old(), tt.new())
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.wantDiff)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	idx := 3
	diff := &StateDiff{
		EpisodeID:    "ep-1",
		SubgoalIndex: &idx,
		Commands:     []string{"go to fridge_1"},
	}

	data, err := json.Marshal(diff)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, `"subgoal_index":3`) {
		t.Errorf("expected subgoal_index in %s", out)
	}
	if strings.Contains(out, "status") || strings.Contains(out, "class_locations") {
		t.Errorf("expected omitted empty fields in %s", out)
	}
}
