package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/errand/pkg/domain"
)

// PlanOverlay contains dynamic episode data to visualize on the plan graph.
type PlanOverlay struct {
	// Cursor is the index of the subgoal in progress. Earlier subgoals are drawn as done.
	Cursor int
	// Status, when terminal, is appended as an end node.
	Status domain.ExecutionStatus
}

// OverlayFor builds the overlay of an episode state.
func OverlayFor(state *domain.State) *PlanOverlay {
	if state == nil || state.Memory == nil {
		return nil
	}
	return &PlanOverlay{Cursor: state.Memory.SubgoalIndex, Status: state.Status}
}

// GenerateMermaid produces a Mermaid flowchart of the plan as a chain of subgoals.
// It applies semantic styling:
// - Look: ((Circle))
// - Find: [/Parallelogram/]
// - Appliance verbs (heat, cool, clean, slice, use): [[Subroutine]]
// - Default: [Rectangle]
// It also applies overlay styles (done/current) if provided.
func GenerateMermaid(plan domain.Plan, overlay *PlanOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for i, sg := range plan {
		opener, closer := "[", "]"
		switch sg.Verb {
		case domain.VerbLook:
			opener, closer = "((", "))"
		case domain.VerbFind:
			opener, closer = "[/", "/]"
		case domain.VerbHeat, domain.VerbCool, domain.VerbClean, domain.VerbSlice, domain.VerbUse:
			opener, closer = "[[", "]]"
		}
		label := strings.ReplaceAll(sg.String(), "\"", "'")
		sb.WriteString(fmt.Sprintf("    %s%s\"%d. %s\"%s\n", nodeID(i), opener, i+1, label, closer))
		if i > 0 {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", nodeID(i-1), nodeID(i)))
		}
	}

	if overlay == nil {
		return sb.String()
	}

	if overlay.Status.Terminal() {
		sb.WriteString(fmt.Sprintf("    end_node{{\"%s\"}}\n", overlay.Status))
		if len(plan) > 0 {
			from := overlay.Cursor
			if from >= len(plan) {
				from = len(plan) - 1
			}
			sb.WriteString(fmt.Sprintf("    %s -.-> end_node\n", nodeID(from)))
		}
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Black text keeps contrast on light fills in both themes.
	sb.WriteString("    classDef done fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	for i := 0; i < overlay.Cursor && i < len(plan); i++ {
		sb.WriteString(fmt.Sprintf("    class %s done;\n", nodeID(i)))
	}
	if overlay.Cursor < len(plan) && !overlay.Status.Terminal() {
		sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Cursor)))
	}
	return sb.String()
}

func nodeID(i int) string {
	return fmt.Sprintf("sg%d", i)
}
