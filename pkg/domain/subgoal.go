package domain

import (
	"fmt"
	"strings"
)

// Verb is the action part of a Subgoal.
type Verb string

const (
	VerbLook  Verb = "look"
	VerbFind  Verb = "find"
	VerbTake  Verb = "take"
	VerbPut   Verb = "put"
	VerbGoto  Verb = "goto"
	VerbOpen  Verb = "open"
	VerbClose Verb = "close"
	VerbHeat  Verb = "heat"
	VerbCool  Verb = "cool"
	VerbClean Verb = "clean"
	VerbSlice Verb = "slice"
	VerbUse   Verb = "use"
)

// Valid reports whether v belongs to the closed verb set.
func (v Verb) Valid() bool {
	switch v {
	case VerbLook, VerbFind, VerbTake, VerbPut, VerbGoto, VerbOpen, VerbClose,
		VerbHeat, VerbCool, VerbClean, VerbSlice, VerbUse:
		return true
	}
	return false
}

// Subgoal is one abstract step of a task plan.
type Subgoal struct {
	Verb   Verb   `json:"action" yaml:"action"`
	Target string `json:"param,omitempty" yaml:"param,omitempty"`
}

// String renders the subgoal as verb(target).
func (s Subgoal) String() string {
	return fmt.Sprintf("%s(%s)", s.Verb, s.Target)
}

// Plan is the ordered sequence of subgoals for one episode. It is never mutated once compiled.
type Plan []Subgoal

// String renders the plan as a bracketed list, e.g. [find(apple), take(apple)].
func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Clone returns an independent copy of the plan.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	copy(out, p)
	return out
}
