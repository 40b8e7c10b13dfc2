package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/errand/pkg/domain"
)

// dispatch runs the branch for sg. An empty command with a nil error means the subgoal
// completed without emitting anything and the next subgoal must be evaluated.
func (e *Engine) dispatch(sg domain.Subgoal) (string, error) {
	m := e.mem

	switch sg.Verb {
	case domain.VerbLook:
		e.advance()
		return domain.CommandLook, nil

	case domain.VerbFind:
		if len(m.VisibleOfClass(sg.Target)) > 0 {
			m.SearchFrontier = nil
			m.DeferredActions = nil
			e.advance()
			return "", nil
		}
		return e.search(sg.Target)

	case domain.VerbTake:
		objs := m.VisibleOfClass(sg.Target)
		if len(objs) == 0 || !e.locate(sg.Target) {
			return e.search(sg.Target)
		}
		if cmd, ok := e.openGate(); ok {
			return cmd, nil
		}
		obj := e.tie.Pick(objs)
		m.Inventory = append(m.Inventory, obj)
		e.advance()
		return domain.Take(obj, m.CurrentReceptacle), nil

	case domain.VerbPut:
		if !e.locate(sg.Target) {
			return e.search(sg.Target)
		}
		if cmd, ok := e.openGate(); ok {
			return cmd, nil
		}
		obj, ok := m.PopInventory()
		if !ok {
			return "", emptyInventory(sg)
		}
		e.advance()
		return domain.Put(obj, m.CurrentReceptacle), nil

	case domain.VerbGoto:
		receps := m.ReceptaclesOfClass(sg.Target)
		if len(receps) == 0 {
			return e.search(sg.Target)
		}
		e.enter(receps[0])
		e.advance()
		return domain.GoTo(receps[0]), nil

	case domain.VerbOpen, domain.VerbClose:
		if m.CurrentReceptacle == "" {
			return "", fmt.Errorf("%w: %s with no current receptacle", domain.ErrInvariantViolation, sg)
		}
		e.advance()
		if sg.Verb == domain.VerbOpen {
			return domain.Open(m.CurrentReceptacle), nil
		}
		return domain.Close(m.CurrentReceptacle), nil

	case domain.VerbHeat, domain.VerbCool, domain.VerbClean:
		if len(m.Inventory) == 0 {
			return "", emptyInventory(sg)
		}
		e.advance()
		return domain.Apply(sg.Verb, m.Inventory[0], m.CurrentReceptacle), nil

	case domain.VerbSlice:
		objs := m.VisibleOfClass(sg.Target)
		if len(objs) == 0 {
			return e.search(sg.Target)
		}
		if len(m.Inventory) == 0 {
			return "", emptyInventory(sg)
		}
		obj := e.tie.Pick(objs)
		e.advance()
		return domain.Slice(obj, m.Inventory[0]), nil

	case domain.VerbUse:
		objs := m.VisibleOfClass(sg.Target)
		if len(objs) == 0 {
			return e.search(sg.Target)
		}
		obj := e.tie.Pick(objs)
		e.advance()
		return domain.Use(obj), nil
	}

	return "", fmt.Errorf("%w: unknown verb %q", domain.ErrInvariantViolation, sg.Verb)
}

// search emits the next command while looking for class without completing a subgoal.
func (e *Engine) search(class string) (string, error) {
	m := e.mem
	e.resolveFrontier(class)

	if cmd, ok := e.openGate(); ok {
		return cmd, nil
	}
	if cmd, ok := m.PopDeferred(); ok {
		return cmd, nil
	}
	recep, ok := m.PopFrontier()
	if !ok {
		// No census yet: look around until one arrives or the budget runs out.
		return domain.CommandLook, nil
	}
	e.enter(recep)
	return domain.GoTo(recep), nil
}

// locate makes sure there is a current receptacle before a take or put. Without one it
// enters the visible receptacle of class, the last known location of class, or the first
// visible receptacle, in that order. It reports false when none applies.
func (e *Engine) locate(class string) bool {
	m := e.mem
	if m.CurrentReceptacle != "" {
		return true
	}

	var visible []string
	for _, id := range m.VisibleOrder {
		if m.IsReceptacle(id) {
			visible = append(visible, id)
		}
	}
	for _, r := range visible {
		if m.Receptacles[r] == class {
			e.enter(r)
			return true
		}
	}
	if loc, ok := m.ClassLocations[class]; ok && m.IsReceptacle(loc) {
		e.enter(loc)
		return true
	}
	if len(visible) > 0 {
		e.enter(visible[0])
		return true
	}
	return false
}

// resolveFrontier picks the receptacles to visit: last known location first, then
// receptacles of the class itself or its known containers, then every receptacle.
func (e *Engine) resolveFrontier(class string) {
	m := e.mem

	if loc, ok := m.ClassLocations[class]; ok && m.IsReceptacle(loc) {
		m.SearchFrontier = []string{loc}
		return
	}
	if len(m.SearchFrontier) > 0 {
		return
	}

	frontier := m.ReceptaclesOfClass(class)
	if len(frontier) == 0 {
		containers := e.priors.ContainersFor(class)
		for _, r := range m.ReceptacleOrder {
			if slices.Contains(containers, m.Receptacles[r]) {
				frontier = append(frontier, r)
			}
		}
	}
	if len(frontier) == 0 {
		frontier = slices.Clone(m.ReceptacleOrder)
	}
	m.SearchFrontier = frontier
}

// openGate opens the current receptacle once per visit and defers its close.
func (e *Engine) openGate() (string, bool) {
	m := e.mem
	cur := m.CurrentReceptacle
	if !e.isOpenable(cur) || m.CheckedInsideCurrent {
		return "", false
	}
	m.CheckedInsideCurrent = true
	m.PushDeferred(domain.Close(cur))
	return domain.Open(cur), true
}

func emptyInventory(sg domain.Subgoal) error {
	return fmt.Errorf("%w: %s with empty inventory", domain.ErrInvariantViolation, sg)
}
