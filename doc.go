/*
Package errand is a scripted decision-making core for an embodied, text-driven household-task agent.

Given a resolved task (pick and place, look at an object in the light, heat/cool/clean then
place), errand compiles an ordered plan of subgoals and then converts each textual
observation from a text-adventure simulator into exactly one command, such as
"go to fridge_1" or "take apple_3 from countertop_1".

# Concept

The policy is a state machine over a per-episode working memory: the receptacle census
taken from the introductory observation, the objects visible right now, the last known
receptacle of every object class, an inventory stack, a search frontier, and a queue of
deferred actions (closing what it opened). The Engine is stateless between calls: every
Step takes a State and returns a new one, so episodes can be persisted by any
ports.StateStore and resumed anywhere.

Timeouts and plan exhaustion are ordinary terminal outcomes, reported as
domain.ErrTimeout and domain.ErrPlanExhausted.

# Usage

	eng := errand.New(errand.WithMaxSteps(50))

	state, err := eng.Start(ctx, "", domain.TaskSpec{
		Type:         domain.TaskPickAndPlaceSimple,
		ObjectTarget: "apple",
		ParentTarget: "countertop",
	})
	if err != nil {
		log.Fatal(err)
	}

	obs := sim.Reset()
	for {
		var cmd string
		state, cmd, err = eng.Step(ctx, state, obs)
		if err != nil {
			break // domain.IsTerminal(err) for timeout / exhaustion
		}
		obs = sim.Step(cmd)
	}

For a full episode loop against a simulator see package pkg/runner.
*/
package errand
