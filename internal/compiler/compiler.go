// Package compiler turns a resolved task specification into a subgoal Plan.
package compiler

import (
	"fmt"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/priors"
)

// template builds the subgoals for one task type.
type template func(spec domain.TaskSpec, app priors.Appliances) (domain.Plan, error)

var templates = map[domain.TaskType]template{
	domain.TaskPickAndPlaceSimple: pickAndPlace,
	domain.TaskLookAtObjInLight:   lookAtInLight,
	domain.TaskPickHeatThenPlace:  transform(domain.VerbHeat),
	domain.TaskPickCoolThenPlace:  transform(domain.VerbCool),
	domain.TaskPickCleanThenPlace: transform(domain.VerbClean),
}

// Compile produces the plan for spec. The implicit look is not included; see WithIntro.
func Compile(spec domain.TaskSpec, p *priors.Priors) (domain.Plan, error) {
	build, ok := templates[spec.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTaskType, spec.Type)
	}
	if p == nil {
		p = priors.Default()
	}
	plan, err := build(spec, p.Appliances())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Type, err)
	}
	return plan, nil
}

// WithIntro prepends the look subgoal that absorbs the introductory observation.
func WithIntro(plan domain.Plan) domain.Plan {
	out := make(domain.Plan, 0, len(plan)+1)
	out = append(out, domain.Subgoal{Verb: domain.VerbLook})
	return append(out, plan...)
}

// Supported reports whether t has a plan template.
func Supported(t domain.TaskType) bool {
	_, ok := templates[t]
	return ok
}

func pickAndPlace(spec domain.TaskSpec, _ priors.Appliances) (domain.Plan, error) {
	if err := requireFields("object_target", spec.ObjectTarget, "parent_target", spec.ParentTarget); err != nil {
		return nil, err
	}
	return domain.Plan{
		{Verb: domain.VerbFind, Target: spec.ObjectTarget},
		{Verb: domain.VerbTake, Target: spec.ObjectTarget},
		{Verb: domain.VerbFind, Target: spec.ParentTarget},
		{Verb: domain.VerbPut, Target: spec.ParentTarget},
	}, nil
}

func lookAtInLight(spec domain.TaskSpec, _ priors.Appliances) (domain.Plan, error) {
	if err := requireFields("object_target", spec.ObjectTarget, "toggle_target", spec.ToggleTarget); err != nil {
		return nil, err
	}
	return domain.Plan{
		{Verb: domain.VerbFind, Target: spec.ObjectTarget},
		{Verb: domain.VerbTake, Target: spec.ObjectTarget},
		{Verb: domain.VerbFind, Target: spec.ToggleTarget},
		{Verb: domain.VerbUse, Target: spec.ToggleTarget},
	}, nil
}

// transform builds the pick, apply appliance, place family of templates.
func transform(verb domain.Verb) template {
	return func(spec domain.TaskSpec, app priors.Appliances) (domain.Plan, error) {
		if err := requireFields("object_target", spec.ObjectTarget, "parent_target", spec.ParentTarget); err != nil {
			return nil, err
		}
		appliance := applianceFor(verb, app)
		if appliance == "" {
			return nil, fmt.Errorf("%w: no %s appliance configured", domain.ErrInvalidTask, verb)
		}
		return domain.Plan{
			{Verb: domain.VerbFind, Target: spec.ObjectTarget},
			{Verb: domain.VerbTake, Target: spec.ObjectTarget},
			{Verb: domain.VerbGoto, Target: appliance},
			{Verb: verb, Target: spec.ObjectTarget},
			{Verb: domain.VerbFind, Target: spec.ParentTarget},
			{Verb: domain.VerbPut, Target: spec.ParentTarget},
		}, nil
	}
}

func applianceFor(verb domain.Verb, app priors.Appliances) string {
	switch verb {
	case domain.VerbHeat:
		return app.Heat
	case domain.VerbCool:
		return app.Cool
	case domain.VerbClean:
		return app.Clean
	}
	return ""
}

// requireFields checks name/value pairs and reports the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			return fmt.Errorf("%w: missing %s", domain.ErrInvalidTask, pairs[i])
		}
	}
	return nil
}
