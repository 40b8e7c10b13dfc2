// Package validator checks priors tables and task catalogs before they reach the engine.
package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/errand/internal/compiler"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/aretw0/errand/pkg/priors"
)

// ValidatePriors reports appliances and openable classes that are not declared receptacles.
func ValidatePriors(p *priors.Priors) error {
	var errors []string

	app := p.Appliances()
	for _, a := range []struct{ role, class string }{
		{"heat", app.Heat}, {"cool", app.Cool}, {"clean", app.Clean},
	} {
		if a.class == "" {
			continue
		}
		if !p.IsReceptacleClass(a.class) {
			errors = append(errors, fmt.Sprintf("%s appliance '%s' is not a receptacle class", a.role, a.class))
		}
	}

	for _, o := range p.Table().Openable {
		if !p.IsReceptacleClass(o) {
			errors = append(errors, fmt.Sprintf("openable class '%s' is not a receptacle class", o))
		}
	}

	return collect(errors)
}

// ValidateCatalog loads every task of the catalog, compiles it and checks that the
// targets it searches for can be located with the priors.
func ValidateCatalog(ctx context.Context, catalog ports.TaskCatalog, p *priors.Priors) error {
	ids, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	var errors []string
	for _, id := range ids {
		task, err := catalog.Get(ctx, id)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Load error: '%s': %v", id, err))
			continue
		}
		if _, err := compiler.Compile(task, p); err != nil {
			errors = append(errors, fmt.Sprintf("Compile error: '%s': %v", id, err))
			continue
		}
		if len(p.ContainersFor(task.ObjectTarget)) == 0 {
			errors = append(errors, fmt.Sprintf("No prior container: '%s': object '%s'", id, task.ObjectTarget))
		}
		if task.ToggleTarget != "" && len(p.ContainersFor(task.ToggleTarget)) == 0 {
			errors = append(errors, fmt.Sprintf("No prior container: '%s': toggle '%s'", id, task.ToggleTarget))
		}
		if task.ParentTarget != "" && !p.IsReceptacleClass(task.ParentTarget) {
			errors = append(errors, fmt.Sprintf("Unknown receptacle: '%s': parent '%s'", id, task.ParentTarget))
		}
	}

	return collect(errors)
}

func collect(errors []string) error {
	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
