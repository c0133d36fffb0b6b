package dependency

import (
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/registry"
)

// DependsOn returns the dependency references declared by the unit's workload.
func DependsOn(u *registry.Unit) []model.DependencyRef {
	if k := u.Knative(); k != nil {
		return k.DependsOn
	}
	if d := u.Deployment(); d != nil {
		return d.DependsOn
	}
	return nil
}

// ValidateUnits feeds every unit's dependencies into g and fails on the first
// unit whose dependencies would create a cycle. References to unknown units
// are skipped with a warning.
func ValidateUnits(reg *registry.Registry, g *Graph) error {
	for _, u := range reg.Units() {
		refs := DependsOn(u)
		if len(refs) == 0 {
			continue
		}

		chain := []string{u.Name}
		for _, ref := range refs {
			target, ok := reg.Get(ref.Unit)
			if !ok {
				output.UnitLogger(u.Name).Warn("dependency target not found, skipping",
					"ref", ref.String())
				continue
			}
			if target == u {
				return oerrors.NewCycleError(u.Name)
			}
			chain = append(chain, target.Name)
		}

		if !g.Validate(chain...) {
			return oerrors.NewCycleError(u.Name)
		}
	}
	return nil
}
