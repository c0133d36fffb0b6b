// Package registry keys per-unit model holders by compilation-unit identity.
//
// A Registry is constructed once per build invocation and passed explicitly
// through the pipeline; there is no process-wide instance.
package registry

import (
	"sync"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/model"
)

// Registry maps compilation-unit identifiers to their Unit holders.
type Registry struct {
	mu      sync.Mutex
	units   map[string]*Unit
	order   []*Unit
	current *Unit
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Register returns the unit for id, creating it on first use, and makes it
// the current unit.
func (r *Registry) Register(id string) *Unit {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.units[id]
	if !ok {
		u = newUnit(id)
		r.units[id] = u
		r.order = append(r.order, u)
	}
	r.current = u
	return u
}

// Current returns the most recently registered unit, or nil.
func (r *Registry) Current() *Unit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Get looks a unit up by identifier, falling back to its canonical name.
func (r *Registry) Get(id string) (*Unit, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.units[id]; ok {
		return u, true
	}
	canonical := core.NormalizeName(id)
	for _, u := range r.order {
		if u.Name == canonical {
			return u, true
		}
	}
	return nil, false
}

// Units returns every unit in registration order.
func (r *Registry) Units() []*Unit {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Unit, len(r.order))
	copy(out, r.order)
	return out
}

// ResolveService finds the unit and Service a dependency reference points at.
func (r *Registry) ResolveService(ref model.DependencyRef) (*Unit, *model.Service, bool) {
	u, ok := r.Get(ref.Unit)
	if !ok {
		return nil, nil, false
	}
	svc := u.ServiceFor(ref.Listener)
	if svc == nil {
		return u, nil, false
	}
	return u, svc, true
}
