package dependency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

func TestGraphValidateDetectsCycle(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Validate("A", "B"))
	assert.True(t, g.Validate("B", "C"))
	assert.False(t, g.Validate("C", "A"))
}

func TestGraphValidateAcceptsDAG(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Validate("A", "B"))
	assert.True(t, g.Validate("A", "C"))
	assert.True(t, g.Validate("B", "D"))
	assert.True(t, g.Validate("C", "D"))
	assert.ElementsMatch(t, []string{"B", "C"}, g.edges["A"])
}

func TestGraphValidateChainFanOut(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Validate("A", "B", "C"))
	assert.False(t, g.Validate("C", "A"))
	assert.True(t, g.Validate("C", "D"))
}

func TestGraphValidateSelfEdge(t *testing.T) {
	g := NewGraph()
	assert.False(t, g.Validate("A", "A"))
}

func TestGraphValidateSingleElement(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Validate("A"))
	assert.True(t, g.Validate())
}

func TestGraphValidateDuplicateEdge(t *testing.T) {
	g := NewGraph()
	assert.True(t, g.Validate("A", "B"))
	assert.True(t, g.Validate("A", "B"))
	assert.Equal(t, []string{"B"}, g.edges["A"])
}

func withDeployment(reg *registry.Registry, name string, deps ...string) {
	u := reg.Register(name)
	d := model.NewDeployment(u.Name + "-deployment")
	for _, dep := range deps {
		d.AddDependsOn(model.DependencyRef{Unit: dep, Listener: dep + "EP"})
	}
	u.SetDeployment(d)
}

func TestValidateUnits(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(reg *registry.Registry)
		wantCycle string
	}{
		{
			name: "acyclic",
			setup: func(reg *registry.Registry) {
				withDeployment(reg, "a", "b", "c")
				withDeployment(reg, "b", "c")
				withDeployment(reg, "c")
			},
		},
		{
			name: "cycle",
			setup: func(reg *registry.Registry) {
				withDeployment(reg, "a", "b")
				withDeployment(reg, "b", "c")
				withDeployment(reg, "c", "a")
			},
			wantCycle: "c: contains cyclic dependencies",
		},
		{
			name: "self reference",
			setup: func(reg *registry.Registry) {
				withDeployment(reg, "a", "a")
			},
			wantCycle: "a: contains cyclic dependencies",
		},
		{
			name: "unknown target skipped",
			setup: func(reg *registry.Registry) {
				withDeployment(reg, "a", "missing")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			tt.setup(reg)
			err := ValidateUnits(reg, NewGraph())
			if tt.wantCycle == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrCyclicDependency)
			assert.EqualError(t, err, tt.wantCycle)
		})
	}
}

func TestValidateUnitsKnative(t *testing.T) {
	reg := registry.New()
	withDeployment(reg, "orders", "frontend")
	u := reg.Register("frontend")
	k := model.NewKnativeService("frontend-ksvc")
	k.DependsOn = []model.DependencyRef{{Unit: "orders", Listener: "ordersEP"}}
	u.SetKnative(k)

	err := ValidateUnits(reg, NewGraph())
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrCyclicDependency)
}
