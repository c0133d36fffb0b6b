package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeploymentDefaults(t *testing.T) {
	d := NewDeployment("hello-deployment")

	assert.Equal(t, "hello-deployment", d.Name)
	assert.Equal(t, 1, d.Replicas)
	assert.Equal(t, PullIfNotPresent, d.ImagePullPolicy)
	assert.Nil(t, d.Liveness)
	assert.NotNil(t, d.Env)
}

func TestDeploymentAddPortKeepsDuplicates(t *testing.T) {
	d := NewDeployment("d")
	d.AddPort(8080)
	d.AddPort(9090)
	d.AddPort(8080)

	assert.Equal(t, []int{8080, 9090, 8080}, d.Ports)
}

func TestDeploymentAddCommandArg(t *testing.T) {
	d := NewDeployment("d")
	d.AddCommandArg("--config=/home/app/conf/app.conf")

	assert.Equal(t, " --config=/home/app/conf/app.conf", d.CommandArgs)
}

func TestNewProbeIsUnset(t *testing.T) {
	p := NewProbe()
	assert.Equal(t, Unset, p.Port)
	assert.Equal(t, Unset, p.InitialDelaySeconds)
	assert.Equal(t, Unset, p.PeriodSeconds)
}

func TestParseDependencyRef(t *testing.T) {
	tests := []struct {
		in      string
		want    DependencyRef
		wantErr bool
	}{
		{in: "orders:ordersEP", want: DependencyRef{Unit: "orders", Listener: "ordersEP"}},
		{in: " orders : ordersEP ", want: DependencyRef{Unit: "orders", Listener: "ordersEP"}},
		{in: "orders", wantErr: true},
		{in: ":ordersEP", wantErr: true},
		{in: "orders:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDependencyRef(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "malformed dependency reference")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Unit+":"+tt.want.Listener, got.String())
		})
	}
}

func TestPodAutoscalerApplyDefaults(t *testing.T) {
	t.Run("unset bounds follow replicas", func(t *testing.T) {
		a := NewPodAutoscaler("hpa")
		a.ApplyDefaults(3)
		assert.Equal(t, 3, a.MinReplicas)
		assert.Equal(t, 4, a.MaxReplicas)
	})

	t.Run("explicit bounds are kept", func(t *testing.T) {
		a := NewPodAutoscaler("hpa")
		a.MinReplicas = 2
		a.MaxReplicas = 10
		a.ApplyDefaults(3)
		assert.Equal(t, 2, a.MinReplicas)
		assert.Equal(t, 10, a.MaxReplicas)
	})
}

func TestMetaMergeLabels(t *testing.T) {
	m := Meta{Labels: map[string]string{"app": "custom"}}
	m.MergeLabels(map[string]string{"app": "hello", "tier": "web"})

	assert.Equal(t, map[string]string{"app": "custom", "tier": "web"}, m.Labels)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}

func TestNewConfigMapDefaults(t *testing.T) {
	cm := NewConfigMap("cm")
	assert.True(t, cm.ReadOnly)
	assert.Equal(t, Unset, cm.DefaultMode)
	assert.False(t, cm.ConfigFile)
}

func TestJobIsCron(t *testing.T) {
	j := NewJob("j")
	assert.False(t, j.IsCron())
	assert.Equal(t, RestartNever, j.RestartPolicy)
	j.Schedule = "*/5 * * * *"
	assert.True(t, j.IsCron())
}
