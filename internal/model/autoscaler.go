package model

// DefaultCPUPercentage is the target CPU utilization when none is given.
const DefaultCPUPercentage = 50

// PodAutoscaler scales the unit's Deployment.
type PodAutoscaler struct {
	Meta

	Deployment    string
	MinReplicas   int
	MaxReplicas   int
	CPUPercentage int
}

// NewPodAutoscaler returns an autoscaler with min/max unset.
func NewPodAutoscaler(name string) *PodAutoscaler {
	return &PodAutoscaler{
		Meta:          Meta{Name: name},
		MinReplicas:   Unset,
		MaxReplicas:   Unset,
		CPUPercentage: DefaultCPUPercentage,
	}
}

// ApplyDefaults fills unset bounds from the Deployment replica count:
// min = replicas, max = replicas + 1.
func (a *PodAutoscaler) ApplyDefaults(replicas int) {
	if a.MinReplicas == Unset {
		a.MinReplicas = replicas
	}
	if a.MaxReplicas == Unset {
		a.MaxReplicas = replicas + 1
	}
}

// ResourceQuota limits the resources of the unit's namespace.
type ResourceQuota struct {
	Meta

	Hard   map[string]string
	Scopes []string
}

// NewResourceQuota returns an empty quota.
func NewResourceQuota(name string) *ResourceQuota {
	return &ResourceQuota{
		Meta: Meta{Name: name},
		Hard: make(map[string]string),
	}
}
