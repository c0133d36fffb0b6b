package registry

import (
	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/model"
)

// WorkloadKind selects the handler path of a unit.
type WorkloadKind int

const (
	// WorkloadDeployment is a plain long-running service.
	WorkloadDeployment WorkloadKind = iota
	// WorkloadJob is a run-to-completion or scheduled job.
	WorkloadJob
	// WorkloadKnative is a serverless Knative Service.
	WorkloadKnative
)

func (k WorkloadKind) String() string {
	switch k {
	case WorkloadJob:
		return "job"
	case WorkloadKnative:
		return "knative"
	default:
		return "deployment"
	}
}

// Unit owns the models of one compilation unit: exactly one workload record
// and the set- and list-valued models attached to it.
type Unit struct {
	// ID is the identifier the unit was registered with.
	ID string

	// Name is the canonical name every label and selector derives from.
	Name string

	// SourceRoot is the directory relative file references resolve against.
	SourceRoot string

	// ArtifactPath is the compiled output reported at the end of compilation.
	ArtifactPath string

	// OutputDir is where the unit's documents are written.
	OutputDir string

	deployment *model.Deployment
	job        *model.Job
	knative    *model.KnativeService
	autoscaler *model.PodAutoscaler
	image      *model.Image

	services       []*model.Service
	ingresses      []*model.Ingress
	secrets        []*model.Secret
	configMaps     []*model.ConfigMap
	volumeClaims   []*model.PersistentVolumeClaim
	resourceQuotas []*model.ResourceQuota

	listenerSecrets map[string][]string
}

func newUnit(id string) *Unit {
	return &Unit{
		ID:              id,
		Name:            core.NormalizeName(id),
		listenerSecrets: make(map[string][]string),
	}
}

// Workload reports which handler path applies to the unit.
func (u *Unit) Workload() WorkloadKind {
	switch {
	case u.job != nil:
		return WorkloadJob
	case u.knative != nil:
		return WorkloadKnative
	default:
		return WorkloadDeployment
	}
}

// HasWorkload reports whether a workload annotation was processed.
func (u *Unit) HasWorkload() bool {
	return u.deployment != nil || u.job != nil || u.knative != nil
}

// Namespace returns the namespace declared on the unit's workload.
func (u *Unit) Namespace() string {
	switch {
	case u.job != nil:
		return u.job.Namespace
	case u.knative != nil:
		return u.knative.Namespace
	case u.deployment != nil:
		return u.deployment.Namespace
	}
	return ""
}

// SingleYAML reports whether the unit's documents go into one file.
func (u *Unit) SingleYAML() bool {
	switch {
	case u.job != nil:
		return u.job.SingleYAML
	case u.knative != nil:
		return u.knative.SingleYAML
	case u.deployment != nil:
		return u.deployment.SingleYAML
	}
	return false
}

// Deployment returns the Deployment record or nil.
func (u *Unit) Deployment() *model.Deployment { return u.deployment }

// SetDeployment replaces the Deployment record.
func (u *Unit) SetDeployment(d *model.Deployment) { u.deployment = d }

// EnsureDeployment returns the Deployment record, creating a default one
// named "<unit>-deployment" when no annotation declared it.
func (u *Unit) EnsureDeployment() *model.Deployment {
	if u.deployment == nil {
		u.deployment = model.NewDeployment(u.Name + "-deployment")
	}
	return u.deployment
}

// Job returns the Job record or nil.
func (u *Unit) Job() *model.Job { return u.job }

// SetJob replaces the Job record.
func (u *Unit) SetJob(j *model.Job) { u.job = j }

// Knative returns the Knative Service record or nil.
func (u *Unit) Knative() *model.KnativeService { return u.knative }

// SetKnative replaces the Knative Service record.
func (u *Unit) SetKnative(k *model.KnativeService) { u.knative = k }

// Autoscaler returns the pod autoscaler record or nil.
func (u *Unit) Autoscaler() *model.PodAutoscaler { return u.autoscaler }

// SetAutoscaler replaces the pod autoscaler record.
func (u *Unit) SetAutoscaler(a *model.PodAutoscaler) { u.autoscaler = a }

// Image returns the container image descriptor derived by the workload
// handler, or nil before it ran.
func (u *Unit) Image() *model.Image { return u.image }

// SetImage records the container image descriptor.
func (u *Unit) SetImage(img *model.Image) { u.image = img }

// AddService appends a Service. Services are a list: adding the same
// listener twice yields two entries.
func (u *Unit) AddService(s *model.Service) {
	u.services = append(u.services, s)
}

// Services returns the unit's Services in declaration order.
func (u *Unit) Services() []*model.Service { return u.services }

// ServiceFor returns the first Service declared on listener, or nil.
func (u *Unit) ServiceFor(listener string) *model.Service {
	for _, s := range u.services {
		if s.Listener == listener {
			return s
		}
	}
	return nil
}

// AddIngress appends an Ingress.
func (u *Unit) AddIngress(i *model.Ingress) {
	u.ingresses = append(u.ingresses, i)
}

// Ingresses returns the unit's Ingresses in declaration order.
func (u *Unit) Ingresses() []*model.Ingress { return u.ingresses }

// AddSecret adds a Secret unless one with the same name exists. It reports
// whether the secret was added.
func (u *Unit) AddSecret(s *model.Secret) bool {
	for _, existing := range u.secrets {
		if existing.Name == s.Name {
			return false
		}
	}
	u.secrets = append(u.secrets, s)
	return true
}

// Secrets returns the unit's Secrets.
func (u *Unit) Secrets() []*model.Secret { return u.secrets }

// AttachListenerSecret records that a Secret was declared on a listener.
func (u *Unit) AttachListenerSecret(listener, secret string) {
	u.listenerSecrets[listener] = append(u.listenerSecrets[listener], secret)
}

// ListenerHasSecrets reports whether any Secret was declared on listener.
func (u *Unit) ListenerHasSecrets(listener string) bool {
	return len(u.listenerSecrets[listener]) > 0
}

// AddConfigMap adds a ConfigMap unless one with the same name exists.
func (u *Unit) AddConfigMap(c *model.ConfigMap) bool {
	for _, existing := range u.configMaps {
		if existing.Name == c.Name {
			return false
		}
	}
	u.configMaps = append(u.configMaps, c)
	return true
}

// ConfigMaps returns the unit's ConfigMaps.
func (u *Unit) ConfigMaps() []*model.ConfigMap { return u.configMaps }

// AddVolumeClaim adds a claim unless one with the same name exists.
func (u *Unit) AddVolumeClaim(c *model.PersistentVolumeClaim) bool {
	for _, existing := range u.volumeClaims {
		if existing.Name == c.Name {
			return false
		}
	}
	u.volumeClaims = append(u.volumeClaims, c)
	return true
}

// VolumeClaims returns the unit's volume claims.
func (u *Unit) VolumeClaims() []*model.PersistentVolumeClaim { return u.volumeClaims }

// AddResourceQuota appends a quota.
func (u *Unit) AddResourceQuota(q *model.ResourceQuota) {
	u.resourceQuotas = append(u.resourceQuotas, q)
}

// ResourceQuotas returns the unit's quotas.
func (u *Unit) ResourceQuotas() []*model.ResourceQuota { return u.resourceQuotas }
