package model

// KnativeService is the serverless workload record, mutually exclusive with
// Deployment and Job within a unit.
type KnativeService struct {
	Meta
	ImageSpec

	Namespace            string
	Port                 int
	ContainerConcurrency int
	TimeoutSeconds       int
	MinScale             int
	MaxScale             int
	SingleYAML           bool

	Env         Env
	DependsOn   []DependencyRef
	CommandArgs string
}

// NewKnativeService returns a Knative Service with defaults applied.
func NewKnativeService(name string) *KnativeService {
	return &KnativeService{
		Meta:                 Meta{Name: name},
		ImageSpec:            ImageSpec{ImagePullPolicy: PullIfNotPresent},
		Port:                 Unset,
		ContainerConcurrency: Unset,
		TimeoutSeconds:       Unset,
		MinScale:             Unset,
		MaxScale:             Unset,
		Env:                  Env{},
	}
}

// AddEnv sets an environment variable.
func (k *KnativeService) AddEnv(name string, value EnvValue) {
	if k.Env == nil {
		k.Env = Env{}
	}
	k.Env[name] = value
}

// AddCommandArg appends an argument to the container entrypoint.
func (k *KnativeService) AddCommandArg(arg string) {
	k.CommandArgs += " " + arg
}
