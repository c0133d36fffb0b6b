package model

// EnvValue is the closed set of environment variable value kinds. The
// unexported marker method keeps implementations inside this package.
type EnvValue interface {
	isEnvValue()
}

// LiteralEnv is a plain string value.
type LiteralEnv struct {
	Value string
}

// FieldRefEnv reads a pod field, e.g. "metadata.name".
type FieldRefEnv struct {
	FieldPath string
}

// SecretKeyRefEnv reads one key of a Secret.
type SecretKeyRefEnv struct {
	Name string
	Key  string
}

// ResourceFieldRefEnv reads a container resource, e.g. "limits.cpu".
type ResourceFieldRefEnv struct {
	ContainerName string
	Resource      string
}

// ConfigMapKeyRefEnv reads one key of a ConfigMap.
type ConfigMapKeyRefEnv struct {
	Name string
	Key  string
}

func (LiteralEnv) isEnvValue()          {}
func (FieldRefEnv) isEnvValue()         {}
func (SecretKeyRefEnv) isEnvValue()     {}
func (ResourceFieldRefEnv) isEnvValue() {}
func (ConfigMapKeyRefEnv) isEnvValue()  {}

// Env is an environment variable map. Rendering order is by name.
type Env map[string]EnvValue
