package model

import (
	"fmt"
	"strings"
)

// Probe configures a TCP liveness or readiness probe. Every field defaults
// to Unset.
type Probe struct {
	Port                int
	InitialDelaySeconds int
	PeriodSeconds       int
}

// NewProbe returns a probe with all fields unset.
func NewProbe() *Probe {
	return &Probe{Port: Unset, InitialDelaySeconds: Unset, PeriodSeconds: Unset}
}

// Toleration is a pod toleration.
type Toleration struct {
	Key               string
	Operator          string
	Value             string
	Effect            string
	TolerationSeconds int
}

// UpdateStrategy is the Deployment rollout strategy.
type UpdateStrategy struct {
	Type           string
	MaxUnavailable string
	MaxSurge       string
}

// DependencyRef names a listener in another unit, written "unit:listener".
type DependencyRef struct {
	Unit     string
	Listener string
}

func (r DependencyRef) String() string {
	return r.Unit + ":" + r.Listener
}

// ParseDependencyRef parses a "unit:listener" reference.
func ParseDependencyRef(s string) (DependencyRef, error) {
	unit, listener, ok := strings.Cut(s, ":")
	unit, listener = strings.TrimSpace(unit), strings.TrimSpace(listener)
	if !ok || unit == "" || listener == "" {
		return DependencyRef{}, fmt.Errorf("malformed dependency reference %q: expected <unit>:<listener>", s)
	}
	return DependencyRef{Unit: unit, Listener: listener}, nil
}

// Deployment is the singleton workload record of a plain service unit.
type Deployment struct {
	Meta
	ImageSpec

	Namespace      string
	PodAnnotations map[string]string
	PodTolerations []Toleration
	Replicas       int
	Liveness       *Probe
	Readiness      *Probe
	UpdateStrategy *UpdateStrategy
	SingleYAML     bool

	// Ports accumulates the target port of every attached Service.
	Ports []int

	Env         Env
	DependsOn   []DependencyRef
	CommandArgs string
}

// NewDeployment returns a Deployment with defaults applied.
func NewDeployment(name string) *Deployment {
	return &Deployment{
		Meta:      Meta{Name: name},
		ImageSpec: ImageSpec{ImagePullPolicy: PullIfNotPresent},
		Replicas:  1,
		Env:       Env{},
	}
}

// AddPort appends a container port. Callers skip ports already present.
func (d *Deployment) AddPort(port int) {
	d.Ports = append(d.Ports, port)
}

// AddEnv sets an environment variable.
func (d *Deployment) AddEnv(name string, value EnvValue) {
	if d.Env == nil {
		d.Env = Env{}
	}
	d.Env[name] = value
}

// AddDependsOn appends a dependency reference.
func (d *Deployment) AddDependsOn(ref DependencyRef) {
	d.DependsOn = append(d.DependsOn, ref)
}

// AddCommandArg appends an argument to the container entrypoint.
func (d *Deployment) AddCommandArg(arg string) {
	d.CommandArgs += " " + arg
}
