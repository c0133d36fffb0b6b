package handler

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

// VolumeSuffix is appended to a Secret, ConfigMap or claim name to form the
// volume and mount name.
const VolumeSuffix = "-volume"

// Probe defaults in seconds.
const (
	livenessInitialDelay  = 10
	livenessPeriod        = 5
	readinessInitialDelay = 3
	readinessPeriod       = 1
)

// initContainerImage polls DNS for dependencies.
const initContainerImage = "busybox"

// containerEnv renders the env map sorted by variable name.
func containerEnv(env model.Env) ([]corev1.EnvVar, error) {
	out := make([]corev1.EnvVar, 0, len(env))
	for _, name := range model.SortedKeys(env) {
		ev := corev1.EnvVar{Name: name}
		switch v := env[name].(type) {
		case model.LiteralEnv:
			ev.Value = v.Value
		case model.FieldRefEnv:
			ev.ValueFrom = &corev1.EnvVarSource{
				FieldRef: &corev1.ObjectFieldSelector{FieldPath: v.FieldPath},
			}
		case model.SecretKeyRefEnv:
			ev.ValueFrom = &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: v.Name},
					Key:                  v.Key,
				},
			}
		case model.ResourceFieldRefEnv:
			ev.ValueFrom = &corev1.EnvVarSource{
				ResourceFieldRef: &corev1.ResourceFieldSelector{ContainerName: v.ContainerName, Resource: v.Resource},
			}
		case model.ConfigMapKeyRefEnv:
			ev.ValueFrom = &corev1.EnvVarSource{
				ConfigMapKeyRef: &corev1.ConfigMapKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{Name: v.Name},
					Key:                  v.Key,
				},
			}
		default:
			return nil, fmt.Errorf("env %s: unsupported value type %T", name, v)
		}
		out = append(out, ev)
	}
	return out, nil
}

// volumeKinds selects which attached objects a pod mounts. A handler path
// only mounts the kinds it also emits.
type volumeKinds uint8

const (
	mountSecrets volumeKinds = 1 << iota
	mountConfigMaps
	mountClaims

	mountAll = mountSecrets | mountConfigMaps | mountClaims
)

// podVolumes pairs a volume with a mount for every Secret, ConfigMap and
// claim attached to the unit whose kind is in kinds.
func podVolumes(u *registry.Unit, kinds volumeKinds) ([]corev1.Volume, []corev1.VolumeMount) {
	var volumes []corev1.Volume
	var mounts []corev1.VolumeMount

	for _, s := range u.Secrets() {
		if kinds&mountSecrets == 0 {
			break
		}
		name := s.Name + VolumeSuffix
		volumes = append(volumes, corev1.Volume{
			Name:         name,
			VolumeSource: corev1.VolumeSource{Secret: &corev1.SecretVolumeSource{SecretName: s.Name}},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: name, MountPath: s.MountPath, ReadOnly: s.ReadOnly})
	}

	for _, c := range u.ConfigMaps() {
		if kinds&mountConfigMaps == 0 {
			break
		}
		name := c.Name + VolumeSuffix
		src := &corev1.ConfigMapVolumeSource{LocalObjectReference: corev1.LocalObjectReference{Name: c.Name}}
		if c.DefaultMode != model.Unset {
			mode := int32(c.DefaultMode)
			src.DefaultMode = &mode
		}
		volumes = append(volumes, corev1.Volume{Name: name, VolumeSource: corev1.VolumeSource{ConfigMap: src}})
		mounts = append(mounts, corev1.VolumeMount{Name: name, MountPath: c.MountPath, ReadOnly: c.ReadOnly})
	}

	for _, c := range u.VolumeClaims() {
		if kinds&mountClaims == 0 {
			break
		}
		name := c.Name + VolumeSuffix
		volumes = append(volumes, corev1.Volume{
			Name: name,
			VolumeSource: corev1.VolumeSource{PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
				ClaimName: c.Name,
				ReadOnly:  c.ReadOnly,
			}},
		})
		mounts = append(mounts, corev1.VolumeMount{Name: name, MountPath: c.MountPath, ReadOnly: c.ReadOnly})
	}

	return volumes, mounts
}

// tcpProbe renders p, filling unset values from the defaults. A probe
// without a port uses fallbackPort; zero means none is available.
func tcpProbe(p *model.Probe, fallbackPort, delay, period int) (*corev1.Probe, error) {
	if p == nil {
		return nil, nil
	}
	port := p.Port
	if port == model.Unset {
		port = fallbackPort
	}
	if port <= 0 {
		return nil, fmt.Errorf("unable to determine probe port: declare one or attach a @kubernetes:Service")
	}
	if p.InitialDelaySeconds != model.Unset {
		delay = p.InitialDelaySeconds
	}
	if p.PeriodSeconds != model.Unset {
		period = p.PeriodSeconds
	}
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			TCPSocket: &corev1.TCPSocketAction{Port: intstr.FromInt32(int32(port))},
		},
		InitialDelaySeconds: int32(delay),
		PeriodSeconds:       int32(period),
	}, nil
}

func firstPort(ports []int) int {
	if len(ports) == 0 {
		return 0
	}
	return ports[0]
}

func containerPorts(ports []int) []corev1.ContainerPort {
	out := make([]corev1.ContainerPort, 0, len(ports))
	for _, p := range ports {
		out = append(out, corev1.ContainerPort{ContainerPort: int32(p), Protocol: corev1.ProtocolTCP})
	}
	return out
}

func pullSecrets(names []string) []corev1.LocalObjectReference {
	if len(names) == 0 {
		return nil
	}
	out := make([]corev1.LocalObjectReference, 0, len(names))
	for _, n := range names {
		out = append(out, corev1.LocalObjectReference{Name: n})
	}
	return out
}

func tolerations(in []model.Toleration) []corev1.Toleration {
	if len(in) == 0 {
		return nil
	}
	out := make([]corev1.Toleration, 0, len(in))
	for _, t := range in {
		tol := corev1.Toleration{
			Key:      t.Key,
			Operator: corev1.TolerationOperator(t.Operator),
			Value:    t.Value,
			Effect:   corev1.TaintEffect(t.Effect),
		}
		if t.TolerationSeconds != model.Unset {
			secs := int64(t.TolerationSeconds)
			tol.TolerationSeconds = &secs
		}
		out = append(out, tol)
	}
	return out
}

// waitForContainers builds one init container per dependency that blocks
// until the dependency's Service resolves in DNS. Dependencies resolving to
// the same Service share one container.
func (hc *Context) waitForContainers(refs []model.DependencyRef) []corev1.Container {
	var out []corev1.Container
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		svc := hc.dependencyService(ref)
		if seen[svc] {
			continue
		}
		seen[svc] = true
		out = append(out, corev1.Container{
			Name:  "wait-for-" + svc,
			Image: initContainerImage,
			Command: []string{"sh", "-c",
				fmt.Sprintf("until nslookup %s; do echo waiting for %s; sleep 2; done;", svc, svc)},
		})
	}
	return out
}

// dependencyService resolves the Service name a dependency points at. An
// unresolved reference falls back to the conventional name.
func (hc *Context) dependencyService(ref model.DependencyRef) string {
	if _, svc, ok := hc.Registry.ResolveService(ref); ok {
		return svc.Name
	}
	name := core.NormalizeName(ref.Listener) + "-svc"
	hc.logger().Warn("dependency service not found, using conventional name",
		"ref", ref.String(), "service", name)
	return name
}

// imageName resolves the image reference with the registry prefix.
func (hc *Context) imageName(spec model.ImageSpec) string {
	name := spec.Image
	if name == "" {
		name = hc.Unit.Name + ":latest"
	}
	reg := spec.Registry
	if reg == "" {
		reg = hc.Defaults.Registry
	}
	if reg != "" && !strings.HasPrefix(name, reg+"/") {
		name = strings.TrimSuffix(reg, "/") + "/" + name
	}
	return name
}

// imageDescriptor derives the image build input from a workload's image
// fields and records it on the unit.
func (hc *Context) imageDescriptor(spec model.ImageSpec, ports []int, commandArgs string) *model.Image {
	img := &model.Image{
		Name:           hc.imageName(spec),
		BaseImage:      firstNonEmpty(spec.BaseImage, hc.Defaults.BaseImage, image.DefaultBaseImage),
		Ports:          append([]int(nil), ports...),
		Cmd:            spec.Cmd,
		CommandArgs:    commandArgs,
		CopyFiles:      spec.CopyFiles,
		ArtifactPath:   hc.Unit.ArtifactPath,
		Build:          spec.BuildImage || hc.Defaults.BuildImage,
		Push:           spec.Push,
		Username:       spec.Username,
		Password:       spec.Password,
		DockerHost:     firstNonEmpty(spec.DockerHost, hc.Defaults.DockerHost),
		DockerCertPath: firstNonEmpty(spec.DockerCertPath, hc.Defaults.DockerCertPath),
	}
	hc.Unit.SetImage(img)
	return img
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
