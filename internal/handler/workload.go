package handler

import (
	"context"
	"fmt"
	"strconv"

	appsv1 "k8s.io/api/apps/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/kubegen/cli/internal/core"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
	"github.com/kubegen/cli/pkg/weights"
)

// Knative revision annotations.
const (
	annotationMinScale = "autoscaling.knative.dev/min-scale"
	annotationMaxScale = "autoscaling.knative.dev/max-scale"
)

// DeploymentHandler writes the unit's Deployment. It runs after every
// handler that feeds ports or configuration arguments back into it.
type DeploymentHandler struct{}

func (DeploymentHandler) Name() string { return "kubernetes:Deployment" }

func (DeploymentHandler) Applies(u *registry.Unit) bool { return u.Deployment() != nil }

func (DeploymentHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	d := hc.Unit.Deployment()
	dep, err := hc.deployment(d)
	if err != nil {
		return oerrors.WrapArtifact(d.Name, err)
	}
	if err := hc.emit(dep, ArtifactDeployment); err != nil {
		return oerrors.WrapArtifact(d.Name, err)
	}
	hc.logger().Debug("generated deployment", "name", d.Name, "replicas", d.Replicas, "ports", d.Ports)
	return nil
}

func (hc *Context) deployment(d *model.Deployment) (*appsv1.Deployment, error) {
	container, err := hc.container(d.ImageSpec, d.Env, d.Ports)
	if err != nil {
		return nil, err
	}
	fallback := firstPort(d.Ports)
	if container.LivenessProbe, err = tcpProbe(d.Liveness, fallback, livenessInitialDelay, livenessPeriod); err != nil {
		return nil, fmt.Errorf("liveness probe: %w", err)
	}
	if container.ReadinessProbe, err = tcpProbe(d.Readiness, fallback, readinessInitialDelay, readinessPeriod); err != nil {
		return nil, fmt.Errorf("readiness probe: %w", err)
	}

	volumes, mounts := podVolumes(hc.Unit, mountAll)
	container.VolumeMounts = mounts

	replicas := int32(d.Replicas)
	dep := &appsv1.Deployment{
		ObjectMeta: hc.objectMeta(d.Meta),
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: core.SelectorLabels(hc.Unit.Name)},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels:      core.UnitLabels(hc.Unit.Name),
					Annotations: d.PodAnnotations,
				},
				Spec: corev1.PodSpec{
					InitContainers:   hc.waitForContainers(d.DependsOn),
					Containers:       []corev1.Container{container},
					Volumes:          volumes,
					ImagePullSecrets: pullSecrets(d.ImagePullSecret),
					Tolerations:      tolerations(d.PodTolerations),
				},
			},
		},
	}
	if d.UpdateStrategy != nil {
		dep.Spec.Strategy = updateStrategy(d.UpdateStrategy)
	}

	img := hc.imageDescriptor(d.ImageSpec, d.Ports, d.CommandArgs)
	hc.Instructions.Image = img.Name
	return dep, nil
}

func updateStrategy(s *model.UpdateStrategy) appsv1.DeploymentStrategy {
	out := appsv1.DeploymentStrategy{Type: appsv1.DeploymentStrategyType(s.Type)}
	if s.Type != string(appsv1.RollingUpdateDeploymentStrategyType) {
		return out
	}
	if s.MaxSurge == "" && s.MaxUnavailable == "" {
		return out
	}
	ru := &appsv1.RollingUpdateDeployment{}
	if s.MaxSurge != "" {
		v := intstr.Parse(s.MaxSurge)
		ru.MaxSurge = &v
	}
	if s.MaxUnavailable != "" {
		v := intstr.Parse(s.MaxUnavailable)
		ru.MaxUnavailable = &v
	}
	out.RollingUpdate = ru
	return out
}

// container renders the main application container.
func (hc *Context) container(spec model.ImageSpec, env model.Env, ports []int) (corev1.Container, error) {
	vars, err := containerEnv(env)
	if err != nil {
		return corev1.Container{}, err
	}
	c := corev1.Container{
		Name:            hc.Unit.Name,
		Image:           hc.imageName(spec),
		ImagePullPolicy: corev1.PullPolicy(spec.ImagePullPolicy),
		Ports:           containerPorts(ports),
	}
	if len(vars) > 0 {
		c.Env = vars
	}
	return c, nil
}

// HPAHandler writes the HorizontalPodAutoscaler targeting the Deployment.
type HPAHandler struct{}

func (HPAHandler) Name() string { return "kubernetes:HPA" }

func (HPAHandler) Applies(u *registry.Unit) bool {
	return u.Autoscaler() != nil && u.Deployment() != nil
}

func (HPAHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	a := hc.Unit.Autoscaler()
	d := hc.Unit.Deployment()
	a.ApplyDefaults(d.Replicas)
	a.Deployment = d.Name

	minReplicas := int32(a.MinReplicas)
	target := int32(a.CPUPercentage)
	hpa := &autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: hc.objectMeta(a.Meta),
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: appsv1.SchemeGroupVersion.String(),
				Kind:       "Deployment",
				Name:       a.Deployment,
			},
			MinReplicas: &minReplicas,
			MaxReplicas: int32(a.MaxReplicas),
			Metrics: []autoscalingv2.MetricSpec{{
				Type: autoscalingv2.ResourceMetricSourceType,
				Resource: &autoscalingv2.ResourceMetricSource{
					Name: corev1.ResourceCPU,
					Target: autoscalingv2.MetricTarget{
						Type:               autoscalingv2.UtilizationMetricType,
						AverageUtilization: &target,
					},
				},
			}},
		},
	}
	if err := hc.emit(hpa, ArtifactHPA); err != nil {
		return oerrors.WrapArtifact(a.Name, err)
	}
	return nil
}

// JobHandler writes a Job, or a CronJob when a schedule is set.
type JobHandler struct{}

func (JobHandler) Name() string { return "kubernetes:Job" }

func (JobHandler) Applies(u *registry.Unit) bool { return u.Job() != nil }

func (JobHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	j := hc.Unit.Job()
	container, err := hc.container(j.ImageSpec, j.Env, nil)
	if err != nil {
		return oerrors.WrapArtifact(j.Name, err)
	}
	// The Job path emits no Secrets, ConfigMaps or claims.
	volumes, mounts := podVolumes(hc.Unit, 0)
	container.VolumeMounts = mounts

	backoff := int32(j.BackoffLimit)
	deadline := int64(j.ActiveDeadlineSeconds)
	spec := batchv1.JobSpec{
		BackoffLimit:          &backoff,
		ActiveDeadlineSeconds: &deadline,
		Template: corev1.PodTemplateSpec{
			ObjectMeta: metav1.ObjectMeta{Labels: core.UnitLabels(hc.Unit.Name)},
			Spec: corev1.PodSpec{
				RestartPolicy:    corev1.RestartPolicy(j.RestartPolicy),
				Containers:       []corev1.Container{container},
				Volumes:          volumes,
				NodeSelector:     j.NodeSelector,
				ImagePullSecrets: pullSecrets(j.ImagePullSecret),
			},
		},
	}

	var obj runtime.Object
	if j.IsCron() {
		obj = &batchv1.CronJob{
			ObjectMeta: hc.objectMeta(j.Meta),
			Spec: batchv1.CronJobSpec{
				Schedule:    j.Schedule,
				JobTemplate: batchv1.JobTemplateSpec{Spec: spec},
			},
		}
	} else {
		obj = &batchv1.Job{ObjectMeta: hc.objectMeta(j.Meta), Spec: spec}
	}
	if err := hc.emit(obj, ArtifactJob); err != nil {
		return oerrors.WrapArtifact(j.Name, err)
	}

	img := hc.imageDescriptor(j.ImageSpec, nil, "")
	hc.Instructions.Image = img.Name
	return nil
}

// KnativeHandler writes a serving.knative.dev/v1 Service. Knative types are
// not vendored, so the pod spec is built typed and converted.
type KnativeHandler struct{}

func (KnativeHandler) Name() string { return "knative:Service" }

func (KnativeHandler) Applies(u *registry.Unit) bool { return u.Knative() != nil }

func (KnativeHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	k := hc.Unit.Knative()
	obj, err := hc.knativeService(k)
	if err != nil {
		return oerrors.WrapArtifact(k.Name, err)
	}
	if err := hc.Sink.Write(core.NewUnstructuredResource(obj, hc.Unit.Name, ArtifactKnative)); err != nil {
		return oerrors.WrapArtifact(k.Name, err)
	}
	return nil
}

func (hc *Context) knativeService(k *model.KnativeService) (*unstructured.Unstructured, error) {
	var ports []int
	if k.Port != model.Unset {
		ports = []int{k.Port}
	}
	container, err := hc.container(k.ImageSpec, k.Env, ports)
	if err != nil {
		return nil, err
	}
	volumes, mounts := podVolumes(hc.Unit, mountSecrets|mountConfigMaps)
	container.VolumeMounts = mounts

	pod := corev1.PodSpec{
		InitContainers:   hc.waitForContainers(k.DependsOn),
		Containers:       []corev1.Container{container},
		Volumes:          volumes,
		ImagePullSecrets: pullSecrets(k.ImagePullSecret),
	}
	podMap, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&pod)
	if err != nil {
		return nil, fmt.Errorf("converting pod spec: %w", err)
	}
	if k.ContainerConcurrency != model.Unset {
		podMap["containerConcurrency"] = int64(k.ContainerConcurrency)
	}
	if k.TimeoutSeconds != model.Unset {
		podMap["timeoutSeconds"] = int64(k.TimeoutSeconds)
	}

	templateMeta := map[string]any{"labels": stringMapToAny(core.UnitLabels(hc.Unit.Name))}
	scale := map[string]any{}
	if k.MinScale != model.Unset {
		scale[annotationMinScale] = strconv.Itoa(k.MinScale)
	}
	if k.MaxScale != model.Unset {
		scale[annotationMaxScale] = strconv.Itoa(k.MaxScale)
	}
	if len(scale) > 0 {
		templateMeta["annotations"] = scale
	}

	meta := hc.objectMeta(k.Meta)
	metaMap, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&meta)
	if err != nil {
		return nil, fmt.Errorf("converting metadata: %w", err)
	}

	obj := &unstructured.Unstructured{Object: map[string]any{
		"metadata": metaMap,
		"spec": map[string]any{
			"template": map[string]any{
				"metadata": templateMeta,
				"spec":     podMap,
			},
		},
	}}
	obj.SetGroupVersionKind(weights.KnativeServiceGVK)

	img := hc.imageDescriptor(k.ImageSpec, ports, k.CommandArgs)
	hc.Instructions.Image = img.Name
	return obj, nil
}

func stringMapToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
