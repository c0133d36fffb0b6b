package annotation

import (
	"fmt"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

type deploymentProcessor struct{}

func (deploymentProcessor) Name() string { return Deployment }

func (deploymentProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	if err := claimWorkload(Deployment, unit); err != nil {
		return err
	}

	d := model.NewDeployment(unit.Name + "-deployment")
	fs := merge(
		metaFields(&d.Meta),
		imageFields(Deployment, unit, &d.ImageSpec),
		fields{
			"namespace":      setString(&d.Namespace),
			"podAnnotations": setStringMap(&d.PodAnnotations),
			"podTolerations": tolerationsField(Deployment, &d.PodTolerations),
			"replicas":       setNonNegativeInt(&d.Replicas),
			"livenessProbe":  probeField(Deployment, "livenessProbe", &d.Liveness),
			"readinessProbe": probeField(Deployment, "readinessProbe", &d.Readiness),
			"singleYAML":     setBool(&d.SingleYAML),
			"env":            envField(Deployment, d.AddEnv),
			"dependsOn":      dependsOnField(d.AddDependsOn),
			"updateStrategy": updateStrategyField(&d.UpdateStrategy),
		},
	)
	if err := decodeRecord(Deployment, "", attrs, fs); err != nil {
		return err
	}

	unit.SetDeployment(d)
	return nil
}

func updateStrategyField(dst **model.UpdateStrategy) fieldFunc {
	return func(v any) error {
		s := &model.UpdateStrategy{Type: "RollingUpdate"}
		if err := refRecord(Deployment, "updateStrategy", v, fields{
			"type":           setEnum(&s.Type, []string{"RollingUpdate", "Recreate"}),
			"maxUnavailable": setString(&s.MaxUnavailable),
			"maxSurge":       setString(&s.MaxSurge),
		}); err != nil {
			return err
		}
		if s.Type == "Recreate" && (s.MaxSurge != "" || s.MaxUnavailable != "") {
			return oerrors.NewConfigError(Deployment, "updateStrategy",
				"maxSurge and maxUnavailable only apply to RollingUpdate")
		}
		*dst = s
		return nil
	}
}

type jobProcessor struct{}

func (jobProcessor) Name() string { return Job }

func (jobProcessor) Process(unit *registry.Unit, entity Entity, attrs Attributes) error {
	if entity.Kind != EntityFunction {
		return oerrors.NewConfigError(Job, "", fmt.Sprintf("annotation is only supported on functions, not %s %q", entity.Kind, entity.Name))
	}
	if err := claimWorkload(Job, unit); err != nil {
		return err
	}

	j := model.NewJob(unit.Name + "-job")
	fs := merge(
		metaFields(&j.Meta),
		imageFields(Job, unit, &j.ImageSpec),
		fields{
			"namespace":             setString(&j.Namespace),
			"restartPolicy":         setEnum(&j.RestartPolicy, model.RestartPolicies),
			"backoffLimit":          setNonNegativeInt(&j.BackoffLimit),
			"activeDeadlineSeconds": setNonNegativeInt(&j.ActiveDeadlineSeconds),
			"nodeSelector":          setStringMap(&j.NodeSelector),
			"env":                   envField(Job, func(name string, v model.EnvValue) { j.Env[name] = v }),
			"singleYAML":            setBool(&j.SingleYAML),
			"schedule":              setString(&j.Schedule),
		},
	)
	if err := decodeRecord(Job, "", attrs, fs); err != nil {
		return err
	}
	if j.RestartPolicy == model.RestartAlways {
		return oerrors.NewConfigError(Job, "restartPolicy", "restart policy Always is not supported for jobs")
	}

	unit.SetJob(j)
	return nil
}

type knativeProcessor struct{}

func (knativeProcessor) Name() string { return KnativeService }

func (knativeProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	if err := claimWorkload(KnativeService, unit); err != nil {
		return err
	}

	k := model.NewKnativeService(unit.Name + "-ksvc")
	fs := merge(
		metaFields(&k.Meta),
		imageFields(KnativeService, unit, &k.ImageSpec),
		fields{
			"namespace":            setString(&k.Namespace),
			"port":                 setPort(&k.Port),
			"containerConcurrency": setNonNegativeInt(&k.ContainerConcurrency),
			"timeoutSeconds":       setNonNegativeInt(&k.TimeoutSeconds),
			"minScale":             setNonNegativeInt(&k.MinScale),
			"maxScale":             setNonNegativeInt(&k.MaxScale),
			"singleYAML":           setBool(&k.SingleYAML),
			"env":                  envField(KnativeService, k.AddEnv),
			"dependsOn": dependsOnField(func(ref model.DependencyRef) {
				k.DependsOn = append(k.DependsOn, ref)
			}),
		},
	)
	if err := decodeRecord(KnativeService, "", attrs, fs); err != nil {
		return err
	}
	if k.MinScale != model.Unset && k.MaxScale != model.Unset && k.MinScale > k.MaxScale {
		return oerrors.NewConfigError(KnativeService, "minScale",
			fmt.Sprintf("minScale %d is greater than maxScale %d", k.MinScale, k.MaxScale))
	}

	unit.SetKnative(k)
	return nil
}

type hpaProcessor struct{}

func (hpaProcessor) Name() string { return HPA }

func (hpaProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	if unit.Job() != nil || unit.Knative() != nil {
		return oerrors.NewConfigError(HPA, "", fmt.Sprintf("autoscaling is not supported for %s workloads", unit.Workload()))
	}

	a := model.NewPodAutoscaler(unit.Name + "-hpa")
	fs := merge(
		metaFields(&a.Meta),
		fields{
			"minReplicas":   setNonNegativeInt(&a.MinReplicas),
			"maxReplicas":   setNonNegativeInt(&a.MaxReplicas),
			"cpuPercentage": setNonNegativeInt(&a.CPUPercentage),
		},
	)
	if err := decodeRecord(HPA, "", attrs, fs); err != nil {
		return err
	}
	if a.CPUPercentage == 0 || a.CPUPercentage > 100 {
		return oerrors.NewConfigError(HPA, "cpuPercentage", fmt.Sprintf("value must be between 1 and 100: %d", a.CPUPercentage))
	}
	if a.MinReplicas != model.Unset && a.MaxReplicas != model.Unset && a.MinReplicas > a.MaxReplicas {
		return oerrors.NewConfigError(HPA, "minReplicas",
			fmt.Sprintf("minReplicas %d is greater than maxReplicas %d", a.MinReplicas, a.MaxReplicas))
	}

	unit.SetAutoscaler(a)
	return nil
}
