package handler

import (
	"context"
	"fmt"
	"path"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

// ConfigFileEnv points the application at its mounted configuration file.
const ConfigFileEnv = "APP_CONFIG_FILE"

// ConfigFileArg is the command-line flag carrying the configuration file path.
const ConfigFileArg = "--config"

// applyConfigFile wires a configuration-file Secret or ConfigMap into the
// unit's workload. Such a record must hold exactly one entry.
func applyConfigFile(u *registry.Unit, kind, name, mountPath string, keys []string) error {
	if len(keys) != 1 {
		return oerrors.Wrap(oerrors.ErrValidation,
			fmt.Sprintf("%s %s holds a configuration file and must contain exactly one entry, found %d", kind, name, len(keys)))
	}
	file := path.Join(mountPath, keys[0])
	arg := ConfigFileArg + "=" + file
	env := model.LiteralEnv{Value: file}

	switch {
	case u.Knative() != nil:
		u.Knative().AddCommandArg(arg)
		u.Knative().AddEnv(ConfigFileEnv, env)
	case u.Deployment() != nil:
		u.Deployment().AddCommandArg(arg)
		u.Deployment().AddEnv(ConfigFileEnv, env)
	default:
		return oerrors.Wrap(oerrors.ErrValidation,
			fmt.Sprintf("%s %s holds a configuration file but unit %s has no workload to mount it", kind, name, u.Name))
	}
	return nil
}

// SecretHandler writes Secrets.
type SecretHandler struct{}

func (SecretHandler) Name() string { return "kubernetes:Secret" }

func (SecretHandler) Applies(u *registry.Unit) bool { return len(u.Secrets()) > 0 }

func (SecretHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	for _, s := range hc.Unit.Secrets() {
		if s.ConfigFile {
			if err := applyConfigFile(hc.Unit, "secret", s.Name, s.MountPath, model.SortedKeys(s.Data)); err != nil {
				return oerrors.WrapArtifact(s.Name, err)
			}
		}
		secret := &corev1.Secret{
			ObjectMeta: hc.objectMeta(s.Meta),
			Type:       corev1.SecretTypeOpaque,
			Data:       s.Data,
		}
		if err := hc.emit(secret, ArtifactSecret); err != nil {
			return oerrors.WrapArtifact(s.Name, err)
		}
	}
	return nil
}

// ConfigMapHandler writes ConfigMaps.
type ConfigMapHandler struct{}

func (ConfigMapHandler) Name() string { return "kubernetes:ConfigMap" }

func (ConfigMapHandler) Applies(u *registry.Unit) bool { return len(u.ConfigMaps()) > 0 }

func (ConfigMapHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	for _, c := range hc.Unit.ConfigMaps() {
		if c.ConfigFile {
			if err := applyConfigFile(hc.Unit, "config map", c.Name, c.MountPath, model.SortedKeys(c.Data)); err != nil {
				return oerrors.WrapArtifact(c.Name, err)
			}
		}
		cm := &corev1.ConfigMap{
			ObjectMeta: hc.objectMeta(c.Meta),
			Data:       c.Data,
		}
		if err := hc.emit(cm, ArtifactConfigMap); err != nil {
			return oerrors.WrapArtifact(c.Name, err)
		}
	}
	return nil
}

// VolumeClaimHandler writes PersistentVolumeClaims.
type VolumeClaimHandler struct{}

func (VolumeClaimHandler) Name() string { return "kubernetes:PersistentVolumeClaim" }

func (VolumeClaimHandler) Applies(u *registry.Unit) bool { return len(u.VolumeClaims()) > 0 }

func (VolumeClaimHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	for _, c := range hc.Unit.VolumeClaims() {
		pvc := &corev1.PersistentVolumeClaim{
			ObjectMeta: hc.objectMeta(c.Meta),
			Spec: corev1.PersistentVolumeClaimSpec{
				AccessModes: []corev1.PersistentVolumeAccessMode{corev1.PersistentVolumeAccessMode(c.AccessMode)},
				Resources: corev1.VolumeResourceRequirements{
					Requests: corev1.ResourceList{corev1.ResourceStorage: c.Size},
				},
			},
		}
		if err := hc.emit(pvc, ArtifactVolumeClaim); err != nil {
			return oerrors.WrapArtifact(c.Name, err)
		}
	}
	return nil
}

// ResourceQuotaHandler writes ResourceQuotas.
type ResourceQuotaHandler struct{}

func (ResourceQuotaHandler) Name() string { return "kubernetes:ResourceQuota" }

func (ResourceQuotaHandler) Applies(u *registry.Unit) bool { return len(u.ResourceQuotas()) > 0 }

func (ResourceQuotaHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	for _, q := range hc.Unit.ResourceQuotas() {
		hard := corev1.ResourceList{}
		for _, key := range model.SortedKeys(q.Hard) {
			qty, err := resource.ParseQuantity(q.Hard[key])
			if err != nil {
				return oerrors.WrapArtifact(q.Name, fmt.Errorf("hard limit %s: %w", key, err))
			}
			hard[corev1.ResourceName(key)] = qty
		}

		rq := &corev1.ResourceQuota{
			ObjectMeta: hc.objectMeta(q.Meta),
			Spec:       corev1.ResourceQuotaSpec{Hard: hard},
		}
		for _, s := range q.Scopes {
			rq.Spec.Scopes = append(rq.Spec.Scopes, corev1.ResourceQuotaScope(s))
		}
		if err := hc.emit(rq, ArtifactResourceQuota); err != nil {
			return oerrors.WrapArtifact(q.Name, err)
		}
	}
	return nil
}
