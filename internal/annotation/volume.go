package annotation

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"k8s.io/apimachinery/pkg/api/resource"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

// Paths inside the generated image.
const (
	HomePath      = "/home/app"
	RuntimePath   = "/home/app/runtime"
	ConfMountPath = "/home/app/conf/"

	// ConfFileName is the key the configuration file is mounted under.
	ConfFileName = "app.conf"
)

var reservedMountPaths = []string{HomePath, RuntimePath, ConfMountPath}

func checkMountPath(annotation, field, mountPath string) error {
	if strings.TrimSpace(mountPath) == "" {
		return oerrors.NewConfigError(annotation, field, "mount path cannot be blank")
	}
	clean := path.Clean(mountPath)
	for _, reserved := range reservedMountPaths {
		if clean == path.Clean(reserved) {
			return oerrors.NewConfigError(annotation, field, fmt.Sprintf("mount path %s is reserved", mountPath))
		}
	}
	return nil
}

type secretProcessor struct{}

func (secretProcessor) Name() string { return Secret }

func (secretProcessor) Process(unit *registry.Unit, entity Entity, attrs Attributes) error {
	var secrets []*model.Secret
	err := decodeRecord(Secret, "", attrs, fields{
		"secrets": func(v any) error {
			recs, err := recordListValue(v)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				s, err := secretEntry(unit, rec)
				if err != nil {
					return err
				}
				secrets = append(secrets, s)
			}
			return nil
		},
		"conf": func(v any) error {
			confPath, err := nonBlankString(v)
			if err != nil {
				return err
			}
			data, err := readFile(unit.SourceRoot, confPath)
			if err != nil {
				return err
			}
			s := model.NewSecret(unit.Name + "-config-secret")
			s.MountPath = ConfMountPath
			s.ConfigFile = true
			s.Data[ConfFileName] = data
			secrets = append(secrets, s)
			return nil
		},
	})
	if err != nil {
		return err
	}

	for _, s := range secrets {
		unit.AddSecret(s)
		if entity.IsListener() {
			unit.AttachListenerSecret(entity.Name, s.Name)
		}
	}
	return nil
}

func secretEntry(unit *registry.Unit, rec map[string]any) (*model.Secret, error) {
	s := model.NewSecret("")
	var files []string
	if err := decodeRecord(Secret, "secrets", rec, merge(
		metaFields(&s.Meta),
		fields{
			"mountPath": setString(&s.MountPath),
			"readOnly":  setBool(&s.ReadOnly),
			"data":      setStringList(&files),
		},
	)); err != nil {
		return nil, err
	}
	if s.Name == "" {
		return nil, oerrors.NewConfigError(Secret, "secrets.name", "name is required")
	}
	if err := checkMountPath(Secret, "secrets.mountPath", s.MountPath); err != nil {
		return nil, err
	}
	for _, f := range files {
		data, err := readFile(unit.SourceRoot, f)
		if err != nil {
			return nil, oerrors.NewConfigError(Secret, "secrets.data", err.Error())
		}
		s.Data[filepath.Base(f)] = data
	}
	return s, nil
}

type configMapProcessor struct{}

func (configMapProcessor) Name() string { return ConfigMap }

func (configMapProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	var maps []*model.ConfigMap
	err := decodeRecord(ConfigMap, "", attrs, fields{
		"configMaps": func(v any) error {
			recs, err := recordListValue(v)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				c, err := configMapEntry(unit, rec)
				if err != nil {
					return err
				}
				maps = append(maps, c)
			}
			return nil
		},
		"conf": func(v any) error {
			confPath, err := nonBlankString(v)
			if err != nil {
				return err
			}
			data, err := readFile(unit.SourceRoot, confPath)
			if err != nil {
				return err
			}
			c := model.NewConfigMap(unit.Name + "-config-map")
			c.MountPath = ConfMountPath
			c.ConfigFile = true
			c.Data[ConfFileName] = string(data)
			maps = append(maps, c)
			return nil
		},
	})
	if err != nil {
		return err
	}

	for _, c := range maps {
		unit.AddConfigMap(c)
	}
	return nil
}

func configMapEntry(unit *registry.Unit, rec map[string]any) (*model.ConfigMap, error) {
	c := model.NewConfigMap("")
	var files []string
	if err := decodeRecord(ConfigMap, "configMaps", rec, merge(
		metaFields(&c.Meta),
		fields{
			"mountPath":   setString(&c.MountPath),
			"readOnly":    setBool(&c.ReadOnly),
			"defaultMode": setNonNegativeInt(&c.DefaultMode),
			"data":        setStringList(&files),
		},
	)); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, oerrors.NewConfigError(ConfigMap, "configMaps.name", "name is required")
	}
	if err := checkMountPath(ConfigMap, "configMaps.mountPath", c.MountPath); err != nil {
		return nil, err
	}
	if c.DefaultMode != model.Unset && c.DefaultMode > int(fs.ModePerm) {
		return nil, oerrors.NewConfigError(ConfigMap, "configMaps.defaultMode", fmt.Sprintf("invalid file mode %d", c.DefaultMode))
	}
	for _, f := range files {
		data, err := readFile(unit.SourceRoot, f)
		if err != nil {
			return nil, oerrors.NewConfigError(ConfigMap, "configMaps.data", err.Error())
		}
		c.Data[filepath.Base(f)] = string(data)
	}
	return c, nil
}

var accessModes = []string{"ReadWriteOnce", "ReadOnlyMany", "ReadWriteMany", "ReadWriteOncePod"}

type volumeClaimProcessor struct{}

func (volumeClaimProcessor) Name() string { return PersistentVolumeClaim }

func (volumeClaimProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	var claims []*model.PersistentVolumeClaim
	err := decodeRecord(PersistentVolumeClaim, "", attrs, fields{
		"volumeClaims": func(v any) error {
			recs, err := recordListValue(v)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				c, err := volumeClaimEntry(rec)
				if err != nil {
					return err
				}
				claims = append(claims, c)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	for _, c := range claims {
		unit.AddVolumeClaim(c)
	}
	return nil
}

func volumeClaimEntry(rec map[string]any) (*model.PersistentVolumeClaim, error) {
	c := model.NewPersistentVolumeClaim("")
	var size string
	if err := decodeRecord(PersistentVolumeClaim, "volumeClaims", rec, merge(
		metaFields(&c.Meta),
		fields{
			"mountPath":       setString(&c.MountPath),
			"readOnly":        setBool(&c.ReadOnly),
			"accessMode":      setEnum(&c.AccessMode, accessModes),
			"volumeClaimSize": setString(&size),
		},
	)); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, oerrors.NewConfigError(PersistentVolumeClaim, "volumeClaims.name", "name is required")
	}
	if err := checkMountPath(PersistentVolumeClaim, "volumeClaims.mountPath", c.MountPath); err != nil {
		return nil, err
	}
	if size == "" {
		return nil, oerrors.NewConfigError(PersistentVolumeClaim, "volumeClaims.volumeClaimSize", "size is required")
	}
	q, err := resource.ParseQuantity(size)
	if err != nil {
		return nil, oerrors.NewConfigError(PersistentVolumeClaim, "volumeClaims.volumeClaimSize", unparsable(size).Error())
	}
	c.Size = q
	return c, nil
}

var quotaScopes = []string{"Terminating", "NotTerminating", "BestEffort", "NotBestEffort", "PriorityClass", "CrossNamespacePodAffinity"}

type resourceQuotaProcessor struct{}

func (resourceQuotaProcessor) Name() string { return ResourceQuota }

func (resourceQuotaProcessor) Process(unit *registry.Unit, _ Entity, attrs Attributes) error {
	var quotas []*model.ResourceQuota
	err := decodeRecord(ResourceQuota, "", attrs, fields{
		"resourceQuotas": func(v any) error {
			recs, err := recordListValue(v)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				q, err := resourceQuotaEntry(rec)
				if err != nil {
					return err
				}
				quotas = append(quotas, q)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}

	for _, q := range quotas {
		unit.AddResourceQuota(q)
	}
	return nil
}

func resourceQuotaEntry(rec map[string]any) (*model.ResourceQuota, error) {
	q := model.NewResourceQuota("")
	var scopes []string
	if err := decodeRecord(ResourceQuota, "resourceQuotas", rec, merge(
		metaFields(&q.Meta),
		fields{
			"hard":   setStringMap(&q.Hard),
			"scopes": setStringList(&scopes),
		},
	)); err != nil {
		return nil, err
	}
	if q.Name == "" {
		return nil, oerrors.NewConfigError(ResourceQuota, "resourceQuotas.name", "name is required")
	}
	if len(q.Hard) == 0 {
		return nil, oerrors.NewConfigError(ResourceQuota, "resourceQuotas.hard", "at least one limit is required")
	}
	for _, key := range model.SortedKeys(q.Hard) {
		if _, err := resource.ParseQuantity(q.Hard[key]); err != nil {
			return nil, oerrors.NewConfigError(ResourceQuota, "resourceQuotas.hard."+key, unparsable(q.Hard[key]).Error())
		}
	}
	for _, s := range scopes {
		scope, err := enumValue(s, quotaScopes)
		if err != nil {
			return nil, oerrors.NewConfigError(ResourceQuota, "resourceQuotas.scopes", err.Error())
		}
		q.Scopes = append(q.Scopes, scope)
	}
	return q, nil
}
