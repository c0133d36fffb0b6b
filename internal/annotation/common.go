package annotation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kubegen/cli/internal/core"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

func normalize(name string) string {
	return core.NormalizeName(name)
}

// metaFields decodes name, labels and annotations into m.
func metaFields(m *model.Meta) fields {
	return fields{
		"name":        setName(&m.Name),
		"labels":      setStringMap(&m.Labels),
		"annotations": setStringMap(&m.Annotations),
	}
}

// imageFields decodes the image and registry attributes shared by every
// workload annotation.
func imageFields(annotation string, unit *registry.Unit, spec *model.ImageSpec) fields {
	return fields{
		"image":            setString(&spec.Image),
		"baseImage":        setString(&spec.BaseImage),
		"registry":         setString(&spec.Registry),
		"imagePullPolicy":  setEnum(&spec.ImagePullPolicy, model.ImagePullPolicies),
		"buildImage":       setBool(&spec.BuildImage),
		"push":             setBool(&spec.Push),
		"username":         setString(&spec.Username),
		"password":         setString(&spec.Password),
		"dockerHost":       setString(&spec.DockerHost),
		"dockerCertPath":   setString(&spec.DockerCertPath),
		"cmd":              setString(&spec.Cmd),
		"imagePullSecrets": setStringList(&spec.ImagePullSecret),
		"copyFiles": func(v any) error {
			files, err := copyFiles(annotation, unit.SourceRoot, v)
			if err != nil {
				return err
			}
			spec.CopyFiles = files
			return nil
		},
	}
}

func copyFiles(annotation, root string, v any) ([]model.CopyFile, error) {
	recs, err := recordListValue(v)
	if err != nil {
		return nil, err
	}
	out := make([]model.CopyFile, 0, len(recs))
	// Sources land in the build context by base name.
	bases := make(map[string]string, len(recs))
	for _, rec := range recs {
		var f model.CopyFile
		err := decodeRecord(annotation, "copyFiles", rec, fields{
			"sourceFile": setString(&f.Source),
			"target":     setString(&f.Target),
		})
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(f.Source) == "" {
			return nil, oerrors.NewConfigError(annotation, "copyFiles.sourceFile", "source file cannot be blank")
		}
		if strings.TrimSpace(f.Target) == "" {
			return nil, oerrors.NewConfigError(annotation, "copyFiles.target", "target cannot be blank")
		}
		base := filepath.Base(f.Source)
		if prev, ok := bases[base]; ok {
			return nil, oerrors.NewConfigError(annotation, "copyFiles.sourceFile",
				fmt.Sprintf("%s and %s share the file name %s", prev, f.Source, base))
		}
		bases[base] = f.Source
		f.Source = resolvePath(root, f.Source)
		out = append(out, f)
	}
	return out, nil
}

// resolvePath anchors a relative path at the unit's source root.
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

func readFile(root, path string) ([]byte, error) {
	data, err := os.ReadFile(resolvePath(root, path))
	if err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", path, err)
	}
	return data, nil
}

// envField decodes the env attribute. Values are either literals or a record
// with exactly one reference key.
func envField(annotation string, add func(string, model.EnvValue)) fieldFunc {
	return func(v any) error {
		rec, err := recordValue(v)
		if err != nil {
			return err
		}
		for _, name := range model.SortedKeys(rec) {
			value, err := envValue(annotation, "env."+name, rec[name])
			if err != nil {
				return err
			}
			add(name, value)
		}
		return nil
	}
}

func envValue(annotation, path string, v any) (model.EnvValue, error) {
	if _, isRecord := v.(map[string]any); !isRecord {
		s, err := stringValue(v)
		if err != nil {
			return nil, oerrors.NewConfigError(annotation, path, err.Error())
		}
		return model.LiteralEnv{Value: s}, nil
	}

	rec := v.(map[string]any)
	if len(rec) != 1 {
		return nil, oerrors.NewConfigError(annotation, path,
			"expected exactly one of fieldRef, secretKeyRef, resourceFieldRef, configMapKeyRef")
	}

	var out model.EnvValue
	err := decodeRecord(annotation, path, rec, fields{
		"fieldRef": func(v any) error {
			var ref model.FieldRefEnv
			if err := refRecord(annotation, path+".fieldRef", v, fields{
				"fieldPath": setString(&ref.FieldPath),
			}); err != nil {
				return err
			}
			out = ref
			return nil
		},
		"secretKeyRef": func(v any) error {
			var ref model.SecretKeyRefEnv
			if err := refRecord(annotation, path+".secretKeyRef", v, fields{
				"name": setString(&ref.Name),
				"key":  setString(&ref.Key),
			}); err != nil {
				return err
			}
			out = ref
			return nil
		},
		"resourceFieldRef": func(v any) error {
			var ref model.ResourceFieldRefEnv
			if err := refRecord(annotation, path+".resourceFieldRef", v, fields{
				"containerName": setString(&ref.ContainerName),
				"resource":      setString(&ref.Resource),
			}); err != nil {
				return err
			}
			out = ref
			return nil
		},
		"configMapKeyRef": func(v any) error {
			var ref model.ConfigMapKeyRefEnv
			if err := refRecord(annotation, path+".configMapKeyRef", v, fields{
				"name": setString(&ref.Name),
				"key":  setString(&ref.Key),
			}); err != nil {
				return err
			}
			out = ref
			return nil
		},
	})
	return out, err
}

func refRecord(annotation, path string, v any, fs fields) error {
	rec, err := recordValue(v)
	if err != nil {
		return err
	}
	return decodeRecord(annotation, path, rec, fs)
}

// probeField decodes a probe given either as a boolean toggle or a record.
func probeField(annotation, path string, dst **model.Probe) fieldFunc {
	return func(v any) error {
		if _, isRecord := v.(map[string]any); !isRecord {
			enabled, err := boolValue(v)
			if err != nil {
				return err
			}
			if enabled {
				*dst = model.NewProbe()
			} else {
				*dst = nil
			}
			return nil
		}
		probe := model.NewProbe()
		if err := refRecord(annotation, path, v, fields{
			"port":                setPort(&probe.Port),
			"initialDelaySeconds": setNonNegativeInt(&probe.InitialDelaySeconds),
			"periodSeconds":       setNonNegativeInt(&probe.PeriodSeconds),
		}); err != nil {
			return err
		}
		*dst = probe
		return nil
	}
}

func tolerationsField(annotation string, dst *[]model.Toleration) fieldFunc {
	return func(v any) error {
		recs, err := recordListValue(v)
		if err != nil {
			return err
		}
		out := make([]model.Toleration, 0, len(recs))
		for _, rec := range recs {
			t := model.Toleration{TolerationSeconds: model.Unset}
			if err := decodeRecord(annotation, "podTolerations", rec, fields{
				"key":               setString(&t.Key),
				"operator":          setEnum(&t.Operator, []string{"Equal", "Exists"}),
				"value":             setString(&t.Value),
				"effect":            setEnum(&t.Effect, []string{"NoSchedule", "PreferNoSchedule", "NoExecute"}),
				"tolerationSeconds": setNonNegativeInt(&t.TolerationSeconds),
			}); err != nil {
				return err
			}
			out = append(out, t)
		}
		*dst = out
		return nil
	}
}

func dependsOnField(add func(model.DependencyRef)) fieldFunc {
	return func(v any) error {
		refs, err := stringListValue(v)
		if err != nil {
			return err
		}
		for _, s := range refs {
			ref, err := model.ParseDependencyRef(s)
			if err != nil {
				return err
			}
			add(ref)
		}
		return nil
	}
}

// claimWorkload enforces that a unit declares a single workload annotation.
func claimWorkload(annotation string, unit *registry.Unit) error {
	if unit.HasWorkload() {
		return oerrors.NewConfigError(annotation, "",
			fmt.Sprintf("unit %s already declares a %s workload", unit.Name, unit.Workload()))
	}
	return nil
}
