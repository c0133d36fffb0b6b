package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/registry"
)

var (
	helloListener = Entity{Kind: EntityListener, Name: "helloEP", Port: 9090}
	mainFunction  = Entity{Kind: EntityFunction, Name: "main"}
)

func newUnit(t *testing.T) *registry.Unit {
	t.Helper()
	u := registry.New().Register("hello")
	u.SourceRoot = t.TempDir()
	return u
}

func TestSetRejectsUnknownAnnotation(t *testing.T) {
	err := NewSet().Process(newUnit(t), helloListener, "kubernetes:Pod", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
	assert.Contains(t, err.Error(), "unknown annotation")
}

func TestSetNames(t *testing.T) {
	assert.Equal(t, []string{
		KnativeService, ConfigMap, Deployment, HPA, Ingress, Job,
		PersistentVolumeClaim, ResourceQuota, Secret, Service,
	}, NewSet().Names())
}

func TestDeploymentProcessor(t *testing.T) {
	u := newUnit(t)
	err := NewSet().Process(u, mainFunction, Deployment, Attributes{
		"replicas":        2,
		"namespace":       "shop",
		"imagePullPolicy": "always",
		"livenessProbe":   true,
		"readinessProbe":  map[string]any{"port": 9091, "periodSeconds": 4},
		"dependsOn":       []any{"orders:ordersEP"},
		"env": map[string]any{
			"LOG_LEVEL": "debug",
			"POD_IP":    map[string]any{"fieldRef": map[string]any{"fieldPath": "status.podIP"}},
			"DB_PASS":   map[string]any{"secretKeyRef": map[string]any{"name": "db", "key": "password"}},
		},
		"podTolerations": []any{
			map[string]any{"key": "gpu", "operator": "Exists", "effect": "NoSchedule"},
		},
	})
	require.NoError(t, err)

	d := u.Deployment()
	require.NotNil(t, d)
	assert.Equal(t, "hello-deployment", d.Name)
	assert.Equal(t, 2, d.Replicas)
	assert.Equal(t, "shop", d.Namespace)
	assert.Equal(t, model.PullAlways, d.ImagePullPolicy)
	assert.Equal(t, model.NewProbe(), d.Liveness)
	assert.Equal(t, &model.Probe{Port: 9091, InitialDelaySeconds: model.Unset, PeriodSeconds: 4}, d.Readiness)
	assert.Equal(t, []model.DependencyRef{{Unit: "orders", Listener: "ordersEP"}}, d.DependsOn)
	assert.Equal(t, model.LiteralEnv{Value: "debug"}, d.Env["LOG_LEVEL"])
	assert.Equal(t, model.FieldRefEnv{FieldPath: "status.podIP"}, d.Env["POD_IP"])
	assert.Equal(t, model.SecretKeyRefEnv{Name: "db", Key: "password"}, d.Env["DB_PASS"])
	require.Len(t, d.PodTolerations, 1)
	assert.Equal(t, "gpu", d.PodTolerations[0].Key)
	assert.Equal(t, model.Unset, d.PodTolerations[0].TolerationSeconds)
}

func TestDeploymentProcessorErrors(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		wantErr string
	}{
		{"unknown field", Attributes{"replica": 2}, `@kubernetes:Deployment{replica}: unknown field "replica"`},
		{"expression", Attributes{"replicas": Expression{Text: "count"}}, "unable to parse value: count"},
		{"negative", Attributes{"replicas": -1}, "value must not be negative"},
		{"bad dependency", Attributes{"dependsOn": []any{"orders"}}, "malformed dependency reference"},
		{"env two refs", Attributes{"env": map[string]any{"X": map[string]any{
			"fieldRef":     map[string]any{"fieldPath": "a"},
			"secretKeyRef": map[string]any{"name": "b", "key": "c"},
		}}}, "expected exactly one of"},
		{"env unknown ref", Attributes{"env": map[string]any{"X": map[string]any{"volumeRef": "a"}}}, `unknown field "volumeRef"`},
		{"blank copy source", Attributes{"copyFiles": []any{map[string]any{"sourceFile": " ", "target": "/x"}}}, "source file cannot be blank"},
		{"blank copy target", Attributes{"copyFiles": []any{map[string]any{"sourceFile": "a.txt", "target": ""}}}, "target cannot be blank"},
		{"duplicate copy name", Attributes{"copyFiles": []any{
			map[string]any{"sourceFile": "a/app.conf", "target": "/etc/a"},
			map[string]any{"sourceFile": "b/app.conf", "target": "/etc/b"},
		}}, "a/app.conf and b/app.conf share the file name app.conf"},
		{"probe port zero", Attributes{"livenessProbe": map[string]any{"port": 0}}, "port must be between 1 and 65535: 0"},
		{"probe port too large", Attributes{"readinessProbe": map[string]any{"port": int64(70000)}}, "port must be between 1 and 65535: 70000"},
		{"recreate with surge", Attributes{"updateStrategy": map[string]any{"type": "Recreate", "maxSurge": "1"}}, "only apply to RollingUpdate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t)
			err := NewSet().Process(u, mainFunction, Deployment, tt.attrs)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, u.Deployment())
		})
	}
}

func TestDeploymentProcessorResolvesCopyFilesAgainstSourceRoot(t *testing.T) {
	u := newUnit(t)
	err := NewSet().Process(u, mainFunction, Deployment, Attributes{
		"copyFiles": []any{map[string]any{"sourceFile": "data/seed.csv", "target": "/home/app/seed.csv"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.CopyFile{{
		Source: filepath.Join(u.SourceRoot, "data/seed.csv"),
		Target: "/home/app/seed.csv",
	}}, u.Deployment().CopyFiles)
}

func TestWorkloadsAreExclusive(t *testing.T) {
	u := newUnit(t)
	set := NewSet()
	require.NoError(t, set.Process(u, mainFunction, Job, nil))

	err := set.Process(u, mainFunction, Deployment, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declares a job workload")

	err = set.Process(u, mainFunction, HPA, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "autoscaling is not supported")
}

func TestServiceProcessorDefaultsFromListener(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, helloListener, Service, Attributes{"serviceType": "NodePort"}))

	require.Len(t, u.Services(), 1)
	s := u.Services()[0]
	assert.Equal(t, "helloep-svc", s.Name)
	assert.Equal(t, "helloEP", s.Listener)
	assert.Equal(t, 9090, s.Port)
	assert.Equal(t, 9090, s.TargetPort)
	assert.Equal(t, model.ServiceTypeNodePort, s.ServiceType)
	assert.Equal(t, "hello", s.Selector)
}

func TestServiceProcessorRequiresListener(t *testing.T) {
	err := NewSet().Process(newUnit(t), mainFunction, Service, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported on listeners")
}

func TestServiceProcessorRequiresPort(t *testing.T) {
	err := NewSet().Process(newUnit(t), Entity{Kind: EntityListener, Name: "ep"}, Service, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to determine port")
}

func TestServiceProcessorPortRange(t *testing.T) {
	tests := []struct {
		name    string
		attrs   Attributes
		wantErr string
	}{
		{"zero port", Attributes{"port": 0}, "@kubernetes:Service{port}: port must be between 1 and 65535: 0"},
		{"port above 65535", Attributes{"port": int64(65536)}, "port must be between 1 and 65535: 65536"},
		{"port beyond int32", Attributes{"port": int64(4294967377)}, "unable to parse value: 4294967377"},
		{"zero target port", Attributes{"port": 80, "targetPort": 0}, "@kubernetes:Service{targetPort}: port must be between 1 and 65535: 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUnit(t)
			err := NewSet().Process(u, helloListener, Service, tt.attrs)
			require.Error(t, err)
			assert.ErrorIs(t, err, oerrors.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, u.Services())
		})
	}

	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, helloListener, Service, Attributes{"port": int64(65535), "targetPort": 1}))
	assert.Equal(t, 65535, u.Services()[0].Port)
	assert.Equal(t, 1, u.Services()[0].TargetPort)
}

func TestServiceProcessorKeepsDuplicates(t *testing.T) {
	u := newUnit(t)
	set := NewSet()
	require.NoError(t, set.Process(u, helloListener, Service, nil))
	require.NoError(t, set.Process(u, helloListener, Service, nil))
	assert.Len(t, u.Services(), 2)
}

func TestIngressProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, helloListener, Ingress, nil))

	require.Len(t, u.Ingresses(), 1)
	in := u.Ingresses()[0]
	assert.Equal(t, "helloep-ingress", in.Name)
	assert.Equal(t, "helloep.com", in.Hostname)
	assert.Equal(t, "/", in.Path)
	assert.Equal(t, model.DefaultIngressClass, in.IngressClass)

	u = newUnit(t)
	require.NoError(t, NewSet().Process(u, helloListener, Ingress, Attributes{"hostname": "abc.com", "path": "/hello"}))
	assert.Equal(t, "abc.com", u.Ingresses()[0].Hostname)
	assert.Equal(t, "/hello", u.Ingresses()[0].Path)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestSecretProcessor(t *testing.T) {
	u := newUnit(t)
	writeFile(t, u.SourceRoot, "secrets/key.pem", "KEY")
	writeFile(t, u.SourceRoot, "app.toml", "[db]\nhost=\"x\"\n")

	err := NewSet().Process(u, helloListener, Secret, Attributes{
		"secrets": []any{map[string]any{
			"name":      "Private_Key",
			"mountPath": "/home/app/secrets",
			"data":      []any{"secrets/key.pem"},
		}},
		"conf": "app.toml",
	})
	require.NoError(t, err)

	require.Len(t, u.Secrets(), 2)
	s := u.Secrets()[0]
	assert.Equal(t, "private-key", s.Name)
	assert.True(t, s.ReadOnly)
	assert.Equal(t, []byte("KEY"), s.Data["key.pem"])

	conf := u.Secrets()[1]
	assert.True(t, conf.ConfigFile)
	assert.Equal(t, ConfMountPath, conf.MountPath)
	assert.Len(t, conf.Data, 1)
	assert.True(t, u.ListenerHasSecrets("helloEP"))
}

func TestSecretProcessorMissingFile(t *testing.T) {
	err := NewSet().Process(newUnit(t), mainFunction, Secret, Attributes{
		"secrets": []any{map[string]any{"name": "a", "mountPath": "/etc/a", "data": []any{"missing.txt"}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read file missing.txt")
}

func TestConfigMapProcessorRejectsReservedMountPath(t *testing.T) {
	for _, mount := range []string{HomePath, RuntimePath, ConfMountPath, "/home/app/conf"} {
		t.Run(mount, func(t *testing.T) {
			u := newUnit(t)
			err := NewSet().Process(u, mainFunction, ConfigMap, Attributes{
				"configMaps": []any{map[string]any{"name": "cfg", "mountPath": mount}},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is reserved")
			assert.Empty(t, u.ConfigMaps())
		})
	}
}

func TestConfigMapProcessorDeduplicatesByName(t *testing.T) {
	u := newUnit(t)
	writeFile(t, u.SourceRoot, "a.properties", "a=1")
	attrs := Attributes{
		"configMaps": []any{map[string]any{"name": "cfg", "mountPath": "/etc/cfg", "data": []any{"a.properties"}, "defaultMode": 420}},
	}
	set := NewSet()
	require.NoError(t, set.Process(u, mainFunction, ConfigMap, attrs))
	require.NoError(t, set.Process(u, mainFunction, ConfigMap, attrs))

	require.Len(t, u.ConfigMaps(), 1)
	assert.Equal(t, "a=1", u.ConfigMaps()[0].Data["a.properties"])
	assert.Equal(t, 420, u.ConfigMaps()[0].DefaultMode)
}

func TestVolumeClaimProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, mainFunction, PersistentVolumeClaim, Attributes{
		"volumeClaims": []any{map[string]any{
			"name":            "data",
			"mountPath":       "/var/data",
			"volumeClaimSize": "2Gi",
			"accessMode":      "readwritemany",
		}},
	}))
	require.Len(t, u.VolumeClaims(), 1)
	c := u.VolumeClaims()[0]
	assert.Equal(t, "2Gi", c.Size.String())
	assert.Equal(t, "ReadWriteMany", c.AccessMode)

	err := NewSet().Process(newUnit(t), mainFunction, PersistentVolumeClaim, Attributes{
		"volumeClaims": []any{map[string]any{"name": "data", "mountPath": "/var/data", "volumeClaimSize": "lots"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse value: lots")
}

func TestJobProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, mainFunction, Job, Attributes{
		"schedule":     "*/5 * * * *",
		"nodeSelector": map[string]any{"disk": "ssd"},
	}))
	j := u.Job()
	require.NotNil(t, j)
	assert.Equal(t, "hello-job", j.Name)
	assert.True(t, j.IsCron())
	assert.Equal(t, model.RestartNever, j.RestartPolicy)
	assert.Equal(t, map[string]string{"disk": "ssd"}, j.NodeSelector)

	err := NewSet().Process(newUnit(t), helloListener, Job, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported on functions")

	err = NewSet().Process(newUnit(t), mainFunction, Job, Attributes{"restartPolicy": "Always"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restart policy Always")
}

func TestHPAProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, mainFunction, HPA, Attributes{"maxReplicas": 5}))
	a := u.Autoscaler()
	require.NotNil(t, a)
	assert.Equal(t, "hello-hpa", a.Name)
	assert.Equal(t, model.Unset, a.MinReplicas)
	assert.Equal(t, 5, a.MaxReplicas)
	assert.Equal(t, model.DefaultCPUPercentage, a.CPUPercentage)

	err := NewSet().Process(newUnit(t), mainFunction, HPA, Attributes{"minReplicas": 4, "maxReplicas": 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than maxReplicas")
}

func TestResourceQuotaProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, mainFunction, ResourceQuota, Attributes{
		"resourceQuotas": []any{map[string]any{
			"name":   "compute",
			"hard":   map[string]any{"cpu": "1000", "memory": "200Gi", "pods": 10},
			"scopes": []any{"besteffort"},
		}},
	}))
	require.Len(t, u.ResourceQuotas(), 1)
	q := u.ResourceQuotas()[0]
	assert.Equal(t, "10", q.Hard["pods"])
	assert.Equal(t, []string{"BestEffort"}, q.Scopes)

	err := NewSet().Process(newUnit(t), mainFunction, ResourceQuota, Attributes{
		"resourceQuotas": []any{map[string]any{"name": "compute", "hard": map[string]any{"cpu": "many"}}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resourceQuotas.hard.cpu")
}

func TestKnativeProcessor(t *testing.T) {
	u := newUnit(t)
	require.NoError(t, NewSet().Process(u, helloListener, KnativeService, Attributes{
		"port":     8080,
		"minScale": 1,
		"maxScale": 3,
	}))
	k := u.Knative()
	require.NotNil(t, k)
	assert.Equal(t, "hello-ksvc", k.Name)
	assert.Equal(t, 8080, k.Port)
	assert.Equal(t, registry.WorkloadKnative, u.Workload())

	err := NewSet().Process(newUnit(t), helloListener, KnativeService, Attributes{"minScale": 3, "maxScale": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "greater than maxScale")
}
