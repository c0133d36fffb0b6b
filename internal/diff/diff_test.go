package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubegen/cli/internal/core"
)

func configMap(t *testing.T, name string, data map[string]string) *core.Resource {
	t.Helper()
	res, err := core.NewResource(&corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Data:       data,
	}, "hello", "config_map")
	require.NoError(t, err)
	return res
}

const existing = `apiVersion: v1
kind: ConfigMap
metadata:
  name: kept
  namespace: default
data:
  key: value
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: changed
  namespace: default
data:
  key: old
---
apiVersion: v1
kind: ConfigMap
metadata:
  name: stale
  namespace: default
`

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello_config_map.yaml"), []byte(existing), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docker"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docker", "ignored.yaml"), []byte("kind: Secret\n"), 0o644))

	desired := []*core.Resource{
		configMap(t, "kept", map[string]string{"key": "value"}),
		configMap(t, "changed", map[string]string{"key": "new"}),
		configMap(t, "fresh", nil),
	}

	report, err := Compare(desired, dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ConfigMap/default/fresh"}, report.Added)
	assert.Equal(t, []string{"ConfigMap/default/stale"}, report.Removed)
	require.Len(t, report.Modified, 1)
	assert.Equal(t, "ConfigMap/default/changed", report.Modified[0].Name)
	assert.Contains(t, report.Modified[0].Diff, "new")
}

func TestCompareMissingDirectory(t *testing.T) {
	report, err := Compare([]*core.Resource{configMap(t, "a", nil)}, filepath.Join(t.TempDir(), "none"), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ConfigMap/default/a"}, report.Added)
	assert.Empty(t, report.Removed)
}

func TestLoadDirRejectsInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("kind: [\n"), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestCompareIdenticalAfterRoundTrip(t *testing.T) {
	res := configMap(t, "same", map[string]string{"port": "9090"})
	data, err := serializeForDiff(res.Object)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.yaml"), data, 0o644))

	report, err := Compare([]*core.Resource{res}, dir, Options{})
	require.NoError(t, err)
	assert.True(t, report.Empty())
}
