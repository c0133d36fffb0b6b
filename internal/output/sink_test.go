package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubegen/cli/internal/core"
)

func testResource(kind, name, artifact string) *core.Resource {
	obj := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "v1",
		"kind":       kind,
		"metadata":   map[string]any{"name": name},
	}}
	return core.NewUnstructuredResource(obj, "hello", artifact)
}

func TestFileSinkWritesOneFilePerArtifact(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, false)

	require.NoError(t, sink.Write(testResource("Service", "a-svc", "svc")))
	require.NoError(t, sink.Write(testResource("Service", "b-svc", "svc")))
	require.NoError(t, sink.Write(testResource("Secret", "creds", "secret")))

	assert.Equal(t, []string{"hello_svc.yaml", "hello_secret.yaml"}, sink.Files())

	data, err := os.ReadFile(filepath.Join(dir, "hello_svc.yaml"))
	require.NoError(t, err)
	docs := strings.Split(string(data), "---\n")
	require.Len(t, docs, 2)
	assert.Contains(t, docs[0], "name: a-svc")
	assert.Contains(t, docs[1], "name: b-svc")
}

func TestFileSinkSingleYAML(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, true)

	require.NoError(t, sink.Write(testResource("Service", "a-svc", "svc")))
	require.NoError(t, sink.Write(testResource("Secret", "creds", "secret")))

	assert.Equal(t, []string{"hello.yaml"}, sink.Files())
	data, err := os.ReadFile(filepath.Join(dir, "hello.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "---\n"))
	assert.Less(t, strings.Index(string(data), "kind: Service"), strings.Index(string(data), "kind: Secret"),
		"documents keep generation order")
}

func TestMemorySink(t *testing.T) {
	var sink MemorySink
	require.NoError(t, sink.Write(testResource("Service", "a-svc", "svc")))
	require.Len(t, sink.Resources(), 1)
	assert.Equal(t, "a-svc", sink.Resources()[0].Name())
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a-b-c", sanitizeName("a/b:c"))
	assert.Equal(t, "ab", sanitizeName(`"a<b>"`))
}
