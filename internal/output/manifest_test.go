package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubegen/cli/internal/core"
)

func TestWriteManifestsSortsByWeight(t *testing.T) {
	dep := core.NewUnstructuredResource(&unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "apps/v1", "kind": "Deployment", "metadata": map[string]any{"name": "hello-deployment"},
	}}, "hello", "deployment")
	svc := testResource("Service", "hello-svc", "svc")

	var buf bytes.Buffer
	require.NoError(t, WriteManifests([]*core.Resource{dep, svc}, ManifestOptions{Format: FormatYAML, Writer: &buf}))

	out := buf.String()
	assert.Less(t, strings.Index(out, "kind: Service"), strings.Index(out, "kind: Deployment"))
	assert.Contains(t, out, "---")
}

func TestWriteManifestsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifests([]*core.Resource{testResource("Secret", "creds", "secret")},
		ManifestOptions{Format: FormatJSON, Writer: &buf}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Secret", decoded[0]["kind"])
}

func TestWriteManifestsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteManifests(nil, ManifestOptions{Writer: &buf}))
	assert.Empty(t, buf.String())
}

func TestWriteManifestsRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteManifests([]*core.Resource{testResource("Secret", "creds", "secret")},
		ManifestOptions{Format: Format("table"), Writer: &buf})
	assert.Error(t, err)
}
