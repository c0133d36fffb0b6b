package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	got := stripAnsi(RenderFileTree("hello", map[string]string{
		"hello_svc.yaml":    "Service",
		"docker/Dockerfile": "image build context",
	}))

	assert.Contains(t, got, "hello/\n")
	assert.Contains(t, got, "├── docker/")
	assert.Contains(t, got, "│   └── Dockerfile")
	assert.Contains(t, got, "└── hello_svc.yaml")
	assert.Contains(t, got, "Service")
}

func TestRenderFileTreeEmpty(t *testing.T) {
	assert.Equal(t, "", RenderFileTree("hello", nil))
}

func TestDescribeArtifact(t *testing.T) {
	assert.Equal(t, "Service", DescribeArtifact("hello_svc.yaml"))
	assert.Equal(t, "Knative Service", DescribeArtifact("hello_knative_svc.yaml"))
	assert.Equal(t, "Helm chart", DescribeArtifact("Chart.yaml"))
	assert.Equal(t, "", DescribeArtifact("notes.txt"))
}
