package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubegen/cli/internal/annotation"
)

const helloYAML = `units:
  - name: hello
    artifact: target/hello
    entities:
      - kind: listener
        name: helloEP
        port: 9090
        annotations:
          kubernetes:Service:
            serviceType: NodePort
          kubernetes:Ingress:
            hostname: abc.com
            path: /hello
      - kind: service
        name: helloWorld
        annotations:
          kubernetes:Deployment:
            replicas: 2
            buildImage: false
            env:
              LOG_LEVEL: debug
              POD: { fieldRef: { fieldPath: metadata.name } }
            dependsOn: ["orders:ordersEP"]
            image: !expr imageName()
          kubernetes:HPA:
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseYAML(t *testing.T) {
	p, err := ParseYAML([]byte(helloYAML))
	require.NoError(t, err)
	require.Len(t, p.Units, 1)

	u := p.Units[0]
	assert.Equal(t, "hello", u.Name)
	assert.Equal(t, "target/hello", u.Artifact)
	require.Len(t, u.Entities, 2)
	assert.Equal(t, 4, u.AnnotationCount())

	ep := u.Entities[0]
	assert.Equal(t, annotation.EntityListener, ep.Kind)
	assert.Equal(t, 9090, ep.Port)
	require.Len(t, ep.Annotations, 2)
	assert.Equal(t, "kubernetes:Service", ep.Annotations[0].Name)
	assert.Equal(t, "kubernetes:Ingress", ep.Annotations[1].Name)
	assert.Equal(t, "abc.com", ep.Annotations[1].Attributes["hostname"])

	dep := u.Entities[1].Annotations[0].Attributes
	assert.Equal(t, int64(2), dep["replicas"])
	assert.Equal(t, false, dep["buildImage"])
	assert.Equal(t, []any{"orders:ordersEP"}, dep["dependsOn"])
	assert.Equal(t, annotation.Expression{Text: "imageName()"}, dep["image"])
	env := dep["env"].(map[string]any)
	assert.Equal(t, "debug", env["LOG_LEVEL"])
	assert.Equal(t, map[string]any{"fieldRef": map[string]any{"fieldPath": "metadata.name"}}, env["POD"])

	hpa := u.Entities[1].Annotations[1]
	assert.Equal(t, "kubernetes:HPA", hpa.Name)
	assert.Empty(t, hpa.Attributes)
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "malformed",
			doc:  "units: [",
			want: "parsing yaml",
		},
		{
			name: "annotations not a mapping",
			doc:  "units:\n  - name: a\n    entities:\n      - kind: listener\n        name: ep\n        annotations: [x]\n",
			want: "annotations must be a mapping",
		},
		{
			name: "attributes not a mapping",
			doc:  "units:\n  - name: a\n    entities:\n      - kind: listener\n        name: ep\n        annotations:\n          kubernetes:Service: 8080\n",
			want: "attributes must be a mapping",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseCUE(t *testing.T) {
	doc := `
units: [{
	name:     "hello"
	artifact: "target/hello"
	entities: [{
		kind: "listener"
		name: "helloEP"
		port: 9090
		annotations: {
			"kubernetes:Service": serviceType: "NodePort"
			"kubernetes:Ingress": {hostname: "abc.com", path: "/hello"}
		}
	}, {
		kind: "service"
		name: "helloWorld"
		annotations: "kubernetes:Deployment": {
			replicas: 2
			ratio:    0.5
			env: LOG_LEVEL: "debug"
			image: string
			imagePullPolicy: *"Always" | "IfNotPresent"
		}
	}]
}]
`
	p, err := ParseCUE("kubegen.cue", []byte(doc))
	require.NoError(t, err)
	require.Len(t, p.Units, 1)

	u := p.Units[0]
	require.Len(t, u.Entities, 2)
	ep := u.Entities[0]
	assert.Equal(t, 9090, ep.Port)
	require.Len(t, ep.Annotations, 2)
	assert.Equal(t, "kubernetes:Service", ep.Annotations[0].Name)
	assert.Equal(t, "NodePort", ep.Annotations[0].Attributes["serviceType"])
	assert.Equal(t, "/hello", ep.Annotations[1].Attributes["path"])

	dep := u.Entities[1].Annotations[0].Attributes
	assert.Equal(t, int64(2), dep["replicas"])
	assert.Equal(t, 0.5, dep["ratio"])
	assert.Equal(t, map[string]any{"LOG_LEVEL": "debug"}, dep["env"])
	assert.Equal(t, "Always", dep["imagePullPolicy"])
	assert.IsType(t, annotation.Expression{}, dep["image"])
}

func TestParseCUECompileError(t *testing.T) {
	_, err := ParseCUE("bad.cue", []byte("units: [{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling cue")
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "kubegen.yaml", helloYAML)

	p, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "kubegen.yaml"), p.Path)

	u := p.Units[0]
	assert.Equal(t, dir, u.SourceRoot)
	assert.Equal(t, filepath.Join(dir, "target", "hello"), u.Artifact)
}

func TestLoadCUEFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "project.cue", `units: [{name: "a", sourceRoot: "src", entities: []}]`)

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src"), p.Units[0].SourceRoot)
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		require.ErrorIs(t, err, ErrNoDescriptor)
	})

	tests := []struct {
		name string
		file string
		doc  string
		want string
	}{
		{name: "no units", file: "kubegen.yaml", doc: "units: []\n", want: "declares no units"},
		{name: "missing name", file: "kubegen.yaml", doc: "units:\n  - artifact: x\n", want: "name is required"},
		{name: "duplicate unit", file: "kubegen.yaml", doc: "units:\n  - name: a\n  - name: a\n", want: `duplicate unit "a"`},
		{
			name: "unknown entity kind",
			file: "kubegen.yaml",
			doc:  "units:\n  - name: a\n    entities:\n      - kind: resource\n        name: r\n",
			want: `unknown kind "resource"`,
		},
		{name: "unsupported extension", file: "kubegen.json", doc: "{}", want: "unsupported descriptor format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.doc)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
