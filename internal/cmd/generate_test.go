package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/testutil"
)

func TestGenerateCmd(t *testing.T) {
	dir := testutil.WriteHelloProject(t)
	out := t.TempDir()

	stdout, err := execute(t, "", "generate", dir, "--out-dir", out)
	require.NoError(t, err)

	unitDir := filepath.Join(out, "hello")
	assert.FileExists(t, filepath.Join(unitDir, "hello_deployment.yaml"))
	assert.FileExists(t, filepath.Join(unitDir, "docker", "Dockerfile"))
	assert.FileExists(t, filepath.Join(unitDir, "hello-deployment", "Chart.yaml"))

	assert.Contains(t, stdout, "Generating artifacts for hello")
	assert.Contains(t, stdout, "kubectl apply -f "+unitDir)
	assert.Contains(t, stdout, "Generated 1 unit(s)")
}

func TestGenerateCmd_SingleYAML(t *testing.T) {
	dir := testutil.WriteHelloProject(t)
	out := t.TempDir()

	_, err := execute(t, "", "generate", dir, "--out-dir", out, "--single-yaml")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(out, "hello", "hello.yaml"))
	assert.NoFileExists(t, filepath.Join(out, "hello", "hello_deployment.yaml"))
}

func TestGenerateCmd_NoDescriptor(t *testing.T) {
	_, err := execute(t, "", "generate", t.TempDir())
	requireExitCode(t, err, cmdtypes.ExitNotFound)
}

func TestGenerateCmd_InvalidConfigBlocks(t *testing.T) {
	dir := testutil.WriteHelloProject(t)
	cfg := testutil.WriteFile(t, t.TempDir(), "config.yaml", "namespace: Not_Valid\n")

	_, err := execute(t, cfg, "generate", dir, "--out-dir", t.TempDir())
	requireExitCode(t, err, cmdtypes.ExitValidationError)
}

func TestRenderCmd(t *testing.T) {
	dir := testutil.WriteHelloProject(t)

	t.Run("yaml", func(t *testing.T) {
		stdout, err := execute(t, "", "render", dir, "-n", "staging")
		require.NoError(t, err)

		assert.Contains(t, stdout, "kind: Service")
		assert.Contains(t, stdout, "kind: Deployment")
		assert.Contains(t, stdout, "namespace: staging")
		assert.NotContains(t, stdout, "Generating artifacts")
	})

	t.Run("json", func(t *testing.T) {
		stdout, err := execute(t, "", "render", dir, "-o", "json")
		require.NoError(t, err)

		var docs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &docs))
		assert.Len(t, docs, 4)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "", "render", dir, "-o", "toml")
		requireExitCode(t, err, cmdtypes.ExitGeneralError)
	})
}

func TestDiffCmd(t *testing.T) {
	dir := testutil.WriteHelloProject(t)
	out := t.TempDir()

	stdout, err := execute(t, "", "diff", dir, "--out-dir", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deployment")

	_, err = execute(t, "", "diff", dir, "--out-dir", out, "--exit-code")
	requireExitCode(t, err, cmdtypes.ExitGeneralError)

	_, err = execute(t, "", "generate", dir, "--out-dir", out)
	require.NoError(t, err)

	stdout, err = execute(t, "", "diff", dir, "--out-dir", out, "--exit-code")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes detected.")
}

func TestValidateCmd(t *testing.T) {
	dir := testutil.WriteHelloProject(t)

	stdout, err := execute(t, "", "validate", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "hello")
	assert.Contains(t, stdout, "abc.com/hello")
	assert.Contains(t, stdout, "1 unit(s) valid")
}

func TestValidateCmd_Cycle(t *testing.T) {
	dir := testutil.WriteProject(t, `units:
  - name: a
    entities:
      - kind: listener
        name: aEP
        port: 8080
        annotations:
          kubernetes:Service: {}
      - kind: service
        name: a
        annotations:
          kubernetes:Deployment:
            dependsOn: ["b:bEP"]
  - name: b
    entities:
      - kind: listener
        name: bEP
        port: 8081
        annotations:
          kubernetes:Service: {}
      - kind: service
        name: b
        annotations:
          kubernetes:Deployment:
            dependsOn: ["a:aEP"]
`, nil)

	_, err := execute(t, "", "validate", dir)
	requireExitCode(t, err, cmdtypes.ExitValidationError)
	assert.Contains(t, err.Error(), "cyclic dependencies")
}
