// Package testutil provides test helpers for CLI tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// HelloDescriptor is a single-unit project: one listener exposed through a
// Service and an Ingress, and a two-replica Deployment with an autoscaler.
const HelloDescriptor = `units:
  - name: hello
    artifact: target/hello
    entities:
      - kind: listener
        name: helloEP
        annotations:
          kubernetes:Service:
            port: 9090
          kubernetes:Ingress:
            hostname: abc.com
            path: /hello
      - kind: service
        name: helloWorld
        annotations:
          kubernetes:Deployment:
            replicas: 2
          kubernetes:HPA: {}
`

// TempDir creates a temporary directory for tests and returns a cleanup function.
func TempDir(t *testing.T) (string, func()) {
	t.Helper()
	dir, err := os.MkdirTemp("", "kubegen-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			t.Logf("warning: failed to remove temp dir %s: %v", dir, err)
		}
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteProject writes descriptor as kubegen.yaml into a fresh temporary
// directory together with the given data files, and returns the directory.
func WriteProject(t *testing.T, descriptor string, files map[string]string) string {
	t.Helper()
	dir, cleanup := TempDir(t)
	t.Cleanup(cleanup)

	WriteFile(t, dir, "kubegen.yaml", descriptor)
	for name, content := range files {
		WriteFile(t, dir, name, content)
	}
	return dir
}

// WriteHelloProject writes HelloDescriptor along with its compiled artifact.
func WriteHelloProject(t *testing.T) string {
	t.Helper()
	return WriteProject(t, HelloDescriptor, map[string]string{
		"target/hello": "#!/bin/sh\necho hello\n",
	})
}
