package version

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/kubegen/cli/internal/image"
)

// dockerVersionRegex matches client versions like "27.3.1" or "v24.0.7-rc.1".
var dockerVersionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// DockerInfo describes the docker client used for image builds.
type DockerInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Message string `json:"message,omitempty"`
}

// LookPath resolves a binary in PATH. Replaced in tests.
var LookPath = exec.LookPath

// DetectDocker finds the docker client and asks it for its version.
func DetectDocker(ctx context.Context, runner image.CommandRunner) DockerInfo {
	path, err := LookPath("docker")
	if err != nil {
		return DockerInfo{Message: "docker binary not found in PATH"}
	}

	out, err := runner.RunCommand(ctx, image.RunOptions{}, "docker", "version", "--format", "{{.Client.Version}}")
	if err != nil {
		return DockerInfo{Found: true, Path: path, Message: "failed to get docker version: " + err.Error()}
	}

	v, err := extractVersion(out)
	if err != nil {
		return DockerInfo{Found: true, Path: path, Message: err.Error()}
	}
	return DockerInfo{Found: true, Path: path, Version: v}
}

// String returns a human-readable docker info string.
func (d DockerInfo) String() string {
	if !d.Found {
		return "  Docker:    not found"
	}
	if d.Version == "" {
		return fmt.Sprintf("  Docker:    %s (%s)", d.Path, d.Message)
	}
	return fmt.Sprintf("  Docker:    %s (%s)", d.Version, d.Path)
}

func extractVersion(out string) (string, error) {
	match := dockerVersionRegex.FindString(out)
	if match == "" {
		return "", fmt.Errorf("failed to parse docker version from output: %s", strings.TrimSpace(out))
	}
	return strings.TrimPrefix(match, "v"), nil
}
