package image

import (
	"context"
	"fmt"
	"strings"
)

// Docker wraps the docker CLI.
type Docker struct {
	runner   CommandRunner
	host     string
	certPath string
}

// NewDocker returns a Docker client talking to host (empty for the local
// daemon) with TLS material from certPath.
func NewDocker(runner CommandRunner, host, certPath string) *Docker {
	return &Docker{runner: runner, host: host, certPath: certPath}
}

func (d *Docker) opts() RunOptions {
	var env []string
	if d.host != "" {
		env = append(env, "DOCKER_HOST="+d.host)
	}
	if d.certPath != "" {
		env = append(env, "DOCKER_CERT_PATH="+d.certPath, "DOCKER_TLS_VERIFY=1")
	}
	return RunOptions{Env: env}
}

func (d *Docker) run(ctx context.Context, args ...string) (string, error) {
	out, err := d.runner.RunCommand(ctx, d.opts(), append([]string{"docker"}, args...)...)
	if err != nil {
		return out, fmt.Errorf("docker %s: %w: %s", args[0], err, strings.TrimSpace(out))
	}
	return out, nil
}

// ImageID returns the local image ID for tag, or "" when absent.
func (d *Docker) ImageID(ctx context.Context, tag string) (string, error) {
	out, err := d.run(ctx, "images", "-q", tag)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Build builds contextDir/Dockerfile and tags the result.
func (d *Docker) Build(ctx context.Context, tag, contextDir string) error {
	_, err := d.run(ctx, "build", "--force-rm", "-t", tag, contextDir)
	return err
}

// Login authenticates against registry. The password is passed on stdin.
func (d *Docker) Login(ctx context.Context, registry, username, password string) error {
	opts := d.opts()
	opts.Stdin = password
	args := []string{"docker", "login", "-u", username, "--password-stdin"}
	if registry != "" {
		args = append(args, registry)
	}
	out, err := d.runner.RunCommand(ctx, opts, args...)
	if err != nil {
		return fmt.Errorf("docker login: %w: %s", err, strings.TrimSpace(out))
	}
	return nil
}

// Push pushes tag to its registry.
func (d *Docker) Push(ctx context.Context, tag string) error {
	_, err := d.run(ctx, "push", tag)
	return err
}

// RemoveImage deletes a local image by ID.
func (d *Docker) RemoveImage(ctx context.Context, id string) error {
	_, err := d.run(ctx, "rmi", "-f", id)
	return err
}

// RegistryHost returns the registry part of an image reference, or "" for
// Docker Hub references.
func RegistryHost(image string) string {
	first, _, found := strings.Cut(image, "/")
	if !found {
		return ""
	}
	if strings.ContainsAny(first, ".:") || first == "localhost" {
		return first
	}
	return ""
}
