package image

import (
	"context"
	"fmt"
	"sync"

	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/output"
)

// Builder produces an image from a prepared build context.
type Builder interface {
	Build(ctx context.Context, img *model.Image, contextDir string) error
}

// DockerBuilder builds and optionally pushes with the docker CLI.
type DockerBuilder struct {
	runner CommandRunner

	// cleanup tracks in-flight dangling image removals.
	cleanup sync.WaitGroup
}

var _ Builder = (*DockerBuilder)(nil)

// NewDockerBuilder returns a DockerBuilder using runner.
func NewDockerBuilder(runner CommandRunner) *DockerBuilder {
	return &DockerBuilder{runner: runner}
}

// Build implements Builder. When a previous image carried the same tag, it is
// removed in the background once the new one is built; that removal is best
// effort and only logged on failure.
func (b *DockerBuilder) Build(ctx context.Context, img *model.Image, contextDir string) error {
	docker := NewDocker(b.runner, img.DockerHost, img.DockerCertPath)

	previous, err := docker.ImageID(ctx, img.Name)
	if err != nil {
		return fmt.Errorf("inspecting image %s: %w", img.Name, err)
	}

	err = output.RunWithSpinner(ctx, func(ctx context.Context) error {
		return docker.Build(ctx, img.Name, contextDir)
	}, output.WithTitle("Building image "+img.Name))
	if err != nil {
		return err
	}

	if previous != "" {
		current, err := docker.ImageID(ctx, img.Name)
		if err == nil && current != previous {
			b.cleanup.Add(1)
			go func() {
				defer b.cleanup.Done()
				if err := docker.RemoveImage(context.Background(), previous); err != nil {
					output.Warn("unable to remove dangling image", "id", previous, "err", err)
				}
			}()
		}
	}

	if !img.Push {
		return nil
	}
	if img.Username != "" {
		if err := docker.Login(ctx, RegistryHost(img.Name), img.Username, img.Password); err != nil {
			return err
		}
	}
	return output.RunWithSpinner(ctx, func(ctx context.Context) error {
		return docker.Push(ctx, img.Name)
	}, output.WithTitle("Pushing image "+img.Name))
}

// Wait blocks until background cleanups started by Build finish.
func (b *DockerBuilder) Wait() {
	b.cleanup.Wait()
}
