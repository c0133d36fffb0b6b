package handler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"

	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/registry"
)

// DockerDir is the build-context directory under the unit output directory.
const DockerDir = "docker"

// ImageHandler lays out the image build context from the descriptor the
// workload handler recorded, and builds it when requested.
type ImageHandler struct{}

func (ImageHandler) Name() string { return "docker:Image" }

func (ImageHandler) Applies(u *registry.Unit) bool { return u.HasWorkload() }

func (ImageHandler) CreateArtifacts(ctx context.Context, hc *Context) error {
	img := hc.Unit.Image()
	if img == nil {
		return oerrors.WrapArtifact("Dockerfile", oerrors.Wrap(oerrors.ErrNotFound, "no image descriptor was derived for the unit"))
	}

	dir := filepath.Join(hc.OutputDir, DockerDir)
	if err := os.MkdirAll(filepath.Join(dir, image.FilesDir), 0o755); err != nil {
		return ioError("Dockerfile", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(image.Dockerfile(img)), 0o644); err != nil {
		return ioError("Dockerfile", err)
	}
	if img.ArtifactPath != "" {
		if err := copyFile(img.ArtifactPath, filepath.Join(dir, filepath.Base(img.ArtifactPath))); err != nil {
			return ioError("Dockerfile", err)
		}
	}
	for _, f := range img.CopyFiles {
		if err := copyFile(f.Source, filepath.Join(dir, image.FilesDir, filepath.Base(f.Source))); err != nil {
			return ioError("Dockerfile", err)
		}
	}

	hc.Instructions.Image = img.Name
	hc.Instructions.DockerDir = dir

	if !img.Build {
		return nil
	}
	if hc.Builder == nil {
		hc.logger().Warn("image build requested but no builder is configured", "image", img.Name)
		return nil
	}
	if err := hc.Builder.Build(ctx, img, dir); err != nil {
		return oerrors.WrapArtifact(img.Name, err)
	}
	hc.Instructions.ImageBuilt = true
	hc.logger().Info("built image", "image", img.Name, "pushed", img.Push)
	return nil
}

// chart is the Chart.yaml document.
type chart struct {
	APIVersion  string `json:"apiVersion"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// ChartVersion is the version stamped on generated charts.
const ChartVersion = "0.1.0"

// HelmHandler packages the unit's documents as a Helm chart. It must run
// after every document handler.
type HelmHandler struct{}

func (HelmHandler) Name() string { return "helm:Chart" }

func (HelmHandler) Applies(u *registry.Unit) bool { return u.Deployment() != nil }

func (HelmHandler) CreateArtifacts(_ context.Context, hc *Context) error {
	name := hc.Unit.Name + "-deployment"
	dir := filepath.Join(hc.OutputDir, name)
	templates := filepath.Join(dir, "templates")
	if err := os.MkdirAll(templates, 0o755); err != nil {
		return ioError(name, err)
	}

	data, err := yaml.Marshal(chart{
		APIVersion:  "v2",
		Name:        name,
		Version:     ChartVersion,
		Description: fmt.Sprintf("Helm chart for %s", hc.Unit.Name),
	})
	if err != nil {
		return oerrors.WrapArtifact(name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Chart.yaml"), data, 0o644); err != nil {
		return ioError(name, err)
	}

	entries, err := os.ReadDir(hc.OutputDir)
	if err != nil {
		return ioError(name, err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		if err := copyFile(filepath.Join(hc.OutputDir, e.Name()), filepath.Join(templates, e.Name())); err != nil {
			return ioError(name, err)
		}
	}

	hc.Instructions.ChartName = name
	hc.Instructions.ChartDir = dir
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func ioError(artifact string, err error) error {
	return oerrors.WrapArtifact(artifact, fmt.Errorf("%w: %w", oerrors.ErrIO, err))
}
