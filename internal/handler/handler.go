// Package handler composes Kubernetes documents and the image build context
// from a unit's finished models.
//
// Handlers run in a fixed order chosen by the pipeline. Besides writing
// documents they perform a few documented feedback writes into the models:
// Services add their target ports to the Deployment, and configuration-file
// Secrets and ConfigMaps add a command argument and an environment variable
// to the workload.
package handler

import (
	"context"

	"github.com/charmbracelet/log"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/registry"
)

// Artifact file suffixes.
const (
	ArtifactDeployment    = "deployment"
	ArtifactService       = "svc"
	ArtifactIngress       = "ingress"
	ArtifactSecret        = "secret"
	ArtifactConfigMap     = "config_map"
	ArtifactVolumeClaim   = "volume_claim"
	ArtifactHPA           = "hpa"
	ArtifactJob           = "job"
	ArtifactResourceQuota = "resource_quota"
	ArtifactKnative       = "knative_svc"
)

// Defaults are configuration-level values that annotations override.
type Defaults struct {
	Namespace      string
	Registry       string
	BaseImage      string
	BuildImage     bool
	DockerHost     string
	DockerCertPath string
}

// Context is the per-unit state shared by the handlers of one run.
type Context struct {
	Registry  *registry.Registry
	Unit      *registry.Unit
	Sink      output.Sink
	OutputDir string
	Defaults  Defaults

	// Builder builds images. Nil disables building even when requested.
	Builder image.Builder

	// Log is the unit-scoped logger.
	Log *log.Logger

	// Instructions is filled in as handlers run.
	Instructions output.Instructions
}

// Handler produces the artifacts of one kind.
type Handler interface {
	// Name is the label printed in progress lines, e.g. "kubernetes:Service".
	Name() string

	// Applies reports whether the unit has anything for this handler.
	Applies(u *registry.Unit) bool

	// CreateArtifacts composes and writes the artifacts.
	CreateArtifacts(ctx context.Context, hc *Context) error
}

// Namespace returns the unit's namespace, falling back to the configured one.
func (hc *Context) Namespace() string {
	if ns := hc.Unit.Namespace(); ns != "" {
		return ns
	}
	return hc.Defaults.Namespace
}

// objectMeta builds metadata for a model. The app and managed-by labels
// always carry the unit's values so selectors stay consistent.
func (hc *Context) objectMeta(m model.Meta) metav1.ObjectMeta {
	labels := make(map[string]string, len(m.Labels)+2)
	for k, v := range m.Labels {
		labels[k] = v
	}
	for k, v := range core.UnitLabels(hc.Unit.Name) {
		labels[k] = v
	}

	var annotations map[string]string
	if len(m.Annotations) > 0 {
		annotations = make(map[string]string, len(m.Annotations))
		for k, v := range m.Annotations {
			annotations[k] = v
		}
	}

	return metav1.ObjectMeta{
		Name:        m.Name,
		Namespace:   hc.Namespace(),
		Labels:      labels,
		Annotations: annotations,
	}
}

// emit converts obj into a Resource and hands it to the sink.
func (hc *Context) emit(obj runtime.Object, artifact string) error {
	res, err := core.NewResource(obj, hc.Unit.Name, artifact)
	if err != nil {
		return err
	}
	return hc.Sink.Write(res)
}

func (hc *Context) logger() *log.Logger {
	if hc.Log == nil {
		hc.Log = output.UnitLogger(hc.Unit.Name)
	}
	return hc.Log
}
