package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kubegen/cli/internal/annotation"
	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/dependency"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/handler"
	"github.com/kubegen/cli/internal/model"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/registry"
	"github.com/kubegen/cli/internal/source"
)

// KubernetesDir is the directory created next to a unit's artifact when no
// output directory is configured.
const KubernetesDir = "kubernetes"

// Handler sequences per workload kind. Feedback writes flow forward: Services
// add ports and configuration files add arguments before the workload
// handler reads them, and the chart is packaged last.
var (
	jobPath = []handler.Handler{
		handler.JobHandler{},
		handler.ImageHandler{},
	}
	workloadPath = []handler.Handler{
		handler.ServiceHandler{},
		handler.IngressHandler{},
		handler.SecretHandler{},
		handler.VolumeClaimHandler{},
		handler.ResourceQuotaHandler{},
		handler.ConfigMapHandler{},
		handler.DeploymentHandler{},
		handler.HPAHandler{},
		handler.ImageHandler{},
		handler.HelmHandler{},
	}
	knativePath = []handler.Handler{
		handler.SecretHandler{},
		handler.ConfigMapHandler{},
		handler.KnativeHandler{},
		handler.ImageHandler{},
	}
)

// pipeline implements the Pipeline interface.
type pipeline struct {
	processors *annotation.Set
}

// NewPipeline creates a Pipeline with every built-in annotation processor.
func NewPipeline() Pipeline {
	return &pipeline{processors: annotation.NewSet()}
}

// Validate runs phases 1 and 2 only.
func (p *pipeline) Validate(ctx context.Context, project *source.Project) (*registry.Registry, error) {
	reg, _, err := p.prepare(ctx, project)
	return reg, err
}

// Generate executes the pipeline.
//
// Phase sequence:
//  1. PROCESS:   every annotation of every unit → registry models
//  2. VALIDATE:  dependency.ValidateUnits over all units (barrier)
//  3. GENERATE:  per unit, the handler path selected by its workload kind
func (p *pipeline) Generate(ctx context.Context, project *source.Project, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}

	reg, active, err := p.prepare(ctx, project)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, u := range reg.Units() {
		if !active[u.ID] {
			output.Debug("skipping unit without annotations", "unit", u.Name)
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ur, err := p.generateUnit(ctx, reg, u, opts)
		if err != nil {
			return nil, err
		}
		result.Units = append(result.Units, *ur)
	}
	return result, nil
}

// prepare registers every unit and processes its annotations, then
// validates dependencies once all units are known. The returned set holds
// the IDs of units that carried at least one annotation.
func (p *pipeline) prepare(ctx context.Context, project *source.Project) (*registry.Registry, map[string]bool, error) {
	reg := registry.New()
	active := make(map[string]bool, len(project.Units))

	// Phase 1: PROCESS
	for _, su := range project.Units {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		u := reg.Register(su.Name)
		u.SourceRoot = su.SourceRoot
		u.ArtifactPath = su.Artifact
		active[u.ID] = su.AnnotationCount() > 0

		for _, e := range su.Entities {
			for _, a := range e.Annotations {
				if err := p.processors.Process(u, e.Entity, a.Name, a.Attributes); err != nil {
					return nil, nil, oerrors.WrapUnit(u.Name, err)
				}
			}
		}
		output.Debug("processed unit", "unit", u.Name, "annotations", su.AnnotationCount())
	}

	// Phase 2: VALIDATE
	if err := dependency.ValidateUnits(reg, dependency.NewGraph()); err != nil {
		return nil, nil, err
	}
	return reg, active, nil
}

// handlersFor returns the handler path for the unit's workload kind.
func handlersFor(u *registry.Unit, manifestsOnly bool) []handler.Handler {
	var path []handler.Handler
	switch u.Workload() {
	case registry.WorkloadJob:
		path = jobPath
	case registry.WorkloadKnative:
		path = knativePath
	default:
		u.EnsureDeployment()
		path = workloadPath
	}

	out := make([]handler.Handler, 0, len(path))
	for _, h := range path {
		if manifestsOnly && writesFiles(h) {
			continue
		}
		if h.Applies(u) {
			out = append(out, h)
		}
	}
	return out
}

func writesFiles(h handler.Handler) bool {
	switch h.(type) {
	case handler.ImageHandler, handler.HelmHandler:
		return true
	}
	return false
}

// warnIgnored reports annotations the unit's handler path never reads.
func warnIgnored(u *registry.Unit) {
	if u.Workload() == registry.WorkloadDeployment {
		return
	}
	ignored := map[string]bool{
		annotation.Service:               len(u.Services()) > 0,
		annotation.Ingress:               len(u.Ingresses()) > 0,
		annotation.PersistentVolumeClaim: len(u.VolumeClaims()) > 0,
		annotation.ResourceQuota:         len(u.ResourceQuotas()) > 0,
	}
	if u.Workload() == registry.WorkloadJob {
		ignored[annotation.Secret] = len(u.Secrets()) > 0
		ignored[annotation.ConfigMap] = len(u.ConfigMaps()) > 0
	}
	for _, name := range model.SortedKeys(ignored) {
		if ignored[name] {
			output.UnitLogger(u.Name).Warn("annotation not used by this workload", "annotation", name, "workload", u.Workload().String())
		}
	}
}

// outputDir resolves where the unit writes its files.
func outputDir(u *registry.Unit, opts Options) string {
	if opts.OutDir != "" {
		return filepath.Join(opts.OutDir, u.Name)
	}
	base := "."
	if u.ArtifactPath != "" {
		base = filepath.Dir(u.ArtifactPath)
	}
	return filepath.Join(base, KubernetesDir, u.Name)
}

// generateUnit runs phase 3 for one unit.
func (p *pipeline) generateUnit(ctx context.Context, reg *registry.Registry, u *registry.Unit, opts Options) (_ *UnitResult, err error) {
	handlers := handlersFor(u, opts.ManifestsOnly)
	warnIgnored(u)

	dir := outputDir(u, opts)
	u.OutputDir = dir
	ur := &UnitResult{Name: u.Name, OutputDir: dir}
	mem := &output.MemorySink{}
	var files *output.FileSink
	var sink output.Sink = mem

	if !opts.ManifestsOnly {
		if err := os.RemoveAll(dir); err != nil {
			return nil, oerrors.WrapUnit(u.Name, fmt.Errorf("%w: cleaning %s: %w", oerrors.ErrIO, dir, err))
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, oerrors.WrapUnit(u.Name, fmt.Errorf("%w: creating %s: %w", oerrors.ErrIO, dir, err))
		}
		defer func() {
			if err != nil {
				if rmErr := os.RemoveAll(dir); rmErr != nil {
					output.Warn("unable to remove output directory", "dir", dir, "err", rmErr)
				}
			}
		}()
		files = output.NewFileSink(dir, opts.SingleYAML || u.SingleYAML())
		sink = teeSink{files, mem}
	}

	hc := &handler.Context{
		Registry:  reg,
		Unit:      u,
		Sink:      sink,
		OutputDir: ur.OutputDir,
		Defaults:  opts.Defaults,
		Builder:   opts.Builder,
		Log:       output.UnitLogger(u.Name),
	}
	hc.Instructions.OutputDir = ur.OutputDir

	fmt.Fprintf(opts.Progress, "\nGenerating artifacts for %s\n\n", u.Name)
	progress := output.NewProgress(opts.Progress, len(handlers))
	for _, h := range handlers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := h.CreateArtifacts(ctx, hc); err != nil {
			return nil, oerrors.WrapUnit(u.Name, err)
		}
		progress.Complete(h.Name())
	}

	ur.Steps = progress.Done()
	ur.Resources = mem.Resources()
	ur.Instructions = hc.Instructions
	if files != nil {
		ur.Files = files.Files()
		fmt.Fprint(opts.Progress, hc.Instructions.String())
	}
	return ur, nil
}

// teeSink writes to every sink in order.
type teeSink []output.Sink

func (t teeSink) Write(res *core.Resource) error {
	for _, s := range t {
		if err := s.Write(res); err != nil {
			return err
		}
	}
	return nil
}
