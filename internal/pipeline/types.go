// Package pipeline orchestrates generation: it registers every unit of a
// project, runs the annotation processors, validates dependencies across
// units and then drives each unit's artifact handlers.
package pipeline

import (
	"context"
	"errors"
	"io"

	"github.com/kubegen/cli/internal/core"
	"github.com/kubegen/cli/internal/handler"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/registry"
	"github.com/kubegen/cli/internal/source"
)

// Pipeline defines the contract for generation runs.
type Pipeline interface {
	// Validate processes annotations and checks dependencies without
	// generating anything.
	Validate(ctx context.Context, project *source.Project) (*registry.Registry, error)

	// Generate runs the full pipeline. The first failing unit aborts the run
	// and its output directory is removed.
	Generate(ctx context.Context, project *source.Project, opts Options) (*Result, error)
}

// Options configures a generation run.
type Options struct {
	// OutDir is the root output directory; each unit writes to OutDir/<unit>.
	// When empty, units write next to their artifact under kubernetes/<unit>.
	OutDir string

	// Defaults are configuration-level values annotations override.
	Defaults handler.Defaults

	// SingleYAML forces one file per unit.
	SingleYAML bool

	// ManifestsOnly keeps documents in memory and skips the image and chart
	// handlers. Nothing is written to disk.
	ManifestsOnly bool

	// Builder builds images when a workload requests it.
	Builder image.Builder

	// Progress receives the per-unit progress lines and instructions.
	// Nil discards them.
	Progress io.Writer
}

// Validate checks that the options are consistent.
func (o Options) Validate() error {
	if o.ManifestsOnly && o.Builder != nil {
		return errors.New("an image builder cannot be used when only rendering manifests")
	}
	return nil
}

// Result is the output of a generation run.
type Result struct {
	// Units in registration order. Units without annotations are omitted.
	Units []UnitResult
}

// Resources returns every generated resource across units.
func (r *Result) Resources() []*core.Resource {
	var out []*core.Resource
	for _, u := range r.Units {
		out = append(out, u.Resources...)
	}
	return out
}

// UnitResult describes one generated unit.
type UnitResult struct {
	Name string

	// OutputDir is where the unit's files are written. In manifests-only
	// runs it is computed but never created.
	OutputDir string

	// Files are the written manifest files, relative to OutputDir.
	Files []string

	// Resources are the generated documents.
	Resources []*core.Resource

	// Steps is the number of handlers that ran.
	Steps int

	Instructions output.Instructions
}
