package cmdutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kubegen/cli/internal/dependency"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/pipeline"
	"github.com/kubegen/cli/internal/registry"
)

// PrintGenerationError prints a pipeline failure and returns it as a
// printed *ExitError whose code follows the error's sentinel.
func PrintGenerationError(msg string, err error) error {
	var genErr *oerrors.GenerationError
	if errors.As(err, &genErr) && genErr.Unit != "" {
		output.UnitLogger(genErr.Unit).Error(msg, "error", err)
	} else {
		output.Error(msg, "error", err)
	}
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}

// FileTree renders the manifest files written for a unit.
func FileTree(u pipeline.UnitResult) string {
	files := make(map[string]string, len(u.Files))
	for _, f := range u.Files {
		files[f] = output.DescribeArtifact(filepath.Base(f))
	}
	return output.RenderFileTree(u.OutputDir, files)
}

// UnitRows summarizes every unit with a workload for the validate table.
func UnitRows(reg *registry.Registry) []output.UnitRow {
	var rows []output.UnitRow
	for _, u := range reg.Units() {
		if !u.HasWorkload() {
			continue
		}

		var services, ingresses, deps []string
		for _, s := range u.Services() {
			services = append(services, fmt.Sprintf("%s:%d", s.Name, s.Port))
		}
		for _, in := range u.Ingresses() {
			ingresses = append(ingresses, in.Hostname+in.Path)
		}
		for _, ref := range dependency.DependsOn(u) {
			deps = append(deps, ref.String())
		}

		rows = append(rows, output.UnitRow{
			Unit:      u.Name,
			Workload:  u.Workload().String(),
			Services:  dash(strings.Join(services, ", ")),
			Ingresses: dash(strings.Join(ingresses, ", ")),
			DependsOn: dash(strings.Join(deps, ", ")),
		})
	}
	return rows
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
