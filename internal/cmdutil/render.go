package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/config"
	oerrors "github.com/kubegen/cli/internal/errors"
	"github.com/kubegen/cli/internal/handler"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/output"
	"github.com/kubegen/cli/internal/pipeline"
	"github.com/kubegen/cli/internal/registry"
	"github.com/kubegen/cli/internal/source"
)

// ResolveProjectPath returns the project path from args, defaulting to the
// current directory.
func ResolveProjectPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// LoadProject loads the project descriptor named by args. A missing
// descriptor maps to ExitNotFound, a malformed one to ExitValidationError.
func LoadProject(args []string) (*source.Project, error) {
	path := ResolveProjectPath(args)
	project, err := source.Load(path)
	if err != nil {
		code := oerrors.ExitValidationError
		if errors.Is(err, source.ErrNoDescriptor) || errors.Is(err, fs.ErrNotExist) {
			code = oerrors.ExitNotFound
		}
		output.Error("loading project", "path", path, "error", err)
		return nil, &oerrors.ExitError{Code: code, Err: err, Printed: true}
	}
	output.Debug("project loaded", "descriptor", project.Path, "units", len(project.Units))
	return project, nil
}

// ResolveConfig resolves every configuration key against the loaded config
// file and the command's flags, then logs the result at debug level.
func ResolveConfig(gc *cmdtypes.GlobalConfig, flags config.Flags) (*config.ResolvedConfig, error) {
	if gc == nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("configuration not loaded")}
	}
	if gc.LoadErr != nil {
		output.Error("invalid configuration", "path", gc.ConfigPath, "error", gc.LoadErr)
		return nil, &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: gc.LoadErr, Printed: true}
	}
	if flags.Timestamps == nil {
		flags.Timestamps = gc.Timestamps
	}
	rc, err := config.ResolveAll(config.ResolveAllOptions{
		ConfigPath: gc.ConfigPath,
		Config:     gc.Config,
		Flags:      flags,
	})
	if err != nil {
		return nil, &oerrors.ExitError{Code: oerrors.ExitGeneralError, Err: fmt.Errorf("resolving config: %w", err)}
	}
	config.LogResolvedValues(rc.Values)
	return rc, nil
}

// Defaults converts resolved configuration into handler defaults.
func Defaults(rc *config.ResolvedConfig) handler.Defaults {
	return handler.Defaults{
		Namespace:      rc.Namespace,
		Registry:       rc.Registry,
		BaseImage:      rc.BaseImage,
		BuildImage:     rc.BuildImage,
		DockerHost:     rc.DockerHost,
		DockerCertPath: rc.DockerCertPath,
	}
}

// GenerateOpts holds the inputs for Generate.
type GenerateOpts struct {
	// Args from the cobra command (first arg is the project path).
	Args []string
	// Config is the CLI-wide configuration.
	Config *cmdtypes.GlobalConfig
	// Flags are the command-line overrides.
	Flags config.Flags
	// ManifestsOnly renders in memory without touching the output tree.
	ManifestsOnly bool
	// Builder builds images when a unit requests it.
	Builder image.Builder
	// Progress receives progress lines and instructions.
	Progress io.Writer
}

// Generate runs the shared preamble of generate, render and diff: it loads
// the project, resolves configuration and executes the pipeline. Failures
// are printed and returned as an *ExitError with Printed set.
func Generate(ctx context.Context, opts GenerateOpts) (*pipeline.Result, *config.ResolvedConfig, error) {
	rc, err := ResolveConfig(opts.Config, opts.Flags)
	if err != nil {
		return nil, nil, err
	}
	project, err := LoadProject(opts.Args)
	if err != nil {
		return nil, nil, err
	}

	popts := pipeline.Options{
		OutDir:        rc.OutDir,
		Defaults:      Defaults(rc),
		SingleYAML:    rc.SingleYAML,
		ManifestsOnly: opts.ManifestsOnly,
		Progress:      opts.Progress,
	}
	if !opts.ManifestsOnly {
		popts.Builder = opts.Builder
	}

	result, err := pipeline.NewPipeline().Generate(ctx, project, popts)
	if err != nil {
		return nil, nil, PrintGenerationError("generation failed", err)
	}
	return result, rc, nil
}

// Validate loads the project and runs annotation processing and dependency
// validation only.
func Validate(ctx context.Context, args []string) (*registry.Registry, error) {
	project, err := LoadProject(args)
	if err != nil {
		return nil, err
	}
	reg, err := pipeline.NewPipeline().Validate(ctx, project)
	if err != nil {
		return nil, PrintGenerationError("validation failed", err)
	}
	return reg, nil
}
