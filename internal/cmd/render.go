package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/cmdutil"
	"github.com/kubegen/cli/internal/config"
	"github.com/kubegen/cli/internal/output"
)

// NewRenderCmd creates the render command.
func NewRenderCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rf         cmdutil.RenderFlags
		outputFlag string
	)

	c := &cobra.Command{
		Use:   "render [path]",
		Short: "Print manifests to stdout",
		Long: `Render the Kubernetes manifests of every annotated unit to stdout.

Nothing is written to disk: no output directory, Docker build context or Helm
chart is produced and no image is built. Documents are ordered by apply weight.

Examples:
  # Render as multi-document YAML
  kubegen render ./services

  # Render as JSON
  kubegen render ./services -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var flags config.Flags
			rf.Apply(c, &flags)
			return runRender(c, args, gc, flags, outputFlag)
		},
	}

	rf.AddTo(c)
	c.Flags().StringVarP(&outputFlag, "output", "o", "yaml", "Output format: yaml, json")

	return c
}

func runRender(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, flags config.Flags, format string) error {
	outputFormat := output.ParseFormat(format)
	if !outputFormat.IsValid() {
		return &cmdtypes.ExitError{
			Code: cmdtypes.ExitGeneralError,
			Err:  fmt.Errorf("invalid output format %q (valid: yaml, json)", format),
		}
	}

	result, _, err := cmdutil.Generate(c.Context(), cmdutil.GenerateOpts{
		Args:          args,
		Config:        gc,
		Flags:         flags,
		ManifestsOnly: true,
	})
	if err != nil {
		return err
	}

	if err := output.WriteManifests(result.Resources(), output.ManifestOptions{
		Format: outputFormat,
		Writer: c.OutOrStdout(),
	}); err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("writing manifests: %w", err)}
	}
	return nil
}
