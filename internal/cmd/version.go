package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show kubegen version information.

Displays:
  - kubegen version, commit and build date
  - CUE SDK version (embedded in the CLI)
  - docker client used for image builds`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			out := c.OutOrStdout()
			fmt.Fprintln(out, version.Get().String())
			fmt.Fprintln(out, version.DetectDocker(c.Context(), runner).String())
			return nil
		},
	}
}
