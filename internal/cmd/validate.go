package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/cmdutil"
	"github.com/kubegen/cli/internal/output"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd(_ *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check annotations and cross-unit dependencies",
		Long: `Process every annotation of a project and validate the dependency graph
across units without generating anything.

Checks performed:
  1. Every annotation name is known and every attribute parses
  2. Cross-references (Ingress to Service, listener secrets) resolve
  3. No cycle exists among the units' dependsOn references`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			reg, err := cmdutil.Validate(c.Context(), args)
			if err != nil {
				return err
			}

			rows := cmdutil.UnitRows(reg)
			out := c.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, output.RenderUnitTable(rows))
			}
			fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("%d unit(s) valid", len(rows))))
			return nil
		},
	}
}
