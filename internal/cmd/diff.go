package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/cmdutil"
	"github.com/kubegen/cli/internal/config"
	"github.com/kubegen/cli/internal/diff"
	"github.com/kubegen/cli/internal/output"
)

// errChangesDetected is returned by diff --exit-code when output would change.
var errChangesDetected = errors.New("generated manifests differ from the output directory")

// NewDiffCmd creates the diff command.
func NewDiffCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rf           cmdutil.RenderFlags
		of           cmdutil.OutputFlags
		exitCodeFlag bool
	)

	c := &cobra.Command{
		Use:   "diff [path]",
		Short: "Compare freshly rendered manifests with the output directory",
		Long: `Render every annotated unit in memory and compare the documents with the
YAML already present in the unit's output directory.

Documents are matched by kind, namespace and name and reported as added,
removed or modified, with a field-level diff for modified ones.

Examples:
  # Show what the next generate would change
  kubegen diff ./services --out-dir ./deploy

  # Fail in CI when generated output is stale
  kubegen diff ./services --out-dir ./deploy --exit-code`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var flags config.Flags
			rf.Apply(c, &flags)
			of.Apply(c, &flags)
			return runDiff(c, args, gc, flags, exitCodeFlag)
		},
	}

	rf.AddTo(c)
	of.AddTo(c)
	c.Flags().BoolVar(&exitCodeFlag, "exit-code", false, "Exit with status 1 when differences are found")

	return c
}

func runDiff(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, flags config.Flags, exitCode bool) error {
	result, _, err := cmdutil.Generate(c.Context(), cmdutil.GenerateOpts{
		Args:          args,
		Config:        gc,
		Flags:         flags,
		ManifestsOnly: true,
	})
	if err != nil {
		return err
	}

	useColor := output.IsTTY()
	styles := output.NoColorStyles()
	if useColor {
		styles = output.GetStyles()
	}

	out := c.OutOrStdout()
	changed := false
	for _, u := range result.Units {
		report, err := diff.Compare(u.Resources, u.OutputDir, diff.Options{UseColor: useColor})
		if err != nil {
			return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("%s: %w", u.Name, err)}
		}
		changed = changed || !report.Empty()

		fmt.Fprintf(out, "%s (%s)\n", output.StyleNoun.Render(u.Name), u.OutputDir)
		fmt.Fprintln(out, output.IndentDiff(output.RenderDiff(report, styles), "  "))
	}

	if changed && exitCode {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: errChangesDetected}
	}
	return nil
}
