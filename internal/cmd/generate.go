package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/cmdutil"
	"github.com/kubegen/cli/internal/config"
	"github.com/kubegen/cli/internal/image"
	"github.com/kubegen/cli/internal/output"
)

// runner executes docker. Replaced in tests.
var runner image.CommandRunner = image.ExecRunner{}

// NewGenerateCmd creates the generate command.
func NewGenerateCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var (
		rf        cmdutil.RenderFlags
		of        cmdutil.OutputFlags
		buildFlag bool
	)

	c := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate manifests, image build context and Helm chart",
		Long: `Generate the Kubernetes artifacts of every annotated unit in a project.

For each unit the output directory receives one YAML file per document (or a
single YAML file with --single-yaml), a docker/ build context holding the
Dockerfile and the compiled artifact, and a <unit>-deployment/ Helm chart.
A unit that fails leaves no output directory behind.

Arguments:
  path    Project directory or descriptor file (default: current directory)

Examples:
  # Generate next to each unit's artifact
  kubegen generate

  # Generate into ./deploy/<unit> and build images
  kubegen generate ./services --out-dir ./deploy --build-image`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			var flags config.Flags
			rf.Apply(c, &flags)
			of.Apply(c, &flags)
			if c.Flags().Changed("build-image") {
				flags.BuildImage = &buildFlag
			}
			return runGenerate(c, args, gc, flags)
		},
	}

	rf.AddTo(c)
	of.AddTo(c)
	c.Flags().BoolVar(&buildFlag, "build-image", false,
		"Build the docker image of every workload (env: KUBEGEN_BUILDIMAGE)")

	return c
}

func runGenerate(c *cobra.Command, args []string, gc *cmdtypes.GlobalConfig, flags config.Flags) error {
	builder := image.NewDockerBuilder(runner)
	defer builder.Wait()

	out := c.OutOrStdout()
	result, _, err := cmdutil.Generate(c.Context(), cmdutil.GenerateOpts{
		Args:     args,
		Config:   gc,
		Flags:    flags,
		Builder:  builder,
		Progress: out,
	})
	if err != nil {
		return err
	}

	if len(result.Units) == 0 {
		output.Warn("no annotated units found", "path", cmdutil.ResolveProjectPath(args))
		return nil
	}

	for _, u := range result.Units {
		output.UnitLogger(u.Name).Info(fmt.Sprintf("generated %d resources", len(u.Resources)), "dir", u.OutputDir)
		if gc.Verbose {
			fmt.Fprintln(out, cmdutil.FileTree(u))
		}
	}
	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Generated %d unit(s)", len(result.Units))))
	return nil
}
