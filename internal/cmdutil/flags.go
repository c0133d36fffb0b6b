// Package cmdutil provides shared command utilities. It centralizes flag
// group management, pipeline orchestration and output formatting helpers.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/config"
)

// RenderFlags holds flags common to every command that runs the pipeline
// (generate, render, diff, validate).
type RenderFlags struct {
	Namespace string
	Registry  string
	BaseImage string
}

// AddTo registers the render flags on the given cobra command.
func (f *RenderFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Namespace, "namespace", "n", "",
		"Default namespace for units that declare none (env: KUBEGEN_NAMESPACE)")
	cmd.Flags().StringVar(&f.Registry, "registry", "",
		"Default image registry prefix (env: KUBEGEN_REGISTRY)")
	cmd.Flags().StringVar(&f.BaseImage, "base-image", "",
		"Default Dockerfile base image (env: KUBEGEN_BASEIMAGE)")
}

// Apply copies the flags the user set on cmd into flags.
func (f *RenderFlags) Apply(cmd *cobra.Command, flags *config.Flags) {
	flags.Namespace = changedString(cmd, "namespace", f.Namespace)
	flags.Registry = changedString(cmd, "registry", f.Registry)
	flags.BaseImage = changedString(cmd, "base-image", f.BaseImage)
}

// OutputFlags holds flags for commands that read or write the output tree
// (generate, diff).
type OutputFlags struct {
	OutDir     string
	SingleYAML bool
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.OutDir, "out-dir", "",
		"Root output directory; units write to <out-dir>/<unit> (env: KUBEGEN_OUTDIR)")
	cmd.Flags().BoolVar(&f.SingleYAML, "single-yaml", false,
		"Write one YAML file per unit (env: KUBEGEN_SINGLEYAML)")
}

// Apply copies the flags the user set on cmd into flags.
func (f *OutputFlags) Apply(cmd *cobra.Command, flags *config.Flags) {
	flags.OutDir = changedString(cmd, "out-dir", f.OutDir)
	flags.SingleYAML = changedBool(cmd, "single-yaml", f.SingleYAML)
}

func changedString(cmd *cobra.Command, name, value string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}

func changedBool(cmd *cobra.Command, name string, value bool) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &value
}
