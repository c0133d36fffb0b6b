package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/config"
	"github.com/kubegen/cli/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the kubegen CLI.`,
	}

	cmd.AddCommand(NewConfigInitCmd(gc))
	cmd.AddCommand(NewConfigVetCmd(gc))

	return cmd
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write a default configuration file.

The file is written to the resolved config path:
  --config flag > KUBEGEN_CONFIG env > ~/.kubegen/config.yaml

Examples:
  # Initialize configuration
  kubegen config init

  # Overwrite existing configuration
  kubegen config init --force`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			if err := config.WriteDefault(gc.ConfigPath, force); err != nil {
				return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err}
			}
			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration initialized at "+gc.ConfigPath))
			fmt.Fprintln(c.OutOrStdout(), "Validate with: kubegen config vet")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(gc *cmdtypes.GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the kubegen configuration file against its schema.

Examples:
  # Validate default configuration
  kubegen config vet

  # Validate custom config path
  kubegen config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return runConfigVet(c, gc)
		},
	}
}

func runConfigVet(c *cobra.Command, gc *cmdtypes.GlobalConfig) error {
	exists, err := config.ConfigFileExists(gc.ConfigPath)
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}
	if !exists {
		output.Error("configuration file not found", "path", gc.ConfigPath)
		output.Info("run 'kubegen config init' to create a default configuration")
		return &cmdtypes.ExitError{
			Code:    cmdtypes.ExitNotFound,
			Err:     fmt.Errorf("configuration file not found: %s", gc.ConfigPath),
			Printed: true,
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: err}
	}
	if err := validator.ValidateFile(gc.ConfigPath); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, e := range verrs {
				output.Error("invalid value", "field", e.Field, "error", e.Message)
			}
		} else {
			output.Error("invalid configuration", "error", err)
		}
		return &cmdtypes.ExitError{Code: cmdtypes.ExitValidationError, Err: err, Printed: true}
	}

	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+gc.ConfigPath))
	return nil
}
