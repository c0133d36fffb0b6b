// Package cmd provides CLI command implementations.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubegen/cli/internal/cmdtypes"
	"github.com/kubegen/cli/internal/config"
	"github.com/kubegen/cli/internal/output"
)

// NewRootCmd creates the root command for the kubegen CLI.
func NewRootCmd() *cobra.Command {
	var (
		configFlag     string
		verboseFlag    bool
		timestampsFlag bool
	)
	gc := &cmdtypes.GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "kubegen",
		Short: "Generate Kubernetes artifacts from annotated services",
		Long: `kubegen reads a project descriptor whose entities carry deployment
annotations and generates Kubernetes manifests, a Docker build context and a
Helm chart for every annotated unit.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			gc.Verbose = verboseFlag
			if cmd.Flags().Changed("timestamps") {
				gc.Timestamps = output.BoolPtr(timestampsFlag)
			}
			return initializeGlobals(gc, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: KUBEGEN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output (env: KUBEGEN_LOG_TIMESTAMPS)")

	rootCmd.AddCommand(NewGenerateCmd(gc))
	rootCmd.AddCommand(NewRenderCmd(gc))
	rootCmd.AddCommand(NewDiffCmd(gc))
	rootCmd.AddCommand(NewValidateCmd(gc))
	rootCmd.AddCommand(NewConfigCmd(gc))
	rootCmd.AddCommand(NewVersionCmd(gc))

	return rootCmd
}

// initializeGlobals loads and validates the config file, then sets up
// logging. Config problems are recorded on gc rather than returned so that
// commands which do not need configuration keep working.
func initializeGlobals(gc *cmdtypes.GlobalConfig, configFlag string) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return &cmdtypes.ExitError{Code: cmdtypes.ExitGeneralError, Err: fmt.Errorf("resolving config path: %w", err)}
	}
	gc.ConfigPath = pathResult.ConfigPath

	cfg, err := config.NewLoader().Load(gc.ConfigPath)
	if err != nil {
		gc.LoadErr = err
		cfg = &config.Config{}
	} else if validator, verr := config.NewValidator(); verr != nil {
		gc.LoadErr = verr
	} else if verr := validator.Validate(cfg); verr != nil {
		gc.LoadErr = verr
	}
	gc.Config = cfg

	logCfg := output.LogConfig{Verbose: gc.Verbose, Timestamps: gc.Timestamps}
	if logCfg.Timestamps == nil && gc.LoadErr == nil {
		if rc, err := config.ResolveAll(config.ResolveAllOptions{Config: cfg}); err == nil {
			logCfg.Timestamps = output.BoolPtr(rc.Timestamps)
		}
	}
	output.SetupLogging(logCfg)

	output.Debug("initializing CLI",
		"config", gc.ConfigPath,
		"source", pathResult.Source,
	)
	if gc.LoadErr != nil {
		output.Debug("config load error", "error", gc.LoadErr)
	}
	return nil
}
