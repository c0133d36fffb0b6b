// Package cmdtypes provides shared types for the cmd package and cmdutil.
// It is separate from internal/cmd to avoid import cycles.
package cmdtypes

import (
	"github.com/kubegen/cli/internal/config"
	oerrors "github.com/kubegen/cli/internal/errors"
)

// GlobalConfig holds CLI-wide configuration resolved during
// PersistentPreRunE. It is passed explicitly into every sub-command
// constructor.
type GlobalConfig struct {
	// Config is the parsed config file. Empty when no file exists.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// LoadErr records a config file that failed to load or validate.
	// Commands that depend on configuration surface it; the rest ignore it.
	LoadErr error

	// Timestamps is the --timestamps flag when it was given explicitly.
	Timestamps *bool

	// Verbose is the raw --verbose flag value.
	Verbose bool
}

// Exit codes, aliased from internal/errors.
const (
	ExitSuccess         = oerrors.ExitSuccess
	ExitGeneralError    = oerrors.ExitGeneralError
	ExitValidationError = oerrors.ExitValidationError
	ExitNotFound        = oerrors.ExitNotFound
)

// ExitError is a type alias to internal/errors.ExitError.
type ExitError = oerrors.ExitError
