// Package config provides configuration loading and management.
package config

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" json:"timestamps,omitempty"`
}

// Config represents the kubegen configuration file.
// Loaded from ~/.kubegen/config.yaml. Every value can be overridden by a
// KUBEGEN_* environment variable or a flag, and every annotation value wins
// over the corresponding configured default.
type Config struct {
	// OutDir is the root output directory. Each unit writes to OutDir/<unit>.
	// Env: KUBEGEN_OUTDIR. Default: next to the unit's artifact.
	OutDir string `mapstructure:"outDir" json:"outDir,omitempty"`

	// Namespace is stamped on documents whose workload declares none.
	// Env: KUBEGEN_NAMESPACE
	Namespace string `mapstructure:"namespace" json:"namespace,omitempty"`

	// Registry prefixes image names that carry no registry of their own.
	// Env: KUBEGEN_REGISTRY
	Registry string `mapstructure:"registry" json:"registry,omitempty"`

	// BaseImage is the Dockerfile base image.
	// Env: KUBEGEN_BASEIMAGE
	BaseImage string `mapstructure:"baseImage" json:"baseImage,omitempty"`

	// SingleYAML writes all documents of a unit into one file.
	// Env: KUBEGEN_SINGLEYAML
	SingleYAML *bool `mapstructure:"singleYAML" json:"singleYAML,omitempty"`

	// BuildImage builds the image after generating the build context.
	// Env: KUBEGEN_BUILDIMAGE
	BuildImage *bool `mapstructure:"buildImage" json:"buildImage,omitempty"`

	// DockerHost and DockerCertPath configure the docker CLI.
	// Env: KUBEGEN_DOCKERHOST, KUBEGEN_DOCKERCERTPATH
	DockerHost     string `mapstructure:"dockerHost" json:"dockerHost,omitempty"`
	DockerCertPath string `mapstructure:"dockerCertPath" json:"dockerCertPath,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" json:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
func DefaultConfig() *Config {
	f := false
	t := true
	return &Config{
		SingleYAML: &f,
		BuildImage: &f,
		Log:        LogConfig{Timestamps: &t},
	}
}

// DefaultConfigTemplate is written by `kubegen config init`.
const DefaultConfigTemplate = `# kubegen configuration
#
# Every value can be overridden with a KUBEGEN_* environment variable
# (e.g. KUBEGEN_REGISTRY) or the matching command-line flag. Values declared
# on annotations always take precedence over these defaults.

# Root output directory. Each unit writes to <outDir>/<unit>.
# When empty, units write to <artifact dir>/kubernetes/<unit>.
outDir: ""

# Namespace stamped on documents whose workload declares none.
namespace: ""

# Registry prefix for image names, e.g. docker.io/acme.
registry: ""

# Base image of generated Dockerfiles.
baseImage: ""

# Write all documents of a unit into a single <unit>.yaml.
singleYAML: false

# Build the image with the docker CLI after generation.
buildImage: false

# Docker daemon settings.
dockerHost: ""
dockerCertPath: ""

log:
  timestamps: true
`
