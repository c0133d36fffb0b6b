package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kubegen/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// Configuration keys.
const (
	KeyOutDir         = "outDir"
	KeyNamespace      = "namespace"
	KeyRegistry       = "registry"
	KeyBaseImage      = "baseImage"
	KeySingleYAML     = "singleYAML"
	KeyBuildImage     = "buildImage"
	KeyDockerHost     = "dockerHost"
	KeyDockerCertPath = "dockerCertPath"
	KeyLogTimestamps  = "log.timestamps"
)

// EnvName returns the environment variable overriding key, e.g.
// KUBEGEN_LOG_TIMESTAMPS for log.timestamps.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ResolvedValue records how one configuration value was resolved.
type ResolvedValue struct {
	Key    string
	Value  any
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// ResolvedConfig is the effective configuration of one invocation.
type ResolvedConfig struct {
	ConfigPath     string
	OutDir         string
	Namespace      string
	Registry       string
	BaseImage      string
	SingleYAML     bool
	BuildImage     bool
	DockerHost     string
	DockerCertPath string
	Timestamps     bool

	// Values lists every resolved key in a stable order.
	Values []ResolvedValue
}

// Flags carries command-line overrides. Nil means the flag was not given.
type Flags struct {
	OutDir     *string
	Namespace  *string
	Registry   *string
	BaseImage  *string
	SingleYAML *bool
	BuildImage *bool
	Timestamps *bool
}

// ResolveAllOptions contains options for full resolution.
type ResolveAllOptions struct {
	ConfigPath string
	Config     *Config
	Flags      Flags
}

// ResolveAll resolves every key using precedence:
// (1) flag, (2) KUBEGEN_* env, (3) config file, (4) built-in default.
func ResolveAll(opts ResolveAllOptions) (*ResolvedConfig, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &Config{}
	}
	defaults := DefaultConfig()
	rc := &ResolvedConfig{ConfigPath: opts.ConfigPath}

	strs := []struct {
		key  string
		flag *string
		cfg  string
		dst  *string
	}{
		{KeyOutDir, opts.Flags.OutDir, cfg.OutDir, &rc.OutDir},
		{KeyNamespace, opts.Flags.Namespace, cfg.Namespace, &rc.Namespace},
		{KeyRegistry, opts.Flags.Registry, cfg.Registry, &rc.Registry},
		{KeyBaseImage, opts.Flags.BaseImage, cfg.BaseImage, &rc.BaseImage},
		{KeyDockerHost, nil, cfg.DockerHost, &rc.DockerHost},
		{KeyDockerCertPath, nil, cfg.DockerCertPath, &rc.DockerCertPath},
	}
	for _, s := range strs {
		rv := resolveString(s.key, s.flag, s.cfg)
		*s.dst = rv.Value.(string)
		rc.Values = append(rc.Values, rv)
	}

	bools := []struct {
		key  string
		flag *bool
		cfg  *bool
		def  bool
		dst  *bool
	}{
		{KeySingleYAML, opts.Flags.SingleYAML, cfg.SingleYAML, *defaults.SingleYAML, &rc.SingleYAML},
		{KeyBuildImage, opts.Flags.BuildImage, cfg.BuildImage, *defaults.BuildImage, &rc.BuildImage},
		{KeyLogTimestamps, opts.Flags.Timestamps, cfg.Log.Timestamps, *defaults.Log.Timestamps, &rc.Timestamps},
	}
	for _, b := range bools {
		rv, err := resolveBool(b.key, b.flag, b.cfg, b.def)
		if err != nil {
			return nil, err
		}
		*b.dst = rv.Value.(bool)
		rc.Values = append(rc.Values, rv)
	}

	return rc, nil
}

func resolveString(key string, flag *string, cfg string) ResolvedValue {
	rv := ResolvedValue{Key: key, Value: "", Source: SourceDefault, Shadowed: make(map[ConfigSource]any)}
	env, envSet := os.LookupEnv(EnvName(key))

	// Resolve using precedence: flag > env > config
	switch {
	case flag != nil:
		rv.Value, rv.Source = *flag, SourceFlag
		if envSet {
			rv.Shadowed[SourceEnv] = env
		}
		if cfg != "" {
			rv.Shadowed[SourceConfig] = cfg
		}
	case envSet:
		rv.Value, rv.Source = env, SourceEnv
		if cfg != "" {
			rv.Shadowed[SourceConfig] = cfg
		}
	case cfg != "":
		rv.Value, rv.Source = cfg, SourceConfig
	}
	return rv
}

func resolveBool(key string, flag, cfg *bool, def bool) (ResolvedValue, error) {
	rv := ResolvedValue{Key: key, Value: def, Source: SourceDefault, Shadowed: make(map[ConfigSource]any)}

	var envVal *bool
	if raw, ok := os.LookupEnv(EnvName(key)); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return rv, fmt.Errorf("%s: invalid boolean %q", EnvName(key), raw)
		}
		envVal = &b
	}

	switch {
	case flag != nil:
		rv.Value, rv.Source = *flag, SourceFlag
		if envVal != nil {
			rv.Shadowed[SourceEnv] = *envVal
		}
		if cfg != nil {
			rv.Shadowed[SourceConfig] = *cfg
		}
	case envVal != nil:
		rv.Value, rv.Source = *envVal, SourceEnv
		if cfg != nil {
			rv.Shadowed[SourceConfig] = *cfg
		}
	case cfg != nil:
		rv.Value, rv.Source = *cfg, SourceConfig
	}
	return rv, nil
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) KUBEGEN_CONFIG env, (3) ~/.kubegen/config.yaml
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case opts.FlagValue != "":
		result.ConfigPath = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
