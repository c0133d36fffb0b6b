package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name  string
		cfg   *Config
		field string
	}{
		{name: "defaults", cfg: DefaultConfig()},
		{name: "full", cfg: &Config{Namespace: "shop", Registry: "docker.io/acme", DockerHost: "unix:///var/run/docker.sock"}},
		{name: "bad namespace", cfg: &Config{Namespace: "Shop_1"}, field: "namespace"},
		{name: "bad docker host", cfg: &Config{DockerHost: "localhost:2375"}, field: "dockerHost"},
		{name: "base image with spaces", cfg: &Config{BaseImage: "debian bookworm"}, field: "baseImage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.cfg)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.NotEmpty(t, errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidateFile(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: UPPER\n"), 0o644))
	require.Error(t, v.ValidateFile(path))

	require.NoError(t, os.WriteFile(path, []byte(DefaultConfigTemplate), 0o644))
	require.NoError(t, v.ValidateFile(path))
}
