package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(cfg LogConfig) *bytes.Buffer {
	var buf bytes.Buffer
	cfg.Writer = &buf
	SetupLogging(cfg)
	return &buf
}

var timestampPrefix = `^\d{2}:\d{2}:\d{2}`

func TestSetupLogging_Timestamps(t *testing.T) {
	tests := []struct {
		name string
		cfg  LogConfig
		want bool
	}{
		{name: "default on", cfg: LogConfig{}, want: true},
		{name: "disabled", cfg: LogConfig{Timestamps: BoolPtr(false)}, want: false},
		{name: "verbose overrides disabled", cfg: LogConfig{Verbose: true, Timestamps: BoolPtr(false)}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(tt.cfg)
			Info("generated", "unit", "hello")

			out := strings.TrimSpace(buf.String())
			assert.Contains(t, out, "generated")
			if tt.want {
				assert.Regexp(t, timestampPrefix, out)
			} else {
				assert.NotRegexp(t, timestampPrefix, out)
			}
		})
	}
}

func TestSetupLogging_VerboseShowsDebug(t *testing.T) {
	buf := captureLog(LogConfig{Verbose: true})
	Debug("config value resolved", "key", "registry")
	assert.Contains(t, buf.String(), "config value resolved")

	buf = captureLog(LogConfig{})
	Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestSetupLogging_VerboseEnablesDebugLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, logger.GetLevel(), "verbose should set debug level")
}

func TestSetupLogging_DefaultInfoLevel(t *testing.T) {
	SetupLogging(LogConfig{})
	assert.Equal(t, log.InfoLevel, logger.GetLevel(), "default should be info level")
}

func TestSetupLogging_Writer(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	Warn("dependency not found", "ref", "orders:ordersEP")
	assert.Contains(t, buf.String(), "dependency not found")
	assert.Contains(t, buf.String(), "orders:ordersEP")
}

func TestUnitLogger_HasPrefix(t *testing.T) {
	SetupLogging(LogConfig{})
	unitLog := UnitLogger("hello")
	assert.NotNil(t, unitLog, "unit logger should not be nil")

	prefix := unitLog.GetPrefix()
	assert.Contains(t, prefix, "hello", "prefix should contain unit name")
}

func TestUnitLogger_InheritsLevel(t *testing.T) {
	SetupLogging(LogConfig{Verbose: true})
	unitLog := UnitLogger("hello")
	assert.Equal(t, log.DebugLevel, unitLog.GetLevel(), "unit logger should inherit debug level")
}

func TestBoolPtr(t *testing.T) {
	trueVal := BoolPtr(true)
	falseVal := BoolPtr(false)
	assert.True(t, *trueVal)
	assert.False(t, *falseVal)
}
