package output

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatCheckmark(t *testing.T) {
	got := stripAnsi(FormatCheckmark("generated hello"))
	assert.Equal(t, "✔ generated hello", got)
}

func TestNoColorStylesRenderPlain(t *testing.T) {
	s := NoColorStyles()
	assert.Equal(t, "x", s.Success.Render("x"))
	assert.Equal(t, "x", s.Error.Render("x"))
	assert.Equal(t, "x", s.Warning.Render("x"))
}
