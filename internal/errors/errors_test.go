//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	assert.NotEqual(t, ErrValidation, ErrNotFound)
	assert.NotEqual(t, ErrValidation, ErrCyclicDependency)
	assert.NotEqual(t, ErrNotFound, ErrIO)
}

func TestGenerationErrorError(t *testing.T) {
	err := &GenerationError{
		Unit:     "hello",
		Artifact: "hello-svc",
		Message:  "error while generating artifact",
		Cause:    fmt.Errorf("disk full"),
	}

	assert.Equal(t, "hello: artifact hello-svc: error while generating artifact: disk full", err.Error())
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("kubernetes:Deployment", "replicas", "unable to parse value: abc")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "@kubernetes:Deployment{replicas}: unable to parse value: abc", err.Error())
}

func TestNewCycleError(t *testing.T) {
	err := NewCycleError("orders")

	assert.True(t, errors.Is(err, ErrCyclicDependency))
	assert.Equal(t, "orders: contains cyclic dependencies", err.Error())
}

func TestWrapArtifact(t *testing.T) {
	t.Run("foreign error", func(t *testing.T) {
		err := WrapArtifact("hello-deployment", fmt.Errorf("boom: %w", ErrIO))

		var gen *GenerationError
		require.True(t, errors.As(err, &gen))
		assert.Equal(t, "hello-deployment", gen.Artifact)
		assert.True(t, errors.Is(err, ErrIO))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("generation error keeps message", func(t *testing.T) {
		err := WrapArtifact("hello-ingress", NewNotFoundError("no service"))

		assert.Equal(t, "artifact hello-ingress: no service", err.Error())
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, WrapArtifact("x", nil))
	})
}

func TestWrapUnit(t *testing.T) {
	err := WrapUnit("hello", WrapArtifact("hello-svc", fmt.Errorf("bad")))
	assert.Equal(t, "hello: artifact hello-svc: error while generating artifact: bad", err.Error())

	// An error that already names a unit keeps it.
	err = WrapUnit("other", err)
	assert.Contains(t, err.Error(), "hello: ")
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFromError(nil))
	assert.Equal(t, ExitValidationError, ExitCodeFromError(NewConfigError("a", "b", "c")))
	assert.Equal(t, ExitValidationError, ExitCodeFromError(NewCycleError("a")))
	assert.Equal(t, ExitNotFound, ExitCodeFromError(NewNotFoundError("x")))
	assert.Equal(t, ExitGeneralError, ExitCodeFromError(fmt.Errorf("x")))
	assert.Equal(t, 7, ExitCodeFromError(&ExitError{Code: 7, Err: fmt.Errorf("x")}))
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrValidation, "descriptor check failed")

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.Contains(t, wrapped.Error(), "descriptor check failed")
}
