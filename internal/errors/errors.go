// Package errors provides the error kinds surfaced by kubegen.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// GenerationError is the single error kind exposed to callers of the
// generation pipeline. Every processor, validator and handler failure is
// wrapped into one before it leaves the pipeline.
type GenerationError struct {
	// Unit is the compilation unit being generated (optional).
	Unit string

	// Artifact is the logical artifact name, e.g. "hello-svc" (optional).
	Artifact string

	// Message is the human-readable description (required).
	Message string

	// Cause is the underlying error (optional).
	Cause error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder

	if e.Unit != "" {
		b.WriteString(e.Unit)
		b.WriteString(": ")
	}
	if e.Artifact != "" {
		b.WriteString("artifact ")
		b.WriteString(e.Artifact)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	if e.Cause != nil && !isSentinel(e.Cause) {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

func isSentinel(err error) bool {
	switch err {
	case ErrValidation, ErrNotFound, ErrCyclicDependency, ErrIO:
		return true
	}
	return false
}

// NewConfigError creates a configuration error for an annotation field.
func NewConfigError(annotation, field, message string) error {
	msg := message
	if field != "" {
		msg = fmt.Sprintf("@%s{%s}: %s", annotation, field, message)
	} else if annotation != "" {
		msg = fmt.Sprintf("@%s: %s", annotation, message)
	}
	return &GenerationError{
		Message: msg,
		Cause:   ErrValidation,
	}
}

// NewNotFoundError creates a cross-reference error.
func NewNotFoundError(message string) error {
	return &GenerationError{
		Message: message,
		Cause:   ErrNotFound,
	}
}

// NewCycleError creates a dependency cycle error for a unit.
func NewCycleError(unit string) error {
	return &GenerationError{
		Unit:    unit,
		Message: "contains cyclic dependencies",
		Cause:   ErrCyclicDependency,
	}
}

// WrapArtifact wraps a composition or serialization failure with the
// artifact name. Already wrapped errors keep their message and gain the
// artifact name if they had none.
func WrapArtifact(artifact string, err error) error {
	if err == nil {
		return nil
	}
	var gen *GenerationError
	if errors.As(err, &gen) {
		if gen.Artifact == "" {
			cp := *gen
			cp.Artifact = artifact
			return &cp
		}
		return err
	}
	return &GenerationError{
		Artifact: artifact,
		Message:  "error while generating artifact",
		Cause:    err,
	}
}

// WrapUnit stamps the unit identity on err, wrapping foreign errors into a
// GenerationError.
func WrapUnit(unit string, err error) error {
	if err == nil {
		return nil
	}
	var gen *GenerationError
	if errors.As(err, &gen) {
		if gen.Unit == "" {
			cp := *gen
			cp.Unit = unit
			return &cp
		}
		return err
	}
	return &GenerationError{
		Unit:    unit,
		Message: "generation failed",
		Cause:   err,
	}
}

// Wrap wraps an error with a sentinel error type.
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
