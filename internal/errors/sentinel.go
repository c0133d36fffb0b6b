package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates an annotation carried an invalid or unknown value.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a cross-reference could not be resolved.
	ErrNotFound = errors.New("not found")

	// ErrCyclicDependency indicates the depends-on graph contains a cycle.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrIO indicates an artifact could not be serialized or written.
	ErrIO = errors.New("io error")
)
