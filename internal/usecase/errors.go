package usecase

import "errors"

// Sentinel errors the extraction use case wraps its failures in.
var (
	// ErrInvalidInput marks a caller mistake: empty column sets, unknown
	// export modes, nil sinks.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDependencyUnavailable marks a wiring gap, such as a service built
	// without its repositories.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
