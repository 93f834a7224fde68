package value

import "errors"

// Sentinel errors reported by backends.
var (
	// ErrUnmapped is returned when a read touches memory the target does not map.
	ErrUnmapped = errors.New("memory is not mapped")

	// ErrNotScalar is returned when a non-scalar value is read as an integer.
	ErrNotScalar = errors.New("value is not a scalar")

	// ErrProcessNotRunning is returned when the target cannot be read at all.
	ErrProcessNotRunning = errors.New("process is not running")
)
