package inspect

import "errors"

var (
	// ErrUnknownReference is returned for a variables reference that was never issued
	// or was dropped by Reset.
	ErrUnknownReference = errors.New("unknown variables reference")

	// ErrVariableNotFound is returned when a child name does not resolve.
	ErrVariableNotFound = errors.New("variable not found")
)
