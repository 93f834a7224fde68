package snapshot

import "errors"

// Sentinel errors for snapshot decoding.
var (
	// ErrUnknownType is returned when a type reference cannot be resolved.
	ErrUnknownType = errors.New("unknown type")

	// ErrUnknownKind is returned for an unrecognized type kind.
	ErrUnknownKind = errors.New("unknown type kind")

	// ErrFormat is returned for malformed snapshot content.
	ErrFormat = errors.New("malformed snapshot")

	// ErrRecursiveType is returned when a type contains itself by value.
	ErrRecursiveType = errors.New("type contains itself by value")
)
