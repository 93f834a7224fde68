package provider

import "errors"

// ErrMalformedVector indicates a vector header that cannot describe a live
// vector, typically because the value is not initialized yet.
var ErrMalformedVector = errors.New("malformed vector header")
