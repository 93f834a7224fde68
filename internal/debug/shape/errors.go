package shape

import "errors"

// ErrInconsistent marks metadata that breaks an encoding invariant.
var ErrInconsistent = errors.New("inconsistent enum encoding")
