package config

import (
	"errors"
	"strings"
)

// ErrInvalid is returned for configuration values out of range.
var ErrInvalid = errors.New("invalid configuration")

var envReplacer = strings.NewReplacer(".", "_")
