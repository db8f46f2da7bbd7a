package config

import "errors"

// ErrConfigMissing is returned when a required value is absent
var ErrConfigMissing = errors.New("required configuration missing")
