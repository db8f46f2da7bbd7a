package client

import "errors"

// ErrRequestFailed is returned when the report could not be delivered at all
var ErrRequestFailed = errors.New("request failed")
