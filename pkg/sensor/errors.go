package sensor

import "errors"

var (
	// ErrManagerUnavailable is returned when the power-management facility cannot be opened
	ErrManagerUnavailable = errors.New("power management unavailable")

	// ErrEnumerationFailed is returned when listing battery devices fails
	ErrEnumerationFailed = errors.New("failed to enumerate batteries")

	// ErrDeviceReadFailed is returned when the first battery device cannot be read
	ErrDeviceReadFailed = errors.New("failed to read battery")
)
