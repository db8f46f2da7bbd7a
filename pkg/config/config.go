package config

import "github.com/sirupsen/logrus"

const (
	// EnvAPIEndpoint names the variable holding the report URL.
	EnvAPIEndpoint = "API_ENDPOINT"
	// EnvDeviceSlug names the variable holding the device identifier.
	EnvDeviceSlug = "DEVICE_SLUG"
)

type Config interface {
	APIEndpoint() string
	DeviceSlug() string

	SetAPIEndpoint(string)
	SetDeviceSlug(string)

	// Load reads the configuration from the source.
	Load() error
	// Validate checks that every required value is present.
	Validate() error

	LogrusFields() logrus.Fields
}
