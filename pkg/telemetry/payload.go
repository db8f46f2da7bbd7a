// Package telemetry defines the JSON document reported to the telemetry
// endpoint.
//
// An older revision of the payload had no onPower field. Only the four-field
// form is produced.
package telemetry

import (
	"github.com/charlie0129/battprobe/pkg/sensor"
)

// InterruptModeNone is the only interrupt mode the probe reports.
const InterruptModeNone = "none"

// Payload is the body of the report request.
type Payload struct {
	DeviceSlug    string  `json:"deviceSlug"`
	BatteryLevel  float64 `json:"batteryLevel"`
	InterruptMode string  `json:"interruptMode"`
	OnPower       bool    `json:"onPower"`
}

// NewPayload builds a Payload for deviceSlug from r.
func NewPayload(deviceSlug string, r sensor.Reading) Payload {
	return Payload{
		DeviceSlug:    deviceSlug,
		BatteryLevel:  r.Level,
		InterruptMode: InterruptModeNone,
		OnPower:       r.OnPower,
	}
}
