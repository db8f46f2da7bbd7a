package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
)

// Outcome tells how a reading was produced.
type Outcome int

const (
	// OutcomeUnknown is returned alongside an error.
	OutcomeUnknown Outcome = iota
	// NoDeviceFound means the facility listed no batteries. The reading is the
	// zero reading.
	NoDeviceFound
	// DeviceFound means the reading came from the first listed battery.
	DeviceFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnknown:
		return "unknown"
	case NoDeviceFound:
		return "noDeviceFound"
	case DeviceFound:
		return "deviceFound"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Level keeps four decimals, so float noise such as 56.99999999999999 does
// not reach the wire.
const levelPrecision = 1e4

// Reading is a single battery sample. Level is in percent [0, 100].
type Reading struct {
	Level   float64 `json:"level"`
	OnPower bool    `json:"onPower"`
}

// FromDevice converts a battery device into a Reading. The device is on
// power unless it is exactly discharging.
func FromDevice(d Device) (Reading, error) {
	if d.Err != nil {
		return Reading{}, fmt.Errorf("%w %s: %w", ErrDeviceReadFailed, d.Name, d.Err)
	}

	soc, err := d.StateOfCharge()
	if err != nil {
		return Reading{}, fmt.Errorf("%w %s: %w", ErrDeviceReadFailed, d.Name, err)
	}

	return Reading{
		Level:   math.Round(soc*100*levelPrecision) / levelPrecision,
		OnPower: d.State != battery.Discharging,
	}, nil
}

// Read takes exactly one reading from m. Only the first enumerated device is
// used, and a failure to read it is fatal even if other devices are healthy.
// An empty device list is not an error: it yields the zero reading with
// NoDeviceFound.
func Read(m Manager) (Reading, Outcome, error) {
	devices, err := m.Batteries()
	if err != nil {
		if errors.Is(err, ErrEnumerationFailed) {
			return Reading{}, OutcomeUnknown, err
		}
		return Reading{}, OutcomeUnknown, fmt.Errorf("%w: %w", ErrEnumerationFailed, err)
	}

	logrus.WithField("count", len(devices)).Debug("enumerated batteries")

	if len(devices) == 0 {
		return Reading{}, NoDeviceFound, nil
	}

	first := devices[0]
	r, err := FromDevice(first)
	if err != nil {
		return Reading{}, OutcomeUnknown, err
	}

	logrus.WithFields(logrus.Fields{
		"name":    first.Name,
		"state":   first.State,
		"current": first.Current,
		"full":    first.Full,
	}).Debug("using first battery")

	return r, DeviceFound, nil
}
