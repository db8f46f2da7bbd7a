package sensor

import (
	"errors"
	"fmt"

	"github.com/distatus/battery"
)

// Device is one battery as listed by the power-management facility.
// Err is set when the device was listed but could not be read.
type Device struct {
	Name    string
	State   battery.State
	Current float64
	Full    float64
	Err     error
}

// StateOfCharge returns the fractional charge in [0, 1].
func (d Device) StateOfCharge() (float64, error) {
	if d.Full <= 0 {
		return 0, fmt.Errorf("full capacity is %v", d.Full)
	}
	soc := d.Current / d.Full
	// Some controllers report current above full.
	if soc > 1 {
		soc = 1
	}
	if soc < 0 {
		soc = 0
	}
	return soc, nil
}

// Manager lists battery devices.
type Manager interface {
	Batteries() ([]Device, error)
}

// Opener acquires a Manager.
type Opener func() (Manager, error)

// Open opens the platform power-management facility.
func Open() (Manager, error) {
	if err := checkFacility(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManagerUnavailable, err)
	}
	return &systemManager{getAll: battery.GetAll}, nil
}

// systemManager is backed by github.com/distatus/battery.
type systemManager struct {
	getAll func() ([]*battery.Battery, error)
}

func (m *systemManager) Batteries() ([]Device, error) {
	bats, err := m.getAll()

	// battery.Errors carries one entry per battery. Anything else means the
	// listing itself failed.
	errs, perDevice := err.(battery.Errors)
	if err != nil && !perDevice {
		// When every battery fails, GetAll collapses the per-device errors
		// into a single ErrFatal. With one battery that is a read failure.
		if fatal, ok := err.(battery.ErrFatal); ok && errors.Is(fatal.Err, battery.ErrAllNotNil) {
			return []Device{{Name: "BAT0", Err: err}}, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrEnumerationFailed, err)
	}

	devices := make([]Device, 0, len(bats))
	for i, bat := range bats {
		var devErr error
		if perDevice && i < len(errs) {
			devErr = relevantErr(errs[i])
		}

		d := Device{
			Name: fmt.Sprintf("BAT%d", i),
			Err:  devErr,
		}
		if bat == nil {
			if d.Err == nil {
				d.Err = errors.New("no data")
			}
			devices = append(devices, d)
			continue
		}

		d.State = bat.State
		d.Current = bat.Current
		d.Full = bat.Full
		devices = append(devices, d)
	}

	return devices, nil
}

// relevantErr drops partial errors on fields a reading does not need.
func relevantErr(err error) error {
	switch e := err.(type) {
	case nil:
		return nil
	case battery.ErrPartial:
		if e.State == nil && e.Current == nil && e.Full == nil {
			return nil
		}
		return e
	default:
		return err
	}
}
