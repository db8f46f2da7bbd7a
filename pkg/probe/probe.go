// Package probe takes one battery reading and reports it.
//
// The sequence is strictly linear: validate config, read the sensor, build
// the payload, send it, report the outcome. The first error ends the run.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battprobe/internal/client"
	"github.com/charlie0129/battprobe/pkg/config"
	"github.com/charlie0129/battprobe/pkg/sensor"
	"github.com/charlie0129/battprobe/pkg/telemetry"
)

// Sender delivers a payload.
type Sender interface {
	Send(ctx context.Context, payload any) (*client.Result, error)
}

type Options struct {
	Config config.Config
	// Open defaults to sensor.Open.
	Open sensor.Opener
	// Sender defaults to a client for Config.APIEndpoint().
	Sender Sender
	// Out receives the human-readable result lines.
	Out io.Writer
	// DryRun prints the payload instead of sending it.
	DryRun bool
}

// Report is everything a run produced. Result is nil on a dry run.
type Report struct {
	Reading sensor.Reading
	Outcome sensor.Outcome
	Payload telemetry.Payload
	Result  *client.Result
}

// Run executes a single probe.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Config == nil {
		return nil, pkgerrors.New("config is nil")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Open == nil {
		opts.Open = sensor.Open
	}

	// Missing configuration must fail before the sensor or network is touched.
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	logrus.WithFields(opts.Config.LogrusFields()).Debug("config loaded")

	reading, outcome, err := ReadSensor(opts.Open)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(opts.Out, "Battery level: %s%%\n", strconv.FormatFloat(reading.Level, 'f', -1, 64))
	fmt.Fprintf(opts.Out, "Power: %t\n", reading.OnPower)

	report := &Report{
		Reading: reading,
		Outcome: outcome,
		Payload: telemetry.NewPayload(opts.Config.DeviceSlug(), reading),
	}

	if opts.DryRun {
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Payload); err != nil {
			return nil, pkgerrors.Wrapf(err, "failed to encode payload")
		}
		logrus.Info("dry run, not sending report")
		return report, nil
	}

	sender := opts.Sender
	if sender == nil {
		sender = client.NewClient(opts.Config.APIEndpoint())
	}

	res, err := sender.Send(ctx, report.Payload)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to send report to %s", opts.Config.APIEndpoint())
	}
	report.Result = res

	logrus.WithFields(logrus.Fields{
		"statusCode": res.StatusCode,
		"success":    res.Success,
	}).Info("report sent")
	fmt.Fprintf(opts.Out, "Success: %t\n", res.Success)

	return report, nil
}

// ReadSensor opens the power-management facility and takes one reading.
func ReadSensor(open sensor.Opener) (sensor.Reading, sensor.Outcome, error) {
	m, err := open()
	if err != nil {
		return sensor.Reading{}, sensor.OutcomeUnknown, pkgerrors.Wrapf(err, "failed to open power management")
	}

	reading, outcome, err := sensor.Read(m)
	if err != nil {
		return sensor.Reading{}, sensor.OutcomeUnknown, pkgerrors.Wrapf(err, "failed to get battery level")
	}

	logrus.WithFields(logrus.Fields{
		"level":   reading.Level,
		"onPower": reading.OnPower,
		"outcome": outcome.String(),
	}).Debug("battery read")

	return reading, outcome, nil
}
