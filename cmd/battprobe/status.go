package main

import (
	"encoding/json"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battprobe/pkg/probe"
	"github.com/charlie0129/battprobe/pkg/sensor"
)

type statusJSON struct {
	sensor.Reading
	Outcome string `json:"outcome"`
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Read the battery without reporting it",
		Long:  `Read the battery level and power state once and print them. Nothing is sent.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reading, outcome, err := probe.ReadSensor(sensor.Open)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statusJSON{
					Reading: reading,
					Outcome: outcome.String(),
				})
			}

			printStatus(cmd, reading, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, reading sensor.Reading, outcome sensor.Outcome) {
	cmd.Println(bold("Battery status:"))

	if outcome == sensor.NoDeviceFound {
		cmd.Println("  No battery found. Reporting 0% and not on power.")
		return
	}

	level := strconv.FormatFloat(reading.Level, 'f', 1, 64) + "%"
	switch {
	case reading.Level <= 20:
		level = color.New(color.Bold, color.FgRed).Sprint(level)
	default:
		level = bold("%s", level)
	}
	cmd.Printf("  Current charge: %s\n", level)
	cmd.Printf("  On power: %s\n", bool2Text(reading.OnPower))
}
