package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/battprobe/pkg/config"
	"github.com/charlie0129/battprobe/pkg/probe"
	"github.com/charlie0129/battprobe/pkg/sensor"
)

var (
	logLevel   = "info"
	configPath = config.DefaultPath
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, config.ErrConfigMissing) {
		fmt.Fprintln(os.Stderr, "\nError: missing configuration")
		fmt.Fprintf(os.Stderr, "  - Set %s and %s in the environment\n", config.EnvAPIEndpoint, config.EnvDeviceSlug)
		fmt.Fprintf(os.Stderr, "  - Or put apiEndpoint and deviceSlug in %s\n", configPath)
	} else if errors.Is(err, sensor.ErrManagerUnavailable) {
		fmt.Fprintln(os.Stderr, "\nError: cannot access battery information on this machine")
		fmt.Fprintln(os.Stderr, "  - Check that this platform is supported and that you have permission to read power supply info")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	var (
		endpoint   string
		deviceSlug string
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "battprobe",
		Short: "battprobe reports the battery level of this machine to an HTTP endpoint",
		Long: `battprobe reads the battery charge level and power state of this machine once,
and POSTs them as JSON to the endpoint in API_ENDPOINT, identified by DEVICE_SLUG.

It is meant to be run periodically by an external scheduler (cron, systemd timers).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}
			if endpoint != "" {
				conf.SetAPIEndpoint(endpoint)
			}
			if deviceSlug != "" {
				conf.SetDeviceSlug(deviceSlug)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, err = probe.Run(ctx, probe.Options{
				Config: conf,
				Out:    cmd.OutOrStdout(),
				DryRun: dryRun,
			})
			return err
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")

	f := cmd.Flags()
	f.StringVar(&endpoint, "endpoint", "", "report URL, overrides "+config.EnvAPIEndpoint)
	f.StringVar(&deviceSlug, "device-slug", "", "device identifier, overrides "+config.EnvDeviceSlug)
	f.BoolVar(&dryRun, "dry-run", false, "print the payload instead of sending it")

	cmd.AddCommand(
		NewStatusCommand(),
		NewVersionCommand(),
	)

	return cmd
}
