package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charlie0129/battprobe/pkg/config"
	"github.com/charlie0129/battprobe/pkg/sensor"
)

func TestRootCommandConfigMissing(t *testing.T) {
	t.Setenv(config.EnvAPIEndpoint, "")
	t.Setenv(config.EnvDeviceSlug, "")

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.json")})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrConfigMissing) {
		t.Fatalf("Execute() error = %v, want %v", err, config.ErrConfigMissing)
	}
	if strings.Contains(out.String(), "Battery level:") {
		t.Errorf("battery was read before config was validated: %q", out.String())
	}
}

func TestRootCommandRejectsArgs(t *testing.T) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"extra"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() expected error for positional arguments")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "v0.0.0-dev") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestStatusJSON(t *testing.T) {
	b, err := json.Marshal(statusJSON{
		Reading: sensor.Reading{Level: 73.4, OnPower: true},
		Outcome: sensor.DeviceFound.String(),
	})
	if err != nil {
		t.Fatalf("json.Marshal() error: %v", err)
	}
	want := `{"level":73.4,"onPower":true,"outcome":"deviceFound"}`
	if string(b) != want {
		t.Errorf("json.Marshal() = %s, want %s", b, want)
	}
}
