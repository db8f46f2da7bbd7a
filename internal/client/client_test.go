package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/charlie0129/battprobe/internal/testsink"
	"github.com/charlie0129/battprobe/pkg/telemetry"
)

func TestClient_Send(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{name: "ok", status: http.StatusOK, wantSuccess: true},
		{name: "created", status: http.StatusCreated, wantSuccess: true},
		{name: "server error is not an error", status: http.StatusInternalServerError, wantSuccess: false},
		{name: "not found", status: http.StatusNotFound, wantSuccess: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := testsink.New(tt.status)
			defer sink.Close()

			payload := telemetry.Payload{
				DeviceSlug:    "dev-1",
				BatteryLevel:  73.4,
				InterruptMode: telemetry.InterruptModeNone,
				OnPower:       true,
			}
			res, err := NewClient(sink.ReportURL()).Send(context.Background(), payload)
			if err != nil {
				t.Fatalf("Send() unexpected error: %v", err)
			}
			if res.StatusCode != tt.status {
				t.Errorf("Send() status = %d, want %d", res.StatusCode, tt.status)
			}
			if res.Success != tt.wantSuccess {
				t.Errorf("Send() success = %v, want %v", res.Success, tt.wantSuccess)
			}

			reqs := sink.Requests()
			if len(reqs) != 1 {
				t.Fatalf("sink got %d requests, want 1", len(reqs))
			}
			if reqs[0].Payload != payload {
				t.Errorf("sink payload = %+v, want %+v", reqs[0].Payload, payload)
			}
			if ct := reqs[0].Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
			if _, err := uuid.Parse(reqs[0].Header.Get("X-Request-Id")); err != nil {
				t.Errorf("X-Request-Id is not a UUID: %v", err)
			}
		})
	}
}

func TestClient_SendUnreachable(t *testing.T) {
	sink := testsink.New(http.StatusOK)
	url := sink.ReportURL()
	sink.Close()

	res, err := NewClient(url).Send(context.Background(), telemetry.Payload{})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Send() error = %v, want %v", err, ErrRequestFailed)
	}
	if res != nil {
		t.Errorf("Send() result = %+v, want nil", res)
	}
}

func TestClient_SendInvalidURL(t *testing.T) {
	_, err := NewClient("://not a url").Send(context.Background(), telemetry.Payload{})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Send() error = %v, want %v", err, ErrRequestFailed)
	}
}

func TestClient_SendCanceled(t *testing.T) {
	sink := testsink.New(http.StatusOK)
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(sink.ReportURL()).Send(ctx, telemetry.Payload{})
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Send() error = %v, want %v", err, ErrRequestFailed)
	}
	if n := len(sink.Requests()); n != 0 {
		t.Errorf("sink got %d requests, want 0", n)
	}
}
