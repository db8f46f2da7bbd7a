package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battprobe/pkg/version"
)

// Client posts telemetry reports to a single endpoint
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Result is the outcome of a delivered request.
type Result struct {
	StatusCode int
	// Success is true for any 2xx status.
	Success bool
}

// NewClient creates a Client for endpoint. It uses a plain http.Client, so no
// timeout applies other than ctx.
func NewClient(endpoint string) *Client {
	return NewClientWithHTTPClient(endpoint, &http.Client{})
}

// NewClientWithHTTPClient is like NewClient but uses httpClient.
func NewClientWithHTTPClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
	}
}

// Send POSTs payload as JSON. Exactly one request is made, and it is never
// retried. A non-2xx response is not an error; the response body is
// discarded unread.
func (c *Client) Send(ctx context.Context, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "battprobe/"+version.Version)
	req.Header.Set("X-Request-Id", requestID)

	logrus.WithFields(logrus.Fields{
		"method":    req.Method,
		"url":       c.endpoint,
		"requestID": requestID,
		"data":      string(body),
	}).Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.Errorf("failed to close response body: %v", err)
		}
	}()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		logrus.Debugf("failed to drain response body: %v", err)
	}

	res := &Result{
		StatusCode: resp.StatusCode,
		Success:    resp.StatusCode >= 200 && resp.StatusCode <= 299,
	}

	logrus.WithFields(logrus.Fields{
		"statusCode": res.StatusCode,
		"requestID":  requestID,
	}).Debug("got response")

	return res, nil
}
