// Package jokes is the HTTP client for the random-joke upstream.
package jokes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
)

// ErrUpstream wraps every failure to obtain a joke: transport errors,
// non-2xx answers and bodies without a string "value".
var ErrUpstream = errors.New("joke upstream error")

// maxBody caps how much of an upstream body is read.
const maxBody = 1 << 20

// Client fetches random jokes from a JSON endpoint of the form
// {"value": "..."}.
type Client struct {
	URL  string
	HTTP *http.Client
	// Timeout bounds a single request when positive. Zero leaves it to the
	// caller's context.
	Timeout time.Duration
}

// NewClient returns a client for url. The underlying http.Client has no
// timeout of its own.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: url, HTTP: &http.Client{}, Timeout: timeout}
}

type jokeResponse struct {
	Value *string `json:"value"`
}

// Random performs one GET and returns the joke text. No retries.
func (c *Client) Random(ctx context.Context) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	correlationID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		logging.DebugwCtx(ctx, "joke request failed", "url", c.URL, "err", err, "correlation_id", correlationID)
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()
	logging.DebugwCtx(ctx, "joke request done",
		"url", c.URL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"correlation_id", correlationID,
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	var out jokeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if out.Value == nil {
		return "", fmt.Errorf("%w: response has no \"value\" field", ErrUpstream)
	}
	return *out.Value, nil
}
