// Package apiclient provides the typed HTTP client for the remote
// persona/resume service. It centralizes the service's request/response
// contracts; the rest of the system only sees normalized types.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP request timeout. Every call is bounded
// by it so no loading flag upstream can stay stuck on a request that never
// resolves.
const DefaultTimeout = 30 * time.Second

// Options configures the client.
type Options struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Client talks to the remote persona/resume service.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// New creates a client for the service at baseURL.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, &Error{Op: "new", Message: "base URL is required"}
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		authToken:  opts.AuthToken,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// do executes one JSON request. A nil out skips response decoding. Error
// bodies of the form {"error": "..."} are surfaced in the returned Error.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Message: "failed to encode request body", Cause: err}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Op: op, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Message: "failed to decode response body", Cause: err}
		}
	}
	return nil
}

// readErrorMessage extracts the service's error string from a failed
// response body, falling back to the raw body text.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "request failed"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(raw))
}

// Error represents a failure talking to the remote service.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("api %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("api %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
