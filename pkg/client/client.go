// Package client dispatches authenticated requests to the backing
// pentest-reports REST API and normalizes every outcome into an Envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pentestreports/mcp-server/pkg/types"
)

// Config carries the immutable per-process dispatcher settings.
type Config struct {
	// BaseURL is the API origin, e.g. http://localhost:4000. The /api
	// prefix is appended per request.
	BaseURL string
	// BearerToken is the default credential; may be empty, in which case
	// every call must supply its own override.
	BearerToken string
}

// Client issues HTTP requests against the backing API. It holds no mutable
// state and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Envelope is the uniform result wrapper returned for every call that
// reached the API. Upstream rejections (4xx/5xx) are carried here as data
// with Success false, never raised as errors.
type Envelope struct {
	Success   bool            `json:"success"`
	Status    int             `json:"status"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	Timestamp string          `json:"timestamp"`

	// Endpoint is the resolved request URL, kept for audit logging only.
	Endpoint string `json:"-"`
}

// New creates a dispatcher for the given API.
func New(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.BearerToken,
		// Per-request timeouts are applied via context; the client itself
		// stays unbounded.
		httpClient: &http.Client{},
		logger:     logger.With().Str("component", "api-client").Logger(),
	}
}

// Execute sends one request and wraps the response. tokenOverride takes
// priority over the configured default credential. body, when non-nil, is
// JSON-encoded. The returned error is always a classified ParamError or
// InternalError; any HTTP response, success or not, produces an Envelope
// and a nil error.
func (c *Client) Execute(ctx context.Context, method, path, tokenOverride string, body any) (*Envelope, error) {
	token, err := c.resolveToken(tokenOverride)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/api" + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &types.InternalError{Msg: "failed to encode request body for " + endpoint, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithTimeout(ctx, timeoutFor(method))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &types.InternalError{Msg: "failed to build " + method + " request for " + endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().Str("method", method).Str("endpoint", endpoint).Msg("dispatching request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &types.InternalError{Msg: "no response received from " + endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		// A timeout firing mid-body is the same no-response failure class
		// as one firing before headers arrive.
		if ctx.Err() != nil {
			return nil, &types.InternalError{Msg: "no response received from " + endpoint, Err: err}
		}
		return nil, &types.InternalError{Msg: "failed to read response from " + endpoint, Err: err}
	}

	env := &Envelope{
		Status:    resp.StatusCode,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Endpoint:  endpoint,
	}
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		env.Success = true
		env.Data = rawData(respBody)
	} else {
		env.Error = upstreamError(respBody, resp.Status)
		c.logger.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).Msg("upstream rejected request")
	}
	return env, nil
}

func (c *Client) resolveToken(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if c.token != "" {
		return c.token, nil
	}
	return "", types.NewParamError(
		"no bearer token available: pass bearerToken or set %s", types.TokenEnvVar)
}

func timeoutFor(method string) time.Duration {
	if method == http.MethodPost || method == http.MethodPut {
		return types.WriteTimeout
	}
	return types.ReadTimeout
}

// rawData keeps valid JSON as-is and re-encodes anything else as a JSON
// string so the envelope always marshals.
func rawData(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return body
	}
	encoded, _ := json.Marshal(string(body))
	return encoded
}

// upstreamError extracts a message from an error response body, falling
// back to the HTTP status line.
func upstreamError(body []byte, statusLine string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return statusLine
}
