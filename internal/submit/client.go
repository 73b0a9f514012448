package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client posts JSON payloads to the backend over HTTP.
type Client struct {
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	schema     *Schema
	logger     zerolog.Logger
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// WithSchema validates every 2xx response body against s. Pass nil to
// disable validation.
func WithSchema(s *Schema) Option {
	return func(c *Client) {
		c.schema = s
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{},
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		schema: ResponseSchema,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts payload as JSON to endpoint, a path relative to the base
// URL or an absolute URL.
func (c *Client) Submit(ctx context.Context, endpoint string, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	url := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		url = c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ErrUnavailable{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &ErrUnavailable{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("submission response")

	switch {
	case resp.StatusCode >= 500:
		return nil, &ErrUnavailable{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("%s", snippet(respBody))}
	case resp.StatusCode >= 400:
		return nil, &ErrRejected{Endpoint: endpoint, Status: resp.StatusCode, Body: snippet(respBody)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &ErrInvalidResponse{Content: respBody, Err: fmt.Errorf("unexpected HTTP %d", resp.StatusCode)}
	}

	if err := validateResponse(c.schema, respBody); err != nil {
		return nil, err
	}
	return &Result{Endpoint: endpoint, Status: resp.StatusCode, Body: respBody}, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// Offline is the Submitter used when no server is configured. Every call
// fails with ErrUnavailable wrapping ErrOffline.
type Offline struct{}

func (Offline) Submit(_ context.Context, endpoint string, _ any) (*Result, error) {
	return nil, &ErrUnavailable{Endpoint: endpoint, Err: ErrOffline}
}
