package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DefaultEndpoint is the location of the ToyDB API
const DefaultEndpoint = "http://localhost:3000/api"

// maxErrorBody limits how much of a failed response is kept in the error
const maxErrorBody = 512

// ErrEmptyEndpoint is returned when no endpoint is configured
var ErrEmptyEndpoint = errors.New("endpoint is empty")

// Transport sends a query to the database service and returns the raw reply
type Transport interface {
	Post(ctx context.Context, body string) (string, error)
}

// StatusError reports a non-2xx reply. Body holds the start of the response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Client performs one POST per query against a fixed endpoint
type Client struct {
	endpoint string
	http     *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a client for endpoint
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, ErrEmptyEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the URL queries are posted to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Post sends body unchanged and returns the whole response body as text
func (c *Client) Post(ctx context.Context, body string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBufferString(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	zap.S().Debugw("transport: response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(data))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody] + "..."
		}
		return "", &StatusError{Code: resp.StatusCode, Body: snippet}
	}

	return string(data), nil
}

// Close releases idle connections held by the client
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
