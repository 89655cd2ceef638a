// Package graphql provides the low-level transport for the Manifold
// registry API: one named query or mutation per round trip, POSTed as
// {query, variables} with bearer authentication.
//
// The transport does not interpret GraphQL-level errors. A 2xx response
// is decoded and returned whole, errors array included; deciding what an
// error envelope means belongs to the caller. Only connection failures
// and non-2xx statuses are transport errors.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a non-2xx response body is captured
// for diagnostics.
const maxErrorBody = 8 << 10

// Response is a decoded GraphQL response envelope. Data maps each
// top-level field of the operation to its raw JSON value.
type Response struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []Error                    `json:"errors,omitempty"`
}

// HasErrors reports whether the registry returned any GraphQL-level
// errors alongside (or instead of) data.
func (r *Response) HasErrors() bool { return len(r.Errors) > 0 }

// Error is a single GraphQL-level error returned by the registry.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// TransportError indicates the request never produced a usable GraphQL
// envelope: a connection failure, a timeout, a non-2xx status, or an
// unparseable body.
type TransportError struct {
	Status int    // HTTP status code, 0 when the request never completed
	Body   string // response body for non-2xx statuses, truncated
	Err    error  // underlying error, if any
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("graphql: request failed with status %d: %v", e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("graphql: request failed: %v", e.Err)
	case e.Body != "":
		return fmt.Sprintf("graphql: request failed with status %d: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("graphql: request failed with status %d", e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client executes operations against a single Manifold GraphQL endpoint.
type Client struct {
	endpoint  string
	token     string
	userAgent string
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent sets the User-Agent header sent on each request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for the given endpoint URL. The token, when
// non-empty, is sent as a bearer credential on every request.
func New(endpoint, token string, opts ...Option) *Client {
	c := &Client{
		endpoint:  strings.TrimRight(endpoint, "/"),
		token:     token,
		userAgent: "manifold-go",
		client:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = http.DefaultClient
	}
	return c
}

// request is the POST body shape the registry accepts.
type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Do executes one named query or mutation with the given variables and
// returns the decoded response envelope.
//
// Do fails with *TransportError on connection or HTTP-layer failure. A
// 2xx response carrying a GraphQL error array is NOT a failure here: the
// envelope is returned as-is for the caller to interpret.
func (c *Client) Do(ctx context.Context, operation string, variables map[string]any) (*Response, error) {
	payload, err := json.Marshal(request{Query: operation, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("graphql: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("graphql: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &TransportError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return &out, nil
}
