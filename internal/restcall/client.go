// Package restcall is the HTTP helper used by test bodies. Every URI passed to it may
// contain ${name} placeholders, which are resolved against the variable context the client
// was created with before the request is sent.
package restcall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"atr/internal/domain"
	"atr/internal/logging"
	"atr/internal/variables"
)

// Client sends requests on behalf of test bodies. A Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	vars       variables.Context
	logger     logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDebugLogger sets the logger that receives one line per request and response.
func WithDebugLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client that resolves URIs against vars.
func New(vars variables.Context, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		vars:       vars,
		logger:     logging.NullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLogger returns a copy of the client that logs to l.
func (c *Client) WithLogger(l logging.Logger) *Client {
	if l == nil {
		l = logging.NullLogger()
	}
	c1 := *c
	c1.logger = l
	return &c1
}

// Logger returns the logger requests are logged to.
func (c *Client) Logger() logging.Logger {
	return c.logger
}

// Variables returns the context URIs are resolved against.
func (c *Client) Variables() variables.Context {
	return c.vars
}

// ResolveURI resolves the placeholders of uri without sending anything.
func (c *Client) ResolveURI(uri string) (string, error) {
	return c.vars.Resolve(uri)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, uri string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, uri, nil, opts)
}

// Post sends a POST request with content encoded as JSON.
func (c *Client) Post(ctx context.Context, uri string, content interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, uri, content, opts)
}

// Put sends a PUT request with content encoded as JSON.
func (c *Client) Put(ctx context.Context, uri string, content interface{}, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, uri, content, opts)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, uri string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, uri, nil, opts)
}

// Options sends an OPTIONS request.
func (c *Client) Options(ctx context.Context, uri string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodOptions, uri, nil, opts)
}

// Patch is declared for completeness but is not supported. It always returns a
// *domain.NotImplementedError and never sends a request.
func (c *Client) Patch(ctx context.Context, uri string, content interface{}, opts ...RequestOption) (*Response, error) {
	return nil, &domain.NotImplementedError{Operation: http.MethodPatch}
}

func (c *Client) do(ctx context.Context, method, uri string, content interface{}, opts []RequestOption) (*Response, error) {
	resolved, err := c.vars.Resolve(uri)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if content != nil {
		data, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, resolved, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if content != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}

	c.logger.Printf("%s %s", method, resolved)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, resolved, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	c.logger.Printf("%s %s returned HTTP %d (%d bytes)", method, resolved, resp.StatusCode, len(data))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
