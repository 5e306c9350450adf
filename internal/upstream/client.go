// Package upstream is the HTTP client for the case-management API.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// maxBodySize caps how much of an upstream answer is buffered.
const maxBodySize = 32 << 20

// Observer receives one notification per upstream call. status is 0 when no response arrived.
type Observer interface {
	ObserveUpstream(method string, status int, elapsed time.Duration)
}

// RequestError is returned when the upstream could not be reached or its answer could not be read
type RequestError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("upstream %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Client builds requests against a fixed base URL. Every call is synchronous,
// bounded by a per-method timeout and never retried.
type Client struct {
	baseURL      string
	readTimeout  time.Duration
	writeTimeout time.Duration
	httpClient   *http.Client
	observer     Observer
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithObserver attaches a metrics observer
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for baseURL. GET calls use readTimeout, every other method writeTimeout.
func New(baseURL string, readTimeout, writeTimeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		httpClient:   &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TimeoutFor returns the default timeout applied to method
func (c *Client) TimeoutFor(method string) time.Duration {
	if strings.EqualFold(method, http.MethodGet) {
		return c.readTimeout
	}
	return c.writeTimeout
}

// Get performs a GET against path
func (c *Client) Get(ctx context.Context, path, token string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, token)
}

// Post performs a POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any, token string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, token)
}

// Put performs a PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any, token string) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, token)
}

// Patch performs a PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body any, token string) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, token)
}

// Delete performs a DELETE against path
func (c *Client) Delete(ctx context.Context, path, token string) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, token)
}

// Do sends one request. body may be nil, raw JSON bytes or any value encodable as JSON.
// A non-2xx answer is not an error; only transport and read failures are.
func (c *Client) Do(ctx context.Context, method, path string, body any, token string) (*Response, error) {
	method = strings.ToUpper(method)

	payload, err := encodeBody(body)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.TimeoutFor(method))
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	for k, v := range AuthHeader(token) {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		log.Warnf("Upstream %s %s failed: %v", method, path, err)
		return nil, &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	c.observe(method, resp.StatusCode, elapsed)
	if err != nil {
		log.Warnf("Upstream %s %s: failed to read body: %v", method, path, err)
		return nil, &RequestError{Method: method, Path: path, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	log.Debugf("Upstream %s %s -> %d (%s)", method, path, resp.StatusCode, elapsed.Round(time.Millisecond))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(method, status, elapsed)
	}
}

func encodeBody(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(b) == 0 {
			return []byte("{}"), nil
		}
		return b, nil
	case []byte:
		return b, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		return data, nil
	}
}
