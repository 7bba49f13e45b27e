// Package client talks to a running "dsa serve" over HTTP. Client satisfies
// playback.Executor, so the terminal player can run against a remote
// backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/server"
	"github.com/jonhuth/dsa/internal/step"
)

// APIError is a non-2xx response that does not map to a local error type.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Status, e.Message)
}

// Client is an HTTP client for the dsa API.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 30s.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, http: &http.Client{Timeout: 30 * time.Second}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Execute runs an algorithm on the server.
func (c *Client) Execute(ctx context.Context, algorithmID string, input json.RawMessage) ([]step.Step, error) {
	res, err := c.ExecuteRun(ctx, algorithmID, input)
	if err != nil {
		return nil, err
	}
	return res.Steps, nil
}

// ExecuteRun is Execute with the run id and hash attached.
func (c *Client) ExecuteRun(ctx context.Context, algorithmID string, input json.RawMessage) (server.ExecuteResponse, error) {
	body, err := json.Marshal(server.ExecuteRequest{Input: input})
	if err != nil {
		return server.ExecuteResponse{}, &algo.InputError{Message: err.Error()}
	}
	var res server.ExecuteResponse
	err = c.do(ctx, http.MethodPost, "/api/algorithms/"+url.PathEscape(algorithmID)+"/execute", body, &res)
	return res, err
}

// Algorithms lists the server's catalog.
func (c *Client) Algorithms(ctx context.Context) ([]server.AlgorithmSummary, error) {
	var out []server.AlgorithmSummary
	err := c.do(ctx, http.MethodGet, "/api/algorithms", nil, &out)
	return out, err
}

// Run fetches an archived run with its steps.
func (c *Client) Run(ctx context.Context, id string) (server.RunResponse, error) {
	var out server.RunResponse
	err := c.do(ctx, http.MethodGet, "/api/runs/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	u := c.base.JoinPath(path)
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode/100 != 2 {
		return decodeError(resp.StatusCode, data)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// decodeError turns an error body back into the error the server classified.
func decodeError(code int, data []byte) error {
	var body struct {
		Error  string `json:"error"`
		Status string `json:"status"`
		Field  string `json:"field"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return &APIError{StatusCode: code, Status: http.StatusText(code), Message: strings.TrimSpace(string(data))}
	}

	switch backend.Status(body.Status) {
	case backend.StatusInvalidInput:
		msg := body.Error
		if body.Field != "" {
			msg = strings.TrimPrefix(msg, "invalid input: "+body.Field+": ")
		}
		msg = strings.TrimPrefix(msg, "invalid input: ")
		return &algo.InputError{Field: body.Field, Message: msg}
	case backend.StatusUnknown:
		return fmt.Errorf("%w: %s", backend.ErrUnknownAlgorithm, body.Error)
	}
	return &APIError{StatusCode: code, Status: body.Status, Message: body.Error}
}
