// Package httpx provides the shared HTTP client used by the backend clients.
// It carries the retry/backoff and connection pooling the gateway core itself
// deliberately does not implement.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config configures a Client.
type Config struct {
	Timeout           time.Duration
	MaxRetries        int
	BaseRetryDelay    time.Duration
	MaxRetryDelay     time.Duration
	BackoffMultiplier float64
	Headers           map[string]string
	UserAgent         string
	Logger            zerolog.Logger
}

// Client wraps http.Client with retry on transient status codes and default
// headers. Safe for concurrent use.
type Client struct {
	client  *http.Client
	config  Config
	backoff BackoffConfig
	log     zerolog.Logger
}

// retryableStatus reports whether a status code is worth retrying.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// NewClient creates a Client with sensible defaults for LLM backends.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.BaseRetryDelay == 0 {
		config.BaseRetryDelay = time.Second
	}
	if config.MaxRetryDelay == 0 {
		config.MaxRetryDelay = 30 * time.Second
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = 2.0
	}
	if config.Headers == nil {
		config.Headers = make(map[string]string)
	}
	if config.UserAgent != "" {
		config.Headers["User-Agent"] = config.UserAgent
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &Client{
		client: &http.Client{Timeout: config.Timeout, Transport: transport},
		config: config,
		backoff: BackoffConfig{
			BaseDelay:  config.BaseRetryDelay,
			MaxDelay:   config.MaxRetryDelay,
			Multiplier: config.BackoffMultiplier,
		},
		log: config.Logger,
	}
}

// Do executes a request, retrying transient failures with exponential
// backoff. The request body, if any, must be replayable via GetBody.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for key, value := range c.config.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}

	var resp *http.Response
	var err error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := Backoff(c.backoff, attempt)
			c.log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Str("url", req.URL.Path).
				Msg("retrying request")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, bodyErr := req.GetBody()
			if bodyErr != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", bodyErr)
			}
			attemptReq.Body = body
		}

		resp, err = c.client.Do(attemptReq)
		if err != nil {
			if attempt < c.config.MaxRetries && ctx.Err() == nil {
				continue
			}
			return nil, err
		}
		if retryableStatus(resp.StatusCode) && attempt < c.config.MaxRetries {
			_ = resp.Body.Close()
			continue
		}
		return resp, nil
	}
	return resp, err
}

// PostJSON sends a JSON POST and returns the response.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	req, err := NewJSONRequest(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// GetJSON sends a GET and decodes a JSON response body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) (*http.Response, error) {
	req, err := NewJSONRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out != nil && resp.StatusCode == http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp, nil
}

// HTTPClient exposes the underlying http.Client for callers that manage
// their own requests (e.g. SSE streams that must outlive this helper).
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// NewJSONRequest creates a JSON request with a replayable body.
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(raw)), nil
		}
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// ReadErrorBody drains up to 8 KiB of an error response body for messages.
func ReadErrorBody(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	return string(body)
}
