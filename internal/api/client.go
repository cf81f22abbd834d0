// Package api is the single boundary to the adoption backend.
//
// Every call returns an *Envelope. Network errors, non-2xx responses and the
// different payload shapes a backend may send are all folded into that one
// shape, so callers only ever branch on Envelope.Success.
package api

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

	"github.com/google/uuid"
	"github.com/petadoption/webclient/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// maxResponseSize bounds how much of a response body is read
const maxResponseSize = 32 * 1024 * 1024 // 32MB

// RequestIDHeader carries the per-request id sent with every call
const RequestIDHeader = "X-Request-ID"

// TokenSource is the interface that wraps the bearer token lookup done before each request.
type TokenSource interface {
	// Method Token returns the current bearer token, or an empty string when there is none.
	Token(ctx context.Context) string
}

// Client issues requests against the backend and normalizes every result into an Envelope
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client (cookie jar, timeout, transport)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource sets where the bearer token is read from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst. rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithMetrics records request counts and latencies
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the backend rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request with optional query parameters
func (c *Client) Get(ctx context.Context, path string, params url.Values) *Envelope {
	if params == nil {
		return c.Do(ctx, http.MethodGet, path, nil)
	}
	return c.Do(ctx, http.MethodGet, path, params)
}

// Post issues a POST request with an optional JSON body
func (c *Client) Post(ctx context.Context, path string, body any) *Envelope {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with an optional JSON body
func (c *Client) Put(ctx context.Context, path string, body any) *Envelope {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string) *Envelope {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// PostForm issues a multipart POST request
func (c *Client) PostForm(ctx context.Context, path string, form *Form) *Envelope {
	return c.Do(ctx, http.MethodPost, path, form)
}

// PutForm issues a multipart PUT request
func (c *Client) PutForm(ctx context.Context, path string, form *Form) *Envelope {
	return c.Do(ctx, http.MethodPut, path, form)
}

// Do issues one request and returns its normalized envelope. It never returns a nil envelope.
//
// payload is sent as query parameters for GET (url.Values, map[string]string or map[string]any),
// as a multipart body when it is a *Form, and as JSON for POST, PUT and PATCH.
// DELETE requests carry no payload.
func (c *Client) Do(ctx context.Context, method, path string, payload any) *Envelope {
	method = strings.ToUpper(method)
	start := time.Now()
	requestID := uuid.New().String()

	env := c.do(ctx, method, path, payload, requestID)

	elapsed := time.Since(start)
	c.metrics.Observe(method, outcome(env), elapsed)
	c.logger.Debug("api request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Bool("success", env.Success),
		zap.Int("status", env.StatusCode),
		zap.Stringer("kind", env.Kind),
		zap.Duration("duration", elapsed),
	)
	return env
}

func (c *Client) do(ctx context.Context, method, path string, payload any, requestID string) *Envelope {
	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return fromRejection(method, path, 0, nil, err)
	}
	req.Header.Set(RequestIDHeader, requestID)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fromRejection(method, path, 0, nil, fmt.Errorf("rate limit wait: %w", err))
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fromRejection(method, path, 0, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fromRejection(method, path, resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fromRejection(method, path, resp.StatusCode, body,
			fmt.Errorf("request failed with status code %d", resp.StatusCode))
	}
	return fromResponse(method, path, body)
}

// newRequest builds the HTTP request and attaches the bearer token when one is available
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	target := c.baseURL + path

	var (
		body        io.Reader
		contentType = "application/json"
	)
	switch p := payload.(type) {
	case nil:
	case *Form:
		if method == http.MethodGet || method == http.MethodDelete {
			break
		}
		buf, ct, err := p.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	default:
		switch method {
		case http.MethodGet:
			query, err := queryValues(payload)
			if err != nil {
				return nil, err
			}
			if encoded := query.Encode(); encoded != "" {
				target += "?" + encoded
			}
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			b, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			body = bytes.NewReader(b)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func queryValues(payload any) (url.Values, error) {
	switch p := payload.(type) {
	case url.Values:
		return p, nil
	case map[string]string:
		q := url.Values{}
		for k, v := range p {
			q.Set(k, v)
		}
		return q, nil
	case map[string]any:
		q := url.Values{}
		for k, v := range p {
			if v == nil {
				continue
			}
			q.Set(k, fmt.Sprint(v))
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unsupported query parameters type %T", payload)
	}
}

func outcome(env *Envelope) string {
	switch {
	case env.Success:
		return metrics.OutcomeSuccess
	case env.Kind == KindTransportFailure:
		return metrics.OutcomeTransportError
	default:
		return metrics.OutcomeBackendFailure
	}
}
