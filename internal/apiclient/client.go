// Package apiclient is the HTTP gateway to the job-board REST backend.
// It attaches the persisted bearer token, encodes JSON bodies and query params, and handles 401 centrally.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultTimeout  = 15 * time.Second
	instrumentation = "github.com/prabhakarsharma95/Nexus-Frontend/internal/apiclient"
)

// TokenSource supplies the persisted bearer token and clears persisted credentials on 401.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}

// Client calls the backend. It is safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens   TokenSource
	requests metric.Int64Counter

	mu             sync.RWMutex
	onUnauthorized []func()
}

// New returns a client for baseURL (e.g. https://host/api). tokens may be nil for anonymous use.
// The transport is wrapped with otelhttp so every call is traced by the global TracerProvider.
func New(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens: tokens,
	}
	counter, err := otel.Meter(instrumentation).Int64Counter("nexus.api.requests",
		metric.WithDescription("Backend requests by method and status code"))
	if err != nil {
		log.Printf("apiclient: request counter: %v", err)
	} else {
		c.requests = counter
	}
	return c
}

// OnUnauthorized registers fn to run after any 401 response (once persisted credentials are cleared).
// Hooks run in registration order on the calling goroutine.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

type requestOptions struct {
	silent    bool
	anonymous bool
}

// RequestOption adjusts a single call.
type RequestOption func(*requestOptions)

// Silent keeps the 401 handling to clearing persisted credentials; unauthorized hooks are not run.
// Used by startup rehydration, where an expired session is not an event worth navigating for.
func Silent() RequestOption {
	return func(o *requestOptions) { o.silent = true }
}

// Anonymous sends the request without the bearer token. A 401 then leaves the session alone.
// Used by the credential exchanges and the health ping.
func Anonymous() RequestOption {
	return func(o *requestOptions) { o.anonymous = true }
}

// Do sends method path with an optional JSON body and query params, decoding a 2xx JSON response into out (if non-nil).
// Non-2xx responses return *APIError. There are no retries.
func (c *Client) Do(ctx context.Context, method, path string, body any, params url.Values, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encode body: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil && !o.anonymous {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("apiclient: read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.count(ctx, method, 0)
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.count(ctx, method, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("apiclient: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !o.anonymous {
		c.unauthorized(ctx, o.silent)
		return newAPIError(resp.StatusCode, raw)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("apiclient: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) unauthorized(ctx context.Context, silent bool) {
	if c.tokens != nil {
		// Clearing must survive a canceled request context.
		if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
			log.Printf("apiclient: clear credentials after 401: %v", err)
		}
	}
	if silent {
		return
	}
	c.mu.RLock()
	hooks := append([]func(){}, c.onUnauthorized...)
	c.mu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

func (c *Client) count(ctx context.Context, method string, code int) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.response.status_code", strconv.Itoa(code)),
	))
}
