package nekoapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cacaonk0027/neekuro/pkg/buildinfo"
	errs "github.com/cacaonk0027/neekuro/pkg/errors"
	"github.com/cacaonk0027/neekuro/pkg/observability"
)

// DefaultBaseURL is the SFW root of the gif API.
const DefaultBaseURL = "http://localhost:449/api/sfw"

const (
	httpTimeout = 10 * time.Second
	maxBodySize = 1 << 20
)

// NewHTTPClient creates an HTTP client with the standard request timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// Client issues authenticated GET requests against the gif API.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
	headers map[string]string
	hooks   observability.HTTPHooks
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides [DefaultBaseURL]. A trailing slash is dropped.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTokenSource sets where the Authorization token is read from. The source
// is consulted on every request.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithToken uses a fixed token.
func WithToken(token string) ClientOption {
	return WithTokenSource(StaticToken(token))
}

// WithHooks sets the HTTP hooks. Without it the globally registered
// [observability.HTTP] hooks are used.
func WithHooks(h observability.HTTPHooks) ClientOption {
	return func(c *Client) {
		c.hooks = h
	}
}

// NewClient creates a Client. Without a token source requests are sent with an
// empty Authorization header and the API answers 401.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:    NewHTTPClient(),
		baseURL: DefaultBaseURL,
		tokens:  StaticToken(""),
		headers: map[string]string{
			"Content-Type": "application/json",
			"User-Agent":   buildinfo.UserAgent(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are made against.
func (c *Client) BaseURL() string { return c.baseURL }

// Get performs GET baseURL+endpoint and JSON-decodes a 2xx body into v.
// Non-2xx answers and transport failures are returned as API_ERROR values.
// v may be nil to discard the body.
func (c *Client) Get(ctx context.Context, endpoint string, v any) error {
	target := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return errs.API(endpoint, "", 0, errs.APIBody{}, err)
	}
	for k, val := range c.headers {
		req.Header.Set(k, val)
	}
	req.Header.Set("Authorization", c.tokens.Token())

	hooks := c.httpHooks()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return errs.API(endpoint, "", 0, errs.APIBody{}, err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return errs.API(endpoint, target, resp.StatusCode, errs.APIBody{}, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiBody errs.APIBody
		_ = json.Unmarshal(body, &apiBody)
		return errs.API(endpoint, target, resp.StatusCode, apiBody, nil)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errs.API(endpoint, target, resp.StatusCode, errs.APIBody{}, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) httpHooks() observability.HTTPHooks {
	if c.hooks != nil {
		return c.hooks
	}
	return observability.HTTP()
}
