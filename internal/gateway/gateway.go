// Package gateway provides resilient HTTP fetching for the application.
// Every network-touching component routes through it. A network-level
// failure on a direct GET is retried once through a public CORS-style
// relay; HTTP error statuses are returned as-is since a relay cannot fix
// a server-side error.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// Default configuration values.
const (
	defaultUserAgent      = "SchemaMarkupGenerator/1.0"
	defaultRequestTimeout = 30 * time.Second
	defaultProxyURL       = "https://api.allorigins.win/raw?url="
)

// maxResponseBodyBytes limits the size of fetched responses.
const maxResponseBodyBytes = 10 * 1024 * 1024 // 10 MB

// Config holds gateway configuration.
type Config struct {
	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// RequestTimeout bounds each attempt, direct or proxied.
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	// ProxyURL is the relay prefix used for the fallback attempt. The
	// target URL is query-escaped and appended. Empty disables fallback.
	ProxyURL string `yaml:"proxy_url" mapstructure:"proxy_url"`
}

// WithDefaults returns a copy of the config with default values applied
// for zero-value fields.
func (c Config) WithDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ProxyURL == "" {
		c.ProxyURL = defaultProxyURL
	}
	return c
}

// NetworkError reports that both the direct attempt and the proxy
// fallback failed at the network level.
type NetworkError struct {
	URL string
	Err error
}

// Error returns the error message.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client is the shared HTTP gateway.
type Client struct {
	httpClient *http.Client
	userAgent  string
	proxyURL   string
	log        logger.Interface
}

// New creates a gateway client.
func New(cfg Config, log logger.Interface) *Client {
	cfg = cfg.WithDefaults()
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		userAgent:  cfg.UserAgent,
		proxyURL:   cfg.ProxyURL,
		log:        log,
	}
}

// HTTPClient exposes the underlying client for libraries that take one,
// so their calls share the gateway's timeout.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Fetch issues a GET for rawURL. The direct attempt is always tried
// first. A network-level failure triggers exactly one retry through the
// relay; a second failure yields a NetworkError. HTTP 4xx/5xx responses
// are returned to the caller unchanged. The caller owns the response
// body.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	resp, directErr := c.get(ctx, rawURL)
	if directErr == nil {
		return resp, nil
	}

	if c.proxyURL == "" {
		return nil, &NetworkError{URL: rawURL, Err: directErr}
	}

	c.log.Debug("direct fetch failed, retrying via proxy", "url", rawURL, "error", directErr.Error())

	resp, proxyErr := c.get(ctx, c.proxyURL+url.QueryEscape(rawURL))
	if proxyErr != nil {
		return nil, &NetworkError{URL: rawURL, Err: directErr}
	}
	return resp, nil
}

// FetchBody issues a GET for rawURL and reads the full response body,
// capped at 10 MB. The status code is returned alongside the body so
// callers can route on HTTP errors themselves.
func (c *Client) FetchBody(ctx context.Context, rawURL string) ([]byte, int, error) {
	resp, err := c.Fetch(ctx, rawURL)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", readErr)
	}
	return body, resp.StatusCode, nil
}

// Do sends an arbitrary request through the gateway's client. No proxy
// fallback is attempted: authenticated or mutating requests must not
// transit a third-party relay.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// get performs one GET attempt.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	return c.httpClient.Do(req)
}
