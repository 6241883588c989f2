// Package wordpress writes generated schema back into a WordPress site
// through its REST API. The schema lands in a custom meta field; the
// rendering of that field into page markup belongs to server-side code
// the site owner installs separately.
package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Papalexios/schema-markup-generator/internal/gateway"
	"github.com/Papalexios/schema-markup-generator/internal/logger"
)

// MetaFieldKey is the custom meta field the schema is written into.
const MetaFieldKey = "ai_generated_schema"

// contentTypes are the REST collections tried, in order, both for slug
// lookup and for the metadata update.
var contentTypes = []string{"posts", "pages"}

// Credentials authenticate against the WordPress REST API. The
// application password is relayed verbatim with every call.
type Credentials struct {
	// SiteURL is the WordPress site root, e.g. https://example.com.
	SiteURL string `yaml:"site_url" mapstructure:"site_url"`
	// Username of the WordPress account.
	Username string `yaml:"username" mapstructure:"username"`
	// AppPassword is a WordPress application password for that account.
	AppPassword string `yaml:"app_password" mapstructure:"app_password"`
}

// Validate checks that all credential fields are present.
func (c Credentials) Validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("wordpress: site_url is required")
	}
	if c.Username == "" {
		return fmt.Errorf("wordpress: username is required")
	}
	if c.AppPassword == "" {
		return fmt.Errorf("wordpress: app_password is required")
	}
	return nil
}

// SiteIdentity returns the host part of the site URL, used to
// namespace the cache.
func (c Credentials) SiteIdentity() string {
	parsed, err := url.Parse(c.SiteURL)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(c.SiteURL, "/")
	}
	return parsed.Host
}

// CredentialError reports that WordPress rejected the credentials or
// the credential check could not complete. Always fatal to a run.
type CredentialError struct {
	Err error
}

// Error returns the error message.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("wordpress credentials: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// InjectionError reports a failed schema write for one page.
type InjectionError struct {
	PageURL string
	Err     error
}

// Error returns the error message.
func (e *InjectionError) Error() string {
	return fmt.Sprintf("inject %s: %v", e.PageURL, e.Err)
}

// Unwrap returns the underlying error.
func (e *InjectionError) Unwrap() error {
	return e.Err
}

// apiError is the WordPress REST error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// contentObject is the slice of a content response the injector needs.
type contentObject struct {
	ID int `json:"id"`
}

// Client talks to one WordPress site.
type Client struct {
	creds   Credentials
	gateway *gateway.Client
	log     logger.Interface
}

// New creates a WordPress client.
func New(creds Credentials, gw *gateway.Client, log logger.Interface) *Client {
	return &Client{creds: creds, gateway: gw, log: log.WithComponent("wordpress")}
}

// ValidateCredentials performs the cheapest authenticated call the API
// supports. Any failure is a CredentialError.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	status, _, err := c.request(ctx, http.MethodGet, c.apiURL("users/me"), nil)
	if err != nil {
		return &CredentialError{Err: err}
	}
	if status != http.StatusOK {
		return &CredentialError{Err: fmt.Errorf("http status %d", status)}
	}
	return nil
}

// Inject resolves pageURL to a content object and writes the
// serialized schema into its meta field. The returned error is always
// an InjectionError; the caller records it per item.
func (c *Client) Inject(ctx context.Context, pageURL string, schema map[string]any) error {
	slug := slugFromURL(pageURL)
	if slug == "" {
		return &InjectionError{PageURL: pageURL, Err: fmt.Errorf("no slug in URL")}
	}

	id, err := c.resolveID(ctx, slug)
	if err != nil {
		return &InjectionError{PageURL: pageURL, Err: err}
	}

	serialized, err := json.Marshal(schema)
	if err != nil {
		return &InjectionError{PageURL: pageURL, Err: fmt.Errorf("encode schema: %w", err)}
	}

	if err := c.writeMeta(ctx, id, string(serialized)); err != nil {
		return &InjectionError{PageURL: pageURL, Err: err}
	}

	c.log.Info("schema injected", "url", pageURL, "content_id", id)
	return nil
}

// resolveID finds the content object id for a slug, trying posts then
// pages. The first collection with a match wins.
func (c *Client) resolveID(ctx context.Context, slug string) (int, error) {
	for _, contentType := range contentTypes {
		lookupURL := c.apiURL(contentType) + "?slug=" + url.QueryEscape(slug)

		status, body, err := c.request(ctx, http.MethodGet, lookupURL, nil)
		if err != nil {
			return 0, err
		}
		if status != http.StatusOK {
			continue
		}

		var objects []contentObject
		if err := json.Unmarshal(body, &objects); err != nil {
			return 0, fmt.Errorf("decode %s lookup: %w", contentType, err)
		}
		if len(objects) > 0 {
			return objects[0].ID, nil
		}
	}
	return 0, fmt.Errorf("no post or page found for slug %q", slug)
}

// writeMeta updates the meta field, trying each content type in order.
// The id may belong to either collection, so a 404 falls through to
// the next candidate; any other error status is fatal and carries the
// API's own message.
func (c *Client) writeMeta(ctx context.Context, id int, serialized string) error {
	payload, err := json.Marshal(map[string]any{
		"meta": map[string]string{MetaFieldKey: serialized},
	})
	if err != nil {
		return fmt.Errorf("encode meta payload: %w", err)
	}

	for _, contentType := range contentTypes {
		updateURL := fmt.Sprintf("%s/%d", c.apiURL(contentType), id)

		status, body, reqErr := c.request(ctx, http.MethodPost, updateURL, payload)
		if reqErr != nil {
			return reqErr
		}

		switch {
		case status >= http.StatusOK && status < http.StatusMultipleChoices:
			return nil
		case status == http.StatusNotFound:
			continue
		default:
			return fmt.Errorf("update %s/%d: %s", contentType, id, apiMessage(body, status))
		}
	}
	return fmt.Errorf("content id %d not found under any content type", id)
}

// request performs one authenticated API call and returns the status
// and body.
func (c *Client) request(ctx context.Context, method, rawURL string, body []byte) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+c.basicAuth())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.gateway.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// basicAuth encodes the credentials for the Authorization header.
func (c *Client) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(c.creds.Username + ":" + c.creds.AppPassword))
}

// apiURL builds a wp/v2 endpoint URL.
func (c *Client) apiURL(path string) string {
	return strings.TrimRight(c.creds.SiteURL, "/") + "/wp-json/wp/v2/" + path
}

// apiMessage extracts the API's error message, falling back to the
// status code.
func apiMessage(body []byte, status int) string {
	var parsed apiError
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fmt.Sprintf("http status %d", status)
}

// slugFromURL extracts the last non-empty path segment.
func slugFromURL(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return ""
}
