// Package lastfm provides the Last.fm API client used by the backend.
package lastfm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	userAgent      = "moodfm/1.0"
)

// Common Last.fm error codes.
const (
	ErrCodeAuthenticationFailed = 4
	ErrCodeInvalidParameters    = 6
	ErrCodeInvalidSessionKey    = 9
	ErrCodeInvalidAPIKey        = 10
	ErrCodeInvalidSignature     = 13
	ErrCodeRateLimitExceeded    = 29
)

// ErrMalformedResponse is returned when a success envelope is missing
// fields the backend depends on.
var ErrMalformedResponse = errors.New("lastfm: malformed response")

// APIError is an error envelope returned by the Last.fm API.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm: error %d: %s", e.Code, e.Message)
}

// Config holds client configuration.
type Config struct {
	APIKey     string
	APISecret  string
	BaseURL    string       // Optional: overridden in tests
	HTTPClient *http.Client // Optional
}

// Client wraps outbound calls to the Last.fm API.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Last.fm API client from the provided configuration.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// get performs a key-qualified GET request. The api_key and format
// parameters are added here.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// postSigned performs a signed form-encoded POST request. The api_key and
// api_sig parameters are added here; params must not contain them.
func (c *Client) postSigned(ctx context.Context, params map[string]string) ([]byte, error) {
	form, err := c.signedValues(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// getSigned performs a signed GET request, used for session-key-qualified
// read endpoints like user.getInfo.
func (c *Client) getSigned(ctx context.Context, params map[string]string) ([]byte, error) {
	q, err := c.signedValues(params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// signedValues builds the wire parameters for a signed call: api_key is
// merged in, api_sig is computed over the merged set, and format=json is
// added afterwards (format is excluded from the signature per the
// Last.fm spec).
func (c *Client) signedValues(params map[string]string) (url.Values, error) {
	signed := make(map[string]string, len(params)+1)
	for k, v := range params {
		if v == "" {
			return nil, fmt.Errorf("lastfm: empty value for parameter %q", k)
		}
		signed[k] = v
	}
	signed["api_key"] = c.apiKey

	out := url.Values{}
	for k, v := range signed {
		out.Set(k, v)
	}
	out.Set("api_sig", Sign(signed, c.apiSecret))
	out.Set("format", "json")
	return out, nil
}

// do executes the request and distinguishes the error envelope from
// success payloads before the caller parses anything.
func (c *Client) do(req *http.Request) ([]byte, error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if apiErr := parseErrorEnvelope(body); apiErr != nil {
		return nil, apiErr
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return body, nil
}
