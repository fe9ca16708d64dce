package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusPath is the path of the upload status resource on the instance.
const StatusPath = "/api/sbom/core/upload/status"

const maxResponseBodySize = 1 << 20 // 1MB

const defaultRequestTimeout = 30 * time.Second

// connection pooling limits; a run only ever talks to one host
const (
	defaultMaxIdleConns        = 10
	defaultMaxIdleConnsPerHost = 2
	defaultIdleConnTimeout     = 60 * time.Second
)

// Response holds the raw result of one status request made by [Client].
type Response struct {
	// Body contains the HTTP response body, limited to 1MB.
	Body []byte

	// StatusCode is the HTTP status code.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// Error contains any error that occurred during the request.
	Error error
}

// Config holds the connection settings for [Client].
type Config struct {
	// BaseURL is the instance URL, e.g. https://example.service-now.com.
	BaseURL string

	// Username and Password are sent as HTTP basic auth.
	Username string
	Password string

	// Timeout bounds a single request. Defaults to 30s.
	Timeout time.Duration
}

// Client fetches upload status documents over HTTP.
//
// Client performs exactly one request per call. It never retries.
type Client struct {
	httpClient *http.Client
	config     Config
	base       *url.URL
}

// NewClient creates a [Client] from cfg.
//
// Returns an error if BaseURL is empty, unparsable, or not http(s).
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base URL scheme must be http or https, got %q", base.Scheme)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRequestTimeout
	}

	return &Client{
		httpClient: &http.Client{
			// no client timeout; each request gets its own context deadline
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		config: cfg,
		base:   base,
	}, nil
}

// StatusURL returns the status URL for bomRecordID on the instance at base.
// Any path on base is replaced by [StatusPath].
func StatusURL(base *url.URL, bomRecordID string) string {
	u := *base
	u.Path = StatusPath
	u.RawPath = ""
	u.Fragment = ""
	u.RawQuery = url.Values{"bomRecordId": []string{bomRecordID}}.Encode()
	return u.String()
}

// Fetch performs the status request for bomRecordID and returns a raw [Response].
//
// Fetch always returns a Response; errors are captured in the Error field.
func (c *Client) Fetch(ctx context.Context, bomRecordID string) Response {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, StatusURL(c.base, bomRecordID), nil)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.config.Username, c.config.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Response{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Status fetches and decodes the status of bomRecordID.
//
// A non-2xx response is accepted only if it decodes to a result that carries
// an error status; the caller decides what to do with that. Anything else
// that is not a decodable result is returned as an error.
func (c *Client) Status(ctx context.Context, bomRecordID string) (*Result, time.Duration, error) {
	resp := c.Fetch(ctx, bomRecordID)
	if resp.Error != nil {
		return nil, resp.Latency, resp.Error
	}

	result, err := Decode(resp.Body)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if err != nil {
		if !ok {
			return nil, resp.Latency, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(resp.Body, 200))
		}
		return nil, resp.Latency, err
	}
	if !ok && result.Status != "error" {
		return nil, resp.Latency, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(resp.Body, 200))
	}
	return result, resp.Latency, nil
}

// Decode parses a status response body.
func Decode(body []byte) (*Result, error) {
	var rb ResponseBody
	if err := json.Unmarshal(body, &rb); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	if rb.Result == nil {
		return nil, errors.New("status response has no result")
	}
	return rb.Result, nil
}

// Close closes idle connections in the client's pool.
// Safe to call multiple times and on a nil Client.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
