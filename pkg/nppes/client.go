// Package nppes provides a client for the CMS NPPES NPI Registry API.
package nppes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
)

const (
	// DefaultBaseURL is the public NPPES registry search endpoint.
	DefaultBaseURL = "https://npiregistry.cms.hhs.gov/api/"
	// DefaultVersion is the registry API protocol version sent with every query.
	DefaultVersion = "2.1"
	// DefaultTimeout bounds a whole search request, connect through body read.
	DefaultTimeout = 10 * time.Second
)

// Client defines the NPPES registry operations.
type Client interface {
	// Search queries the registry for a single NPI number. A non-200 response
	// is returned as a *StatusError.
	Search(ctx context.Context, number string) (*SearchResponse, error)
}

// Option configures the NPPES client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithVersion overrides the protocol version query parameter.
func WithVersion(v string) Option {
	return func(c *httpClient) {
		c.version = v
	}
}

// WithTimeout sets the whole-request timeout. A supplied HTTP client is
// copied rather than modified.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.timeout = d
			c.timeoutSet = true
		}
	}
}

// WithHTTPClient sets a custom HTTP client. A client without a Timeout gets
// DefaultTimeout, or the WithTimeout value when given.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL    string
	version    string
	timeout    time.Duration
	timeoutSet bool
	http       *http.Client
}

// NewClient creates a new NPPES registry client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		version: DefaultVersion,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.http == nil:
		c.http = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	case c.http.Timeout == 0 || c.timeoutSet:
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, number string) (*SearchResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, eris.Wrap(err, "nppes: parse base url")
	}
	params := u.Query()
	params.Set("number", number)
	params.Set("version", c.version)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nppes: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nppes: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nppes: read response body")
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "nppes: unmarshal response")
	}

	return &result, nil
}
