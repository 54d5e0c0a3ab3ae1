// Package ntvmr fetches collation apparatus XML from the New Testament
// Virtual Manuscript Room API, with a local response cache for repeat
// conversions and an offline mode that serves from the cache alone.
package ntvmr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vmr2tei/core/errors"
	"vmr2tei/internal/logging"
)

// DefaultBaseURL is the NTVMR apparatus endpoint.
const DefaultBaseURL = "https://ntvmr.uni-muenster.de/community/vmr/api/variant/apparatus/get/"

// Client fetches apparatus documents from the NTVMR API.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	cache      *Cache
	offline    bool
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the apparatus endpoint.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithCache attaches a response cache.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// WithOffline makes the client serve from the cache only, accepting
// stale entries rather than touching the network.
func WithOffline(offline bool) ClientOption {
	return func(c *Client) { c.offline = offline }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an apparatus client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "vmr2tei/1.0",
		baseURL:   DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ApparatusURL builds the request URL for a content index.
func (c *Client) ApparatusURL(index string) string {
	q := url.Values{}
	q.Set("indexContent", index)
	q.Set("positiveConversion", "true")
	q.Set("buildA", "false")
	q.Set("format", "xml")
	return c.baseURL + "?" + q.Encode()
}

// FetchApparatus returns the apparatus XML for a content index. Fresh
// cache entries short-circuit the network; in offline mode stale entries
// are accepted and a miss is fatal.
func (c *Client) FetchApparatus(ctx context.Context, index string) ([]byte, error) {
	reqURL := c.ApparatusURL(index)
	if c.cache != nil {
		body, err := c.cache.Get(reqURL, c.offline)
		if err == nil {
			logging.ApparatusFetch(index, reqURL, true, len(body))
			return body, nil
		}
		if !errors.Is(err, errors.ErrCacheMiss) {
			return nil, err
		}
	}
	if c.offline {
		return nil, fmt.Errorf("offline and no cached apparatus for %s: %w",
			index, errors.ErrCacheMiss)
	}

	body, err := c.download(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Put(reqURL, body); err != nil {
			logging.Warn("apparatus cache write failed", "index", index, "error", err)
		}
	}
	logging.ApparatusFetch(index, reqURL, false, len(body))
	return body, nil
}

func (c *Client) download(ctx context.Context, reqURL string) ([]byte, error) {
	if !strings.HasPrefix(reqURL, "http://") && !strings.HasPrefix(reqURL, "https://") {
		return nil, fmt.Errorf("unsupported URL scheme: %s", reqURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &errors.HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        reqURL,
		}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}
