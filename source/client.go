package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

const (
	apiPrefix       = "/wp-json/wp/v2/"
	defaultTimeout  = 15 * time.Second
	defaultMaxTries = 3
	maxBodySize     = 8 << 20 // 8MB
)

// ErrNotFound is returned when the API has no record for a query.
var ErrNotFound = errors.New("source: not found")

// HTTPError is a non-2xx response from the API.
type HTTPError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("source: %s returned %d: %s", e.Endpoint, e.Status, e.Body)
}

// Response is a raw API response plus the pagination headers.
type Response struct {
	Body       []byte `json:"body"`
	Total      int    `json:"total"`
	TotalPages int    `json:"total_pages"`
}

// Cache stores raw API responses keyed by endpoint and query.
type Cache interface {
	Get(ctx context.Context, key string) (Response, bool, error)
	Set(ctx context.Context, key string, resp Response) error
	Purge(ctx context.Context) error
}

// Client performs GET requests against the WordPress REST API.
type Client struct {
	baseURL  string
	http     *http.Client
	cache    Cache
	log      *zap.Logger
	metrics  *Metrics
	maxTries uint
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithCache puts cache in front of every request.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// WithMetrics records request outcomes.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// WithMaxTries sets how many attempts a request gets before failing.
func WithMaxTries(n uint) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

// NewClient creates a Client for the WordPress site at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		log:      zap.NewNop(),
		maxTries: defaultMaxTries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the site URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get requests endpoint (e.g. "posts") with params. Responses are served from
// the cache when present. 5xx and transport errors are retried with
// exponential backoff; 4xx errors are not.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) (Response, error) {
	key := endpoint
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if c.cache != nil {
		resp, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.metrics.cacheHit()
			return resp, nil
		}
	}

	reqURL := c.baseURL + apiPrefix + key
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	start := time.Now()
	resp, err := backoff.Retry(ctx, func() (Response, error) {
		return c.do(ctx, endpoint, reqURL)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(c.maxTries))
	c.metrics.observe(endpoint, err, time.Since(start))
	if err != nil {
		return Response{}, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, resp); err != nil {
			c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, endpoint, reqURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return Response{}, backoff.Permanent(fmt.Errorf("source: build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("url", reqURL), zap.Error(err))
		return Response{}, fmt.Errorf("source: get %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return Response{}, fmt.Errorf("source: read %s: %w", endpoint, err)
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return Response{}, backoff.Permanent(fmt.Errorf("%w: %s", ErrNotFound, endpoint))
	case res.StatusCode >= 500:
		return Response{}, &HTTPError{Endpoint: endpoint, Status: res.StatusCode, Body: snippet(body)}
	case res.StatusCode >= 400:
		return Response{}, backoff.Permanent(&HTTPError{Endpoint: endpoint, Status: res.StatusCode, Body: snippet(body)})
	}

	return Response{
		Body:       body,
		Total:      headerInt(res.Header, "X-WP-Total"),
		TotalPages: headerInt(res.Header, "X-WP-TotalPages"),
	}, nil
}

func headerInt(h http.Header, name string) int {
	n, err := strconv.Atoi(h.Get(name))
	if err != nil {
		return 0
	}
	return n
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max]
	}
	return s
}
