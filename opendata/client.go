package opendata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/tgvmax-map/metrics"
)

// Page is one response page of the records endpoint.
type Page struct {
	TotalCount int               `json:"total_count"`
	Results    []json.RawMessage `json:"results"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Temporary reports whether the request may succeed if repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client is an HTTP client for the explore API records endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
	metrics    *metrics.Registry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetry sets the number of retries after the first attempt and the
// fixed delay between attempts.
func WithRetry(retries int, delay time.Duration) Option {
	return func(c *Client) {
		if retries < 0 {
			retries = 0
		}
		c.retries = retries
		c.retryDelay = delay
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metrics.Registry) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for the API rooted at baseURL,
// e.g. https://ressources.data.sncf.com/api/explore/v2.1
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		retries:    3,
		retryDelay: time.Second,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RecordsURL returns the records endpoint of a dataset with the given query parameters.
func (c *Client) RecordsURL(dataset string, params url.Values) string {
	u := c.baseURL + "/catalog/datasets/" + url.PathEscape(dataset) + "/records"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Get fetches one page of a dataset. Network errors, 429 and 5xx
// responses are retried; other failures are returned immediately.
func (c *Client) Get(ctx context.Context, dataset string, params url.Values) (*Page, error) {
	u := c.RecordsURL(dataset, params)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.metrics.RecordRetry(dataset)
			c.logger.Debug("retrying page request",
				zap.String("dataset", dataset),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
			if err := sleep(ctx, c.retryDelay); err != nil {
				return nil, err
			}
		}

		page, err := c.get(ctx, u)
		if err == nil {
			return page, nil
		}
		if !retryable(ctx, err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.retries+1, lastErr)
}

func (c *Client) get(ctx context.Context, u string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: u}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", u, err)
	}
	return &page, nil
}

func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var syntaxErr *json.SyntaxError
	return !errors.As(err, &syntaxErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
