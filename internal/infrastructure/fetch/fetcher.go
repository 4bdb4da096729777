package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"pagelens/internal/domain"
	"pagelens/internal/ports"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultMaxBody   = int64(10 << 20)
	defaultUserAgent = "PageLens/1.0"

	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// Options tunes the fetcher; zero values fall back to defaults.
type Options struct {
	Timeout      time.Duration
	MaxRetries   uint64
	MaxBodyBytes int64
	UserAgent    string
}

// Client fetches raw page content over HTTP with a bounded timeout and a
// capped exponential-backoff retry for transient failures.
type Client struct {
	client     *http.Client
	maxRetries uint64
	maxBody    int64
	userAgent  string
}

var _ ports.Fetcher = (*Client)(nil)

// New builds a Client; pass a nil http.Client to get one with the
// configured timeout.
func New(httpClient *http.Client, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		client:     httpClient,
		maxRetries: opts.MaxRetries,
		maxBody:    opts.MaxBodyBytes,
		userAgent:  opts.UserAgent,
	}
}

// NormalizeURL prefixes a missing scheme with https:// and validates that
// the result is an absolute http/https URL with a host.
func NormalizeURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", &domain.ValidationError{Field: "url", Reason: "empty"}
	}

	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", &domain.ValidationError{Field: "url", Reason: err.Error()}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &domain.ValidationError{Field: "url", Reason: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return "", &domain.ValidationError{Field: "url", Reason: "missing host"}
	}

	return parsed.String(), nil
}

// Fetch normalizes the URL and retrieves the response body plus its
// declared content type. 4xx responses fail immediately; 5xx and network
// errors are retried up to MaxRetries times.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	pageURL, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	operation := func() (*domain.Page, error) {
		return c.fetchOnce(ctx, pageURL)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initialBackoff
	b.MaxInterval = maxBackoff

	page, err := backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*domain.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, backoff.Permanent(&domain.FetchError{URL: pageURL, Err: err})
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &domain.FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fetchErr := &domain.FetchError{
			URL:        pageURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
		// Client errors will not heal on retry; server errors might.
		if resp.StatusCode < http.StatusInternalServerError {
			return nil, backoff.Permanent(fetchErr)
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return nil, &domain.FetchError{URL: pageURL, Err: fmt.Errorf("read body: %w", err)}
	}

	return &domain.Page{
		URL:         pageURL,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
