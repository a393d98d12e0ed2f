// Package remote retrieves YAML documents (scheme and template lists, scheme
// files, template configurations) over HTTP.
package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

const githubHost = "github.com"

// List maps a scheme or template name to its repository URL.
type List map[string]string

// Limiter paces outgoing requests.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Fetcher retrieves remote documents.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	FetchList(ctx context.Context, url string) (List, error)
	FetchYAML(ctx context.Context, url string, dest any) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Its transport is
// wrapped with request logging.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithLimiter overrides the request limiter (primarily for tests).
func WithLimiter(limiter Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithRateLimit paces requests with a token bucket. A non-positive rate disables pacing.
func WithRateLimit(ratePerSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = newTokenBucketLimiter(ratePerSecond, burst)
	}
}

// Client performs sequential, blocking GET requests.
type Client struct {
	http    *http.Client
	limiter Limiter
	logger  *zap.Logger
}

// NewClient constructs a Client logging requests through logger.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:   &http.Client{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	wrapped := *c.http
	wrapped.Transport = newLoggingTransport(c.logger, c.http.Transport)
	c.http = &wrapped

	return c
}

// Fetch retrieves url and returns its body. Any non-2xx status is returned as
// a *StatusError holding the response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{URL: url, StatusCode: res.StatusCode, Body: string(body)}
	}

	return body, nil
}

// FetchYAML retrieves url and decodes its body into dest. Decoding failures
// are returned as a *DecodeError.
func (c *Client) FetchYAML(ctx context.Context, url string, dest any) error {
	body, err := c.Fetch(ctx, url)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(body, dest); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

// FetchList retrieves a list document mapping names to repository URLs.
func (c *Client) FetchList(ctx context.Context, url string) (List, error) {
	var list List
	if err := c.FetchYAML(ctx, url, &list); err != nil {
		return nil, err
	}
	if list == nil {
		list = List{}
	}
	return list, nil
}

// ParseGitHubRepositoryURL extracts the user and repository from a URL of the
// form https://github.com/<user>/<repository>.
func ParseGitHubRepositoryURL(raw string) (user, repository string, err error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), githubHost) {
		return "", "", fmt.Errorf("%w: %s", ErrUnhandledRepositoryURL, raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %s", ErrUnhandledRepositoryURL, raw)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

type tokenBucketLimiter struct {
	limiter *rate.Limiter
}

func newTokenBucketLimiter(ratePerSecond float64, burst int) Limiter {
	if ratePerSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	return &tokenBucketLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

func (l *tokenBucketLimiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
