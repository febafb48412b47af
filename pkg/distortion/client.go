package distortion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/distortviz/pkg/buildinfo"
	"github.com/matzehuels/distortviz/pkg/cache"
	errs "github.com/matzehuels/distortviz/pkg/errors"
	"github.com/matzehuels/distortviz/pkg/httputil"
	"github.com/matzehuels/distortviz/pkg/observability"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 32 << 20

// Distorter fetches a raw distortion response.
type Distorter interface {
	Distort(ctx context.Context, req Request) (string, error)
}

// Client calls the distortion service over HTTP.
type Client struct {
	endpoint string
	http     *http.Client
	retry    httputil.Policy
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRetry sets the retry policy. The default is a single attempt.
func WithRetry(p httputil.Policy) Option {
	return func(cl *Client) { cl.retry = p }
}

// WithCache caches successful responses for ttl (0 = forever).
func WithCache(c cache.Cache, keyer cache.Keyer, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		if keyer != nil {
			cl.keyer = keyer
		}
		cl.ttl = ttl
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// NewClient creates a client for the service at endpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if err := errs.ValidateURL(endpoint); err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: endpoint,
		http:     httputil.NewHTTPClient(0),
		retry:    httputil.Policy{Attempts: 1},
		cache:    cache.NewNullCache(),
		keyer:    cache.NewDefaultKeyer(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the service URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Distort sends req and returns the raw response body.
func (c *Client) Distort(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	form := req.Form()
	key := c.keyer.DistortionKey(c.endpoint, form)

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "distortion")
		c.logger.Debug("distortion cache hit", "k", req.K, "measure", req.Measure, "region", req.Region)
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "distortion")

	var body string
	err := c.retry.Do(ctx, func() error {
		var err error
		body, err = c.post(ctx, form)
		return err
	})
	if err != nil {
		return "", classify(err)
	}

	if err := c.cache.Set(ctx, key, []byte(body), c.ttl); err != nil {
		c.logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "distortion", len(body))
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	host, path := req.URL.Host, req.URL.Path
	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		c.logger.Debug("distortion request failed", "host", host, "err", err)
		return "", httputil.Retryable(err)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))
	c.logger.Debug("distortion response", "status", resp.StatusCode, "took", time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", httputil.Retryable(err)
	}
	return string(data), nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("status %d", code))
	default:
		return fmt.Errorf("status %d", code)
	}
}

// classify converts transport failures into the error taxonomy.
func classify(err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return errs.Wrap(errs.ErrCodeNetwork, err, "distortion service timed out")
	}
	return errs.Wrap(errs.ErrCodeNetwork, err, "distortion service")
}

var _ Distorter = (*Client)(nil)
