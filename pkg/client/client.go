// Package client provides the core Nuclino HTTP client with rate limiting,
// error mapping, and optional response caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nuclino-community/nuclino-go/pkg/cache"
	"github.com/nuclino-community/nuclino-go/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public Nuclino API endpoint.
const DefaultBaseURL = "https://api.nuclino.com/v0"

// DefaultTimeout bounds a single HTTP round trip.
const DefaultTimeout = 30 * time.Second

// Prometheus metrics for client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuclino_requests_total",
		Help: "Total Nuclino API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nuclino_request_duration_seconds",
		Help:    "Nuclino API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuclino_errors_total",
		Help: "Total Nuclino API errors by kind",
	}, []string{"kind"})
)

// Client executes authenticated requests against the Nuclino API. It owns
// its rate limiter; two Client instances never interfere with each other.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Limiter
	cache       *cache.Manager
	cacheScope  string
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// APIKey is the bearer credential sent in the Authorization header.
	APIKey string

	// BaseURL for API requests. Defaults to DefaultBaseURL.
	BaseURL string

	// RequestsPerMinute caps calls within any trailing 60-second window.
	// Defaults to ratelimit.DefaultRequestsPerMinute.
	RequestsPerMinute int

	// Timeout bounds a single HTTP round trip. Defaults to DefaultTimeout.
	// A timed-out request fails with a network error.
	Timeout time.Duration

	// HTTPClient overrides the underlying transport, mainly for tests.
	HTTPClient *http.Client

	// Redis enables the GET response cache when set.
	Redis *redis.Client

	// CacheTTL is the lifetime of cached GET responses.
	// Defaults to cache.DefaultTTL when Redis is set.
	CacheTTL time.Duration

	// Retry enables the opt-in retry policy for server and network errors.
	// Nil disables retries entirely.
	Retry *RetryPolicy
}

// DefaultConfig returns a configuration with library defaults for the given
// API key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:            apiKey,
		BaseURL:           DefaultBaseURL,
		RequestsPerMinute: ratelimit.DefaultRequestsPerMinute,
		Timeout:           DefaultTimeout,
	}
}

// New creates a new Nuclino API client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = ratelimit.DefaultRequestsPerMinute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	logger := log.With().Str("component", "nuclino-client").Logger()

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var cacheManager *cache.Manager
	var cacheScope string
	if cfg.Redis != nil {
		if cfg.CacheTTL <= 0 {
			cfg.CacheTTL = cache.DefaultTTL
		}
		cacheManager = cache.NewManager(cfg.Redis, cfg.CacheTTL)
		// Entries are scoped per credential so clients sharing one Redis
		// never read each other's responses.
		cacheScope = cache.CredentialScope(cfg.APIKey)
	}

	return &Client{
		httpClient:  httpClient,
		rateLimiter: ratelimit.NewLimiter(cfg.RequestsPerMinute, logger),
		cache:       cacheManager,
		cacheScope:  cacheScope,
		config:      cfg,
		logger:      logger,
	}, nil
}

// envelope is the API's response wrapper on success.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Get performs a GET request and returns the raw `data` payload.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do is the core request method: rate limit, optional cache, HTTP call,
// error mapping, envelope decoding.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(path).Observe(time.Since(startTime).Seconds())
	}()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	// Cache lookup happens before the limiter: a hit makes no outgoing
	// call, so it must not consume a rate limit slot.
	var cacheKey cache.Key
	useCache := c.cache != nil && method == http.MethodGet
	if useCache {
		cacheKey = cache.Key{Scope: c.cacheScope, Path: path, Query: query}
		if entry, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug().Str("endpoint", path).Msg("Serving response from cache")
			return c.decodeEnvelope(entry.StatusCode, entry.Data)
		} else if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Cache get error")
		}
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Str("method", method).
		Msg("Executing API request")

	status, header, respBody, err := c.execute(ctx, method, path, query, payload)
	if err != nil {
		kind := KindOf(err)
		if kind == "" {
			kind = KindNetwork
		}
		errorsTotal.WithLabelValues(string(kind)).Inc()
		requestsTotal.WithLabelValues(path, "error").Inc()
		c.logger.Error().Err(err).Str("endpoint", path).Msg("HTTP request failed")
		return nil, err
	}

	requestsTotal.WithLabelValues(path, fmt.Sprintf("%d", status)).Inc()

	if status < 200 || status > 299 {
		apiErr := mapResponse(status, header, respBody)
		errorsTotal.WithLabelValues(string(apiErr.Kind)).Inc()
		c.logger.Warn().
			Str("endpoint", path).
			Int("status", status).
			Str("kind", string(apiErr.Kind)).
			Msg("API request error")
		return nil, apiErr
	}

	if useCache {
		entry := &cache.Entry{
			Data:       respBody,
			StatusCode: status,
			CachedAt:   time.Now(),
			Expires:    time.Now().Add(c.config.CacheTTL),
		}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to cache response")
		}
	}

	return c.decodeEnvelope(status, respBody)
}

// execute performs one HTTP round trip, retried per the configured policy.
// The request is rebuilt per attempt so the body can be resent.
func (c *Client) execute(ctx context.Context, method, path string, query url.Values, payload []byte) (int, http.Header, []byte, error) {
	attempt := func() (int, http.Header, []byte, error) {
		req, err := c.newRequest(ctx, method, path, query, payload)
		if err != nil {
			return 0, nil, nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return 0, nil, nil, networkError(err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return 0, nil, nil, networkError(err)
		}
		return resp.StatusCode, resp.Header, respBody, nil
	}

	if c.config.Retry == nil {
		return attempt()
	}
	return c.retryAttempts(ctx, attempt)
}

// newRequest builds one authenticated HTTP request.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Request, error) {
	target := joinURL(c.config.BaseURL, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// decodeEnvelope unwraps the `{status, data}` response envelope. A 2xx
// response without a data field is treated as a server error.
func (c *Client) decodeEnvelope(status int, body []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		errorsTotal.WithLabelValues(string(KindServer)).Inc()
		return nil, &APIError{
			StatusCode: status,
			Kind:       KindServer,
			Message:    "invalid JSON response from API",
			Body:       body,
		}
	}
	if env.Data == nil {
		errorsTotal.WithLabelValues(string(KindServer)).Inc()
		return nil, &APIError{
			StatusCode: status,
			Kind:       KindServer,
			Message:    "API response missing 'data' field",
			Body:       body,
		}
	}
	return env.Data, nil
}

// joinURL joins the base URL with a path, normalizing slashes.
func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// RateLimiter exposes the limiter, mainly for tests and diagnostics.
func (c *Client) RateLimiter() *ratelimit.Limiter {
	return c.rateLimiter
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
