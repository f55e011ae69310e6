package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for retry operations.
var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuclino_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"kind"})

	retryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nuclino_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error kind",
	}, []string{"kind"})
)

// RetryPolicy configures the opt-in retry behavior. Only server (5xx) and
// network errors are retried; validation, auth, not-found, and rate limit
// errors are surfaced immediately. Retries are disabled unless a policy is
// set on Config.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialInterval is the first backoff delay.
	InitialInterval time.Duration

	// MaxInterval caps the exponential backoff delay.
	MaxInterval time.Duration
}

// DefaultRetryPolicy returns a conservative policy for callers who opt in.
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
	}
}

// retryAttempts runs a single-request attempt under the configured policy.
// Attempts ending in a network error or 5xx response are retried with
// exponential backoff; any other outcome is returned to the caller as-is.
func (c *Client) retryAttempts(ctx context.Context, attempt func() (int, http.Header, []byte, error)) (int, http.Header, []byte, error) {
	policy := *c.config.Retry
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = 1 * time.Second
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = 30 * time.Second
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = policy.InitialInterval
	exp.MaxInterval = policy.MaxInterval
	exp.MaxElapsedTime = 0

	schedule := backoff.WithContext(
		backoff.WithMaxRetries(exp, uint64(policy.MaxAttempts-1)), ctx)

	var status int
	var header http.Header
	var body []byte
	var lastErr error

	operation := func() error {
		s, h, b, err := attempt()
		if err != nil {
			// Transport failure, worth retrying.
			lastErr = err
			return err
		}
		status, header, body = s, h, b
		if s >= 500 {
			lastErr = mapResponse(s, h, b)
			return lastErr
		}
		lastErr = nil
		return nil
	}

	notify := func(err error, delay time.Duration) {
		kind := KindOf(err)
		retriesTotal.WithLabelValues(string(kind)).Inc()
		c.logger.Debug().
			Err(err).
			Dur("backoff", delay).
			Str("kind", string(kind)).
			Msg("Retrying request after backoff")
	}

	if err := backoff.RetryNotify(operation, schedule, notify); err != nil {
		if ctx.Err() != nil {
			return 0, nil, nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
		kind := KindOf(lastErr)
		retryExhaustedTotal.WithLabelValues(string(kind)).Inc()
		c.logger.Warn().
			Int("max_attempts", policy.MaxAttempts).
			Str("kind", string(kind)).
			Msg("Retry attempts exhausted")
		return 0, nil, nil, fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}

	return status, header, body, nil
}
