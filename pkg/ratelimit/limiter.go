// Package ratelimit implements a trailing-window request limiter.
// It paces outgoing API calls so that no more than the configured number
// of requests start within any 60-second window, matching the quota the
// Nuclino API enforces server-side.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Window is the trailing window the request budget applies to.
const Window = 60 * time.Second

// DefaultRequestsPerMinute matches the documented Nuclino API quota.
const DefaultRequestsPerMinute = 140

// Prometheus metrics for limiter behavior.
var (
	rateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nuclino_rate_limit_waits_total",
		Help: "Total number of requests delayed by the rate limiter",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nuclino_rate_limit_wait_seconds",
		Help:    "Time requests spent waiting for a rate limit slot",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	rateLimitWindowUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nuclino_rate_limit_window_usage",
		Help: "Number of requests started within the current trailing window",
	})
)

// Limiter paces calls so that at most `limit` requests start within any
// trailing 60-second window. It never rejects a request, it only delays it.
//
// The timestamp window is guarded by a mutex so the limit holds under
// concurrent callers. Each client instance owns its own Limiter; there is
// no process-wide state.
type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time
	logger zerolog.Logger

	// Injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLimiter creates a limiter allowing `requestsPerMinute` calls per
// trailing 60-second window. Values below 1 are clamped to the default.
func NewLimiter(requestsPerMinute int, logger zerolog.Logger) *Limiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = DefaultRequestsPerMinute
	}
	return &Limiter{
		limit:  requestsPerMinute,
		window: Window,
		calls:  make([]time.Time, 0, requestsPerMinute),
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
	}
}

// Limit returns the configured requests-per-window budget.
func (l *Limiter) Limit() int {
	return l.limit
}

// Wait blocks until starting a request keeps the trailing-window count at or
// below the limit, then records the call. It returns early with the context
// error if ctx is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			rateLimitWindowUsage.Set(float64(len(l.calls)))
			l.mu.Unlock()
			return nil
		}

		// Window is full: wait until the oldest call falls out of it.
		delay := l.calls[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if delay <= 0 {
			continue
		}

		l.logger.Debug().
			Dur("delay", delay).
			Int("limit", l.limit).
			Msg("Rate limit window full, pacing request")

		rateLimitWaitsTotal.Inc()
		rateLimitWaitSeconds.Observe(delay.Seconds())

		if err := l.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// InWindow reports how many calls started within the current trailing window.
func (l *Limiter) InWindow() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune(l.now())
	return len(l.calls)
}

// prune drops timestamps older than the trailing window.
// Caller must hold l.mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.calls) && !l.calls[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.calls = append(l.calls[:0], l.calls[i:]...)
	}
}

// sleepContext sleeps for d unless ctx is done first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
