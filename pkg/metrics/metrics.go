// Package metrics provides the centralized Prometheus registry reference for
// the Nuclino client. All metrics are defined in their respective packages
// (client, cache, ratelimit) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the Nuclino client.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - nuclino_rate_limit_waits_total (Counter): Requests delayed by the limiter
//   - nuclino_rate_limit_wait_seconds (Histogram): Time spent waiting for a slot
//   - nuclino_rate_limit_window_usage (Gauge): Requests started in the current window
//
// Cache Metrics (pkg/cache):
//   - nuclino_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - nuclino_cache_misses_total (Counter): Cache misses
//   - nuclino_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - nuclino_cache_errors_total{operation} (Counter): Cache operation errors
//
// Request Metrics (pkg/client):
//   - nuclino_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - nuclino_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - nuclino_errors_total{kind} (Counter): Errors by kind (authentication,
//     permission, validation, not_found, rate_limit, server, network, client)
//
// Retry Metrics (pkg/client):
//   - nuclino_retries_total{kind} (Counter): Retry attempts by error kind
//   - nuclino_retry_exhausted_total{kind} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(nuclino_cache_hits_total[5m])) /
//   (sum(rate(nuclino_cache_hits_total[5m])) + sum(rate(nuclino_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(nuclino_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(nuclino_request_duration_seconds_bucket[5m]))
//
//   # Time Lost to Rate Limiting
//   rate(nuclino_rate_limit_wait_seconds_sum[5m])
