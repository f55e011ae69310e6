// Package cache provides an optional Redis-backed cache for GET responses.
// The Nuclino API sends no cache headers, so entries live for a configured
// TTL rather than a server-provided expiry.
package cache

import (
	"time"
)

// DefaultTTL is the entry lifetime when the client does not configure one.
const DefaultTTL = 60 * time.Second

// Entry represents a cached API response.
type Entry struct {
	// Data is the raw response body, envelope included.
	Data []byte `json:"data"`

	// StatusCode is the HTTP status of the cached response.
	StatusCode int `json:"status_code"`

	// CachedAt is when the response was stored.
	CachedAt time.Time `json:"cached_at"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`
}

// IsExpired returns true if the entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
