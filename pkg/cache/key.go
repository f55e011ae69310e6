package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached API response by request shape.
type Key struct {
	// Scope isolates entries by client credential. Without it, two
	// clients sharing one Redis would serve each other's responses.
	Scope string

	// Path is the API path (e.g. "/items/abc123").
	Path string

	// Query holds the request's query parameters.
	Query url.Values
}

// CredentialScope derives a scope token from an API key. The key itself
// never appears in Redis.
func CredentialScope(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:4])
}

// String generates a deterministic cache key string.
// Format: nuclino:scope:path:param1=val1:param2=val2
//
// Example:
//
//	nuclino:9f86d081:items:limit=50:workspaceId=ws1
func (k Key) String() string {
	parts := []string{"nuclino"}
	if k.Scope != "" {
		parts = append(parts, k.Scope)
	}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Query params sorted for determinism.
	if len(k.Query) > 0 {
		keys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
