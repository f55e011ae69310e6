// Package testutil provides testing utilities for the Nuclino client.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock API endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockNuclino is a configurable mock Nuclino API server for testing. It
// counts requests so tests can assert that local validation failures never
// touch the transport.
type MockNuclino struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	PathCounts        map[string]int
	LastAuthorization string
	LastRequestBody   []byte
}

// NewMockNuclino creates a new mock API server.
func NewMockNuclino() *MockNuclino {
	mock := &MockNuclino{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.LastAuthorization = r.Header.Get("Authorization")
		mock.LastRequestBody = body
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockNuclino) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockNuclino) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockNuclino) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
	m.LastAuthorization = ""
	m.LastRequestBody = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockNuclino) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockNuclino) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetItemsFixture installs a paginating /items handler over the given
// entity documents. The handler honors `limit` and `after` the way the real
// API does: results resume after the entity with the `after` ID, in fixture
// order.
func (m *MockNuclino) SetItemsFixture(entities []string) {
	ids := make([]string, len(entities))
	for i, doc := range entities {
		var probe struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(doc), &probe); err != nil {
			panic(fmt.Sprintf("invalid fixture document %d: %v", i, err))
		}
		ids[i] = probe.ID
	}

	m.SetHandler("/items", func(w http.ResponseWriter, r *http.Request) {
		limit := len(entities)
		if raw := r.URL.Query().Get("limit"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
				limit = parsed
			}
		}

		start := 0
		if after := r.URL.Query().Get("after"); after != "" {
			for i, id := range ids {
				if id == after {
					start = i + 1
					break
				}
			}
		}

		end := start + limit
		if end > len(entities) {
			end = len(entities)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(ListJSON(entities[start:end])))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockNuclino) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockNuclino) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// GetLastAuthorization returns the Authorization header of the last request.
func (m *MockNuclino) GetLastAuthorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastAuthorization
}

// defaultHandler answers any unconfigured path with an empty success
// envelope.
func (m *MockNuclino) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "success", "data": {}}`))
}

// Envelope wraps a data payload in the API's success envelope.
func Envelope(data string) string {
	return `{"status": "success", "data": ` + data + `}`
}

// ItemJSON builds an item document.
func ItemJSON(id, title, content string) string {
	doc := map[string]any{
		"object":            "item",
		"id":                id,
		"workspaceId":       "ws-1",
		"url":               "https://app.nuclino.com/t/x/" + id,
		"title":             title,
		"createdAt":         "2025-01-15T10:00:00.000Z",
		"createdUserId":     "user-1",
		"lastUpdatedAt":     "2025-01-15T10:00:00.000Z",
		"lastUpdatedUserId": "user-1",
		"content":           content,
		"contentMeta":       map[string]any{"itemIds": []string{}, "fileIds": []string{}},
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

// CollectionJSON builds a collection document.
func CollectionJSON(id, title string, childIDs []string) string {
	if childIDs == nil {
		childIDs = []string{}
	}
	doc := map[string]any{
		"object":            "collection",
		"id":                id,
		"workspaceId":       "ws-1",
		"url":               "https://app.nuclino.com/t/x/" + id,
		"title":             title,
		"createdAt":         "2025-01-15T10:00:00.000Z",
		"createdUserId":     "user-1",
		"lastUpdatedAt":     "2025-01-15T10:00:00.000Z",
		"lastUpdatedUserId": "user-1",
		"childIds":          childIDs,
	}
	raw, _ := json.Marshal(doc)
	return string(raw)
}

// ListJSON builds a list payload from entity documents, envelope included.
func ListJSON(entities []string) string {
	return Envelope(`{"object": "list", "results": [` + strings.Join(entities, ",") + `]}`)
}

// ErrorJSON builds an error body with the given message.
func ErrorJSON(message string) string {
	return fmt.Sprintf(`{"status": "fail", "message": %q}`, message)
}

// DeleteJSON builds a delete confirmation payload, envelope included.
func DeleteJSON(id string) string {
	return Envelope(fmt.Sprintf(`{"id": %q}`, id))
}
