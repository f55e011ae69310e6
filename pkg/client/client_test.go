package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nuclino-community/nuclino-go/internal/testutil"
)

func newTestClient(t *testing.T, mock *testutil.MockNuclino) *Client {
	t.Helper()

	c, err := New(Config{
		APIKey:            "test-api-key",
		BaseURL:           mock.URL(),
		RequestsPerMinute: 1000,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(Config{APIKey: "key"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if c.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", c.config.BaseURL, DefaultBaseURL)
	}
	if c.config.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.config.Timeout, DefaultTimeout)
	}
	if got := c.RateLimiter().Limit(); got != 140 {
		t.Errorf("rate limit = %d, want 140", got)
	}
}

func TestGetSendsAuthorizationHeader(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()
	mock.SetResponse("/teams", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.Envelope(`{"object": "list", "results": []}`),
	})

	c := newTestClient(t, mock)

	if _, err := c.Get(context.Background(), "/teams", nil); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if got := mock.GetLastAuthorization(); got != "test-api-key" {
		t.Errorf("Authorization = %q, want %q", got, "test-api-key")
	}
}

func TestGetUnwrapsEnvelope(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()
	mock.SetResponse("/users/user-1", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.Envelope(`{"object": "user", "id": "user-1"}`),
	})

	c := newTestClient(t, mock)

	data, err := c.Get(context.Background(), "/users/user-1", nil)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if !strings.Contains(string(data), `"id"`) {
		t.Errorf("expected unwrapped data payload, got %s", data)
	}
	if strings.Contains(string(data), `"status"`) {
		t.Errorf("envelope leaked into payload: %s", data)
	}
}

func TestGetEncodesQuery(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()

	var gotQuery url.Values
	mock.SetHandler("/items", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(testutil.ListJSON(nil)))
	})

	c := newTestClient(t, mock)

	query := url.Values{}
	query.Set("workspaceId", "ws-1")
	query.Set("limit", "25")
	if _, err := c.Get(context.Background(), "/items", query); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if gotQuery.Get("workspaceId") != "ws-1" || gotQuery.Get("limit") != "25" {
		t.Errorf("unexpected query: %v", gotQuery)
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()

	var gotContentType string
	mock.SetHandler("/items", func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(testutil.Envelope(testutil.ItemJSON("item-1", "New", ""))))
	})

	c := newTestClient(t, mock)

	body := map[string]string{"title": "New", "workspaceId": "ws-1"}
	if _, err := c.Post(context.Background(), "/items", body); err != nil {
		t.Fatalf("Post() error: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if !strings.Contains(string(mock.LastRequestBody), `"title":"New"`) {
		t.Errorf("unexpected request body: %s", mock.LastRequestBody)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind Kind
	}{
		{"unauthorized", http.StatusUnauthorized, testutil.ErrorJSON("Invalid API key"), KindAuthentication},
		{"not found", http.StatusNotFound, testutil.ErrorJSON("Item not found"), KindNotFound},
		{"server error", http.StatusInternalServerError, "", KindServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockNuclino()
			defer mock.Close()
			mock.SetResponse("/items/x", testutil.MockResponse{
				StatusCode: tt.status,
				Body:       tt.body,
			})

			c := newTestClient(t, mock)

			_, err := c.Get(context.Background(), "/items/x", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf = %q, want %q", got, tt.wantKind)
			}
		})
	}
}

func TestRateLimitResponseCarriesRetryAfter(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()
	mock.SetResponse("/items", testutil.MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       testutil.ErrorJSON("Rate limit exceeded"),
		Headers:    map[string]string{"Retry-After": "30"},
	})

	c := newTestClient(t, mock)

	_, err := c.Get(context.Background(), "/items", nil)
	if !IsRateLimit(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatal("expected *APIError")
	}
	if apiErr.RetryAfter != 30*time.Second {
		t.Errorf("RetryAfter = %v, want 30s", apiErr.RetryAfter)
	}
}

func TestNetworkFailureIsNetworkKind(t *testing.T) {
	c, err := New(Config{
		APIKey:            "key",
		BaseURL:           "http://127.0.0.1:1", // nothing listens here
		RequestsPerMinute: 1000,
		Timeout:           time.Second,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = c.Get(context.Background(), "/teams", nil)
	if !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestSuccessWithoutDataIsServerError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing data field", `{"status": "success"}`},
		{"invalid json", `{{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockNuclino()
			defer mock.Close()
			mock.SetResponse("/teams", testutil.MockResponse{
				StatusCode: http.StatusOK,
				Body:       tt.body,
			})

			c := newTestClient(t, mock)

			_, err := c.Get(context.Background(), "/teams", nil)
			if !IsServer(err) {
				t.Errorf("expected server error, got %v", err)
			}
		})
	}
}

func TestRequestsGoThroughRateLimiter(t *testing.T) {
	mock := testutil.NewMockNuclino()
	defer mock.Close()
	mock.SetResponse("/teams", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       testutil.ListJSON(nil),
	})

	c := newTestClient(t, mock)

	for i := 0; i < 3; i++ {
		if _, err := c.Get(context.Background(), "/teams", nil); err != nil {
			t.Fatalf("Get() error: %v", err)
		}
	}

	if got := c.RateLimiter().InWindow(); got != 3 {
		t.Errorf("InWindow() = %d, want 3", got)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"https://api.nuclino.com/v0", "/items", "https://api.nuclino.com/v0/items"},
		{"https://api.nuclino.com/v0/", "/items", "https://api.nuclino.com/v0/items"},
		{"https://api.nuclino.com/v0", "items", "https://api.nuclino.com/v0/items"},
	}

	for _, tt := range tests {
		if got := joinURL(tt.base, tt.path); got != tt.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
