package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{"unauthorized", http.StatusUnauthorized, KindAuthentication},
		{"forbidden", http.StatusForbidden, KindPermission},
		{"bad request", http.StatusBadRequest, KindValidation},
		{"unprocessable entity", http.StatusUnprocessableEntity, KindValidation},
		{"not found", http.StatusNotFound, KindNotFound},
		{"too many requests", http.StatusTooManyRequests, KindRateLimit},
		{"internal server error", http.StatusInternalServerError, KindServer},
		{"bad gateway", http.StatusBadGateway, KindServer},
		{"service unavailable", http.StatusServiceUnavailable, KindServer},
		{"teapot falls through to client", http.StatusTeapot, KindClient},
		{"conflict falls through to client", http.StatusConflict, KindClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.status); got != tt.want {
				t.Errorf("classify(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	// Same status, same kind, regardless of how often it is asked.
	for i := 0; i < 3; i++ {
		if got := classify(http.StatusNotFound); got != KindNotFound {
			t.Fatalf("classify(404) = %q on call %d, want %q", got, i+1, KindNotFound)
		}
	}
}

func TestMapResponse(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantMessage string
	}{
		{
			name:        "message from error body",
			status:      http.StatusNotFound,
			body:        `{"status": "fail", "message": "Item not found"}`,
			wantKind:    KindNotFound,
			wantMessage: "Item not found",
		},
		{
			name:        "non-JSON body keeps status text",
			status:      http.StatusInternalServerError,
			body:        "<html>gateway error</html>",
			wantKind:    KindServer,
			wantMessage: "Internal Server Error",
		},
		{
			name:        "empty body keeps status text",
			status:      http.StatusForbidden,
			body:        "",
			wantKind:    KindPermission,
			wantMessage: "Forbidden",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := mapResponse(tt.status, http.Header{}, []byte(tt.body))

			if apiErr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", apiErr.Kind, tt.wantKind)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", apiErr.Message, tt.wantMessage)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if string(apiErr.Body) != tt.body {
				t.Errorf("Body = %q, want %q", apiErr.Body, tt.body)
			}
		})
	}
}

func TestMapResponseValidationFields(t *testing.T) {
	body := `{"status": "fail", "message": "Invalid request", "fields": {"title": "must not be empty"}}`

	apiErr := mapResponse(http.StatusBadRequest, http.Header{}, []byte(body))

	if apiErr.Kind != KindValidation {
		t.Fatalf("Kind = %q, want %q", apiErr.Kind, KindValidation)
	}
	if got := apiErr.Fields["title"]; got != "must not be empty" {
		t.Errorf("Fields[title] = %q, want %q", got, "must not be empty")
	}
}

func TestMapResponseRetryAfter(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   time.Duration
	}{
		{"integer seconds", "30", 30 * time.Second},
		{"zero seconds", "0", 0},
		{"missing header", "", DefaultRetryAfter},
		{"malformed header", "soon", DefaultRetryAfter},
		{"negative value", "-5", DefaultRetryAfter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.header != "" {
				header.Set("Retry-After", tt.header)
			}

			apiErr := mapResponse(http.StatusTooManyRequests, header, nil)

			if apiErr.Kind != KindRateLimit {
				t.Fatalf("Kind = %q, want %q", apiErr.Kind, KindRateLimit)
			}
			if apiErr.RetryAfter != tt.want {
				t.Errorf("RetryAfter = %v, want %v", apiErr.RetryAfter, tt.want)
			}
		})
	}
}

func TestMapResponseRetryAfterOnlyForRateLimit(t *testing.T) {
	header := http.Header{}
	header.Set("Retry-After", "30")

	apiErr := mapResponse(http.StatusServiceUnavailable, header, nil)

	if apiErr.RetryAfter != 0 {
		t.Errorf("RetryAfter = %v for server error, want 0", apiErr.RetryAfter)
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	apiErr := networkError(cause)

	if apiErr.Kind != KindNetwork {
		t.Errorf("Kind = %q, want %q", apiErr.Kind, KindNetwork)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", apiErr.StatusCode)
	}
	if !errors.Is(apiErr, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("either team_id or workspace_id is required")

	if !IsValidation(err) {
		t.Error("expected IsValidation to report true")
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", err.StatusCode, http.StatusBadRequest)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain error) = %q, want empty", got)
	}

	wrapped := fmt.Errorf("fetching item: %w", mapResponse(http.StatusNotFound, http.Header{}, nil))
	if got := KindOf(wrapped); got != KindNotFound {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindNotFound)
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"not found", mapResponse(http.StatusNotFound, http.Header{}, nil), IsNotFound},
		{"rate limit", mapResponse(http.StatusTooManyRequests, http.Header{}, nil), IsRateLimit},
		{"authentication", mapResponse(http.StatusUnauthorized, http.Header{}, nil), IsAuthentication},
		{"permission", mapResponse(http.StatusForbidden, http.Header{}, nil), IsPermission},
		{"server", mapResponse(http.StatusBadGateway, http.Header{}, nil), IsServer},
		{"network", networkError(errors.New("timeout")), IsNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("predicate returned false for %v", tt.err)
			}
			if IsValidation(tt.err) {
				t.Errorf("IsValidation returned true for %v", tt.err)
			}
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	apiErr := mapResponse(http.StatusNotFound, http.Header{}, []byte(`{"message": "Item not found"}`))

	msg := apiErr.Error()
	if msg != "nuclino not_found error (status 404): Item not found" {
		t.Errorf("unexpected error string: %q", msg)
	}
}
