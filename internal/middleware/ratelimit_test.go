package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zpcs/internal/domain"
)

func TestClientKey(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{"forwarded", "203.0.113.1", "198.51.100.10:1234", "203.0.113.1"},
		{"first valid forwarded", " junk , 198.51.100.2 ", "198.51.100.10:1234", "198.51.100.2"},
		{"invalid forwarded", "invalid", "198.51.100.10:1234", "198.51.100.10"},
		{"ipv6 remote", "", net.JoinHostPort("2001:db8::2", "443"), "2001:db8::2"},
		{"remote without port", "", "203.0.113.1", "203.0.113.1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.header != "" {
				req.Header.Set("X-Forwarded-For", tc.header)
			}
			if got := clientKey(req); got != tc.want {
				t.Fatalf("clientKey() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRateLimitReturnsQuotaBody(t *testing.T) {
	h := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/images/generate", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("198.51.100.1:1000"); rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := send("198.51.100.1:1000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	var body domain.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != domain.CodeQuotaExceeded {
		t.Fatalf("error code = %q", body.Error)
	}
	if body.RetryAfterSeconds == nil || *body.RetryAfterSeconds < 1 || *body.RetryAfterSeconds > 60 {
		t.Fatalf("retryAfterSeconds = %v", body.RetryAfterSeconds)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}

	if rec := send("198.51.100.2:1000"); rec.Code != http.StatusNoContent {
		t.Fatalf("other client limited: %d", rec.Code)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	h := RateLimit(1, 30*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(); code != http.StatusOK {
		t.Fatalf("first = %d", code)
	}
	if code := send(); code != http.StatusTooManyRequests {
		t.Fatalf("second = %d", code)
	}
	time.Sleep(50 * time.Millisecond)
	if code := send(); code != http.StatusOK {
		t.Fatalf("after window = %d", code)
	}
}
