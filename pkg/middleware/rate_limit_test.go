package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"parkslot/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func TestAllowWithinLimit(t *testing.T) {
	limiter := NewClientRateLimiter(3, time.Minute, testLogger())
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within the limit", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("request over the limit should be rejected")
	}
}

func TestAllowWindowExpiry(t *testing.T) {
	limiter := NewClientRateLimiter(1, 20*time.Millisecond, testLogger())
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("10.0.0.1") {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(30 * time.Millisecond)

	if !limiter.Allow("10.0.0.1") {
		t.Error("request after the window expired should be allowed")
	}
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, testLogger())
	defer limiter.Stop()

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("second client should not share the first client's quota")
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("first client over the limit should be rejected")
	}
}

func TestAllowUnknownClient(t *testing.T) {
	limiter := NewClientRateLimiter(1, time.Minute, testLogger())
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if !limiter.Allow("") {
			t.Fatal("requests without a resolvable client should never be limited")
		}
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
	}{
		{"host and port", "10.0.0.1:52431", "10.0.0.1"},
		{"ipv6 host and port", "[::1]:8080", "::1"},
		{"no port", "10.0.0.1", "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			r.RemoteAddr = tt.remoteAddr
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
			}
		})
	}
}

func TestClientRateLimitMiddleware(t *testing.T) {
	limiter := NewClientRateLimiter(2, time.Minute, testLogger())
	defer limiter.Stop()

	handler := ClientRateLimit(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		r.RemoteAddr = "10.0.0.1:52431"
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	r.RemoteAddr = "10.0.0.1:52431"
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if !strings.Contains(rec.Body.String(), "Too many requests") {
		t.Errorf("body = %s, want rate limit message", rec.Body.String())
	}
}
