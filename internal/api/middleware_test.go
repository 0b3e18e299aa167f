package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIPRateLimiterBurstThenDeny(t *testing.T) {
	rl := newIPRateLimiter(0, 3)
	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d inside burst denied", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request past burst allowed")
	}
	// A different IP has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("fresh ip denied")
	}
}

func TestIPRateLimiterClose(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	rl.close()
	// Shutting down the prune goroutine must not break admission checks.
	if !rl.allow("10.0.0.9") {
		t.Error("allow failed after close")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5123"
	if got := clientIP(r); got != "192.0.2.7" {
		t.Errorf("clientIP = %q", got)
	}
	r.RemoteAddr = "192.0.2.7"
	if got := clientIP(r); got != "192.0.2.7" {
		t.Errorf("clientIP without port = %q", got)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	s := &Server{}
	h := s.securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing frame options header")
	}
}

func TestCORSMiddlewarePreflight(t *testing.T) {
	s := &Server{}
	called := false
	h := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/content", nil)
	req.Header.Set("Origin", "https://yemenflix.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://yemenflix.example" {
		t.Errorf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
