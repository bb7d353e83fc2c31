package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func hitWithRemoteAddr(h http.Handler, addr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/sync/edit", nil)
	req.RemoteAddr = addr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimit_AbsorbsEditBurst(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// A full-row burst from one forwarder must get through.
	for i := 0; i < editBurst; i++ {
		if code := hitWithRemoteAddr(handler, "203.0.113.10:4000"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, code)
		}
	}

	if code := hitWithRemoteAddr(handler, "203.0.113.10:4000"); code != http.StatusTooManyRequests {
		t.Errorf("post-burst status = %d, want 429", code)
	}

	// Other sources are unaffected.
	if code := hitWithRemoteAddr(handler, "203.0.113.11:4000"); code != http.StatusOK {
		t.Errorf("second source status = %d, want 200", code)
	}
}

func TestRateLimit_LoopbackBypasses(t *testing.T) {
	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < editBurst*2; i++ {
		if code := hitWithRemoteAddr(handler, "127.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("loopback request %d: status = %d, want 200", i+1, code)
		}
	}
}
