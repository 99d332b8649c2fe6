package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/agenda/today", nil)
		h.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}
}

func TestRateLimitRejects(t *testing.T) {
	h := RateLimit(1, 2)(okHandler())
	got429 := false
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/agenda/today", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			got429 = true
		}
	}
	if !got429 {
		t.Fatal("burst never throttled")
	}
	// a different client has its own bucket
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/agenda/today", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("fresh client status = %d", w.Code)
	}
}
