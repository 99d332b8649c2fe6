package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimit returns a per-client token-bucket middleware keyed by remote host.
// With rps <= 0 the middleware is a no-op.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	var mu sync.Mutex
	limiters := map[string]*rate.Limiter{}
	get := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := limiters[key]
		if !ok {
			lim = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[key] = lim
		}
		return lim
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !get(host).Allow() {
				writeProblem(w, http.StatusTooManyRequests, "Rate limit exceeded", "too many requests", r.URL.Path)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
