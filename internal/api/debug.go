package api

import (
	"net/http"
	"os"
	"time"

	"fieldops/internal/buildinfo"
)

// DebugJSON dumps build and non-secret runtime configuration.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, "admin") {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"addr":           s.Cfg.Addr,
			"timezone":       s.Cfg.Timezone,
			"rateRps":        s.Cfg.RateRPS,
			"rateBurst":      s.Cfg.RateBurst,
			"streamInterval": s.Cfg.StreamInterval.String(),
			"authMode":       os.Getenv("AUTH_MODE"),
			"hasDatabaseUrl": s.Cfg.DatabaseURL != "",
			"hasRedisUrl":    s.Cfg.RedisURL != "",
		},
	})
}
