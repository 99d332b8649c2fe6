package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fieldops/internal/api"
	"fieldops/internal/config"
	"fieldops/internal/metrics"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("CONFIG"), "path to YAML config (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	srvDeps, err := api.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	// Agenda views
	mux.HandleFunc("/v1/agenda/today", srvDeps.TodayHandler)
	mux.HandleFunc("/v1/agenda/week", srvDeps.WeekHandler)
	mux.HandleFunc("/v1/agenda/month", srvDeps.MonthHandler)
	mux.HandleFunc("/v1/agenda/overdue", srvDeps.OverdueHandler)
	mux.HandleFunc("/v1/agenda/upcoming", srvDeps.UpcomingHandler)
	mux.HandleFunc("/v1/agenda/metrics", srvDeps.MetricsHandler)
	mux.HandleFunc("/v1/agenda/technician-load", srvDeps.TechnicianLoadHandler)
	mux.HandleFunc("/v1/agenda/calendar", srvDeps.CalendarHandler)
	mux.HandleFunc("/v1/agenda/services", srvDeps.ServicesHandler)

	// Live feed
	mux.HandleFunc("/v1/agenda/stream", srvDeps.StreamHandler)
	mux.HandleFunc("/v1/agenda/ws", srvDeps.StreamWSHandler)

	// Health
	mux.HandleFunc("/healthz", srvDeps.HealthHandler)
	mux.HandleFunc("/readyz", srvDeps.ReadyHandler)

	// Ops
	mux.HandleFunc("/debug/info", srvDeps.DebugJSON)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	handler := logMiddleware(metricsMiddleware(api.RateLimit(cfg.RateRPS, cfg.RateBurst)(mux)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Start the live-feed snapshot publisher
	worker := srvDeps.NewSnapshotWorker()
	worker.Start()

	log.Printf("agenda API listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		dur := time.Since(start)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, dur)
	})
}

// statusRecorder captures the response status for metrics labels.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket upgrades need the raw writer (hijack)
		if r.Header.Get("Upgrade") != "" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		status := strconv.Itoa(rec.status)
		metrics.HTTPRequests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}
