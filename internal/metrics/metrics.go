package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// AgendaQueries counts agenda view computations by view and outcome
	AgendaQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "agenda_queries_total", Help: "Agenda view computations by view and outcome."},
		[]string{"view", "outcome"},
	)
	// StreamClients tracks connected live-feed subscribers by transport
	StreamClients = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "agenda_stream_clients", Help: "Connected live-feed subscribers."},
		[]string{"transport"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(AgendaQueries)
		Registry.MustRegister(StreamClients)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
