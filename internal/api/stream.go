package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"fieldops/internal/metrics"
)

// StreamHandler serves the agenda live feed over Server-Sent Events. Each
// broker event becomes one `event:`/`data:` pair; heartbeats keep proxies from
// closing idle connections.
func (s *Server) StreamHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "response writer does not support flushing", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe(agendaTopic)
	defer s.Broker.Unsubscribe(agendaTopic, ch)
	metrics.StreamClients.WithLabelValues("sse").Inc()
	defer metrics.StreamClients.WithLabelValues("sse").Dec()

	fmt.Fprintf(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, data)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
