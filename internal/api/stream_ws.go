package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"fieldops/internal/metrics"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamWSHandler serves the agenda live feed over WebSocket. On connect it
// pushes the current KPI snapshot, then forwards broker events until the peer
// goes away.
func (s *Server) StreamWSHandler(w http.ResponseWriter, r *http.Request) {
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	metrics.StreamClients.WithLabelValues("ws").Inc()
	defer metrics.StreamClients.WithLabelValues("ws").Dec()

	ch := s.Broker.Subscribe(agendaTopic)
	defer s.Broker.Unsubscribe(agendaTopic, ch)

	conn.SetReadLimit(1 << 16)
	// reader exists only to observe close frames
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if m, err := s.Engine.Metrics(r.Context()); err == nil {
		if err := conn.WriteJSON(metricsEvent(m)); err != nil {
			return
		}
	}

	ping := time.NewTicker(30 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}
