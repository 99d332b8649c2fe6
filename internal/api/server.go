package api

import (
	"encoding/json"
	"strings"

	"fieldops/internal/agenda"
	"fieldops/internal/auth"
	"fieldops/internal/config"
	"fieldops/internal/model"
	"fieldops/internal/store"
	"fieldops/internal/stream"
)

type Server struct {
	Store  store.Store
	Engine *agenda.Engine
	Auth   *auth.Verifier
	Broker EventBroker
	Cfg    *config.Config
}

// NewServer creates a Server. If no database URL is configured, uses the
// in-memory store.
func NewServer(cfg *config.Config) (*Server, error) {
	var st store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		// Run migrations (dev helper)
		if cfg.Migrate {
			_ = pg.MigrateDir("db/migrations")
		}
		st = pg
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	// Broker selection
	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	return &Server{
		Store:  st,
		Engine: agenda.New(st, loc),
		Auth:   auth.NewVerifierFromEnv(),
		Broker: broker,
		Cfg:    cfg,
	}, nil
}

// NewSnapshotWorker creates the background publisher feeding the live feed.
func (s *Server) NewSnapshotWorker() *stream.Worker {
	return stream.NewWorker(s.Engine, s.Cfg.StreamInterval, func(m model.AgendaMetrics) {
		s.Broker.Publish(agendaTopic, metricsEvent(m))
	})
}

// metricsEvent converts a KPI snapshot into the generic event shape brokers
// carry.
func metricsEvent(m model.AgendaMetrics) SSEEvent {
	b, _ := json.Marshal(m)
	data := map[string]any{}
	_ = json.Unmarshal(b, &data)
	return SSEEvent{Type: "agenda.metrics", Data: data}
}
