// Package stream runs the background publisher that periodically recomputes
// the agenda KPI snapshot and hands it to the live feed.
package stream

import (
	"context"
	"log"
	"time"

	"fieldops/internal/agenda"
	"fieldops/internal/model"
)

// Worker recomputes agenda metrics on an interval and emits each snapshot.
type Worker struct {
	Engine   *agenda.Engine
	Interval time.Duration
	Emit     func(model.AgendaMetrics)
	Stop     chan struct{}
}

func NewWorker(e *agenda.Engine, interval time.Duration, emit func(model.AgendaMetrics)) *Worker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Worker{Engine: e, Interval: interval, Emit: emit, Stop: make(chan struct{})}
}

// Start launches the publish loop. One snapshot is emitted immediately, then
// one per interval until Stop is closed.
func (w *Worker) Start() {
	go func() {
		w.publishOnce()
		t := time.NewTicker(w.Interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.publishOnce()
			case <-w.Stop:
				return
			}
		}
	}()
}

func (w *Worker) publishOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m, err := w.Engine.Metrics(ctx)
	if err != nil {
		log.Printf("stream: metrics snapshot failed: %v", err)
		return
	}
	if w.Emit != nil {
		w.Emit(m)
	}
}
