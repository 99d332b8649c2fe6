// Package agenda implements the scheduling and workload aggregation engine:
// urgency tiering, time-bucketed agenda queries, calendar grouping, workload
// balancing and KPI snapshots over the planned-service and work-order stores.
// The engine is stateless and read-only; every view is recomputed per call.
package agenda

import (
	"fmt"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// Engine computes derived agenda views against an injected Store. Loc controls
// the calendar used to truncate "today"; Now is replaceable in tests.
type Engine struct {
	Store store.Store
	Loc   *time.Location
	Now   func() time.Time
}

func New(st store.Store, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{Store: st, Loc: loc, Now: time.Now}
}

func (e *Engine) today() time.Time { return Midnight(e.Now(), e.Loc) }

// queryErr wraps any store failure into the single generic aggregation error
// surfaced to callers; no partial results accompany it.
func queryErr(err error) error { return fmt.Errorf("agenda query failed: %w", err) }

// activeStates are the states an undispatched, still-relevant visit can be in.
func activeStates() store.Predicate {
	return store.In{Field: store.FieldState, Values: []string{string(model.StatePending), string(model.StateScheduled)}}
}

// decorate materializes the derived view for each service against "today" at
// call time.
func (e *Engine) decorate(svcs []model.PlannedService) []model.AgendaItem {
	today := e.today()
	out := make([]model.AgendaItem, 0, len(svcs))
	for _, s := range svcs {
		days := DaysRemaining(s.DuePreview, today)
		out = append(out, model.AgendaItem{PlannedService: s, DaysRemaining: days, Urgency: Classify(days)})
	}
	return out
}
