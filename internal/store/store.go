package store

import (
	"context"
	"errors"

	"fieldops/internal/model"
)

// Store is the read-only query interface the agenda engine runs against.
// Implementations own all persisted state; the engine owns none.
type Store interface {
	// QueryPlanned returns planned services matching pred (nil matches all),
	// with related contract/client/equipment/service-type/order/technician
	// fields resolved.
	QueryPlanned(ctx context.Context, pred Predicate, opts QueryOpts) ([]model.PlannedService, error)
	// CountPlanned counts planned services matching pred.
	CountPlanned(ctx context.Context, pred Predicate) (int, error)
	// CountPlannedBy counts planned services matching pred, grouped by the
	// given logical field's raw value.
	CountPlannedBy(ctx context.Context, pred Predicate, field string) (map[string]int, error)
	// CountOrders counts generated work orders matching pred.
	CountOrders(ctx context.Context, pred Predicate) (int, error)
	// ListFieldTechnicians returns active technicians flagged as
	// field-capable.
	ListFieldTechnicians(ctx context.Context) ([]model.Technician, error)
}

var ErrUnknownField = errors.New("unknown predicate field")
