package agenda

import (
	"fieldops/internal/model"
	"fieldops/internal/store"
)

// BuildPredicate translates the structured service filter into a store
// predicate. Absent fields impose no constraint; supplied fields AND together.
// An empty filter yields nil (match everything); filters naming unknown ids
// simply match nothing.
func BuildPredicate(f model.ServiceFilter) store.Predicate {
	preds := []store.Predicate{}
	if f.DateFrom != nil || f.DateTo != nil {
		// Both bounds are inclusive on the due date.
		preds = append(preds, store.Range{Field: store.FieldDue, Lo: f.DateFrom, Hi: f.DateTo, HiIncl: true})
	}
	if f.ClientID != "" {
		preds = append(preds, store.Equals{Field: store.FieldClient, Value: f.ClientID})
	}
	if f.TechnicianID != "" {
		// Matches through the generated order's assignee; services without a
		// generated order never match.
		preds = append(preds, store.Equals{Field: store.FieldTechnician, Value: f.TechnicianID})
	}
	if f.ServiceTypeID != "" {
		preds = append(preds, store.Equals{Field: store.FieldServiceType, Value: f.ServiceTypeID})
	}
	if f.State != "" {
		preds = append(preds, store.Equals{Field: store.FieldState, Value: f.State})
	}
	if f.Priority != "" {
		preds = append(preds, store.Equals{Field: store.FieldPriority, Value: f.Priority})
	}
	if f.Zone != "" {
		preds = append(preds, store.Equals{Field: store.FieldZone, Value: f.Zone})
	}
	return store.AndOf(preds...)
}
