package agenda

import (
	"testing"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// testNow is a Wednesday; the surrounding week runs Mon 2025-03-10 through
// Sun 2025-03-16.
var testNow = time.Date(2025, 3, 12, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestEngine(_ *testing.T) (*Engine, *store.Memory) {
	mem := store.NewMemory()
	e := New(mem, time.UTC)
	e.Now = func() time.Time { return testNow }
	return e, mem
}

func planned(id string, due time.Time, state model.ServiceState, prio model.Priority) model.PlannedService {
	return model.PlannedService{ID: id, DuePreview: due, State: state, Priority: prio}
}

func ids(items []model.AgendaItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func containsID(items []model.AgendaItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}
