package agenda

import (
	"context"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

const calendarDayFormat = "2006-01-02"

// Calendar fetches services due in [from, to] (inclusive both ends, states
// PENDING/SCHEDULED/COMPLETED) ordered by due date and groups them by ISO
// calendar day. Days with no services are absent from the map.
func (e *Engine) Calendar(ctx context.Context, from, to time.Time) (map[string][]model.AgendaItem, int, error) {
	pred := store.AndOf(
		store.In{Field: store.FieldState, Values: []string{
			string(model.StatePending), string(model.StateScheduled), string(model.StateCompleted),
		}},
		store.Range{Field: store.FieldDue, Lo: &from, Hi: &to, HiIncl: true},
	)
	svcs, err := e.Store.QueryPlanned(ctx, pred, store.QueryOpts{Sort: store.SortDueAsc})
	if err != nil {
		return nil, 0, queryErr(err)
	}
	items := e.decorate(svcs)
	byDay := map[string][]model.AgendaItem{}
	for _, it := range items {
		key := it.DuePreview.In(e.Loc).Format(calendarDayFormat)
		byDay[key] = append(byDay[key], it)
	}
	return byDay, len(items), nil
}
