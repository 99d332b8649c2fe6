package agenda

import (
	"context"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// GetInRange returns planned services due in [from, to) with state in states
// (default PENDING/SCHEDULED), ordered priority-desc then due-asc and
// decorated with urgency computed against today, not from.
func (e *Engine) GetInRange(ctx context.Context, from, to time.Time, states []model.ServiceState) ([]model.AgendaItem, int, error) {
	return e.fetch(ctx, store.AndOf(
		statePred(states),
		store.Range{Field: store.FieldDue, Lo: &from, Hi: &to},
	))
}

// Today covers [today 00:00, tomorrow 00:00).
func (e *Engine) Today(ctx context.Context) ([]model.AgendaItem, int, error) {
	from := e.today()
	return e.GetInRange(ctx, from, from.AddDate(0, 0, 1), nil)
}

// Week covers Monday of the current week through the following Monday.
func (e *Engine) Week(ctx context.Context) ([]model.AgendaItem, int, error) {
	from := WeekStart(e.today())
	return e.GetInRange(ctx, from, from.AddDate(0, 0, 7), nil)
}

// Month covers the first calendar day through the last day at 23:59:59. The
// inclusive upper bound differs from the other windows on purpose.
func (e *Engine) Month(ctx context.Context) ([]model.AgendaItem, int, error) {
	from, to := MonthBounds(e.today())
	return e.fetch(ctx, store.AndOf(
		statePred(nil),
		store.Range{Field: store.FieldDue, Lo: &from, Hi: &to, HiIncl: true},
	))
}

// Upcoming covers [today, today+days), PENDING/SCHEDULED only.
func (e *Engine) Upcoming(ctx context.Context, days int) ([]model.AgendaItem, int, error) {
	from := e.today()
	return e.GetInRange(ctx, from, from.AddDate(0, 0, days), nil)
}

// Overdue is not a range query: it matches services already marked OVERDUE,
// plus PENDING/SCHEDULED services whose tolerance deadline (windowEnd, or the
// due date when no window exists) fell strictly before today.
func (e *Engine) Overdue(ctx context.Context) ([]model.AgendaItem, int, error) {
	today := e.today()
	return e.fetch(ctx, store.Or{Preds: []store.Predicate{
		store.Equals{Field: store.FieldState, Value: string(model.StateOverdue)},
		store.And{Preds: []store.Predicate{
			activeStates(),
			store.Range{Field: store.FieldDeadline, Hi: &today},
		}},
	}})
}

// Services runs the structured filter with pagination for dispatch browsing.
func (e *Engine) Services(ctx context.Context, f model.ServiceFilter, page, limit int) ([]model.AgendaItem, int, error) {
	pred := BuildPredicate(f)
	total, err := e.Store.CountPlanned(ctx, pred)
	if err != nil {
		return nil, 0, queryErr(err)
	}
	svcs, err := e.Store.QueryPlanned(ctx, pred, store.QueryOpts{Sort: store.SortPriorityDue, Offset: (page - 1) * limit, Limit: limit})
	if err != nil {
		return nil, 0, queryErr(err)
	}
	return e.decorate(svcs), total, nil
}

func (e *Engine) fetch(ctx context.Context, pred store.Predicate) ([]model.AgendaItem, int, error) {
	svcs, err := e.Store.QueryPlanned(ctx, pred, store.QueryOpts{Sort: store.SortPriorityDue})
	if err != nil {
		return nil, 0, queryErr(err)
	}
	items := e.decorate(svcs)
	return items, len(items), nil
}

func statePred(states []model.ServiceState) store.Predicate {
	if len(states) == 0 {
		return activeStates()
	}
	vals := make([]string, 0, len(states))
	for _, s := range states {
		vals = append(vals, string(s))
	}
	return store.In{Field: store.FieldState, Values: vals}
}
