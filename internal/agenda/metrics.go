package agenda

import (
	"context"
	"sync"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// Metrics computes the KPI snapshot in one fan-out: every counter is an
// independent aggregate query dispatched concurrently and joined before the
// response is composed. There is no shared snapshot across the sub-queries,
// so counters measured milliseconds apart may not sum consistently; that is
// an accepted property of this dashboard view, not a bug to fix with
// transactions.
func (e *Engine) Metrics(ctx context.Context) (model.AgendaMetrics, error) {
	today := e.today()
	tomorrow := today.AddDate(0, 0, 1)
	weekFrom := WeekStart(today)
	weekTo := weekFrom.AddDate(0, 0, 7)
	monthFrom, monthTo := MonthBounds(today)
	nearTo := today.AddDate(0, 0, 3)

	var m model.AgendaMetrics
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	run := func(fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				select {
				case errCh <- queryErr(err):
				default:
				}
				cancel()
			}
		}()
	}

	active := store.In{Field: store.FieldState, Values: []string{
		string(model.StatePending), string(model.StateScheduled), string(model.StateOverdue),
	}}

	run(func() (err error) {
		m.TotalActive, err = e.Store.CountPlanned(ctx, active)
		return
	})
	run(func() (err error) {
		m.DueToday, err = e.Store.CountPlanned(ctx, dueWindow(today, tomorrow, false))
		return
	})
	run(func() (err error) {
		m.DueThisWeek, err = e.Store.CountPlanned(ctx, dueWindow(weekFrom, weekTo, false))
		return
	})
	run(func() (err error) {
		m.DueThisMonth, err = e.Store.CountPlanned(ctx, dueWindow(monthFrom, monthTo, true))
		return
	})
	run(func() (err error) {
		m.Overdue, err = e.Store.CountPlanned(ctx, store.Or{Preds: []store.Predicate{
			store.Equals{Field: store.FieldState, Value: string(model.StateOverdue)},
			store.And{Preds: []store.Predicate{
				activeStates(),
				store.Range{Field: store.FieldDeadline, Hi: &today},
			}},
		}})
		return
	})
	run(func() (err error) {
		// due within 3 days, inclusive
		m.NearDue, err = e.Store.CountPlanned(ctx, dueWindow(today, nearTo, true))
		return
	})
	run(func() error {
		counts, err := e.Store.CountPlannedBy(ctx, nil, store.FieldPriority)
		if err != nil {
			return err
		}
		for k, n := range counts {
			switch model.Priority(k) {
			case model.PriorityUrgent:
				m.ByPriority.Urgent += n
			case model.PriorityHigh:
				m.ByPriority.High += n
			case model.PriorityLow:
				m.ByPriority.Low += n
			default:
				// unknown or missing priority tallies as NORMAL
				m.ByPriority.Normal += n
			}
		}
		return nil
	})
	run(func() error {
		counts, err := e.Store.CountPlannedBy(ctx, nil, store.FieldState)
		if err != nil {
			return err
		}
		for k, n := range counts {
			switch model.ServiceState(k) {
			case model.StateScheduled:
				m.ByState.Scheduled += n
			case model.StateCompleted:
				m.ByState.Completed += n
			case model.StateOverdue:
				m.ByState.Overdue += n
			case model.StateCanceled:
				m.ByState.Canceled += n
			default:
				// unknown state tallies as PENDING
				m.ByState.Pending += n
			}
		}
		return nil
	})

	wg.Wait()
	select {
	case err := <-errCh:
		return model.AgendaMetrics{}, err
	default:
	}
	return m, nil
}

// dueWindow is the PENDING/SCHEDULED due-date window used by the time-bucket
// counters.
func dueWindow(from, to time.Time, hiIncl bool) store.Predicate {
	return store.And{Preds: []store.Predicate{
		activeStates(),
		store.Range{Field: store.FieldDue, Lo: &from, Hi: &to, HiIncl: hiIncl},
	}}
}
