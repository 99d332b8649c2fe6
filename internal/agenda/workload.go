package agenda

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// WeeklyCapacity is the assumed weekly visit capacity per technician
// (4 visits/day over 5 days). Fixed, not per-technician.
const WeeklyCapacity = 20

// workloadStates are the order states that count toward a technician's load.
var workloadStates = []string{model.OrderScheduled, model.OrderAssigned, model.OrderInProgress}

// TechnicianLoad computes assigned-order counts per field technician for
// today / this week / this month plus a normalized load percentage, sorted so
// the least-loaded technician comes first. Per-technician counts run
// concurrently; the first store failure cancels the rest and fails the call.
func (e *Engine) TechnicianLoad(ctx context.Context) ([]model.TechnicianLoad, error) {
	techs, err := e.Store.ListFieldTechnicians(ctx)
	if err != nil {
		return nil, queryErr(err)
	}

	today := e.today()
	tomorrow := today.AddDate(0, 0, 1)
	weekFrom := WeekStart(today)
	weekTo := weekFrom.AddDate(0, 0, 7)
	monthFrom, monthTo := MonthBounds(today)

	loads := make([]model.TechnicianLoad, len(techs))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	fail := func(err error) {
		select {
		case errCh <- queryErr(err):
		default:
		}
		cancel()
	}

	for i, t := range techs {
		wg.Add(1)
		go func(i int, t model.Technician) {
			defer wg.Done()
			day, err := e.countAssigned(ctx, t.ID, today, tomorrow, false)
			if err != nil {
				fail(err)
				return
			}
			week, err := e.countAssigned(ctx, t.ID, weekFrom, weekTo, false)
			if err != nil {
				fail(err)
				return
			}
			month, err := e.countAssigned(ctx, t.ID, monthFrom, monthTo, true)
			if err != nil {
				fail(err)
				return
			}
			pct := int(math.Round(float64(week) / WeeklyCapacity * 100))
			if pct > 100 {
				pct = 100
			}
			loads[i] = model.TechnicianLoad{
				TechnicianID: t.ID,
				Name:         t.Name,
				Zone:         t.Zone,
				Today:        day,
				ThisWeek:     week,
				ThisMonth:    month,
				LoadPercent:  pct,
			}
		}(i, t)
	}
	wg.Wait()
	select {
	case err := <-errCh:
		return nil, err
	default:
	}

	sort.SliceStable(loads, func(i, j int) bool { return loads[i].LoadPercent < loads[j].LoadPercent })
	return loads, nil
}

func (e *Engine) countAssigned(ctx context.Context, techID string, from, to time.Time, hiIncl bool) (int, error) {
	return e.Store.CountOrders(ctx, store.And{Preds: []store.Predicate{
		store.Equals{Field: store.FieldTechnician, Value: techID},
		store.In{Field: store.FieldState, Values: workloadStates},
		store.Range{Field: store.FieldScheduledFor, Lo: &from, Hi: &to, HiIncl: hiIncl},
	}})
}
