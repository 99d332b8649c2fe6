package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fieldops/internal/model"
)

// Memory is an in-memory store used when no DATABASE_URL is set and by tests.
type Memory struct {
	mu    sync.Mutex
	svcs  []model.PlannedService
	ords  []model.GeneratedOrder
	techs []model.Technician
}

func NewMemory() *Memory {
	return &Memory{}
}

// AddPlanned inserts a planned service, assigning an id when absent, and
// returns the id.
func (m *Memory) AddPlanned(s model.PlannedService) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	m.svcs = append(m.svcs, s)
	return s.ID
}

// AddOrder inserts a generated order and, when it references a planned
// service, attaches the order summary to that service. A planned service holds
// at most one order; a second order for the same service replaces the first.
func (m *Memory) AddOrder(o model.GeneratedOrder) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.PlannedServiceID != "" {
		for i := range m.ords {
			if m.ords[i].PlannedServiceID == o.PlannedServiceID {
				m.ords = append(m.ords[:i], m.ords[i+1:]...)
				break
			}
		}
	}
	m.ords = append(m.ords, o)
	if o.PlannedServiceID != "" {
		for i := range m.svcs {
			if m.svcs[i].ID == o.PlannedServiceID {
				ref := &model.OrderRef{ID: o.ID, Number: o.Number, State: o.State, TechnicianID: o.TechnicianID}
				for _, t := range m.techs {
					if t.ID == o.TechnicianID {
						ref.TechnicianName = t.Name
					}
				}
				m.svcs[i].Order = ref
				break
			}
		}
	}
	return o.ID
}

func (m *Memory) AddTechnician(t model.Technician) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	m.techs = append(m.techs, t)
	return t.ID
}

func (m *Memory) QueryPlanned(ctx context.Context, pred Predicate, opts QueryOpts) ([]model.PlannedService, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.PlannedService{}
	for _, s := range m.svcs {
		ok, err := matchPlanned(s, pred)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	switch opts.Sort {
	case SortPriorityDue:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := model.PriorityRank(out[i].Priority), model.PriorityRank(out[j].Priority)
			if ri != rj {
				return ri < rj
			}
			return out[i].DuePreview.Before(out[j].DuePreview)
		})
	case SortDueAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].DuePreview.Before(out[j].DuePreview) })
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(out) {
			out = out[:0]
		} else {
			out = out[opts.Offset:]
		}
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (m *Memory) CountPlanned(ctx context.Context, pred Predicate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.svcs {
		ok, err := matchPlanned(s, pred)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountPlannedBy(ctx context.Context, pred Predicate, field string) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int{}
	for _, s := range m.svcs {
		ok, err := matchPlanned(s, pred)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v, _, err := plannedField(s, field)
		if err != nil {
			return nil, err
		}
		out[v]++
	}
	return out, nil
}

func (m *Memory) CountOrders(ctx context.Context, pred Predicate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, o := range m.ords {
		ok, err := matchOrder(o, pred)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListFieldTechnicians(ctx context.Context) ([]model.Technician, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Technician{}
	for _, t := range m.techs {
		if t.Active && t.FieldCapable {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// plannedField resolves a logical field against a planned service; the bool
// reports whether the field is time-valued.
func plannedField(s model.PlannedService, field string) (string, time.Time, error) {
	switch field {
	case FieldState:
		return string(s.State), time.Time{}, nil
	case FieldPriority:
		return string(s.Priority), time.Time{}, nil
	case FieldClient:
		return s.ClientID, time.Time{}, nil
	case FieldServiceType:
		return s.ServiceTypeID, time.Time{}, nil
	case FieldZone:
		return s.Zone, time.Time{}, nil
	case FieldTechnician:
		// Services without a generated order never match a technician filter.
		if s.Order == nil {
			return "", time.Time{}, nil
		}
		return s.Order.TechnicianID, time.Time{}, nil
	case FieldDue:
		return "", s.DuePreview, nil
	case FieldDeadline:
		if s.WindowEnd != nil {
			return "", *s.WindowEnd, nil
		}
		return "", s.DuePreview, nil
	}
	return "", time.Time{}, ErrUnknownField
}

func orderField(o model.GeneratedOrder, field string) (string, time.Time, error) {
	switch field {
	case FieldTechnician:
		return o.TechnicianID, time.Time{}, nil
	case FieldState:
		return o.State, time.Time{}, nil
	case FieldScheduledFor:
		return "", o.ScheduledFor, nil
	}
	return "", time.Time{}, ErrUnknownField
}

func matchPlanned(s model.PlannedService, pred Predicate) (bool, error) {
	return eval(pred, func(field string) (string, time.Time, error) { return plannedField(s, field) })
}

func matchOrder(o model.GeneratedOrder, pred Predicate) (bool, error) {
	return eval(pred, func(field string) (string, time.Time, error) { return orderField(o, field) })
}

func eval(pred Predicate, resolve func(string) (string, time.Time, error)) (bool, error) {
	if pred == nil {
		return true, nil
	}
	switch p := pred.(type) {
	case Equals:
		v, _, err := resolve(p.Field)
		if err != nil {
			return false, err
		}
		return v != "" && v == p.Value, nil
	case In:
		v, _, err := resolve(p.Field)
		if err != nil {
			return false, err
		}
		for _, want := range p.Values {
			if v == want {
				return true, nil
			}
		}
		return false, nil
	case Range:
		_, t, err := resolve(p.Field)
		if err != nil {
			return false, err
		}
		if p.Lo != nil && t.Before(*p.Lo) {
			return false, nil
		}
		if p.Hi != nil {
			if p.HiIncl {
				if t.After(*p.Hi) {
					return false, nil
				}
			} else if !t.Before(*p.Hi) {
				return false, nil
			}
		}
		return true, nil
	case And:
		for _, c := range p.Preds {
			ok, err := eval(c, resolve)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case Or:
		for _, c := range p.Preds {
			ok, err := eval(c, resolve)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, ErrUnknownField
}
