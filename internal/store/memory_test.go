package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"fieldops/internal/model"
)

func d(day int) time.Time { return time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC) }

func seedMemory() *Memory {
	m := NewMemory()
	m.AddPlanned(model.PlannedService{ID: "a", DuePreview: d(10), State: model.StatePending, Priority: model.PriorityNormal, ClientID: "acme"})
	m.AddPlanned(model.PlannedService{ID: "b", DuePreview: d(12), State: model.StateScheduled, Priority: model.PriorityUrgent, ClientID: "acme"})
	m.AddPlanned(model.PlannedService{ID: "c", DuePreview: d(11), State: model.StatePending, Priority: model.PriorityUrgent, ClientID: "globex"})
	m.AddPlanned(model.PlannedService{ID: "e", DuePreview: d(14), State: model.StateCompleted, Priority: model.PriorityLow, ClientID: "globex"})
	return m
}

func TestQueryPlannedSortPriorityDue(t *testing.T) {
	m := seedMemory()
	out, err := m.QueryPlanned(context.Background(), nil, QueryOpts{Sort: SortPriorityDue})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{}
	for _, s := range out {
		got = append(got, s.ID)
	}
	// urgent first (by due), then normal, then low
	want := []string{"c", "b", "a", "e"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order = %v, want %v", got, want)
		}
	}
}

func TestQueryPlannedOffsetLimit(t *testing.T) {
	m := seedMemory()
	out, err := m.QueryPlanned(context.Background(), nil, QueryOpts{Sort: SortDueAsc, Offset: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].ID != "c" || out[1].ID != "b" {
		t.Fatalf("window = %v", out)
	}
	// offset past the end yields an empty page, not an error
	out, err = m.QueryPlanned(context.Background(), nil, QueryOpts{Offset: 99})
	if err != nil || len(out) != 0 {
		t.Fatalf("past-end page: %v, %v", out, err)
	}
}

func TestPredicateEvaluation(t *testing.T) {
	m := seedMemory()
	ctx := context.Background()

	n, err := m.CountPlanned(ctx, Equals{Field: FieldClient, Value: "acme"})
	if err != nil || n != 2 {
		t.Fatalf("equals: %d, %v", n, err)
	}
	n, _ = m.CountPlanned(ctx, In{Field: FieldState, Values: []string{"PENDING", "SCHEDULED"}})
	if n != 3 {
		t.Fatalf("in: %d, want 3", n)
	}
	lo, hi := d(11), d(12)
	n, _ = m.CountPlanned(ctx, Range{Field: FieldDue, Lo: &lo, Hi: &hi})
	if n != 1 { // exclusive upper bound
		t.Fatalf("range exclusive: %d, want 1", n)
	}
	n, _ = m.CountPlanned(ctx, Range{Field: FieldDue, Lo: &lo, Hi: &hi, HiIncl: true})
	if n != 2 {
		t.Fatalf("range inclusive: %d, want 2", n)
	}
	n, _ = m.CountPlanned(ctx, And{Preds: []Predicate{
		Equals{Field: FieldClient, Value: "globex"},
		Equals{Field: FieldState, Value: "PENDING"},
	}})
	if n != 1 {
		t.Fatalf("and: %d, want 1", n)
	}
	n, _ = m.CountPlanned(ctx, Or{Preds: []Predicate{
		Equals{Field: FieldPriority, Value: "LOW"},
		Equals{Field: FieldPriority, Value: "URGENT"},
	}})
	if n != 3 {
		t.Fatalf("or: %d, want 3", n)
	}
	if _, err := m.CountPlanned(ctx, Equals{Field: "bogus", Value: "x"}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field error = %v", err)
	}
}

func TestCountPlannedBy(t *testing.T) {
	m := seedMemory()
	counts, err := m.CountPlannedBy(context.Background(), nil, FieldPriority)
	if err != nil {
		t.Fatal(err)
	}
	if counts["URGENT"] != 2 || counts["NORMAL"] != 1 || counts["LOW"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestTechnicianResolution(t *testing.T) {
	m := seedMemory()
	m.AddTechnician(model.Technician{ID: "t1", Name: "Alice", Active: true, FieldCapable: true})
	m.AddOrder(model.GeneratedOrder{PlannedServiceID: "a", TechnicianID: "t1", State: "ASSIGNED", ScheduledFor: d(10)})

	n, err := m.CountPlanned(context.Background(), Equals{Field: FieldTechnician, Value: "t1"})
	if err != nil || n != 1 {
		t.Fatalf("technician equals: %d, %v", n, err)
	}
	// services without orders resolve to no technician and never match
	n, _ = m.CountPlanned(context.Background(), Equals{Field: FieldTechnician, Value: ""})
	if n != 0 {
		t.Fatalf("empty technician matched %d services", n)
	}
}

func TestOrderReplacesEarlierForSameService(t *testing.T) {
	m := seedMemory()
	m.AddTechnician(model.Technician{ID: "t1", Name: "Alice", Active: true, FieldCapable: true})
	m.AddTechnician(model.Technician{ID: "t2", Name: "Bob", Active: true, FieldCapable: true})
	m.AddOrder(model.GeneratedOrder{PlannedServiceID: "a", TechnicianID: "t1", State: "SCHEDULED", ScheduledFor: d(10)})
	// reassignment produces a new order for the same visit
	m.AddOrder(model.GeneratedOrder{PlannedServiceID: "a", TechnicianID: "t2", State: "ASSIGNED", ScheduledFor: d(11)})

	n, err := m.CountOrders(context.Background(), nil)
	if err != nil || n != 1 {
		t.Fatalf("orders = %d, %v, want the replacement only", n, err)
	}
	svcs, err := m.QueryPlanned(context.Background(), Equals{Field: FieldTechnician, Value: "t2"}, QueryOpts{})
	if err != nil || len(svcs) != 1 {
		t.Fatalf("query by new technician: %d, %v", len(svcs), err)
	}
	if svcs[0].Order == nil || svcs[0].Order.TechnicianName != "Bob" {
		t.Fatalf("order ref = %+v", svcs[0].Order)
	}
	if n, _ := m.CountPlanned(context.Background(), Equals{Field: FieldTechnician, Value: "t1"}); n != 0 {
		t.Fatalf("old assignee still matches %d services", n)
	}
}

func TestListFieldTechnicians(t *testing.T) {
	m := NewMemory()
	m.AddTechnician(model.Technician{Name: "Zed", Active: true, FieldCapable: true})
	m.AddTechnician(model.Technician{Name: "Amy", Active: true, FieldCapable: true})
	m.AddTechnician(model.Technician{Name: "Off", Active: false, FieldCapable: true})
	m.AddTechnician(model.Technician{Name: "Desk", Active: true, FieldCapable: false})
	techs, err := m.ListFieldTechnicians(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(techs) != 2 || techs[0].Name != "Amy" || techs[1].Name != "Zed" {
		t.Fatalf("technicians = %+v", techs)
	}
}

func TestCountOrders(t *testing.T) {
	m := NewMemory()
	m.AddOrder(model.GeneratedOrder{TechnicianID: "t1", State: "SCHEDULED", ScheduledFor: d(12)})
	m.AddOrder(model.GeneratedOrder{TechnicianID: "t1", State: "COMPLETED", ScheduledFor: d(12)})
	m.AddOrder(model.GeneratedOrder{TechnicianID: "t2", State: "SCHEDULED", ScheduledFor: d(12)})
	lo, hi := d(12), d(13)
	n, err := m.CountOrders(context.Background(), And{Preds: []Predicate{
		Equals{Field: FieldTechnician, Value: "t1"},
		In{Field: FieldState, Values: []string{"SCHEDULED", "ASSIGNED", "IN_PROGRESS"}},
		Range{Field: FieldScheduledFor, Lo: &lo, Hi: &hi},
	}})
	if err != nil || n != 1 {
		t.Fatalf("orders = %d, %v", n, err)
	}
}

func TestAndOf(t *testing.T) {
	if AndOf() != nil {
		t.Fatal("AndOf() should be nil")
	}
	eq := Equals{Field: FieldState, Value: "PENDING"}
	if p := AndOf(nil, eq, nil); p != Predicate(eq) {
		t.Fatalf("single predicate not unwrapped: %#v", p)
	}
	if _, ok := AndOf(eq, eq).(And); !ok {
		t.Fatal("two predicates should wrap in And")
	}
}
