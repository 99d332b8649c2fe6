package agenda

import (
	"context"
	"testing"
	"time"

	"fieldops/internal/model"
	"fieldops/internal/store"
)

// seedRange loads a fixed set of services around testNow (Wed 2025-03-12).
func seedRange(mem *store.Memory) {
	mem.AddPlanned(planned("today-normal", day(2025, 3, 12), model.StatePending, model.PriorityNormal))
	mem.AddPlanned(planned("today-urgent", time.Date(2025, 3, 12, 23, 0, 0, 0, time.UTC), model.StateScheduled, model.PriorityUrgent))
	mem.AddPlanned(planned("tomorrow", day(2025, 3, 13), model.StatePending, model.PriorityNormal))
	mem.AddPlanned(planned("sunday", time.Date(2025, 3, 16, 12, 0, 0, 0, time.UTC), model.StatePending, model.PriorityHigh))
	mem.AddPlanned(planned("next-monday", day(2025, 3, 17), model.StatePending, model.PriorityNormal))
	mem.AddPlanned(planned("month-end", time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), model.StatePending, model.PriorityLow))
	mem.AddPlanned(planned("april", day(2025, 4, 1), model.StatePending, model.PriorityNormal))
	mem.AddPlanned(planned("done", day(2025, 3, 20), model.StateCompleted, model.PriorityNormal))
	mem.AddPlanned(planned("marked-overdue", day(2025, 3, 1), model.StateOverdue, model.PriorityNormal))

	windowPast := planned("window-lapsed", day(2025, 3, 14), model.StatePending, model.PriorityNormal)
	we := day(2025, 3, 11)
	windowPast.WindowEnd = &we
	mem.AddPlanned(windowPast)

	windowOpen := planned("window-open", day(2025, 3, 10), model.StatePending, model.PriorityNormal)
	wo := day(2025, 3, 13)
	windowOpen.WindowEnd = &wo
	mem.AddPlanned(windowOpen)
}

func TestToday(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	items, total, err := e.Today(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("today: got %d items (total %d), want 2: %v", len(items), total, ids(items))
	}
	// URGENT sorts ahead of NORMAL even though it is due later in the day
	if items[0].ID != "today-urgent" || items[1].ID != "today-normal" {
		t.Fatalf("today order = %v", ids(items))
	}
	if items[1].DaysRemaining != 0 || items[1].Urgency != model.UrgencyCritical {
		t.Fatalf("today-normal decorated as %d/%s", items[1].DaysRemaining, items[1].Urgency)
	}
}

func TestWeekWindow(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	items, total, err := e.Week(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if total != 6 {
		t.Fatalf("week total = %d (%v), want 6", total, ids(items))
	}
	// upper bound is exclusive
	if containsID(items, "next-monday") {
		t.Fatal("next Monday leaked into the week window")
	}
	// OVERDUE and COMPLETED states are not part of the active agenda
	if containsID(items, "marked-overdue") || containsID(items, "done") {
		t.Fatalf("inactive states leaked into week: %v", ids(items))
	}
}

func TestMonthWindowInclusiveEnd(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	items, total, err := e.Month(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !containsID(items, "month-end") {
		t.Fatal("service due 23:59:59 on the last day missing from month view")
	}
	if containsID(items, "april") {
		t.Fatal("April service leaked into March")
	}
	if total != 8 {
		t.Fatalf("month total = %d (%v), want 8", total, ids(items))
	}
}

func TestUpcoming(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	items, total, err := e.Upcoming(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	// [Mar 12, Mar 15): both today services, tomorrow, window-lapsed (due Mar 14)
	if total != 4 {
		t.Fatalf("upcoming(3) total = %d (%v), want 4", total, ids(items))
	}
	if items[0].ID != "today-urgent" {
		t.Fatalf("upcoming first = %s, want today-urgent", items[0].ID)
	}
}

func TestOverdue(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	items, total, err := e.Overdue(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("overdue total = %d (%v), want 2", total, ids(items))
	}
	if !containsID(items, "marked-overdue") {
		t.Fatal("explicitly OVERDUE service missing")
	}
	// due date still ahead, but the tolerance window closed yesterday
	if !containsID(items, "window-lapsed") {
		t.Fatal("service with lapsed window missing")
	}
	if containsID(items, "window-open") {
		t.Fatal("service with window still open counted overdue")
	}
}

func TestServicesPagination(t *testing.T) {
	e, mem := newTestEngine(t)
	seedRange(mem)
	page1, total, err := e.Services(context.Background(), model.ServiceFilter{}, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if total != 11 {
		t.Fatalf("services total = %d, want 11", total)
	}
	if len(page1) != 4 {
		t.Fatalf("page 1 size = %d, want 4", len(page1))
	}
	page3, _, err := e.Services(context.Background(), model.ServiceFilter{}, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(page3) != 3 {
		t.Fatalf("page 3 size = %d, want 3", len(page3))
	}
	if page1[0].ID == page3[0].ID {
		t.Fatal("pages overlap")
	}
}
