package store

import "time"

// Logical field names understood by every Store implementation. Each store
// compiles them to its native form; the engine never sees column names.
const (
	// Planned-service fields
	FieldDue         = "due"
	FieldDeadline    = "deadline" // windowEnd, falling back to due when absent
	FieldState       = "state"
	FieldPriority    = "priority"
	FieldClient      = "clientId"
	FieldTechnician  = "technicianId" // via the generated order's assignee
	FieldServiceType = "serviceTypeId"
	FieldZone        = "zone"

	// Generated-order fields
	FieldScheduledFor = "scheduledFor"
)

// Predicate is a small tagged-variant filter AST. All variants combine with
// the stores' native query forms; nil means "match everything".
type Predicate interface{ pred() }

// Equals matches records whose field equals the given value.
type Equals struct {
	Field string
	Value string
}

// In matches records whose field equals any of the given values.
type In struct {
	Field  string
	Values []string
}

// Range matches records whose time-valued field lies in [Lo, Hi). A nil bound
// is unbounded. HiIncl makes the upper bound inclusive (the month window is
// the one caller that needs it).
type Range struct {
	Field  string
	Lo     *time.Time
	Hi     *time.Time
	HiIncl bool
}

// And matches records satisfying every child predicate.
type And struct{ Preds []Predicate }

// Or matches records satisfying at least one child predicate.
type Or struct{ Preds []Predicate }

func (Equals) pred() {}
func (In) pred()     {}
func (Range) pred()  {}
func (And) pred()    {}
func (Or) pred()     {}

// AndOf combines the non-nil predicates; it returns nil for none and the
// predicate itself for exactly one.
func AndOf(preds ...Predicate) Predicate {
	kept := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if p != nil {
			kept = append(kept, p)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return And{Preds: kept}
}

// Sort orders supported by QueryPlanned.
type SortMode int

const (
	SortNone SortMode = iota
	// SortPriorityDue orders by priority descending (URGENT first) then due
	// date ascending, so the most urgent, soonest items lead.
	SortPriorityDue
	SortDueAsc
)

// QueryOpts carries ordering and paging for QueryPlanned. Zero Limit means no
// limit.
type QueryOpts struct {
	Sort   SortMode
	Offset int
	Limit  int
}
