package model

import "time"

// Lifecycle states of a planned service (cronogram entry).
type ServiceState string

const (
	StatePending   ServiceState = "PENDING"
	StateScheduled ServiceState = "SCHEDULED"
	StateCompleted ServiceState = "COMPLETED"
	StateOverdue   ServiceState = "OVERDUE"
	StateCanceled  ServiceState = "CANCELED"
)

// ServiceStates lists every state, in breakdown order.
var ServiceStates = []ServiceState{StatePending, StateScheduled, StateCompleted, StateOverdue, StateCanceled}

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityNormal Priority = "NORMAL"
	PriorityLow    Priority = "LOW"
)

// PriorityRank maps a priority to a sortable rank; lower ranks sort first.
// Unknown priorities rank with NORMAL.
func PriorityRank(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityLow:
		return 3
	default:
		return 2
	}
}

type UrgencyTier string

const (
	UrgencyCritical UrgencyTier = "CRITICAL"
	UrgencyHigh     UrgencyTier = "HIGH"
	UrgencyMedium   UrgencyTier = "MEDIUM"
	UrgencyNormal   UrgencyTier = "NORMAL"
)

// States of a generated work order that count toward technician workload.
const (
	OrderScheduled  = "SCHEDULED"
	OrderAssigned   = "ASSIGNED"
	OrderInProgress = "IN_PROGRESS"
	OrderCompleted  = "COMPLETED"
	OrderCanceled   = "CANCELED"
)

// PlannedService is the read-only projection the engine consumes. Related
// entities are resolved by the store at read time; the engine owns none of it.
type PlannedService struct {
	ID          string       `json:"id"`
	DuePreview  time.Time    `json:"duePreviewDate"`
	WindowStart *time.Time   `json:"windowStart,omitempty"`
	WindowEnd   *time.Time   `json:"windowEnd,omitempty"`
	State       ServiceState `json:"state"`
	Priority    Priority     `json:"priority"`

	ContractID      string `json:"contractId"`
	ClientID        string `json:"clientId"`
	ClientName      string `json:"clientName,omitempty"`
	EquipmentID     string `json:"equipmentId"`
	EquipmentName   string `json:"equipmentName,omitempty"`
	Zone            string `json:"zone,omitempty"`
	ServiceTypeID   string `json:"serviceTypeId"`
	ServiceTypeName string `json:"serviceTypeName,omitempty"`

	// Order is set when a work order was already generated for this visit.
	Order *OrderRef `json:"order,omitempty"`
}

// OrderRef is the generated-order summary joined onto a planned service.
type OrderRef struct {
	ID             string `json:"id"`
	Number         string `json:"number,omitempty"`
	State          string `json:"state"`
	TechnicianID   string `json:"technicianId,omitempty"`
	TechnicianName string `json:"technicianName,omitempty"`
}

// AgendaItem decorates a planned service with the derived urgency fields.
// Constructed per request, never persisted.
type AgendaItem struct {
	PlannedService
	DaysRemaining int         `json:"daysRemaining"`
	Urgency       UrgencyTier `json:"urgencyTier"`
}

// GeneratedOrder is the workload-side record; the engine only counts these.
type GeneratedOrder struct {
	ID               string    `json:"id"`
	Number           string    `json:"number,omitempty"`
	PlannedServiceID string    `json:"plannedServiceId,omitempty"`
	TechnicianID     string    `json:"technicianId"`
	State            string    `json:"state"`
	ScheduledFor     time.Time `json:"scheduledFor"`
}

type Technician struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Zone         string `json:"zone,omitempty"`
	Active       bool   `json:"active"`
	FieldCapable bool   `json:"fieldCapable"`
}

// TechnicianLoad is the per-technician workload read model.
type TechnicianLoad struct {
	TechnicianID string `json:"technicianId"`
	Name         string `json:"name"`
	Zone         string `json:"zone,omitempty"`
	Today        int    `json:"today"`
	ThisWeek     int    `json:"thisWeek"`
	ThisMonth    int    `json:"thisMonth"`
	LoadPercent  int    `json:"loadPercent"`
}

// PriorityBreakdown and StateBreakdown are count buckets for the KPI snapshot.
type PriorityBreakdown struct {
	Urgent int `json:"urgent"`
	High   int `json:"high"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

type StateBreakdown struct {
	Pending   int `json:"pending"`
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	Canceled  int `json:"canceled"`
}

// AgendaMetrics is a single best-effort KPI snapshot. Counters are computed by
// independent queries against a live store, so they are not guaranteed to sum
// consistently with each other.
type AgendaMetrics struct {
	TotalActive  int               `json:"totalActive"`
	DueToday     int               `json:"dueToday"`
	DueThisWeek  int               `json:"dueThisWeek"`
	DueThisMonth int               `json:"dueThisMonth"`
	Overdue      int               `json:"overdue"`
	NearDue      int               `json:"nearDue"`
	ByPriority   PriorityBreakdown `json:"byPriority"`
	ByState      StateBreakdown    `json:"byState"`
}

// ServiceFilter is the structured filter accepted by /agenda/services.
// Absent fields impose no constraint.
type ServiceFilter struct {
	DateFrom      *time.Time
	DateTo        *time.Time
	ClientID      string
	TechnicianID  string
	ServiceTypeID string
	State         string
	Priority      string
	Zone          string
}

// PageMeta is the pagination envelope for list responses.
type PageMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// NewPageMeta computes pagination math for a total row count.
func NewPageMeta(page, limit, total int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PageMeta{
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
