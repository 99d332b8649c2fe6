package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fieldops/internal/agenda"
	"fieldops/internal/metrics"
	"fieldops/internal/model"
)

// agendaRoles are the roles allowed to read agenda views.
var agendaRoles = []string{"admin", "dispatcher", "technician"}

// observe records one agenda view computation on the service registry.
func observe(view string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.AgendaQueries.WithLabelValues(view, outcome).Inc()
}

// listView is the shared shape of the simple bucket endpoints: role check,
// engine call, {data,total} envelope.
func (s *Server) listView(w http.ResponseWriter, r *http.Request, view string, fn func(ctx context.Context) ([]model.AgendaItem, int, error)) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "GET required", r.URL.Path)
		return
	}
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	items, total, err := fn(r.Context())
	observe(view, err)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Agenda query failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items, "total": total})
}

func (s *Server) TodayHandler(w http.ResponseWriter, r *http.Request) {
	s.listView(w, r, "today", s.Engine.Today)
}

func (s *Server) WeekHandler(w http.ResponseWriter, r *http.Request) {
	s.listView(w, r, "week", s.Engine.Week)
}

func (s *Server) MonthHandler(w http.ResponseWriter, r *http.Request) {
	s.listView(w, r, "month", s.Engine.Month)
}

func (s *Server) OverdueHandler(w http.ResponseWriter, r *http.Request) {
	s.listView(w, r, "overdue", s.Engine.Overdue)
}

// UpcomingHandler accepts ?days=N (default 7, clamped to [1,90]).
func (s *Server) UpcomingHandler(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid parameter", "days must be an integer", r.URL.Path)
			return
		}
		days = n
	}
	if days < 1 {
		days = 1
	}
	if days > 90 {
		days = 90
	}
	s.listView(w, r, "upcoming", func(ctx context.Context) ([]model.AgendaItem, int, error) {
		return s.Engine.Upcoming(ctx, days)
	})
}

// MetricsHandler serves the KPI snapshot for dashboards.
func (s *Server) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "GET required", r.URL.Path)
		return
	}
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	m, err := s.Engine.Metrics(r.Context())
	observe("metrics", err)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Agenda query failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// TechnicianLoadHandler serves the workload balance view. Dispatch staff only.
func (s *Server) TechnicianLoadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "GET required", r.URL.Path)
		return
	}
	if !s.requireRole(w, r, "admin", "dispatcher") {
		return
	}
	loads, err := s.Engine.TechnicianLoad(r.Context())
	observe("technician_load", err)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Agenda query failed", err.Error(), r.URL.Path)
		return
	}
	// bare array, unlike the bucket views
	writeJSON(w, http.StatusOK, loads)
}

// CalendarHandler groups due services by day over ?dateFrom/?dateTo
// (YYYY-MM-DD, default today through one month out).
func (s *Server) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "GET required", r.URL.Path)
		return
	}
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	q := r.URL.Query()
	from := agenda.Midnight(s.Engine.Now(), s.Engine.Loc)
	if v := q.Get("dateFrom"); v != "" {
		t, err := s.parseDay(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid parameter", "dateFrom must be YYYY-MM-DD", r.URL.Path)
			return
		}
		from = t
	}
	to := from.AddDate(0, 1, 0)
	if v := q.Get("dateTo"); v != "" {
		t, err := s.parseDay(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid parameter", "dateTo must be YYYY-MM-DD", r.URL.Path)
			return
		}
		to = t
	}
	if to.Before(from) {
		writeProblem(w, http.StatusBadRequest, "Invalid parameter", "dateTo before dateFrom", r.URL.Path)
		return
	}
	cal, totalServices, err := s.Engine.Calendar(r.Context(), from, to)
	observe("calendar", err)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Agenda query failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"dateFrom":      from.Format("2006-01-02"),
		"dateTo":        to.Format("2006-01-02"),
		"calendar":      cal,
		"totalDays":     len(cal),
		"totalServices": totalServices,
	})
}

// ServicesHandler is the filtered, paginated browse endpoint.
func (s *Server) ServicesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeProblem(w, http.StatusMethodNotAllowed, "Method not allowed", "GET required", r.URL.Path)
		return
	}
	if !s.requireRole(w, r, agendaRoles...) {
		return
	}
	q := r.URL.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	limit := 20
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	f := model.ServiceFilter{
		ClientID:      q.Get("clientId"),
		TechnicianID:  q.Get("technicianId"),
		ServiceTypeID: q.Get("serviceTypeId"),
		State:         q.Get("state"),
		Priority:      q.Get("priority"),
		Zone:          q.Get("zone"),
	}
	if v := q.Get("dateFrom"); v != "" {
		t, err := s.parseDay(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid parameter", "dateFrom must be YYYY-MM-DD", r.URL.Path)
			return
		}
		f.DateFrom = &t
	}
	if v := q.Get("dateTo"); v != "" {
		t, err := s.parseDay(v)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid parameter", "dateTo must be YYYY-MM-DD", r.URL.Path)
			return
		}
		f.DateTo = &t
	}

	items, total, err := s.Engine.Services(r.Context(), f, page, limit)
	observe("services", err)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Agenda query failed", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":  items,
		"total": total,
		"meta":  model.NewPageMeta(page, limit, total),
	})
}

// parseDay parses a YYYY-MM-DD query value in the engine's calendar zone.
func (s *Server) parseDay(v string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", v, s.Engine.Loc)
}

// HealthHandler is a liveness probe.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler reports readiness; with a database-backed store it pings the
// database.
func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	type pinger interface{ Ping(ctx context.Context) error }
	if p, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
