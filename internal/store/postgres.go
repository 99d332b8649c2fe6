package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"fieldops/internal/model"
)

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// MigrateDir applies every .sql file in dir in lexical order (dev helper).
func (p *Postgres) MigrateDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		b, err := os.ReadFile(filepath.Join(dir, n))
		if err != nil {
			return err
		}
		if _, err := p.db.Exec(string(b)); err != nil {
			return fmt.Errorf("migrate %s: %w", n, err)
		}
	}
	return nil
}

// plannedCols maps logical fields to SQL expressions over the planned-service
// join graph.
var plannedCols = map[string]string{
	FieldDue:         "ps.due_preview_date",
	FieldDeadline:    "COALESCE(ps.window_end, ps.due_preview_date)",
	FieldState:       "ps.state",
	FieldPriority:    "ps.priority",
	FieldClient:      "ct.client_id::text",
	FieldTechnician:  "ord.technician_id::text",
	FieldServiceType: "ps.service_type_id::text",
	FieldZone:        "eq.zone",
}

var orderCols = map[string]string{
	FieldTechnician:   "o.technician_id::text",
	FieldState:        "o.state",
	FieldScheduledFor: "o.scheduled_for",
}

const plannedFrom = ` FROM planned_services ps
	JOIN contracts ct ON ct.id = ps.contract_id
	JOIN clients cl ON cl.id = ct.client_id
	JOIN equipment eq ON eq.id = ps.equipment_id
	JOIN service_types st ON st.id = ps.service_type_id
	LEFT JOIN generated_orders ord ON ord.planned_service_id = ps.id
	LEFT JOIN technicians tech ON tech.id = ord.technician_id`

const plannedSelect = `SELECT ps.id::text, ps.due_preview_date, ps.window_start, ps.window_end, ps.state, ps.priority,
	ps.contract_id::text, ct.client_id::text, cl.name, ps.equipment_id::text, eq.name, eq.zone,
	ps.service_type_id::text, st.name,
	ord.id::text, ord.number, ord.state, ord.technician_id::text, tech.name` + plannedFrom

// compile renders pred into a SQL condition, appending bind args.
func compile(pred Predicate, cols map[string]string, args *[]any) (string, error) {
	switch p := pred.(type) {
	case Equals:
		col, ok := cols[p.Field]
		if !ok {
			return "", ErrUnknownField
		}
		*args = append(*args, p.Value)
		return fmt.Sprintf("%s = $%d", col, len(*args)), nil
	case In:
		col, ok := cols[p.Field]
		if !ok {
			return "", ErrUnknownField
		}
		ph := make([]string, 0, len(p.Values))
		for _, v := range p.Values {
			*args = append(*args, v)
			ph = append(ph, fmt.Sprintf("$%d", len(*args)))
		}
		return fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ",")), nil
	case Range:
		col, ok := cols[p.Field]
		if !ok {
			return "", ErrUnknownField
		}
		conds := []string{}
		if p.Lo != nil {
			*args = append(*args, *p.Lo)
			conds = append(conds, fmt.Sprintf("%s >= $%d", col, len(*args)))
		}
		if p.Hi != nil {
			op := "<"
			if p.HiIncl {
				op = "<="
			}
			*args = append(*args, *p.Hi)
			conds = append(conds, fmt.Sprintf("%s %s $%d", col, op, len(*args)))
		}
		if len(conds) == 0 {
			return "TRUE", nil
		}
		return strings.Join(conds, " AND "), nil
	case And:
		return compileJoin(p.Preds, " AND ", cols, args)
	case Or:
		return compileJoin(p.Preds, " OR ", cols, args)
	}
	return "", ErrUnknownField
}

func compileJoin(preds []Predicate, sep string, cols map[string]string, args *[]any) (string, error) {
	if len(preds) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, 0, len(preds))
	for _, c := range preds {
		s, err := compile(c, cols, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func whereClause(pred Predicate, cols map[string]string, args *[]any) (string, error) {
	if pred == nil {
		return "", nil
	}
	cond, err := compile(pred, cols, args)
	if err != nil {
		return "", err
	}
	return " WHERE " + cond, nil
}

func orderClause(mode SortMode) string {
	switch mode {
	case SortPriorityDue:
		return ` ORDER BY CASE ps.priority WHEN 'URGENT' THEN 0 WHEN 'HIGH' THEN 1 WHEN 'LOW' THEN 3 ELSE 2 END, ps.due_preview_date`
	case SortDueAsc:
		return ` ORDER BY ps.due_preview_date`
	}
	return ""
}

func (p *Postgres) QueryPlanned(ctx context.Context, pred Predicate, opts QueryOpts) ([]model.PlannedService, error) {
	args := []any{}
	where, err := whereClause(pred, plannedCols, &args)
	if err != nil {
		return nil, err
	}
	q := plannedSelect + where + orderClause(opts.Sort)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.PlannedService{}
	for rows.Next() {
		var s model.PlannedService
		var winStart, winEnd sql.NullTime
		var clientName, eqName, zone, stName sql.NullString
		var ordID, ordNum, ordState, techID, techName sql.NullString
		if err := rows.Scan(&s.ID, &s.DuePreview, &winStart, &winEnd, &s.State, &s.Priority,
			&s.ContractID, &s.ClientID, &clientName, &s.EquipmentID, &eqName, &zone,
			&s.ServiceTypeID, &stName,
			&ordID, &ordNum, &ordState, &techID, &techName); err != nil {
			return nil, err
		}
		if winStart.Valid {
			t := winStart.Time
			s.WindowStart = &t
		}
		if winEnd.Valid {
			t := winEnd.Time
			s.WindowEnd = &t
		}
		s.ClientName = clientName.String
		s.EquipmentName = eqName.String
		s.Zone = zone.String
		s.ServiceTypeName = stName.String
		if ordID.Valid {
			s.Order = &model.OrderRef{ID: ordID.String, Number: ordNum.String, State: ordState.String, TechnicianID: techID.String, TechnicianName: techName.String}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) CountPlanned(ctx context.Context, pred Predicate) (int, error) {
	args := []any{}
	where, err := whereClause(pred, plannedCols, &args)
	if err != nil {
		return 0, err
	}
	var n int
	err = p.db.QueryRowContext(ctx, "SELECT COUNT(*)"+plannedFrom+where, args...).Scan(&n)
	return n, err
}

func (p *Postgres) CountPlannedBy(ctx context.Context, pred Predicate, field string) (map[string]int, error) {
	col, ok := plannedCols[field]
	if !ok {
		return nil, ErrUnknownField
	}
	args := []any{}
	where, err := whereClause(pred, plannedCols, &args)
	if err != nil {
		return nil, err
	}
	rows, err := p.db.QueryContext(ctx, "SELECT COALESCE("+col+", ''), COUNT(*)"+plannedFrom+where+" GROUP BY 1", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, err
		}
		out[k] = n
	}
	return out, rows.Err()
}

func (p *Postgres) CountOrders(ctx context.Context, pred Predicate) (int, error) {
	args := []any{}
	where, err := whereClause(pred, orderCols, &args)
	if err != nil {
		return 0, err
	}
	var n int
	err = p.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generated_orders o"+where, args...).Scan(&n)
	return n, err
}

func (p *Postgres) ListFieldTechnicians(ctx context.Context) ([]model.Technician, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id::text, name, COALESCE(zone, ''), active, field_capable
		FROM technicians WHERE active AND field_capable ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Technician{}
	for rows.Next() {
		var t model.Technician
		if err := rows.Scan(&t.ID, &t.Name, &t.Zone, &t.Active, &t.FieldCapable); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
