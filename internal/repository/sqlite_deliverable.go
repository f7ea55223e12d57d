package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLiteDeliverableRepo implements DeliverableRepo using a SQLite database.
type SQLiteDeliverableRepo struct {
	db db.DBTX
}

func NewSQLiteDeliverableRepo(conn db.DBTX) *SQLiteDeliverableRepo {
	return &SQLiteDeliverableRepo{db: conn}
}

const deliverableColumns = `d.id, d.phase_id, d.scope_ids, d.name, d.description, d.assignee, d.owner, d.status,
	d.start_date, d.end_date, d.actual_start_date, d.actual_end_date,
	d.budget_plan, d.budget_actual, d.budget_additional, d.plan_man_days, d.actual_man_days,
	d.kpis, d.created_at, d.updated_at`

// projectDeliverableIDs selects the ids of every deliverable under a project,
// either through phase_id or through a legacy scope id. It binds the project
// id twice.
const projectDeliverableIDs = `SELECT d.id FROM deliverables d
	WHERE d.phase_id IN (
		SELECT ph.id FROM phases ph
		JOIN final_products fp ON ph.final_product_id = fp.id
		WHERE fp.project_id = ?)
	OR (d.phase_id IS NULL AND EXISTS (
		SELECT 1 FROM json_each(d.scope_ids) s
		JOIN phases ph ON ph.id = s.value
		JOIN final_products fp ON ph.final_product_id = fp.id
		WHERE fp.project_id = ?))`

func (r *SQLiteDeliverableRepo) Create(ctx context.Context, d *domain.Deliverable) error {
	kpis, err := kpisJSON(d.KPIs)
	if err != nil {
		return err
	}
	scope, err := scopeJSON(d.ScopeIDs)
	if err != nil {
		return err
	}
	query := `INSERT INTO deliverables (id, phase_id, scope_ids, name, description, assignee, owner, status,
		start_date, end_date, actual_start_date, actual_end_date,
		budget_plan, budget_actual, budget_additional, plan_man_days, actual_man_days,
		kpis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		d.ID, nullableString(d.PhaseID), scope, d.Name, d.Description, d.Assignee, d.Owner,
		domain.ClampStatus(d.Status),
		d.StartDate, d.EndDate, d.ActualStartDate, d.ActualEndDate,
		d.Budget.Plan, d.Budget.Actual, d.Budget.Additional,
		d.Resources.PlanManDays, d.Resources.ActualManDays,
		kpis, formatTime(d.CreatedAt), formatTime(d.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting deliverable: %w", err)
	}
	return nil
}

func (r *SQLiteDeliverableRepo) GetByID(ctx context.Context, id string) (*domain.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables d WHERE d.id = ?`
	d, err := scanDeliverable(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "deliverable", id)
	}
	return d, nil
}

func (r *SQLiteDeliverableRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Deliverable, error) {
	query := `SELECT ` + deliverableColumns + ` FROM deliverables d
		WHERE d.id IN (` + projectDeliverableIDs + `)
		ORDER BY d.created_at, d.id`
	rows, err := r.db.QueryContext(ctx, query, projectID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing deliverables: %w", err)
	}
	defer rows.Close()

	var out []*domain.Deliverable
	for rows.Next() {
		d, err := scanDeliverable(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning deliverable row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating deliverables: %w", err)
	}
	return out, nil
}

func (r *SQLiteDeliverableRepo) Update(ctx context.Context, d *domain.Deliverable) error {
	kpis, err := kpisJSON(d.KPIs)
	if err != nil {
		return err
	}
	scope, err := scopeJSON(d.ScopeIDs)
	if err != nil {
		return err
	}
	query := `UPDATE deliverables SET phase_id = ?, scope_ids = ?, name = ?, description = ?,
		assignee = ?, owner = ?, status = ?,
		start_date = ?, end_date = ?, actual_start_date = ?, actual_end_date = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?,
		plan_man_days = ?, actual_man_days = ?, kpis = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(d.PhaseID), scope, d.Name, d.Description,
		d.Assignee, d.Owner, domain.ClampStatus(d.Status),
		d.StartDate, d.EndDate, d.ActualStartDate, d.ActualEndDate,
		d.Budget.Plan, d.Budget.Actual, d.Budget.Additional,
		d.Resources.PlanManDays, d.Resources.ActualManDays,
		kpis, formatTime(d.UpdatedAt), d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating deliverable: %w", err)
	}
	return expectRow(res, "deliverable", d.ID)
}

func (r *SQLiteDeliverableRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM deliverables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting deliverable: %w", err)
	}
	return expectRow(res, "deliverable", id)
}

func scopeJSON(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	return toJSON(ids, "scope_ids")
}

func scanDeliverable(row rowScanner) (*domain.Deliverable, error) {
	var d domain.Deliverable
	var phaseID sql.NullString
	var scope, kpis, createdAt, updatedAt string
	err := row.Scan(
		&d.ID, &phaseID, &scope, &d.Name, &d.Description, &d.Assignee, &d.Owner, &d.Status,
		&d.StartDate, &d.EndDate, &d.ActualStartDate, &d.ActualEndDate,
		&d.Budget.Plan, &d.Budget.Actual, &d.Budget.Additional,
		&d.Resources.PlanManDays, &d.Resources.ActualManDays,
		&kpis, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.PhaseID = phaseID.String
	if err := fromJSON(scope, "scope_ids", &d.ScopeIDs); err != nil {
		return nil, err
	}
	if len(d.ScopeIDs) == 0 {
		d.ScopeIDs = nil
	}
	if d.KPIs, err = decodeKPIs(kpis); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &d, nil
}
