package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLiteWorkPackageRepo implements WorkPackageRepo using a SQLite database.
type SQLiteWorkPackageRepo struct {
	db db.DBTX
}

func NewSQLiteWorkPackageRepo(conn db.DBTX) *SQLiteWorkPackageRepo {
	return &SQLiteWorkPackageRepo{db: conn}
}

const workPackageColumns = `id, deliverable_id, name, description, assignee, status,
	start_date, end_date, actual_start_date, actual_end_date,
	budget_plan, budget_actual, budget_additional, plan_man_days, actual_man_days,
	kpis, created_at, updated_at`

func (r *SQLiteWorkPackageRepo) Create(ctx context.Context, wp *domain.WorkPackage) error {
	kpis, err := kpisJSON(wp.KPIs)
	if err != nil {
		return err
	}
	query := `INSERT INTO work_packages (` + workPackageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		wp.ID, wp.DeliverableID, wp.Name, wp.Description, wp.Assignee,
		domain.ClampStatus(wp.Status),
		wp.StartDate, wp.EndDate, wp.ActualStartDate, wp.ActualEndDate,
		wp.Budget.Plan, wp.Budget.Actual, wp.Budget.Additional,
		wp.Resources.PlanManDays, wp.Resources.ActualManDays,
		kpis, formatTime(wp.CreatedAt), formatTime(wp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting work package: %w", err)
	}
	return nil
}

func (r *SQLiteWorkPackageRepo) GetByID(ctx context.Context, id string) (*domain.WorkPackage, error) {
	query := `SELECT ` + workPackageColumns + ` FROM work_packages WHERE id = ?`
	wp, err := scanWorkPackage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "work package", id)
	}
	return wp, nil
}

func (r *SQLiteWorkPackageRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkPackage, error) {
	query := `SELECT ` + workPackageColumns + ` FROM work_packages
		WHERE deliverable_id IN (` + projectDeliverableIDs + `)
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work packages: %w", err)
	}
	defer rows.Close()

	var out []*domain.WorkPackage
	for rows.Next() {
		wp, err := scanWorkPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work package row: %w", err)
		}
		out = append(out, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work packages: %w", err)
	}
	return out, nil
}

func (r *SQLiteWorkPackageRepo) Update(ctx context.Context, wp *domain.WorkPackage) error {
	kpis, err := kpisJSON(wp.KPIs)
	if err != nil {
		return err
	}
	query := `UPDATE work_packages SET name = ?, description = ?, assignee = ?, status = ?,
		start_date = ?, end_date = ?, actual_start_date = ?, actual_end_date = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?,
		plan_man_days = ?, actual_man_days = ?, kpis = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		wp.Name, wp.Description, wp.Assignee, domain.ClampStatus(wp.Status),
		wp.StartDate, wp.EndDate, wp.ActualStartDate, wp.ActualEndDate,
		wp.Budget.Plan, wp.Budget.Actual, wp.Budget.Additional,
		wp.Resources.PlanManDays, wp.Resources.ActualManDays,
		kpis, formatTime(wp.UpdatedAt), wp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating work package: %w", err)
	}
	return expectRow(res, "work package", wp.ID)
}

func (r *SQLiteWorkPackageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_packages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work package: %w", err)
	}
	return expectRow(res, "work package", id)
}

func scanWorkPackage(row rowScanner) (*domain.WorkPackage, error) {
	var wp domain.WorkPackage
	var kpis, createdAt, updatedAt string
	err := row.Scan(
		&wp.ID, &wp.DeliverableID, &wp.Name, &wp.Description, &wp.Assignee, &wp.Status,
		&wp.StartDate, &wp.EndDate, &wp.ActualStartDate, &wp.ActualEndDate,
		&wp.Budget.Plan, &wp.Budget.Actual, &wp.Budget.Additional,
		&wp.Resources.PlanManDays, &wp.Resources.ActualManDays,
		&kpis, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if wp.KPIs, err = decodeKPIs(kpis); err != nil {
		return nil, err
	}
	if wp.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if wp.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &wp, nil
}
