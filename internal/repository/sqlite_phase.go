package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLitePhaseRepo implements PhaseRepo using a SQLite database.
type SQLitePhaseRepo struct {
	db db.DBTX
}

func NewSQLitePhaseRepo(conn db.DBTX) *SQLitePhaseRepo {
	return &SQLitePhaseRepo{db: conn}
}

const phaseColumns = `ph.id, ph.final_product_id, ph.name, ph.description, ph.owner, ph.timeline,
	ph.budget_plan, ph.budget_actual, ph.budget_additional, ph.plan_man_days, ph.actual_man_days,
	ph.kpis, ph.created_at, ph.updated_at`

func (r *SQLitePhaseRepo) Create(ctx context.Context, ph *domain.Phase) error {
	kpis, err := kpisJSON(ph.KPIs)
	if err != nil {
		return err
	}
	query := `INSERT INTO phases (id, final_product_id, name, description, owner, timeline,
		budget_plan, budget_actual, budget_additional, plan_man_days, actual_man_days,
		kpis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		ph.ID, ph.FinalProductID, ph.Name, ph.Description, ph.Owner, ph.TimelineHint,
		ph.Budget.Plan, ph.Budget.Actual, ph.Budget.Additional,
		ph.Resources.PlanManDays, ph.Resources.ActualManDays,
		kpis, formatTime(ph.CreatedAt), formatTime(ph.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting phase: %w", err)
	}
	return nil
}

func (r *SQLitePhaseRepo) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases ph WHERE ph.id = ?`
	ph, err := scanPhase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "phase", id)
	}
	return ph, nil
}

func (r *SQLitePhaseRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases ph
		JOIN final_products fp ON ph.final_product_id = fp.id
		WHERE fp.project_id = ?
		ORDER BY ph.created_at, ph.id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing phases: %w", err)
	}
	defer rows.Close()

	var out []*domain.Phase
	for rows.Next() {
		ph, err := scanPhase(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning phase row: %w", err)
		}
		out = append(out, ph)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating phases: %w", err)
	}
	return out, nil
}

func (r *SQLitePhaseRepo) Update(ctx context.Context, ph *domain.Phase) error {
	kpis, err := kpisJSON(ph.KPIs)
	if err != nil {
		return err
	}
	query := `UPDATE phases SET name = ?, description = ?, owner = ?, timeline = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?,
		plan_man_days = ?, actual_man_days = ?, kpis = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		ph.Name, ph.Description, ph.Owner, ph.TimelineHint,
		ph.Budget.Plan, ph.Budget.Actual, ph.Budget.Additional,
		ph.Resources.PlanManDays, ph.Resources.ActualManDays,
		kpis, formatTime(ph.UpdatedAt), ph.ID,
	)
	if err != nil {
		return fmt.Errorf("updating phase: %w", err)
	}
	return expectRow(res, "phase", ph.ID)
}

func (r *SQLitePhaseRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting phase: %w", err)
	}
	return expectRow(res, "phase", id)
}

func scanPhase(row rowScanner) (*domain.Phase, error) {
	var ph domain.Phase
	var kpis, createdAt, updatedAt string
	err := row.Scan(
		&ph.ID, &ph.FinalProductID, &ph.Name, &ph.Description, &ph.Owner, &ph.TimelineHint,
		&ph.Budget.Plan, &ph.Budget.Actual, &ph.Budget.Additional,
		&ph.Resources.PlanManDays, &ph.Resources.ActualManDays,
		&kpis, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if ph.KPIs, err = decodeKPIs(kpis); err != nil {
		return nil, err
	}
	if ph.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if ph.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &ph, nil
}
