package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLiteFinalProductRepo implements FinalProductRepo using a SQLite database.
type SQLiteFinalProductRepo struct {
	db db.DBTX
}

func NewSQLiteFinalProductRepo(conn db.DBTX) *SQLiteFinalProductRepo {
	return &SQLiteFinalProductRepo{db: conn}
}

const finalProductColumns = `id, project_id, name, description, owner,
	budget_plan, budget_actual, budget_additional, plan_man_days, actual_man_days,
	kpis, created_at, updated_at`

func (r *SQLiteFinalProductRepo) Create(ctx context.Context, fp *domain.FinalProduct) error {
	kpis, err := kpisJSON(fp.KPIs)
	if err != nil {
		return err
	}
	query := `INSERT INTO final_products (` + finalProductColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		fp.ID, fp.ProjectID, fp.Name, fp.Description, fp.Owner,
		fp.Budget.Plan, fp.Budget.Actual, fp.Budget.Additional,
		fp.Resources.PlanManDays, fp.Resources.ActualManDays,
		kpis, formatTime(fp.CreatedAt), formatTime(fp.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting final product: %w", err)
	}
	return nil
}

func (r *SQLiteFinalProductRepo) GetByID(ctx context.Context, id string) (*domain.FinalProduct, error) {
	query := `SELECT ` + finalProductColumns + ` FROM final_products WHERE id = ?`
	fp, err := scanFinalProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "final product", id)
	}
	return fp, nil
}

func (r *SQLiteFinalProductRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.FinalProduct, error) {
	query := `SELECT ` + finalProductColumns + ` FROM final_products
		WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing final products: %w", err)
	}
	defer rows.Close()

	var out []*domain.FinalProduct
	for rows.Next() {
		fp, err := scanFinalProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning final product row: %w", err)
		}
		out = append(out, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating final products: %w", err)
	}
	return out, nil
}

func (r *SQLiteFinalProductRepo) Update(ctx context.Context, fp *domain.FinalProduct) error {
	kpis, err := kpisJSON(fp.KPIs)
	if err != nil {
		return err
	}
	query := `UPDATE final_products SET name = ?, description = ?, owner = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?,
		plan_man_days = ?, actual_man_days = ?, kpis = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		fp.Name, fp.Description, fp.Owner,
		fp.Budget.Plan, fp.Budget.Actual, fp.Budget.Additional,
		fp.Resources.PlanManDays, fp.Resources.ActualManDays,
		kpis, formatTime(fp.UpdatedAt), fp.ID,
	)
	if err != nil {
		return fmt.Errorf("updating final product: %w", err)
	}
	return expectRow(res, "final product", fp.ID)
}

func (r *SQLiteFinalProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM final_products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting final product: %w", err)
	}
	return expectRow(res, "final product", id)
}

func scanFinalProduct(row rowScanner) (*domain.FinalProduct, error) {
	var fp domain.FinalProduct
	var kpis, createdAt, updatedAt string
	err := row.Scan(
		&fp.ID, &fp.ProjectID, &fp.Name, &fp.Description, &fp.Owner,
		&fp.Budget.Plan, &fp.Budget.Actual, &fp.Budget.Additional,
		&fp.Resources.PlanManDays, &fp.Resources.ActualManDays,
		&kpis, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if fp.KPIs, err = decodeKPIs(kpis); err != nil {
		return nil, err
	}
	if fp.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if fp.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &fp, nil
}
