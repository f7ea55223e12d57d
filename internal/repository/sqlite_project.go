package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, name, owner, business_unit, status,
	budget_plan, budget_actual, budget_additional, vendor,
	plan_man_days, actual_man_days, baseline, pending_changes, kpis,
	created_at, updated_at`

// projectArgs holds the encoded JSON columns of a project row.
type projectArgs struct {
	vendor  string
	pending any
	kpis    string
}

func encodeProject(p *domain.Project) (projectArgs, error) {
	var a projectArgs
	var err error
	if a.vendor, err = toJSON(p.Vendor, "vendor"); err != nil {
		return a, err
	}
	if p.PendingChanges != nil {
		s, err := toJSON(p.PendingChanges, "pending_changes")
		if err != nil {
			return a, err
		}
		a.pending = s
	}
	if a.kpis, err = kpisJSON(p.KPIs); err != nil {
		return a, err
	}
	return a, nil
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	a, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.Owner,
		p.BusinessUnit,
		string(p.Status),
		p.Budget.Plan,
		p.Budget.Actual,
		p.Budget.Additional,
		a.vendor,
		p.Resources.PlanManDays,
		p.Resources.ActualManDays,
		p.Baseline,
		a.pending,
		a.kpis,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "project", id)
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	a, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET name = ?, owner = ?, business_unit = ?, status = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?, vendor = ?,
		plan_man_days = ?, actual_man_days = ?, kpis = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Owner,
		p.BusinessUnit,
		string(p.Status),
		p.Budget.Plan,
		p.Budget.Actual,
		p.Budget.Additional,
		a.vendor,
		p.Resources.PlanManDays,
		p.Resources.ActualManDays,
		a.kpis,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return expectRow(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) SubmitPending(ctx context.Context, p *domain.Project) error {
	a, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET pending_changes = ?, updated_at = ?
		WHERE id = ? AND pending_changes IS NULL`
	res, err := r.db.ExecContext(ctx, query, a.pending, formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("storing pending changes: %w", err)
	}
	return staleIfNoRow(res, "storing pending changes")
}

func (r *SQLiteProjectRepo) ClearPending(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET pending_changes = NULL, updated_at = ?
		WHERE id = ? AND baseline = ? AND pending_changes IS NOT NULL`
	res, err := r.db.ExecContext(ctx, query, formatTime(p.UpdatedAt), p.ID, p.Baseline)
	if err != nil {
		return fmt.Errorf("clearing pending changes: %w", err)
	}
	return staleIfNoRow(res, "clearing pending changes")
}

// CommitBaseline applies an approval or override atomically. The RETURNING
// clause confirms the compare-and-set matched.
func (r *SQLiteProjectRepo) CommitBaseline(ctx context.Context, p *domain.Project, expectedBaseline int) error {
	a, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `UPDATE projects SET name = ?, owner = ?, business_unit = ?, status = ?,
		budget_plan = ?, budget_actual = ?, budget_additional = ?, vendor = ?,
		plan_man_days = ?, actual_man_days = ?, baseline = ?, pending_changes = ?,
		kpis = ?, updated_at = ?
		WHERE id = ? AND baseline = ?
		RETURNING baseline`
	var stored int
	err = r.db.QueryRowContext(ctx, query,
		p.Name,
		p.Owner,
		p.BusinessUnit,
		string(p.Status),
		p.Budget.Plan,
		p.Budget.Actual,
		p.Budget.Additional,
		a.vendor,
		p.Resources.PlanManDays,
		p.Resources.ActualManDays,
		p.Baseline,
		a.pending,
		a.kpis,
		formatTime(p.UpdatedAt),
		p.ID,
		expectedBaseline,
	).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("committing baseline %d for project %s: %w", p.Baseline, p.ID, ErrStaleWrite)
	}
	if err != nil {
		return fmt.Errorf("committing baseline for project %s: %w", p.ID, err)
	}
	return nil
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return expectRow(res, "project", id)
}

func staleIfNoRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: reading affected rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrStaleWrite)
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var status, vendor, kpis, createdAt, updatedAt string
	var pending sql.NullString

	err := row.Scan(
		&p.ID, &p.Name, &p.Owner, &p.BusinessUnit, &status,
		&p.Budget.Plan, &p.Budget.Actual, &p.Budget.Additional, &vendor,
		&p.Resources.PlanManDays, &p.Resources.ActualManDays,
		&p.Baseline, &pending, &kpis,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(status)
	if err := fromJSON(vendor, "vendor", &p.Vendor); err != nil {
		return nil, err
	}
	if pending.Valid && pending.String != "" {
		var cp domain.ChangeProposal
		if err := fromJSON(pending.String, "pending_changes", &cp); err != nil {
			return nil, err
		}
		p.PendingChanges = &cp
	}
	if p.KPIs, err = decodeKPIs(kpis); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
