package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/db"
	"github.com/alexanderramin/wbsline/internal/domain"
)

// SQLiteSnapshotRepo implements SnapshotRepo. Content is stored as one JSON
// document per snapshot; rows are never updated.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) Append(ctx context.Context, s *domain.BaselineSnapshot) error {
	content, err := toJSON(s.Content, "content")
	if err != nil {
		return err
	}
	query := `INSERT INTO baseline_snapshots (id, project_id, version, content, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, s.ID, s.ProjectID, s.Version, content, formatTime(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("appending snapshot v%d for project %s: %w", s.Version, s.ProjectID, err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) GetByVersion(ctx context.Context, projectID string, version int) (*domain.BaselineSnapshot, error) {
	query := `SELECT id, project_id, version, content, created_at
		FROM baseline_snapshots WHERE project_id = ? AND version = ?`
	s, err := scanSnapshot(r.db.QueryRowContext(ctx, query, projectID, version))
	if err != nil {
		return nil, notFoundOr(err, "snapshot", fmt.Sprintf("%s@v%d", projectID, version))
	}
	return s, nil
}

// ListByProject returns snapshots newest first.
func (r *SQLiteSnapshotRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.BaselineSnapshot, error) {
	query := `SELECT id, project_id, version, content, created_at
		FROM baseline_snapshots WHERE project_id = ? ORDER BY version DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.BaselineSnapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return out, nil
}

func (r *SQLiteSnapshotRepo) MaxVersion(ctx context.Context, projectID string) (int, error) {
	var v int
	query := `SELECT COALESCE(MAX(version), -1) FROM baseline_snapshots WHERE project_id = ?`
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading max snapshot version for %s: %w", projectID, err)
	}
	return v, nil
}

func scanSnapshot(row rowScanner) (*domain.BaselineSnapshot, error) {
	var s domain.BaselineSnapshot
	var content, createdAt string
	if err := row.Scan(&s.ID, &s.ProjectID, &s.Version, &content, &createdAt); err != nil {
		return nil, err
	}
	if err := fromJSON(content, "content", &s.Content); err != nil {
		return nil, err
	}
	var err error
	if s.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &s, nil
}
