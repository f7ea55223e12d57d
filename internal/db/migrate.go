package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateSingleScopeDeliverables(db); err != nil {
		return fmt.Errorf("normalizing deliverable scope links: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		owner             TEXT NOT NULL DEFAULT '',
		business_unit     TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT 'planned'
		                  CHECK(status IN ('planned','active','on_hold','closed')),
		budget_plan       REAL NOT NULL DEFAULT 0,
		budget_actual     REAL NOT NULL DEFAULT 0,
		budget_additional REAL NOT NULL DEFAULT 0,
		vendor            TEXT NOT NULL DEFAULT '{}',
		baseline          INTEGER NOT NULL DEFAULT 0 CHECK(baseline >= 0),
		pending_changes   TEXT,
		kpis              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS final_products (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		owner             TEXT NOT NULL DEFAULT '',
		budget_plan       REAL NOT NULL DEFAULT 0,
		budget_actual     REAL NOT NULL DEFAULT 0,
		budget_additional REAL NOT NULL DEFAULT 0,
		kpis              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_final_products_project ON final_products(project_id)`,

	`CREATE TABLE IF NOT EXISTS phases (
		id                TEXT PRIMARY KEY,
		final_product_id  TEXT NOT NULL REFERENCES final_products(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		owner             TEXT NOT NULL DEFAULT '',
		timeline          TEXT NOT NULL DEFAULT '',
		budget_plan       REAL NOT NULL DEFAULT 0,
		budget_actual     REAL NOT NULL DEFAULT 0,
		budget_additional REAL NOT NULL DEFAULT 0,
		kpis              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_final_product ON phases(final_product_id)`,

	`CREATE TABLE IF NOT EXISTS deliverables (
		id                TEXT PRIMARY KEY,
		phase_id          TEXT REFERENCES phases(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		assignee          TEXT NOT NULL DEFAULT '',
		owner             TEXT NOT NULL DEFAULT '',
		status            INTEGER NOT NULL DEFAULT 0 CHECK(status BETWEEN 0 AND 100),
		start_date        TEXT NOT NULL DEFAULT '',
		end_date          TEXT NOT NULL DEFAULT '',
		actual_start_date TEXT NOT NULL DEFAULT '',
		actual_end_date   TEXT NOT NULL DEFAULT '',
		budget_plan       REAL NOT NULL DEFAULT 0,
		budget_actual     REAL NOT NULL DEFAULT 0,
		budget_additional REAL NOT NULL DEFAULT 0,
		kpis              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_deliverables_phase ON deliverables(phase_id)`,

	`CREATE TABLE IF NOT EXISTS work_packages (
		id                TEXT PRIMARY KEY,
		deliverable_id    TEXT NOT NULL REFERENCES deliverables(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		assignee          TEXT NOT NULL DEFAULT '',
		status            INTEGER NOT NULL DEFAULT 0 CHECK(status BETWEEN 0 AND 100),
		start_date        TEXT NOT NULL DEFAULT '',
		end_date          TEXT NOT NULL DEFAULT '',
		actual_start_date TEXT NOT NULL DEFAULT '',
		actual_end_date   TEXT NOT NULL DEFAULT '',
		budget_plan       REAL NOT NULL DEFAULT 0,
		budget_actual     REAL NOT NULL DEFAULT 0,
		budget_additional REAL NOT NULL DEFAULT 0,
		kpis              TEXT NOT NULL DEFAULT '[]',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_packages_deliverable ON work_packages(deliverable_id)`,

	// Snapshots outlive their project: no foreign key, history is append-only.
	`CREATE TABLE IF NOT EXISTS baseline_snapshots (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL,
		version     INTEGER NOT NULL CHECK(version >= 1),
		content     TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		UNIQUE(project_id, version)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_baseline_snapshots_project ON baseline_snapshots(project_id)`,

	// Man-day tracking at every level
	`ALTER TABLE projects ADD COLUMN plan_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE projects ADD COLUMN actual_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE final_products ADD COLUMN plan_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE final_products ADD COLUMN actual_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE phases ADD COLUMN plan_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE phases ADD COLUMN actual_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE deliverables ADD COLUMN plan_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE deliverables ADD COLUMN actual_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE work_packages ADD COLUMN plan_man_days REAL NOT NULL DEFAULT 0`,
	`ALTER TABLE work_packages ADD COLUMN actual_man_days REAL NOT NULL DEFAULT 0`,

	// Legacy many-to-many deliverable links, JSON array of phase ids
	`ALTER TABLE deliverables ADD COLUMN scope_ids TEXT NOT NULL DEFAULT '[]'`,
}

// migrateSingleScopeDeliverables promotes legacy deliverables that name
// exactly one existing phase in scope_ids to a direct phase_id link, so
// they cascade with their phase. Idempotent: only rows with a NULL phase_id
// are touched.
func migrateSingleScopeDeliverables(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE deliverables
		SET phase_id = json_extract(scope_ids, '$[0]'), scope_ids = '[]'
		WHERE phase_id IS NULL
		  AND json_valid(scope_ids)
		  AND json_array_length(scope_ids) = 1
		  AND json_extract(scope_ids, '$[0]') IN (SELECT id FROM phases)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("promoting single-scope deliverables: %w", err)
	}
	return nil
}
