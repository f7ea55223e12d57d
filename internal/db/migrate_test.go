package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		cols[name] = true
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "final_products", "phases", "deliverables", "work_packages", "baseline_snapshots"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_final_products_project",
		"idx_phases_final_product",
		"idx_deliverables_phase",
		"idx_work_packages_deliverable",
		"idx_baseline_snapshots_project",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_WALModeRequested(t *testing.T) {
	// In-memory SQLite reports "memory"; WAL only applies to file DBs.
	db := openTestDB(t)

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestMigrate_ManDayColumnsOnEveryLevel(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"projects", "final_products", "phases", "deliverables", "work_packages"} {
		cols := columnNames(t, db, table)
		assert.True(t, cols["plan_man_days"], "%s.plan_man_days", table)
		assert.True(t, cols["actual_man_days"], "%s.actual_man_days", table)
	}
	assert.True(t, columnNames(t, db, "deliverables")["scope_ids"])
}

func TestMigrate_ProjectsCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, name, status, created_at, updated_at)
		VALUES ('p1', 'Test', 'INVALID', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "invalid project status should be rejected")

	_, err = db.Exec(`INSERT INTO projects (id, name, baseline, created_at, updated_at)
		VALUES ('p2', 'Test', -1, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "negative baseline should be rejected")

	_, err = db.Exec(`INSERT INTO projects (id, name, created_at, updated_at)
		VALUES ('p3', 'Test', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_SnapshotVersionUnique(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO baseline_snapshots (id, project_id, version, content, created_at)
		VALUES (?, 'p1', 1, '{}', '2025-01-01T00:00:00Z')`
	_, err := db.Exec(insert, "s1")
	require.NoError(t, err)
	_, err = db.Exec(insert, "s2")
	assert.Error(t, err, "a version may be stored only once per project")
}

func TestMigrate_SnapshotVersionStartsAtOne(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO baseline_snapshots (id, project_id, version, content, created_at)
		VALUES ('s0', 'p1', 0, '{}', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err, "version 0 means no baseline and is never stored")
}

func TestMigrate_WorkPackageStatusRange(t *testing.T) {
	db := openTestDB(t)

	stmts := []string{
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'P', 'x', 'x')`,
		`INSERT INTO final_products (id, project_id, name, created_at, updated_at) VALUES ('f1', 'p1', 'F', 'x', 'x')`,
		`INSERT INTO phases (id, final_product_id, name, created_at, updated_at) VALUES ('ph1', 'f1', 'Ph', 'x', 'x')`,
		`INSERT INTO deliverables (id, phase_id, name, created_at, updated_at) VALUES ('d1', 'ph1', 'D', 'x', 'x')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}

	_, err := db.Exec(`INSERT INTO work_packages (id, deliverable_id, name, status, created_at, updated_at)
		VALUES ('w1', 'd1', 'W', 101, 'x', 'x')`)
	assert.Error(t, err)

	_, err = db.Exec(`INSERT INTO work_packages (id, deliverable_id, name, status, created_at, updated_at)
		VALUES ('w1', 'd1', 'W', 100, 'x', 'x')`)
	assert.NoError(t, err)
}
