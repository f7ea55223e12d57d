package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/wbsline/internal/domain"
)

// ErrStaleWrite reports a compare-and-set update that matched no row because
// another writer changed it first.
var ErrStaleWrite = errors.New("stale write: row changed since it was read")

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// formatTime converts a time to the RFC3339 UTC form stored in SQLite.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a stored timestamp. Empty values yield the zero time.
func parseTime(s, column string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// toJSON encodes v for a TEXT column.
func toJSON(v any, column string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", column, err)
	}
	return string(b), nil
}

// fromJSON decodes a TEXT column into v. Empty values leave v untouched.
func fromJSON(s, column string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decoding %s: %w", column, err)
	}
	return nil
}

// kpisJSON encodes KPIs, storing an empty array for nil.
func kpisJSON(k []domain.KPI) (string, error) {
	if k == nil {
		k = []domain.KPI{}
	}
	return toJSON(k, "kpis")
}

// decodeKPIs decodes KPIs, returning nil for an empty array.
func decodeKPIs(s string) ([]domain.KPI, error) {
	var k []domain.KPI
	if err := fromJSON(s, "kpis", &k); err != nil {
		return nil, err
	}
	if len(k) == 0 {
		return nil, nil
	}
	return k, nil
}

// nullableString maps "" to SQL NULL.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// notFoundOr converts sql.ErrNoRows into a typed NotFoundError.
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("scanning %s: %w", entity, err)
}

// expectRow returns a NotFoundError when an update or delete matched nothing.
func expectRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows for %s: %w", entity, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
