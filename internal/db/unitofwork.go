package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/wbsline/internal/domain"
)

// UnitOfWork is the transaction boundary for multi-write commands such as a
// baseline approval (snapshot append plus project compare-and-set). The
// callback receives a DBTX backed by a *sql.Tx; callers build tx-scoped
// repositories from it.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLiteUnitOfWork implements UnitOfWork with database/sql transactions.
type SQLiteUnitOfWork struct {
	db *sql.DB
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db}
}

// WithinTx commits when fn returns nil and rolls back otherwise, including on
// panic. Errors from fn are returned as is. Failing to begin or commit is a
// storage failure and comes back as *domain.PersistenceError.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.PersistenceError{Op: "begin transaction", Err: err}
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &domain.PersistenceError{Op: "commit transaction", Err: err}
	}
	return nil
}
