package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/wbsline/internal/db"
)

// FailOnNthExecUoW injects Err into one write of a transaction so rollback
// paths can be tested at a precise point of a multi-write command.
//
// With FailOn set, the FailOn-th ExecContext call fails (counting from 1).
// With Matching set, the first ExecContext whose SQL contains Matching fails
// instead, e.g. "INSERT INTO baseline_snapshots". Reads pass through, and so
// do writes issued through QueryRowContext with RETURNING.
type FailOnNthExecUoW struct {
	DB       *sql.DB
	FailOn   int32
	Matching string
	Err      error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failingTx{DBTX: tx, failOn: u.FailOn, matching: u.Matching, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failingTx struct {
	db.DBTX
	count    atomic.Int32
	fired    atomic.Bool
	failOn   int32
	matching string
	err      error
}

func (f *failingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if f.shouldFail(n, query) {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

func (f *failingTx) shouldFail(n int32, query string) bool {
	if f.matching != "" {
		return strings.Contains(query, f.matching) && f.fired.CompareAndSwap(false, true)
	}
	return n == f.failOn
}
