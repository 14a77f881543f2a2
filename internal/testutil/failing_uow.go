package testutil

import (
	"context"
	"database/sql"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/costvar/internal/db"
)

// FailOnNthExecUoW runs transactions through the real SQLite unit of work
// but returns Err from the FailOn-th ExecContext (counted from 1). Reads
// are not counted. FailOn <= 0 never fails, which is handy for counting.
//
// An upload writes the session header, then every node of each tree view,
// then one row per process.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

// Execs reports how many ExecContext calls the last transaction made,
// including the one that failed.
func (u *FailOnNthExecUoW) Execs() int32 {
	return u.execs.Load()
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.execs.Store(0)
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, n: &u.execs, fail: func(n int32, _ string) bool {
			return n == u.FailOn
		}, err: u.Err})
	})
}

// FailOnTableUoW fails the first write statement that targets Table.
type FailOnTableUoW struct {
	DB    *sql.DB
	Table string
	Err   error
}

func (u *FailOnTableUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	var n atomic.Int32
	needle := " " + strings.ToLower(u.Table) + " "
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &countingTx{DBTX: tx, n: &n, fail: func(_ int32, query string) bool {
			return strings.Contains(strings.ToLower(query)+" ", needle)
		}, err: u.Err})
	})
}

type countingTx struct {
	db.DBTX
	n    *atomic.Int32
	fail func(n int32, query string) bool
	err  error
}

func (c *countingTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if c.fail(c.n.Add(1), query) {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
