package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// execCall records one Exec invocation against the fake querier.
type execCall struct {
	sql  string
	args []any
}

// fakeRow implements pgx.Row with a canned scan function.
type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scan(dest...)
}

// fakeQuerier satisfies Querier for tests. QueryRow dispatches to rowFunc;
// Exec records the call and returns execTag/execErr.
type fakeQuerier struct {
	execCalls []execCall
	execTag   pgconn.CommandTag
	execErr   error
	rowFunc   func(sql string, args []any) pgx.Row
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execCalls = append(f.execCalls, execCall{sql: sql, args: args})
	return f.execTag, f.execErr
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if f.rowFunc == nil {
		return fakeRow{scan: func(...any) error {
			return fmt.Errorf("unexpected QueryRow: %s", sql)
		}}
	}
	return f.rowFunc(sql, args)
}

// scanBool returns a row that scans a single bool.
func scanBool(v bool) pgx.Row {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*bool)) = v
		return nil
	}}
}

// scanInt64 returns a row that scans a single int64.
func scanInt64(v int64) pgx.Row {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*int64)) = v
		return nil
	}}
}
