package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stevenovak55/bmnboston-sub015/internal/geocode"
	"github.com/stevenovak55/bmnboston-sub015/internal/logging"
	"github.com/stevenovak55/bmnboston-sub015/internal/storage"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.LevelError, logging.FormatText)
}

type sqlCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

func scanBool(v bool) pgx.Row {
	return fakeRow{scan: func(dest ...any) error {
		*(dest[0].(*bool)) = v
		return nil
	}}
}

// fakeQuerier records SQL calls. execFunc, when set, decides the outcome
// per call; otherwise every Exec reports one affected row.
type fakeQuerier struct {
	calls    []sqlCall
	execFunc func(sql string, args []any) (pgconn.CommandTag, error)
	rowFunc  func(sql string, args []any) pgx.Row
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, sqlCall{sql: sql, args: args})
	if f.execFunc != nil {
		return f.execFunc(sql, args)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if f.rowFunc != nil {
		return f.rowFunc(sql, args)
	}
	// Default: existence checks report no row, forcing the insert path.
	return scanBool(false)
}

// callsMatching returns the recorded calls whose SQL contains the fragment.
func (f *fakeQuerier) callsMatching(fragment string) []sqlCall {
	var matched []sqlCall
	for _, call := range f.calls {
		if strings.Contains(call.sql, fragment) {
			matched = append(matched, call)
		}
	}
	return matched
}

type fakeTx struct {
	*fakeQuerier
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

// fakeDB hands out fake transactions that share its querier, so a test can
// inspect all SQL in one place.
type fakeDB struct {
	fakeQuerier
	txs []*fakeTx
}

func (db *fakeDB) BeginTx(context.Context) (storage.Tx, error) {
	tx := &fakeTx{fakeQuerier: &db.fakeQuerier}
	db.txs = append(db.txs, tx)
	return tx, nil
}

type fakeGeocoder struct {
	result   *geocode.Result
	err      error
	calls    int
	lastAddr geocode.Address
}

func (g *fakeGeocoder) Resolve(_ context.Context, addr geocode.Address) (*geocode.Result, error) {
	g.calls++
	g.lastAddr = addr
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

// recordingSubscriber captures dispatched events.
type recordingSubscriber struct {
	mu     sync.Mutex
	events []ListingChanged
}

func (s *recordingSubscriber) Name() string { return "recorder" }

func (s *recordingSubscriber) HandleListingChanged(_ context.Context, event ListingChanged) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSubscriber) recorded() []ListingChanged {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ListingChanged(nil), s.events...)
}

// failOnTable returns an execFunc that errors for statements touching the
// named table.
func failOnTable(table string) func(sql string, args []any) (pgconn.CommandTag, error) {
	return func(sql string, _ []any) (pgconn.CommandTag, error) {
		if strings.Contains(sql, table) {
			return pgconn.CommandTag{}, fmt.Errorf("simulated failure on %s", table)
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
}
