package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB hands out fakeTx values and keeps every one it created.
type fakeDB struct {
	txs       []*fakeTx
	execFunc  func(sql string, args ...any) error
	lookupHit bool
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &fakeTx{db: db}
	db.txs = append(db.txs, tx)
	return tx, nil
}

// statements returns the leading keyword and table of every Exec, across transactions.
func (db *fakeDB) statements() []string {
	var out []string
	for _, tx := range db.txs {
		out = append(out, tx.stmts...)
	}
	return out
}

type fakeTx struct {
	pgx.Tx
	db         *fakeDB
	stmts      []string
	songplays  [][]any
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.db.execFunc != nil {
		if err := tx.db.execFunc(sql, args...); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	fields := strings.Fields(sql)
	tx.stmts = append(tx.stmts, fields[0]+" "+fields[2])
	if fields[2] == "songplays" {
		tx.songplays = append(tx.songplays, args)
	}
	return pgconn.CommandTag{}, nil
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	hit := tx.db.lookupHit
	return rowFunc(func(dest ...any) error {
		if !hit {
			return pgx.ErrNoRows
		}
		*dest[0].(*string) = fmt.Sprintf("SO-%v", args[0])
		*dest[1].(*string) = fmt.Sprintf("AR-%v", args[1])
		return nil
	})
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	tx.rolledBack = true
	return nil
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

type progressEvent struct {
	kind  string
	done  int
	total int
	path  string
}

type recordingReporter struct {
	events []progressEvent
}

func (r *recordingReporter) Discovered(root string, total int) {
	r.events = append(r.events, progressEvent{kind: "discovered", total: total, path: root})
}

func (r *recordingReporter) Processed(done, total int, path string) {
	r.events = append(r.events, progressEvent{kind: "processed", done: done, total: total, path: path})
}

func (r *recordingReporter) Finished(root string, total int) {
	r.events = append(r.events, progressEvent{kind: "finished", total: total, path: root})
}
