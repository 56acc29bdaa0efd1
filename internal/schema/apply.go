package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Beginner starts transactions. Satisfied by *pgxpool.Pool, *pgxpool.Conn and *pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Create creates every missing table in one transaction.
func Create(ctx context.Context, db Beginner) error {
	return apply(ctx, db, CreateStatements())
}

// Reset drops every table and creates it again in one transaction.
func Reset(ctx context.Context, db Beginner) error {
	return apply(ctx, db, append(DropStatements(), CreateStatements()...))
}

func apply(ctx context.Context, db Beginner, stmts []string) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", sparkify.ErrSchema, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	for _, stmt := range stmts {
		if _, err = tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %s: %v", sparkify.ErrSchema, firstLine(stmt), err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: commit: %v", sparkify.ErrSchema, err)
	}
	return nil
}

func firstLine(stmt string) string {
	for i, r := range stmt {
		if r == '\n' {
			return stmt[:i]
		}
	}
	return stmt
}
